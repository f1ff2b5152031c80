package dashboard

import (
	"context"
	"time"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// monthRange returns the half-open interval covering now's calendar month.
func monthRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	from, to := monthRange(s.now())
	return s.repo.Stats(ctx, from, to)
}
