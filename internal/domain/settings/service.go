package settings

import (
	"context"
	"fmt"
	"net/mail"
	"strconv"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context) (*HospitalSettings, error) {
	return s.repo.Get(ctx)
}

func (s *Service) Save(ctx context.Context, in *UpsertInput) (*HospitalSettings, error) {
	if in.Name != nil && *in.Name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}
	if in.Email != nil && *in.Email != "" {
		if _, err := mail.ParseAddress(*in.Email); err != nil {
			return nil, fmt.Errorf("invalid email address: %q", *in.Email)
		}
	}
	if in.TaxRate != nil {
		rate, err := strconv.ParseFloat(*in.TaxRate, 64)
		if err != nil || rate < 0 {
			return nil, fmt.Errorf("tax rate must be a non-negative number, got %q", *in.TaxRate)
		}
	}
	return s.repo.Upsert(ctx, in)
}

// DefaultTaxRate reports the configured tax rate for new invoices, or "0.00"
// when settings have not been saved yet.
func (s *Service) DefaultTaxRate(ctx context.Context) (string, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return "", err
	}
	if cfg == nil || cfg.TaxRate == "" {
		return "0.00", nil
	}
	return cfg.TaxRate, nil
}
