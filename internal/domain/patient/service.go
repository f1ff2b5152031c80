package patient

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/google/uuid"
)

var validStatuses = map[string]bool{"active": true, "inactive": true}

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

func (s *Service) List(ctx context.Context) ([]*Patient, error) {
	return s.patients.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Email != nil && *p.Email != "" {
		if _, err := mail.ParseAddress(*p.Email); err != nil {
			return fmt.Errorf("invalid email: %s", *p.Email)
		}
	}
	if p.Status == "" {
		p.Status = "active"
	}
	if !validStatuses[p.Status] {
		return fmt.Errorf("invalid patient status: %s", p.Status)
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in *UpdateInput) (*Patient, error) {
	if in.Name != nil && *in.Name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}
	if in.Email != nil && *in.Email != "" {
		if _, err := mail.ParseAddress(*in.Email); err != nil {
			return nil, fmt.Errorf("invalid email: %s", *in.Email)
		}
	}
	if in.Status != nil && !validStatuses[*in.Status] {
		return nil, fmt.Errorf("invalid patient status: %s", *in.Status)
	}
	return s.patients.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.patients.Delete(ctx, id)
}
