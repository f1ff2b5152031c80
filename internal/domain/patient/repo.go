package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// List returns all patients in creation order.
	List(ctx context.Context) ([]*Patient, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Create(ctx context.Context, p *Patient) error
	// Update applies the non-nil fields of in and returns the updated row.
	Update(ctx context.Context, id uuid.UUID, in *UpdateInput) (*Patient, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
