package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/medbill/medbill/internal/domain/patient"
)

type ServiceRepository interface {
	// List returns all services in creation order.
	List(ctx context.Context) ([]*MedicalService, error)
	GetByID(ctx context.Context, id uuid.UUID) (*MedicalService, error)
	Create(ctx context.Context, s *MedicalService) error
	// Update applies the non-nil fields of in and returns the updated row.
	Update(ctx context.Context, id uuid.UUID, in *ServiceUpdateInput) (*MedicalService, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type InvoiceRepository interface {
	// ListWithDetails returns all invoices in creation order, each joined to
	// its patient (nil if deleted) and line items.
	ListWithDetails(ctx context.Context) ([]*InvoiceWithDetails, error)
	GetWithDetails(ctx context.Context, id uuid.UUID) (*InvoiceWithDetails, error)
	// CreateWithItems inserts the invoice and its items atomically; items are
	// stamped with the new invoice's id before insert.
	CreateWithItems(ctx context.Context, inv *Invoice, items []*InvoiceItem) error
	// UpdateStatus reports whether an invoice row was updated.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (bool, error)
	// DeleteCascade removes the invoice's items and then the invoice,
	// reporting whether the invoice existed.
	DeleteCascade(ctx context.Context, id uuid.UUID) (bool, error)
}

// PatientDirectory is the slice of the patient domain the billing service
// needs: existence checks and the joined read after invoice creation.
type PatientDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

// TaxRateSource supplies the default tax rate when a request does not
// override it. Backed by the hospital settings singleton.
type TaxRateSource interface {
	DefaultTaxRate(ctx context.Context) (string, error)
}
