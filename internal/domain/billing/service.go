package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrPatientNotFound is returned when an invoice references an unknown patient.
var ErrPatientNotFound = errors.New("patient not found")

var validInvoiceStatuses = map[string]bool{"pending": true, "paid": true}

type Service struct {
	services ServiceRepository
	invoices InvoiceRepository
	patients PatientDirectory
	taxRates TaxRateSource
	now      func() time.Time
}

func NewService(services ServiceRepository, invoices InvoiceRepository, patients PatientDirectory, taxRates TaxRateSource) *Service {
	return &Service{
		services: services,
		invoices: invoices,
		patients: patients,
		taxRates: taxRates,
		now:      time.Now,
	}
}

// -- Medical services --

func (s *Service) ListServices(ctx context.Context) ([]*MedicalService, error) {
	return s.services.List(ctx)
}

func (s *Service) GetService(ctx context.Context, id uuid.UUID) (*MedicalService, error) {
	return s.services.GetByID(ctx, id)
}

func (s *Service) CreateService(ctx context.Context, m *MedicalService) error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Category == "" {
		return fmt.Errorf("category is required")
	}
	cents, err := ParseAmount(m.Price)
	if err != nil || cents <= 0 {
		return fmt.Errorf("price must be a positive amount, got %q", m.Price)
	}
	m.Price = FormatAmount(cents)
	return s.services.Create(ctx, m)
}

func (s *Service) UpdateService(ctx context.Context, id uuid.UUID, in *ServiceUpdateInput) (*MedicalService, error) {
	if in.Name != nil && *in.Name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}
	if in.Category != nil && *in.Category == "" {
		return nil, fmt.Errorf("category cannot be empty")
	}
	if in.Price != nil {
		cents, err := ParseAmount(*in.Price)
		if err != nil || cents <= 0 {
			return nil, fmt.Errorf("price must be a positive amount, got %q", *in.Price)
		}
		normalized := FormatAmount(cents)
		in.Price = &normalized
	}
	return s.services.Update(ctx, id, in)
}

func (s *Service) DeleteService(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.services.Delete(ctx, id)
}

// -- Invoices --

func (s *Service) ListInvoices(ctx context.Context) ([]*InvoiceWithDetails, error) {
	return s.invoices.ListWithDetails(ctx)
}

func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceWithDetails, error) {
	return s.invoices.GetWithDetails(ctx, id)
}

// CreateInvoice composes and persists an invoice from a patient reference and
// submitted line items. Subtotal, tax, and total are computed in cents and
// stored as decimal-string snapshots; the tax rate falls back to the hospital
// settings default when the request does not supply one.
func (s *Service) CreateInvoice(ctx context.Context, in *CreateInvoiceInput, items []CreateItemInput) (*InvoiceWithDetails, error) {
	if in.PatientID == uuid.Nil {
		return nil, fmt.Errorf("patientId is required")
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("at least one invoice item is required")
	}
	if in.Status == "" {
		in.Status = "pending"
	}
	if !validInvoiceStatuses[in.Status] {
		return nil, fmt.Errorf("invalid invoice status: %s", in.Status)
	}

	if _, err := s.patients.GetByID(ctx, in.PatientID); err != nil {
		return nil, ErrPatientNotFound
	}

	taxRate := ""
	if in.TaxRate != nil {
		taxRate = *in.TaxRate
	} else if s.taxRates != nil {
		rate, err := s.taxRates.DefaultTaxRate(ctx)
		if err == nil {
			taxRate = rate
		}
	}
	if taxRate == "" {
		taxRate = "0.00"
	}
	rateBP, err := ParseRate(taxRate)
	if err != nil || rateBP < 0 {
		return nil, fmt.Errorf("invalid tax rate: %q", taxRate)
	}

	var subtotal int64
	lineItems := make([]*InvoiceItem, 0, len(items))
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("item %d: quantity must be positive", i+1)
		}
		unitCents, err := ParseAmount(item.UnitPrice)
		if err != nil || unitCents < 0 {
			return nil, fmt.Errorf("item %d: invalid unit price %q", i+1, item.UnitPrice)
		}
		lineTotal := int64(item.Quantity) * unitCents
		subtotal += lineTotal

		serviceName := ""
		serviceID := item.ServiceID
		var sidPtr *uuid.UUID
		if serviceID != uuid.Nil {
			sidPtr = &serviceID
			if svc, err := s.services.GetByID(ctx, serviceID); err == nil {
				serviceName = svc.Name
			}
		}

		lineItems = append(lineItems, &InvoiceItem{
			ServiceID:   sidPtr,
			ServiceName: serviceName,
			Quantity:    item.Quantity,
			UnitPrice:   FormatAmount(unitCents),
			Total:       FormatAmount(lineTotal),
		})
	}

	tax := TaxFor(subtotal, rateBP)
	now := s.now()

	invoiceDate := now
	if in.InvoiceDate != nil {
		invoiceDate = *in.InvoiceDate
	}
	dueDate := now.AddDate(0, 0, 30)
	if in.DueDate != nil {
		dueDate = *in.DueDate
	}

	pid := in.PatientID
	inv := &Invoice{
		InvoiceNumber: NewInvoiceNumber(now),
		PatientID:     &pid,
		InvoiceDate:   invoiceDate,
		DueDate:       dueDate,
		Subtotal:      FormatAmount(subtotal),
		TaxRate:       FormatAmount(rateBP),
		TaxAmount:     FormatAmount(tax),
		Total:         FormatAmount(subtotal + tax),
		Status:        in.Status,
	}

	if err := s.invoices.CreateWithItems(ctx, inv, lineItems); err != nil {
		return nil, err
	}
	return s.invoices.GetWithDetails(ctx, inv.ID)
}

func (s *Service) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status string) (bool, error) {
	if !validInvoiceStatuses[status] {
		return false, fmt.Errorf("invalid invoice status: %s", status)
	}
	return s.invoices.UpdateStatus(ctx, id, status)
}

func (s *Service) DeleteInvoice(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.invoices.DeleteCascade(ctx, id)
}
