package billing

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medbill/medbill/internal/domain/patient"
)

// -- Mock repositories --

type mockServiceRepo struct {
	items map[uuid.UUID]*MedicalService
	order []uuid.UUID
}

func newMockServiceRepo() *mockServiceRepo {
	return &mockServiceRepo{items: make(map[uuid.UUID]*MedicalService)}
}

func (m *mockServiceRepo) List(_ context.Context) ([]*MedicalService, error) {
	var out []*MedicalService
	for _, id := range m.order {
		out = append(out, m.items[id])
	}
	return out, nil
}

func (m *mockServiceRepo) GetByID(_ context.Context, id uuid.UUID) (*MedicalService, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	return s, nil
}

func (m *mockServiceRepo) Create(_ context.Context, s *MedicalService) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	m.items[s.ID] = s
	m.order = append(m.order, s.ID)
	return nil
}

func (m *mockServiceRepo) Update(_ context.Context, id uuid.UUID, in *ServiceUpdateInput) (*MedicalService, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	if in.Name != nil {
		s.Name = *in.Name
	}
	if in.Description != nil {
		s.Description = in.Description
	}
	if in.Category != nil {
		s.Category = *in.Category
	}
	if in.Price != nil {
		s.Price = *in.Price
	}
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	return s, nil
}

func (m *mockServiceRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

type mockInvoiceRepo struct {
	invoices map[uuid.UUID]*Invoice
	items    map[uuid.UUID][]*InvoiceItem
	patients *mockPatientDirectory
	order    []uuid.UUID
}

func newMockInvoiceRepo(patients *mockPatientDirectory) *mockInvoiceRepo {
	return &mockInvoiceRepo{
		invoices: make(map[uuid.UUID]*Invoice),
		items:    make(map[uuid.UUID][]*InvoiceItem),
		patients: patients,
	}
}

func (m *mockInvoiceRepo) details(inv *Invoice) *InvoiceWithDetails {
	d := &InvoiceWithDetails{Invoice: *inv, Items: m.items[inv.ID]}
	if d.Items == nil {
		d.Items = []*InvoiceItem{}
	}
	if inv.PatientID != nil {
		if p, ok := m.patients.items[*inv.PatientID]; ok {
			d.Patient = p
		}
	}
	return d
}

func (m *mockInvoiceRepo) ListWithDetails(_ context.Context) ([]*InvoiceWithDetails, error) {
	var out []*InvoiceWithDetails
	for _, id := range m.order {
		out = append(out, m.details(m.invoices[id]))
	}
	return out, nil
}

func (m *mockInvoiceRepo) GetWithDetails(_ context.Context, id uuid.UUID) (*InvoiceWithDetails, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	return m.details(inv), nil
}

func (m *mockInvoiceRepo) CreateWithItems(_ context.Context, inv *Invoice, items []*InvoiceItem) error {
	inv.ID = uuid.New()
	inv.CreatedAt = time.Now()
	for _, it := range items {
		it.ID = uuid.New()
		it.InvoiceID = inv.ID
	}
	m.invoices[inv.ID] = inv
	m.items[inv.ID] = items
	m.order = append(m.order, inv.ID)
	return nil
}

func (m *mockInvoiceRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) (bool, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return false, nil
	}
	inv.Status = status
	return true, nil
}

func (m *mockInvoiceRepo) DeleteCascade(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := m.invoices[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	delete(m.invoices, id)
	return true, nil
}

type mockPatientDirectory struct {
	items map[uuid.UUID]*patient.Patient
}

func newMockPatientDirectory() *mockPatientDirectory {
	return &mockPatientDirectory{items: make(map[uuid.UUID]*patient.Patient)}
}

func (m *mockPatientDirectory) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, patient.ErrNotFound
	}
	return p, nil
}

func (m *mockPatientDirectory) add(name string) *patient.Patient {
	p := &patient.Patient{ID: uuid.New(), Name: name, Status: "active", CreatedAt: time.Now()}
	m.items[p.ID] = p
	return p
}

type fixedTaxSource struct{ rate string }

func (f fixedTaxSource) DefaultTaxRate(_ context.Context) (string, error) {
	return f.rate, nil
}

func newTestService() (*Service, *mockServiceRepo, *mockInvoiceRepo, *mockPatientDirectory) {
	services := newMockServiceRepo()
	patients := newMockPatientDirectory()
	invoices := newMockInvoiceRepo(patients)
	svc := NewService(services, invoices, patients, fixedTaxSource{rate: "18.00"})
	return svc, services, invoices, patients
}

// -- Medical service tests --

func TestCreateServiceValidation(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name    string
		in      MedicalService
		wantErr bool
	}{
		{"missing name", MedicalService{Category: "Lab", Price: "10.00"}, true},
		{"missing category", MedicalService{Name: "X-Ray", Price: "10.00"}, true},
		{"zero price", MedicalService{Name: "X-Ray", Category: "Radiology", Price: "0"}, true},
		{"negative price", MedicalService{Name: "X-Ray", Category: "Radiology", Price: "-5.00"}, true},
		{"garbage price", MedicalService{Name: "X-Ray", Category: "Radiology", Price: "free"}, true},
		{"valid", MedicalService{Name: "X-Ray", Category: "Radiology", Price: "150.00", IsActive: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.in
			err := svc.CreateService(ctx, &m)
			if (err != nil) != tt.wantErr {
				t.Errorf("CreateService() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateServiceNormalizesPrice(t *testing.T) {
	svc, _, _, _ := newTestService()
	m := MedicalService{Name: "Consultation", Category: "General", Price: "150"}
	if err := svc.CreateService(context.Background(), &m); err != nil {
		t.Fatalf("CreateService: %v", err)
	}
	if m.Price != "150.00" {
		t.Errorf("Price = %q, want 150.00", m.Price)
	}
}

// -- Invoice composition tests --

func TestCreateInvoiceComputesTotals(t *testing.T) {
	svc, _, _, patients := newTestService()
	ctx := context.Background()
	p := patients.add("Rahul Sharma")

	xray := &MedicalService{Name: "X-Ray", Category: "Radiology", Price: "150.00", IsActive: true}
	if err := svc.CreateService(ctx, xray); err != nil {
		t.Fatalf("CreateService: %v", err)
	}

	inv, err := svc.CreateInvoice(ctx, &CreateInvoiceInput{PatientID: p.ID}, []CreateItemInput{
		{ServiceID: xray.ID, Quantity: 2, UnitPrice: "150.00"},
		{ServiceID: xray.ID, Quantity: 1, UnitPrice: "99.50"},
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	// subtotal = 2*150.00 + 99.50 = 399.50; tax = 18% = 71.91; total = 471.41
	if inv.Subtotal != "399.50" {
		t.Errorf("Subtotal = %q, want 399.50", inv.Subtotal)
	}
	if inv.TaxRate != "18.00" {
		t.Errorf("TaxRate = %q, want 18.00", inv.TaxRate)
	}
	if inv.TaxAmount != "71.91" {
		t.Errorf("TaxAmount = %q, want 71.91", inv.TaxAmount)
	}
	if inv.Total != "471.41" {
		t.Errorf("Total = %q, want 471.41", inv.Total)
	}
	if inv.Status != "pending" {
		t.Errorf("Status = %q, want pending", inv.Status)
	}
	if len(inv.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(inv.Items))
	}
	if inv.Items[0].Total != "300.00" {
		t.Errorf("items[0].Total = %q, want 300.00", inv.Items[0].Total)
	}
	if inv.Items[0].ServiceName != "X-Ray" {
		t.Errorf("items[0].ServiceName = %q, want X-Ray", inv.Items[0].ServiceName)
	}
	if inv.Patient == nil || inv.Patient.Name != "Rahul Sharma" {
		t.Errorf("Patient = %+v, want Rahul Sharma", inv.Patient)
	}
}

func TestCreateInvoiceTaxRateOverride(t *testing.T) {
	svc, _, _, patients := newTestService()
	p := patients.add("Jane")

	rate := "5.00"
	inv, err := svc.CreateInvoice(context.Background(),
		&CreateInvoiceInput{PatientID: p.ID, TaxRate: &rate},
		[]CreateItemInput{{Quantity: 1, UnitPrice: "100.00"}})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if inv.TaxAmount != "5.00" || inv.Total != "105.00" {
		t.Errorf("tax/total = %q/%q, want 5.00/105.00", inv.TaxAmount, inv.Total)
	}
}

func TestCreateInvoiceValidation(t *testing.T) {
	svc, _, _, patients := newTestService()
	ctx := context.Background()
	p := patients.add("Jane")

	tests := []struct {
		name  string
		in    CreateInvoiceInput
		items []CreateItemInput
	}{
		{"missing patient", CreateInvoiceInput{}, []CreateItemInput{{Quantity: 1, UnitPrice: "1.00"}}},
		{"empty items", CreateInvoiceInput{PatientID: p.ID}, nil},
		{"zero quantity", CreateInvoiceInput{PatientID: p.ID}, []CreateItemInput{{Quantity: 0, UnitPrice: "1.00"}}},
		{"bad unit price", CreateInvoiceInput{PatientID: p.ID}, []CreateItemInput{{Quantity: 1, UnitPrice: "oops"}}},
		{"bad status", CreateInvoiceInput{PatientID: p.ID, Status: "void"}, []CreateItemInput{{Quantity: 1, UnitPrice: "1.00"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateInvoice(ctx, &tt.in, tt.items); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCreateInvoiceUnknownPatient(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.CreateInvoice(context.Background(),
		&CreateInvoiceInput{PatientID: uuid.New()},
		[]CreateItemInput{{Quantity: 1, UnitPrice: "1.00"}})
	if !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("err = %v, want ErrPatientNotFound", err)
	}
}

func TestCreateInvoicePersistsAllItemsAndCascadeDeletes(t *testing.T) {
	svc, _, invoices, patients := newTestService()
	ctx := context.Background()
	p := patients.add("Jane")

	items := []CreateItemInput{
		{Quantity: 1, UnitPrice: "10.00"},
		{Quantity: 2, UnitPrice: "20.00"},
		{Quantity: 3, UnitPrice: "30.00"},
	}
	inv, err := svc.CreateInvoice(ctx, &CreateInvoiceInput{PatientID: p.ID}, items)
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if got := len(invoices.items[inv.ID]); got != len(items) {
		t.Fatalf("persisted %d items, want %d", got, len(items))
	}
	for _, it := range invoices.items[inv.ID] {
		if it.InvoiceID != inv.ID {
			t.Errorf("item %s references invoice %s, want %s", it.ID, it.InvoiceID, inv.ID)
		}
	}

	deleted, err := svc.DeleteInvoice(ctx, inv.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteInvoice = (%v, %v), want (true, nil)", deleted, err)
	}
	if len(invoices.items[inv.ID]) != 0 {
		t.Error("cascade delete left orphaned items")
	}
	if _, err := svc.GetInvoice(ctx, inv.ID); !errors.Is(err, ErrInvoiceNotFound) {
		t.Errorf("GetInvoice after delete = %v, want ErrInvoiceNotFound", err)
	}
}

func TestInvoiceNumberFormat(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	num := NewInvoiceNumber(now)
	matched, err := regexp.MatchString(`^INV-2026-\d{6}$`, num)
	if err != nil || !matched {
		t.Errorf("invoice number %q does not match INV-<year>-<6 digits>", num)
	}
}

func TestUpdateInvoiceStatus(t *testing.T) {
	svc, _, _, patients := newTestService()
	ctx := context.Background()
	p := patients.add("Jane")

	inv, err := svc.CreateInvoice(ctx, &CreateInvoiceInput{PatientID: p.ID},
		[]CreateItemInput{{Quantity: 1, UnitPrice: "10.00"}})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	if _, err := svc.UpdateInvoiceStatus(ctx, inv.ID, "void"); err == nil {
		t.Error("expected error for invalid status")
	}

	updated, err := svc.UpdateInvoiceStatus(ctx, inv.ID, "paid")
	if err != nil || !updated {
		t.Fatalf("UpdateInvoiceStatus = (%v, %v), want (true, nil)", updated, err)
	}
	got, err := svc.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if got.Status != "paid" {
		t.Errorf("Status = %q, want paid", got.Status)
	}

	updated, err = svc.UpdateInvoiceStatus(ctx, uuid.New(), "paid")
	if err != nil {
		t.Fatalf("UpdateInvoiceStatus unknown id: %v", err)
	}
	if updated {
		t.Error("UpdateInvoiceStatus reported true for unknown id")
	}
}

func TestDeleteMissingInvoiceReportsFalse(t *testing.T) {
	svc, _, _, _ := newTestService()
	deleted, err := svc.DeleteInvoice(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("DeleteInvoice: %v", err)
	}
	if deleted {
		t.Error("DeleteInvoice of unknown id reported true")
	}
}
