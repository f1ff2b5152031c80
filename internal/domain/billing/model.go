package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medbill/medbill/internal/domain/patient"
)

// MedicalService maps to the services table: a billable offering with a
// decimal-string price.
type MedicalService struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Category    string    `db:"category" json:"category"`
	Price       string    `db:"price" json:"price"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// ServiceUpdateInput carries a partial update; nil fields are left unchanged.
type ServiceUpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Price       *string `json:"price"`
	IsActive    *bool   `json:"isActive"`
}

// Invoice maps to the invoices table. The derived money fields are snapshots
// computed once at creation and never recomputed on read.
type Invoice struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	InvoiceNumber string     `db:"invoice_number" json:"invoiceNumber"`
	PatientID     *uuid.UUID `db:"patient_id" json:"patientId,omitempty"`
	InvoiceDate   time.Time  `db:"invoice_date" json:"invoiceDate"`
	DueDate       time.Time  `db:"due_date" json:"dueDate"`
	Subtotal      string     `db:"subtotal" json:"subtotal"`
	TaxRate       string     `db:"tax_rate" json:"taxRate"`
	TaxAmount     string     `db:"tax_amount" json:"taxAmount"`
	Total         string     `db:"total" json:"total"`
	Status        string     `db:"status" json:"status"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
}

// InvoiceItem maps to the invoice_items table. ServiceName is a snapshot of
// the service's name at billing time, decoupled from later renames.
type InvoiceItem struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	InvoiceID   uuid.UUID  `db:"invoice_id" json:"invoiceId"`
	ServiceID   *uuid.UUID `db:"service_id" json:"serviceId,omitempty"`
	ServiceName string     `db:"service_name" json:"serviceName"`
	Quantity    int        `db:"quantity" json:"quantity"`
	UnitPrice   string     `db:"unit_price" json:"unitPrice"`
	Total       string     `db:"total" json:"total"`
}

// InvoiceWithDetails joins an invoice to its patient and line items. Patient
// is nil when the referenced patient has since been deleted.
type InvoiceWithDetails struct {
	Invoice
	Patient *patient.Patient `json:"patient"`
	Items   []*InvoiceItem   `json:"items"`
}

// CreateItemInput is one submitted invoice line.
type CreateItemInput struct {
	ServiceID uuid.UUID `json:"serviceId"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unitPrice"`
}

// CreateInvoiceInput is the invoice part of a POST /api/invoices body.
type CreateInvoiceInput struct {
	PatientID   uuid.UUID  `json:"patientId"`
	InvoiceDate *time.Time `json:"invoiceDate"`
	DueDate     *time.Time `json:"dueDate"`
	TaxRate     *string    `json:"taxRate"`
	Status      string     `json:"status"`
}

// NewInvoiceNumber generates a unique invoice number of the form
// INV-<year>-<6 digits>, derived from the millisecond clock.
func NewInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%d-%06d", now.Year(), now.UnixMilli()%1000000)
}
