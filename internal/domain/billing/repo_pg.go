package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medbill/medbill/internal/domain/patient"
	"github.com/medbill/medbill/internal/platform/db"
)

// ErrServiceNotFound is returned when no service row matches the given id.
var ErrServiceNotFound = errors.New("service not found")

// ErrInvoiceNotFound is returned when no invoice row matches the given id.
var ErrInvoiceNotFound = errors.New("invoice not found")

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Service Repository ===========

type serviceRepoPG struct{ pool *pgxpool.Pool }

func NewServiceRepoPG(pool *pgxpool.Pool) ServiceRepository { return &serviceRepoPG{pool: pool} }

func (r *serviceRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const svcCols = `id, name, description, category, price, is_active, created_at`

func scanService(row pgx.Row) (*MedicalService, error) {
	var s MedicalService
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Category, &s.Price, &s.IsActive, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	return &s, err
}

func (r *serviceRepoPG) List(ctx context.Context) ([]*MedicalService, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+svcCols+` FROM services ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*MedicalService
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *serviceRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*MedicalService, error) {
	return scanService(r.conn(ctx).QueryRow(ctx, `SELECT `+svcCols+` FROM services WHERE id = $1`, id))
}

func (r *serviceRepoPG) Create(ctx context.Context, s *MedicalService) error {
	s.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO services (id, name, description, category, price, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		s.ID, s.Name, s.Description, s.Category, s.Price, s.IsActive).Scan(&s.CreatedAt)
}

func (r *serviceRepoPG) Update(ctx context.Context, id uuid.UUID, in *ServiceUpdateInput) (*MedicalService, error) {
	set := []string{}
	args := []interface{}{id}
	add := func(col string, v interface{}) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if in.Name != nil {
		add("name", *in.Name)
	}
	if in.Description != nil {
		add("description", *in.Description)
	}
	if in.Category != nil {
		add("category", *in.Category)
	}
	if in.Price != nil {
		add("price", *in.Price)
	}
	if in.IsActive != nil {
		add("is_active", *in.IsActive)
	}

	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	query := fmt.Sprintf(`UPDATE services SET %s WHERE id = $1 RETURNING `+svcCols,
		strings.Join(set, ", "))
	return scanService(r.conn(ctx).QueryRow(ctx, query, args...))
}

func (r *serviceRepoPG) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// =========== Invoice Repository ===========

type invoiceRepoPG struct{ pool *pgxpool.Pool }

func NewInvoiceRepoPG(pool *pgxpool.Pool) InvoiceRepository { return &invoiceRepoPG{pool: pool} }

func (r *invoiceRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const invCols = `i.id, i.invoice_number, i.patient_id, i.invoice_date, i.due_date,
	i.subtotal, i.tax_rate, i.tax_amount, i.total, i.status, i.created_at`

const invPatientCols = `p.id, p.name, p.email, p.phone, p.address, p.date_of_birth, p.status, p.created_at`

const itemCols = `id, invoice_id, service_id, service_name, quantity, unit_price, total`

// scanInvoiceWithPatient scans an invoice row left-joined to its patient.
// All patient columns are nullable because the join may not match.
func scanInvoiceWithPatient(row pgx.Row) (*InvoiceWithDetails, error) {
	var inv InvoiceWithDetails
	var (
		pID        *uuid.UUID
		pName      *string
		pEmail     *string
		pPhone     *string
		pAddress   *string
		pDOB       *string
		pStatus    *string
		pCreatedAt *time.Time
	)
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.PatientID, &inv.InvoiceDate, &inv.DueDate,
		&inv.Subtotal, &inv.TaxRate, &inv.TaxAmount, &inv.Total, &inv.Status, &inv.CreatedAt,
		&pID, &pName, &pEmail, &pPhone, &pAddress, &pDOB, &pStatus, &pCreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	if pID != nil {
		inv.Patient = &patient.Patient{
			ID:          *pID,
			Name:        *pName,
			Email:       pEmail,
			Phone:       pPhone,
			Address:     pAddress,
			DateOfBirth: pDOB,
			Status:      *pStatus,
			CreatedAt:   *pCreatedAt,
		}
	}
	return &inv, nil
}

func scanItem(row pgx.Row) (*InvoiceItem, error) {
	var it InvoiceItem
	err := row.Scan(&it.ID, &it.InvoiceID, &it.ServiceID, &it.ServiceName, &it.Quantity, &it.UnitPrice, &it.Total)
	return &it, err
}

func (r *invoiceRepoPG) itemsFor(ctx context.Context, invoiceID uuid.UUID) ([]*InvoiceItem, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+itemCols+` FROM invoice_items WHERE invoice_id = $1 ORDER BY id`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*InvoiceItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

const invoiceJoinQuery = `SELECT ` + invCols + `, ` + invPatientCols + `
	FROM invoices i
	LEFT JOIN patients p ON p.id = i.patient_id`

func (r *invoiceRepoPG) ListWithDetails(ctx context.Context) ([]*InvoiceWithDetails, error) {
	rows, err := r.conn(ctx).Query(ctx, invoiceJoinQuery+` ORDER BY i.created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*InvoiceWithDetails
	for rows.Next() {
		inv, err := scanInvoiceWithPatient(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, inv := range invoices {
		items, err := r.itemsFor(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []*InvoiceItem{}
		}
		inv.Items = items
	}
	return invoices, nil
}

func (r *invoiceRepoPG) GetWithDetails(ctx context.Context, id uuid.UUID) (*InvoiceWithDetails, error) {
	inv, err := scanInvoiceWithPatient(r.conn(ctx).QueryRow(ctx, invoiceJoinQuery+` WHERE i.id = $1`, id))
	if err != nil {
		return nil, err
	}
	items, err := r.itemsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*InvoiceItem{}
	}
	inv.Items = items
	return inv, nil
}

func (r *invoiceRepoPG) CreateWithItems(ctx context.Context, inv *Invoice, items []*InvoiceItem) error {
	return db.RunInTx(ctx, r.pool, func(ctx context.Context) error {
		inv.ID = uuid.New()
		if err := r.conn(ctx).QueryRow(ctx, `
			INSERT INTO invoices (id, invoice_number, patient_id, invoice_date, due_date,
				subtotal, tax_rate, tax_amount, total, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING created_at`,
			inv.ID, inv.InvoiceNumber, inv.PatientID, inv.InvoiceDate, inv.DueDate,
			inv.Subtotal, inv.TaxRate, inv.TaxAmount, inv.Total, inv.Status).Scan(&inv.CreatedAt); err != nil {
			return err
		}

		for _, it := range items {
			it.ID = uuid.New()
			it.InvoiceID = inv.ID
			if _, err := r.conn(ctx).Exec(ctx, `
				INSERT INTO invoice_items (id, invoice_id, service_id, service_name, quantity, unit_price, total)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				it.ID, it.InvoiceID, it.ServiceID, it.ServiceName, it.Quantity, it.UnitPrice, it.Total); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *invoiceRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE invoices SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *invoiceRepoPG) DeleteCascade(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := db.RunInTx(ctx, r.pool, func(ctx context.Context) error {
		if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, id); err != nil {
			return err
		}
		tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected() > 0
		return nil
	})
	return deleted, err
}
