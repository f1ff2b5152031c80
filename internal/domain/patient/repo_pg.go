package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medbill/medbill/internal/platform/db"
)

// ErrNotFound is returned when no patient row matches the given id.
var ErrNotFound = errors.New("patient not found")

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const patientCols = `id, name, email, phone, address, date_of_birth, status, created_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Address, &p.DateOfBirth, &p.Status, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *repoPG) List(ctx context.Context) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+patientCols+` FROM patients ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (id, name, email, phone, address, date_of_birth, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		p.ID, p.Name, p.Email, p.Phone, p.Address, p.DateOfBirth, p.Status).Scan(&p.CreatedAt)
}

func (r *repoPG) Update(ctx context.Context, id uuid.UUID, in *UpdateInput) (*Patient, error) {
	set := []string{}
	args := []interface{}{id}
	add := func(col string, v interface{}) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if in.Name != nil {
		add("name", *in.Name)
	}
	if in.Email != nil {
		add("email", *in.Email)
	}
	if in.Phone != nil {
		add("phone", *in.Phone)
	}
	if in.Address != nil {
		add("address", *in.Address)
	}
	if in.DateOfBirth != nil {
		add("date_of_birth", *in.DateOfBirth)
	}
	if in.Status != nil {
		add("status", *in.Status)
	}

	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	query := fmt.Sprintf(`UPDATE patients SET %s WHERE id = $1 RETURNING `+patientCols,
		strings.Join(set, ", "))
	return scanPatient(r.conn(ctx).QueryRow(ctx, query, args...))
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
