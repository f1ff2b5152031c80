package settings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medbill/medbill/internal/platform/db"
)

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

const cols = `id, name, address, phone, email, logo_url, currency, tax_rate, created_at, updated_at`

func scanSettings(row pgx.Row) (*HospitalSettings, error) {
	var s HospitalSettings
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.Phone, &s.Email, &s.LogoURL,
		&s.Currency, &s.TaxRate, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) Get(ctx context.Context) (*HospitalSettings, error) {
	s, err := scanSettings(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM hospital_settings ORDER BY created_at ASC LIMIT 1`))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// Upsert merges the input over the current row inside a transaction so
// concurrent saves cannot produce two settings rows.
func (r *repoPG) Upsert(ctx context.Context, in *UpsertInput) (*HospitalSettings, error) {
	var out *HospitalSettings
	err := db.RunInTx(ctx, r.pool, func(ctx context.Context) error {
		current, err := r.Get(ctx)
		if err != nil {
			return err
		}

		if current == nil {
			current = &HospitalSettings{ID: uuid.New(), Currency: "INR", TaxRate: "0.00"}
		}
		if in.Name != nil {
			current.Name = *in.Name
		}
		if in.Address != nil {
			current.Address = in.Address
		}
		if in.Phone != nil {
			current.Phone = in.Phone
		}
		if in.Email != nil {
			current.Email = in.Email
		}
		if in.LogoURL != nil {
			current.LogoURL = in.LogoURL
		}
		if in.Currency != nil {
			current.Currency = *in.Currency
		}
		if in.TaxRate != nil {
			current.TaxRate = *in.TaxRate
		}

		out, err = scanSettings(r.conn(ctx).QueryRow(ctx, `
			INSERT INTO hospital_settings (id, name, address, phone, email, logo_url, currency, tax_rate)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				address = EXCLUDED.address,
				phone = EXCLUDED.phone,
				email = EXCLUDED.email,
				logo_url = EXCLUDED.logo_url,
				currency = EXCLUDED.currency,
				tax_rate = EXCLUDED.tax_rate,
				updated_at = NOW()
			RETURNING `+cols,
			current.ID, current.Name, current.Address, current.Phone, current.Email,
			current.LogoURL, current.Currency, current.TaxRate))
		return err
	})
	return out, err
}
