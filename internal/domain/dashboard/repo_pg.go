package dashboard

import (
	"context"
	"time"

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

func (r *repoPG) Stats(ctx context.Context, from, to time.Time) (*Stats, error) {
	var s Stats
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM patients),
			(SELECT COUNT(*) FROM invoices),
			(SELECT TO_CHAR(COALESCE(SUM(total::NUMERIC), 0), 'FM999999999990.00')
				FROM invoices WHERE created_at >= $1 AND created_at < $2),
			(SELECT COUNT(*) FROM invoices WHERE status = 'pending')`,
		from, to).Scan(&s.TotalPatients, &s.TotalInvoices, &s.MonthlyRevenue, &s.PendingBills)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
