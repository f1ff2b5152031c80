package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ctxKey string

// TxKey carries an open transaction through a request context so that
// repositories participate in it instead of hitting the pool directly.
const TxKey ctxKey = "db_tx"

// WithTx returns a context carrying the given transaction.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, TxKey, tx)
}

// TxFromContext retrieves the transaction from context, or nil when the
// caller is not inside RunInTx.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(TxKey).(pgx.Tx)
	return tx
}

// RunInTx executes fn inside a transaction. The transaction is injected into
// the context passed to fn; any error (or panic) rolls everything back.
func RunInTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	if TxFromContext(ctx) != nil {
		// Already transactional; join the outer transaction.
		return fn(ctx)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
