package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

// DBTxKey is the context key under which an open transaction is stored.
const DBTxKey contextKey = "db_tx"

// WithTxContext returns a copy of ctx carrying the given transaction.
// Repositories pick it up via TxFromContext so that reads and writes issued
// during a unit of work share the same transaction.
func WithTxContext(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, DBTxKey, tx)
}

// TxFromContext retrieves the transaction from context, or nil if none is set.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(DBTxKey).(pgx.Tx)
	return tx
}

// RunInTx executes fn inside a single transaction. The transaction is stored
// in the context passed to fn; any repository call made through that context
// joins it. If fn returns an error the transaction is rolled back and nothing
// becomes visible to other connections.
func RunInTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	if tx := TxFromContext(ctx); tx != nil {
		// Already inside a transaction; join it.
		return fn(ctx)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(WithTxContext(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
