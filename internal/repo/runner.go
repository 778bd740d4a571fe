package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRunner runs functions inside a pgx transaction against the shared pool.
type PgxRunner struct {
	Pool *pgxpool.Pool
}

// RunInTx begins a transaction, runs fn, and commits. Any error from fn rolls
// the transaction back.
func (r *PgxRunner) RunInTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
