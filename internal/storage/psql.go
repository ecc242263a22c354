package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PsqlAdapter executes statements against a PostgreSQL pool.
type PsqlAdapter struct {
	pool *pgxpool.Pool
}

var _ Adapter = (*PsqlAdapter)(nil)

func NewPsqlAdapter(pool *pgxpool.Pool) *PsqlAdapter {
	return &PsqlAdapter{pool: pool}
}

func (a *PsqlAdapter) Query(ctx context.Context, stmt Statement) (Rows, error) {
	rows, err := a.pool.Query(ctx, stmt.SQL, stmt.Params...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return rows, nil
}

func (a *PsqlAdapter) First(ctx context.Context, stmt Statement) Row {
	return psqlRow{row: a.pool.QueryRow(ctx, stmt.SQL, stmt.Params...)}
}

func (a *PsqlAdapter) Run(ctx context.Context, stmt Statement) (Result, error) {
	tag, err := a.pool.Exec(ctx, stmt.SQL, stmt.Params...)
	if err != nil {
		return Result{}, fmt.Errorf("exec: %w", err)
	}
	return Result{RowsAffected: tag.RowsAffected()}, nil
}

// Batch runs all statements in a single transaction.
func (a *PsqlAdapter) Batch(ctx context.Context, stmts []Statement) error {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, stmt := range stmts {
		if _, err := tx.Exec(ctx, stmt.SQL, stmt.Params...); err != nil {
			return fmt.Errorf("exec in tx: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// psqlRow normalizes pgx.ErrNoRows to ErrNoRows.
type psqlRow struct {
	row pgx.Row
}

func (r psqlRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoRows
	}
	return err
}
