// Package storage abstracts the persistence backend behind a small
// statement-level adapter so repositories stay backend-agnostic. Two
// implementations exist: PsqlAdapter over a pgx pool and MemoryAdapter
// for tests and local runs without a database.
package storage

import (
	"context"
	"errors"
)

// ErrNoRows is returned by First when the statement matched nothing.
// Both adapters normalize their backend's sentinel to this one.
var ErrNoRows = errors.New("storage: no rows in result set")

// Statement is a single parameterized SQL statement. Placeholders use
// the $1..$n form.
type Statement struct {
	SQL    string
	Params []any
}

// Rows is a cursor over a multi-row result.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Row is a single-row result. Scan returns ErrNoRows when the
// statement matched nothing.
type Row interface {
	Scan(dest ...any) error
}

// Result reports the outcome of a write statement.
type Result struct {
	RowsAffected int64
}

// Adapter executes statements against a backend. Batch runs all
// statements atomically: either every statement applies or none does.
type Adapter interface {
	Query(ctx context.Context, stmt Statement) (Rows, error)
	First(ctx context.Context, stmt Statement) Row
	Run(ctx context.Context, stmt Statement) (Result, error)
	Batch(ctx context.Context, stmts []Statement) error
}
