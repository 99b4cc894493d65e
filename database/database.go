package database

import (
	"context"
	"errors"
)

// ErrPrepareUnsupported is returned by backends that prepare statements
// implicitly and do not hand out statement handles.
var ErrPrepareUnsupported = errors.New("database: prepare not supported")

// Database is the execution surface the engine needs from a backend.
type Database interface {
	ExecContext(ctx context.Context, query string, args ...any) (Result, error)
	PrepareContext(ctx context.Context, query string) (Statement, error)
	PingContext(ctx context.Context) error
	Close() error
}

// Statement is a prepared call.
type Statement interface {
	ExecContext(ctx context.Context, args ...any) (Result, error)
	Close() error
}

// Result is the outcome of an executed statement.
type Result interface {
	RowsAffected() (int64, error)
}
