package database

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// SqlxDatabase implements Database for *sqlx.DB.
type SqlxDatabase struct {
	db *sqlx.DB
}

// NewSqlxDatabase creates a new SqlxDatabase.
func NewSqlxDatabase(db *sqlx.DB) *SqlxDatabase {
	return &SqlxDatabase{db: db}
}

// DB returns the underlying handle.
func (s *SqlxDatabase) DB() *sqlx.DB { return s.db }

// DriverName returns the database/sql driver name the handle was opened with.
func (s *SqlxDatabase) DriverName() string { return s.db.DriverName() }

// ExecContext executes a statement without returning rows.
func (s *SqlxDatabase) ExecContext(ctx context.Context, query string, args ...any) (Result, error) {
	return s.db.ExecContext(ctx, query, args...)
}

// PrepareContext creates a prepared statement for later executions.
func (s *SqlxDatabase) PrepareContext(ctx context.Context, query string) (Statement, error) {
	stmt, err := s.db.PreparexContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &SqlxStatement{stmt: stmt}, nil
}

// PingContext verifies the connection to the database is alive.
func (s *SqlxDatabase) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SqlxDatabase) Close() error { return s.db.Close() }

// SqlxStatement implements Statement for *sqlx.Stmt.
type SqlxStatement struct {
	stmt *sqlx.Stmt
}

func (s *SqlxStatement) ExecContext(ctx context.Context, args ...any) (Result, error) {
	return s.stmt.ExecContext(ctx, args...)
}

func (s *SqlxStatement) Close() error { return s.stmt.Close() }

var (
	_ Database  = (*SqlxDatabase)(nil)
	_ Statement = (*SqlxStatement)(nil)
)
