package connector

import (
	"context"
	"database/sql"

	"github.com/Konsultn-Engineering/erpcall/database"
	"github.com/Konsultn-Engineering/erpcall/dialect"
)

// Connection is an open, pooled handle to the ERP database.
type Connection interface {
	DB() *sql.DB
	Database() database.Database
	// Dialect is the call syntax the underlying driver understands.
	Dialect() dialect.Dialect
	Health(ctx context.Context) error
	Stats() ConnectionStats
	Close() error
}

type Connector interface {
	Connect(ctx context.Context) (Connection, error)
	ConnectWithRetry(ctx context.Context, opts RetryOptions) (Connection, error)
	Close() error
}
