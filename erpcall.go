// Package erpcall compiles identity attribute changes into Oracle ERP
// FND_USER_PKG calls and runs them.
//
//	cfg, _ := config.Load("erpcall.yaml")
//	eng, err := erpcall.Open(ctx, *cfg, nil)
//	...
//	_, err = eng.Account("JDOE").Owner("CUST").Password(pw).Create(ctx)
package erpcall

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Konsultn-Engineering/erpcall/config"
	"github.com/Konsultn-Engineering/erpcall/connector"
	"github.com/Konsultn-Engineering/erpcall/engine"

	_ "github.com/Konsultn-Engineering/erpcall/providers/postgres"
	_ "github.com/Konsultn-Engineering/erpcall/providers/sqlx"
)

// Open connects with the configured provider and returns a ready engine.
// The logger defaults to slog.Default when nil.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*engine.Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Connection.Validate(); err != nil {
		return nil, fmt.Errorf("erpcall: connection: %w", err)
	}

	table, err := cfg.LoadTable()
	if err != nil {
		return nil, err
	}
	d, _, err := cfg.Dialect()
	if err != nil {
		return nil, err
	}
	ids, err := cfg.IDGenerator()
	if err != nil {
		return nil, err
	}

	c, err := connector.New(cfg.Connection.Provider, cfg.Connection)
	if err != nil {
		return nil, fmt.Errorf("erpcall: %w", err)
	}

	var conn connector.Connection
	if cfg.Connection.Retry != nil {
		conn, err = c.ConnectWithRetry(ctx, cfg.Connection.Retry.Options())
	} else {
		conn, err = c.Connect(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("erpcall: connect %s: %w", cfg.Connection, err)
	}
	logger.Info("connected", "connection", cfg.Connection.String(), "dialect", conn.Dialect().Name())

	eng, err := engine.New(conn, table,
		engine.WithSchema(cfg.Call.Schema),
		engine.WithDialect(d),
		engine.WithLogger(logger),
		engine.WithIDGenerator(ids),
		engine.WithStatementCache(cfg.Call.StatementCacheSize),
		engine.WithQueryTimeout(cfg.Connection.QueryTimeout),
	)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return eng, nil
}
