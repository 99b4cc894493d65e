// Package postgres registers the "postgres" provider, a pgx pool for
// databases that expose the account procedures through CALL.
package postgres

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/Konsultn-Engineering/erpcall/connector"
	"github.com/Konsultn-Engineering/erpcall/database"
	"github.com/Konsultn-Engineering/erpcall/dialect"
)

const Name = "postgres"

type Provider struct{}

func init() {
	connector.Register(Name, &Provider{})
}

// BuildDSN returns cfg.DSN when set, otherwise a postgres:// URL.
func (p *Provider) BuildDSN(cfg connector.Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	return connector.NewDSNBuilder("postgres").
		FromConfig(cfg).
		Param("sslmode", cfg.SSLMode).
		WithPostgresDefaults().
		Build()
}

// PoolConfig parses the DSN and applies the pool settings with defaults.
func (p *Provider) PoolConfig(cfg connector.Config) (*pgxpool.Config, error) {
	if cfg.Pool.MaxOpen <= 0 {
		cfg.Pool.MaxOpen = 10
	}
	if cfg.Pool.MaxIdle <= 0 {
		cfg.Pool.MaxIdle = 5
	}
	if cfg.Pool.MaxIdle > cfg.Pool.MaxOpen {
		cfg.Pool.MaxIdle = cfg.Pool.MaxOpen
	}
	if cfg.Pool.MaxLifetime == 0 {
		cfg.Pool.MaxLifetime = time.Hour
	}
	if cfg.Pool.MaxIdleTime == 0 {
		cfg.Pool.MaxIdleTime = 30 * time.Minute
	}

	poolCfg, err := pgxpool.ParseConfig(p.BuildDSN(cfg))
	if err != nil {
		return nil, err
	}

	poolCfg.MaxConns = int32(cfg.Pool.MaxOpen)
	poolCfg.MinConns = int32(cfg.Pool.MaxIdle)
	poolCfg.MaxConnLifetime = cfg.Pool.MaxLifetime
	poolCfg.MaxConnIdleTime = cfg.Pool.MaxIdleTime
	return poolCfg, nil
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	poolCfg, err := p.PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	return &connection{pool: pool, db: database.NewPgxDatabase(pool), dialect: p.Dialect()}, nil
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.NewPostgresDialect()
}

func (p *Provider) HealthCheck(ctx context.Context, conn connector.Connection) error {
	return conn.Health(ctx)
}

type connection struct {
	pool    *pgxpool.Pool
	db      *database.PgxDatabase
	dialect dialect.Dialect

	sqlOnce sync.Once
	sqlDB   *sql.DB
}

func (c *connection) DB() *sql.DB {
	c.sqlOnce.Do(func() {
		c.sqlDB = stdlib.OpenDBFromPool(c.pool)
	})
	return c.sqlDB
}

func (c *connection) Database() database.Database {
	return c.db
}

func (c *connection) Dialect() dialect.Dialect {
	return c.dialect
}

func (c *connection) Health(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *connection) Stats() connector.ConnectionStats {
	s := c.pool.Stat()
	return connector.ConnectionStats{
		OpenConnections: int(s.TotalConns()),
		InUse:           int(s.AcquiredConns()),
		Idle:            int(s.IdleConns()),
		WaitCount:       s.EmptyAcquireCount(),
	}
}

func (c *connection) Close() error {
	if c.sqlDB != nil {
		_ = c.sqlDB.Close()
	}
	c.pool.Close()
	return nil
}
