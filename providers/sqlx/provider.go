// Package sqlx registers the "sqlx" provider: any database/sql driver the
// binary links in (godror, go-ora, lib/pq, ...), opened through sqlx.
package sqlx

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Konsultn-Engineering/erpcall/connector"
	"github.com/Konsultn-Engineering/erpcall/database"
	"github.com/Konsultn-Engineering/erpcall/dialect"
)

const Name = "sqlx"

type Provider struct{}

func init() {
	connector.Register(Name, &Provider{})
}

// DialectFor picks the call dialect from the driver's bind style:
// named binds mean an Oracle driver, dollar binds mean Postgres, and
// everything else gets the JDBC/ODBC escape form.
func DialectFor(driver string) dialect.Dialect {
	switch sqlx.BindType(driver) {
	case sqlx.NAMED:
		return dialect.NewOracleDialect()
	case sqlx.DOLLAR:
		return dialect.NewPostgresDialect()
	}
	return dialect.NewJDBCDialect()
}

// BuildDSN returns cfg.DSN when set, otherwise a URL using the driver name
// as scheme.
func (p *Provider) BuildDSN(cfg connector.Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	scheme := cfg.Driver
	if sqlx.BindType(cfg.Driver) == sqlx.NAMED {
		scheme = "oracle"
	}
	return connector.NewDSNBuilder(scheme).FromConfig(cfg).Build()
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	if cfg.Driver == "" {
		return nil, fmt.Errorf("sqlx provider: driver is required")
	}
	db, err := sqlx.Open(cfg.Driver, p.BuildDSN(cfg))
	if err != nil {
		return nil, err
	}
	return newConnection(db, cfg.Pool), nil
}

func newConnection(db *sqlx.DB, pool connector.PoolConfig) *connection {
	if pool.MaxOpen > 0 {
		db.SetMaxOpenConns(pool.MaxOpen)
	}
	if pool.MaxIdle > 0 {
		db.SetMaxIdleConns(pool.MaxIdle)
	}
	lifetime := pool.MaxLifetime
	if lifetime == 0 {
		lifetime = time.Hour
	}
	db.SetConnMaxLifetime(lifetime)
	if pool.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(pool.MaxIdleTime)
	}
	return &connection{db: database.NewSqlxDatabase(db), dialect: DialectFor(db.DriverName())}
}

// NewConnection wraps an already open handle.
func NewConnection(db *sqlx.DB) connector.Connection {
	return newConnection(db, connector.PoolConfig{})
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.NewJDBCDialect()
}

func (p *Provider) HealthCheck(ctx context.Context, conn connector.Connection) error {
	return conn.Health(ctx)
}

type connection struct {
	db      *database.SqlxDatabase
	dialect dialect.Dialect
}

func (c *connection) DB() *sql.DB {
	return c.db.DB().DB
}

func (c *connection) Database() database.Database {
	return c.db
}

func (c *connection) Dialect() dialect.Dialect {
	return c.dialect
}

func (c *connection) Health(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *connection) Stats() connector.ConnectionStats {
	return connector.StatsFromDB(c.db.DB().Stats())
}

func (c *connection) Close() error {
	return c.db.Close()
}
