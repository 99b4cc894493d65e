package connector

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/erpcall/database"
	"github.com/Konsultn-Engineering/erpcall/dialect"
)

// =========================================================================
// Test Doubles
// =========================================================================

type stubConnection struct {
	closed    bool
	healthErr error
}

func (c *stubConnection) DB() *sql.DB                      { return nil }
func (c *stubConnection) Database() database.Database      { return nil }
func (c *stubConnection) Dialect() dialect.Dialect         { return dialect.NewOracleDialect() }
func (c *stubConnection) Health(ctx context.Context) error { return c.healthErr }
func (c *stubConnection) Stats() ConnectionStats           { return ConnectionStats{} }
func (c *stubConnection) Close() error                     { c.closed = true; return nil }

type stubProvider struct {
	failures int
	calls    int
	conn     *stubConnection
}

func (p *stubProvider) Connect(ctx context.Context, cfg Config) (Connection, error) {
	p.calls++
	if p.calls <= p.failures {
		return nil, errors.New("ORA-12541: TNS:no listener")
	}
	return p.conn, nil
}

func (p *stubProvider) Dialect() dialect.Dialect { return dialect.NewOracleDialect() }

func (p *stubProvider) HealthCheck(ctx context.Context, conn Connection) error {
	return conn.Health(ctx)
}

// =========================================================================
// Registry
// =========================================================================

func TestRegisterAndNew(t *testing.T) {
	p := &stubProvider{conn: &stubConnection{}}
	Register("stub-registry", p)

	assert.Contains(t, Providers(), "stub-registry")

	c, err := New("stub-registry", Config{})
	require.NoError(t, err)

	conn, err := c.Connect(context.Background())
	require.NoError(t, err)
	assert.Same(t, p.conn, conn)
	assert.NoError(t, c.Close())

	_, err = New("missing", Config{})
	assert.EqualError(t, err, "provider missing not registered")
}

func TestConnectFailsHealthCheck(t *testing.T) {
	conn := &stubConnection{healthErr: errors.New("ping failed")}
	Register("stub-unhealthy", &stubProvider{conn: conn})

	c, err := New("stub-unhealthy", Config{ConnectTimeout: time.Second})
	require.NoError(t, err)

	_, err = c.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "health check")
	assert.True(t, conn.closed)
}

// =========================================================================
// Retry
// =========================================================================

func TestConnectWithRetry(t *testing.T) {
	p := &stubProvider{failures: 2, conn: &stubConnection{}}
	Register("stub-retry", p)
	c, err := New("stub-retry", Config{})
	require.NoError(t, err)

	conn, err := c.ConnectWithRetry(context.Background(), RetryOptions{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   2 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.NotNil(t, conn)
	assert.Equal(t, 3, p.calls)
}

func TestConnectWithRetryExhausted(t *testing.T) {
	p := &stubProvider{failures: 10, conn: &stubConnection{}}
	Register("stub-exhausted", p)
	c, err := New("stub-exhausted", Config{})
	require.NoError(t, err)

	_, err = c.ConnectWithRetry(context.Background(), RetryOptions{MaxRetries: 2, BaseDelay: time.Millisecond})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Contains(t, err.Error(), "TNS:no listener")
	assert.Equal(t, 2, p.calls)
}

func TestConnectWithRetryCancelled(t *testing.T) {
	p := &stubProvider{failures: 10, conn: &stubConnection{}}
	Register("stub-cancel", p)
	c, err := New("stub-cancel", Config{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.ConnectWithRetry(ctx, RetryOptions{MaxRetries: 5, BaseDelay: time.Hour})
	assert.ErrorIs(t, err, context.Canceled)
}

// =========================================================================
// Config and DSN
// =========================================================================

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"dsn only", Config{Provider: "sqlx", DSN: "oracle://u:p@h/s"}, ""},
		{"host", Config{Provider: "postgres", Host: "db", Port: 5432}, ""},
		{"no provider", Config{DSN: "x"}, "provider is required"},
		{"no host", Config{Provider: "postgres"}, "dsn or host is required"},
		{"bad port", Config{Provider: "postgres", Host: "db", Port: 70000}, "invalid port"},
		{"negative pool", Config{Provider: "postgres", Host: "db", Pool: PoolConfig{MaxOpen: -1}}, "pool sizes"},
		{"negative retries", Config{Provider: "postgres", Host: "db", Retry: &RetryConfig{MaxRetries: -1}}, "max_retries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigStringHidesPassword(t *testing.T) {
	cfg := Config{Provider: "postgres", Host: "db", Port: 5432, Database: "ebs", Username: "apps", Password: "secret"}
	assert.Equal(t, "postgres(apps@db:5432/ebs)", cfg.String())
	assert.NotContains(t, cfg.String(), "secret")
}

func TestDSNBuilder(t *testing.T) {
	b := NewDSNBuilder("postgres").
		FromConfig(Config{
			Host:     "db",
			Port:     5432,
			Database: "ebs",
			Username: "apps",
			Password: "p@ss",
			Params:   map[string]string{"application_name": "erpcall", "empty": ""},
		}).
		WithPostgresDefaults()

	require.NoError(t, b.Validate())
	assert.Equal(t, "postgres://apps:p%40ss@db:5432/ebs?application_name=erpcall&connect_timeout=10&sslmode=prefer", b.Build())
	assert.Equal(t, "postgres://apps:xxxxx@db:5432/ebs?application_name=erpcall&connect_timeout=10&sslmode=prefer", b.Redacted())
}

func TestDSNBuilderValidate(t *testing.T) {
	assert.EqualError(t, NewDSNBuilder("oracle").Validate(), "host is required")
	assert.EqualError(t, NewDSNBuilder("oracle").Host("h", -1).Validate(), "invalid port: -1")
}

func TestStatsFromDB(t *testing.T) {
	s := StatsFromDB(sql.DBStats{OpenConnections: 3, InUse: 1, Idle: 2, WaitCount: 4})
	assert.Equal(t, ConnectionStats{OpenConnections: 3, InUse: 1, Idle: 2, WaitCount: 4}, s)
}
