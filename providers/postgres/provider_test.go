package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/erpcall/connector"
)

func TestRegistered(t *testing.T) {
	p, ok := connector.Lookup(Name)
	require.True(t, ok)
	assert.Equal(t, "postgres", p.Dialect().Name())
}

func TestBuildDSN(t *testing.T) {
	p := &Provider{}

	assert.Equal(t, "postgres://x", p.BuildDSN(connector.Config{DSN: "postgres://x", Host: "ignored"}))
	assert.Equal(t,
		"postgres://apps:pw@db:5432/ebs?connect_timeout=10&sslmode=disable",
		p.BuildDSN(connector.Config{Host: "db", Port: 5432, Database: "ebs", Username: "apps", Password: "pw", SSLMode: "disable"}))
}

func TestPoolConfigDefaults(t *testing.T) {
	p := &Provider{}

	cfg, err := p.PoolConfig(connector.Config{Host: "db", Port: 5432, Database: "ebs"})
	require.NoError(t, err)
	assert.Equal(t, int32(10), cfg.MaxConns)
	assert.Equal(t, int32(5), cfg.MinConns)
	assert.Equal(t, time.Hour, cfg.MaxConnLifetime)
	assert.Equal(t, 30*time.Minute, cfg.MaxConnIdleTime)

	cfg, err = p.PoolConfig(connector.Config{Host: "db", Port: 5432, Pool: connector.PoolConfig{MaxOpen: 2, MaxIdle: 4}})
	require.NoError(t, err)
	assert.Equal(t, int32(2), cfg.MaxConns)
	assert.Equal(t, int32(2), cfg.MinConns)
}

func TestPoolConfigBadDSN(t *testing.T) {
	_, err := (&Provider{}).PoolConfig(connector.Config{DSN: "postgres://%zz"})
	assert.Error(t, err)
}
