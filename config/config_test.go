package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
connection:
  provider: sqlx
  driver: godror
  host: ebs.example.com
  port: 1521
  database: EBSDB
  username: apps
  password: apps
  query_timeout: 30s
  pool:
    max_open: 4
  retry:
    max_retries: 3
    base_delay: 500ms
call:
  schema: APPS
  dialect: oracle
  id_generator: uuid
log:
  level: debug
  format: json
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "godror", c.Connection.Driver)
	assert.Equal(t, 1521, c.Connection.Port)
	assert.Equal(t, 30*time.Second, c.Connection.QueryTimeout)
	assert.Equal(t, 4, c.Connection.Pool.MaxOpen)
	require.NotNil(t, c.Connection.Retry)
	assert.Equal(t, 500*time.Millisecond, c.Connection.Retry.BaseDelay)
	assert.Equal(t, 64, c.Call.StatementCacheSize)

	d, ok, err := c.Dialect()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "oracle", d.Name())

	ids, err := c.IDGenerator()
	require.NoError(t, err)
	assert.Equal(t, "uuid", ids.Type())
}

func TestParseDefaults(t *testing.T) {
	c, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, "sqlx", c.Connection.Provider)
	assert.Equal(t, "APPS", c.Call.Schema)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "text", c.Log.Format)

	_, ok, err := c.Dialect()
	assert.NoError(t, err)
	assert.False(t, ok)

	table, err := c.LoadTable()
	require.NoError(t, err)
	assert.Equal(t, 17, table.Len())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown key", "call:\n  shema: APPS\n", "shema"},
		{"bad dialect", "call:\n  dialect: mysql\n", "unknown dialect"},
		{"bad level", "log:\n  level: loud\n", "unknown log level"},
		{"bad format", "log:\n  format: xml\n", "unknown log format"},
		{"bad id generator", "call:\n  id_generator: snowflake\n", "unknown generator type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	tablePath := filepath.Join(dir, "columns.yaml")
	require.NoError(t, os.WriteFile(tablePath, []byte("columns:\n  - name: user_name\n  - name: owner\n"), 0o600))

	cfgPath := filepath.Join(dir, "erpcall.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("call:\n  table: "+tablePath+"\n"), 0o600))

	c, err := Load(cfgPath)
	require.NoError(t, err)

	table, err := c.LoadTable()
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	l, err := NewLogger(&buf, LogConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	l.Info("hidden")
	l.Warn("shown", "call_id", "c1")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"call_id":"c1"`)

	buf.Reset()
	l, err = NewLogger(&buf, LogConfig{Level: "debug", Format: "text"})
	require.NoError(t, err)
	l.Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")

	_, err = NewLogger(&buf, LogConfig{Level: "nope"})
	assert.Error(t, err)
}
