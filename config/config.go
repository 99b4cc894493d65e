// Package config loads erpcall settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Konsultn-Engineering/erpcall/cache"
	"github.com/Konsultn-Engineering/erpcall/connector"
	"github.com/Konsultn-Engineering/erpcall/dialect"
	"github.com/Konsultn-Engineering/erpcall/schema"
	"github.com/Konsultn-Engineering/erpcall/utils"
)

// Config is the top level settings file.
type Config struct {
	Connection connector.Config `yaml:"connection" json:"connection"`
	Call       CallConfig       `yaml:"call" json:"call"`
	Log        LogConfig        `yaml:"log" json:"log"`
}

// CallConfig controls how calls are compiled.
type CallConfig struct {
	// Schema qualifies the procedure package, e.g. APPS.
	Schema string `yaml:"schema" json:"schema"`
	// Dialect overrides the dialect of the connection. Empty means infer.
	Dialect string `yaml:"dialect" json:"dialect"`
	// Table is an optional column table file. Empty means FND_USER_PKG.
	Table              string `yaml:"table" json:"table"`
	StatementCacheSize int    `yaml:"statement_cache_size" json:"statement_cache_size"`
	// IDGenerator names the call id scheme: ulid (default) or uuid.
	IDGenerator string `yaml:"id_generator" json:"id_generator"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML, applies defaults and validates. Unknown keys are
// rejected.
func Parse(b []byte) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Connection.Provider == "" {
		c.Connection.Provider = "sqlx"
	}
	if c.Call.Schema == "" {
		c.Call.Schema = "APPS"
	}
	if c.Call.StatementCacheSize == 0 {
		c.Call.StatementCacheSize = cache.DefaultSize
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks the call and log sections. Connection settings are
// validated when a connection is opened, so a dry run needs none.
func (c *Config) Validate() error {
	var errs []error
	if c.Call.Dialect != "" {
		if _, err := dialect.Lookup(c.Call.Dialect); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := utils.NewGenerator(c.Call.IDGenerator); err != nil {
		errs = append(errs, fmt.Errorf("config: %w", err))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("config: unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Dialect resolves the configured dialect. ok is false when none is set.
func (c *Config) Dialect() (d dialect.Dialect, ok bool, err error) {
	if c.Call.Dialect == "" {
		return nil, false, nil
	}
	d, err = dialect.Lookup(c.Call.Dialect)
	return d, err == nil, err
}

// LoadTable returns the configured column table.
func (c *Config) LoadTable() (*schema.Table, error) {
	if c.Call.Table == "" {
		return schema.DefaultTable(), nil
	}
	return schema.LoadTableFile(c.Call.Table)
}

// IDGenerator returns the configured call id generator.
func (c *Config) IDGenerator() (utils.IDGenerator, error) {
	return utils.NewGenerator(c.Call.IDGenerator)
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: unknown log level %q", s)
	}
	return l, nil
}

// NewLogger builds a slog logger writing to w.
func NewLogger(w io.Writer, lc LogConfig) (*slog.Logger, error) {
	level, err := parseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(lc.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
