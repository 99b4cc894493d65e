package connector

import (
	"errors"
	"fmt"
	"time"
)

// Config represents database connection configuration.
type Config struct {
	// Provider selects a registered provider ("postgres", "sqlx").
	Provider string `json:"provider" yaml:"provider"`
	// Driver is the database/sql driver name used by the sqlx provider.
	Driver string `json:"driver" yaml:"driver"`
	// DSN, when set, is used as is instead of Host/Port/Database/...
	DSN string `json:"dsn" yaml:"dsn"`

	Host           string            `json:"host" yaml:"host"`
	Port           int               `json:"port" yaml:"port"`
	Database       string            `json:"database" yaml:"database"`
	Username       string            `json:"username" yaml:"username"`
	Password       string            `json:"password" yaml:"password"`
	SSLMode        string            `json:"ssl_mode" yaml:"ssl_mode"`
	Params         map[string]string `json:"params" yaml:"params"`
	Pool           PoolConfig        `json:"pool" yaml:"pool"`
	ConnectTimeout time.Duration     `json:"connect_timeout" yaml:"connect_timeout"`
	QueryTimeout   time.Duration     `json:"query_timeout" yaml:"query_timeout"`
	Retry          *RetryConfig      `json:"retry,omitempty" yaml:"retry,omitempty"`
}

// PoolConfig defines connection pool settings.
type PoolConfig struct {
	MaxOpen     int           `json:"max_open" yaml:"max_open"`
	MaxIdle     int           `json:"max_idle" yaml:"max_idle"`
	MaxLifetime time.Duration `json:"max_lifetime" yaml:"max_lifetime"`
	MaxIdleTime time.Duration `json:"max_idle_time" yaml:"max_idle_time"`
}

// RetryConfig defines connection retry behavior.
type RetryConfig struct {
	MaxRetries int           `json:"max_retries" yaml:"max_retries"`
	BaseDelay  time.Duration `json:"base_delay" yaml:"base_delay"`
	MaxDelay   time.Duration `json:"max_delay" yaml:"max_delay"`
	Backoff    float64       `json:"backoff" yaml:"backoff"`
}

// Options converts the config into retry options.
func (r RetryConfig) Options() RetryOptions {
	return RetryOptions{
		MaxRetries: r.MaxRetries,
		BaseDelay:  r.BaseDelay,
		MaxDelay:   r.MaxDelay,
		Backoff:    r.Backoff,
	}
}

// Validate checks that either a DSN or a host is given and that the
// numeric settings are sane.
func (c *Config) Validate() error {
	var errs []error
	if c.Provider == "" {
		errs = append(errs, errors.New("provider is required"))
	}
	if c.DSN == "" {
		if c.Host == "" {
			errs = append(errs, errors.New("dsn or host is required"))
		}
		if c.Port < 0 || c.Port > 65535 {
			errs = append(errs, fmt.Errorf("invalid port: %d", c.Port))
		}
	}
	if c.Pool.MaxOpen < 0 || c.Pool.MaxIdle < 0 {
		errs = append(errs, errors.New("pool sizes must not be negative"))
	}
	if c.Retry != nil && c.Retry.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("invalid max_retries: %d", c.Retry.MaxRetries))
	}
	return errors.Join(errs...)
}

// String renders the config without its password.
func (c Config) String() string {
	if c.DSN != "" {
		return fmt.Sprintf("%s(%s dsn)", c.Provider, c.Driver)
	}
	return fmt.Sprintf("%s(%s@%s:%d/%s)", c.Provider, c.Username, c.Host, c.Port, c.Database)
}
