// Package engine executes compiled account calls against a connection.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Konsultn-Engineering/erpcall/attribute"
	"github.com/Konsultn-Engineering/erpcall/builder"
	"github.com/Konsultn-Engineering/erpcall/cache"
	"github.com/Konsultn-Engineering/erpcall/connector"
	"github.com/Konsultn-Engineering/erpcall/dialect"
	"github.com/Konsultn-Engineering/erpcall/schema"
	"github.com/Konsultn-Engineering/erpcall/utils"
)

const defaultSlowThreshold = 500 * time.Millisecond

// Engine compiles attribute sets and runs the resulting calls. It is safe
// for concurrent use; every call is compiled by its own builder.
type Engine struct {
	conn    connector.Connection
	table   *schema.Table
	dialect dialect.Dialect
	schema  string

	logger        *slog.Logger
	now           func() time.Time
	ids           utils.IDGenerator
	stmts         *cache.StatementCache
	queryTimeout  time.Duration
	slowThreshold time.Duration

	noPrepare atomic.Bool
	stats     Stats
}

type Option func(*Engine)

// WithSchema sets the schema qualifier of the procedure, e.g. "APPS".
func WithSchema(s string) Option {
	return func(e *Engine) { e.schema = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDialect overrides the dialect reported by the connection.
func WithDialect(d dialect.Dialect) Option {
	return func(e *Engine) {
		if d != nil {
			e.dialect = d
		}
	}
}

// WithStatementCache sets how many prepared calls are kept. Zero or a
// negative size disables statement caching.
func WithStatementCache(size int) Option {
	return func(e *Engine) {
		if size <= 0 {
			e.stmts = nil
			return
		}
		e.stmts = cache.NewStatementCache(size)
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithIDGenerator(g utils.IDGenerator) Option {
	return func(e *Engine) {
		if g != nil {
			e.ids = g
		}
	}
}

// WithQueryTimeout bounds every Exec.
func WithQueryTimeout(d time.Duration) Option {
	return func(e *Engine) { e.queryTimeout = d }
}

// WithSlowThreshold sets the duration above which a call is logged as slow.
// Zero or a negative duration disables slow-call logging.
func WithSlowThreshold(d time.Duration) Option {
	return func(e *Engine) { e.slowThreshold = d }
}

// New creates an engine over conn. A nil table selects the FND_USER_PKG
// table.
func New(conn connector.Connection, table *schema.Table, opts ...Option) (*Engine, error) {
	if conn == nil {
		return nil, errors.New("engine: nil connection")
	}
	if table == nil {
		table = schema.DefaultTable()
	}
	e := &Engine{
		conn:          conn,
		table:         table,
		dialect:       conn.Dialect(),
		logger:        slog.Default(),
		now:           time.Now,
		ids:           utils.NewULIDGenerator(),
		stmts:         cache.NewStatementCache(cache.DefaultSize),
		slowThreshold: defaultSlowThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.dialect == nil {
		e.dialect = dialect.NewJDBCDialect()
	}
	return e, nil
}

func (e *Engine) Dialect() dialect.Dialect { return e.dialect }

func (e *Engine) Table() *schema.Table { return e.table }

func (e *Engine) Connection() connector.Connection { return e.conn }

// Compile builds the call for attrs without touching the database.
func (e *Engine) Compile(mode builder.Mode, attrs ...attribute.Attribute) (*builder.CallResult, error) {
	res, err := builder.Compile(e.table, e.dialect, e.schema, mode, attrs,
		builder.WithLogger(e.logger),
		builder.WithClock(e.now),
		builder.WithIDGenerator(e.ids),
	)
	if err != nil {
		e.stats.CompileErrors.Add(1)
		return nil, err
	}
	e.stats.Compiled.Add(1)
	return res, nil
}

// Create compiles a create call and executes it.
func (e *Engine) Create(ctx context.Context, attrs ...attribute.Attribute) (*builder.CallResult, error) {
	return e.run(ctx, builder.ModeCreate, attrs)
}

// Update compiles an update call and executes it.
func (e *Engine) Update(ctx context.Context, attrs ...attribute.Attribute) (*builder.CallResult, error) {
	return e.run(ctx, builder.ModeUpdate, attrs)
}

func (e *Engine) run(ctx context.Context, mode builder.Mode, attrs []attribute.Attribute) (*builder.CallResult, error) {
	call, err := e.Compile(mode, attrs...)
	if err != nil {
		return nil, err
	}
	if _, err := e.Exec(ctx, call); err != nil {
		return call, err
	}
	return call, nil
}

// Health pings the connection.
func (e *Engine) Health(ctx context.Context) error {
	return e.conn.Health(ctx)
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() StatsSnapshot {
	return e.stats.Snapshot()
}

// Close releases cached statements and closes the connection.
func (e *Engine) Close() error {
	var errs []error
	if e.stmts != nil {
		errs = append(errs, e.stmts.Close())
	}
	errs = append(errs, e.conn.Close())
	return errors.Join(errs...)
}
