// Package builder compiles generic account attribute changes into a single
// FND_USER_PKG style procedure call with ordered bind parameters.
package builder

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Konsultn-Engineering/erpcall/attribute"
	"github.com/Konsultn-Engineering/erpcall/dialect"
	"github.com/Konsultn-Engineering/erpcall/schema"
	"github.com/Konsultn-Engineering/erpcall/utils"
)

// Mode selects the create or update entry point.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

func (m Mode) String() string {
	if m == ModeCreate {
		return "create"
	}
	return "update"
}

// ParseMode accepts "create" or "update", ignoring case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "create":
		return ModeCreate, nil
	case "update":
		return ModeUpdate, nil
	}
	return 0, fmt.Errorf("erpcall: unknown mode %q", s)
}

// State is the builder lifecycle: Empty -> Accumulating -> Built.
type State int

const (
	StateEmpty State = iota
	StateAccumulating
	StateBuilt
)

func (s State) String() string {
	switch s {
	case StateAccumulating:
		return "accumulating"
	case StateBuilt:
		return "built"
	}
	return "empty"
}

type options struct {
	logger *slog.Logger
	now    func() time.Time
	ids    utils.IDGenerator
}

// Option configures an AccountCallBuilder.
type Option func(*options)

// WithLogger sets the logger used for translation decisions.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock replaces time.Now for date stamps and timestamp parsing.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator sets the generator for call ids. The default is ULID.
func WithIDGenerator(g utils.IDGenerator) Option {
	return func(o *options) {
		if g != nil {
			o.ids = g
		}
	}
}

// AccountCallBuilder accumulates attributes for one account call. It is
// single use and not safe for concurrent use. The first error it sees is
// kept and returned by every later Add and Build.
type AccountCallBuilder struct {
	table     *schema.Table
	schema    string
	mode      Mode
	sentinels schema.Sentinels

	logger *slog.Logger
	now    func() time.Time
	id     string

	store           *paramStore
	expired         *bool
	passwordChanged bool

	state  State
	errors []error
}

// NewAccountCall returns a builder for the given table, schema qualifier and
// mode. A nil table selects schema.DefaultTable.
func NewAccountCall(table *schema.Table, schemaQualifier string, mode Mode, opts ...Option) *AccountCallBuilder {
	o := options{
		logger: slog.Default(),
		now:    time.Now,
		ids:    utils.NewULIDGenerator(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if table == nil {
		table = schema.DefaultTable()
	}

	b := &AccountCallBuilder{
		table:     table,
		schema:    schemaQualifier,
		mode:      mode,
		sentinels: table.Sentinels(),
		logger:    o.logger,
		now:       o.now,
		store:     newParamStore(table),
	}
	id, err := o.ids.Generate()
	if err != nil {
		b.addError(fmt.Errorf("erpcall: generate call id: %w", err))
	}
	b.id = id
	return b
}

// ID returns the call id assigned at construction.
func (b *AccountCallBuilder) ID() string { return b.id }

func (b *AccountCallBuilder) Mode() Mode { return b.mode }

func (b *AccountCallBuilder) State() State { return b.state }

// IsEmpty reports whether no column has been bound to a value yet.
func (b *AccountCallBuilder) IsEmpty() bool {
	return b.store.bound == 0
}

func (b *AccountCallBuilder) addError(err error) {
	if err != nil {
		b.errors = append(b.errors, err)
	}
}

func (b *AccountCallBuilder) firstError() error {
	if len(b.errors) > 0 {
		return b.errors[0]
	}
	return nil
}

// Add translates one attribute into column assignments.
func (b *AccountCallBuilder) Add(attr attribute.Attribute) error {
	if err := b.firstError(); err != nil {
		return err
	}
	if b.state == StateBuilt {
		return ErrAlreadyBuilt
	}
	b.state = StateAccumulating
	if err := b.translate(attr); err != nil {
		b.addError(err)
		b.logger.Debug("attribute rejected", "call_id", b.id, "attribute", attr.Name, "error", err)
		return err
	}
	return nil
}

// AddAll adds attributes in order and stops at the first error.
func (b *AccountCallBuilder) AddAll(attrs ...attribute.Attribute) error {
	for _, a := range attrs {
		if err := b.Add(a); err != nil {
			return err
		}
	}
	return nil
}

// Build settles the derived date stamps, validates required columns and
// assembles the call. It consumes the builder: a second Build returns
// ErrAlreadyBuilt. A nil dialect renders the JDBC escape form.
func (b *AccountCallBuilder) Build(d dialect.Dialect) (*CallResult, error) {
	if err := b.firstError(); err != nil {
		return nil, err
	}
	if b.state == StateBuilt {
		return nil, ErrAlreadyBuilt
	}
	b.state = StateBuilt
	if d == nil {
		d = dialect.NewJDBCDialect()
	}

	if err := b.settleStamps(); err != nil {
		b.addError(err)
		return nil, err
	}
	if err := b.validate(); err != nil {
		b.addError(err)
		return nil, err
	}
	res := b.assemble(d)
	b.logger.Debug("call built", "call_id", b.id, "mode", b.mode.String(), "dialect", d.Name(), "params", len(res.Params))
	return res, nil
}

// Compile builds a call from attrs in one step.
func Compile(table *schema.Table, d dialect.Dialect, schemaQualifier string, mode Mode, attrs []attribute.Attribute, opts ...Option) (*CallResult, error) {
	b := NewAccountCall(table, schemaQualifier, mode, opts...)
	if err := b.AddAll(attrs...); err != nil {
		return nil, err
	}
	return b.Build(d)
}
