package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTable is wrapped by every table construction failure.
var ErrInvalidTable = errors.New("schema: invalid column table")

// Table is the ordered list of procedure arguments. Its order drives the
// order of fragments and bind parameters in every compiled call. A Table
// is immutable once built and safe for concurrent use.
type Table struct {
	procedure Procedure
	sentinels Sentinels
	columns   []ColumnTemplate
	index     map[string]int
}

// NewTable validates the columns and builds a table. Column names must be
// unique (ignoring case) and every body must hold exactly one placeholder.
// Empty procedure or sentinel fields fall back to the FND_USER_PKG defaults.
func NewTable(proc Procedure, sentinels Sentinels, columns ...ColumnTemplate) (*Table, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrInvalidTable)
	}
	def := DefaultProcedure()
	if proc.Create == "" {
		proc.Create = def.Create
	}
	if proc.Update == "" {
		proc.Update = def.Update
	}

	t := &Table{
		procedure: proc,
		sentinels: sentinels.withDefaults(),
		columns:   make([]ColumnTemplate, len(columns)),
		index:     make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			return nil, fmt.Errorf("%w: column %d has no name", ErrInvalidTable, i)
		}
		if n := strings.Count(c.Body, Placeholder); n != 1 {
			return nil, fmt.Errorf("%w: column %s body %q has %d placeholders", ErrInvalidTable, c.Name, c.Body, n)
		}
		key := normalize(c.Name)
		if _, dup := t.index[key]; dup {
			return nil, fmt.Errorf("%w: duplicate column %s", ErrInvalidTable, c.Name)
		}
		t.index[key] = i
		t.columns[i] = c
	}
	return t, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Len returns the number of columns.
func (t *Table) Len() int { return len(t.columns) }

// Column returns the column at position i.
func (t *Table) Column(i int) ColumnTemplate { return t.columns[i] }

// Index returns the position of a column, ignoring case.
func (t *Table) Index(name string) (int, bool) {
	i, ok := t.index[normalize(name)]
	return i, ok
}

// Lookup returns the column template by name, ignoring case.
func (t *Table) Lookup(name string) (ColumnTemplate, bool) {
	i, ok := t.Index(name)
	if !ok {
		return ColumnTemplate{}, false
	}
	return t.columns[i], true
}

// Columns returns a copy of the ordered columns.
func (t *Table) Columns() []ColumnTemplate {
	out := make([]ColumnTemplate, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t *Table) Procedure() Procedure { return t.procedure }

func (t *Table) Sentinels() Sentinels { return t.sentinels }
