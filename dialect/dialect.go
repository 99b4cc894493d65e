package dialect

import (
	"fmt"
	"sort"
	"strings"
)

// Dialect renders the driver specific parts of a procedure call: the bind
// placeholder syntax, the call wrapper, and inline literals for previews.
type Dialect interface {
	Name() string
	// Placeholder returns the marker for the n-th bind parameter, 1-based.
	Placeholder(n int) string
	// CallStatement wraps an argument list into an executable call.
	CallStatement(proc, body string) string
	RenderValue(v any) string
}

var dialects = map[string]func() Dialect{
	"jdbc":     NewJDBCDialect,
	"oracle":   NewOracleDialect,
	"godror":   NewOracleDialect,
	"oracle12": NewOracleDialect,
	"postgres": NewPostgresDialect,
	"pgx":      NewPostgresDialect,
}

// Lookup returns the dialect registered under name, ignoring case.
func Lookup(name string) (Dialect, error) {
	if fn, ok := dialects[strings.ToLower(strings.TrimSpace(name))]; ok {
		return fn(), nil
	}
	return nil, fmt.Errorf("dialect: unknown dialect %q (available: %s)", name, strings.Join(Names(), ", "))
}

// Names lists the registered dialect names in sorted order.
func Names() []string {
	names := make([]string, 0, len(dialects))
	for n := range dialects {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
