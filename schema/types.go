package schema

import (
	"fmt"
	"strings"
)

// ValueType is the SQL type family a column binds as.
type ValueType int

const (
	String ValueType = iota
	Integer
	Timestamp
	GuardedSecret
	Boolean
)

var valueTypeNames = [...]string{
	String:        "string",
	Integer:       "integer",
	Timestamp:     "timestamp",
	GuardedSecret: "guarded_secret",
	Boolean:       "boolean",
}

func (t ValueType) String() string {
	if t < 0 || int(t) >= len(valueTypeNames) {
		return fmt.Sprintf("ValueType(%d)", int(t))
	}
	return valueTypeNames[t]
}

// ParseValueType maps a type name (as used in table files) to its ValueType.
// A few common SQL spellings are accepted as aliases.
func ParseValueType(s string) (ValueType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string", "varchar", "varchar2", "char":
		return String, nil
	case "integer", "int", "number":
		return Integer, nil
	case "timestamp", "date":
		return Timestamp, nil
	case "guarded_secret", "guardedsecret", "secret", "password":
		return GuardedSecret, nil
	case "boolean", "bool":
		return Boolean, nil
	}
	return 0, fmt.Errorf("schema: unknown value type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t ValueType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ValueType) UnmarshalText(b []byte) error {
	v, err := ParseValueType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Placeholder is the marker a column body carries for its value expression.
const Placeholder = "{0}"

// ColumnTemplate describes one named argument of the target procedure.
type ColumnTemplate struct {
	Name string
	Body string
	Type ValueType
}

// Render substitutes expr for the body placeholder.
func (c ColumnTemplate) Render(expr string) string {
	return strings.Replace(c.Body, Placeholder, expr, 1)
}

// Sentinels are the inline literals used instead of bind parameters when a
// column has to be explicitly cleared (or stamped server side).
type Sentinels struct {
	Char   string `yaml:"char" json:"char"`
	Number string `yaml:"number" json:"number"`
	Date   string `yaml:"date" json:"date"`
	Now    string `yaml:"now" json:"now"`
}

// DefaultSentinels returns the FND_USER_PKG constants.
func DefaultSentinels() Sentinels {
	return Sentinels{
		Char:   "FND_USER_PKG.null_char",
		Number: "FND_USER_PKG.null_number",
		Date:   "FND_USER_PKG.null_date",
		Now:    "sysdate",
	}
}

// For returns the null literal matching a value type. Secrets and strings
// share the char literal; booleans have none.
func (s Sentinels) For(t ValueType) (string, bool) {
	switch t {
	case String, GuardedSecret:
		return s.Char, s.Char != ""
	case Integer:
		return s.Number, s.Number != ""
	case Timestamp:
		return s.Date, s.Date != ""
	}
	return "", false
}

func (s Sentinels) withDefaults() Sentinels {
	d := DefaultSentinels()
	if s.Char == "" {
		s.Char = d.Char
	}
	if s.Number == "" {
		s.Number = d.Number
	}
	if s.Date == "" {
		s.Date = d.Date
	}
	if s.Now == "" {
		s.Now = d.Now
	}
	return s
}

// Procedure names the stored package and its create/update entry points.
type Procedure struct {
	Package string `yaml:"package" json:"package"`
	Create  string `yaml:"create" json:"create"`
	Update  string `yaml:"update" json:"update"`
}

// DefaultProcedure returns fnd_user_pkg.CreateUser / UpdateUser.
func DefaultProcedure() Procedure {
	return Procedure{Package: "fnd_user_pkg", Create: "CreateUser", Update: "UpdateUser"}
}

// Function returns the create or update function name.
func (p Procedure) Function(create bool) string {
	if create {
		return p.Create
	}
	return p.Update
}

// Qualified returns the schema-qualified procedure name. The schema may be
// empty and may or may not end with a dot.
func (p Procedure) Qualified(schema string, create bool) string {
	var sb strings.Builder
	schema = strings.TrimSpace(schema)
	if schema != "" {
		sb.WriteString(strings.TrimSuffix(schema, "."))
		sb.WriteByte('.')
	}
	if p.Package != "" {
		sb.WriteString(p.Package)
		sb.WriteByte('.')
	}
	sb.WriteString(p.Function(create))
	return sb.String()
}
