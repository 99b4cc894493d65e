package dialect

import "time"

// JDBC renders the callable statement escape syntax with anonymous "?"
// binds. Drivers that speak ODBC escapes accept the same text.
type JDBC struct{}

func NewJDBCDialect() Dialect {
	return &JDBC{}
}

func (JDBC) Name() string { return "jdbc" }

func (JDBC) Placeholder(int) string {
	return "?"
}

func (JDBC) CallStatement(proc, body string) string {
	return "{ call " + proc + " ( " + body + " ) }"
}

func (JDBC) RenderValue(v any) string {
	return renderOracle(v, func(t time.Time) string {
		return "{ts '" + t.Format("2006-01-02 15:04:05.999999999") + "'}"
	})
}
