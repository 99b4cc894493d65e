package dialect

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// Oracle renders an anonymous PL/SQL block with numbered binds, the form
// godror and go-ora accept.
type Oracle struct{}

func NewOracleDialect() Dialect {
	return &Oracle{}
}

func (Oracle) Name() string { return "oracle" }

func (Oracle) Placeholder(n int) string {
	return ":" + strconv.Itoa(n)
}

func (Oracle) CallStatement(proc, body string) string {
	return "BEGIN " + proc + "(" + body + "); END;"
}

func (Oracle) RenderValue(v any) string {
	return renderOracle(v, func(t time.Time) string {
		return "TO_TIMESTAMP('" + t.Format("2006-01-02 15:04:05.000000") + "', 'YYYY-MM-DD HH24:MI:SS.FF6')"
	})
}

func renderOracle(v any, ts func(time.Time) string) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return quote(val)
	case bool:
		if val {
			return "'Y'"
		}
		return "'N'"
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", val)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32, float64:
		return strconv.FormatFloat(reflect.ValueOf(val).Float(), 'f', -1, 64)
	case time.Time:
		return ts(val)
	case []byte:
		return fmt.Sprintf("HEXTORAW('%X')", val)
	case fmt.Stringer:
		return quote(val.String())
	default:
		return quote(fmt.Sprint(val))
	}
}
