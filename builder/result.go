package builder

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Konsultn-Engineering/erpcall/attribute"
	"github.com/Konsultn-Engineering/erpcall/dialect"
	"github.com/Konsultn-Engineering/erpcall/schema"
)

// SQLParam is one positional bind parameter.
type SQLParam struct {
	Column string
	Value  any
	Type   schema.ValueType
}

func (p SQLParam) String() string {
	return fmt.Sprintf("%s %s = %v", p.Column, p.Type, p.Value)
}

type fragment struct {
	column  schema.ColumnTemplate
	param   int
	literal string
}

// CallResult is a compiled call. Placeholders in CallText match Params
// left to right.
type CallResult struct {
	ID        string
	Mode      Mode
	Procedure string
	CallText  string
	Params    []SQLParam

	dialect   dialect.Dialect
	fragments []fragment
}

// Args returns the parameter values in bind order.
func (r *CallResult) Args() []any {
	args := make([]any, len(r.Params))
	for i, p := range r.Params {
		args[i] = p.Value
	}
	return args
}

// Dialect returns the dialect the call was rendered for.
func (r *CallResult) Dialect() dialect.Dialect { return r.dialect }

// Inline renders the call with every parameter written as a literal. Secrets
// are redacted, so the text is for display only.
func (r *CallResult) Inline() string {
	var body strings.Builder
	for i, f := range r.fragments {
		if i > 0 {
			body.WriteString(", ")
		}
		expr := f.literal
		if f.param >= 0 {
			v := r.Params[f.param].Value
			if g, ok := v.(attribute.GuardedString); ok {
				v = g.String()
			}
			expr = r.dialect.RenderValue(v)
		}
		body.WriteString(f.column.Render(expr))
	}
	return r.dialect.CallStatement(r.Procedure, body.String())
}

func (r *CallResult) String() string {
	return fmt.Sprintf("%s call %s (%d params): %s", r.Mode, r.ID, len(r.Params), r.CallText)
}

func (r *CallResult) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", r.ID),
		slog.String("mode", r.Mode.String()),
		slog.String("procedure", r.Procedure),
		slog.Int("params", len(r.Params)),
	)
}
