package builder

import (
	"strings"

	"github.com/Konsultn-Engineering/erpcall/dialect"
)

// assemble walks the table in order. Bound columns get the next
// placeholder and a parameter, sentinels are rendered inline, unset
// columns are skipped.
func (b *AccountCallBuilder) assemble(d dialect.Dialect) *CallResult {
	var (
		body      strings.Builder
		params    = make([]SQLParam, 0, b.store.bound)
		fragments = make([]fragment, 0, b.table.Len())
	)

	for i := 0; i < b.table.Len(); i++ {
		a := b.store.at(i)
		if a.kind == unset {
			continue
		}
		col := b.table.Column(i)
		frag := fragment{column: col, param: -1, literal: a.literal}

		expr := a.literal
		if a.kind == bound {
			params = append(params, SQLParam{Column: col.Name, Value: a.value, Type: col.Type})
			frag.param = len(params) - 1
			expr = d.Placeholder(len(params))
		}
		if body.Len() > 0 {
			body.WriteString(", ")
		}
		body.WriteString(col.Render(expr))
		fragments = append(fragments, frag)
	}

	proc := b.table.Procedure().Qualified(b.schema, b.mode == ModeCreate)
	return &CallResult{
		ID:        b.id,
		Mode:      b.mode,
		Procedure: proc,
		CallText:  d.CallStatement(proc, body.String()),
		Params:    params,
		dialect:   d,
		fragments: fragments,
	}
}
