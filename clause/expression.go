package clause

import (
	"strings"
)

// Expr raw expression, each `?` in SQL is replaced by the matching var,
// placeholders beyond len(Vars) are written verbatim
type Expr struct {
	SQL  string
	Vars []interface{}
}

// Build build raw expression
func (expr Expr) Build(builder Builder) {
	idx := 0
	for _, v := range []byte(expr.SQL) {
		if v == '?' && idx < len(expr.Vars) {
			builder.AddVar(builder, expr.Vars[idx])
			idx++
		} else {
			builder.WriteByte(v)
		}
	}
}

// Compare column operator value, e.g. `age > ?`
type Compare struct {
	Column   string
	Operator string
	Value    interface{}
}

// Build build compare expression
func (cmp Compare) Build(builder Builder) {
	builder.WriteString(cmp.Column)
	builder.WriteByte(' ')
	builder.WriteString(cmp.Operator)
	builder.WriteByte(' ')
	builder.AddVar(builder, cmp.Value)
}

// ColumnCompare compares two columns, used by join predicates
type ColumnCompare struct {
	Left     string
	Operator string
	Right    string
}

// Build build column compare expression
func (cmp ColumnCompare) Build(builder Builder) {
	builder.WriteString(cmp.Left)
	builder.WriteByte(' ')
	builder.WriteString(cmp.Operator)
	builder.WriteByte(' ')
	builder.WriteString(cmp.Right)
}

// IN whether a column is within a set of values, one placeholder per value
type IN struct {
	Column string
	Values []interface{}
	Not    bool
}

// Build build IN expression
func (in IN) Build(builder Builder) {
	if len(in.Values) == 0 {
		if in.Not {
			// nothing excluded
			builder.WriteString("1 = 1")
		} else {
			builder.WriteString(in.Column)
			builder.WriteString(" IN (NULL)")
		}
		return
	}

	builder.WriteString(in.Column)

	if in.Not {
		builder.WriteString(" NOT IN (")
	} else {
		builder.WriteString(" IN (")
	}
	builder.AddVar(builder, in.Values...)
	builder.WriteByte(')')
}

// Null column IS [NOT] NULL
type Null struct {
	Column string
	Not    bool
}

// Build build null expression
func (n Null) Build(builder Builder) {
	builder.WriteString(n.Column)
	if n.Not {
		builder.WriteString(" IS NOT NULL")
	} else {
		builder.WriteString(" IS NULL")
	}
}

// Between column [NOT] BETWEEN ? AND ?
type Between struct {
	Column string
	From   interface{}
	To     interface{}
	Not    bool
}

// Build build between expression
func (b Between) Build(builder Builder) {
	builder.WriteString(b.Column)
	if b.Not {
		builder.WriteString(" NOT")
	}
	builder.WriteString(" BETWEEN ")
	builder.AddVar(builder, b.From)
	builder.WriteString(" AND ")
	builder.AddVar(builder, b.To)
}

// Group parenthesized nested conditions
type Group struct {
	Where Where
}

// Build build group expression
func (g Group) Build(builder Builder) {
	builder.WriteByte('(')
	g.Where.Build(builder)
	builder.WriteByte(')')
}

// Columns joins column names with `, `
func Columns(columns []string) string {
	return strings.Join(columns, ", ")
}
