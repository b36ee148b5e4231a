package clause

// Values column list plus one row of values for INSERT
type Values struct {
	Columns []string
	Values  []interface{}
}

// Name from clause name
func (Values) Name() string {
	return "VALUES"
}

// Build build from clause
func (values Values) Build(builder Builder) {
	builder.WriteByte('(')
	builder.WriteString(Columns(values.Columns))
	builder.WriteString(") VALUES (")
	builder.AddVar(builder, values.Values...)
	builder.WriteByte(')')
}
