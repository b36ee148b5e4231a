package clause

type Returning struct {
	Columns []string
}

// Name where clause name
func (returning Returning) Name() string {
	return "RETURNING"
}

// Build build where clause
func (returning Returning) Build(builder Builder) {
	builder.WriteString("RETURNING ")
	builder.WriteString(Columns(returning.Columns))
}
