package clause

// GroupBy group by clause
type GroupBy struct {
	Columns []string
	Having  Where
}

// Name from clause name
func (groupBy GroupBy) Name() string {
	return "GROUP BY"
}

// Build build group by clause
func (groupBy GroupBy) Build(builder Builder) {
	if len(groupBy.Columns) > 0 {
		builder.WriteString("GROUP BY ")
		builder.WriteString(Columns(groupBy.Columns))
	}

	if !groupBy.Having.Empty() {
		if len(groupBy.Columns) > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString("HAVING ")
		groupBy.Having.Build(builder)
	}
}
