package clause

type OrderByColumn struct {
	Column    string
	Direction string
}

type OrderBy struct {
	Columns []OrderByColumn
}

// Name order by clause name
func (orderBy OrderBy) Name() string {
	return "ORDER BY"
}

// Build build order by clause
func (orderBy OrderBy) Build(builder Builder) {
	for idx, column := range orderBy.Columns {
		if idx > 0 {
			builder.WriteString(", ")
		}

		builder.WriteString(column.Column)
		builder.WriteByte(' ')
		builder.WriteString(column.Direction)
	}
}
