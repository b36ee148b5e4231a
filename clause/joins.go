package clause

type JoinType string

const (
	InnerJoin JoinType = "INNER"
	LeftJoin  JoinType = "LEFT"
	RightJoin JoinType = "RIGHT"
)

// Join join clause
type Join struct {
	Type  JoinType
	Table string
	ON    Where
}

// Build build join clause
func (join Join) Build(builder Builder) {
	if join.Type != "" {
		builder.WriteString(string(join.Type))
		builder.WriteByte(' ')
	}

	builder.WriteString("JOIN ")
	builder.WriteString(join.Table)

	if !join.ON.Empty() {
		builder.WriteString(" ON ")
		join.ON.Build(builder)
	}
}

// Joins list of join clauses
type Joins []Join

// Build build joins
func (joins Joins) Build(builder Builder) {
	for idx, join := range joins {
		if idx > 0 {
			builder.WriteByte(' ')
		}
		join.Build(builder)
	}
}
