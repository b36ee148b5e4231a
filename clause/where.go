package clause

// Condition an expression with its boolean connector
type Condition struct {
	Boolean Boolean
	Expr    Expression
}

// Where where clause, conditions are joined with their own connector,
// the connector of the first condition is dropped
type Where struct {
	Conditions []Condition
}

// Name where clause name
func (where Where) Name() string {
	return "WHERE"
}

// Build build where clause
func (where Where) Build(builder Builder) {
	for idx, cond := range where.Conditions {
		if idx > 0 {
			builder.WriteByte(' ')
			if cond.Boolean == OrBoolean {
				builder.WriteString(string(OrBoolean))
			} else {
				builder.WriteString(string(AndBoolean))
			}
			builder.WriteByte(' ')
		}
		cond.Expr.Build(builder)
	}
}

// Empty whether where clause has conditions
func (where Where) Empty() bool {
	return len(where.Conditions) == 0
}

// Add append a condition
func (where *Where) Add(boolean Boolean, expr Expression) {
	where.Conditions = append(where.Conditions, Condition{Boolean: boolean, Expr: expr})
}
