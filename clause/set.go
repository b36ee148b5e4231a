package clause

type Set []Assignment

type Assignment struct {
	Column string
	Value  interface{}
}

// Name set clause name
func (set Set) Name() string {
	return "SET"
}

// Build build set clause
func (set Set) Build(builder Builder) {
	for idx, assignment := range set {
		if idx > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(assignment.Column)
		builder.WriteString(" = ")
		builder.AddVar(builder, assignment.Value)
	}
}
