package clause

// Writer writer interface
type Writer interface {
	WriteByte(byte) error
	WriteString(string) (int, error)
}

// Builder builder interface, every placeholder is written through AddVar
// together with its value so the compiled SQL and its values never drift apart
type Builder interface {
	Writer
	AddVar(Writer, ...interface{})
}

// Expression expression interface
type Expression interface {
	Build(builder Builder)
}

// Interface clause interface
type Interface interface {
	Name() string
	Build(Builder)
}

// Boolean connector of a condition
type Boolean string

const (
	AndBoolean Boolean = "AND"
	OrBoolean  Boolean = "OR"
)
