package orm

import (
	"strings"

	"nexus.dev/orm/clause"
)

// Statement compiled SQL and the values of its placeholders, in emission order
type Statement struct {
	DB   *DB
	SQL  strings.Builder
	Vars []interface{}
}

// WriteString write string
func (stmt *Statement) WriteString(str string) (int, error) {
	return stmt.SQL.WriteString(str)
}

// WriteByte write byte
func (stmt *Statement) WriteByte(c byte) error {
	return stmt.SQL.WriteByte(c)
}

// AddVar add var, the placeholder is written at the current position of the
// SQL so the value list always lines up with the placeholders
func (stmt *Statement) AddVar(writer clause.Writer, vars ...interface{}) {
	for idx, v := range vars {
		if idx > 0 {
			writer.WriteByte(',')
		}

		switch v := v.(type) {
		case clause.Expression:
			v.Build(stmt)
		case []interface{}:
			writer.WriteByte('(')
			stmt.AddVar(writer, v...)
			writer.WriteByte(')')
		default:
			stmt.Vars = append(stmt.Vars, v)
			stmt.DB.Dialector.BindVarTo(writer, len(stmt.Vars))
		}
	}
}

// Build writes a clause expression into the statement
func (stmt *Statement) Build(expr clause.Expression) *Statement {
	expr.Build(stmt)
	return stmt
}

// Exec executes the statement
func (stmt *Statement) Exec() (int64, error) {
	result, err := stmt.DB.exec(stmt.SQL.String(), stmt.Vars)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Query runs the statement and returns its rows
func (stmt *Statement) Query() ([]string, []Row, error) {
	return stmt.DB.query(stmt.SQL.String(), stmt.Vars)
}

// unqualified the result column name of a select expression,
// `posts.title` and `title AS t` yield `title` and `t`
func unqualified(column string) string {
	if idx := strings.LastIndex(strings.ToLower(column), " as "); idx >= 0 {
		return strings.TrimSpace(column[idx+4:])
	}
	if idx := strings.LastIndexByte(column, '.'); idx >= 0 {
		return column[idx+1:]
	}
	return column
}
