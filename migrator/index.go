package migrator

import (
	"strings"

	"nexus.dev/orm/clause"
)

// Index an index created by Schema.CreateIndex
type Index struct {
	Table   string
	Name    string
	Columns []string
	Unique  bool
}

// DefaultName `idx_<table>_<columns>`
func (idx Index) DefaultName() string {
	return "idx_" + idx.Table + "_" + strings.Join(idx.Columns, "_")
}

// SQL the CREATE INDEX statement
func (idx Index) SQL() string {
	name := idx.Name
	if name == "" {
		name = idx.DefaultName()
	}

	var sql strings.Builder
	sql.WriteString("CREATE ")
	if idx.Unique {
		sql.WriteString("UNIQUE ")
	}
	sql.WriteString("INDEX ")
	sql.WriteString(name)
	sql.WriteString(" ON ")
	sql.WriteString(idx.Table)
	sql.WriteString(" (")
	sql.WriteString(clause.Columns(idx.Columns))
	sql.WriteByte(')')
	return sql.String()
}
