package migrator

import (
	"fmt"
	"strings"

	"nexus.dev/orm"
)

// Column a column name and its SQL definition, `VARCHAR(255) NOT NULL`
type Column struct {
	Name       string
	Definition string
}

// Schema DDL helper handed to migrations, statements run on the connection
// or transaction the migration runs in
type Schema struct {
	db *orm.DB
}

// NewSchema returns a schema helper over db
func NewSchema(db *orm.DB) *Schema {
	return &Schema{db: db}
}

// DB returns the connection the schema helper runs on
func (s *Schema) DB() *orm.DB {
	return s.db
}

// Exec runs a raw statement
func (s *Schema) Exec(sql string, vars ...interface{}) error {
	_, err := s.db.Exec(sql, vars...)
	return err
}

// CreateTable creates table name unless it exists, constraints are appended
// after the columns, e.g. `FOREIGN KEY (user_id) REFERENCES users(id)`
func (s *Schema) CreateTable(name string, columns []Column, constraints ...string) error {
	if len(columns) == 0 {
		return fmt.Errorf("%w: table %s has no columns", orm.ErrInvalidData, name)
	}

	definitions := make([]string, 0, len(columns)+len(constraints))
	for _, column := range columns {
		definitions = append(definitions, column.Name+" "+column.Definition)
	}
	definitions = append(definitions, constraints...)

	return s.Exec(fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", name, strings.Join(definitions, ",\n\t")))
}

// DropTable drops table name if it exists
func (s *Schema) DropTable(name string) error {
	return s.Exec("DROP TABLE IF EXISTS " + name)
}

// AddColumn adds column to table
func (s *Schema) AddColumn(table string, column Column) error {
	return s.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column.Name, column.Definition))
}

// DropColumn drops column from table
func (s *Schema) DropColumn(table, column string) error {
	return s.Exec(fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", table, column))
}

// CreateIndex creates an index over columns of table named `idx_<table>_<columns>`
func (s *Schema) CreateIndex(table string, columns ...string) error {
	return s.Exec(Index{Table: table, Columns: columns}.SQL())
}

// CreateUniqueIndex creates a unique index over columns of table
func (s *Schema) CreateUniqueIndex(table string, columns ...string) error {
	return s.Exec(Index{Table: table, Columns: columns, Unique: true}.SQL())
}

// DropIndex drops index of table
func (s *Schema) DropIndex(table, index string) error {
	return s.Exec(s.db.Dialector.DropIndexSQL(table, index))
}

// ID auto increment primary key column `id`
func (s *Schema) ID() Column {
	return Column{Name: "id", Definition: s.db.Dialector.AutoIncrementPrimaryKey()}
}

// Timestamps nullable created_at and updated_at columns
func (s *Schema) Timestamps() []Column {
	return []Column{
		{Name: orm.CreatedAt, Definition: "TIMESTAMP NULL"},
		{Name: orm.UpdatedAt, Definition: "TIMESTAMP NULL"},
	}
}

// SoftDeletes nullable deleted_at column
func (s *Schema) SoftDeletes() Column {
	return Column{Name: orm.DeletedAt, Definition: "TIMESTAMP NULL"}
}

// Columns concatenates column lists, `Columns([]Column{s.ID()}, s.Timestamps())`
func Columns(groups ...[]Column) []Column {
	var columns []Column
	for _, group := range groups {
		columns = append(columns, group...)
	}
	return columns
}
