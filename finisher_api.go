package orm

import (
	"fmt"
	"sort"

	"github.com/spf13/cast"

	"nexus.dev/orm/clause"
)

func (qb *QueryBuilder) statement() *Statement {
	return &Statement{DB: qb.db}
}

func (qb *QueryBuilder) buildSelect(stmt *Statement) {
	stmt.WriteString("SELECT ")
	if len(qb.columns) == 0 {
		stmt.WriteByte('*')
	} else {
		stmt.WriteString(clause.Columns(qb.columns))
	}
	stmt.WriteString(" FROM ")
	stmt.WriteString(qb.table)

	if len(qb.joins) > 0 {
		stmt.WriteByte(' ')
		stmt.Build(qb.joins)
	}

	qb.buildWhere(stmt)

	if len(qb.groups) > 0 || !qb.having.Empty() {
		stmt.WriteByte(' ')
		stmt.Build(clause.GroupBy{Columns: qb.groups, Having: qb.having})
	}

	if len(qb.orders) > 0 {
		stmt.WriteString(" ORDER BY ")
		stmt.Build(clause.OrderBy{Columns: qb.orders})
	}

	if qb.limit != nil || qb.offset > 0 {
		stmt.WriteByte(' ')
		stmt.Build(clause.Limit{Limit: qb.limit, Offset: qb.offset})
	}
}

func (qb *QueryBuilder) buildWhere(stmt *Statement) {
	if !qb.where.Empty() {
		stmt.WriteString(" WHERE ")
		stmt.Build(qb.where)
	}
}

// ToSQL compiles the select statement without running it
func (qb *QueryBuilder) ToSQL() (string, []interface{}, error) {
	if qb.Error != nil {
		return "", nil, qb.Error
	}
	stmt := qb.statement()
	qb.buildSelect(stmt)
	return stmt.SQL.String(), stmt.Vars, nil
}

// Get runs the select and returns every matching row
func (qb *QueryBuilder) Get() ([]Row, error) {
	_, rows, err := qb.rows()
	return rows, err
}

func (qb *QueryBuilder) rows() ([]string, []Row, error) {
	if qb.Error != nil {
		return nil, nil, qb.Error
	}
	stmt := qb.statement()
	qb.buildSelect(stmt)
	return stmt.Query()
}

// First returns the first matching row, or nil when nothing matches
func (qb *QueryBuilder) First() (Row, error) {
	rows, err := qb.Clone().Limit(1).Get()
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// Count returns the number of matching rows, the builder itself is not modified
func (qb *QueryBuilder) Count() (int64, error) {
	if qb.Error != nil {
		return 0, qb.Error
	}

	c := qb.Clone()
	c.orders = nil
	c.limit = nil
	c.offset = 0

	stmt := qb.statement()
	if len(c.groups) > 0 {
		stmt.WriteString("SELECT COUNT(*) AS aggregate FROM (")
		c.buildSelect(stmt)
		stmt.WriteString(") aggregate_table")
	} else {
		c.columns = []string{"COUNT(*) AS aggregate"}
		c.buildSelect(stmt)
	}

	_, rows, err := stmt.Query()
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	count, err := cast.ToInt64E(rows[0]["aggregate"])
	if err != nil {
		return 0, fmt.Errorf("%w: count: %v", ErrInvalidData, err)
	}
	return count, nil
}

// Exists whether any row matches
func (qb *QueryBuilder) Exists() (bool, error) {
	row, err := qb.Clone().Select("1 AS present").First()
	return row != nil, err
}

// Pluck returns the values of a single column
func (qb *QueryBuilder) Pluck(column string) ([]interface{}, error) {
	rows, err := qb.Clone().Select(column).Get()
	if err != nil {
		return nil, err
	}

	values := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		values = append(values, row[unqualified(column)])
	}
	return values, nil
}

func sortedColumns(values map[string]interface{}) ([]string, []interface{}) {
	columns := make([]string, 0, len(values))
	for column := range values {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	vars := make([]interface{}, len(columns))
	for idx, column := range columns {
		vars[idx] = values[column]
	}
	return columns, vars
}

func (qb *QueryBuilder) insertStatement(columns []string, values []interface{}) *Statement {
	stmt := qb.statement()
	stmt.WriteString("INSERT INTO ")
	stmt.WriteString(qb.table)
	stmt.WriteByte(' ')
	stmt.Build(clause.Values{Columns: columns, Values: values})
	return stmt
}

// Insert inserts one row, columns are written in sorted order. An empty map
// inserts nothing and returns false.
func (qb *QueryBuilder) Insert(values map[string]interface{}) (bool, error) {
	if qb.Error != nil {
		return false, qb.Error
	}
	if len(values) == 0 {
		return false, nil
	}

	columns, vars := sortedColumns(values)
	affected, err := qb.insertStatement(columns, vars).Exec()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// InsertGetID inserts one row and returns its generated primary key,
// primaryKey defaults to `id`
func (qb *QueryBuilder) InsertGetID(values map[string]interface{}, primaryKey ...string) (int64, error) {
	columns, vars := sortedColumns(values)
	return qb.insertGetID(columns, vars, primaryKey...)
}

func (qb *QueryBuilder) insertGetID(columns []string, values []interface{}, primaryKey ...string) (int64, error) {
	if qb.Error != nil {
		return 0, qb.Error
	}

	pk := "id"
	if len(primaryKey) > 0 && primaryKey[0] != "" {
		pk = primaryKey[0]
	}

	stmt := qb.insertStatement(columns, values)
	if len(columns) == 0 {
		stmt = qb.statement()
		stmt.WriteString("INSERT INTO ")
		stmt.WriteString(qb.table)
		if qb.db.Dialector.Name() == "mysql" {
			stmt.WriteString(" () VALUES ()")
		} else {
			stmt.WriteString(" DEFAULT VALUES")
		}
	}

	if qb.db.Dialector.Returning() {
		stmt.WriteByte(' ')
		stmt.Build(clause.Returning{Columns: []string{pk}})

		_, rows, err := stmt.Query()
		if err != nil {
			return 0, err
		}
		if len(rows) == 0 {
			return 0, fmt.Errorf("%w: insert into %s returned no %s", ErrInvalidData, qb.table, pk)
		}

		id, err := cast.ToInt64E(rows[0][pk])
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidData, pk, err)
		}
		qb.db.lastID.Store(id)
		return id, nil
	}

	result, err := qb.db.exec(stmt.SQL.String(), stmt.Vars)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// Update updates the matching rows and returns the number of affected rows,
// columns are written in sorted order. An empty map is a no-op.
func (qb *QueryBuilder) Update(values map[string]interface{}) (int64, error) {
	columns, vars := sortedColumns(values)
	return qb.update(columns, vars)
}

func (qb *QueryBuilder) update(columns []string, values []interface{}) (int64, error) {
	if qb.Error != nil {
		return 0, qb.Error
	}
	if len(columns) == 0 {
		return 0, nil
	}

	set := make(clause.Set, len(columns))
	for idx, column := range columns {
		set[idx] = clause.Assignment{Column: column, Value: values[idx]}
	}

	stmt := qb.statement()
	stmt.WriteString("UPDATE ")
	stmt.WriteString(qb.table)
	stmt.WriteString(" SET ")
	stmt.Build(set)
	qb.buildWhere(stmt)
	return stmt.Exec()
}

// Delete deletes the matching rows and returns the number of affected rows
func (qb *QueryBuilder) Delete() (int64, error) {
	if qb.Error != nil {
		return 0, qb.Error
	}

	stmt := qb.statement()
	stmt.WriteString("DELETE FROM ")
	stmt.WriteString(qb.table)
	qb.buildWhere(stmt)
	return stmt.Exec()
}
