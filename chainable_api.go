package orm

import (
	"fmt"
	"strings"

	"nexus.dev/orm/clause"
)

var operators = map[string]bool{
	"=": true, "<>": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
	"LIKE": true, "NOT LIKE": true, "ILIKE": true,
}

// QueryBuilder fluent SQL statement assembler bound to one table. Clause
// methods return the same builder and never execute SQL, terminal methods
// (Get, First, Count, Insert, InsertGetID, Update, Delete) compile and run it.
// A validation failure is kept in Error and returned by the next terminal call.
type QueryBuilder struct {
	Error error

	db      *DB
	table   string
	columns []string
	where   clause.Where
	joins   clause.Joins
	orders  []clause.OrderByColumn
	groups  []string
	having  clause.Where
	limit   *int
	offset  int
}

// Table returns a query builder for table
func (db *DB) Table(name string) *QueryBuilder {
	return &QueryBuilder{db: db, table: name}
}

// AddError add error to query builder, the first error wins
func (qb *QueryBuilder) AddError(err error) error {
	if qb.Error == nil {
		qb.Error = err
	}
	return qb.Error
}

// TableName returns the table of the builder
func (qb *QueryBuilder) TableName() string {
	return qb.table
}

// Clone returns an independent copy of the builder state
func (qb *QueryBuilder) Clone() *QueryBuilder {
	c := *qb
	c.columns = append([]string(nil), qb.columns...)
	c.where.Conditions = append([]clause.Condition(nil), qb.where.Conditions...)
	c.joins = append(clause.Joins(nil), qb.joins...)
	c.orders = append([]clause.OrderByColumn(nil), qb.orders...)
	c.groups = append([]string(nil), qb.groups...)
	c.having.Conditions = append([]clause.Condition(nil), qb.having.Conditions...)
	if qb.limit != nil {
		limit := *qb.limit
		c.limit = &limit
	}
	return &c
}

// Select specify columns to retrieve, defaults to `*`
func (qb *QueryBuilder) Select(columns ...string) *QueryBuilder {
	qb.columns = columns
	return qb
}

// AddSelect append columns to retrieve
func (qb *QueryBuilder) AddSelect(columns ...string) *QueryBuilder {
	if len(qb.columns) == 0 {
		qb.columns = []string{"*"}
	}
	qb.columns = append(qb.columns, columns...)
	return qb
}

// Where add a condition, `Where("name", "ann")` compares with `=`,
// `Where("age", ">", 18)` uses the given operator
func (qb *QueryBuilder) Where(column string, args ...interface{}) *QueryBuilder {
	return qb.addWhere(clause.AndBoolean, column, args)
}

// OrWhere add a condition joined with OR
func (qb *QueryBuilder) OrWhere(column string, args ...interface{}) *QueryBuilder {
	return qb.addWhere(clause.OrBoolean, column, args)
}

func (qb *QueryBuilder) addWhere(boolean clause.Boolean, column string, args []interface{}) *QueryBuilder {
	expr, err := compareExpr(column, args)
	if err != nil {
		qb.AddError(err)
		return qb
	}
	qb.where.Add(boolean, expr)
	return qb
}

func compareExpr(column string, args []interface{}) (clause.Expression, error) {
	var (
		op    = "="
		value interface{}
	)

	switch len(args) {
	case 1:
		value = args[0]
	case 2:
		str, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOperator, args[0])
		}
		op = strings.ToUpper(strings.TrimSpace(str))
		value = args[1]
	default:
		return nil, fmt.Errorf("%w: condition on %s expects 1 or 2 arguments, got %d", ErrInvalidData, column, len(args))
	}

	if !operators[op] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOperator, op)
	}

	if value == nil {
		switch op {
		case "=":
			return clause.Null{Column: column}, nil
		case "<>", "!=":
			return clause.Null{Column: column, Not: true}, nil
		}
	}

	return clause.Compare{Column: column, Operator: op, Value: value}, nil
}

// WhereIn add `column IN (?,?,...)` with one placeholder per value
func (qb *QueryBuilder) WhereIn(column string, values []interface{}) *QueryBuilder {
	qb.where.Add(clause.AndBoolean, clause.IN{Column: column, Values: values})
	return qb
}

// OrWhereIn add `OR column IN (...)`
func (qb *QueryBuilder) OrWhereIn(column string, values []interface{}) *QueryBuilder {
	qb.where.Add(clause.OrBoolean, clause.IN{Column: column, Values: values})
	return qb
}

// WhereNotIn add `column NOT IN (...)`
func (qb *QueryBuilder) WhereNotIn(column string, values []interface{}) *QueryBuilder {
	qb.where.Add(clause.AndBoolean, clause.IN{Column: column, Values: values, Not: true})
	return qb
}

// WhereNull add `column IS NULL`
func (qb *QueryBuilder) WhereNull(column string) *QueryBuilder {
	qb.where.Add(clause.AndBoolean, clause.Null{Column: column})
	return qb
}

// OrWhereNull add `OR column IS NULL`
func (qb *QueryBuilder) OrWhereNull(column string) *QueryBuilder {
	qb.where.Add(clause.OrBoolean, clause.Null{Column: column})
	return qb
}

// WhereNotNull add `column IS NOT NULL`
func (qb *QueryBuilder) WhereNotNull(column string) *QueryBuilder {
	qb.where.Add(clause.AndBoolean, clause.Null{Column: column, Not: true})
	return qb
}

// WhereBetween add `column BETWEEN ? AND ?`
func (qb *QueryBuilder) WhereBetween(column string, from, to interface{}) *QueryBuilder {
	qb.where.Add(clause.AndBoolean, clause.Between{Column: column, From: from, To: to})
	return qb
}

// WhereNotBetween add `column NOT BETWEEN ? AND ?`
func (qb *QueryBuilder) WhereNotBetween(column string, from, to interface{}) *QueryBuilder {
	qb.where.Add(clause.AndBoolean, clause.Between{Column: column, From: from, To: to, Not: true})
	return qb
}

// WhereNested add a parenthesized group of conditions built by fc
func (qb *QueryBuilder) WhereNested(fc func(q *QueryBuilder)) *QueryBuilder {
	return qb.addNested(clause.AndBoolean, fc)
}

// OrWhereNested add a parenthesized group joined with OR
func (qb *QueryBuilder) OrWhereNested(fc func(q *QueryBuilder)) *QueryBuilder {
	return qb.addNested(clause.OrBoolean, fc)
}

func (qb *QueryBuilder) addNested(boolean clause.Boolean, fc func(q *QueryBuilder)) *QueryBuilder {
	nested := &QueryBuilder{db: qb.db, table: qb.table}
	fc(nested)

	if nested.Error != nil {
		qb.AddError(nested.Error)
		return qb
	}

	if !nested.where.Empty() {
		qb.where.Add(boolean, clause.Group{Where: nested.where})
	}
	return qb
}

// andWhere appends the conditions of where joined with AND, they are
// parenthesized when one of them is joined with OR
func (qb *QueryBuilder) andWhere(where clause.Where) {
	if where.Empty() {
		return
	}

	for _, cond := range where.Conditions[1:] {
		if cond.Boolean == clause.OrBoolean {
			qb.where.Add(clause.AndBoolean, clause.Group{Where: where})
			return
		}
	}

	for _, cond := range where.Conditions {
		qb.where.Add(clause.AndBoolean, cond.Expr)
	}
}

// WhereRaw add a raw condition, `?` placeholders are paired with vars
func (qb *QueryBuilder) WhereRaw(sql string, vars ...interface{}) *QueryBuilder {
	if err := checkPlaceholders(sql, vars); err != nil {
		qb.AddError(err)
		return qb
	}
	qb.where.Add(clause.AndBoolean, clause.Expr{SQL: sql, Vars: vars})
	return qb
}

// OrWhereRaw add a raw condition joined with OR
func (qb *QueryBuilder) OrWhereRaw(sql string, vars ...interface{}) *QueryBuilder {
	if err := checkPlaceholders(sql, vars); err != nil {
		qb.AddError(err)
		return qb
	}
	qb.where.Add(clause.OrBoolean, clause.Expr{SQL: sql, Vars: vars})
	return qb
}

func checkPlaceholders(sql string, vars []interface{}) error {
	if n := strings.Count(sql, "?"); n != len(vars) {
		return fmt.Errorf("%w: %q has %d placeholders but %d values", ErrInvalidData, sql, n, len(vars))
	}
	return nil
}

// Join add `INNER JOIN table ON first operator second`
func (qb *QueryBuilder) Join(table, first, operator, second string) *QueryBuilder {
	return qb.addJoin(clause.InnerJoin, table, first, operator, second)
}

// LeftJoin add `LEFT JOIN table ON first operator second`
func (qb *QueryBuilder) LeftJoin(table, first, operator, second string) *QueryBuilder {
	return qb.addJoin(clause.LeftJoin, table, first, operator, second)
}

// RightJoin add `RIGHT JOIN table ON first operator second`
func (qb *QueryBuilder) RightJoin(table, first, operator, second string) *QueryBuilder {
	return qb.addJoin(clause.RightJoin, table, first, operator, second)
}

func (qb *QueryBuilder) addJoin(joinType clause.JoinType, table, first, operator, second string) *QueryBuilder {
	return qb.JoinFunc(table, joinType, func(join *JoinClause) {
		join.On(first, operator, second)
	})
}

// JoinFunc add a join whose ON predicate is built by fc, a join without any
// predicate is rejected with ErrEmptyJoinCondition
func (qb *QueryBuilder) JoinFunc(table string, joinType clause.JoinType, fc func(join *JoinClause)) *QueryBuilder {
	join := &JoinClause{}
	fc(join)

	if join.err != nil {
		qb.AddError(join.err)
		return qb
	}

	if join.on.Empty() {
		qb.AddError(fmt.Errorf("%w: %s", ErrEmptyJoinCondition, table))
		return qb
	}

	qb.joins = append(qb.joins, clause.Join{Type: joinType, Table: table, ON: join.on})
	return qb
}

// JoinClause collects the ON predicate of a join
type JoinClause struct {
	on  clause.Where
	err error
}

// On add `first operator second`
func (join *JoinClause) On(first, operator, second string) *JoinClause {
	return join.addOn(clause.AndBoolean, first, operator, second)
}

// OrOn add `OR first operator second`
func (join *JoinClause) OrOn(first, operator, second string) *JoinClause {
	return join.addOn(clause.OrBoolean, first, operator, second)
}

func (join *JoinClause) addOn(boolean clause.Boolean, first, operator, second string) *JoinClause {
	op := strings.ToUpper(strings.TrimSpace(operator))
	if !operators[op] {
		join.err = fmt.Errorf("%w: %q", ErrInvalidOperator, operator)
		return join
	}
	join.on.Add(boolean, clause.ColumnCompare{Left: first, Operator: op, Right: second})
	return join
}

// Where add a value condition to the predicate
func (join *JoinClause) Where(column string, args ...interface{}) *JoinClause {
	expr, err := compareExpr(column, args)
	if err != nil {
		join.err = err
		return join
	}
	join.on.Add(clause.AndBoolean, expr)
	return join
}

// OrderBy add an order, direction defaults to ASC and must be ASC or DESC
func (qb *QueryBuilder) OrderBy(column string, direction ...string) *QueryBuilder {
	dir := "ASC"
	if len(direction) > 0 {
		dir = strings.ToUpper(strings.TrimSpace(direction[0]))
	}

	if dir != "ASC" && dir != "DESC" {
		qb.AddError(fmt.Errorf("%w: %q", ErrInvalidDirection, direction[0]))
		return qb
	}

	qb.orders = append(qb.orders, clause.OrderByColumn{Column: column, Direction: dir})
	return qb
}

// GroupBy add group by columns
func (qb *QueryBuilder) GroupBy(columns ...string) *QueryBuilder {
	qb.groups = append(qb.groups, columns...)
	return qb
}

// Having add a having condition, arguments as in Where
func (qb *QueryBuilder) Having(column string, args ...interface{}) *QueryBuilder {
	return qb.addHaving(clause.AndBoolean, column, args)
}

// OrHaving add a having condition joined with OR
func (qb *QueryBuilder) OrHaving(column string, args ...interface{}) *QueryBuilder {
	return qb.addHaving(clause.OrBoolean, column, args)
}

func (qb *QueryBuilder) addHaving(boolean clause.Boolean, column string, args []interface{}) *QueryBuilder {
	expr, err := compareExpr(column, args)
	if err != nil {
		qb.AddError(err)
		return qb
	}
	qb.having.Add(boolean, expr)
	return qb
}

// HavingRaw add a raw having condition
func (qb *QueryBuilder) HavingRaw(sql string, vars ...interface{}) *QueryBuilder {
	if err := checkPlaceholders(sql, vars); err != nil {
		qb.AddError(err)
		return qb
	}
	qb.having.Add(clause.AndBoolean, clause.Expr{SQL: sql, Vars: vars})
	return qb
}

// Limit specify the number of records to be retrieved
func (qb *QueryBuilder) Limit(limit int) *QueryBuilder {
	if limit < 0 {
		qb.AddError(fmt.Errorf("%w: limit %d", ErrInvalidLimit, limit))
		return qb
	}
	qb.limit = &limit
	return qb
}

// Offset specify the number of records to skip before starting to return the records
func (qb *QueryBuilder) Offset(offset int) *QueryBuilder {
	if offset < 0 {
		qb.AddError(fmt.Errorf("%w: offset %d", ErrInvalidLimit, offset))
		return qb
	}
	qb.offset = offset
	return qb
}
