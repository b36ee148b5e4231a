package orm

import (
	"fmt"

	"nexus.dev/orm/clause"
)

type trashedMode int

const (
	withoutTrashed trashedMode = iota
	withTrashed
	onlyTrashed
)

// Query a query builder bound to a model, results are hydrated into records
// and declared relations can be eager loaded
type Query struct {
	db      *DB
	model   *Model
	builder *QueryBuilder
	eager   []EagerLoad
	trashed trashedMode

	// constraints are joined with AND in front of the conditions of builder
	// when the query runs
	constraints []func(qb *QueryBuilder)
}

// Model returns a query over the table of m
func (db *DB) Model(m *Model) *Query {
	return &Query{db: db, model: m, builder: db.Table(m.TableName())}
}

// Model returns the model the query is bound to
func (q *Query) Model() *Model {
	return q.model
}

// Builder returns the underlying query builder
func (q *Query) Builder() *QueryBuilder {
	return q.builder
}

// Err returns the first error recorded while building the query
func (q *Query) Err() error {
	return q.builder.Error
}

// AddError record err, the first error wins
func (q *Query) AddError(err error) error {
	return q.builder.AddError(err)
}

// Clone returns an independent copy of the query
func (q *Query) Clone() *Query {
	c := *q
	c.builder = q.builder.Clone()
	c.eager = append([]EagerLoad(nil), q.eager...)
	c.constraints = append(([]func(qb *QueryBuilder))(nil), q.constraints...)
	return &c
}

// Where add a condition, see QueryBuilder.Where
func (q *Query) Where(column string, args ...interface{}) *Query {
	q.builder.Where(column, args...)
	return q
}

// OrWhere add a condition joined with OR
func (q *Query) OrWhere(column string, args ...interface{}) *Query {
	q.builder.OrWhere(column, args...)
	return q
}

// WhereIn add `column IN (...)`
func (q *Query) WhereIn(column string, values []interface{}) *Query {
	q.builder.WhereIn(column, values)
	return q
}

// OrWhereIn add `OR column IN (...)`
func (q *Query) OrWhereIn(column string, values []interface{}) *Query {
	q.builder.OrWhereIn(column, values)
	return q
}

// WhereNotIn add `column NOT IN (...)`
func (q *Query) WhereNotIn(column string, values []interface{}) *Query {
	q.builder.WhereNotIn(column, values)
	return q
}

// OrWhereRaw add a raw condition joined with OR
func (q *Query) OrWhereRaw(sql string, vars ...interface{}) *Query {
	q.builder.OrWhereRaw(sql, vars...)
	return q
}

// WhereNull add `column IS NULL`
func (q *Query) WhereNull(column string) *Query {
	q.builder.WhereNull(column)
	return q
}

// OrWhereNull add `OR column IS NULL`
func (q *Query) OrWhereNull(column string) *Query {
	q.builder.OrWhereNull(column)
	return q
}

// WhereNotNull add `column IS NOT NULL`
func (q *Query) WhereNotNull(column string) *Query {
	q.builder.WhereNotNull(column)
	return q
}

// WhereBetween add `column BETWEEN ? AND ?`
func (q *Query) WhereBetween(column string, from, to interface{}) *Query {
	q.builder.WhereBetween(column, from, to)
	return q
}

// WhereNotBetween add `column NOT BETWEEN ? AND ?`
func (q *Query) WhereNotBetween(column string, from, to interface{}) *Query {
	q.builder.WhereNotBetween(column, from, to)
	return q
}

// WhereNested add a parenthesized group of conditions
func (q *Query) WhereNested(fc func(qb *QueryBuilder)) *Query {
	q.builder.WhereNested(fc)
	return q
}

// OrWhereNested add a parenthesized group joined with OR
func (q *Query) OrWhereNested(fc func(qb *QueryBuilder)) *Query {
	q.builder.OrWhereNested(fc)
	return q
}

// WhereRaw add a raw condition
func (q *Query) WhereRaw(sql string, vars ...interface{}) *Query {
	q.builder.WhereRaw(sql, vars...)
	return q
}

// Join add an inner join
func (q *Query) Join(table, first, operator, second string) *Query {
	q.builder.Join(table, first, operator, second)
	return q
}

// LeftJoin add a left join
func (q *Query) LeftJoin(table, first, operator, second string) *Query {
	q.builder.LeftJoin(table, first, operator, second)
	return q
}

// RightJoin add a right join
func (q *Query) RightJoin(table, first, operator, second string) *Query {
	q.builder.RightJoin(table, first, operator, second)
	return q
}

// JoinFunc add a join built by fc
func (q *Query) JoinFunc(table string, joinType clause.JoinType, fc func(join *JoinClause)) *Query {
	q.builder.JoinFunc(table, joinType, fc)
	return q
}

// Select specify columns to retrieve
func (q *Query) Select(columns ...string) *Query {
	q.builder.Select(columns...)
	return q
}

// OrderBy add an order
func (q *Query) OrderBy(column string, direction ...string) *Query {
	q.builder.OrderBy(column, direction...)
	return q
}

// GroupBy add group by columns
func (q *Query) GroupBy(columns ...string) *Query {
	q.builder.GroupBy(columns...)
	return q
}

// Having add a having condition
func (q *Query) Having(column string, args ...interface{}) *Query {
	q.builder.Having(column, args...)
	return q
}

// OrHaving add a having condition joined with OR
func (q *Query) OrHaving(column string, args ...interface{}) *Query {
	q.builder.OrHaving(column, args...)
	return q
}

// HavingRaw add a raw having condition
func (q *Query) HavingRaw(sql string, vars ...interface{}) *Query {
	q.builder.HavingRaw(sql, vars...)
	return q
}

// Limit specify the number of records to be retrieved
func (q *Query) Limit(limit int) *Query {
	q.builder.Limit(limit)
	return q
}

// Offset specify the number of records to skip
func (q *Query) Offset(offset int) *Query {
	q.builder.Offset(offset)
	return q
}

// Scope apply the scope declared on the model as name
func (q *Query) Scope(name string, args ...interface{}) *Query {
	scope, ok := q.model.Scopes[name]
	if !ok {
		q.AddError(fmt.Errorf("%w: %s::%s", ErrUnknownScope, q.model.Name, name))
		return q
	}
	if scoped := scope(q, args...); scoped != nil {
		return scoped
	}
	return q
}

// With eager load relations, nested relations are dotted, `posts.comments`
func (q *Query) With(paths ...string) *Query {
	for _, path := range paths {
		q.eager = append(q.eager, EagerLoad{Path: path})
	}
	return q
}

// WithFunc eager load a relation, fc constrains the query of the last segment of path
func (q *Query) WithFunc(path string, fc func(q *Query)) *Query {
	q.eager = append(q.eager, EagerLoad{Path: path, Constraint: fc})
	return q
}

// WithTrashed include soft deleted records
func (q *Query) WithTrashed() *Query {
	q.trashed = withTrashed
	return q
}

// OnlyTrashed only soft deleted records
func (q *Query) OnlyTrashed() *Query {
	q.trashed = onlyTrashed
	return q
}

// constrain add a condition the conditions of the caller cannot escape,
// relation keys and primary key lookups use it
func (q *Query) constrain(fc func(qb *QueryBuilder)) *Query {
	q.constraints = append(q.constraints, fc)
	return q
}

func (q *Query) scoped() *QueryBuilder {
	qb := q.builder.Clone()
	if len(q.constraints) > 0 || q.model.SoftDeletes {
		where := qb.where
		qb.where = clause.Where{}
		for _, fc := range q.constraints {
			fc(qb)
		}
		qb.andWhere(where)
	}

	if q.model.SoftDeletes {
		switch q.trashed {
		case withoutTrashed:
			qb.WhereNull(q.model.Qualify(DeletedAt))
		case onlyTrashed:
			qb.WhereNotNull(q.model.Qualify(DeletedAt))
		}
	}
	return qb
}

// ToSQL compiles the select statement without running it
func (q *Query) ToSQL() (string, []interface{}, error) {
	return q.scoped().ToSQL()
}

func (q *Query) records(qb *QueryBuilder) ([]*Record, error) {
	columns, rows, err := qb.rows()
	if err != nil {
		return nil, err
	}

	records := make([]*Record, len(rows))
	for idx, row := range rows {
		records[idx] = hydrate(q.db, q.model, columns, row)
	}

	if len(records) > 0 && len(q.eager) > 0 {
		if err := (EagerLoader{}).Load(records, q.eager...); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// Get returns the matching records
func (q *Query) Get() ([]*Record, error) {
	return q.records(q.scoped())
}

// All returns every matching record, without limit
func (q *Query) All() ([]*Record, error) {
	qb := q.scoped()
	qb.limit, qb.offset = nil, 0
	return q.records(qb)
}

// First returns the first matching record, or nil when nothing matches
func (q *Query) First() (*Record, error) {
	records, err := q.records(q.scoped().Limit(1))
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return records[0], nil
}

// Find returns the record with primary key id, or nil when it does not exist
func (q *Query) Find(id interface{}) (*Record, error) {
	return q.Clone().constrain(func(qb *QueryBuilder) {
		qb.Where(q.model.Qualify(q.model.PrimaryKeyName()), id)
	}).First()
}

// Count returns the number of matching records
func (q *Query) Count() (int64, error) {
	return q.scoped().Count()
}

// Exists whether any record matches
func (q *Query) Exists() (bool, error) {
	return q.scoped().Exists()
}

// Pluck returns the values of a single column
func (q *Query) Pluck(column string) ([]interface{}, error) {
	return q.scoped().Pluck(column)
}

// Raw runs a raw select and hydrates its rows into records of the model,
// `?` placeholders are bound with the placeholders of the dialect
func (q *Query) Raw(sql string, vars ...interface{}) ([]*Record, error) {
	stmt, err := q.db.rawStatement(sql, vars)
	if err != nil {
		return nil, err
	}

	columns, rows, err := stmt.Query()
	if err != nil {
		return nil, err
	}

	records := make([]*Record, len(rows))
	for idx, row := range rows {
		records[idx] = hydrate(q.db, q.model, columns, row)
	}
	return records, nil
}

// New returns an unsaved record filled with the fillable attributes of attrs
func (q *Query) New(attrs map[string]interface{}) (*Record, error) {
	r := newRecord(q.db, q.model)
	if err := r.Fill(attrs); err != nil {
		return nil, err
	}
	return r, nil
}

// Create fills a new record with attrs and inserts it
func (q *Query) Create(attrs map[string]interface{}) (*Record, error) {
	r, err := q.New(attrs)
	if err != nil {
		return nil, err
	}
	if err := r.Save(); err != nil {
		return nil, err
	}
	return r, nil
}

// Update updates every matching row, without mutators or fillable filtering
func (q *Query) Update(values map[string]interface{}) (int64, error) {
	if len(values) > 0 && q.model.Timestamps {
		if _, ok := values[UpdatedAt]; !ok {
			copied := make(map[string]interface{}, len(values)+1)
			for k, v := range values {
				copied[k] = v
			}
			copied[UpdatedAt] = q.db.NowFunc()
			values = copied
		}
	}
	return q.scoped().Update(values)
}

// Delete deletes every matching row, soft delete models only stamp deleted_at
func (q *Query) Delete() (int64, error) {
	if q.model.SoftDeletes {
		return q.scoped().Update(map[string]interface{}{DeletedAt: q.db.NowFunc()})
	}
	return q.scoped().Delete()
}
