package orm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus.dev/orm"
	"nexus.dev/orm/clause"
)

func TestBuilderSQL(t *testing.T) {
	db := dummyDB(t, false)

	cases := []struct {
		name string
		qb   *orm.QueryBuilder
		sql  string
		vars []interface{}
	}{
		{"select all", db.Table("users"), "SELECT * FROM users", nil},
		{
			"where or where",
			db.Table("users").Where("age", ">", 18).OrWhere("vip", true),
			"SELECT * FROM users WHERE age > ? OR vip = ?", []interface{}{18, true},
		},
		{
			"columns order limit",
			db.Table("users").Select("id", "name").Where("name", "LIKE", "a%").OrderBy("name").OrderBy("id", "desc").Limit(10).Offset(20),
			"SELECT id, name FROM users WHERE name LIKE ? ORDER BY name ASC, id DESC LIMIT 10 OFFSET 20", []interface{}{"a%"},
		},
		{
			"in null between",
			db.Table("users").WhereIn("id", []interface{}{1, 2, 3}).WhereNull("deleted_at").WhereNotBetween("age", 1, 9),
			"SELECT * FROM users WHERE id IN (?,?,?) AND deleted_at IS NULL AND age NOT BETWEEN ? AND ?", []interface{}{1, 2, 3, 1, 9},
		},
		{
			"nil value",
			db.Table("users").Where("email", nil).Where("name", "<>", nil),
			"SELECT * FROM users WHERE email IS NULL AND name IS NOT NULL", nil,
		},
		{
			"nested",
			db.Table("users").Where("active", true).WhereNested(func(q *orm.QueryBuilder) {
				q.Where("age", ">", 18).OrWhereNull("age")
			}),
			"SELECT * FROM users WHERE active = ? AND (age > ? OR age IS NULL)", []interface{}{true, 18},
		},
		{
			"empty nested",
			db.Table("users").Where("id", 1).WhereNested(func(q *orm.QueryBuilder) {}),
			"SELECT * FROM users WHERE id = ?", []interface{}{1},
		},
		{
			"raw",
			db.Table("users").WhereRaw("age > ? AND age < ?", 18, 30).OrWhereRaw("vip = ?", true),
			"SELECT * FROM users WHERE age > ? AND age < ? OR vip = ?", []interface{}{18, 30, true},
		},
		{
			"joins",
			db.Table("posts").Select("posts.*", "users.name").Join("users", "users.id", "=", "posts.user_id").
				JoinFunc("comments", clause.LeftJoin, func(join *orm.JoinClause) {
					join.On("comments.post_id", "=", "posts.id").Where("comments.approved", true)
				}),
			"SELECT posts.*, users.name FROM posts INNER JOIN users ON users.id = posts.user_id LEFT JOIN comments ON comments.post_id = posts.id AND comments.approved = ?",
			[]interface{}{true},
		},
		{
			"group having",
			db.Table("posts").Select("user_id", "COUNT(*) AS total").GroupBy("user_id").Having("COUNT(*)", ">", 2),
			"SELECT user_id, COUNT(*) AS total FROM posts GROUP BY user_id HAVING COUNT(*) > ?", []interface{}{2},
		},
		{
			"empty in",
			db.Table("users").WhereIn("id", nil),
			"SELECT * FROM users WHERE id IN (NULL)", nil,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sql, vars, err := c.qb.ToSQL()
			require.NoError(t, err)
			assert.Equal(t, c.sql, sql)
			assert.Equal(t, c.vars, vars)
		})
	}
}

func TestBuilderNumberedPlaceholders(t *testing.T) {
	db := dummyDB(t, true)

	sql, vars, err := db.Table("users").Where("age", ">", 18).WhereIn("id", []interface{}{4, 5}).WhereRaw("name = ?", "ann").ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users WHERE age > $1 AND id IN ($2,$3) AND name = $4", sql)
	assert.Equal(t, []interface{}{18, 4, 5, "ann"}, vars)
}

func TestBuilderErrors(t *testing.T) {
	db := dummyDB(t, false)

	cases := map[string]struct {
		qb  *orm.QueryBuilder
		err error
	}{
		"operator":     {db.Table("users").Where("age", "=>", 1), orm.ErrInvalidOperator},
		"non string":   {db.Table("users").Where("age", 1, 2), orm.ErrInvalidOperator},
		"arity":        {db.Table("users").Where("age"), orm.ErrInvalidData},
		"direction":    {db.Table("users").OrderBy("id", "sideways"), orm.ErrInvalidDirection},
		"limit":        {db.Table("users").Limit(-1), orm.ErrInvalidLimit},
		"offset":       {db.Table("users").Offset(-5), orm.ErrInvalidLimit},
		"placeholders": {db.Table("users").WhereRaw("a = ? AND b = ?", 1), orm.ErrInvalidData},
		"empty join": {db.Table("users").JoinFunc("posts", clause.InnerJoin, func(*orm.JoinClause) {}),
			orm.ErrEmptyJoinCondition},
		"join operator": {db.Table("users").Join("posts", "posts.user_id", "===", "users.id"), orm.ErrInvalidOperator},
		"nested": {db.Table("users").WhereNested(func(q *orm.QueryBuilder) { q.Where("a", "~", 1) }),
			orm.ErrInvalidOperator},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := c.qb.ToSQL()
			assert.ErrorIs(t, err, c.err)

			_, err = c.qb.Get()
			assert.ErrorIs(t, err, c.err)
		})
	}
}

func TestBuilderFirstErrorWins(t *testing.T) {
	db := dummyDB(t, false)

	qb := db.Table("users").Limit(-1).Where("a", "~", 1)
	assert.ErrorIs(t, qb.Error, orm.ErrInvalidLimit)
}

func TestBuilderClone(t *testing.T) {
	db := dummyDB(t, false)

	base := db.Table("users").Where("active", true).Limit(5)
	clone := base.Clone().Where("age", ">", 18).Limit(1)

	sql, _, err := base.ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users WHERE active = ? LIMIT 5", sql)

	sql, _, err = clone.ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users WHERE active = ? AND age > ? LIMIT 1", sql)
}
