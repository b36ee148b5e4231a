package orm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus.dev/orm"
)

func seedUsers(t *testing.T, db *orm.DB) {
	t.Helper()

	for _, values := range []map[string]interface{}{
		{"name": "ann", "email": "ann@example.com", "age": 30, "vip": true},
		{"name": "bob", "email": "bob@example.com", "age": 17, "vip": false},
		{"name": "cid", "email": "cid@example.com", "age": 45, "vip": false},
	} {
		inserted, err := db.Table("users").Insert(values)
		require.NoError(t, err)
		require.True(t, inserted)
	}
}

func TestGetAndFirst(t *testing.T) {
	db := openDB(t)
	seedUsers(t, db)

	rows, err := db.Table("users").Where("age", ">", 18).OrWhere("vip", true).OrderBy("name").Get()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ann", rows[0]["name"])
	assert.Equal(t, "cid", rows[1]["name"])

	row, err := db.Table("users").OrderBy("age", "DESC").First()
	require.NoError(t, err)
	assert.Equal(t, "cid", row["name"])

	row, err = db.Table("users").Where("name", "zed").First()
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestCountDoesNotModifyBuilder(t *testing.T) {
	db := openDB(t)
	seedUsers(t, db)

	qb := db.Table("users").Where("age", ">", 18).OrderBy("name").Limit(1)

	count, err := qb.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	rows, err := qb.Get()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ann", rows[0]["name"])

	groups, err := db.Table("users").Select("vip").GroupBy("vip").Count()
	require.NoError(t, err)
	assert.EqualValues(t, 2, groups)
}

func TestExistsAndPluck(t *testing.T) {
	db := openDB(t)
	seedUsers(t, db)

	exists, err := db.Table("users").Where("name", "bob").Exists()
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.Table("users").Where("name", "zed").Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	names, err := db.Table("users").WhereBetween("age", 18, 50).OrderBy("users.name").Pluck("users.name")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"ann", "cid"}, names)
}

func TestInsertGetIDAsForeignKey(t *testing.T) {
	db := openDB(t)

	userID, err := db.Table("users").InsertGetID(map[string]interface{}{"name": "ann", "email": "ann@example.com"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, userID)
	assert.Equal(t, userID, db.LastInsertID())

	postID, err := db.Table("posts").InsertGetID(map[string]interface{}{"user_id": userID, "title": "hello"})
	require.NoError(t, err)

	row, err := db.Table("posts").Join("users", "users.id", "=", "posts.user_id").
		Select("posts.id", "users.name AS author").Where("posts.id", postID).First()
	require.NoError(t, err)
	assert.Equal(t, "ann", row["author"])

	_, err = db.Table("posts").InsertGetID(map[string]interface{}{"user_id": 99, "title": "orphan"})
	assert.ErrorIs(t, err, orm.ErrForeignKeyViolated)
}

func TestInsertEmpty(t *testing.T) {
	db := openDB(t)

	inserted, err := db.Table("users").Insert(map[string]interface{}{})
	require.NoError(t, err)
	assert.False(t, inserted)

	id, err := db.Table("tags").InsertGetID(nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)
}

func TestUpdateAndDelete(t *testing.T) {
	db := openDB(t)
	seedUsers(t, db)

	affected, err := db.Table("users").Where("age", "<", 18).Update(map[string]interface{}{"vip": true, "age": 18})
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	affected, err = db.Table("users").Update(nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)

	count, err := db.Table("users").Where("vip", true).Count()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	affected, err = db.Table("users").WhereIn("name", []interface{}{"ann", "bob"}).Delete()
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	remaining, err := db.Table("users").Pluck("name")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"cid"}, remaining)
}

func TestTransaction(t *testing.T) {
	db := openDB(t)

	err := db.Transaction(func(tx *orm.DB) error {
		_, err := tx.Table("users").Insert(map[string]interface{}{"name": "ann", "email": "ann@example.com"})
		require.NoError(t, err)
		_, err = tx.Table("users").Insert(map[string]interface{}{"name": "ann", "email": "ann@example.com"})
		return err
	})
	assert.ErrorIs(t, err, orm.ErrDuplicatedKey)

	count, err := db.Table("users").Count()
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}
