package orm_test

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"nexus.dev/orm"
	"nexus.dev/orm/clause"
	"nexus.dev/orm/dialects/sqlite"
	"nexus.dev/orm/logger"
)

// DummyDialector an in memory sqlite database, Numbered switches the
// placeholders to `$n`
type DummyDialector struct {
	sqlite.Dialector
	Numbered bool
}

func (d DummyDialector) BindVarTo(writer clause.Writer, position int) {
	if d.Numbered {
		writer.WriteByte('$')
		writer.WriteString(strconv.Itoa(position))
		return
	}
	writer.WriteByte('?')
}

func dummyDB(t *testing.T, numbered bool) *orm.DB {
	t.Helper()

	db, err := orm.Open(DummyDialector{Dialector: *sqlite.Open(":memory:"), Numbered: numbered}, orm.WithLogger(logger.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

var (
	User = &orm.Model{
		Name:        "User",
		Fillable:    []string{"name", "email", "age", "vip", "password"},
		Hidden:      []string{"password"},
		Timestamps:  true,
		SoftDeletes: true,
		Scopes: map[string]orm.ScopeFunc{
			"adults": func(q *orm.Query, _ ...interface{}) *orm.Query {
				return q.Where("age", ">=", 18)
			},
		},
	}
	Profile = &orm.Model{Name: "Profile", Fillable: []string{"user_id", "bio"}}
	Post    = &orm.Model{Name: "Post", Fillable: []string{"user_id", "title"}, Timestamps: true}
	Tag     = &orm.Model{Name: "Tag", Fillable: []string{"name"}}
)

func init() {
	User.HasOne("profile", Profile)
	User.HasMany("posts", Post)
	Post.BelongsTo("user", User)
	Post.BelongsToMany("tags", Tag)
	Tag.BelongsToMany("posts", Post)
}

var testSchema = []string{
	`CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT, name VARCHAR(255), email VARCHAR(255) UNIQUE,
		age INTEGER, vip BOOLEAN DEFAULT FALSE, password VARCHAR(255),
		created_at TIMESTAMP NULL, updated_at TIMESTAMP NULL, deleted_at TIMESTAMP NULL)`,
	`CREATE TABLE profiles (id INTEGER PRIMARY KEY AUTOINCREMENT, user_id INTEGER NOT NULL REFERENCES users(id), bio TEXT)`,
	`CREATE TABLE posts (id INTEGER PRIMARY KEY AUTOINCREMENT, user_id INTEGER NOT NULL REFERENCES users(id), title VARCHAR(255),
		created_at TIMESTAMP NULL, updated_at TIMESTAMP NULL)`,
	`CREATE TABLE tags (id INTEGER PRIMARY KEY AUTOINCREMENT, name VARCHAR(255))`,
	`CREATE TABLE post_tag (post_id INTEGER NOT NULL REFERENCES posts(id), tag_id INTEGER NOT NULL REFERENCES tags(id))`,
}

func openDB(t *testing.T) *orm.DB {
	t.Helper()

	db, err := orm.Open(sqlite.Open(filepath.Join(t.TempDir(), "orm.db")), orm.WithLogger(logger.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, ddl := range testSchema {
		_, err := db.Exec(ddl)
		require.NoError(t, err)
	}
	return db
}

func createUser(t *testing.T, db *orm.DB, attrs map[string]interface{}) *orm.Record {
	t.Helper()

	user, err := db.Model(User).Create(attrs)
	require.NoError(t, err)
	return user
}
