package orm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus.dev/orm"
)

type blog struct {
	ann, bob    *orm.Record
	hello, more *orm.Record
	golang, sql *orm.Record
}

func seedBlog(t *testing.T, db *orm.DB) blog {
	t.Helper()

	var b blog
	b.ann = createUser(t, db, map[string]interface{}{"name": "ann", "email": "ann@example.com"})
	b.bob = createUser(t, db, map[string]interface{}{"name": "bob", "email": "bob@example.com"})

	_, err := db.Model(Profile).Create(map[string]interface{}{"user_id": b.ann.Key(), "bio": "gopher"})
	require.NoError(t, err)

	b.hello, err = db.Model(Post).Create(map[string]interface{}{"user_id": b.ann.Key(), "title": "hello"})
	require.NoError(t, err)
	b.more, err = db.Model(Post).Create(map[string]interface{}{"user_id": b.ann.Key(), "title": "more go"})
	require.NoError(t, err)

	b.golang, err = db.Model(Tag).Create(map[string]interface{}{"name": "go"})
	require.NoError(t, err)
	b.sql, err = db.Model(Tag).Create(map[string]interface{}{"name": "sql"})
	require.NoError(t, err)

	rel, err := b.hello.Relation("tags")
	require.NoError(t, err)
	require.NoError(t, rel.(*orm.BelongsToMany).Attach(b.golang.Key(), b.sql.Key()))

	rel, err = b.more.Relation("tags")
	require.NoError(t, err)
	require.NoError(t, rel.(*orm.BelongsToMany).Attach(b.golang.Key()))
	return b
}

func TestLazyRelations(t *testing.T) {
	db := openDB(t)
	b := seedBlog(t, db)

	profile, err := b.ann.One("profile")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "gopher", profile.Get("bio"))

	profile, err = b.bob.One("profile")
	require.NoError(t, err)
	assert.Nil(t, profile)

	posts, err := b.ann.Many("posts")
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	posts, err = b.bob.Many("posts")
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)

	owner, err := b.hello.One("user")
	require.NoError(t, err)
	assert.Equal(t, "ann", owner.Get("name"))

	tags, err := b.hello.Many("tags")
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.False(t, tags[0].Has("pivot_post_id"))
	assert.EqualValues(t, b.hello.Key(), tags[0].Pivot()["post_id"])
	assert.Contains(t, tags[0].ToMap(), "pivot")

	posts, err = b.golang.Many("posts")
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	_, err = b.ann.Many("followers")
	assert.ErrorIs(t, err, orm.ErrUnknownRelation)

	_, err = b.ann.Many("profile")
	assert.ErrorIs(t, err, orm.ErrInvalidData)
}

func TestRelationCache(t *testing.T) {
	db := openDB(t)
	b := seedBlog(t, db)

	posts, err := b.ann.Many("posts")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.True(t, b.ann.RelationLoaded("posts"))

	_, err = db.Model(Post).Create(map[string]interface{}{"user_id": b.ann.Key(), "title": "third"})
	require.NoError(t, err)

	posts, err = b.ann.Many("posts")
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	reloaded, err := b.ann.Reload("posts")
	require.NoError(t, err)
	assert.Len(t, reloaded, 3)
}

func TestRelationQuery(t *testing.T) {
	db := openDB(t)
	b := seedBlog(t, db)

	rel, err := b.ann.Relation("posts")
	require.NoError(t, err)
	assert.Equal(t, orm.HasManyKind, rel.Definition().Kind)
	assert.Equal(t, "user_id", rel.Definition().ForeignKey)

	count, err := rel.Query().Where("title", "LIKE", "%go%").Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	sql, vars, err := rel.Query().ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM posts WHERE posts.user_id = ? AND title LIKE ?", sql)
	assert.Equal(t, []interface{}{b.ann.Key(), "%go%"}, vars)
}

func TestRelationQueryWithOr(t *testing.T) {
	db := openDB(t)
	b := seedBlog(t, db)

	rel, err := b.bob.Relation("posts")
	require.NoError(t, err)
	rel.Query().Where("title", "hello").OrWhere("title", "more go")

	sql, vars, err := rel.Query().ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM posts WHERE posts.user_id = ? AND (title = ? OR title = ?)", sql)
	assert.Equal(t, []interface{}{b.bob.Key(), "hello", "more go"}, vars)

	posts, err := rel.Results()
	require.NoError(t, err)
	assert.Empty(t, posts)

	rel, err = b.bob.Relation("profile")
	require.NoError(t, err)
	rel.Query().Where("bio", "none").OrWhere("bio", "gopher")

	profile, err := rel.Results()
	require.NoError(t, err)
	assert.Nil(t, profile)

	rel, err = b.more.Relation("user")
	require.NoError(t, err)
	rel.Query().Where("name", "bob").OrWhere("name", "ann")

	owner, err := rel.Results()
	require.NoError(t, err)
	require.IsType(t, &orm.Record{}, owner)
	assert.Equal(t, "ann", owner.(*orm.Record).Get("name"))
}

func TestDetach(t *testing.T) {
	db := openDB(t)
	b := seedBlog(t, db)

	rel, err := b.hello.Relation("tags")
	require.NoError(t, err)
	pivot := rel.(*orm.BelongsToMany)

	detached, err := pivot.Detach(b.sql.Key())
	require.NoError(t, err)
	assert.EqualValues(t, 1, detached)

	tags, err := b.hello.Reload("tags")
	require.NoError(t, err)
	assert.Len(t, tags, 1)

	detached, err = pivot.Detach()
	require.NoError(t, err)
	assert.EqualValues(t, 1, detached)

	unsaved, err := db.Model(Post).New(map[string]interface{}{"title": "draft"})
	require.NoError(t, err)
	rel, err = unsaved.Relation("tags")
	require.NoError(t, err)
	assert.ErrorIs(t, rel.(*orm.BelongsToMany).Attach(1), orm.ErrPrimaryKeyRequired)
}
