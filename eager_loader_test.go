package orm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus.dev/orm"
)

func TestEagerLoad(t *testing.T) {
	db := openDB(t)
	seedBlog(t, db)

	users, err := db.Model(User).With("profile", "posts.tags").OrderBy("id").Get()
	require.NoError(t, err)
	require.Len(t, users, 2)

	for _, user := range users {
		assert.True(t, user.RelationLoaded("profile"))
		assert.True(t, user.RelationLoaded("posts"))
	}

	profile, err := users[0].One("profile")
	require.NoError(t, err)
	assert.Equal(t, "gopher", profile.Get("bio"))

	profile, err = users[1].One("profile")
	require.NoError(t, err)
	assert.Nil(t, profile)

	posts, err := users[0].Many("posts")
	require.NoError(t, err)
	require.Len(t, posts, 2)

	tags, err := posts[0].Many("tags")
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	tags, err = posts[1].Many("tags")
	require.NoError(t, err)
	assert.Len(t, tags, 1)

	posts, err = users[1].Many("posts")
	require.NoError(t, err)
	assert.Equal(t, []*orm.Record{}, posts)

	exported := users[1].ToMap()
	assert.Equal(t, []map[string]interface{}{}, exported["posts"])
	assert.Nil(t, exported["profile"])
}

func TestEagerLoadBelongsTo(t *testing.T) {
	db := openDB(t)
	seedBlog(t, db)

	posts, err := db.Model(Post).With("user").Get()
	require.NoError(t, err)
	require.Len(t, posts, 2)

	first, err := posts[0].One("user")
	require.NoError(t, err)
	second, err := posts[1].One("user")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestEagerLoadConstraint(t *testing.T) {
	db := openDB(t)
	seedBlog(t, db)

	user, err := db.Model(User).WithFunc("posts", func(q *orm.Query) {
		q.Where("title", "LIKE", "%go%")
	}).First()
	require.NoError(t, err)

	posts, err := user.Many("posts")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "more go", posts[0].Get("title"))
}

func TestEagerLoadSoftDeleted(t *testing.T) {
	db := openDB(t)
	b := seedBlog(t, db)

	_, err := b.ann.Delete()
	require.NoError(t, err)

	posts, err := db.Model(Post).With("user").Get()
	require.NoError(t, err)
	for _, post := range posts {
		owner, err := post.One("user")
		require.NoError(t, err)
		assert.Nil(t, owner)
	}
}

func TestLoadMissing(t *testing.T) {
	db := openDB(t)
	b := seedBlog(t, db)

	b.ann.SetRelation("posts", []*orm.Record{})
	require.NoError(t, b.ann.LoadMissing("posts", "profile"))

	posts, err := b.ann.Many("posts")
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.True(t, b.ann.RelationLoaded("profile"))

	require.NoError(t, b.ann.Load("posts"))
	posts, err = b.ann.Many("posts")
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestEagerLoadErrors(t *testing.T) {
	db := openDB(t)
	b := seedBlog(t, db)

	_, err := db.Model(User).With("followers").Get()
	assert.ErrorIs(t, err, orm.ErrUnknownRelation)

	err = orm.EagerLoader{}.Load([]*orm.Record{b.ann, b.hello}, orm.EagerLoad{Path: "posts"})
	assert.ErrorIs(t, err, orm.ErrMixedModels)

	_, err = db.Model(User).WithFunc("posts", func(q *orm.Query) { q.OrderBy("id", "up") }).Get()
	assert.ErrorIs(t, err, orm.ErrInvalidDirection)
}
