// Package models the demo application models, users write posts and
// comments, posts are tagged through the post_tags pivot table.
package models

import "nexus.dev/orm"

func init() {
	User.HasMany("posts", Post)
	User.HasMany("comments", Comment)

	Post.BelongsTo("user", User)
	Post.HasMany("comments", Comment)
	Post.BelongsToMany("tags", Tag, "post_tags")

	Comment.BelongsTo("user", User)
	Comment.BelongsTo("post", Post)

	Tag.BelongsToMany("posts", Post, "post_tags")
}

// All the models of the application
func All() []*orm.Model {
	return []*orm.Model{User, Post, Comment, Tag}
}
