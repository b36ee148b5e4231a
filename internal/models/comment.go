package models

import "nexus.dev/orm"

// Comment comment of a user on a post
var Comment = &orm.Model{
	Name:       "Comment",
	Table:      "comments",
	Fillable:   []string{"content", "user_id", "post_id"},
	Timestamps: true,
}
