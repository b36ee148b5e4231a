package models

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cast"

	"nexus.dev/orm"
)

// Post blog post written by a user
var Post = &orm.Model{
	Name:        "Post",
	Table:       "posts",
	Fillable:    []string{"title", "content", "user_id", "published"},
	Timestamps:  true,
	SoftDeletes: true,
	Fields: map[string]orm.Field{
		"title": {Get: func(value interface{}) interface{} {
			if value == nil {
				return nil
			}
			return upperWords(cast.ToString(value))
		}},
		"content": {Set: func(_ *orm.Record, value interface{}) (interface{}, error) {
			if value == nil {
				return nil, nil
			}
			content, err := cast.ToStringE(value)
			return strings.TrimSpace(content), err
		}},
	},
	Scopes: map[string]orm.ScopeFunc{
		"published": func(q *orm.Query, _ ...interface{}) *orm.Query {
			return q.Where("published", true)
		},
		"byUser": func(q *orm.Query, args ...interface{}) *orm.Query {
			return q.WhereIn("user_id", args)
		},
	},
}

// upperWords upper cases the first letter of every word and leaves the rest as is
func upperWords(s string) string {
	var (
		sb    strings.Builder
		start = true
	)
	sb.Grow(len(s))

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]

		if start {
			r = unicode.ToUpper(r)
		}
		start = unicode.IsSpace(r)
		sb.WriteRune(r)
	}
	return sb.String()
}
