package models

import (
	"strings"

	"github.com/spf13/cast"

	"nexus.dev/orm"
)

// Tag post tag, setting the name derives the slug
var Tag = &orm.Model{
	Name:       "Tag",
	Table:      "tags",
	Fillable:   []string{"name", "slug"},
	Timestamps: true,
	Fields: map[string]orm.Field{
		"name": {Set: func(record *orm.Record, value interface{}) (interface{}, error) {
			name, err := cast.ToStringE(value)
			if err != nil {
				return nil, err
			}
			record.SetRaw("slug", Slug(name))
			return name, nil
		}},
	},
}

// Slug lower cases name and replaces spaces by dashes
func Slug(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "-"))
}
