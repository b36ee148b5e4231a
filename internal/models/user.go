package models

import (
	"fmt"

	"github.com/spf13/cast"
	"golang.org/x/crypto/bcrypt"

	"nexus.dev/orm"
)

// User application user, passwords are stored as bcrypt hashes
var User = &orm.Model{
	Name:       "User",
	Table:      "users",
	Fillable:   []string{"name", "email", "password"},
	Hidden:     []string{"password"},
	Timestamps: true,
	Fields: map[string]orm.Field{
		"password": {Set: hashPassword},
	},
	Scopes: map[string]orm.ScopeFunc{
		"active": func(q *orm.Query, _ ...interface{}) *orm.Query {
			return q.Where("active", true)
		},
		"byEmailDomain": func(q *orm.Query, args ...interface{}) *orm.Query {
			if len(args) != 1 {
				q.AddError(fmt.Errorf("%w: byEmailDomain expects a domain", orm.ErrInvalidData))
				return q
			}
			return q.Where("email", "LIKE", "%@"+cast.ToString(args[0]))
		},
	},
}

func hashPassword(_ *orm.Record, value interface{}) (interface{}, error) {
	password, err := cast.ToStringE(value)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return string(hash), nil
}

// VerifyPassword whether password matches the stored hash of user
func VerifyPassword(user *orm.Record, password string) bool {
	hash := user.GetString("password")
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
