package errtranslator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"

	"nexus.dev/orm"
)

func TestTranslate(t *testing.T) {
	cases := []struct {
		name       string
		translator ErrTranslator
		err        error
		want       error
	}{
		{"mysql duplicate", MysqlErrTranslator{}, &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, orm.ErrDuplicatedKey},
		{"mysql referenced", MysqlErrTranslator{}, &mysql.MySQLError{Number: 1451}, orm.ErrForeignKeyViolated},
		{"mysql missing parent", MysqlErrTranslator{}, &mysql.MySQLError{Number: 1452}, orm.ErrForeignKeyViolated},
		{"postgres unique", PostgresErrTranslator{}, &pq.Error{Code: "23505", Message: "duplicate key value"}, orm.ErrDuplicatedKey},
		{"postgres foreign key", PostgresErrTranslator{}, &pq.Error{Code: "23503"}, orm.ErrForeignKeyViolated},
		{"sqlite unique", SqliteErrTranslator{}, sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, orm.ErrDuplicatedKey},
		{"sqlite foreign key", SqliteErrTranslator{}, sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, orm.ErrForeignKeyViolated},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			translated := c.translator.Translate(fmt.Errorf("exec: %w", c.err))
			assert.ErrorIs(t, translated, c.want)

			var driverErr *DriverError
			assert.True(t, errors.As(translated, &driverErr))
		})
	}
}

func TestTranslateUnrelated(t *testing.T) {
	plain := errors.New("connection reset")
	for _, translator := range []ErrTranslator{MysqlErrTranslator{}, PostgresErrTranslator{}, SqliteErrTranslator{}} {
		assert.Equal(t, plain, translator.Translate(plain))
	}

	syntax := &mysql.MySQLError{Number: 1064}
	assert.Equal(t, error(syntax), MysqlErrTranslator{}.Translate(syntax))
}
