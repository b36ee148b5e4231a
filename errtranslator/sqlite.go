package errtranslator

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

var sqliteErrCodes = map[string]sqlite3.ErrNoExtended{
	"uniqueConstraint":     sqlite3.ErrConstraintUnique,
	"primaryKeyConstraint": sqlite3.ErrConstraintPrimaryKey,
	"foreignKeyConstraint": sqlite3.ErrConstraintForeignKey,
}

type SqliteErrTranslator struct{}

func (SqliteErrTranslator) Translate(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	switch sqliteErr.ExtendedCode {
	case sqliteErrCodes["uniqueConstraint"], sqliteErrCodes["primaryKeyConstraint"]:
		return duplicatedKey(int(sqliteErr.ExtendedCode), sqliteErr.Error(), err)
	case sqliteErrCodes["foreignKeyConstraint"]:
		return foreignKeyViolated(int(sqliteErr.ExtendedCode), sqliteErr.Error(), err)
	}
	return err
}
