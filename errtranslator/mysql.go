package errtranslator

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var mysqlErrCodes = map[string]uint16{
	"uniqueConstraint":      1062,
	"rowIsReferenced":       1451,
	"noReferencedRow":       1452,
	"foreignKeyConstraint2": 1216,
	"foreignKeyConstraint":  1217,
}

type MysqlErrTranslator struct{}

func (MysqlErrTranslator) Translate(err error) error {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return err
	}

	switch mysqlErr.Number {
	case mysqlErrCodes["uniqueConstraint"]:
		return duplicatedKey(mysqlErr.Number, mysqlErr.Message, err)
	case mysqlErrCodes["rowIsReferenced"], mysqlErrCodes["noReferencedRow"],
		mysqlErrCodes["foreignKeyConstraint"], mysqlErrCodes["foreignKeyConstraint2"]:
		return foreignKeyViolated(mysqlErr.Number, mysqlErr.Message, err)
	}
	return err
}
