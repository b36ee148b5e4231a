package errtranslator

import (
	"errors"

	"github.com/lib/pq"
)

var postgresErrCodes = map[string]pq.ErrorCode{
	"uniqueConstraint":     "23505",
	"foreignKeyConstraint": "23503",
}

type PostgresErrTranslator struct{}

func (PostgresErrTranslator) Translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case postgresErrCodes["uniqueConstraint"]:
		return duplicatedKey(string(pqErr.Code), pqErr.Message, err)
	case postgresErrCodes["foreignKeyConstraint"]:
		return foreignKeyViolated(string(pqErr.Code), pqErr.Message, err)
	}
	return err
}
