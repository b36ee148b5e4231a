package orm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDatabaseUnavailable connection could not be established
	ErrDatabaseUnavailable = errors.New("database unavailable")
	// ErrInvalidTransaction invalid transaction when you are trying to `Commit` or `Rollback`
	ErrInvalidTransaction = errors.New("invalid transaction")
	// ErrInvalidOperator operator is not one of the supported comparison operators
	ErrInvalidOperator = errors.New("invalid operator")
	// ErrInvalidDirection order direction is neither ASC nor DESC
	ErrInvalidDirection = errors.New("invalid order direction")
	// ErrInvalidLimit negative limit or offset
	ErrInvalidLimit = errors.New("invalid limit or offset")
	// ErrInvalidData unsupported data
	ErrInvalidData = errors.New("unsupported data")
	// ErrEmptyJoinCondition join callback registered no predicate
	ErrEmptyJoinCondition = errors.New("join requires at least one condition")
	// ErrUnknownRelation relation is not declared on the model
	ErrUnknownRelation = errors.New("unknown relation")
	// ErrUnknownScope no such method: scope is not declared on the model
	ErrUnknownScope = errors.New("no such method")
	// ErrMixedModels eager loading across records of different models
	ErrMixedModels = errors.New("records belong to different models")
	// ErrPrimaryKeyRequired primary keys required
	ErrPrimaryKeyRequired = errors.New("primary key required")
	// ErrModelValueRequired model value required
	ErrModelValueRequired = errors.New("model value required")
	// ErrDuplicatedKey occurs when there is a unique key constraint violation
	ErrDuplicatedKey = errors.New("duplicated key not allowed")
	// ErrForeignKeyViolated occurs when there is a foreign key constraint violation
	ErrForeignKeyViolated = errors.New("violates foreign key constraint")
)

// QueryError statement execution failure, carries the failing SQL and its values
type QueryError struct {
	SQL  string
	Vars []interface{}
	Err  error
}

func (e *QueryError) Error() string {
	var sb strings.Builder
	sb.WriteString("query failed: ")
	sb.WriteString(e.Err.Error())
	sb.WriteString(" [sql: ")
	sb.WriteString(e.SQL)
	if len(e.Vars) > 0 {
		sb.WriteString(fmt.Sprintf(" vars: %v", e.Vars))
	}
	sb.WriteByte(']')
	return sb.String()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
