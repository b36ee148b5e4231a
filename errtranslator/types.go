package errtranslator

import (
	"fmt"

	"nexus.dev/orm"
)

// ErrTranslator maps a driver error to the orm sentinel it stands for
type ErrTranslator interface {
	Translate(err error) error
}

// DriverError a driver error translated to an orm sentinel, errors.Is
// matches the sentinel and errors.As still reaches the driver error
type DriverError struct {
	Kind    error
	Code    interface{}
	Message string
	Err     error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("%v, code: %v, message: %s", e.Kind, e.Code, e.Message)
}

func (e *DriverError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func duplicatedKey(code interface{}, message string, err error) error {
	return &DriverError{Kind: orm.ErrDuplicatedKey, Code: code, Message: message, Err: err}
}

func foreignKeyViolated(code interface{}, message string, err error) error {
	return &DriverError{Kind: orm.ErrForeignKeyViolated, Code: code, Message: message, Err: err}
}
