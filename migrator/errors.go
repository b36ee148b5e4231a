package migrator

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrMigrationNotFound an executed migration is no longer registered
var ErrMigrationNotFound = errors.New("migration not found")

// MigrationError a migration failed to apply or revert
type MigrationError struct {
	Migration string
	// Direction up or down
	Direction string
	Err       error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration %s (%s): %v", e.Migration, e.Direction, e.Err)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

func errorsIsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
