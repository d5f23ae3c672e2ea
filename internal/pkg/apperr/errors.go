// Package apperr defines the error categories the service layer reports.
// Callers classify with errors.Is against the sentinel values, the wrapped
// message carries the detail.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input rejected before any state was touched.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a lookup that matched no row visible to the caller.
	// Rows owned by other users are reported as not found, not as forbidden.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks an operation that lost to the current state of the
	// row, for example approving a suggestion that is no longer pending.
	ErrConflict = errors.New("conflict")

	// ErrOperationFailed marks infrastructure failures. The transaction that
	// produced one is rolled back in full.
	ErrOperationFailed = errors.New("operation failed")
)

func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// OperationFailed reports an infrastructure failure on the named operation.
// The cause is logged where it happened, the message stays generic so
// database detail never reaches callers.
func OperationFailed(op string) error {
	return fmt.Errorf("%w: %s", ErrOperationFailed, op)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
