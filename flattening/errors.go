package flattening

import (
	"fmt"

	"github.com/pkg/errors"
)

// FlattenError describes a validation failure encountered while flattening a source tree: a target which is not a
// regular Solidity file, an import which could not be located, or an import statement which could not be parsed.
// A FlattenError aborts the entire flatten operation.
type FlattenError struct {
	// Path describes the offending file or import path.
	Path string

	// Message describes what went wrong with Path.
	Message string
}

// newFlattenError creates a FlattenError for the given path, annotated with a stack trace.
func newFlattenError(path string, format string, args ...any) error {
	return errors.WithStack(&FlattenError{
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	})
}

// Error returns the error message string, implementing the `error` interface.
func (e *FlattenError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Path)
}

// IsFlattenError returns a boolean indicating whether the provided error is, or wraps, a FlattenError.
func IsFlattenError(err error) bool {
	var flattenErr *FlattenError
	return errors.As(err, &flattenErr)
}
