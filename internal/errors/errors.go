// Package errors holds the sentinel and typed errors shared by the seed,
// storage and command layers.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a seed file or object does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrSeedMissing indicates the record store is empty and no seed source exists.
	ErrSeedMissing = errors.New("merit store is empty and no seed source is available")

	// ErrMissingColumn indicates the seed file lacks a required header column.
	ErrMissingColumn = errors.New("seed file is missing a required column")
)

// IsSeedMissing reports whether err wraps ErrSeedMissing.
func IsSeedMissing(err error) bool { return errors.Is(err, ErrSeedMissing) }

// RowError reports a seed row whose numeric field could not be parsed.
// Corrupt rows abort the load instead of being skipped.
type RowError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("seed row %d: cannot parse %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// NewRowError creates a new row error.
func NewRowError(line int, field, value string, err error) *RowError {
	return &RowError{Line: line, Field: field, Value: value, Err: err}
}
