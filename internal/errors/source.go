package errors

import (
	"errors"
	"fmt"
)

// Seed source operations recorded in SourceError.
const (
	OpOpen  = "open"
	OpParse = "parse"
)

// SourceError ties a seed failure to the source ("file", "r2") and the step
// that failed.
type SourceError struct {
	Source string
	Op     string
	Err    error
}

// NewSourceError returns nil when err is nil.
func NewSourceError(source, op string, err error) error {
	if err == nil {
		return nil
	}
	return &SourceError{Source: source, Op: op, Err: err}
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s seed source %s: %v", e.Op, e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// SourceOf returns the name of the seed source that produced err, or "" when
// err carries no SourceError.
func SourceOf(err error) string {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Source
	}
	return ""
}
