package tabular

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSources is returned when Load is called without any input
	ErrNoSources = errors.New("no input files")
	// ErrEmptyInput is returned for a stream without a header row
	ErrEmptyInput = errors.New("empty input: missing header row")
)

// ParseError reports a stream that could not be read as CSV
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s: line %d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ShapeMismatchError reports a table whose row count differs from the
// first merged table.
type ShapeMismatchError struct {
	File     string
	Rows     int
	Expected int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: %s has %d rows, expected %d", e.File, e.Rows, e.Expected)
}

// LookupError reports a column name missing from a table
type LookupError struct {
	Column string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

// DuplicateColumnError reports a column picked more than once in one
// selection
type DuplicateColumnError struct {
	Column string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("column %q selected more than once", e.Column)
}

// NonNumericError reports a cell that is neither numeric nor missing.
// Row is zero-based and excludes the header.
type NonNumericError struct {
	Column string
	Row    int
	Value  string
}

func (e *NonNumericError) Error() string {
	return fmt.Sprintf("column %q is not numeric: row %d has value %q", e.Column, e.Row, e.Value)
}
