package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter marks a clustering parameter outside its valid range
	// (k < 1, k > number of points, wrong centroid count, max iterations < 1).
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrDataFormat marks a malformed input record.
	ErrDataFormat = errors.New("data format error")
	// ErrIO marks an underlying read or write failure.
	ErrIO = errors.New("io failure")
)

// InvalidParameterf returns an error wrapping ErrInvalidParameter with a formatted reason.
func InvalidParameterf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

// DataFormatError describes a record that did not parse into a point.
// Line is 1-based; 0 means the problem concerns the input as a whole.
type DataFormatError struct {
	Path   string
	Line   int
	Text   string
	Reason string
}

func (e *DataFormatError) Error() string {
	loc := ""
	if e.Path != "" {
		loc = e.Path + ": "
	}
	if e.Line == 0 {
		return fmt.Sprintf("%s%s", loc, e.Reason)
	}
	return fmt.Sprintf("%sline %d: %s: %q", loc, e.Line, e.Reason, e.Text)
}

// Unwrap lets errors.Is(err, ErrDataFormat) match.
func (e *DataFormatError) Unwrap() error {
	return ErrDataFormat
}

// IOError is a read or write failure on Path.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns both ErrIO and the underlying cause.
func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}
