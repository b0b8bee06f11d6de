package dataset

import (
	"errors"
	"fmt"
)

// ErrMissingColumn indicates a required column is absent from an input header.
var ErrMissingColumn = errors.New("missing required column")

// SchemaError reports a required column absent from a CSV file.
type SchemaError struct {
	Path   string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s %q", e.Path, ErrMissingColumn.Error(), e.Column)
}

func (e *SchemaError) Unwrap() error { return ErrMissingColumn }

// ValueError reports a cell that could not be decoded. Row is the 1-based
// data row (the header is not counted).
type ValueError struct {
	Path   string
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: row %d: invalid %s %q: %v", e.Path, e.Row, e.Column, e.Value, e.Err)
}

func (e *ValueError) Unwrap() error { return e.Err }
