package dataset

import (
	"errors"
	"strings"
)

// ErrMissingColumn indicates a required header is absent from the course table.
var ErrMissingColumn = errors.New("missing required column")

// ErrNoHeader indicates the source has no header row at all.
var ErrNoHeader = errors.New("no header row")

// MissingColumnError lists the required columns that could not be found.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return "missing required column(s): " + strings.Join(e.Columns, ", ")
}

func (e *MissingColumnError) Unwrap() error { return ErrMissingColumn }
