package matcher

import "errors"

var (
	// ErrEmptyDataset is returned when matching against a dataset with no
	// items. Callers are expected to reject empty datasets before matching.
	ErrEmptyDataset = errors.New("precondition violated: dataset is empty")

	// ErrInvalidQuery is returned when a query component is NaN or infinite.
	ErrInvalidQuery = errors.New("query values must be finite numbers")
)
