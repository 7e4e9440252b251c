package reports

import "errors"

var (
	// ErrNotFound is returned when no report matches the query.
	ErrNotFound = errors.New("report not found")
)
