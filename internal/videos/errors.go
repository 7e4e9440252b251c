package videos

import "errors"

var (
	// ErrNotFound is returned when no video matches the query.
	ErrNotFound = errors.New("video not found")
	// ErrUnsupportedType is returned for uploads that are not video content.
	ErrUnsupportedType = errors.New("unsupported video content type")
)
