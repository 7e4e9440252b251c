package rubric

import "errors"

var (
	ErrNotFound = errors.New("rubric not found")
	ErrExists   = errors.New("rubric already exists for topic")
)
