package grading

import "errors"

var (
	ErrNotFound       = errors.New("grading not found")
	ErrNotRetryable   = errors.New("grading is not awaiting a persistence retry")
	ErrNoCachedResult = errors.New("no cached result to persist")
)

const (
	ErrorCodeValidation  = "VALIDATION_ERROR"
	ErrorCodeSubmission  = "SUBMISSION_ERROR"
	ErrorCodeAnalysis    = "ANALYSIS_ERROR"
	ErrorCodePersistence = "PERSISTENCE_ERROR"
	ErrorCodeStorage     = "STORAGE_ERROR"
	ErrorCodeInternal    = "INTERNAL_ERROR"
)
