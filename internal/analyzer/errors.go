package analyzer

import "fmt"

// SubmissionError reports a submission the analysis service rejected.
type SubmissionError struct {
	StatusCode int
	Body       string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("analysis submission rejected: status=%d body=%q", e.StatusCode, e.Body)
}

// StatusQueryError reports a non-2xx answer to a status query. Callers
// treat it as transient and keep polling.
type StatusQueryError struct {
	StatusCode int
	JobID      string
}

func (e *StatusQueryError) Error() string {
	return fmt.Sprintf("analysis status query failed: job=%s status=%d", e.JobID, e.StatusCode)
}
