package grading

import "time"

// Grading lifecycle statuses.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Grading tracks one video's trip through the remote analysis service and
// the reconciliation that follows. Result caches the reconciled report
// payload so a failed persistence can be retried without re-running the
// analysis.
type Grading struct {
	ID           string         `json:"id"`
	UserID       string         `json:"userId"`
	TopicID      string         `json:"topicId"`
	RubricID     string         `json:"rubricId"`
	VideoID      string         `json:"videoId"`
	RemoteJobID  string         `json:"remoteJobId,omitempty"`
	Status       string         `json:"status"`
	Result       map[string]any `json:"result,omitempty"`
	ReportID     string         `json:"reportId,omitempty"`
	ErrorCode    string         `json:"errorCode,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	StartedAt    *time.Time     `json:"startedAt,omitempty"`
	CompletedAt  *time.Time     `json:"completedAt,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}
