package grading

import (
	"context"
	"time"
)

// Repo defines persistence operations for gradings.
type Repo interface {
	Create(ctx context.Context, g Grading) error
	GetByID(ctx context.Context, gradingID string) (Grading, error)
	ListByTopic(ctx context.Context, userID, topicID string) ([]Grading, error)
	// MarkProcessing moves a grading into the processing state and stamps
	// its start time.
	MarkProcessing(ctx context.Context, gradingID string, startedAt time.Time) error
	// SetRemoteJob records the job ID handed back by the analysis service.
	SetRemoteJob(ctx context.Context, gradingID, remoteJobID string) error
	// Complete marks the grading done, caching the reconciled payload and
	// linking the persisted report.
	Complete(ctx context.Context, gradingID string, result map[string]any, reportID string, completedAt time.Time) error
	// Fail marks the grading failed. A non-nil result keeps the reconciled
	// payload around for a persistence retry.
	Fail(ctx context.Context, gradingID string, result map[string]any, errorCode, errorMessage string, completedAt time.Time) error
}
