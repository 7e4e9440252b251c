package reports

import "context"

// Repo persists grading reports.
type Repo interface {
	Create(ctx context.Context, rp Report) error
	GetByID(ctx context.Context, userID, reportID string) (Report, error)
	ListByTopic(ctx context.Context, userID, topicID string) ([]Report, error)
}
