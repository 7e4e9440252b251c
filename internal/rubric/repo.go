package rubric

import "context"

// Repo defines persistence operations for rubrics.
type Repo interface {
	Create(ctx context.Context, r Rubric) error
	GetByID(ctx context.Context, rubricID string) (Rubric, error)
	GetByTopic(ctx context.Context, userID, topicID string) (Rubric, error)
	UpdateCriteria(ctx context.Context, userID, topicID string, criteria []Criterion) error
}
