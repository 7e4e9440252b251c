package reports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for reports.
type Service struct {
	Repo Repo
}

// Persist stores a finished report, assigning an ID and timestamp when the
// caller did not.
func (s *Service) Persist(ctx context.Context, rp Report) (Report, error) {
	if rp.UserID == "" || rp.TopicID == "" {
		return Report{}, errors.New("userID and topicID are required")
	}
	if rp.ID == "" {
		rp.ID = uuid.NewString()
	}
	if rp.Status == "" {
		rp.Status = StatusCompleted
	}
	if rp.GradeAt.IsZero() {
		rp.GradeAt = time.Now().UTC()
	}
	if err := s.Repo.Create(ctx, rp); err != nil {
		return Report{}, err
	}
	return rp, nil
}

// GetByID returns a report owned by the user.
func (s *Service) GetByID(ctx context.Context, userID, reportID string) (Report, error) {
	if userID == "" || reportID == "" {
		return Report{}, errors.New("userID and reportID are required")
	}
	return s.Repo.GetByID(ctx, userID, reportID)
}

// ListByTopic returns the user's reports for a topic.
func (s *Service) ListByTopic(ctx context.Context, userID, topicID string) ([]Report, error) {
	if userID == "" || topicID == "" {
		return nil, errors.New("userID and topicID are required")
	}
	return s.Repo.ListByTopic(ctx, userID, topicID)
}
