package rubric

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for rubrics.
type Service struct {
	Repo Repo
}

// Create validates and stores a rubric for a topic.
func (s *Service) Create(ctx context.Context, userID, topicID, teamInfo, topicName string, criteria []Criterion) (Rubric, error) {
	if userID == "" || topicID == "" {
		return Rubric{}, errors.New("userID and topicID are required")
	}
	if err := ValidateCriteria(criteria); err != nil {
		return Rubric{}, err
	}

	now := time.Now().UTC()
	rb := Rubric{
		ID:        uuid.NewString(),
		UserID:    userID,
		TopicID:   topicID,
		TeamInfo:  teamInfo,
		TopicName: topicName,
		Criteria:  append([]Criterion(nil), criteria...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, rb); err != nil {
		return Rubric{}, err
	}
	return rb, nil
}

// GetByTopic returns the rubric for a user's topic.
func (s *Service) GetByTopic(ctx context.Context, userID, topicID string) (Rubric, error) {
	if userID == "" || topicID == "" {
		return Rubric{}, errors.New("userID and topicID are required")
	}
	return s.Repo.GetByTopic(ctx, userID, topicID)
}

// UpdateCriteria validates and replaces the criteria for a topic's rubric.
func (s *Service) UpdateCriteria(ctx context.Context, userID, topicID string, criteria []Criterion) error {
	if userID == "" || topicID == "" {
		return errors.New("userID and topicID are required")
	}
	if err := ValidateCriteria(criteria); err != nil {
		return err
	}
	return s.Repo.UpdateCriteria(ctx, userID, topicID, criteria)
}
