package rubric

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo stores rubrics in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]Rubric
	byTopic map[string]string // userID|topicID -> rubricID
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:    make(map[string]Rubric),
		byTopic: make(map[string]string),
	}
}

// Create stores the rubric, rejecting a second rubric for the same topic.
func (r *MemoryRepo) Create(ctx context.Context, rb Rubric) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := topicKey(rb.UserID, rb.TopicID)
	if _, ok := r.byTopic[key]; ok {
		return ErrExists
	}
	r.byID[rb.ID] = rb
	r.byTopic[key] = rb.ID
	return nil
}

// GetByID returns a rubric by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, rubricID string) (Rubric, error) {
	if err := ctx.Err(); err != nil {
		return Rubric{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rb, ok := r.byID[rubricID]
	if !ok {
		return Rubric{}, ErrNotFound
	}
	return rb, nil
}

// GetByTopic returns the rubric for a user's topic.
func (r *MemoryRepo) GetByTopic(ctx context.Context, userID, topicID string) (Rubric, error) {
	if err := ctx.Err(); err != nil {
		return Rubric{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byTopic[topicKey(userID, topicID)]
	if !ok {
		return Rubric{}, ErrNotFound
	}
	return r.byID[id], nil
}

// UpdateCriteria replaces the criteria list for a topic's rubric.
func (r *MemoryRepo) UpdateCriteria(ctx context.Context, userID, topicID string, criteria []Criterion) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byTopic[topicKey(userID, topicID)]
	if !ok {
		return ErrNotFound
	}
	rb := r.byID[id]
	rb.Criteria = append([]Criterion(nil), criteria...)
	rb.UpdatedAt = time.Now().UTC()
	r.byID[id] = rb
	return nil
}

func topicKey(userID, topicID string) string {
	return userID + "|" + topicID
}

var _ Repo = (*MemoryRepo)(nil)
