package reports

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores reports in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Report
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Report)}
}

// Create stores the report.
func (r *MemoryRepo) Create(ctx context.Context, rp Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[rp.ID] = rp
	return nil
}

// GetByID returns a report owned by the user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, reportID string) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rp, ok := r.byID[reportID]
	if !ok || rp.UserID != userID {
		return Report{}, ErrNotFound
	}
	return rp, nil
}

// ListByTopic returns the user's reports for a topic, newest first.
func (r *MemoryRepo) ListByTopic(ctx context.Context, userID, topicID string) ([]Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Report
	for _, rp := range r.byID {
		if rp.UserID == userID && rp.TopicID == topicID {
			out = append(out, rp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GradeAt.After(out[j].GradeAt) })
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
