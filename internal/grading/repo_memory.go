package grading

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores gradings in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Grading
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Grading)}
}

// Create stores the grading.
func (r *MemoryRepo) Create(ctx context.Context, g Grading) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[g.ID] = g
	return nil
}

// GetByID returns a grading by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, gradingID string) (Grading, error) {
	if err := ctx.Err(); err != nil {
		return Grading{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.byID[gradingID]
	if !ok {
		return Grading{}, ErrNotFound
	}
	return g, nil
}

// ListByTopic returns the user's gradings for a topic, newest first.
func (r *MemoryRepo) ListByTopic(ctx context.Context, userID, topicID string) ([]Grading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Grading
	for _, g := range r.byID {
		if g.UserID == userID && g.TopicID == topicID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// MarkProcessing moves a grading into the processing state.
func (r *MemoryRepo) MarkProcessing(ctx context.Context, gradingID string, startedAt time.Time) error {
	return r.update(ctx, gradingID, func(g *Grading) {
		g.Status = StatusProcessing
		g.StartedAt = &startedAt
	})
}

// SetRemoteJob records the remote job ID.
func (r *MemoryRepo) SetRemoteJob(ctx context.Context, gradingID, remoteJobID string) error {
	return r.update(ctx, gradingID, func(g *Grading) {
		g.RemoteJobID = remoteJobID
	})
}

// Complete marks the grading done.
func (r *MemoryRepo) Complete(ctx context.Context, gradingID string, result map[string]any, reportID string, completedAt time.Time) error {
	return r.update(ctx, gradingID, func(g *Grading) {
		g.Status = StatusCompleted
		g.Result = result
		g.ReportID = reportID
		g.ErrorCode = ""
		g.ErrorMessage = ""
		g.CompletedAt = &completedAt
	})
}

// Fail marks the grading failed.
func (r *MemoryRepo) Fail(ctx context.Context, gradingID string, result map[string]any, errorCode, errorMessage string, completedAt time.Time) error {
	return r.update(ctx, gradingID, func(g *Grading) {
		g.Status = StatusFailed
		if result != nil {
			g.Result = result
		}
		g.ErrorCode = errorCode
		g.ErrorMessage = errorMessage
		g.CompletedAt = &completedAt
	})
}

func (r *MemoryRepo) update(ctx context.Context, gradingID string, apply func(*Grading)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.byID[gradingID]
	if !ok {
		return ErrNotFound
	}
	apply(&g)
	g.UpdatedAt = time.Now().UTC()
	r.byID[gradingID] = g
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
