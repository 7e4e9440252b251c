package videos

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores video metadata in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Video
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Video)}
}

// Create stores the video metadata.
func (r *MemoryRepo) Create(ctx context.Context, v Video) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[v.ID] = v
	return nil
}

// GetByID returns a video owned by the user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, videoID string) (Video, error) {
	if err := ctx.Err(); err != nil {
		return Video{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.byID[videoID]
	if !ok || v.UserID != userID {
		return Video{}, ErrNotFound
	}
	return v, nil
}

// ListByUser returns the user's videos, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Video
	for _, v := range r.byID {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
