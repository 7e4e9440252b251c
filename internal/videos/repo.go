package videos

import "context"

// Repo persists video metadata. The binary itself lives in the object store.
type Repo interface {
	Create(ctx context.Context, v Video) error
	GetByID(ctx context.Context, userID, videoID string) (Video, error)
	ListByUser(ctx context.Context, userID string) ([]Video, error)
}
