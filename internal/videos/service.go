package videos

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"grading-backend/internal/shared/storage/object"
	"grading-backend/internal/shared/util"
)

// Service contains business logic for video intake.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
}

// Upload streams a video into the object store and records its metadata.
func (s *Service) Upload(ctx context.Context, userID, fileName, contentType string, r io.Reader) (Video, error) {
	if userID == "" {
		return Video{}, errors.New("userID is required")
	}
	if r == nil {
		return Video{}, errors.New("video body is required")
	}
	if contentType != "" && !strings.HasPrefix(contentType, "video/") {
		return Video{}, ErrUnsupportedType
	}

	fileName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return Video{}, err
	}
	key, size, mimeType, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return Video{}, err
	}
	// Trust the sniffed type over the client header, but reject anything
	// that clearly is not video.
	if !strings.HasPrefix(mimeType, "video/") && mimeType != "application/octet-stream" {
		return Video{}, ErrUnsupportedType
	}

	v := Video{
		ID:         uuid.NewString(),
		UserID:     userID,
		FileName:   fileName,
		MimeType:   mimeType,
		SizeBytes:  size,
		StorageKey: key,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, v); err != nil {
		return Video{}, err
	}
	return v, nil
}

// GetByID returns a video owned by the user.
func (s *Service) GetByID(ctx context.Context, userID, videoID string) (Video, error) {
	if userID == "" || videoID == "" {
		return Video{}, errors.New("userID and videoID are required")
	}
	return s.Repo.GetByID(ctx, userID, videoID)
}

// ListByUser returns the user's uploaded videos.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Video, error) {
	if userID == "" {
		return nil, errors.New("userID is required")
	}
	return s.Repo.ListByUser(ctx, userID)
}

// Open streams a stored video's bytes.
func (s *Service) Open(ctx context.Context, v Video) (io.ReadCloser, error) {
	return s.Store.Open(ctx, v.StorageKey)
}
