package videos

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts video metadata.
func (r *PGRepo) Create(ctx context.Context, v Video) error {
	const query = `
INSERT INTO videos (id, user_id, file_name, mime_type, size_bytes, storage_key, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(ctx, query,
		v.ID,
		v.UserID,
		v.FileName,
		v.MimeType,
		v.SizeBytes,
		v.StorageKey,
		v.CreatedAt,
	)
	return err
}

// GetByID returns a video owned by the user.
func (r *PGRepo) GetByID(ctx context.Context, userID, videoID string) (Video, error) {
	const query = `
SELECT id, user_id, file_name, mime_type, size_bytes, storage_key, created_at
FROM videos
WHERE id = $1 AND user_id = $2
LIMIT 1`

	var v Video
	err := r.DB.QueryRowContext(ctx, query, videoID, userID).Scan(
		&v.ID,
		&v.UserID,
		&v.FileName,
		&v.MimeType,
		&v.SizeBytes,
		&v.StorageKey,
		&v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Video{}, ErrNotFound
		}
		return Video{}, err
	}
	return v, nil
}

// ListByUser returns the user's videos, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Video, error) {
	const query = `
SELECT id, user_id, file_name, mime_type, size_bytes, storage_key, created_at
FROM videos
WHERE user_id = $1
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Video
	for rows.Next() {
		var v Video
		if err := rows.Scan(&v.ID, &v.UserID, &v.FileName, &v.MimeType, &v.SizeBytes, &v.StorageKey, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
