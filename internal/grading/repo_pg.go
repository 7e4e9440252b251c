package grading

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new grading.
func (r *PGRepo) Create(ctx context.Context, g Grading) error {
	const query = `
INSERT INTO gradings (id, user_id, topic_id, rubric_id, video_id, remote_job_id, status, result, report_id, error_code, error_message, started_at, completed_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, NULLIF($9, '')::uuid, NULLIF($10, ''), NULLIF($11, ''), $12, $13, $14, $14)`

	result, err := marshalJSONB(g.Result)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		g.ID,
		g.UserID,
		g.TopicID,
		g.RubricID,
		g.VideoID,
		g.RemoteJobID,
		g.Status,
		result,
		g.ReportID,
		g.ErrorCode,
		g.ErrorMessage,
		g.StartedAt,
		g.CompletedAt,
		g.CreatedAt,
	)
	return err
}

// GetByID returns a grading by its ID.
func (r *PGRepo) GetByID(ctx context.Context, gradingID string) (Grading, error) {
	const query = `
SELECT id, user_id, topic_id, rubric_id, video_id, remote_job_id, status, result, report_id, error_code, error_message, started_at, completed_at, created_at, updated_at
FROM gradings
WHERE id = $1
LIMIT 1`
	return scanGrading(r.DB.QueryRowContext(ctx, query, gradingID))
}

// ListByTopic returns the user's gradings for a topic, newest first.
func (r *PGRepo) ListByTopic(ctx context.Context, userID, topicID string) ([]Grading, error) {
	const query = `
SELECT id, user_id, topic_id, rubric_id, video_id, remote_job_id, status, result, report_id, error_code, error_message, started_at, completed_at, created_at, updated_at
FROM gradings
WHERE user_id = $1 AND topic_id = $2
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID, topicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Grading
	for rows.Next() {
		g, err := scanGrading(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// MarkProcessing moves a grading into the processing state.
func (r *PGRepo) MarkProcessing(ctx context.Context, gradingID string, startedAt time.Time) error {
	const query = `
UPDATE gradings
SET status = $1,
    started_at = $2,
    updated_at = now()
WHERE id = $3`
	return r.exec(ctx, query, StatusProcessing, startedAt, gradingID)
}

// SetRemoteJob records the remote job ID.
func (r *PGRepo) SetRemoteJob(ctx context.Context, gradingID, remoteJobID string) error {
	const query = `
UPDATE gradings
SET remote_job_id = $1,
    updated_at = now()
WHERE id = $2`
	return r.exec(ctx, query, remoteJobID, gradingID)
}

// Complete marks the grading done.
func (r *PGRepo) Complete(ctx context.Context, gradingID string, result map[string]any, reportID string, completedAt time.Time) error {
	const query = `
UPDATE gradings
SET status = $1,
    result = $2,
    report_id = $3::uuid,
    error_code = NULL,
    error_message = NULL,
    completed_at = $4,
    updated_at = now()
WHERE id = $5`

	payload, err := marshalJSONB(result)
	if err != nil {
		return err
	}
	return r.exec(ctx, query, StatusCompleted, payload, reportID, completedAt, gradingID)
}

// Fail marks the grading failed, keeping any cached result.
func (r *PGRepo) Fail(ctx context.Context, gradingID string, result map[string]any, errorCode, errorMessage string, completedAt time.Time) error {
	const query = `
UPDATE gradings
SET status = $1,
    result = COALESCE($2, result),
    error_code = $3,
    error_message = $4,
    completed_at = $5,
    updated_at = now()
WHERE id = $6`

	payload, err := marshalJSONB(result)
	if err != nil {
		return err
	}
	return r.exec(ctx, query, StatusFailed, payload, errorCode, errorMessage, completedAt, gradingID)
}

func (r *PGRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalJSONB(m map[string]any) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGrading(row rowScanner) (Grading, error) {
	var g Grading
	var remoteJobID, reportID, errorCode, errorMessage sql.NullString
	var result []byte
	var startedAt, completedAt sql.NullTime
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.TopicID,
		&g.RubricID,
		&g.VideoID,
		&remoteJobID,
		&g.Status,
		&result,
		&reportID,
		&errorCode,
		&errorMessage,
		&startedAt,
		&completedAt,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Grading{}, ErrNotFound
		}
		return Grading{}, err
	}
	g.RemoteJobID = remoteJobID.String
	g.ReportID = reportID.String
	g.ErrorCode = errorCode.String
	g.ErrorMessage = errorMessage.String
	if startedAt.Valid {
		t := startedAt.Time
		g.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		g.CompletedAt = &t
	}
	if len(result) > 0 {
		if err := json.Unmarshal(result, &g.Result); err != nil {
			return Grading{}, err
		}
	}
	return g, nil
}

var _ Repo = (*PGRepo)(nil)
