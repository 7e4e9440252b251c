package rubric

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new rubric.
func (r *PGRepo) Create(ctx context.Context, rb Rubric) error {
	const query = `
INSERT INTO rubrics (id, user_id, topic_id, team_info, topic_name, criteria, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`

	payload, err := json.Marshal(rb.Criteria)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		rb.ID,
		rb.UserID,
		rb.TopicID,
		rb.TeamInfo,
		rb.TopicName,
		payload,
		rb.CreatedAt,
	)
	return err
}

// GetByID returns a rubric by ID.
func (r *PGRepo) GetByID(ctx context.Context, rubricID string) (Rubric, error) {
	const query = `
SELECT id, user_id, topic_id, team_info, topic_name, criteria, created_at, updated_at
FROM rubrics
WHERE id = $1
LIMIT 1`
	return scanRubric(r.DB.QueryRowContext(ctx, query, rubricID))
}

// GetByTopic returns the rubric for a user's topic.
func (r *PGRepo) GetByTopic(ctx context.Context, userID, topicID string) (Rubric, error) {
	const query = `
SELECT id, user_id, topic_id, team_info, topic_name, criteria, created_at, updated_at
FROM rubrics
WHERE user_id = $1 AND topic_id = $2
LIMIT 1`
	return scanRubric(r.DB.QueryRowContext(ctx, query, userID, topicID))
}

// UpdateCriteria replaces the criteria list for a topic's rubric.
func (r *PGRepo) UpdateCriteria(ctx context.Context, userID, topicID string, criteria []Criterion) error {
	const query = `
UPDATE rubrics
SET criteria = $1::jsonb,
    updated_at = now()
WHERE user_id = $2 AND topic_id = $3`

	payload, err := json.Marshal(criteria)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, payload, userID, topicID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRubric(row rowScanner) (Rubric, error) {
	var rb Rubric
	var criteria []byte
	err := row.Scan(
		&rb.ID,
		&rb.UserID,
		&rb.TopicID,
		&rb.TeamInfo,
		&rb.TopicName,
		&criteria,
		&rb.CreatedAt,
		&rb.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Rubric{}, ErrNotFound
		}
		return Rubric{}, err
	}
	if len(criteria) > 0 {
		if err := json.Unmarshal(criteria, &rb.Criteria); err != nil {
			return Rubric{}, err
		}
	}
	return rb, nil
}

var _ Repo = (*PGRepo)(nil)
