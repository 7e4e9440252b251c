package reports

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

// Create inserts a new report.
func (r *PGRepo) Create(ctx context.Context, rp Report) error {
	const query = `
INSERT INTO reports (id, user_id, topic_id, team_info, topic_name, overall_feedback, scores, total_score, status, grade_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	scores, err := json.Marshal(rp.Scores)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		rp.ID,
		rp.UserID,
		rp.TopicID,
		rp.TeamInfo,
		rp.TopicName,
		rp.OverallFeedback,
		scores,
		rp.TotalScore,
		rp.Status,
		rp.GradeAt,
	)
	return err
}

// GetByID returns a report owned by the user.
func (r *PGRepo) GetByID(ctx context.Context, userID, reportID string) (Report, error) {
	const query = `
SELECT id, user_id, topic_id, team_info, topic_name, overall_feedback, scores, total_score, status, grade_at
FROM reports
WHERE id = $1 AND user_id = $2
LIMIT 1`
	return scanReport(r.DB.QueryRowContext(ctx, query, reportID, userID))
}

// ListByTopic returns the user's reports for a topic, newest first.
func (r *PGRepo) ListByTopic(ctx context.Context, userID, topicID string) ([]Report, error) {
	const query = `
SELECT id, user_id, topic_id, team_info, topic_name, overall_feedback, scores, total_score, status, grade_at
FROM reports
WHERE user_id = $1 AND topic_id = $2
ORDER BY grade_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID, topicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		rp, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rp)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (Report, error) {
	var rp Report
	var scores []byte
	err := row.Scan(
		&rp.ID,
		&rp.UserID,
		&rp.TopicID,
		&rp.TeamInfo,
		&rp.TopicName,
		&rp.OverallFeedback,
		&scores,
		&rp.TotalScore,
		&rp.Status,
		&rp.GradeAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Report{}, ErrNotFound
		}
		return Report{}, err
	}
	if len(scores) > 0 {
		if err := json.Unmarshal(scores, &rp.Scores); err != nil {
			return Report{}, err
		}
	}
	return rp, nil
}

var _ Repo = (*PGRepo)(nil)
