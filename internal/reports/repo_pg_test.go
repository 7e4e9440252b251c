package reports

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rp := Report{
		ID:              "rep-1",
		UserID:          "u-1",
		TopicID:         "t-1",
		TeamInfo:        "Team Rocket",
		TopicName:       "Final Pitch",
		OverallFeedback: "solid delivery",
		Scores: []ScoredCriterion{
			{StandardName: "Clarity", StandardScore: 40, ScoreValue: 35, Feedback: "clear"},
		},
		TotalScore: 35,
		Status:     StatusCompleted,
		GradeAt:    time.Now().UTC(),
	}
	scores, _ := json.Marshal(rp.Scores)

	mock.ExpectExec("INSERT INTO reports").
		WithArgs(rp.ID, rp.UserID, rp.TopicID, rp.TeamInfo, rp.TopicName, rp.OverallFeedback, scores, rp.TotalScore, rp.Status, rp.GradeAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	if err := repo.Create(context.Background(), rp); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPGRepoGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	gradeAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	scores := []byte(`[{"standardName":"Clarity","standardScore":40,"scoreValue":32,"feedback":"good"}]`)

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "topic_id", "team_info", "topic_name",
		"overall_feedback", "scores", "total_score", "status", "grade_at",
	}).AddRow("rep-1", "u-1", "t-1", "Team Rocket", "Final Pitch", "ok", scores, 32, StatusCompleted, gradeAt)

	mock.ExpectQuery("SELECT (.+) FROM reports").
		WithArgs("rep-1", "u-1").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	rp, err := repo.GetByID(context.Background(), "u-1", "rep-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if rp.TotalScore != 32 || len(rp.Scores) != 1 || rp.Scores[0].ScoreValue != 32 {
		t.Errorf("report = %+v", rp)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM reports").
		WithArgs("missing", "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "u-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListByTopic(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	gradeAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "topic_id", "team_info", "topic_name",
		"overall_feedback", "scores", "total_score", "status", "grade_at",
	}).
		AddRow("rep-2", "u-1", "t-1", "Team A", "Pitch", "later", []byte(`[]`), 80, StatusCompleted, gradeAt.Add(time.Hour)).
		AddRow("rep-1", "u-1", "t-1", "Team A", "Pitch", "earlier", []byte(`[]`), 70, StatusCompleted, gradeAt)

	mock.ExpectQuery("SELECT (.+) FROM reports").
		WithArgs("u-1", "t-1").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	list, err := repo.ListByTopic(context.Background(), "u-1", "t-1")
	if err != nil {
		t.Fatalf("ListByTopic: %v", err)
	}
	if len(list) != 2 || list[0].ID != "rep-2" {
		t.Errorf("list = %+v", list)
	}
}
