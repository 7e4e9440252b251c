package rubric

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

	rb := Rubric{
		ID:        "rub-1",
		UserID:    "u-1",
		TopicID:   "t-1",
		TeamInfo:  "Team A",
		TopicName: "Pitch",
		Criteria: []Criterion{
			{Name: "Clarity", MaxScore: 60, Description: "clear"},
			{Name: "Pacing", MaxScore: 40, Description: "steady"},
		},
		CreatedAt: time.Now().UTC(),
	}
	payload, _ := json.Marshal(rb.Criteria)

	mock.ExpectExec("INSERT INTO rubrics").
		WithArgs(rb.ID, rb.UserID, rb.TopicID, rb.TeamInfo, rb.TopicName, payload, rb.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	if err := repo.Create(context.Background(), rb); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPGRepoGetByTopic(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	criteria := []byte(`[{"name":"Clarity","maxScore":60,"description":"clear"}]`)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "topic_id", "team_info", "topic_name", "criteria", "created_at", "updated_at",
	}).AddRow("rub-1", "u-1", "t-1", "Team A", "Pitch", criteria, created, created)

	mock.ExpectQuery("SELECT (.+) FROM rubrics").
		WithArgs("u-1", "t-1").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	rb, err := repo.GetByTopic(context.Background(), "u-1", "t-1")
	if err != nil {
		t.Fatalf("GetByTopic: %v", err)
	}
	if len(rb.Criteria) != 1 || rb.Criteria[0].MaxScore != 60 {
		t.Errorf("rubric = %+v", rb)
	}
}

func TestPGRepoGetByTopicNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM rubrics").
		WithArgs("u-1", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByTopic(context.Background(), "u-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateCriteriaNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE rubrics").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	criteria := []Criterion{{Name: "Clarity", MaxScore: 100}}
	if err := repo.UpdateCriteria(context.Background(), "u-1", "missing", criteria); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
