package grading

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	created := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	started := created.Add(time.Second)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "topic_id", "rubric_id", "video_id", "remote_job_id",
		"status", "result", "report_id", "error_code", "error_message",
		"started_at", "completed_at", "created_at", "updated_at",
	}).AddRow("grd-1", "u-1", "t-1", "rub-1", "vid-1", "job-9",
		StatusProcessing, []byte(`{"totalScore":70}`), nil, nil, nil,
		started, nil, created, created)

	mock.ExpectQuery("SELECT (.+) FROM gradings").
		WithArgs("grd-1").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	g, err := repo.GetByID(context.Background(), "grd-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if g.RemoteJobID != "job-9" || g.Status != StatusProcessing {
		t.Errorf("grading = %+v", g)
	}
	if g.StartedAt == nil || !g.StartedAt.Equal(started) {
		t.Errorf("startedAt = %v", g.StartedAt)
	}
	if g.CompletedAt != nil || g.ReportID != "" || g.ErrorCode != "" {
		t.Errorf("nullable fields = %+v", g)
	}
	if g.Result["totalScore"] != float64(70) {
		t.Errorf("result = %+v", g.Result)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM gradings").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoComplete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	completedAt := time.Now().UTC()
	mock.ExpectExec("UPDATE gradings").
		WithArgs(StatusCompleted, []byte(`{"totalScore":70}`), "rep-1", completedAt, "grd-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	err = repo.Complete(context.Background(), "grd-1", map[string]any{"totalScore": 70}, "rep-1", completedAt)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPGRepoFailMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE gradings").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	err = repo.Fail(context.Background(), "missing", nil, ErrorCodeInternal, "boom", time.Now().UTC())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
