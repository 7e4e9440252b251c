package grading

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"grading-backend/internal/analyzer"
	"grading-backend/internal/queue"
	"grading-backend/internal/reconcile"
	"grading-backend/internal/reports"
	"grading-backend/internal/rubric"
	"grading-backend/internal/shared/metrics"
	"grading-backend/internal/shared/storage/object"
	"grading-backend/internal/shared/telemetry"
	"grading-backend/internal/videos"
)

// Service orchestrates a grading: submit the video, poll the remote job,
// reconcile the assessment against the rubric, persist the report.
type Service struct {
	Repo     Repo
	Rubrics  rubric.Repo
	Videos   videos.Repo
	Store    object.ObjectStore
	Analyzer analyzer.Client
	Reports  *reports.Service
	Queue    queue.Client
	Matcher  reconcile.Matcher
	Policy   PollPolicy
	Clock    Clock
}

// Create enqueues a new grading for a topic's rubric and video. Processing
// happens on the queue worker when one is configured, otherwise in a local
// goroutine.
func (s *Service) Create(ctx context.Context, userID, topicID, videoID string) (Grading, error) {
	if userID == "" || topicID == "" || videoID == "" {
		return Grading{}, errors.New("userID, topicID and videoID are required")
	}

	rb, err := s.Rubrics.GetByTopic(ctx, userID, topicID)
	if err != nil {
		return Grading{}, fmt.Errorf("rubric lookup: %w", err)
	}
	if _, err := s.Videos.GetByID(ctx, userID, videoID); err != nil {
		return Grading{}, fmt.Errorf("video lookup: %w", err)
	}

	now := time.Now().UTC()
	g := Grading{
		ID:        uuid.NewString(),
		UserID:    userID,
		TopicID:   topicID,
		RubricID:  rb.ID,
		VideoID:   videoID,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, g); err != nil {
		return Grading{}, err
	}
	metrics.IncGradingStarted()

	if s.Queue != nil {
		msg := queue.Message{
			GradingID:  g.ID,
			RequestID:  requestIDFromContext(ctx),
			EnqueuedAt: now.Format(time.RFC3339),
			Version:    1,
		}
		sendErr := s.Queue.Send(ctx, msg)
		if sendErr == nil {
			return g, nil
		}
		// Queue unreachable, fall back to local processing.
		telemetry.Warn("grading.enqueue", map[string]any{
			"request_id": requestIDFromContext(ctx),
			"grading_id": g.ID,
			"error":      sanitizeError(sendErr),
		})
	}

	go s.processAsync(backgroundWithRequestID(ctx), g.ID)
	return g, nil
}

// Get returns a grading owned by the user.
func (s *Service) Get(ctx context.Context, userID, gradingID string) (Grading, error) {
	if userID == "" || gradingID == "" {
		return Grading{}, errors.New("userID and gradingID are required")
	}
	g, err := s.Repo.GetByID(ctx, gradingID)
	if err != nil {
		return Grading{}, err
	}
	if g.UserID != userID {
		return Grading{}, ErrNotFound
	}
	return g, nil
}

// ListByTopic returns the user's gradings for a topic.
func (s *Service) ListByTopic(ctx context.Context, userID, topicID string) ([]Grading, error) {
	if userID == "" || topicID == "" {
		return nil, errors.New("userID and topicID are required")
	}
	return s.Repo.ListByTopic(ctx, userID, topicID)
}

func (s *Service) processAsync(ctx context.Context, gradingID string) {
	defer func() {
		if r := recover(); r != nil {
			s.failGrading(ctx, gradingID, nil, fmt.Errorf("panic: %v", r), nil)
		}
	}()
	if err := s.Process(ctx, gradingID); err != nil {
		telemetry.Error("grading.process", map[string]any{
			"request_id": requestIDFromContext(ctx),
			"grading_id": gradingID,
			"error":      sanitizeError(err),
		})
	}
}

// Process runs one grading end to end. It is called by the local goroutine
// path and by the queue worker. A context cancelled mid-flight returns
// ctx.Err without marking the grading failed, so a redelivered queue
// message can pick it up again.
func (s *Service) Process(ctx context.Context, gradingID string) error {
	startedAt := time.Now().UTC()
	if err := s.Repo.MarkProcessing(ctx, gradingID, startedAt); err != nil {
		s.failGrading(ctx, gradingID, nil, fmt.Errorf("set processing failed: %w", err), &startedAt)
		return err
	}

	g, err := s.Repo.GetByID(ctx, gradingID)
	if err != nil {
		s.failGrading(ctx, gradingID, nil, fmt.Errorf("grading lookup: %w", err), &startedAt)
		return err
	}
	rb, err := s.Rubrics.GetByID(ctx, g.RubricID)
	if err != nil {
		s.failGrading(ctx, gradingID, nil, fmt.Errorf("rubric lookup id=%s: %w", g.RubricID, err), &startedAt)
		return err
	}
	v, err := s.Videos.GetByID(ctx, g.UserID, g.VideoID)
	if err != nil {
		s.failGrading(ctx, gradingID, nil, fmt.Errorf("video lookup id=%s: %w", g.VideoID, err), &startedAt)
		return err
	}

	jobID, err := s.submit(ctx, v, rb.Criteria)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.failGrading(ctx, gradingID, nil, err, &startedAt)
		return err
	}
	if err := s.Repo.SetRemoteJob(ctx, gradingID, jobID); err != nil {
		s.failGrading(ctx, gradingID, nil, fmt.Errorf("set remote job failed: %w", err), &startedAt)
		return err
	}
	telemetry.Info("grading.submitted", map[string]any{
		"request_id": requestIDFromContext(ctx),
		"user_id":    g.UserID,
		"grading_id": gradingID,
		"job_id":     jobID,
	})

	poller := &Poller{Client: s.Analyzer, Policy: s.Policy, Clock: s.Clock}
	event, err := poller.Run(ctx, jobID)
	if err != nil {
		return err
	}
	if event.Failed() {
		s.failGrading(ctx, gradingID, nil, fmt.Errorf("analysis failed: %s", event.Message), &startedAt)
		return nil
	}

	rp := reconcile.Build(s.Matcher, rb.Criteria, event.Assessment)
	rp.UserID = g.UserID
	rp.TopicID = g.TopicID
	rp.TeamInfo = rb.TeamInfo
	rp.TopicName = rb.TopicName
	rp.GradeAt = time.Now().UTC()

	cached, err := reportToMap(rp)
	if err != nil {
		s.failGrading(ctx, gradingID, nil, fmt.Errorf("encode result failed: %w", err), &startedAt)
		return err
	}

	persisted, err := s.Reports.Persist(ctx, rp)
	if err != nil {
		// Keep the reconciled payload so the persist can be retried.
		s.failGrading(ctx, gradingID, cached, fmt.Errorf("report persistence: %w", err), &startedAt)
		return nil
	}

	completedAt := time.Now().UTC()
	if err := s.Repo.Complete(ctx, gradingID, cached, persisted.ID, completedAt); err != nil {
		s.failGrading(ctx, gradingID, cached, fmt.Errorf("set completed failed: %w", err), &startedAt)
		return err
	}
	metrics.IncGradingCompleted()
	metrics.ObserveGradingDurationMs(durationMs(&startedAt, &completedAt))
	telemetry.Info("grading.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           g.UserID,
		"grading_id":        gradingID,
		"report_id":         persisted.ID,
		"status":            StatusCompleted,
		"status_transition": "processing->completed",
		"total_score":       persisted.TotalScore,
		"duration_ms":       durationMs(&startedAt, &completedAt),
	})
	return nil
}

// RetryPersist re-persists a reconciled report from the cached payload
// after a persistence failure. The analysis is never re-run.
func (s *Service) RetryPersist(ctx context.Context, userID, gradingID string) (Grading, error) {
	g, err := s.Get(ctx, userID, gradingID)
	if err != nil {
		return Grading{}, err
	}
	if g.Status != StatusFailed || g.ErrorCode != ErrorCodePersistence {
		return Grading{}, ErrNotRetryable
	}
	if g.Result == nil {
		return Grading{}, ErrNoCachedResult
	}

	rp, err := reportFromMap(g.Result)
	if err != nil {
		return Grading{}, fmt.Errorf("decode cached result: %w", err)
	}
	persisted, err := s.Reports.Persist(ctx, rp)
	if err != nil {
		return Grading{}, fmt.Errorf("report persistence: %w", err)
	}

	completedAt := time.Now().UTC()
	if err := s.Repo.Complete(ctx, gradingID, g.Result, persisted.ID, completedAt); err != nil {
		return Grading{}, err
	}
	metrics.IncGradingCompleted()
	telemetry.Info("grading.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           userID,
		"grading_id":        gradingID,
		"report_id":         persisted.ID,
		"status":            StatusCompleted,
		"status_transition": "failed->completed",
	})
	return s.Repo.GetByID(ctx, gradingID)
}

func (s *Service) submit(ctx context.Context, v videos.Video, criteria []rubric.Criterion) (string, error) {
	body, err := s.Store.Open(ctx, v.StorageKey)
	if err != nil {
		return "", fmt.Errorf("open video storage key=%s: %w", v.StorageKey, err)
	}
	defer body.Close()

	payload := make([]analyzer.CriterionPayload, 0, len(criteria))
	for _, cr := range criteria {
		payload = append(payload, analyzer.CriterionPayload{
			StandardName:   cr.Name,
			StandardScore:  cr.MaxScore,
			StandardDetail: cr.Description,
		})
	}

	jobID, err := s.Analyzer.Submit(ctx, body, v.FileName, payload)
	if err != nil {
		return "", fmt.Errorf("analysis submission: %w", err)
	}
	return jobID, nil
}

func (s *Service) failGrading(ctx context.Context, gradingID string, cached map[string]any, err error, startedAt *time.Time) {
	code := classifyFailure(err)
	msg := sanitizeError(err)
	completedAt := time.Now().UTC()
	if updateErr := s.Repo.Fail(context.Background(), gradingID, cached, code, msg, completedAt); updateErr != nil {
		telemetry.Error("grading.fail_update", map[string]any{
			"grading_id": gradingID,
			"error":      sanitizeError(updateErr),
			"cause":      msg,
		})
	}
	metrics.IncGradingFailed()
	if startedAt != nil {
		metrics.ObserveGradingDurationMs(durationMs(startedAt, &completedAt))
	}
	telemetry.Info("grading.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"grading_id":        gradingID,
		"status":            StatusFailed,
		"error_code":        code,
		"status_transition": "processing->failed",
		"duration_ms":       durationMs(startedAt, &completedAt),
	})
}

func classifyFailure(err error) string {
	if err == nil {
		return ErrorCodeInternal
	}
	var subErr *analyzer.SubmissionError
	if errors.As(err, &subErr) {
		return ErrorCodeSubmission
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "analysis submission"):
		return ErrorCodeSubmission
	case strings.Contains(msg, "analysis failed"), strings.Contains(msg, "poll budget"):
		return ErrorCodeAnalysis
	case strings.Contains(msg, "report persistence"), strings.Contains(msg, "encode result"):
		return ErrorCodePersistence
	case strings.Contains(msg, "lookup"), strings.Contains(msg, "open video"), strings.Contains(msg, "set "):
		return ErrorCodeStorage
	default:
		return ErrorCodeInternal
	}
}

func durationMs(startedAt, completedAt *time.Time) float64 {
	if startedAt == nil || completedAt == nil {
		return 0
	}
	return float64(completedAt.Sub(*startedAt).Microseconds()) / 1000.0
}

func reportToMap(rp reports.Report) (map[string]any, error) {
	payload, err := json.Marshal(rp)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func reportFromMap(m map[string]any) (reports.Report, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return reports.Report{}, err
	}
	var rp reports.Report
	if err := json.Unmarshal(payload, &rp); err != nil {
		return reports.Report{}, err
	}
	return rp, nil
}
