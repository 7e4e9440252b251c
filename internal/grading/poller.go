package grading

import (
	"context"
	"strings"
	"time"

	"grading-backend/internal/analyzer"
	"grading-backend/internal/shared/metrics"
	"grading-backend/internal/shared/telemetry"
)

// Default poll cadence. The first status query waits one progress interval,
// the job rarely finishes faster than that.
const (
	defaultProgressWait = 1 * time.Second
	defaultFailureWait  = 2 * time.Second
)

// PollPolicy controls the poll cadence and retry budget.
type PollPolicy struct {
	// InitialDelay is the wait before the first status query. Zero means
	// one ProgressWait.
	InitialDelay time.Duration
	// ProgressWait is the wait between polls while the job runs.
	ProgressWait time.Duration
	// FailureWait is the wait after a transient status failure.
	FailureWait time.Duration
	// MaxFailures bounds consecutive transient failures. Zero means
	// unbounded: polling continues until the job terminates or the
	// context is cancelled.
	MaxFailures int
}

func (p PollPolicy) withDefaults() PollPolicy {
	if p.ProgressWait <= 0 {
		p.ProgressWait = defaultProgressWait
	}
	if p.FailureWait <= 0 {
		p.FailureWait = defaultFailureWait
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = p.ProgressWait
	}
	return p
}

// Clock abstracts timer waits so tests can drive the poll loop.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// TerminalEvent is the single outcome of a poll loop: either a completed
// assessment or a terminal error description.
type TerminalEvent struct {
	Status     string
	Message    string
	Assessment *analyzer.RawAssessment
}

// Failed reports whether the loop ended without a usable assessment.
func (e TerminalEvent) Failed() bool {
	return e.Status != analyzer.StatusComplete
}

// Poller drives a remote analysis job to completion. One call to Run issues
// one poll at a time and returns exactly one TerminalEvent; late responses
// arriving after cancellation are discarded.
type Poller struct {
	Client analyzer.Client
	Policy PollPolicy
	Clock  Clock
}

// Run polls the job until it reaches a terminal state or ctx is cancelled.
// A cancelled context is the only error path; everything else, including an
// exhausted failure budget, folds into the TerminalEvent.
func (p *Poller) Run(ctx context.Context, jobID string) (TerminalEvent, error) {
	policy := p.Policy.withDefaults()
	clock := p.Clock
	if clock == nil {
		clock = realClock{}
	}

	delay := policy.InitialDelay
	failures := 0
	for {
		select {
		case <-clock.After(delay):
		case <-ctx.Done():
			return TerminalEvent{}, ctx.Err()
		}

		metrics.IncPollAttempt()
		resp, err := p.Client.Status(ctx, jobID)
		if ctx.Err() != nil {
			// The caller gave up while the request was in flight.
			return TerminalEvent{}, ctx.Err()
		}
		if err != nil {
			failures++
			metrics.IncPollFailure()
			telemetry.Warn("grading.poll", map[string]any{
				"request_id": requestIDFromContext(ctx),
				"job_id":     jobID,
				"failures":   failures,
				"error":      sanitizeError(err),
			})
			if policy.MaxFailures > 0 && failures >= policy.MaxFailures {
				return TerminalEvent{
					Status:  analyzer.StatusError,
					Message: "poll budget exhausted: " + sanitizeError(err),
				}, nil
			}
			delay = policy.FailureWait
			continue
		}
		failures = 0

		switch resp.Status {
		case analyzer.StatusComplete:
			if resp.Result == nil {
				return TerminalEvent{
					Status:  analyzer.StatusError,
					Message: "analysis completed without a result",
				}, nil
			}
			return TerminalEvent{
				Status:     analyzer.StatusComplete,
				Message:    resp.Message,
				Assessment: resp.Result,
			}, nil
		case analyzer.StatusError:
			msg := resp.Message
			if msg == "" {
				msg = "analysis failed"
			}
			return TerminalEvent{Status: analyzer.StatusError, Message: msg}, nil
		default:
			// Pending, InProgress, or anything the service invents later.
			delay = policy.ProgressWait
		}
	}
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
