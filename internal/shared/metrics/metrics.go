package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	gradingStartedTotal   atomic.Uint64
	gradingCompletedTotal atomic.Uint64
	gradingFailedTotal    atomic.Uint64
	pollAttemptsTotal     atomic.Uint64
	pollFailuresTotal     atomic.Uint64

	gradingJobsReceivedTotal      atomic.Uint64
	gradingJobsCompletedTotal     atomic.Uint64
	gradingJobsFailedTotal        atomic.Uint64
	gradingJobsUnrecoverableTotal atomic.Uint64

	gradingDuration = newHistogram([]float64{500, 1000, 2000, 5000, 10000, 30000, 60000, 120000, 300000})
)

// IncGradingStarted increments the started counter.
func IncGradingStarted() {
	gradingStartedTotal.Add(1)
}

// IncGradingCompleted increments the completed counter.
func IncGradingCompleted() {
	gradingCompletedTotal.Add(1)
}

// IncGradingFailed increments the failed counter.
func IncGradingFailed() {
	gradingFailedTotal.Add(1)
}

// IncPollAttempt increments the poll attempt counter.
func IncPollAttempt() {
	pollAttemptsTotal.Add(1)
}

// IncPollFailure increments the transient poll failure counter.
func IncPollFailure() {
	pollFailuresTotal.Add(1)
}

// IncGradingJobsReceived increments the worker job received counter.
func IncGradingJobsReceived() {
	gradingJobsReceivedTotal.Add(1)
}

// IncGradingJobsCompleted increments the worker job completed counter.
func IncGradingJobsCompleted() {
	gradingJobsCompletedTotal.Add(1)
}

// IncGradingJobsFailed increments the worker job failed counter.
func IncGradingJobsFailed() {
	gradingJobsFailedTotal.Add(1)
}

// IncGradingJobsDeletedUnrecoverable counts messages dropped as unparseable.
func IncGradingJobsDeletedUnrecoverable() {
	gradingJobsUnrecoverableTotal.Add(1)
}

// ObserveGradingDurationMs records an end-to-end grading duration in milliseconds.
func ObserveGradingDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	gradingDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "grading_started_total", "Total gradings started", gradingStartedTotal.Load())
	writeCounter(&buf, "grading_completed_total", "Total gradings completed", gradingCompletedTotal.Load())
	writeCounter(&buf, "grading_failed_total", "Total gradings failed", gradingFailedTotal.Load())
	writeCounter(&buf, "poll_attempts_total", "Total status polls issued", pollAttemptsTotal.Load())
	writeCounter(&buf, "poll_failures_total", "Total transient poll failures", pollFailuresTotal.Load())
	writeCounter(&buf, "grading_jobs_received_total", "Total queue jobs received", gradingJobsReceivedTotal.Load())
	writeCounter(&buf, "grading_jobs_completed_total", "Total queue jobs completed", gradingJobsCompletedTotal.Load())
	writeCounter(&buf, "grading_jobs_failed_total", "Total queue jobs failed", gradingJobsFailedTotal.Load())
	writeCounter(&buf, "grading_jobs_deleted_unrecoverable_total", "Total unparseable queue jobs dropped", gradingJobsUnrecoverableTotal.Load())
	writeHistogram(&buf, "grading_duration_ms", "Grading duration in milliseconds", gradingDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
