package analyzer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Remote job status strings as reported by the analysis service. Anything
// else means the job is still being worked on.
const (
	StatusPending    = "Pending"
	StatusInProgress = "InProgress"
	StatusComplete   = "Complete"
	StatusError      = "Error"
)

// CriterionPayload is the wire form of a rubric criterion sent with a
// submission.
type CriterionPayload struct {
	StandardName   string `json:"standardName"`
	StandardScore  int    `json:"standardScore"`
	StandardDetail string `json:"standardDetail"`
}

// SubmitResponse is the analysis service's answer to a submission.
type SubmitResponse struct {
	JobID string `json:"jobId"`
}

// RawReview is a single per-topic score entry as emitted by the service.
// Naming is loose and need not align with the rubric.
type RawReview struct {
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// RawAssessment is the terminal payload of a completed job. Every field is
// optional; reconciliation degrades gracefully over what is missing.
type RawAssessment struct {
	OverallSummary string      `json:"overallSummary,omitempty"`
	VideoSummary   string      `json:"videoSummary,omitempty"`
	AIFeedback     string      `json:"aiFeedback,omitempty"`
	Reviews        []RawReview `json:"reviews,omitempty"`
}

// StatusResponse is one answer to a status query.
type StatusResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Result  *RawAssessment `json:"result,omitempty"`
}

// DecodeStatusResponse parses and validates a status payload. Unknown status
// strings are accepted (they mean "still running"); an empty status is not.
func DecodeStatusResponse(payload []byte) (StatusResponse, error) {
	var resp StatusResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return StatusResponse{}, fmt.Errorf("decode status response: %w", err)
	}
	if strings.TrimSpace(resp.Status) == "" {
		return StatusResponse{}, errors.New("status response missing status")
	}
	return resp, nil
}

// Terminal reports whether the response carries a terminal status.
func (r StatusResponse) Terminal() bool {
	return r.Status == StatusComplete || r.Status == StatusError
}
