package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

// Client talks to the remote analysis service.
type Client interface {
	// Submit uploads a video and the rubric criteria and returns the
	// remote job ID.
	Submit(ctx context.Context, video io.Reader, fileName string, criteria []CriterionPayload) (string, error)
	// Status queries the current state of a job.
	Status(ctx context.Context, jobID string) (StatusResponse, error)
}

// HTTPClient is the production Client backed by net/http.
type HTTPClient struct {
	BaseURL string
	HTTP    *http.Client
}

// NewHTTPClient constructs an HTTPClient. A zero timeout falls back to the
// default.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Submit posts the video as multipart form data. The criteria travel as a
// JSON-encoded "criteria" part alongside the "file" part.
func (c *HTTPClient) Submit(ctx context.Context, video io.Reader, fileName string, criteria []CriterionPayload) (string, error) {
	if video == nil {
		return "", errors.New("video reader is required")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, video); err != nil {
		return "", fmt.Errorf("copy video: %w", err)
	}

	criteriaJSON, err := json.Marshal(criteria)
	if err != nil {
		return "", fmt.Errorf("encode criteria: %w", err)
	}
	if err := mw.WriteField("criteria", string(criteriaJSON)); err != nil {
		return "", fmt.Errorf("write criteria part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/analyze", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit analysis: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read submit response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &SubmissionError{StatusCode: resp.StatusCode, Body: truncate(string(payload), 512)}
	}

	var out SubmitResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", fmt.Errorf("decode submit response: %w", err)
	}
	if out.JobID == "" {
		return "", errors.New("submit response missing jobId")
	}
	return out.JobID, nil
}

// Status fetches the state of a previously submitted job.
func (c *HTTPClient) Status(ctx context.Context, jobID string) (StatusResponse, error) {
	if jobID == "" {
		return StatusResponse{}, errors.New("jobID is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/analyze/"+jobID, nil)
	if err != nil {
		return StatusResponse{}, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return StatusResponse{}, fmt.Errorf("query status: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return StatusResponse{}, fmt.Errorf("read status response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return StatusResponse{}, &StatusQueryError{StatusCode: resp.StatusCode, JobID: jobID}
	}
	return DecodeStatusResponse(payload)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var _ Client = (*HTTPClient)(nil)
