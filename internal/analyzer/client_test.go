package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPClientSubmit(t *testing.T) {
	var gotCriteria []CriterionPayload
	var gotFile string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/analyze" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("file part: %v", err)
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		gotFile = hdr.Filename + ":" + string(data)

		if err := json.Unmarshal([]byte(r.FormValue("criteria")), &gotCriteria); err != nil {
			t.Fatalf("criteria part: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"jobId":"job-42"}`)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, 5*time.Second)
	jobID, err := client.Submit(context.Background(), strings.NewReader("video-bytes"), "pitch.mp4", []CriterionPayload{
		{StandardName: "Clarity", StandardScore: 40, StandardDetail: "clear delivery"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if jobID != "job-42" {
		t.Errorf("jobID = %q, want job-42", jobID)
	}
	if gotFile != "pitch.mp4:video-bytes" {
		t.Errorf("file part = %q", gotFile)
	}
	if len(gotCriteria) != 1 || gotCriteria[0].StandardName != "Clarity" || gotCriteria[0].StandardScore != 40 {
		t.Errorf("criteria = %+v", gotCriteria)
	}
}

func TestHTTPClientSubmitRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unsupported media", http.StatusUnsupportedMediaType)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, 5*time.Second)
	_, err := client.Submit(context.Background(), strings.NewReader("x"), "a.mp4", nil)

	var subErr *SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if subErr.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("StatusCode = %d", subErr.StatusCode)
	}
}

func TestHTTPClientStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze/job-42" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"Complete","result":{"overallSummary":"good","reviews":[{"name":"Clarity","score":35,"feedback":"ok"}]}}`)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, 5*time.Second)
	resp, err := client.Status(context.Background(), "job-42")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if resp.Status != StatusComplete || !resp.Terminal() {
		t.Errorf("status = %q", resp.Status)
	}
	if resp.Result == nil || len(resp.Result.Reviews) != 1 || resp.Result.Reviews[0].Score != 35 {
		t.Errorf("result = %+v", resp.Result)
	}
}

func TestHTTPClientStatusServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, 5*time.Second)
	_, err := client.Status(context.Background(), "job-42")

	var stErr *StatusQueryError
	if !errors.As(err, &stErr) {
		t.Fatalf("expected StatusQueryError, got %v", err)
	}
	if stErr.StatusCode != http.StatusBadGateway || stErr.JobID != "job-42" {
		t.Errorf("err = %+v", stErr)
	}
}

func TestDecodeStatusResponse(t *testing.T) {
	t.Run("unknown status accepted", func(t *testing.T) {
		resp, err := DecodeStatusResponse([]byte(`{"status":"Queued"}`))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Terminal() {
			t.Error("Queued should not be terminal")
		}
	})

	t.Run("missing status rejected", func(t *testing.T) {
		if _, err := DecodeStatusResponse([]byte(`{"message":"hi"}`)); err == nil {
			t.Error("expected error for missing status")
		}
	})
}
