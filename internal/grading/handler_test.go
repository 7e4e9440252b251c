package grading

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, fx *fixture) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	rg := r.Group("/api/v1")
	rg.Use(func(c *gin.Context) { c.Set("userId", "u-1") })
	NewHandler(fx.svc).RegisterRoutes(rg)
	return r
}

func TestHandlerGetGradingRateLimited(t *testing.T) {
	client := &scriptedClient{steps: []statusStep{inProgress()}}
	fx := newFixture(t, client)
	r := newTestRouter(t, fx)

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/gradings/"+fx.gradingID, nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first poll status = %d, body = %s", first.Code, first.Body.String())
	}

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/gradings/"+fx.gradingID, nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second poll status = %d, want 429", second.Code)
	}
	if second.Header().Get("Retry-After") != "1" {
		t.Errorf("Retry-After = %q", second.Header().Get("Retry-After"))
	}
}

func TestHandlerGetGradingNotFound(t *testing.T) {
	client := &scriptedClient{steps: []statusStep{inProgress()}}
	fx := newFixture(t, client)
	r := newTestRouter(t, fx)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/gradings/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerCreateGradingValidation(t *testing.T) {
	client := &scriptedClient{steps: []statusStep{inProgress()}}
	fx := newFixture(t, client)
	r := newTestRouter(t, fx)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/topics/t-1/gradings", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for missing videoId", rec.Code)
	}
}

func TestHandlerCreateGradingAccepted(t *testing.T) {
	client := &scriptedClient{steps: []statusStep{inProgress()}}
	fx := newFixture(t, client)
	fx.svc.Queue = &fakeQueue{}
	r := newTestRouter(t, fx)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/topics/t-1/gradings", strings.NewReader(`{"videoId":"vid-1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got Grading
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.Status != StatusQueued || got.TopicID != "t-1" {
		t.Errorf("grading = %+v", got)
	}
}
