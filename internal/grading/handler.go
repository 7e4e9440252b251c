package grading

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"grading-backend/internal/rubric"
	"grading-backend/internal/shared/server/middleware"
	"grading-backend/internal/shared/server/respond"
	"grading-backend/internal/videos"
)

// Handler wires HTTP handlers to the grading service.
type Handler struct {
	Svc     *Service
	limiter *pollLimiter
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{
		Svc:     svc,
		limiter: newPollLimiter(pollLimitWindow, nil),
	}
}

// RegisterRoutes attaches grading routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/topics/:id/gradings", h.createGrading)
	rg.GET("/topics/:id/gradings", h.listGradings)
	rg.GET("/gradings/:id", h.getGrading)
	rg.POST("/gradings/:id/persist", h.retryPersist)
}

type createGradingRequest struct {
	VideoID string `json:"videoId"`
}

func (h *Handler) createGrading(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	topicID := c.Param("id")
	if topicID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "topic id is required", nil)
		return
	}

	var req createGradingRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.VideoID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "videoId is required", nil)
		return
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	g, err := h.Svc.Create(ctx, userID, topicID, req.VideoID)
	if err != nil {
		switch {
		case errors.Is(err, rubric.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "no rubric exists for this topic", nil)
		case errors.Is(err, videos.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "video not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start grading", nil)
		}
		return
	}

	c.Set("gradingId", g.ID)
	respond.JSON(c, http.StatusAccepted, g)
}

func (h *Handler) getGrading(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	gradingID := c.Param("id")
	if gradingID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "grading id is required", nil)
		return
	}

	if !h.limiter.Allow(userID, gradingID) {
		c.Header("Retry-After", strconv.Itoa(h.limiter.RetryAfterSeconds()))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "polling too frequently", nil)
		return
	}

	g, err := h.Svc.Get(c.Request.Context(), userID, gradingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "grading not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch grading", nil)
		}
		return
	}
	respond.OK(c, g)
}

func (h *Handler) listGradings(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	topicID := c.Param("id")
	if topicID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "topic id is required", nil)
		return
	}

	list, err := h.Svc.ListByTopic(c.Request.Context(), userID, topicID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list gradings", nil)
		return
	}
	if list == nil {
		list = []Grading{}
	}
	respond.OK(c, list)
}

func (h *Handler) retryPersist(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	gradingID := c.Param("id")
	if gradingID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "grading id is required", nil)
		return
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	g, err := h.Svc.RetryPersist(ctx, userID, gradingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "grading not found", nil)
		case errors.Is(err, ErrNotRetryable), errors.Is(err, ErrNoCachedResult):
			respond.Error(c, http.StatusConflict, "conflict", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to persist report", nil)
		}
		return
	}

	c.Set("gradingId", g.ID)
	respond.OK(c, g)
}
