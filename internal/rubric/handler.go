package rubric

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"grading-backend/internal/shared/server/middleware"
	"grading-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the rubric service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches rubric routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/topics/:id/rubric", h.createRubric)
	rg.GET("/topics/:id/rubric", h.getRubric)
	rg.PUT("/topics/:id/rubric", h.updateRubric)
}

type rubricRequest struct {
	TeamInfo  string      `json:"teamInfo"`
	TopicName string      `json:"topicName"`
	Criteria  []Criterion `json:"criteria"`
}

func (h *Handler) createRubric(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	topicID := c.Param("id")
	if topicID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "topic id is required", nil)
		return
	}

	var req rubricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	rb, err := h.Svc.Create(c.Request.Context(), userID, topicID, req.TeamInfo, req.TopicName, req.Criteria)
	if err != nil {
		switch {
		case errors.Is(err, ErrExists):
			respond.Error(c, http.StatusConflict, "conflict", "a rubric already exists for this topic", nil)
		default:
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		}
		return
	}

	c.Set("topicId", topicID)
	respond.JSON(c, http.StatusCreated, rb)
}

func (h *Handler) getRubric(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	topicID := c.Param("id")
	if topicID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "topic id is required", nil)
		return
	}

	rb, err := h.Svc.GetByTopic(c.Request.Context(), userID, topicID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "rubric not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch rubric", nil)
		}
		return
	}

	respond.OK(c, rb)
}

func (h *Handler) updateRubric(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	topicID := c.Param("id")
	if topicID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "topic id is required", nil)
		return
	}

	var req rubricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	if err := h.Svc.UpdateCriteria(c.Request.Context(), userID, topicID, req.Criteria); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "rubric not found", nil)
		default:
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		}
		return
	}

	respond.OK(c, gin.H{"updated": true})
}
