package reports

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"grading-backend/internal/shared/server/middleware"
	"grading-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the reports service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches report routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports/:id", h.getReport)
	rg.GET("/topics/:id/reports", h.listReports)
}

func (h *Handler) getReport(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	reportID := c.Param("id")
	if reportID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "report id is required", nil)
		return
	}

	rp, err := h.Svc.GetByID(c.Request.Context(), userID, reportID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "report not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch report", nil)
		}
		return
	}

	c.Set("reportId", rp.ID)
	respond.OK(c, rp)
}

func (h *Handler) listReports(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	topicID := c.Param("id")
	if topicID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "topic id is required", nil)
		return
	}

	list, err := h.Svc.ListByTopic(c.Request.Context(), userID, topicID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list reports", nil)
		return
	}
	if list == nil {
		list = []Report{}
	}
	respond.OK(c, list)
}
