package videos

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"grading-backend/internal/shared/server/middleware"
	"grading-backend/internal/shared/server/respond"
)

const maxVideoBytes = 500 << 20

// Handler wires HTTP handlers to the videos service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches video routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/videos", h.uploadVideo)
	rg.GET("/videos", h.listVideos)
	rg.GET("/videos/:id", h.getVideo)
}

func (h *Handler) uploadVideo(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "multipart field 'file' is required", nil)
		return
	}
	if fileHeader.Size > maxVideoBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "video exceeds the size limit", nil)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read uploaded file", nil)
		return
	}
	defer f.Close()

	v, err := h.Svc.Upload(c.Request.Context(), userID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), f)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedType):
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_media_type", "only video uploads are accepted", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store video", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, v)
}

func (h *Handler) listVideos(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	list, err := h.Svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list videos", nil)
		return
	}
	if list == nil {
		list = []Video{}
	}
	respond.OK(c, list)
}

func (h *Handler) getVideo(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	videoID := c.Param("id")
	if videoID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "video id is required", nil)
		return
	}

	v, err := h.Svc.GetByID(c.Request.Context(), userID, videoID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "video not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch video", nil)
		}
		return
	}
	respond.OK(c, v)
}
