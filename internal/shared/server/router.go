package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grading-backend/internal/grading"
	"grading-backend/internal/reports"
	"grading-backend/internal/rubric"
	"grading-backend/internal/shared/config"
	"grading-backend/internal/shared/metrics"
	"grading-backend/internal/shared/server/middleware"
	"grading-backend/internal/shared/server/respond"
	"grading-backend/internal/uploads"
	"grading-backend/internal/videos"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config         config.Config
	RubricHandler  *rubric.Handler
	VideosHandler  *videos.Handler
	GradingHandler *grading.Handler
	ReportsHandler *reports.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Identity(),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	if deps.RubricHandler != nil {
		deps.RubricHandler.RegisterRoutes(api)
	}
	if deps.VideosHandler != nil {
		deps.VideosHandler.RegisterRoutes(api)
	}
	if deps.GradingHandler != nil {
		deps.GradingHandler.RegisterRoutes(api)
	}
	if deps.ReportsHandler != nil {
		deps.ReportsHandler.RegisterRoutes(api)
	}
	uploads.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
