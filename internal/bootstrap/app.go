package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"grading-backend/internal/analyzer"
	"grading-backend/internal/grading"
	"grading-backend/internal/queue"
	"grading-backend/internal/reconcile"
	"grading-backend/internal/reports"
	"grading-backend/internal/rubric"
	"grading-backend/internal/shared/config"
	"grading-backend/internal/shared/server"
	"grading-backend/internal/shared/storage/db"
	"grading-backend/internal/shared/storage/object"
	localstore "grading-backend/internal/shared/storage/object/local"
	s3store "grading-backend/internal/shared/storage/object/s3"
	"grading-backend/internal/videos"
)

// App holds shared dependencies for the API server and the worker.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	RubricRepo   rubric.Repo
	VideosRepo   videos.Repo
	GradingsRepo grading.Repo
	ReportsRepo  reports.Repo

	RubricService  *rubric.Service
	VideosService  *videos.Service
	ReportsService *reports.Service
	GradingService *grading.Service

	// GradingProcessor allows tests and the worker to override processing.
	GradingProcessor GradingProcessor

	RubricHandler  *rubric.Handler
	VideosHandler  *videos.Handler
	ReportsHandler *reports.Handler
	GradingHandler *grading.Handler
}

// GradingProcessor runs one grading end to end.
type GradingProcessor interface {
	Process(ctx context.Context, gradingID string) error
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         cfg,
		RubricHandler:  app.RubricHandler,
		VideosHandler:  app.VideosHandler,
		GradingHandler: app.GradingHandler,
		ReportsHandler: app.ReportsHandler,
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.QueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func buildServices(app *App) {
	if app.DB != nil {
		app.RubricRepo = &rubric.PGRepo{DB: app.DB}
		app.VideosRepo = &videos.PGRepo{DB: app.DB}
		app.GradingsRepo = &grading.PGRepo{DB: app.DB}
		app.ReportsRepo = &reports.PGRepo{DB: app.DB}
	} else {
		app.RubricRepo = rubric.NewMemoryRepo()
		app.VideosRepo = videos.NewMemoryRepo()
		app.GradingsRepo = grading.NewMemoryRepo()
		app.ReportsRepo = reports.NewMemoryRepo()
	}

	app.RubricService = &rubric.Service{Repo: app.RubricRepo}
	app.VideosService = &videos.Service{Repo: app.VideosRepo, Store: app.Store}
	app.ReportsService = &reports.Service{Repo: app.ReportsRepo}
	app.GradingService = &grading.Service{
		Repo:     app.GradingsRepo,
		Rubrics:  app.RubricRepo,
		Videos:   app.VideosRepo,
		Store:    app.Store,
		Analyzer: analyzer.NewHTTPClient(app.Config.AnalyzerBaseURL, app.Config.AnalyzerTimeout),
		Reports:  app.ReportsService,
		Queue:    app.Queue,
		Matcher:  reconcile.BidirectionalSubstring{},
		Policy: grading.PollPolicy{
			ProgressWait: app.Config.PollProgressWait,
			FailureWait:  app.Config.PollFailureWait,
			MaxFailures:  app.Config.PollMaxFailures,
		},
	}
	app.GradingProcessor = app.GradingService

	app.RubricHandler = rubric.NewHandler(app.RubricService)
	app.VideosHandler = videos.NewHandler(app.VideosService)
	app.ReportsHandler = reports.NewHandler(app.ReportsService)
	app.GradingHandler = grading.NewHandler(app.GradingService)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
