package routes

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"campus-collective/agora/internal/api"
	"campus-collective/agora/internal/db"
	"campus-collective/agora/internal/jobs"
	"campus-collective/agora/internal/logging"
	"campus-collective/agora/internal/metrics"
	"campus-collective/agora/internal/middleware"
	"campus-collective/agora/internal/workers"
)

// RegisterRoutes builds the API router and starts the background jobs and
// queue consumers. ctx stops them on shutdown.
func RegisterRoutes(ctx context.Context, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// Initialize metrics registry
	metricsReg := metrics.NewMetricsRegistry()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.MetricsMiddleware(metricsReg))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-API-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	// Rate limiting sits behind CORS so preflights never burn budget
	r.Use(middleware.RateLimitMiddleware)

	logging.Info("Router initialized with metrics and logging middleware")

	// Initialize dependencies using DI pattern
	deps, err := api.InitDependencies(metricsReg)
	if err != nil {
		panic("Failed to initialize dependencies: " + err.Error())
	}

	// Initialize handlers with dependencies
	handlers := api.NewHandlers(deps)

	// health check
	r.Get("/healthcheck", api.HealthCheckHandler(db.DB, deps.Redis, upSince))

	// uploaded event images
	imageDir := os.Getenv("IMAGE_STORE_DIR")
	if imageDir == "" {
		imageDir = "./data/images"
	}
	r.Handle("/static/images/*", http.StripPrefix("/static/images/", http.FileServer(http.Dir(imageDir))))

	// Setup scheduled jobs and queue consumers
	expiryJob := jobs.InitializeJobs(ctx, deps.Repo.Events, metricsReg)
	workers.InitWorkers(ctx, deps.Services.Queue, deps.Repo.Ledger, metricsReg)

	// Initialize jobs handler for manual triggering
	jobsHandler := api.NewJobsHandler(expiryJob, deps.Services.Queue)

	// Register API routes (after jobsHandler is initialized)
	RegisterAPIRoutes(r, deps, handlers, jobsHandler)

	return r
}
