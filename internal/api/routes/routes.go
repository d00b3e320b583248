package routes

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"hirevet/internal/api/handlers"
	"hirevet/internal/api/middleware"
	"hirevet/internal/config"
	"hirevet/internal/jobs"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, runner handlers.AnalysisRunner, manager jobs.Manager) {
	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestValidation(cfg.BodyLimitBytes()))
	e.Use(middleware.RequestLogger())

	// The sync endpoint runs the full pipeline inline, so it gets the same
	// budget as a background task; everything else answers quickly.
	quick := middleware.TimeoutConfig(cfg.Server.WriteTimeout)
	long := middleware.TimeoutConfig(cfg.Jobs.TaskTimeout)

	// Analysis routes
	e.POST("/analyze-resume", handlers.AnalyzeResumeHandler(cfg, runner), long)
	e.POST("/analyze-resume-async", handlers.AnalyzeResumeAsyncHandler(cfg, runner, manager), quick)

	// Job tracking routes
	e.GET("/analysis-status/:job_id", handlers.AnalysisStatusHandler(manager), quick)
	e.GET("/analysis-jobs", handlers.ListAnalysisJobsHandler(manager), quick)
	e.DELETE("/analysis-job/:job_id", handlers.DeleteAnalysisJobHandler(manager), quick)

	// Service routes
	e.GET("/health", handlers.HealthHandler(cfg, manager), quick)
	e.GET("/", handlers.RootHandler(), quick)
}
