package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"hirevet/internal/config"
	"hirevet/internal/jobs"
	"hirevet/pkg/models"
	"hirevet/pkg/utils"
)

// Version is reported by the health and root endpoints
const Version = "1.0.0"

var startTime = time.Now()

// HealthHandler handles GET /health. Dependencies report credential and
// service presence; a missing key is surfaced here rather than enforced
// mid-pipeline.
func HealthHandler(cfg *config.Config, manager jobs.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := utils.LogWithRequestID(requestID(c))
		logger.Debug("Health check requested")

		dependencies := map[string]string{
			"llm":       credentialStatus(cfg.LLM.APIKey),
			"firecrawl": credentialStatus(cfg.Firecrawl.APIKey),
			"gitingest": "Available",
			"job_store": jobStoreStatus(manager),
		}

		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:       "healthy",
			Timestamp:    time.Now(),
			Version:      Version,
			Uptime:       time.Since(startTime),
			Dependencies: dependencies,
		})
	}
}

// RootHandler handles GET / with service information
func RootHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.ServiceInfoResponse{
			Service:     "HireVet API",
			Version:     Version,
			Description: "AI-powered resume analysis with GitHub verification",
			Status:      "running",
			Endpoints: map[string]string{
				"analyze_resume":       "/analyze-resume",
				"analyze_resume_async": "/analyze-resume-async",
				"analysis_status":      "/analysis-status/{job_id}",
				"analysis_jobs":        "/analysis-jobs",
				"delete_job":           "/analysis-job/{job_id}",
				"health":               "/health",
			},
		})
	}
}

func credentialStatus(apiKey string) string {
	if apiKey == "" {
		return "Missing API Key"
	}
	return "Available"
}

func jobStoreStatus(manager jobs.Manager) string {
	if manager == nil || !manager.IsHealthy() {
		return "Unavailable"
	}
	return "Available"
}
