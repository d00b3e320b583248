package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"hirevet/internal/config"
	"hirevet/internal/jobs"
	"hirevet/internal/pipeline"
	"hirevet/pkg/models"
	"hirevet/pkg/utils"
)

var validate = validator.New()

// AnalysisRunner executes one submission through the full analysis workflow
type AnalysisRunner interface {
	Run(ctx context.Context, req *models.AnalyzeRequest, report pipeline.ProgressFunc) (*models.AnalysisOutcome, error)
}

// requestID returns the ID injected by the request middleware, generating a
// fresh one for requests that bypassed it.
func requestID(c echo.Context) string {
	if id, ok := c.Get("request_id").(string); ok && id != "" {
		return id
	}
	return utils.GenerateRequestID()
}

// errorJSON maps an error onto the uniform envelope, honoring CustomError codes
func errorJSON(c echo.Context, requestID string, err error) error {
	if ce, ok := utils.AsCustomError(err); ok {
		return c.JSON(ce.Code, models.CreateErrorResponse(ce.Message, ce.Detail, requestID))
	}
	return c.JSON(http.StatusInternalServerError,
		models.CreateErrorResponse("Internal server error", err.Error(), requestID))
}

// parseAnalyzeForm assembles an analysis request from the multipart form and
// stages the uploaded PDF to a temp file. The caller owns the staged file.
func parseAnalyzeForm(c echo.Context) (*models.AnalyzeRequest, error) {
	fileHeader, err := c.FormFile("pdf_file")
	if err != nil {
		return nil, utils.NewValidationError("pdf_file is required")
	}

	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		return nil, utils.NewBadRequestError("Only PDF files are allowed")
	}

	var repos []string
	if err := json.Unmarshal([]byte(c.FormValue("best_project_repos")), &repos); err != nil {
		return nil, utils.NewBadRequestError("Invalid JSON format for repository URLs")
	}

	req := &models.AnalyzeRequest{
		GitHubProfileURL: c.FormValue("github_profile_url"),
		BestProjectRepos: repos,
		JobDescription:   c.FormValue("job_description"),
		CompanyName:      c.FormValue("company_name"),
		JobName:          c.FormValue("job_name"),
	}

	if err := validate.Struct(req); err != nil {
		return nil, utils.NewValidationError(err.Error())
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, utils.NewBadRequestError("Unable to read uploaded file")
	}
	defer src.Close()

	path, err := utils.SaveTempFile(src, "resume-*.pdf")
	if err != nil {
		return nil, utils.NewInternalServerError("Failed to stage uploaded file")
	}
	req.ResumePath = path

	return req, nil
}

// AnalyzeResumeHandler handles POST /analyze-resume synchronously: the
// request blocks until the full analysis finishes and returns the outcome.
func AnalyzeResumeHandler(cfg *config.Config, runner AnalysisRunner) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		logger := utils.LogWithRequestID(reqID)

		logger.Info("Analyze request received")

		req, err := parseAnalyzeForm(c)
		if err != nil {
			logger.WithError(err).Error("Rejected analyze request")
			return errorJSON(c, reqID, err)
		}
		defer utils.CleanupTempFile(req.ResumePath)

		jobID := utils.GenerateJobID()
		outcome, err := runner.Run(c.Request().Context(), req, func(progress float64, message string) {
			logger.WithFields(logrus.Fields{
				"job_id":   jobID,
				"progress": progress,
			}).Debug(message)
		})
		if err != nil {
			logger.WithError(err).Error("Analysis failed")
			return errorJSON(c, reqID, err)
		}

		logger.WithFields(logrus.Fields{
			"job_id":                 jobID,
			"matching_score":         outcome.MatchingScore,
			"verification_triggered": outcome.GitHubVerificationTriggered,
			"processing_time_s":      outcome.ProcessingTimeSeconds,
		}).Info("Analysis completed")

		return c.JSON(http.StatusOK, models.CreateAnalysisResponse(jobID, outcome))
	}
}

// AnalyzeResumeAsyncHandler handles POST /analyze-resume-async: the request
// is validated and queued, and the caller polls the status endpoint with the
// returned job ID.
func AnalyzeResumeAsyncHandler(cfg *config.Config, runner AnalysisRunner, manager jobs.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		logger := utils.LogWithRequestID(reqID)

		logger.Info("Async analyze request received")

		req, err := parseAnalyzeForm(c)
		if err != nil {
			logger.WithError(err).Error("Rejected async analyze request")
			return errorJSON(c, reqID, err)
		}

		job := models.NewAnalysisJob(utils.GenerateJobID())
		job.TempFilePath = req.ResumePath

		run := func(ctx context.Context) (*models.AnalysisOutcome, error) {
			return runner.Run(ctx, req, func(progress float64, message string) {
				manager.UpdateProgress(job.ID, progress, message)
			})
		}

		if err := manager.Enqueue(c.Request().Context(), job, run); err != nil {
			utils.CleanupTempFile(req.ResumePath)
			logger.WithError(err).Error("Failed to queue analysis job")
			return errorJSON(c, reqID, err)
		}

		logger.WithField("job_id", job.ID).Info("Analysis job queued")

		return c.JSON(http.StatusAccepted, models.CreateAsyncAnalysisResponse(job.ID))
	}
}
