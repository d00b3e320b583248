package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"hirevet/internal/jobs"
	"hirevet/pkg/models"
	"hirevet/pkg/utils"
)

// AnalysisStatusHandler handles GET /analysis-status/:job_id. Terminal jobs
// return the same snapshot on every poll.
func AnalysisStatusHandler(manager jobs.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		jobID := c.Param("job_id")

		job, err := manager.Get(c.Request().Context(), jobID)
		if err != nil {
			if errors.Is(err, jobs.ErrJobNotFound) {
				return c.JSON(http.StatusNotFound,
					models.CreateErrorResponse("Job not found", jobID, reqID))
			}
			return errorJSON(c, reqID, err)
		}

		return c.JSON(http.StatusOK, models.CreateJobStatusResponse(job))
	}
}

// DeleteAnalysisJobHandler handles DELETE /analysis-job/:job_id. Deleting a
// running job cancels its context and removes any staged upload.
func DeleteAnalysisJobHandler(manager jobs.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		jobID := c.Param("job_id")
		logger := utils.LogWithRequestID(reqID)

		if err := manager.Delete(c.Request().Context(), jobID); err != nil {
			if errors.Is(err, jobs.ErrJobNotFound) {
				return c.JSON(http.StatusNotFound,
					models.CreateErrorResponse("Job not found", jobID, reqID))
			}
			logger.WithError(err).WithField("job_id", jobID).Error("Failed to delete job")
			return errorJSON(c, reqID, err)
		}

		logger.WithField("job_id", jobID).Info("Analysis job deleted")

		return c.JSON(http.StatusOK, models.MessageResponse{
			Message: fmt.Sprintf("Job %s deleted successfully", jobID),
		})
	}
}

// ListAnalysisJobsHandler handles GET /analysis-jobs for operational inspection
func ListAnalysisJobsHandler(manager jobs.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)

		tracked, err := manager.List(c.Request().Context())
		if err != nil {
			return errorJSON(c, reqID, err)
		}

		return c.JSON(http.StatusOK, models.CreateJobListResponse(tracked))
	}
}
