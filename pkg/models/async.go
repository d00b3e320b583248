package models

import (
	"time"
)

// AsyncAnalysisResponse is the immediate acknowledgement from the async
// analyze endpoint. The job itself is tracked via the status endpoint.
type AsyncAnalysisResponse struct {
	Success   bool      `json:"success"`
	JobID     string    `json:"job_id"`
	Message   string    `json:"message"`
	Status    JobStatus `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// CreateAsyncAnalysisResponse acknowledges a freshly queued job
func CreateAsyncAnalysisResponse(jobID string) *AsyncAnalysisResponse {
	return &AsyncAnalysisResponse{
		Success:   true,
		JobID:     jobID,
		Message:   "Analysis job started successfully",
		Status:    JobStatusPending,
		Timestamp: time.Now(),
	}
}

// JobListResponse lists tracked jobs for operational inspection
type JobListResponse struct {
	Success bool                 `json:"success"`
	Jobs    []*JobStatusResponse `json:"jobs"`
	Count   int                  `json:"count"`
}

// CreateJobListResponse projects tracked jobs onto the list payload
func CreateJobListResponse(jobs []*AnalysisJob) *JobListResponse {
	statuses := make([]*JobStatusResponse, 0, len(jobs))
	for _, job := range jobs {
		statuses = append(statuses, CreateJobStatusResponse(job))
	}
	return &JobListResponse{
		Success: true,
		Jobs:    statuses,
		Count:   len(statuses),
	}
}
