package models

import "time"

// AnalysisResponse is returned by the synchronous analyze endpoint
type AnalysisResponse struct {
	Success                     bool             `json:"success"`
	JobID                       string           `json:"job_id"`
	MatchingScore               float64          `json:"matching_score"`
	GitHubVerificationTriggered bool             `json:"github_verification_triggered"`
	Results                     *AnalysisResults `json:"results"`
	AnalysisSummary             *AnalysisSummary `json:"analysis_summary"`
	ProcessingTimeSeconds       float64          `json:"processing_time_seconds"`
	Timestamp                   time.Time        `json:"timestamp"`
}

// CreateAnalysisResponse assembles the sync response from a finished outcome
func CreateAnalysisResponse(jobID string, outcome *AnalysisOutcome) *AnalysisResponse {
	return &AnalysisResponse{
		Success:                     true,
		JobID:                       jobID,
		MatchingScore:               outcome.MatchingScore,
		GitHubVerificationTriggered: outcome.GitHubVerificationTriggered,
		Results:                     outcome.Results,
		AnalysisSummary:             outcome.AnalysisSummary,
		ProcessingTimeSeconds:       outcome.ProcessingTimeSeconds,
		Timestamp:                   time.Now(),
	}
}

// JobStatusResponse reports the live state of a tracked job
type JobStatusResponse struct {
	JobID     string           `json:"job_id"`
	Status    JobStatus        `json:"status"`
	Progress  float64          `json:"progress"`
	Message   string           `json:"message"`
	Results   *AnalysisOutcome `json:"results,omitempty"`
	Error     string           `json:"error,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// CreateJobStatusResponse projects a job onto the status payload
func CreateJobStatusResponse(job *AnalysisJob) *JobStatusResponse {
	return &JobStatusResponse{
		JobID:     job.ID,
		Status:    job.Status,
		Progress:  job.Progress,
		Message:   job.Message,
		Results:   job.Results,
		Error:     job.Error,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
	Version      string            `json:"version"`
	Uptime       time.Duration     `json:"uptime"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// ServiceInfoResponse describes the API surface at the root endpoint
type ServiceInfoResponse struct {
	Service     string            `json:"service"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	Endpoints   map[string]string `json:"endpoints"`
}

// ErrorResponse is the uniform error envelope
type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
	Detail    string    `json:"detail,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// CreateErrorResponse builds the envelope with the current timestamp
func CreateErrorResponse(message, detail, requestID string) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     message,
		Detail:    detail,
		RequestID: requestID,
		Timestamp: time.Now(),
	}
}

// MessageResponse wraps a bare informational message
type MessageResponse struct {
	Message string `json:"message"`
}
