package models

import (
	"time"
)

// JobStatus represents the lifecycle state of an analysis job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// NoVerificationDataPlaceholder substitutes stage output when the verification
// crew has neither repositories nor profile data to work with.
const NoVerificationDataPlaceholder = "No repositories or profile data to analyze"

// AnalysisJob tracks one resume analysis through the pipeline.
// Entries are mutated only by the pipeline executing the job.
type AnalysisJob struct {
	ID           string           `json:"job_id"`
	Status       JobStatus        `json:"status"`
	Progress     float64          `json:"progress"`
	Message      string           `json:"message"`
	Results      *AnalysisOutcome `json:"results,omitempty"`
	Error        string           `json:"error,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	TempFilePath string           `json:"temp_file_path,omitempty"`
}

// NewAnalysisJob creates a queued job in the pending state
func NewAnalysisJob(id string) *AnalysisJob {
	now := time.Now()
	return &AnalysisJob{
		ID:        id,
		Status:    JobStatusPending,
		Progress:  0.0,
		Message:   "Job queued for processing",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsTerminal reports whether the job reached a final state
func (j *AnalysisJob) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// StageResult is the tagged outcome of a single crew stage.
// A stage either ran and produced output or was skipped with a reason.
type StageResult struct {
	Output  string `json:"output,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// RanStage wraps a produced stage output
func RanStage(output string) *StageResult {
	return &StageResult{Output: output}
}

// SkippedStage marks a stage that never ran
func SkippedStage(reason string) *StageResult {
	return &StageResult{Skipped: true, Reason: reason}
}

// Text renders the stage output, substituting the uniform placeholder for
// skipped stages so aggregation always has a printable value.
func (s *StageResult) Text() string {
	if s == nil {
		return ""
	}
	if s.Skipped {
		return NoVerificationDataPlaceholder
	}
	return s.Output
}

// RepositoryContent holds the ingested content of one repository.
// Immutable after creation; the content cap is enforced at creation time.
type RepositoryContent struct {
	Type             string `json:"type"`
	URL              string `json:"url"`
	Summary          string `json:"summary,omitempty"`
	FileTree         string `json:"file_tree,omitempty"`
	Content          string `json:"content,omitempty"`
	ContentSize      int    `json:"content_size"`
	ExtractionStatus string `json:"extraction_status"`
	Error            string `json:"error,omitempty"`
}

// Repository content extraction statuses
const (
	ExtractionStatusSuccess = "success"
	ExtractionStatusFailed  = "failed"
	ExtractionStatusTimeout = "timeout"
)

// Succeeded reports whether content was actually extracted.
// Callers must check this before touching Content.
func (rc *RepositoryContent) Succeeded() bool {
	return rc.ExtractionStatus == ExtractionStatusSuccess
}

// ProfileActivity carries extracted GitHub profile data
type ProfileActivity struct {
	Type             string      `json:"type"`
	Username         string      `json:"username"`
	ProfileURL       string      `json:"profile_url"`
	ActivityData     interface{} `json:"activity_data,omitempty"`
	ExtractionMethod string      `json:"extraction_method,omitempty"`
	Error            string      `json:"error,omitempty"`
}

// HasData reports whether the profile extraction produced anything usable
func (p *ProfileActivity) HasData() bool {
	return p != nil && p.Error == "" && p.ActivityData != nil
}

// RepositoryDiscovery lists the repositories found on a user's profile page
type RepositoryDiscovery struct {
	Type             string      `json:"type"`
	URL              string      `json:"url"`
	Username         string      `json:"username"`
	RepositoryURLs   []string    `json:"repository_urls"`
	ExtractionMethod string      `json:"extraction_method"`
	RawData          interface{} `json:"raw_data,omitempty"`
}

// ResumeAnalysisSection aggregates the first crew's artifacts
type ResumeAnalysisSection struct {
	MatchingScore    float64 `json:"matching_score"`
	PDFParsing       string  `json:"pdf_parsing"`
	ResumeAnalysis   string  `json:"resume_analysis"`
	JobMatching      string  `json:"job_matching"`
	GitHubExtraction string  `json:"github_extraction"`
}

// VerificationSection aggregates the second crew's artifacts.
// Stage fields are nil when the score gate never triggered verification.
type VerificationSection struct {
	Triggered            bool                 `json:"triggered"`
	Reason               string               `json:"reason,omitempty"`
	SpecifiedRepos       int                  `json:"specified_repos"`
	VerifiedRepos        int                  `json:"verified_repos"`
	InvalidRepos         int                  `json:"invalid_repos"`
	RepositoriesAnalyzed int                  `json:"repositories_analyzed"`
	RepositoryContent    []*RepositoryContent `json:"repository_content,omitempty"`
	ProfileActivity      *ProfileActivity     `json:"profile_activity,omitempty"`
	ProjectMatching      *StageResult         `json:"project_matching,omitempty"`
	AuthenticityAnalysis *StageResult         `json:"authenticity_analysis,omitempty"`
	CredibilityScoring   *StageResult         `json:"credibility_scoring,omitempty"`
	VerificationReport   *StageResult         `json:"verification_report,omitempty"`
}

// AnalysisResults is the full report of both pipeline phases
type AnalysisResults struct {
	ResumeAnalysis     ResumeAnalysisSection `json:"resume_analysis"`
	GitHubVerification VerificationSection   `json:"github_verification"`
}

// AnalysisSummary is the condensed overview attached to responses and exports
type AnalysisSummary struct {
	MatchingScore               float64 `json:"matching_score"`
	GitHubProfile               string  `json:"github_profile"`
	SpecifiedRepos              int     `json:"specified_repos"`
	VerifiedRepos               int     `json:"verified_repos"`
	InvalidRepos                int     `json:"invalid_repos"`
	RepositoriesAnalyzed        int     `json:"repositories_analyzed"`
	GitHubVerificationTriggered bool    `json:"github_verification_triggered"`
	ProcessingTimeSeconds       float64 `json:"processing_time_seconds"`
}

// AnalysisOutcome is the terminal payload stored on a completed job
type AnalysisOutcome struct {
	MatchingScore               float64          `json:"matching_score"`
	GitHubVerificationTriggered bool             `json:"github_verification_triggered"`
	Results                     *AnalysisResults `json:"results"`
	AnalysisSummary             *AnalysisSummary `json:"analysis_summary"`
	ProcessingTimeSeconds       float64          `json:"processing_time_seconds"`
}
