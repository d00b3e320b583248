package models

// AnalyzeRequest carries the multipart form fields of an analysis submission.
// The resume file itself is staged to a temp path by the handler before the
// request reaches the pipeline.
type AnalyzeRequest struct {
	GitHubProfileURL string   `json:"github_profile_url" validate:"required,url"`
	BestProjectRepos []string `json:"best_project_repos" validate:"required,min=1,max=5,dive,required,url"`
	JobDescription   string   `json:"job_description" validate:"required"`
	CompanyName      string   `json:"company_name" validate:"required"`
	JobName          string   `json:"job_name" validate:"required"`

	// ResumePath points at the staged PDF. Set by the handler, never by clients.
	ResumePath string `json:"-"`
}
