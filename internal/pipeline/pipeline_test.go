package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hirevet/internal/config"
	"hirevet/pkg/models"
	"hirevet/pkg/utils"
)

const resumeFixture = "Jane Doe. Built flow-engine, a Go workflow runtime. github.com/janedoe"

// scriptedCompleter returns canned outputs in call order
type scriptedCompleter struct {
	requests []models.CompletionRequest
	outputs  []string
	err      error
}

func (s *scriptedCompleter) Complete(ctx context.Context, req models.CompletionRequest) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.requests = append(s.requests, req)
	if len(s.requests) <= len(s.outputs) {
		return s.outputs[len(s.requests)-1], nil
	}
	return fmt.Sprintf("output %d", len(s.requests)), nil
}

type fakePDF struct {
	text string
	err  error
}

func (f *fakePDF) ExtractFile(path string) (string, error) {
	return f.text, f.err
}

type fakeProfiles struct {
	calls     []string
	returnNil bool
}

func (f *fakeProfiles) GetProfileActivity(ctx context.Context, username string) *models.ProfileActivity {
	f.calls = append(f.calls, username)
	if f.returnNil {
		return nil
	}
	return &models.ProfileActivity{
		Type:       "profile_activity",
		Username:   username,
		ProfileURL: "https://github.com/" + username,
	}
}

type fakeRepos struct {
	calls [][]string
}

func (f *fakeRepos) FetchAll(ctx context.Context, repoURLs []string) []*models.RepositoryContent {
	f.calls = append(f.calls, repoURLs)
	contents := make([]*models.RepositoryContent, len(repoURLs))
	for i, repoURL := range repoURLs {
		contents[i] = &models.RepositoryContent{
			Type:             "repository_content",
			URL:              repoURL,
			Content:          "package main",
			ContentSize:      12,
			ExtractionStatus: models.ExtractionStatusSuccess,
		}
	}
	return contents
}

type checkpoint struct {
	progress float64
	message  string
}

type progressRecorder struct {
	checkpoints []checkpoint
}

func (r *progressRecorder) record(progress float64, message string) {
	r.checkpoints = append(r.checkpoints, checkpoint{progress, message})
}

func analyzeRequest() *models.AnalyzeRequest {
	return &models.AnalyzeRequest{
		GitHubProfileURL: "https://github.com/janedoe",
		BestProjectRepos: []string{
			"https://github.com/janedoe/flow-engine",
			"https://github.com/someoneelse/borrowed-repo",
		},
		JobDescription: "Senior Go engineer building distributed systems",
		CompanyName:    "Acme",
		JobName:        "Backend Engineer",
		ResumePath:     "/tmp/resume.pdf",
	}
}

func testPipeline(t *testing.T, completer *scriptedCompleter, mutate func(cfg *config.Config)) (*Pipeline, *fakeProfiles, *fakeRepos) {
	t.Helper()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	if mutate != nil {
		mutate(cfg)
	}

	profiles := &fakeProfiles{}
	repos := &fakeRepos{}
	p := New(cfg, completer, &fakePDF{text: resumeFixture}, profiles, repos)
	return p, profiles, repos
}

func fullWorkflowOutputs(score string) []string {
	return []string{
		"parsed resume content",
		"structured candidate analysis",
		"Overall matching score: " + score + " based on skills and experience",
		"Extracted GitHub URLs: https://github.com/janedoe",
		"project matching findings",
		"authenticity assessment: GENUINE",
		"Credibility score: 82/100",
		"final verification report",
	}
}

func TestRunFullWorkflowAboveThreshold(t *testing.T) {
	completer := &scriptedCompleter{outputs: fullWorkflowOutputs("78.5%")}
	p, profiles, repos := testPipeline(t, completer, nil)
	recorder := &progressRecorder{}

	outcome, err := p.Run(context.Background(), analyzeRequest(), recorder.record)
	require.NoError(t, err)

	assert.Equal(t, 78.5, outcome.MatchingScore)
	assert.True(t, outcome.GitHubVerificationTriggered)
	assert.Len(t, completer.requests, 8)

	resume := outcome.Results.ResumeAnalysis
	assert.Equal(t, 78.5, resume.MatchingScore)
	assert.Equal(t, "parsed resume content", resume.PDFParsing)
	assert.Equal(t, "structured candidate analysis", resume.ResumeAnalysis)
	assert.Contains(t, resume.JobMatching, "78.5%")
	assert.Equal(t, "Extracted GitHub URLs: https://github.com/janedoe", resume.GitHubExtraction)

	verification := outcome.Results.GitHubVerification
	assert.True(t, verification.Triggered)
	assert.Empty(t, verification.Reason)
	assert.Equal(t, 2, verification.SpecifiedRepos)
	assert.Equal(t, 1, verification.VerifiedRepos)
	assert.Equal(t, 1, verification.InvalidRepos)
	assert.Equal(t, 1, verification.RepositoriesAnalyzed)
	require.Len(t, verification.RepositoryContent, 1)
	assert.Equal(t, "https://github.com/janedoe/flow-engine", verification.RepositoryContent[0].URL)
	require.NotNil(t, verification.ProfileActivity)
	assert.Equal(t, "janedoe", verification.ProfileActivity.Username)
	assert.Equal(t, "project matching findings", verification.ProjectMatching.Output)
	assert.Equal(t, "authenticity assessment: GENUINE", verification.AuthenticityAnalysis.Output)
	assert.Equal(t, "Credibility score: 82/100", verification.CredibilityScoring.Output)
	assert.Equal(t, "final verification report", verification.VerificationReport.Output)

	// Only the owned repository reaches the ingest fan-out
	assert.Equal(t, []string{"janedoe"}, profiles.calls)
	require.Len(t, repos.calls, 1)
	assert.Equal(t, []string{"https://github.com/janedoe/flow-engine"}, repos.calls[0])

	summary := outcome.AnalysisSummary
	require.NotNil(t, summary)
	assert.Equal(t, "https://github.com/janedoe", summary.GitHubProfile)
	assert.Equal(t, 2, summary.SpecifiedRepos)
	assert.Equal(t, 1, summary.VerifiedRepos)
	assert.Equal(t, 1, summary.InvalidRepos)
	assert.Equal(t, 1, summary.RepositoriesAnalyzed)
	assert.True(t, summary.GitHubVerificationTriggered)
	assert.GreaterOrEqual(t, summary.ProcessingTimeSeconds, 0.0)

	expected := []checkpoint{
		{0.1, "Initializing processors..."},
		{0.2, "Extracting text from PDF..."},
		{0.3, "Verifying repository ownership..."},
		{0.4, "Running resume analysis crew..."},
		{0.6, "Running GitHub verification..."},
		{0.7, "Analyzing repositories with Gitingest..."},
		{0.8, "Running GitHub verification crew..."},
		{0.9, "Finalizing results..."},
	}
	assert.Equal(t, expected, recorder.checkpoints)
}

func TestRunBelowThresholdSkipsVerification(t *testing.T) {
	completer := &scriptedCompleter{outputs: fullWorkflowOutputs("40%")}
	p, profiles, repos := testPipeline(t, completer, nil)
	recorder := &progressRecorder{}

	outcome, err := p.Run(context.Background(), analyzeRequest(), recorder.record)
	require.NoError(t, err)

	assert.Equal(t, 40.0, outcome.MatchingScore)
	assert.False(t, outcome.GitHubVerificationTriggered)
	assert.Len(t, completer.requests, 4)

	verification := outcome.Results.GitHubVerification
	assert.False(t, verification.Triggered)
	assert.Equal(t, "Matching score 40% below threshold of 65%", verification.Reason)
	assert.Nil(t, verification.ProjectMatching)
	assert.Nil(t, verification.VerificationReport)

	// No GitHub extraction work happens below the gate
	assert.Empty(t, profiles.calls)
	assert.Empty(t, repos.calls)

	// Ownership reconciliation still feeds the summary
	summary := outcome.AnalysisSummary
	assert.Equal(t, 1, summary.VerifiedRepos)
	assert.Equal(t, 1, summary.InvalidRepos)
	assert.Equal(t, 0, summary.RepositoriesAnalyzed)
	assert.False(t, summary.GitHubVerificationTriggered)

	expected := []checkpoint{
		{0.1, "Initializing processors..."},
		{0.2, "Extracting text from PDF..."},
		{0.3, "Verifying repository ownership..."},
		{0.4, "Running resume analysis crew..."},
		{0.9, "Finalizing results..."},
	}
	assert.Equal(t, expected, recorder.checkpoints)
}

func TestRunScoreAtThresholdNotTriggered(t *testing.T) {
	completer := &scriptedCompleter{outputs: fullWorkflowOutputs("65%")}
	p, _, _ := testPipeline(t, completer, nil)

	outcome, err := p.Run(context.Background(), analyzeRequest(), nil)
	require.NoError(t, err)

	assert.False(t, outcome.GitHubVerificationTriggered)
	assert.Equal(t, "Matching score 65% below threshold of 65%", outcome.Results.GitHubVerification.Reason)
}

func TestRunNilThresholdAlwaysVerifies(t *testing.T) {
	completer := &scriptedCompleter{outputs: fullWorkflowOutputs("10%")}
	p, _, _ := testPipeline(t, completer, func(cfg *config.Config) {
		cfg.Verification.Threshold = nil
	})

	outcome, err := p.Run(context.Background(), analyzeRequest(), nil)
	require.NoError(t, err)

	assert.True(t, outcome.GitHubVerificationTriggered)
	assert.Len(t, completer.requests, 8)
	assert.Empty(t, outcome.Results.GitHubVerification.Reason)
}

func TestRunNoVerifiedReposStillChecksProfile(t *testing.T) {
	completer := &scriptedCompleter{outputs: fullWorkflowOutputs("80%")}
	p, profiles, repos := testPipeline(t, completer, nil)
	recorder := &progressRecorder{}

	req := analyzeRequest()
	req.BestProjectRepos = []string{
		"https://github.com/otherperson/repo-one",
		"https://github.com/otherperson/repo-two",
	}

	outcome, err := p.Run(context.Background(), req, recorder.record)
	require.NoError(t, err)

	verification := outcome.Results.GitHubVerification
	assert.True(t, verification.Triggered)
	assert.Equal(t, 0, verification.VerifiedRepos)
	assert.Equal(t, 2, verification.InvalidRepos)
	assert.Equal(t, 0, verification.RepositoriesAnalyzed)
	assert.Empty(t, verification.RepositoryContent)

	// Profile evidence alone still drives the crew
	assert.Equal(t, []string{"janedoe"}, profiles.calls)
	assert.Empty(t, repos.calls)
	assert.Len(t, completer.requests, 8)
	require.NotNil(t, verification.ProjectMatching)
	assert.False(t, verification.ProjectMatching.Skipped)

	// The Gitingest checkpoint never fires without owned repositories
	for _, cp := range recorder.checkpoints {
		assert.NotEqual(t, 0.7, cp.progress)
	}
}

func TestRunWithoutAnyEvidenceSkipsCrewStages(t *testing.T) {
	completer := &scriptedCompleter{outputs: fullWorkflowOutputs("80%")}
	p, profiles, _ := testPipeline(t, completer, nil)
	profiles.returnNil = true

	req := analyzeRequest()
	req.BestProjectRepos = []string{"https://github.com/otherperson/repo-one"}

	outcome, err := p.Run(context.Background(), req, nil)
	require.NoError(t, err)

	// Resume crew only; the verification crew has nothing to analyze
	assert.Len(t, completer.requests, 4)

	verification := outcome.Results.GitHubVerification
	assert.True(t, verification.Triggered)
	require.NotNil(t, verification.ProjectMatching)
	assert.True(t, verification.ProjectMatching.Skipped)
	assert.Equal(t, models.NoVerificationDataPlaceholder, verification.ProjectMatching.Text())
	assert.True(t, verification.VerificationReport.Skipped)
}

func TestRunPDFExtractionFailure(t *testing.T) {
	completer := &scriptedCompleter{}
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	p := New(cfg, completer, &fakePDF{err: errors.New("malformed xref table")}, &fakeProfiles{}, &fakeRepos{})

	_, err = p.Run(context.Background(), analyzeRequest(), nil)
	require.Error(t, err)

	ce, ok := utils.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, ce.Code)
	assert.Contains(t, ce.Detail, "malformed xref table")
	assert.Empty(t, completer.requests)
}

func TestRunEmptyResumeText(t *testing.T) {
	completer := &scriptedCompleter{}
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	p := New(cfg, completer, &fakePDF{text: "  \n\t "}, &fakeProfiles{}, &fakeRepos{})

	_, err = p.Run(context.Background(), analyzeRequest(), nil)
	require.Error(t, err)

	ce, ok := utils.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, "Failed to extract text from PDF", ce.Detail)
}

func TestRunCrewFailurePropagates(t *testing.T) {
	completer := &scriptedCompleter{err: errors.New("model overloaded")}
	p, _, _ := testPipeline(t, completer, nil)
	recorder := &progressRecorder{}

	_, err := p.Run(context.Background(), analyzeRequest(), recorder.record)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resume_analysis")
	assert.Contains(t, err.Error(), "model overloaded")

	last := recorder.checkpoints[len(recorder.checkpoints)-1]
	assert.Equal(t, 0.4, last.progress)
}
