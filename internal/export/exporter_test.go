package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hirevet/internal/config"
	"hirevet/pkg/models"
)

func exportConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Export.Enabled = true
	cfg.Export.OutputDir = t.TempDir()
	return cfg
}

func verifiedOutcome() *models.AnalysisOutcome {
	return &models.AnalysisOutcome{
		MatchingScore:               78.5,
		GitHubVerificationTriggered: true,
		Results: &models.AnalysisResults{
			ResumeAnalysis: models.ResumeAnalysisSection{
				MatchingScore: 78.5,
				JobMatching:   "Strong match with 78.5% overlap",
			},
			GitHubVerification: models.VerificationSection{
				Triggered:            true,
				SpecifiedRepos:       2,
				VerifiedRepos:        1,
				InvalidRepos:         1,
				RepositoriesAnalyzed: 1,
				VerificationReport:   models.RanStage("Candidate authored the verified repository."),
			},
		},
		AnalysisSummary: &models.AnalysisSummary{
			MatchingScore: 78.5,
			GitHubProfile: "https://github.com/octocat",
		},
		ProcessingTimeSeconds: 12.4,
	}
}

func TestWriteAnalysisVerifiedJob(t *testing.T) {
	cfg := exportConfig(t)

	job := models.NewAnalysisJob("export-ok")
	job.Status = models.JobStatusCompleted
	job.Results = verifiedOutcome()

	resultsPath, summaryPath, err := WriteAnalysis(cfg, job)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Export.OutputDir, "analysis_export-ok.json"), resultsPath)
	assert.Equal(t, filepath.Join(cfg.Export.OutputDir, "analysis_export-ok_summary.txt"), summaryPath)

	// The JSON document round-trips to the original outcome
	data, err := os.ReadFile(resultsPath)
	require.NoError(t, err)
	var written models.AnalysisOutcome
	require.NoError(t, json.Unmarshal(data, &written))
	assert.Equal(t, 78.5, written.MatchingScore)
	require.NotNil(t, written.Results)
	assert.Equal(t, 78.5, written.Results.ResumeAnalysis.MatchingScore)
	assert.Equal(t, 2, written.Results.GitHubVerification.SpecifiedRepos)

	summary, err := os.ReadFile(summaryPath)
	require.NoError(t, err)
	text := string(summary)
	assert.Contains(t, text, "RESUME ANALYSIS SUMMARY")
	assert.Contains(t, text, "Resume Matching Score: 78.5%")
	assert.Contains(t, text, "GitHub Profile: https://github.com/octocat")
	assert.Contains(t, text, "Verified Repositories: 1")
	assert.Contains(t, text, "GITHUB VERIFICATION RESULTS:")
	assert.Contains(t, text, "Candidate authored the verified repository.")
	assert.NotContains(t, text, "SKIPPED")
}

func TestWriteAnalysisSkippedVerification(t *testing.T) {
	cfg := exportConfig(t)

	outcome := verifiedOutcome()
	outcome.GitHubVerificationTriggered = false
	outcome.MatchingScore = 42
	outcome.Results.GitHubVerification = models.VerificationSection{
		Triggered: false,
		Reason:    "Matching score 42% below threshold of 65%",
	}

	job := models.NewAnalysisJob("export-skip")
	job.Status = models.JobStatusCompleted
	job.Results = outcome

	_, summaryPath, err := WriteAnalysis(cfg, job)
	require.NoError(t, err)

	summary, err := os.ReadFile(summaryPath)
	require.NoError(t, err)
	text := string(summary)
	assert.Contains(t, text, "Resume Matching Score: 42%")
	assert.Contains(t, text, "GITHUB VERIFICATION SKIPPED:")
	assert.Contains(t, text, "Reason: Matching score 42% below threshold of 65%")
	assert.NotContains(t, text, "Specified Repositories")
}

func TestWriteAnalysisRequiresResults(t *testing.T) {
	cfg := exportConfig(t)

	job := models.NewAnalysisJob("no-results")
	job.Status = models.JobStatusFailed

	_, _, err := WriteAnalysis(cfg, job)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEncode)
}

func TestWriteAnalysisUnwritableDir(t *testing.T) {
	cfg := exportConfig(t)
	blocked := filepath.Join(cfg.Export.OutputDir, "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("a file, not a dir"), 0o644))
	cfg.Export.OutputDir = blocked

	job := models.NewAnalysisJob("export-fail")
	job.Status = models.JobStatusCompleted
	job.Results = verifiedOutcome()

	_, _, err := WriteAnalysis(cfg, job)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrite)
}
