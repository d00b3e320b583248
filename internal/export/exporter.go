package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"hirevet/internal/config"
	"hirevet/pkg/models"
	"hirevet/pkg/utils"
)

// Sentinel errors to allow precise mapping in callers
var (
	ErrEncode = errors.New("encode_error")
	ErrWrite  = errors.New("write_error")
)

// WriteAnalysis persists a completed job's outcome to the configured output
// directory: analysis_<jobid>.json with the full results and
// analysis_<jobid>_summary.txt with a human-readable overview.
// Returns the paths written.
func WriteAnalysis(cfg *config.Config, job *models.AnalysisJob) (resultsPath, summaryPath string, err error) {
	logger := utils.GetLogger()

	if job.Results == nil {
		return "", "", fmt.Errorf("%w: job %s has no results", ErrEncode, job.ID)
	}

	if err := os.MkdirAll(cfg.Export.OutputDir, 0o755); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrWrite, err)
	}

	data, err := json.MarshalIndent(job.Results, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrEncode, err)
	}

	resultsPath = filepath.Join(cfg.Export.OutputDir, fmt.Sprintf("analysis_%s.json", job.ID))
	if err := os.WriteFile(resultsPath, data, 0o644); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrWrite, err)
	}

	summaryPath = filepath.Join(cfg.Export.OutputDir, fmt.Sprintf("analysis_%s_summary.txt", job.ID))
	if err := os.WriteFile(summaryPath, []byte(RenderSummary(job.Results)), 0o644); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrWrite, err)
	}

	logger.WithFields(logrus.Fields{
		"job_id":  job.ID,
		"results": resultsPath,
		"summary": summaryPath,
	}).Info("Analysis results exported")

	return resultsPath, summaryPath, nil
}

// RenderSummary builds the plain-text overview of a finished analysis
func RenderSummary(outcome *models.AnalysisOutcome) string {
	var b strings.Builder

	b.WriteString("RESUME ANALYSIS SUMMARY\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	fmt.Fprintf(&b, "Resume Matching Score: %s%%\n", formatScore(outcome.MatchingScore))
	if s := outcome.AnalysisSummary; s != nil {
		fmt.Fprintf(&b, "GitHub Profile: %s\n", s.GitHubProfile)
	}

	var verification *models.VerificationSection
	if outcome.Results != nil {
		verification = &outcome.Results.GitHubVerification
	}

	if outcome.GitHubVerificationTriggered && verification != nil {
		fmt.Fprintf(&b, "Specified Repositories: %d\n", verification.SpecifiedRepos)
		fmt.Fprintf(&b, "Verified Repositories: %d\n", verification.VerifiedRepos)
		fmt.Fprintf(&b, "Invalid Repositories: %d\n", verification.InvalidRepos)
		fmt.Fprintf(&b, "Repositories Analyzed: %d\n", verification.RepositoriesAnalyzed)
	}
	fmt.Fprintf(&b, "GitHub Verification Triggered: %t\n\n", outcome.GitHubVerificationTriggered)

	if outcome.GitHubVerificationTriggered && verification != nil {
		b.WriteString("GITHUB VERIFICATION RESULTS:\n")
		b.WriteString(strings.Repeat("-", 30) + "\n")
		b.WriteString(verification.VerificationReport.Text() + "\n")
	} else {
		b.WriteString("GITHUB VERIFICATION SKIPPED:\n")
		b.WriteString(strings.Repeat("-", 30) + "\n")
		reason := ""
		if verification != nil {
			reason = verification.Reason
		}
		fmt.Fprintf(&b, "Reason: %s\n", reason)
	}

	return b.String()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
