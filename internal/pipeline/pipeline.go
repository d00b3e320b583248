// Package pipeline orchestrates the full analysis workflow: resume text
// extraction, ownership reconciliation, the resume analysis crew, the score
// gate, and the GitHub verification crew with its supporting extractions.
package pipeline

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"hirevet/internal/config"
	"hirevet/internal/crew"
	"hirevet/internal/scan"
	"hirevet/pkg/models"
	"hirevet/pkg/utils"
)

// ProgressFunc receives workflow checkpoints. Callers that do not track
// progress (the synchronous endpoint, the CLI) pass nil.
type ProgressFunc func(progress float64, message string)

// TextExtractor yields the plain text of a staged resume PDF
type TextExtractor interface {
	ExtractFile(path string) (string, error)
}

// ProfileExtractor fetches GitHub profile activity for the verification crew
type ProfileExtractor interface {
	GetProfileActivity(ctx context.Context, username string) *models.ProfileActivity
}

// RepositoryFetcher ingests repository content for the verification crew
type RepositoryFetcher interface {
	FetchAll(ctx context.Context, repoURLs []string) []*models.RepositoryContent
}

// Pipeline runs one analysis submission end to end
type Pipeline struct {
	config    *config.Config
	completer crew.Completer
	pdf       TextExtractor
	profiles  ProfileExtractor
	repos     RepositoryFetcher
	logger    *logrus.Logger
}

// New assembles the pipeline from its collaborators
func New(cfg *config.Config, completer crew.Completer, pdf TextExtractor, profiles ProfileExtractor, repos RepositoryFetcher) *Pipeline {
	return &Pipeline{
		config:    cfg,
		completer: completer,
		pdf:       pdf,
		profiles:  profiles,
		repos:     repos,
		logger:    utils.GetLogger(),
	}
}

// Run executes the analysis workflow for one submission. Verification only
// runs when the matching score strictly clears the configured threshold; a
// nil threshold disables the gate so every submission is verified.
func (p *Pipeline) Run(ctx context.Context, req *models.AnalyzeRequest, report ProgressFunc) (*models.AnalysisOutcome, error) {
	startTime := time.Now()
	progress := func(v float64, msg string) {
		if report != nil {
			report(v, msg)
		}
	}

	progress(0.1, "Initializing processors...")

	progress(0.2, "Extracting text from PDF...")
	resumeText, err := p.pdf.ExtractFile(req.ResumePath)
	if err != nil {
		return nil, utils.NewParseFailureError("Failed to extract text from PDF: " + err.Error())
	}
	if strings.TrimSpace(resumeText) == "" {
		return nil, utils.NewParseFailureError("Failed to extract text from PDF")
	}

	progress(0.3, "Verifying repository ownership...")
	username, err := utils.ExtractGitHubUsername(req.GitHubProfileURL)
	if err != nil {
		return nil, utils.NewValidationError("invalid GitHub profile URL: " + err.Error())
	}
	ownership := scan.ReconcileOwnership(req.BestProjectRepos, username)

	progress(0.4, "Running resume analysis crew...")
	resumeCrew, resumeTasks := crew.NewResumeAnalysisCrew(p.completer, resumeText, req.JobDescription, []string{req.GitHubProfileURL})
	if _, err := resumeCrew.Kickoff(ctx); err != nil {
		return nil, err
	}

	matchingScore := crew.ExtractMatchingScore(resumeTasks.JobMatch.Output())
	triggered, gateReason := p.gate(matchingScore)

	p.logger.WithFields(logrus.Fields{
		"github_username": username,
		"matching_score":  matchingScore,
		"verify":          triggered,
		"verified_repos":  len(ownership.Verified),
		"invalid_repos":   len(ownership.Invalid),
	}).Info("Resume analysis crew finished")

	results := &models.AnalysisResults{
		ResumeAnalysis: models.ResumeAnalysisSection{
			MatchingScore:    matchingScore,
			PDFParsing:       resumeTasks.Parsing.Output(),
			ResumeAnalysis:   resumeTasks.Analysis.Output(),
			JobMatching:      resumeTasks.JobMatch.Output(),
			GitHubExtraction: resumeTasks.Extraction.Output(),
		},
	}

	if triggered {
		section, err := p.runVerification(ctx, username, resumeText, matchingScore, ownership, len(req.BestProjectRepos), progress)
		if err != nil {
			return nil, err
		}
		results.GitHubVerification = *section
	} else {
		results.GitHubVerification = models.VerificationSection{
			Triggered: false,
			Reason:    gateReason,
		}
	}

	progress(0.9, "Finalizing results...")

	repositoriesAnalyzed := 0
	if triggered {
		repositoriesAnalyzed = len(ownership.Verified)
	}
	elapsed := time.Since(startTime).Seconds()

	outcome := &models.AnalysisOutcome{
		MatchingScore:               matchingScore,
		GitHubVerificationTriggered: triggered,
		Results:                     results,
		AnalysisSummary: &models.AnalysisSummary{
			MatchingScore:               matchingScore,
			GitHubProfile:               req.GitHubProfileURL,
			SpecifiedRepos:              len(req.BestProjectRepos),
			VerifiedRepos:               len(ownership.Verified),
			InvalidRepos:                len(ownership.Invalid),
			RepositoriesAnalyzed:        repositoriesAnalyzed,
			GitHubVerificationTriggered: triggered,
			ProcessingTimeSeconds:       elapsed,
		},
		ProcessingTimeSeconds: elapsed,
	}
	return outcome, nil
}

// runVerification gathers GitHub evidence and runs the verification crew.
// The profile is always inspected; repository content only exists for repos
// the candidate actually owns.
func (p *Pipeline) runVerification(ctx context.Context, username, resumeText string, matchingScore float64, ownership scan.Ownership, specified int, progress ProgressFunc) (*models.VerificationSection, error) {
	progress(0.6, "Running GitHub verification...")

	data := &crew.VerificationData{
		SpecifiedRepos: specified,
		InvalidRepos:   len(ownership.Invalid),
	}

	if len(ownership.Verified) > 0 {
		data.ProfileActivity = p.profiles.GetProfileActivity(ctx, username)

		progress(0.7, "Analyzing repositories with Gitingest...")
		data.Content = p.repos.FetchAll(ctx, ownership.Verified)
		data.RepositoryCount = len(ownership.Verified)
		data.VerifiedRepos = len(ownership.Verified)
	} else {
		data.ProfileActivity = p.profiles.GetProfileActivity(ctx, username)
		data.Content = []*models.RepositoryContent{}
		data.Reason = "No verified repositories provided"
	}

	progress(0.8, "Running GitHub verification crew...")

	section := &models.VerificationSection{
		Triggered:            true,
		SpecifiedRepos:       data.SpecifiedRepos,
		VerifiedRepos:        data.VerifiedRepos,
		InvalidRepos:         data.InvalidRepos,
		RepositoriesAnalyzed: data.RepositoryCount,
		RepositoryContent:    data.Content,
		ProfileActivity:      data.ProfileActivity,
	}

	if !data.HasAnalyzableData() {
		section.ProjectMatching = models.SkippedStage(models.NoVerificationDataPlaceholder)
		section.AuthenticityAnalysis = models.SkippedStage(models.NoVerificationDataPlaceholder)
		section.CredibilityScoring = models.SkippedStage(models.NoVerificationDataPlaceholder)
		section.VerificationReport = models.SkippedStage(models.NoVerificationDataPlaceholder)
		return section, nil
	}

	githubCrew, githubTasks := crew.NewVerificationCrew(p.completer, data, matchingScore, resumeText)
	if _, err := githubCrew.Kickoff(ctx); err != nil {
		return nil, err
	}

	section.ProjectMatching = models.RanStage(githubTasks.ProjectMatching.Output())
	section.AuthenticityAnalysis = models.RanStage(githubTasks.Authenticity.Output())
	section.CredibilityScoring = models.RanStage(githubTasks.Credibility.Output())
	section.VerificationReport = models.RanStage(githubTasks.Report.Output())
	return section, nil
}

// gate applies the verification threshold to a matching score
func (p *Pipeline) gate(score float64) (triggered bool, reason string) {
	threshold := p.config.Verification.Threshold
	if threshold == nil {
		return true, ""
	}
	if score > *threshold {
		return true, ""
	}
	return false, "Matching score " + formatPercent(score) + "% below threshold of " + formatPercent(*threshold) + "%"
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
