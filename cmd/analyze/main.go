package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"hirevet/internal/config"
	"hirevet/internal/export"
	"hirevet/internal/extract"
	"hirevet/internal/ingest"
	"hirevet/internal/llm"
	"hirevet/internal/pdftext"
	"hirevet/internal/pipeline"
	"hirevet/pkg/models"
	"hirevet/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	configPath  string
	pdfPath     string
	profileURL  string
	repoURLs    []string
	jobDescFile string
	jobDescText string
	companyName string
	jobTitle    string
	writeFiles  bool
)

var rootCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a one-shot resume analysis against a job posting",
	Long: `Analyzes a local resume PDF against a job description, scores the fit,
and verifies the candidate's claimed GitHub projects when the score clears
the configured threshold. Prints a plain-text summary to stdout.`,
	RunE:          runAnalysis,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "configs/config.yaml", "path to the config file")
	rootCmd.Flags().StringVar(&pdfPath, "pdf", "", "path to the resume PDF (required)")
	rootCmd.Flags().StringVar(&profileURL, "github-profile", "", "candidate GitHub profile URL (required)")
	rootCmd.Flags().StringSliceVar(&repoURLs, "repo", nil, "best project repository URL (repeat for up to 5)")
	rootCmd.Flags().StringVar(&jobDescFile, "job-description-file", "", "path to a file holding the job description")
	rootCmd.Flags().StringVar(&jobDescText, "job-description", "", "job description text (takes priority over --job-description-file)")
	rootCmd.Flags().StringVar(&companyName, "company", "", "hiring company name (required)")
	rootCmd.Flags().StringVar(&jobTitle, "job-name", "", "job title (required)")
	rootCmd.Flags().BoolVar(&writeFiles, "export", false, "write JSON results and summary to the configured output directory")

	_ = rootCmd.MarkFlagRequired("pdf")
	_ = rootCmd.MarkFlagRequired("github-profile")
	_ = rootCmd.MarkFlagRequired("company")
	_ = rootCmd.MarkFlagRequired("job-name")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAnalysis(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	utils.InitLogger(cfg.Logging.Level, cfg.Logging.Format)

	jobDescription := jobDescText
	if jobDescription == "" && jobDescFile != "" {
		data, err := os.ReadFile(jobDescFile)
		if err != nil {
			return fmt.Errorf("failed to read job description file: %w", err)
		}
		jobDescription = string(data)
	}
	if strings.TrimSpace(jobDescription) == "" {
		return fmt.Errorf("a job description is required (--job-description or --job-description-file)")
	}
	if len(repoURLs) == 0 {
		return fmt.Errorf("at least one --repo is required")
	}
	if len(repoURLs) > 5 {
		return fmt.Errorf("at most 5 repositories can be verified, got %d", len(repoURLs))
	}
	if _, err := os.Stat(pdfPath); err != nil {
		return fmt.Errorf("resume file: %w", err)
	}

	llmManager := llm.NewManager(cfg)
	if err := llmManager.Start(); err != nil {
		return fmt.Errorf("failed to start LLM manager: %w", err)
	}
	defer llmManager.Stop()

	fetcher := ingest.NewFetcher(cfg)
	defer fetcher.Stop()

	analyzer := pipeline.New(cfg, llmManager, pdftext.NewExtractor(), extract.NewClient(cfg), fetcher)

	req := &models.AnalyzeRequest{
		GitHubProfileURL: profileURL,
		BestProjectRepos: repoURLs,
		JobDescription:   jobDescription,
		CompanyName:      companyName,
		JobName:          jobTitle,
		ResumePath:       pdfPath,
	}

	outcome, err := analyzer.Run(ctx, req, func(progress float64, message string) {
		fmt.Printf("[%3.0f%%] %s\n", progress*100, message)
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(export.RenderSummary(outcome))

	if writeFiles || cfg.Export.Enabled {
		job := models.NewAnalysisJob(utils.GenerateJobID())
		job.Status = models.JobStatusCompleted
		job.Results = outcome
		resultsPath, summaryPath, err := export.WriteAnalysis(cfg, job)
		if err != nil {
			return fmt.Errorf("failed to export results: %w", err)
		}
		fmt.Printf("\nResults written to %s and %s\n", resultsPath, summaryPath)
	}

	return nil
}
