package main

import (
	"context"
	"encoding/json"
	"fmt"

	"hirevet/internal/config"
	"hirevet/internal/extract"
	"hirevet/internal/pdftext"
	"hirevet/internal/scan"
	"hirevet/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	discoverConfigPath string
	discoverProfileURL string
	discoverPDFPath    string
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover a profile's repositories and match them against a resume",
	Long: `Lists the repositories found on a GitHub profile via the extraction
service. With --pdf, also reports which of them line up with projects the
resume describes, using the same keyword heuristic the matcher applies.`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVar(&discoverConfigPath, "config", "configs/config.yaml", "path to the config file")
	discoverCmd.Flags().StringVar(&discoverProfileURL, "github-profile", "", "candidate GitHub profile URL (required)")
	discoverCmd.Flags().StringVar(&discoverPDFPath, "pdf", "", "resume PDF to match discovered repositories against")

	_ = discoverCmd.MarkFlagRequired("github-profile")

	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(discoverConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	utils.InitLogger(cfg.Logging.Level, cfg.Logging.Format)

	username, err := utils.ExtractGitHubUsername(discoverProfileURL)
	if err != nil {
		return err
	}

	client := extract.NewClient(cfg)
	discovery, err := client.GetRepositories(context.Background(), username)
	if err != nil {
		return err
	}

	out := struct {
		Username     string   `json:"username"`
		ProfileURL   string   `json:"profile_url"`
		Repositories []string `json:"repositories"`
		Matched      []string `json:"matched_repositories,omitempty"`
	}{
		Username:     discovery.Username,
		ProfileURL:   discovery.URL,
		Repositories: discovery.RepositoryURLs,
	}

	if discoverPDFPath != "" {
		resumeText, err := pdftext.NewExtractor().ExtractFile(discoverPDFPath)
		if err != nil {
			return fmt.Errorf("failed to extract text from PDF: %w", err)
		}
		out.Matched = scan.MatchProjects(resumeText, discovery.RepositoryURLs)
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}
