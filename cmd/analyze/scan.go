package main

import (
	"fmt"
	"os"

	"hirevet/internal/pdftext"
	"hirevet/internal/scan"

	"github.com/spf13/cobra"
)

var (
	scanPDFPath  string
	scanTextPath string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List the GitHub references a resume document yields",
	Long: `Extracts text from a resume and prints every GitHub profile or
repository URL the reference scanner finds, one per line. Runs entirely
offline; useful for checking what a resume layout actually yields before
submitting it for analysis.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanPDFPath, "pdf", "", "path to the resume PDF")
	scanCmd.Flags().StringVar(&scanTextPath, "text", "", "path to a plain-text resume (skips PDF extraction)")

	rootCmd.AddCommand(scanCmd)
}

func runScan(_ *cobra.Command, _ []string) error {
	if (scanPDFPath == "") == (scanTextPath == "") {
		return fmt.Errorf("exactly one of --pdf or --text is required")
	}

	var resumeText string
	if scanPDFPath != "" {
		text, err := pdftext.NewExtractor().ExtractFile(scanPDFPath)
		if err != nil {
			return fmt.Errorf("failed to extract text from PDF: %w", err)
		}
		resumeText = text
	} else {
		data, err := os.ReadFile(scanTextPath)
		if err != nil {
			return fmt.Errorf("failed to read resume text: %w", err)
		}
		resumeText = string(data)
	}

	urls := scan.ExtractGitHubURLs(resumeText)
	if len(urls) == 0 {
		fmt.Println("No GitHub references found.")
		return nil
	}
	for _, url := range urls {
		fmt.Println(url)
	}
	return nil
}
