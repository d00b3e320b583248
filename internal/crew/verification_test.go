package crew

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hirevet/pkg/models"
)

func TestVerificationCrewPrompts(t *testing.T) {
	stub := &stubCompleter{outputs: []string{
		"matching report",
		"authenticity: GENUINE",
		"Credibility score: 82/100",
		"final hiring report",
	}}

	data := &VerificationData{
		ProfileActivity: &models.ProfileActivity{
			Type:     "profile_activity",
			Username: "janedoe",
		},
		Content: []*models.RepositoryContent{
			{
				Type:             "repository_content",
				URL:              "https://github.com/janedoe/flow-engine",
				Summary:          "Repository: janedoe/flow-engine",
				FileTree:         "README.md\nmain.go",
				Content:          "package main",
				ContentSize:      12,
				ExtractionStatus: models.ExtractionStatusSuccess,
			},
		},
		RepositoryCount: 1,
		SpecifiedRepos:  2,
		VerifiedRepos:   1,
		InvalidRepos:    1,
	}

	resumeText := "Jane Doe built flow-engine."
	c, tasks := NewVerificationCrew(stub, data, 78.5, resumeText)
	final, err := c.Kickoff(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "final hiring report", final)

	require.Len(t, stub.requests, 4)

	// Stage 1 embeds resume text and the repository content as JSON
	matchPrompt := stub.requests[0].Prompt
	assert.Contains(t, matchPrompt, resumeText)
	assert.Contains(t, matchPrompt, `"url": "https://github.com/janedoe/flow-engine"`)
	assert.Contains(t, matchPrompt, `"extraction_status": "success"`)
	assert.Contains(t, stub.requests[0].System, "Firecrawl GitHub Research Specialist")

	// Stage 2 carries the classification bands and stage 1 output
	authPrompt := stub.requests[1].Prompt
	assert.Contains(t, authPrompt, "GENUINE: Clear evidence of authentic development work")
	assert.Contains(t, authPrompt, "QUESTIONABLE: Some concerns but could be legitimate")
	assert.Contains(t, authPrompt, "FAKE: Strong evidence of copied/fabricated work")
	assert.Contains(t, authPrompt, "matching report")

	// Stage 3 carries the weighted rubric
	scorePrompt := stub.requests[2].Prompt
	assert.Contains(t, scorePrompt, "Project-Resume Alignment (30 points)")
	assert.Contains(t, scorePrompt, "Code Authenticity (30 points)")
	assert.Contains(t, scorePrompt, "Technical Competency Match (25 points)")
	assert.Contains(t, scorePrompt, "Development Professionalism (15 points)")
	assert.Contains(t, scorePrompt, "80-100: HIGHLY CREDIBLE candidate")
	assert.Contains(t, scorePrompt, "authenticity: GENUINE")

	// Stage 4 embeds the matching score and the recommendation scale
	reportPrompt := stub.requests[3].Prompt
	assert.Contains(t, reportPrompt, "MATCHING SCORE: 78.5%")
	assert.Contains(t, reportPrompt, "HIRE: Strong evidence of genuine skills")
	assert.Contains(t, reportPrompt, "INVESTIGATE: Mixed signals, requires interview focus")
	assert.Contains(t, reportPrompt, "REJECT: Clear evidence of misrepresentation")
	assert.Contains(t, reportPrompt, "Credibility score: 82/100")

	assert.Equal(t, "final hiring report", tasks.Report.Output())
}

func TestVerificationCrewEmptyMetadataRendersArray(t *testing.T) {
	stub := &stubCompleter{}

	data := &VerificationData{
		Content:         nil,
		RepositoryCount: 0,
		ProfileActivity: &models.ProfileActivity{Username: "janedoe"},
	}

	c, _ := NewVerificationCrew(stub, data, 70, "resume")
	_, err := c.Kickoff(context.Background())
	require.NoError(t, err)

	prompt := stub.requests[0].Prompt
	assert.Contains(t, prompt, "GITHUB METADATA:\n[]")
	assert.Contains(t, prompt, "DETAILED REPOSITORY CONTENT (from Gitingest):\n[]")
}

func TestHasAnalyzableData(t *testing.T) {
	assert.False(t, (&VerificationData{}).HasAnalyzableData())
	assert.False(t, (*VerificationData)(nil).HasAnalyzableData())

	withRepos := &VerificationData{RepositoryCount: 2}
	assert.True(t, withRepos.HasAnalyzableData())

	// Even a failed profile extraction counts; its error feeds the report
	withProfile := &VerificationData{
		ProfileActivity: &models.ProfileActivity{Username: "x", Error: "Failed to extract profile activity for x"},
	}
	assert.True(t, withProfile.HasAnalyzableData())
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "80", formatScore(80))
	assert.Equal(t, "78.5", formatScore(78.5))
	assert.Equal(t, "0", formatScore(0))
}
