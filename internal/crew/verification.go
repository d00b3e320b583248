package crew

import (
	"encoding/json"
	"strconv"

	"hirevet/pkg/models"
)

// VerificationData aggregates everything the verification crew knows about
// the candidate's GitHub presence. Metadata and Content are embedded into the
// project-matching prompt as JSON; the profile activity and counters travel
// through to the final report unprompted.
type VerificationData struct {
	ProfileActivity *models.ProfileActivity
	Metadata        []interface{}
	Content         []*models.RepositoryContent
	RepositoryCount int
	SpecifiedRepos  int
	VerifiedRepos   int
	InvalidRepos    int
	Reason          string
}

// HasAnalyzableData reports whether the crew has anything to work with:
// analyzed repositories or any profile extraction result at all (even a
// failed one carries the attempt's error for the report).
func (d *VerificationData) HasAnalyzableData() bool {
	if d == nil {
		return false
	}
	return d.RepositoryCount > 0 || d.ProfileActivity != nil
}

// VerificationTasks exposes the individual stage outputs of the verification
// crew after Kickoff
type VerificationTasks struct {
	ProjectMatching *Task
	Authenticity    *Task
	Credibility     *Task
	Report          *Task
}

// NewVerificationCrew builds the second crew: match resume projects against
// repository content, classify authenticity, score credibility on the
// weighted rubric, and write the hiring report.
func NewVerificationCrew(completer Completer, data *VerificationData, matchingScore float64, resumeText string) (*Crew, *VerificationTasks) {
	githubResearcher := &Agent{
		Role: "Firecrawl GitHub Research Specialist",
		Goal: "Provide detailed repository analysis using web-scraped data including README content, code structure, and project authenticity",
		Backstory: `You are a senior developer relations engineer with 8+ years of experience analyzing GitHub profiles
using comprehensive web-scraped data from Firecrawl and detailed repository content from Gitingest.
You understand that legitimate developers often:
- Work on personal projects with few stars (most repos have <10 stars)
- Have private company repositories not visible on GitHub
- Use different naming conventions for projects
- Work solo on personal projects (which is completely normal)
- Focus on a few quality projects rather than many mediocre ones

You excel at analyzing detailed repository content including file structures, README quality,
dependency files, and actual code to determine project authenticity. You look for ACTUAL red flags like:
copied tutorials without attribution, inconsistent coding styles, bulk uploads without development history,
or claiming work on projects they only forked/starred.`,
	}

	codeReviewer := &Agent{
		Role: "Technical Project Code Reviewer",
		Goal: "Assess project authenticity by analyzing code quality, commit patterns, and documentation depth",
		Backstory: `You are a senior software architect with 12+ years of experience in both startups and big tech.
You understand that authentic projects show:
- Consistent coding style and patterns (even if not perfect)
- Gradual feature development over time
- Meaningful commit messages and logical progression
- README files that explain the actual project purpose
- Code that matches claimed skill level in resume

You can spot FAKE projects by:
- Tutorial code passed off as original work
- Sudden large commits without development history
- Generic/template README files
- Projects way beyond claimed skill level (copying advanced work)
- Inconsistent coding styles suggesting copy-paste from multiple sources
- Missing key files that real projects would have`,
	}

	validator := &Agent{
		Role: "Project Authenticity Verification Expert",
		Goal: "Score candidate credibility based on realistic developer patterns and genuine red flags",
		Backstory: `You are a technical hiring specialist who has reviewed 1000+ developer portfolios.
You know that REAL developers often have:
- 1-5 quality personal projects (not dozens)
- Mix of learning projects and serious work
- Some incomplete or experimental repos (normal!)
- Private work repositories not shown publicly
- Projects that evolve in skill level over time

You focus on GENUINE red flags for scoring:
- Claiming credit for work they didn't do
- Inconsistent technical progression
- Projects that don't match their described experience
- Evidence of bulk-copying code without understanding

You DON'T penalize normal developer behavior like:
- Low star counts (most repos have few stars)
- Solo work (personal projects are often solo)
- Some projects missing from GitHub (could be private/work related)
- Recent account activity (everyone starts somewhere)`,
	}

	reportWriter := &Agent{
		Role: "Technical Verification Report Writer",
		Goal: "Create comprehensive verification reports with clear findings and recommendations",
		Backstory: "You are a technical documentation specialist who creates detailed verification reports " +
			"for hiring managers. You excel at summarizing complex technical findings into clear, actionable " +
			"insights for recruitment decisions.",
	}

	matchingTask := &Task{
		Name: "project_matching",
		Description: `COMPREHENSIVE PROJECT MATCHING WITH DETAILED REPOSITORY CONTENT ANALYSIS

RESUME TEXT:
` + resumeText + `

GITHUB METADATA:
` + jsonBlock(data.Metadata) + `

DETAILED REPOSITORY CONTENT (from Gitingest):
` + jsonBlock(data.Content) + `

COMPREHENSIVE ANALYSIS REQUIREMENTS:

1. PROJECT EXTRACTION FROM RESUME:
   - List ALL projects mentioned in resume with descriptions
   - Note technologies/languages mentioned for each project
   - Identify any GitHub links or repository names mentioned

2. GITHUB REPOSITORY INVENTORY WITH DETAILED CONTENT:
   - List ALL repositories found in the GitHub profile with metadata
   - For repositories with extracted content, analyze:
     * README.md content and quality
     * File structure and project organization
     * Technology stack used (package.json, requirements.txt, etc.)
     * Code quality and complexity indicators
     * Documentation completeness

3. COMPREHENSIVE PROJECT MATCHING ANALYSIS:
   - Match resume projects with GitHub repos using:
     * Repository names and descriptions
     * README content analysis
     * Technology stack verification
     * Project features listed in documentation
   - For MATCHED projects: Provide detailed verification including:
     * Quote specific README content that demonstrates project authenticity
     * Verify claimed technologies against actual package.json/requirements files
     * Analyze code structure complexity vs claimed experience level
     * Evidence of real functionality (components, modules, features)
   - For UNMATCHED resume projects: Acknowledge realistic reasons:
     * Private repositories (common for work projects)
     * University/course projects not on personal GitHub
     * Team projects under different accounts
     * Projects on other platforms or removed repositories

4. DETAILED AUTHENTICITY VERIFICATION:
   - Quote specific README sections that show project understanding
   - Analyze file structure for realistic development patterns
   - Verify technology claims against actual dependencies
   - Look for evidence of original work vs copied tutorials
   - Assess project complexity matching claimed skill level

IMPORTANT: Be realistic about project portfolios. Not every project needs to be on GitHub!`,
		ExpectedOutput: "A comprehensive project matching report with detailed repository content analysis, specific README quotes, technology verification, and realistic portfolio assessment.",
		Agent:          githubResearcher,
	}

	authenticityTask := &Task{
		Name: "authenticity_analysis",
		Description: `AUTHENTICITY ASSESSMENT BASED ON REALISTIC DEVELOPER PATTERNS

PROJECT MATCHING RESULTS: [Will be provided by the project matching task]

AUTHENTICITY ANALYSIS FRAMEWORK:

1. GENUINE DEVELOPMENT INDICATORS:
   - Consistent coding style and logical project structure
   - Gradual development history (commits over time, not bulk uploads)
   - README files that show understanding of the project
   - Code complexity that matches claimed experience level
   - Evidence of problem-solving and iterative development
   - Meaningful commit messages showing thought process

2. RED FLAGS FOR FAKE/COPIED WORK:
   - Sudden appearance of complex projects without development history
   - Code that's significantly beyond claimed skill level
   - Generic README files or copied tutorial documentation
   - Inconsistent coding styles within projects (suggesting copy-paste)
   - Projects identical to popular tutorials without attribution
   - Repository creation dates that don't align with claimed experience
   - Missing core files that real projects would have

3. NORMAL DEVELOPER BEHAVIOR (NOT RED FLAGS):
   - Few stars/forks (most personal projects have minimal engagement)
   - Solo development (personal projects are typically solo)
   - Some incomplete or experimental repositories
   - Mix of project quality levels (learning progression is normal)
   - Gaps in GitHub activity (work projects often private)
   - Projects missing from GitHub (could be private, work-related, or on other platforms)

4. DETAILED EVIDENCE ANALYSIS:
   - Quote specific README content that shows understanding
   - Identify commit patterns that indicate genuine development
   - Note any code quality indicators (good or concerning)
   - Highlight technology choices and their appropriateness

CLASSIFICATION CRITERIA:
- GENUINE: Clear evidence of authentic development work with logical progression
- QUESTIONABLE: Some concerns but could be legitimate (needs interview verification)
- FAKE: Strong evidence of copied/fabricated work or false claims

PROVIDE DETAILED EVIDENCE with specific examples from repositories.`,
		ExpectedOutput: "A thorough authenticity assessment with specific evidence, focusing on genuine red flags while acknowledging normal developer patterns.",
		Agent:          codeReviewer,
		Context:        []*Task{matchingTask},
	}

	scoringTask := &Task{
		Name: "credibility_scoring",
		Description: `CRITICAL TASK: Score the candidate's overall GitHub credibility and genuineness.

AUTHENTICITY ANALYSIS: [Will be provided by the authenticity analysis task]

REALISTIC SCORING CRITERIA (0-100 scale):

1. Project-Resume Alignment (30 points):
   - 50%+ of resume projects have GitHub evidence: 30 points
   - 25-49% of projects match with valid reasons for missing projects: 20 points
   - <25% match but has quality repositories: 10 points
   - No meaningful matches: 0 points

2. Code Authenticity (30 points):
   - Clear evidence of original work with proper development history: 30 points
   - Mostly authentic with some tutorial/learning projects: 20 points
   - Mixed signals requiring further investigation: 10 points
   - Clear evidence of copied/fake work: 0 points

3. Technical Competency Match (25 points):
   - Repository complexity and technologies align well with resume claims: 25 points
   - Generally consistent with claimed skills: 15 points
   - Some inconsistencies but explainable: 10 points
   - Major mismatch between claims and actual work: 0 points

4. Development Professionalism (15 points):
   - Good documentation, logical structure, meaningful commits: 15 points
   - Decent organization with room for improvement: 10 points
   - Basic but functional projects: 5 points
   - Poor quality or concerning patterns: 0 points

FINAL ASSESSMENT:
- 80-100: HIGHLY CREDIBLE candidate
- 60-79: MODERATELY CREDIBLE candidate
- 40-59: QUESTIONABLE candidate
- 0-39: NOT CREDIBLE candidate

Provide numerical score and clear hiring recommendation.`,
		ExpectedOutput: "A numerical credibility score (0-100) with detailed breakdown and clear hiring recommendation.",
		Agent:          validator,
		Context:        []*Task{authenticityTask},
	}

	reportTask := &Task{
		Name: "verification_report",
		Description: `Create a comprehensive hiring verification report:

CREDIBILITY SCORING: [Will be provided by the credibility scoring task]
MATCHING SCORE: ` + formatScore(matchingScore) + `%

REPORT STRUCTURE:
1. EXECUTIVE SUMMARY:
   - Overall credibility score
   - Key findings summary
   - Final hiring recommendation

2. PROJECT MATCHING ANALYSIS:
   - Which resume projects match GitHub repos
   - Which projects are missing from GitHub
   - Evidence of project authenticity

3. REPOSITORY ANALYSIS:
   - Quality assessment of analyzed repos
   - Technical skill validation
   - Development pattern analysis

4. RED FLAGS & CONCERNS:
   - Any evidence of fake/copied projects
   - Inconsistencies between resume and GitHub
   - Missing or suspicious repositories

5. HIRING RECOMMENDATION:
   - HIRE: Strong evidence of genuine skills
   - INVESTIGATE: Mixed signals, requires interview focus
   - REJECT: Clear evidence of misrepresentation

Make this report actionable for hiring managers.`,
		ExpectedOutput: "A comprehensive hiring verification report with clear findings, analysis, and actionable hiring recommendation.",
		Agent:          reportWriter,
		Context:        []*Task{scoringTask},
	}

	tasks := &VerificationTasks{
		ProjectMatching: matchingTask,
		Authenticity:    authenticityTask,
		Credibility:     scoringTask,
		Report:          reportTask,
	}

	c := New("github_verification", completer, matchingTask, authenticityTask, scoringTask, reportTask)
	return c, tasks
}

// jsonBlock renders a value as indented JSON for prompt embedding; nil slices
// render as an empty array
func jsonBlock(v interface{}) string {
	switch t := v.(type) {
	case []interface{}:
		if t == nil {
			v = []interface{}{}
		}
	case []*models.RepositoryContent:
		if t == nil {
			v = []*models.RepositoryContent{}
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(data)
}

// formatScore renders a percentage without a trailing .0 on whole numbers
func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
