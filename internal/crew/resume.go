package crew

import "encoding/json"

// ResumeTasks exposes the individual stage outputs of the resume analysis
// crew after Kickoff
type ResumeTasks struct {
	Parsing    *Task
	Analysis   *Task
	JobMatch   *Task
	Extraction *Task
}

// NewResumeAnalysisCrew builds the first crew: parse the resume, analyze the
// candidate, score against the job description, and extract GitHub references.
func NewResumeAnalysisCrew(completer Completer, resumeText, jobDescription string, githubURLs []string) (*Crew, *ResumeTasks) {
	pdfParser := &Agent{
		Role: "Senior PDF Resume Parser",
		Goal: "Extract and structure text content from PDF resume files with high accuracy",
		Backstory: "You are an expert document parser specialized in extracting text from PDF resumes. " +
			"You have extensive experience in handling various PDF formats and layouts, ensuring all relevant " +
			"information is captured including contact details, experience, skills, education, and projects.",
	}

	resumeAnalyzer := &Agent{
		Role: "Expert Resume Content Analyst",
		Goal: "Analyze resume content to extract key skills, experience, education, and qualifications",
		Backstory: "You are a senior HR professional and resume analysis expert with 15+ years of experience " +
			"in talent acquisition. You excel at identifying key skills, evaluating experience levels, and " +
			"understanding career progression patterns from resume content.",
	}

	jobMatcher := &Agent{
		Role: "AI-Powered Job Matching Specialist",
		Goal: "Match resume qualifications against job descriptions and provide detailed scoring",
		Backstory: "You are an advanced AI recruitment specialist with expertise in semantic job matching. " +
			"You analyze job requirements against candidate qualifications, providing accurate percentage scores " +
			"and detailed explanations for hiring decisions.",
	}

	githubExtractor := &Agent{
		Role: "Technical Project URL Extractor",
		Goal: "Extract and validate GitHub repository URLs and project links from resume content",
		Backstory: "You are a technical recruitment specialist focused on identifying and extracting " +
			"GitHub profiles, repository links, and project URLs from resumes. You understand various ways " +
			"developers mention their GitHub presence and can identify both direct and indirect references.",
	}

	parsingTask := &Task{
		Name: "pdf_parsing",
		Description: `Parse and extract structured information from the following resume text:

RESUME TEXT:
` + resumeText + `

Extract the following information:
1. Contact information (name, email, phone, etc.)
2. Work experience with dates and responsibilities
3. Education details
4. Technical skills and competencies
5. Projects and achievements
6. Any GitHub or portfolio links mentioned

Format the output as a structured summary with clear sections.`,
		ExpectedOutput: "A structured summary of the resume with all key information organized into clear sections.",
		Agent:          pdfParser,
	}

	analysisTask := &Task{
		Name: "resume_analysis",
		Description: `Analyze the parsed resume content and evaluate the candidate's qualifications:

PARSED RESUME: [Will be provided by the PDF parsing task]

Analyze:
1. Years of experience and career progression
2. Technical skill proficiency levels
3. Leadership and project management experience
4. Education background relevance
5. Notable achievements and projects
6. Areas of expertise and specialization

Provide a comprehensive analysis of the candidate's strengths and areas for improvement.`,
		ExpectedOutput: "A detailed analysis of the candidate's qualifications, experience level, and key strengths.",
		Agent:          resumeAnalyzer,
		Context:        []*Task{parsingTask},
	}

	matchingTask := &Task{
		Name: "job_matching",
		Description: `Compare the analyzed resume against the following job description and provide a detailed matching score:

JOB DESCRIPTION:
` + jobDescription + `

RESUME ANALYSIS: [Will be provided by the resume analysis task]

Evaluate:
1. Technical skills match (weight: 30%)
2. Experience level match (weight: 25%)
3. Industry/domain experience (weight: 20%)
4. Education requirements (weight: 15%)
5. Additional qualifications (weight: 10%)

Provide:
- Overall matching percentage score (0-100%)
- Detailed breakdown by category
- Specific strengths and gaps
- Hiring recommendation

IMPORTANT: The overall score must be a clear numerical percentage.`,
		ExpectedOutput: "A detailed job matching report with a clear percentage score and breakdown of how well the candidate matches the job requirements.",
		Agent:          jobMatcher,
		Context:        []*Task{analysisTask},
	}

	urlList, _ := json.Marshal(githubURLs)
	extractionTask := &Task{
		Name: "github_extraction",
		Description: `Extract and validate all GitHub repository URLs and project links from the resume:

RESUME TEXT:
` + resumeText + `

FOUND GITHUB URLS:
` + string(urlList) + `

Tasks:
1. Identify all GitHub repository URLs mentioned
2. Extract project names and descriptions if available
3. Categorize URLs (profile, specific repositories, etc.)
4. Validate URL formats and accessibility
5. List all projects that should be verified

Provide a structured list of GitHub repositories that need verification.`,
		ExpectedOutput: "A structured list of GitHub repositories with project details that need to be verified for authenticity.",
		Agent:          githubExtractor,
		Context:        []*Task{parsingTask},
	}

	tasks := &ResumeTasks{
		Parsing:    parsingTask,
		Analysis:   analysisTask,
		JobMatch:   matchingTask,
		Extraction: extractionTask,
	}

	c := New("resume_analysis", completer, parsingTask, analysisTask, matchingTask, extractionTask)
	return c, tasks
}
