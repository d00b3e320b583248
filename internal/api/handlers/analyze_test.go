package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hirevet/internal/config"
	"hirevet/internal/jobs"
	"hirevet/internal/pipeline"
	"hirevet/pkg/models"
	"hirevet/pkg/utils"
)

type stubRunner struct {
	outcome *models.AnalysisOutcome
	err     error
	block   chan struct{}

	mu         sync.Mutex
	gotReq     *models.AnalyzeRequest
	stagedPDF  []byte
	reportMsgs []string
}

func (s *stubRunner) Run(ctx context.Context, req *models.AnalyzeRequest, report pipeline.ProgressFunc) (*models.AnalysisOutcome, error) {
	s.mu.Lock()
	s.gotReq = req
	if data, err := os.ReadFile(req.ResumePath); err == nil {
		s.stagedPDF = data
	}
	s.mu.Unlock()

	if report != nil {
		report(0.2, "Extracting text from PDF...")
		s.mu.Lock()
		s.reportMsgs = append(s.reportMsgs, "Extracting text from PDF...")
		s.mu.Unlock()
	}
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.outcome, nil
}

func (s *stubRunner) request() *models.AnalyzeRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gotReq
}

func (s *stubRunner) staged() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stagedPDF
}

func (s *stubRunner) reports() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.reportMsgs...)
}

func defaultFormFields() map[string]string {
	return map[string]string{
		"github_profile_url": "https://github.com/octocat",
		"best_project_repos": `["https://github.com/octocat/hello-world"]`,
		"job_description":    "Build and operate Go backend services",
		"company_name":       "Acme",
		"job_name":           "Backend Engineer",
	}
}

func multipartBody(t *testing.T, fields map[string]string, filename string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := w.CreateFormFile("pdf_file", filename)
		require.NoError(t, err)
		_, err = fw.Write(fileContent)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	return cfg
}

func startedManager(t *testing.T, mutate func(cfg *config.Config)) jobs.Manager {
	t.Helper()

	cfg := testConfig(t)
	cfg.Jobs.Workers = 1
	cfg.Jobs.QueueSize = 4
	if mutate != nil {
		mutate(cfg)
	}

	m := jobs.NewManager(cfg, jobs.NewMemoryStore())
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = m.Stop(ctx)
	})

	return m
}

func postMultipart(t *testing.T, path string, fields map[string]string, filename string, fileContent []byte, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, fields, filename, fileContent)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h(c))
	return rec
}

func TestAnalyzeResumeSuccess(t *testing.T) {
	runner := &stubRunner{outcome: &models.AnalysisOutcome{
		MatchingScore:               78.5,
		GitHubVerificationTriggered: true,
		Results: &models.AnalysisResults{
			ResumeAnalysis: models.ResumeAnalysisSection{MatchingScore: 78.5},
		},
		ProcessingTimeSeconds: 4.2,
	}}

	pdfBytes := []byte("%PDF-1.4 test")
	rec := postMultipart(t, "/analyze-resume", defaultFormFields(), "resume.pdf", pdfBytes,
		AnalyzeResumeHandler(testConfig(t), runner))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.AnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.JobID)
	assert.Equal(t, 78.5, resp.MatchingScore)
	assert.True(t, resp.GitHubVerificationTriggered)

	// The upload was staged for the pipeline and removed afterwards
	got := runner.request()
	require.NotNil(t, got)
	assert.Equal(t, pdfBytes, runner.staged())
	_, err := os.Stat(got.ResumePath)
	assert.True(t, os.IsNotExist(err))

	assert.Equal(t, "https://github.com/octocat", got.GitHubProfileURL)
	assert.Equal(t, []string{"https://github.com/octocat/hello-world"}, got.BestProjectRepos)
}

func TestAnalyzeResumeRejectsNonPDF(t *testing.T) {
	runner := &stubRunner{}
	rec := postMultipart(t, "/analyze-resume", defaultFormFields(), "resume.docx", []byte("doc"),
		AnalyzeResumeHandler(testConfig(t), runner))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Only PDF files are allowed", resp.Error)
	assert.Nil(t, runner.request())
}

func TestAnalyzeResumeRejectsMalformedRepoJSON(t *testing.T) {
	fields := defaultFormFields()
	fields["best_project_repos"] = "not json"

	rec := postMultipart(t, "/analyze-resume", fields, "resume.pdf", []byte("%PDF-1.4"),
		AnalyzeResumeHandler(testConfig(t), &stubRunner{}))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid JSON format for repository URLs", resp.Error)
}

func TestAnalyzeResumeRejectsTooManyRepos(t *testing.T) {
	fields := defaultFormFields()
	fields["best_project_repos"] = `["https://github.com/u/a","https://github.com/u/b",` +
		`"https://github.com/u/c","https://github.com/u/d","https://github.com/u/e","https://github.com/u/f"]`

	rec := postMultipart(t, "/analyze-resume", fields, "resume.pdf", []byte("%PDF-1.4"),
		AnalyzeResumeHandler(testConfig(t), &stubRunner{}))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp.Error)
	assert.Contains(t, resp.Detail, "max")
}

func TestAnalyzeResumeRejectsMissingFile(t *testing.T) {
	rec := postMultipart(t, "/analyze-resume", defaultFormFields(), "", nil,
		AnalyzeResumeHandler(testConfig(t), &stubRunner{}))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeResumeMapsPipelineErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"parse failure", utils.NewParseFailureError("no text"), http.StatusUnprocessableEntity},
		{"llm error", utils.NewLLMError("provider unavailable"), http.StatusBadGateway},
		{"generic error", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runner := &stubRunner{err: tc.err}
			rec := postMultipart(t, "/analyze-resume", defaultFormFields(), "resume.pdf", []byte("%PDF-1.4"),
				AnalyzeResumeHandler(testConfig(t), runner))

			require.Equal(t, tc.wantCode, rec.Code)

			// The staged upload never outlives the request
			_, err := os.Stat(runner.request().ResumePath)
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestAnalyzeResumeAsyncQueuesJob(t *testing.T) {
	manager := startedManager(t, nil)
	runner := &stubRunner{outcome: &models.AnalysisOutcome{MatchingScore: 55.0}}

	rec := postMultipart(t, "/analyze-resume-async", defaultFormFields(), "resume.pdf", []byte("%PDF-1.4"),
		AnalyzeResumeAsyncHandler(testConfig(t), runner, manager))

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp models.AsyncAnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.JobID)
	assert.Equal(t, "Analysis job started successfully", resp.Message)
	assert.Equal(t, models.JobStatusPending, resp.Status)

	require.Eventually(t, func() bool {
		job, err := manager.Get(context.Background(), resp.JobID)
		return err == nil && job.Status == models.JobStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)

	job, err := manager.Get(context.Background(), resp.JobID)
	require.NoError(t, err)
	require.NotNil(t, job.Results)
	assert.Equal(t, 55.0, job.Results.MatchingScore)
	assert.Equal(t, []string{"Extracting text from PDF..."}, runner.reports())
}

func TestAnalyzeResumeAsyncValidationLeavesNoJob(t *testing.T) {
	manager := startedManager(t, nil)
	fields := defaultFormFields()
	fields["github_profile_url"] = "definitely not a url"

	rec := postMultipart(t, "/analyze-resume-async", fields, "resume.pdf", []byte("%PDF-1.4"),
		AnalyzeResumeAsyncHandler(testConfig(t), &stubRunner{}, manager))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	tracked, err := manager.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tracked)
}

func TestAnalyzeResumeAsyncQueueFull(t *testing.T) {
	manager := startedManager(t, func(cfg *config.Config) {
		cfg.Jobs.Workers = 1
		cfg.Jobs.QueueSize = 1
	})

	block := make(chan struct{})
	defer close(block)
	runner := &stubRunner{outcome: &models.AnalysisOutcome{}, block: block}
	h := AnalyzeResumeAsyncHandler(testConfig(t), runner, manager)

	// First fills the lone worker, second the queue slot
	rec := postMultipart(t, "/analyze-resume-async", defaultFormFields(), "resume.pdf", []byte("%PDF-1.4"), h)
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Eventually(t, func() bool { return runner.request() != nil }, 2*time.Second, 10*time.Millisecond)

	rec = postMultipart(t, "/analyze-resume-async", defaultFormFields(), "resume.pdf", []byte("%PDF-1.4"), h)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = postMultipart(t, "/analyze-resume-async", defaultFormFields(), "resume.pdf", []byte("%PDF-1.4"), h)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Job queue is full", resp.Error)

	// The refused submission must not leave an orphaned record behind
	listed, err := manager.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}
