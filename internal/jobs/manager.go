package jobs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"hirevet/internal/config"
	"hirevet/pkg/models"
	"hirevet/pkg/utils"
)

// Manager configuration constants
const (
	// Default configuration values
	DefaultWorkers   = 4
	DefaultQueueSize = 64

	// Minimum configuration values to prevent misconfiguration
	MinWorkers   = 1
	MinQueueSize = 1

	// Maximum configuration values for safety
	MaxWorkers   = 64
	MaxQueueSize = 4096
)

// RunFunc executes the analysis for one job. It receives the job's derived
// context; cancelling that context (job deleted, task timeout, shutdown)
// must abort the run.
type RunFunc func(ctx context.Context) (*models.AnalysisOutcome, error)

// TerminalHook receives the final snapshot of every job that reaches a
// terminal state. Used to fan results out to webhooks and result files.
type TerminalHook func(job *models.AnalysisJob)

// Manager defines the interface for queueing and tracking analysis jobs
type Manager interface {
	// Start starts the worker pool
	Start(ctx context.Context) error

	// Stop stops the manager gracefully
	Stop(ctx context.Context) error

	// Enqueue stores a pending job and submits it for background processing
	Enqueue(ctx context.Context, job *models.AnalysisJob, run RunFunc) error

	// UpdateProgress moves a job to the processing state with a new checkpoint
	UpdateProgress(jobID string, progress float64, message string)

	// Get retrieves a tracked job by ID
	Get(ctx context.Context, jobID string) (*models.AnalysisJob, error)

	// List returns all tracked jobs (for monitoring)
	List(ctx context.Context) ([]*models.AnalysisJob, error)

	// Delete cancels a running job and removes its record
	Delete(ctx context.Context, jobID string) error

	// IsHealthy checks if the manager is accepting work
	IsHealthy() bool
}

// ManagerImpl implements the Manager interface
type ManagerImpl struct {
	config       *config.Config
	store        Store
	logger       *logrus.Logger
	queue        chan *jobExecution
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	mu           sync.RWMutex
	running      bool
	cancels      map[string]context.CancelFunc
	workers      int
	queueSize    int
	taskTimeout  time.Duration
	terminalHook TerminalHook
}

// jobExecution carries one queued job through the worker pool
type jobExecution struct {
	jobID  string
	ctx    context.Context
	cancel context.CancelFunc
	run    RunFunc
}

// validateManagerConfig validates and returns safe configuration values
func validateManagerConfig(cfg *config.Config) (workers, queueSize int, err error) {
	workers = cfg.Jobs.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	} else if workers < MinWorkers {
		return 0, 0, fmt.Errorf("worker count (%d) is below minimum (%d)", workers, MinWorkers)
	} else if workers > MaxWorkers {
		return 0, 0, fmt.Errorf("worker count (%d) exceeds maximum (%d)", workers, MaxWorkers)
	}

	queueSize = cfg.Jobs.QueueSize
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	} else if queueSize < MinQueueSize {
		return 0, 0, fmt.Errorf("queue size (%d) is below minimum (%d)", queueSize, MinQueueSize)
	} else if queueSize > MaxQueueSize {
		return 0, 0, fmt.Errorf("queue size (%d) exceeds maximum (%d)", queueSize, MaxQueueSize)
	}

	return workers, queueSize, nil
}

// NewStore builds the job store backend named by the configuration
func NewStore(cfg *config.Config) (Store, error) {
	switch cfg.Jobs.Store {
	case "redis":
		store := NewRedisStore(cfg)
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.Timeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("redis job store unavailable: %w", err)
		}
		return store, nil
	case "", "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown job store backend: %s", cfg.Jobs.Store)
	}
}

// NewManager creates a new job manager on top of the given store
func NewManager(cfg *config.Config, store Store) *ManagerImpl {
	logger := utils.GetLogger()

	workers, queueSize, err := validateManagerConfig(cfg)
	if err != nil {
		logger.WithError(err).Warn("Job manager configuration invalid, using defaults")
		workers = DefaultWorkers
		queueSize = DefaultQueueSize
	}

	taskTimeout := cfg.Jobs.TaskTimeout
	if taskTimeout <= 0 {
		taskTimeout = 10 * time.Minute
	}

	return &ManagerImpl{
		config:      cfg,
		store:       store,
		logger:      logger,
		queue:       make(chan *jobExecution, queueSize),
		cancels:     make(map[string]context.CancelFunc),
		workers:     workers,
		queueSize:   queueSize,
		taskTimeout: taskTimeout,
	}
}

// SetTerminalHook registers a hook invoked with the final snapshot of each
// finished job. Must be called before Start.
func (m *ManagerImpl) SetTerminalHook(hook TerminalHook) {
	m.mu.Lock()
	m.terminalHook = hook
	m.mu.Unlock()
}

// Start starts the worker pool
func (m *ManagerImpl) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("job manager already running")
	}

	m.ctx, m.cancel = context.WithCancel(ctx)
	m.running = true

	for i := 0; i < m.workers; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}

	m.wg.Add(1)
	go m.cleanupRoutine()

	m.logger.WithFields(logrus.Fields{
		"workers":    m.workers,
		"queue_size": m.queueSize,
	}).Info("Job manager started")
	return nil
}

// Stop stops the manager gracefully. The queue is never closed; workers exit
// through context cancellation so a racing Enqueue can fail cleanly instead
// of panicking on a closed channel.
func (m *ManagerImpl) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	m.mu.Unlock()

	m.logger.Info("Stopping job manager...")
	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("Job manager stopped gracefully")
	case <-ctx.Done():
		m.logger.Warn("Job manager shutdown timed out")
	}

	return nil
}

// Enqueue stores a pending job and submits it for background processing.
// The job record is removed again if the queue rejects it so no orphaned
// pending entry survives the refusal.
func (m *ManagerImpl) Enqueue(ctx context.Context, job *models.AnalysisJob, run RunFunc) error {
	if !m.IsHealthy() {
		return utils.NewInternalServerError("job manager is not running")
	}

	if err := m.store.Create(ctx, job); err != nil {
		return fmt.Errorf("failed to store job %s: %w", job.ID, err)
	}

	taskCtx, cancelFunc := context.WithTimeout(m.ctx, m.taskTimeout)
	execution := &jobExecution{
		jobID:  job.ID,
		ctx:    taskCtx,
		cancel: cancelFunc,
		run:    run,
	}

	m.trackCancel(job.ID, cancelFunc)

	select {
	case m.queue <- execution:
		return nil
	case <-ctx.Done():
		m.discardExecution(execution)
		return ctx.Err()
	default:
		m.discardExecution(execution)
		return utils.NewQueueFullError(fmt.Sprintf("queue capacity %d reached", m.queueSize))
	}
}

// UpdateProgress moves a job to the processing state with a new checkpoint
func (m *ManagerImpl) UpdateProgress(jobID string, progress float64, message string) {
	m.mutateJob(jobID, func(job *models.AnalysisJob) {
		job.Status = models.JobStatusProcessing
		job.Progress = progress
		job.Message = message
	})
}

// Get retrieves a tracked job by ID
func (m *ManagerImpl) Get(ctx context.Context, jobID string) (*models.AnalysisJob, error) {
	return m.store.Get(ctx, jobID)
}

// List returns all tracked jobs (for monitoring)
func (m *ManagerImpl) List(ctx context.Context) ([]*models.AnalysisJob, error) {
	return m.store.List(ctx)
}

// Delete cancels a running job and removes its record along with any staged
// upload that has not been cleaned up yet
func (m *ManagerImpl) Delete(ctx context.Context, jobID string) error {
	job, err := m.store.Get(ctx, jobID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if cancel, ok := m.cancels[jobID]; ok {
		cancel()
		delete(m.cancels, jobID)
	}
	m.mu.Unlock()

	m.removeFile(job.TempFilePath)

	return m.store.Delete(ctx, jobID)
}

// IsHealthy checks if the manager is accepting work
func (m *ManagerImpl) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running && m.ctx.Err() == nil
}

// worker processes jobs from the queue
func (m *ManagerImpl) worker(workerID int) {
	defer m.wg.Done()

	m.logger.WithField("worker_id", workerID).Debug("Job worker started")

	for {
		select {
		case <-m.ctx.Done():
			m.logger.WithField("worker_id", workerID).Debug("Job worker stopping")
			return
		case execution := <-m.queue:
			m.processJob(workerID, execution)
		}
	}
}

// processJob runs a single job to its terminal state
func (m *ManagerImpl) processJob(workerID int, execution *jobExecution) {
	defer func() {
		execution.cancel()
		m.untrackCancel(execution.jobID)
	}()

	// Drained after shutdown or deleted while queued
	if execution.ctx.Err() != nil {
		m.logger.WithField("job_id", execution.jobID).Debug("Skipping cancelled job")
		return
	}

	startTime := time.Now()
	m.logger.WithFields(logrus.Fields{
		"worker_id": workerID,
		"job_id":    execution.jobID,
	}).Info("Processing analysis job")

	outcome, runErr := execution.run(execution.ctx)
	processingTime := time.Since(startTime)

	var tempFile string
	m.mutateJob(execution.jobID, func(job *models.AnalysisJob) {
		tempFile = job.TempFilePath
		job.TempFilePath = ""

		if runErr != nil {
			job.Status = models.JobStatusFailed
			job.Progress = 0.0
			job.Message = "Analysis failed: " + runErr.Error()
			job.Error = runErr.Error()
			return
		}

		job.Status = models.JobStatusCompleted
		job.Progress = 1.0
		job.Message = "Analysis completed successfully"
		job.Results = outcome
		job.Error = ""
	})
	m.removeFile(tempFile)
	m.notifyTerminal(execution.jobID)

	if runErr != nil {
		m.logger.WithFields(logrus.Fields{
			"worker_id":       workerID,
			"job_id":          execution.jobID,
			"processing_time": processingTime,
			"error":           runErr.Error(),
		}).Error("Analysis job failed")
		return
	}

	m.logger.WithFields(logrus.Fields{
		"worker_id":       workerID,
		"job_id":          execution.jobID,
		"processing_time": processingTime,
		"matching_score":  outcome.MatchingScore,
	}).Info("Analysis job completed")
}

// notifyTerminal hands the finished job's snapshot to the terminal hook.
// Jobs deleted before the snapshot could be taken are skipped.
func (m *ManagerImpl) notifyTerminal(jobID string) {
	m.mu.RLock()
	hook := m.terminalHook
	m.mu.RUnlock()
	if hook == nil {
		return
	}

	job, err := m.store.Get(context.Background(), jobID)
	if err != nil {
		if !errors.Is(err, ErrJobNotFound) {
			m.logger.WithError(err).WithField("job_id", jobID).Error("Failed to load job for terminal hook")
		}
		return
	}

	hook(job)
}

// cleanupRoutine periodically removes expired job records
func (m *ManagerImpl) cleanupRoutine() {
	defer m.wg.Done()

	interval := m.config.Jobs.CleanupInterval
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			if err := m.store.Cleanup(context.Background(), m.config.Jobs.MaxJobAge); err != nil {
				m.logger.WithError(err).Error("Failed to clean up expired jobs")
			}
		}
	}
}

// mutateJob applies an update to a tracked job under a fresh read. Updates
// for jobs deleted mid-flight are silently skipped.
func (m *ManagerImpl) mutateJob(jobID string, mutate func(job *models.AnalysisJob)) {
	job, err := m.store.Get(context.Background(), jobID)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			m.logger.WithField("job_id", jobID).Debug("Skipping update for deleted job")
			return
		}
		m.logger.WithError(err).WithField("job_id", jobID).Error("Failed to load job for update")
		return
	}

	mutate(job)
	job.UpdatedAt = time.Now()

	if err := m.store.Update(context.Background(), job); err != nil && !errors.Is(err, ErrJobNotFound) {
		m.logger.WithError(err).WithField("job_id", jobID).Error("Failed to update job")
	}
}

// discardExecution rolls back a refused enqueue
func (m *ManagerImpl) discardExecution(execution *jobExecution) {
	m.untrackCancel(execution.jobID)
	execution.cancel()
	if err := m.store.Delete(context.Background(), execution.jobID); err != nil && !errors.Is(err, ErrJobNotFound) {
		m.logger.WithError(err).WithField("job_id", execution.jobID).Warn("Failed to roll back refused job")
	}
}

func (m *ManagerImpl) trackCancel(jobID string, cancel context.CancelFunc) {
	m.mu.Lock()
	m.cancels[jobID] = cancel
	m.mu.Unlock()
}

func (m *ManagerImpl) untrackCancel(jobID string) {
	m.mu.Lock()
	delete(m.cancels, jobID)
	m.mu.Unlock()
}

// removeFile deletes a staged upload, tolerating files already gone
func (m *ManagerImpl) removeFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		m.logger.WithError(err).WithField("path", path).Warn("Failed to remove temp file")
	}
}
