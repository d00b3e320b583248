package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"hirevet/pkg/models"
)

// ErrJobNotFound is returned by stores for lookups of unknown job IDs
var ErrJobNotFound = errors.New("job not found")

// Store defines the interface for persisting and retrieving analysis jobs
type Store interface {
	// Create stores a freshly queued job
	Create(ctx context.Context, job *models.AnalysisJob) error

	// Get retrieves a job by ID
	Get(ctx context.Context, jobID string) (*models.AnalysisJob, error)

	// Update replaces a tracked job's record
	Update(ctx context.Context, job *models.AnalysisJob) error

	// Delete removes a job record
	Delete(ctx context.Context, jobID string) error

	// List returns all tracked jobs (for monitoring)
	List(ctx context.Context) ([]*models.AnalysisJob, error)

	// Cleanup removes finished job records older than maxAge
	Cleanup(ctx context.Context, maxAge time.Duration) error

	// Close releases any store resources
	Close() error
}

// MemoryStore implements Store using in-memory storage
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*models.AnalysisJob
}

// NewMemoryStore creates a new in-memory job store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs: make(map[string]*models.AnalysisJob),
	}
}

// Create stores a freshly queued job
func (s *MemoryStore) Create(ctx context.Context, job *models.AnalysisJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[job.ID] = cloneJob(job)
	return nil
}

// Get retrieves a job by ID
func (s *MemoryStore) Get(ctx context.Context, jobID string) (*models.AnalysisJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return nil, ErrJobNotFound
	}

	return cloneJob(job), nil
}

// Update replaces a tracked job's record
func (s *MemoryStore) Update(ctx context.Context, job *models.AnalysisJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; !exists {
		return ErrJobNotFound
	}

	s.jobs[job.ID] = cloneJob(job)
	return nil
}

// Delete removes a job record
func (s *MemoryStore) Delete(ctx context.Context, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[jobID]; !exists {
		return ErrJobNotFound
	}

	delete(s.jobs, jobID)
	return nil
}

// List returns all tracked jobs (for monitoring)
func (s *MemoryStore) List(ctx context.Context) ([]*models.AnalysisJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]*models.AnalysisJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, cloneJob(job))
	}

	return jobs, nil
}

// Cleanup removes terminal job records older than maxAge. Jobs still
// pending or processing are kept regardless of age so a slow run cannot
// lose its record mid-flight.
func (s *MemoryStore) Cleanup(ctx context.Context, maxAge time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)

	for jobID, job := range s.jobs {
		if job.IsTerminal() && job.CreatedAt.Before(cutoff) {
			delete(s.jobs, jobID)
		}
	}

	return nil
}

// Close releases any store resources
func (s *MemoryStore) Close() error {
	return nil
}

// cloneJob snapshots a job record so readers never share memory with the
// pipeline mutating it. Results are immutable once attached, so a shallow
// copy is sufficient.
func cloneJob(job *models.AnalysisJob) *models.AnalysisJob {
	c := *job
	return &c
}
