package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"hirevet/internal/config"
	"hirevet/pkg/models"
	"hirevet/pkg/utils"
)

const jobKeyPrefix = "analysis:job:"

// RedisStore implements Store on Redis so job state survives restarts and is
// shared across replicas. Records carry a TTL equal to the retention window,
// which makes Cleanup a no-op here.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewRedisStore creates a Redis-backed job store from the configured URL
func NewRedisStore(cfg *config.Config) *RedisStore {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		// Fallback to default configuration
		opts = &redis.Options{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
		}
	}

	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}

	// Configure timeouts
	opts.DialTimeout = cfg.Redis.Timeout
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	ttl := cfg.Jobs.MaxJobAge
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &RedisStore{
		client: redis.NewClient(opts),
		ttl:    ttl,
		logger: utils.GetLogger(),
	}
}

// Ping tests the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Create stores a freshly queued job
func (s *RedisStore) Create(ctx context.Context, job *models.AnalysisJob) error {
	return s.write(ctx, job)
}

// Get retrieves a job by ID
func (s *RedisStore) Get(ctx context.Context, jobID string) (*models.AnalysisJob, error) {
	data, err := s.client.Get(ctx, jobKey(jobID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job %s: %w", jobID, err)
	}

	var job models.AnalysisJob
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job %s: %w", jobID, err)
	}

	return &job, nil
}

// Update replaces a tracked job's record. The TTL is refreshed so a job that
// is still being worked on never expires mid-flight.
func (s *RedisStore) Update(ctx context.Context, job *models.AnalysisJob) error {
	exists, err := s.client.Exists(ctx, jobKey(job.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check job %s: %w", job.ID, err)
	}
	if exists == 0 {
		return ErrJobNotFound
	}

	return s.write(ctx, job)
}

// Delete removes a job record
func (s *RedisStore) Delete(ctx context.Context, jobID string) error {
	deleted, err := s.client.Del(ctx, jobKey(jobID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete job %s: %w", jobID, err)
	}
	if deleted == 0 {
		return ErrJobNotFound
	}
	return nil
}

// List returns all tracked jobs (for monitoring)
func (s *RedisStore) List(ctx context.Context) ([]*models.AnalysisJob, error) {
	var jobs []*models.AnalysisJob

	iter := s.client.Scan(ctx, 0, jobKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Result()
		if err != nil {
			if err == redis.Nil {
				continue // expired between scan and get
			}
			return nil, fmt.Errorf("failed to get job %s: %w", iter.Val(), err)
		}

		var job models.AnalysisJob
		if err := json.Unmarshal([]byte(data), &job); err != nil {
			s.logger.WithField("key", iter.Val()).Warn("Skipping undecodable job record")
			continue
		}
		jobs = append(jobs, &job)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan jobs: %w", err)
	}

	return jobs, nil
}

// Cleanup is a no-op: records expire via their TTL
func (s *RedisStore) Cleanup(ctx context.Context, maxAge time.Duration) error {
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) write(ctx context.Context, job *models.AnalysisJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job %s: %w", job.ID, err)
	}

	if err := s.client.Set(ctx, jobKey(job.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store job %s: %w", job.ID, err)
	}
	return nil
}

func jobKey(jobID string) string {
	return jobKeyPrefix + jobID
}
