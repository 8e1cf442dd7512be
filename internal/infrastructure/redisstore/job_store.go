package redisstore

import (
	"context"
	"credit-approval/internal/batch"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultJobTTL = 24 * time.Hour

// JobStore keeps ingestion job records as JSON values that expire after ttl.
type JobStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

var _ batch.JobStore = (*JobStore)(nil)

func NewJobStore(client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *JobStore {
	if ttl <= 0 {
		ttl = defaultJobTTL
	}
	return &JobStore{client: client, ttl: ttl, logger: logger.With("component", "RedisJobStore")}
}

func jobKey(jobID string) string {
	return keyPrefix + "ingestion-job:" + jobID
}

func (s *JobStore) Save(ctx context.Context, job *batch.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job %s: %w", job.ID, err)
	}
	if err := s.client.Set(ctx, jobKey(job.ID), payload, s.ttl).Err(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save job record", "jobID", job.ID, "error", err)
		return fmt.Errorf("failed to save job %s: %w", job.ID, err)
	}
	return nil
}

func (s *JobStore) Get(ctx context.Context, jobID string) (*batch.Job, error) {
	payload, err := s.client.Get(ctx, jobKey(jobID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, batch.ErrJobNotFound
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load job record", "jobID", jobID, "error", err)
		return nil, fmt.Errorf("failed to load job %s: %w", jobID, err)
	}

	var job batch.Job
	if err := json.Unmarshal(payload, &job); err != nil {
		return nil, fmt.Errorf("failed to decode job %s: %w", jobID, err)
	}
	return &job, nil
}
