package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/summarly/api/internal/model"
)

var (
	// ErrJobNotFound is returned when no record exists for the given ID.
	ErrJobNotFound = errors.New("job not found")
	// ErrNotQueued is returned when a Queued→Processing transition is
	// attempted on a job that is not in the queued state. Guards against
	// duplicate queue delivery.
	ErrNotQueued = errors.New("job not in queued state")
	// ErrTerminal is returned when a transition is attempted on a job
	// that already completed or failed.
	ErrTerminal = errors.New("job already in terminal state")
)

// JobStore persists job records in Redis, one JSON blob per job.
// Every transition rewrites the whole blob with a single SET, so a
// concurrent reader always sees status and its dependent fields together.
type JobStore struct {
	redis     *redis.Client
	retention time.Duration
}

func NewJobStore(redisClient *redis.Client, retention time.Duration) *JobStore {
	return &JobStore{
		redis:     redisClient,
		retention: retention,
	}
}

// Create inserts a new job record. The job must already carry its ID,
// input fields and queued status.
func (s *JobStore) Create(ctx context.Context, job *model.Job) error {
	return s.save(ctx, job)
}

// Get returns the job record for the given ID.
func (s *JobStore) Get(ctx context.Context, jobID string) (*model.Job, error) {
	data, err := s.redis.Get(ctx, jobKey(jobID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job %s: %w", jobID, err)
	}

	return &job, nil
}

// MarkProcessing performs the Queued→Processing transition. Returns the
// updated record, or ErrNotQueued if the job was already picked up or
// has moved on — the caller should skip the message in that case.
func (s *JobStore) MarkProcessing(ctx context.Context, jobID string) (*model.Job, error) {
	job, err := s.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.Status != model.JobStatusQueued {
		return nil, ErrNotQueued
	}

	job.Status = model.JobStatusProcessing
	job.UpdatedAt = time.Now()

	if err := s.save(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Complete performs the Processing→Completed transition, setting the
// summary, timing and cache flag in the same write.
func (s *JobStore) Complete(ctx context.Context, jobID, summary string, elapsedMs int64, cached bool) error {
	job, err := s.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Terminal() {
		return ErrTerminal
	}

	job.Status = model.JobStatusCompleted
	job.Summary = summary
	job.ProcessingTimeMs = elapsedMs
	job.Cached = cached
	job.ErrorMessage = ""
	job.UpdatedAt = time.Now()

	return s.save(ctx, job)
}

// Fail performs the transition to Failed with a human-readable cause.
func (s *JobStore) Fail(ctx context.Context, jobID, errMsg string) error {
	job, err := s.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Terminal() {
		return ErrTerminal
	}

	job.Status = model.JobStatusFailed
	job.ErrorMessage = errMsg
	job.Summary = ""
	job.UpdatedAt = time.Now()

	return s.save(ctx, job)
}

func (s *JobStore) save(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job %s: %w", job.ID, err)
	}
	return s.redis.Set(ctx, jobKey(job.ID), data, s.retention).Err()
}

func jobKey(jobID string) string {
	return fmt.Sprintf("job:%s", jobID)
}
