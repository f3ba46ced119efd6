package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/summarly/api/internal/client"
	"github.com/summarly/api/internal/model"
	"github.com/summarly/api/internal/store"
)

const TaskTypeSummary = "summary:process"

const queueName = "summaries"

var (
	// ErrNoInput is returned when a submission carries neither text nor a URL.
	ErrNoInput = errors.New("either text or url must be provided")
	// ErrBothInputs is returned when a submission carries both.
	ErrBothInputs = errors.New("only one of text or url may be provided")
)

// Enqueuer publishes tasks onto the work queue. *asynq.Client satisfies it.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// SummaryService owns job submission and the read-only status/result
// projections, plus the synchronous summarization path.
type SummaryService struct {
	store      *store.JobStore
	enqueuer   Enqueuer
	summarizer client.Summarizer
}

func NewSummaryService(jobStore *store.JobStore, enqueuer Enqueuer, summarizer client.Summarizer) *SummaryService {
	return &SummaryService{
		store:      jobStore,
		enqueuer:   enqueuer,
		summarizer: summarizer,
	}
}

// Submit creates a queued job record and publishes its ID onto the work
// queue, returning immediately. Exactly one of text/url must be set.
func (s *SummaryService) Submit(ctx context.Context, req *model.SubmitRequest) (*model.SubmitResponse, error) {
	text := strings.TrimSpace(req.Text)
	rawURL := strings.TrimSpace(req.URL)

	switch {
	case text == "" && rawURL == "":
		return nil, ErrNoInput
	case text != "" && rawURL != "":
		return nil, ErrBothInputs
	}

	inputType := model.InputTypeText
	inputValue := text
	if rawURL != "" {
		inputType = model.InputTypeURL
		inputValue = rawURL
	}

	now := time.Now()
	job := &model.Job{
		ID:         uuid.New().String(),
		InputType:  inputType,
		InputValue: inputValue,
		Status:     model.JobStatusQueued,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	task, err := newSummaryTask(job.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	// Record insert and enqueue are not atomic: a crash between them
	// strands the job in queued. An external sweep over job:* keys can
	// re-enqueue stale queued IDs; none is built in.
	_, err = s.enqueuer.Enqueue(task,
		asynq.Queue(queueName),
		asynq.MaxRetry(0),
		asynq.Retention(24*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}

	return &model.SubmitResponse{
		JobID:  job.ID,
		Status: job.Status,
	}, nil
}

// GetStatus returns the lifecycle projection of a job.
func (s *SummaryService) GetStatus(ctx context.Context, jobID string) (*model.StatusResponse, error) {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	return &model.StatusResponse{
		JobID:     job.ID,
		Status:    job.Status,
		CreatedAt: job.CreatedAt,
	}, nil
}

// GetResult returns the terminal fields of a job. For a job that is
// still queued or processing it returns the current status and an
// in-flight message — polling a live job is not an error.
func (s *SummaryService) GetResult(ctx context.Context, jobID string) (*model.ResultResponse, error) {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	resp := &model.ResultResponse{
		JobID:  job.ID,
		Status: job.Status,
	}

	switch job.Status {
	case model.JobStatusCompleted:
		elapsed := job.ProcessingTimeMs
		resp.Summary = job.Summary
		resp.ProcessingTimeMs = &elapsed
		resp.Cached = job.Cached
	case model.JobStatusFailed:
		resp.ErrorMessage = job.ErrorMessage
	default:
		resp.Message = "Job still processing"
	}

	return resp, nil
}

// Summarize runs the provider synchronously, bypassing the job pipeline.
func (s *SummaryService) Summarize(ctx context.Context, text string) (*model.SummarizeResponse, error) {
	start := time.Now()
	summary, err := s.summarizer.Summarize(ctx, text)
	if err != nil {
		return nil, err
	}

	return &model.SummarizeResponse{
		Summary:          summary,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

func newSummaryTask(jobID string) (*asynq.Task, error) {
	data, err := json.Marshal(map[string]interface{}{
		"jobId": jobID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSummary, data), nil
}
