package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/summarly/api/internal/model"
	"github.com/summarly/api/internal/store"
)

const loremText = "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor."

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{}, nil
}

type fakeSummarizer struct {
	summary string
	err     error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

func (f *fakeSummarizer) IsConfigured() bool { return true }

func newTestService(t *testing.T) (*SummaryService, *store.JobStore, *fakeEnqueuer) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	jobStore := store.NewJobStore(redisClient, 24*time.Hour)
	enqueuer := &fakeEnqueuer{}
	svc := NewSummaryService(jobStore, enqueuer, &fakeSummarizer{summary: "A summary."})
	return svc, jobStore, enqueuer
}

func TestSubmit_Text(t *testing.T) {
	svc, jobStore, enqueuer := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Submit(ctx, &model.SubmitRequest{Text: loremText})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.JobID)
	assert.Equal(t, model.JobStatusQueued, resp.Status)

	job, err := jobStore.Get(ctx, resp.JobID)
	require.NoError(t, err)
	assert.Equal(t, model.InputTypeText, job.InputType)
	assert.Equal(t, loremText, job.InputValue)
	assert.Equal(t, model.JobStatusQueued, job.Status)

	require.Len(t, enqueuer.tasks, 1)
	task := enqueuer.tasks[0]
	assert.Equal(t, TaskTypeSummary, task.Type())

	var payload struct {
		JobID string `json:"jobId"`
	}
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, resp.JobID, payload.JobID)
}

func TestSubmit_URL(t *testing.T) {
	svc, jobStore, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Submit(ctx, &model.SubmitRequest{URL: "https://example.com/article"})
	require.NoError(t, err)

	job, err := jobStore.Get(ctx, resp.JobID)
	require.NoError(t, err)
	assert.Equal(t, model.InputTypeURL, job.InputType)
	assert.Equal(t, "https://example.com/article", job.InputValue)
}

func TestSubmit_UniqueJobIDs(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Submit(ctx, &model.SubmitRequest{Text: loremText})
	require.NoError(t, err)
	second, err := svc.Submit(ctx, &model.SubmitRequest{Text: loremText})
	require.NoError(t, err)

	assert.NotEqual(t, first.JobID, second.JobID)
}

func TestSubmit_InputValidation(t *testing.T) {
	svc, _, enqueuer := newTestService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, &model.SubmitRequest{})
	assert.ErrorIs(t, err, ErrNoInput)

	_, err = svc.Submit(ctx, &model.SubmitRequest{Text: loremText, URL: "https://example.com"})
	assert.ErrorIs(t, err, ErrBothInputs)

	assert.Empty(t, enqueuer.tasks, "rejected submissions must not enqueue")
}

func TestGetStatus(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Submit(ctx, &model.SubmitRequest{Text: loremText})
	require.NoError(t, err)

	status, err := svc.GetStatus(ctx, resp.JobID)
	require.NoError(t, err)
	assert.Equal(t, resp.JobID, status.JobID)
	assert.Equal(t, model.JobStatusQueued, status.Status)
	assert.False(t, status.CreatedAt.IsZero())
}

func TestGetStatus_Unknown(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetStatus(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrJobNotFound)
}

func TestGetResult_InFlight(t *testing.T) {
	svc, jobStore, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Submit(ctx, &model.SubmitRequest{Text: loremText})
	require.NoError(t, err)

	// Queued: in-flight placeholder, not an error.
	result, err := svc.GetResult(ctx, resp.JobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusQueued, result.Status)
	assert.Equal(t, "Job still processing", result.Message)
	assert.Empty(t, result.Summary)
	assert.Nil(t, result.ProcessingTimeMs)

	_, err = jobStore.MarkProcessing(ctx, resp.JobID)
	require.NoError(t, err)

	result, err = svc.GetResult(ctx, resp.JobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusProcessing, result.Status)
	assert.Equal(t, "Job still processing", result.Message)
}

func TestGetResult_Terminal(t *testing.T) {
	svc, jobStore, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Submit(ctx, &model.SubmitRequest{Text: loremText})
	require.NoError(t, err)
	_, err = jobStore.MarkProcessing(ctx, resp.JobID)
	require.NoError(t, err)
	require.NoError(t, jobStore.Complete(ctx, resp.JobID, "A summary.", 88, false))

	result, err := svc.GetResult(ctx, resp.JobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, result.Status)
	assert.Equal(t, "A summary.", result.Summary)
	require.NotNil(t, result.ProcessingTimeMs)
	assert.Equal(t, int64(88), *result.ProcessingTimeMs)
	assert.False(t, result.Cached)
	assert.Empty(t, result.Message)

	// Reads are side-effect free: repeated polls return the same thing.
	again, err := svc.GetResult(ctx, resp.JobID)
	require.NoError(t, err)
	assert.Equal(t, result, again)
}

func TestSummarize_Sync(t *testing.T) {
	svc, _, _ := newTestService(t)

	result, err := svc.Summarize(context.Background(), loremText)
	require.NoError(t, err)
	assert.Equal(t, "A summary.", result.Summary)
	assert.GreaterOrEqual(t, result.ProcessingTimeMs, int64(0))
}

func TestSummarize_SyncError(t *testing.T) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	jobStore := store.NewJobStore(redisClient, 24*time.Hour)
	providerErr := errors.New("provider exploded")
	svc := NewSummaryService(jobStore, &fakeEnqueuer{}, &fakeSummarizer{err: providerErr})

	_, err := svc.Summarize(context.Background(), loremText)
	assert.ErrorIs(t, err, providerErr)
}
