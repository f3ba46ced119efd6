package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"github.com/summarly/api/internal/cache"
	"github.com/summarly/api/internal/client"
	"github.com/summarly/api/internal/model"
	"github.com/summarly/api/internal/store"
)

// SummaryWorker processes summarization jobs. One task per job; the
// outcome is always recorded on the job record, never surfaced as a
// task error, so the queue never re-delivers a job the store already
// settled.
type SummaryWorker struct {
	store      *store.JobStore
	cache      *cache.SummaryCache
	extractor  client.Extractor
	summarizer client.Summarizer
}

// NewSummaryWorker creates a new summary worker.
func NewSummaryWorker(jobStore *store.JobStore, summaryCache *cache.SummaryCache, extractor client.Extractor, summarizer client.Summarizer) *SummaryWorker {
	return &SummaryWorker{
		store:      jobStore,
		cache:      summaryCache,
		extractor:  extractor,
		summarizer: summarizer,
	}
}

// ProcessTask handles one summary task end to end.
func (w *SummaryWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload struct {
		JobID string `json:"jobId"`
	}
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	jobID := payload.JobID
	log.Printf("Picked up job: %s", jobID)

	job, err := w.store.MarkProcessing(ctx, jobID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrJobNotFound):
			log.Printf("Job %s not found, dropping message", jobID)
			return nil
		case errors.Is(err, store.ErrNotQueued):
			log.Printf("Job %s not in queued state, skipping duplicate delivery", jobID)
			return nil
		}
		return fmt.Errorf("failed to mark job %s processing: %w", jobID, err)
	}

	// A single bad job must never take the worker down with it.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic while processing job %s: %v", jobID, r)
			w.failJob(ctx, jobID, "Internal worker error")
		}
	}()

	content, err := w.resolveContent(ctx, job)
	if err != nil {
		log.Printf("Extraction failed for job %s: %v", jobID, err)
		w.failJob(ctx, jobID, fmt.Sprintf("Extraction failed: %v", err))
		return nil
	}

	fingerprint := cache.Fingerprint(content)

	summary, err := w.cache.Get(ctx, fingerprint)
	if err == nil {
		log.Printf("Cache hit for job %s", jobID)
		return w.completeJob(ctx, jobID, summary, 0, true)
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		// Lookup failure degrades to a miss.
		log.Printf("Cache lookup failed for job %s: %v", jobID, err)
	}

	log.Printf("Cache miss for job %s, calling provider", jobID)
	start := time.Now()
	summary, err = w.summarizer.Summarize(ctx, content)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		log.Printf("Summarization failed for job %s: %v", jobID, err)
		w.failJob(ctx, jobID, fmt.Sprintf("Summarization failed: %v", err))
		return nil
	}
	// Zero duration is reserved for cache hits.
	if elapsed < 1 {
		elapsed = 1
	}

	// Cache write is best-effort; the job completes either way.
	if err := w.cache.Set(ctx, fingerprint, summary); err != nil {
		log.Printf("Cache write failed for job %s: %v", jobID, err)
	}

	return w.completeJob(ctx, jobID, summary, elapsed, false)
}

// resolveContent returns the text to summarize. Text input is used as
// is; URL input goes through the extraction capability.
func (w *SummaryWorker) resolveContent(ctx context.Context, job *model.Job) (string, error) {
	if job.InputType != model.InputTypeURL {
		return job.InputValue, nil
	}
	return w.extractor.Extract(ctx, job.InputValue)
}

func (w *SummaryWorker) completeJob(ctx context.Context, jobID, summary string, elapsedMs int64, cached bool) error {
	if err := w.store.Complete(ctx, jobID, summary, elapsedMs, cached); err != nil {
		return fmt.Errorf("failed to complete job %s: %w", jobID, err)
	}
	log.Printf("Job %s completed (cached=%t, %dms)", jobID, cached, elapsedMs)
	return nil
}

func (w *SummaryWorker) failJob(ctx context.Context, jobID, msg string) {
	if err := w.store.Fail(ctx, jobID, msg); err != nil {
		log.Printf("Failed to mark job %s failed: %v", jobID, err)
	}
}
