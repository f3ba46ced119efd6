package model

import "time"

// SubmitRequest is the payload for POST /submit. Exactly one of Text or
// URL must be provided; the service enforces the exactly-one rule, the
// validator enforces per-field constraints.
type SubmitRequest struct {
	Text string `json:"text" validate:"omitempty,min=50,max=12000"`
	URL  string `json:"url" validate:"omitempty,url"`
}

// SubmitResponse acknowledges a queued job.
type SubmitResponse struct {
	JobID  string    `json:"jobId"`
	Status JobStatus `json:"status"`
}

// StatusResponse is the polling projection of a job's lifecycle state.
type StatusResponse struct {
	JobID     string    `json:"jobId"`
	Status    JobStatus `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ResultResponse carries the terminal fields of a job. For a job still
// in flight it carries the current status and a message instead — that
// is a normal response, not an error.
type ResultResponse struct {
	JobID            string    `json:"jobId"`
	Status           JobStatus `json:"status"`
	Summary          string    `json:"summary,omitempty"`
	ProcessingTimeMs *int64    `json:"processingTimeMs,omitempty"`
	Cached           bool      `json:"cached"`
	ErrorMessage     string    `json:"errorMessage,omitempty"`
	Message          string    `json:"message,omitempty"`
}

// SummarizeRequest is the payload for the synchronous POST /summarize.
type SummarizeRequest struct {
	Text string `json:"text" validate:"required,min=50,max=12000"`
}

// SummarizeResponse is the synchronous summarization result.
type SummarizeResponse struct {
	Summary          string `json:"summary"`
	ProcessingTimeMs int64  `json:"processingTimeMs"`
}
