package model

import "time"

// Job represents a summarization job in the system.
// The record is the source of truth for the job's lifecycle; the work
// queue only carries its ID.
type Job struct {
	ID               string    `json:"id"`
	InputType        InputType `json:"inputType"`
	InputValue       string    `json:"inputValue"`
	Status           JobStatus `json:"status"`
	Summary          string    `json:"summary,omitempty"`
	ErrorMessage     string    `json:"errorMessage,omitempty"`
	ProcessingTimeMs int64     `json:"processingTimeMs"`
	Cached           bool      `json:"cached"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Terminal reports whether the job has reached an absorbing state.
// Completed and failed jobs never transition again.
func (j *Job) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}
