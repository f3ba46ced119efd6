package model

// Job status
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Input types
type InputType string

const (
	InputTypeText InputType = "text"
	InputTypeURL  InputType = "url"
)

// Summarization providers
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGroq   Provider = "groq"
)

var ValidProviders = []Provider{ProviderOpenAI, ProviderGroq}
