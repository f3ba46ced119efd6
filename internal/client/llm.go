package client

import (
	"context"
	"fmt"
)

// Summarizer is the summarization capability. One implementation is
// selected at startup; the rest of the system only sees this interface.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
	IsConfigured() bool
}

// Extractor is the page-content extraction capability.
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// SummarizeErrorKind classifies provider failures so callers can react
// with a plain switch instead of unwrapping provider-specific errors.
type SummarizeErrorKind string

const (
	SummarizeMissingCredential SummarizeErrorKind = "missing credential"
	SummarizeConnection        SummarizeErrorKind = "connection error"
	SummarizeTimeout           SummarizeErrorKind = "timeout"
	SummarizeAuthFailed        SummarizeErrorKind = "authentication failed"
	SummarizeEmptyResponse     SummarizeErrorKind = "empty response"
	SummarizeProviderError     SummarizeErrorKind = "provider error"
)

// SummarizeError tags a provider failure with its kind.
type SummarizeError struct {
	Kind SummarizeErrorKind
	Err  error
}

func (e *SummarizeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *SummarizeError) Unwrap() error {
	return e.Err
}

func summarizeErr(kind SummarizeErrorKind, err error) *SummarizeError {
	return &SummarizeError{Kind: kind, Err: err}
}

// ExtractErrorKind classifies page extraction failures.
type ExtractErrorKind string

const (
	ExtractInvalidURL   ExtractErrorKind = "invalid URL"
	ExtractBadStatus    ExtractErrorKind = "bad response status"
	ExtractNetworkError ExtractErrorKind = "network error"
	ExtractTooShort     ExtractErrorKind = "content too short or unparseable"
)

// ExtractError tags an extraction failure with its kind.
type ExtractError struct {
	Kind ExtractErrorKind
	Err  error
}

func (e *ExtractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

func extractErr(kind ExtractErrorKind, err error) *ExtractError {
	return &ExtractError{Kind: kind, Err: err}
}

// summaryPrompt is the instruction sent to every provider.
const summaryPrompt = "Summarize the following text clearly and concisely in 5-7 sentences:\n\n"
