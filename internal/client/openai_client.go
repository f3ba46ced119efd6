package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/summarly/api/internal/config"
)

const openAIMaxTokens = 500

// OpenAIClient summarizes text through OpenAI's Chat Completions API.
type OpenAIClient struct {
	client openai.Client
	apiKey string
	model  string
}

// NewOpenAIClient creates a new OpenAI-backed summarizer.
func NewOpenAIClient(cfg *config.OpenAIConfig) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}
}

// Summarize produces a summary of the given text. Failures are returned
// as *SummarizeError with a classified kind.
func (c *OpenAIClient) Summarize(ctx context.Context, text string) (string, error) {
	if c.apiKey == "" {
		return "", summarizeErr(SummarizeMissingCredential, errors.New("OPENAI_API_KEY is not set"))
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(summaryPrompt + text),
		},
		MaxCompletionTokens: openai.Int(openAIMaxTokens),
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", summarizeErr(SummarizeEmptyResponse, errors.New("no choices in response"))
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", summarizeErr(SummarizeEmptyResponse, errors.New("choice message content is empty"))
	}

	return summary, nil
}

// IsConfigured returns true if the client has valid configuration.
func (c *OpenAIClient) IsConfigured() bool {
	return c.apiKey != ""
}

func classifyOpenAIError(err error) *SummarizeError {
	if errors.Is(err, context.DeadlineExceeded) {
		return summarizeErr(SummarizeTimeout, err)
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return summarizeErr(SummarizeAuthFailed, err)
		default:
			return summarizeErr(SummarizeProviderError, fmt.Errorf("status %d: %w", apiErr.StatusCode, err))
		}
	}

	// Anything that never produced an API response is a transport problem.
	return summarizeErr(SummarizeConnection, err)
}
