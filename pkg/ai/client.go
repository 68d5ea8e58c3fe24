// Package ai talks to chat-completion providers and decodes their replies.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ErrUpstream matches every failure of the completion provider itself, as
// opposed to a reply that could not be decoded.
var ErrUpstream = errors.New("completion provider request failed")

// Request is a single system+user chat completion.
type Request struct {
	// Feature names the product feature for logs and metrics.
	Feature     string
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

//go:generate mockgen -source=./client.go -package=aimocks -destination=./mocks/completer.mock.go Completer
type Completer interface {
	// Complete performs exactly one provider call and returns the text of
	// the first choice.
	Complete(ctx context.Context, req Request) (string, error)
}

// UpstreamError carries the provider's HTTP status when one is known.
type UpstreamError struct {
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("completion provider returned status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("completion provider: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIClient calls an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient builds a client that never retries on its own; callers
// decide whether a failed, paid request is worth repeating.
func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIClient{client: openai.NewClient(opts...), model: model}
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		}),
		Model:       openai.F(openai.ChatModel(c.model)),
		Temperature: openai.F(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.F(int64(req.MaxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		status := 0
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		slog.Error("completion request failed", "feature", req.Feature, "model", c.model,
			"status", status, "detail", Truncate(err.Error(), 300))
		return "", &UpstreamError{Status: status, Err: err}
	}
	if len(resp.Choices) == 0 {
		slog.Error("completion returned no choices", "feature", req.Feature, "model", c.model)
		return "", &UpstreamError{Err: errors.New("no choices in reply")}
	}
	return resp.Choices[0].Message.Content, nil
}

// Truncate shortens s to at most n bytes for logging without splitting a
// rune.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "...(truncated)"
}
