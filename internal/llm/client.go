package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/asimmons-coder/internal-coach-matching/internal/logger"
)

const (
	DefaultModel     = "claude-sonnet-4-20250514"
	DefaultMaxTokens = 4000
	DefaultTimeout   = 120 * time.Second
)

// CompletionRequest is a two-part prompt: the system segment carries the role,
// rules and context, the user segment carries the caller's request.
type CompletionRequest struct {
	System string
	User   string
}

// Completer returns a single text completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int64
	Timeout   time.Duration
}

// AnthropicClient issues one blocking Messages API call per completion.
// SDK retries are disabled; a failed call fails the request.
type AnthropicClient struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
	log       *logger.Logger
}

func NewAnthropicClient(cfg Config, log *logger.Logger) (*AnthropicClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &AnthropicClient{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
		log:       log.With("service", "AnthropicClient", "model", model),
	}, nil
}

func (c *AnthropicClient) Model() string {
	return c.model
}

func (c *AnthropicClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: req.System}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	})
	latency := time.Since(start)
	if err != nil {
		c.log.Warn("completion failed", "latency_ms", latency.Milliseconds(), "error", err)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %w after %s", ErrCompletionFailed, ErrTimeout, c.timeout)
		}
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: status %d: %v", ErrCompletionFailed, apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}

	if len(message.Content) == 0 {
		return "", fmt.Errorf("%w: empty content", ErrUnexpectedContent)
	}
	block := message.Content[0]
	if block.Type != "text" {
		return "", fmt.Errorf("%w: got %q block", ErrUnexpectedContent, block.Type)
	}

	c.log.Debug("completion finished",
		"latency_ms", latency.Milliseconds(),
		"input_tokens", message.Usage.InputTokens,
		"output_tokens", message.Usage.OutputTokens,
		"stop_reason", message.StopReason,
	)
	return block.Text, nil
}
