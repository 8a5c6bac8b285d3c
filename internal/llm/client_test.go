package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asimmons-coder/internal-coach-matching/internal/logger"
)

func messageResponse(content string) string {
	return `{
		"id": "msg_test",
		"type": "message",
		"role": "assistant",
		"model": "claude-sonnet-4-20250514",
		"content": ` + content + `,
		"stop_reason": "end_turn",
		"stop_sequence": null,
		"usage": {"input_tokens": 12, "output_tokens": 34}
	}`
}

func newTestClient(t *testing.T, srv *httptest.Server, timeout time.Duration) *AnthropicClient {
	t.Helper()
	client, err := NewAnthropicClient(Config{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Timeout: timeout,
	}, logger.NewNop())
	require.NoError(t, err)
	return client
}

func TestAnthropicClientCompleteSendsPromptAndReturnsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"), "path %s", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		var body struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
			System    []struct {
				Text string `json:"text"`
			} `json:"system"`
			Messages []struct {
				Role    string `json:"role"`
				Content []struct {
					Type string `json:"type"`
					Text string `json:"text"`
				} `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, DefaultModel, body.Model)
		assert.Equal(t, DefaultMaxTokens, body.MaxTokens)
		require.Len(t, body.System, 1)
		assert.Equal(t, "system prompt", body.System[0].Text)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)
		require.Len(t, body.Messages[0].Content, 1)
		assert.Equal(t, "user prompt", body.Messages[0].Content[0].Text)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messageResponse(`[{"type":"text","text":"{\"ok\":true}"}]`)))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, time.Second)
	text, err := client.Complete(context.Background(), CompletionRequest{System: "system prompt", User: "user prompt"})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)
}

func TestAnthropicClientRejectsNonTextContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messageResponse(`[{"type":"tool_use","id":"toolu_1","name":"lookup","input":{}}]`)))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, time.Second)
	_, err := client.Complete(context.Background(), CompletionRequest{System: "s", User: "u"})
	require.ErrorIs(t, err, ErrUnexpectedContent)
	assert.Contains(t, err.Error(), "tool_use")
}

func TestAnthropicClientRejectsEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messageResponse(`[]`)))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, time.Second)
	_, err := client.Complete(context.Background(), CompletionRequest{System: "s", User: "u"})
	assert.ErrorIs(t, err, ErrUnexpectedContent)
}

func TestAnthropicClientDoesNotRetryServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, time.Second)
	_, err := client.Complete(context.Background(), CompletionRequest{System: "s", User: "u"})
	require.ErrorIs(t, err, ErrCompletionFailed)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAnthropicClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 50*time.Millisecond)
	_, err := client.Complete(context.Background(), CompletionRequest{System: "s", User: "u"})
	require.ErrorIs(t, err, ErrCompletionFailed)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestNewAnthropicClientValidatesConfig(t *testing.T) {
	_, err := NewAnthropicClient(Config{}, logger.NewNop())
	assert.Error(t, err)

	_, err = NewAnthropicClient(Config{APIKey: "k"}, nil)
	assert.Error(t, err)

	client, err := NewAnthropicClient(Config{APIKey: "k", Model: "claude-custom"}, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "claude-custom", client.Model())
}
