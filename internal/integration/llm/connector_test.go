package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futig/partner-backend/internal/config"
	"github.com/futig/partner-backend/internal/entity"
	pkgRetry "github.com/futig/partner-backend/internal/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const completionJSON = `{
  "id": "gen-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "deepseek/deepseek-chat",
  "choices": [
    {"index": 0, "message": {"role": "assistant", "content": "1. ...\n2. ...\n3. ..."}, "finish_reason": "stop"}
  ],
  "usage": {"prompt_tokens": 320, "completion_tokens": 90, "total_tokens": 410}
}`

func testConfig(url string, attempts uint) config.LLMConnectorConfig {
	return config.LLMConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			RequestTimeout:        5 * time.Second,
			ConnTimeout:           time.Second,
			KeepAlive:             time.Second,
			IdleConnTimeout:       time.Second,
			ResponseHeaderTimeout: 5 * time.Second,
			Token:                 "test-key",
			Url:                   url,
		},
		Provider:  config.ProviderOpenAI,
		SiteURL:   "https://partner.example.com",
		SiteTitle: "Chat with Partner",
		Retry: pkgRetry.RetryConfig{
			Attempts: attempts,
			Delay:    time.Millisecond,
			MaxDelay: 5 * time.Millisecond,
		},
	}
}

func testRequest() *entity.CompletionRequest {
	return &entity.CompletionRequest{
		Model:       "deepseek/deepseek-chat",
		System:      "system prompt",
		User:        "user prompt",
		Temperature: 0.8,
		MaxTokens:   600,
	}
}

type chatBody struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func TestConnector_Complete(t *testing.T) {
	var got chatBody
	var headers http.Header

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		headers = r.Header.Clone()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionJSON))
	}))
	defer srv.Close()

	conn := NewConnector(testConfig(srv.URL, 1), zap.NewNop())

	content, err := conn.Complete(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "1. ...\n2. ...\n3. ...", content)

	assert.Equal(t, "Bearer test-key", headers.Get("Authorization"))
	assert.Equal(t, "https://partner.example.com", headers.Get("HTTP-Referer"))
	assert.Equal(t, "Chat with Partner", headers.Get("X-Title"))

	assert.Equal(t, "deepseek/deepseek-chat", got.Model)
	assert.InDelta(t, 0.8, got.Temperature, 1e-6)
	assert.Equal(t, 600, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "system prompt", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "user prompt", got.Messages[1].Content)
}

func TestConnector_Complete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"gen-2","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	content, err := NewConnector(testConfig(srv.URL, 1), zap.NewNop()).Complete(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestConnector_Complete_UpstreamError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
	}))
	defer srv.Close()

	_, err := NewConnector(testConfig(srv.URL, 1), zap.NewNop()).Complete(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream exploded")
	assert.Equal(t, int32(1), calls.Load(), "a single attempt is made by default")
}

func TestConnector_Complete_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"message":"busy","type":"server_error"}}`))
			return
		}
		_, _ = w.Write([]byte(completionJSON))
	}))
	defer srv.Close()

	content, err := NewConnector(testConfig(srv.URL, 3), zap.NewNop()).Complete(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "1. ...\n2. ...\n3. ...", content)
	assert.Equal(t, int32(2), calls.Load())
}

func TestConnector_Complete_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"auth_error"}}`))
	}))
	defer srv.Close()

	_, err := NewConnector(testConfig(srv.URL, 3), zap.NewNop()).Complete(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
	assert.Equal(t, int32(1), calls.Load())
}

func TestMockConnector_Complete(t *testing.T) {
	content, err := NewMockConnector(zap.NewNop()).Complete(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Contains(t, content, "1. ")
	assert.Contains(t, content, "2. ")
	assert.Contains(t, content, "3. ")
}
