package llm

import (
	"context"
	"errors"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/futig/partner-backend/internal/config"
	"github.com/futig/partner-backend/internal/entity"
	"github.com/futig/partner-backend/internal/integration/common"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Connector talks to an OpenAI-compatible chat-completions API (OpenRouter by default).
type Connector struct {
	config config.LLMConnectorConfig
	client *openai.Client
	logger *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	clientCfg := openai.DefaultConfig(cfg.Token)
	clientCfg.BaseURL = cfg.Url
	clientCfg.HTTPClient = common.NewBaseClient(cfg.HTTPClientConfig, attributionHeaders(cfg))

	return &Connector{
		config: cfg,
		client: openai.NewClientWithConfig(clientCfg),
		logger: logger,
	}
}

func (c *Connector) Name() string {
	return config.ProviderOpenAI
}

// Complete sends the system and user messages and returns the first choice's
// content, or an empty string when the API returns no choices.
func (c *Connector) Complete(ctx context.Context, req *entity.CompletionRequest) (string, error) {
	ctxzap.Info(ctx, "requesting chat completion", zap.String("model", req.Model))

	chatReq := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	var resp openai.ChatCompletionResponse
	err := retry.Do(
		func() error {
			var err error
			resp, err = c.client.CreateChatCompletion(ctx, chatReq)
			return err
		},
		append(c.config.Retry.ToRetryOptions(ctx),
			retry.RetryIf(isRetryable),
			retry.OnRetry(func(n uint, err error) {
				ctxzap.Warn(ctx, "chat completion attempt failed", zap.Uint("attempt", n+1), zap.Error(err))
			}),
		)...,
	)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		ctxzap.Warn(ctx, "chat completion returned no choices")
		return "", nil
	}

	content := resp.Choices[0].Message.Content

	ctxzap.Info(ctx, "chat completion received",
		zap.Int("choices", len(resp.Choices)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return content, nil
}

// isRetryable skips client errors: repeating them cannot succeed.
func isRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode >= http.StatusInternalServerError ||
			apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return !errors.Is(err, context.Canceled)
}

// attributionHeaders are the optional OpenRouter ranking headers.
func attributionHeaders(cfg config.LLMConnectorConfig) map[string]string {
	return map[string]string{
		"HTTP-Referer": cfg.SiteURL,
		"X-Title":      cfg.SiteTitle,
	}
}
