package llm

import (
	"context"
	"fmt"

	einoopenai "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/futig/partner-backend/internal/config"
	"github.com/futig/partner-backend/internal/entity"
	"github.com/futig/partner-backend/internal/integration/common"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// EinoConnector drives the same OpenAI-compatible API through an eino ChatModel.
// Unlike Connector it reports an upstream answer without choices as an error.
type EinoConnector struct {
	chatModel model.BaseChatModel
	logger    *zap.Logger
}

func NewEinoConnector(
	ctx context.Context,
	cfg config.LLMConnectorConfig,
	modelName string,
	logger *zap.Logger,
) (*EinoConnector, error) {
	chatModel, err := einoopenai.NewChatModel(ctx, &einoopenai.ChatModelConfig{
		APIKey:     cfg.Token,
		BaseURL:    cfg.Url,
		Model:      modelName,
		HTTPClient: common.NewBaseClient(cfg.HTTPClientConfig, attributionHeaders(cfg)),
	})
	if err != nil {
		return nil, fmt.Errorf("create eino chat model: %w", err)
	}

	return &EinoConnector{
		chatModel: chatModel,
		logger:    logger,
	}, nil
}

func (c *EinoConnector) Name() string {
	return config.ProviderEino
}

func (c *EinoConnector) Complete(ctx context.Context, req *entity.CompletionRequest) (string, error) {
	ctxzap.Info(ctx, "requesting chat completion via eino", zap.String("model", req.Model))

	messages := []*schema.Message{
		schema.SystemMessage(req.System),
		schema.UserMessage(req.User),
	}

	resp, err := c.chatModel.Generate(ctx, messages,
		model.WithModel(req.Model),
		model.WithTemperature(req.Temperature),
		model.WithMaxTokens(req.MaxTokens),
	)
	if err != nil {
		return "", err
	}

	if resp.ResponseMeta != nil && resp.ResponseMeta.Usage != nil {
		ctxzap.Info(ctx, "chat completion received",
			zap.Int("prompt_tokens", resp.ResponseMeta.Usage.PromptTokens),
			zap.Int("completion_tokens", resp.ResponseMeta.Usage.CompletionTokens),
		)
	}

	return resp.Content, nil
}
