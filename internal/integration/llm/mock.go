package llm

import (
	"context"
	"unicode/utf8"

	"github.com/futig/partner-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const mockSuggestions = `1. 我不是气你加班，是气我们说好的事总被临时取消。下次有变动，能不能第一时间告诉我，再一起定个补偿的时间？
2. 我需要的是被放在计划里。你这周挑一个晚上完全留给我们，手机静音，可以吗？
3. 如果工作真的推不掉，我理解；但请你先开口跟我商量，而不是让我最后一个知道。（台阶版：我知道你也累，我们周末补一顿好吃的，好吗？）`

// MockConnector returns canned suggestions without calling any API.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Name() string {
	return "mock"
}

func (m *MockConnector) Complete(ctx context.Context, req *entity.CompletionRequest) (string, error) {
	ctxzap.Info(ctx, "[MOCK] requesting chat completion",
		zap.String("model", req.Model),
		zap.Int("user_prompt_length", utf8.RuneCountInString(req.User)),
	)

	ctxzap.Info(ctx, "[MOCK] chat completion received", zap.Int("result_length", utf8.RuneCountInString(mockSuggestions)))
	return mockSuggestions, nil
}
