package suggestion

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/futig/partner-backend/internal/entity"
	"github.com/futig/partner-backend/internal/metrics"
	"github.com/futig/partner-backend/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// SuggestionUsecase implements suggestion generation
type SuggestionUsecase struct {
	provider      TextCompletionProvider
	credentialSet bool
	logger        *zap.Logger
}

// NewUsecase creates a new suggestion use case. credentialSet reports whether
// the provider's API credential is configured.
func NewUsecase(
	provider TextCompletionProvider,
	credentialSet bool,
	logger *zap.Logger,
) *SuggestionUsecase {
	return &SuggestionUsecase{
		provider:      provider,
		credentialSet: credentialSet,
		logger:        logger,
	}
}

// CheckConfigured fails with entity.ErrNotConfigured when no credential is set.
func (uc *SuggestionUsecase) CheckConfigured() error {
	if !uc.credentialSet {
		return entity.ErrNotConfigured
	}
	return nil
}

// Generate builds the prompt for input and returns the provider's raw markdown.
// The output shape is not validated.
func (uc *SuggestionUsecase) Generate(ctx context.Context, input *entity.SuggestionInput) (string, error) {
	if err := uc.CheckConfigured(); err != nil {
		return "", err
	}

	ctx = logger.AddFields(ctx,
		zap.String("generation_id", uuid.New().String()),
		zap.String("provider", uc.provider.Name()),
	)

	req := BuildCompletionRequest(input)

	ctxzap.Info(ctx, "requesting suggestions",
		zap.Int("background_length", utf8.RuneCountInString(input.Background)),
		zap.Float64("intimacy", input.Intimacy),
		zap.String("tone", input.Tone),
		zap.String("model", req.Model),
	)

	start := time.Now()
	markdown, err := uc.provider.Complete(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		metrics.CompletionDuration.WithLabelValues(uc.provider.Name(), "error").Observe(elapsed.Seconds())
		ctxzap.Error(ctx, "completion failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return "", fmt.Errorf("complete chat: %w", err)
	}

	metrics.CompletionDuration.WithLabelValues(uc.provider.Name(), "ok").Observe(elapsed.Seconds())
	metrics.CompletionLength.Observe(float64(utf8.RuneCountInString(markdown)))

	ctxzap.Info(ctx, "suggestions generated",
		zap.Int("result_length", utf8.RuneCountInString(markdown)),
		zap.Duration("elapsed", elapsed),
	)

	return markdown, nil
}
