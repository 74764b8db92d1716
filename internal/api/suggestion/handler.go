package suggestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/futig/partner-backend/internal/entity"
	"github.com/futig/partner-backend/internal/metrics"
	"github.com/futig/partner-backend/internal/pkg/logger"
	"github.com/futig/partner-backend/internal/pkg/response"
	"github.com/futig/partner-backend/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// User-facing error messages
const (
	msgNotConfigured     = "服务未配置：缺少 OPENROUTER_API_KEY"
	msgMissingBackground = "缺少背景描述"
	msgInvalidIntimacy   = "亲密度需为1-10"
	msgGenerationFailed  = "生成失败"
)

type Handler struct {
	usecase   SuggestionUsecase
	validator *validator.Validator
}

func NewHandler(
	usecase SuggestionUsecase,
	validator *validator.Validator,
) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// Generate handles POST /api/generate - Generate three reply suggestions
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GenerateSuggestions")

	// The credential is checked before the body is read.
	if err := h.usecase.CheckConfigured(); err != nil {
		h.handleError(ctx, w, err)
		return
	}

	var req entity.GenerateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		h.handleError(ctx, w, fmt.Errorf("%w: %w", entity.ErrMalformedBody, err))
		return
	}

	input, err := h.validator.ValidateGenerate(&req)
	if err != nil {
		h.handleError(ctx, w, err)
		return
	}

	ctx = logger.AddFields(ctx,
		zap.Float64("intimacy", input.Intimacy),
		zap.String("tone", input.Tone),
	)

	markdown, err := h.usecase.Generate(ctx, input)
	if err != nil {
		h.handleError(ctx, w, err)
		return
	}

	metrics.GenerationsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	ctxzap.Info(ctx, "suggestions returned")

	response.Success(w, entity.GenerateResponse{Markdown: markdown})
}

// handleError maps domain errors to a status, a metric outcome and the message shown to the user.
func (h *Handler) handleError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrNotConfigured):
		h.respondError(ctx, w, http.StatusInternalServerError, metrics.OutcomeNotConfigured, msgNotConfigured, err)
	case errors.Is(err, entity.ErrMissingBackground):
		h.respondError(ctx, w, http.StatusBadRequest, metrics.OutcomeInvalidInput, msgMissingBackground, err)
	case errors.Is(err, entity.ErrInvalidIntimacy):
		h.respondError(ctx, w, http.StatusBadRequest, metrics.OutcomeInvalidInput, msgInvalidIntimacy, err)
	case errors.Is(err, entity.ErrMalformedBody):
		h.respondError(ctx, w, http.StatusInternalServerError, metrics.OutcomeMalformedBody, err.Error(), err)
	default:
		message := rootMessage(err)
		if message == "" {
			message = msgGenerationFailed
		}
		h.respondError(ctx, w, http.StatusInternalServerError, metrics.OutcomeUpstreamError, message, err)
	}
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, outcome, message string, err error) {
	metrics.GenerationsTotal.WithLabelValues(outcome).Inc()

	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, "generate suggestions failed", zap.Int("status", status), zap.Error(err))
	} else {
		ctxzap.Warn(ctx, "generate suggestions rejected", zap.Int("status", status), zap.Error(err))
	}

	response.Error(w, status, message)
}

// rootMessage returns the message of the innermost wrapped error, which is what the upstream reported.
func rootMessage(err error) string {
	for {
		inner := errors.Unwrap(err)
		if inner == nil {
			return err.Error()
		}
		err = inner
	}
}
