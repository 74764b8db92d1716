package suggestion

import (
	"context"

	"github.com/futig/partner-backend/internal/entity"
)

type SuggestionUsecase interface {
	CheckConfigured() error
	Generate(ctx context.Context, input *entity.SuggestionInput) (string, error)
}
