package suggestion

import (
	"context"

	"github.com/futig/partner-backend/internal/entity"
)

// TextCompletionProvider turns a system+user prompt pair into generated text.
type TextCompletionProvider interface {
	Complete(ctx context.Context, req *entity.CompletionRequest) (string, error)
	Name() string
}
