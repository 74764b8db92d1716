package formatter

import (
	"fmt"

	"github.com/futig/partner-backend/internal/entity"
)

const baseTitle = "Chat with Partner"

type Formatter interface {
	Format(result entity.SuggestionResult) ([]byte, error)
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatText:
		return NewTextFormatter(), nil
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatJSON:
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
