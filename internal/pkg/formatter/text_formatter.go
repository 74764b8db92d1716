package formatter

import (
	"strings"

	"github.com/futig/partner-backend/internal/entity"
)

const textFileExtension = ".txt"

// TextFormatter prints the suggestions exactly as generated.
type TextFormatter struct{}

func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

func (tf *TextFormatter) Format(result entity.SuggestionResult) ([]byte, error) {
	return []byte(strings.TrimRight(result.Markdown, "\n") + "\n"), nil
}

func (tf *TextFormatter) FileExtension() string {
	return textFileExtension
}
