package formatter

import (
	"encoding/json"

	"github.com/futig/partner-backend/internal/entity"
)

const jsonFileExtension = ".json"

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (jf *JSONFormatter) Format(result entity.SuggestionResult) ([]byte, error) {
	out, err := json.MarshalIndent(struct {
		entity.FormSnapshot
		Markdown string `json:"markdown"`
	}{
		FormSnapshot: result.Snapshot,
		Markdown:     result.Markdown,
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func (jf *JSONFormatter) FileExtension() string {
	return jsonFileExtension
}
