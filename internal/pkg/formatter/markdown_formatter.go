package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/futig/partner-backend/internal/entity"
)

const markdownFileExtension = ".md"

// MarkdownFormatter renders a standalone document: title, the inputs as a quote, then the suggestions.
type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(result entity.SuggestionResult) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", baseTitle)

	for _, line := range strings.Split(strings.TrimSpace(result.Snapshot.Background), "\n") {
		fmt.Fprintf(&buf, "> %s\n", line)
	}
	fmt.Fprintf(&buf, ">\n> 亲密度：%d · 语气：%s\n\n", result.Snapshot.Intimacy, result.Snapshot.Tone)

	fmt.Fprintf(&buf, "%s\n", strings.TrimSpace(result.Markdown))
	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
