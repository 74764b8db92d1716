package entity

import "slices"

type Tone string

// Tones offered by the form. The server accepts any label.
const (
	ToneGentle   Tone = "温和"
	ToneDirect   Tone = "直接"
	ToneFirm     Tone = "坚定"
	ToneHumorous Tone = "幽默"
	ToneRational Tone = "理性"
	ToneCaring   Tone = "关怀"
)

const DefaultTone = ToneRational

const (
	MinIntimacy     = 1
	MaxIntimacy     = 10
	DefaultIntimacy = 6
)

// Tones lists the labels in display order.
var Tones = []Tone{ToneGentle, ToneDirect, ToneFirm, ToneHumorous, ToneRational, ToneCaring}

func (t Tone) IsValid() bool {
	return slices.Contains(Tones, t)
}

// GenerateRequest is the raw body of POST /api/generate. Fields are kept
// untyped so the validator can tell "missing" from "wrong type".
type GenerateRequest struct {
	Background any `json:"background"`
	Intimacy   any `json:"intimacy"`
	Tone       any `json:"tone,omitempty"`
}

// SuggestionInput is a validated GenerateRequest.
type SuggestionInput struct {
	Background string
	Intimacy   float64
	Tone       string
}

type GenerateResponse struct {
	Markdown string `json:"markdown"`
}

// FormSnapshot is what the form client persists and what it sends to the server.
type FormSnapshot struct {
	Background string `json:"background"`
	Intimacy   int    `json:"intimacy"`
	Tone       Tone   `json:"tone"`
}

// ResultFormat selects how the client prints a generated result.
type ResultFormat string

const (
	FormatText     ResultFormat = "text"
	FormatMarkdown ResultFormat = "markdown"
	FormatJSON     ResultFormat = "json"
)

// SuggestionResult is a generated result together with the inputs that produced it.
type SuggestionResult struct {
	Snapshot FormSnapshot
	Markdown string
}
