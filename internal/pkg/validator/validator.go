package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/futig/partner-backend/internal/entity"
)

// Validator validates generation requests
type Validator struct {
	minIntimacy int
	maxIntimacy int
}

func NewValidator() *Validator {
	return &Validator{
		minIntimacy: entity.MinIntimacy,
		maxIntimacy: entity.MaxIntimacy,
	}
}

// ValidateGenerate checks background, then intimacy, and fills in the default tone.
func (v *Validator) ValidateGenerate(req *entity.GenerateRequest) (*entity.SuggestionInput, error) {
	background, ok := req.Background.(string)
	if !ok || background == "" {
		return nil, fmt.Errorf("%w: background", entity.ErrMissingBackground)
	}

	intimacy, err := v.parseIntimacy(req.Intimacy)
	if err != nil {
		return nil, err
	}

	tone, ok := req.Tone.(string)
	if !ok || tone == "" {
		tone = string(entity.DefaultTone)
	}

	return &entity.SuggestionInput{
		Background: background,
		Intimacy:   intimacy,
		Tone:       tone,
	}, nil
}

// parseIntimacy accepts JSON numbers and numeric strings within the configured
// bounds. Fractions pass through unchanged; strings may carry a 0x, 0o or 0b
// prefix.
func (v *Validator) parseIntimacy(raw any) (float64, error) {
	var value float64

	switch t := raw.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", entity.ErrInvalidIntimacy, t.String())
		}
		value = f
	case float64:
		value = t
	case int:
		value = float64(t)
	case string:
		f, err := parseNumericString(t)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", entity.ErrInvalidIntimacy, err)
		}
		value = f
	case nil:
		return 0, fmt.Errorf("%w: missing", entity.ErrInvalidIntimacy)
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", entity.ErrInvalidIntimacy, raw)
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %v is not a finite number", entity.ErrInvalidIntimacy, value)
	}

	if value < float64(v.minIntimacy) || value > float64(v.maxIntimacy) {
		return 0, fmt.Errorf("%w: %v is out of range [%d, %d]", entity.ErrInvalidIntimacy, value, v.minIntimacy, v.maxIntimacy)
	}

	return value, nil
}

var radixPrefixes = map[string]int{"0x": 16, "0o": 8, "0b": 2}

func parseNumericString(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errors.New("empty value")
	}

	if len(s) > 2 {
		if base, ok := radixPrefixes[strings.ToLower(s[:2])]; ok {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return 0, fmt.Errorf("%q is not a number", raw)
			}
			return float64(n), nil
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	return f, nil
}
