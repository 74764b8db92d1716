package keyboard

import (
	"strconv"

	"github.com/futig/partner-backend/internal/client/form"
	"github.com/futig/partner-backend/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	tonesPerRow     = 3
	intimacyPerRow  = 5
	selectedMark    = "✅"
	submitButtonTag = "💬 "
)

// Builder creates inline keyboards
type Builder struct{}

// NewBuilder creates a keyboard builder
func NewBuilder() *Builder {
	return &Builder{}
}

// FormKeyboard lays out the tone choices, the 1-10 intimacy scale and the
// submit button. Current values are marked.
func (b *Builder) FormKeyboard(view form.View) tgbotapi.InlineKeyboardMarkup {
	rows := b.toneRows(view.Snapshot.Tone)
	rows = append(rows, b.intimacyRows(view.Snapshot.Intimacy)...)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(
			submitButtonTag+view.ButtonLabel,
			EncodeCallback(ActionForm, ValueSubmit),
		),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Builder) toneRows(selected entity.Tone) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, tone := range entity.Tones {
		label := string(tone)
		if tone == selected {
			label = selectedMark + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, EncodeCallback(ActionTone, string(tone))))

		if len(row) == tonesPerRow {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
	}

	return rows
}

func (b *Builder) intimacyRows(selected int) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for level := entity.MinIntimacy; level <= entity.MaxIntimacy; level++ {
		value := strconv.Itoa(level)
		label := value
		if level == selected {
			label = "[" + value + "]"
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, EncodeCallback(ActionIntimacy, value)))

		if len(row) == intimacyPerRow {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
	}

	return rows
}
