package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/futig/partner-backend/internal/client/form"
	"github.com/futig/partner-backend/internal/entity"
	"github.com/futig/partner-backend/internal/telegram/keyboard"
	"github.com/futig/partner-backend/internal/telegram/render"
	"github.com/futig/partner-backend/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Commands
const (
	CommandStart = "start"
	CommandHelp  = "help"
	CommandForm  = "form"
)

// Message represents a normalized Telegram message
type Message struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	CallbackData string
	CallbackID   string
}

// Handler drives one form controller per chat from messages and button presses
type Handler struct {
	bot      Sender
	sender   *MessageSender
	state    *state.Manager
	keyboard *keyboard.Builder
	logger   *zap.Logger
}

// NewHandler creates a new Handler
func NewHandler(bot Sender, stateManager *state.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		bot:      bot,
		sender:   NewMessageSender(bot, logger),
		state:    stateManager,
		keyboard: keyboard.NewBuilder(),
		logger:   logger,
	}
}

// HandleCommand handles bot commands
func (h *Handler) HandleCommand(ctx context.Context, msg *Message, command string) {
	ctxzap.Info(ctx, "command received",
		zap.String("command", command),
		zap.Int64("user_id", msg.UserID),
	)

	switch command {
	case CommandStart:
		h.sender.Send(msg.ChatID, render.MsgWelcome, nil)
		h.sendForm(msg.ChatID)
	case CommandHelp:
		h.sender.Send(msg.ChatID, render.MsgHelp, nil)
	case CommandForm:
		h.sendForm(msg.ChatID)
	default:
		h.sender.Send(msg.ChatID, render.MsgUnknownCommand, nil)
	}
}

// HandleText takes a plain message as the new background
func (h *Handler) HandleText(ctx context.Context, msg *Message) {
	c := h.state.Controller(msg.ChatID)
	c.SetBackground(msg.Text)

	ctxzap.Debug(ctx, "background updated", zap.Int64("chat_id", msg.ChatID))

	h.sendForm(msg.ChatID)
}

// HandleCallback handles form button presses
func (h *Handler) HandleCallback(ctx context.Context, msg *Message) {
	data, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		ctxzap.Warn(ctx, "invalid callback data",
			zap.Error(err),
			zap.String("data", msg.CallbackData),
		)
		h.sender.Answer(msg.CallbackID, render.MsgInvalidCallback)
		return
	}

	ctxzap.Info(ctx, "callback query received",
		zap.String("action", data.Action),
		zap.String("value", data.Value),
		zap.Int64("user_id", msg.UserID),
	)

	c := h.state.Controller(msg.ChatID)

	switch data.Action {
	case keyboard.ActionTone:
		h.update(msg, c, func() error {
			return c.SetTone(entity.Tone(data.Value))
		})
	case keyboard.ActionIntimacy:
		h.update(msg, c, func() error {
			level, err := strconv.Atoi(data.Value)
			if err != nil || level < entity.MinIntimacy || level > entity.MaxIntimacy {
				return errors.New("intimacy out of range")
			}
			c.SetIntimacy(level)
			return nil
		})
	case keyboard.ActionForm:
		if data.Value != keyboard.ValueSubmit {
			h.sender.Answer(msg.CallbackID, render.MsgInvalidCallback)
			return
		}
		h.submit(ctx, msg, c)
	default:
		h.sender.Answer(msg.CallbackID, render.MsgInvalidCallback)
	}
}

// update applies a field change and redraws the form card in place.
// Telegram rejects edits that change nothing, so an unchanged form is left alone.
func (h *Handler) update(msg *Message, c *form.Controller, apply func() error) {
	before := c.View().Snapshot

	if err := apply(); err != nil {
		h.sender.Answer(msg.CallbackID, render.MsgInvalidCallback)
		return
	}
	h.sender.Answer(msg.CallbackID, "")

	view := c.View()
	if view.Snapshot == before {
		return
	}
	h.sender.Edit(msg.ChatID, msg.MessageID, render.FormCard(view), h.keyboard.FormKeyboard(view))
}

func (h *Handler) submit(ctx context.Context, msg *Message, c *form.Controller) {
	if !c.CanSubmit() {
		h.sender.Answer(msg.CallbackID, render.MsgSubmitDisabled)
		return
	}
	h.sender.Answer(msg.CallbackID, form.LabelSubmitting)

	err := h.generate(ctx, msg.ChatID, c)
	if errors.Is(err, form.ErrSubmitDisabled) {
		// Another press of the same chat got there first.
		return
	}
	if err != nil {
		ctxzap.Warn(ctx, "generate failed",
			zap.Error(err),
			zap.Int64("chat_id", msg.ChatID),
		)
	}

	h.sender.Send(msg.ChatID, render.Result(c.View()), nil)
	h.sendForm(msg.ChatID)
}

// generate submits the form while the chat shows a typing indicator.
func (h *Handler) generate(ctx context.Context, chatID int64, c *form.Controller) error {
	typing := NewTypingNotifier(h.bot, chatID, h.logger)
	typing.Start(ctx)
	defer typing.Stop()

	return c.Submit(ctx)
}

func (h *Handler) sendForm(chatID int64) {
	view := h.state.Controller(chatID).View()
	h.sender.Send(chatID, render.FormCard(view), h.keyboard.FormKeyboard(view))
}
