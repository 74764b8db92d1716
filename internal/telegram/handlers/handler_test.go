package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futig/partner-backend/internal/client/form"
	"github.com/futig/partner-backend/internal/config"
	"github.com/futig/partner-backend/internal/entity"
	"github.com/futig/partner-backend/internal/integration/partner"
	"github.com/futig/partner-backend/internal/telegram/render"
	"github.com/futig/partner-backend/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	chatID    int64 = 4242
	cardID          = 17
	goodStory       = "周末约好的事，他又加班了，我很生气但说不清楚为什么。"
)

type generateServer struct {
	url      string
	calls    atomic.Int32
	received chan entity.FormSnapshot
}

// startGenerateServer answers POST /api/generate with status and body.
func startGenerateServer(t *testing.T, status int, body string) *generateServer {
	t.Helper()

	s := &generateServer{received: make(chan entity.FormSnapshot, 4)}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		assert.Equal(t, "/api/generate", r.URL.Path)

		var snapshot entity.FormSnapshot
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&snapshot))
		s.received <- snapshot

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	s.url = server.URL
	return s
}

func newTestHandler(t *testing.T, serverURL string) (*Handler, *fakeBot, *state.Manager) {
	t.Helper()

	connector := partner.NewConnector(config.ClientConfig{ServerURL: serverURL, Timeout: 5 * time.Second}, zap.NewNop())
	manager := state.NewManager(form.NewMemoryStore(), connector, zap.NewNop())
	bot := &fakeBot{}
	return NewHandler(bot, manager, zap.NewNop()), bot, manager
}

func callback(data string) *Message {
	return &Message{ChatID: chatID, UserID: 7, MessageID: cardID, CallbackData: data, CallbackID: "cb-" + data}
}

func TestHandleCommand_Start(t *testing.T) {
	h, bot, _ := newTestHandler(t, "http://unused.invalid")

	h.HandleCommand(context.Background(), &Message{ChatID: chatID, UserID: 7}, CommandStart)

	messages := bot.messages()
	require.Len(t, messages, 2)
	assert.Equal(t, render.MsgWelcome, messages[0].Text)
	assert.Equal(t, chatID, messages[1].ChatID)
	assert.Contains(t, messages[1].Text, "亲密度：6\n语气：理性")

	markup, ok := messages[1].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Len(t, markup.InlineKeyboard, 5)
}

func TestHandleCommand_HelpAndUnknown(t *testing.T) {
	h, bot, _ := newTestHandler(t, "http://unused.invalid")

	h.HandleCommand(context.Background(), &Message{ChatID: chatID}, CommandHelp)
	h.HandleCommand(context.Background(), &Message{ChatID: chatID}, "nope")

	messages := bot.messages()
	require.Len(t, messages, 2)
	assert.Equal(t, render.MsgHelp, messages[0].Text)
	assert.Equal(t, render.MsgUnknownCommand, messages[1].Text)
}

func TestHandleText_SetsBackground(t *testing.T) {
	h, bot, manager := newTestHandler(t, "http://unused.invalid")

	h.HandleText(context.Background(), &Message{ChatID: chatID, Text: goodStory})

	assert.Equal(t, goodStory, manager.Controller(chatID).View().Snapshot.Background)

	messages := bot.messages()
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].Text, "背景："+goodStory)
	assert.NotContains(t, messages[0].Text, render.MsgNeedBackground)
}

func TestHandleCallback_Tone(t *testing.T) {
	h, bot, manager := newTestHandler(t, "http://unused.invalid")

	h.HandleCallback(context.Background(), callback("tone:坚定"))

	assert.Equal(t, entity.ToneFirm, manager.Controller(chatID).View().Snapshot.Tone)

	edits := bot.edits()
	require.Len(t, edits, 1)
	assert.Equal(t, cardID, edits[0].MessageID)
	assert.Contains(t, edits[0].Text, "语气：坚定")
	require.NotNil(t, edits[0].ReplyMarkup)
	assert.Equal(t, "✅坚定", edits[0].ReplyMarkup.InlineKeyboard[0][2].Text)

	answers := bot.answers()
	require.Len(t, answers, 1)
	assert.Equal(t, "cb-tone:坚定", answers[0].CallbackQueryID)
}

func TestHandleCallback_UnchangedValueSkipsEdit(t *testing.T) {
	h, bot, _ := newTestHandler(t, "http://unused.invalid")

	h.HandleCallback(context.Background(), callback("tone:理性"))

	assert.Empty(t, bot.edits())
	assert.Len(t, bot.answers(), 1)
}

func TestHandleCallback_Intimacy(t *testing.T) {
	h, bot, manager := newTestHandler(t, "http://unused.invalid")

	h.HandleCallback(context.Background(), callback("intimacy:9"))

	assert.Equal(t, 9, manager.Controller(chatID).View().Snapshot.Intimacy)
	require.Len(t, bot.edits(), 1)
	assert.Contains(t, bot.edits()[0].Text, "亲密度：9")
}

func TestHandleCallback_RejectsBadData(t *testing.T) {
	for _, data := range []string{"intimacy:11", "intimacy:abc", "tone:阴阳怪气", "action:other", "color:red", "garbage"} {
		t.Run(data, func(t *testing.T) {
			h, bot, manager := newTestHandler(t, "http://unused.invalid")

			h.HandleCallback(context.Background(), callback(data))

			view := manager.Controller(chatID).View()
			assert.Equal(t, entity.DefaultIntimacy, view.Snapshot.Intimacy)
			assert.Equal(t, entity.DefaultTone, view.Snapshot.Tone)
			assert.Empty(t, bot.edits())

			answers := bot.answers()
			require.Len(t, answers, 1)
			assert.Equal(t, render.MsgInvalidCallback, answers[0].Text)
		})
	}
}

func TestHandleCallback_Submit(t *testing.T) {
	server := startGenerateServer(t, http.StatusOK, `{"markdown":"1. 第一条\n2. 第二条\n3. 第三条"}`)
	h, bot, manager := newTestHandler(t, server.url)

	c := manager.Controller(chatID)
	c.SetBackground(goodStory)
	c.SetIntimacy(7)
	require.NoError(t, c.SetTone(entity.ToneFirm))

	h.HandleCallback(context.Background(), callback("action:submit"))

	require.EqualValues(t, 1, server.calls.Load())
	assert.Equal(t, entity.FormSnapshot{Background: goodStory, Intimacy: 7, Tone: entity.ToneFirm}, <-server.received)

	answers := bot.answers()
	require.Len(t, answers, 1)
	assert.Equal(t, form.LabelSubmitting, answers[0].Text)

	actions := bot.chatActions()
	require.NotEmpty(t, actions)
	assert.Equal(t, tgbotapi.ChatTyping, actions[0].Action)

	messages := bot.messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "💬 三条回应：\n\n1. 第一条\n2. 第二条\n3. 第三条", messages[0].Text)
	assert.Contains(t, messages[1].Text, "📝 当前表单")

	assert.Equal(t, form.ModeDisplayed, c.View().Mode)
}

func TestHandleCallback_SubmitServerError(t *testing.T) {
	server := startGenerateServer(t, http.StatusInternalServerError, `{"error":"boom"}`)
	h, bot, manager := newTestHandler(t, server.url)
	manager.Controller(chatID).SetBackground(goodStory)

	h.HandleCallback(context.Background(), callback("action:submit"))

	messages := bot.messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "❌ 服务异常：500", messages[0].Text)
}

func TestHandleCallback_SubmitDisabled(t *testing.T) {
	server := startGenerateServer(t, http.StatusOK, `{"markdown":"unused"}`)
	h, bot, manager := newTestHandler(t, server.url)
	manager.Controller(chatID).SetBackground("  短  ")

	h.HandleCallback(context.Background(), callback("action:submit"))

	assert.Zero(t, server.calls.Load())
	assert.Empty(t, bot.messages())

	answers := bot.answers()
	require.Len(t, answers, 1)
	assert.Equal(t, render.MsgSubmitDisabled, answers[0].Text)
}

func TestMessageSender_SendFailure(t *testing.T) {
	bot := &fakeBot{failSend: true}

	err := NewMessageSender(bot, zap.NewNop()).Send(chatID, "hi", nil)

	assert.Error(t, err)
}

func TestTypingNotifier(t *testing.T) {
	bot := &fakeBot{}
	typing := NewTypingNotifier(bot, chatID, zap.NewNop())
	typing.interval = 10 * time.Millisecond

	typing.Start(context.Background())
	typing.Start(context.Background())
	assert.Eventually(t, func() bool { return len(bot.chatActions()) >= 3 }, time.Second, 5*time.Millisecond)
	typing.Stop()
	typing.Stop()

	stopped := len(bot.chatActions())
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, len(bot.chatActions()))
	assert.Equal(t, chatID, bot.chatActions()[0].ChatID)
}
