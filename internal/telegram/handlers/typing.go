package handlers

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Telegram typing action expires after 5 seconds
const typingInterval = 4 * time.Second

// TypingNotifier sends periodic "typing" actions while a suggestion is generated
type TypingNotifier struct {
	bot      Sender
	chatID   int64
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	done    chan struct{}
	exited  chan struct{}
	started bool
}

// NewTypingNotifier creates a new typing indicator
func NewTypingNotifier(bot Sender, chatID int64, logger *zap.Logger) *TypingNotifier {
	return &TypingNotifier{
		bot:      bot,
		chatID:   chatID,
		interval: typingInterval,
		logger:   logger,
	}
}

// Start sends a typing action now and then every interval until Stop or ctx is done
func (t *TypingNotifier) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return
	}
	t.started = true
	t.done = make(chan struct{})
	t.exited = make(chan struct{})

	t.send()

	go func(done <-chan struct{}, exited chan<- struct{}) {
		defer close(exited)

		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				t.send()
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}(t.done, t.exited)
}

// Stop stops sending typing indicators and returns once no more are sent
func (t *TypingNotifier) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return
	}

	close(t.done)
	<-t.exited
	t.started = false
}

func (t *TypingNotifier) send() {
	action := tgbotapi.NewChatAction(t.chatID, tgbotapi.ChatTyping)
	if _, err := t.bot.Request(action); err != nil {
		t.logger.Warn("failed to send typing action",
			zap.Error(err),
			zap.Int64("chat_id", t.chatID),
		)
	}
}
