package middleware

import (
	"strconv"
	"time"

	apimiddleware "github.com/futig/partner-backend/internal/api/middleware"
	"github.com/futig/partner-backend/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const warningInterval = 30 * time.Second

// RateLimiterMiddleware drops updates of users over the per-minute limit.
// Users are warned at most once per warningInterval.
type RateLimiterMiddleware struct {
	limiter *apimiddleware.RateLimiter
	warned  *cache.Cache
	logger  *zap.Logger
	bot     Bot
}

// NewRateLimiterMiddleware creates a new rate limiter middleware
func NewRateLimiterMiddleware(requestsPerMinute int, logger *zap.Logger, bot Bot) *RateLimiterMiddleware {
	return &RateLimiterMiddleware{
		limiter: apimiddleware.NewRateLimiter(requestsPerMinute),
		warned:  cache.New(warningInterval, 10*time.Minute),
		logger:  logger,
		bot:     bot,
	}
}

// Handle processes the update through rate limiting
func (rl *RateLimiterMiddleware) Handle(update tgbotapi.Update, next Next) {
	userID, chatID := participants(update)
	if userID == 0 {
		// Unknown update type, allow it
		next(update)
		return
	}

	key := strconv.FormatInt(userID, 10)
	if allowed, _ := rl.limiter.Allow(key); allowed {
		next(update)
		return
	}

	rl.logger.Warn("rate limit exceeded",
		zap.Int64("user_id", userID),
		zap.Int64("chat_id", chatID),
	)

	if update.CallbackQuery != nil {
		// An unanswered callback keeps the button spinning.
		if _, err := rl.bot.Request(tgbotapi.NewCallback(update.CallbackQuery.ID, render.MsgRateLimited)); err != nil {
			rl.logger.Error("failed to answer callback", zap.Error(err))
		}
		return
	}

	if chatID == 0 || rl.warned.Add(key, true, cache.DefaultExpiration) != nil {
		return
	}
	if _, err := rl.bot.Send(tgbotapi.NewMessage(chatID, render.MsgRateLimited)); err != nil {
		rl.logger.Error("failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}
