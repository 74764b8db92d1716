package builder

import (
	"fmt"

	"github.com/futig/partner-backend/internal/client/form"
	"github.com/futig/partner-backend/internal/config"
	"github.com/futig/partner-backend/internal/integration/partner"
	"github.com/futig/partner-backend/internal/pkg/logger"
	"github.com/futig/partner-backend/internal/telegram/bot"
	"github.com/futig/partner-backend/internal/telegram/handlers"
	"github.com/futig/partner-backend/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// BuildTelegramBot wires the Telegram front end: one form per chat, submitted
// to the suggestion server.
func BuildTelegramBot(environment string) (*bot.Bot, *zap.Logger, error) {
	cfg, err := config.LoadBotConfig(environment)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.Telegram.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return nil, nil, fmt.Errorf("create bot API: %w", err)
	}
	api.Debug = false

	log.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	connector := partner.NewConnector(cfg.Client, log)
	stateManager := state.NewManager(form.NewFileStore(cfg.Client.StateDir), connector, log)
	log.Info("Form state initialized", zap.String("state_dir", cfg.Client.StateDir))

	handler := handlers.NewHandler(api, stateManager, log)

	log.Info("Telegram bot built successfully",
		zap.String("server_url", cfg.Client.ServerURL),
		zap.Int("rate_limit_per_minute", cfg.Telegram.RateLimitPerMinute),
	)

	return bot.New(&cfg.Telegram, api, handler, log), log, nil
}
