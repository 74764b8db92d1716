package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/partner-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderEino   = "eino"
)

// RouterTimeoutMargin is the headroom the inbound timeout keeps over the
// outbound completion budget.
const RouterTimeoutMargin = 5 * time.Second

// Config holds the server configuration
type Config struct {
	// Server configuration
	ServerAddr         string   `env:"SERVER_ADDR" envDefault:":8080"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"0"`

	// Completion provider configuration
	LLMConnectorCfg LLMConnectorConfig `envPrefix:"LLM_"`

	// Credential and attribution headers share names with the hosted deployment
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`
	SiteURL          string `env:"SITE_URL"`
	SiteTitle        string `env:"SITE_TITLE" envDefault:"Chat with Partner"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

// LLMConnectorConfig configures the outbound chat-completion client.
// Token may be empty: its absence is reported per request, not at startup.
type LLMConnectorConfig struct {
	HTTPClientConfig
	Provider  string               `env:"PROVIDER" envDefault:"openai"`
	SiteURL   string               // copied from SITE_URL
	SiteTitle string               // copied from SITE_TITLE
	Retry     pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// MaxCallDuration bounds one completion call: every attempt may run for the
// full request timeout, with at most MaxDelay between attempts.
func (c LLMConnectorConfig) MaxCallDuration() time.Duration {
	attempts := time.Duration(c.Retry.Attempts)
	if attempts == 0 {
		attempts = 1
	}
	return attempts*c.RequestTimeout + (attempts-1)*c.Retry.MaxDelay
}

// RouterTimeout is the inbound request timeout. It outlasts the completion
// call, so the handler's own error reaches the client before the router gives up.
func (c *Config) RouterTimeout() time.Duration {
	return c.LLMConnectorCfg.MaxCallDuration() + RouterTimeoutMargin
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	TLSHandshakeTimeout   time.Duration `env:"TLS_HANDSHAKE_TIMEOUT" envDefault:"10s"`
	Token                 string        // copied from OPENROUTER_API_KEY
	Url                   string        `env:"SERVICE_URL" envDefault:"https://openrouter.ai/api/v1"`
}

// ClientConfig holds the configuration of the form client (partner-cli).
type ClientConfig struct {
	ServerURL string        `env:"SERVER_URL" envDefault:"http://localhost:8080"`
	StateDir  string        `env:"STATE_DIR"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"90s"`
	LogLevel  string        `env:"LOG_LEVEL" envDefault:"warn"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string `env:"BOT_TOKEN"`
	UpdateTimeout      int    `env:"UPDATE_TIMEOUT" envDefault:"60"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	ShutdownTimeout    int    `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info"`
}

// BotConfig holds the configuration of the Telegram front end (partner-bot).
// The bot is a form client, so it shares the PARTNER_ settings with the CLI.
type BotConfig struct {
	Client   ClientConfig   `envPrefix:"PARTNER_"`
	Telegram TelegramConfig `envPrefix:"TELEGRAM_"`
}

// LoadConfig reads the env file for the given environment and parses server settings.
func LoadConfig(environment string) (*Config, error) {
	loadEnvFile(environment)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.LLMConnectorCfg.Token = cfg.OpenRouterAPIKey
	cfg.LLMConnectorCfg.SiteURL = cfg.SiteURL
	cfg.LLMConnectorCfg.SiteTitle = cfg.SiteTitle

	cfg.Environment = environment

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadClientConfig reads the env file for the given environment and parses
// PARTNER_ prefixed client settings.
func LoadClientConfig(environment string) (*ClientConfig, error) {
	loadEnvFile(environment)

	cfg := &ClientConfig{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "PARTNER_"}); err != nil {
		return nil, err
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadBotConfig reads the env file for the given environment and parses
// PARTNER_ and TELEGRAM_ prefixed bot settings.
func LoadBotConfig(environment string) (*BotConfig, error) {
	loadEnvFile(environment)

	cfg := &BotConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Client.applyDefaults(); err != nil {
		return nil, err
	}

	if err := validateBotConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *ClientConfig) applyDefaults() error {
	if c.StateDir != "" {
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	c.StateDir = filepath.Join(home, ".chat-partner")
	return nil
}

func validateBotConfig(cfg *BotConfig) error {
	var errors []string

	if cfg.Telegram.BotToken == "" {
		errors = append(errors, "TELEGRAM_BOT_TOKEN must not be empty")
	}

	if cfg.Client.ServerURL == "" {
		errors = append(errors, "PARTNER_SERVER_URL must not be empty")
	}

	if cfg.Telegram.UpdateTimeout < 0 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_UPDATE_TIMEOUT must not be negative, got %d", cfg.Telegram.UpdateTimeout))
	}

	if cfg.Telegram.RateLimitPerMinute < 0 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must not be negative, got %d", cfg.Telegram.RateLimitPerMinute))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// HTTPClientConfig derives outbound client settings for calls to the suggestion server.
func (c *ClientConfig) HTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		RequestTimeout:        c.Timeout,
		ConnTimeout:           10 * time.Second,
		KeepAlive:             30 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: c.Timeout,
		TLSHandshakeTimeout:   10 * time.Second,
		Url:                   strings.TrimRight(c.ServerURL, "/"),
	}
}

func loadEnvFile(environment string) {
	envFile := getEnvFile(environment)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}
}

func validateConfig(cfg *Config) error {
	var errors []string

	switch cfg.LLMConnectorCfg.Provider {
	case ProviderOpenAI, ProviderEino:
	default:
		errors = append(errors, fmt.Sprintf("LLM_PROVIDER must be one of %s, %s, got %q", ProviderOpenAI, ProviderEino, cfg.LLMConnectorCfg.Provider))
	}

	if cfg.LLMConnectorCfg.Url == "" {
		errors = append(errors, "LLM_SERVICE_URL must not be empty")
	}

	if cfg.LLMConnectorCfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("LLM_TIMEOUT must be positive, got %s", cfg.LLMConnectorCfg.RequestTimeout))
	}

	if cfg.LLMConnectorCfg.Retry.Attempts < 1 || cfg.LLMConnectorCfg.Retry.Attempts > 5 {
		errors = append(errors, fmt.Sprintf("LLM_RETRY_ATTEMPTS must be between 1 and 5, got %d", cfg.LLMConnectorCfg.Retry.Attempts))
	}

	if cfg.RateLimitPerMinute < 0 {
		errors = append(errors, fmt.Sprintf("RATE_LIMIT_PER_MINUTE must not be negative, got %d", cfg.RateLimitPerMinute))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// HasCredential reports whether the completion API key is set.
func (c *Config) HasCredential() bool {
	return c.OpenRouterAPIKey != ""
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
