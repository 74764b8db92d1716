package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/partner-backend/internal/api"
	suggestionapi "github.com/futig/partner-backend/internal/api/suggestion"
	"github.com/futig/partner-backend/internal/client/form"
	"github.com/futig/partner-backend/internal/config"
	"github.com/futig/partner-backend/internal/integration/llm"
	"github.com/futig/partner-backend/internal/integration/partner"
	"github.com/futig/partner-backend/internal/pkg/logger"
	"github.com/futig/partner-backend/internal/pkg/validator"
	"github.com/futig/partner-backend/internal/usecase/suggestion"
	"go.uber.org/zap"
)

// Build wires the suggestion server for the given environment
func Build(environment string) (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig(environment)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	log.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
		zap.String("provider", cfg.LLMConnectorCfg.Provider),
	)

	if !cfg.HasCredential() && !cfg.EnableMocks {
		// Not fatal: every generate request answers 500 until the key is set.
		log.Warn("OPENROUTER_API_KEY is not set, generate requests will fail")
	}

	provider, err := buildProvider(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("setup completion provider: %w", err)
	}

	// Initialize validators
	requestValidator := validator.NewValidator()

	// Initialize use cases
	suggestionUC := suggestion.NewUsecase(provider, cfg.EnableMocks || cfg.HasCredential(), log)
	log.Info("Use cases initialized")

	// Setup API handlers
	suggestionHandler := suggestionapi.NewHandler(suggestionUC, requestValidator)

	// Setup router
	routerTimeout := cfg.RouterTimeout()
	router := api.SetupRouter(suggestionHandler, api.RouterOptions{
		AllowedOrigins:     cfg.CORSAllowedOrigins,
		RequestTimeout:     routerTimeout,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}, log)
	log.Info("HTTP router configured", zap.Duration("request_timeout", routerTimeout))

	// WriteTimeout leaves room for the router timeout plus the response write.
	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      routerTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		logger: log,
	}, nil
}

func buildProvider(ctx context.Context, cfg *config.Config, log *zap.Logger) (suggestion.TextCompletionProvider, error) {
	if cfg.EnableMocks {
		log.Info("Using mock completion provider")
		return llm.NewMockConnector(log), nil
	}

	switch cfg.LLMConnectorCfg.Provider {
	case config.ProviderEino:
		log.Info("Using eino completion provider", zap.String("url", cfg.LLMConnectorCfg.Url))
		return llm.NewEinoConnector(ctx, cfg.LLMConnectorCfg, suggestion.Model, log)
	default:
		log.Info("Using openai completion provider", zap.String("url", cfg.LLMConnectorCfg.Url))
		return llm.NewConnector(cfg.LLMConnectorCfg, log), nil
	}
}

// Client bundles the form controller with what the CLI needs around it
type Client struct {
	Controller *form.Controller
	Config     *config.ClientConfig
	Logger     *zap.Logger
}

// BuildClient wires the form controller against the configured server and state dir
func BuildClient(environment string) (*Client, error) {
	cfg, err := config.LoadClientConfig(environment)
	if err != nil {
		return nil, fmt.Errorf("failed to load client configuration: %w", err)
	}

	return NewClient(cfg)
}

// NewClient wires the form controller for an already loaded configuration
func NewClient(cfg *config.ClientConfig) (*Client, error) {
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	store := form.NewFileStore(cfg.StateDir)
	connector := partner.NewConnector(*cfg, log)

	return &Client{
		Controller: form.NewController(store, connector, log),
		Config:     cfg,
		Logger:     log,
	}, nil
}
