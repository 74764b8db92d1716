package api

import (
	"net/http"
	"time"

	"github.com/futig/partner-backend/internal/api/docs"
	"github.com/futig/partner-backend/internal/api/middleware"
	suggestionapi "github.com/futig/partner-backend/internal/api/suggestion"
	"github.com/futig/partner-backend/internal/metrics"
	"github.com/futig/partner-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// DefaultRequestTimeout bounds inbound requests when RouterOptions leaves it unset.
const DefaultRequestTimeout = 65 * time.Second

// RouterOptions holds the tunable parts of the router
type RouterOptions struct {
	AllowedOrigins []string
	// RequestTimeout bounds every inbound request, including the upstream completion call.
	RequestTimeout time.Duration
	// RateLimitPerMinute limits generate requests per client address; 0 disables the limit.
	RateLimitPerMinute int
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(suggestionHandler *suggestionapi.Handler, opts RouterOptions, logger *zap.Logger) http.Handler {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)              // Recover from panics
	r.Use(chimiddleware.RequestID)              // Add request ID
	r.Use(middleware.Logger(logger))            // Log requests
	r.Use(middleware.Metrics)                   // Count requests
	r.Use(middleware.CORS(opts.AllowedOrigins)) // Handle CORS
	r.Use(chimiddleware.Timeout(timeout))       // Request timeout

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, map[string]string{"status": "healthy"})
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Register routes
	var apiMiddlewares []func(http.Handler) http.Handler
	if opts.RateLimitPerMinute > 0 {
		apiMiddlewares = append(apiMiddlewares, middleware.NewRateLimiter(opts.RateLimitPerMinute).Handler)
	}
	suggestionapi.RegisterRoutes(r, suggestionHandler, apiMiddlewares...)

	return r
}
