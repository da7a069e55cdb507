package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/filipehb/se-uo-shard/internal/handlers"
	"github.com/filipehb/se-uo-shard/internal/observability"
	"github.com/filipehb/se-uo-shard/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	CompletionService service.CompletionService
	ModerationService service.ModerationService
	ChatService       service.ChatService
	DB                *sql.DB
	APIKeyConfigured  bool
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Request-scoped logger first so every later stage logs with the
	// request id attached.
	r.Use(LoggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(observability.MetricsMiddleware)

	// Add CORS middleware
	r.Use(CORS)

	// Create handlers
	completeHandler := handlers.NewCompleteHandler(deps.CompletionService)
	moderateHandler := handlers.NewModerateHandler(deps.ModerationService)
	chatHandler := handlers.NewChatHandler(deps.ChatService)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.APIKeyConfigured)

	// Register API routes
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/complete", completeHandler)
		r.Method(http.MethodPost, "/moderate", moderateHandler)
		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Serve service info at root
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"se-uo-shard","status":"ok"}` + "\n"))
	})

	return r
}
