package main

import (
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"github.com/filipehb/se-uo-shard/internal/config"
	"github.com/filipehb/se-uo-shard/internal/http"
	"github.com/filipehb/se-uo-shard/internal/openai"
	"github.com/filipehb/se-uo-shard/internal/service"
	"github.com/filipehb/se-uo-shard/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// A missing key is not fatal: the server still serves health and
	// metrics, and upstream calls surface the API's own rejection.
	if cfg.OpenAIKey == "" {
		slog.Warn("OPENAI_KEY is not set; upstream requests will be rejected by the API")
	}

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	conversationRepo := storage.NewConversationRepo(db)

	// Create OpenAI client (external service layer)
	client := openai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIKey)

	// Create services
	completionService := service.NewCompletionService(client)
	moderationService := service.NewModerationService(client)
	chatService := service.NewChatService(completionService, moderationService, conversationRepo, openai.Model(cfg.DefaultModel))
	slog.Info("Services initialized")

	// Create router with dependencies
	deps := &http.Deps{
		CompletionService: completionService,
		ModerationService: moderationService,
		ChatService:       chatService,
		DB:                db,
		APIKeyConfigured:  cfg.OpenAIKey != "",
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("OpenAI configuration", "base_url", cfg.OpenAIBaseURL, "default_model", cfg.DefaultModel)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
