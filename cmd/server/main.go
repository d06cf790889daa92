package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/adapter/ai"
	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/adapter/source"
	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/adapter/store"
	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/handler"
	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/middleware"
	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/service"
	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/pkg/config"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🚀 Starting Code Sage",
		"port", cfg.Port,
		"embed_model", cfg.OllamaEmbedModel,
		"completion_model", cfg.OpenRouterModel,
		"chunk_size", cfg.ChunkSize,
		"top_k", cfg.TopK,
	)

	// ── Database ─────────────────────────────────────────────────────────
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	if err := pgStore.EnsureSchema(context.Background()); err != nil {
		slog.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	corpusStore := store.NewCorpusStore(pgStore)

	// ── Adapters ─────────────────────────────────────────────────────────
	embedder := ai.NewOllamaEmbedder(ai.OllamaConfig{
		BaseURL: cfg.OllamaEmbedURL,
		Model:   cfg.OllamaEmbedModel,
		Token:   cfg.OllamaEmbedToken,
		Timeout: cfg.EmbedTimeout,
	})
	completion := ai.NewOpenRouterClient(ai.OpenRouterConfig{
		BaseURL:   cfg.OpenRouterBaseURL,
		APIKey:    cfg.OpenRouterAPIKey,
		Model:     cfg.OpenRouterModel,
		MaxTokens: cfg.CompletionMaxTokens,
		Timeout:   cfg.CompletionTimeout,
	})
	extractor := source.NewExtractor(cfg.SkipFolders, cfg.AllowedExtensions)
	github := source.NewGitHubDownloader(nil)

	// ── Services ─────────────────────────────────────────────────────────
	ingestService := service.NewIngestService(embedder, pgStore, corpusStore, cfg.ChunkSize)
	queryService := service.NewQueryService(
		embedder, completion, corpusStore, pgStore,
		cfg.TopK, cfg.EmbedTimeout, cfg.CompletionTimeout,
	)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // archives can be large
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
	}))
	app.Use(middleware.RequestLog(pgStore))

	// Health check
	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"app":     cfg.AppName,
			"version": "1.0.0",
		})
	})

	// ── Routes ───────────────────────────────────────────────────────────
	api := app.Group("/api/v1")

	projectHandler := handler.NewProjectHandler(ingestService, extractor, github)
	projectHandler.Register(api)

	askHandler := handler.NewAskHandler(queryService)
	askHandler.Register(api)

	historyHandler := handler.NewHistoryHandler(pgStore)
	historyHandler.Register(api)

	statusHandler := handler.NewStatusHandler(pgStore, completion)
	statusHandler.Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
