package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/asimmons-coder/internal-coach-matching/internal/config"
	"github.com/asimmons-coder/internal-coach-matching/internal/database"
	"github.com/asimmons-coder/internal-coach-matching/internal/dataset"
	"github.com/asimmons-coder/internal-coach-matching/internal/llm"
	"github.com/asimmons-coder/internal-coach-matching/internal/logger"
	"github.com/asimmons-coder/internal-coach-matching/internal/middleware"
	"github.com/asimmons-coder/internal-coach-matching/internal/repository"
	"github.com/asimmons-coder/internal-coach-matching/internal/routes"
	"github.com/asimmons-coder/internal-coach-matching/internal/services"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	// 2. Load coach dataset
	var coaches *dataset.Snapshot
	if cfg.CoachesPath != "" {
		coaches, err = dataset.LoadFile(cfg.CoachesPath)
	} else {
		coaches, err = dataset.LoadEmbedded()
	}
	if err != nil {
		appLog.Fatal("Failed to load coach dataset", "path", cfg.CoachesPath, "error", err)
	}
	appLog.Info("Coach dataset loaded", "coaches", coaches.Len())

	// 3. Model client
	completer, err := llm.NewAnthropicClient(llm.Config{
		APIKey:    cfg.AnthropicAPIKey,
		BaseURL:   cfg.AnthropicBaseURL,
		Model:     cfg.LLMModel,
		MaxTokens: int64(cfg.LLMMaxTokens),
		Timeout:   cfg.LLMTimeout,
	}, appLog)
	if err != nil {
		appLog.Fatal("Failed to configure model client", "error", err)
	}

	// 4. Share storage
	var shareStore services.ShareStore
	if cfg.UseSupabase() {
		shareStore = repository.NewSupabaseShareRepository(cfg.SupabaseURL, cfg.SupabaseServiceKey)
		appLog.Info("Using Supabase share storage", "url", cfg.SupabaseURL)
	} else {
		pool, err := database.Connect(context.Background(), cfg.DBUrl)
		if err != nil {
			appLog.Fatal("Failed to connect to database", "error", err)
		}
		defer pool.Close()
		shareStore = repository.NewShareRepository(pool)
		appLog.Info("Connected to PostgreSQL")
	}

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "coach-matcher",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 30*time.Second,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(appLog))
	app.Use(cors.New())

	// Routes
	if err := routes.RegisterRoutes(app, cfg, coaches, completer, shareStore, appLog); err != nil {
		appLog.Fatal("Failed to register routes", "error", err)
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		appLog.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			appLog.Error("Server shutdown failed", "error", err)
		}
	}()

	// 6. Start Server
	appLog.Info("Server starting", "port", cfg.Port, "env", cfg.AppEnv, "model", completer.Model())
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLog.Fatal("Server failed to start", "error", err)
	}
}
