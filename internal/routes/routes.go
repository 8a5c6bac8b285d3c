package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/asimmons-coder/internal-coach-matching/internal/config"
	"github.com/asimmons-coder/internal-coach-matching/internal/dataset"
	"github.com/asimmons-coder/internal-coach-matching/internal/handlers"
	"github.com/asimmons-coder/internal-coach-matching/internal/llm"
	"github.com/asimmons-coder/internal-coach-matching/internal/logger"
	"github.com/asimmons-coder/internal-coach-matching/internal/repository"
	"github.com/asimmons-coder/internal-coach-matching/internal/services"
)

func RegisterRoutes(
	app *fiber.App,
	cfg *config.Config,
	coaches *dataset.Snapshot,
	completer llm.Completer,
	shareStore services.ShareStore,
	log *logger.Logger,
) error {
	matchmakingService := services.NewMatchmakingService(coaches, completer, log)
	shareService := services.NewShareService(shareStore, coaches, log)

	matchHandler := handlers.NewMatchHandler(matchmakingService, log)
	shareHandler := handlers.NewShareHandler(shareService, cfg.PublicBaseURL, log)
	coachHandler := handlers.NewCoachHandler(coaches)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"coaches": coaches.Len(),
		})
	})

	api := app.Group("/api")
	api.Post("/match", matchHandler.Match)
	api.Post("/share", shareHandler.CreateShare)
	api.Get("/share/:slug", shareHandler.GetShare)
	api.Get("/coaches", coachHandler.ListCoaches)

	app.Get("/share/:slug", shareHandler.SharePage)

	return registerDocsRoutes(app, cfg)
}

var (
	_ services.ShareStore = (*repository.ShareRepository)(nil)
	_ services.ShareStore = (*repository.SupabaseShareRepository)(nil)
	_ llm.Completer       = (*llm.AnthropicClient)(nil)
)
