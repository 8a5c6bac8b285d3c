package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/asimmons-coder/internal-coach-matching/internal/llm"
	"github.com/asimmons-coder/internal-coach-matching/internal/logger"
	"github.com/asimmons-coder/internal-coach-matching/internal/middleware"
	"github.com/asimmons-coder/internal-coach-matching/internal/models"
	"github.com/asimmons-coder/internal-coach-matching/internal/services"
)

type coachMatcher interface {
	GetMatchedCoaches(ctx context.Context, input services.MatchInput) (*models.MatchResult, error)
}

type matchRequest struct {
	RequestText string `json:"requestText"`
	ActiveOnly  *bool  `json:"activeOnly"`
	NumMatches  *int   `json:"numMatches"`
}

type MatchHandler struct {
	matcher coachMatcher
	log     *logger.Logger
}

func NewMatchHandler(matcher coachMatcher, log *logger.Logger) *MatchHandler {
	return &MatchHandler{matcher: matcher, log: log.With("handler", "MatchHandler")}
}

func (h *MatchHandler) Match(c *fiber.Ctx) error {
	var req matchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateMatchRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	input := services.MatchInput{
		RequestText: req.RequestText,
		ActiveOnly:  true,
		NumMatches:  services.DefaultMatchCount,
	}
	if req.ActiveOnly != nil {
		input.ActiveOnly = *req.ActiveOnly
	}
	if req.NumMatches != nil {
		input.NumMatches = *req.NumMatches
	}

	result, err := h.matcher.GetMatchedCoaches(c.Context(), input)
	if err != nil {
		return h.mapMatchError(c, err)
	}

	return c.JSON(result)
}

func (h *MatchHandler) mapMatchError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrNoCoachesAvailable):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "No coaches available for matching"})
	}

	h.log.Error("match failed", "request_id", middleware.RequestID(c), "error", err)

	switch {
	case errors.Is(err, llm.ErrTimeout):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Recommendation request timed out"})
	case errors.Is(err, services.ErrInvalidModelOutput),
		errors.Is(err, llm.ErrUnexpectedContent),
		errors.Is(err, llm.ErrCompletionFailed):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to match coaches"})
	}
}
