package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/asimmons-coder/internal-coach-matching/internal/dataset"
	"github.com/asimmons-coder/internal-coach-matching/internal/models"
)

type coachCatalog interface {
	Filter(opts dataset.FilterOptions) []models.Coach
}

type CoachHandler struct {
	coaches coachCatalog
}

func NewCoachHandler(coaches coachCatalog) *CoachHandler {
	return &CoachHandler{coaches: coaches}
}

// ListCoaches pages through the coaches that are eligible for matching.
func (h *CoachHandler) ListCoaches(c *fiber.Ctx) error {
	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	activeOnly := true
	if raw := strings.TrimSpace(c.Query("active_only")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "active_only must be a boolean"})
		}
		activeOnly = parsed
	}

	coaches := h.coaches.Filter(dataset.FilterOptions{ActiveOnly: activeOnly})
	start, end := pageBounds(page, limit, len(coaches))

	response := make([]models.CoachListResponse, 0, end-start)
	for _, coach := range coaches[start:end] {
		response = append(response, buildCoachListResponse(coach))
	}

	return c.JSON(fiber.Map{
		"coaches":    response,
		"pagination": buildPaginationMeta(page, limit, len(coaches)),
	})
}

func buildCoachListResponse(coach models.Coach) models.CoachListResponse {
	return models.CoachListResponse{
		ID:               coach.ID,
		Name:             coach.Name,
		PhotoURL:         coach.PhotoURL,
		Headline:         coach.Headline,
		Gender:           coach.Gender,
		SeniorityScore:   coach.SeniorityScore,
		ICFLevel:         coach.ICFLevel,
		PractitionerType: coach.PractitionerType,
		Timezone:         coach.Timezone,
		Products:         coach.ProductLines(),
		IsActive:         coach.IsActive,
	}
}
