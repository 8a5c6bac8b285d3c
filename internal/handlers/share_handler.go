package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/asimmons-coder/internal-coach-matching/internal/logger"
	"github.com/asimmons-coder/internal-coach-matching/internal/middleware"
	"github.com/asimmons-coder/internal-coach-matching/internal/models"
	"github.com/asimmons-coder/internal-coach-matching/internal/repository"
	"github.com/asimmons-coder/internal-coach-matching/internal/services"
	"github.com/asimmons-coder/internal-coach-matching/internal/views"
)

type shareManager interface {
	CreateShare(ctx context.Context, input services.CreateShareInput) (*models.SharedRecommendation, error)
	GetShare(ctx context.Context, slug string) (*models.SharedRecommendation, error)
}

// shareRequest accepts either bare coach ids or recommendations echoed back
// from a match response (same snake_case shape).
type shareRequest struct {
	CoachIDs        []string                `json:"coachIds"`
	Recommendations []models.Recommendation `json:"recommendations"`
	RequestSummary  *string                 `json:"requestSummary"`
}

type ShareHandler struct {
	shares        shareManager
	publicBaseURL string
	log           *logger.Logger
}

func NewShareHandler(shares shareManager, publicBaseURL string, log *logger.Logger) *ShareHandler {
	return &ShareHandler{
		shares:        shares,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
		log:           log.With("handler", "ShareHandler"),
	}
}

func (h *ShareHandler) CreateShare(c *fiber.Ctx) error {
	var req shareRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateShareRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	share, err := h.shares.CreateShare(c.Context(), services.CreateShareInput{
		CoachIDs:        req.CoachIDs,
		Recommendations: sharedCoachesFromRecommendations(req.Recommendations),
		RequestSummary:  req.RequestSummary,
	})
	if err != nil {
		return h.mapShareError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"slug": share.Slug,
		"url":  h.shareURL(c, share.Slug),
	})
}

func (h *ShareHandler) GetShare(c *fiber.Ctx) error {
	share, err := h.shares.GetShare(c.Context(), c.Params("slug"))
	if err != nil {
		return h.mapShareError(c, err)
	}
	return c.JSON(share)
}

// SharePage renders the public page. Lookup failures of any kind show the
// not-found page; only unexpected ones are logged.
func (h *ShareHandler) SharePage(c *fiber.Ctx) error {
	applyPageHeaders(c)

	share, err := h.shares.GetShare(c.Context(), c.Params("slug"))
	if err != nil {
		if !errors.Is(err, repository.ErrShareNotFound) {
			h.log.Error("load shared recommendation", "request_id", middleware.RequestID(c), "slug", c.Params("slug"), "error", err)
		}
		return h.renderNotFound(c)
	}

	page, err := views.RenderShare(share)
	if err != nil {
		h.log.Error("render share page", "request_id", middleware.RequestID(c), "slug", share.Slug, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render page")
	}
	return c.Status(fiber.StatusOK).Send(page)
}

func (h *ShareHandler) renderNotFound(c *fiber.Ctx) error {
	page, err := views.RenderNotFound()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render page")
	}
	return c.Status(fiber.StatusNotFound).Send(page)
}

func (h *ShareHandler) shareURL(c *fiber.Ctx, slug string) string {
	base := h.publicBaseURL
	if base == "" {
		base = c.BaseURL()
	}
	return base + "/share/" + slug
}

func (h *ShareHandler) mapShareError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrEmptySelection):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "At least one coach must be selected"})
	case errors.Is(err, services.ErrUnknownCoach):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown coach id"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, repository.ErrShareNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Share not found"})
	}

	h.log.Error("share request failed", "request_id", middleware.RequestID(c), "error", err)
	if c.Method() == fiber.MethodPost {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save recommendation"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch recommendation"})
}

func sharedCoachesFromRecommendations(recs []models.Recommendation) []models.SharedCoach {
	if len(recs) == 0 {
		return nil
	}

	shared := make([]models.SharedCoach, 0, len(recs))
	for _, rec := range recs {
		coach := models.SharedCoach{
			CoachID:      rec.CoachID,
			Name:         rec.Name,
			Rationale:    rec.Rationale,
			KeyStrengths: rec.KeyStrengths,
		}
		if rec.Coach != nil {
			coach.PhotoURL = rec.Coach.PhotoURL
			coach.Headline = rec.Coach.Headline
			coach.Email = rec.Coach.Email
			coach.Bio = rec.Coach.Bio
			coach.ICFLevel = rec.Coach.ICFLevel
			coach.PractitionerType = rec.Coach.PractitionerType
			coach.Timezone = rec.Coach.Timezone
		}
		shared = append(shared, coach)
	}
	return shared
}

func applyPageHeaders(c *fiber.Ctx) {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	c.Set("Content-Security-Policy", views.ContentSecurityPolicy)
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	c.Set(fiber.HeaderXFrameOptions, "DENY")
	c.Set("Referrer-Policy", "no-referrer")
	c.Set("X-Robots-Tag", "noindex, nofollow")
}
