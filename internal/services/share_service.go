package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/asimmons-coder/internal-coach-matching/internal/logger"
	"github.com/asimmons-coder/internal-coach-matching/internal/models"
	"github.com/asimmons-coder/internal-coach-matching/internal/repository"
)

const (
	SlugLength      = 10
	maxSlugAttempts = 3
	slugAlphabet    = "_-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

type ShareStore interface {
	Create(ctx context.Context, share *models.SharedRecommendation) error
	GetBySlug(ctx context.Context, slug string) (*models.SharedRecommendation, error)
}

type CoachLookup interface {
	Get(id string) (models.Coach, bool)
}

type ShareService struct {
	store   ShareStore
	coaches CoachLookup
	newSlug func() (string, error)
	now     func() time.Time
	log     *logger.Logger
}

func NewShareService(store ShareStore, coaches CoachLookup, log *logger.Logger) *ShareService {
	return &ShareService{
		store:   store,
		coaches: coaches,
		newSlug: func() (string, error) { return gonanoid.New(SlugLength) },
		now:     func() time.Time { return time.Now().UTC() },
		log:     log.With("service", "ShareService"),
	}
}

// CreateShareInput selects coaches either by id or as recommendation
// snapshots from a match result. Snapshots win when both are given.
type CreateShareInput struct {
	CoachIDs        []string
	Recommendations []models.SharedCoach
	RequestSummary  *string
}

// CreateShare freezes the selected coaches into one shared_recommendations row
// and returns it with its public slug. A slug collision reported by the store
// triggers a new slug, up to maxSlugAttempts; other store errors are returned
// unchanged.
func (s *ShareService) CreateShare(ctx context.Context, input CreateShareInput) (*models.SharedRecommendation, error) {
	snapshots, err := s.buildSnapshots(input)
	if err != nil {
		return nil, err
	}

	share := &models.SharedRecommendation{
		ID:              uuid.New(),
		Recommendations: snapshots,
		RequestSummary:  trimmedOrNil(input.RequestSummary),
		CreatedAt:       s.now(),
	}

	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		slug, err := s.newSlug()
		if err != nil {
			return nil, fmt.Errorf("generate slug: %w", err)
		}
		share.Slug = slug

		err = s.store.Create(ctx, share)
		if err == nil {
			return share, nil
		}
		if !errors.Is(err, repository.ErrSlugConflict) {
			return nil, err
		}
		s.log.Warn("slug collision", "slug", slug, "attempt", attempt)
	}

	return nil, fmt.Errorf("create share: %w after %d attempts", repository.ErrSlugConflict, maxSlugAttempts)
}

// GetShare returns repository.ErrShareNotFound for unknown slugs, including
// ones that could never have been generated.
func (s *ShareService) GetShare(ctx context.Context, slug string) (*models.SharedRecommendation, error) {
	if !validSlug(slug) {
		return nil, repository.ErrShareNotFound
	}
	return s.store.GetBySlug(ctx, slug)
}

func (s *ShareService) buildSnapshots(input CreateShareInput) ([]models.SharedCoach, error) {
	if len(input.Recommendations) > 0 {
		snapshots := make([]models.SharedCoach, 0, len(input.Recommendations))
		for _, rec := range input.Recommendations {
			rec.CoachID = strings.TrimSpace(rec.CoachID)
			rec.Name = strings.TrimSpace(rec.Name)
			if coach, ok := s.coaches.Get(rec.CoachID); ok {
				rec = fillSnapshot(rec, coach)
			}
			if rec.Name == "" {
				return nil, fmt.Errorf("%w: recommendation name is required", ErrInvalidInput)
			}
			snapshots = append(snapshots, rec)
		}
		return snapshots, nil
	}

	seen := make(map[string]struct{}, len(input.CoachIDs))
	snapshots := make([]models.SharedCoach, 0, len(input.CoachIDs))
	for _, raw := range input.CoachIDs {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		coach, ok := s.coaches.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownCoach, id)
		}
		snapshots = append(snapshots, fillSnapshot(models.SharedCoach{CoachID: id}, coach))
	}

	if len(snapshots) == 0 {
		return nil, ErrEmptySelection
	}
	return snapshots, nil
}

// fillSnapshot copies display fields from the dataset into empty snapshot fields.
func fillSnapshot(snapshot models.SharedCoach, coach models.Coach) models.SharedCoach {
	if snapshot.Name == "" {
		snapshot.Name = coach.Name
	}
	if snapshot.FirstName == "" {
		snapshot.FirstName = coach.FirstName
	}
	if snapshot.PhotoURL == "" {
		snapshot.PhotoURL = coach.PhotoURL
	}
	if snapshot.Headline == nil {
		snapshot.Headline = coach.Headline
	}
	if snapshot.Email == "" {
		snapshot.Email = coach.Email
	}
	if snapshot.Bio == "" {
		snapshot.Bio = coach.Bio
	}
	if snapshot.ICFLevel == nil {
		snapshot.ICFLevel = coach.ICFLevel
	}
	if snapshot.PractitionerType == nil {
		snapshot.PractitionerType = coach.PractitionerType
	}
	if snapshot.Timezone == "" {
		snapshot.Timezone = coach.Timezone
	}
	return snapshot
}

func validSlug(slug string) bool {
	if len(slug) != SlugLength {
		return false
	}
	for _, r := range slug {
		if !strings.ContainsRune(slugAlphabet, r) {
			return false
		}
	}
	return true
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
