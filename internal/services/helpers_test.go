package services

import (
	"context"
	"strings"
	"sync"

	"github.com/asimmons-coder/internal-coach-matching/internal/dataset"
	"github.com/asimmons-coder/internal-coach-matching/internal/llm"
	"github.com/asimmons-coder/internal-coach-matching/internal/models"
	"github.com/asimmons-coder/internal-coach-matching/internal/repository"
)

func strPtr(s string) *string { return &s }

func testCoach(id, name string) models.Coach {
	first, _, _ := strings.Cut(name, " ")
	return models.Coach{
		ID:               id,
		Name:             name,
		FirstName:        first,
		Email:            strings.ToLower(first) + "@coaches.example.com",
		Gender:           "Female",
		Timezone:         "America/New_York",
		ICFLevel:         strPtr("PCC"),
		SeniorityScore:   6,
		IsActive:         true,
		IsGrowCoach:      true,
		PhotoURL:         "https://images.coaches.example.com/" + id + ".jpg",
		PractitionerType: strPtr("Professional Coach"),
		Headline:         strPtr("Leadership coach"),
		Bio:              strings.Repeat("Experienced leadership coach. ", 5),
		Industries:       models.StringList{"Finance"},
	}
}

type stubCoaches struct {
	coaches []models.Coach
}

func (s stubCoaches) Filter(opts dataset.FilterOptions) []models.Coach {
	return dataset.FilterCoaches(s.coaches, opts)
}

func (s stubCoaches) Get(id string) (models.Coach, bool) {
	for _, c := range s.coaches {
		if c.ID == id {
			return c, true
		}
	}
	return models.Coach{}, false
}

type stubCompleter struct {
	response string
	err      error
	requests []llm.CompletionRequest
}

func (s *stubCompleter) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	s.requests = append(s.requests, req)
	return s.response, s.err
}

// memoryShareStore mimics the unique slug constraint of shared_recommendations.
type memoryShareStore struct {
	mu        sync.Mutex
	shares    map[string]models.SharedRecommendation
	createErr error
	creates   int
}

func newMemoryShareStore() *memoryShareStore {
	return &memoryShareStore{shares: make(map[string]models.SharedRecommendation)}
}

func (m *memoryShareStore) Create(_ context.Context, share *models.SharedRecommendation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.shares[share.Slug]; exists {
		return repository.ErrSlugConflict
	}
	m.shares[share.Slug] = *share
	return nil
}

func (m *memoryShareStore) GetBySlug(_ context.Context, slug string) (*models.SharedRecommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	share, ok := m.shares[slug]
	if !ok {
		return nil, repository.ErrShareNotFound
	}
	return &share, nil
}
