package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/asimmons-coder/internal-coach-matching/internal/config"
	"github.com/asimmons-coder/internal-coach-matching/internal/dataset"
	"github.com/asimmons-coder/internal-coach-matching/internal/llm"
	"github.com/asimmons-coder/internal-coach-matching/internal/logger"
	"github.com/asimmons-coder/internal-coach-matching/internal/models"
	"github.com/asimmons-coder/internal-coach-matching/internal/repository"
)

const financeVPCompletion = "```json\n" + `{
  "parsed_requirements": {"seniority_level": "VP", "industry": "Finance", "gender_preference": "include a male coach", "key_focus_areas": ["EQ"], "other_notes": null},
  "recommendations": [
    {"coach_id": "c-1001", "name": "Margaret Okafor", "match_score": 94, "rationale": "Former CFO.", "key_strengths": ["finance"], "potential_concerns": null},
    {"coach_id": "c-1002", "name": "David Reyes", "match_score": 90, "rationale": "Finance and EQ.", "key_strengths": ["EQ"], "potential_concerns": null}
  ]
}` + "\n```"

type fixedCompleter struct{ response string }

func (f fixedCompleter) Complete(_ context.Context, _ llm.CompletionRequest) (string, error) {
	return f.response, nil
}

type memoryStore struct {
	mu     sync.Mutex
	shares map[string]models.SharedRecommendation
}

func (m *memoryStore) Create(_ context.Context, share *models.SharedRecommendation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.shares[share.Slug]; exists {
		return repository.ErrSlugConflict
	}
	m.shares[share.Slug] = *share
	return nil
}

func (m *memoryStore) GetBySlug(_ context.Context, slug string) (*models.SharedRecommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	share, ok := m.shares[slug]
	if !ok {
		return nil, repository.ErrShareNotFound
	}
	return &share, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	coaches, err := dataset.LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}

	app := fiber.New()
	cfg := &config.Config{AppEnv: "test", PublicBaseURL: "https://match.example.com"}
	store := &memoryStore{shares: make(map[string]models.SharedRecommendation)}
	if err := RegisterRoutes(app, cfg, coaches, fixedCompleter{response: financeVPCompletion}, store, logger.NewNop()); err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, target, err)
	}
	return resp
}

func TestHealthReportsDatasetSize(t *testing.T) {
	app := newTestApp(t)

	resp := doRequest(t, app, http.MethodGet, "/health", "")
	defer resp.Body.Close()

	var body struct {
		Status  string `json:"status"`
		Coaches int    `json:"coaches"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Status != "ok" || body.Coaches != 6 {
		t.Fatalf("unexpected health body: %+v", body)
	}
}

func TestMatchThenShareFlow(t *testing.T) {
	app := newTestApp(t)

	matchResp := doRequest(t, app, http.MethodPost, "/api/match", `{"requestText":"VP of Finance at a mid-size company, struggling with EQ. Wants a male coach option.","activeOnly":true,"numMatches":2}`)
	defer matchResp.Body.Close()
	if matchResp.StatusCode != http.StatusOK {
		t.Fatalf("expected match 200, got %d", matchResp.StatusCode)
	}

	var match models.MatchResult
	if err := json.NewDecoder(matchResp.Body).Decode(&match); err != nil {
		t.Fatalf("Decode match: %v", err)
	}
	if len(match.Recommendations) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(match.Recommendations))
	}
	for _, rec := range match.Recommendations {
		if rec.Coach == nil {
			t.Fatalf("expected enriched coach for %s", rec.CoachID)
		}
	}
	if match.Recommendations[1].Coach.Gender != "Male" {
		t.Fatalf("expected a male coach option, got %+v", match.Recommendations[1].Coach)
	}

	shareBody, err := json.Marshal(map[string]any{
		"recommendations": match.Recommendations,
		"requestSummary":  "VP of Finance, EQ",
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	shareResp := doRequest(t, app, http.MethodPost, "/api/share", string(shareBody))
	defer shareResp.Body.Close()
	if shareResp.StatusCode != http.StatusCreated {
		t.Fatalf("expected share 201, got %d", shareResp.StatusCode)
	}

	var created struct {
		Slug string `json:"slug"`
		URL  string `json:"url"`
	}
	if err := json.NewDecoder(shareResp.Body).Decode(&created); err != nil {
		t.Fatalf("Decode share: %v", err)
	}
	if len(created.Slug) != 10 || created.URL != "https://match.example.com/share/"+created.Slug {
		t.Fatalf("unexpected share response: %+v", created)
	}

	getResp := doRequest(t, app, http.MethodGet, "/api/share/"+created.Slug, "")
	defer getResp.Body.Close()
	var stored models.SharedRecommendation
	if err := json.NewDecoder(getResp.Body).Decode(&stored); err != nil {
		t.Fatalf("Decode stored: %v", err)
	}
	if len(stored.Recommendations) != 2 || stored.Recommendations[0].CoachID != "c-1001" || stored.Recommendations[0].Rationale != "Former CFO." {
		t.Fatalf("unexpected stored share: %+v", stored.Recommendations)
	}

	pageResp := doRequest(t, app, http.MethodGet, "/share/"+created.Slug, "")
	defer pageResp.Body.Close()
	page, err := io.ReadAll(pageResp.Body)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if pageResp.StatusCode != http.StatusOK || !strings.Contains(string(page), "Contact Margaret") {
		t.Fatalf("expected rendered share page, got %d", pageResp.StatusCode)
	}
}

func TestShareUnknownCoachAndSlug(t *testing.T) {
	app := newTestApp(t)

	resp := doRequest(t, app, http.MethodPost, "/api/share", `{"coachIds":["c-1001","c-9999"]}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown coach, got %d", resp.StatusCode)
	}

	missing := doRequest(t, app, http.MethodGet, "/api/share/AbCdEfGh12", "")
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown slug, got %d", missing.StatusCode)
	}
}
