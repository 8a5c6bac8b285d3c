package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/asimmons-coder/internal-coach-matching/internal/models"
)

const (
	sharesTable        = "shared_recommendations"
	shareSelectColumns = "id,slug,recommendations,request_summary,created_at"
)

// SupabaseShareRepository stores shares in the same table through the
// Supabase PostgREST API, for deployments without a direct database URL.
type SupabaseShareRepository struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

func NewSupabaseShareRepository(baseURL, serviceKey string) *SupabaseShareRepository {
	return &SupabaseShareRepository{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type postgrestError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

func (r *SupabaseShareRepository) Create(ctx context.Context, share *models.SharedRecommendation) error {
	body, err := json.Marshal(share)
	if err != nil {
		return fmt.Errorf("marshal share: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.tableURL(nil), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build insert request: %w", err)
	}
	r.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("insert share: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	var apiErr postgrestError
	if json.Unmarshal(responseBody, &apiErr) == nil && apiErr.Code == uniqueViolationCode &&
		strings.Contains(apiErr.Message+apiErr.Details, slugConstraintName) {
		return ErrSlugConflict
	}
	return fmt.Errorf("insert share: status %d: %s", resp.StatusCode, strings.TrimSpace(string(responseBody)))
}

func (r *SupabaseShareRepository) GetBySlug(ctx context.Context, slug string) (*models.SharedRecommendation, error) {
	query := url.Values{}
	query.Set("slug", "eq."+slug)
	query.Set("select", shareSelectColumns)
	query.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.tableURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("build select request: %w", err)
	}
	r.setHeaders(req)
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("select share: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("select share: status %d: %s", resp.StatusCode, strings.TrimSpace(string(responseBody)))
	}

	var rows []models.SharedRecommendation
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode share response: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrShareNotFound
	}
	return &rows[0], nil
}

func (r *SupabaseShareRepository) tableURL(query url.Values) string {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", r.baseURL, sharesTable)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

func (r *SupabaseShareRepository) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+r.serviceKey)
	req.Header.Set("apikey", r.serviceKey)
}
