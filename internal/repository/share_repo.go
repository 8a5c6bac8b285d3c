package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/asimmons-coder/internal-coach-matching/internal/models"
)

const (
	uniqueViolationCode = "23505"
	slugConstraintName  = "shared_recommendations_slug_key"
)

type ShareRepository struct {
	db DBTX
}

func NewShareRepository(db DBTX) *ShareRepository {
	return &ShareRepository{db: db}
}

func (r *ShareRepository) Create(ctx context.Context, share *models.SharedRecommendation) error {
	recommendations, err := json.Marshal(share.Recommendations)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}

	query := `
		INSERT INTO shared_recommendations (id, slug, recommendations, request_summary, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.db.Exec(ctx, query,
		share.ID,
		share.Slug,
		recommendations,
		share.RequestSummary,
		share.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode && pgErr.ConstraintName == slugConstraintName {
			return ErrSlugConflict
		}
		return err
	}
	return nil
}

func (r *ShareRepository) GetBySlug(ctx context.Context, slug string) (*models.SharedRecommendation, error) {
	query := `
		SELECT id, slug, recommendations, request_summary, created_at
		FROM shared_recommendations
		WHERE slug = $1
	`
	var (
		share           models.SharedRecommendation
		recommendations []byte
	)
	err := r.db.QueryRow(ctx, query, slug).Scan(
		&share.ID,
		&share.Slug,
		&recommendations,
		&share.RequestSummary,
		&share.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrShareNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(recommendations, &share.Recommendations); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	return &share, nil
}
