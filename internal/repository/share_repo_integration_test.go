package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testDBOnce sync.Once
	testDBPool *pgxpool.Pool
	testDBErr  error
)

func TestShareRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	repo := NewShareRepository(pool)

	share := sampleShare()
	share.ID = uuid.New()
	share.Slug = "it" + uuid.NewString()[:8]
	share.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, "DELETE FROM shared_recommendations WHERE id = $1", share.ID)
	})

	require.NoError(t, repo.Create(ctx, share))

	got, err := repo.GetBySlug(ctx, share.Slug)
	require.NoError(t, err)
	assert.Equal(t, share.ID, got.ID)
	assert.Equal(t, share.Recommendations, got.Recommendations)
	require.NotNil(t, got.RequestSummary)
	assert.Equal(t, *share.RequestSummary, *got.RequestSummary)

	duplicate := sampleShare()
	duplicate.ID = uuid.New()
	duplicate.Slug = share.Slug
	assert.ErrorIs(t, repo.Create(ctx, duplicate), ErrSlugConflict)
}

func TestShareRepositoryGetBySlugNotFound(t *testing.T) {
	pool := integrationTestPool(t)
	_, err := NewShareRepository(pool).GetBySlug(context.Background(), "nope000000")
	assert.ErrorIs(t, err, ErrShareNotFound)
}

func integrationTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	testDBOnce.Do(func() {
		_ = godotenv.Load(filepath.Join("..", "..", ".env"))

		dbURL := os.Getenv("TEST_DB_URL")
		if dbURL == "" {
			testDBErr = errors.New("TEST_DB_URL is not set")
			return
		}

		ctx := context.Background()
		testDBPool, testDBErr = pgxpool.New(ctx, dbURL)
		if testDBErr != nil {
			return
		}
		if testDBErr = testDBPool.Ping(ctx); testDBErr != nil {
			return
		}

		migration, err := os.ReadFile(filepath.Join("..", "..", "migrations", "000001_create_shared_recommendations.up.sql"))
		if err != nil {
			testDBErr = err
			return
		}
		_, testDBErr = testDBPool.Exec(ctx, string(migration))
	})

	if testDBErr != nil {
		t.Skipf("skipping integration test: %v", testDBErr)
	}
	return testDBPool
}
