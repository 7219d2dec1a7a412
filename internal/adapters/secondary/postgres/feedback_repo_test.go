package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lens-to-language/internal/core/domain"
)

// Runs against a live database only when TEST_DATABASE_DSN is set.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, EnsureSchema(context.Background(), pool))
	_, err = pool.Exec(context.Background(), `TRUNCATE caption_feedback`)
	require.NoError(t, err)
	return pool
}

func TestFeedbackRepo_SaveAndTally(t *testing.T) {
	pool := testPool(t)
	repo := NewFeedbackRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, domain.NewFeedback(domain.FeedbackBoth)))
	require.NoError(t, repo.Save(ctx, domain.NewFeedback(domain.FeedbackBoth)))
	require.NoError(t, repo.Save(ctx, domain.NewFeedback(domain.FeedbackGIT)))

	counts, err := repo.Tally(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[domain.FeedbackBoth])
	assert.Equal(t, 1, counts[domain.FeedbackGIT])
	assert.Zero(t, counts[domain.FeedbackBLIP])
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	pool := testPool(t)
	assert.NoError(t, EnsureSchema(context.Background(), pool))
}
