package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"lens-to-language/internal/core/domain"
	output "lens-to-language/internal/core/ports/output"
)

const feedbackSchema = `
	CREATE TABLE IF NOT EXISTS caption_feedback (
		id         UUID PRIMARY KEY,
		choice     TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

type feedbackRepo struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(pool *pgxpool.Pool) output.FeedbackRepository {
	return &feedbackRepo{pool: pool}
}

// EnsureSchema creates the feedback table when it does not exist yet
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, feedbackSchema); err != nil {
		return fmt.Errorf("create caption_feedback table: %w", err)
	}
	return nil
}

func (r *feedbackRepo) Save(ctx context.Context, feedback *domain.Feedback) error {
	query := `
		INSERT INTO caption_feedback (id, choice, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.pool.Exec(ctx, query, feedback.ID, string(feedback.Choice), feedback.CreatedAt)
	if err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

func (r *feedbackRepo) Tally(ctx context.Context) (map[domain.FeedbackChoice]int, error) {
	query := `
		SELECT choice, COUNT(*)
		FROM caption_feedback
		GROUP BY choice
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("tally feedback: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.FeedbackChoice]int)
	for rows.Next() {
		var (
			choice string
			n      int
		)
		if err := rows.Scan(&choice, &n); err != nil {
			return nil, fmt.Errorf("scan feedback tally: %w", err)
		}
		counts[domain.FeedbackChoice(choice)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback tally: %w", err)
	}
	return counts, nil
}
