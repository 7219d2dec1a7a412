package ports

import (
	"context"

	"lens-to-language/internal/core/domain"
)

type FeedbackRepository interface {
	Save(ctx context.Context, feedback *domain.Feedback) error
	Tally(ctx context.Context) (map[domain.FeedbackChoice]int, error)
}
