package memory

import (
	"context"
	"sync"

	"lens-to-language/internal/core/domain"
	output "lens-to-language/internal/core/ports/output"
)

// feedbackRepo keeps per-choice tallies for the life of the process.
type feedbackRepo struct {
	mu     sync.RWMutex
	counts map[domain.FeedbackChoice]int
}

// NewFeedbackRepository creates an in-memory FeedbackRepository
func NewFeedbackRepository() output.FeedbackRepository {
	return &feedbackRepo{
		counts: make(map[domain.FeedbackChoice]int),
	}
}

func (r *feedbackRepo) Save(ctx context.Context, feedback *domain.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counts[feedback.Choice]++
	return nil
}

func (r *feedbackRepo) Tally(ctx context.Context) (map[domain.FeedbackChoice]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[domain.FeedbackChoice]int, len(r.counts))
	for c, n := range r.counts {
		out[c] = n
	}
	return out, nil
}
