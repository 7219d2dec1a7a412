package services

import (
	"context"

	log "github.com/sirupsen/logrus"

	"lens-to-language/internal/core/domain"
	output "lens-to-language/internal/core/ports/output"
)

type FeedbackService struct {
	repo output.FeedbackRepository
}

// NewFeedbackService wires an optional store; with a nil repo votes are only
// acknowledged.
func NewFeedbackService(repo output.FeedbackRepository) *FeedbackService {
	return &FeedbackService{repo: repo}
}

// Submit records the vote and returns it with the acknowledgement message.
func (s *FeedbackService) Submit(ctx context.Context, choice domain.FeedbackChoice) (*domain.Feedback, string, error) {
	if _, err := domain.ParseFeedbackChoice(string(choice)); err != nil {
		return nil, "", err
	}

	fb := domain.NewFeedback(choice)
	if s.repo != nil {
		if err := s.repo.Save(ctx, fb); err != nil {
			return nil, "", err
		}
	}

	log.WithFields(log.Fields{
		"feedback_id": fb.ID,
		"choice":      fb.Choice,
	}).Info("feedback received")

	return fb, domain.FeedbackAck(choice), nil
}

// Summary returns vote counts for every choice, zeros included.
func (s *FeedbackService) Summary(ctx context.Context) (map[domain.FeedbackChoice]int, error) {
	counts := make(map[domain.FeedbackChoice]int, len(domain.FeedbackChoices))
	for _, c := range domain.FeedbackChoices {
		counts[c] = 0
	}
	if s.repo == nil {
		return counts, nil
	}

	tally, err := s.repo.Tally(ctx)
	if err != nil {
		return nil, err
	}
	for c, n := range tally {
		counts[c] = n
	}
	return counts, nil
}
