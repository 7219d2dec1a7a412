package dto

import (
	"time"

	"github.com/google/uuid"

	"lens-to-language/internal/core/domain"
)

type SubmitFeedbackRequest struct {
	Choice string `json:"choice" binding:"required"`
}

type FeedbackResponse struct {
	ID        uuid.UUID `json:"id"`
	Choice    string    `json:"choice"`
	Message   string    `json:"message"`
	CreatedAt string    `json:"created_at"`
}

type FeedbackSummaryResponse struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

func ToFeedbackResponse(fb *domain.Feedback, message string) FeedbackResponse {
	return FeedbackResponse{
		ID:        fb.ID,
		Choice:    string(fb.Choice),
		Message:   message,
		CreatedAt: fb.CreatedAt.Format(time.RFC3339),
	}
}

func ToFeedbackSummaryResponse(counts map[domain.FeedbackChoice]int) FeedbackSummaryResponse {
	resp := FeedbackSummaryResponse{Counts: make(map[string]int, len(counts))}
	for c, n := range counts {
		resp.Counts[string(c)] = n
		resp.Total += n
	}
	return resp
}
