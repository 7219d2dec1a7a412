package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// FeedbackChoice is one of the fixed answers to "which caption did you prefer?".
type FeedbackChoice string

const (
	FeedbackBLIP    FeedbackChoice = "BLIP"
	FeedbackGIT     FeedbackChoice = "GIT"
	FeedbackBoth    FeedbackChoice = "Both were great!"
	FeedbackNeither FeedbackChoice = "Neither impressed me"
)

// FeedbackChoices is the radio's option order.
var FeedbackChoices = []FeedbackChoice{FeedbackBLIP, FeedbackGIT, FeedbackBoth, FeedbackNeither}

var feedbackKeys = map[string]FeedbackChoice{
	"blip":    FeedbackBLIP,
	"git":     FeedbackGIT,
	"both":    FeedbackBoth,
	"neither": FeedbackNeither,
}

// ParseFeedbackChoice accepts a label or its short key (blip, git, both, neither).
func ParseFeedbackChoice(s string) (FeedbackChoice, error) {
	s = strings.TrimSpace(s)
	for _, c := range FeedbackChoices {
		if s == string(c) {
			return c, nil
		}
	}
	if c, ok := feedbackKeys[strings.ToLower(s)]; ok {
		return c, nil
	}
	return "", ErrInvalidFeedbackChoice
}

// Feedback is a single vote.
type Feedback struct {
	ID        uuid.UUID      `json:"id"`
	Choice    FeedbackChoice `json:"choice"`
	CreatedAt time.Time      `json:"created_at"`
}

func NewFeedback(choice FeedbackChoice) *Feedback {
	return &Feedback{
		ID:        uuid.New(),
		Choice:    choice,
		CreatedAt: time.Now(),
	}
}

// FeedbackAck is the message shown after a vote.
func FeedbackAck(choice FeedbackChoice) string {
	return "Thanks for your feedback! You chose: " + string(choice)
}
