package ports

import (
	"context"

	"lens-to-language/internal/core/domain"
)

// Captioner generates a caption for one model on a loaded backend.
type Captioner interface {
	// Model reports which caption model this captioner runs
	Model() domain.CaptionModel

	// Caption returns the raw generated text for img
	Caption(ctx context.Context, img *domain.Image) (string, error)
}

// CaptionerFactory loads caption models on a concrete backend
type CaptionerFactory interface {
	// Name identifies the backend in logs and the models listing
	Name() string

	// Load prepares model for inference (endpoint discovery, warm-up)
	Load(ctx context.Context, model domain.CaptionModel) (Captioner, error)
}
