package domain

import "errors"

// ============================================================================
// Upload Errors
// ============================================================================

var (
	ErrEmptyImage             = errors.New("image data is empty")
	ErrMissingImage           = errors.New("an image file is required (form field \"image\")")
	ErrUnsupportedImageFormat = errors.New("unsupported image format: only JPEG and PNG are accepted")
	ErrImageTooLarge          = errors.New("image exceeds the maximum upload size")
)

// ============================================================================
// Selection Errors
// ============================================================================

var (
	ErrInvalidModelChoice    = errors.New("model must be one of: blip, git, both")
	ErrInvalidFeedbackChoice = errors.New("feedback must be one of: BLIP, GIT, Both were great!, Neither impressed me")
	ErrUnknownModel          = errors.New("unknown caption model")
)

// ============================================================================
// Captioning Errors
// ============================================================================

// Not found errors
var (
	ErrModelNotFound = errors.New("caption model not found on the backend")
)

// Availability errors
var (
	ErrModelLoading        = errors.New("caption model is still loading on the backend")
	ErrModelNotReady       = errors.New("caption model inference service is not ready")
	ErrBackendNotAvailable = errors.New("caption backend is not available")
)

// Upstream errors
var (
	ErrInferenceFailed = errors.New("caption inference failed")
	ErrEmptyCaption    = errors.New("caption model returned no text")
)

// ============================================================================
// Request Errors
// ============================================================================

var (
	ErrRateLimited = errors.New("too many requests, slow down")
)
