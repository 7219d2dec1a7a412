package handlers

import (
	"errors"
	"net/http"

	"lens-to-language/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	// Bad request / validation errors
	case errors.Is(err, domain.ErrEmptyImage),
		errors.Is(err, domain.ErrMissingImage),
		errors.Is(err, domain.ErrUnsupportedImageFormat),
		errors.Is(err, domain.ErrInvalidModelChoice),
		errors.Is(err, domain.ErrInvalidFeedbackChoice),
		errors.Is(err, domain.ErrUnknownModel):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, domain.ErrModelNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge

	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests

	// Upstream errors
	case errors.Is(err, domain.ErrInferenceFailed),
		errors.Is(err, domain.ErrEmptyCaption):
		return http.StatusBadGateway

	// Service unavailable errors
	case errors.Is(err, domain.ErrModelLoading),
		errors.Is(err, domain.ErrModelNotReady),
		errors.Is(err, domain.ErrBackendNotAvailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// errorMessage hides the details of unexpected errors from clients.
func errorMessage(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}

func mapDomainError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": errorMessage(err)})
}
