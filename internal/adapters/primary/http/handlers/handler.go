package handlers

import (
	"lens-to-language/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	captionSvc     *services.CaptionService
	feedbackSvc    *services.FeedbackService
	maxUploadBytes int64
	maxPixels      int
}

func New(
	captionSvc *services.CaptionService,
	feedbackSvc *services.FeedbackService,
	maxUploadBytes int64,
	maxPixels int,
) *Handler {
	return &Handler{
		captionSvc:     captionSvc,
		feedbackSvc:    feedbackSvc,
		maxUploadBytes: maxUploadBytes,
		maxPixels:      maxPixels,
	}
}

// RegisterPages mounts the HTML surface. The engine must have the web
// templates loaded.
func (h *Handler) RegisterPages(r gin.IRoutes) {
	r.GET("/", h.Index)
	r.POST("/caption", h.CaptionPage)
	r.POST("/feedback", h.FeedbackPage)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Models
	r.GET("/models", h.ListModels)

	// Captions
	r.POST("/captions", h.GenerateCaptions)

	// Feedback
	r.POST("/feedback", h.SubmitFeedback)
	r.GET("/feedback/summary", h.FeedbackSummary)
}
