package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"lens-to-language/internal/adapters/primary/http/dto"
	"lens-to-language/internal/core/domain"
)

func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req dto.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	choice, err := domain.ParseFeedbackChoice(req.Choice)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	fb, msg, err := h.feedbackSvc.Submit(c.Request.Context(), choice)
	if err != nil {
		log.WithError(err).Error("submit feedback failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToFeedbackResponse(fb, msg))
}

func (h *Handler) FeedbackSummary(c *gin.Context) {
	counts, err := h.feedbackSvc.Summary(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("feedback summary failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFeedbackSummaryResponse(counts))
}
