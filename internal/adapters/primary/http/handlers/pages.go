package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"lens-to-language/internal/adapters/primary/http/web"
	"lens-to-language/internal/core/domain"
)

func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, web.IndexTemplate, web.NewPage(domain.ChoiceBLIP))
}

func (h *Handler) CaptionPage(c *gin.Context) {
	h.limitBody(c)

	choice, err := domain.ParseModelChoice(c.PostForm("model"))
	if err != nil {
		c.HTML(statusFor(err), web.IndexTemplate, web.NewPage(domain.ChoiceBLIP).WithError(errorMessage(err)))
		return
	}
	page := web.NewPage(choice)

	img, err := h.readUpload(c)
	if err != nil {
		c.HTML(statusFor(err), web.IndexTemplate, page.WithError(errorMessage(err)))
		return
	}
	page.WithPreview(img)

	captions, err := h.captionSvc.Generate(c.Request.Context(), img, choice)
	page.WithCaptions(captions)
	if err != nil {
		log.WithError(err).WithField("choice", choice).Error("generate captions failed")
		c.HTML(statusFor(err), web.IndexTemplate, page.WithError(errorMessage(err)))
		return
	}

	if choice.CollectsFeedback() {
		page.WithFeedbackPoll()
	}
	c.HTML(http.StatusOK, web.IndexTemplate, page)
}

// RateLimitedPage renders the page with the rate-limit error for browsers
// that exceeded their budget.
func (h *Handler) RateLimitedPage(c *gin.Context) {
	c.HTML(http.StatusTooManyRequests, web.IndexTemplate, web.NewPage(domain.ChoiceBLIP).WithError(errorMessage(domain.ErrRateLimited)))
}

// FeedbackPage acknowledges a vote and re-renders the captions it was cast on.
func (h *Handler) FeedbackPage(c *gin.Context) {
	page := web.NewPage(domain.ChoiceBoth).WithCaptions(carriedCaptions(c))

	choice, err := domain.ParseFeedbackChoice(c.PostForm("feedback"))
	if err != nil {
		c.HTML(statusFor(err), web.IndexTemplate, page.WithFeedbackPoll().WithError(errorMessage(err)))
		return
	}

	if _, _, err := h.feedbackSvc.Submit(c.Request.Context(), choice); err != nil {
		log.WithError(err).Error("submit feedback failed")
		c.HTML(statusFor(err), web.IndexTemplate, page.WithFeedbackPoll().WithError(errorMessage(err)))
		return
	}

	c.HTML(http.StatusOK, web.IndexTemplate, page.WithFeedback(choice))
}

func carriedCaptions(c *gin.Context) []domain.Caption {
	var captions []domain.Caption
	for _, m := range domain.AllModels {
		caption, err := domain.NewCaption(m, c.PostForm("caption_"+string(m)))
		if err != nil {
			continue
		}
		captions = append(captions, caption)
	}
	return captions
}
