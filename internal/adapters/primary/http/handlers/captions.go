package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"lens-to-language/internal/adapters/primary/http/dto"
	"lens-to-language/internal/core/domain"
)

func (h *Handler) ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToListModelsResponse(h.captionSvc.Models()))
}

func (h *Handler) GenerateCaptions(c *gin.Context) {
	h.limitBody(c)

	choice, err := domain.ParseModelChoice(c.PostForm("model"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	img, err := h.readUpload(c)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	captions, err := h.captionSvc.Generate(c.Request.Context(), img, choice)
	resp := dto.GenerateCaptionsResponse{
		Choice:   string(choice),
		Captions: dto.ToCaptionResponses(captions),
	}
	if err != nil {
		log.WithError(err).WithField("choice", choice).Error("generate captions failed")
		resp.Error = errorMessage(err)
		c.JSON(statusFor(err), resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}
