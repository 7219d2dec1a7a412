package dto

import (
	"lens-to-language/internal/core/domain"
	"lens-to-language/internal/core/services"
)

type CaptionResponse struct {
	Model string `json:"model"`
	Name  string `json:"name"`
	Text  string `json:"text"`
}

type GenerateCaptionsResponse struct {
	Choice   string            `json:"choice"`
	Captions []CaptionResponse `json:"captions"`
	Error    string            `json:"error,omitempty"`
}

type ModelResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	HubID       string `json:"hub_id"`
	Backend     string `json:"backend"`
	MaxLength   int    `json:"max_length"`
	Loaded      bool   `json:"loaded"`
}

type ListModelsResponse struct {
	Items   []ModelResponse `json:"items"`
	Choices []ChoiceDTO     `json:"choices"`
}

type ChoiceDTO struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

func ToCaptionResponse(c domain.Caption) CaptionResponse {
	return CaptionResponse{
		Model: string(c.Model),
		Name:  c.Model.ShortName(),
		Text:  c.Text,
	}
}

func ToCaptionResponses(captions []domain.Caption) []CaptionResponse {
	items := make([]CaptionResponse, 0, len(captions))
	for _, c := range captions {
		items = append(items, ToCaptionResponse(c))
	}
	return items
}

func ToListModelsResponse(models []services.ModelStatus) ListModelsResponse {
	items := make([]ModelResponse, 0, len(models))
	for _, m := range models {
		items = append(items, ModelResponse{
			ID:          string(m.Info.Model),
			Name:        m.Info.ShortName,
			DisplayName: m.Info.DisplayName,
			HubID:       m.Info.HubID,
			Backend:     m.Backend,
			MaxLength:   m.Info.MaxLength,
			Loaded:      m.Loaded,
		})
	}

	choices := make([]ChoiceDTO, 0, len(domain.ModelChoices))
	for _, c := range domain.ModelChoices {
		choices = append(choices, ChoiceDTO{ID: string(c), Label: c.Label()})
	}

	return ListModelsResponse{Items: items, Choices: choices}
}
