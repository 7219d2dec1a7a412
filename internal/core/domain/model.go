package domain

import "strings"

// ============================================================================
// Caption Models
// ============================================================================

// CaptionModel identifies one of the pretrained captioning models.
type CaptionModel string

const (
	ModelBLIP CaptionModel = "blip"
	ModelGIT  CaptionModel = "git"
)

// DefaultBLIPHubID and DefaultGITHubID are the hub checkpoints the demo ships with.
const (
	DefaultBLIPHubID = "Salesforce/blip-image-captioning-base"
	DefaultGITHubID  = "microsoft/git-base"
)

// ModelInfo carries the presentation and generation settings of a model.
type ModelInfo struct {
	Model       CaptionModel
	DisplayName string
	ShortName   string
	HubID       string
	Badge       string
	Spinner     string
	MaxLength   int
}

var modelInfos = map[CaptionModel]ModelInfo{
	ModelBLIP: {
		Model:       ModelBLIP,
		DisplayName: "BLIP (Salesforce)",
		ShortName:   "BLIP",
		HubID:       DefaultBLIPHubID,
		Badge:       "🧠",
		Spinner:     "🔮 BLIP is thinking...",
		MaxLength:   20,
	},
	ModelGIT: {
		Model:       ModelGIT,
		DisplayName: "GIT (Microsoft)",
		ShortName:   "GIT",
		HubID:       DefaultGITHubID,
		Badge:       "🤖",
		Spinner:     "🔍 GIT is analyzing...",
		MaxLength:   50,
	},
}

// AllModels is the fixed rendering order.
var AllModels = []CaptionModel{ModelBLIP, ModelGIT}

func (m CaptionModel) Info() (ModelInfo, error) {
	info, ok := modelInfos[m]
	if !ok {
		return ModelInfo{}, ErrUnknownModel
	}
	return info, nil
}

func (m CaptionModel) IsValid() bool {
	_, ok := modelInfos[m]
	return ok
}

// ShortName is "BLIP" or "GIT"; unknown models render as their raw key.
func (m CaptionModel) ShortName() string {
	if info, ok := modelInfos[m]; ok {
		return info.ShortName
	}
	return string(m)
}

// ============================================================================
// Model Choice
// ============================================================================

// ModelChoice is the user's pick in the model select.
type ModelChoice string

const (
	ChoiceBLIP ModelChoice = "blip"
	ChoiceGIT  ModelChoice = "git"
	ChoiceBoth ModelChoice = "both"
)

// ModelChoices is the select's option order.
var ModelChoices = []ModelChoice{ChoiceBLIP, ChoiceGIT, ChoiceBoth}

var choiceLabels = map[ModelChoice]string{
	ChoiceBLIP: "BLIP (Salesforce)",
	ChoiceGIT:  "GIT (Microsoft)",
	ChoiceBoth: "Compare Both",
}

// ParseModelChoice accepts a key or a display label. An empty value selects
// the first option, matching the select's initial state.
func ParseModelChoice(s string) (ModelChoice, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ChoiceBLIP, nil
	}
	for _, c := range ModelChoices {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, choiceLabels[c]) {
			return c, nil
		}
	}
	return "", ErrInvalidModelChoice
}

func (c ModelChoice) Label() string {
	return choiceLabels[c]
}

// Models expands the choice into the models to run, BLIP first.
func (c ModelChoice) Models() []CaptionModel {
	switch c {
	case ChoiceBLIP:
		return []CaptionModel{ModelBLIP}
	case ChoiceGIT:
		return []CaptionModel{ModelGIT}
	case ChoiceBoth:
		return []CaptionModel{ModelBLIP, ModelGIT}
	}
	return nil
}

// CollectsFeedback reports whether the feedback poll is shown for the choice.
func (c ModelChoice) CollectsFeedback() bool {
	return c == ChoiceBoth
}
