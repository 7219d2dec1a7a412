package domain

import (
	"math/rand"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Caption is one model's generated description of an image.
type Caption struct {
	Model CaptionModel `json:"model"`
	Text  string       `json:"text"`
}

// NewCaption trims and capitalizes raw model output.
func NewCaption(model CaptionModel, raw string) (Caption, error) {
	text := Capitalize(strings.TrimSpace(raw))
	if text == "" {
		return Caption{}, ErrEmptyCaption
	}
	return Caption{Model: model, Text: text}, nil
}

// Capitalize upper-cases the first rune and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}

var previewCaptions = []string{
	"🎨 Art in motion",
	"👀 What do we have here?",
	"Visual vibes",
}

// PreviewCaption picks the label shown under the uploaded image.
func PreviewCaption() string {
	return previewCaptions[rand.Intn(len(previewCaptions))]
}
