package web

import (
	"embed"
	"html/template"

	"lens-to-language/internal/core/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

// IndexTemplate is the name of the single-page template.
const IndexTemplate = "index.html"

// Templates parses the embedded page templates for gin's HTML renderer.
func Templates() (*template.Template, error) {
	return template.ParseFS(templatesFS, "templates/*.html")
}

type ChoiceOption struct {
	Value    string
	Label    string
	Selected bool
}

type CaptionView struct {
	Model string
	Badge string
	Name  string
	Text  string
}

// Page is the view model of the single page.
type Page struct {
	Choices         []ChoiceOption
	Spinners        []string
	Preview         template.URL
	PreviewCaption  string
	Captions        []CaptionView
	Error           string
	ShowFeedback    bool
	FeedbackChoices []string
	Feedback        string
}

// NewPage builds the empty form with choice preselected.
func NewPage(choice domain.ModelChoice) *Page {
	p := &Page{}
	for _, c := range domain.ModelChoices {
		p.Choices = append(p.Choices, ChoiceOption{
			Value:    string(c),
			Label:    c.Label(),
			Selected: c == choice,
		})
	}
	for _, m := range choice.Models() {
		if info, err := m.Info(); err == nil {
			p.Spinners = append(p.Spinners, info.Spinner)
		}
	}
	return p
}

// WithPreview sets the uploaded image preview. A data URI that fails to
// encode is skipped.
func (p *Page) WithPreview(img *domain.Image) *Page {
	uri, err := img.DataURI()
	if err != nil {
		return p
	}
	p.Preview = template.URL(uri)
	p.PreviewCaption = domain.PreviewCaption()
	return p
}

func (p *Page) WithCaptions(captions []domain.Caption) *Page {
	for _, c := range captions {
		info, err := c.Model.Info()
		if err != nil {
			continue
		}
		p.Captions = append(p.Captions, CaptionView{
			Model: string(c.Model),
			Badge: info.Badge,
			Name:  info.ShortName,
			Text:  c.Text,
		})
	}
	return p
}

// WithFeedbackPoll shows the "which caption did you prefer?" form.
func (p *Page) WithFeedbackPoll() *Page {
	p.ShowFeedback = true
	p.FeedbackChoices = p.FeedbackChoices[:0]
	for _, c := range domain.FeedbackChoices {
		p.FeedbackChoices = append(p.FeedbackChoices, string(c))
	}
	return p
}

func (p *Page) WithError(msg string) *Page {
	p.Error = msg
	return p
}

func (p *Page) WithFeedback(choice domain.FeedbackChoice) *Page {
	p.Feedback = string(choice)
	return p
}
