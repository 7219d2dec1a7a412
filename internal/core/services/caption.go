package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"lens-to-language/internal/core/domain"
	output "lens-to-language/internal/core/ports/output"
)

// ModelStatus is a caption model as listed to clients.
type ModelStatus struct {
	Info    domain.ModelInfo
	Backend string
	Loaded  bool
}

type CaptionService struct {
	factory output.CaptionerFactory
	maxDim  int

	mu     sync.RWMutex
	loaded map[domain.CaptionModel]output.Captioner
	group  singleflight.Group
}

func NewCaptionService(factory output.CaptionerFactory, maxDim int) *CaptionService {
	return &CaptionService{
		factory: factory,
		maxDim:  maxDim,
		loaded:  make(map[domain.CaptionModel]output.Captioner),
	}
}

// Load returns the captioner for model, loading it on first use. Successful
// loads are kept for the life of the process; failures are not. The shared
// load is not canceled with the caller that started it.
func (s *CaptionService) Load(ctx context.Context, model domain.CaptionModel) (output.Captioner, error) {
	if !model.IsValid() {
		return nil, domain.ErrUnknownModel
	}

	s.mu.RLock()
	c, ok := s.loaded[model]
	s.mu.RUnlock()
	if ok {
		return c, nil
	}

	v, err, _ := s.group.Do(string(model), func() (interface{}, error) {
		s.mu.RLock()
		c, ok := s.loaded[model]
		s.mu.RUnlock()
		if ok {
			return c, nil
		}

		start := time.Now()
		c, err := s.factory.Load(context.WithoutCancel(ctx), model)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.loaded[model] = c
		s.mu.Unlock()

		log.WithFields(log.Fields{
			"model":      model,
			"backend":    s.factory.Name(),
			"latency_ms": time.Since(start).Milliseconds(),
		}).Info("caption model loaded")
		return c, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", model, err)
	}
	return v.(output.Captioner), nil
}

// Generate captions img with every model the choice selects, in order. On
// failure the captions already produced are returned with the error.
func (s *CaptionService) Generate(ctx context.Context, img *domain.Image, choice domain.ModelChoice) ([]domain.Caption, error) {
	models := choice.Models()
	if len(models) == 0 {
		return nil, domain.ErrInvalidModelChoice
	}
	if img == nil {
		return nil, domain.ErrMissingImage
	}

	img = img.Resize(s.maxDim)

	captions := make([]domain.Caption, 0, len(models))
	for _, model := range models {
		caption, err := s.caption(ctx, img, model)
		if err != nil {
			return captions, err
		}
		captions = append(captions, caption)
	}
	return captions, nil
}

func (s *CaptionService) caption(ctx context.Context, img *domain.Image, model domain.CaptionModel) (domain.Caption, error) {
	c, err := s.Load(ctx, model)
	if err != nil {
		return domain.Caption{}, err
	}

	start := time.Now()
	raw, err := c.Caption(ctx, img)
	if err != nil {
		log.WithError(err).WithField("model", model).Warn("caption generation failed")
		return domain.Caption{}, fmt.Errorf("caption with %s: %w", model, err)
	}

	caption, err := domain.NewCaption(model, raw)
	if err != nil {
		return domain.Caption{}, fmt.Errorf("caption with %s: %w", model, err)
	}

	log.WithFields(log.Fields{
		"model":      model,
		"latency_ms": time.Since(start).Milliseconds(),
	}).Debug("caption generated")
	return caption, nil
}

// Models lists every caption model with its load state.
func (s *CaptionService) Models() []ModelStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ModelStatus, 0, len(domain.AllModels))
	for _, m := range domain.AllModels {
		info, _ := m.Info()
		_, loaded := s.loaded[m]
		items = append(items, ModelStatus{
			Info:    info,
			Backend: s.factory.Name(),
			Loaded:  loaded,
		})
	}
	return items
}
