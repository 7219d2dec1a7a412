package kserve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"lens-to-language/internal/config"
	"lens-to-language/internal/core/domain"
	output "lens-to-language/internal/core/ports/output"
)

type predictorFactory struct {
	kserve     output.KServeClient
	namespace  string
	services   map[domain.CaptionModel]string
	device     string
	httpClient *http.Client
}

// NewCaptionerFactory resolves caption models to KServe InferenceServices
// and calls their v1 predict endpoint.
func NewCaptionerFactory(kserve output.KServeClient, cfg *config.KServeConfig) output.CaptionerFactory {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &predictorFactory{
		kserve:    kserve,
		namespace: cfg.DefaultNS,
		services: map[domain.CaptionModel]string{
			domain.ModelBLIP: cfg.BLIPService,
			domain.ModelGIT:  cfg.GITService,
		},
		device: cfg.Device,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (f *predictorFactory) Name() string {
	return config.BackendKServe
}

func (f *predictorFactory) Load(ctx context.Context, model domain.CaptionModel) (output.Captioner, error) {
	if f.kserve == nil || !f.kserve.IsAvailable() {
		return nil, domain.ErrBackendNotAvailable
	}

	name, ok := f.services[model]
	if !ok || name == "" {
		return nil, domain.ErrUnknownModel
	}

	status, err := f.kserve.GetStatus(ctx, f.namespace, name)
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: inferenceservice %s", domain.ErrModelNotFound, name)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendNotAvailable, err)
	}
	if !status.Ready || status.URL == "" {
		msg := status.Error
		if msg == "" {
			msg = "no ready condition"
		}
		return nil, fmt.Errorf("%w: %s: %s", domain.ErrModelNotReady, name, msg)
	}

	log.WithFields(log.Fields{
		"model":   model,
		"service": name,
		"url":     status.URL,
	}).Info("resolved kserve predictor")

	info, _ := model.Info()
	return &predictor{
		factory:   f,
		model:     model,
		endpoint:  fmt.Sprintf("%s/v1/models/%s:predict", strings.TrimRight(status.URL, "/"), name),
		maxLength: info.MaxLength,
	}, nil
}

type predictor struct {
	factory   *predictorFactory
	model     domain.CaptionModel
	endpoint  string
	maxLength int
}

type predictRequest struct {
	Instances  []predictInstance  `json:"instances"`
	Parameters *predictParameters `json:"parameters,omitempty"`
}

type predictInstance struct {
	Image predictImage `json:"image"`
}

type predictImage struct {
	B64 string `json:"b64"`
}

type predictParameters struct {
	MaxLength int    `json:"max_length,omitempty"`
	Device    string `json:"device,omitempty"`
}

func (p *predictor) Model() domain.CaptionModel {
	return p.model
}

func (p *predictor) Caption(ctx context.Context, img *domain.Image) (string, error) {
	b64, err := img.Base64()
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(predictRequest{
		Instances: []predictInstance{{Image: predictImage{B64: b64}}},
		Parameters: &predictParameters{
			MaxLength: p.maxLength,
			Device:    p.factory.device,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.factory.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBackendNotAvailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read predict response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		return "", fmt.Errorf("%w: %s", domain.ErrModelNotReady, strings.TrimSpace(string(body)))
	case resp.StatusCode >= 300:
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrInferenceFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return parsePrediction(body)
}

// parsePrediction reads predictions[0] as either a bare string or an object
// carrying generated_text.
func parsePrediction(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: invalid JSON response", domain.ErrInferenceFailed)
	}

	first := gjson.GetBytes(body, "predictions.0")
	switch {
	case first.Type == gjson.String:
		return first.String(), nil
	case first.IsObject() && first.Get("generated_text").Exists():
		return first.Get("generated_text").String(), nil
	}
	return "", fmt.Errorf("%w: response has no prediction", domain.ErrInferenceFailed)
}

var (
	_ output.CaptionerFactory = (*predictorFactory)(nil)
	_ output.Captioner        = (*predictor)(nil)
)
