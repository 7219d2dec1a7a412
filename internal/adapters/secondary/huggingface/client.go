package huggingface

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

	"lens-to-language/internal/config"
	"lens-to-language/internal/core/domain"
	output "lens-to-language/internal/core/ports/output"
)

const maxErrorBody = 4 << 10

type client struct {
	baseURL    string
	token      string
	hubIDs     map[domain.CaptionModel]string
	httpClient *http.Client
}

// NewClient creates a captioner factory backed by the Hugging Face Inference API
func NewClient(cfg *config.HuggingFaceConfig) output.CaptionerFactory {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	hubIDs := map[domain.CaptionModel]string{
		domain.ModelBLIP: domain.DefaultBLIPHubID,
		domain.ModelGIT:  domain.DefaultGITHubID,
	}
	if cfg.BLIPModel != "" {
		hubIDs[domain.ModelBLIP] = cfg.BLIPModel
	}
	if cfg.GITModel != "" {
		hubIDs[domain.ModelGIT] = cfg.GITModel
	}

	return &client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		hubIDs:  hubIDs,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *client) Name() string {
	return config.BackendHuggingFace
}

// Load checks the model is known to the endpoint. A cold model is still
// returned; inference requests ask the API to wait for it.
func (c *client) Load(ctx context.Context, model domain.CaptionModel) (output.Captioner, error) {
	hubID, ok := c.hubIDs[model]
	if !ok {
		return nil, domain.ErrUnknownModel
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status/"+hubID, nil)
	if err != nil {
		return nil, fmt.Errorf("create status request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendNotAvailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", domain.ErrModelNotFound, hubID)
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrBackendNotAvailable, resp.StatusCode, upstreamMessage(body))
	}

	log.WithFields(log.Fields{
		"model":  model,
		"hub_id": hubID,
		"state":  gjson.GetBytes(body, "state").String(),
		"loaded": gjson.GetBytes(body, "loaded").Bool(),
	}).Debug("huggingface model status")

	info, _ := model.Info()
	return &captioner{
		client:    c,
		model:     model,
		hubID:     hubID,
		maxLength: info.MaxLength,
	}, nil
}

func (c *client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

type captioner struct {
	client    *client
	model     domain.CaptionModel
	hubID     string
	maxLength int
}

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	MaxLength int `json:"max_length,omitempty"`
}

func (c *captioner) Model() domain.CaptionModel {
	return c.model
}

func (c *captioner) Caption(ctx context.Context, img *domain.Image) (string, error) {
	b64, err := img.Base64()
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(inferenceRequest{
		Inputs:     b64,
		Parameters: inferenceParameters{MaxLength: c.maxLength},
	})
	if err != nil {
		return "", fmt.Errorf("marshal inference request: %w", err)
	}

	url := c.client.baseURL + "/models/" + c.hubID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Wait-For-Model", "true")
	c.client.authorize(req)

	log.WithFields(log.Fields{
		"model": c.model,
		"url":   url,
	}).Debug("sending caption request to huggingface")

	resp, err := c.client.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBackendNotAvailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read inference response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		return "", fmt.Errorf("%w: %s", domain.ErrModelLoading, upstreamMessage(body))
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", domain.ErrModelNotFound, c.hubID)
	case resp.StatusCode >= 300:
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrInferenceFailed, resp.StatusCode, upstreamMessage(body))
	}

	return parseGeneratedText(body)
}

// parseGeneratedText accepts both [{"generated_text": ...}] and {"generated_text": ...}.
func parseGeneratedText(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: invalid JSON response", domain.ErrInferenceFailed)
	}

	parsed := gjson.ParseBytes(body)
	var text gjson.Result
	if parsed.IsArray() {
		text = parsed.Get("0.generated_text")
	} else {
		text = parsed.Get("generated_text")
	}
	if !text.Exists() {
		return "", fmt.Errorf("%w: response has no generated_text", domain.ErrInferenceFailed)
	}
	return text.String(), nil
}

func upstreamMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "error"); msg.Exists() {
		if eta := gjson.GetBytes(body, "estimated_time"); eta.Exists() {
			return fmt.Sprintf("%s (estimated %.0fs)", msg.String(), eta.Float())
		}
		return msg.String()
	}
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return strings.TrimSpace(string(body))
}

// Ensure interface compliance
var (
	_ output.CaptionerFactory = (*client)(nil)
	_ output.Captioner        = (*captioner)(nil)
)
