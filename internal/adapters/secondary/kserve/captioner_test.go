package kserve

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"lens-to-language/internal/config"
	"lens-to-language/internal/core/domain"
	output "lens-to-language/internal/core/ports/output"
	"lens-to-language/internal/testutil"
)

func testConfig() *config.KServeConfig {
	return &config.KServeConfig{
		DefaultNS:   "model-serving",
		BLIPService: "blip",
		GITService:  "git",
		Device:      "cuda",
		Timeout:     5 * time.Second,
	}
}

func testImage(t *testing.T) *domain.Image {
	t.Helper()
	img, err := domain.NewImage(testutil.PNG(8, 8))
	require.NoError(t, err)
	return img
}

func TestPredictorFactory_Load_NotAvailable(t *testing.T) {
	ks := new(testutil.MockKServeClient)
	ks.On("IsAvailable").Return(false)

	_, err := NewCaptionerFactory(ks, testConfig()).Load(context.Background(), domain.ModelBLIP)
	assert.ErrorIs(t, err, domain.ErrBackendNotAvailable)

	_, err = NewCaptionerFactory(nil, testConfig()).Load(context.Background(), domain.ModelBLIP)
	assert.ErrorIs(t, err, domain.ErrBackendNotAvailable)
}

func TestPredictorFactory_Load_Errors(t *testing.T) {
	notFound := apierrors.NewNotFound(schema.GroupResource{Group: "serving.kserve.io", Resource: "inferenceservices"}, "blip")

	tests := []struct {
		name     string
		status   *output.KServeStatus
		err      error
		expected error
	}{
		{name: "not found", err: notFound, expected: domain.ErrModelNotFound},
		{name: "api error", err: errors.New("connection refused"), expected: domain.ErrBackendNotAvailable},
		{name: "not ready", status: &output.KServeStatus{Ready: false, Error: "pulling image"}, expected: domain.ErrModelNotReady},
		{name: "no url", status: &output.KServeStatus{Ready: true}, expected: domain.ErrModelNotReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ks := new(testutil.MockKServeClient)
			ks.On("IsAvailable").Return(true)
			ks.On("GetStatus", mock.Anything, "model-serving", "blip").Return(tt.status, tt.err)

			_, err := NewCaptionerFactory(ks, testConfig()).Load(context.Background(), domain.ModelBLIP)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestPredictor_Caption(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models/git:predict", r.URL.Path)

		var req predictRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		assert.Len(t, req.Instances, 1)
		assert.NotEmpty(t, req.Instances[0].Image.B64)
		assert.Equal(t, 50, req.Parameters.MaxLength)
		assert.Equal(t, "cuda", req.Parameters.Device)

		_, _ = w.Write([]byte(`{"predictions":["a pink tile"]}`))
	}))
	defer srv.Close()

	ks := new(testutil.MockKServeClient)
	ks.On("IsAvailable").Return(true)
	ks.On("GetStatus", mock.Anything, "model-serving", "git").Return(&output.KServeStatus{URL: srv.URL + "/", Ready: true}, nil)

	capt, err := NewCaptionerFactory(ks, testConfig()).Load(context.Background(), domain.ModelGIT)
	require.NoError(t, err)
	assert.Equal(t, domain.ModelGIT, capt.Model())

	text, err := capt.Caption(context.Background(), testImage(t))
	require.NoError(t, err)
	assert.Equal(t, "a pink tile", text)
}

func TestPredictor_Caption_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected error
	}{
		{name: "unavailable", status: http.StatusServiceUnavailable, expected: domain.ErrModelNotReady},
		{name: "server error", status: http.StatusInternalServerError, expected: domain.ErrInferenceFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			p := &predictor{
				factory:  NewCaptionerFactory(nil, testConfig()).(*predictorFactory),
				model:    domain.ModelBLIP,
				endpoint: srv.URL + "/v1/models/blip:predict",
			}
			_, err := p.Caption(context.Background(), testImage(t))
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestParsePrediction(t *testing.T) {
	text, err := parsePrediction([]byte(`{"predictions":[{"generated_text":"a cat"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "a cat", text)

	_, err = parsePrediction([]byte(`{"predictions":[]}`))
	assert.ErrorIs(t, err, domain.ErrInferenceFailed)

	_, err = parsePrediction([]byte(`<html>`))
	assert.ErrorIs(t, err, domain.ErrInferenceFailed)
}
