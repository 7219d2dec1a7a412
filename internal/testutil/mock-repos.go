package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lens-to-language/internal/core/domain"
	"lens-to-language/internal/core/ports/output"
)

// MockFeedbackRepo is a mock of FeedbackRepository.
type MockFeedbackRepo struct {
	mock.Mock
}

func (m *MockFeedbackRepo) Save(ctx context.Context, feedback *domain.Feedback) error {
	args := m.Called(ctx, feedback)
	return args.Error(0)
}

func (m *MockFeedbackRepo) Tally(ctx context.Context) (map[domain.FeedbackChoice]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.FeedbackChoice]int), args.Error(1)
}

// MockCaptionerFactory is a mock of CaptionerFactory.
type MockCaptionerFactory struct {
	mock.Mock
}

func (m *MockCaptionerFactory) Name() string {
	return "mock"
}

func (m *MockCaptionerFactory) Load(ctx context.Context, model domain.CaptionModel) (ports.Captioner, error) {
	args := m.Called(ctx, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.Captioner), args.Error(1)
}

// MockCaptioner is a mock of Captioner.
type MockCaptioner struct {
	mock.Mock
	CaptionModel domain.CaptionModel
}

func (m *MockCaptioner) Model() domain.CaptionModel {
	return m.CaptionModel
}

func (m *MockCaptioner) Caption(ctx context.Context, img *domain.Image) (string, error) {
	args := m.Called(ctx, img)
	return args.String(0), args.Error(1)
}

// MockKServeClient is a mock of KServeClient.
type MockKServeClient struct {
	mock.Mock
}

func (m *MockKServeClient) GetStatus(ctx context.Context, namespace, name string) (*ports.KServeStatus, error) {
	args := m.Called(ctx, namespace, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.KServeStatus), args.Error(1)
}

func (m *MockKServeClient) IsAvailable() bool {
	args := m.Called()
	return args.Bool(0)
}
