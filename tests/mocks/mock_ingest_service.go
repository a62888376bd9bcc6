package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/betavietvn/leadtrack/internal/domain"
)

type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) StoreEvents(ctx context.Context, events []domain.TrackingEvent, bot domain.BotDetection, clientIP string) (int64, error) {
	args := m.Called(ctx, events, bot, clientIP)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIngestService) StoreContactBatch(ctx context.Context, clicks []domain.ContactClick, subs []domain.FormSubmissionRecord) (int64, int64, error) {
	args := m.Called(ctx, clicks, subs)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockIngestService) StoreFraudReport(ctx context.Context, report *domain.FraudReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockIngestService) StoreSnapshot(ctx context.Context, snap *domain.SessionSnapshot, clientIP string) error {
	args := m.Called(ctx, snap, clientIP)
	return args.Error(0)
}

func (m *MockIngestService) GetSessionStats(ctx context.Context, sessionID string) (*domain.SessionStats, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionStats), args.Error(1)
}
