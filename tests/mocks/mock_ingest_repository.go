package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/betavietvn/leadtrack/internal/domain"
)

type MockIngestRepository struct {
	mock.Mock
}

func (m *MockIngestRepository) InsertEvents(ctx context.Context, events []domain.TrackingEvent, bot domain.BotDetection) (int64, error) {
	args := m.Called(ctx, events, bot)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIngestRepository) InsertContactClicks(ctx context.Context, clicks []domain.ContactClick) (int64, error) {
	args := m.Called(ctx, clicks)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIngestRepository) InsertFormSubmissions(ctx context.Context, subs []domain.FormSubmissionRecord) (int64, error) {
	args := m.Called(ctx, subs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIngestRepository) InsertFraudReport(ctx context.Context, report *domain.FraudReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockIngestRepository) UpsertSnapshot(ctx context.Context, snap *domain.SessionSnapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func (m *MockIngestRepository) GetSessionStats(ctx context.Context, sessionID string) (*domain.SessionStats, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionStats), args.Error(1)
}
