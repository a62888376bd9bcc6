package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/betavietvn/leadtrack/internal/domain"
	"github.com/betavietvn/leadtrack/internal/logger"
)

var ErrEmptyBatch = errors.New("batch contains no records")

// IngestRepository is the persistence the service needs.
type IngestRepository interface {
	InsertEvents(ctx context.Context, events []domain.TrackingEvent, bot domain.BotDetection) (int64, error)
	InsertContactClicks(ctx context.Context, clicks []domain.ContactClick) (int64, error)
	InsertFormSubmissions(ctx context.Context, subs []domain.FormSubmissionRecord) (int64, error)
	InsertFraudReport(ctx context.Context, report *domain.FraudReport) error
	UpsertSnapshot(ctx context.Context, snap *domain.SessionSnapshot) error
	GetSessionStats(ctx context.Context, sessionID string) (*domain.SessionStats, error)
}

// IngestService applies collector-side policy before persisting: fill in the
// network facts only the server can see, then store idempotently.
type IngestService struct {
	repo IngestRepository
}

func NewIngestService(repo IngestRepository) *IngestService {
	return &IngestService{repo: repo}
}

// StoreEvents persists an event batch. The client cannot know its own public
// IP, so it is stamped in here for any event missing one.
func (s *IngestService) StoreEvents(ctx context.Context, events []domain.TrackingEvent, bot domain.BotDetection, clientIP string) (int64, error) {
	if len(events) == 0 {
		return 0, ErrEmptyBatch
	}

	for i := range events {
		if events[i].Network.IP == "" {
			events[i].Network.IP = clientIP
		}
	}

	inserted, err := s.repo.InsertEvents(ctx, events, bot)
	if err != nil {
		return inserted, err
	}

	log := logger.FromContext(ctx)
	log.Info("event batch stored",
		slog.Int("received", len(events)),
		slog.Int64("inserted", inserted),
		slog.Int("bot_score", bot.Score),
	)
	if dup := int64(len(events)) - inserted; dup > 0 {
		log.Debug("duplicate events skipped", slog.Int64("count", dup))
	}
	return inserted, nil
}

// StoreContactBatch persists contact clicks and form submission records from
// one flush.
func (s *IngestService) StoreContactBatch(ctx context.Context, clicks []domain.ContactClick, subs []domain.FormSubmissionRecord) (int64, int64, error) {
	if len(clicks) == 0 && len(subs) == 0 {
		return 0, 0, ErrEmptyBatch
	}

	clicksInserted, err := s.repo.InsertContactClicks(ctx, clicks)
	if err != nil {
		return clicksInserted, 0, err
	}

	subsInserted, err := s.repo.InsertFormSubmissions(ctx, subs)
	if err != nil {
		return clicksInserted, subsInserted, err
	}

	logger.FromContext(ctx).Info("contact batch stored",
		slog.Int64("contact_clicks", clicksInserted),
		slog.Int64("form_submissions", subsInserted),
	)
	return clicksInserted, subsInserted, nil
}

// StoreFraudReport persists one report. High scores are worth a log line of
// their own; this is the signal an operator acts on.
func (s *IngestService) StoreFraudReport(ctx context.Context, report *domain.FraudReport) error {
	if err := s.repo.InsertFraudReport(ctx, report); err != nil {
		return err
	}

	logger.FromContext(ctx).Warn("fraud report stored",
		slog.String("session_id", report.FraudScore.SessionID),
		slog.Int("score", report.FraudScore.Score),
		slog.String("url", report.URL),
	)
	return nil
}

// StoreSnapshot upserts the latest full state for a session.
func (s *IngestService) StoreSnapshot(ctx context.Context, snap *domain.SessionSnapshot, clientIP string) error {
	if snap.Network.IP == "" {
		snap.Network.IP = clientIP
	}

	if err := s.repo.UpsertSnapshot(ctx, snap); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("session snapshot stored",
		slog.String("session_id", snap.Session.SessionID),
		slog.Int("bot_score", snap.Bot.Score),
	)
	return nil
}

// GetSessionStats returns the aggregated activity for one session.
func (s *IngestService) GetSessionStats(ctx context.Context, sessionID string) (*domain.SessionStats, error) {
	return s.repo.GetSessionStats(ctx, sessionID)
}
