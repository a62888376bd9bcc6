package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/betavietvn/leadtrack/internal/domain"
)

// IngestRepository persists everything the collector receives. Batches arrive
// at least once, so every insert is idempotent on the sender-side identity.
type IngestRepository struct {
	db *pgxpool.Pool
}

func NewIngestRepository(db *pgxpool.Pool) *IngestRepository {
	return &IngestRepository{db: db}
}

// Migrate creates the collector tables. Safe to run on every start.
func (r *IngestRepository) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS visitor_events (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			event_type TEXT NOT NULL,
			sequence BIGINT NOT NULL DEFAULT 0,
			occurred_at TIMESTAMPTZ NOT NULL,
			device_fingerprint TEXT NOT NULL DEFAULT '',
			bot_score INT NOT NULL DEFAULT 0,
			payload JSONB NOT NULL,
			received_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (session_id, event_type, sequence, occurred_at)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_visitor_events_session ON visitor_events (session_id)`,
		`CREATE TABLE IF NOT EXISTS contact_clicks (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			channel TEXT NOT NULL,
			clicked_at TIMESTAMPTZ NOT NULL,
			bot_score INT NOT NULL DEFAULT 0,
			payload JSONB NOT NULL,
			received_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (session_id, channel, clicked_at)
		)`,
		`CREATE TABLE IF NOT EXISTS form_submissions (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			form_id TEXT NOT NULL,
			submitted_at TIMESTAMPTZ NOT NULL,
			completion_ms BIGINT NOT NULL DEFAULT 0,
			bot_score INT NOT NULL DEFAULT 0,
			payload JSONB NOT NULL,
			received_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (session_id, form_id, submitted_at)
		)`,
		`CREATE TABLE IF NOT EXISTS fraud_reports (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			score INT NOT NULL,
			reasons TEXT[] NOT NULL DEFAULT '{}',
			page_url TEXT NOT NULL DEFAULT '',
			reported_at TIMESTAMPTZ NOT NULL,
			payload JSONB NOT NULL,
			received_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS session_snapshots (
			session_id TEXT PRIMARY KEY,
			device_fingerprint TEXT NOT NULL DEFAULT '',
			bot_score INT NOT NULL DEFAULT 0,
			is_bot BOOLEAN NOT NULL DEFAULT FALSE,
			snapshot JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// InsertEvents stores a batch of tracking events. Replays of already-stored
// events are ignored. Returns the number of rows actually inserted.
func (r *IngestRepository) InsertEvents(ctx context.Context, events []domain.TrackingEvent, bot domain.BotDetection) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO visitor_events (session_id, event_type, sequence, occurred_at, device_fingerprint, bot_score, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id, event_type, sequence, occurred_at) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return 0, fmt.Errorf("failed to encode event: %w", err)
		}
		batch.Queue(query,
			evt.Session.SessionID,
			string(evt.EventType),
			evt.Sequence,
			evt.Timestamp,
			evt.Device.DeviceFingerprint,
			bot.Score,
			payload,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int64
	for range events {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to insert event: %w", err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

func (r *IngestRepository) InsertContactClicks(ctx context.Context, clicks []domain.ContactClick) (int64, error) {
	if len(clicks) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO contact_clicks (session_id, channel, clicked_at, bot_score, payload)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id, channel, clicked_at) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, click := range clicks {
		payload, err := json.Marshal(click)
		if err != nil {
			return 0, fmt.Errorf("failed to encode contact click: %w", err)
		}
		batch.Queue(query,
			click.User.SessionID,
			click.Channel,
			click.Timestamp,
			click.BotScore,
			payload,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int64
	for range clicks {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to insert contact click: %w", err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

func (r *IngestRepository) InsertFormSubmissions(ctx context.Context, subs []domain.FormSubmissionRecord) (int64, error) {
	if len(subs) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO form_submissions (session_id, form_id, submitted_at, completion_ms, bot_score, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_id, form_id, submitted_at) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, sub := range subs {
		payload, err := json.Marshal(sub)
		if err != nil {
			return 0, fmt.Errorf("failed to encode form submission: %w", err)
		}
		batch.Queue(query,
			sub.User.SessionID,
			sub.FormID,
			sub.Timestamp,
			sub.CompletionTime.Milliseconds(),
			sub.BotScore,
			payload,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int64
	for range subs {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to insert form submission: %w", err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

func (r *IngestRepository) InsertFraudReport(ctx context.Context, report *domain.FraudReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode fraud report: %w", err)
	}

	query := `
		INSERT INTO fraud_reports (session_id, score, reasons, page_url, reported_at, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.db.Exec(ctx, query,
		report.FraudScore.SessionID,
		report.FraudScore.Score,
		report.FraudScore.Reasons,
		report.URL,
		report.Timestamp,
		payload,
	)
	return err
}

// UpsertSnapshot keeps the latest full snapshot per session.
func (r *IngestRepository) UpsertSnapshot(ctx context.Context, snap *domain.SessionSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `
		INSERT INTO session_snapshots (session_id, device_fingerprint, bot_score, is_bot, snapshot, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (session_id) DO UPDATE SET
			device_fingerprint = EXCLUDED.device_fingerprint,
			bot_score = EXCLUDED.bot_score,
			is_bot = EXCLUDED.is_bot,
			snapshot = EXCLUDED.snapshot,
			updated_at = NOW()
	`
	_, err = r.db.Exec(ctx, query,
		snap.Session.SessionID,
		snap.Device.DeviceFingerprint,
		snap.Bot.Score,
		snap.Bot.IsBot,
		payload,
	)
	return err
}

// GetSessionStats aggregates stored activity for one session.
func (r *IngestRepository) GetSessionStats(ctx context.Context, sessionID string) (*domain.SessionStats, error) {
	stats := &domain.SessionStats{SessionID: sessionID}

	query := `
		SELECT
			(SELECT COUNT(*) FROM visitor_events WHERE session_id = $1),
			(SELECT COUNT(*) FROM contact_clicks WHERE session_id = $1),
			(SELECT COUNT(*) FROM form_submissions WHERE session_id = $1),
			(SELECT COUNT(*) FROM fraud_reports WHERE session_id = $1),
			COALESCE((SELECT bot_score FROM session_snapshots WHERE session_id = $1), 0),
			COALESCE((SELECT is_bot FROM session_snapshots WHERE session_id = $1), FALSE)
	`
	err := r.db.QueryRow(ctx, query, sessionID).Scan(
		&stats.EventCount,
		&stats.ContactClicks,
		&stats.Submissions,
		&stats.FraudReports,
		&stats.BotScore,
		&stats.IsBot,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
