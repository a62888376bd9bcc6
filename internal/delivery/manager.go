// Package delivery batches tracked data and ships it to the collector
// endpoints. Batches are removed only after a successful send, so everything
// is delivered at least once; the collector deduplicates on its side.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/betavietvn/leadtrack/internal/domain"
	"github.com/betavietvn/leadtrack/internal/logger"
)

const shutdownSendTimeout = 2 * time.Second

// Endpoints are the absolute URLs the manager posts to.
type Endpoints struct {
	Analytics string
	Contact   string
	Fraud     string
	Tracking  string
}

// Manager owns the pending batches. All methods are safe for concurrent use.
type Manager struct {
	client  *http.Client
	eps     Endpoints
	pageURL string

	mu     sync.Mutex
	events []domain.TrackingEvent
	clicks []domain.ContactClick
	forms  []domain.FormSubmissionRecord
	bot    domain.BotDetection
}

type eventBatch struct {
	Events       []domain.TrackingEvent `json:"events"`
	BotDetection domain.BotDetection    `json:"botDetection"`
}

type contactBatch struct {
	ContactClicks   []domain.ContactClick         `json:"contactClicks"`
	FormSubmissions []domain.FormSubmissionRecord `json:"formSubmissions"`
	Timestamp       time.Time                     `json:"timestamp"`
	URL             string                        `json:"url"`
	BotDetection    domain.BotDetection           `json:"botDetection"`
}

func NewManager(client *http.Client, eps Endpoints, pageURL string) *Manager {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Manager{
		client:  client,
		eps:     eps,
		pageURL: pageURL,
	}
}

// SetBotDetection records the result attached to every outgoing batch.
func (m *Manager) SetBotDetection(bot domain.BotDetection) {
	m.mu.Lock()
	m.bot = bot
	m.mu.Unlock()
}

// Enqueue adds an event to the pending batch for the next flush.
func (m *Manager) Enqueue(evt domain.TrackingEvent) {
	m.mu.Lock()
	m.events = append(m.events, evt)
	m.mu.Unlock()
}

func (m *Manager) RecordContactClick(click domain.ContactClick) {
	m.mu.Lock()
	m.clicks = append(m.clicks, click)
	m.mu.Unlock()
}

func (m *Manager) RecordFormSubmission(rec domain.FormSubmissionRecord) {
	m.mu.Lock()
	m.forms = append(m.forms, rec)
	m.mu.Unlock()
}

// SendEventNow delivers one event immediately, bypassing the batch. On
// failure the event joins the pending batch so it is retried at the next
// flush.
func (m *Manager) SendEventNow(ctx context.Context, evt domain.TrackingEvent) error {
	m.mu.Lock()
	bot := m.bot
	m.mu.Unlock()

	err := m.post(ctx, m.eps.Analytics, eventBatch{
		Events:       []domain.TrackingEvent{evt},
		BotDetection: bot,
	})
	if err != nil {
		logger.Get().Warn("immediate event delivery failed, queueing for retry",
			slog.String("event_type", string(evt.EventType)),
			slog.String("error", err.Error()),
		)
		m.Enqueue(evt)
		return err
	}
	return nil
}

// FlushEvents sends the pending event batch. The batch stays pending on
// failure; on success exactly the sent events are removed, so events enqueued
// during the send survive.
func (m *Manager) FlushEvents(ctx context.Context) error {
	m.mu.Lock()
	if len(m.events) == 0 {
		m.mu.Unlock()
		return nil
	}
	batch := append([]domain.TrackingEvent(nil), m.events...)
	bot := m.bot
	m.mu.Unlock()

	if err := m.post(ctx, m.eps.Analytics, eventBatch{Events: batch, BotDetection: bot}); err != nil {
		return err
	}

	m.mu.Lock()
	m.events = removeSent(m.events, batch)
	m.mu.Unlock()
	return nil
}

// FlushContactData sends pending contact clicks and form submission records.
func (m *Manager) FlushContactData(ctx context.Context) error {
	m.mu.Lock()
	if len(m.clicks) == 0 && len(m.forms) == 0 {
		m.mu.Unlock()
		return nil
	}
	clicks := append([]domain.ContactClick(nil), m.clicks...)
	forms := append([]domain.FormSubmissionRecord(nil), m.forms...)
	bot := m.bot
	m.mu.Unlock()

	payload := contactBatch{
		ContactClicks:   clicks,
		FormSubmissions: forms,
		Timestamp:       time.Now(),
		URL:             m.pageURL,
		BotDetection:    bot,
	}

	if err := m.post(ctx, m.eps.Contact, payload); err != nil {
		return err
	}

	m.mu.Lock()
	m.clicks = m.clicks[len(clicks):]
	m.forms = m.forms[len(forms):]
	m.mu.Unlock()
	return nil
}

// ReportFraud posts a fraud report. Reports are not retried; the next scoring
// pass over the threshold produces a fresh one.
func (m *Manager) ReportFraud(ctx context.Context, report domain.FraudReport) error {
	return m.post(ctx, m.eps.Fraud, report)
}

// SendSnapshot posts the full session snapshot to the tracking endpoint.
func (m *Manager) SendSnapshot(ctx context.Context, snap domain.SessionSnapshot) error {
	return m.post(ctx, m.eps.Tracking, snap)
}

// Shutdown makes a final best-effort delivery of everything still pending.
// Errors are logged and dropped; the page is going away and there is no later
// retry.
func (m *Manager) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownSendTimeout)
	defer cancel()

	if err := m.FlushEvents(ctx); err != nil {
		logger.Get().Warn("final event flush failed", slog.String("error", err.Error()))
	}
	if err := m.FlushContactData(ctx); err != nil {
		logger.Get().Warn("final contact flush failed", slog.String("error", err.Error()))
	}
}

// PendingEvents reports the size of the unflushed event batch.
func (m *Manager) PendingEvents() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// PendingContacts reports the unflushed contact click and form record counts.
func (m *Manager) PendingContacts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clicks), len(m.forms)
}

func (m *Manager) post(ctx context.Context, url string, payload any) error {
	if url == "" {
		return fmt.Errorf("no endpoint configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return nil
}

// removeSent drops from pending exactly the entries the sent batch carried,
// matching on event identity rather than position.
func removeSent(pending, sent []domain.TrackingEvent) []domain.TrackingEvent {
	remaining := pending[:0:0]
	for _, evt := range pending {
		delivered := false
		for _, s := range sent {
			if evt.SameIdentity(s) {
				delivered = true
				break
			}
		}
		if !delivered {
			remaining = append(remaining, evt)
		}
	}
	return remaining
}
