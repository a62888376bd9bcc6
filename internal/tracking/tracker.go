package tracking

import (
	"log/slog"
	"sync"

	"github.com/betavietvn/leadtrack/internal/domain"
	"github.com/betavietvn/leadtrack/internal/logger"
)

// highValueTypes are delivered immediately instead of waiting for the next
// batch flush.
var highValueTypes = map[domain.EventType]bool{
	domain.EventFormSubmit:   true,
	domain.EventContactClick: true,
	domain.EventError:        true,
}

// IsHighValue reports whether events of this type skip batching.
func IsHighValue(t domain.EventType) bool { return highValueTypes[t] }

// Tracker owns the bounded event log. It is safe for concurrent use so the
// delivery layer can read while the pipeline appends.
type Tracker struct {
	mu          sync.Mutex
	events      []domain.TrackingEvent
	cap         int
	seq         int64
	initialized bool
	onHighValue func(domain.TrackingEvent)
}

func NewTracker(logCap int, onHighValue func(domain.TrackingEvent)) *Tracker {
	if logCap <= 0 {
		logCap = 1000
	}
	return &Tracker{
		cap:         logCap,
		onHighValue: onHighValue,
	}
}

// MarkInitialized opens the log for writes. Events tracked earlier are
// dropped with a warning rather than recorded against a half-built session.
func (t *Tracker) MarkInitialized() {
	t.mu.Lock()
	t.initialized = true
	t.mu.Unlock()
}

// Track stamps the event with its append sequence and adds it to the log.
// When the log is full the oldest entry is dropped. High-value event types
// also trigger the immediate delivery hook. The stamped event is returned so
// callers stage the same identity the log holds.
func (t *Tracker) Track(evt domain.TrackingEvent) domain.TrackingEvent {
	t.mu.Lock()

	if !t.initialized {
		t.mu.Unlock()
		logger.Get().Warn("event tracked before initialization, dropping",
			slog.String("event_type", string(evt.EventType)),
		)
		return evt
	}

	evt.Sequence = t.seq
	t.seq++

	if len(t.events) >= t.cap {
		t.events = t.events[1:]
	}
	t.events = append(t.events, evt)

	hook := t.onHighValue
	t.mu.Unlock()

	if hook != nil && highValueTypes[evt.EventType] {
		hook(evt)
	}
	return evt
}

// Events returns a copy of the full log, oldest first.
func (t *Tracker) Events() []domain.TrackingEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.TrackingEvent(nil), t.events...)
}

// Recent returns a copy of the newest n entries, oldest first.
func (t *Tracker) Recent(n int) []domain.TrackingEvent {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n > len(t.events) {
		n = len(t.events)
	}
	return append([]domain.TrackingEvent(nil), t.events[len(t.events)-n:]...)
}

func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.events)
}
