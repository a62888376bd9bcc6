package tracking

import (
	"time"

	"github.com/betavietvn/leadtrack/internal/domain"
)

// PageEvent is one observation delivered by the page event source. The
// pipeline consumes these on a single goroutine, so handlers never race.
type PageEvent interface {
	pageEvent()
	When() time.Time
}

// EventSource feeds page observations into the pipeline. Closing the channel
// signals that the page is gone.
type EventSource interface {
	Events() <-chan PageEvent
}

type PageViewEvent struct {
	At    time.Time
	URL   string
	Title string
}

type ClickEvent struct {
	At      time.Time
	X, Y    int
	Element *domain.ElementInfo
}

type MouseMoveEvent struct {
	At   time.Time
	X, Y int
}

// ScrollEvent reports the viewport position. Depth percent is derived as
// (Top+ViewportHeight)/PageHeight.
type ScrollEvent struct {
	At             time.Time
	Top            float64
	ViewportHeight float64
	PageHeight     float64
}

type KeyPressEvent struct {
	At time.Time
}

// VisibilityEvent fires when the page is hidden or shown again.
type VisibilityEvent struct {
	At     time.Time
	Hidden bool
}

type FieldFocusEvent struct {
	At      time.Time
	FieldID string
}

type FieldBlurEvent struct {
	At      time.Time
	FieldID string
}

type FieldChangeEvent struct {
	At      time.Time
	FieldID string
}

type FormSubmitEvent struct {
	At       time.Time
	FormID   string
	FormName string
	Fields   []domain.FormField
	Errors   []domain.FieldError
}

type ErrorEvent struct {
	At      time.Time
	Message string
	Source  string
	Line    int
}

func (e PageViewEvent) pageEvent()    {}
func (e ClickEvent) pageEvent()       {}
func (e MouseMoveEvent) pageEvent()   {}
func (e ScrollEvent) pageEvent()      {}
func (e KeyPressEvent) pageEvent()    {}
func (e VisibilityEvent) pageEvent()  {}
func (e FieldFocusEvent) pageEvent()  {}
func (e FieldBlurEvent) pageEvent()   {}
func (e FieldChangeEvent) pageEvent() {}
func (e FormSubmitEvent) pageEvent()  {}
func (e ErrorEvent) pageEvent()       {}

func (e PageViewEvent) When() time.Time    { return e.At }
func (e ClickEvent) When() time.Time       { return e.At }
func (e MouseMoveEvent) When() time.Time   { return e.At }
func (e ScrollEvent) When() time.Time      { return e.At }
func (e KeyPressEvent) When() time.Time    { return e.At }
func (e VisibilityEvent) When() time.Time  { return e.At }
func (e FieldFocusEvent) When() time.Time  { return e.At }
func (e FieldBlurEvent) When() time.Time   { return e.At }
func (e FieldChangeEvent) When() time.Time { return e.At }
func (e FormSubmitEvent) When() time.Time  { return e.At }
func (e ErrorEvent) When() time.Time       { return e.At }

// ChannelSource is the trivial EventSource over a plain channel. The
// simulator and tests use it directly.
type ChannelSource struct {
	ch chan PageEvent
}

func NewChannelSource(buffer int) *ChannelSource {
	return &ChannelSource{ch: make(chan PageEvent, buffer)}
}

func (s *ChannelSource) Events() <-chan PageEvent { return s.ch }

// Emit delivers one event. It blocks when the buffer is full.
func (s *ChannelSource) Emit(evt PageEvent) { s.ch <- evt }

// Close ends the stream.
func (s *ChannelSource) Close() { close(s.ch) }
