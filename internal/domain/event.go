package domain

import "time"

// EventType identifies a tracking event.
type EventType string

const (
	EventPageView        EventType = "page_view"
	EventFormSubmit      EventType = "form_submit"
	EventFormFieldChange EventType = "form_field_change"
	EventButtonClick     EventType = "button_click"
	EventLinkClick       EventType = "link_click"
	EventSocialShare     EventType = "social_share"
	EventContactClick    EventType = "contact_click"
	EventScrollDepth     EventType = "scroll_depth"
	EventTimeOnPage      EventType = "time_on_page"
	EventMouseMovement   EventType = "mouse_movement"
	EventError           EventType = "error"
)

// ElementInfo identifies the DOM element behind a click-like event. The event
// source resolves it; the pipeline never touches a real DOM.
type ElementInfo struct {
	Kind     string      `json:"element_type"` // a, button, input
	ID       string      `json:"element_id"`
	Text     string      `json:"element_text"`
	Path     string      `json:"element_path"`
	Href     string      `json:"href,omitempty"`
	DataAttr string      `json:"data_contact,omitempty"`
	Position PointSample `json:"element_position"`
}

// TrackingEvent is an immutable record appended to the event log. Device,
// session and behavior are value snapshots taken at append time. Sequence is
// the append position within the session, assigned by the log.
type TrackingEvent struct {
	EventType EventType       `json:"event_type"`
	Sequence  int64           `json:"sequence"`
	Timestamp time.Time       `json:"timestamp"`
	Device    DeviceInfo      `json:"device_info"`
	Network   NetworkInfo     `json:"network_info"`
	Session   SessionInfo     `json:"session_info"`
	Behavior  BehaviorInfo    `json:"behavior_info"`
	Element   *ElementInfo    `json:"element_info,omitempty"`
	Form      *FormSubmission `json:"form_data,omitempty"`
	Custom    map[string]any  `json:"custom_data,omitempty"`
}

// SameIdentity reports whether two events refer to the same appended record.
// Delivery uses it to remove exactly the records a successful batch carried.
// The sequence keeps two same-type events in the same instant distinct.
func (e TrackingEvent) SameIdentity(other TrackingEvent) bool {
	return e.Session.SessionID == other.Session.SessionID &&
		e.Sequence == other.Sequence &&
		e.EventType == other.EventType &&
		e.Timestamp.Equal(other.Timestamp)
}
