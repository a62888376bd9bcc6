package domain

import "time"

// ContactUserInfo is the condensed session/device context attached to contact
// clicks and form submission records.
type ContactUserInfo struct {
	SessionID   string `json:"session_id"`
	DeviceType  string `json:"device_type"`
	Browser     string `json:"browser"`
	OS          string `json:"os"`
	Referrer    string `json:"referrer"`
	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`
}

// ContactBehaviorInfo is the behavior context at the moment of a contact
// interaction.
type ContactBehaviorInfo struct {
	TimeOnPage        int `json:"time_on_page"`
	ScrollDepth       int `json:"scroll_depth"`
	PreviousClicks    int `json:"previous_clicks"`
	PreviousPageViews int `json:"previous_page_views"`
}

// ContactClick is one click on a recognized contact affordance (tel/mailto,
// social link, or a button whose label reads like a contact action).
type ContactClick struct {
	Channel   string              `json:"contact_type"`
	Timestamp time.Time           `json:"timestamp"`
	Element   ElementInfo         `json:"element_info"`
	User      ContactUserInfo     `json:"user_info"`
	Behavior  ContactBehaviorInfo `json:"behavior_info"`
	BotScore  int                 `json:"bot_probability"`
}

// FormSubmissionRecord is the contact-tracking view of a submitted form,
// shipped to the contact-tracking endpoint separately from the event log.
type FormSubmissionRecord struct {
	FormID         string              `json:"form_id"`
	FormName       string              `json:"form_name"`
	Timestamp      time.Time           `json:"timestamp"`
	CompletionTime time.Duration       `json:"completion_time"`
	Fields         []ContactField      `json:"fields"`
	User           ContactUserInfo     `json:"user_info"`
	Behavior       ContactBehaviorInfo `json:"behavior_info"`
	BotScore       int                 `json:"bot_probability"`
}

// ContactField is a submitted field plus its interaction stats.
type ContactField struct {
	Name            string        `json:"name"`
	Type            string        `json:"type"`
	Value           string        `json:"value"`
	Valid           bool          `json:"is_valid"`
	InteractionTime time.Duration `json:"interaction_time"`
	ChangeCount     int           `json:"change_count"`
}
