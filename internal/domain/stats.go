package domain

// SessionStats is the aggregated view of one stored session.
type SessionStats struct {
	SessionID     string `json:"session_id"`
	EventCount    int64  `json:"event_count"`
	ContactClicks int64  `json:"contact_clicks"`
	Submissions   int64  `json:"form_submissions"`
	FraudReports  int64  `json:"fraud_reports"`
	BotScore      int    `json:"bot_score"`
	IsBot         bool   `json:"is_bot"`
}
