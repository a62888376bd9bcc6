package domain

import "time"

// SessionInfo describes one page-load session. Everything except the
// persisted visit counters is fixed at session start.
type SessionInfo struct {
	SessionID        string    `json:"session_id"`
	StartTime        time.Time `json:"start_time"`
	Referrer         string    `json:"referrer"`
	UTMSource        string    `json:"utm_source"`
	UTMMedium        string    `json:"utm_medium"`
	UTMCampaign      string    `json:"utm_campaign"`
	UTMTerm          string    `json:"utm_term"`
	UTMContent       string    `json:"utm_content"`
	LandingPage      string    `json:"landing_page"`
	PreviousVisits   int64     `json:"previous_visits"`
	PreviousSessions int64     `json:"previous_sessions"`
}

// SessionSnapshot is the aggregate state sent to the tracking endpoint and
// fed into fraud scoring. All fields are value copies.
type SessionSnapshot struct {
	Session  SessionInfo  `json:"session_info"`
	Device   DeviceInfo   `json:"device_info"`
	Network  NetworkInfo  `json:"network_info"`
	Behavior BehaviorInfo `json:"behavior_info"`
	Bot      BotDetection `json:"bot_detection"`
}

// BotDetection summarises the environment heuristics for a session.
type BotDetection struct {
	Score   int      `json:"score"`
	IsBot   bool     `json:"is_bot"`
	Reasons []string `json:"reasons"`
}
