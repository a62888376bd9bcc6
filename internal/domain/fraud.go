package domain

import "time"

// FraudScore is one scoring pass over a session. Score is clamped to [0,100];
// Reasons name every rule that fired, in evaluation order.
type FraudScore struct {
	Score     int       `json:"score"`
	Reasons   []string  `json:"reasons"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
}

// FraudReport is the out-of-band payload sent when a score crosses the
// reporting threshold. Events carries at most the 20 most recent log entries.
type FraudReport struct {
	FraudScore  FraudScore      `json:"fraud_score"`
	URL         string          `json:"url"`
	Timestamp   time.Time       `json:"timestamp"`
	SessionData SessionSnapshot `json:"session_data"`
	Events      []TrackingEvent `json:"events"`
}
