// Package fraud turns accumulated session state into a 0-100 risk score.
// Every rule is additive and explains itself through a reason string, so a
// score can always be audited after the fact.
package fraud

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/betavietvn/leadtrack/internal/botcheck"
	"github.com/betavietvn/leadtrack/internal/domain"
	"github.com/betavietvn/leadtrack/pkg/validator"
)

const (
	// ReportThreshold is the score at which a report is sent immediately.
	ReportThreshold = 70

	historyCap = 100

	rapidClickGap   = 300 * time.Millisecond
	rapidContactGap = time.Second
	slopeEpsilon    = 0.1
)

// Input is everything one scoring pass looks at. All slices are snapshots
// owned by the caller; Evaluate never mutates them.
type Input struct {
	Snapshot      domain.SessionSnapshot
	Events        []domain.TrackingEvent
	Submissions   []domain.FormSubmission
	ContactClicks []domain.ContactClick
	Now           time.Time
}

// Scorer evaluates sessions and keeps a bounded history of past scores.
type Scorer struct {
	mu      sync.Mutex
	history []domain.FraudScore
}

func NewScorer() *Scorer {
	return &Scorer{}
}

// Evaluate runs every rule, clamps the total to [0,100] and records the
// result in the history.
func (s *Scorer) Evaluate(in Input) domain.FraudScore {
	score := 0
	var reasons []string

	add := func(points int, reason string) {
		score += points
		reasons = append(reasons, reason)
	}

	scoreBehavior(in, add)
	scoreForms(in, add)
	scoreContacts(in, add)
	scoreTechnical(in, add)

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	result := domain.FraudScore{
		Score:     score,
		Reasons:   reasons,
		Timestamp: in.Now,
		SessionID: in.Snapshot.Session.SessionID,
	}

	s.mu.Lock()
	if len(s.history) >= historyCap {
		s.history = s.history[1:]
	}
	s.history = append(s.history, result)
	s.mu.Unlock()

	return result
}

// Latest returns the most recent score, if any pass has run.
func (s *Scorer) Latest() (domain.FraudScore, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return domain.FraudScore{}, false
	}
	return s.history[len(s.history)-1], true
}

// IsFraudulent reports whether the latest score crossed the threshold.
func (s *Scorer) IsFraudulent() bool {
	latest, ok := s.Latest()
	return ok && latest.Score >= ReportThreshold
}

// History returns a copy of the recorded scores, oldest first.
func (s *Scorer) History() []domain.FraudScore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.FraudScore(nil), s.history...)
}

func scoreBehavior(in Input, add func(int, string)) {
	behavior := in.Snapshot.Behavior

	if bot := in.Snapshot.Bot; bot.Score >= botcheck.FlagThreshold {
		add(30, fmt.Sprintf("bot detection flagged session (score %d)", bot.Score))
		for _, r := range bot.Reasons {
			add(0, "bot: "+r)
		}
	}

	if behavior.TimeOnPage < 5 {
		add(15, "very short time on page")
	}

	if len(behavior.MouseMovements) == 0 {
		add(20, "no mouse movement")
	} else if linearMouseMovement(behavior.MouseMovements) {
		add(15, "mouse moves in straight lines")
	}

	if behavior.ClickCount == 0 {
		add(10, "no clicks")
	} else if rapidClicks(behavior.ClickPositions) {
		add(15, "rapid successive clicks")
	}

	if behavior.ScrollDepth == 0 {
		add(10, "no scrolling")
	}

	if behavior.KeyPresses == 0 && hasFormSubmit(in.Events) {
		add(10, "form submitted without keypresses")
	}
}

// scoreForms applies the per-submission checks to every form the session
// submitted, then the session-wide volume check.
func scoreForms(in Input, add func(int, string)) {
	if len(in.Submissions) == 0 {
		return
	}

	for _, sub := range in.Submissions {
		switch {
		case sub.CompletionTime < time.Second:
			add(25, "form completed in under one second")
		case sub.CompletionTime < 3*time.Second:
			add(15, "form completed suspiciously fast")
		}

		changes := sub.TotalFieldChanges()
		switch {
		case changes == 0:
			add(20, "form submitted with zero field changes")
		case changes < len(sub.Fields):
			add(10, "fewer field changes than fields")
		}

		if rapidFieldTransitions(sub.FieldInteractions) {
			add(20, "rapid transitions between form fields")
		}

		for _, field := range sub.Fields {
			name := strings.ToLower(field.Name)

			if isPhoneField(name) && !validator.IsVietnamesePhone(field.Value) {
				add(15, fmt.Sprintf("invalid phone number in field %q", field.Name))
			}

			if isEmailField(name, field.Type) {
				switch {
				case !validator.IsEmail(field.Value):
					add(15, fmt.Sprintf("invalid email in field %q", field.Name))
				case validator.IsDisposableEmailDomain(field.Value):
					add(20, fmt.Sprintf("disposable email domain in field %q", field.Name))
				}
			}
		}
	}

	if len(in.Submissions) > 3 {
		add(15, "more than three form submissions in one session")
	}
}

func scoreContacts(in Input, add func(int, string)) {
	clicks := in.ContactClicks
	if len(clicks) == 0 {
		return
	}

	if len(clicks) > 5 {
		add(15, "excessive contact clicks")
	}

	for i := 1; i < len(clicks); i++ {
		if clicks[i].Timestamp.Sub(clicks[i-1].Timestamp) < rapidContactGap {
			add(20, "consecutive contact clicks under one second apart")
			break
		}
	}

	channels := make(map[string]bool)
	for _, c := range clicks {
		channels[c.Channel] = true
	}
	if len(channels) > 3 {
		add(10, "contact attempts across many channels")
	}
}

func scoreTechnical(in Input, add func(int, string)) {
	device := in.Snapshot.Device
	network := in.Snapshot.Network

	if botcheck.SuspiciousUserAgent(device.UserAgent) {
		add(25, "suspicious user agent")
	}

	if !device.CookiesEnabled {
		add(15, "cookies disabled")
	}

	if !device.LocalStorageAvailable {
		add(15, "local storage unavailable")
	}

	if network.IsProxy || network.IsVPN || network.IsTor {
		add(20, "proxy, VPN or Tor connection")
	}
}

// linearMouseMovement checks consecutive sample triples for matching slopes.
// Needs at least ten samples; above 80% colinear triples is flagged. Vertical
// segments yield infinite slopes whose difference is NaN, which never counts
// as colinear.
func linearMouseMovement(samples []domain.PointSample) bool {
	if len(samples) < 10 {
		return false
	}

	colinear := 0
	total := len(samples) - 2

	for i := 0; i+2 < len(samples); i++ {
		s1 := slope(samples[i], samples[i+1])
		s2 := slope(samples[i+1], samples[i+2])
		if math.Abs(s1-s2) < slopeEpsilon {
			colinear++
		}
	}

	return float64(colinear)/float64(total) > 0.8
}

func slope(a, b domain.PointSample) float64 {
	return float64(b.Y-a.Y) / float64(b.X-a.X)
}

// rapidClicks reports whether more than a third of consecutive click gaps are
// under 300ms.
func rapidClicks(positions []domain.PointSample) bool {
	if len(positions) < 2 {
		return false
	}

	rapid := 0
	gaps := len(positions) - 1

	for i := 1; i < len(positions); i++ {
		if positions[i].At.Sub(positions[i-1].At) < rapidClickGap {
			rapid++
		}
	}

	return float64(rapid) > float64(gaps)/3
}

// rapidFieldTransitions measures how fast the visitor moved between fields:
// the gap from each field's focus back to the previous field's blur. More
// than half the interactions under 100ms is flagged. Pairs missing either
// timestamp are skipped.
func rapidFieldTransitions(interactions []domain.FieldInteraction) bool {
	if len(interactions) < 2 {
		return false
	}

	rapid := 0
	for i := 1; i < len(interactions); i++ {
		prevBlur := interactions[i-1].BlurTime
		focus := interactions[i].FocusTime
		if prevBlur.IsZero() || focus.IsZero() {
			continue
		}
		if focus.Sub(prevBlur) < 100*time.Millisecond {
			rapid++
		}
	}

	return float64(rapid) > float64(len(interactions))/2
}

func hasFormSubmit(events []domain.TrackingEvent) bool {
	for _, e := range events {
		if e.EventType == domain.EventFormSubmit {
			return true
		}
	}
	return false
}

func isPhoneField(name string) bool {
	return strings.Contains(name, "phone") ||
		strings.Contains(name, "tel") ||
		strings.Contains(name, "sdt") ||
		strings.Contains(name, "điện thoại")
}

func isEmailField(name, fieldType string) bool {
	return fieldType == "email" || strings.Contains(name, "email")
}
