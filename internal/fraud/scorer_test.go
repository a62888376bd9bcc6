package fraud

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/betavietvn/leadtrack/internal/domain"
)

var testNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func zigzagMouse(n int) []domain.PointSample {
	samples := make([]domain.PointSample, n)
	for i := range samples {
		y := 0
		if i%2 == 1 {
			y = i * 10
		}
		samples[i] = domain.PointSample{X: i * 10, Y: y, At: testNow.Add(time.Duration(i) * 200 * time.Millisecond)}
	}
	return samples
}

func spacedClicks(n int) []domain.PointSample {
	clicks := make([]domain.PointSample, n)
	for i := range clicks {
		clicks[i] = domain.PointSample{X: 100 + i, Y: 200, At: testNow.Add(time.Duration(i) * 2 * time.Second)}
	}
	return clicks
}

func humanInput() Input {
	clicks := spacedClicks(3)
	return Input{
		Snapshot: domain.SessionSnapshot{
			Session: domain.SessionInfo{SessionID: "sess-1"},
			Device: domain.DeviceInfo{
				UserAgent:             "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0.0.0 Safari/537.36",
				CookiesEnabled:        true,
				LocalStorageAvailable: true,
			},
			Behavior: domain.BehaviorInfo{
				TimeOnPage:     60,
				ScrollDepth:    55,
				ClickCount:     len(clicks),
				ClickPositions: clicks,
				MouseMovements: zigzagMouse(8),
				KeyPresses:     24,
			},
		},
		Now: testNow,
	}
}

func TestEvaluate_HumanSessionScoresZero(t *testing.T) {
	scorer := NewScorer()

	score := scorer.Evaluate(humanInput())

	assert.Equal(t, 0, score.Score)
	assert.Empty(t, score.Reasons)
	assert.Equal(t, "sess-1", score.SessionID)
	assert.False(t, scorer.IsFraudulent())
}

func TestEvaluate_BotSessionClampsAtHundred(t *testing.T) {
	scorer := NewScorer()

	in := Input{
		Snapshot: domain.SessionSnapshot{
			Session: domain.SessionInfo{SessionID: "sess-bot"},
			Device: domain.DeviceInfo{
				UserAgent: "HeadlessChrome/120.0",
			},
			Behavior: domain.BehaviorInfo{TimeOnPage: 2},
			Bot:      domain.BotDetection{Score: 80, IsBot: true, Reasons: []string{"webdriver"}},
		},
		Events: []domain.TrackingEvent{
			{EventType: domain.EventFormSubmit, Timestamp: testNow},
		},
		Now: testNow,
	}

	score := scorer.Evaluate(in)

	assert.Equal(t, 100, score.Score)
	assert.True(t, scorer.IsFraudulent())
	assert.Contains(t, score.Reasons, "no mouse movement")
	assert.Contains(t, score.Reasons, "form submitted without keypresses")
	assert.Contains(t, score.Reasons, "bot: webdriver")
}

func TestEvaluate_LinearMouseMovement(t *testing.T) {
	scorer := NewScorer()

	in := humanInput()
	line := make([]domain.PointSample, 12)
	for i := range line {
		line[i] = domain.PointSample{X: i * 10, Y: i * 10, At: testNow.Add(time.Duration(i) * 200 * time.Millisecond)}
	}
	in.Snapshot.Behavior.MouseMovements = line

	score := scorer.Evaluate(in)

	assert.Equal(t, 15, score.Score)
	assert.Contains(t, score.Reasons, "mouse moves in straight lines")
}

func TestEvaluate_InstantFormSubmission(t *testing.T) {
	scorer := NewScorer()

	in := humanInput()
	in.Submissions = []domain.FormSubmission{{
		FormID:         "contact-form",
		Fields:         []domain.FormField{{Name: "name"}, {Name: "message"}},
		CompletionTime: 500 * time.Millisecond,
	}}

	score := scorer.Evaluate(in)

	// 25 for the sub-second completion, 20 for zero field changes.
	assert.Equal(t, 45, score.Score)
	assert.Contains(t, score.Reasons, "form completed in under one second")
	assert.Contains(t, score.Reasons, "form submitted with zero field changes")
}

func TestEvaluate_EverySubmissionScored(t *testing.T) {
	scorer := NewScorer()

	in := humanInput()
	instant := domain.FormSubmission{
		FormID:         "contact-form",
		Fields:         []domain.FormField{{Name: "name"}},
		CompletionTime: 500 * time.Millisecond,
		FieldInteractions: []domain.FieldInteraction{
			{FieldID: "name", ChangeCount: 4},
		},
	}
	in.Submissions = []domain.FormSubmission{instant, instant}

	score := scorer.Evaluate(in)

	// Both sub-second completions count, 25 each.
	assert.Equal(t, 50, score.Score)
	assert.Equal(t, []string{
		"form completed in under one second",
		"form completed in under one second",
	}, score.Reasons)
}

func TestEvaluate_RapidFieldTransitions(t *testing.T) {
	scorer := NewScorer()

	focus := testNow.Add(-20 * time.Second)
	interactions := make([]domain.FieldInteraction, 3)
	for i := range interactions {
		interactions[i] = domain.FieldInteraction{
			FieldID:     string(rune('a' + i)),
			FocusTime:   focus,
			BlurTime:    focus.Add(5 * time.Second),
			ChangeCount: 2,
		}
		// Long dwell on every field, but near-instant hops between them.
		focus = focus.Add(5*time.Second + 10*time.Millisecond)
	}

	in := humanInput()
	in.Submissions = []domain.FormSubmission{{
		FormID:            "contact-form",
		Fields:            []domain.FormField{{Name: "name"}, {Name: "address"}, {Name: "message"}},
		CompletionTime:    16 * time.Second,
		FieldInteractions: interactions,
	}}

	score := scorer.Evaluate(in)

	assert.Equal(t, 20, score.Score)
	assert.Contains(t, score.Reasons, "rapid transitions between form fields")
}

func TestEvaluate_ShortDwellsWithSlowTransitionsNotFlagged(t *testing.T) {
	scorer := NewScorer()

	focus := testNow.Add(-20 * time.Second)
	interactions := make([]domain.FieldInteraction, 3)
	for i := range interactions {
		interactions[i] = domain.FieldInteraction{
			FieldID:     string(rune('a' + i)),
			FocusTime:   focus,
			BlurTime:    focus.Add(50 * time.Millisecond),
			ChangeCount: 2,
		}
		focus = focus.Add(2 * time.Second)
	}

	in := humanInput()
	in.Submissions = []domain.FormSubmission{{
		FormID:            "contact-form",
		Fields:            []domain.FormField{{Name: "name"}, {Name: "address"}, {Name: "message"}},
		CompletionTime:    16 * time.Second,
		FieldInteractions: interactions,
	}}

	score := scorer.Evaluate(in)

	assert.Equal(t, 0, score.Score)
}

func TestEvaluate_SuspiciousFormFields(t *testing.T) {
	scorer := NewScorer()

	in := humanInput()
	in.Submissions = []domain.FormSubmission{{
		FormID:         "contact-form",
		CompletionTime: 45 * time.Second,
		Fields: []domain.FormField{
			{Name: "phone", Type: "tel", Value: "123"},
			{Name: "email", Type: "email", Value: "bot@mailinator.com"},
		},
		FieldInteractions: []domain.FieldInteraction{
			{FieldID: "phone", ChangeCount: 3},
			{FieldID: "email", ChangeCount: 5},
		},
	}}

	score := scorer.Evaluate(in)

	// 15 for the invalid phone, 20 for the disposable email domain.
	assert.Equal(t, 35, score.Score)
}

func TestEvaluate_ContactClickPatterns(t *testing.T) {
	scorer := NewScorer()

	in := humanInput()
	channels := []string{"phone", "zalo", "messenger", "email", "phone", "whatsapp"}
	for i, ch := range channels {
		in.ContactClicks = append(in.ContactClicks, domain.ContactClick{
			Channel:   ch,
			Timestamp: testNow.Add(time.Duration(i) * 2 * time.Second),
		})
	}

	score := scorer.Evaluate(in)

	// 15 for more than five clicks, 10 for more than three channels.
	assert.Equal(t, 25, score.Score)
}

func TestEvaluate_RapidContactClicks(t *testing.T) {
	scorer := NewScorer()

	in := humanInput()
	in.ContactClicks = []domain.ContactClick{
		{Channel: "phone", Timestamp: testNow},
		{Channel: "phone", Timestamp: testNow.Add(300 * time.Millisecond)},
	}

	score := scorer.Evaluate(in)

	assert.Equal(t, 20, score.Score)
	assert.Contains(t, score.Reasons, "consecutive contact clicks under one second apart")
}

func TestEvaluate_TechnicalSignals(t *testing.T) {
	scorer := NewScorer()

	in := humanInput()
	in.Snapshot.Device.CookiesEnabled = false
	in.Snapshot.Device.LocalStorageAvailable = false
	in.Snapshot.Network.IsVPN = true

	score := scorer.Evaluate(in)

	assert.Equal(t, 50, score.Score)
}

func TestScorer_HistoryAndLatest(t *testing.T) {
	scorer := NewScorer()

	_, ok := scorer.Latest()
	assert.False(t, ok)
	assert.False(t, scorer.IsFraudulent())

	scorer.Evaluate(humanInput())
	in := humanInput()
	in.Snapshot.Behavior = domain.BehaviorInfo{}
	second := scorer.Evaluate(in)

	latest, ok := scorer.Latest()
	assert.True(t, ok)
	assert.Equal(t, second.Score, latest.Score)
	assert.Len(t, scorer.History(), 2)
}
