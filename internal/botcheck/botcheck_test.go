package botcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/betavietvn/leadtrack/internal/domain"
)

func humanEnv() domain.Environment {
	return domain.Environment{
		UserAgent:              "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0.0.0 Safari/537.36",
		Language:               "vi-VN",
		Languages:              []string{"vi-VN", "en-US"},
		Plugins:                []string{"PDF Viewer"},
		CookiesEnabled:         true,
		LocalStorageAvailable:  true,
		NotificationPermission: "default",
	}
}

func TestEvaluate_CleanEnvironment(t *testing.T) {
	res := Evaluate(humanEnv())

	assert.Equal(t, 0, res.Score)
	assert.Empty(t, res.Reasons)
	assert.False(t, res.Flagged)
}

func TestEvaluate_CrawlerUserAgentShortCircuits(t *testing.T) {
	env := humanEnv()
	env.UserAgent = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
	env.WebDriver = true
	env.AutomationGlobals = []string{"__nightmare"}

	res := Evaluate(env)

	assert.Equal(t, 50, res.Score)
	assert.True(t, res.Flagged)
	// The UA verdict is conclusive; later checks never run.
	assert.Len(t, res.Reasons, 1)
}

func TestEvaluate_HeadlessSignalsScoreOnce(t *testing.T) {
	env := humanEnv()
	env.Languages = nil
	env.Plugins = nil
	env.WebDriver = true

	res := Evaluate(env)

	assert.Equal(t, 20, res.Score)
	assert.False(t, res.Flagged)
	// One bucket, but the reason names every signal that tripped it.
	assert.Equal(t, []string{"headless environment signals: no browser languages, no plugins, webdriver flag set"}, res.Reasons)
}

func TestEvaluate_HeadlessReasonNamesOnlyTrippedSignals(t *testing.T) {
	env := humanEnv()
	env.WebDriver = true

	res := Evaluate(env)

	assert.Equal(t, 20, res.Score)
	assert.Equal(t, []string{"headless environment signals: webdriver flag set"}, res.Reasons)
}

func TestEvaluate_AutomationGlobals(t *testing.T) {
	env := humanEnv()
	env.AutomationGlobals = []string{"_phantom", "__selenium_unwrapped"}

	res := Evaluate(env)

	assert.Equal(t, 50, res.Score)
	assert.True(t, res.Flagged)
	assert.Contains(t, res.Reasons[0], "_phantom")
}

func TestEvaluate_NotificationSignals(t *testing.T) {
	env := humanEnv()
	env.NotificationPermission = "denied"
	assert.Equal(t, 10, Evaluate(env).Score)

	env = humanEnv()
	env.PermissionQueryFailed = true
	assert.Equal(t, 5, Evaluate(env).Score)
}

func TestEvaluate_CombinedSignalsFlag(t *testing.T) {
	env := humanEnv()
	env.WebDriver = true
	env.AutomationGlobals = []string{"webdriver"}
	env.NotificationPermission = "denied"

	res := Evaluate(env)

	assert.Equal(t, 80, res.Score)
	assert.True(t, res.Flagged)
	assert.Len(t, res.Reasons, 3)
}

func TestSuspiciousUserAgent(t *testing.T) {
	assert.True(t, SuspiciousUserAgent("python-requests/2.31 scraper"))
	assert.True(t, SuspiciousUserAgent("HeadlessChrome/120.0"))
	assert.False(t, SuspiciousUserAgent(humanEnv().UserAgent))
}
