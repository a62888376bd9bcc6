// Package botcheck scores the runtime environment for automation signals.
// Scores are additive; anything at or above the flag threshold is treated as
// a bot by the rest of the pipeline.
package botcheck

import (
	"fmt"
	"strings"

	"github.com/betavietvn/leadtrack/internal/domain"
)

// FlagThreshold is the score at which a session is considered automated.
const FlagThreshold = 50

var suspiciousUATokens = []string{
	"bot",
	"crawler",
	"spider",
	"scraper",
	"headless",
	"phantom",
	"selenium",
	"puppeteer",
	"chrome-lighthouse",
	"googlebot",
	"yandexbot",
	"bingbot",
	"baiduspider",
}

// SuspiciousUserAgent reports whether the user agent self-identifies as a
// crawler or automation tool.
func SuspiciousUserAgent(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, token := range suspiciousUATokens {
		if strings.Contains(ua, token) {
			return true
		}
	}
	return false
}

// Result is one evaluation of the environment.
type Result struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
	Flagged bool     `json:"flagged"`
}

// Evaluate runs the environment checks. A user agent that self-identifies as
// a crawler is conclusive on its own, so the remaining checks are skipped.
func Evaluate(env domain.Environment) Result {
	ua := strings.ToLower(env.UserAgent)
	for _, token := range suspiciousUATokens {
		if strings.Contains(ua, token) {
			return flag(Result{
				Score:   50,
				Reasons: []string{fmt.Sprintf("user agent contains %q", token)},
			})
		}
	}

	var res Result

	var missing []string
	if len(env.Languages) == 0 {
		missing = append(missing, "no browser languages")
	}
	if len(env.Plugins) == 0 {
		missing = append(missing, "no plugins")
	}
	if env.WebDriver {
		missing = append(missing, "webdriver flag set")
	}
	if len(missing) > 0 {
		res.Score += 20
		res.Reasons = append(res.Reasons, "headless environment signals: "+strings.Join(missing, ", "))
	}

	if len(env.AutomationGlobals) > 0 {
		res.Score += 50
		res.Reasons = append(res.Reasons, fmt.Sprintf("automation globals present: %s", strings.Join(env.AutomationGlobals, ", ")))
	}

	if env.PermissionQueryFailed {
		res.Score += 5
		res.Reasons = append(res.Reasons, "notification permission query failed")
	} else if env.NotificationPermission == "denied" {
		res.Score += 10
		res.Reasons = append(res.Reasons, "notification permission denied by default")
	}

	return flag(res)
}

func flag(res Result) Result {
	res.Flagged = res.Score >= FlagThreshold
	return res
}

// Detection converts a result into the domain record attached to snapshots
// and events.
func (r Result) Detection() domain.BotDetection {
	return domain.BotDetection{
		Score:   r.Score,
		IsBot:   r.Flagged,
		Reasons: append([]string(nil), r.Reasons...),
	}
}
