package tracking

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/url"
	"time"

	"github.com/betavietvn/leadtrack/internal/domain"
	"github.com/betavietvn/leadtrack/internal/logger"
	"github.com/betavietvn/leadtrack/internal/store"
)

// NewSessionID produces a v4-shaped identifier. It only has to be unique
// enough to correlate one page load's events, so math/rand is sufficient and
// keeps the hot path allocation-free of crypto reads.
func NewSessionID() string {
	const hex = "0123456789abcdef"

	b := make([]byte, 36)
	for i := range b {
		switch i {
		case 8, 13, 18, 23:
			b[i] = '-'
		case 14:
			b[i] = '4'
		case 19:
			b[i] = hex[8+rand.Intn(4)]
		default:
			b[i] = hex[rand.Intn(16)]
		}
	}
	return string(b)
}

// NewSession builds the immutable session record for one page load. Counter
// failures are swallowed: a session with zero history is better than no
// session at all.
func NewSession(ctx context.Context, pageURL, referrer, fp string, counters store.CounterStore, now time.Time) domain.SessionInfo {
	info := domain.SessionInfo{
		SessionID:   NewSessionID(),
		StartTime:   now,
		Referrer:    referrer,
		LandingPage: pageURL,
	}

	if u, err := url.Parse(pageURL); err == nil {
		q := u.Query()
		info.UTMSource = q.Get("utm_source")
		info.UTMMedium = q.Get("utm_medium")
		info.UTMCampaign = q.Get("utm_campaign")
		info.UTMTerm = q.Get("utm_term")
		info.UTMContent = q.Get("utm_content")
	}

	if counters != nil {
		info.PreviousVisits = bumpCounter(ctx, counters, fmt.Sprintf("visits:%s", fp))
		info.PreviousSessions = bumpCounter(ctx, counters, fmt.Sprintf("sessions:%s", fp))
	}

	return info
}

func bumpCounter(ctx context.Context, counters store.CounterStore, key string) int64 {
	prev, err := counters.Bump(ctx, key)
	if err != nil {
		logger.Get().Debug("counter bump failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return 0
	}
	return prev
}
