package tracking

import (
	"context"
	"log/slog"
	"time"

	"github.com/betavietvn/leadtrack/internal/botcheck"
	"github.com/betavietvn/leadtrack/internal/config"
	"github.com/betavietvn/leadtrack/internal/delivery"
	"github.com/betavietvn/leadtrack/internal/domain"
	"github.com/betavietvn/leadtrack/internal/fraud"
	"github.com/betavietvn/leadtrack/internal/logger"
	"github.com/betavietvn/leadtrack/internal/store"
)

const (
	tickInterval    = time.Second
	contactClickCap = 500
)

// PipelineOptions wires one page load's worth of tracking together.
type PipelineOptions struct {
	Env       domain.Environment
	Network   domain.NetworkInfo
	PageURL   string
	PageTitle string
	Referrer  string

	Source   EventSource
	Counters store.CounterStore
	Delivery *delivery.Manager
	Tracking config.TrackingConfig

	// Clock defaults to time.Now. Tests inject a fake.
	Clock func() time.Time
}

// Pipeline consumes page events on a single goroutine, maintains the session
// state and drives scoring and delivery. One pipeline per page load.
type Pipeline struct {
	opts PipelineOptions
	now  func() time.Time

	device  domain.DeviceInfo
	session domain.SessionInfo
	bot     botcheck.Result

	recorder *Recorder
	tracker  *Tracker
	scorer   *fraud.Scorer

	submissions   []domain.FormSubmission
	contactClicks []domain.ContactClick
	pageViews     int

	stop chan struct{}
	done chan struct{}
}

func NewPipeline(opts PipelineOptions) *Pipeline {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		opts:   opts,
		now:    now,
		scorer: fraud.NewScorer(),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start initializes the session and launches the event loop. Events emitted
// by the source before Start returns are buffered by the source.
func (p *Pipeline) Start(ctx context.Context) {
	start := p.now()

	p.device = BuildDeviceInfo(p.opts.Env)
	p.session = NewSession(ctx, p.opts.PageURL, p.opts.Referrer, p.device.DeviceFingerprint, p.opts.Counters, start)
	p.bot = botcheck.Evaluate(p.opts.Env)
	p.opts.Delivery.SetBotDetection(p.bot.Detection())

	p.recorder = NewRecorder(start, p.opts.Tracking.MouseSampleCap, p.opts.Tracking.ClickPositionCap)
	p.tracker = NewTracker(p.opts.Tracking.EventLogCap, func(evt domain.TrackingEvent) {
		go p.opts.Delivery.SendEventNow(context.Background(), evt)
	})
	p.tracker.MarkInitialized()

	logger.Get().Info("tracking session started",
		slog.String("session_id", p.session.SessionID),
		slog.String("fingerprint", p.device.DeviceFingerprint),
		slog.Int("bot_score", p.bot.Score),
	)

	p.trackPageView(start)
	go p.opts.Delivery.SendSnapshot(context.Background(), p.snapshot(start))

	go p.loop(ctx)
}

// Stop drains the loop and makes the final best-effort delivery.
func (p *Pipeline) Stop() {
	close(p.stop)
	<-p.done

	now := p.now()
	p.recorder.Tick(now)
	p.opts.Delivery.Shutdown()
}

// Wait blocks until the event loop exits.
func (p *Pipeline) Wait() { <-p.done }

// Session returns the immutable session record.
func (p *Pipeline) Session() domain.SessionInfo { return p.session }

// BotDetection returns the environment evaluation made at start.
func (p *Pipeline) BotDetection() domain.BotDetection { return p.bot.Detection() }

// Events returns a copy of the event log.
func (p *Pipeline) Events() []domain.TrackingEvent { return p.tracker.Events() }

// LatestScore returns the most recent fraud score.
func (p *Pipeline) LatestScore() (domain.FraudScore, bool) { return p.scorer.Latest() }

// IsFraudulent reports whether the latest score crossed the report threshold.
func (p *Pipeline) IsFraudulent() bool { return p.scorer.IsFraudulent() }

func (p *Pipeline) loop(ctx context.Context) {
	defer close(p.done)

	flush := time.NewTicker(orDefault(p.opts.Tracking.FlushInterval, 30*time.Second))
	contactFlush := time.NewTicker(orDefault(p.opts.Tracking.ContactFlushInterval, 60*time.Second))
	fraudCheck := time.NewTicker(orDefault(p.opts.Tracking.FraudCheckInterval, 30*time.Second))
	tick := time.NewTicker(tickInterval)
	defer flush.Stop()
	defer contactFlush.Stop()
	defer fraudCheck.Stop()
	defer tick.Stop()

	events := p.opts.Source.Events()

	for {
		select {
		case evt, ok := <-events:
			if !ok {
				return
			}
			p.handle(ctx, evt)

		case <-tick.C:
			p.recorder.Tick(p.now())

		case <-flush.C:
			if err := p.opts.Delivery.FlushEvents(ctx); err != nil {
				logger.Get().Warn("event flush failed", slog.String("error", err.Error()))
			}

		case <-contactFlush.C:
			if err := p.opts.Delivery.FlushContactData(ctx); err != nil {
				logger.Get().Warn("contact flush failed", slog.String("error", err.Error()))
			}

		case <-fraudCheck.C:
			p.evaluateFraud(ctx, p.now())

		case <-p.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// handle processes one event. A panic in a handler loses that event only;
// the loop keeps running.
func (p *Pipeline) handle(ctx context.Context, evt PageEvent) {
	defer func() {
		if r := recover(); r != nil {
			logger.Get().Error("event handler panicked",
				slog.Any("panic", r),
				slog.String("session_id", p.session.SessionID),
			)
		}
	}()

	switch e := evt.(type) {
	case PageViewEvent:
		p.trackPageView(e.At)

	case MouseMoveEvent:
		p.recorder.OnMouseMove(e.X, e.Y, e.At)

	case ClickEvent:
		p.handleClick(e)

	case ScrollEvent:
		if depth, emit := p.recorder.OnScroll(e.Top, e.ViewportHeight, e.PageHeight, e.At); emit {
			t := p.newEvent(domain.EventScrollDepth, e.At)
			t.Custom = map[string]any{"depth_percent": depth}
			p.track(t)
		}

	case KeyPressEvent:
		p.recorder.OnKeyPress(e.At)

	case VisibilityEvent:
		p.recorder.OnVisibility(e.Hidden, e.At)

	case FieldFocusEvent:
		p.recorder.OnFieldFocus(e.FieldID, e.At)

	case FieldBlurEvent:
		p.recorder.OnFieldBlur(e.FieldID, e.At)

	case FieldChangeEvent:
		p.recorder.OnFieldChange(e.FieldID, e.At)
		t := p.newEvent(domain.EventFormFieldChange, e.At)
		t.Custom = map[string]any{"field_id": e.FieldID}
		p.track(t)

	case FormSubmitEvent:
		p.handleFormSubmit(ctx, e)

	case ErrorEvent:
		t := p.newEvent(domain.EventError, e.At)
		t.Custom = map[string]any{
			"message": e.Message,
			"source":  e.Source,
			"line":    e.Line,
		}
		p.track(t)
	}
}

func (p *Pipeline) handleClick(e ClickEvent) {
	p.recorder.OnClick(e.X, e.Y, e.At)

	if e.Element == nil {
		return
	}

	if channel, ok := ClassifyContact(*e.Element); ok {
		p.recordContactClick(e, channel)
		return
	}

	var eventType domain.EventType
	switch e.Element.Kind {
	case "a":
		eventType = domain.EventLinkClick
	case "button":
		eventType = domain.EventButtonClick
	default:
		return
	}

	t := p.newEvent(eventType, e.At)
	t.Element = e.Element
	p.track(t)
}

func (p *Pipeline) recordContactClick(e ClickEvent, channel string) {
	behavior := p.recorder.Snapshot(e.At)

	click := domain.ContactClick{
		Channel:   channel,
		Timestamp: e.At,
		Element:   *e.Element,
		User: domain.ContactUserInfo{
			SessionID:   p.session.SessionID,
			DeviceType:  p.device.DeviceType,
			Browser:     p.device.BrowserName,
			OS:          p.device.OS,
			Referrer:    p.session.Referrer,
			UTMSource:   p.session.UTMSource,
			UTMMedium:   p.session.UTMMedium,
			UTMCampaign: p.session.UTMCampaign,
		},
		Behavior: domain.ContactBehaviorInfo{
			TimeOnPage:        behavior.TimeOnPage,
			ScrollDepth:       behavior.ScrollDepth,
			PreviousClicks:    behavior.ClickCount - 1,
			PreviousPageViews: p.pageViews,
		},
		BotScore: p.bot.Score,
	}

	if len(p.contactClicks) >= contactClickCap {
		p.contactClicks = p.contactClicks[1:]
	}
	p.contactClicks = append(p.contactClicks, click)
	p.opts.Delivery.RecordContactClick(click)

	t := p.newEvent(domain.EventContactClick, e.At)
	t.Element = e.Element
	t.Custom = map[string]any{"contact_type": channel}
	p.track(t)
}

func (p *Pipeline) handleFormSubmit(ctx context.Context, e FormSubmitEvent) {
	fieldIDs := make([]string, 0, len(e.Fields))
	fields := make([]domain.FormField, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Type == "password" {
			f.Value = "[REDACTED]"
		}
		fields = append(fields, f)
		fieldIDs = append(fieldIDs, f.Name)
	}

	interactions := p.recorder.FieldInteractions(fieldIDs)

	start := e.At
	for _, fi := range interactions {
		if !fi.FocusTime.IsZero() && fi.FocusTime.Before(start) {
			start = fi.FocusTime
		}
	}

	submission := domain.FormSubmission{
		FormID:            e.FormID,
		FormName:          e.FormName,
		Fields:            fields,
		StartTime:         start,
		SubmissionTime:    e.At,
		CompletionTime:    e.At.Sub(start),
		FieldInteractions: interactions,
		ValidationErrors:  e.Errors,
	}
	p.submissions = append(p.submissions, submission)

	t := p.newEvent(domain.EventFormSubmit, e.At)
	t.Form = &submission
	p.track(t)

	p.opts.Delivery.RecordFormSubmission(p.formRecord(submission))

	// A submission is the moment worth scoring; do not wait for the timer.
	p.evaluateFraud(ctx, e.At)
}

func (p *Pipeline) formRecord(sub domain.FormSubmission) domain.FormSubmissionRecord {
	behavior := p.recorder.Snapshot(sub.SubmissionTime)

	byField := make(map[string]domain.FieldInteraction, len(sub.FieldInteractions))
	for _, fi := range sub.FieldInteractions {
		byField[fi.FieldID] = fi
	}

	contactFields := make([]domain.ContactField, 0, len(sub.Fields))
	for _, f := range sub.Fields {
		cf := domain.ContactField{
			Name:  f.Name,
			Type:  f.Type,
			Value: f.Value,
			Valid: f.Valid,
		}
		if fi, ok := byField[f.Name]; ok {
			cf.ChangeCount = fi.ChangeCount
			if !fi.FocusTime.IsZero() && !fi.BlurTime.IsZero() {
				cf.InteractionTime = fi.BlurTime.Sub(fi.FocusTime)
			}
		}
		contactFields = append(contactFields, cf)
	}

	return domain.FormSubmissionRecord{
		FormID:         sub.FormID,
		FormName:       sub.FormName,
		Timestamp:      sub.SubmissionTime,
		CompletionTime: sub.CompletionTime,
		Fields:         contactFields,
		User: domain.ContactUserInfo{
			SessionID:   p.session.SessionID,
			DeviceType:  p.device.DeviceType,
			Browser:     p.device.BrowserName,
			OS:          p.device.OS,
			Referrer:    p.session.Referrer,
			UTMSource:   p.session.UTMSource,
			UTMMedium:   p.session.UTMMedium,
			UTMCampaign: p.session.UTMCampaign,
		},
		Behavior: domain.ContactBehaviorInfo{
			TimeOnPage:        behavior.TimeOnPage,
			ScrollDepth:       behavior.ScrollDepth,
			PreviousClicks:    behavior.ClickCount,
			PreviousPageViews: p.pageViews,
		},
		BotScore: p.bot.Score,
	}
}

func (p *Pipeline) evaluateFraud(ctx context.Context, now time.Time) {
	snap := p.snapshot(now)

	score := p.scorer.Evaluate(fraud.Input{
		Snapshot:      snap,
		Events:        p.tracker.Events(),
		Submissions:   append([]domain.FormSubmission(nil), p.submissions...),
		ContactClicks: append([]domain.ContactClick(nil), p.contactClicks...),
		Now:           now,
	})

	if score.Score < fraud.ReportThreshold {
		return
	}

	logger.Get().Warn("fraud threshold crossed",
		slog.String("session_id", p.session.SessionID),
		slog.Int("score", score.Score),
	)

	report := domain.FraudReport{
		FraudScore:  score,
		URL:         p.opts.PageURL,
		Timestamp:   now,
		SessionData: snap,
		Events:      p.tracker.Recent(20),
	}
	go func() {
		if err := p.opts.Delivery.ReportFraud(ctx, report); err != nil {
			logger.Get().Warn("fraud report delivery failed", slog.String("error", err.Error()))
		}
	}()
}

func (p *Pipeline) trackPageView(at time.Time) {
	p.pageViews++
	t := p.newEvent(domain.EventPageView, at)
	t.Custom = map[string]any{
		"url":   p.opts.PageURL,
		"title": p.opts.PageTitle,
	}
	p.track(t)
}

// track appends to the log and stages the stamped event for batch delivery.
// High value types skip the batch; the tracker's hook ships them directly.
func (p *Pipeline) track(evt domain.TrackingEvent) {
	evt = p.tracker.Track(evt)
	if !IsHighValue(evt.EventType) {
		p.opts.Delivery.Enqueue(evt)
	}
}

func (p *Pipeline) newEvent(eventType domain.EventType, at time.Time) domain.TrackingEvent {
	return domain.TrackingEvent{
		EventType: eventType,
		Timestamp: at,
		Device:    p.device,
		Network:   p.opts.Network,
		Session:   p.session,
		Behavior:  p.recorder.Snapshot(at),
	}
}

func (p *Pipeline) snapshot(now time.Time) domain.SessionSnapshot {
	return domain.SessionSnapshot{
		Session:  p.session,
		Device:   p.device,
		Network:  p.opts.Network,
		Behavior: p.recorder.Snapshot(now),
		Bot:      p.bot.Detection(),
	}
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
