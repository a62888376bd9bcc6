// Command simulate drives a tracking pipeline against a running collector
// with scripted visitor behavior. The human profile produces organic-looking
// activity; the bot profile trips the detection rules on purpose.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/betavietvn/leadtrack/internal/config"
	"github.com/betavietvn/leadtrack/internal/delivery"
	"github.com/betavietvn/leadtrack/internal/domain"
	"github.com/betavietvn/leadtrack/internal/logger"
	"github.com/betavietvn/leadtrack/internal/store"
	"github.com/betavietvn/leadtrack/internal/tracking"
)

func main() {
	var (
		baseURL  = flag.String("collector", "http://localhost:8080", "collector base URL")
		profile  = flag.String("profile", "human", "visitor profile: human or bot")
		pageURL  = flag.String("page", "https://betaviet.vn/?utm_source=google&utm_medium=cpc&utm_campaign=biet-thu", "simulated page URL")
		sessions = flag.Int("sessions", 1, "number of sessions to simulate")
	)
	flag.Parse()

	if err := logger.Initialize(logger.Config{Service: "simulator", Level: "info", Format: "text"}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	counters := store.NewMemoryCounterStore()

	for i := 0; i < *sessions; i++ {
		runSession(*baseURL, *profile, *pageURL, counters)
	}
}

func runSession(baseURL, profile, pageURL string, counters store.CounterStore) {
	env := environmentFor(profile)

	manager := delivery.NewManager(nil, delivery.Endpoints{
		Analytics: baseURL + "/api/analytics",
		Contact:   baseURL + "/api/contact-tracking",
		Fraud:     baseURL + "/api/fraud-detection",
		Tracking:  baseURL + "/api/tracking",
	}, pageURL)

	source := tracking.NewChannelSource(256)

	pipeline := tracking.NewPipeline(tracking.PipelineOptions{
		Env:      env,
		PageURL:  pageURL,
		Referrer: "https://www.google.com/",
		Source:   source,
		Counters: counters,
		Delivery: manager,
		Tracking: config.TrackingConfig{
			FlushInterval:        2 * time.Second,
			ContactFlushInterval: 3 * time.Second,
			FraudCheckInterval:   2 * time.Second,
		},
	})

	pipeline.Start(context.Background())

	switch profile {
	case "bot":
		scriptBot(source)
	default:
		scriptHuman(source)
	}

	source.Close()
	pipeline.Wait()
	manager.Shutdown()

	if score, ok := pipeline.LatestScore(); ok {
		fmt.Printf("session %s: fraud score %d, fraudulent=%v\n",
			pipeline.Session().SessionID, score.Score, pipeline.IsFraudulent())
	} else {
		fmt.Printf("session %s: no fraud evaluation ran\n", pipeline.Session().SessionID)
	}
}

func environmentFor(profile string) domain.Environment {
	if profile == "bot" {
		return domain.Environment{
			UserAgent:      "Mozilla/5.0 (X11; Linux x86_64) HeadlessChrome/120.0",
			Language:       "en-US",
			Platform:       "Linux x86_64",
			ColorDepth:     24,
			ScreenWidth:    1920,
			ScreenHeight:   1080,
			CookiesEnabled: false,
			WebDriver:      true,
		}
	}

	return domain.Environment{
		UserAgent:              "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Language:               "vi-VN",
		Languages:              []string{"vi-VN", "vi", "en-US"},
		Timezone:               "Asia/Ho_Chi_Minh",
		TimezoneOffsetMin:      -420,
		Platform:               "Win32",
		HardwareConcurrency:    8,
		ColorDepth:             24,
		ScreenWidth:            1920,
		ScreenHeight:           1080,
		CookiesEnabled:         true,
		LocalStorageAvailable:  true,
		Plugins:                []string{"PDF Viewer", "Chrome PDF Viewer"},
		NotificationPermission: "default",
	}
}

// scriptHuman plays out a plausible visit: reading, wandering pointer,
// scrolling, then a careful form fill with a valid phone number.
func scriptHuman(source *tracking.ChannelSource) {
	now := time.Now()

	for i := 0; i < 40; i++ {
		now = now.Add(time.Duration(120+rand.Intn(200)) * time.Millisecond)
		x := 300 + int(200*math.Sin(float64(i)/4)) + rand.Intn(30)
		y := 200 + i*12 + rand.Intn(20)
		source.Emit(tracking.MouseMoveEvent{At: now, X: x, Y: y})
	}

	for _, top := range []float64{400, 900, 1500, 2200} {
		now = now.Add(time.Duration(800+rand.Intn(700)) * time.Millisecond)
		source.Emit(tracking.ScrollEvent{At: now, Top: top, ViewportHeight: 900, PageHeight: 4000})
	}

	now = now.Add(2 * time.Second)
	source.Emit(tracking.ClickEvent{At: now, X: 640, Y: 820, Element: &domain.ElementInfo{
		Kind: "button",
		Text: "Nhận tư vấn miễn phí",
	}})

	fields := []struct {
		id    string
		chars int
	}{
		{"name", 12},
		{"phone", 10},
		{"message", 25},
	}
	for _, f := range fields {
		now = now.Add(time.Duration(500+rand.Intn(500)) * time.Millisecond)
		source.Emit(tracking.FieldFocusEvent{At: now, FieldID: f.id})
		for c := 0; c < f.chars; c++ {
			now = now.Add(time.Duration(90+rand.Intn(180)) * time.Millisecond)
			source.Emit(tracking.KeyPressEvent{At: now})
			source.Emit(tracking.FieldChangeEvent{At: now, FieldID: f.id})
		}
		now = now.Add(300 * time.Millisecond)
		source.Emit(tracking.FieldBlurEvent{At: now, FieldID: f.id})
	}

	now = now.Add(time.Second)
	source.Emit(tracking.FormSubmitEvent{
		At:       now,
		FormID:   "contact-form",
		FormName: "Đăng ký tư vấn",
		Fields: []domain.FormField{
			{Name: "name", Type: "text", Value: "Nguyễn Văn An", Valid: true},
			{Name: "phone", Type: "tel", Value: "0915010800", Valid: true},
			{Name: "message", Type: "textarea", Value: "Tôi muốn tư vấn thiết kế biệt thự", Valid: true},
		},
	})
}

// scriptBot submits instantly with no organic behavior and hammers the
// contact links.
func scriptBot(source *tracking.ChannelSource) {
	now := time.Now()

	for i := 0; i < 12; i++ {
		now = now.Add(50 * time.Millisecond)
		source.Emit(tracking.MouseMoveEvent{At: now, X: 100 + i*40, Y: 100 + i*40})
	}

	for i := 0; i < 6; i++ {
		now = now.Add(200 * time.Millisecond)
		source.Emit(tracking.ClickEvent{At: now, X: 500, Y: 300, Element: &domain.ElementInfo{
			Kind: "a",
			Href: "tel:+84915010800",
		}})
	}

	now = now.Add(100 * time.Millisecond)
	source.Emit(tracking.FormSubmitEvent{
		At:       now,
		FormID:   "contact-form",
		FormName: "Đăng ký tư vấn",
		Fields: []domain.FormField{
			{Name: "name", Type: "text", Value: "x", Valid: false},
			{Name: "phone", Type: "tel", Value: "123", Valid: false},
			{Name: "email", Type: "email", Value: "bot@mailinator.com", Valid: true},
		},
	})
}
