package tracking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/betavietvn/leadtrack/internal/domain"
)

func TestTracker_DropsEventsBeforeInitialization(t *testing.T) {
	tracker := NewTracker(10, nil)

	tracker.Track(domain.TrackingEvent{EventType: domain.EventPageView})
	assert.Equal(t, 0, tracker.Len())

	tracker.MarkInitialized()
	tracker.Track(domain.TrackingEvent{EventType: domain.EventPageView})
	assert.Equal(t, 1, tracker.Len())
}

func TestTracker_LogIsBoundedFIFO(t *testing.T) {
	tracker := NewTracker(3, nil)
	tracker.MarkInitialized()

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		tracker.Track(domain.TrackingEvent{
			EventType: domain.EventButtonClick,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
	}

	events := tracker.Events()
	assert.Len(t, events, 3)
	// The two oldest entries were evicted.
	assert.Equal(t, base.Add(2*time.Second), events[0].Timestamp)
	assert.Equal(t, base.Add(4*time.Second), events[2].Timestamp)
}

func TestTracker_StampsMonotonicSequence(t *testing.T) {
	tracker := NewTracker(10, nil)
	tracker.MarkInitialized()

	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	first := tracker.Track(domain.TrackingEvent{EventType: domain.EventButtonClick, Timestamp: at})
	second := tracker.Track(domain.TrackingEvent{EventType: domain.EventButtonClick, Timestamp: at})

	assert.Equal(t, int64(0), first.Sequence)
	assert.Equal(t, int64(1), second.Sequence)
	// Two clicks in the same instant are still distinct records.
	assert.False(t, first.SameIdentity(second))
	assert.True(t, first.SameIdentity(tracker.Events()[0]))
}

func TestTracker_HighValueHook(t *testing.T) {
	var delivered []domain.EventType
	tracker := NewTracker(10, func(evt domain.TrackingEvent) {
		delivered = append(delivered, evt.EventType)
	})
	tracker.MarkInitialized()

	tracker.Track(domain.TrackingEvent{EventType: domain.EventPageView})
	tracker.Track(domain.TrackingEvent{EventType: domain.EventFormSubmit})
	tracker.Track(domain.TrackingEvent{EventType: domain.EventScrollDepth})
	tracker.Track(domain.TrackingEvent{EventType: domain.EventContactClick})
	tracker.Track(domain.TrackingEvent{EventType: domain.EventError})

	assert.Equal(t, []domain.EventType{
		domain.EventFormSubmit,
		domain.EventContactClick,
		domain.EventError,
	}, delivered)
}

func TestTracker_Recent(t *testing.T) {
	tracker := NewTracker(10, nil)
	tracker.MarkInitialized()

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		tracker.Track(domain.TrackingEvent{
			EventType: domain.EventPageView,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
	}

	recent := tracker.Recent(2)
	assert.Len(t, recent, 2)
	assert.Equal(t, base.Add(3*time.Second), recent[0].Timestamp)

	assert.Len(t, tracker.Recent(20), 5)
}

func TestTracker_EventsReturnsCopy(t *testing.T) {
	tracker := NewTracker(10, nil)
	tracker.MarkInitialized()
	tracker.Track(domain.TrackingEvent{EventType: domain.EventPageView})

	events := tracker.Events()
	events[0].EventType = domain.EventError

	assert.Equal(t, domain.EventPageView, tracker.Events()[0].EventType)
}
