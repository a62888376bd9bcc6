package tracking

import (
	"math"
	"time"

	"github.com/betavietvn/leadtrack/internal/domain"
)

const (
	mouseSampleInterval = 100 * time.Millisecond
	inactivityWindow    = 30 * time.Second
)

// Recorder accumulates the behavioral state for one session. It is not safe
// for concurrent use; the pipeline calls it from its event loop only.
type Recorder struct {
	behavior domain.BehaviorInfo

	startTime       time.Time
	lastMouseSample time.Time
	lastActivity    time.Time

	// quietCredited marks that the current quiet period has already been
	// counted, so a long idle stretch adds one window, not one per tick.
	quietCredited bool

	emittedDepths map[int]bool
	fieldIndex    map[string]int

	mouseSampleCap int
	clickPosCap    int
}

func NewRecorder(start time.Time, mouseSampleCap, clickPosCap int) *Recorder {
	if mouseSampleCap <= 0 {
		mouseSampleCap = 1000
	}
	if clickPosCap <= 0 {
		clickPosCap = 500
	}
	return &Recorder{
		startTime:      start,
		lastActivity:   start,
		emittedDepths:  make(map[int]bool),
		fieldIndex:     make(map[string]int),
		mouseSampleCap: mouseSampleCap,
		clickPosCap:    clickPosCap,
	}
}

// OnMouseMove samples pointer positions at most once per 100ms. Once the
// sample history is full the oldest sample is dropped, so the window always
// holds the newest movement. Later movement still counts as activity.
func (r *Recorder) OnMouseMove(x, y int, at time.Time) {
	r.touch(at)

	if !r.lastMouseSample.IsZero() && at.Sub(r.lastMouseSample) < mouseSampleInterval {
		return
	}

	if len(r.behavior.MouseMovements) >= r.mouseSampleCap {
		r.behavior.MouseMovements = r.behavior.MouseMovements[1:]
	}
	r.lastMouseSample = at
	r.behavior.MouseMovements = append(r.behavior.MouseMovements, domain.PointSample{X: x, Y: y, At: at})
}

// OnClick counts every click; positions keep the newest entries once the cap
// is reached.
func (r *Recorder) OnClick(x, y int, at time.Time) {
	r.touch(at)

	r.behavior.ClickCount++
	if len(r.behavior.ClickPositions) >= r.clickPosCap {
		r.behavior.ClickPositions = r.behavior.ClickPositions[1:]
	}
	r.behavior.ClickPositions = append(r.behavior.ClickPositions, domain.PointSample{X: x, Y: y, At: at})
}

// OnScroll updates the maximum depth and reports the 5% threshold the new
// position lands in. Depth is the scrolled fraction of the scrollable range
// (page height minus the viewport), so an unscrolled page is at 0%. Each
// threshold is reported once per session.
func (r *Recorder) OnScroll(top, viewportHeight, pageHeight float64, at time.Time) (int, bool) {
	r.touch(at)

	scrollable := pageHeight - viewportHeight
	if scrollable <= 0 {
		return 0, false
	}

	pct := int(math.Round(top / scrollable * 100))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	if pct > r.behavior.ScrollDepth {
		r.behavior.ScrollDepth = pct
	}

	threshold := pct / 5 * 5
	if threshold > 0 && !r.emittedDepths[threshold] {
		r.emittedDepths[threshold] = true
		return threshold, true
	}
	return 0, false
}

func (r *Recorder) OnKeyPress(at time.Time) {
	r.touch(at)
	r.behavior.KeyPresses++
}

func (r *Recorder) OnVisibility(hidden bool, at time.Time) {
	if hidden {
		r.behavior.TabSwitches++
	}
}

func (r *Recorder) OnFieldFocus(fieldID string, at time.Time) {
	r.touch(at)

	idx := r.fieldSlot(fieldID)
	r.behavior.FormInteractions[idx].FocusTime = at
}

func (r *Recorder) OnFieldBlur(fieldID string, at time.Time) {
	r.touch(at)

	idx := r.fieldSlot(fieldID)
	r.behavior.FormInteractions[idx].BlurTime = at
}

func (r *Recorder) OnFieldChange(fieldID string, at time.Time) {
	r.touch(at)

	idx := r.fieldSlot(fieldID)
	r.behavior.FormInteractions[idx].ChangeCount++
}

// Tick advances the time-derived fields. A quiet period longer than the
// inactivity window credits exactly one window of inactive time until
// activity resumes.
func (r *Recorder) Tick(now time.Time) {
	r.behavior.TimeOnPage = int(now.Sub(r.startTime).Seconds())

	if now.Sub(r.lastActivity) >= inactivityWindow && !r.quietCredited {
		r.behavior.InactiveTime += int(inactivityWindow.Seconds())
		r.quietCredited = true
	}
}

// Snapshot returns a deep copy of the current behavior, with TimeOnPage
// brought up to now.
func (r *Recorder) Snapshot(now time.Time) domain.BehaviorInfo {
	r.behavior.TimeOnPage = int(now.Sub(r.startTime).Seconds())
	return r.behavior.Clone()
}

// FieldInteractions returns copies of the interactions for the named fields,
// in the order given. Fields never focused are skipped.
func (r *Recorder) FieldInteractions(fieldIDs []string) []domain.FieldInteraction {
	var out []domain.FieldInteraction
	for _, id := range fieldIDs {
		if idx, ok := r.fieldIndex[id]; ok {
			out = append(out, r.behavior.FormInteractions[idx])
		}
	}
	return out
}

func (r *Recorder) fieldSlot(fieldID string) int {
	if idx, ok := r.fieldIndex[fieldID]; ok {
		return idx
	}
	r.behavior.FormInteractions = append(r.behavior.FormInteractions, domain.FieldInteraction{FieldID: fieldID})
	idx := len(r.behavior.FormInteractions) - 1
	r.fieldIndex[fieldID] = idx
	return idx
}

func (r *Recorder) touch(at time.Time) {
	r.lastActivity = at
	r.quietCredited = false
}
