package domain

import "time"

// PointSample is one recorded pointer position.
type PointSample struct {
	X  int       `json:"x"`
	Y  int       `json:"y"`
	At time.Time `json:"at"`
}

// FieldInteraction records one focus/blur cycle on a form field.
type FieldInteraction struct {
	FieldID     string    `json:"field_id"`
	FocusTime   time.Time `json:"focus_time"`
	BlurTime    time.Time `json:"blur_time"`
	ChangeCount int       `json:"change_count"`
}

// BehaviorInfo accumulates for the lifetime of a session. The recorder owns
// the live value; everything stored in events must go through Clone.
type BehaviorInfo struct {
	TimeOnPage       int                `json:"time_on_page"`
	ScrollDepth      int                `json:"scroll_depth"`
	ClickCount       int                `json:"click_count"`
	ClickPositions   []PointSample      `json:"click_positions"`
	MouseMovements   []PointSample      `json:"mouse_movements"`
	KeyPresses       int                `json:"key_presses"`
	FormInteractions []FieldInteraction `json:"form_interactions"`
	InactiveTime     int                `json:"inactive_time"`
	TabSwitches      int                `json:"tab_switches"`
}

// Clone returns a deep copy so stored snapshots are unaffected by later
// mutation of the live state.
func (b BehaviorInfo) Clone() BehaviorInfo {
	out := b
	out.ClickPositions = append([]PointSample(nil), b.ClickPositions...)
	out.MouseMovements = append([]PointSample(nil), b.MouseMovements...)
	out.FormInteractions = append([]FieldInteraction(nil), b.FormInteractions...)
	return out
}
