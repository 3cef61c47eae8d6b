package object

import (
	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/tether/internal/loop/config"
)

// Palette shared by the simulation's feedback and the renderers.
var (
	ColorCyan   = tcell.NewHexColor(0x0ddff2)
	ColorPink   = tcell.NewHexColor(0xff2d55)
	ColorMirror = tcell.NewHexColor(0xff0033)
	ColorGold   = tcell.NewHexColor(0xffcc00)
	ColorWhite  = tcell.NewHexColor(0xffffff)
)

// FeedbackKind classifies a feedback event for listeners such as audio cues.
type FeedbackKind int

const (
	FeedbackPerfect FeedbackKind = iota
	FeedbackMirrorOn
	FeedbackMirrorHarvest
	FeedbackPhaseShift
	FeedbackHit
)

// Feedback is a floating text hint. It rises and fades, and has no effect
// on gameplay.
type Feedback struct {
	Kind  FeedbackKind `json:"kind"`
	X     float64      `json:"x"`
	Y     float64      `json:"y"`
	Label string       `json:"label"`
	Color tcell.Color  `json:"color"`
	Life  float64      `json:"life"`
}

// Update moves the feedback up and fades it. Returns true once it should
// be removed.
func (f *Feedback) Update(dt float64) bool {
	f.Y -= config.FeedbackRise * dt
	f.Life -= config.FeedbackDecay * dt
	return f.Life <= 0
}
