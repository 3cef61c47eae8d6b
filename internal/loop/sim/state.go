package sim

import (
	"math"

	"github.com/tomz197/tether/internal/loop/config"
	"github.com/tomz197/tether/internal/object"
)

// Mode is the progression state, derived from the mirror timer.
type Mode int

const (
	ModeNormal Mode = iota
	ModeMirror
)

func (m Mode) String() string {
	if m == ModeMirror {
		return "MIRROR_ACTIVE"
	}
	return "NORMAL"
}

// State is everything a session mutates per tick. It is owned by the
// Session and only touched from Tick.
type State struct {
	Tether object.Tether
	Stream object.Stream
	Portal object.PortalSchedule

	Distance float64 // Scrolled units
	TimeMs   float64 // Session time; only advances while ready
	Step     int     // Difficulty step

	Stability float64
	Score     float64 // Distance score
	Bonus     float64 // Pickups, perfect passes, harvests

	MirrorFrames   float64 // Remaining mirror time, 0 when inactive
	MirrorGathered int     // Collectibles picked during this activation
	Cooldown       float64 // Frames until the next hit can land

	Ready bool
	Over  bool

	// Presentation hints
	Shake     float64
	Squeezing bool
	Resonance float64 // Best resonance among occupied long paths
	Feedback  []object.Feedback
}

// NewState returns a fresh, not yet ready session state.
func NewState() State {
	return State{
		Tether:    object.NewTether(),
		Portal:    object.NewPortalSchedule(),
		Stability: config.InitialStability,
	}
}

// Mode reports the current progression state.
func (s *State) Mode() Mode {
	if s.MirrorFrames > 0 {
		return ModeMirror
	}
	return ModeNormal
}

// MirrorActive reports whether mirror mode is running.
func (s *State) MirrorActive() bool {
	return s.Mode() == ModeMirror
}

// Speed is the scroll speed in units per frame for the current step.
func (s *State) Speed() float64 {
	return s.speed(s.MirrorActive())
}

func (s *State) speed(mirror bool) float64 {
	speed := math.Min(config.ScrollSpeedMax, config.ScrollSpeedBase+float64(s.Step)*config.ScrollSpeedStep)
	if mirror {
		speed *= 2
	}
	return speed
}

// Total is the floored displayed score.
func (s *State) Total() int {
	return int(math.Floor(s.Score + s.Bonus))
}
