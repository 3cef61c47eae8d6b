package object

import (
	"github.com/tomz197/tether/internal/input"
	"github.com/tomz197/tether/internal/loop/config"
	"github.com/tomz197/tether/internal/physics"
)

// Tether is the two-node player object. X is the lateral offset of its
// midpoint from the corridor center; the nodes sit Spacing to either side.
type Tether struct {
	X          float64 `json:"x"`
	VelX       float64 `json:"velX"`
	Spacing    float64 `json:"spacing"`
	VelSpacing float64 `json:"velSpacing"`
}

// NewTether creates a centered tether at rest spacing.
func NewTether() Tether {
	return Tether{Spacing: config.RestSpacing}
}

// Integrate advances both springs by dt frames toward the pointer.
//
// The spacing target is clamped to [MinSpacing, MaxSpacing] but Spacing
// itself is not, so a fast pull can briefly overshoot.
func (t *Tether) Integrate(p input.Pointer, dt float64) {
	targetSpacing := config.RestSpacing
	if p.Active {
		targetSpacing = physics.Clamp(config.RestSpacing+p.DY*config.SpacingGain, config.MinSpacing, config.MaxSpacing)
	}
	t.Spacing, t.VelSpacing = physics.SpringStep(t.Spacing, t.VelSpacing, targetSpacing, config.SpringK, config.Damping, dt)

	targetX := 0.0
	stiffness := config.SnapStrength
	if p.Active {
		targetX = p.DX
		stiffness = config.SteerStrength
	}
	t.X, t.VelX = physics.SpringStep(t.X, t.VelX, targetX, stiffness, config.Damping, dt)
}

// Nodes returns the lateral positions of the left and right node.
func (t Tether) Nodes() (b1, b2 float64) {
	return t.X - t.Spacing, t.X + t.Spacing
}
