package object

import "github.com/tomz197/tether/internal/physics"

// Collectible is a resonance pickup attached to an obstacle. X is relative
// to the corridor center, YOffset relative to the obstacle row (negative
// is further up the corridor).
type Collectible struct {
	X         float64 `json:"x"`
	YOffset   float64 `json:"yOffset"`
	Collected bool    `json:"collected"`
}

// Position resolves the collectible for an obstacle row at y.
func (c Collectible) Position(drift, y float64) Point {
	return Point{X: drift + c.X, Y: y + c.YOffset}
}

// Near reports whether either node is within radius of the collectible.
func (c Collectible) Near(drift, y, b1, b2, playerY, radius float64) bool {
	p := c.Position(drift, y)
	return physics.PointInCircle(b1, playerY, p.X, p.Y, radius) ||
		physics.PointInCircle(b2, playerY, p.X, p.Y, radius)
}

// pair places one collectible on each side of center at the same row.
func pair(left, right float64) []Collectible {
	return []Collectible{{X: left}, {X: right}}
}
