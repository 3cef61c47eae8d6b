// Package object holds the gameplay entities of a tether run: the tether
// itself, the obstacles and their collectibles, floating feedback, and the
// generator and stream that keep the corridor filled.
package object

import "github.com/tomz197/tether/internal/loop/config"

// Corridor is the playfield obstacles scroll through. X is measured from
// the corridor center; Y grows downward, toward the player.
type Corridor struct {
	Width  float64
	Height float64
}

// Valid reports whether both dimensions are positive.
func (c Corridor) Valid() bool {
	return c.Width > 0 && c.Height > 0
}

// PlayerY is the fixed row the tether sits on.
func (c Corridor) PlayerY() float64 {
	return c.Height * config.PlayerYRatio
}

// CullY is the row past which an obstacle's far edge gets removed.
func (c Corridor) CullY() float64 {
	return c.Height + config.CullMargin
}

// Point is a position in corridor coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
