package sim

import (
	"fmt"
	"math"

	"github.com/tomz197/tether/internal/loop/config"
	"github.com/tomz197/tether/internal/object"
	"github.com/tomz197/tether/internal/physics"
)

// Env holds the collision parameters that do not change per obstacle.
type Env struct {
	Radius float64 // Node radius
}

// DefaultEnv uses the configured node radius.
func DefaultEnv() Env {
	return Env{Radius: config.BallRadius}
}

// Contact is the collision result for one obstacle in one frame.
type Contact struct {
	Colliding      bool // A hazard overlaps a node
	InsideLongPath bool // The player row is inside a zigzag or funnel
	PortalEntered  bool // Both nodes are inside a portal rectangle
}

// Collide tests the tether against one obstacle at the player's row.
//
// Long kinds are tested across their full span. Everything else is only
// tested near the player row and only until the obstacle is passed.
func Collide(t object.Tether, playerY float64, o *object.Obstacle, env Env) Contact {
	b1, b2 := t.Nodes()
	r := env.Radius

	if o.IsLong() {
		if playerY >= o.Y || playerY <= o.Top() {
			return Contact{}
		}
		progress := (o.Y - playerY) / o.Height()
		var lane object.Lane
		switch s := o.Shape.(type) {
		case *object.Zigzag:
			lane = s.LaneAt(progress)
		case *object.Funnel:
			lane = s.LaneAt(progress)
		}
		return Contact{
			InsideLongPath: true,
			Colliding:      !insideLane(b1, b2, r, lane),
		}
	}

	if o.Passed {
		return Contact{}
	}

	if portal, ok := o.Shape.(*object.MirrorPortal); ok {
		if math.Abs(o.Y-playerY) > portal.Height/2 {
			return Contact{}
		}
		return Contact{PortalEntered: insidePortal(b1, portal) && insidePortal(b2, portal)}
	}

	if math.Abs(o.Y-playerY) >= config.HitWindow {
		return Contact{}
	}

	var hit bool
	switch s := o.Shape.(type) {
	case *object.Needle:
		hit = !insideGap(b1, b2, r, s.GapCenter, s.GapSize)
	case *object.Weaver:
		hit = !insideGap(b1, b2, r, s.CenterAt(o.Y), s.GapSize)
	case *object.Twins:
		half := s.GapSize / 2
		hit = math.Abs(b1-s.LeftCenter)+r > half || math.Abs(b2-s.RightCenter)+r > half
	case *object.Splitter:
		half := s.BlockSize / 2
		hit = overlapsBlock(b1, r, s.Center, half) || overlapsBlock(b2, r, s.Center, half)
	case *object.Diamond:
		half := s.Size / 2
		dy := math.Abs(o.Y-playerY) / half
		hit = math.Abs(b1-s.Center)/half+dy < config.DiamondThreshold ||
			math.Abs(b2-s.Center)/half+dy < config.DiamondThreshold
	case *object.Pendulum:
		bob := s.Bob(o.Y)
		hit = physics.CirclesOverlap(b1, playerY, r, bob.X, bob.Y, s.Radius) ||
			physics.CirclesOverlap(b2, playerY, r, bob.X, bob.Y, s.Radius)
	default:
		panic(fmt.Sprintf("sim: no collision test for %v", o.Kind()))
	}
	return Contact{Colliding: hit}
}

// insideGap reports whether both nodes fit fully inside a single gap.
func insideGap(b1, b2, r, center, size float64) bool {
	return b1-r >= center-size/2 && b2+r <= center+size/2
}

func overlapsBlock(b, r, center, half float64) bool {
	return b+r > center-half && b-r < center+half
}

// insideLane is the double-wall test: each node must sit between the outer
// wall and the inner wall on its own side.
func insideLane(b1, b2, r float64, l object.Lane) bool {
	return b1-r >= l.Center-l.Outer/2 &&
		b1+r <= l.Center-l.Inner/2 &&
		b2-r >= l.Center+l.Inner/2 &&
		b2+r <= l.Center+l.Outer/2
}

func insidePortal(b float64, p *object.MirrorPortal) bool {
	return b >= p.Center-p.Width/2 && b <= p.Center+p.Width/2
}
