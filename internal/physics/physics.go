// Package physics provides distance utilities and the spring-damper step
// used by the tether.
package physics

import "math"

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// PointInCircle checks if a point is strictly within radius of a target position.
func PointInCircle(px, py, cx, cy, radius float64) bool {
	return DistanceSquared(px, py, cx, cy) < radius*radius
}

// CirclesOverlap checks if two circles overlap.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(x1, y1, x2, y2) < minDist*minDist
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SpringStep advances one semi-implicit Euler step of a damped spring.
// The velocity is updated first and the new velocity moves the position,
// so the step stays stable for damping < 1 and allows slight overshoot.
//
// k and damping are per-frame factors; dt scales only the position update.
func SpringStep(pos, vel, target, k, damping, dt float64) (newPos, newVel float64) {
	newVel = (vel + (target-pos)*k) * damping
	newPos = pos + newVel*dt
	return newPos, newVel
}
