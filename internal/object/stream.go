package object

import "github.com/tomz197/tether/internal/loop/config"

// SpawnFunc creates the next obstacle with its leading edge at y.
type SpawnFunc func(y float64) *Obstacle

// Stream keeps the corridor filled ahead of the player and drops obstacles
// once they have scrolled far enough behind. It holds no gameplay state.
type Stream struct {
	obstacles []*Obstacle
}

// Obstacles returns the live obstacles, oldest first.
func (s *Stream) Obstacles() []*Obstacle {
	return s.obstacles
}

// Len returns the number of live obstacles.
func (s *Stream) Len() int {
	return len(s.obstacles)
}

// Push appends an obstacle. The caller keeps the stream ordered oldest
// first and IDs unique; generated obstacles are numbered from 1.
func (s *Stream) Push(o *Obstacle) {
	s.obstacles = append(s.obstacles, o)
}

// Reset drops every obstacle.
func (s *Stream) Reset() {
	clear(s.obstacles)
	s.obstacles = s.obstacles[:0]
}

// Seed replaces the stream with the opening layout: LookAhead obstacles
// stacked upward from OpeningY, each separated by its own height plus
// OpeningGap.
func (s *Stream) Seed(spawn SpawnFunc) {
	s.Reset()
	y := config.OpeningY
	for i := 0; i < config.LookAhead; i++ {
		o := spawn(y)
		s.obstacles = append(s.obstacles, o)
		y -= o.Height() + config.OpeningGap
	}
}

// Shift scrolls every obstacle toward the player by dist.
func (s *Stream) Shift(dist float64) {
	for _, o := range s.obstacles {
		o.Y += dist
	}
}

// Maintain culls obstacles whose far edge is past cullY, then spawns until
// at least LookAhead obstacles are ahead of playerY.
func (s *Stream) Maintain(playerY, cullY float64, spawn SpawnFunc) {
	kept := s.obstacles[:0]
	for _, o := range s.obstacles {
		if o.Top() <= cullY {
			kept = append(kept, o)
		}
	}
	for i := len(kept); i < len(s.obstacles); i++ {
		s.obstacles[i] = nil
	}
	s.obstacles = kept

	for s.Ahead(playerY) < config.LookAhead {
		y := config.OpeningY
		if top, ok := s.Topmost(); ok {
			y = top - config.SpawnGap
		}
		s.obstacles = append(s.obstacles, spawn(y))
	}
}

// Ahead counts obstacles the player has not reached yet.
func (s *Stream) Ahead(playerY float64) int {
	n := 0
	for _, o := range s.obstacles {
		if o.Y < playerY {
			n++
		}
	}
	return n
}

// Topmost returns the far edge of the furthest obstacle.
func (s *Stream) Topmost() (float64, bool) {
	if len(s.obstacles) == 0 {
		return 0, false
	}
	top := s.obstacles[0].Top()
	for _, o := range s.obstacles[1:] {
		if t := o.Top(); t < top {
			top = t
		}
	}
	return top, true
}
