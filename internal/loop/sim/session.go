// Package sim runs one tether session: it owns the session state and
// advances it one tick at a time from the pointer feed.
package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/tether/internal/input"
	"github.com/tomz197/tether/internal/loop/config"
	"github.com/tomz197/tether/internal/object"
)

// ErrInvalidCorridor is returned when a session is configured with a
// non-positive width or height.
var ErrInvalidCorridor = errors.New("invalid corridor dimensions")

// Options configure a session. Zero Width and Height are invalid; the
// other fields are optional.
type Options struct {
	Width  float64
	Height float64

	Rand *rand.Rand  // Source for all generation; seeded from the clock if nil
	Feed *input.Feed // Pointer feed; a private one is created if nil

	OnGameOver func(score int)         // Called once with the final floored score
	OnFeedback func(f object.Feedback) // Called for every feedback event as it is emitted
}

// Session is a single run. It is not safe for concurrent use: only the
// goroutine driving the frame loop may call its methods. Other goroutines
// communicate through the Feed and read published Snapshots.
type Session struct {
	state    State
	corridor object.Corridor
	playerY  float64
	rng      *rand.Rand
	gen      *object.Generator
	feed     *input.Feed
	env      Env

	onGameOver func(score int)
	onFeedback func(f object.Feedback)

	lastFrame time.Time
}

// New validates the options and creates a session that is not yet ready.
func New(opts Options) (*Session, error) {
	corridor := object.Corridor{Width: opts.Width, Height: opts.Height}
	if !corridor.Valid() || math.IsNaN(opts.Width) || math.IsNaN(opts.Height) {
		return nil, fmt.Errorf("new session %vx%v: %w", opts.Width, opts.Height, ErrInvalidCorridor)
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	feed := opts.Feed
	if feed == nil {
		feed = &input.Feed{}
	}

	return &Session{
		state:      NewState(),
		corridor:   corridor,
		playerY:    corridor.PlayerY(),
		rng:        rng,
		gen:        object.NewGenerator(rng, corridor.Width),
		feed:       feed,
		env:        DefaultEnv(),
		onGameOver: opts.OnGameOver,
		onFeedback: opts.OnFeedback,
	}, nil
}

// Feed returns the pointer feed this session reads.
func (s *Session) Feed() *input.Feed {
	return s.feed
}

// State exposes the live state. Callers must not retain it across ticks
// on another goroutine; use Snapshot for that.
func (s *Session) State() *State {
	return &s.state
}

// Corridor returns the session's corridor.
func (s *Session) Corridor() object.Corridor {
	return s.corridor
}

// Start lays out the opening obstacles and begins scrolling.
func (s *Session) Start() {
	if s.state.Ready {
		return
	}
	s.state.Ready = true
	s.state.Stream.Seed(s.spawn)
}

// FrameDelta converts the wall-clock time between two frames into
// simulation frames, clamped so a stall cannot blow up the physics.
func FrameDelta(prev, now time.Time) float64 {
	if prev.IsZero() || !now.After(prev) {
		return 1
	}
	elapsed := float64(now.Sub(prev)) / float64(time.Millisecond)
	return math.Min(elapsed/config.FrameIntervalMs, config.MaxFrameDelta)
}

// Advance ticks the session with the delta since the previous Advance.
func (s *Session) Advance(now time.Time) {
	dt := FrameDelta(s.lastFrame, now)
	s.lastFrame = now
	s.Tick(dt)
}

// ResetClock forgets the previous frame time, so the next Advance ticks a
// single nominal frame. Used after a pause.
func (s *Session) ResetClock() {
	s.lastFrame = time.Time{}
}

// Tick advances the session by dt frames.
//
// The tether always moves so it stays responsive on the countdown and
// game-over screens. Everything else only runs while the session is ready
// and not over.
func (s *Session) Tick(dt float64) {
	st := &s.state
	st.Tether.Integrate(s.feed.Read(), dt)

	s.updateFeedback(dt)
	s.decayShake(dt)

	if !st.Ready || st.Over {
		return
	}

	st.TimeMs += config.FrameIntervalMs * dt

	// The whole frame runs in the mode it started in, even when the timer
	// expires or a portal activates partway through.
	mirror := st.MirrorActive()
	s.expireMirror(dt)

	st.Step = int(st.TimeMs / config.DifficultyStepMs)
	frameDist := st.speed(mirror) * dt
	st.Distance += frameDist
	if mirror {
		st.Score += frameDist * config.MirrorPointsPerUnit
	} else {
		st.Score += frameDist * config.PointsPerUnit
	}

	if st.Cooldown > 0 {
		st.Cooldown -= dt
	}

	st.Stream.Shift(frameDist)

	squeezing := false
	resonance := 0.0
	for _, o := range st.Stream.Obstacles() {
		o.Advance(dt)

		c := Collide(st.Tether, s.playerY, o, s.env)
		if c.PortalEntered {
			s.activateMirror()
		}
		s.pickup(o, mirror)
		if c.Colliding {
			s.contact(o, mirror)
			if st.Over {
				break
			}
		}
		if c.InsideLongPath {
			squeezing = true
			resonance = math.Max(resonance, o.Resonance)
		}
		if !o.Passed && o.Top() > s.playerY+config.PassMargin {
			s.pass(o, mirror)
		}
	}
	st.Squeezing = squeezing
	st.Resonance = resonance

	st.Stream.Maintain(s.playerY, s.corridor.CullY(), s.spawn)
}

func (s *Session) spawn(y float64) *object.Obstacle {
	return s.gen.Generate(y, s.state.TimeMs, &s.state.Portal, s.state.MirrorActive())
}
