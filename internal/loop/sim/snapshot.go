package sim

import (
	"math"

	"github.com/tomz197/tether/internal/loop/config"
	"github.com/tomz197/tether/internal/object"
)

// Snapshot is an immutable copy of the observable session state, built at
// the end of a tick. It shares no memory with the session and may be read
// from any goroutine.
type Snapshot struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	PlayerY float64 `json:"playerY"`

	Score          int     `json:"score"`
	Stability      int     `json:"stability"`
	Mirror         bool    `json:"mirror"`
	MirrorFraction float64 `json:"mirrorFraction"` // Remaining mirror time, 0..1
	Resonance      float64 `json:"resonance"`
	Squeezing      bool    `json:"squeezing"`
	Shake          float64 `json:"shake"`
	Speed          float64 `json:"speed"`
	TimeMs         float64 `json:"timeMs"`
	Ready          bool    `json:"ready"`
	Over           bool    `json:"over"`

	Tether    TetherView        `json:"tether"`
	Obstacles []ObstacleView    `json:"obstacles"`
	Feedback  []object.Feedback `json:"feedback"`
}

// TetherView is the resolved tether.
type TetherView struct {
	X       float64 `json:"x"`
	Spacing float64 `json:"spacing"`
	B1      float64 `json:"b1"`
	B2      float64 `json:"b2"`
	Radius  float64 `json:"radius"`
}

// ObstacleView is one obstacle with its geometry resolved for the current
// frame.
type ObstacleView struct {
	ID        uint64       `json:"id"`
	Kind      object.Kind  `json:"kind"`
	Y         float64      `json:"y"`
	Top       float64      `json:"top"`
	Passed    bool         `json:"passed"`
	WasHit    bool         `json:"wasHit"`
	Resonance float64      `json:"resonance"`
	Shape     object.Shape `json:"shape"`

	GapCenter    float64        `json:"gapCenter"`     // Weaver center at Y
	Bob          *object.Point  `json:"bob,omitempty"` // Pendulum only
	Collectibles []object.Point `json:"collectibles"`  // Uncollected only
}

// Snapshot copies the current state.
func (s *Session) Snapshot() *Snapshot {
	st := &s.state
	b1, b2 := st.Tether.Nodes()

	snap := &Snapshot{
		Width:          s.corridor.Width,
		Height:         s.corridor.Height,
		PlayerY:        s.playerY,
		Score:          st.Total(),
		Stability:      int(math.Floor(st.Stability)),
		Mirror:         st.MirrorActive(),
		MirrorFraction: st.MirrorFrames / config.MirrorDurationFrames,
		Resonance:      st.Resonance,
		Squeezing:      st.Squeezing,
		Shake:          st.Shake,
		Speed:          st.Speed(),
		TimeMs:         st.TimeMs,
		Ready:          st.Ready,
		Over:           st.Over,
		Tether: TetherView{
			X:       st.Tether.X,
			Spacing: st.Tether.Spacing,
			B1:      b1,
			B2:      b2,
			Radius:  s.env.Radius,
		},
		Obstacles: make([]ObstacleView, 0, st.Stream.Len()),
		Feedback:  append([]object.Feedback(nil), st.Feedback...),
	}

	for _, o := range st.Stream.Obstacles() {
		snap.Obstacles = append(snap.Obstacles, viewOf(o))
	}
	return snap
}

func viewOf(o *object.Obstacle) ObstacleView {
	v := ObstacleView{
		ID:        o.ID,
		Kind:      o.Kind(),
		Y:         o.Y,
		Top:       o.Top(),
		Passed:    o.Passed,
		WasHit:    o.WasHit,
		Resonance: o.Resonance,
		Shape:     object.CloneShape(o.Shape),
	}

	switch sh := o.Shape.(type) {
	case *object.Weaver:
		v.GapCenter = sh.CenterAt(o.Y)
	case *object.Pendulum:
		bob := sh.Bob(o.Y)
		v.Bob = &bob
	}

	drift := o.Drift()
	for _, c := range o.Collectibles {
		if !c.Collected {
			v.Collectibles = append(v.Collectibles, c.Position(drift, o.Y))
		}
	}
	return v
}
