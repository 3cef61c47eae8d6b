package object

import (
	"fmt"
	"math"

	"github.com/tomz197/tether/internal/loop/config"
)

// Kind identifies an obstacle geometry.
type Kind int

const (
	KindNeedle Kind = iota
	KindTwins
	KindSplitter
	KindWeaver
	KindDiamond
	KindZigzag
	KindFunnel
	KindPendulum
	KindMirrorPortal
)

var kindNames = [...]string{
	KindNeedle:       "NEEDLE",
	KindTwins:        "TWINS",
	KindSplitter:     "SPLITTER",
	KindWeaver:       "WEAVER",
	KindDiamond:      "DIAMOND",
	KindZigzag:       "ZIGZAG",
	KindFunnel:       "FUNNEL",
	KindPendulum:     "PENDULUM",
	KindMirrorPortal: "MIRROR_PORTAL",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText lets kinds appear by name in JSON snapshots.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Shape is the kind-specific geometry of an obstacle. The set of
// implementations is closed; every switch over shapes must cover all of them.
type Shape interface {
	shape()
}

// Needle is a wall with a single gap.
type Needle struct {
	GapCenter float64 `json:"gapCenter"`
	GapSize   float64 `json:"gapSize"`
}

// Twins is a wall with two gaps; the left node must use the left gap and
// the right node the right gap.
type Twins struct {
	LeftCenter  float64 `json:"leftCenter"`
	RightCenter float64 `json:"rightCenter"`
	GapSize     float64 `json:"gapSize"`
}

// Splitter is a central block the two nodes must straddle.
type Splitter struct {
	Center    float64 `json:"center"`
	BlockSize float64 `json:"blockSize"`
}

// Weaver is a single gap whose center sways with the obstacle's position.
type Weaver struct {
	GapSize float64 `json:"gapSize"`
	Sway    float64 `json:"sway"` // Lateral amplitude
}

// Diamond is a rhombus hazard centered on the obstacle row.
type Diamond struct {
	Center float64 `json:"center"`
	Size   float64 `json:"size"` // Diagonal length
}

// Zigzag is a long lane that sweeps sinusoidally over one period.
type Zigzag struct {
	Center  float64 `json:"center"`
	GapSize float64 `json:"gapSize"`
	Height  float64 `json:"height"`
	Sweep   float64 `json:"sweep"`
}

// FunnelDir is the taper direction of a funnel, seen from its leading edge.
type FunnelDir int

const (
	FunnelIn  FunnelDir = iota // Wide at the leading edge, narrowing
	FunnelOut                  // Narrow at the leading edge, widening
)

// Funnel is a long lane whose width tapers linearly.
type Funnel struct {
	Center float64   `json:"center"`
	Height float64   `json:"height"`
	Narrow float64   `json:"narrow"`
	Wide   float64   `json:"wide"`
	Dir    FunnelDir `json:"dir"`
}

// Pendulum is a bob swinging from a pivot above the obstacle row.
type Pendulum struct {
	Pivot    float64 `json:"pivot"`
	Radius   float64 `json:"radius"`
	Angle    float64 `json:"angle"`
	RotSpeed float64 `json:"rotSpeed"` // Radians per frame
}

// MirrorPortal is the rectangle that starts mirror mode.
type MirrorPortal struct {
	Center float64 `json:"center"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (*Needle) shape()       {}
func (*Twins) shape()        {}
func (*Splitter) shape()     {}
func (*Weaver) shape()       {}
func (*Diamond) shape()      {}
func (*Zigzag) shape()       {}
func (*Funnel) shape()       {}
func (*Pendulum) shape()     {}
func (*MirrorPortal) shape() {}

// Obstacle is one hazard (or portal) in the corridor. Y is its leading
// (lowest) row; long kinds extend Height above it.
type Obstacle struct {
	ID           uint64        `json:"id"`
	Y            float64       `json:"y"`
	Shape        Shape         `json:"shape"`
	Passed       bool          `json:"passed"`
	WasHit       bool          `json:"wasHit"`
	HitCount     int           `json:"hitCount"`
	Resonance    float64       `json:"resonance"`
	Collectibles []Collectible `json:"collectibles"`
}

// Kind returns the obstacle's kind, derived from its shape.
// A missing or foreign shape is a construction bug and panics.
func (o *Obstacle) Kind() Kind {
	switch o.Shape.(type) {
	case *Needle:
		return KindNeedle
	case *Twins:
		return KindTwins
	case *Splitter:
		return KindSplitter
	case *Weaver:
		return KindWeaver
	case *Diamond:
		return KindDiamond
	case *Zigzag:
		return KindZigzag
	case *Funnel:
		return KindFunnel
	case *Pendulum:
		return KindPendulum
	case *MirrorPortal:
		return KindMirrorPortal
	}
	panic(fmt.Sprintf("object: obstacle %d has invalid shape %T", o.ID, o.Shape))
}

// Height is the vertical extent above Y.
func (o *Obstacle) Height() float64 {
	switch s := o.Shape.(type) {
	case *Zigzag:
		return s.Height
	case *Funnel:
		return s.Height
	case *MirrorPortal:
		return s.Height
	}
	return 0
}

// Top is the far (highest) row of the obstacle.
func (o *Obstacle) Top() float64 {
	return o.Y - o.Height()
}

// IsLong reports whether the obstacle is a lane the player travels through.
func (o *Obstacle) IsLong() bool {
	switch o.Shape.(type) {
	case *Zigzag, *Funnel:
		return true
	}
	return false
}

// Drift is the lateral offset applied to collectibles at the obstacle's
// current row. Only weavers move sideways.
func (o *Obstacle) Drift() float64 {
	if w, ok := o.Shape.(*Weaver); ok {
		return w.CenterAt(o.Y)
	}
	return 0
}

// Advance moves time-dependent geometry forward by dt frames.
func (o *Obstacle) Advance(dt float64) {
	if p, ok := o.Shape.(*Pendulum); ok {
		p.Angle += p.RotSpeed * dt
	}
}

// CenterAt is the weaver's gap center when its row is at y.
func (w *Weaver) CenterAt(y float64) float64 {
	return math.Sin(y/config.WeaverPeriod) * w.Sway
}

// Lane is the safe outline of a long obstacle at one progress fraction:
// nodes must stay between Outer/2 and Inner/2 on their side of Center.
type Lane struct {
	Center float64
	Outer  float64
	Inner  float64
}

// innerGap is the width of the wall segment between the two node lanes.
func innerGap(outer float64) float64 {
	return outer - config.LaneWidth*config.GapExpansion
}

// LaneAt returns the zigzag outline at progress in [0, 1), where 0 is the
// leading edge.
func (z *Zigzag) LaneAt(progress float64) Lane {
	return Lane{
		Center: z.Center + math.Sin(progress*math.Pi*2)*z.Sweep,
		Outer:  z.GapSize,
		Inner:  innerGap(z.GapSize),
	}
}

// LaneAt returns the funnel outline at progress in [0, 1), where 0 is the
// leading edge.
func (f *Funnel) LaneAt(progress float64) Lane {
	var outer float64
	if f.Dir == FunnelIn {
		outer = f.Wide - progress*(f.Wide-f.Narrow)
	} else {
		outer = f.Narrow + progress*(f.Wide-f.Narrow)
	}
	return Lane{Center: f.Center, Outer: outer, Inner: innerGap(outer)}
}

// Bob returns the pendulum bob center for an obstacle row at y.
func (p *Pendulum) Bob(y float64) Point {
	pivotY := y - config.PendulumPivotOffset
	return Point{
		X: p.Pivot + math.Sin(p.Angle)*config.PendulumLength,
		Y: pivotY + math.Cos(p.Angle)*config.PendulumLength,
	}
}

// Collect marks every collectible within radius of either node at row
// playerY and returns how many were newly collected. Resonance is updated
// from the running total and never decreases.
func (o *Obstacle) Collect(b1, b2, playerY, radius float64) int {
	if len(o.Collectibles) == 0 {
		return 0
	}
	drift := o.Drift()
	picked := 0
	collected := 0
	for i := range o.Collectibles {
		c := &o.Collectibles[i]
		if !c.Collected && c.Near(drift, o.Y, b1, b2, playerY, radius) {
			c.Collected = true
			picked++
		}
		if c.Collected {
			collected++
		}
	}
	o.Resonance = float64(collected) / float64(len(o.Collectibles)) * 100
	return picked
}

// CloneShape returns a copy of s that shares no memory with it.
func CloneShape(s Shape) Shape {
	switch v := s.(type) {
	case *Needle:
		c := *v
		return &c
	case *Twins:
		c := *v
		return &c
	case *Splitter:
		c := *v
		return &c
	case *Weaver:
		c := *v
		return &c
	case *Diamond:
		c := *v
		return &c
	case *Zigzag:
		c := *v
		return &c
	case *Funnel:
		c := *v
		return &c
	case *Pendulum:
		c := *v
		return &c
	case *MirrorPortal:
		c := *v
		return &c
	}
	panic(fmt.Sprintf("object: cannot clone shape %T", s))
}
