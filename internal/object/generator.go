package object

import (
	"math"
	"math/rand"

	"github.com/tomz197/tether/internal/loop/config"
)

// PortalSchedule is the session time (ms) after which the next mirror
// portal may spawn. +Inf means no portal is scheduled.
type PortalSchedule struct {
	NextMs float64
}

// NewPortalSchedule schedules the first portal at the fixed start time.
func NewPortalSchedule() PortalSchedule {
	return PortalSchedule{NextMs: config.MirrorSpawnStartMs}
}

// Due reports whether a portal should preempt normal selection.
func (p *PortalSchedule) Due(nowMs float64, mirrorActive bool) bool {
	return nowMs > p.NextMs && !mirrorActive
}

// Hold pushes the schedule out until Reschedule is called.
func (p *PortalSchedule) Hold() {
	p.NextMs = math.Inf(1)
}

// Reschedule picks the next spawn time within the bounded window after now.
func (p *PortalSchedule) Reschedule(nowMs float64, rng *rand.Rand) {
	p.NextMs = nowMs + config.MirrorRescheduleMs + rng.Float64()*config.MirrorRescheduleJitterMs
}

// Generator creates obstacles with geometry scaled to the corridor width.
// All randomness comes from the injected source, so a seeded source
// reproduces the same corridor.
type Generator struct {
	rng    *rand.Rand
	width  float64
	nextID uint64
}

// NewGenerator creates a generator for a corridor of the given width.
func NewGenerator(rng *rand.Rand, width float64) *Generator {
	return &Generator{rng: rng, width: width, nextID: 1}
}

// Rand exposes the generator's source for callers that must share it.
func (g *Generator) Rand() *rand.Rand {
	return g.rng
}

// UnlockedKinds returns the hazard kinds available at the given session time.
// The set only grows with time.
func UnlockedKinds(nowMs float64) []Kind {
	kinds := []Kind{KindNeedle, KindTwins}
	if nowMs > config.UnlockZigzagMs {
		kinds = append(kinds, KindZigzag, KindDiamond)
	}
	if nowMs > config.UnlockSplitterMs {
		kinds = append(kinds, KindSplitter)
	}
	if nowMs > config.UnlockFunnelMs {
		kinds = append(kinds, KindFunnel)
	}
	if nowMs > config.UnlockPendulumMs {
		kinds = append(kinds, KindPendulum)
	}
	if nowMs > config.UnlockWeaverMs {
		kinds = append(kinds, KindWeaver)
	}
	return kinds
}

// Generate creates the next obstacle with its leading edge at y. A due
// portal preempts the random pick and puts the schedule on hold.
func (g *Generator) Generate(y, nowMs float64, portal *PortalSchedule, mirrorActive bool) *Obstacle {
	if portal.Due(nowMs, mirrorActive) {
		portal.Hold()
		return g.newObstacle(y, g.portal())
	}

	kinds := UnlockedKinds(nowMs)
	return g.Build(kinds[g.rng.Intn(len(kinds))], y)
}

// Build creates an obstacle of a specific kind.
func (g *Generator) Build(kind Kind, y float64) *Obstacle {
	var (
		shape        Shape
		collectibles []Collectible
	)
	switch kind {
	case KindNeedle:
		s := &Needle{GapCenter: g.spread(config.NeedleSpread), GapSize: config.NeedleGap}
		inset := s.GapSize/2 - config.EdgeInset
		shape, collectibles = s, pair(s.GapCenter-inset, s.GapCenter+inset)
	case KindTwins:
		offset := g.spread(config.TwinsSpread)
		s := &Twins{
			LeftCenter:  offset - config.TwinsOffset,
			RightCenter: offset + config.TwinsOffset,
			GapSize:     config.TwinsGap,
		}
		shape, collectibles = s, pair(s.LeftCenter-config.TwinsInset, s.RightCenter+config.TwinsInset)
	case KindSplitter:
		s := &Splitter{Center: g.spread(config.SplitterSpread), BlockSize: config.SplitterBlock}
		shape, collectibles = s, pair(s.Center-config.SplitterCollectible, s.Center+config.SplitterCollectible)
	case KindWeaver:
		s := &Weaver{GapSize: config.NeedleGap, Sway: g.width * config.WeaverSway}
		inset := s.GapSize/2 - config.EdgeInset
		shape, collectibles = s, pair(-inset, inset)
	case KindDiamond:
		s := &Diamond{Center: g.spread(config.DiamondSpread), Size: config.DiamondSize}
		shape, collectibles = s, pair(s.Center-config.DiamondCollectible, s.Center+config.DiamondCollectible)
	case KindZigzag:
		s := &Zigzag{
			Center:  g.spread(config.ZigzagSpread),
			GapSize: config.ZigzagGap,
			Height:  config.LongHeight,
			Sweep:   g.width * config.ZigzagSweep,
		}
		shape, collectibles = s, laneCollectibles(s.Height, s.LaneAt)
	case KindFunnel:
		dir := FunnelIn
		if g.rng.Float64() > 0.5 {
			dir = FunnelOut
		}
		s := &Funnel{
			Center: g.spread(config.FunnelSpread),
			Height: config.LongHeight,
			Narrow: config.FunnelNarrow,
			Wide:   g.width - config.FunnelWallMargin,
			Dir:    dir,
		}
		shape, collectibles = s, laneCollectibles(s.Height, s.LaneAt)
	case KindPendulum:
		s := &Pendulum{
			Pivot:    g.spread(config.PendulumSpread),
			Radius:   config.PendulumRadius,
			RotSpeed: config.PendulumMinSpeed + g.rng.Float64()*config.PendulumSpeedRange,
		}
		shape, collectibles = s, pair(s.Pivot-config.PendulumCollectible, s.Pivot+config.PendulumCollectible)
	case KindMirrorPortal:
		shape = g.portal()
	default:
		panic("object: cannot build obstacle of " + kind.String())
	}

	o := g.newObstacle(y, shape)
	o.Collectibles = collectibles
	return o
}

func (g *Generator) newObstacle(y float64, shape Shape) *Obstacle {
	o := &Obstacle{ID: g.nextID, Y: y, Shape: shape}
	g.nextID++
	return o
}

// portal places a portal rectangle fully inside the corridor.
func (g *Generator) portal() *MirrorPortal {
	half := g.width / 2
	margin := config.PortalWidth/2 + config.PortalMargin
	minX, maxX := -half+margin, half-margin
	return &MirrorPortal{
		Center: minX + g.rng.Float64()*(maxX-minX),
		Width:  config.PortalWidth,
		Height: config.PortalHeight,
	}
}

// spread draws a lateral center in a band of the given width fraction
// around the corridor center.
func (g *Generator) spread(fraction float64) float64 {
	return (g.rng.Float64() - 0.5) * g.width * fraction
}

// laneCollectibles samples a long lane at fixed progress steps and places
// a pair of collectibles inside each node's lane, biased toward the inner
// wall so a perfect run hugs it.
func laneCollectibles(height float64, laneAt func(float64) Lane) []Collectible {
	out := make([]Collectible, 0, config.LongSamples*2)
	for i := 0; i < config.LongSamples; i++ {
		progress := float64(i) / config.LongSamples
		lane := laneAt(progress)
		off := (lane.Inner/2)*0.75 + (lane.Outer/2)*0.25
		yOff := -progress * height
		out = append(out,
			Collectible{X: lane.Center - off, YOffset: yOff},
			Collectible{X: lane.Center + off, YOffset: yOff},
		)
	}
	return out
}
