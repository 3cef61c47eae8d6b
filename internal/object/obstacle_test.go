package object

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/tomz197/tether/internal/loop/config"
)

func TestKindPanicsOnMissingShape(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Kind() on an obstacle without shape did not panic")
		}
	}()
	o := &Obstacle{ID: 1}
	o.Kind()
}

func TestKindText(t *testing.T) {
	b, err := KindMirrorPortal.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	if string(b) != "MIRROR_PORTAL" {
		t.Fatalf("MarshalText = %q, want MIRROR_PORTAL", b)
	}
	if got := Kind(42).String(); got != "Kind(42)" {
		t.Fatalf("String = %q, want Kind(42)", got)
	}
}

func TestPendulumBob(t *testing.T) {
	p := &Pendulum{Pivot: 10}
	bob := p.Bob(500)
	want := Point{X: 10, Y: 500 - config.PendulumPivotOffset + config.PendulumLength}
	if bob != want {
		t.Fatalf("Bob at angle 0 = %+v, want %+v", bob, want)
	}

	o := &Obstacle{Shape: &Pendulum{Pivot: 0, RotSpeed: 0.05}}
	o.Advance(2)
	if got := o.Shape.(*Pendulum).Angle; math.Abs(got-0.1) > 1e-12 {
		t.Fatalf("angle after Advance(2) = %f, want 0.1", got)
	}
}

func TestFunnelLaneTapers(t *testing.T) {
	in := &Funnel{Narrow: 200, Wide: 340, Dir: FunnelIn}
	out := &Funnel{Narrow: 200, Wide: 340, Dir: FunnelOut}
	if got := in.LaneAt(0).Outer; got != 340 {
		t.Fatalf("inward funnel leading width = %f, want 340", got)
	}
	if got := out.LaneAt(0).Outer; got != 200 {
		t.Fatalf("outward funnel leading width = %f, want 200", got)
	}
	if a, b := in.LaneAt(0.25).Outer, in.LaneAt(0.75).Outer; a <= b {
		t.Fatalf("inward funnel widened: %f then %f", a, b)
	}
	lane := in.LaneAt(0.5)
	if want := lane.Outer - config.LaneWidth*config.GapExpansion; lane.Inner != want {
		t.Fatalf("inner gap = %f, want %f", lane.Inner, want)
	}
}

func TestCollectMarksNearbyOnly(t *testing.T) {
	o := &Obstacle{
		Y:            600,
		Shape:        &Needle{GapSize: 145},
		Collectibles: pair(-60, 60),
	}
	if n := o.Collect(-60, 30, 600, config.PickupRadius); n != 1 {
		t.Fatalf("picked %d, want 1", n)
	}
	if o.Resonance != 50 {
		t.Fatalf("resonance = %f, want 50", o.Resonance)
	}
	if n := o.Collect(-60, 30, 600, config.PickupRadius); n != 0 {
		t.Fatalf("picked %d on repeat, want 0", n)
	}
	if n := o.Collect(0, 55, 600, config.PickupRadius); n != 1 || o.Resonance != 100 {
		t.Fatalf("picked %d resonance %f, want 1 and 100", n, o.Resonance)
	}
}

func TestResonanceNeverDecreases(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(t, "collectibles")
		o := &Obstacle{Y: 0, Shape: &Needle{GapSize: 145}}
		for i := 0; i < n; i++ {
			o.Collectibles = append(o.Collectibles, Collectible{
				X:       rapid.Float64Range(-150, 150).Draw(t, "cx"),
				YOffset: rapid.Float64Range(-60, 0).Draw(t, "cy"),
			})
		}

		prev := 0.0
		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			b1 := rapid.Float64Range(-200, 200).Draw(t, "b1")
			b2 := rapid.Float64Range(-200, 200).Draw(t, "b2")
			o.Y += rapid.Float64Range(0, 10).Draw(t, "scroll")
			o.Collect(b1, b2, 30, config.PickupRadius)
			if o.Resonance < prev {
				t.Fatalf("resonance dropped from %f to %f", prev, o.Resonance)
			}
			if o.Resonance > 100 {
				t.Fatalf("resonance %f above 100", o.Resonance)
			}
			prev = o.Resonance
		}
	})
}
