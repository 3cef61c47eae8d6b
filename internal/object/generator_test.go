package object

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/tomz197/tether/internal/loop/config"
)

func TestGenerateIsReproducible(t *testing.T) {
	a := NewGenerator(rand.New(rand.NewSource(7)), config.CorridorWidth)
	b := NewGenerator(rand.New(rand.NewSource(7)), config.CorridorWidth)
	pa, pb := NewPortalSchedule(), NewPortalSchedule()

	for i := 0; i < 50; i++ {
		now := float64(i) * 1000
		oa := a.Generate(-float64(i)*1000, now, &pa, false)
		ob := b.Generate(-float64(i)*1000, now, &pb, false)
		if !reflect.DeepEqual(oa, ob) {
			t.Fatalf("obstacle %d differs between identical seeds:\n%+v\n%+v", i, oa, ob)
		}
	}
}

func TestUnlockedKindsGrowWithTime(t *testing.T) {
	tests := []struct {
		nowMs float64
		want  []Kind
	}{
		{0, []Kind{KindNeedle, KindTwins}},
		{5001, []Kind{KindNeedle, KindTwins, KindZigzag, KindDiamond}},
		{8001, []Kind{KindNeedle, KindTwins, KindZigzag, KindDiamond, KindSplitter}},
		{16000, []Kind{KindNeedle, KindTwins, KindZigzag, KindDiamond, KindSplitter, KindFunnel, KindPendulum, KindWeaver}},
	}
	for _, tt := range tests {
		got := UnlockedKinds(tt.nowMs)
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("UnlockedKinds(%v) = %v, want %v", tt.nowMs, got, tt.want)
		}
	}

	prev := 0
	for now := 0.0; now < 30000; now += 250 {
		n := len(UnlockedKinds(now))
		if n < prev {
			t.Fatalf("kind pool shrank at %vms: %d < %d", now, n, prev)
		}
		prev = n
	}
}

func TestGenerateEarlyKinds(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(1)), config.CorridorWidth)
	p := NewPortalSchedule()
	for i := 0; i < 200; i++ {
		o := g.Generate(0, 1000, &p, false)
		if k := o.Kind(); k != KindNeedle && k != KindTwins {
			t.Fatalf("kind at 1s = %v, want NEEDLE or TWINS", k)
		}
	}
}

func TestPortalPreemptsSelection(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	g := NewGenerator(rng, config.CorridorWidth)
	p := NewPortalSchedule()

	if o := g.Generate(0, config.MirrorSpawnStartMs+1, &p, true); o.Kind() == KindMirrorPortal {
		t.Fatalf("portal spawned while mirror mode was active")
	}

	o := g.Generate(0, config.MirrorSpawnStartMs+1, &p, false)
	if o.Kind() != KindMirrorPortal {
		t.Fatalf("kind = %v, want MIRROR_PORTAL", o.Kind())
	}
	if !math.IsInf(p.NextMs, 1) {
		t.Fatalf("schedule after spawn = %v, want +Inf", p.NextMs)
	}
	if o := g.Generate(0, 60000, &p, false); o.Kind() == KindMirrorPortal {
		t.Fatalf("second portal spawned while the first was pending")
	}

	p.Reschedule(60000, rng)
	lo := 60000 + config.MirrorRescheduleMs
	hi := lo + config.MirrorRescheduleJitterMs
	if p.NextMs < lo || p.NextMs > hi {
		t.Fatalf("rescheduled at %v, want within [%v, %v]", p.NextMs, lo, hi)
	}
}

func TestPortalStaysInsideCorridor(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(11)), config.CorridorWidth)
	half := config.CorridorWidth / 2.0
	for i := 0; i < 500; i++ {
		mp := g.Build(KindMirrorPortal, 0).Shape.(*MirrorPortal)
		if mp.Center-mp.Width/2 < -half || mp.Center+mp.Width/2 > half {
			t.Fatalf("portal [%f, %f] leaves corridor of half width %f",
				mp.Center-mp.Width/2, mp.Center+mp.Width/2, half)
		}
	}
}

func TestBuildEveryKind(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(5)), config.CorridorWidth)
	kinds := []Kind{
		KindNeedle, KindTwins, KindSplitter, KindWeaver, KindDiamond,
		KindZigzag, KindFunnel, KindPendulum, KindMirrorPortal,
	}
	seen := map[uint64]bool{}
	for _, k := range kinds {
		o := g.Build(k, -100)
		if o.Kind() != k {
			t.Fatalf("Build(%v).Kind() = %v", k, o.Kind())
		}
		if seen[o.ID] {
			t.Fatalf("duplicate obstacle id %d", o.ID)
		}
		seen[o.ID] = true

		switch {
		case k == KindMirrorPortal:
			if len(o.Collectibles) != 0 {
				t.Fatalf("portal has %d collectibles, want 0", len(o.Collectibles))
			}
		case o.IsLong():
			if got, want := len(o.Collectibles), config.LongSamples*2; got != want {
				t.Fatalf("%v has %d collectibles, want %d", k, got, want)
			}
			if o.Height() != config.LongHeight {
				t.Fatalf("%v height = %f, want %f", k, o.Height(), config.LongHeight)
			}
		default:
			if len(o.Collectibles) != 2 {
				t.Fatalf("%v has %d collectibles, want 2", k, len(o.Collectibles))
			}
		}
	}
}

func TestNeedleCollectiblesInsideGap(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(9)), config.CorridorWidth)
	for i := 0; i < 100; i++ {
		o := g.Build(KindNeedle, 0)
		n := o.Shape.(*Needle)
		for _, c := range o.Collectibles {
			if math.Abs(c.X-n.GapCenter) >= n.GapSize/2 {
				t.Fatalf("collectible at %f outside gap %f±%f", c.X, n.GapCenter, n.GapSize/2)
			}
		}
	}
}

func TestLaneCollectiblesInsideLane(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(13)), config.CorridorWidth)
	for _, k := range []Kind{KindZigzag, KindFunnel} {
		o := g.Build(k, 0)
		for i, c := range o.Collectibles {
			progress := -c.YOffset / o.Height()
			var lane Lane
			switch s := o.Shape.(type) {
			case *Zigzag:
				lane = s.LaneAt(progress)
			case *Funnel:
				lane = s.LaneAt(progress)
			}
			off := math.Abs(c.X - lane.Center)
			if off <= lane.Inner/2 || off >= lane.Outer/2 {
				t.Fatalf("%v collectible %d at offset %f, want within (%f, %f)",
					k, i, off, lane.Inner/2, lane.Outer/2)
			}
		}
	}
}
