package sim

import (
	"math"
	"testing"

	"github.com/tomz197/tether/internal/input"
	"github.com/tomz197/tether/internal/loop/config"
	"github.com/tomz197/tether/internal/object"
)

func TestPassRewards(t *testing.T) {
	tests := []struct {
		name          string
		shape         object.Shape
		hits          int
		resonance     float64
		mirror        bool
		wantStability float64
		wantBonus     float64
	}{
		{"clean gate", &object.Needle{GapSize: 145}, 0, 0, false, 50 + config.StabilityGainNormal, 0},
		{"grazed gate", &object.Needle{GapSize: 145}, 1, 100, false, 50, 0},
		{"perfect gate", &object.Needle{GapSize: 145}, 0, 100, false, 50 + config.StabilityPerfectNormal, config.PerfectBonusScore},
		{"clean lane", &object.Zigzag{GapSize: 240, Height: 2500}, 0, 0, false, 50 + config.StabilityGainLong, 0},
		{"perfect lane", &object.Funnel{Height: 2500, Narrow: 200, Wide: 300}, 0, 95, false, 50 + config.StabilityPerfectLong, config.PerfectBonusScore},
		{"grazed lane", &object.Zigzag{GapSize: 240, Height: 2500}, 1, 100, false, 50 + config.StabilityGainLong, 0},
		{"twice hit lane", &object.Funnel{Height: 2500, Narrow: 200, Wide: 300}, 2, 0, false, 50, 0},
		{"perfect gate in mirror", &object.Needle{GapSize: 145}, 0, 100, true, 50, 2 * config.PerfectBonusScore},
		{"clean lane in mirror", &object.Zigzag{GapSize: 240, Height: 2500}, 0, 0, true, 50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSession(t)
			st := s.State()
			st.Stability = 50
			o := &object.Obstacle{Shape: tt.shape, HitCount: tt.hits, Resonance: tt.resonance}

			s.pass(o, tt.mirror)

			if !o.Passed {
				t.Fatalf("obstacle not marked passed")
			}
			if st.Stability != tt.wantStability {
				t.Fatalf("stability = %f, want %f", st.Stability, tt.wantStability)
			}
			if st.Bonus != tt.wantBonus {
				t.Fatalf("bonus = %f, want %f", st.Bonus, tt.wantBonus)
			}
		})
	}
}

func TestLongPathNeedsTwoHitsToMark(t *testing.T) {
	s, _ := newTestSession(t)
	st := s.State()
	lane := &object.Obstacle{Shape: &object.Zigzag{GapSize: 240, Height: 2500}}

	s.contact(lane, false)
	if lane.HitCount != 1 || lane.WasHit {
		t.Fatalf("after one hit: count = %d wasHit = %v, want 1 false", lane.HitCount, lane.WasHit)
	}

	st.Cooldown = 0
	s.contact(lane, false)
	if lane.HitCount != 2 || !lane.WasHit {
		t.Fatalf("after two hits: count = %d wasHit = %v, want 2 true", lane.HitCount, lane.WasHit)
	}
	if want := config.InitialStability - 2*config.StabilityLossPerHit; st.Stability != want {
		t.Fatalf("stability = %f, want %f", st.Stability, want)
	}
}

func TestPickupPays(t *testing.T) {
	tests := []struct {
		name         string
		mirror       bool
		wantBonus    float64
		wantGathered int
	}{
		{"normal", false, 2 * config.CollectibleScore, 0},
		{"mirror", true, 2 * config.MirrorCollectibleScore, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSession(t)
			st := s.State()
			o := &object.Obstacle{
				Y:            s.playerY,
				Shape:        &object.Needle{GapSize: 145},
				Collectibles: []object.Collectible{{X: -config.RestSpacing}, {X: config.RestSpacing}},
			}

			s.pickup(o, tt.mirror)

			if st.Bonus != tt.wantBonus {
				t.Fatalf("bonus = %f, want %f", st.Bonus, tt.wantBonus)
			}
			if st.MirrorGathered != tt.wantGathered {
				t.Fatalf("gathered = %d, want %d", st.MirrorGathered, tt.wantGathered)
			}
		})
	}
}

func TestGameOverStopsTheFrame(t *testing.T) {
	s, rec := newTestSession(t)
	st := s.State()
	st.Stability = 8

	// Hold the nodes at +-120, outside the first needle's gap.
	spacing := 120.0
	st.Tether.Spacing = spacing
	s.Feed().Set(input.Pointer{Active: true, DY: (spacing - config.RestSpacing) / config.SpacingGain})

	st.Stream.Push(&object.Obstacle{Y: s.playerY - 10, Shape: &object.Needle{GapSize: 145}})
	later := &object.Obstacle{
		Y:            s.playerY,
		Shape:        &object.Needle{GapSize: 400},
		Collectibles: []object.Collectible{{X: -spacing}},
	}
	st.Stream.Push(later)

	s.Tick(1)

	if !st.Over {
		t.Fatalf("session not over at stability %f", st.Stability)
	}
	if later.Collectibles[0].Collected || st.Bonus != 0 {
		t.Fatalf("obstacle after the fatal hit still scored: bonus = %f", st.Bonus)
	}
	if len(rec.overs) != 1 || rec.overs[0] != st.Total() {
		t.Fatalf("reported %v, snapshot total %d", rec.overs, st.Total())
	}
}

func TestFrameKeepsStartingMode(t *testing.T) {
	t.Run("activation", func(t *testing.T) {
		s, _ := newTestSession(t)
		st := s.State()
		st.Portal.Hold()
		st.Stream.Push(&object.Obstacle{Y: s.playerY - 10, Shape: &object.MirrorPortal{Center: 0, Width: 160, Height: 120}})
		st.Stream.Push(&object.Obstacle{
			Y:            s.playerY,
			Shape:        &object.Needle{GapSize: 145},
			Collectibles: []object.Collectible{{X: -config.RestSpacing}, {X: config.RestSpacing}},
		})

		s.Tick(1)

		if !st.MirrorActive() {
			t.Fatalf("mirror not active after entering the portal")
		}
		if want := float64(2 * config.CollectibleScore); st.Bonus != want || st.MirrorGathered != 0 {
			t.Fatalf("bonus = %f gathered = %d, want %f at the normal rate", st.Bonus, st.MirrorGathered, want)
		}
		if want := config.ScrollSpeedBase * config.PointsPerUnit; math.Abs(st.Score-want) > 1e-9 {
			t.Fatalf("score = %f, want %f", st.Score, want)
		}
	})

	t.Run("expiry", func(t *testing.T) {
		s, _ := newTestSession(t)
		st := s.State()
		st.MirrorFrames = 1

		s.Tick(1)

		if st.MirrorActive() {
			t.Fatalf("mirror still active")
		}
		if want := 2 * config.ScrollSpeedBase * config.MirrorPointsPerUnit; math.Abs(st.Score-want) > 1e-9 {
			t.Fatalf("score = %f, want %f at the mirror rate", st.Score, want)
		}
	})
}
