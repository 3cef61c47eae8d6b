package sim

import (
	"testing"

	"github.com/tomz197/tether/internal/loop/config"
	"github.com/tomz197/tether/internal/object"
)

const testPlayerY = config.CorridorHeight * config.PlayerYRatio

func tetherAt(x, spacing float64) object.Tether {
	return object.Tether{X: x, Spacing: spacing}
}

func TestCollideGateKinds(t *testing.T) {
	env := DefaultEnv()
	tests := []struct {
		name   string
		shape  object.Shape
		tether object.Tether
		want   bool
	}{
		{"needle inside", &object.Needle{GapCenter: 0, GapSize: 145}, tetherAt(0, 30), false},
		{"needle too wide", &object.Needle{GapCenter: 0, GapSize: 145}, tetherAt(0, 200), true},
		{"needle off center", &object.Needle{GapCenter: 100, GapSize: 145}, tetherAt(0, 30), true},
		{"needle edge inflated by radius", &object.Needle{GapCenter: 0, GapSize: 145}, tetherAt(0, 61), true},
		{"twins both in", &object.Twins{LeftCenter: -105, RightCenter: 105, GapSize: 65}, tetherAt(0, 105), false},
		{"twins rest spacing", &object.Twins{LeftCenter: -105, RightCenter: 105, GapSize: 65}, tetherAt(0, 30), true},
		{"twins right node out", &object.Twins{LeftCenter: -105, RightCenter: 105, GapSize: 65}, tetherAt(30, 105), true},
		{"splitter straddled", &object.Splitter{Center: 0, BlockSize: 165}, tetherAt(0, 110), false},
		{"splitter node in block", &object.Splitter{Center: 0, BlockSize: 165}, tetherAt(0, 30), true},
		{"diamond avoided", &object.Diamond{Center: 0, Size: 140}, tetherAt(0, 100), false},
		{"diamond hit", &object.Diamond{Center: 0, Size: 140}, tetherAt(0, 30), true},
		{"weaver centered", &object.Weaver{GapSize: 145, Sway: 0}, tetherAt(0, 30), false},
		{"weaver swayed away", &object.Weaver{GapSize: 145, Sway: 120}, tetherAt(-150, 30), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &object.Obstacle{Y: testPlayerY, Shape: tt.shape}
			got := Collide(tt.tether, testPlayerY, o, env)
			if got.Colliding != tt.want {
				t.Fatalf("Colliding = %v, want %v", got.Colliding, tt.want)
			}
			if got.InsideLongPath || got.PortalEntered {
				t.Fatalf("gate kind reported %+v", got)
			}
		})
	}
}

func TestCollideGateWindow(t *testing.T) {
	o := &object.Obstacle{Y: testPlayerY - config.HitWindow - 1, Shape: &object.Needle{GapSize: 145}}
	if Collide(tetherAt(0, 200), testPlayerY, o, DefaultEnv()).Colliding {
		t.Fatalf("needle outside hit window collided")
	}

	o.Y = testPlayerY
	o.Passed = true
	if Collide(tetherAt(0, 200), testPlayerY, o, DefaultEnv()).Colliding {
		t.Fatalf("passed needle collided")
	}
}

func TestCollidePendulum(t *testing.T) {
	p := &object.Pendulum{Pivot: 0, Radius: 60}
	// At angle 0 the bob hangs 20 below the obstacle row.
	o := &object.Obstacle{Y: testPlayerY, Shape: p}

	if !Collide(tetherAt(0, 30), testPlayerY, o, DefaultEnv()).Colliding {
		t.Fatalf("node under the bob did not collide")
	}
	if Collide(tetherAt(0, 100), testPlayerY, o, DefaultEnv()).Colliding {
		t.Fatalf("nodes clear of the bob collided")
	}
}

func TestCollideLongPath(t *testing.T) {
	z := &object.Zigzag{Center: 0, GapSize: 240, Height: 2500, Sweep: 0}
	lane := z.LaneAt(0)
	// Node centers midway between inner and outer wall
	mid := (lane.Inner/2 + lane.Outer/2) / 2

	inside := &object.Obstacle{Y: testPlayerY + 100, Shape: z}
	c := Collide(tetherAt(0, mid), testPlayerY, inside, DefaultEnv())
	if !c.InsideLongPath || c.Colliding {
		t.Fatalf("centered in lane: %+v, want inside and clear", c)
	}

	c = Collide(tetherAt(0, 30), testPlayerY, inside, DefaultEnv())
	if !c.Colliding {
		t.Fatalf("nodes on the inner wall did not collide")
	}

	inside.Passed = true
	if c := Collide(tetherAt(0, 30), testPlayerY, inside, DefaultEnv()); !c.Colliding {
		t.Fatalf("long path stopped colliding once passed")
	}

	ahead := &object.Obstacle{Y: testPlayerY - 10, Shape: z}
	if c := Collide(tetherAt(0, 30), testPlayerY, ahead, DefaultEnv()); c.InsideLongPath || c.Colliding {
		t.Fatalf("zigzag not yet reached: %+v", c)
	}
}

func TestCollideFunnelTaper(t *testing.T) {
	f := &object.Funnel{Center: 0, Height: 2500, Narrow: 210, Wide: 340, Dir: object.FunnelIn}
	o := &object.Obstacle{Y: testPlayerY + 1, Shape: f}
	lane := f.LaneAt(1.0 / 2500)
	mid := (lane.Inner/2 + lane.Outer/2) / 2
	if c := Collide(tetherAt(0, mid), testPlayerY, o, DefaultEnv()); c.Colliding {
		t.Fatalf("wide end of funnel collided at spacing %f", mid)
	}

	o.Y = testPlayerY + 2499
	if c := Collide(tetherAt(0, mid), testPlayerY, o, DefaultEnv()); !c.Colliding {
		t.Fatalf("narrow end of funnel did not collide at spacing %f", mid)
	}
}

func TestCollidePortalIsConjunctive(t *testing.T) {
	p := &object.MirrorPortal{Center: 0, Width: 160, Height: 120}
	o := &object.Obstacle{Y: testPlayerY, Shape: p}

	if c := Collide(tetherAt(0, 30), testPlayerY, o, DefaultEnv()); !c.PortalEntered {
		t.Fatalf("both nodes inside did not enter portal")
	}
	if c := Collide(tetherAt(60, 30), testPlayerY, o, DefaultEnv()); c.PortalEntered {
		t.Fatalf("one node outside entered portal")
	}
	if c := Collide(tetherAt(0, 30), testPlayerY, o, DefaultEnv()); c.Colliding {
		t.Fatalf("portal reported a hazard collision")
	}

	o.Y = testPlayerY + p.Height/2 + 1
	if c := Collide(tetherAt(0, 30), testPlayerY, o, DefaultEnv()); c.PortalEntered {
		t.Fatalf("portal entered outside its vertical extent")
	}
}
