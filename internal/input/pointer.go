package input

import "sync"

// Pointer is the normalized input the simulation consumes: whether a
// contact is active and its displacement since the contact started, in
// corridor units.
type Pointer struct {
	Active bool    `json:"active"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
}

// Feed holds the latest Pointer. Writers may call Set at any time; the
// simulation reads once per tick. Last write wins; nothing is queued.
type Feed struct {
	mu      sync.Mutex
	pointer Pointer
}

// Set replaces the current pointer state.
func (f *Feed) Set(p Pointer) {
	f.mu.Lock()
	f.pointer = p
	f.mu.Unlock()
}

// Read returns the current pointer state.
func (f *Feed) Read() Pointer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pointer
}

// Keyboard steering reach, in corridor units.
const (
	KeyReach   = 140.0
	KeyStretch = 110.0
)

// Scale converts terminal cells to corridor units.
type Scale struct {
	UnitsPerCol float64
	UnitsPerRow float64
}

// Pointer converts the frame's input into a Pointer. A held mouse drag
// takes precedence over steering keys.
func (in Input) Pointer(s Scale) Pointer {
	if in.Mouse.Held {
		return Pointer{
			Active: true,
			DX:     float64(in.Mouse.Col-in.Mouse.StartCol) * s.UnitsPerCol,
			DY:     float64(in.Mouse.StartRow-in.Mouse.Row) * s.UnitsPerRow, // Dragging up stretches
		}
	}

	var p Pointer
	if in.Left {
		p.DX -= KeyReach
	}
	if in.Right {
		p.DX += KeyReach
	}
	if in.Up {
		p.DY += KeyStretch
	}
	if in.Down {
		p.DY -= KeyStretch
	}
	p.Active = in.Left || in.Right || in.Up || in.Down
	return p
}
