package input

import (
	"testing"
	"time"
)

func newTestStream(data string) *Stream {
	s := &Stream{ch: make(chan byte, len(data)+1)}
	for i := 0; i < len(data); i++ {
		s.ch <- data[i]
	}
	return s
}

func feed(s *Stream, data string) {
	for i := 0; i < len(data); i++ {
		s.ch <- data[i]
	}
}

func TestReadInputKeys(t *testing.T) {
	now := time.Now()
	s := newTestStream("a\x1b[Aq")
	in := readInputAt(s, now)
	if !in.Left || !in.Up || !in.Quit {
		t.Fatalf("expected left, up and quit, got %+v", in)
	}
	if in.Right || in.Down {
		t.Fatalf("unexpected keys held: %+v", in)
	}

	later := readInputAt(s, now.Add(time.Second))
	if later.Left || later.Up || later.Quit {
		t.Fatalf("keys should expire after hold duration: %+v", later)
	}
}

func TestReadInputMouseDrag(t *testing.T) {
	now := time.Now()
	s := newTestStream("\x1b[<0;10;5M\x1b[<32;14;8M")
	in := readInputAt(s, now)
	want := Mouse{Held: true, StartCol: 10, StartRow: 5, Col: 14, Row: 8}
	if in.Mouse != want {
		t.Fatalf("mouse = %+v, want %+v", in.Mouse, want)
	}

	feed(s, "\x1b[<0;14;8m")
	in = readInputAt(s, now)
	if in.Mouse.Held {
		t.Fatalf("release should end the contact: %+v", in.Mouse)
	}
}

func TestReadInputSplitSequence(t *testing.T) {
	now := time.Now()
	s := newTestStream("\x1b[<0;3")
	in := readInputAt(s, now)
	if in.Mouse.Held {
		t.Fatal("incomplete report must not be applied")
	}

	feed(s, ";4M")
	in = readInputAt(s, now)
	if !in.Mouse.Held || in.Mouse.Col != 3 || in.Mouse.Row != 4 {
		t.Fatalf("split report not reassembled: %+v", in.Mouse)
	}
}

func TestReadInputIgnoresWheel(t *testing.T) {
	s := newTestStream("\x1b[<64;3;4M")
	in := readInputAt(s, time.Now())
	if in.Mouse.Held {
		t.Fatal("wheel must not start a contact")
	}
}

func TestPointerFromMouse(t *testing.T) {
	in := Input{Mouse: Mouse{Held: true, StartCol: 10, StartRow: 10, Col: 12, Row: 7}}
	p := in.Pointer(Scale{UnitsPerCol: 5, UnitsPerRow: 10})
	want := Pointer{Active: true, DX: 10, DY: 30}
	if p != want {
		t.Fatalf("pointer = %+v, want %+v", p, want)
	}
}

func TestPointerFromKeys(t *testing.T) {
	p := Input{Left: true, Up: true}.Pointer(Scale{})
	if !p.Active || p.DX != -KeyReach || p.DY != KeyStretch {
		t.Fatalf("unexpected pointer %+v", p)
	}
	if (Input{}).Pointer(Scale{}).Active {
		t.Fatal("no input must yield an inactive pointer")
	}
}

func TestFeedLastWriteWins(t *testing.T) {
	var f Feed
	f.Set(Pointer{Active: true, DX: 1})
	f.Set(Pointer{Active: true, DX: 2})
	if got := f.Read(); got.DX != 2 {
		t.Fatalf("Read().DX = %f, want 2", got.DX)
	}
}

func TestResetKeyInput(t *testing.T) {
	now := time.Now()
	s := newTestStream("a\x1b[<0;1;1M")
	readInputAt(s, now)
	ResetKeyInput(s)
	in := readInputAt(s, now)
	if in.Left || in.Mouse.Held {
		t.Fatalf("reset should clear held state: %+v", in)
	}
}
