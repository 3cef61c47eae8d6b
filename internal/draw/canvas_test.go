package draw

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
)

// render draws the canvas through a fresh writer and returns the output.
func render(t *testing.T, c *Canvas) string {
	t.Helper()
	var buf bytes.Buffer
	cw := NewChunkWriter(&buf, 0, 0)
	c.Render(cw)
	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	return buf.String()
}

func TestRenderOnlyChangedCells(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	red := tcell.NewHexColor(0xff0000)

	c.SetFloat(2, 2, red)
	first := render(t, c)
	if !strings.Contains(first, string(BlockUpperHalf)) {
		t.Fatalf("first render missing upper half block: %q", first)
	}

	if second := render(t, c); second != "" {
		t.Fatalf("unchanged canvas rendered %q", second)
	}

	c.ForceRedraw()
	if third := render(t, c); len(third) <= len(first) {
		t.Fatalf("forced redraw wrote %d bytes, want more than %d", len(third), len(first))
	}
}

func TestRenderHalfBlocks(t *testing.T) {
	c := NewScaledCanvas(1, 1, 1, 2)
	red := tcell.NewHexColor(0xff0000)

	tests := []struct {
		name        string
		top, bottom bool
		want        rune
	}{
		{"top only", true, false, BlockUpperHalf},
		{"bottom only", false, true, BlockLowerHalf},
		{"both", true, true, BlockFull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.Clear()
			c.ForceRedraw()
			if tt.top {
				c.SetFloat(0, 0, red)
			}
			if tt.bottom {
				c.SetFloat(0, 1, red)
			}
			if out := render(t, c); !strings.ContainsRune(out, tt.want) {
				t.Fatalf("render = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestMarkTextDirty(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	render(t, c)

	c.MarkTextDirty(2, 1, 2)
	out := render(t, c)
	if got := strings.Count(out, " "); got != 2 {
		t.Fatalf("repainted %d cells, want 2 (%q)", got, out)
	}

	c.MarkTextDirty(0, 9, 5) // off canvas
	if out := render(t, c); out != "" {
		t.Fatalf("off-canvas mark repainted %q", out)
	}
}

func TestFillRectScales(t *testing.T) {
	c := NewScaledCanvas(10, 10, 100, 200)
	blue := tcell.NewHexColor(0x0000ff)
	c.FillRect(0, 0, 50, 100, blue)

	n := 0
	for _, p := range c.pixels {
		if p == blue {
			n++
		}
	}
	// 0..5 columns by 0..10 sub-pixel rows inclusive
	if n != 6*11 {
		t.Fatalf("filled %d pixels, want %d", n, 6*11)
	}
}

func TestTerminalRoundTrip(t *testing.T) {
	c := NewScaledCanvas(80, 24, 800, 480)
	col, row := c.LogicalToTerminal(405, 205)
	x, y := c.TerminalToLogical(col, row)
	if x < 390 || x > 420 || y < 190 || y > 225 {
		t.Fatalf("round trip = (%v, %v), want near (405, 205)", x, y)
	}
}

func TestPutCellSkipsRedundantEscapes(t *testing.T) {
	var buf bytes.Buffer
	cw := NewChunkWriter(&buf, 2, 3)
	red := tcell.NewHexColor(0xff0000)

	cw.PutCell(1, 1, red, tcell.ColorDefault)
	cw.PutCell(2, 1, red, tcell.ColorDefault)
	cw.PutCell(4, 1, red, red)
	cw.ResetColors()
	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := "\033[4;3H\033[0m\033[38;2;255;0;0m▀▀" + "\033[4;6H█" + "\033[0m"
	if got := buf.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestWriteColoredAt(t *testing.T) {
	var buf bytes.Buffer
	cw := NewChunkWriter(&buf, 0, 0)
	cw.WriteColoredAt(1, 1, tcell.NewHexColor(0x0ddff2), "hi")
	cw.WriteAt(5, 1, "plain")
	cw.ResetColors()
	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	// The raw write loses color tracking, so the final reset is written again.
	want := "\033[1;1H\033[0m\033[38;2;13;223;242mhi\033[0m" + "\033[1;5Hplain" + "\033[0m"
	if got := buf.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestRenderBorder(t *testing.T) {
	c := NewScaledCanvas(2, 1, 2, 2)
	var buf bytes.Buffer
	cw := NewChunkWriter(&buf, 1, 1)
	c.RenderBorder(cw)
	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"\033[1;1H┌──┐", "\033[3;1H└──┘", "\033[2;1H│", "\033[2;4H│"} {
		if !strings.Contains(out, want) {
			t.Fatalf("border %q missing %q", out, want)
		}
	}

	buf.Reset()
	cw.SetOffset(0, 0)
	c.RenderBorder(cw)
	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("border drawn without room: %q", buf.String())
	}
}

func TestTermSize(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		f       TermSizeFunc
		w, h    int
		wantErr error
	}{
		{"ok", func() (int, int, error) { return 80, 24, nil }, 80, 24, nil},
		{"zero", func() (int, int, error) { return 0, 0, nil }, 0, 0, ErrNoSize},
		{"failing", func() (int, int, error) { return 0, 0, boom }, 0, 0, boom},
	}
	for _, tt := range tests {
		w, h, err := tt.f.Size()
		if !errors.Is(err, tt.wantErr) || w != tt.w || h != tt.h {
			t.Fatalf("%s: Size() = %d, %d, %v; want %d, %d, %v", tt.name, w, h, err, tt.w, tt.h, tt.wantErr)
		}
	}
}

func TestBlend(t *testing.T) {
	mid := Blend(tcell.NewHexColor(0x000000), tcell.NewHexColor(0xc8c8c8), 0.5)
	if r, g, b := mid.RGB(); r != 100 || g != 100 || b != 100 {
		t.Fatalf("Blend = %d,%d,%d, want 100,100,100", r, g, b)
	}
}
