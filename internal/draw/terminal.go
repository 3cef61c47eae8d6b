package draw

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"
)

// Control sequences.
const (
	ColorReset     = "\033[0m"
	escClearScreen = "\033[H\033[2J"
	escHideCursor  = "\033[?25l"
	escShowCursor  = "\033[?25h"
	escMouseOn     = "\033[?1002h\033[?1006h" // Button-drag tracking, SGR coordinates
	escMouseOff    = "\033[?1006l\033[?1002l"
)

const unknownPos = -1

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// Smaller chunks can help with SSH/network latency.
const maxChunkSize = 1400

// ChunkWriter accumulates a frame of terminal output and writes it in chunks
// for smooth network flow (e.g. over SSH).
//
// It tracks the cursor and the active colors so consecutive cells skip
// redundant cursor moves and SGR sequences. Raw writes through Write,
// WriteString or WriteAt make both unknown again.
type ChunkWriter struct {
	buf    strings.Builder
	bufw   *bufio.Writer
	numBuf [20]byte // Scratch buffer for allocation-free integer formatting
	offCol int
	offRow int

	// Canvas position of the cursor, or unknownPos. Borders sit at 0.
	curCol, curRow int

	fg, bg     tcell.Color
	colorKnown bool // fg and bg reflect what the terminal uses
}

// NewChunkWriter creates a ChunkWriter that writes to w. offsetCol and offsetRow
// are added to all cursor coordinates (for canvas centering).
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		bufw:       bufio.NewWriterSize(w, 8192),
		offCol:     offsetCol,
		offRow:     offsetRow,
		curCol:     unknownPos,
		curRow:     unknownPos,
		colorKnown: true,
	}
}

// SetOffset updates the cursor offset (e.g. after terminal resize).
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	if offsetCol != cw.offCol || offsetRow != cw.offRow {
		cw.curCol, cw.curRow = unknownPos, unknownPos
	}
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// Offset returns the 0-based terminal position the canvas starts after.
func (cw *ChunkWriter) Offset() (col, row int) {
	return cw.offCol, cw.offRow
}

// Clear queues a full screen clear.
func (cw *ChunkWriter) Clear() {
	cw.buf.WriteString(escClearScreen)
	cw.curCol, cw.curRow = unknownPos, unknownPos
}

// MoveCursor positions the cursor at 1-based canvas coordinates. Nothing is
// written when the cursor is already there.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	if col == cw.curCol && row == cw.curRow {
		return
	}
	cw.buf.WriteString("\033[")
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(row+cw.offRow), 10))
	cw.buf.WriteByte(';')
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(col+cw.offCol), 10))
	cw.buf.WriteByte('H')
	cw.curCol, cw.curRow = col, row
}

// SetColors switches to a foreground and background. tcell.ColorDefault
// leaves that layer at the terminal default.
func (cw *ChunkWriter) SetColors(fg, bg tcell.Color) {
	if cw.colorKnown && fg == cw.fg && bg == cw.bg {
		return
	}
	cw.buf.WriteString(ColorReset)
	appendSGR(&cw.buf, 38, fg)
	appendSGR(&cw.buf, 48, bg)
	cw.fg, cw.bg, cw.colorKnown = fg, bg, true
}

// ResetColors returns to the terminal's default colors.
func (cw *ChunkWriter) ResetColors() {
	cw.SetColors(tcell.ColorDefault, tcell.ColorDefault)
}

// PutCell paints one half-block cell: top and bottom are the colors of its
// two sub-pixels.
func (cw *ChunkWriter) PutCell(col, row int, top, bottom tcell.Color) {
	cw.MoveCursor(col, row)
	switch {
	case top == tcell.ColorDefault && bottom == tcell.ColorDefault:
		cw.ResetColors()
		cw.buf.WriteByte(' ')
	case top == bottom:
		cw.SetColors(top, tcell.ColorDefault)
		cw.buf.WriteRune(BlockFull)
	case top == tcell.ColorDefault:
		cw.SetColors(bottom, tcell.ColorDefault)
		cw.buf.WriteRune(BlockLowerHalf)
	default:
		// Upper half block: foreground paints the top, background the bottom.
		cw.SetColors(top, bottom)
		cw.buf.WriteRune(BlockUpperHalf)
	}
	cw.curCol++
}

// Write implements io.Writer.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	cw.forget()
	return cw.buf.Write(p)
}

// WriteString appends raw text.
func (cw *ChunkWriter) WriteString(s string) {
	cw.forget()
	cw.buf.WriteString(s)
}

// WriteAt writes s at 1-based canvas coordinates in the current colors.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.WriteString(s)
}

// WriteColoredAt writes s at 1-based canvas coordinates in color, then
// returns to the default colors.
func (cw *ChunkWriter) WriteColoredAt(col, row int, color tcell.Color, s string) {
	cw.MoveCursor(col, row)
	cw.SetColors(color, tcell.ColorDefault)
	cw.buf.WriteString(s)
	cw.curCol, cw.curRow = unknownPos, unknownPos
	cw.ResetColors()
}

// forget drops cursor and color tracking after text the writer can't follow.
func (cw *ChunkWriter) forget() {
	cw.curCol, cw.curRow = unknownPos, unknownPos
	cw.colorKnown = false
}

var _ io.Writer = (*ChunkWriter)(nil)

// Flush writes the accumulated frame to the underlying writer in chunks,
// then resets the buffer. Other writers may move the cursor between frames,
// so the next frame starts from an unknown position.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	cw.curCol, cw.curRow = unknownPos, unknownPos
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := cw.bufw.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return cw.bufw.Flush()
}

// appendSGR writes a 24-bit color escape for code 38 (foreground) or 48
// (background). ColorDefault writes nothing.
func appendSGR(sb *strings.Builder, code int, color tcell.Color) {
	if color == tcell.ColorDefault {
		return
	}
	var num [20]byte
	r, g, b := color.RGB()
	sb.WriteString("\033[")
	sb.Write(strconv.AppendInt(num[:0], int64(code), 10))
	sb.WriteString(";2;")
	sb.Write(strconv.AppendInt(num[:0], int64(r), 10))
	sb.WriteByte(';')
	sb.Write(strconv.AppendInt(num[:0], int64(g), 10))
	sb.WriteByte(';')
	sb.Write(strconv.AppendInt(num[:0], int64(b), 10))
	sb.WriteByte('m')
}

// ErrNoSize is returned when the terminal reports a zero or negative size,
// as an SSH session does before its first window change.
var ErrNoSize = errors.New("terminal reported no size")

// TermSizeFunc returns the terminal dimensions in cells.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// Size calls f, falling back to DefaultTermSizeFunc when f is nil.
func (f TermSizeFunc) Size() (width, height int, err error) {
	if f == nil {
		f = DefaultTermSizeFunc
	}
	width, height, err = f()
	if err != nil {
		return 0, 0, fmt.Errorf("terminal size: %w", err)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, ErrNoSize
	}
	return width, height, nil
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	io.WriteString(w, escClearScreen)
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	io.WriteString(w, escHideCursor)
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	io.WriteString(w, escShowCursor)
}

// EnableMouse turns on button-drag tracking with SGR coordinates.
func EnableMouse(w io.Writer) {
	io.WriteString(w, escMouseOn)
}

// DisableMouse turns mouse tracking off again.
func DisableMouse(w io.Writer) {
	io.WriteString(w, escMouseOff)
}
