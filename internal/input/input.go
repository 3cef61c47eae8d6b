package input

import (
	"bufio"
	"strconv"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report key repeats, so steering keys need a longer window
// than one-shot keys to feel continuous.
const (
	keyHoldDuration   = 30 * time.Millisecond
	steerHoldDuration = 120 * time.Millisecond
)

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Confirm bool // Space or Enter
	Pause   bool
	Left    bool
	Right   bool
	Up      bool
	Down    bool
	Mouse   Mouse
	Pressed []byte
}

// Mouse is the state of the primary button drag, in 1-based terminal cells.
type Mouse struct {
	Held     bool
	StartCol int // Cell where the current contact started
	StartRow int
	Col      int
	Row      int
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit    time.Time
	confirm time.Time
	pause   time.Time
	left    time.Time
	right   time.Time
	up      time.Time
	down    time.Time
}

// Stream delivers input bytes via a channel and tracks key and mouse state.
type Stream struct {
	ch      chan byte
	state   keyState
	mouse   Mouse
	pending []byte // Incomplete escape sequence carried to the next read
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 256),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ResetKeyInput forgets held keys and any mouse contact, so a key that
// started a game is not also read as steering.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
	s.mouse = Mouse{}
	s.pending = s.pending[:0]
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles arrow keys and SGR mouse reports and accumulates all pressed keys.
func ReadInput(s *Stream) Input {
	return readInputAt(s, time.Now())
}

func readInputAt(s *Stream, now time.Time) Input {
	buf := append([]byte(nil), s.pending...)
	s.pending = s.pending[:0]

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b == '\x1b' && i+1 < len(buf) && buf[i+1] == '[' {
			n, complete := parseCSI(s, buf[i:], now)
			if !complete {
				s.pending = append(s.pending, buf[i:]...)
				buf = buf[:i]
				break
			}
			if n > 0 {
				i += n - 1
				continue
			}
		}
		applyByteToState(&s.state, b, now)
	}

	return Input{
		Quit:    now.Sub(s.state.quit) < keyHoldDuration,
		Confirm: now.Sub(s.state.confirm) < keyHoldDuration,
		Pause:   now.Sub(s.state.pause) < keyHoldDuration,
		Left:    now.Sub(s.state.left) < steerHoldDuration,
		Right:   now.Sub(s.state.right) < steerHoldDuration,
		Up:      now.Sub(s.state.up) < steerHoldDuration,
		Down:    now.Sub(s.state.down) < steerHoldDuration,
		Mouse:   s.mouse,
		Pressed: buf,
	}
}

// parseCSI consumes an escape sequence starting at seq[0] == ESC.
// It returns the consumed length, or complete=false when the sequence is
// cut off at the end of the buffer. A zero length means the sequence is
// not one we understand and the ESC byte is handled as a plain key.
func parseCSI(s *Stream, seq []byte, now time.Time) (n int, complete bool) {
	if len(seq) < 3 {
		return 0, false
	}
	switch seq[2] {
	case 'A':
		s.state.up = now
		return 3, true
	case 'B':
		s.state.down = now
		return 3, true
	case 'C':
		s.state.right = now
		return 3, true
	case 'D':
		s.state.left = now
		return 3, true
	case '<':
		return parseSGRMouse(s, seq)
	}
	return 0, true
}

// parseSGRMouse handles "ESC [ < b ; col ; row (M|m)" reports.
func parseSGRMouse(s *Stream, seq []byte) (int, bool) {
	var fields [3]int
	field := 0
	start := 3
	for i := 3; i < len(seq); i++ {
		c := seq[i]
		switch {
		case c >= '0' && c <= '9':
			continue
		case c == ';':
			if field >= 2 {
				return i + 1, true
			}
			v, err := strconv.Atoi(string(seq[start:i]))
			if err != nil {
				return i + 1, true
			}
			fields[field] = v
			field++
			start = i + 1
		case c == 'M' || c == 'm':
			if field != 2 {
				return i + 1, true
			}
			v, err := strconv.Atoi(string(seq[start:i]))
			if err != nil {
				return i + 1, true
			}
			fields[2] = v
			applyMouse(&s.mouse, fields[0], fields[1], fields[2], c == 'M')
			return i + 1, true
		default:
			return i + 1, true
		}
	}
	return 0, false
}

// applyMouse updates the drag state from one SGR report.
// Only the primary button is tracked; wheel and other buttons are ignored.
func applyMouse(m *Mouse, button, col, row int, press bool) {
	if button&64 != 0 || button&3 != 0 {
		return
	}
	if !press {
		*m = Mouse{}
		return
	}
	motion := button&32 != 0
	if !m.Held || !motion {
		m.Held = true
		m.StartCol = col
		m.StartRow = row
	}
	m.Col = col
	m.Row = row
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		state.quit = now
	case 'a', 'A', 'j', 'J':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W', 'i', 'I':
		state.up = now
	case 's', 'S', 'k', 'K':
		state.down = now
	case 'p', 'P':
		state.pause = now
	case ' ', '\n', '\r':
		state.confirm = now
	}
}
