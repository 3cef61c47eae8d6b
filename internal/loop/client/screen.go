package client

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/tether/internal/draw"
	"github.com/tomz197/tether/internal/loop/config"
	"github.com/tomz197/tether/internal/loop/sim"
	"github.com/tomz197/tether/internal/object"
)

// Logical thickness of a gate wall, and the step used to trace long paths.
const (
	wallThickness   = 18.0
	longTraceSteps  = 30
	collectibleSize = 7.0
	gaugeWidth      = 20
	offscreenMargin = 120.0 // Bobs and diamonds reach past the obstacle row
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On game state or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.chunkWriter.Clear()
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()

	snap := c.state.Snapshot
	if snap != nil && c.state.GameState != GameStateStart {
		c.drawCorridor(snap)
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	if snap != nil && c.state.GameState != GameStateStart {
		c.drawFeedback(snap)
	}

	// Draw UI overlay
	c.drawUI(snap)

	return c.chunkWriter.Flush()
}

// toCanvas maps corridor coordinates (X from the center) to canvas
// logical coordinates, applying the screen shake offset.
func toCanvas(snap *sim.Snapshot, x, y float64) draw.Point {
	return draw.Point{X: x + snap.Width/2 + shakeOffset(snap), Y: y}
}

// shakeOffset is a lateral jitter proportional to the remaining shake.
func shakeOffset(snap *sim.Snapshot) float64 {
	if snap.Shake == 0 {
		return 0
	}
	return math.Sin(snap.TimeMs*0.9) * snap.Shake * 0.4
}

// drawCorridor draws obstacles, collectibles and the tether.
func (c *Client) drawCorridor(snap *sim.Snapshot) {
	wall := draw.ColorWall
	if snap.Mirror {
		wall = draw.Blend(draw.ColorWall, object.ColorMirror, 0.6)
	}

	for i := range snap.Obstacles {
		o := &snap.Obstacles[i]
		// Skip anything fully outside the corridor
		if o.Top > snap.Height+offscreenMargin || o.Y < -offscreenMargin {
			continue
		}
		color := wall
		if o.WasHit {
			color = draw.Blend(wall, object.ColorPink, 0.5)
		}
		c.drawObstacle(snap, o, color)

		for _, p := range o.Collectibles {
			c.canvas.DrawCircle(toCanvas(snap, p.X, p.Y), collectibleSize, object.ColorGold, true)
		}
	}

	c.drawTether(snap)
}

// drawObstacle draws one obstacle's hazard geometry.
func (c *Client) drawObstacle(snap *sim.Snapshot, o *sim.ObstacleView, color tcell.Color) {
	half := snap.Width / 2
	y0, y1 := o.Y-wallThickness/2, o.Y+wallThickness/2

	// wallSpan fills a wall segment between two lateral positions.
	wallSpan := func(from, to float64) {
		if to <= from {
			return
		}
		a, b := toCanvas(snap, from, y0), toCanvas(snap, to, y1)
		c.canvas.FillRect(a.X, a.Y, b.X, b.Y, color)
	}

	switch sh := o.Shape.(type) {
	case *object.Needle:
		wallSpan(-half, sh.GapCenter-sh.GapSize/2)
		wallSpan(sh.GapCenter+sh.GapSize/2, half)
	case *object.Weaver:
		wallSpan(-half, o.GapCenter-sh.GapSize/2)
		wallSpan(o.GapCenter+sh.GapSize/2, half)
	case *object.Twins:
		wallSpan(-half, sh.LeftCenter-sh.GapSize/2)
		wallSpan(sh.LeftCenter+sh.GapSize/2, sh.RightCenter-sh.GapSize/2)
		wallSpan(sh.RightCenter+sh.GapSize/2, half)
	case *object.Splitter:
		wallSpan(sh.Center-sh.BlockSize/2, sh.Center+sh.BlockSize/2)
	case *object.Diamond:
		r := sh.Size / 2
		points := c.canvas.BorrowPoints(4)
		points[0] = toCanvas(snap, sh.Center, o.Y-r)
		points[1] = toCanvas(snap, sh.Center+r, o.Y)
		points[2] = toCanvas(snap, sh.Center, o.Y+r)
		points[3] = toCanvas(snap, sh.Center-r, o.Y)
		c.canvas.DrawPolygon(points, color, true)
	case *object.Pendulum:
		if o.Bob == nil {
			return
		}
		pivot := toCanvas(snap, sh.Pivot, o.Y-config.PendulumPivotOffset)
		bob := toCanvas(snap, o.Bob.X, o.Bob.Y)
		c.canvas.DrawLine(pivot, bob, draw.ColorDim)
		c.canvas.DrawCircle(bob, sh.Radius, color, true)
	case *object.Zigzag:
		c.drawLong(snap, o, sh.Height, sh.LaneAt, color)
	case *object.Funnel:
		c.drawLong(snap, o, sh.Height, sh.LaneAt, color)
	case *object.MirrorPortal:
		w, h := sh.Width/2, sh.Height/2
		points := c.canvas.BorrowPoints(4)
		points[0] = toCanvas(snap, sh.Center-w, o.Y-h)
		points[1] = toCanvas(snap, sh.Center+w, o.Y-h)
		points[2] = toCanvas(snap, sh.Center+w, o.Y+h)
		points[3] = toCanvas(snap, sh.Center-w, o.Y+h)
		c.canvas.DrawPolygon(points, object.ColorMirror, false)
	}
}

// drawLong traces the four walls of a long path from its leading edge up
// to its far edge.
func (c *Client) drawLong(snap *sim.Snapshot, o *sim.ObstacleView, height float64, laneAt func(float64) object.Lane, color tcell.Color) {
	prev := laneAt(0)
	prevY := o.Y
	for i := 1; i <= longTraceSteps; i++ {
		progress := float64(i) / longTraceSteps
		lane := laneAt(progress)
		y := o.Y - progress*height
		if prevY >= 0 && y <= snap.Height {
			for _, side := range []float64{-1, 1} {
				c.canvas.DrawLine(
					toCanvas(snap, prev.Center+side*prev.Outer/2, prevY),
					toCanvas(snap, lane.Center+side*lane.Outer/2, y),
					color,
				)
				c.canvas.DrawLine(
					toCanvas(snap, prev.Center+side*prev.Inner/2, prevY),
					toCanvas(snap, lane.Center+side*lane.Inner/2, y),
					color,
				)
			}
		}
		prev, prevY = lane, y
	}
}

// drawTether draws both nodes and the link between them. The link warms
// from cyan to gold with resonance.
func (c *Client) drawTether(snap *sim.Snapshot) {
	t := snap.Tether
	b1 := toCanvas(snap, t.B1, snap.PlayerY)
	b2 := toCanvas(snap, t.B2, snap.PlayerY)

	node := object.ColorCyan
	if snap.Mirror {
		node = object.ColorMirror
	}
	link := draw.Blend(object.ColorCyan, object.ColorGold, snap.Resonance/100)
	if snap.Squeezing {
		link = draw.Blend(link, object.ColorWhite, 0.3)
	}
	c.canvas.DrawLine(b1, b2, link)
	c.canvas.DrawCircle(b1, t.Radius, node, true)
	c.canvas.DrawCircle(b2, t.Radius, node, true)
}

// drawFeedback writes floating labels at their corridor positions.
// Marks the drawn cells as dirty so the canvas overwrites them next frame,
// preventing stale text from persisting as the labels rise.
func (c *Client) drawFeedback(snap *sim.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()

	for _, f := range snap.Feedback {
		p := toCanvas(snap, f.X, f.Y)
		col, row := c.canvas.LogicalToTerminal(p.X, p.Y)
		col -= len(f.Label) / 2

		// Clamp to screen bounds
		if row < 1 || row > termHeight {
			continue
		}
		col = max(1, min(col, termWidth-len(f.Label)))
		if col < 1 {
			continue
		}

		color := draw.Blend(tcell.NewHexColor(0x000000), f.Color, f.Life)
		c.chunkWriter.WriteColoredAt(col, row, color, f.Label)
		c.canvas.MarkTextDirty(col, row, len(f.Label))
	}
}

// drawUI draws the game UI overlay.
func (c *Client) drawUI(snap *sim.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.GameState {
	case GameStateStart:
		c.drawStartScreen(centerX, centerY)
	case GameStateCountdown:
		c.drawPlayingHUD(termWidth, termHeight, snap)
		c.drawCountdown(centerX, centerY)
	case GameStatePlaying:
		c.drawPlayingHUD(termWidth, termHeight, snap)
	case GameStatePaused:
		c.drawPlayingHUD(termWidth, termHeight, snap)
		c.writeCentered(centerX, centerY, "PAUSED")
		c.writeCentered(centerX, centerY+2, "Press P or SPACE to resume")
	case GameStateOver:
		c.drawOverScreen(centerX, centerY)
	}
}

// writeCentered writes s centered on column centerX and marks it dirty.
func (c *Client) writeCentered(centerX, row int, s string) {
	col := centerX - len(s)/2
	c.chunkWriter.WriteAt(col, row, s)
	c.canvas.MarkTextDirty(col, row, len(s))
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	cw := c.chunkWriter
	title := "INACTIVITY WARNING"
	cw.WriteAt(centerX-len(title)/2, centerY-2, title)

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	cw.WriteAt(centerX-len(msg)/2, centerY, msg)

	hint := "Press any key to continue"
	cw.WriteAt(centerX-len(hint)/2, centerY+2, hint)
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int) {
	// ASCII art title (figlet "small" font)
	titleArt := []string{
		` _____ ___ _____ _  _ ___ ___  `,
		`|_   _| __|_   _| || | __| _ \ `,
		`  | | | _|  | | | __ | _||   / `,
		`  |_| |___| |_| |_||_|___|_|_\ `,
		`                               `,
	}

	// Find max width for centering
	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}

	// Draw title art centered
	cw := c.chunkWriter
	titleStartY := centerY - 8
	for i, line := range titleArt {
		cw.WriteAt(centerX-titleWidth/2, titleStartY+i, line)
	}

	subtitle := "~ keep both nodes in the gap ~"
	cw.WriteAt(centerX-len(subtitle)/2, titleStartY+len(titleArt)+1, subtitle)

	// Controls section
	controlsY := titleStartY + len(titleArt) + 3
	controlHeader := "Controls"
	cw.WriteAt(centerX-len(controlHeader)/2, controlsY, controlHeader)

	controlLines := []string{
		"Mouse drag . . . . Steer",
		"Drag up  . . . . Stretch",
		"A D / < >  . . . . Steer",
		"W S / ^ v  . .  Stretch",
		"P  . . . . . . . . Pause",
		"Q  . . . . . . . .  Quit",
	}
	for i, line := range controlLines {
		cw.WriteAt(centerX-len(line)/2, controlsY+1+i, line)
	}

	row := controlsY + len(controlLines) + 2
	if c.state.Best > 0 {
		best := fmt.Sprintf("Best: %d", c.state.Best)
		cw.WriteAt(centerX-len(best)/2, row, best)
	}

	// Blinking start prompt
	if time.Now().UnixMilli()/600%2 == 0 {
		prompt := ">>  Press SPACE to Start  <<"
		cw.WriteAt(centerX-len(prompt)/2, row+2, prompt)
	}
}

// drawCountdown draws the seconds left before scrolling starts.
func (c *Client) drawCountdown(centerX, centerY int) {
	n := int(math.Ceil(c.state.Countdown))
	c.writeCentered(centerX, centerY-4, fmt.Sprintf("  %d  ", n))
	c.writeCentered(centerX, centerY-2, "GET READY")
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen (since we no longer clear every frame).
func (c *Client) drawPlayingHUD(termWidth, termHeight int, snap *sim.Snapshot) {
	if snap == nil {
		return
	}
	cw := c.chunkWriter

	// Score (top left), best (top right)
	scoreText := fmt.Sprintf("Score: %-8d", snap.Score)
	cw.WriteAt(2, 1, scoreText)
	c.canvas.MarkTextDirty(2, 1, len(scoreText))

	bestText := fmt.Sprintf("Best: %-8d", max(c.state.Best, snap.Score))
	cw.WriteAt(termWidth-len(bestText)-1, 1, bestText)
	c.canvas.MarkTextDirty(termWidth-len(bestText)-1, 1, len(bestText))

	// Stability gauge (bottom left), eased
	shown := c.state.gauge.pos
	filled := int(math.Round(min(max(shown, 0), 100) / 100 * gaugeWidth))
	gaugeColor := draw.Blend(object.ColorPink, object.ColorCyan, shown/100)
	const gaugeLabel = "Stability "
	barCol := 2 + len(gaugeLabel)
	cw.WriteAt(2, termHeight, gaugeLabel)
	cw.WriteColoredAt(barCol, termHeight, gaugeColor, strings.Repeat("█", filled))
	cw.WriteAt(barCol+filled, termHeight, strings.Repeat("░", gaugeWidth-filled)+fmt.Sprintf(" %3d", snap.Stability))
	c.canvas.MarkTextDirty(2, termHeight, len(gaugeLabel)+gaugeWidth+4)

	// Mode line (bottom right)
	var mode string
	switch {
	case snap.Mirror:
		mode = fmt.Sprintf("MIRROR %3.0f%%", snap.MirrorFraction*100)
	case snap.Squeezing:
		mode = fmt.Sprintf("RESONANCE %3.0f%%", snap.Resonance)
	default:
		mode = fmt.Sprintf("Speed %4.1f", snap.Speed)
	}
	mode = fmt.Sprintf("%-16s", mode)
	if c.state.Spectators > 0 {
		mode = fmt.Sprintf("Watchers: %-3d %s", c.state.Spectators, mode)
	}
	cw.WriteAt(termWidth-len(mode)-1, termHeight, mode)
	c.canvas.MarkTextDirty(termWidth-len(mode)-1, termHeight, len(mode))
}

// drawOverScreen draws the game over screen.
func (c *Client) drawOverScreen(centerX, centerY int) {
	titleArt := []string{
		`   ___   _   __  __ ___    _____   _____ ___  `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
		`                                              `,
	}

	// Find max width for centering
	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}

	// Draw title art
	cw := c.chunkWriter
	titleStartY := centerY - 6
	for i, line := range titleArt {
		cw.WriteAt(centerX-titleWidth/2, titleStartY+i, line)
	}

	scoreText := fmt.Sprintf("Score: %d", c.state.FinalScore)
	cw.WriteAt(centerX-len(scoreText)/2, titleStartY+len(titleArt)+1, scoreText)

	bestText := fmt.Sprintf("Best: %d", c.state.Best)
	if c.state.NewBest {
		bestText = "NEW BEST!"
	}
	cw.WriteAt(centerX-len(bestText)/2, titleStartY+len(titleArt)+3, bestText)

	if time.Now().UnixMilli()/600%2 == 0 {
		prompt := ">>  Press SPACE to Restart  <<"
		cw.WriteAt(centerX-len(prompt)/2, titleStartY+len(titleArt)+5, prompt)
	}
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	cw := c.chunkWriter
	title := "SERVER SHUTTING DOWN"
	cw.WriteAt(centerX-len(title)/2, centerY-3, title)

	msg1 := "The server is restarting for maintenance."
	cw.WriteAt(centerX-len(msg1)/2, centerY-1, msg1)

	msg2 := "Please reconnect in a moment."
	cw.WriteAt(centerX-len(msg2)/2, centerY, msg2)

	remaining := int(c.state.shutdownTimer) + 1
	countdown := fmt.Sprintf("Disconnecting in %d seconds...", remaining)
	cw.WriteAt(centerX-len(countdown)/2, centerY+2, countdown)

	hint := "Press Q to disconnect now"
	cw.WriteAt(centerX-len(hint)/2, centerY+4, hint)
}
