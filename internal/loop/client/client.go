package client

import (
	"bufio"
	"context"
	"errors"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/tether/internal/draw"
	"github.com/tomz197/tether/internal/input"
	"github.com/tomz197/tether/internal/loop/config"
	"github.com/tomz197/tether/internal/loop/server"
	"github.com/tomz197/tether/internal/loop/sim"
	"github.com/tomz197/tether/internal/object"
	"github.com/tomz197/tether/internal/score"
)

const recordTimeout = 2 * time.Second

// Cues plays a sound for a feedback event. It must not block.
type Cues interface {
	Play(f object.Feedback)
}

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	reader       *bufio.Reader
	writer       io.Writer
	inputStream  *input.Stream
	feed         *input.Feed
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	recorder     score.Recorder
	cues         Cues
	logger       *log.Logger
	seed         int64

	gameOver   bool // Set by the session callback during a tick
	finalScore int
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Recorder     score.Recorder // Optional; runs are not saved without it
	Cues         Cues           // Optional
	Logger       *log.Logger
	Seed         int64 // Non-zero makes every run use the same obstacle stream
}

// NewClient creates a new client connected to the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	handle := gs.RegisterClient(opts.Username)
	state := NewClientState()
	state.termSizeFunc = termSizeFunc

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc.Size()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.CorridorWidth, config.CorridorHeight)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	c := &Client{
		server:       gs,
		handle:       handle,
		state:        state,
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		reader:       r,
		writer:       w,
		feed:         &input.Feed{},
		lastInput:    time.Now(),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		recorder:     opts.Recorder,
		cues:         opts.Cues,
		logger:       logger.With("user", opts.Username),
		seed:         opts.Seed,
	}
	if r != nil {
		c.inputStream = input.StartStream(r)
	}
	c.loadBest()
	return c
}

// Run starts the client loop. Blocks until the client disconnects or server stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	draw.EnableMouse(c.writer)
	defer draw.ShowCursor(c.writer)
	defer draw.DisableMouse(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		// Process input
		c.processInput()

		// Check for server events
		c.processServerEvents()

		// Handle screen resize
		c.updateScreen()

		c.update(frameStart)

		// Draw frame
		if err := c.drawFrame(); err != nil {
			c.server.UnregisterClient(c.handle.ID)
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	// Unregister from server
	c.server.UnregisterClient(c.handle.ID)

	draw.ClearScreen(c.writer)
	return nil
}

// update advances the current game state by one frame.
func (c *Client) update(now time.Time) {
	switch c.state.GameState {
	case GameStateStart:
		c.updateStartState()
	case GameStateCountdown:
		c.updateCountdownState(now)
	case GameStatePlaying:
		c.updatePlayingState(now)
	case GameStatePaused:
		c.updatePausedState()
	case GameStateOver:
		c.updateOverState(now)
	case GameStateShutdown:
		c.updateShutdownState()
	}
}

// processInput reads input and forwards the pointer to the running session.
func (c *Client) processInput() {
	if c.inputStream == nil {
		return
	}
	c.state.Input = input.ReadInput(c.inputStream)

	if len(c.state.Input.Pressed) > 0 || c.state.Input.Mouse.Held {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.state.Input.Quit {
		c.state.Running = false
	}

	c.feed.Set(c.state.Input.Pointer(c.scale()))
}

// scale converts terminal cells of the current canvas to corridor units.
func (c *Client) scale() input.Scale {
	return input.Scale{
		UnitsPerCol: config.CorridorWidth / float64(c.canvas.TerminalWidth()),
		UnitsPerRow: config.CorridorHeight / float64(c.canvas.TerminalHeight()),
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventServerShutdown:
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			case server.EventSpectatorJoined, server.EventSpectatorLeft:
				c.state.Spectators = event.Spectators
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc.Size()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	curCol, curRow := c.chunkWriter.Offset()
	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != curCol || offsetRow != curRow {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateStartState handles the start screen.
func (c *Client) updateStartState() {
	if c.state.Input.Confirm {
		c.startRun()
	}
}

// startRun creates a fresh session and begins the ready countdown.
func (c *Client) startRun() {
	if c.inputStream != nil {
		input.ResetKeyInput(c.inputStream)
	}

	seed := c.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sess, err := sim.New(sim.Options{
		Width:      config.CorridorWidth,
		Height:     config.CorridorHeight,
		Rand:       rand.New(rand.NewSource(seed)),
		Feed:       c.feed,
		OnGameOver: c.onGameOver,
		OnFeedback: c.onFeedback,
	})
	if err != nil {
		// The corridor constants are fixed, so this is a build defect.
		panic(err)
	}

	c.gameOver = false
	c.state.Session = sess
	c.state.Snapshot = sess.Snapshot()
	c.state.Countdown = config.CountdownSeconds
	c.state.NewBest = false
	c.state.gauge.reset(config.InitialStability)
	c.state.GameState = GameStateCountdown
	c.handle.Publish(c.state.Snapshot)
}

// updateCountdownState lets the tether move while the corridor waits.
func (c *Client) updateCountdownState(now time.Time) {
	c.tick(now)
	c.state.Countdown -= c.state.delta.Seconds()
	if c.state.Countdown <= 0 {
		c.state.Countdown = 0
		c.state.Session.Start()
		c.state.RunStarted = now
		c.state.GameState = GameStatePlaying
	}
}

// updatePlayingState advances the run.
func (c *Client) updatePlayingState(now time.Time) {
	if c.state.Input.Pause {
		c.state.GameState = GameStatePaused
		return
	}
	c.tick(now)
	if c.gameOver {
		c.finishRun(now)
	}
}

// tick advances the session by the wall-clock time since its last frame
// and publishes the result.
func (c *Client) tick(now time.Time) {
	sess := c.state.Session
	sess.Advance(now)
	snap := sess.Snapshot()
	c.state.Snapshot = snap
	c.state.gauge.step(float64(snap.Stability))
	c.handle.Publish(snap)
}

// updatePausedState waits for the player to resume. The session frame
// clock is reset so the pause does not count as a stall.
func (c *Client) updatePausedState() {
	if c.state.Input.Pause || c.state.Input.Confirm {
		c.state.Session.ResetClock()
		c.state.GameState = GameStatePlaying
	}
}

// onGameOver is called by the session from inside a tick.
func (c *Client) onGameOver(finalScore int) {
	c.gameOver = true
	c.finalScore = finalScore
}

// onFeedback is called by the session from inside a tick.
func (c *Client) onFeedback(f object.Feedback) {
	if c.cues != nil {
		c.cues.Play(f)
	}
}

// finishRun stores the result and shows the game over screen.
func (c *Client) finishRun(now time.Time) {
	c.state.FinalScore = c.finalScore
	c.state.GameState = GameStateOver
	c.logger.Info("run ended", "score", c.finalScore, "duration", now.Sub(c.state.RunStarted).Round(time.Second))

	if c.recorder == nil {
		c.state.NewBest = c.finalScore > c.state.Best
		c.state.Best = max(c.state.Best, c.finalScore)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	prevBest := c.state.Best
	_, err := c.recorder.Record(ctx, score.Result{
		Username: c.username,
		Score:    c.finalScore,
		Duration: now.Sub(c.state.RunStarted),
	})
	if err != nil {
		c.logger.Warn("record run", "err", err)
	}
	c.loadBestCtx(ctx)
	c.state.Best = max(c.state.Best, c.finalScore)
	c.state.NewBest = c.finalScore > prevBest
}

// loadBest reads the best score from the recorder, if any.
func (c *Client) loadBest() {
	if c.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	c.loadBestCtx(ctx)
}

func (c *Client) loadBestCtx(ctx context.Context) {
	best, err := c.recorder.Best(ctx)
	if err != nil {
		if !errors.Is(err, score.ErrNotConfigured) {
			c.logger.Warn("load best score", "err", err)
		}
		return
	}
	c.state.Best = best
}

// updateOverState handles the game over screen.
func (c *Client) updateOverState(now time.Time) {
	// The finished session keeps integrating the tether behind the screen.
	c.tick(now)
	if c.state.Input.Confirm {
		c.startRun()
	}
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
