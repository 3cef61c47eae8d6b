package client

import (
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/tomz197/tether/internal/draw"
	"github.com/tomz197/tether/internal/input"
	"github.com/tomz197/tether/internal/loop/config"
	"github.com/tomz197/tether/internal/loop/sim"
)

// GameState represents the current game phase for a client.
type GameState int

const (
	GameStateStart     GameState = iota // Title screen
	GameStateCountdown                  // Run created, waiting to scroll
	GameStatePlaying                    // Active gameplay
	GameStatePaused                     // Run frozen by the player
	GameStateOver                       // Stability ran out, show restart prompt
	GameStateShutdown                   // Server is shutting down
)

// ClientState holds per-player state (input, run, score, etc.).
// Each client has their own instance, managed by the Client.
type ClientState struct {
	Input      input.Input
	GameState  GameState     // This client's game phase
	Session    *sim.Session  // Current run, nil on the title screen
	Snapshot   *sim.Snapshot // Last frame of the current run
	Countdown  float64       // Seconds left before the run starts scrolling
	FinalScore int           // Score of the last finished run
	Best       int           // Best recorded score
	NewBest    bool          // Last run set the best score
	Spectators int           // Watchers attached to this session
	RunStarted time.Time     // When the current run started scrolling

	gauge         gauge             // Eased stability display
	termSizeFunc  draw.TermSizeFunc // Function to get terminal size
	Running       bool              // Client loop running
	delta         time.Duration     // Frame delta time (client-side)
	shutdownTimer float64           // Countdown before auto-disconnect on shutdown
	isInactive    bool              // Whether the client is in inactive warning state
	prevGameState GameState         // Previous game state (for detecting transitions)
	wasInactive   bool              // Previous inactive state (for detecting transitions)
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState:     GameStateStart,
		Running:       true,
		prevGameState: GameStateStart,
		gauge:         newGauge(config.InitialStability),
	}
}

// gauge eases the HUD stability bar toward the simulation value so hits
// read as a drop rather than a jump.
type gauge struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
}

func newGauge(start float64) gauge {
	return gauge{
		spring: harmonica.NewSpring(harmonica.FPS(config.ClientTargetFPS), config.HUDGaugeHz, config.HUDGaugeDamping),
		pos:    start,
	}
}

// step moves the gauge one frame toward target and returns the shown value.
func (g *gauge) step(target float64) float64 {
	g.pos, g.vel = g.spring.Update(g.pos, g.vel, target)
	return g.pos
}

// reset jumps to value without easing.
func (g *gauge) reset(value float64) {
	g.pos, g.vel = value, 0
}
