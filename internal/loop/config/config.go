// Package config centralizes all tunable game parameters.
//
// Time-based values are in milliseconds of session time unless noted.
// Frame-based values are in units of the nominal 16ms frame, which is
// also the unit of the simulation delta time.
package config

import "time"

// Max render resolution in terminal cells. Larger terminals get a centered
// render area with a border.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 50
)

// Corridor defaults, in simulation units.
const (
	CorridorWidth  = 400
	CorridorHeight = 720
	PlayerYRatio   = 0.82 // Player row as a fraction of corridor height
)

// Frame timing
const (
	FrameIntervalMs = 16.0
	MaxFrameDelta   = 2.0 // Clamp on dt after a stall
)

// Tether physics
const (
	MinSpacing    = 20.0
	MaxSpacing    = 150.0
	RestSpacing   = 30.0
	BallRadius    = 12.0
	SpringK       = 0.1
	Damping       = 0.8
	SnapStrength  = 0.12 // Lateral pull back to center when released
	SteerStrength = 0.05 // Lateral pull toward the pointer while steering
	SpacingGain   = 0.9  // Pointer dy -> spacing target
)

// Scrolling and difficulty
const (
	ScrollSpeedBase  = 4.8
	ScrollSpeedStep  = 0.6
	ScrollSpeedMax   = 12.0
	DifficultyStepMs = 15000.0
)

// Scoring
const (
	PointsPerUnit          = 0.15
	MirrorPointsPerUnit    = 0.3
	CollectibleScore       = 50
	MirrorCollectibleScore = 100
	PickupRadius           = 25.0
	PerfectResonance       = 90.0
	PerfectBonusScore      = 500
	MirrorHarvestPerItem   = 800
)

// Stability
const (
	InitialStability       = 100.0
	MaxStability           = 100.0
	StabilityLossPerHit    = 10.0
	StabilityGainNormal    = 2.0
	StabilityGainLong      = 6.0
	StabilityPerfectNormal = 5.0
	StabilityPerfectLong   = 12.0
)

// Collision consequences
const (
	HitCooldownFrames       = 25.0
	MirrorHitCooldownFrames = 15.0
	HitWindow               = 18.0 // Vertical half-window for gate kinds
	PassMargin              = 80.0 // Distance below the player before an obstacle counts as passed
	HitShake                = 22.0
	MirrorShake             = 15.0
	ShakeDecay              = 0.9
)

// Mirror mode
const (
	MirrorDurationFrames     = 600.0
	MirrorSpawnStartMs       = 20000.0
	MirrorRescheduleMs       = 15000.0
	MirrorRescheduleJitterMs = 15000.0
	PortalWidth              = 160.0
	PortalHeight             = 120.0
	PortalMargin             = 10.0
)

// Obstacle stream
const (
	LookAhead    = 5
	SpawnGap     = 1400.0 // Beyond the topmost obstacle's far edge
	CullMargin   = 1000.0 // Below the corridor bottom
	OpeningY     = -600.0
	OpeningGap   = 900.0
	LongSamples  = 45
	LongHeight   = 2500.0
	GapExpansion = 3.3
	LaneWidth    = BallRadius * 4
)

// Obstacle geometry
const (
	NeedleGap           = 145.0
	NeedleSpread        = 0.5 // Gap center range as a fraction of width
	TwinsGap            = 65.0
	TwinsOffset         = 105.0
	TwinsSpread         = 0.3
	ZigzagGap           = 240.0
	ZigzagSpread        = 0.15
	ZigzagSweep         = 0.22 // Lateral sweep amplitude as a fraction of width
	FunnelNarrow        = 210.0
	FunnelWallMargin    = 60.0
	FunnelSpread        = 0.1
	DiamondSize         = 140.0
	DiamondSpread       = 0.35
	DiamondThreshold    = 0.9
	DiamondCollectible  = 90.0
	SplitterBlock       = 165.0
	SplitterSpread      = 0.25
	SplitterCollectible = 108.0
	PendulumRadius      = 60.0
	PendulumLength      = 320.0
	PendulumPivotOffset = 300.0
	PendulumSpread      = 0.2
	PendulumMinSpeed    = 0.03
	PendulumSpeedRange  = 0.04
	PendulumCollectible = 180.0
	WeaverSway          = 0.3
	WeaverPeriod        = 200.0
	EdgeInset           = 12.0 // Collectible inset from a gap edge
	TwinsInset          = 22.0
)

// Unlock schedule (session time after which a kind joins the pool)
const (
	UnlockZigzagMs   = 5000.0
	UnlockSplitterMs = 8000.0
	UnlockFunnelMs   = 10000.0
	UnlockPendulumMs = 12000.0
	UnlockWeaverMs   = 15000.0
)

// Floating feedback
const (
	FeedbackRise  = 2.6
	FeedbackDecay = 0.02
)

// Client
const (
	CountdownSeconds = 3.0
	HUDGaugeHz       = 6.0 // Stability gauge easing frequency
	HUDGaugeDamping  = 1.0
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Server directory refresh
const (
	ServerTickRate = 10
	ServerTickTime = time.Second / ServerTickRate
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Spectator stream
const (
	SpectateRate     = 20
	SpectateInterval = time.Second / SpectateRate
)

// Score store
const (
	LeaderboardSize   = 10
	MaxUsernameLength = 16
)
