// Package config centralizes all tunable game parameters.
package config

import "time"

// View resolution - the playfield in logical units.
// Actual rendering scales to fit terminal size.
const (
	ViewWidth  = 480
	ViewHeight = 640
)

// Player
const (
	PlayerSize      = 30.0
	PlayerSpeed     = 5.0  // Units per frame
	PlayerTurnSpeed = 0.05 // Radians per frame (rotating variant)
	PlayerBottomGap = 50.0 // Distance from the bottom edge at spawn
)

// Bullets
const (
	BulletRadius = 5.0
	BulletSpeed  = 8.0             // Units per frame
	FireDelay    = time.Second / 6 // 6 shots per second max
)

// Cosmetic bullet scale per variant; never used for hit tests.
const (
	BulletDrawScaleClassic  = 1.04
	BulletDrawScaleRotating = 1.08
)

// Enemies
const (
	EnemySize     = 30.0
	EnemySpeed    = 2.0 // Units per frame
	EnemySpawnY   = -30.0
	SpawnChance   = 0.02 // Per frame (classic variant)
	BatchSize     = 4
	BatchInterval = 4 * time.Second // Rotating variant
)

// Debris thrown off by destroyed enemies (cosmetic)
const (
	DebrisCount    = 6
	DebrisSpeed    = 90.0 // Units per second
	DebrisLifetime = 400 * time.Millisecond
	DebrisDrag     = 0.95 // Velocity kept per 1/60s
	DebrisSize     = 4.0
)

// GridCellSize is the broad-phase cell size; at least the largest entity.
const GridCellSize = 64.0

// Scoring
const (
	ScoreKill   = 10
	ScoreEscape = -10
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Max render resolution (terminal cells). Larger terminals are centered.
const (
	MaxTermWidth  = 120
	MaxTermHeight = 80
)

// KeyHoldDuration is how long a key counts as held after its last press or
// auto-repeat. Terminals never report key releases.
const KeyHoldDuration = 60 * time.Millisecond

// ShutdownDisplayTime is how long the shutdown notice stays up before the
// session disconnects.
const ShutdownDisplayTime = 3 * time.Second
