// Package sim advances the game world one frame at a time.
package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/tomz197/skyfall/internal/loop/config"
	"github.com/tomz197/skyfall/internal/object"
	"github.com/tomz197/skyfall/internal/physics"
)

// Variant selects one of the two supported rule sets.
type Variant int

const (
	// VariantClassic keeps the ship upright and spawns enemies at random.
	VariantClassic Variant = iota
	// VariantRotating lets the ship turn, spawns enemies in timed batches and
	// penalizes enemies that escape past the bottom edge.
	VariantRotating
)

// ErrUnknownVariant is returned by ParseVariant for unrecognized names.
var ErrUnknownVariant = errors.New("unknown variant")

// ParseVariant parses "classic"/"a" or "rotating"/"b" (case-insensitive).
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "a", "classic":
		return VariantClassic, nil
	case "b", "rotating":
		return VariantRotating, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

func (v Variant) String() string {
	switch v {
	case VariantClassic:
		return "classic"
	case VariantRotating:
		return "rotating"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// Status is the run status of a world.
type Status int

const (
	StatusRunning Status = iota
	StatusGameOver
)

func (s Status) String() string {
	if s == StatusGameOver {
		return "game over"
	}
	return "running"
}

// Rand is the random source used for spawning. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Tuning holds per-run switches that are not fixed game constants.
type Tuning struct {
	// LockBulletHeading makes rotating-variant bullets keep the heading they
	// were fired with. When false every bullet follows the ship's current
	// angle each frame.
	LockBulletHeading bool
}

// Options configure a new World.
type Options struct {
	Variant Variant
	View    object.Viewport // Zero value uses the configured view size
	Tuning  Tuning
	Rand    Rand    // Nil uses a time-seeded source
	Spawner Spawner // Nil picks the variant's default spawner
}

// World is the complete mutable state of one run. It is owned by the loop
// goroutine; nothing else may touch it while a run is active.
type World struct {
	Variant Variant
	View    object.Viewport
	Tuning  Tuning

	Player  object.Player
	Bullets []object.Bullet
	Enemies []object.Enemy
	Debris  []object.Debris // Cosmetic fragments of destroyed enemies

	Score     int
	Elapsed   time.Duration // Sum of step deltas since Reset
	Cooldown  time.Duration // Time until the next shot is allowed
	LastSpawn time.Duration // Elapsed value at the last batch spawn
	Status    Status

	// Run statistics.
	Frames  int
	Fired   int
	Kills   int
	Escaped int

	rng     Rand
	spawner Spawner

	// Scratch state reused by the collision pass.
	deadEnemies []bool
	grid        *physics.SpatialGrid
}

// NewWorld creates a world ready to run.
func NewWorld(opts Options) *World {
	view := opts.View
	if view.Width == 0 || view.Height == 0 {
		view = object.Viewport{Width: config.ViewWidth, Height: config.ViewHeight}
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	spawner := opts.Spawner
	if spawner == nil {
		spawner = DefaultSpawner(opts.Variant)
	}

	w := &World{
		Variant: opts.Variant,
		View:    view,
		Tuning:  opts.Tuning,
		rng:     rng,
		spawner: spawner,
		grid:    physics.NewSpatialGrid(view.Width, view.Height, config.GridCellSize),
	}
	w.Reset()
	return w
}

// Reset puts the world back into its initial running state, keeping the
// variant, view, tuning and random source.
func (w *World) Reset() {
	w.Player = object.NewPlayer(w.View)
	w.Bullets = w.Bullets[:0]
	w.Enemies = w.Enemies[:0]
	w.Debris = w.Debris[:0]
	w.Score = 0
	w.Elapsed = 0
	w.Cooldown = 0
	w.LastSpawn = 0
	w.Status = StatusRunning
	w.Frames = 0
	w.Fired = 0
	w.Kills = 0
	w.Escaped = 0
}

// GameOver reports whether the run has ended.
func (w *World) GameOver() bool {
	return w.Status == StatusGameOver
}
