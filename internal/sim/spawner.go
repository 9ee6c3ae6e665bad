package sim

import (
	"time"

	"github.com/tomz197/skyfall/internal/loop/config"
	"github.com/tomz197/skyfall/internal/object"
)

// Spawner decides when new enemies enter the world.
type Spawner interface {
	// Spawn is called once per step and appends any new enemies to w.
	Spawn(w *World)
}

// DefaultSpawner returns the spawner a variant uses out of the box.
func DefaultSpawner(v Variant) Spawner {
	if v == VariantRotating {
		return BatchSpawner{Size: config.BatchSize, Interval: config.BatchInterval}
	}
	return ChanceSpawner{Chance: config.SpawnChance}
}

// ChanceSpawner adds a single enemy with a fixed probability every step.
type ChanceSpawner struct {
	Chance float64
}

// Spawn draws once and spawns one enemy at a random column on success.
func (s ChanceSpawner) Spawn(w *World) {
	if w.rng.Float64() < s.Chance {
		w.Enemies = append(w.Enemies, object.NewEnemy(w.rng.Float64()*w.View.Width))
	}
}

// BatchSpawner adds Size enemies whenever Interval of world time has passed
// since the previous batch.
type BatchSpawner struct {
	Size     int
	Interval time.Duration
}

// Spawn adds a batch when the interval has elapsed and restarts the timer.
func (s BatchSpawner) Spawn(w *World) {
	if w.Elapsed-w.LastSpawn < s.Interval {
		return
	}
	for i := 0; i < s.Size; i++ {
		w.Enemies = append(w.Enemies, object.NewEnemy(w.rng.Float64()*w.View.Width))
	}
	w.LastSpawn = w.Elapsed
}
