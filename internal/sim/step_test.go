package sim

import (
	"errors"
	"math"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/tomz197/skyfall/internal/input"
	"github.com/tomz197/skyfall/internal/loop/config"
	"github.com/tomz197/skyfall/internal/object"
	"github.com/tomz197/skyfall/internal/physics"
)

// seqRand replays a fixed sequence of draws.
type seqRand struct {
	vals []float64
	i    int
}

func (r *seqRand) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

// spawnFunc adapts a function to the Spawner interface.
type spawnFunc func(w *World)

func (f spawnFunc) Spawn(w *World) { f(w) }

var noSpawn = spawnFunc(func(*World) {})

func newTestWorld(v Variant) *World {
	return NewWorld(Options{
		Variant: v,
		View:    object.Viewport{Width: 480, Height: 640},
		Rand:    &seqRand{vals: []float64{0.99}},
		Spawner: noSpawn,
	})
}

const frame = 16 * time.Millisecond

func TestStepMovesPlayerBySpeed(t *testing.T) {
	w := newTestWorld(VariantClassic)
	x0 := w.Player.X

	Step(w, frame, input.Of(input.MoveLeft))
	if got, want := w.Player.X, x0-config.PlayerSpeed; got != want {
		t.Fatalf("after left: x = %v, want %v", got, want)
	}

	Step(w, frame, input.Of(input.MoveRight))
	Step(w, frame, input.Of(input.MoveRight))
	if got, want := w.Player.X, x0+config.PlayerSpeed; got != want {
		t.Fatalf("after right x2: x = %v, want %v", got, want)
	}
}

func TestStepKeepsPlayerInBounds(t *testing.T) {
	w := newTestWorld(VariantClassic)

	w.Player.X = 2
	Step(w, frame, input.Of(input.MoveLeft))
	if w.Player.X != 0 {
		t.Fatalf("x = %v, want clamped to 0", w.Player.X)
	}
	Step(w, frame, input.Of(input.MoveLeft))
	if w.Player.X != 0 {
		t.Fatalf("x = %v, want to stay at 0", w.Player.X)
	}

	maxX := w.View.Width - w.Player.Size
	w.Player.X = maxX - 1
	Step(w, frame, input.Of(input.MoveRight))
	if w.Player.X != maxX {
		t.Fatalf("x = %v, want clamped to %v", w.Player.X, maxX)
	}
	Step(w, frame, input.Of(input.MoveRight))
	if w.Player.X != maxX {
		t.Fatalf("x = %v, want to stay at %v", w.Player.X, maxX)
	}
}

func TestStepClassicIgnoresRotation(t *testing.T) {
	w := newTestWorld(VariantClassic)
	Step(w, frame, input.Of(input.RotateLeft))
	if w.Player.Angle != 0 {
		t.Fatalf("classic ship rotated to %v", w.Player.Angle)
	}
}

func TestStepFireCooldown(t *testing.T) {
	w := newTestWorld(VariantClassic)
	fireHeld := input.Of(input.Fire)

	Step(w, 0, fireHeld)
	if len(w.Bullets) != 1 {
		t.Fatalf("bullets after first shot = %d, want 1", len(w.Bullets))
	}

	// 100ms + 60ms = 160ms < 166.67ms: still cooling down.
	Step(w, 100*time.Millisecond, fireHeld)
	Step(w, 60*time.Millisecond, fireHeld)
	if w.Fired != 1 {
		t.Fatalf("fired = %d within cooldown, want 1", w.Fired)
	}

	Step(w, 7*time.Millisecond, fireHeld)
	if w.Fired != 2 {
		t.Fatalf("fired = %d after cooldown, want 2", w.Fired)
	}
}

func TestStepCooldownDoesNotGoNegative(t *testing.T) {
	w := newTestWorld(VariantClassic)

	Step(w, 10*time.Second, 0)
	if w.Cooldown != 0 {
		t.Fatalf("cooldown = %v after a long idle frame, want 0", w.Cooldown)
	}

	Step(w, 0, input.Of(input.Fire))
	Step(w, 100*time.Millisecond, input.Of(input.Fire))
	if w.Fired != 1 {
		t.Fatalf("fired = %d, want 1: idle time must not bank extra shots", w.Fired)
	}
}

func TestStepFirstShotScenario(t *testing.T) {
	w := newTestWorld(VariantClassic)
	if w.Player.X != 240 || w.Player.Y != 590 {
		t.Fatalf("player spawned at (%v, %v), want (240, 590)", w.Player.X, w.Player.Y)
	}

	Step(w, 0, input.Of(input.Fire))
	if len(w.Bullets) != 1 {
		t.Fatalf("bullets = %d, want 1", len(w.Bullets))
	}
	b := w.Bullets[0]
	// Appended at (255, 590), then advanced once in the same step.
	if b.X != 255 || b.Y != 590-config.BulletSpeed {
		t.Fatalf("bullet at (%v, %v), want (255, %v)", b.X, b.Y, 590-config.BulletSpeed)
	}

	Step(w, 200*time.Millisecond, input.Of(input.Fire))
	if len(w.Bullets) != 2 {
		t.Fatalf("bullets after 200ms = %d, want 2", len(w.Bullets))
	}
	if w.Bullets[1].X != 255 {
		t.Fatalf("second bullet x = %v, want 255", w.Bullets[1].X)
	}
}

func TestStepCullsBulletsAtTop(t *testing.T) {
	w := newTestWorld(VariantClassic)
	w.Bullets = append(w.Bullets, object.NewBullet(100, 1, 0), object.NewBullet(100, 300, 0))

	Step(w, frame, 0)
	if len(w.Bullets) != 1 {
		t.Fatalf("bullets = %d, want 1 (the one at y=1 must be culled)", len(w.Bullets))
	}
	if got, want := w.Bullets[0].Y, 300-config.BulletSpeed; got != want {
		t.Fatalf("remaining bullet y = %v, want %v", got, want)
	}
}

func TestStepBulletHitsEnemy(t *testing.T) {
	w := newTestWorld(VariantClassic)
	w.Enemies = append(w.Enemies, object.Enemy{X: 100, Y: 100, Width: 30, Height: 30, Speed: 2})
	// After moving 8 up the bullet sits at y=132, enemy spans 102..132.
	w.Bullets = append(w.Bullets, object.NewBullet(115, 140, 0))

	Step(w, frame, 0)
	if len(w.Bullets) != 0 || len(w.Enemies) != 0 {
		t.Fatalf("bullets=%d enemies=%d, want both removed", len(w.Bullets), len(w.Enemies))
	}
	if w.Score != config.ScoreKill || w.Kills != 1 {
		t.Fatalf("score=%d kills=%d, want %d and 1", w.Score, w.Kills, config.ScoreKill)
	}
}

func TestStepScoresDisjointPairs(t *testing.T) {
	w := newTestWorld(VariantClassic)
	const n = 5
	for i := 0; i < n; i++ {
		x := float64(i * 80)
		w.Enemies = append(w.Enemies, object.Enemy{X: x, Y: 100, Width: 30, Height: 30, Speed: 2})
		w.Bullets = append(w.Bullets, object.NewBullet(x+15, 130, 0))
	}
	// A bystander of each kind that must survive.
	w.Enemies = append(w.Enemies, object.Enemy{X: 440, Y: 400, Width: 30, Height: 30, Speed: 2})
	w.Bullets = append(w.Bullets, object.NewBullet(460, 300, 0))

	Step(w, frame, 0)
	if w.Score != n*config.ScoreKill {
		t.Fatalf("score = %d, want %d", w.Score, n*config.ScoreKill)
	}
	if len(w.Enemies) != 1 || len(w.Bullets) != 1 {
		t.Fatalf("enemies=%d bullets=%d, want 1 and 1", len(w.Enemies), len(w.Bullets))
	}
}

func TestStepNoDoubleScoring(t *testing.T) {
	t.Run("two bullets one enemy", func(t *testing.T) {
		w := newTestWorld(VariantClassic)
		w.Enemies = append(w.Enemies, object.Enemy{X: 100, Y: 100, Width: 30, Height: 30, Speed: 2})
		w.Bullets = append(w.Bullets, object.NewBullet(110, 130, 0), object.NewBullet(120, 130, 0))

		Step(w, frame, 0)
		if w.Score != config.ScoreKill {
			t.Fatalf("score = %d, want %d", w.Score, config.ScoreKill)
		}
		if len(w.Bullets) != 1 || len(w.Enemies) != 0 {
			t.Fatalf("bullets=%d enemies=%d, want 1 and 0", len(w.Bullets), len(w.Enemies))
		}
	})

	t.Run("one bullet two enemies", func(t *testing.T) {
		w := newTestWorld(VariantClassic)
		w.Enemies = append(w.Enemies,
			object.Enemy{X: 100, Y: 100, Width: 30, Height: 30, Speed: 2},
			object.Enemy{X: 110, Y: 100, Width: 30, Height: 30, Speed: 2},
		)
		w.Bullets = append(w.Bullets, object.NewBullet(120, 130, 0))

		Step(w, frame, 0)
		if w.Score != config.ScoreKill {
			t.Fatalf("score = %d, want %d", w.Score, config.ScoreKill)
		}
		if len(w.Bullets) != 0 || len(w.Enemies) != 1 {
			t.Fatalf("bullets=%d enemies=%d, want 0 and 1", len(w.Bullets), len(w.Enemies))
		}
		if w.Enemies[0].X != 110 {
			t.Fatalf("surviving enemy x = %v, want the later one (110)", w.Enemies[0].X)
		}
	})
}

func TestStepPlayerCollisionEndsRun(t *testing.T) {
	w := newTestWorld(VariantClassic)
	p := w.Player
	w.Enemies = append(w.Enemies,
		object.Enemy{X: p.X, Y: p.Y - 30, Width: 30, Height: 30, Speed: 2},
		object.Enemy{X: 0, Y: 0, Width: 30, Height: 30, Speed: 2},
	)
	// Scores in the same step after the collision still count.
	w.Bullets = append(w.Bullets, object.NewBullet(15, 40, 0))

	Step(w, frame, 0)
	if w.Status != StatusGameOver {
		t.Fatalf("status = %v, want game over", w.Status)
	}
	if w.Score != config.ScoreKill {
		t.Fatalf("score = %d, want %d", w.Score, config.ScoreKill)
	}

	snapshot := *w
	Step(w, frame, input.Of(input.MoveLeft, input.Fire))
	if w.Status != StatusGameOver {
		t.Fatal("game over must be absorbing")
	}
	if w.Player != snapshot.Player || w.Score != snapshot.Score || w.Elapsed != snapshot.Elapsed {
		t.Fatal("step after game over must not change the world")
	}
}

func TestStepEnemyDescentScenario(t *testing.T) {
	w := newTestWorld(VariantClassic)
	w.Player.Y = 610
	w.Enemies = append(w.Enemies, object.NewEnemy(w.Player.X))

	for i := 0; i < 15; i++ {
		Step(w, frame, 0)
	}
	if len(w.Enemies) != 1 || w.Enemies[0].Y != 0 {
		t.Fatalf("enemy after 15 steps: %+v, want y=0", w.Enemies)
	}
	if w.Status != StatusRunning {
		t.Fatal("no collision expected yet")
	}

	// Bottom edge reaches 610 at y=580: touching is not overlapping.
	w.Enemies[0].Y = 578
	Step(w, frame, 0)
	if w.Enemies[0].Y != 580 || w.Status != StatusRunning {
		t.Fatalf("y=%v status=%v, want 580 and running", w.Enemies[0].Y, w.Status)
	}
	Step(w, frame, 0)
	if w.Status != StatusGameOver {
		t.Fatalf("status = %v at y=%v, want game over", w.Status, w.Enemies[0].Y)
	}
}

func TestStepClassicEnemiesDoNotEscape(t *testing.T) {
	w := newTestWorld(VariantClassic)
	w.Enemies = append(w.Enemies, object.Enemy{X: 0, Y: 700, Width: 30, Height: 30, Speed: 2})

	Step(w, frame, 0)
	if len(w.Enemies) != 1 || w.Score != 0 {
		t.Fatalf("classic variant removed escaped enemy: enemies=%d score=%d", len(w.Enemies), w.Score)
	}
}

func TestStepRotatingEscapePenalty(t *testing.T) {
	w := newTestWorld(VariantRotating)
	w.Player.Y = 630 // Hit box spans 630..660, below the view edge.
	w.Enemies = append(w.Enemies,
		object.Enemy{X: w.Player.X, Y: 639, Width: 30, Height: 30, Speed: 2},
		object.Enemy{X: 0, Y: 639, Width: 30, Height: 30, Speed: 2},
	)

	Step(w, frame, 0)
	if len(w.Enemies) != 0 {
		t.Fatalf("enemies = %d, want both escaped", len(w.Enemies))
	}
	if w.Score != 2*config.ScoreEscape || w.Escaped != 2 {
		t.Fatalf("score=%d escaped=%d, want %d and 2", w.Score, w.Escaped, 2*config.ScoreEscape)
	}
	if w.Status != StatusGameOver {
		t.Fatal("escaping enemy that overlapped the ship must still end the run")
	}
}

func TestStepRotatingTurnsAndReaimsBullets(t *testing.T) {
	w := newTestWorld(VariantRotating)

	Step(w, 0, input.Of(input.Fire))
	if len(w.Bullets) != 1 {
		t.Fatalf("bullets = %d, want 1", len(w.Bullets))
	}
	before := w.Bullets[0]

	for i := 0; i < 10; i++ {
		Step(w, frame, input.Of(input.RotateRight))
	}
	wantAngle := 10 * config.PlayerTurnSpeed
	if math.Abs(w.Player.Angle-wantAngle) > 1e-9 {
		t.Fatalf("angle = %v, want %v", w.Player.Angle, wantAngle)
	}

	// The bullet follows the current angle on every frame.
	b := w.Bullets[0]
	if b.X <= before.X {
		t.Fatalf("bullet x = %v, want it to drift right of %v", b.X, before.X)
	}

	x := b.X
	Step(w, frame, 0)
	wantX := x + math.Sin(w.Player.Angle)*b.Speed
	if math.Abs(w.Bullets[0].X-wantX) > 1e-9 {
		t.Fatalf("bullet x = %v, want %v", w.Bullets[0].X, wantX)
	}

	// The angle is an unbounded accumulator.
	w.Player.Angle = 100
	Step(w, frame, input.Of(input.RotateLeft))
	if math.Abs(w.Player.Angle-(100-config.PlayerTurnSpeed)) > 1e-9 {
		t.Fatalf("angle = %v, want no wrapping", w.Player.Angle)
	}
}

func TestStepRotatingLockedHeading(t *testing.T) {
	w := newTestWorld(VariantRotating)
	w.Tuning.LockBulletHeading = true

	Step(w, 0, input.Of(input.Fire))
	x0 := w.Bullets[0].X
	for i := 0; i < 10; i++ {
		Step(w, frame, input.Of(input.RotateRight))
	}
	if w.Bullets[0].X != x0 {
		t.Fatalf("locked bullet drifted from x=%v to %v", x0, w.Bullets[0].X)
	}
}

func TestStepRotatingCullsSidewaysBullets(t *testing.T) {
	w := newTestWorld(VariantRotating)
	w.Player.Angle = math.Pi / 2 // Facing right.
	w.Bullets = append(w.Bullets, object.NewBullet(w.View.Width+1, 300, 0))

	Step(w, frame, 0)
	if len(w.Bullets) != 0 {
		t.Fatalf("bullets = %d, want the off-screen bullet culled", len(w.Bullets))
	}
}

func TestChanceSpawner(t *testing.T) {
	rng := &seqRand{vals: []float64{0.01, 0.5, 0.5, 0.99}}
	w := NewWorld(Options{
		Variant: VariantClassic,
		View:    object.Viewport{Width: 480, Height: 640},
		Rand:    rng,
	})

	Step(w, frame, 0) // draws 0.01 → spawn at 0.5*480
	if len(w.Enemies) != 1 {
		t.Fatalf("enemies = %d, want 1", len(w.Enemies))
	}
	e := w.Enemies[0]
	if e.X != 240 || e.Y != config.EnemySpawnY+config.EnemySpeed {
		t.Fatalf("enemy at (%v, %v), want (240, %v)", e.X, e.Y, config.EnemySpawnY+config.EnemySpeed)
	}

	Step(w, frame, 0) // draws 0.5 → no spawn
	Step(w, frame, 0) // draws 0.99 → no spawn
	if len(w.Enemies) != 1 {
		t.Fatalf("enemies = %d, want still 1", len(w.Enemies))
	}
}

func TestBatchSpawner(t *testing.T) {
	w := NewWorld(Options{
		Variant: VariantRotating,
		View:    object.Viewport{Width: 480, Height: 640},
		Rand:    &seqRand{vals: []float64{0.1, 0.3, 0.5, 0.7}},
	})

	Step(w, 3999*time.Millisecond, 0)
	if len(w.Enemies) != 0 {
		t.Fatalf("enemies = %d before the interval, want 0", len(w.Enemies))
	}

	Step(w, time.Millisecond, 0)
	if len(w.Enemies) != config.BatchSize {
		t.Fatalf("enemies = %d, want a batch of %d", len(w.Enemies), config.BatchSize)
	}
	wantX := []float64{48, 144, 240, 336}
	for i, e := range w.Enemies {
		if e.X != wantX[i] {
			t.Errorf("enemy %d x = %v, want %v", i, e.X, wantX[i])
		}
	}
	if w.LastSpawn != 4*time.Second {
		t.Fatalf("last spawn = %v, want 4s", w.LastSpawn)
	}

	Step(w, 2*time.Second, 0)
	if len(w.Enemies) != config.BatchSize {
		t.Fatalf("enemies = %d, want no second batch yet", len(w.Enemies))
	}
	Step(w, 2*time.Second, 0)
	if len(w.Enemies) != 2*config.BatchSize {
		t.Fatalf("enemies = %d, want a second batch", len(w.Enemies))
	}
}

func TestStepNegativeDeltaIsIgnored(t *testing.T) {
	w := newTestWorld(VariantClassic)
	Step(w, -time.Second, 0)
	if w.Elapsed != 0 {
		t.Fatalf("elapsed = %v, want 0", w.Elapsed)
	}
}

func TestWorldReset(t *testing.T) {
	w := newTestWorld(VariantRotating)
	w.Score = -40
	w.Status = StatusGameOver
	w.Elapsed = time.Minute
	w.Player.Angle = 3
	w.Bullets = append(w.Bullets, object.NewBullet(1, 1, 0))
	w.Enemies = append(w.Enemies, object.NewEnemy(1))

	w.Reset()
	if w.Score != 0 || w.Status != StatusRunning || w.Elapsed != 0 || w.Player.Angle != 0 {
		t.Fatalf("reset left state behind: %+v", w)
	}
	if len(w.Bullets) != 0 || len(w.Enemies) != 0 {
		t.Fatal("reset must clear entities")
	}
	if w.Variant != VariantRotating {
		t.Fatal("reset must keep the variant")
	}
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in      string
		want    Variant
		wantErr bool
	}{
		{"", VariantClassic, false},
		{"A", VariantClassic, false},
		{"classic", VariantClassic, false},
		{" b ", VariantRotating, false},
		{"Rotating", VariantRotating, false},
		{"c", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseVariant(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrUnknownVariant) {
				t.Errorf("ParseVariant(%q) err = %v, want ErrUnknownVariant", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseVariant(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}
}

func TestStepKillLeavesDebris(t *testing.T) {
	w := newTestWorld(VariantClassic)
	w.Enemies = append(w.Enemies, object.Enemy{X: 100, Y: 100, Width: 30, Height: 30, Speed: 2})
	w.Bullets = append(w.Bullets, object.NewBullet(115, 140, 0))

	Step(w, frame, 0)
	if len(w.Debris) != config.DebrisCount {
		t.Fatalf("debris = %d, want %d", len(w.Debris), config.DebrisCount)
	}
	if w.Score != config.ScoreKill {
		t.Fatalf("score = %d, want %d", w.Score, config.ScoreKill)
	}

	for i := 0; i < 30 && len(w.Debris) > 0; i++ {
		Step(w, frame, 0)
	}
	if len(w.Debris) != 0 {
		t.Fatalf("debris still alive after %v", w.Elapsed)
	}
}

func TestStepHitsAcrossGridCells(t *testing.T) {
	w := newTestWorld(VariantClassic)
	// The enemy straddles the first column boundary; the bullet only
	// touches the second column.
	w.Enemies = append(w.Enemies, object.Enemy{X: 50, Y: 100, Width: 30, Height: 30, Speed: 2})
	w.Bullets = append(w.Bullets, object.NewBullet(76, 140, 0))

	Step(w, frame, 0)
	if len(w.Enemies) != 0 || len(w.Bullets) != 0 {
		t.Fatalf("enemies=%d bullets=%d, want 0 and 0", len(w.Enemies), len(w.Bullets))
	}
}

// bruteForceHits resolves bullet/enemy pairs by scanning every pair: each
// bullet takes the lowest-index live enemy it overlaps.
func bruteForceHits(bullets []object.Bullet, enemies []object.Enemy) ([]object.Bullet, []object.Enemy, int) {
	dead := make([]bool, len(enemies))
	var keptBullets []object.Bullet
	kills := 0
	for _, b := range bullets {
		target := -1
		for i, e := range enemies {
			if !dead[i] && physics.CircleRectOverlap(b.Hitbox(), e.Bounds()) {
				target = i
				break
			}
		}
		if target < 0 {
			keptBullets = append(keptBullets, b)
			continue
		}
		dead[target] = true
		kills++
	}
	var keptEnemies []object.Enemy
	for i, e := range enemies {
		if !dead[i] {
			keptEnemies = append(keptEnemies, e)
		}
	}
	return keptBullets, keptEnemies, kills
}

func TestResolveHitsMatchesPairScan(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	between := func(lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }

	for trial := 0; trial < 2000; trial++ {
		w := newTestWorld(VariantClassic)
		for range rng.Intn(12) {
			size := between(10, 60)
			// Enemies may overhang every edge of the field.
			w.Enemies = append(w.Enemies, object.Enemy{
				X: between(-50, 500), Y: between(-50, 680),
				Width: size, Height: size, Speed: 2,
			})
		}
		for range rng.Intn(12) {
			w.Bullets = append(w.Bullets, object.NewBullet(between(-20, 500), between(-20, 660), 0))
		}

		wantBullets, wantEnemies, kills := bruteForceHits(slices.Clone(w.Bullets), slices.Clone(w.Enemies))

		resolveHits(w)

		if !slices.Equal(w.Bullets, wantBullets) {
			t.Fatalf("trial %d: bullets = %v, want %v", trial, w.Bullets, wantBullets)
		}
		if !slices.Equal(w.Enemies, wantEnemies) {
			t.Fatalf("trial %d: enemies = %v, want %v", trial, w.Enemies, wantEnemies)
		}
		if w.Kills != kills || w.Score != kills*config.ScoreKill {
			t.Fatalf("trial %d: kills=%d score=%d, want kills=%d", trial, w.Kills, w.Score, kills)
		}
	}
}
