package sim

import (
	"math"
	"time"

	"github.com/tomz197/skyfall/internal/input"
	"github.com/tomz197/skyfall/internal/loop/config"
	"github.com/tomz197/skyfall/internal/object"
	"github.com/tomz197/skyfall/internal/physics"
)

// Step advances w by one frame that took dt, with held as the input.
// Movement is per frame; dt only drives the fire cooldown and spawn timers.
func Step(w *World, dt time.Duration, held input.Held) {
	if w.Status == StatusGameOver {
		return
	}
	if dt < 0 {
		dt = 0
	}
	w.Elapsed += dt
	w.Frames++

	movePlayer(w, held)
	fire(w, dt, held)
	moveBullets(w)
	w.spawner.Spawn(w)
	moveEnemies(w)
	advanceDebris(w, dt)
	resolveHits(w)
}

// movePlayer applies horizontal movement and, for the rotating variant, turning.
func movePlayer(w *World, held input.Held) {
	p := &w.Player
	maxX := p.MaxX(w.View)
	if held.Has(input.MoveLeft) && p.X > 0 {
		p.X = physics.Clamp(p.X-p.Speed, 0, maxX)
	}
	if held.Has(input.MoveRight) && p.X < maxX {
		p.X = physics.Clamp(p.X+p.Speed, 0, maxX)
	}

	if w.Variant != VariantRotating {
		return
	}
	if held.Has(input.RotateLeft) {
		p.Angle -= p.TurnSpeed
	}
	if held.Has(input.RotateRight) {
		p.Angle += p.TurnSpeed
	}
}

// fire runs the cooldown and spawns a bullet from the ship's nose line.
func fire(w *World, dt time.Duration, held input.Held) {
	w.Cooldown -= dt
	if w.Cooldown < 0 {
		w.Cooldown = 0
	}
	if !held.Has(input.Fire) || w.Cooldown > 0 {
		return
	}
	w.Bullets = append(w.Bullets, object.NewBullet(w.Player.CenterX(), w.Player.Y, w.Player.Angle))
	w.Cooldown = config.FireDelay
	w.Fired++
}

// moveBullets advances bullets and drops those that left the view.
func moveBullets(w *World) {
	kept := w.Bullets[:0] // reuse backing array
	for _, b := range w.Bullets {
		switch {
		case w.Variant != VariantRotating:
			b.Y -= b.Speed
		default:
			heading := w.Player.Angle
			if w.Tuning.LockBulletHeading {
				heading = b.Heading
			}
			b.X += math.Sin(heading) * b.Speed
			b.Y -= math.Cos(heading) * b.Speed
		}
		if !b.OutOfView(w.View) {
			kept = append(kept, b)
		}
	}
	w.Bullets = kept
}

// moveEnemies advances enemies, ends the run on contact with the ship and,
// for the rotating variant, removes enemies that escaped at the bottom.
func moveEnemies(w *World) {
	ship := w.Player.Bounds()
	kept := w.Enemies[:0]
	for _, e := range w.Enemies {
		e.Y += e.Speed

		if physics.RectOverlap(ship, e.Bounds()) {
			w.Status = StatusGameOver
		}

		if w.Variant == VariantRotating && e.Escaped(w.View) {
			w.Score += config.ScoreEscape
			w.Escaped++
			continue
		}
		kept = append(kept, e)
	}
	w.Enemies = kept
}

// advanceDebris moves the cosmetic fragments and drops expired ones.
func advanceDebris(w *World, dt time.Duration) {
	kept := w.Debris[:0]
	for _, d := range w.Debris {
		if d.Advance(dt) {
			kept = append(kept, d)
		}
	}
	w.Debris = kept
}

// resolveHits destroys every bullet/enemy pair that overlaps. Each bullet
// takes out the first live enemy (in slice order) it overlaps and each enemy
// dies at most once; entities destroyed earlier in the pass are skipped.
// Candidates come from the broad-phase grid.
func resolveHits(w *World) {
	if len(w.Bullets) == 0 || len(w.Enemies) == 0 {
		return
	}

	if cap(w.deadEnemies) < len(w.Enemies) {
		w.deadEnemies = make([]bool, len(w.Enemies))
	}
	dead := w.deadEnemies[:len(w.Enemies)]
	clear(dead)

	w.grid.Clear()
	for i, e := range w.Enemies {
		w.grid.Insert(e.Bounds(), i)
	}

	keptBullets := w.Bullets[:0]
	for _, b := range w.Bullets {
		hitbox := b.Hitbox()
		target := -1
		w.grid.Query(hitbox.Bounds(), func(i int) {
			if dead[i] || (target >= 0 && i >= target) {
				return
			}
			if physics.CircleRectOverlap(hitbox, w.Enemies[i].Bounds()) {
				target = i
			}
		})
		if target < 0 {
			keptBullets = append(keptBullets, b)
			continue
		}

		dead[target] = true
		w.Score += config.ScoreKill
		w.Kills++
		e := w.Enemies[target]
		w.Debris = object.Burst(w.Debris, e.X+e.Width/2, e.Y+e.Height/2, w.rng)
	}
	w.Bullets = keptBullets

	keptEnemies := w.Enemies[:0]
	for i, e := range w.Enemies {
		if !dead[i] {
			keptEnemies = append(keptEnemies, e)
		}
	}
	w.Enemies = keptEnemies
}
