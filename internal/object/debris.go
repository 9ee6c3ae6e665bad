package object

import (
	"math"
	"time"

	"github.com/tomz197/skyfall/internal/loop/config"
)

// Debris is a fragment thrown off by a destroyed enemy. It is cosmetic
// and never collides.
type Debris struct {
	X, Y   float64       // Position
	VX, VY float64       // Velocity in units per second
	Life   time.Duration // Time remaining
}

// Burst appends config.DebrisCount fragments flying out of (x, y) in random
// directions, with speed and lifetime varied per fragment.
func Burst(dst []Debris, x, y float64, rnd interface{ Float64() float64 }) []Debris {
	for i := 0; i < config.DebrisCount; i++ {
		angle := rnd.Float64() * 2 * math.Pi
		// Random speed variation (50% to 150%)
		spd := config.DebrisSpeed * (0.5 + rnd.Float64())
		// Random lifetime variation (50% to 100%)
		life := time.Duration(float64(config.DebrisLifetime) * (0.5 + rnd.Float64()*0.5))

		dst = append(dst, Debris{
			X:    x,
			Y:    y,
			VX:   math.Cos(angle) * spd,
			VY:   math.Sin(angle) * spd,
			Life: life,
		})
	}
	return dst
}

// Advance moves the fragment by dt and reports whether it is still alive.
func (d *Debris) Advance(dt time.Duration) bool {
	d.Life -= dt
	if d.Life <= 0 {
		return false
	}

	secs := dt.Seconds()
	drag := math.Pow(config.DebrisDrag, secs*60) // Normalize drag to ~60fps
	d.VX *= drag
	d.VY *= drag
	d.X += d.VX * secs
	d.Y += d.VY * secs
	return true
}
