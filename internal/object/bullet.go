package object

import (
	"github.com/tomz197/skyfall/internal/loop/config"
	"github.com/tomz197/skyfall/internal/physics"
)

// Bullet is a projectile fired by the player.
type Bullet struct {
	X, Y    float64 // Center
	Radius  float64 // Collision radius (unscaled)
	Speed   float64 // Units per frame
	Heading float64 // Ship angle when fired
}

// NewBullet creates a bullet at (x, y) fired while the ship faced heading.
func NewBullet(x, y, heading float64) Bullet {
	return Bullet{
		X:       x,
		Y:       y,
		Radius:  config.BulletRadius,
		Speed:   config.BulletSpeed,
		Heading: heading,
	}
}

// Hitbox returns the bullet's collision circle.
func (b Bullet) Hitbox() physics.Circle {
	return physics.Circle{X: b.X, Y: b.Y, R: b.Radius}
}

// OutOfView reports whether the bullet has left the playfield. Reaching the
// top edge (y <= 0) counts as leaving; on the other edges the whole circle
// must be outside.
func (b Bullet) OutOfView(view Viewport) bool {
	return b.Y <= 0 ||
		b.X+b.Radius < 0 ||
		b.X-b.Radius > view.Width ||
		b.Y-b.Radius > view.Height
}
