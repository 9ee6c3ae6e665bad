package object

import (
	"github.com/tomz197/skyfall/internal/loop/config"
	"github.com/tomz197/skyfall/internal/physics"
)

// Enemy is a descending block the player must shoot or dodge.
type Enemy struct {
	X, Y          float64 // Top-left
	Width, Height float64
	Speed         float64 // Units per frame, downwards
}

// NewEnemy creates an enemy just above the top edge at horizontal position x.
func NewEnemy(x float64) Enemy {
	return Enemy{
		X:      x,
		Y:      config.EnemySpawnY,
		Width:  config.EnemySize,
		Height: config.EnemySize,
		Speed:  config.EnemySpeed,
	}
}

// Bounds returns the enemy's hit box.
func (e Enemy) Bounds() physics.AABB {
	return physics.AABB{X: e.X, Y: e.Y, W: e.Width, H: e.Height}
}

// Escaped reports whether the enemy has passed the bottom of view.
func (e Enemy) Escaped(view Viewport) bool {
	return e.Y > view.Height
}
