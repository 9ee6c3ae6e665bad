package object

import (
	"github.com/tomz197/skyfall/internal/loop/config"
	"github.com/tomz197/skyfall/internal/physics"
)

// Player is the ship at the bottom of the screen.
type Player struct {
	X, Y  float64 // Top-left of the bounding square
	Size  float64 // Edge length of the bounding square
	Speed float64 // Horizontal units per frame

	// Only the rotating variant turns the ship.
	Angle     float64 // Radians, 0 = up, increases clockwise. Never wrapped.
	TurnSpeed float64 // Radians per frame
}

// NewPlayer creates a ship horizontally centered near the bottom of view.
func NewPlayer(view Viewport) Player {
	return Player{
		X:         view.CenterX(),
		Y:         view.Height - config.PlayerBottomGap,
		Size:      config.PlayerSize,
		Speed:     config.PlayerSpeed,
		TurnSpeed: config.PlayerTurnSpeed,
	}
}

// Bounds returns the ship's hit box.
func (p Player) Bounds() physics.AABB {
	return physics.AABB{X: p.X, Y: p.Y, W: p.Size, H: p.Size}
}

// CenterX returns the horizontal center of the ship; bullets leave from here.
func (p Player) CenterX() float64 {
	return p.X + p.Size/2
}

// CenterY returns the vertical center of the bounding square.
func (p Player) CenterY() float64 {
	return p.Y + p.Size/2
}

// MaxX is the largest X the ship may move right from.
func (p Player) MaxX(view Viewport) float64 {
	return view.Width - p.Size
}
