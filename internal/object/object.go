// Package object defines the entities that live in the game world.
//
// Entities are plain records. All mutation happens in the simulation step;
// the helpers here only convert entities to collision shapes.
package object

// Viewport is the size of the playfield in logical units.
type Viewport struct {
	Width  float64
	Height float64
}

// CenterX returns the horizontal middle of the viewport.
func (v Viewport) CenterX() float64 {
	return v.Width / 2
}

// CenterY returns the vertical middle of the viewport.
func (v Viewport) CenterY() float64 {
	return v.Height / 2
}
