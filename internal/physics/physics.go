// Package physics provides the overlap tests used for collision detection.
package physics

// AABB is an axis-aligned box anchored at its top-left corner.
type AABB struct {
	X, Y float64 // Top-left corner
	W, H float64 // Width and height
}

// Circle is a circle given by its center and radius.
type Circle struct {
	X, Y float64
	R    float64
}

// Right returns the x-coordinate of the right edge.
func (b AABB) Right() float64 {
	return b.X + b.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (b AABB) Bottom() float64 {
	return b.Y + b.H
}

// Bounds returns the square enclosing c.
func (c Circle) Bounds() AABB {
	return AABB{X: c.X - c.R, Y: c.Y - c.R, W: 2 * c.R, H: 2 * c.R}
}

// RectOverlap reports whether two boxes overlap.
// Touching edges do not count as an overlap.
func RectOverlap(a, b AABB) bool {
	return a.X < b.Right() &&
		a.Right() > b.X &&
		a.Y < b.Bottom() &&
		a.Bottom() > b.Y
}

// CircleRectOverlap reports whether the bounding square of c overlaps r.
// This is deliberately looser than an exact circle test: corners of the
// square count as hits.
func CircleRectOverlap(c Circle, r AABB) bool {
	return c.X+c.R > r.X &&
		c.X-c.R < r.Right() &&
		c.Y+c.R > r.Y &&
		c.Y-c.R < r.Bottom()
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
