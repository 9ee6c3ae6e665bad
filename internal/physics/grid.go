package physics

import "math"

// SpatialGrid is a uniform grid for broad-phase collision detection over a
// bounded playfield. Boxes are inserted into every cell they touch; anything
// outside the field is clamped into the border cells, so inserts and queries
// agree at the edges.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	cols        int
	rows        int
	cells       []gridCell
}

// gridCell stores the indices of objects that touch a grid cell.
// The slice is reused between frames (reset to [:0]) to avoid allocations.
type gridCell struct {
	items []int
}

// NewSpatialGrid creates a grid covering width x height.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	cols := max(int(math.Ceil(width/cellSize)), 1)
	rows := max(int(math.Ceil(height/cellSize)), 1)

	return &SpatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([]gridCell, cols*rows),
	}
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds an item (identified by index) to every cell box touches.
func (g *SpatialGrid) Insert(box AABB, index int) {
	c0, r0, c1, r1 := g.span(box)
	for r := r0; r <= r1; r++ {
		rowOffset := r * g.cols
		for c := c0; c <= c1; c++ {
			g.cells[rowOffset+c].items = append(g.cells[rowOffset+c].items, index)
		}
	}
}

// Query calls fn for every item in the cells box touches. An item spanning
// several cells may be reported more than once.
func (g *SpatialGrid) Query(box AABB, fn func(index int)) {
	c0, r0, c1, r1 := g.span(box)
	for r := r0; r <= r1; r++ {
		rowOffset := r * g.cols
		for c := c0; c <= c1; c++ {
			for _, itemIdx := range g.cells[rowOffset+c].items {
				fn(itemIdx)
			}
		}
	}
}

// span returns the inclusive cell range box covers.
func (g *SpatialGrid) span(box AABB) (c0, r0, c1, r1 int) {
	c0, r0 = g.posToCell(box.X, box.Y)
	c1, r1 = g.posToCell(box.Right(), box.Bottom())
	return c0, r0, c1, r1
}

// posToCell converts field coordinates to grid cell coordinates, clamped to
// the valid range.
func (g *SpatialGrid) posToCell(x, y float64) (col, row int) {
	col = min(max(int(math.Floor(x*g.invCellSize)), 0), g.cols-1)
	row = min(max(int(math.Floor(y*g.invCellSize)), 0), g.rows-1)
	return col, row
}
