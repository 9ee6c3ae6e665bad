package draw

import (
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Cell is one composed terminal cell.
type Cell struct {
	Rune rune
	Fg   Color
	Bg   Color
}

var blankCell = Cell{Rune: BlockEmpty}

// textItem is a string placed on the canvas in terminal coordinates.
type textItem struct {
	col, row int // 0-based, relative to the canvas
	value    string
	color    Color
}

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Game code draws in logical coordinates; the canvas scales them to terminal pixels.
type Canvas struct {
	termWidth      int     // Render area columns
	termHeight     int     // Render area rows
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x]
	texts          []textItem

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets of the render area (for centering).
	offsetCol int
	offsetRow int

	// Frame diffing: only cells that changed since the last Render are written.
	cells       []Cell
	prev        []Cell
	forceRedraw bool

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder
	numBuf          [20]byte
	scaledBuf       []Point
	intersectionBuf []float64
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.allocate(termWidth, termHeight)
	return c
}

func (c *Canvas) allocate(termWidth, termHeight int) {
	if termWidth < 0 {
		termWidth = 0
	}
	if termHeight < 0 {
		termHeight = 0
	}
	c.termWidth = termWidth
	c.termHeight = termHeight
	c.subPixelHeight = termHeight * 2
	c.pixels = make([]Color, c.subPixelHeight*termWidth)
	c.cells = make([]Cell, termWidth*termHeight)
	c.prev = make([]Cell, termWidth*termHeight)
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
	c.forceRedraw = true
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
// The drawing is lost when the size actually changes.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth == c.termWidth && termHeight == c.termHeight {
		return
	}
	c.allocate(termWidth, termHeight)
	c.texts = c.texts[:0]
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.forceRedraw = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// TerminalWidth returns the render area column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the render area row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// ForceRedraw makes the next Render write every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.forceRedraw = true
}

// Clear resets all pixels and text.
func (c *Canvas) Clear() {
	clear(c.pixels)
	c.texts = c.texts[:0]
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, color Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = color
	}
}

// Pixel returns the color at pixel coordinates (y in sub-pixels).
func (c *Canvas) Pixel(x, y int) Color {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return ColorNone
	}
	return c.pixels[y*c.termWidth+x]
}

// ToPixel converts logical coordinates to pixel coordinates.
func (c *Canvas) ToPixel(x, y float64) (int, int) {
	return int(math.Round(x * c.scaleX)), int(math.Round(y * c.scaleY))
}

// drawLine draws a line in pixel space using Bresenham's algorithm.
func (c *Canvas) drawLine(x1, y1, x2, y2 int, color Color) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		c.setPixel(x1, y1, color)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// FillPolygon fills a polygon given in logical coordinates. The outline is
// drawn as well so thin shapes stay visible at low resolution.
func (c *Canvas) FillPolygon(points []Point, color Color) {
	if len(points) < 3 {
		return
	}

	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	for i, p := range points {
		scaled[i] = Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	// Scanline fill, sampling at pixel centers
	n := len(scaled)
	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scanY := float64(y) + 0.5
		intersections := c.intersectionBuf[:0]
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections

		sort.Float64s(intersections)
		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i]))
			xEnd := int(math.Floor(intersections[i+1]))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y, color)
			}
		}
	}

	for i := 0; i < n; i++ {
		p1, p2 := scaled[i], scaled[(i+1)%n]
		c.drawLine(int(math.Round(p1.X)), int(math.Round(p1.Y)), int(math.Round(p2.X)), int(math.Round(p2.Y)), color)
	}
}

// FillRect fills an axis-aligned rectangle given in logical coordinates.
// Every rectangle covers at least one pixel.
func (c *Canvas) FillRect(x, y, w, h float64, color Color) {
	x0, y0 := c.ToPixel(x, y)
	x1, y1 := c.ToPixel(x+w, y+h)
	x1 = max(x1-1, x0)
	y1 = max(y1-1, y0)

	x0, x1 = max(x0, 0), min(x1, c.termWidth-1)
	y0, y1 = max(y0, 0), min(y1, c.subPixelHeight-1)
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			c.pixels[py*c.termWidth+px] = color
		}
	}
}

// FillCircle fills a circle given in logical coordinates. The scale may
// differ per axis, so the test runs in logical space at each pixel center.
func (c *Canvas) FillCircle(cx, cy, r float64, color Color) {
	if c.termWidth == 0 || c.subPixelHeight == 0 {
		return
	}
	x0 := int(math.Floor((cx - r) * c.scaleX))
	x1 := int(math.Ceil((cx + r) * c.scaleX))
	y0 := int(math.Floor((cy - r) * c.scaleY))
	y1 := int(math.Ceil((cy + r) * c.scaleY))

	filled := false
	r2 := r * r
	for py := y0; py <= y1; py++ {
		ly := (float64(py)+0.5)/c.scaleY - cy
		for px := x0; px <= x1; px++ {
			lx := (float64(px)+0.5)/c.scaleX - cx
			if lx*lx+ly*ly <= r2 {
				c.setPixel(px, py, color)
				filled = true
			}
		}
	}
	if !filled {
		px, py := c.ToPixel(cx, cy)
		c.setPixel(px, py, color)
	}
}

// Text places s at a logical position. Text is drawn over pixels and is
// cleared by Clear.
func (c *Canvas) Text(x, y float64, align Align, s string, color Color) {
	col, row := c.ToPixel(x, y)
	row /= 2

	width := len([]rune(s))
	switch align {
	case AlignCenter:
		col -= width / 2
	case AlignRight:
		col -= width
	}
	c.texts = append(c.texts, textItem{col: col, row: row, value: s, color: color})
}

// Compose builds the cell grid from pixels and text. The returned slice is
// owned by the canvas and valid until the next Compose or Render.
func (c *Canvas) Compose() []Cell {
	for row := 0; row < c.termHeight; row++ {
		top := c.pixels[row*2*c.termWidth:]
		bottom := c.pixels[(row*2+1)*c.termWidth:]
		cells := c.cells[row*c.termWidth:]
		for col := 0; col < c.termWidth; col++ {
			cells[col] = pixelCell(top[col], bottom[col])
		}
	}

	for _, t := range c.texts {
		if t.row < 0 || t.row >= c.termHeight {
			continue
		}
		col := t.col
		for _, r := range t.value {
			if col >= 0 && col < c.termWidth {
				c.cells[t.row*c.termWidth+col] = Cell{Rune: r, Fg: t.color}
			}
			col++
		}
	}
	return c.cells
}

// CellAt returns the composed cell at a canvas position (0-based).
// Only meaningful after Compose or Render.
func (c *Canvas) CellAt(col, row int) Cell {
	if col < 0 || col >= c.termWidth || row < 0 || row >= c.termHeight {
		return blankCell
	}
	return c.cells[row*c.termWidth+col]
}

func pixelCell(top, bottom Color) Cell {
	switch {
	case top == ColorNone && bottom == ColorNone:
		return blankCell
	case top == bottom:
		return Cell{Rune: BlockFull, Fg: top}
	case bottom == ColorNone:
		return Cell{Rune: BlockUpperHalf, Fg: top}
	case top == ColorNone:
		return Cell{Rune: BlockLowerHalf, Fg: bottom}
	default:
		return Cell{Rune: BlockUpperHalf, Fg: top, Bg: bottom}
	}
}

// Render composes the frame and writes the cells that changed since the
// previous Render as ANSI sequences.
func (c *Canvas) Render(w io.Writer) error {
	cells := c.Compose()

	c.renderBuf.Reset()
	lastRow, lastCol := -1, -1
	for i, cell := range cells {
		if !c.forceRedraw && cell == c.prev[i] {
			continue
		}
		row, col := i/c.termWidth, i%c.termWidth
		if row != lastRow || col != lastCol+1 {
			c.moveCursor(row+1+c.offsetRow, col+1+c.offsetCol)
		}
		c.writeStyle(cell)
		c.renderBuf.WriteRune(cell.Rune)
		lastRow, lastCol = row, col
	}
	if c.renderBuf.Len() > 0 {
		c.renderBuf.WriteString("\033[0m")
	}

	copy(c.prev, cells)
	c.forceRedraw = false

	_, err := io.WriteString(w, c.renderBuf.String())
	return err
}

func (c *Canvas) moveCursor(row, col int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

func (c *Canvas) writeStyle(cell Cell) {
	c.renderBuf.WriteString("\033[0;")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(ansiFg[cell.Fg]), 10))
	if cell.Bg != ColorNone {
		c.renderBuf.WriteByte(';')
		c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(ansiFg[cell.Bg]+10), 10))
	}
	c.renderBuf.WriteByte('m')
}

// FitTerminal picks the largest render area inside the terminal that is at
// most maxW x maxH cells and keeps the logical aspect ratio (width/height)
// with half-block pixels. The offsets center the area.
func FitTerminal(termW, termH, maxW, maxH int, aspect float64) (w, h, offCol, offRow int) {
	w = min(termW, maxW)
	h = min(termH, maxH)
	if aspect > 0 && h > 0 {
		// Sub-pixels are roughly square, so width/(2*height) should equal aspect.
		if want := int(math.Round(float64(2*h) * aspect)); w > want {
			w = want
		} else {
			h = int(math.Round(float64(w) / aspect / 2))
		}
	}
	w = max(w, 0)
	h = max(h, 0)
	offCol = max((termW-w)/2, 0)
	offRow = max((termH-h)/2, 0)
	return w, h, offCol, offRow
}
