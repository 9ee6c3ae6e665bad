// Package draw rasterizes shapes onto a terminal canvas and presents it.
package draw

import (
	"fmt"
	"io"
)

// Point represents a 2D coordinate in logical units.
type Point struct {
	X, Y float64
}

// Color is a palette index. ColorNone marks an empty pixel.
type Color uint8

const (
	ColorNone Color = iota
	ColorWhite
	ColorGreen
	ColorRed
	ColorYellow
)

// ansiFg holds the SGR foreground code for each color.
var ansiFg = [...]int{
	ColorNone:   39,
	ColorWhite:  97,
	ColorGreen:  92,
	ColorRed:    91,
	ColorYellow: 93,
}

// Align anchors text relative to its position.
type Align int

const (
	AlignLeft   Align = iota // Text starts at the position
	AlignCenter              // Text is centered on the position
	AlignRight               // Text ends at the position
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

// ResetStyle resets colors and attributes.
func ResetStyle(w io.Writer) {
	fmt.Fprint(w, "\033[0m")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
