package loop

import (
	"fmt"
	"math"
	"time"

	"github.com/tomz197/skyfall/internal/draw"
	"github.com/tomz197/skyfall/internal/sim"
)

// lineHeight is one text row in logical units at full render resolution.
const lineHeight = 16.0

var menuControls = map[sim.Variant][]string{
	sim.VariantClassic: {
		"Left/Right or A/D  move",
		"Space/W/Up         fire",
	},
	sim.VariantRotating: {
		"Left/Right or A/D  move",
		"Z/J  X/L           rotate",
		"Space/W/Up         fire",
		"Escaped enemies cost 10 points",
	},
}

// drawMenuScreen draws the title screen.
func drawMenuScreen(c *draw.Canvas, w *sim.World) {
	c.Clear()
	cx, cy := w.View.CenterX(), w.View.CenterY()

	y := cy - 5*lineHeight
	c.Text(cx, y, draw.AlignCenter, "S K Y F A L L", draw.ColorGreen)
	y += 2 * lineHeight
	c.Text(cx, y, draw.AlignCenter, fmt.Sprintf("%s mode", w.Variant), draw.ColorYellow)
	y += 2 * lineHeight

	for _, line := range menuControls[w.Variant] {
		c.Text(cx, y, draw.AlignCenter, line, draw.ColorWhite)
		y += lineHeight
	}

	y += lineHeight
	c.Text(cx, y, draw.AlignCenter, "Press ENTER to start", draw.ColorWhite)
	y += lineHeight
	c.Text(cx, y, draw.AlignCenter, "Q or ESC to quit", draw.ColorWhite)
}

// drawGameOverPrompt draws the restart prompt below the game over banner.
func drawGameOverPrompt(c *draw.Canvas, w *sim.World) {
	cx, cy := w.View.CenterX(), w.View.CenterY()
	c.Text(cx, cy+2*lineHeight, draw.AlignCenter, fmt.Sprintf("Final score: %d", w.Score), draw.ColorYellow)
	c.Text(cx, cy+4*lineHeight, draw.AlignCenter, "ENTER to play again, Q to quit", draw.ColorWhite)
}

// drawShutdownScreen draws the server shutdown notice with a countdown.
func drawShutdownScreen(c *draw.Canvas, w *sim.World, remaining time.Duration) {
	c.Clear()
	cx, cy := w.View.CenterX(), w.View.CenterY()
	secs := int(math.Ceil(max(remaining, 0).Seconds()))
	c.Text(cx, cy-lineHeight, draw.AlignCenter, "SERVER SHUTTING DOWN", draw.ColorRed)
	c.Text(cx, cy+lineHeight, draw.AlignCenter, fmt.Sprintf("Disconnecting in %d...", secs), draw.ColorWhite)
}
