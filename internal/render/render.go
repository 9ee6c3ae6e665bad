// Package render projects a world onto a drawing surface.
package render

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/tomz197/skyfall/internal/draw"
	"github.com/tomz197/skyfall/internal/loop/config"
	"github.com/tomz197/skyfall/internal/sim"
)

//go:generate go tool mockgen -destination=./mocks/surface_mock.go -package=mocks . Surface

// Surface is a drawing target in logical viewport coordinates.
// *draw.Canvas implements it.
type Surface interface {
	Clear()
	FillPolygon(points []draw.Point, c draw.Color)
	FillCircle(cx, cy, r float64, c draw.Color)
	FillRect(x, y, w, h float64, c draw.Color)
	Text(x, y float64, align draw.Align, s string, c draw.Color)
}

var _ Surface = (*draw.Canvas)(nil)

const (
	shipColor   = draw.ColorWhite
	bulletColor = draw.ColorWhite
	enemyColor  = draw.ColorGreen
	debrisColor = draw.ColorYellow
	textColor   = draw.ColorWhite
	overColor   = draw.ColorRed
)

// Renderer draws worlds. The zero value is ready to use.
type Renderer struct {
	ship []draw.Point // reused triangle buffer
}

// Draw clears s and draws w in back-to-front order: ship, bullets,
// enemies, debris, score, clock (rotating variant) and the game over banner.
func (r *Renderer) Draw(w *sim.World, s Surface) {
	s.Clear()

	s.FillPolygon(r.shipPoints(w), shipColor)

	scale := BulletScale(w.Variant)
	for _, b := range w.Bullets {
		s.FillCircle(b.X, b.Y, b.Radius*scale, bulletColor)
	}

	for _, e := range w.Enemies {
		s.FillRect(e.X, e.Y, e.Width, e.Height, enemyColor)
	}

	const half = config.DebrisSize / 2
	for _, d := range w.Debris {
		s.FillRect(d.X-half, d.Y-half, config.DebrisSize, config.DebrisSize, debrisColor)
	}

	s.Text(w.View.Width-100, 30, draw.AlignLeft, "Score: "+strconv.Itoa(w.Score), textColor)

	if w.Variant == sim.VariantRotating {
		s.Text(10, 30, draw.AlignLeft, FormatElapsed(w.Elapsed), textColor)
	}

	if w.Status == sim.StatusGameOver {
		s.Text(w.View.CenterX(), w.View.CenterY(), draw.AlignCenter, "Game Over", overColor)
	}
}

// shipPoints returns the ship triangle. The classic ship points straight up
// from its base line; the rotating ship turns about its center.
func (r *Renderer) shipPoints(w *sim.World) []draw.Point {
	p := w.Player
	r.ship = r.ship[:0]

	if w.Variant != sim.VariantRotating {
		r.ship = append(r.ship,
			draw.Point{X: p.X, Y: p.Y},
			draw.Point{X: p.X + p.Size, Y: p.Y},
			draw.Point{X: p.X + p.Size/2, Y: p.Y - p.Size},
		)
		return r.ship
	}

	cx, cy := p.CenterX(), p.CenterY()
	sin, cos := math.Sincos(p.Angle)
	local := [3]draw.Point{
		{X: -p.Size / 2, Y: 0},
		{X: p.Size / 2, Y: 0},
		{X: 0, Y: -p.Size},
	}
	for _, v := range local {
		r.ship = append(r.ship, draw.Point{
			X: cx + v.X*cos - v.Y*sin,
			Y: cy + v.X*sin + v.Y*cos,
		})
	}
	return r.ship
}

// BulletScale is the cosmetic radius factor for bullets. It never affects
// collision.
func BulletScale(v sim.Variant) float64 {
	if v == sim.VariantRotating {
		return config.BulletDrawScaleRotating
	}
	return config.BulletDrawScaleClassic
}

// FormatElapsed formats d as MM:SS with seconds truncated.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
