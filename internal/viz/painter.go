package viz

import (
	"math"

	"github.com/san-kum/oscillab/internal/dynamo"
	"github.com/san-kum/oscillab/internal/sim"
)

const (
	// largest spring amplitude the scene is sized for, in meters
	maxSpringTravel = 0.5
	bobRadius       = 3
	massHalfSize    = 4
	// extra sub-pixels of slack around the body for pointer hits
	hitSlack = 3
)

// CanvasPainter draws the oscillator onto a braille canvas. Body positions
// are reported in sub-pixels.
type CanvasPainter struct {
	canvas *Canvas
}

func NewCanvasPainter(w, h int) *CanvasPainter {
	return &CanvasPainter{canvas: NewCanvas(w, h)}
}

func (p *CanvasPainter) Canvas() *Canvas { return p.canvas }

func (p *CanvasPainter) Resize(w, h int) { p.canvas.Resize(w, h) }

func (p *CanvasPainter) Paint(mode dynamo.Mode, displacement float64) sim.Body {
	p.canvas.Clear()
	if mode == dynamo.ModePendulum {
		return p.paintPendulum(displacement)
	}
	return p.paintSpring(displacement)
}

// DisplacementAt inverts Paint: it maps a sub-pixel position to meters
// (spring) or radians (pendulum).
func (p *CanvasPainter) DisplacementAt(mode dynamo.Mode, x, y float64) float64 {
	if mode == dynamo.ModePendulum {
		px, py, _ := p.pendulumGeometry()
		return math.Atan2(x-float64(px), y-float64(py))
	}
	rest, _, scale := p.springGeometry()
	return (x - float64(rest)) / scale
}

func (p *CanvasPainter) springGeometry() (rest, cy int, pxPerMeter float64) {
	w := p.canvas.SubWidth()
	rest = w / 2
	cy = p.canvas.SubHeight() / 2
	travel := float64(rest - 12 - massHalfSize)
	if travel < 1 {
		travel = 1
	}
	return rest, cy, travel / maxSpringTravel
}

func (p *CanvasPainter) paintSpring(x float64) sim.Body {
	c := p.canvas
	rest, cy, scale := p.springGeometry()
	wallX := 2

	c.DrawLine(wallX, cy-10, wallX, cy+10)
	c.DrawLine(0, cy+massHalfSize+2, c.SubWidth()-1, cy+massHalfSize+2)

	// equilibrium marker
	for y := cy - massHalfSize - 4; y <= cy+massHalfSize+2; y += 2 {
		c.Set(rest, y)
	}

	massX := rest + int(math.Round(x*scale))
	c.FillRect(massX-massHalfSize, cy-massHalfSize, massX+massHalfSize, cy+massHalfSize)

	coils := 12
	dist := massX - massHalfSize - wallX
	prevX, prevY := wallX, cy
	step := float64(dist) / float64(coils)
	for i := 1; i < coils; i++ {
		currX, currY := wallX+int(float64(i)*step), cy+4
		if i%2 == 0 {
			currY = cy - 4
		}
		c.DrawLine(prevX, prevY, currX, currY)
		prevX, prevY = currX, currY
	}
	c.DrawLine(prevX, prevY, massX-massHalfSize, cy)

	return sim.Body{X: float64(massX), Y: float64(cy), Radius: massHalfSize + hitSlack}
}

func (p *CanvasPainter) pendulumGeometry() (px, py int, length float64) {
	px = p.canvas.SubWidth() / 2
	py = 2
	return px, py, float64(p.canvas.SubHeight()-py-bobRadius-2) * 0.9
}

func (p *CanvasPainter) paintPendulum(theta float64) sim.Body {
	c := p.canvas
	px, py, length := p.pendulumGeometry()

	c.DrawLine(px-8, py-1, px+8, py-1)
	for y := py; y < py+int(length); y += 3 {
		c.Set(px, y)
	}

	bx := px + int(math.Round(length*math.Sin(theta)))
	by := py + int(math.Round(length*math.Cos(theta)))
	c.DrawLine(px, py, bx, by)
	c.FillDisc(bx, by, bobRadius)

	return sim.Body{X: float64(bx), Y: float64(by), Radius: bobRadius + hitSlack}
}
