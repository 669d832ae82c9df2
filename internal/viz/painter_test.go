package viz

import (
	"math"
	"testing"

	"github.com/san-kum/oscillab/internal/dynamo"
)

func lit(c *Canvas, x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func TestSpringPaintRoundTrip(t *testing.T) {
	p := NewCanvasPainter(60, 12)

	for _, x := range []float64{-0.3, 0, 0.15, 0.5} {
		body := p.Paint(dynamo.ModeSpring, x)
		if !lit(p.Canvas(), int(body.X), int(body.Y)) {
			t.Errorf("x=%f: expected mass drawn at body position", x)
		}
		got := p.DisplacementAt(dynamo.ModeSpring, body.X, body.Y)
		if math.Abs(got-x) > 0.01 {
			t.Errorf("x=%f: round trip gave %f", x, got)
		}
	}
}

func TestPendulumPaintRoundTrip(t *testing.T) {
	p := NewCanvasPainter(60, 12)

	for _, theta := range []float64{-0.5, 0, 0.1745, 0.7} {
		body := p.Paint(dynamo.ModePendulum, theta)
		if !lit(p.Canvas(), int(body.X), int(body.Y)) {
			t.Errorf("theta=%f: expected bob drawn at body position", theta)
		}
		got := p.DisplacementAt(dynamo.ModePendulum, body.X, body.Y)
		if math.Abs(got-theta) > 0.05 {
			t.Errorf("theta=%f: round trip gave %f", theta, got)
		}
	}
}

func TestPaintMovesBody(t *testing.T) {
	p := NewCanvasPainter(60, 12)
	left := p.Paint(dynamo.ModeSpring, -0.1)
	right := p.Paint(dynamo.ModeSpring, 0.1)
	if right.X <= left.X {
		t.Errorf("positive displacement should move right: %f <= %f", right.X, left.X)
	}
	if left.Radius <= 0 {
		t.Error("body radius should be positive")
	}
}

func TestCanvas(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)
	c.Set(-1, 3)
	c.Set(100, 0)

	if !lit(c, 0, 0) || !lit(c, 7, 7) {
		t.Error("expected set dots to be lit")
	}
	if lit(c, 1, 0) {
		t.Error("unexpected lit dot")
	}
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected braille dot 1, got %U", c.Grid[0][0])
	}

	c.Resize(6, 3)
	if c.SubWidth() != 12 || c.SubHeight() != 12 || lit(c, 0, 0) {
		t.Error("resize should reallocate a blank grid")
	}

	c.FillRect(0, 0, 1, 3)
	if c.Grid[0][0] != 0x28FF {
		t.Errorf("expected full cell, got %U", c.Grid[0][0])
	}
	c.Clear()
	if lit(c, 0, 0) {
		t.Error("clear should blank the canvas")
	}
}

func TestFrameScheduler(t *testing.T) {
	s := newFrameScheduler(60)

	h1 := s.RequestFrame()
	h2 := s.RequestFrame()
	if s.accept(h1) {
		t.Error("superseded handle must be rejected")
	}
	if !s.accept(h2) {
		t.Error("live handle should be accepted")
	}
	if s.accept(h2) {
		t.Error("a handle is accepted only once")
	}

	h3 := s.RequestFrame()
	s.CancelFrame(h3)
	if s.accept(h3) {
		t.Error("cancelled handle must be rejected")
	}

	if s.drain() == nil {
		t.Error("expected queued tick commands")
	}
	if s.drain() != nil {
		t.Error("drain should empty the queue")
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != Themes[0].Name {
		t.Error("unknown theme should fall back to the first")
	}
	if NextTheme("sunset").Name != "cyberpunk" {
		t.Error("NextTheme should wrap")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("ThemeNames length mismatch")
	}
	if ThemeOcean.SignalColor(dynamo.Signal(9)) != ThemeOcean.Text {
		t.Error("unknown signal should use the text color")
	}
}
