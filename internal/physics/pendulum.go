package physics

import (
	"math"

	"github.com/san-kum/oscillab/internal/dynamo"
)

// SmallAngleLimitDeg is the largest release angle for which the linearized
// pendulum stays within about 1% of the true period and energy.
const SmallAngleLimitDeg = 15.0

// Pendulum is a simple pendulum linearized around the rest position.
type Pendulum struct {
	Length   float64
	Gravity  float64
	AngleDeg float64
}

func NewPendulum(p dynamo.Params) *Pendulum {
	return &Pendulum{
		Length:   p.PendulumLength,
		Gravity:  p.Gravity,
		AngleDeg: p.PendulumAngleDeg,
	}
}

func (p *Pendulum) Mode() dynamo.Mode { return dynamo.ModePendulum }

func (p *Pendulum) Omega() float64 {
	return math.Sqrt(p.Gravity / p.Length)
}

// Peak is the release angle in radians.
func (p *Pendulum) Peak() float64 {
	return p.AngleDeg * math.Pi / 180
}

// Energy per unit mass, 0.5·g·L·θ0².
func (p *Pendulum) Energy() float64 {
	theta0 := p.Peak()
	return 0.5 * p.Gravity * p.Length * theta0 * theta0
}

func (p *Pendulum) checkDomain() error {
	if !positive(p.Length) {
		return &dynamo.DomainError{Mode: dynamo.ModePendulum, Quantity: "pendulumLength", Value: p.Length}
	}
	if !positive(p.Gravity) {
		return &dynamo.DomainError{Mode: dynamo.ModePendulum, Quantity: "gravity", Value: p.Gravity}
	}
	return nil
}

// SmallAngleValid reports whether the pendulum energy formula is within
// its accuracy range for p.
func SmallAngleValid(p dynamo.Params) bool {
	return math.Abs(p.PendulumAngleDeg) <= SmallAngleLimitDeg
}
