package physics

import (
	"math"

	"github.com/san-kum/oscillab/internal/dynamo"
)

// Spring is an undamped mass on an ideal spring.
type Spring struct {
	Mass      float64
	Stiffness float64
	Amplitude float64
}

func NewSpring(p dynamo.Params) *Spring {
	return &Spring{
		Mass:      p.Mass,
		Stiffness: p.SpringConstant,
		Amplitude: p.Amplitude,
	}
}

func (s *Spring) Mode() dynamo.Mode { return dynamo.ModeSpring }

func (s *Spring) Omega() float64 {
	return math.Sqrt(s.Stiffness / s.Mass)
}

func (s *Spring) Peak() float64 { return s.Amplitude }

// Energy is the total mechanical energy, 0.5·k·A².
func (s *Spring) Energy() float64 {
	return 0.5 * s.Stiffness * s.Amplitude * s.Amplitude
}

func (s *Spring) checkDomain() error {
	if !positive(s.Mass) {
		return &dynamo.DomainError{Mode: dynamo.ModeSpring, Quantity: "mass", Value: s.Mass}
	}
	if !positive(s.Stiffness) {
		return &dynamo.DomainError{Mode: dynamo.ModeSpring, Quantity: "springConstant", Value: s.Stiffness}
	}
	return nil
}
