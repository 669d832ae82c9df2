package physics

import (
	"math"

	"github.com/san-kum/oscillab/internal/dynamo"
)

// Oscillator reduces a physical model to the constants of its sinusoid.
type Oscillator interface {
	Mode() dynamo.Mode
	Omega() float64
	Peak() float64
	Energy() float64
}

// For returns the oscillator selected by mode.
func For(mode dynamo.Mode, p dynamo.Params) Oscillator {
	if mode == dynamo.ModePendulum {
		return NewPendulum(p)
	}
	return NewSpring(p)
}

func Omega(mode dynamo.Mode, p dynamo.Params) float64 {
	return For(mode, p).Omega()
}

func Period(mode dynamo.Mode, p dynamo.Params) float64 {
	return 2 * math.Pi / Omega(mode, p)
}

func Frequency(mode dynamo.Mode, p dynamo.Params) float64 {
	return 1 / Period(mode, p)
}

// Amplitude is the displacement amplitude: meters for the spring,
// radians for the pendulum.
func Amplitude(mode dynamo.Mode, p dynamo.Params) float64 {
	return For(mode, p).Peak()
}

func Energy(mode dynamo.Mode, p dynamo.Params) float64 {
	return For(mode, p).Energy()
}

func Position(mode dynamo.Mode, p dynamo.Params, t float64) float64 {
	o := For(mode, p)
	return o.Peak() * math.Cos(o.Omega()*t+p.Phase)
}

func Velocity(mode dynamo.Mode, p dynamo.Params, t float64) float64 {
	o := For(mode, p)
	w := o.Omega()
	return -o.Peak() * w * math.Sin(w*t+p.Phase)
}

func Acceleration(mode dynamo.Mode, p dynamo.Params, t float64) float64 {
	o := For(mode, p)
	w := o.Omega()
	return -o.Peak() * w * w * math.Cos(w*t+p.Phase)
}

// Evaluate computes all three signals at t with a single sin/cos pair.
func Evaluate(mode dynamo.Mode, p dynamo.Params, t float64) dynamo.Kinematics {
	o := For(mode, p)
	a, w := o.Peak(), o.Omega()
	sin, cos := math.Sincos(w*t + p.Phase)
	return dynamo.Kinematics{
		Time:         t,
		Position:     a * cos,
		Velocity:     -a * w * sin,
		Acceleration: -a * w * w * cos,
	}
}

func Value(s dynamo.Signal, mode dynamo.Mode, p dynamo.Params, t float64) float64 {
	return Evaluate(mode, p, t).Get(s)
}

// Peak returns the largest magnitude a signal reaches: A, A·ω or A·ω².
func Peak(s dynamo.Signal, mode dynamo.Mode, p dynamo.Params) float64 {
	o := For(mode, p)
	a, w := o.Peak(), o.Omega()
	switch s {
	case dynamo.SignalVelocity:
		return a * w
	case dynamo.SignalAcceleration:
		return a * w * w
	default:
		return a
	}
}

// TimeForPosition solves x(t0) = target for the drag gesture. The ratio
// target/A is clamped to [-1, 1] and the result is the canonical root in
// [0, period).
func TimeForPosition(mode dynamo.Mode, p dynamo.Params, target float64) float64 {
	o := For(mode, p)
	a, w := o.Peak(), o.Omega()

	ratio := 1.0
	if a != 0 {
		ratio = clamp(target/a, -1, 1)
	}

	period := 2 * math.Pi / w
	t0 := (math.Acos(ratio) - p.Phase) / w
	t0 = math.Mod(t0, period)
	if t0 < 0 {
		t0 += period
	}
	if t0 >= period {
		t0 = 0
	}
	return t0
}

// CheckDomain reports whether ω is defined for p.
func CheckDomain(mode dynamo.Mode, p dynamo.Params) error {
	if mode == dynamo.ModePendulum {
		return NewPendulum(p).checkDomain()
	}
	return NewSpring(p).checkDomain()
}

// Summary collects the derived quantities of one oscillator.
type Summary struct {
	Mode       dynamo.Mode `json:"mode"`
	Omega      float64     `json:"omega"`
	Period     float64     `json:"period"`
	Frequency  float64     `json:"frequency"`
	Amplitude  float64     `json:"amplitude"`
	Energy     float64     `json:"energy"`
	SmallAngle bool        `json:"smallAngle"`
}

func Describe(mode dynamo.Mode, p dynamo.Params) Summary {
	o := For(mode, p)
	w := o.Omega()
	period := 2 * math.Pi / w
	return Summary{
		Mode:       mode,
		Omega:      w,
		Period:     period,
		Frequency:  1 / period,
		Amplitude:  o.Peak(),
		Energy:     o.Energy(),
		SmallAngle: mode != dynamo.ModePendulum || SmallAngleValid(p),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
