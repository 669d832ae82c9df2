package dynamo

import (
	"fmt"
	"math"
	"strings"
)

type Mode int

const (
	ModeSpring Mode = iota
	ModePendulum
)

func (m Mode) String() string {
	switch m {
	case ModeSpring:
		return "spring"
	case ModePendulum:
		return "pendulum"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Toggle returns the other oscillator.
func (m Mode) Toggle() Mode {
	if m == ModeSpring {
		return ModePendulum
	}
	return ModeSpring
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spring", "spring_mass":
		return ModeSpring, nil
	case "pendulum":
		return ModePendulum, nil
	default:
		return ModeSpring, fmt.Errorf("unknown mode: %s", s)
	}
}

type Field string

const (
	FieldMass           Field = "mass"
	FieldSpringConstant Field = "springConstant"
	FieldAmplitude      Field = "amplitude"
	FieldLength         Field = "pendulumLength"
	FieldAngle          Field = "pendulumAngle"
	FieldGravity        Field = "gravity"
	FieldPhase          Field = "phase"
)

// AllFields lists every parameter in display order.
var AllFields = []Field{
	FieldMass,
	FieldSpringConstant,
	FieldAmplitude,
	FieldLength,
	FieldAngle,
	FieldGravity,
	FieldPhase,
}

func ParseField(s string) (Field, error) {
	for _, f := range AllFields {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownField, s)
}

// Unit returns the display unit of a field.
func (f Field) Unit() string {
	switch f {
	case FieldMass:
		return "kg"
	case FieldSpringConstant:
		return "N/m"
	case FieldAmplitude, FieldLength:
		return "m"
	case FieldAngle:
		return "deg"
	case FieldGravity:
		return "m/s²"
	case FieldPhase:
		return "rad"
	default:
		return ""
	}
}

// Params holds the physical parameters of both oscillators. Values are
// assumed valid; range checks live at the input boundary.
type Params struct {
	Mass             float64 `yaml:"mass" json:"mass"`
	SpringConstant   float64 `yaml:"spring_constant" json:"springConstant"`
	Amplitude        float64 `yaml:"amplitude" json:"amplitude"`
	PendulumLength   float64 `yaml:"pendulum_length" json:"pendulumLength"`
	PendulumAngleDeg float64 `yaml:"pendulum_angle" json:"pendulumAngle"`
	Gravity          float64 `yaml:"gravity" json:"gravity"`
	Phase            float64 `yaml:"phase" json:"phase"`
}

func DefaultParams() Params {
	return Params{
		Mass:             1.0,
		SpringConstant:   40.0,
		Amplitude:        0.15,
		PendulumLength:   1.5,
		PendulumAngleDeg: 10.0,
		Gravity:          9.8,
		Phase:            0.0,
	}
}

func (p Params) Get(f Field) (float64, error) {
	switch f {
	case FieldMass:
		return p.Mass, nil
	case FieldSpringConstant:
		return p.SpringConstant, nil
	case FieldAmplitude:
		return p.Amplitude, nil
	case FieldLength:
		return p.PendulumLength, nil
	case FieldAngle:
		return p.PendulumAngleDeg, nil
	case FieldGravity:
		return p.Gravity, nil
	case FieldPhase:
		return p.Phase, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownField, f)
}

// With returns a copy of p with one field replaced.
func (p Params) With(f Field, v float64) (Params, error) {
	switch f {
	case FieldMass:
		p.Mass = v
	case FieldSpringConstant:
		p.SpringConstant = v
	case FieldAmplitude:
		p.Amplitude = v
	case FieldLength:
		p.PendulumLength = v
	case FieldAngle:
		p.PendulumAngleDeg = v
	case FieldGravity:
		p.Gravity = v
	case FieldPhase:
		p.Phase = v
	default:
		return p, fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	return p, nil
}

type Signal int

const (
	SignalPosition Signal = iota
	SignalVelocity
	SignalAcceleration
)

// Signals lists the three charted signals.
var Signals = []Signal{SignalPosition, SignalVelocity, SignalAcceleration}

func (s Signal) String() string {
	switch s {
	case SignalPosition:
		return "position"
	case SignalVelocity:
		return "velocity"
	case SignalAcceleration:
		return "acceleration"
	default:
		return fmt.Sprintf("signal(%d)", int(s))
	}
}

func ParseSignal(s string) (Signal, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "position", "pos", "x":
		return SignalPosition, nil
	case "velocity", "vel", "v":
		return SignalVelocity, nil
	case "acceleration", "acc", "a":
		return SignalAcceleration, nil
	default:
		return SignalPosition, fmt.Errorf("unknown signal: %s", s)
	}
}

// Unit returns the unit of a signal in the given mode.
func (s Signal) Unit(m Mode) string {
	base := "m"
	if m == ModePendulum {
		base = "rad"
	}
	switch s {
	case SignalVelocity:
		return base + "/s"
	case SignalAcceleration:
		return base + "/s²"
	default:
		return base
	}
}

type Sample struct {
	Time  float64 `json:"t"`
	Value float64 `json:"v"`
}

type KeyPointKind int

const (
	Maximum KeyPointKind = iota
	Minimum
	ZeroCrossing
)

func (k KeyPointKind) String() string {
	switch k {
	case Maximum:
		return "max"
	case Minimum:
		return "min"
	case ZeroCrossing:
		return "zero"
	default:
		return "unknown"
	}
}

type KeyPoint struct {
	Time  float64      `json:"t"`
	Value float64      `json:"v"`
	Kind  KeyPointKind `json:"kind"`
}

// KeyPoints groups the annotated points of one signal.
type KeyPoints struct {
	Maxima []KeyPoint `json:"maxima"`
	Minima []KeyPoint `json:"minima"`
	Zeros  []KeyPoint `json:"zeros"`
}

func (k KeyPoints) Len() int {
	return len(k.Maxima) + len(k.Minima) + len(k.Zeros)
}

// Kinematics is the state of the oscillator at one instant.
type Kinematics struct {
	Time         float64 `json:"t"`
	Position     float64 `json:"position"`
	Velocity     float64 `json:"velocity"`
	Acceleration float64 `json:"acceleration"`
}

func (k Kinematics) Get(s Signal) float64 {
	switch s {
	case SignalVelocity:
		return k.Velocity
	case SignalAcceleration:
		return k.Acceleration
	default:
		return k.Position
	}
}

func (k Kinematics) IsValid() bool {
	for _, v := range []float64{k.Time, k.Position, k.Velocity, k.Acceleration} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
