package sim

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/oscillab/internal/buffer"
	"github.com/san-kum/oscillab/internal/dynamo"
)

type State int

const (
	Idle State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// FrameHandle identifies one outstanding frame request.
type FrameHandle uint64

type Scheduler interface {
	RequestFrame() FrameHandle
	CancelFrame(FrameHandle)
}

// Body is where the painter drew the oscillating mass, in whatever
// coordinates the host uses for pointer input.
type Body struct {
	X, Y   float64
	Radius float64
}

type Painter interface {
	// Paint draws the body at a displacement in meters (spring) or
	// radians (pendulum).
	Paint(mode dynamo.Mode, displacement float64) Body
}

type Axis struct {
	Min, Max float64
}

func (a Axis) Span() float64 { return a.Max - a.Min }

type SignalChart struct {
	Signal    dynamo.Signal
	Samples   []dynamo.Sample
	KeyPoints dynamo.KeyPoints
	Axis      Axis
}

type ChartData struct {
	Mode        dynamo.Mode
	Time        float64
	WindowStart float64
	WindowEnd   float64
	Charts      [3]SignalChart
}

type Charter interface {
	Chart(ChartData)
}

// Frame is what observers see once per advanced frame.
type Frame struct {
	Delta      float64
	Kinematics dynamo.Kinematics
}

type Observer interface {
	OnFrame(Frame)
}

type ObserverFunc func(Frame)

func (f ObserverFunc) OnFrame(fr Frame) { f(fr) }

type Options struct {
	Mode          dynamo.Mode
	Window        float64
	Margin        float64
	TimeScale     float64
	MaxFrameDelta float64
	Logger        *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Mode:          dynamo.ModeSpring,
		Window:        10,
		Margin:        buffer.DefaultMargin,
		TimeScale:     1,
		MaxFrameDelta: 0.1,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Window <= 0 {
		o.Window = def.Window
	}
	if o.Margin < 0 {
		o.Margin = def.Margin
	}
	if o.TimeScale <= 0 {
		o.TimeScale = def.TimeScale
	}
	if o.MaxFrameDelta <= 0 {
		o.MaxFrameDelta = def.MaxFrameDelta
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
