// Package sim drives the oscillator animation frame by frame.
package sim

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/san-kum/oscillab/internal/analysis"
	"github.com/san-kum/oscillab/internal/buffer"
	"github.com/san-kum/oscillab/internal/dynamo"
	"github.com/san-kum/oscillab/internal/params"
	"github.com/san-kum/oscillab/internal/physics"
)

const axisHeadroom = 1.2

// Driver owns the clock, the sample buffer and the parameter store of one
// visualization. It is not safe for concurrent use; the host calls it from
// a single loop.
type Driver struct {
	id   uuid.UUID
	opts Options
	log  *slog.Logger

	store   *params.Store
	sched   Scheduler
	painter Painter
	charter Charter

	observers []Observer

	state State
	mode  dynamo.Mode
	clock Clock
	buf   *buffer.Manager
	axes  [3]Axis
	body  Body

	handle       FrameHandle
	framePending bool

	dragging   bool
	wasRunning bool
}

// New builds an idle driver. painter and charter may be nil for headless
// use.
func New(opts Options, store *params.Store, sched Scheduler, painter Painter, charter Charter) *Driver {
	opts = opts.withDefaults()
	id := uuid.New()

	d := &Driver{
		id:      id,
		opts:    opts,
		log:     opts.Logger.With("driver", id.String()),
		store:   store,
		sched:   sched,
		painter: painter,
		charter: charter,
		mode:    opts.Mode,
		clock:   Clock{TimeScale: opts.TimeScale},
		buf:     buffer.New(opts.Window, opts.Margin),
	}
	d.recomputeAxes()
	d.log.Debug("driver created", "mode", d.mode, "window", opts.Window, "time_scale", opts.TimeScale)
	return d
}

func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

func (d *Driver) ID() uuid.UUID           { return d.id }
func (d *Driver) State() State            { return d.state }
func (d *Driver) Mode() dynamo.Mode       { return d.mode }
func (d *Driver) Clock() Clock            { return d.clock }
func (d *Driver) Params() dynamo.Params   { return d.store.Params() }
func (d *Driver) Store() *params.Store    { return d.store }
func (d *Driver) Buffer() *buffer.Manager { return d.buf }
func (d *Driver) Axes() [3]Axis           { return d.axes }
func (d *Driver) LastFrame() float64      { return d.clock.LastFrame }
func (d *Driver) Body() Body              { return d.body }
func (d *Driver) Options() Options        { return d.opts }
func (d *Driver) Dragging() bool          { return d.dragging }

// WasRunning reports whether the driver was running when the current (or
// last) drag began.
func (d *Driver) WasRunning() bool { return d.wasRunning }

func (d *Driver) Axis(s dynamo.Signal) Axis {
	if s < 0 || int(s) >= len(d.axes) {
		return Axis{}
	}
	return d.axes[s]
}

// Start moves an idle or paused driver to Running. The next tick only
// seeds the frame clock.
func (d *Driver) Start() error {
	if d.state == Running {
		return nil
	}
	if !d.store.CanStart() {
		var err error = dynamo.ErrCannotStart
		if invalid := d.store.Invalid(); len(invalid) > 0 {
			err = fmt.Errorf("%w: %w", dynamo.ErrCannotStart, invalid[0])
		}
		d.log.Warn("start refused", "error", err)
		return err
	}

	from := d.state
	d.state = Running
	d.dragging = false
	d.clock.Running = true
	d.clock.unseed()
	d.request()
	d.log.Info("started", "from", from, "elapsed", d.clock.Elapsed)
	return nil
}

func (d *Driver) Pause() {
	if d.state != Running {
		return
	}
	d.cancel()
	d.state = Paused
	d.clock.Running = false
	d.log.Info("paused", "elapsed", d.clock.Elapsed)
}

// Reset returns to Idle at time zero with empty series.
func (d *Driver) Reset() {
	d.cancel()
	d.state = Idle
	d.dragging = false
	d.clock.reset()
	d.buf.Clear()
	d.Render()
	d.log.Info("reset", "mode", d.mode)
}

// Tick advances the simulation by one host frame.
func (d *Driver) Tick(ts float64) {
	if d.state != Running || !d.framePending {
		return
	}
	d.framePending = false

	if !d.clock.Seeded() {
		d.clock.advance(ts, d.opts.MaxFrameDelta)
		d.request()
		return
	}

	delta := d.clock.advance(ts, d.opts.MaxFrameDelta)
	k := physics.Evaluate(d.mode, d.store.Params(), d.clock.Elapsed)
	if !k.IsValid() {
		d.log.Error("invalid kinematics, pausing", "time", k.Time)
		d.state = Paused
		d.clock.Running = false
		return
	}

	d.buf.AppendKinematics(k)
	d.draw(k)

	frame := Frame{Delta: delta, Kinematics: k}
	for _, o := range d.observers {
		o.OnFrame(frame)
	}

	d.request()
}

// Render repaints at the current elapsed time without advancing the clock
// or touching the buffer.
func (d *Driver) Render() {
	d.draw(physics.Evaluate(d.mode, d.store.Params(), d.clock.Elapsed))
}

func (d *Driver) SetMode(m dynamo.Mode) {
	if m != d.mode {
		d.log.Info("mode changed", "from", d.mode, "to", m)
	}
	d.mode = m
	d.recomputeAxes()
	d.Reset()
}

// SetParam commits raw user input for one field.
func (d *Driver) SetParam(f dynamo.Field, raw string) error {
	return d.afterParamChange(f, d.store.SetString(f, raw))
}

func (d *Driver) StepParam(f dynamo.Field, direction int) error {
	return d.afterParamChange(f, d.store.Step(f, direction))
}

func (d *Driver) afterParamChange(f dynamo.Field, err error) error {
	if err != nil {
		d.log.Debug("parameter rejected", "field", f, "error", err)
		return err
	}
	d.recomputeAxes()
	if d.state != Running {
		d.Render()
	}
	return nil
}

// HitTest reports whether a pointer position lands on the painted body.
func (d *Driver) HitTest(x, y float64) bool {
	dx := x - d.body.X
	dy := y - d.body.Y
	return dx*dx+dy*dy <= d.body.Radius*d.body.Radius
}

// BeginDrag pauses the animation and drops the recorded history; the
// dragged position has no continuous past.
func (d *Driver) BeginDrag() {
	if d.dragging {
		return
	}
	d.wasRunning = d.state == Running
	d.cancel()
	d.state = Paused
	d.clock.Running = false
	d.buf.Clear()
	d.dragging = true
	d.log.Debug("drag started", "was_running", d.wasRunning)
}

// DragTo moves the body to the phase where the position equals
// displacement.
func (d *Driver) DragTo(displacement float64) {
	if !d.dragging {
		return
	}
	d.clock.Elapsed = physics.TimeForPosition(d.mode, d.store.Params(), displacement)
	d.Render()
}

// EndDrag finishes a drag; the driver stays paused.
func (d *Driver) EndDrag() {
	if !d.dragging {
		return
	}
	d.dragging = false
	d.log.Debug("drag ended", "elapsed", d.clock.Elapsed)
}

func (d *Driver) draw(k dynamo.Kinematics) {
	if !k.IsValid() {
		d.log.Warn("skipping draw of invalid kinematics", "time", k.Time)
		return
	}
	if d.painter != nil {
		d.body = d.painter.Paint(d.mode, k.Position)
	}
	if d.charter != nil {
		d.charter.Chart(d.ChartData())
	}
}

// ChartData assembles the chart state at the current elapsed time.
func (d *Driver) ChartData() ChartData {
	now := d.clock.Elapsed
	lo, hi := analysis.DisplayWindow(now, d.opts.Window)
	p := d.store.Params()

	cd := ChartData{
		Mode:        d.mode,
		Time:        now,
		WindowStart: lo,
		WindowEnd:   hi,
	}
	kps := analysis.ComputeAll(lo, hi, d.mode, p, now)
	for i, sig := range dynamo.Signals {
		var samples []dynamo.Sample
		if s := d.buf.Series(sig); s != nil {
			samples = s.Samples()
		}
		cd.Charts[i] = SignalChart{
			Signal:    sig,
			Samples:   samples,
			KeyPoints: kps[sig],
			Axis:      d.Axis(sig),
		}
	}
	return cd
}

func (d *Driver) recomputeAxes() {
	p := d.store.Params()
	for i, sig := range dynamo.Signals {
		peak := physics.Peak(sig, d.mode, p) * axisHeadroom
		d.axes[i] = Axis{Min: -peak, Max: peak}
	}
}

func (d *Driver) request() {
	if d.framePending {
		return
	}
	d.handle = d.sched.RequestFrame()
	d.framePending = true
}

func (d *Driver) cancel() {
	if !d.framePending {
		return
	}
	d.sched.CancelFrame(d.handle)
	d.framePending = false
}
