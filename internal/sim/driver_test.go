package sim_test

import (
	"io"
	"log/slog"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/oscillab/internal/dynamo"
	"github.com/san-kum/oscillab/internal/params"
	"github.com/san-kum/oscillab/internal/physics"
	"github.com/san-kum/oscillab/internal/sim"
)

type fakePainter struct {
	calls []float64
	modes []dynamo.Mode
}

func (p *fakePainter) Paint(mode dynamo.Mode, displacement float64) sim.Body {
	p.calls = append(p.calls, displacement)
	p.modes = append(p.modes, mode)
	return sim.Body{X: displacement * 100, Y: 5, Radius: 2}
}

func (p *fakePainter) last() float64 { return p.calls[len(p.calls)-1] }

type fakeCharter struct {
	charts []sim.ChartData
}

func (c *fakeCharter) Chart(cd sim.ChartData) { c.charts = append(c.charts, cd) }

func (c *fakeCharter) last() sim.ChartData { return c.charts[len(c.charts)-1] }

var _ = Describe("Driver", func() {
	var (
		store   *params.Store
		sched   *sim.ManualScheduler
		painter *fakePainter
		charter *fakeCharter
		driver  *sim.Driver
		frames  []sim.Frame
	)

	newDriver := func(mode dynamo.Mode) {
		opts := sim.DefaultOptions()
		opts.Mode = mode
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		driver = sim.New(opts, store, sched, painter, charter)
		frames = nil
		driver.AddObserver(sim.ObserverFunc(func(f sim.Frame) { frames = append(frames, f) }))
	}

	BeforeEach(func() {
		store = params.New(dynamo.DefaultParams(), params.DefaultRanges())
		sched = sim.NewManualScheduler()
		painter = &fakePainter{}
		charter = &fakeCharter{}
		newDriver(dynamo.ModeSpring)
	})

	It("starts idle at time zero with a unique id", func() {
		Expect(driver.State()).To(Equal(sim.Idle))
		Expect(driver.Clock().Elapsed).To(BeZero())
		Expect(driver.ID()).NotTo(Equal(sim.New(sim.DefaultOptions(), store, sched, nil, nil).ID()))
	})

	It("sizes axes at 1.2 times each signal peak", func() {
		p := dynamo.DefaultParams()
		axes := driver.Axes()
		for i, sig := range dynamo.Signals {
			peak := physics.Peak(sig, dynamo.ModeSpring, p)
			Expect(axes[i].Max).To(BeNumerically("~", 1.2*peak, 1e-12))
			Expect(axes[i].Min).To(BeNumerically("~", -1.2*peak, 1e-12))
		}
	})

	Describe("Start", func() {
		It("requests a frame and enters Running", func() {
			Expect(driver.Start()).To(Succeed())
			Expect(driver.State()).To(Equal(sim.Running))
			_, pending := sched.Pending()
			Expect(pending).To(BeTrue())
		})

		It("is a no-op while already running", func() {
			Expect(driver.Start()).To(Succeed())
			Expect(driver.Start()).To(Succeed())
			Expect(sched.Requests).To(Equal(1))
		})

		It("refuses to start with an invalid field", func() {
			err := driver.SetParam(dynamo.FieldMass, "9")
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))

			err = driver.Start()
			Expect(err).To(MatchError(dynamo.ErrCannotStart))
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			Expect(driver.State()).To(Equal(sim.Idle))
			Expect(sched.Requests).To(BeZero())
		})

		It("starts once the invalid field is corrected", func() {
			Expect(driver.SetParam(dynamo.FieldMass, "abc")).To(MatchError(dynamo.ErrNotNumeric))
			Expect(driver.Start()).NotTo(Succeed())
			Expect(driver.SetParam(dynamo.FieldMass, "2")).To(Succeed())
			Expect(driver.Start()).To(Succeed())
		})
	})

	Describe("Tick", func() {
		BeforeEach(func() {
			Expect(driver.Start()).To(Succeed())
		})

		It("only seeds the clock on the first tick", func() {
			Expect(sched.Fire()).To(BeTrue())
			driver.Tick(100)

			Expect(driver.Clock().Elapsed).To(BeZero())
			Expect(driver.LastFrame()).To(Equal(100.0))
			Expect(driver.Buffer().Len()).To(BeZero())
			Expect(frames).To(BeEmpty())
		})

		It("advances by the frame delta and appends one sample", func() {
			sched.Drive(driver, 1, 0.05, 2)

			Expect(driver.Clock().Elapsed).To(BeNumerically("~", 0.05, 1e-12))
			Expect(driver.Buffer().Len()).To(Equal(1))
			Expect(frames).To(HaveLen(1))

			k := frames[0].Kinematics
			Expect(k.Position).To(BeNumerically("~", physics.Position(dynamo.ModeSpring, driver.Params(), 0.05), 1e-12))
			Expect(painter.last()).To(Equal(k.Position))
		})

		It("clamps large gaps to 0.1 seconds", func() {
			Expect(sched.Fire()).To(BeTrue())
			driver.Tick(0)
			Expect(sched.Fire()).To(BeTrue())
			driver.Tick(5)

			Expect(driver.Clock().Elapsed).To(BeNumerically("~", 0.1, 1e-12))
			Expect(frames[0].Delta).To(Equal(0.1))
		})

		It("treats a timestamp going backwards as no time passing", func() {
			Expect(sched.Fire()).To(BeTrue())
			driver.Tick(10)
			Expect(sched.Fire()).To(BeTrue())
			driver.Tick(9)

			Expect(driver.Clock().Elapsed).To(BeZero())
		})

		It("applies the time scale", func() {
			opts := sim.DefaultOptions()
			opts.TimeScale = 0.5
			opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
			sched = sim.NewManualScheduler()
			d := sim.New(opts, store, sched, nil, nil)
			Expect(d.Start()).To(Succeed())

			sched.Drive(d, 0, 0.05, 3)
			Expect(d.Clock().Elapsed).To(BeNumerically("~", 0.05, 1e-12))
		})

		It("charts key points that have already occurred", func() {
			sched.Drive(driver, 0, 1.0/60, 200)

			cd := charter.last()
			Expect(cd.Time).To(Equal(driver.Clock().Elapsed))
			Expect(cd.WindowStart).To(BeZero())
			Expect(cd.WindowEnd).To(Equal(10.0))

			pos := cd.Charts[dynamo.SignalPosition]
			Expect(pos.Samples).To(HaveLen(driver.Buffer().Len()))
			Expect(pos.KeyPoints.Maxima).NotTo(BeEmpty())
			for _, kp := range pos.KeyPoints.Maxima {
				Expect(kp.Time).To(BeNumerically("<=", cd.Time))
			}
		})

		It("keeps the buffer inside the window plus margin", func() {
			sched.Drive(driver, 0, 0.05, 600)

			now := driver.Clock().Elapsed
			first, ok := driver.Buffer().Series(dynamo.SignalPosition).First()
			Expect(ok).To(BeTrue())
			Expect(first.Time).To(BeNumerically(">=", now-10-0.5))
		})
	})

	Describe("Pause", func() {
		It("cancels the pending frame and ignores later ticks", func() {
			Expect(driver.Start()).To(Succeed())
			sched.Drive(driver, 0, 0.05, 5)
			elapsed := driver.Clock().Elapsed

			driver.Pause()
			Expect(driver.State()).To(Equal(sim.Paused))
			_, pending := sched.Pending()
			Expect(pending).To(BeFalse())
			Expect(sched.Cancels).To(Equal(1))

			driver.Tick(50)
			Expect(driver.Clock().Elapsed).To(Equal(elapsed))
		})

		It("resumes without jumping over the paused gap", func() {
			Expect(driver.Start()).To(Succeed())
			sched.Drive(driver, 0, 0.05, 5)
			elapsed := driver.Clock().Elapsed

			driver.Pause()
			Expect(driver.Start()).To(Succeed())
			sched.Drive(driver, 1000, 0.05, 2)

			Expect(driver.Clock().Elapsed).To(BeNumerically("~", elapsed+0.05, 1e-12))
		})
	})

	Describe("Reset", func() {
		It("returns to idle at time zero and clears the series", func() {
			Expect(driver.Start()).To(Succeed())
			sched.Drive(driver, 0, 0.05, 20)

			driver.Reset()
			Expect(driver.State()).To(Equal(sim.Idle))
			Expect(driver.Clock().Elapsed).To(BeZero())
			Expect(driver.Buffer().Len()).To(BeZero())
			Expect(painter.last()).To(BeNumerically("~", 0.15, 1e-12))
		})
	})

	Describe("SetMode", func() {
		It("resets and recomputes the axes", func() {
			Expect(driver.Start()).To(Succeed())
			sched.Drive(driver, 0, 0.05, 10)

			driver.SetMode(dynamo.ModePendulum)
			Expect(driver.Mode()).To(Equal(dynamo.ModePendulum))
			Expect(driver.State()).To(Equal(sim.Idle))
			Expect(driver.Clock().Elapsed).To(BeZero())

			peak := physics.Peak(dynamo.SignalPosition, dynamo.ModePendulum, driver.Params())
			Expect(driver.Axis(dynamo.SignalPosition).Max).To(BeNumerically("~", 1.2*peak, 1e-12))
			Expect(painter.modes[len(painter.modes)-1]).To(Equal(dynamo.ModePendulum))
		})
	})

	Describe("Render", func() {
		It("skips drawing when the parameters give no finite motion", func() {
			ranges := params.DefaultRanges()
			ranges[dynamo.FieldMass] = params.Range{Min: 0, Max: 5}
			p := dynamo.DefaultParams()
			p.Mass = 0
			store = params.New(p, ranges)
			newDriver(dynamo.ModeSpring)

			driver.Render()
			Expect(painter.calls).To(BeEmpty())
			Expect(charter.charts).To(BeEmpty())
		})
	})

	Describe("SetParam", func() {
		It("recomputes axes and repaints when not running", func() {
			calls := len(painter.calls)
			Expect(driver.SetParam(dynamo.FieldAmplitude, "0.3")).To(Succeed())

			Expect(driver.Axis(dynamo.SignalPosition).Max).To(BeNumerically("~", 0.36, 1e-12))
			Expect(painter.calls).To(HaveLen(calls + 1))
			Expect(painter.last()).To(BeNumerically("~", 0.3, 1e-12))
		})

		It("nudges a field through StepParam", func() {
			Expect(driver.StepParam(dynamo.FieldSpringConstant, 1)).To(Succeed())
			Expect(driver.Params().SpringConstant).To(BeNumerically(">", 40))
		})
	})

	Describe("dragging", func() {
		BeforeEach(func() {
			driver.Render()
			Expect(driver.Start()).To(Succeed())
			sched.Drive(driver, 0, 0.05, 10)
		})

		It("hit-tests against the painted body", func() {
			body := driver.Body()
			Expect(driver.HitTest(body.X, body.Y)).To(BeTrue())
			Expect(driver.HitTest(body.X+body.Radius*0.5, body.Y)).To(BeTrue())
			Expect(driver.HitTest(body.X+body.Radius*3, body.Y)).To(BeFalse())
		})

		It("pauses, clears and solves the elapsed time", func() {
			driver.BeginDrag()
			Expect(driver.Dragging()).To(BeTrue())
			Expect(driver.WasRunning()).To(BeTrue())
			Expect(driver.State()).To(Equal(sim.Paused))
			Expect(driver.Buffer().Len()).To(BeZero())

			driver.DragTo(0.075)
			period := physics.Period(dynamo.ModeSpring, driver.Params())
			elapsed := driver.Clock().Elapsed
			Expect(elapsed).To(BeNumerically(">=", 0))
			Expect(elapsed).To(BeNumerically("<", period))
			Expect(painter.last()).To(BeNumerically("~", 0.075, 1e-9))

			driver.EndDrag()
			Expect(driver.Dragging()).To(BeFalse())
			Expect(driver.State()).To(Equal(sim.Paused))
		})

		It("clamps targets beyond the amplitude", func() {
			driver.BeginDrag()
			driver.DragTo(10)
			Expect(driver.Clock().Elapsed).To(BeNumerically("~", 0, 1e-12))
			Expect(painter.last()).To(BeNumerically("~", 0.15, 1e-12))
		})

		It("ignores DragTo without BeginDrag", func() {
			elapsed := driver.Clock().Elapsed
			driver.DragTo(0)
			Expect(driver.Clock().Elapsed).To(Equal(elapsed))
		})
	})

	Describe("Render", func() {
		It("paints without advancing or recording", func() {
			driver.Render()
			Expect(driver.Clock().Elapsed).To(BeZero())
			Expect(driver.Buffer().Len()).To(BeZero())
			Expect(painter.last()).To(BeNumerically("~", 0.15, 1e-12))
			Expect(math.IsNaN(charter.last().Time)).To(BeFalse())
		})
	})
})
