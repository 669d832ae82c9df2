package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/oscillab/internal/dynamo"
	"github.com/san-kum/oscillab/internal/sim"
)

const maxListedKeyPoints = 3

// axisSpring eases one chart's value range toward its target.
type axisSpring struct {
	lo, hi       float64
	loVel, hiVel float64
	primed       bool
}

// ChartPanel is the charter of the TUI: it keeps the latest chart data and
// renders one asciigraph plot per signal.
type ChartPanel struct {
	spring harmonica.Spring
	axes   [3]axisSpring
	data   sim.ChartData
	frames int
}

func NewChartPanel(fps int) *ChartPanel {
	if fps <= 0 {
		fps = 60
	}
	return &ChartPanel{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
}

func (c *ChartPanel) Chart(cd sim.ChartData) {
	c.data = cd
	c.frames++
	for i := range c.axes {
		c.step(i, cd.Charts[i].Axis)
	}
}

func (c *ChartPanel) Data() sim.ChartData { return c.data }

func (c *ChartPanel) step(i int, target sim.Axis) {
	a := &c.axes[i]
	if !a.primed {
		a.lo, a.hi, a.primed = target.Min, target.Max, true
		return
	}
	a.lo, a.loVel = c.spring.Update(a.lo, a.loVel, target.Min)
	a.hi, a.hiVel = c.spring.Update(a.hi, a.hiVel, target.Max)
}

// Settle jumps every axis to its target; used while nothing animates.
func (c *ChartPanel) Settle() {
	for i := range c.axes {
		t := c.data.Charts[i].Axis
		c.axes[i] = axisSpring{lo: t.Min, hi: t.Max, primed: true}
	}
}

// Bounds is the currently displayed value range of one chart.
func (c *ChartPanel) Bounds(s dynamo.Signal) (float64, float64) {
	if s < 0 || int(s) >= len(c.axes) {
		return 0, 0
	}
	return c.axes[s].lo, c.axes[s].hi
}

// Render draws the three charts stacked, each followed by its key points.
func (c *ChartPanel) Render(width, height int, theme Theme, styles Styles) string {
	var sb strings.Builder
	for i, chart := range c.data.Charts {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(c.renderOne(chart, width, height, theme, styles))
	}
	return sb.String()
}

func (c *ChartPanel) renderOne(chart sim.SignalChart, width, height int, theme Theme, styles Styles) string {
	caption := fmt.Sprintf("%s (%s)  t ∈ [%.1f, %.1f]s",
		chart.Signal, chart.Signal.Unit(c.data.Mode), c.data.WindowStart, c.data.WindowEnd)

	series := Resample(chart.Samples, c.data.WindowStart, c.data.WindowEnd, c.data.Time, width)
	if countFinite(series) < 2 {
		return styles.KeyPoint.Render(caption+"\n  (press space to start)") + "\n"
	}

	lo, hi := c.Bounds(chart.Signal)
	if !(hi > lo) {
		lo, hi = chart.Axis.Min, chart.Axis.Max
	}
	plot := asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.LowerBound(lo),
		asciigraph.UpperBound(hi),
		asciigraph.Precision(3),
		asciigraph.Caption(caption),
	)

	color := lipgloss.NewStyle().Foreground(theme.SignalColor(chart.Signal))
	return color.Render(plot) + "\n" + styles.KeyPoint.Render(FormatKeyPoints(chart.KeyPoints))
}

// Resample maps samples onto width columns spanning [lo, hi]. Columns past
// now or before the oldest sample are NaN so asciigraph leaves them blank.
func Resample(samples []dynamo.Sample, lo, hi, now float64, width int) []float64 {
	out := make([]float64, width)
	for i := range out {
		out[i] = math.NaN()
	}
	if len(samples) == 0 || width <= 0 || !(hi > lo) {
		return out
	}

	first := samples[0].Time
	last := samples[len(samples)-1].Time
	for col := 0; col < width; col++ {
		t := lo + (float64(col)+0.5)/float64(width)*(hi-lo)
		if t > now || t < first || t > last {
			continue
		}
		j := sort.Search(len(samples), func(k int) bool { return samples[k].Time >= t })
		switch {
		case j == 0:
			out[col] = samples[0].Value
		case j >= len(samples):
			out[col] = samples[len(samples)-1].Value
		default:
			a, b := samples[j-1], samples[j]
			if b.Time == a.Time {
				out[col] = b.Value
				continue
			}
			f := (t - a.Time) / (b.Time - a.Time)
			out[col] = a.Value + f*(b.Value-a.Value)
		}
	}
	return out
}

// FormatKeyPoints lists the most recent maxima, minima and zero crossings.
func FormatKeyPoints(kp dynamo.KeyPoints) string {
	parts := []string{
		formatKind("max", kp.Maxima),
		formatKind("min", kp.Minima),
		formatKind("zero", kp.Zeros),
	}
	return "  " + strings.Join(parts, "   ")
}

func formatKind(label string, pts []dynamo.KeyPoint) string {
	if len(pts) == 0 {
		return label + " -"
	}
	if len(pts) > maxListedKeyPoints {
		pts = pts[len(pts)-maxListedKeyPoints:]
	}
	items := make([]string, len(pts))
	for i, p := range pts {
		if p.Kind == dynamo.ZeroCrossing {
			items[i] = fmt.Sprintf("%.2fs", p.Time)
		} else {
			items[i] = fmt.Sprintf("%.3g@%.2fs", p.Value, p.Time)
		}
	}
	return label + " " + strings.Join(items, " ")
}

func countFinite(vs []float64) int {
	n := 0
	for _, v := range vs {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}
