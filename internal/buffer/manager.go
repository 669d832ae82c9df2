// Package buffer keeps the rolling sample history behind the charts.
package buffer

import "github.com/san-kum/oscillab/internal/dynamo"

// DefaultMargin keeps a little data past the left edge of the window so
// the chart never clips a line right at the border.
const DefaultMargin = 0.5

const initialCapacity = 512

// Manager owns one series per signal and evicts them in lock step.
type Manager struct {
	window float64
	margin float64
	series [3]*Series
	latest float64
}

func New(window, margin float64) *Manager {
	m := &Manager{window: window, margin: margin}
	for i := range m.series {
		m.series[i] = NewSeries(initialCapacity)
	}
	return m
}

func (m *Manager) Window() float64 { return m.window }
func (m *Manager) Margin() float64 { return m.margin }

// Latest is the time of the newest appended sample.
func (m *Manager) Latest() float64 { return m.latest }

// Append records one sample per signal, then evicts everything older than
// t - window - margin.
func (m *Manager) Append(t, position, velocity, acceleration float64) {
	m.series[dynamo.SignalPosition].push(dynamo.Sample{Time: t, Value: position})
	m.series[dynamo.SignalVelocity].push(dynamo.Sample{Time: t, Value: velocity})
	m.series[dynamo.SignalAcceleration].push(dynamo.Sample{Time: t, Value: acceleration})
	m.latest = t

	cutoff := t - m.window - m.margin
	for _, s := range m.series {
		s.trimBefore(cutoff)
	}
}

func (m *Manager) AppendKinematics(k dynamo.Kinematics) {
	m.Append(k.Time, k.Position, k.Velocity, k.Acceleration)
}

func (m *Manager) Clear() {
	for _, s := range m.series {
		s.reset()
	}
	m.latest = 0
}

func (m *Manager) Series(s dynamo.Signal) *Series {
	if s < 0 || int(s) >= len(m.series) {
		return nil
	}
	return m.series[s]
}

func (m *Manager) Len() int {
	return m.series[dynamo.SignalPosition].Len()
}
