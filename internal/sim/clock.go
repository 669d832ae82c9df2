package sim

// Clock tracks simulated time. The first timestamp after a (re)start
// only seeds LastFrame so a long idle gap never turns into a jump.
type Clock struct {
	Elapsed   float64
	Running   bool
	LastFrame float64
	TimeScale float64

	seeded bool
}

func (c *Clock) Seeded() bool { return c.seeded }

func (c *Clock) unseed() { c.seeded = false }

// advance folds one host timestamp into the clock and returns the
// wall-clock delta that was applied before scaling.
func (c *Clock) advance(ts, maxDelta float64) float64 {
	if !c.seeded {
		c.LastFrame = ts
		c.seeded = true
		return 0
	}

	delta := ts - c.LastFrame
	if delta < 0 {
		delta = 0
	}
	if delta > maxDelta {
		delta = maxDelta
	}
	c.LastFrame = ts
	c.Elapsed += delta * c.TimeScale
	return delta
}

func (c *Clock) reset() {
	c.Elapsed = 0
	c.Running = false
	c.LastFrame = 0
	c.seeded = false
}
