package sim

// ManualScheduler is a Scheduler for headless runs and tests: it only
// records requests, and the caller delivers ticks itself.
type ManualScheduler struct {
	next     FrameHandle
	pending  FrameHandle
	active   bool
	Requests int
	Cancels  int
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) RequestFrame() FrameHandle {
	s.next++
	s.pending = s.next
	s.active = true
	s.Requests++
	return s.next
}

func (s *ManualScheduler) CancelFrame(h FrameHandle) {
	if s.active && s.pending == h {
		s.active = false
	}
	s.Cancels++
}

// Pending reports the outstanding request, if any.
func (s *ManualScheduler) Pending() (FrameHandle, bool) {
	return s.pending, s.active
}

// Fire consumes the outstanding request.
func (s *ManualScheduler) Fire() bool {
	if !s.active {
		return false
	}
	s.active = false
	return true
}

// Drive delivers up to frames ticks spaced period seconds apart,
// starting at from, for as long as the driver keeps requesting frames.
// It returns the timestamp of the last delivered tick.
func (s *ManualScheduler) Drive(d *Driver, from, period float64, frames int) float64 {
	ts := from
	for i := 0; i < frames && s.Fire(); i++ {
		ts = from + float64(i)*period
		d.Tick(ts)
	}
	return ts
}
