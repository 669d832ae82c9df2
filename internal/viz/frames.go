package viz

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/oscillab/internal/sim"
)

type frameMsg struct {
	handle sim.FrameHandle
	at     time.Time
}

// frameScheduler turns driver frame requests into tea.Tick commands.
// Only the newest request is live; a cancelled or superseded handle is
// dropped when its message arrives.
type frameScheduler struct {
	interval time.Duration
	next     sim.FrameHandle
	live     sim.FrameHandle
	queued   []tea.Cmd
}

func newFrameScheduler(fps int) *frameScheduler {
	return &frameScheduler{interval: time.Second / time.Duration(fps)}
}

func (s *frameScheduler) RequestFrame() sim.FrameHandle {
	s.next++
	h := s.next
	s.live = h
	s.queued = append(s.queued, tea.Tick(s.interval, func(t time.Time) tea.Msg {
		return frameMsg{handle: h, at: t}
	}))
	return h
}

func (s *frameScheduler) CancelFrame(h sim.FrameHandle) {
	if s.live == h {
		s.live = 0
	}
}

func (s *frameScheduler) accept(h sim.FrameHandle) bool {
	if h == 0 || h != s.live {
		return false
	}
	s.live = 0
	return true
}

func (s *frameScheduler) drain() tea.Cmd {
	if len(s.queued) == 0 {
		return nil
	}
	cmds := s.queued
	s.queued = nil
	return tea.Batch(cmds...)
}
