package blackmarket

import "time"

// Phase is the scheduler state.
type Phase uint8

const (
	// PhaseIdle: no market, nothing scheduled (auto-spawn disabled or stopped).
	PhaseIdle Phase = iota
	// PhaseScheduled: no market, auto-spawn timer armed.
	PhaseScheduled
	// PhaseActive: market placed, despawn timer armed when duration > 0.
	PhaseActive
	// PhaseDespawning: market is being removed.
	PhaseDespawning
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseScheduled:
		return "scheduled"
	case PhaseActive:
		return "active"
	case PhaseDespawning:
		return "despawning"
	default:
		return "unknown"
	}
}

// scheduler owns the single timer slot. Every transition that arms a timer
// replaces the previous one, so at most one timer is ever pending.
// Callers must serialize access (Market holds its mutex).
type scheduler struct {
	clock    Clock
	dispatch Dispatcher

	phase    Phase
	timer    Timer
	deadline time.Time
	gen      uint64
}

// arm moves to phase and schedules fire after d. The timer goroutine only
// enqueues; fire runs on the dispatcher via the guard returned by wrap.
func (s *scheduler) arm(phase Phase, d time.Duration, wrap func(gen uint64) func()) {
	s.disarm()
	s.phase = phase
	s.gen++
	gen := s.gen
	s.deadline = s.clock.Now().Add(d)
	task := wrap(gen)
	s.timer = s.clock.AfterFunc(d, func() {
		s.dispatch.Enqueue(task)
	})
}

// settle moves to phase with no timer armed.
func (s *scheduler) settle(phase Phase) {
	s.disarm()
	s.phase = phase
}

// disarm cancels the pending timer. A callback that already fired and sits in
// the dispatcher queue is invalidated by the generation bump.
func (s *scheduler) disarm() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.deadline = time.Time{}
}

// current reports whether gen is still the live timer generation, and if so
// consumes it.
func (s *scheduler) current(gen uint64) bool {
	if gen != s.gen {
		return false
	}
	s.timer = nil
	s.deadline = time.Time{}
	return true
}

// remaining returns time until the pending timer fires, or 0.
func (s *scheduler) remaining() time.Duration {
	if s.timer == nil {
		return 0
	}
	return max(s.deadline.Sub(s.clock.Now()), 0)
}
