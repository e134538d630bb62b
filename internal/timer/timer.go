// Package timer provides the application's timer scheduler. Widgets get
// their timers from a Scheduler owned by the top-level app context instead
// of sharing process-wide state.
package timer

import (
	"time"

	"pxed/internal/platform"
)

// Scheduler fires timers when polled. It is driven by the UI loop and is not
// safe for concurrent use.
type Scheduler struct {
	now    func() time.Time
	timers []*Timer
	nextID int
}

func NewScheduler(now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{now: now}
}

// Timer delivers EventTimer events to its target every interval while
// running.
type Timer struct {
	sched    *Scheduler
	id       int
	interval time.Duration
	target   platform.Handler
	running  bool
	due      time.Time
}

func (s *Scheduler) NewTimer(interval time.Duration, target platform.Handler) *Timer {
	s.nextID++
	t := &Timer{sched: s, id: s.nextID, interval: interval, target: target}
	s.timers = append(s.timers, t)
	return t
}

func (t *Timer) ID() int { return t.id }

func (t *Timer) IsRunning() bool { return t.running }

// Start (re)arms the timer one interval from now.
func (t *Timer) Start() {
	t.running = true
	t.due = t.sched.now().Add(t.interval)
}

func (t *Timer) Stop() { t.running = false }

// Poll delivers a tick to every due timer and returns how many fired. A timer
// that fell several intervals behind fires once.
func (s *Scheduler) Poll() int {
	now := s.now()
	fired := 0
	for _, t := range s.timers {
		if !t.running || now.Before(t.due) {
			continue
		}
		t.due = now.Add(t.interval)
		fired++
		t.target.ProcessEvent(platform.Event{Type: platform.EventTimer, TimerID: t.id})
	}
	return fired
}

// Remove unregisters a timer. It is stopped first.
func (s *Scheduler) Remove(t *Timer) {
	t.Stop()
	for i, cur := range s.timers {
		if cur == t {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}
