package timer

import (
	"testing"
	"time"

	"pxed/internal/platform"
)

type tickCounter struct {
	ticks []int
}

func (c *tickCounter) ProcessEvent(ev platform.Event) bool {
	if ev.Type == platform.EventTimer {
		c.ticks = append(c.ticks, ev.TimerID)
	}
	return true
}

func TestTimerFiresAfterInterval(t *testing.T) {
	now := time.Unix(100, 0)
	s := NewScheduler(func() time.Time { return now })
	target := &tickCounter{}
	tm := s.NewTimer(500*time.Millisecond, target)
	tm.Start()

	now = now.Add(499 * time.Millisecond)
	if n := s.Poll(); n != 0 {
		t.Fatalf("fired too early: %d", n)
	}
	now = now.Add(2 * time.Millisecond)
	if n := s.Poll(); n != 1 {
		t.Fatalf("expected one tick, got %d", n)
	}
	if len(target.ticks) != 1 || target.ticks[0] != tm.ID() {
		t.Fatalf("unexpected ticks: %v", target.ticks)
	}
}

func TestStoppedTimerStaysQuiet(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewScheduler(func() time.Time { return now })
	target := &tickCounter{}
	a := s.NewTimer(time.Second, target)
	b := s.NewTimer(time.Second, target)
	a.Start()
	b.Start()
	a.Stop()

	now = now.Add(5 * time.Second)
	s.Poll()
	if len(target.ticks) != 1 || target.ticks[0] != b.ID() {
		t.Fatalf("expected only the running timer to fire, got %v", target.ticks)
	}

	s.Remove(b)
	now = now.Add(5 * time.Second)
	if n := s.Poll(); n != 0 {
		t.Fatalf("removed timer fired")
	}
}
