package platform

import (
	"time"

	"pxed/internal/geom"
)

const (
	// DoubleClickTime is the longest delay between the two presses of a
	// double click.
	DoubleClickTime = 500 * time.Millisecond
	// DoubleClickSlop is how far, in pixels on each axis, the pointer may
	// move between the two presses.
	DoubleClickSlop = 4
)

// ClickTracker detects double clicks from a stream of button presses.
type ClickTracker struct {
	last   time.Time
	pos    geom.Point
	button Button
	armed  bool
}

// Press records a button press and reports whether it completes a double
// click. A third press starts over.
func (c *ClickTracker) Press(now time.Time, pos geom.Point, b Button) bool {
	d := pos.Sub(c.pos)
	double := c.armed && b == c.button &&
		now.Sub(c.last) <= DoubleClickTime &&
		abs(d.X) <= DoubleClickSlop && abs(d.Y) <= DoubleClickSlop
	c.last, c.pos, c.button = now, pos, b
	c.armed = !double
	return double
}

func (c *ClickTracker) Reset() { c.armed = false }

// KeyRepeats reports whether a key held for the given number of ticks emits
// a key down on this tick: on the first tick, then after delay ticks every
// interval ticks.
func KeyRepeats(ticks, delay, interval int) bool {
	switch {
	case ticks == 1:
		return true
	case ticks <= 1 || ticks < delay || interval <= 0:
		return false
	}
	return (ticks-delay)%interval == 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
