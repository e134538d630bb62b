package dock

import "strings"

// Side is a set of slot flags. A single side names a slot; combinations are
// used by dockable widgets to declare where they may be docked, optionally
// with Expansive to get a user-resizable splitter.
type Side int

const (
	Top Side = 1 << iota
	Bottom
	Left
	Right
	Center
	Expansive
)

// Edges is every side a widget can be docked at besides the center.
const Edges = Top | Bottom | Left | Right

const (
	idxTop = iota
	idxBottom
	idxLeft
	idxRight
	idxCenter
	numSlots
)

func sideIndex(s Side) int {
	switch s {
	case Top:
		return idxTop
	case Bottom:
		return idxBottom
	case Left:
		return idxLeft
	case Right:
		return idxRight
	case Center:
		return idxCenter
	}
	return -1
}

func sideFromIndex(i int) Side {
	switch i {
	case idxTop:
		return Top
	case idxBottom:
		return Bottom
	case idxLeft:
		return Left
	case idxRight:
		return Right
	}
	return Center
}

var sideNames = []struct {
	side Side
	name string
}{
	{Top, "top"},
	{Bottom, "bottom"},
	{Left, "left"},
	{Right, "right"},
	{Center, "center"},
	{Expansive, "expansive"},
}

func (s Side) String() string {
	if s == 0 {
		return "none"
	}
	var parts []string
	for _, n := range sideNames {
		if s&n.side != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseSide parses the name of a single slot.
func ParseSide(name string) (Side, bool) {
	for _, n := range sideNames[:numSlots] {
		if n.name == name {
			return n.side, true
		}
	}
	return 0, false
}
