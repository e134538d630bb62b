package dock

import (
	"pxed/internal/geom"
	"pxed/internal/render"
)

// Widget is anything that can occupy a dock slot.
type Widget interface {
	ID() string
	Bounds() geom.Rect
	SetBounds(r geom.Rect)
	Visible() bool
	SizeHint() geom.Size
}

// Dockable widgets declare where they may be docked and which edge carries
// their drag handle in customize mode. Widgets without it stay where they
// are put.
type Dockable interface {
	DockableAt() Side
	DockHandleSide() Side
}

// Painter widgets draw themselves when the dock paints.
type Painter interface {
	Paint(fb *render.FrameBuffer)
}

type occupantKind int

const (
	occEmpty occupantKind = iota
	occWidget
	occDock
	occTabs
)

// occupant is the content of one slot: nothing, a leaf widget, a nested dock
// or a tab group.
type occupant struct {
	kind   occupantKind
	widget Widget
	dock   *Dock
	tabs   *Tabs
}

func widgetOccupant(w Widget) occupant {
	if d, ok := w.(*Dock); ok {
		return occupant{kind: occDock, dock: d}
	}
	return occupant{kind: occWidget, widget: w}
}

func (o occupant) empty() bool { return o.kind == occEmpty }

func (o occupant) asWidget() Widget {
	switch o.kind {
	case occWidget:
		return o.widget
	case occDock:
		return o.dock
	case occTabs:
		return o.tabs
	}
	return nil
}

func (o occupant) visible() bool {
	w := o.asWidget()
	return w != nil && w.Visible()
}

func (o occupant) sizeHint() geom.Size {
	if w := o.asWidget(); w != nil {
		return w.SizeHint()
	}
	return geom.Size{}
}

func (o occupant) setBounds(r geom.Rect) {
	if w := o.asWidget(); w != nil {
		w.SetBounds(r)
	}
}

// dockable returns the widget that a drag handle of this slot moves. Docks
// have no handle; a tab group is moved through its active tab.
func (o occupant) dockable() (Widget, Dockable) {
	var w Widget
	switch o.kind {
	case occWidget:
		w = o.widget
	case occTabs:
		w = o.tabs.Active()
	}
	if d, ok := w.(Dockable); ok {
		return w, d
	}
	return nil, nil
}

func (o occupant) handleSide() Side {
	if _, d := o.dockable(); d != nil {
		return d.DockHandleSide()
	}
	return 0
}

// holds reports whether w is the occupant itself or one of its tabs. Nested
// docks are not searched.
func (o occupant) holds(w Widget) bool {
	switch o.kind {
	case occWidget:
		return o.widget == w
	case occDock:
		return Widget(o.dock) == w
	case occTabs:
		return Widget(o.tabs) == w || o.tabs.index(w) >= 0
	}
	return false
}

func (o occupant) paint(fb *render.FrameBuffer) {
	switch o.kind {
	case occWidget:
		if p, ok := o.widget.(Painter); ok {
			p.Paint(fb)
		}
	case occDock:
		o.dock.paintTree(fb)
	case occTabs:
		o.tabs.Paint(fb)
	}
}

// Tabs is a group of widgets sharing one slot. Only the active tab is laid
// out; the others get an empty rectangle.
type Tabs struct {
	items  []Widget
	active int
	// prev is the tab that was active before the last add, or -1.
	prev   int
	bounds geom.Rect
	env    *env
}

func newTabs(e *env, items ...Widget) *Tabs {
	return &Tabs{items: items, active: len(items) - 1, prev: len(items) - 2, env: e}
}

func (t *Tabs) ID() string { return "tabs" }

func (t *Tabs) Len() int { return len(t.items) }

func (t *Tabs) Widgets() []Widget { return append([]Widget(nil), t.items...) }

func (t *Tabs) Active() Widget {
	if t.active < 0 || t.active >= len(t.items) {
		return nil
	}
	return t.items[t.active]
}

func (t *Tabs) ActiveIndex() int { return t.active }

func (t *Tabs) SetActive(i int) {
	if i < 0 || i >= len(t.items) {
		return
	}
	t.active = i
	t.SetBounds(t.bounds)
}

func (t *Tabs) index(w Widget) int {
	for i, item := range t.items {
		if item == w {
			return i
		}
	}
	return -1
}

func (t *Tabs) add(w Widget) {
	t.items = append(t.items, w)
	t.prev = t.active
	t.active = len(t.items) - 1
}

// remove drops w. The active tab stays the same widget; when w itself was
// active, the tab active before it was added takes over.
func (t *Tabs) remove(w Widget) bool {
	i := t.index(w)
	if i < 0 {
		return false
	}
	t.items = append(t.items[:i], t.items[i+1:]...)
	prev := shiftedIndex(t.prev, i)
	switch {
	case i != t.active:
		t.active = shiftedIndex(t.active, i)
	case prev >= 0:
		t.active = prev
		prev = -1
	}
	t.prev = prev
	t.active = max(min(t.active, len(t.items)-1), 0)
	return true
}

// shiftedIndex maps index k past the removal of index i; -1 when k was i.
func shiftedIndex(k, i int) int {
	switch {
	case k == i:
		return -1
	case k > i:
		return k - 1
	}
	return k
}

// dockableAt is the placement of the first tab, which founded the group.
func (t *Tabs) dockableAt() Side {
	if len(t.items) == 0 {
		return 0
	}
	if d, ok := t.items[0].(Dockable); ok {
		return d.DockableAt()
	}
	return 0
}

func (t *Tabs) Visible() bool {
	for _, w := range t.items {
		if w.Visible() {
			return true
		}
	}
	return false
}

func (t *Tabs) stripHeight() int { return t.env.textHeight }

func (t *Tabs) SizeHint() geom.Size {
	var sz geom.Size
	for _, w := range t.items {
		h := w.SizeHint()
		sz.W = max(sz.W, h.W)
		sz.H = max(sz.H, h.H)
	}
	sz.H += t.stripHeight()
	return sz
}

func (t *Tabs) Bounds() geom.Rect { return t.bounds }

func (t *Tabs) SetBounds(r geom.Rect) {
	t.bounds = r
	content := geom.R(r.X, r.Y+t.stripHeight(), r.W, max(r.H-t.stripHeight(), 0))
	for i, w := range t.items {
		if i == t.active {
			w.SetBounds(content)
		} else {
			w.SetBounds(geom.R(r.X, r.Y, 0, 0))
		}
	}
}

// tabRect returns the strip cell of tab i.
func (t *Tabs) tabRect(i int) geom.Rect {
	n := max(len(t.items), 1)
	w := t.bounds.W / n
	x := t.bounds.X + i*w
	if i == n-1 {
		w = t.bounds.X2() - x
	}
	return geom.R(x, t.bounds.Y, w, t.stripHeight())
}

// tabAt returns the tab whose strip cell contains p, or -1.
func (t *Tabs) tabAt(p geom.Point) int {
	for i := range t.items {
		if t.tabRect(i).Contains(p) {
			return i
		}
	}
	return -1
}

func (t *Tabs) Paint(fb *render.FrameBuffer) {
	c := t.env.colors
	for i := range t.items {
		rc := t.tabRect(i)
		bg := c.Tab
		if i == t.active {
			bg = c.TabActive
		}
		fb.FillRect(rc.X, rc.Y, rc.W, rc.H, bg)
		fb.DrawVLine(rc.X2()-1, rc.Y, rc.H, c.Handle)
	}
	if w := t.Active(); w != nil {
		if p, ok := w.(Painter); ok {
			p.Paint(fb)
		}
	}
}
