package dock

import (
	"image"

	"pxed/internal/geom"
	"pxed/internal/platform"
)

// ghostAlpha is the opacity of the dragged widget image.
const ghostAlpha = 200

// hit is the result of hit-testing a point against the tree.
type hit struct {
	dock     *Dock   // node owning the splitter, handle or tab strip
	path     []*Dock // from the root to dock, both included
	index    int     // slot of a splitter, -1 otherwise
	widget   Widget
	dockable Dockable
	tabs     *Tabs
	tab      int
	target   Side
}

func noHit() hit { return hit{index: -1, tab: -1} }

func (h hit) none() bool { return h.index < 0 && h.dockable == nil && h.tab < 0 }

type ghost struct {
	src    geom.Rect
	offset geom.Point
	pos    geom.Point
	img    *image.RGBA
}

// handleRect is the drag handle strip of a slot rectangle.
func handleRect(rc geom.Rect, side Side, th int) geom.Rect {
	switch side {
	case Top:
		return geom.R(rc.X, rc.Y, rc.W, min(th, rc.H))
	case Left:
		return geom.R(rc.X, rc.Y, min(th, rc.W), rc.H)
	}
	return geom.Rect{}
}

// calcHit finds the splitter gutter, drag handle or tab under p, walking
// down into nested docks.
func (d *Dock) calcHit(p geom.Point, path []*Dock) hit {
	path = append(path[:len(path):len(path)], d)
	found := noHit()
	d.forEachSide(d.bounds, func(i int, o occupant, rc, sep geom.Rect) {
		if !found.none() {
			return
		}
		if sep.Contains(p) {
			found = hit{dock: d, path: path, index: i, widget: o.asWidget(), tab: -1}
			return
		}
		if d.customizing {
			if w, dk := o.dockable(); dk != nil && handleRect(rc, dk.DockHandleSide(), d.env.textHeight).Contains(p) {
				found = hit{dock: d, path: path, index: -1, widget: w, dockable: dk, tab: -1}
				return
			}
		}
		switch o.kind {
		case occTabs:
			if t := o.tabs.tabAt(p); t >= 0 {
				found = hit{dock: d, path: path, index: -1, tabs: o.tabs, tab: t}
			}
		case occDock:
			if rc.Contains(p) {
				found = o.dock.calcHit(p, path)
			}
		}
	})
	return found
}

// capturingDock returns the node of this tree holding the mouse capture.
func (d *Dock) capturingDock() *Dock {
	owner, ok := d.env.capture.Owner().(*Dock)
	if !ok || d.pathToDock(owner) == nil {
		return nil
	}
	return owner
}

// ProcessEvent runs the resize and redock protocols. Mouse downs on a
// splitter or, in customize mode, on a drag handle take the capture; moves
// and the final mouse up go to the capturing node.
func (d *Dock) ProcessEvent(ev platform.Event) bool {
	if !ev.Type.IsMouse() {
		return false
	}
	if owner := d.capturingDock(); owner != nil {
		return owner.processCaptured(ev)
	}
	if ev.Type != platform.EventMouseDown {
		return false
	}
	h := d.calcHit(ev.Pos, nil)
	if h.none() {
		return false
	}
	return h.dock.begin(h, ev)
}

func (d *Dock) begin(h hit, ev platform.Event) bool {
	if h.tab >= 0 {
		h.tabs.SetActive(h.tab)
		return true
	}
	if !d.env.capture.Acquire(d) {
		return false
	}
	d.hit = h
	d.startPos = ev.Pos
	if h.index >= 0 {
		d.startSize = d.sizes[h.index]
		d.resizing = true
	}
	if h.dockable != nil && ev.Button != platform.ButtonRight {
		d.dragging = true
		b := h.widget.Bounds()
		d.ghost = &ghost{src: b, offset: ev.Pos.Sub(b.Origin()), pos: b.Origin()}
		d.env.placeholder.setWidget(h.widget)
	}
	return true
}

func (d *Dock) processCaptured(ev platform.Event) bool {
	switch ev.Type {
	case platform.EventMouseMove:
		d.capturedMove(ev.Pos)
	case platform.EventMouseUp:
		d.finish(ev)
	}
	return true
}

func (d *Dock) capturedMove(pos geom.Point) {
	if d.ghost != nil {
		d.ghost.pos = pos.Sub(d.ghost.offset)
	}
	if i := d.hit.index; i >= 0 {
		delta := pos.Sub(d.startPos)
		sz := d.startSize
		switch i {
		case idxTop:
			sz.H += delta.Y
		case idxBottom:
			sz.H -= delta.Y
		case idxLeft:
			sz.W += delta.X
		case idxRight:
			sz.W -= delta.X
		}
		d.sizes[i] = geom.Sz(max(sz.W, 0), max(sz.H, 0))
		d.relayout()
		d.resized.emit()
		return
	}
	if d.dragging && d.hit.dockable != nil {
		d.updateDropTarget(pos)
	}
}

// updateDropTarget arms the side the dragged widget would move to and
// previews it with the placeholder. A side is a candidate when the pointer
// is within the buffer zone of that edge, the widget can dock there and it
// is not already there.
func (d *Dock) updateDropTarget(pos geom.Point) {
	w := d.hit.widget
	origin := d.WhichSideChildIsDocked(w)
	if origin == 0 || !d.bounds.Contains(pos) {
		return
	}
	b := d.bounds
	wb := w.Bounds()
	buffer := max(12*d.env.scale, min(wb.W, wb.H))
	at := d.hit.dockable.DockableAt()

	target := Side(0)
	switch {
	case at&Left != 0 && origin != Left && pos.X < b.X+buffer:
		target = Left
	case at&Right != 0 && origin != Right && pos.X > b.X2()-buffer:
		target = Right
	case at&Top != 0 && origin != Top && pos.Y < b.Y+buffer:
		target = Top
	case at&Bottom != 0 && origin != Bottom && pos.Y > b.Y2()-buffer:
		target = Bottom
	}
	if target == d.hit.target {
		return
	}
	d.hit.target = target

	ph := d.env.placeholder
	d.Undock(ph)
	if target != 0 {
		d.Dock(target, ph, w.SizeHint())
	}
	d.relayout()
}

func (d *Dock) finish(ev platform.Event) {
	d.env.capture.Release(d)
	d.Undock(d.env.placeholder)

	h := d.hit
	dragging, resizing := d.dragging, d.resizing
	d.hit = noHit()
	d.dragging = false
	d.resizing = false
	d.ghost = nil

	if h.dockable != nil {
		current := d.WhichSideChildIsDocked(h.widget)
		switch {
		case ev.Button == platform.ButtonRight && !dragging:
			sides := menuSides(h.dockable.DockableAt(), current)
			if fn := d.env.contextMenu; fn != nil && len(sides) > 0 {
				w, path := h.widget, h.path
				fn(ev.Pos, w, sides, func(side Side) { d.redock(w, side, path) })
			}
		case dragging && h.target != 0:
			d.redock(h.widget, h.target, h.path)
			return
		}
	}
	d.relayout()
	if resizing {
		notifyUserResized(h.path)
	}
}

// menuSides lists the sides offered by the redock context menu.
func menuSides(at, current Side) []Side {
	var out []Side
	for _, s := range []Side{Left, Right, Top, Bottom} {
		if at&s != 0 && current != s {
			out = append(out, s)
		}
	}
	return out
}

// redock moves w to side of d, asking the redock hook for its size.
func (d *Dock) redock(w Widget, side Side, path []*Dock) {
	if d.WhichSideChildIsDocked(w) == 0 {
		return
	}
	var size geom.Size
	if fn := d.env.redockSize; fn != nil {
		size = fn(w, side, d.bounds)
	}
	d.Undock(w)
	d.Dock(side, w, size)
	d.relayout()
	notifyUserResized(path)
}

// notifyUserResized fires the user-resized signal from the deepest node up
// to the root.
func notifyUserResized(path []*Dock) {
	for i := len(path) - 1; i >= 0; i-- {
		path[i].userResized.emit()
	}
}

// cancelInteraction drops a drag or resize without applying it.
func (d *Dock) cancelInteraction() {
	d.env.capture.Release(d)
	if d.dragging || d.hit.target != 0 {
		d.Undock(d.env.placeholder)
	}
	d.hit = noHit()
	d.dragging = false
	d.resizing = false
	d.ghost = nil
}

// CursorAt returns the pointer shape for p: a resize arrow over splitters, a
// move cursor over drag handles.
func (d *Dock) CursorAt(p geom.Point) platform.Cursor {
	var h hit
	if owner := d.capturingDock(); owner != nil {
		h = owner.hit
	} else {
		h = d.calcHit(p, nil)
	}
	switch {
	case h.index >= 0:
		switch sideFromIndex(h.index) {
		case Top, Bottom:
			return platform.CursorSizeNS
		case Left, Right:
			return platform.CursorSizeWE
		}
	case h.dockable != nil && h.target == 0:
		return platform.CursorMove
	}
	return platform.CursorArrow
}

// Dragging reports whether a redock drag is in progress in the tree.
func (d *Dock) Dragging() bool {
	owner := d.capturingDock()
	return owner != nil && owner.dragging
}

// DropTarget is the side armed by the current drag, or 0.
func (d *Dock) DropTarget() Side {
	if owner := d.capturingDock(); owner != nil {
		return owner.hit.target
	}
	return 0
}
