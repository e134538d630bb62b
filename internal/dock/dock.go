// Package dock implements the dockable panel layout engine: a tree of dock
// nodes with five slots each, tab groups, splitter resizing and drag and
// drop redocking.
package dock

import (
	"image/color"
	"log/slog"

	"pxed/internal/geom"
	"pxed/internal/platform"
)

// RedockSizeFunc returns the preferred size of w when it is redocked at side
// inside a dock with the given bounds. A zero size keeps the size hint.
type RedockSizeFunc func(w Widget, side Side, dockBounds geom.Rect) geom.Size

// ContextMenuFunc offers the sides a widget can move to. choose must be
// called with one of them, or not at all when the user cancels.
type ContextMenuFunc func(at geom.Point, w Widget, sides []Side, choose func(Side))

type Colors struct {
	Background  color.RGBA
	Handle      color.RGBA
	Placeholder color.RGBA
	Tab         color.RGBA
	TabActive   color.RGBA
}

func DefaultColors() Colors {
	return Colors{
		Background:  color.RGBA{0x3A, 0x3F, 0x4B, 0xFF},
		Handle:      color.RGBA{0xB2, 0xBF, 0xD0, 0xFF},
		Placeholder: color.RGBA{0x59, 0x4D, 0x57, 0xFF},
		Tab:         color.RGBA{0x4A, 0x50, 0x5E, 0xFF},
		TabActive:   color.RGBA{0x6B, 0x74, 0x88, 0xFF},
	}
}

type Options struct {
	ID      string
	Capture *platform.Capture
	// Scale is the integer UI scale. Spacing and drop zones grow with it.
	Scale int
	// TextHeight is the height of drag handles and tab strips.
	TextHeight int
	Colors     *Colors
	Logger     *slog.Logger
}

// env is shared by every node of one dock tree.
type env struct {
	capture     *platform.Capture
	scale       int
	spacing     int
	textHeight  int
	colors      Colors
	logger      *slog.Logger
	redockSize  RedockSizeFunc
	contextMenu ContextMenuFunc
	placeholder *placeholder
}

// Dock is one node of the tree. Nested docks created by Subdock and
// DockRelativeTo belong to the node that made them; leaf widgets are only
// referenced.
type Dock struct {
	env *env
	id  string

	slots  [numSlots]occupant
	aligns [numSlots]Side
	sizes  [numSlots]geom.Size

	bounds      geom.Rect
	visible     bool
	customizing bool
	auto        bool

	hit       hit
	startPos  geom.Point
	startSize geom.Size
	dragging  bool
	resizing  bool
	ghost     *ghost

	resized     listeners
	userResized listeners
}

func New(opts Options) *Dock {
	if opts.Capture == nil {
		opts.Capture = &platform.Capture{}
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.TextHeight <= 0 {
		opts.TextHeight = 13
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	colors := DefaultColors()
	if opts.Colors != nil {
		colors = *opts.Colors
	}
	e := &env{
		capture:    opts.Capture,
		scale:      opts.Scale,
		spacing:    4 * opts.Scale,
		textHeight: opts.TextHeight,
		colors:     colors,
		logger:     opts.Logger,
	}
	e.placeholder = &placeholder{env: e}
	return &Dock{env: e, id: opts.ID, visible: true, hit: noHit()}
}

func (d *Dock) newSubdock() *Dock {
	return &Dock{env: d.env, visible: true, auto: true, customizing: d.customizing, hit: noHit()}
}

func (d *Dock) ID() string { return d.id }

// AutoCreated reports whether the dock was made internally to split a slot.
func (d *Dock) AutoCreated() bool { return d.auto }

// SetRedockSizeHook installs the size rule used when a widget is redocked by
// the user anywhere in this tree.
func (d *Dock) SetRedockSizeHook(fn RedockSizeFunc) { d.env.redockSize = fn }

// SetContextMenuHook installs the menu shown on right-click of a drag
// handle.
func (d *Dock) SetContextMenuHook(fn ContextMenuFunc) { d.env.contextMenu = fn }

// OnResized registers fn to run while a splitter of this node moves. The
// returned func disconnects it.
func (d *Dock) OnResized(fn func()) (disconnect func()) { return d.resized.add(fn) }

// OnUserResized registers fn to run after the user resized or redocked
// anything at or below this node.
func (d *Dock) OnUserResized(fn func()) (disconnect func()) { return d.userResized.add(fn) }

// Dock puts w into the slot at side. An empty slot takes w directly and
// prefSize, when not zero, overrides its size. A nested dock receives w in
// its center, a tab group gets a new tab, and a slot holding a plain widget
// becomes a tab group of both.
func (d *Dock) Dock(side Side, w Widget, prefSize geom.Size) {
	i := sideIndex(side)
	if i < 0 || w == nil {
		return
	}
	if d.pathTo(w) != nil {
		d.Undock(w)
	}
	switch o := d.slots[i]; o.kind {
	case occEmpty:
		d.setSide(i, widgetOccupant(w))
		if !prefSize.IsZero() {
			d.sizes[i] = prefSize
		}
	case occDock:
		o.dock.Dock(Center, w, prefSize)
	case occTabs:
		o.tabs.add(w)
		d.aligns[i] = d.calcAlign(i)
	case occWidget:
		size := d.sizes[i]
		d.setSide(i, occupant{kind: occTabs, tabs: newTabs(d.env, o.widget, w)})
		d.sizes[i] = size
	default:
		panic("dock: unknown slot occupant")
	}
}

// DockRelativeTo wraps relative in a new nested dock that takes its place,
// then docks w at side of that new dock.
func (d *Dock) DockRelativeTo(relative Widget, side Side, w Widget, prefSize geom.Size) {
	path := d.pathTo(relative)
	if path == nil || sideIndex(side) < 0 {
		return
	}
	parent := path[len(path)-1]
	i := parent.slotOf(relative)
	sub := parent.newSubdock()
	sub.setSide(idxCenter, parent.slots[i])
	sub.Dock(side, w, prefSize)
	parent.setSide(i, occupant{kind: occDock, dock: sub})
}

// Undock removes w from whatever node or tab group holds it. Nested nodes
// left empty are removed from their parents, up to but not including d.
func (d *Dock) Undock(w Widget) {
	path := d.pathTo(w)
	if path == nil {
		return
	}
	parent := path[len(path)-1]
	i := parent.slotOf(w)
	if o := parent.slots[i]; o.kind == occTabs && Widget(o.tabs) != w {
		parent.removeTab(i, w)
	} else {
		parent.clearSide(i)
	}
	for k := len(path) - 1; k > 0; k-- {
		if !path[k].isEmpty() {
			break
		}
		up := path[k-1]
		up.clearSide(up.slotOf(path[k]))
	}
}

// Subdock returns the nested dock at side, creating it when the slot holds
// something else. A previous occupant moves into the new dock's center.
func (d *Dock) Subdock(side Side) *Dock {
	i := sideIndex(side)
	if i < 0 {
		return nil
	}
	if o := d.slots[i]; o.kind == occDock {
		return o.dock
	}
	sub := d.newSubdock()
	if old := d.slots[i]; !old.empty() {
		sub.setSide(idxCenter, old)
	}
	d.setSide(i, occupant{kind: occDock, dock: sub})
	return sub
}

func (d *Dock) Top() *Dock    { return d.Subdock(Top) }
func (d *Dock) Bottom() *Dock { return d.Subdock(Bottom) }
func (d *Dock) Left() *Dock   { return d.Subdock(Left) }
func (d *Dock) Right() *Dock  { return d.Subdock(Right) }
func (d *Dock) Center() *Dock { return d.Subdock(Center) }

// ResetDocks empties the whole tree. Auto-created nested docks are dropped.
func (d *Dock) ResetDocks() {
	d.cancelInteraction()
	for i := range d.slots {
		if o := d.slots[i]; o.kind == occDock {
			o.dock.ResetDocks()
		}
		d.clearSide(i)
	}
}

// WhichSideChildIsDocked returns the slot of d that holds w, directly, as a
// tab, or somewhere inside a nested dock. It returns 0 when w is not in the
// tree.
func (d *Dock) WhichSideChildIsDocked(w Widget) Side {
	for i, o := range d.slots {
		if o.holds(w) {
			return sideFromIndex(i)
		}
		if o.kind == occDock && o.dock.WhichSideChildIsDocked(w) != 0 {
			return sideFromIndex(i)
		}
	}
	return 0
}

// UserDefinedSizeAtSide returns the splitter size of an expansive slot and a
// zero size for any other slot.
func (d *Dock) UserDefinedSizeAtSide(side Side) geom.Size {
	i := sideIndex(side)
	if i < 0 || d.aligns[i]&Expansive == 0 {
		return geom.Size{}
	}
	return d.sizes[i]
}

// SetUserDefinedSizeAtSide overrides the size of a slot. Negative extents
// are clamped to zero.
func (d *Dock) SetUserDefinedSizeAtSide(side Side, size geom.Size) {
	if i := sideIndex(side); i >= 0 {
		d.sizes[i] = geom.Sz(max(size.W, 0), max(size.H, 0))
	}
}

// AlignAt returns the cached placement flags of a slot.
func (d *Dock) AlignAt(side Side) Side {
	if i := sideIndex(side); i >= 0 {
		return d.aligns[i]
	}
	return 0
}

func (d *Dock) Customizing() bool { return d.customizing }

// SetCustomizing turns the drag handles of the whole subtree on or off.
func (d *Dock) SetCustomizing(enable bool) {
	d.customizing = enable
	for _, o := range d.slots {
		if o.kind == occDock {
			o.dock.SetCustomizing(enable)
		}
	}
	if !enable {
		d.cancelInteraction()
	}
	d.relayout()
}

// Slot describes a populated slot.
type Slot struct {
	Side   Side
	Widget Widget
	Dock   *Dock
	Tabs   []Widget
	// Size is the user-defined size, zero for slots without a splitter.
	Size geom.Size
}

// Slots lists the populated slots in layout order.
func (d *Dock) Slots() []Slot {
	var out []Slot
	for i, o := range d.slots {
		if o.empty() {
			continue
		}
		s := Slot{Side: sideFromIndex(i), Size: d.UserDefinedSizeAtSide(sideFromIndex(i))}
		switch o.kind {
		case occWidget:
			s.Widget = o.widget
		case occDock:
			s.Dock = o.dock
		case occTabs:
			s.Tabs = o.tabs.Widgets()
		}
		out = append(out, s)
	}
	return out
}

// TabsAt returns the tab group at side, or nil.
func (d *Dock) TabsAt(side Side) *Tabs {
	if i := sideIndex(side); i >= 0 && d.slots[i].kind == occTabs {
		return d.slots[i].tabs
	}
	return nil
}

// WidgetAt returns the deepest leaf widget under p.
func (d *Dock) WidgetAt(p geom.Point) Widget {
	for _, o := range d.slots {
		if o.empty() || !o.visible() {
			continue
		}
		switch o.kind {
		case occDock:
			if o.dock.bounds.Contains(p) {
				if w := o.dock.WidgetAt(p); w != nil {
					return w
				}
			}
		case occTabs:
			if w := o.tabs.Active(); w != nil && w.Bounds().Contains(p) {
				return w
			}
		case occWidget:
			if o.widget.Bounds().Contains(p) {
				return o.widget
			}
		}
	}
	return nil
}

func (d *Dock) isEmpty() bool {
	for _, o := range d.slots {
		if !o.empty() {
			return false
		}
	}
	return true
}

// pathTo returns the docks from d down to the node whose slot holds w, or
// nil when w is not in the tree.
func (d *Dock) pathTo(w Widget) []*Dock {
	for _, o := range d.slots {
		if o.holds(w) {
			return []*Dock{d}
		}
	}
	for _, o := range d.slots {
		if o.kind != occDock {
			continue
		}
		if sub := o.dock.pathTo(w); sub != nil {
			return append([]*Dock{d}, sub...)
		}
	}
	return nil
}

// pathToDock returns the docks from d down to target, both included.
func (d *Dock) pathToDock(target *Dock) []*Dock {
	if d == target {
		return []*Dock{d}
	}
	for _, o := range d.slots {
		if o.kind != occDock {
			continue
		}
		if sub := o.dock.pathToDock(target); sub != nil {
			return append([]*Dock{d}, sub...)
		}
	}
	return nil
}

func (d *Dock) slotOf(w Widget) int {
	for i, o := range d.slots {
		if o.holds(w) {
			return i
		}
	}
	return -1
}

// setSide replaces the occupant of slot i, recomputing its alignment and
// resetting its size to the occupant's size hint.
func (d *Dock) setSide(i int, o occupant) {
	d.slots[i] = o
	d.aligns[i] = d.calcAlign(i)
	d.sizes[i] = o.sizeHint()
}

// removeTab drops w from the tab group in slot i. A group left with one tab
// turns back into a plain widget slot, keeping its size.
func (d *Dock) removeTab(i int, w Widget) {
	tabs := d.slots[i].tabs
	tabs.remove(w)
	switch tabs.Len() {
	case 0:
		d.clearSide(i)
	case 1:
		size := d.sizes[i]
		d.setSide(i, widgetOccupant(tabs.items[0]))
		d.sizes[i] = size
	default:
		d.aligns[i] = d.calcAlign(i)
	}
}

func (d *Dock) clearSide(i int) {
	d.slots[i] = occupant{}
	d.aligns[i] = 0
	d.sizes[i] = geom.Size{}
}

// calcAlign derives the flags of slot i from its occupant. A nested dock
// reports the flags of its own slot at the same position.
func (d *Dock) calcAlign(i int) Side {
	switch o := d.slots[i]; o.kind {
	case occDock:
		return o.dock.calcAlign(i)
	case occTabs:
		return o.tabs.dockableAt()
	case occWidget:
		if dk, ok := o.widget.(Dockable); ok {
			return dk.DockableAt()
		}
	}
	return 0
}

func (d *Dock) Bounds() geom.Rect { return d.bounds }

func (d *Dock) Visible() bool { return d.visible }

// SizeHint sums the hints of the visible slots plus the gutters between
// them.
func (d *Dock) SizeHint() geom.Size {
	var sz geom.Size
	sp := d.env.spacing
	if o := d.slots[idxLeft]; o.visible() {
		sz.W += o.sizeHint().W + sp
	}
	if o := d.slots[idxRight]; o.visible() {
		sz.W += o.sizeHint().W + sp
	}
	if o := d.slots[idxTop]; o.visible() {
		sz.H += o.sizeHint().H + sp
	}
	if o := d.slots[idxBottom]; o.visible() {
		sz.H += o.sizeHint().H + sp
	}
	if o := d.slots[idxCenter]; o.visible() {
		sz = sz.Add(o.sizeHint())
	}
	return sz
}

// SetBounds lays out the tree inside r.
func (d *Dock) SetBounds(r geom.Rect) {
	d.bounds = r
	d.updateDockVisibility()
	d.forEachSide(r, func(i int, o occupant, rc, _ geom.Rect) {
		if d.customizing {
			th := d.env.textHeight
			switch o.handleSide() {
			case Top:
				rc.Y += th
				rc.H = max(rc.H-th, 0)
			case Left:
				rc.X += th
				rc.W = max(rc.W-th, 0)
			}
		}
		o.setBounds(rc)
	})
}

func (d *Dock) relayout() { d.SetBounds(d.bounds) }

// updateDockVisibility marks a node visible iff at least one occupant is,
// evaluating nested docks first.
func (d *Dock) updateDockVisibility() {
	visible := false
	for _, o := range d.slots {
		if o.kind == occDock {
			o.dock.updateDockVisibility()
		}
		if o.visible() {
			visible = true
		}
	}
	d.visible = visible
}

// forEachSide visits the visible slots in the order top, bottom, left,
// right, center. Each slot takes its extent from the remaining bounds;
// expansive slots are followed by a splitter gutter.
func (d *Dock) forEachSide(bounds geom.Rect, fn func(i int, o occupant, rc, separator geom.Rect)) {
	for i, o := range d.slots {
		if o.empty() || !o.visible() {
			continue
		}
		spacing := 0
		sz := o.sizeHint()
		if d.aligns[i]&Expansive != 0 {
			spacing = d.env.spacing
			sz = d.sizes[i]
		}

		var rc, sep geom.Rect
		switch i {
		case idxTop:
			rc = geom.R(bounds.X, bounds.Y, bounds.W, sz.H)
			bounds.Y += rc.H
			bounds.H -= rc.H
			if spacing > 0 {
				sep = geom.R(bounds.X, bounds.Y, bounds.W, spacing)
				bounds.Y += spacing
				bounds.H -= spacing
			}
		case idxBottom:
			rc = geom.R(bounds.X, bounds.Y2()-sz.H, bounds.W, sz.H)
			bounds.H -= rc.H
			if spacing > 0 {
				sep = geom.R(bounds.X, bounds.Y2()-spacing, bounds.W, spacing)
				bounds.H -= spacing
			}
		case idxLeft:
			rc = geom.R(bounds.X, bounds.Y, sz.W, bounds.H)
			bounds.X += rc.W
			bounds.W -= rc.W
			if spacing > 0 {
				sep = geom.R(bounds.X, bounds.Y, spacing, bounds.H)
				bounds.X += spacing
				bounds.W -= spacing
			}
		case idxRight:
			rc = geom.R(bounds.X2()-sz.W, bounds.Y, sz.W, bounds.H)
			bounds.W -= rc.W
			if spacing > 0 {
				sep = geom.R(bounds.X2()-spacing, bounds.Y, spacing, bounds.H)
				bounds.W -= spacing
			}
		case idxCenter:
			rc = bounds
		}
		fn(i, o, rc, sep)
	}
}

// Close abandons any drag or resize in progress, releasing the capture.
func (d *Dock) Close() {
	d.cancelInteraction()
	for _, o := range d.slots {
		if o.kind == occDock {
			o.dock.Close()
		}
	}
}

type listeners struct {
	next int
	fns  map[int]func()
}

func (l *listeners) add(fn func()) func() {
	if l.fns == nil {
		l.fns = map[int]func(){}
	}
	l.next++
	id := l.next
	l.fns[id] = fn
	return func() { delete(l.fns, id) }
}

func (l *listeners) emit() {
	for i := 1; i <= l.next; i++ {
		if fn, ok := l.fns[i]; ok {
			fn()
		}
	}
}
