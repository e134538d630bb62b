// Package layout snapshots the composition of a dock tree into named
// layouts and restores it, and keeps the user's layouts on disk.
package layout

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"pxed/internal/dock"
	"pxed/internal/geom"
	"pxed/pkg/layoutdoc"
)

// Ids of the built-in layouts. Users can modify them but not delete them.
const (
	Default         = "_default_"
	MirroredDefault = "_mirrored_default_"
)

const (
	dockElem = "dock"
	tabsElem = "tabs"

	attrID     = "id"
	attrName   = "name"
	attrSide   = "side"
	attrWidth  = "width"
	attrHeight = "height"
	attrActive = "active"
)

var ErrNotLayout = errors.New("layout: element is not a layout")

// Resolver maps a widget id stored in a layout to the live widget, or nil
// when the id is unknown.
type Resolver func(id string) dock.Widget

// Layout is an immutable snapshot of a dock tree.
type Layout struct {
	id   string
	name string
	elem *layoutdoc.Element
}

// MakeFromDock records the slots of d, their sizes and the ids of the
// widgets in them. The drag placeholder and widgets whose id cannot be
// stored are left out.
func MakeFromDock(id, name string, d *dock.Dock) *Layout {
	elem := layoutdoc.NewElement(layoutdoc.LayoutName,
		layoutdoc.Attr{Name: attrID, Value: id},
		layoutdoc.Attr{Name: attrName, Value: name})
	body := layoutdoc.NewElement(dockElem)
	encodeDock(body, d)
	elem.Append(body)
	return &Layout{id: id, name: name, elem: elem}
}

func MakeFromElement(e *layoutdoc.Element) (*Layout, error) {
	if e == nil || e.Name != layoutdoc.LayoutName {
		return nil, ErrNotLayout
	}
	id, _ := e.Attr(attrID)
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: missing id", ErrNotLayout)
	}
	name, ok := e.Attr(attrName)
	if !ok {
		name = id
	}
	return &Layout{id: id, name: name, elem: e.Clone()}, nil
}

func (l *Layout) ID() string   { return l.id }
func (l *Layout) Name() string { return l.name }

func (l *Layout) MatchID(id string) bool { return l.id == id }

// IsDefault reports whether l is one of the built-in layouts.
func (l *Layout) IsDefault() bool { return l.id == Default || l.id == MirroredDefault }

// Element returns a copy of the stored <layout> element.
func (l *Layout) Element() *layoutdoc.Element { return l.elem.Clone() }

func (l *Layout) body() *layoutdoc.Element {
	for _, c := range l.elem.Children {
		if c.Name == dockElem {
			return c
		}
	}
	return nil
}

// LoadLayout rebuilds d from the snapshot. It returns false, leaving d
// untouched, when the snapshot names an unknown widget, repeats a widget or
// a side, or has a malformed slot.
func (l *Layout) LoadLayout(d *dock.Dock, resolve Resolver) bool {
	body := l.body()
	if d == nil || body == nil || resolve == nil {
		return false
	}
	if !validDock(body, resolve, map[string]bool{}) {
		return false
	}
	d.ResetDocks()
	restoreDock(d, body, resolve)
	return true
}

// IsValidName reports whether name can be shown as a layout name.
func IsValidName(name string) bool {
	if name == "" || strings.TrimSpace(name) != name {
		return false
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func storable(w dock.Widget) bool {
	id := w.ID()
	return id != dock.PlaceholderID && id != dockElem && id != tabsElem && isXMLName(id)
}

func isXMLName(s string) bool {
	if s == "" || strings.HasPrefix(strings.ToLower(s), "xml") {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}

func encodeDock(e *layoutdoc.Element, d *dock.Dock) {
	for _, s := range d.Slots() {
		var child *layoutdoc.Element
		switch {
		case s.Dock != nil:
			child = layoutdoc.NewElement(dockElem)
			encodeDock(child, s.Dock)
			if len(child.Children) == 0 {
				continue
			}
		case s.Tabs != nil:
			child = encodeTabs(d.TabsAt(s.Side), s.Tabs)
			if child == nil {
				continue
			}
		case s.Widget != nil && storable(s.Widget):
			child = layoutdoc.NewElement(s.Widget.ID())
		default:
			continue
		}
		child.SetAttr(attrSide, s.Side.String())
		if s.Size.W > 0 {
			child.SetAttrInt(attrWidth, s.Size.W)
		}
		if s.Size.H > 0 {
			child.SetAttrInt(attrHeight, s.Size.H)
		}
		e.Append(child)
	}
}

// encodeTabs stores a tab group. A group with a single storable tab is
// stored as that widget.
func encodeTabs(tabs *dock.Tabs, items []dock.Widget) *layoutdoc.Element {
	var kept []dock.Widget
	active := 0
	for _, w := range items {
		if !storable(w) {
			continue
		}
		if tabs != nil && tabs.Active() == w {
			active = len(kept)
		}
		kept = append(kept, w)
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return layoutdoc.NewElement(kept[0].ID())
	}
	e := layoutdoc.NewElement(tabsElem)
	e.SetAttrInt(attrActive, active)
	for _, w := range kept {
		e.Append(layoutdoc.NewElement(w.ID()))
	}
	return e
}

func validDock(e *layoutdoc.Element, resolve Resolver, seen map[string]bool) bool {
	sides := map[dock.Side]bool{}
	widget := func(id string) bool {
		if seen[id] || resolve(id) == nil {
			return false
		}
		seen[id] = true
		return true
	}
	for _, c := range e.Children {
		v, _ := c.Attr(attrSide)
		side, ok := dock.ParseSide(v)
		if !ok || sides[side] {
			return false
		}
		sides[side] = true
		switch c.Name {
		case dockElem:
			if !validDock(c, resolve, seen) {
				return false
			}
		case tabsElem:
			if len(c.Children) == 0 {
				return false
			}
			for _, t := range c.Children {
				if len(t.Children) > 0 || !widget(t.Name) {
					return false
				}
			}
		default:
			if len(c.Children) > 0 || !widget(c.Name) {
				return false
			}
		}
	}
	return true
}

func restoreDock(d *dock.Dock, e *layoutdoc.Element, resolve Resolver) {
	for _, c := range e.Children {
		v, _ := c.Attr(attrSide)
		side, _ := dock.ParseSide(v)
		size := geom.Sz(c.AttrInt(attrWidth), c.AttrInt(attrHeight))
		switch c.Name {
		case dockElem:
			restoreDock(d.Subdock(side), c, resolve)
		case tabsElem:
			for _, t := range c.Children {
				d.Dock(side, resolve(t.Name), size)
			}
			if tabs := d.TabsAt(side); tabs != nil {
				tabs.SetActive(c.AttrInt(attrActive))
			}
		default:
			d.Dock(side, resolve(c.Name), size)
		}
		if !size.IsZero() {
			d.SetUserDefinedSizeAtSide(side, size)
		}
	}
}
