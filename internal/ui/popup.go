package ui

import (
	"pxed/internal/geom"
	"pxed/internal/platform"
	"pxed/internal/render"
	"pxed/internal/shape"
)

type MenuItem struct {
	Label  string
	Action func()
}

// PopupMenu is a modal list of actions. While it is shown it consumes every
// mouse and key event; clicking outside or Escape closes it.
type PopupMenu struct {
	theme   Theme
	shaper  shape.Shaper
	pad     int
	items   []MenuItem
	blobs   []*shape.Blob
	bounds  geom.Rect
	hover   int
	visible bool
}

func newPopupMenu(theme Theme, scale int, shaper shape.Shaper) *PopupMenu {
	return &PopupMenu{theme: theme, shaper: shaper, pad: theme.PaddingDp * scale, hover: -1}
}

// Show opens the menu with its top-left corner at p, moved inside within
// when it would overflow.
func (m *PopupMenu) Show(p geom.Point, items []MenuItem, within geom.Rect) {
	if len(items) == 0 {
		return
	}
	m.items = items
	m.blobs = m.blobs[:0]
	w := 0
	for _, it := range items {
		b := m.shaper.Shape(it.Label)
		m.blobs = append(m.blobs, b)
		w = max(w, b.Bounds.W)
	}
	w += 4 * m.pad
	h := len(items) * m.itemHeight()
	if !within.IsEmpty() {
		p.X = max(min(p.X, within.X2()-w), within.X)
		p.Y = max(min(p.Y, within.Y2()-h), within.Y)
	}
	m.bounds = geom.R(p.X, p.Y, w, h)
	m.hover = -1
	m.visible = true
}

func (m *PopupMenu) Hide() {
	m.visible = false
	m.items = nil
	m.hover = -1
}

func (m *PopupMenu) Visible() bool { return m.visible }

func (m *PopupMenu) Bounds() geom.Rect { return m.bounds }

func (m *PopupMenu) Items() []MenuItem { return m.items }

func (m *PopupMenu) itemHeight() int { return m.shaper.LineHeight() + 2*m.pad }

// ItemRect returns the row of item i.
func (m *PopupMenu) ItemRect(i int) geom.Rect {
	ih := m.itemHeight()
	return geom.R(m.bounds.X, m.bounds.Y+i*ih, m.bounds.W, ih)
}

func (m *PopupMenu) itemAt(p geom.Point) int {
	if !m.bounds.Contains(p) {
		return -1
	}
	return min((p.Y-m.bounds.Y)/m.itemHeight(), len(m.items)-1)
}

func (m *PopupMenu) activate(i int) {
	if i < 0 || i >= len(m.items) {
		return
	}
	action := m.items[i].Action
	m.Hide()
	if action != nil {
		action()
	}
}

func (m *PopupMenu) ProcessEvent(ev platform.Event) bool {
	if !m.visible {
		return false
	}
	switch ev.Type {
	case platform.EventMouseMove:
		m.hover = m.itemAt(ev.Pos)
	case platform.EventMouseDown:
		if m.itemAt(ev.Pos) < 0 {
			m.Hide()
		}
	case platform.EventMouseUp:
		m.activate(m.itemAt(ev.Pos))
	case platform.EventKeyDown:
		switch ev.Key {
		case platform.KeyEscape:
			m.Hide()
		case platform.KeyUp:
			m.hover = (max(m.hover, 0) + len(m.items) - 1) % len(m.items)
		case platform.KeyDown:
			m.hover = (m.hover + 1) % len(m.items)
		case platform.KeyEnter:
			m.activate(m.hover)
		}
	case platform.EventKeyUp, platform.EventDoubleClick, platform.EventMouseWheel:
	default:
		return false
	}
	return true
}

func (m *PopupMenu) Paint(fb *render.FrameBuffer) {
	if !m.visible {
		return
	}
	b := m.bounds
	fb.FillRect(b.X, b.Y, b.W, b.H, m.theme.Popup)
	for i := range m.items {
		rc := m.ItemRect(i)
		if i == m.hover {
			fb.FillRect(rc.X, rc.Y, rc.W, rc.H, m.theme.PopupHover)
		}
		m.shaper.Draw(fb, m.blobs[i], geom.Pt(rc.X+2*m.pad, rc.Y+m.pad), m.theme.Text)
	}
	fb.StrokeRect(b.X, b.Y, b.W, b.H, 1, m.theme.Border)
}
