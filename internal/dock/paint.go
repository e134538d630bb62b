package dock

import (
	"pxed/internal/geom"
	"pxed/internal/render"
)

// PlaceholderID identifies the drop preview widget.
const PlaceholderID = "dock_dropzone"

// placeholder previews where a dragged widget will land.
type placeholder struct {
	env    *env
	bounds geom.Rect
	hint   geom.Size
}

func (p *placeholder) setWidget(w Widget) { p.hint = w.SizeHint() }

func (p *placeholder) ID() string            { return PlaceholderID }
func (p *placeholder) Bounds() geom.Rect     { return p.bounds }
func (p *placeholder) SetBounds(r geom.Rect) { p.bounds = r }
func (p *placeholder) Visible() bool         { return true }
func (p *placeholder) SizeHint() geom.Size   { return p.hint }
func (p *placeholder) DockableAt() Side      { return Edges }
func (p *placeholder) DockHandleSide() Side  { return 0 }

func (p *placeholder) Paint(fb *render.FrameBuffer) {
	c := p.env.colors
	b := p.bounds
	fb.FillRect(b.X, b.Y, b.W, b.H, c.Background)
	b = b.Shrink(2)
	if b.IsEmpty() {
		return
	}
	fb.StrokeRect(b.X, b.Y, b.W, b.H, 1, c.Placeholder)
	ctr := b.Center()
	x2, y2 := b.X2()-1, b.Y2()-1
	fb.DrawLine(ctr.X, ctr.Y, b.X, b.Y, c.Placeholder)
	fb.DrawLine(ctr.X, ctr.Y, x2, y2, c.Placeholder)
	fb.DrawLine(ctr.X, ctr.Y, b.X, y2, c.Placeholder)
	fb.DrawLine(ctr.X, ctr.Y, x2, b.Y, c.Placeholder)
	s := p.env.scale
	fb.StrokeRect(ctr.X-2*s, ctr.Y-2*s, 4*s, 4*s, 1, c.Placeholder)
}

// Paint draws the tree and, during a drag, the translucent image of the
// dragged widget under the pointer.
func (d *Dock) Paint(fb *render.FrameBuffer) {
	d.paintTree(fb)
	d.paintGhosts(fb)
}

func (d *Dock) paintTree(fb *render.FrameBuffer) {
	if !d.visible || d.bounds.IsEmpty() {
		return
	}
	c := d.env.colors
	b := d.bounds
	fb.FillRect(b.X, b.Y, b.W, b.H, c.Background)
	th := d.env.textHeight
	d.forEachSide(b, func(_ int, o occupant, rc, _ geom.Rect) {
		o.paint(fb)
		if !d.customizing {
			return
		}
		h := handleRect(rc, o.handleSide(), th)
		switch o.handleSide() {
		case Top:
			for y := h.Y; y+1 < h.Y2(); y += 2 {
				fb.DrawHLine(h.X, y, h.W, c.Handle)
			}
		case Left:
			for x := h.X; x+1 < h.X2(); x += 2 {
				fb.DrawVLine(x, h.Y, h.H, c.Handle)
			}
		}
	})
}

func (d *Dock) paintGhosts(fb *render.FrameBuffer) {
	if g := d.ghost; g != nil {
		if g.img == nil {
			g.img = fb.Snapshot(g.src.X, g.src.Y, g.src.W, g.src.H)
		}
		fb.DrawImageAlpha(g.img, g.pos.X, g.pos.Y, ghostAlpha)
	}
	for _, o := range d.slots {
		if o.kind == occDock {
			o.dock.paintGhosts(fb)
		}
	}
}
