package ui

import (
	"image/color"

	"pxed/internal/dock"
	"pxed/internal/geom"
	"pxed/internal/render"
	"pxed/internal/shape"
)

// Panel is a flat dockable strip of the main window with a one-line label.
type Panel struct {
	id      string
	text    string
	face    color.RGBA
	fg      color.RGBA
	border  color.RGBA
	at      dock.Side
	handle  dock.Side
	hint    geom.Size
	pad     int
	bounds  geom.Rect
	visible bool
	shaper  shape.Shaper
	blob    *shape.Blob
}

type panelSpec struct {
	id     string
	text   string
	face   color.RGBA
	at     dock.Side
	handle dock.Side
	hint   geom.Size
}

func newPanel(s panelSpec, theme Theme, scale int, shaper shape.Shaper) *Panel {
	p := &Panel{
		id:      s.id,
		face:    s.face,
		fg:      theme.Text,
		border:  theme.Border,
		at:      s.at,
		handle:  s.handle,
		hint:    s.hint,
		pad:     theme.PaddingDp * scale,
		visible: true,
		shaper:  shaper,
	}
	p.SetText(s.text)
	return p
}

func (p *Panel) ID() string                { return p.id }
func (p *Panel) Bounds() geom.Rect         { return p.bounds }
func (p *Panel) SetBounds(r geom.Rect)     { p.bounds = r }
func (p *Panel) Visible() bool             { return p.visible }
func (p *Panel) SetVisible(v bool)         { p.visible = v }
func (p *Panel) SizeHint() geom.Size       { return p.hint }
func (p *Panel) DockableAt() dock.Side     { return p.at }
func (p *Panel) DockHandleSide() dock.Side { return p.handle }
func (p *Panel) Text() string              { return p.text }

func (p *Panel) SetText(text string) {
	p.text = text
	p.blob = p.shaper.Shape(text)
}

func (p *Panel) Paint(fb *render.FrameBuffer) {
	b := p.bounds
	if b.IsEmpty() {
		return
	}
	fb.FillRect(b.X, b.Y, b.W, b.H, p.face)
	fb.StrokeRect(b.X, b.Y, b.W, b.H, 1, p.border)
	if p.text == "" {
		return
	}
	fb.PushClip(b.X+1, b.Y+1, b.W-2, b.H-2)
	y := b.Y + max((b.H-p.shaper.LineHeight())/2, 0)
	p.shaper.Draw(fb, p.blob, geom.Pt(b.X+p.pad, y), p.fg)
	fb.PopClip()
}

// Workspace is the center panel where sprites are edited. Without a document
// it shows the transparency checkerboard.
type Workspace struct {
	*Panel
	checker color.RGBA
	cell    int
}

func (w *Workspace) Paint(fb *render.FrameBuffer) {
	b := w.bounds
	if b.IsEmpty() {
		return
	}
	fb.FillRect(b.X, b.Y, b.W, b.H, w.face)
	fb.PushClip(b.X, b.Y, b.W, b.H)
	for y := 0; y < b.H; y += w.cell {
		for x := (y / w.cell % 2) * w.cell; x < b.W; x += 2 * w.cell {
			fb.FillRect(b.X+x, b.Y+y, w.cell, w.cell, w.checker)
		}
	}
	fb.PopClip()
	fb.StrokeRect(b.X, b.Y, b.W, b.H, 1, w.border)
}
