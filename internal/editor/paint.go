package editor

import (
	"pxed/internal/geom"
	"pxed/internal/render"
)

const caretWidth = 2

const (
	selectionAlphaFocused   = 200
	selectionAlphaUnfocused = 40
)

// Paint draws the background, selection highlight, text and caret clipped to
// the viewport.
func (e *TextEdit) Paint(fb *render.FrameBuffer) {
	vp := e.viewport()
	if vp.IsEmpty() || !e.visible {
		return
	}
	fb.PushClip(vp.X, vp.Y, vp.W, vp.H)
	defer fb.PopClip()

	fb.FillRect(vp.X, vp.Y, vp.W, vp.H, e.colors.Face)

	point := vp.Origin().Sub(e.scroll)
	caret := geom.Rect{}
	for i := 0; i < e.lines.Len(); i++ {
		line := e.lines.At(i)
		if point.Y+line.Height > vp.Y && point.Y < vp.Y2() {
			if rc, ok := e.selectionRect(line, point); ok {
				sel := e.colors.Selection
				sel.A = selectionAlphaUnfocused
				if e.focused {
					sel.A = selectionAlphaFocused
				}
				fb.BlendRect(rc.X, rc.Y, rc.W, rc.H, sel)
			}
			if line.Blob != nil {
				e.shaper.Draw(fb, line.Blob, point, e.colors.Text)
			}
		}
		if e.drawCaret && i == e.caret.Line {
			x := 0
			if line.Blob != nil {
				x = line.Blob.Advance(e.caret.Pos)
			}
			caret = geom.R(point.X+x, point.Y, caretWidth, line.Height)
		}
		point.Y += line.Height
	}
	e.caretRect = caret
	if e.drawCaret && !caret.IsEmpty() {
		fb.FillRect(caret.X, caret.Y, caret.W, caret.H, e.colors.Caret)
	}
}

// CaretRect is the caret box of the last paint, empty while the caret is
// hidden.
func (e *TextEdit) CaretRect() geom.Rect { return e.caretRect }

// selectionRect returns the highlight box of one line at origin. Empty lines
// inside the selection get a half line-height marker.
func (e *TextEdit) selectionRect(line *Line, origin geom.Point) (geom.Rect, bool) {
	s := e.selection
	if !s.Active() || !s.Contains(line.Index) {
		return geom.Rect{}, false
	}
	i := line.Index
	rc := geom.R(origin.X, origin.Y, 0, line.Height)
	switch {
	case line.Blob == nil:
		rc.W = line.Height / 2
	case s.Start.Line < i && s.End.Line > i,
		s.Start.Line == i && s.Start.Pos == 0 && s.End.Line > i,
		s.Start.Line == i && s.End.Line == i && s.Start.Pos == 0 && s.End.Pos == line.Len():
		rc.W = line.Width
	case s.Start.Line < i && s.End.Line == i:
		rc.W = line.Blob.Advance(s.End.Pos)
	case s.Start.Line == i:
		end := line.Len()
		if s.End.Line == i {
			end = s.End.Pos
		}
		from := line.Blob.Advance(s.Start.Pos)
		rc.X += from
		rc.W = line.Blob.Advance(end) - from
	default:
		panic("editor: selection does not intersect line")
	}
	return rc, rc.W > 0
}
