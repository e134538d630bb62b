package editor

import (
	"strings"

	"pxed/internal/shape"
)

// Line is one row of the editor. Blob is a shaping cache derived from Text;
// it is nil for empty lines.
type Line struct {
	Text   string
	Blob   *shape.Blob
	Width  int
	Height int
	Index  int

	runes []rune
}

// Len returns the line length in characters.
func (l *Line) Len() int { return len(l.runes) }

func (l *Line) setText(text string, shaper shape.Shaper) {
	l.Text = text
	l.runes = []rune(text)
	l.Height = shaper.LineHeight()
	if text == "" {
		l.Blob = nil
		l.Width = 0
		return
	}
	l.Blob = shaper.Shape(text)
	l.Width = l.Blob.Bounds.W
	if l.Blob.Bounds.H > l.Height {
		l.Height = l.Blob.Bounds.H
	}
}

// posAtX maps a horizontal offset inside the line to a caret column. Points
// past the middle of a glyph land after it; points past the last glyph land
// at the end of the line.
func (l *Line) posAtX(x int) int {
	if l.Blob == nil || x <= 0 {
		return 0
	}
	pos := 0
	found := false
	l.Blob.VisitRuns(func(run *shape.Run) {
		for i := 0; i < run.GlyphCount() && !found; i++ {
			b := run.GlyphBounds(i)
			if x < b.X2() {
				if 2*(x-b.X) >= b.W {
					pos++
				}
				found = true
				return
			}
			pos++
		}
	})
	if !found {
		return l.Len()
	}
	return pos
}

// Lines is the line store of a text editor. Carets keep a plain pointer to
// it and check Alive before every dereference.
type Lines struct {
	items []Line
	dead  bool
}

func (ls *Lines) Len() int {
	if ls == nil || ls.dead {
		return 0
	}
	return len(ls.items)
}

func (ls *Lines) At(i int) *Line {
	if i < 0 || i >= ls.Len() {
		return nil
	}
	return &ls.items[i]
}

func (ls *Lines) Alive() bool { return ls != nil && !ls.dead }

// Texts returns the text of every line in order.
func (ls *Lines) Texts() []string {
	out := make([]string, ls.Len())
	for i := range out {
		out[i] = ls.items[i].Text
	}
	return out
}

// Join reassembles the flat text.
func (ls *Lines) Join() string { return strings.Join(ls.Texts(), "\n") }

// rebuild re-splits the flat text into lines. There is always at least one
// line, possibly empty.
func (ls *Lines) rebuild(text string, shaper shape.Shaper) {
	parts := strings.Split(text, "\n")
	items := make([]Line, len(parts))
	for i, part := range parts {
		items[i].Index = i
		items[i].setText(part, shaper)
	}
	ls.items = items
}

// patch replaces the text of a single line and refreshes its shaping cache.
func (ls *Lines) patch(i int, text string, shaper shape.Shaper) {
	if l := ls.At(i); l != nil {
		l.setText(text, shaper)
	}
}

// destroy invalidates every caret bound to the store.
func (ls *Lines) destroy() {
	ls.items = nil
	ls.dead = true
}

// size returns the widest line and the summed line heights.
func (ls *Lines) size() (w, h int) {
	for i := range ls.items {
		w = max(w, ls.items[i].Width)
		h += ls.items[i].Height
	}
	return w, h
}
