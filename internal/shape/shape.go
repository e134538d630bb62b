// Package shape turns strings into positioned glyph runs using
// golang.org/x/image font faces, and draws them into a frame buffer.
package shape

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"pxed/internal/geom"
	"pxed/internal/render"
)

// Shaper is the text shaping service the editor depends on.
type Shaper interface {
	Shape(text string) *Blob
	LineHeight() int
	Draw(fb *render.FrameBuffer, blob *Blob, origin geom.Point, c color.RGBA)
}

// Glyph is one shaped rune. Bounds are relative to the blob origin; Y is the
// top of the line box.
type Glyph struct {
	Rune   rune
	Bounds geom.Rect
}

type Run struct {
	Glyphs []Glyph
}

func (r *Run) GlyphCount() int { return len(r.Glyphs) }

// GlyphBounds returns the box of glyph i, or an empty rect when i is out of
// range.
func (r *Run) GlyphBounds(i int) geom.Rect {
	if i < 0 || i >= len(r.Glyphs) {
		return geom.Rect{}
	}
	return r.Glyphs[i].Bounds
}

// Blob is the shaped form of a single line of text.
type Blob struct {
	Text   string
	Runs   []Run
	Bounds geom.Rect
}

func (b *Blob) VisitRuns(fn func(run *Run)) {
	if b == nil {
		return
	}
	for i := range b.Runs {
		fn(&b.Runs[i])
	}
}

// Advance returns the summed width of the first n glyphs.
func (b *Blob) Advance(n int) int {
	w := 0
	b.VisitRuns(func(run *Run) {
		for i := 0; i < run.GlyphCount() && n > 0; i++ {
			w += run.GlyphBounds(i).W
			n--
		}
	})
	return w
}

// FaceShaper shapes text with a single font face, one glyph per rune.
type FaceShaper struct {
	face font.Face
}

func NewFaceShaper(face font.Face) *FaceShaper {
	if face == nil {
		face = basicfont.Face7x13
	}
	return &FaceShaper{face: face}
}

// NewDefaultShaper loads the Go regular font at the given pixel size,
// falling back to the fixed 7x13 bitmap face.
func NewDefaultShaper(sizePx float64) *FaceShaper {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return NewFaceShaper(nil)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: sizePx, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return NewFaceShaper(nil)
	}
	return NewFaceShaper(face)
}

func (s *FaceShaper) LineHeight() int {
	h := s.face.Metrics().Height.Ceil()
	if h <= 0 {
		h = 1
	}
	return h
}

func (s *FaceShaper) Shape(text string) *Blob {
	blob := &Blob{Text: text}
	run := Run{Glyphs: make([]Glyph, 0, len(text))}
	h := s.LineHeight()
	x := fixed.Int26_6(0)
	prev := rune(-1)
	for _, r := range text {
		if prev >= 0 {
			x += s.face.Kern(prev, r)
		}
		adv, ok := s.face.GlyphAdvance(r)
		if !ok {
			adv, _ = s.face.GlyphAdvance('?')
		}
		left := x.Round()
		x += adv
		run.Glyphs = append(run.Glyphs, Glyph{Rune: r, Bounds: geom.R(left, 0, x.Round()-left, h)})
		prev = r
	}
	blob.Runs = []Run{run}
	blob.Bounds = geom.R(0, 0, x.Round(), h)
	return blob
}

func (s *FaceShaper) Draw(fb *render.FrameBuffer, blob *Blob, origin geom.Point, c color.RGBA) {
	if blob == nil || blob.Text == "" {
		return
	}
	d := font.Drawer{
		Dst:  fb.RGBA(),
		Src:  image.NewUniform(c),
		Face: s.face,
		Dot:  fixed.P(origin.X, origin.Y+s.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(blob.Text)
}
