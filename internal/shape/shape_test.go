package shape

import (
	"image/color"
	"testing"

	"pxed/internal/geom"
	"pxed/internal/render"
)

func TestShapeFixedFaceGlyphs(t *testing.T) {
	s := NewFaceShaper(nil)
	blob := s.Shape("abc")

	if got := s.LineHeight(); got != 13 {
		t.Fatalf("unexpected line height: %d", got)
	}
	if blob.Bounds.W != 21 {
		t.Fatalf("unexpected blob width: %d", blob.Bounds.W)
	}
	if len(blob.Runs) != 1 || blob.Runs[0].GlyphCount() != 3 {
		t.Fatalf("expected one run of three glyphs, got %#v", blob.Runs)
	}
	if got := blob.Runs[0].GlyphBounds(2); got != geom.R(14, 0, 7, 13) {
		t.Fatalf("unexpected third glyph bounds: %v", got)
	}
	if got := blob.Advance(2); got != 14 {
		t.Fatalf("unexpected advance: %d", got)
	}
}

func TestGlyphBoundsOutOfRange(t *testing.T) {
	blob := NewFaceShaper(nil).Shape("a")
	if !blob.Runs[0].GlyphBounds(5).IsEmpty() {
		t.Fatalf("expected empty bounds for a missing glyph")
	}
}

func TestDrawPaintsPixels(t *testing.T) {
	s := NewFaceShaper(nil)
	fb := render.NewFrameBuffer(40, 20)
	ink := color.RGBA{R: 0xFF, A: 0xFF}
	s.Draw(fb, s.Shape("HH"), geom.Pt(2, 2), ink)

	found := false
	for y := 0; y < fb.H && !found; y++ {
		for x := 0; x < fb.W; x++ {
			if fb.At(x, y).R == 0xFF {
				found = true
				break
			}
		}
	}
	if !found {
		t.Fatalf("expected glyph pixels to be drawn")
	}
}
