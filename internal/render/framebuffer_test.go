package render

import (
	"image/color"
	"testing"
)

func TestFillRectClipsToBuffer(t *testing.T) {
	fb := NewFrameBuffer(4, 4)
	red := color.RGBA{R: 0xFF, A: 0xFF}
	fb.FillRect(-2, -2, 4, 4, red)

	if fb.At(1, 1) != red {
		t.Fatalf("expected clipped fill to cover (1,1)")
	}
	if fb.At(2, 2) == red {
		t.Fatalf("fill leaked past its rectangle")
	}
}

func TestBlendRectMixesColors(t *testing.T) {
	fb := NewFrameBuffer(1, 1)
	fb.Clear(color.RGBA{A: 0xFF})
	fb.BlendRect(0, 0, 1, 1, color.RGBA{R: 0xFF, A: 0x80})

	got := fb.At(0, 0)
	if got.R < 0x7E || got.R > 0x81 {
		t.Fatalf("unexpected blended red channel: %d", got.R)
	}
}

func TestSnapshotAndDrawImageAlpha(t *testing.T) {
	fb := NewFrameBuffer(6, 2)
	blue := color.RGBA{B: 0xFF, A: 0xFF}
	fb.FillRect(0, 0, 2, 2, blue)

	ghost := fb.Snapshot(0, 0, 2, 2)
	fb.DrawImageAlpha(ghost, 4, 0, 0xFF)

	if fb.At(5, 1) != blue {
		t.Fatalf("expected opaque ghost to copy pixels, got %v", fb.At(5, 1))
	}
}

func TestDrawLineDiagonal(t *testing.T) {
	fb := NewFrameBuffer(4, 4)
	c := color.RGBA{G: 0xFF, A: 0xFF}
	fb.DrawLine(0, 0, 3, 3, c)
	for i := 0; i < 4; i++ {
		if fb.At(i, i) != c {
			t.Fatalf("expected pixel (%d,%d) on the diagonal", i, i)
		}
	}
}

func TestPushClipLimitsFill(t *testing.T) {
	fb := NewFrameBuffer(8, 8)
	c := color.RGBA{R: 0xFF, A: 0xFF}
	fb.PushClip(2, 2, 3, 3)
	fb.FillRect(0, 0, 8, 8, c)
	if fb.RGBA().Bounds().Dx() != 3 {
		t.Fatalf("expected clipped image view, got %v", fb.RGBA().Bounds())
	}
	fb.PopClip()

	if fb.At(1, 1) == c || fb.At(5, 5) == c {
		t.Fatalf("fill leaked outside the clip")
	}
	if fb.At(2, 2) != c || fb.At(4, 4) != c {
		t.Fatalf("fill missing inside the clip")
	}
}
