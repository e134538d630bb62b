package render

import (
	"image"
	"image/color"
)

type FrameBuffer struct {
	W      int
	H      int
	Pixels []uint8 // RGBA

	clips []image.Rectangle
}

func NewFrameBuffer(w, h int) *FrameBuffer {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &FrameBuffer{W: w, H: h, Pixels: make([]uint8, w*h*4)}
}

// Resize reallocates the buffer when the size changed. Contents are lost.
func (fb *FrameBuffer) Resize(w, h int) {
	fb.clips = fb.clips[:0]
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	if w == fb.W && h == fb.H {
		return
	}
	fb.W = w
	fb.H = h
	fb.Pixels = make([]uint8, w*h*4)
}

// RGBA returns an image view sharing the buffer's pixels, restricted to the
// current clip rectangle.
func (fb *FrameBuffer) RGBA() *image.RGBA {
	img := &image.RGBA{Pix: fb.Pixels, Stride: fb.W * 4, Rect: image.Rect(0, 0, fb.W, fb.H)}
	if c := fb.clipRect(); c != img.Rect {
		return img.SubImage(c).(*image.RGBA)
	}
	return img
}

// PushClip restricts drawing to the intersection of the current clip and the
// given rectangle until the matching PopClip.
func (fb *FrameBuffer) PushClip(x, y, w, h int) {
	r := image.Rect(x, y, x+max(w, 0), y+max(h, 0)).Intersect(fb.clipRect())
	fb.clips = append(fb.clips, r)
}

func (fb *FrameBuffer) PopClip() {
	if len(fb.clips) > 0 {
		fb.clips = fb.clips[:len(fb.clips)-1]
	}
}

func (fb *FrameBuffer) clipRect() image.Rectangle {
	if len(fb.clips) > 0 {
		return fb.clips[len(fb.clips)-1]
	}
	return image.Rect(0, 0, fb.W, fb.H)
}

func (fb *FrameBuffer) Clear(c color.RGBA) {
	for i := 0; i < len(fb.Pixels); i += 4 {
		fb.Pixels[i+0] = c.R
		fb.Pixels[i+1] = c.G
		fb.Pixels[i+2] = c.B
		fb.Pixels[i+3] = c.A
	}
}

func (fb *FrameBuffer) clip(x, y, w, h int) (int, int, int, int, bool) {
	if w <= 0 || h <= 0 {
		return 0, 0, 0, 0, false
	}
	c := fb.clipRect()
	if x < c.Min.X {
		w -= c.Min.X - x
		x = c.Min.X
	}
	if y < c.Min.Y {
		h -= c.Min.Y - y
		y = c.Min.Y
	}
	if x+w > c.Max.X {
		w = c.Max.X - x
	}
	if y+h > c.Max.Y {
		h = c.Max.Y - y
	}
	if w <= 0 || h <= 0 {
		return 0, 0, 0, 0, false
	}
	return x, y, w, h, true
}

func (fb *FrameBuffer) FillRect(x, y, w, h int, c color.RGBA) {
	x, y, w, h, ok := fb.clip(x, y, w, h)
	if !ok {
		return
	}
	for row := 0; row < h; row++ {
		off := ((y+row)*fb.W + x) * 4
		for col := 0; col < w; col++ {
			idx := off + col*4
			fb.Pixels[idx+0] = c.R
			fb.Pixels[idx+1] = c.G
			fb.Pixels[idx+2] = c.B
			fb.Pixels[idx+3] = c.A
		}
	}
}

// BlendRect composes c over the existing pixels using c.A as coverage.
func (fb *FrameBuffer) BlendRect(x, y, w, h int, c color.RGBA) {
	if c.A == 0xFF {
		fb.FillRect(x, y, w, h, c)
		return
	}
	x, y, w, h, ok := fb.clip(x, y, w, h)
	if !ok {
		return
	}
	a := uint32(c.A)
	for row := 0; row < h; row++ {
		off := ((y+row)*fb.W + x) * 4
		for col := 0; col < w; col++ {
			idx := off + col*4
			fb.Pixels[idx+0] = blend(fb.Pixels[idx+0], c.R, a)
			fb.Pixels[idx+1] = blend(fb.Pixels[idx+1], c.G, a)
			fb.Pixels[idx+2] = blend(fb.Pixels[idx+2], c.B, a)
			fb.Pixels[idx+3] = 0xFF
		}
	}
}

func blend(dst, src uint8, a uint32) uint8 {
	return uint8((uint32(src)*a + uint32(dst)*(255-a)) / 255)
}

func (fb *FrameBuffer) StrokeRect(x, y, w, h, line int, c color.RGBA) {
	if line <= 0 {
		line = 1
	}
	fb.FillRect(x, y, w, line, c)
	fb.FillRect(x, y+h-line, w, line, c)
	fb.FillRect(x, y, line, h, c)
	fb.FillRect(x+w-line, y, line, h, c)
}

func (fb *FrameBuffer) DrawHLine(x, y, w int, c color.RGBA) { fb.FillRect(x, y, w, 1, c) }
func (fb *FrameBuffer) DrawVLine(x, y, h int, c color.RGBA) { fb.FillRect(x, y, 1, h, c) }

// DrawLine draws a one pixel wide segment between two points, inclusive.
func (fb *FrameBuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		fb.FillRect(x0, y0, 1, 1, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Snapshot copies a region of the buffer into a new image.
func (fb *FrameBuffer) Snapshot(x, y, w, h int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	cx, cy, cw, ch, ok := fb.clip(x, y, w, h)
	if !ok {
		return out
	}
	for row := 0; row < ch; row++ {
		src := ((cy+row)*fb.W + cx) * 4
		dst := out.PixOffset(cx-x, cy-y+row)
		copy(out.Pix[dst:dst+cw*4], fb.Pixels[src:src+cw*4])
	}
	return out
}

// DrawImageAlpha composes img at (x, y) scaling its opacity by alpha.
func (fb *FrameBuffer) DrawImageAlpha(img *image.RGBA, x, y int, alpha uint8) {
	b := img.Bounds()
	for row := 0; row < b.Dy(); row++ {
		for col := 0; col < b.Dx(); col++ {
			px, py := x+col, y+row
			if px < 0 || py < 0 || px >= fb.W || py >= fb.H {
				continue
			}
			s := img.PixOffset(b.Min.X+col, b.Min.Y+row)
			a := uint32(img.Pix[s+3]) * uint32(alpha) / 255
			d := (py*fb.W + px) * 4
			fb.Pixels[d+0] = blend(fb.Pixels[d+0], img.Pix[s+0], a)
			fb.Pixels[d+1] = blend(fb.Pixels[d+1], img.Pix[s+1], a)
			fb.Pixels[d+2] = blend(fb.Pixels[d+2], img.Pix[s+2], a)
			fb.Pixels[d+3] = 0xFF
		}
	}
}

func (fb *FrameBuffer) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= fb.W || y >= fb.H {
		return color.RGBA{}
	}
	i := (y*fb.W + x) * 4
	return color.RGBA{R: fb.Pixels[i], G: fb.Pixels[i+1], B: fb.Pixels[i+2], A: fb.Pixels[i+3]}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
