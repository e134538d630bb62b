// Package geom holds the integer point, size and rectangle types shared by
// the dock layout engine and the text editor.
package geom

import "fmt"

type Point struct {
	X int
	Y int
}

func Pt(x, y int) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }
func (p Point) Mul(k int) Point   { return Point{X: p.X * k, Y: p.Y * k} }

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

type Size struct {
	W int
	H int
}

func Sz(w, h int) Size { return Size{W: w, H: h} }

func (s Size) IsZero() bool { return s.W == 0 && s.H == 0 }

func (s Size) Add(o Size) Size { return Size{W: s.W + o.W, H: s.H + o.H} }

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.W, s.H) }

// Rect is an axis-aligned rectangle. X2 and Y2 are exclusive.
type Rect struct {
	X int
	Y int
	W int
	H int
}

func R(x, y, w, h int) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) X2() int { return r.X + r.W }
func (r Rect) Y2() int { return r.Y + r.H }

func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }
func (r Rect) Size() Size    { return Size{W: r.W, H: r.H} }

func (r Rect) Center() Point { return Point{X: r.X + r.W/2, Y: r.Y + r.H/2} }

func (r Rect) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X < r.X+r.W && p.Y < r.Y+r.H
}

func (r Rect) Offset(d Point) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

func (r Rect) Shrink(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, W: r.W - 2*n, H: r.H - 2*n}
}

func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X2(), o.X2())
	y2 := min(r.Y2(), o.Y2())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

func (r Rect) String() string { return fmt.Sprintf("[%d,%d %dx%d]", r.X, r.Y, r.W, r.H) }
