package editor

import (
	"testing"

	"pxed/internal/shape"
)

func newLines(text string) *Lines {
	ls := &Lines{}
	ls.rebuild(text, shape.NewFaceShaper(nil))
	return ls
}

func allCarets(ls *Lines) []Caret {
	var out []Caret
	for i := 0; i < ls.Len(); i++ {
		for p := 0; p <= ls.At(i).Len(); p++ {
			out = append(out, NewCaret(ls, i, p))
		}
	}
	return out
}

func TestLeftRightRoundTrip(t *testing.T) {
	ls := newLines("ab c\n\nde, f\ng")
	for _, start := range allCarets(ls) {
		c := start
		if c.Left(false) {
			if !c.Right(false) || !c.Equal(start) {
				t.Fatalf("left/right from %v ended at %v", start, c)
			}
		} else if !c.Equal(start) || start.Line != 0 || start.Pos != 0 {
			t.Fatalf("left failed away from the start at %v", start)
		}

		c = start
		if c.Right(false) {
			if !c.Left(false) || !c.Equal(start) {
				t.Fatalf("right/left from %v ended at %v", start, c)
			}
		} else if !c.Equal(start) || !start.IsLastLine() || !start.IsLastInLine() {
			t.Fatalf("right failed away from the end at %v", start)
		}
	}
}

func TestLeftWrapsToPreviousLine(t *testing.T) {
	ls := newLines("abc\nde")
	c := NewCaret(ls, 1, 0)
	if !c.Left(true) {
		t.Fatalf("expected wrap")
	}
	if c.Line != 0 || c.Pos != 3 {
		t.Fatalf("unexpected caret after wrap: %v", c)
	}
	c = NewCaret(ls, 0, 3)
	if !c.Right(true) || c.Line != 1 || c.Pos != 0 {
		t.Fatalf("unexpected caret after right wrap: %v", c)
	}
}

func TestWordMovementStaysOnLine(t *testing.T) {
	ls := newLines("  foo, bar\nbaz")
	c := NewCaret(ls, 0, 10)
	c.LeftWord()
	if c.Pos != 7 {
		t.Fatalf("expected start of bar, got %d", c.Pos)
	}
	c.LeftWord()
	if c.Pos != 2 {
		t.Fatalf("expected start of foo, got %d", c.Pos)
	}
	c.LeftWord()
	if c.Line != 0 || c.Pos != 0 {
		t.Fatalf("word movement left the line: %v", c)
	}
	c.RightWord()
	if c.Pos != 5 {
		t.Fatalf("expected end of foo, got %d", c.Pos)
	}
	c.Pos = 10
	c.RightWord()
	if c.Line != 0 || c.Pos != 10 {
		t.Fatalf("word movement crossed the line end: %v", c)
	}
}

func TestUpDownClampColumn(t *testing.T) {
	ls := newLines("long line\nab\nlonger line")
	c := NewCaret(ls, 0, 8)
	c.Down()
	if c.Line != 1 || c.Pos != 2 {
		t.Fatalf("unexpected caret after down: %v", c)
	}
	c.Down()
	c.Down()
	if c.Line != 2 || c.Pos != 2 {
		t.Fatalf("down past the last line moved the caret: %v", c)
	}
	c = NewCaret(ls, 0, 3)
	c.Up()
	if c.Line != 0 || c.Pos != 3 {
		t.Fatalf("up on the first line moved the caret: %v", c)
	}
}

func TestAbsolutePosMonotonic(t *testing.T) {
	ls := newLines("ab\n\ncde\nf")
	if got := NewCaret(ls, 0, 0).AbsolutePos(); got != 0 {
		t.Fatalf("origin absolute pos = %d", got)
	}
	prev := -1
	for i, c := range allCarets(ls) {
		abs := c.AbsolutePos()
		if abs < prev {
			t.Fatalf("absolute position decreased at %v", c)
		}
		if abs != i {
			t.Fatalf("caret %v should map to offset %d, got %d", c, i, abs)
		}
		prev = abs
	}
}

func TestAdvanceByCrossesNewlines(t *testing.T) {
	ls := newLines("ab\ncd\ne")
	c := NewCaret(ls, 0, 1)
	c.AdvanceBy(3)
	if c.Line != 1 || c.Pos != 1 {
		t.Fatalf("unexpected caret: %v", c)
	}
	c.AdvanceBy(2)
	if c.Line != 2 || c.Pos != 0 {
		t.Fatalf("unexpected caret: %v", c)
	}
	c.AdvanceBy(50)
	if c.Line != 2 || c.Pos != 1 {
		t.Fatalf("advance past the end should clamp, got %v", c)
	}
	c.AdvanceBy(0)
	if c.Line != 2 || c.Pos != 1 {
		t.Fatalf("zero advance moved the caret")
	}
}

func TestCompareIsLexicographic(t *testing.T) {
	ls := newLines("abcdef\nab")
	a := NewCaret(ls, 0, 5)
	b := NewCaret(ls, 1, 0)
	if !a.Less(b) || b.Less(a) || a.Compare(b) != -1 {
		t.Fatalf("expected %v < %v", a, b)
	}
	if !a.Equal(NewCaret(ls, 0, 5)) {
		t.Fatalf("expected equal carets")
	}
}

func TestCaretInvalidAfterDestroy(t *testing.T) {
	ls := newLines("abc")
	c := NewCaret(ls, 0, 2)
	if !c.IsValid() {
		t.Fatalf("expected valid caret")
	}
	if NewCaret(ls, 0, 4).IsValid() || NewCaret(ls, 1, 0).IsValid() || (Caret{}).IsValid() {
		t.Fatalf("out of range or unbound carets must be invalid")
	}
	ls.destroy()
	if c.IsValid() {
		t.Fatalf("caret survived its line store")
	}
	if c.Left(false) || c.Right(false) {
		t.Fatalf("invalid caret moved")
	}
}
