package editor

import (
	"fmt"
	"unicode"
)

// Caret is a (line, column) position in a Lines store. Columns count
// characters. The caret never owns the store; once the store is destroyed
// the caret reports itself invalid.
type Caret struct {
	Line int
	Pos  int

	lines *Lines
}

func NewCaret(lines *Lines, line, pos int) Caret {
	return Caret{Line: line, Pos: pos, lines: lines}
}

func (c Caret) String() string { return fmt.Sprintf("(%d,%d)", c.Line, c.Pos) }

func (c Caret) IsValid() bool {
	if !c.lines.Alive() {
		return false
	}
	l := c.lines.At(c.Line)
	return l != nil && c.Pos >= 0 && c.Pos <= l.Len()
}

// Clear unbinds the caret.
func (c *Caret) Clear() { *c = Caret{} }

func (c Caret) line() *Line { return c.lines.At(c.Line) }

func (c Caret) lineLen() int {
	if l := c.line(); l != nil {
		return l.Len()
	}
	return 0
}

func (c Caret) IsFirstLine() bool { return c.Line == 0 }

func (c Caret) IsLastLine() bool { return c.Line == c.lines.Len()-1 }

func (c Caret) IsFirstInLine() bool { return c.Pos == 0 }

func (c Caret) IsLastInLine() bool { return c.Pos == c.lineLen() }

// Left moves one character, or one word when byWord is set, to the left.
// From the start of a line it wraps to the end of the previous one. It
// returns false at the very start of the text.
func (c *Caret) Left(byWord bool) bool {
	if !c.IsValid() {
		return false
	}
	if c.Pos == 0 {
		if c.Line == 0 {
			return false
		}
		c.Line--
		c.Pos = c.lineLen()
		return true
	}
	if byWord {
		c.LeftWord()
	} else {
		c.Pos--
	}
	return true
}

// Right is the mirror of Left.
func (c *Caret) Right(byWord bool) bool {
	if !c.IsValid() {
		return false
	}
	if c.Pos == c.lineLen() {
		if c.IsLastLine() {
			return false
		}
		c.Line++
		c.Pos = 0
		return true
	}
	if byWord {
		c.RightWord()
	} else {
		c.Pos++
	}
	return true
}

func (c *Caret) Up() {
	if !c.IsValid() || c.Line == 0 {
		return
	}
	c.Line--
	c.Pos = min(c.Pos, c.lineLen())
}

func (c *Caret) Down() {
	if !c.IsValid() || c.IsLastLine() {
		return
	}
	c.Line++
	c.Pos = min(c.Pos, c.lineLen())
}

// LeftWord skips separators and then the word before the caret. It stops at
// the start of the line.
func (c *Caret) LeftWord() {
	if !c.IsValid() {
		return
	}
	text := c.line().runes
	pos := c.Pos
	for pos > 0 && !isWordChar(text[pos-1]) {
		pos--
	}
	for pos > 0 && isWordChar(text[pos-1]) {
		pos--
	}
	c.Pos = pos
}

// RightWord skips separators and then the word after the caret. It stops at
// the end of the line.
func (c *Caret) RightWord() {
	if !c.IsValid() {
		return
	}
	text := c.line().runes
	pos := c.Pos
	for pos < len(text) && !isWordChar(text[pos]) {
		pos++
	}
	for pos < len(text) && isWordChar(text[pos]) {
		pos++
	}
	c.Pos = pos
}

// AbsolutePos returns the caret offset in the flat text. Every preceding line
// contributes its length plus one for the newline.
func (c Caret) AbsolutePos() int {
	if !c.lines.Alive() {
		return 0
	}
	abs := 0
	for i := 0; i < c.Line && i < c.lines.Len(); i++ {
		abs += c.lines.At(i).Len() + 1
	}
	return abs + c.Pos
}

// AdvanceBy moves the caret n characters forward in the flat text, crossing
// newlines. It stops at the end of the text.
func (c *Caret) AdvanceBy(n int) {
	if n <= 0 || !c.IsValid() {
		return
	}
	for n > 0 {
		room := c.lineLen() - c.Pos
		if n <= room {
			c.Pos += n
			return
		}
		if c.IsLastLine() {
			c.Pos = c.lineLen()
			return
		}
		n -= room + 1
		c.Line++
		c.Pos = 0
	}
}

// Compare orders carets by line, then column.
func (c Caret) Compare(o Caret) int {
	switch {
	case c.Line < o.Line:
		return -1
	case c.Line > o.Line:
		return 1
	case c.Pos < o.Pos:
		return -1
	case c.Pos > o.Pos:
		return 1
	}
	return 0
}

func (c Caret) Equal(o Caret) bool { return c.Compare(o) == 0 }

func (c Caret) Less(o Caret) bool { return c.Compare(o) < 0 }

func isWordChar(r rune) bool {
	return !unicode.IsSpace(r) && !unicode.IsPunct(r) && !unicode.IsSymbol(r)
}
