package editor

// Selection is the range between two carets. Start never sorts after End.
type Selection struct {
	Start Caret
	End   Caret
}

// NewSelection spans anchor and caret in document order.
func NewSelection(anchor, caret Caret) Selection {
	s := Selection{Start: anchor, End: anchor}
	s.To(caret)
	return s
}

func (s Selection) IsEmpty() bool { return s.Start.Equal(s.End) }

func (s Selection) IsValid() bool { return s.Start.IsValid() && s.End.IsValid() }

// Active reports whether the selection covers at least one character.
func (s Selection) Active() bool { return s.IsValid() && !s.IsEmpty() }

// To moves the end nearest to c onto it. A caret before Start becomes the new
// Start, one after End the new End; inside the range the closer end moves,
// End on ties. The other end never moves.
func (s *Selection) To(c Caret) {
	switch {
	case c.Less(s.Start):
		s.Start = c
	case s.End.Less(c):
		s.End = c
	default:
		abs := c.AbsolutePos()
		if abs-s.Start.AbsolutePos() < s.End.AbsolutePos()-abs {
			s.Start = c
		} else {
			s.End = c
		}
	}
}

func (s *Selection) Clear() {
	s.Start.Clear()
	s.End.Clear()
}

// Contains reports whether line i intersects the selection.
func (s Selection) Contains(line int) bool {
	return s.Start.Line <= line && line <= s.End.Line
}
