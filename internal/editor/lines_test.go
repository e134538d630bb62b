package editor

import (
	"strings"
	"testing"

	"pxed/internal/shape"
)

func TestRebuildJoinsBackToFlatText(t *testing.T) {
	for _, text := range []string{"", "a", "\n", "ab\ncd", "\n\nx\n", "héllo\nwörld"} {
		ls := newLines(text)
		if got := ls.Join(); got != text {
			t.Fatalf("join(%q) = %q", text, got)
		}
		if ls.Len() != strings.Count(text, "\n")+1 {
			t.Fatalf("unexpected line count %d for %q", ls.Len(), text)
		}
		for i := 0; i < ls.Len(); i++ {
			if ls.At(i).Index != i {
				t.Fatalf("line %d has index %d", i, ls.At(i).Index)
			}
		}
	}
}

func TestEmptyLineHasNoBlob(t *testing.T) {
	ls := newLines("a\n")
	if ls.At(1).Blob != nil || ls.At(1).Width != 0 {
		t.Fatalf("empty line should not be shaped")
	}
	if ls.At(1).Height != 13 {
		t.Fatalf("empty line keeps the font line height, got %d", ls.At(1).Height)
	}
}

func TestPatchRefreshesShape(t *testing.T) {
	ls := newLines("ab\ncd")
	ls.patch(0, "abcd", shape.NewFaceShaper(nil))
	l := ls.At(0)
	if l.Width != 28 || l.Len() != 4 || l.Blob.Text != "abcd" {
		t.Fatalf("unexpected patched line: %+v", l)
	}
	if ls.Join() != "abcd\ncd" {
		t.Fatalf("unexpected join: %q", ls.Join())
	}
}

func TestPosAtXRoundsToNearestEdge(t *testing.T) {
	l := newLines("abc").At(0)
	cases := map[int]int{-3: 0, 0: 0, 3: 0, 4: 1, 10: 1, 11: 2, 20: 3, 100: 3}
	for x, want := range cases {
		if got := l.posAtX(x); got != want {
			t.Fatalf("posAtX(%d) = %d, want %d", x, got, want)
		}
	}
}
