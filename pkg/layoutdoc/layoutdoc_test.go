package layoutdoc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleDocument() *Document {
	l := NewElement(LayoutName, Attr{"id", "foo"}, Attr{"name", "Foo"})
	d := l.Append(NewElement("dock"))
	d.Append(NewElement("colorbar", Attr{"side", "left"}))
	tl := d.Append(NewElement("timeline", Attr{"side", "bottom"}))
	tl.SetAttrInt("height", 120)
	return &Document{Layouts: []*Element{l}}
}

func TestRoundTripSaveLoad(t *testing.T) {
	doc := sampleDocument()
	path := filepath.Join(t.TempDir(), "user.pxed-layouts")
	if err := Save(path, doc); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if diff := cmp.Diff(doc, loaded); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
	if got := loaded.Layouts[0].Children[0].Children[1].AttrInt("height"); got != 120 {
		t.Fatalf("height = %d, want 120", got)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary file left behind: %v", err)
	}
}

func TestEncodeWritesReadableXML(t *testing.T) {
	b, err := Marshal(sampleDocument())
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<layouts>`,
		`<layout id="foo" name="Foo">`,
		`<timeline side="bottom" height="120"></timeline>`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("encoded document misses %q:\n%s", want, s)
		}
	}
}

func TestUnmarshalEmptyInput(t *testing.T) {
	for _, in := range []string{"", "  \n", `<?xml version="1.0"?><layouts/>`} {
		doc, err := Unmarshal([]byte(in))
		if err != nil {
			t.Fatalf("Unmarshal(%q) failed: %v", in, err)
		}
		if len(doc.Layouts) != 0 {
			t.Fatalf("Unmarshal(%q) got %d layouts", in, len(doc.Layouts))
		}
	}
}

func TestDecodeRejectsBadDocuments(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{`<windows/>`, ErrInvalidRoot},
		{`<layouts><panel id="a"/></layouts>`, ErrInvalidLayout},
		{`<layouts><layout name="x"/></layouts>`, ErrMissingID},
		{`<layouts><layout id="a"/><layout id="a"/></layouts>`, ErrDuplicateID},
	}
	for _, tc := range cases {
		_, err := Unmarshal([]byte(tc.in))
		if !errors.Is(err, tc.want) {
			t.Fatalf("Unmarshal(%q) error = %v, want %v", tc.in, err, tc.want)
		}
	}
	if _, err := Unmarshal([]byte(`<layouts><layout id="a">`)); err == nil {
		t.Fatalf("expected error for truncated document")
	}
}

func TestCompressedEnvelope(t *testing.T) {
	doc := sampleDocument()
	path := filepath.Join(t.TempDir(), "export.pxed-layouts")
	if err := SaveWithOptions(path, doc, SaveOptions{Compression: true}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	info, err := InspectEnvelope(path)
	if err != nil {
		t.Fatal(err)
	}
	if !info.Wrapped || !info.Compressed || info.EnvelopeVer != envelopeVersionV1 {
		t.Fatalf("unexpected envelope info: %#v", info)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if diff := cmp.Diff(doc, loaded); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvelopeChecksum(t *testing.T) {
	blob, err := Marshal(sampleDocument())
	if err != nil {
		t.Fatal(err)
	}
	wrapped, err := encodeEnvelope(blob, SaveOptions{Compression: true})
	if err != nil {
		t.Fatal(err)
	}
	wrapped[len(wrapped)-1] ^= 0xFF
	if _, err := Unmarshal(wrapped); !errors.Is(err, ErrChecksum) {
		t.Fatalf("expected ErrChecksum, got %v", err)
	}
	if _, err := Unmarshal(wrapped[:envelopeHeaderSize-1]); !errors.Is(err, ErrInvalidEnvelope) {
		t.Fatalf("expected ErrInvalidEnvelope, got %v", err)
	}
}

func TestFingerprintTracksContent(t *testing.T) {
	a := sampleDocument()
	b := NewDocument()
	for _, l := range a.Layouts {
		b.Layouts = append(b.Layouts, l.Clone())
	}
	fa, err := Fingerprint(a)
	if err != nil {
		t.Fatal(err)
	}
	fb, _ := Fingerprint(b)
	if fa != fb {
		t.Fatalf("copies must share a fingerprint")
	}
	b.Layouts[0].SetAttr("name", "Bar")
	fb, _ = Fingerprint(b)
	if fa == fb {
		t.Fatalf("fingerprint did not change after edit")
	}
	if name, _ := a.Layouts[0].Attr("name"); name != "Foo" {
		t.Fatalf("copy shares attributes with original: %q", name)
	}
}

func TestAttrInt(t *testing.T) {
	e := NewElement("x", Attr{"w", " 42 "}, Attr{"h", "abc"})
	if got := e.AttrInt("w"); got != 42 {
		t.Fatalf("w = %d", got)
	}
	if got := e.AttrInt("h"); got != 0 {
		t.Fatalf("malformed h = %d", got)
	}
	if got := e.AttrInt("missing"); got != 0 {
		t.Fatalf("missing = %d", got)
	}
}
