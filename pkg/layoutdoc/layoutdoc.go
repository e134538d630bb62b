// Package layoutdoc reads and writes the XML document that stores dock
// layouts:
//
//	<layouts>
//	  <layout id="..." name="...">
//	    <dock> ... </dock>
//	  </layout>
//	</layouts>
//
// Layout bodies are kept as a generic element tree; their meaning belongs to
// the caller. Documents may be wrapped in a compressed envelope with a
// checksum when exported.
package layoutdoc

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/blake2b"
)

const (
	RootName   = "layouts"
	LayoutName = "layout"

	envelopeMagic      = "PXLAYOUTS"
	envelopeVersionV1  = uint16(1)
	envelopeFlagComp   = uint16(1 << 0)
	envelopeHeaderSize = len(envelopeMagic) + 2 + 2 + 8 + blake2b.Size256
)

var (
	ErrInvalidRoot     = errors.New("layoutdoc: root element must be <layouts>")
	ErrInvalidLayout   = errors.New("layoutdoc: invalid layout element")
	ErrMissingID       = errors.New("layoutdoc: layout id is missing")
	ErrDuplicateID     = errors.New("layoutdoc: duplicate layout id")
	ErrInvalidEnvelope = errors.New("layoutdoc: invalid envelope")
	ErrChecksum        = errors.New("layoutdoc: checksum mismatch")
	ErrUnsupportedVer  = errors.New("layoutdoc: unsupported version")
)

type SaveOptions struct {
	Compression bool
}

type EnvelopeInfo struct {
	Wrapped     bool
	Compressed  bool
	EnvelopeVer uint16
}

type Attr struct {
	Name  string
	Value string
}

// Element is a generic XML element. Character data is not kept.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []*Element
}

func NewElement(name string, attrs ...Attr) *Element {
	return &Element{Name: name, Attrs: attrs}
}

func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrInt parses an integer attribute. Missing or malformed values read as
// zero.
func (e *Element) AttrInt(name string) int {
	v, ok := e.Attr(name)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}

func (e *Element) SetAttr(name, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

func (e *Element) SetAttrInt(name string, v int) { e.SetAttr(name, strconv.Itoa(v)) }

// Append adds child and returns it.
func (e *Element) Append(child *Element) *Element {
	e.Children = append(e.Children, child)
	return child
}

func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	out := &Element{Name: e.Name, Attrs: append([]Attr(nil), e.Attrs...)}
	if len(e.Children) > 0 {
		out.Children = make([]*Element, len(e.Children))
		for i, c := range e.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

func (e *Element) MarshalXML(enc *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: e.Name}
	start.Attr = start.Attr[:0]
	for _, a := range e.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, c := range e.Children {
		if err := enc.EncodeElement(c, xml.StartElement{}); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func (e *Element) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	e.Name = start.Name.Local
	e.Attrs = e.Attrs[:0]
	for _, a := range start.Attr {
		e.Attrs = append(e.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child := &Element{}
			if err := child.UnmarshalXML(dec, t); err != nil {
				return err
			}
			e.Children = append(e.Children, child)
		case xml.EndElement:
			return nil
		}
	}
}

// Document is the <layouts> root. Each entry is a <layout> element.
type Document struct {
	Layouts []*Element
}

func NewDocument() *Document { return &Document{} }

func Validate(doc *Document) error {
	if doc == nil {
		return errors.New("layoutdoc: document is nil")
	}
	seen := map[string]struct{}{}
	for i, l := range doc.Layouts {
		if l == nil || l.Name != LayoutName {
			return fmt.Errorf("%w: entry %d", ErrInvalidLayout, i)
		}
		id, _ := l.Attr("id")
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: entry %d", ErrMissingID, i)
		}
		if !utf8.ValidString(id) {
			return fmt.Errorf("%w: id of entry %d is not valid UTF-8", ErrInvalidLayout, i)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Encode writes doc as an indented XML document.
func Encode(w io.Writer, doc *Document) error {
	if err := Validate(doc); err != nil {
		return err
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	root := &Element{Name: RootName, Children: doc.Layouts}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(root); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a plain XML document. Unknown children of the root are
// rejected.
func Decode(r io.Reader) (*Document, error) {
	root := &Element{}
	if err := xml.NewDecoder(r).Decode(root); err != nil {
		return nil, fmt.Errorf("layoutdoc: decode: %w", err)
	}
	if root.Name != RootName {
		return nil, fmt.Errorf("%w: got <%s>", ErrInvalidRoot, root.Name)
	}
	doc := &Document{Layouts: root.Children}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Unmarshal decodes b, unwrapping an envelope when present. An empty input
// is an empty document.
func Unmarshal(b []byte) (*Document, error) {
	if isEnvelope(b) {
		var err error
		b, err = decodeEnvelope(b)
		if err != nil {
			return nil, err
		}
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return NewDocument(), nil
	}
	return Decode(bytes.NewReader(b))
}

// Fingerprint is the BLAKE2b-256 digest of the plain encoding of doc.
func Fingerprint(doc *Document) ([32]byte, error) {
	b, err := Marshal(doc)
	if err != nil {
		return [32]byte{}, err
	}
	return blake2b.Sum256(b), nil
}

func Save(path string, doc *Document) error {
	return SaveWithOptions(path, doc, SaveOptions{})
}

// SaveWithOptions writes doc to a temporary file next to path and renames it
// into place.
func SaveWithOptions(path string, doc *Document, opts SaveOptions) error {
	blob, err := Marshal(doc)
	if err != nil {
		return err
	}
	if opts.Compression {
		blob, err = encodeEnvelope(blob, opts)
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && filepath.Dir(path) != "." {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func Load(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(b)
}

func InspectEnvelope(path string) (EnvelopeInfo, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return EnvelopeInfo{}, err
	}
	return inspectEnvelopeBytes(b)
}

func isEnvelope(b []byte) bool {
	return len(b) >= len(envelopeMagic) && string(b[:len(envelopeMagic)]) == envelopeMagic
}

func inspectEnvelopeBytes(b []byte) (EnvelopeInfo, error) {
	info := EnvelopeInfo{}
	if !isEnvelope(b) {
		return info, nil
	}
	if len(b) < envelopeHeaderSize {
		return info, ErrInvalidEnvelope
	}
	version := binary.LittleEndian.Uint16(b[len(envelopeMagic) : len(envelopeMagic)+2])
	if version != envelopeVersionV1 {
		return info, fmt.Errorf("%w: envelope version %d", ErrUnsupportedVer, version)
	}
	flags := binary.LittleEndian.Uint16(b[len(envelopeMagic)+2 : len(envelopeMagic)+4])
	info.Wrapped = true
	info.Compressed = flags&envelopeFlagComp != 0
	info.EnvelopeVer = version
	return info, nil
}

// The envelope header is magic, version, flags, payload length and the
// BLAKE2b-256 sum of the payload as stored.
func encodeEnvelope(payload []byte, opts SaveOptions) ([]byte, error) {
	flags := uint16(0)
	if opts.Compression {
		flags |= envelopeFlagComp
		var err error
		payload, err = compressBytes(payload)
		if err != nil {
			return nil, err
		}
	}
	sum := blake2b.Sum256(payload)

	m := len(envelopeMagic)
	out := make([]byte, envelopeHeaderSize, envelopeHeaderSize+len(payload))
	copy(out[:m], envelopeMagic)
	binary.LittleEndian.PutUint16(out[m:m+2], envelopeVersionV1)
	binary.LittleEndian.PutUint16(out[m+2:m+4], flags)
	binary.LittleEndian.PutUint64(out[m+4:m+12], uint64(len(payload)))
	copy(out[m+12:], sum[:])
	return append(out, payload...), nil
}

func decodeEnvelope(b []byte) ([]byte, error) {
	info, err := inspectEnvelopeBytes(b)
	if err != nil {
		return nil, err
	}
	if !info.Wrapped {
		return nil, ErrInvalidEnvelope
	}
	m := len(envelopeMagic)
	payloadLen := binary.LittleEndian.Uint64(b[m+4 : m+12])
	if uint64(len(b)-envelopeHeaderSize) != payloadLen {
		return nil, ErrInvalidEnvelope
	}
	payload := b[envelopeHeaderSize:]
	if sum := blake2b.Sum256(payload); !bytes.Equal(sum[:], b[m+12:envelopeHeaderSize]) {
		return nil, ErrChecksum
	}
	if info.Compressed {
		return decompressBytes(payload)
	}
	return append([]byte(nil), payload...), nil
}

func compressBytes(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(in); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressBytes(in []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}
