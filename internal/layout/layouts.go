package layout

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"

	"pxed/pkg/layoutdoc"
)

// FileName is the name of the user layouts file in the config directory.
const FileName = "user.pxed-layouts"

// Layouts is the set of known layouts. Built-ins are listed first, user
// layouts in the order they were added.
type Layouts struct {
	path   string
	items  []*Layout
	logger *slog.Logger

	saved    [32]byte
	hasSaved bool
}

func UserLayoutsPath(configDir string) string { return filepath.Join(configDir, FileName) }

// New loads the layouts stored at path. A missing file gives an empty set; a
// broken one is logged and also gives an empty set. An empty path keeps the
// set in memory only.
func New(path string, logger *slog.Logger) *Layouts {
	if logger == nil {
		logger = slog.Default()
	}
	ls := &Layouts{path: path, logger: logger.With("component", "layouts")}
	if path == "" {
		return ls
	}
	if err := ls.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			ls.logger.Debug("no user layouts", "path", path)
		} else {
			ls.logger.Error("error loading user layouts", "path", path, "err", err)
		}
	}
	return ls
}

func (ls *Layouts) Path() string { return ls.path }

func (ls *Layouts) Len() int { return len(ls.items) }

func (ls *Layouts) GetByID(id string) *Layout {
	for _, l := range ls.items {
		if l.MatchID(id) {
			return l
		}
	}
	return nil
}

// AddLayout stores l, replacing a layout with the same id. It returns true
// only when a new user layout was added; built-ins never count as new.
func (ls *Layouts) AddLayout(l *Layout) bool {
	if l == nil {
		return false
	}
	for i, old := range ls.items {
		if old.MatchID(l.ID()) {
			ls.items[i] = l
			return false
		}
	}
	ls.items = append(ls.items, l)
	return !l.IsDefault()
}

// RemoveLayout deletes a user layout. Built-ins are kept.
func (ls *Layouts) RemoveLayout(id string) bool {
	for i, l := range ls.items {
		if l.MatchID(id) {
			if l.IsDefault() {
				return false
			}
			ls.items = append(ls.items[:i], ls.items[i+1:]...)
			return true
		}
	}
	return false
}

// List returns the layouts in display order.
func (ls *Layouts) List() []*Layout {
	out := make([]*Layout, 0, len(ls.items))
	for _, id := range []string{Default, MirroredDefault} {
		if l := ls.GetByID(id); l != nil {
			out = append(out, l)
		}
	}
	for _, l := range ls.items {
		if !l.IsDefault() {
			out = append(out, l)
		}
	}
	return out
}

// Load adds the layouts stored in the document at path.
func (ls *Layouts) Load(path string) error {
	doc, err := layoutdoc.Load(path)
	if err != nil {
		return err
	}
	loaded, err := fromDocument(doc)
	if err != nil {
		return err
	}
	for _, l := range loaded {
		ls.AddLayout(l)
	}
	if path == ls.path {
		ls.remember()
	}
	return nil
}

// Import merges the layouts of the document at path, replacing the ones
// with the same id, and returns how many were read.
func (ls *Layouts) Import(path string) (int, error) {
	doc, err := layoutdoc.Load(path)
	if err != nil {
		return 0, err
	}
	loaded, err := fromDocument(doc)
	if err != nil {
		return 0, err
	}
	for _, l := range loaded {
		ls.AddLayout(l)
	}
	return len(loaded), nil
}

// Export writes every layout to path in a compressed document.
func (ls *Layouts) Export(path string) error {
	return layoutdoc.SaveWithOptions(path, ls.document(), layoutdoc.SaveOptions{Compression: true})
}

// Save writes the layouts to path. Saving the user layouts file is skipped
// when nothing changed since it was last read or written.
func (ls *Layouts) Save(path string) error {
	doc := ls.document()
	if path == ls.path && ls.hasSaved {
		if fp, err := layoutdoc.Fingerprint(doc); err == nil && fp == ls.saved {
			return nil
		}
	}
	if err := layoutdoc.Save(path, doc); err != nil {
		return err
	}
	if path == ls.path {
		ls.remember()
	}
	ls.logger.Debug("saved layouts", "path", path, "count", len(doc.Layouts))
	return nil
}

// SaveUserLayouts flushes the set to the user layouts file.
func (ls *Layouts) SaveUserLayouts() error {
	if ls.path == "" {
		return nil
	}
	return ls.Save(ls.path)
}

func (ls *Layouts) Close() error { return ls.SaveUserLayouts() }

func (ls *Layouts) document() *layoutdoc.Document {
	doc := layoutdoc.NewDocument()
	for _, l := range ls.List() {
		doc.Layouts = append(doc.Layouts, l.elem)
	}
	return doc
}

func (ls *Layouts) remember() {
	fp, err := layoutdoc.Fingerprint(ls.document())
	if err != nil {
		ls.hasSaved = false
		return
	}
	ls.saved, ls.hasSaved = fp, true
}

func fromDocument(doc *layoutdoc.Document) ([]*Layout, error) {
	out := make([]*Layout, 0, len(doc.Layouts))
	for _, e := range doc.Layouts {
		l, err := MakeFromElement(e)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}
