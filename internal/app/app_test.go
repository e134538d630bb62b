package app

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/require"

	"pxed/internal/layout"
	"pxed/internal/platform"
	"pxed/internal/pref"
)

type memClipboard struct{ text string }

func (c *memClipboard) ReadText() (string, error)   { return c.text, nil }
func (c *memClipboard) WriteText(text string) error { c.text = text; return nil }

func newTestApp(t *testing.T, dir string) *App {
	t.Helper()
	a, err := New(Options{
		ConfigDir: dir,
		Logger:    NewLogger(io.Discard, slog.LevelDebug),
		Clipboard: &memClipboard{},
	})
	require.NoError(t, err)
	a.alerts = false
	t.Cleanup(a.Shutdown)
	return a
}

func key(k platform.Key, mods platform.Modifiers) platform.Event {
	return platform.Event{Type: platform.EventKeyDown, Key: k, Mods: mods}
}

func TestCustomizeAndQuitShortcuts(t *testing.T) {
	a := newTestApp(t, t.TempDir())

	a.dispatch(key(platform.KeyF2, 0))
	require.True(t, a.window.Customizing())

	a.dispatch(key(platform.KeyEscape, 0))
	require.False(t, a.window.Customizing())
	require.False(t, a.quit)

	a.dispatch(key(platform.KeyEscape, 0))
	require.True(t, a.quit)
}

func TestSelectLayoutShortcut(t *testing.T) {
	a := newTestApp(t, t.TempDir())
	ctrlAlt := platform.ModCtrl | platform.ModAlt

	a.dispatch(key(platform.Key2, ctrlAlt))
	require.Equal(t, layout.MirroredDefault, a.window.ActiveLayout())
	require.Equal(t, "Layout Mirrored Default", a.window.Status())

	a.dispatch(key(platform.Key9, ctrlAlt))
	require.Equal(t, layout.MirroredDefault, a.window.ActiveLayout())

	a.dispatch(key(platform.Key1, ctrlAlt))
	require.Equal(t, layout.Default, a.window.ActiveLayout())
}

func TestSaveLayoutShortcutPersists(t *testing.T) {
	dir := t.TempDir()
	a := newTestApp(t, dir)
	ctrlShift := platform.ModCtrl | platform.ModShift

	a.dispatch(key(platform.KeyS, ctrlShift))
	a.dispatch(key(platform.KeyS, ctrlShift))
	require.Equal(t, []string{layout.Default, layout.MirroredDefault, "Layout 1", "Layout 2"}, a.window.LayoutIDs())
	require.Equal(t, "Layout 2", a.window.ActiveLayout())
	require.Equal(t, "Saved layout Layout 2", a.window.Status())

	a.Shutdown()
	_, err := os.Stat(filepath.Join(dir, layout.FileName))
	require.NoError(t, err)
	p, err := pref.Load(pref.Path(dir))
	require.NoError(t, err)
	require.Equal(t, "Layout 2", p.General.Layout)

	b := newTestApp(t, dir)
	require.Equal(t, "Layout 2", b.window.ActiveLayout())
}

func TestRemoveLayoutShortcut(t *testing.T) {
	dir := t.TempDir()
	a := newTestApp(t, dir)
	ctrlShift := platform.ModCtrl | platform.ModShift

	a.dispatch(key(platform.KeyS, ctrlShift))
	require.Equal(t, "Layout 1", a.window.ActiveLayout())

	a.dispatch(key(platform.KeyD, ctrlShift))
	require.Equal(t, "Deleted layout Layout 1", a.window.Status())
	require.Equal(t, layout.Default, a.window.ActiveLayout())
	require.Equal(t, []string{layout.Default, layout.MirroredDefault}, a.window.LayoutIDs())

	a.dispatch(key(platform.KeyD, ctrlShift))
	require.Equal(t, "Cannot delete layout Default", a.window.Status())

	a.Shutdown()
	b := newTestApp(t, dir)
	require.Equal(t, []string{layout.Default, layout.MirroredDefault}, b.window.LayoutIDs())
}

func TestMalformedPreferencesUseDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(pref.Path(dir), []byte("general: [\n"), 0o644))

	a := newTestApp(t, dir)
	require.Equal(t, pref.Default().Timeline, a.prefs.Timeline)
	require.Equal(t, layout.Default, a.window.ActiveLayout())
}

func TestTypingReachesFocusedNotes(t *testing.T) {
	a := newTestApp(t, t.TempDir())
	notes := a.window.PanelBounds("notes")
	pos := notes.Center()

	a.dispatch(platform.Event{Type: platform.EventMouseDown, Button: platform.ButtonLeft, Pos: pos})
	a.dispatch(platform.Event{Type: platform.EventMouseUp, Button: platform.ButtonLeft, Pos: pos})
	for _, r := range "ok" {
		a.dispatch(platform.Event{Type: platform.EventKeyDown, Rune: r})
	}
	require.Equal(t, "ok", a.window.Notes().Text())

	// Shortcut keys still go to the app while the notes have focus.
	a.dispatch(key(platform.KeyF2, 0))
	require.True(t, a.window.Customizing())
}

func TestKeyFires(t *testing.T) {
	for _, ticks := range []int{1, repeatDelay, repeatDelay + repeatInterval} {
		require.True(t, keyFires(platform.KeyA, ticks), "ticks %d", ticks)
	}
	require.False(t, keyFires(platform.KeyA, 2))
	require.False(t, keyFires(platform.KeyA, repeatDelay+1))

	require.True(t, keyFires(platform.KeyShift, 1))
	require.False(t, keyFires(platform.KeyShift, repeatDelay))
}

func TestCursorShape(t *testing.T) {
	require.Equal(t, ebiten.CursorShapeNSResize, cursorShape(platform.CursorSizeNS))
	require.Equal(t, ebiten.CursorShapeEWResize, cursorShape(platform.CursorSizeWE))
	require.Equal(t, ebiten.CursorShapeMove, cursorShape(platform.CursorMove))
	require.Equal(t, ebiten.CursorShapeText, cursorShape(platform.CursorText))
	require.Equal(t, ebiten.CursorShapeDefault, cursorShape(platform.CursorArrow))
}

func TestWithExt(t *testing.T) {
	require.Equal(t, "a.pxed-layouts", withExt("a", layoutsExt))
	require.Equal(t, "a.PXED-LAYOUTS", withExt("a.PXED-LAYOUTS", layoutsExt))
	require.Equal(t, "a.xml.pxed-layouts", withExt("a.xml", layoutsExt))
}
