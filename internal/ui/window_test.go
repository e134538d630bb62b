package ui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pxed/internal/dock"
	"pxed/internal/geom"
	"pxed/internal/layout"
	"pxed/internal/platform"
	"pxed/internal/pref"
	"pxed/internal/render"
)

// newWindow builds an 800x600 window with the 7x13 test face. In the default
// layout the customizable dock spans y 40..582 and the workspace dock, which
// holds the timeline, sits at (44,64) with a size of 728x518.
func newWindow(t *testing.T, opts Options) *MainWindow {
	t.Helper()
	opts.Bounds = geom.R(0, 0, 800, 600)
	mw := New(opts)
	t.Cleanup(mw.Close)
	return mw
}

func mouse(mw *MainWindow, typ platform.EventType, b platform.Button, x, y int) bool {
	return mw.ProcessEvent(platform.Event{Type: typ, Button: b, Pos: geom.Pt(x, y)})
}

func click(mw *MainWindow, b platform.Button, x, y int) {
	mouse(mw, platform.EventMouseDown, b, x, y)
	mouse(mw, platform.EventMouseUp, b, x, y)
}

func TestDefaultLayout(t *testing.T) {
	mw := newWindow(t, Options{})
	c := mw.CustomizableDock()

	require.Equal(t, layout.Default, mw.ActiveLayout())
	require.Equal(t, dock.Left, c.WhichSideChildIsDocked(mw.colorBar))
	require.Equal(t, dock.Top, c.Center().WhichSideChildIsDocked(mw.contextBar))
	require.Equal(t, dock.Right, c.Center().WhichSideChildIsDocked(mw.toolBar))
	require.Equal(t, dock.Bottom, mw.workspaceDock.WhichSideChildIsDocked(mw.timeline))

	require.Equal(t, geom.R(0, 0, 800, 22), mw.PanelBounds(MenuBarID))
	require.Equal(t, geom.R(0, 22, 800, 18), mw.PanelBounds(TabsBarID))
	require.Equal(t, geom.R(0, 582, 800, 18), mw.PanelBounds(StatusBarID))
	require.Equal(t, geom.R(44, 64, 728, 518), mw.workspaceDock.Bounds())
	// 25% of the workspace height goes to the timeline.
	require.Equal(t, geom.R(44, 453, 728, 129), mw.PanelBounds(TimelineID))
	require.Equal(t, geom.R(652, 64, 120, 385), mw.PanelBounds(NotesID))
	require.Equal(t, geom.R(44, 64, 604, 385), mw.PanelBounds(WorkspaceID))
}

func TestMirroredDefaultLayout(t *testing.T) {
	mw := newWindow(t, Options{})
	mw.SetDefaultMirrorLayout()
	c := mw.CustomizableDock()

	require.Equal(t, dock.Right, c.WhichSideChildIsDocked(mw.colorBar))
	require.Equal(t, dock.Left, c.Center().WhichSideChildIsDocked(mw.toolBar))
	require.Equal(t, geom.R(28, 64, 728, 518), mw.workspaceDock.Bounds())
	require.Equal(t, 129, mw.PanelBounds(TimelineID).H)
	require.Equal(t, 28, mw.PanelBounds(NotesID).X)
}

func TestTimelineUsesSplitterPreference(t *testing.T) {
	p := pref.Default()
	p.SetTimelineSplitter(50)
	mw := newWindow(t, Options{Prefs: p})
	require.Equal(t, 259, mw.PanelBounds(TimelineID).H)

	mw.SetTimelinePosition(pref.TimelineLeft)
	ws := mw.workspaceDock
	require.Equal(t, dock.Left, ws.WhichSideChildIsDocked(mw.timeline))
	require.Equal(t, geom.Sz(364, 64), ws.UserDefinedSizeAtSide(dock.Left))

	mw.SetTimelineVisible(false)
	require.False(t, mw.timeline.Visible())
	require.False(t, p.Timeline.Visible)
}

func TestTimelineSplitterDragIsSaved(t *testing.T) {
	p := pref.Default()
	mw := newWindow(t, Options{Prefs: p})

	require.True(t, mouse(mw, platform.EventMouseDown, platform.ButtonLeft, 100, 450))
	require.NotNil(t, mw.capture.Owner())
	mouse(mw, platform.EventMouseMove, platform.ButtonLeft, 100, 430)
	require.Equal(t, 149, mw.PanelBounds(TimelineID).H)
	// 1 - 149/518 rounds to 71%.
	require.Equal(t, 71, p.TimelineSplitter())

	mouse(mw, platform.EventMouseUp, platform.ButtonLeft, 100, 430)
	require.Nil(t, mw.capture.Owner())

	stored := mw.layouts.GetByID(layout.Default)
	require.NotNil(t, stored, "user resize must update the active layout")
	require.Equal(t, "Default", stored.Name())
}

func TestRedockTimelineFromContextMenu(t *testing.T) {
	p := pref.Default()
	mw := newWindow(t, Options{Prefs: p})
	mw.SetCustomizing(true)
	require.Equal(t, geom.R(44, 466, 728, 116), mw.PanelBounds(TimelineID))

	click(mw, platform.ButtonRight, 100, 458)
	require.True(t, mw.popup.Visible())
	items := mw.popup.Items()
	require.Len(t, items, 2)
	require.Equal(t, "Dock Left", items[0].Label)
	require.Equal(t, "Dock Right", items[1].Label)
	require.Equal(t, geom.R(100, 458, 82, 38), mw.popup.Bounds())

	// The popup is modal: the dock does not see the click.
	rc := mw.popup.ItemRect(1)
	click(mw, platform.ButtonLeft, rc.Center().X, rc.Center().Y)
	require.False(t, mw.popup.Visible())

	ws := mw.workspaceDock
	require.Equal(t, dock.Right, ws.WhichSideChildIsDocked(mw.timeline))
	require.Equal(t, geom.Sz(182, 64), ws.UserDefinedSizeAtSide(dock.Right))
	require.Equal(t, pref.TimelineRight, p.Timeline.Position)
	require.NotNil(t, mw.layouts.GetByID(layout.Default))
}

func TestSaveAndSelectUserLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), layout.FileName)
	ls := layout.New(path, nil)
	p := pref.Default()
	mw := newWindow(t, Options{Prefs: p, Layouts: ls})

	_, err := mw.SaveLayoutAs(" bad")
	require.ErrorIs(t, err, ErrInvalidLayoutName)

	l, err := mw.SaveLayoutAs("Mine")
	require.NoError(t, err)
	require.Equal(t, "Mine", l.ID())
	require.Equal(t, "Mine", mw.ActiveLayout())
	require.Equal(t, "Mine", p.General.Layout)
	_, err = os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, []string{layout.Default, layout.MirroredDefault, "Mine"}, mw.LayoutIDs())

	require.True(t, mw.SelectLayout(layout.MirroredDefault))
	require.Equal(t, dock.Right, mw.CustomizableDock().WhichSideChildIsDocked(mw.colorBar))

	require.True(t, mw.SelectLayout("Mine"))
	c := mw.CustomizableDock()
	require.Equal(t, dock.Left, c.WhichSideChildIsDocked(mw.colorBar))
	require.Equal(t, geom.Sz(64, 129), c.Center().Center().UserDefinedSizeAtSide(dock.Bottom))

	require.False(t, mw.SelectLayout("missing"))
	require.Equal(t, "Mine", mw.ActiveLayout())
}

func TestRemoveLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), layout.FileName)
	ls := layout.New(path, nil)
	p := pref.Default()
	mw := newWindow(t, Options{Prefs: p, Layouts: ls})
	_, err := mw.SaveLayoutAs("Mine")
	require.NoError(t, err)

	ok, err := mw.RemoveLayout("Mine")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, layout.Default, mw.ActiveLayout())
	require.Equal(t, layout.Default, p.General.Layout)
	require.Equal(t, []string{layout.Default, layout.MirroredDefault}, mw.LayoutIDs())
	require.Equal(t, dock.Left, mw.CustomizableDock().WhichSideChildIsDocked(mw.colorBar))

	ok, err = mw.RemoveLayout(layout.Default)
	require.NoError(t, err)
	require.False(t, ok)
	ok, _ = mw.RemoveLayout("Mine")
	require.False(t, ok)

	require.Nil(t, layout.New(path, nil).GetByID("Mine"), "removal is saved")
}

func TestStoredDefaultLayoutIsApplied(t *testing.T) {
	ls := layout.New("", nil)
	first := newWindow(t, Options{Layouts: ls})
	first.SetDefaultMirrorLayout()
	ls.AddLayout(layout.MakeFromDock(layout.Default, "Default", first.CustomizableDock()))

	mw := newWindow(t, Options{Layouts: ls})
	require.Equal(t, layout.Default, mw.ActiveLayout())
	require.Equal(t, dock.Right, mw.CustomizableDock().WhichSideChildIsDocked(mw.colorBar))
}

func TestUnknownPreferredLayoutFallsBackToDefault(t *testing.T) {
	p := pref.Default()
	p.General.Layout = "gone"
	mw := newWindow(t, Options{Prefs: p})
	require.Equal(t, layout.Default, mw.ActiveLayout())
	require.Equal(t, layout.Default, p.General.Layout)
}

func TestClickFocusesNotes(t *testing.T) {
	mw := newWindow(t, Options{})
	notes := mw.Notes()

	click(mw, platform.ButtonLeft, 700, 100)
	require.Equal(t, platform.Handler(notes), mw.Focus())
	require.True(t, notes.Focused())
	require.Nil(t, mw.capture.Owner())

	for _, r := range "hi" {
		require.True(t, mw.ProcessEvent(platform.Event{Type: platform.EventKeyDown, Rune: r}))
	}
	require.Equal(t, "hi", notes.Text())

	click(mw, platform.ButtonLeft, 100, 100)
	require.Nil(t, mw.Focus())
	require.False(t, notes.Focused())
	require.False(t, mw.ProcessEvent(platform.Event{Type: platform.EventKeyDown, Rune: 'x'}))
	require.Equal(t, "hi", notes.Text())
}

func TestPopupMenuKeyboardAndOutsideClick(t *testing.T) {
	mw := newWindow(t, Options{})
	var chosen []dock.Side
	show := func() {
		mw.showDockMenu(geom.Pt(10, 10), nil, []dock.Side{dock.Left, dock.Bottom}, func(s dock.Side) {
			chosen = append(chosen, s)
		})
	}

	show()
	require.True(t, mw.ProcessEvent(platform.Event{Type: platform.EventKeyDown, Key: platform.KeyEscape}))
	require.False(t, mw.popup.Visible())

	show()
	mouse(mw, platform.EventMouseDown, platform.ButtonLeft, 500, 500)
	require.False(t, mw.popup.Visible())
	require.Empty(t, chosen)

	show()
	mw.ProcessEvent(platform.Event{Type: platform.EventKeyDown, Key: platform.KeyDown})
	mw.ProcessEvent(platform.Event{Type: platform.EventKeyDown, Key: platform.KeyDown})
	mw.ProcessEvent(platform.Event{Type: platform.EventKeyDown, Key: platform.KeyEnter})
	require.Equal(t, []dock.Side{dock.Bottom}, chosen)
}

func TestPopupStaysInsideWindow(t *testing.T) {
	mw := newWindow(t, Options{})
	mw.showDockMenu(geom.Pt(790, 590), nil, []dock.Side{dock.Left}, func(dock.Side) {})
	b := mw.popup.Bounds()
	require.Equal(t, 800, b.X2())
	require.Equal(t, 600, b.Y2())
}

func TestMenuBarPreference(t *testing.T) {
	p := pref.Default()
	mw := newWindow(t, Options{Prefs: p})

	mw.SetMenuBarVisible(false)
	require.Equal(t, dock.Side(0), mw.root.WhichSideChildIsDocked(mw.menuBar))
	require.Equal(t, dock.Top, mw.root.WhichSideChildIsDocked(mw.tabsBar))
	require.False(t, p.General.ShowMenuBar)

	mw.SetMenuBarVisible(true)
	require.Equal(t, dock.Top, mw.root.WhichSideChildIsDocked(mw.menuBar))
}

func TestFocusLossCancelsDrag(t *testing.T) {
	mw := newWindow(t, Options{})
	mouse(mw, platform.EventMouseDown, platform.ButtonLeft, 100, 450)
	require.NotNil(t, mw.capture.Owner())
	mw.ProcessEvent(platform.Event{Type: platform.EventFocusLeave})
	require.Nil(t, mw.capture.Owner())
}

func TestCursorShapes(t *testing.T) {
	mw := newWindow(t, Options{})
	require.Equal(t, platform.CursorSizeNS, mw.CursorAt(geom.Pt(100, 450)))
	require.Equal(t, platform.CursorSizeWE, mw.CursorAt(geom.Pt(42, 100)))
	require.Equal(t, platform.CursorText, mw.CursorAt(geom.Pt(700, 100)))
	require.Equal(t, platform.CursorArrow, mw.CursorAt(geom.Pt(100, 100)))
}

func TestResizeEventRelayouts(t *testing.T) {
	mw := newWindow(t, Options{})
	require.True(t, mw.ProcessEvent(platform.Event{Type: platform.EventResize, Width: 1000, Height: 700}))
	require.Equal(t, geom.R(0, 682, 1000, 18), mw.PanelBounds(StatusBarID))
}

func TestPaint(t *testing.T) {
	mw := newWindow(t, Options{})
	th := DefaultTheme()
	fb := render.NewFrameBuffer(800, 600)
	mw.Paint(fb)

	require.Equal(t, th.StatusBar, fb.At(790, 590))
	require.Equal(t, th.MenuBar, fb.At(1, 1))
	require.Equal(t, th.Checker, fb.At(45, 65))
	require.Equal(t, th.Workspace, fb.At(53, 65))

	mw.SetCustomizing(true)
	mw.Paint(fb)
	require.Equal(t, th.Accent, fb.At(0, 40))
}
