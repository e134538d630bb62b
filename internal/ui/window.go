// Package ui assembles the main window of the editor: the panel set, the
// dock tree holding it, layout selection and event dispatch.
package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"pxed/internal/dock"
	"pxed/internal/editor"
	"pxed/internal/geom"
	"pxed/internal/layout"
	"pxed/internal/platform"
	"pxed/internal/pref"
	"pxed/internal/shape"
	"pxed/internal/timer"
)

// Widget ids of the main window panels. The customizable ones are the
// element names stored in layouts.
const (
	MenuBarID    = "menubar"
	TabsBarID    = "tabsbar"
	ContextBarID = "contextbar"
	ToolBarID    = "toolbar"
	ColorBarID   = "colorbar"
	TimelineID   = "timeline"
	WorkspaceID  = "workspace"
	NotesID      = "notes"
	StatusBarID  = "statusbar"
)

var ErrInvalidLayoutName = errors.New("ui: invalid layout name")

type Options struct {
	Bounds    geom.Rect
	Scale     int
	Theme     *Theme
	Shaper    shape.Shaper
	Clipboard editor.Clipboard
	Scheduler *timer.Scheduler
	Capture   *platform.Capture
	Prefs     *pref.Preferences
	Layouts   *layout.Layouts
	Logger    *slog.Logger
}

// MainWindow owns the root dock. Its top holds the menu bar and the tabs
// bar, its bottom the status bar and its center the customizable dock with
// the panels the user can rearrange.
type MainWindow struct {
	theme   Theme
	scale   int
	logger  *slog.Logger
	capture *platform.Capture
	prefs   *pref.Preferences
	layouts *layout.Layouts

	root          *dock.Dock
	customizable  *dock.Dock
	workspaceDock *dock.Dock

	menuBar    *Panel
	tabsBar    *Panel
	contextBar *Panel
	toolBar    *Panel
	colorBar   *Panel
	timeline   *Panel
	statusBar  *Panel
	workspace  *Workspace
	notes      *Notes
	popup      *PopupMenu
	widgets    map[string]dock.Widget

	bounds       geom.Rect
	focus        platform.Handler
	activeLayout string
	timelineConn func()
}

func New(opts Options) *MainWindow {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	theme := DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	if opts.Shaper == nil {
		opts.Shaper = shape.NewFaceShaper(nil)
	}
	if opts.Scheduler == nil {
		opts.Scheduler = timer.NewScheduler(nil)
	}
	if opts.Capture == nil {
		opts.Capture = &platform.Capture{}
	}
	if opts.Prefs == nil {
		opts.Prefs = pref.Default()
	}
	if opts.Layouts == nil {
		opts.Layouts = layout.New("", opts.Logger)
	}
	if opts.Bounds.IsEmpty() {
		opts.Bounds = geom.R(0, 0, 1280, 800)
	}

	mw := &MainWindow{
		theme:   theme,
		scale:   opts.Scale,
		logger:  opts.Logger.With("component", "mainwindow"),
		capture: opts.Capture,
		prefs:   opts.Prefs,
		layouts: opts.Layouts,
	}
	colors := theme.DockColors()
	dockOpts := func(id string) dock.Options {
		return dock.Options{
			ID:         id,
			Capture:    opts.Capture,
			Scale:      opts.Scale,
			TextHeight: opts.Shaper.LineHeight(),
			Colors:     &colors,
			Logger:     opts.Logger,
		}
	}
	mw.root = dock.New(dockOpts("root"))
	mw.customizable = dock.New(dockOpts("customizable"))
	mw.buildPanels(opts)
	mw.popup = newPopupMenu(theme, opts.Scale, opts.Shaper)

	mw.root.Top().Dock(dock.Bottom, mw.tabsBar, geom.Size{})
	mw.root.Dock(dock.Center, mw.customizable, geom.Size{})
	mw.root.Dock(dock.Bottom, mw.statusBar, geom.Size{})
	mw.syncMenuBar()

	mw.customizable.SetRedockSizeHook(mw.redockSize)
	mw.customizable.SetContextMenuHook(mw.showDockMenu)
	mw.customizable.OnUserResized(mw.updateActiveLayout)

	mw.SetBounds(opts.Bounds)
	if !mw.SelectLayout(opts.Prefs.General.Layout) {
		mw.SelectLayout(layout.Default)
	}
	return mw
}

func (mw *MainWindow) buildPanels(opts Options) {
	t, dp := mw.theme, mw.dp
	panel := func(s panelSpec) *Panel { return newPanel(s, t, mw.scale, opts.Shaper) }

	mw.menuBar = panel(panelSpec{id: MenuBarID, text: "File  Edit  Sprite  Layer  Frame  Select  View  Help",
		face: t.MenuBar, hint: geom.Sz(0, dp(t.MenuBarHeightDp))})
	mw.tabsBar = panel(panelSpec{id: TabsBarID, text: "Home",
		face: t.TabsBar, hint: geom.Sz(0, dp(t.TabsBarHeightDp))})
	mw.statusBar = panel(panelSpec{id: StatusBarID,
		face: t.StatusBar, hint: geom.Sz(0, dp(t.StatusBarHeightDp))})
	mw.contextBar = panel(panelSpec{id: ContextBarID, text: "Pencil  Size: 1  Opacity: 255",
		face: t.ContextBar, at: dock.Top | dock.Bottom, handle: dock.Left,
		hint: geom.Sz(0, dp(t.ContextBarHeightDp))})
	mw.toolBar = panel(panelSpec{id: ToolBarID,
		face: t.ToolBar, at: dock.Left | dock.Right, handle: dock.Top,
		hint: geom.Sz(dp(t.ToolBarWidthDp), 0)})
	mw.colorBar = panel(panelSpec{id: ColorBarID,
		face: t.ColorBar, at: dock.Left | dock.Right | dock.Expansive, handle: dock.Top,
		hint: geom.Sz(dp(t.ColorBarWidthDp), 0)})
	mw.timeline = panel(panelSpec{id: TimelineID, text: "Layer 1",
		face: t.Timeline, at: dock.Left | dock.Right | dock.Bottom | dock.Expansive, handle: dock.Top,
		hint: geom.Sz(dp(t.TimelineSizeDp), dp(t.TimelineSizeDp))})
	mw.workspace = &Workspace{
		Panel:   panel(panelSpec{id: WorkspaceID, face: t.Workspace}),
		checker: t.Checker,
		cell:    max(dp(t.CheckerDp), 1),
	}

	ec := t.EditorColors()
	mw.notes = &Notes{
		TextEdit: editor.New(editor.Options{
			ID:        NotesID,
			Shaper:    opts.Shaper,
			Clipboard: opts.Clipboard,
			Scheduler: opts.Scheduler,
			Capture:   opts.Capture,
			Colors:    &ec,
			Border:    dp(t.PaddingDp),
			Logger:    opts.Logger,
		}),
		hint: geom.Sz(dp(t.NotesWidthDp), dp(t.NotesWidthDp/2)),
	}

	mw.widgets = map[string]dock.Widget{}
	for _, w := range []dock.Widget{mw.contextBar, mw.toolBar, mw.colorBar, mw.timeline, mw.workspace, mw.notes} {
		mw.widgets[w.ID()] = w
	}
}

func (mw *MainWindow) dp(v int) int { return v * mw.scale }

func (mw *MainWindow) resolve(id string) dock.Widget { return mw.widgets[id] }

func (mw *MainWindow) Bounds() geom.Rect { return mw.bounds }

func (mw *MainWindow) SetBounds(r geom.Rect) {
	mw.bounds = r
	mw.relayout()
}

func (mw *MainWindow) relayout() { mw.root.SetBounds(mw.bounds) }

func (mw *MainWindow) CustomizableDock() *dock.Dock { return mw.customizable }

func (mw *MainWindow) Notes() *Notes { return mw.notes }

func (mw *MainWindow) ActiveLayout() string { return mw.activeLayout }

func (mw *MainWindow) Customizing() bool { return mw.customizable.Customizing() }

// SetCustomizing shows or hides the drag handles of the rearrangeable
// panels.
func (mw *MainWindow) SetCustomizing(enable bool) {
	mw.popup.Hide()
	mw.customizable.SetCustomizing(enable)
	mw.relayout()
}

func (mw *MainWindow) PopupVisible() bool { return mw.popup.Visible() }

func (mw *MainWindow) SetStatus(text string) { mw.statusBar.SetText(text) }

func (mw *MainWindow) Status() string { return mw.statusBar.Text() }

// SetDefaultLayout arranges the panels in the built-in layout: color bar on
// the left, context bar on top, tool bar on the right and the timeline below
// the workspace.
func (mw *MainWindow) SetDefaultLayout() {
	mw.setBuiltinLayout(dock.Left, dock.Right)
}

// SetDefaultMirrorLayout is the default layout with the side bars swapped.
func (mw *MainWindow) SetDefaultMirrorLayout() {
	mw.setBuiltinLayout(dock.Right, dock.Left)
}

func (mw *MainWindow) setBuiltinLayout(colorBarSide, toolBarSide dock.Side) {
	mw.disconnectTimeline()
	t := mw.theme
	c := mw.customizable
	c.ResetDocks()
	c.Dock(colorBarSide, mw.colorBar, geom.Size{})
	c.Center().Dock(dock.Top, mw.contextBar, geom.Size{})
	c.Center().Dock(toolBarSide, mw.toolBar, geom.Size{})
	c.Center().Center().Dock(dock.Bottom, mw.timeline, geom.Sz(mw.dp(t.TimelineSizeDp), mw.dp(t.TimelineSizeDp)))
	c.Center().Center().Dock(dock.Center, mw.workspace, geom.Size{})
	c.DockRelativeTo(mw.workspace, toolBarSide, mw.notes, geom.Sz(mw.dp(t.NotesWidthDp), 0))
	mw.ConfigureWorkspaceLayout()
}

// ConfigureWorkspaceLayout applies the menu bar and timeline preferences.
// The timeline is docked around the workspace at the preferred position,
// taking the share of the workspace left over by the splitter ratio, and
// later splitter moves are saved back to the preferences.
func (mw *MainWindow) ConfigureWorkspaceLayout() {
	mw.relayout()
	mw.syncMenuBar()

	t := mw.theme
	c := mw.customizable
	wb := c.Center().Center().Bounds()
	ratio := mw.prefs.TimelineSplitter()
	c.Undock(mw.timeline)

	side := dock.Bottom
	size := geom.Sz(mw.dp(t.TimelineSizeDp), mw.dp(t.TimelineSizeDp))
	switch mw.prefs.Timeline.Position {
	case pref.TimelineLeft:
		side = dock.Left
		size.W = splitterExtent(wb.W, ratio, size.W)
	case pref.TimelineRight:
		side = dock.Right
		size.W = splitterExtent(wb.W, ratio, size.W)
	default:
		size.H = splitterExtent(wb.H, ratio, size.H)
	}

	ws := c.Center().Center()
	mw.disconnectTimeline()
	mw.workspaceDock = ws
	mw.timelineConn = ws.OnResized(mw.SaveTimelineConfiguration)
	ws.Dock(side, mw.timeline, size)
	mw.timeline.SetVisible(mw.prefs.Timeline.Visible)
	mw.relayout()
}

// splitterExtent is the part of total left to the timeline when the
// workspace keeps ratio percent of it.
func splitterExtent(total, ratio, fallback int) int {
	if total <= 0 {
		return fallback
	}
	return total * (100 - ratio) / 100
}

// SaveTimelineConfiguration stores the share of the workspace kept by the
// editor next to the timeline, in percent clamped to 1..99.
func (mw *MainWindow) SaveTimelineConfiguration() {
	ws := mw.workspaceDock
	if ws == nil || ws.WhichSideChildIsDocked(mw.timeline) == 0 {
		return
	}
	tb, wb := mw.timeline.Bounds(), ws.Bounds()
	var share float64
	switch mw.prefs.Timeline.Position {
	case pref.TimelineLeft, pref.TimelineRight:
		if wb.W <= 0 {
			return
		}
		share = float64(tb.W) / float64(wb.W)
	default:
		if wb.H <= 0 {
			return
		}
		share = float64(tb.H) / float64(wb.H)
	}
	mw.prefs.SetTimelineSplitter(int(math.Round((1 - share) * 100)))
}

func (mw *MainWindow) disconnectTimeline() {
	if mw.timelineConn != nil {
		mw.timelineConn()
		mw.timelineConn = nil
	}
	mw.workspaceDock = nil
}

func (mw *MainWindow) SetTimelinePosition(p pref.TimelinePosition) {
	if !p.Valid() {
		return
	}
	mw.prefs.Timeline.Position = p
	mw.ConfigureWorkspaceLayout()
}

func (mw *MainWindow) SetTimelineVisible(v bool) {
	mw.prefs.Timeline.Visible = v
	mw.ConfigureWorkspaceLayout()
}

func (mw *MainWindow) SetMenuBarVisible(v bool) {
	mw.prefs.General.ShowMenuBar = v
	mw.syncMenuBar()
	mw.relayout()
}

func (mw *MainWindow) syncMenuBar() {
	docked := mw.root.WhichSideChildIsDocked(mw.menuBar) != 0
	switch show := mw.prefs.General.ShowMenuBar; {
	case show && !docked:
		mw.root.Top().Dock(dock.Center, mw.menuBar, geom.Size{})
	case !show && docked:
		mw.root.Undock(mw.menuBar)
	}
}

// redockSize sizes the timeline from the splitter ratio when the user moves
// it, and remembers its new position. Other panels keep their size hint.
func (mw *MainWindow) redockSize(w dock.Widget, side dock.Side, bounds geom.Rect) geom.Size {
	if w != dock.Widget(mw.timeline) {
		return geom.Size{}
	}
	t := mw.theme
	ratio := mw.prefs.TimelineSplitter()
	size := geom.Sz(mw.dp(t.TimelineSizeDp), mw.dp(t.TimelineSizeDp))
	pos := pref.TimelineLeft
	switch side {
	case dock.Left:
		size.W = splitterExtent(bounds.W, ratio, size.W)
	case dock.Right:
		pos = pref.TimelineRight
		size.W = splitterExtent(bounds.W, ratio, size.W)
	case dock.Bottom:
		pos = pref.TimelineBottom
		size.H = splitterExtent(bounds.H, ratio, size.H)
	}
	mw.prefs.Timeline.Position = pos
	return size
}

var dockMenuLabels = map[dock.Side]string{
	dock.Left:   "Dock Left",
	dock.Right:  "Dock Right",
	dock.Top:    "Dock Top",
	dock.Bottom: "Dock Bottom",
}

func (mw *MainWindow) showDockMenu(at geom.Point, _ dock.Widget, sides []dock.Side, choose func(dock.Side)) {
	items := make([]MenuItem, 0, len(sides))
	for _, s := range sides {
		s := s
		items = append(items, MenuItem{Label: dockMenuLabels[s], Action: func() { choose(s) }})
	}
	mw.popup.Show(at, items, mw.bounds)
}

// SelectLayout switches to the layout with the given id. The built-in ids
// rebuild their arrangement first and then apply the user's stored
// modifications, if any. It returns false for an unknown id or a stored
// layout that cannot be restored.
func (mw *MainWindow) SelectLayout(id string) bool {
	if id == "" {
		id = layout.Default
	}
	l := mw.layouts.GetByID(id)
	switch id {
	case layout.Default:
		mw.SetDefaultLayout()
	case layout.MirroredDefault:
		mw.SetDefaultMirrorLayout()
	default:
		if l == nil {
			mw.logger.Warn("unknown layout", "id", id)
			return false
		}
	}
	if l != nil && !mw.LoadUserLayout(l) && !l.IsDefault() {
		return false
	}
	mw.setActiveLayout(id)
	return true
}

// LoadUserLayout rebuilds the customizable dock from l. The timeline
// splitter is no longer tracked since l decides where the timeline lives.
func (mw *MainWindow) LoadUserLayout(l *layout.Layout) bool {
	if !l.LoadLayout(mw.customizable, mw.resolve) {
		mw.logger.Warn("cannot restore layout", "id", l.ID())
		return false
	}
	mw.disconnectTimeline()
	mw.timeline.SetVisible(mw.prefs.Timeline.Visible)
	if mw.focus == platform.Handler(mw.notes) && mw.customizable.WhichSideChildIsDocked(mw.notes) == 0 {
		mw.setFocus(nil)
	}
	mw.relayout()
	return true
}

// SaveLayoutAs stores the current arrangement as a user layout named name
// and makes it the active one.
func (mw *MainWindow) SaveLayoutAs(name string) (*layout.Layout, error) {
	if !layout.IsValidName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLayoutName, name)
	}
	l := layout.MakeFromDock(name, name, mw.customizable)
	mw.layouts.AddLayout(l)
	mw.setActiveLayout(name)
	if err := mw.layouts.SaveUserLayouts(); err != nil {
		return l, fmt.Errorf("save layouts: %w", err)
	}
	return l, nil
}

// RemoveLayout deletes the user layout id and reports whether it existed.
// Removing the active layout switches back to the default one.
func (mw *MainWindow) RemoveLayout(id string) (bool, error) {
	if !mw.layouts.RemoveLayout(id) {
		return false, nil
	}
	if id == mw.activeLayout {
		mw.SelectLayout(layout.Default)
	}
	if err := mw.layouts.SaveUserLayouts(); err != nil {
		return true, fmt.Errorf("save layouts: %w", err)
	}
	return true, nil
}

// LayoutIDs lists the selectable layouts, built-ins first.
func (mw *MainWindow) LayoutIDs() []string {
	ids := []string{layout.Default, layout.MirroredDefault}
	for _, l := range mw.layouts.List() {
		if !l.IsDefault() {
			ids = append(ids, l.ID())
		}
	}
	return ids
}

func (mw *MainWindow) setActiveLayout(id string) {
	mw.activeLayout = id
	mw.prefs.General.Layout = id
}

// updateActiveLayout records a user resize or redock into the active
// layout, so that built-in layouts keep the user's modifications too.
func (mw *MainWindow) updateActiveLayout() {
	id := mw.activeLayout
	name := layoutName(id)
	if l := mw.layouts.GetByID(id); l != nil {
		name = l.Name()
	}
	mw.layouts.AddLayout(layout.MakeFromDock(id, name, mw.customizable))
	if err := mw.layouts.SaveUserLayouts(); err != nil {
		mw.logger.Error("error saving user layouts", "err", err)
	}
}

func layoutName(id string) string {
	switch id {
	case layout.Default:
		return "Default"
	case layout.MirroredDefault:
		return "Mirrored Default"
	}
	return id
}

// ProcessEvent dispatches a window event. Mouse events go to the capture
// owner, then to an open popup menu, then to the dock tree and finally to
// the widget under the pointer, which takes the focus on a click. Key events
// go to the popup menu or the focused widget.
func (mw *MainWindow) ProcessEvent(ev platform.Event) bool {
	switch ev.Type {
	case platform.EventResize:
		mw.SetBounds(geom.R(0, 0, ev.Width, ev.Height))
		return true
	case platform.EventFocusEnter:
		if mw.focus != nil {
			mw.focus.ProcessEvent(ev)
		}
		return true
	case platform.EventFocusLeave:
		mw.popup.Hide()
		mw.root.Close()
		if mw.focus != nil {
			mw.focus.ProcessEvent(ev)
		}
		return true
	case platform.EventKeyDown, platform.EventKeyUp:
		if mw.popup.Visible() {
			return mw.popup.ProcessEvent(ev)
		}
		if mw.focus != nil {
			return mw.focus.ProcessEvent(ev)
		}
		return false
	}
	if ev.Type.IsMouse() {
		return mw.processMouse(ev)
	}
	return false
}

func (mw *MainWindow) processMouse(ev platform.Event) bool {
	if owner := mw.capture.Owner(); owner != nil {
		return owner.ProcessEvent(ev)
	}
	if mw.popup.Visible() {
		return mw.popup.ProcessEvent(ev)
	}
	if mw.root.ProcessEvent(ev) {
		return true
	}
	h, _ := mw.root.WidgetAt(ev.Pos).(platform.Handler)
	if ev.Type == platform.EventMouseDown || ev.Type == platform.EventDoubleClick {
		mw.setFocus(h)
	}
	if h == nil {
		return false
	}
	return h.ProcessEvent(ev)
}

func (mw *MainWindow) Focus() platform.Handler { return mw.focus }

func (mw *MainWindow) setFocus(h platform.Handler) {
	if h == mw.focus {
		return
	}
	if mw.focus != nil {
		mw.focus.ProcessEvent(platform.Event{Type: platform.EventFocusLeave})
	}
	mw.focus = h
	if h != nil {
		h.ProcessEvent(platform.Event{Type: platform.EventFocusEnter})
	}
}

// CursorAt returns the pointer shape for p.
func (mw *MainWindow) CursorAt(p geom.Point) platform.Cursor {
	if mw.popup.Visible() {
		return platform.CursorArrow
	}
	if c := mw.root.CursorAt(p); c != platform.CursorArrow {
		return c
	}
	if _, ok := mw.root.WidgetAt(p).(*Notes); ok {
		return platform.CursorText
	}
	return platform.CursorArrow
}

// Close cancels any interaction in progress and releases the notes editor.
func (mw *MainWindow) Close() {
	mw.disconnectTimeline()
	mw.popup.Hide()
	mw.setFocus(nil)
	mw.root.Close()
	mw.notes.Close()
}
