package ui

import (
	"pxed/internal/geom"
	"pxed/internal/render"
)

// Paint draws the whole window: the dock tree with its panels, the drag
// ghost and, on top, an open popup menu.
func (mw *MainWindow) Paint(fb *render.FrameBuffer) {
	fb.Clear(mw.theme.AppBackground)
	mw.root.Paint(fb)
	if mw.Customizing() {
		mw.paintCustomizeFrame(fb)
	}
	mw.popup.Paint(fb)
}

// paintCustomizeFrame outlines the customizable area while the panels can
// be rearranged.
func (mw *MainWindow) paintCustomizeFrame(fb *render.FrameBuffer) {
	b := mw.customizable.Bounds()
	if b.IsEmpty() {
		return
	}
	line := max(mw.scale, 1)
	fb.StrokeRect(b.X, b.Y, b.W, b.H, line, mw.theme.Accent)
}

// PanelBounds returns the bounds of the panel with the given id, or an empty
// rect when there is no such panel.
func (mw *MainWindow) PanelBounds(id string) geom.Rect {
	switch id {
	case MenuBarID:
		return mw.menuBar.Bounds()
	case TabsBarID:
		return mw.tabsBar.Bounds()
	case StatusBarID:
		return mw.statusBar.Bounds()
	}
	if w := mw.resolve(id); w != nil {
		return w.Bounds()
	}
	return geom.Rect{}
}
