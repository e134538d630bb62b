package ui

import (
	"image/color"

	"pxed/internal/dock"
	"pxed/internal/editor"
)

type Theme struct {
	AppBackground color.RGBA
	MenuBar       color.RGBA
	TabsBar       color.RGBA
	ContextBar    color.RGBA
	ToolBar       color.RGBA
	ColorBar      color.RGBA
	Timeline      color.RGBA
	Workspace     color.RGBA
	Checker       color.RGBA
	StatusBar     color.RGBA
	Text          color.RGBA
	Border        color.RGBA
	Accent        color.RGBA
	Popup         color.RGBA
	PopupHover    color.RGBA
	Notes         color.RGBA

	MenuBarHeightDp    int
	TabsBarHeightDp    int
	ContextBarHeightDp int
	ToolBarWidthDp     int
	ColorBarWidthDp    int
	TimelineSizeDp     int
	StatusBarHeightDp  int
	NotesWidthDp       int
	CheckerDp          int
	PaddingDp          int
}

func DefaultTheme() Theme {
	return Theme{
		AppBackground: color.RGBA{0x3A, 0x3F, 0x4B, 0xFF},
		MenuBar:       color.RGBA{0xD3, 0xCB, 0xBE, 0xFF},
		TabsBar:       color.RGBA{0x7D, 0x92, 0x9E, 0xFF},
		ContextBar:    color.RGBA{0xC6, 0xC6, 0xC6, 0xFF},
		ToolBar:       color.RGBA{0xB8, 0xB8, 0xB8, 0xFF},
		ColorBar:      color.RGBA{0xAE, 0xAE, 0xAE, 0xFF},
		Timeline:      color.RGBA{0x9F, 0xA6, 0xAE, 0xFF},
		Workspace:     color.RGBA{0x80, 0x80, 0x80, 0xFF},
		Checker:       color.RGBA{0xC0, 0xC0, 0xC0, 0xFF},
		StatusBar:     color.RGBA{0xD3, 0xCB, 0xBE, 0xFF},
		Text:          color.RGBA{0x20, 0x24, 0x2B, 0xFF},
		Border:        color.RGBA{0x59, 0x4D, 0x57, 0xFF},
		Accent:        color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
		Popup:         color.RGBA{0xF3, 0xF5, 0xF8, 0xFF},
		PopupHover:    color.RGBA{0xB2, 0xBF, 0xD0, 0xFF},
		Notes:         color.RGBA{0xFF, 0xFF, 0xF0, 0xFF},

		MenuBarHeightDp:    18,
		TabsBarHeightDp:    18,
		ContextBarHeightDp: 24,
		ToolBarWidthDp:     28,
		ColorBarWidthDp:    40,
		TimelineSizeDp:     64,
		StatusBarHeightDp:  18,
		NotesWidthDp:       120,
		CheckerDp:          8,
		PaddingDp:          3,
	}
}

func (t Theme) DockColors() dock.Colors {
	c := dock.DefaultColors()
	c.Background = t.AppBackground
	c.Placeholder = t.Border
	return c
}

func (t Theme) EditorColors() editor.Colors {
	c := editor.DefaultColors()
	c.Face = t.Notes
	c.Text = t.Text
	c.Selection = t.PopupHover
	return c
}
