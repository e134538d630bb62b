package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"pxed/internal/layout"
	"pxed/internal/platform"

	"github.com/sqweek/dialog"
)

const layoutsExt = "pxed-layouts"

// handleShortcut runs the application shortcut for a key down event and
// reports whether it was one.
func (a *App) handleShortcut(ev platform.Event) bool {
	if ev.Rune != 0 {
		return false
	}
	switch {
	case ev.Key == platform.KeyF2 && ev.Mods == 0:
		a.window.SetCustomizing(!a.window.Customizing())
		return true
	case ev.Key == platform.KeyEscape && ev.Mods == 0:
		switch {
		case a.window.PopupVisible():
			return false
		case a.window.Customizing():
			a.window.SetCustomizing(false)
		default:
			a.quit = true
		}
		return true
	case ev.Mods == platform.ModCtrl|platform.ModAlt && ev.Key >= platform.Key1 && ev.Key <= platform.Key9:
		a.selectLayoutAt(int(ev.Key - platform.Key1))
		return true
	case ev.Mods == platform.ModCtrl|platform.ModShift:
		switch ev.Key {
		case platform.KeyS:
			a.saveCurrentLayout()
		case platform.KeyE:
			a.report(a.exportLayouts())
		case platform.KeyI:
			a.report(a.importLayouts())
		case platform.KeyD:
			a.removeActiveLayout()
		default:
			return false
		}
		return true
	}
	return false
}

func (a *App) selectLayoutAt(i int) {
	ids := a.window.LayoutIDs()
	if i >= len(ids) {
		return
	}
	if a.window.SelectLayout(ids[i]) {
		a.window.SetStatus("Layout " + a.layoutName(ids[i]))
	} else {
		a.window.SetStatus("Cannot restore layout " + ids[i])
	}
}

func (a *App) layoutName(id string) string {
	switch id {
	case layout.Default:
		return "Default"
	case layout.MirroredDefault:
		return "Mirrored Default"
	}
	if l := a.layouts.GetByID(id); l != nil {
		return l.Name()
	}
	return id
}

// nextLayoutName returns the first "Layout N" not taken by a stored layout.
func (a *App) nextLayoutName() string {
	for n := 1; ; n++ {
		name := fmt.Sprintf("Layout %d", n)
		if a.layouts.GetByID(name) == nil {
			return name
		}
	}
}

func (a *App) saveCurrentLayout() {
	name := a.nextLayoutName()
	if _, err := a.window.SaveLayoutAs(name); err != nil {
		a.report(err)
		return
	}
	a.window.SetStatus("Saved layout " + name)
}

// removeActiveLayout deletes the active user layout. Built-ins stay.
func (a *App) removeActiveLayout() {
	id := a.window.ActiveLayout()
	name := a.layoutName(id)
	ok, err := a.window.RemoveLayout(id)
	switch {
	case err != nil:
		a.report(err)
	case !ok:
		a.window.SetStatus("Cannot delete layout " + name)
	default:
		a.window.SetStatus("Deleted layout " + name)
	}
}

func (a *App) exportLayouts() error {
	path, err := dialog.File().Filter("pxed layouts", layoutsExt).Title("Export layouts").Save()
	if err != nil {
		return err
	}
	path = withExt(filepath.Clean(path), layoutsExt)
	if err := a.layouts.Export(path); err != nil {
		return fmt.Errorf("export layouts: %w", err)
	}
	a.window.SetStatus("Exported layouts to " + filepath.Base(path))
	return nil
}

func (a *App) importLayouts() error {
	path, err := dialog.File().Filter("pxed layouts", layoutsExt).Title("Import layouts").Load()
	if err != nil {
		return err
	}
	n, err := a.layouts.Import(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("import layouts: %w", err)
	}
	if err := a.layouts.SaveUserLayouts(); err != nil {
		return fmt.Errorf("save layouts: %w", err)
	}
	a.window.SetStatus(fmt.Sprintf("Imported %d layouts", n))
	return nil
}

// report shows err in the status bar and an alert. A cancelled dialog is
// not an error.
func (a *App) report(err error) {
	if err == nil || errors.Is(err, dialog.ErrCancelled) {
		return
	}
	a.logger.Error("layout command failed", "err", err)
	a.window.SetStatus(err.Error())
	if a.alerts {
		dialog.Message("%s", err.Error()).Title("pxed").Error()
	}
}

func withExt(path, ext string) string {
	if strings.EqualFold(filepath.Ext(path), "."+ext) {
		return path
	}
	return path + "." + ext
}
