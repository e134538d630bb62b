// Package app runs the editor window on ebiten: it turns ebiten input into
// platform events, paints the main window into a frame buffer and persists
// the preferences and layouts on exit.
package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"pxed/internal/editor"
	"pxed/internal/geom"
	"pxed/internal/layout"
	"pxed/internal/platform"
	"pxed/internal/pref"
	"pxed/internal/render"
	"pxed/internal/shape"
	"pxed/internal/timer"
	"pxed/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	defaultWidth  = 1280
	defaultHeight = 800
	minWidth      = 640
	minHeight     = 400

	baseFontPx = 13
)

// Options configures an App. Zero values pick the user config directory,
// slog.Default and the system clipboard.
type Options struct {
	ConfigDir string
	Logger    *slog.Logger
	Clipboard editor.Clipboard
}

type App struct {
	logger    *slog.Logger
	configDir string
	prefs     *pref.Preferences
	layouts   *layout.Layouts
	sched     *timer.Scheduler
	capture   *platform.Capture
	window    *ui.MainWindow

	in input

	frameBuffer *render.FrameBuffer
	canvas      *ebiten.Image

	screenW int
	screenH int

	// alerts shows failed commands in a message box too.
	alerts bool
	quit   bool
	closed bool
}

// NewLogger returns a text logger writing records at level and above to w.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func New(opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "app")

	dir := opts.ConfigDir
	if dir == "" {
		d, err := pref.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	prefs, err := pref.Load(pref.Path(dir))
	if err != nil {
		logger.Error("error loading preferences, using defaults", "path", pref.Path(dir), "err", err)
	}

	clip := opts.Clipboard
	if clip == nil {
		clip = newSystemClipboard(logger)
	}

	scale := prefs.General.UIScale
	a := &App{
		logger:    logger,
		configDir: dir,
		prefs:     prefs,
		layouts:   layout.New(layout.UserLayoutsPath(dir), logger),
		sched:     timer.NewScheduler(nil),
		capture:   &platform.Capture{},
		screenW:   defaultWidth,
		screenH:   defaultHeight,
		alerts:    true,
	}
	a.window = ui.New(ui.Options{
		Bounds:    geom.R(0, 0, defaultWidth, defaultHeight),
		Scale:     scale,
		Shaper:    shape.NewDefaultShaper(float64(baseFontPx * scale)),
		Clipboard: clip,
		Scheduler: a.sched,
		Capture:   a.capture,
		Prefs:     prefs,
		Layouts:   a.layouts,
		Logger:    logger,
	})
	a.window.SetStatus("Ready")
	return a, nil
}

func (a *App) Window() *ui.MainWindow { return a.window }

func (a *App) Run() error {
	cfg := platform.WindowConfig{
		Title:       "pxed",
		WidthPx:     defaultWidth,
		HeightPx:    defaultHeight,
		MinWidthPx:  minWidth,
		MinHeightPx: minHeight,
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.WidthPx, cfg.HeightPx)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(cfg.MinWidthPx, cfg.MinHeightPx, -1, -1)
	ebiten.SetWindowClosingHandled(true)
	err := ebiten.RunGame(a)
	a.Shutdown()
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run game loop: %w", err)
	}
	return nil
}

func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.quit = true
	}
	if a.quit {
		return ebiten.Termination
	}
	for _, ev := range a.in.poll() {
		a.dispatch(ev)
		if a.quit {
			return ebiten.Termination
		}
	}
	a.sched.Poll()
	ebiten.SetCursorShape(cursorShape(a.window.CursorAt(a.in.pos)))
	return nil
}

// dispatch gives the application shortcuts the first look at an event.
func (a *App) dispatch(ev platform.Event) {
	if ev.Type == platform.EventKeyDown && a.handleShortcut(ev) {
		return
	}
	a.window.ProcessEvent(ev)
}

func (a *App) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if a.frameBuffer == nil || a.frameBuffer.W != w || a.frameBuffer.H != h {
		a.frameBuffer = render.NewFrameBuffer(w, h)
		a.canvas = ebiten.NewImage(w, h)
	}
	a.window.Paint(a.frameBuffer)
	a.canvas.WritePixels(a.frameBuffer.Pixels)
	screen.DrawImage(a.canvas, nil)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	outsideWidth = max(outsideWidth, minWidth)
	outsideHeight = max(outsideHeight, minHeight)
	if outsideWidth != a.screenW || outsideHeight != a.screenH || a.window.Bounds().IsEmpty() {
		a.screenW, a.screenH = outsideWidth, outsideHeight
		a.window.ProcessEvent(platform.Event{Type: platform.EventResize, Width: outsideWidth, Height: outsideHeight})
	}
	return outsideWidth, outsideHeight
}

// Shutdown saves the preferences and the user layouts and releases the
// window. Later calls do nothing.
func (a *App) Shutdown() {
	if a.closed {
		return
	}
	a.closed = true
	a.window.Close()
	if err := a.prefs.Save(pref.Path(a.configDir)); err != nil {
		a.logger.Error("error saving preferences", "err", err)
	}
	if err := a.layouts.Close(); err != nil {
		a.logger.Error("error saving user layouts", "path", a.layouts.Path(), "err", err)
	}
}
