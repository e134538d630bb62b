package app

import (
	"time"

	"pxed/internal/geom"
	"pxed/internal/platform"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Key repeat, in ticks at ebiten's default 60 TPS.
const (
	repeatDelay    = 30
	repeatInterval = 3

	wheelStepPx = 42
)

var keyMap = []struct {
	key   platform.Key
	ebKey ebiten.Key
}{
	{platform.KeyLeft, ebiten.KeyArrowLeft},
	{platform.KeyRight, ebiten.KeyArrowRight},
	{platform.KeyUp, ebiten.KeyArrowUp},
	{platform.KeyDown, ebiten.KeyArrowDown},
	{platform.KeyHome, ebiten.KeyHome},
	{platform.KeyEnd, ebiten.KeyEnd},
	{platform.KeyPageUp, ebiten.KeyPageUp},
	{platform.KeyPageDown, ebiten.KeyPageDown},
	{platform.KeyEnter, ebiten.KeyEnter},
	{platform.KeyEnter, ebiten.KeyNumpadEnter},
	{platform.KeyBackspace, ebiten.KeyBackspace},
	{platform.KeyDelete, ebiten.KeyDelete},
	{platform.KeyTab, ebiten.KeyTab},
	{platform.KeyEscape, ebiten.KeyEscape},
	{platform.KeyA, ebiten.KeyA},
	{platform.KeyC, ebiten.KeyC},
	{platform.KeyV, ebiten.KeyV},
	{platform.KeyX, ebiten.KeyX},
	{platform.KeyS, ebiten.KeyS},
	{platform.KeyE, ebiten.KeyE},
	{platform.KeyI, ebiten.KeyI},
	{platform.KeyD, ebiten.KeyD},
	{platform.Key1, ebiten.KeyDigit1},
	{platform.Key2, ebiten.KeyDigit2},
	{platform.Key3, ebiten.KeyDigit3},
	{platform.Key4, ebiten.KeyDigit4},
	{platform.Key5, ebiten.KeyDigit5},
	{platform.Key6, ebiten.KeyDigit6},
	{platform.Key7, ebiten.KeyDigit7},
	{platform.Key8, ebiten.KeyDigit8},
	{platform.Key9, ebiten.KeyDigit9},
	{platform.KeyF2, ebiten.KeyF2},
	{platform.KeyShift, ebiten.KeyShift},
	{platform.KeyControl, ebiten.KeyControl},
	{platform.KeyAlt, ebiten.KeyAlt},
	{platform.KeyMeta, ebiten.KeyMeta},
}

var buttonMap = []struct {
	button   platform.Button
	ebButton ebiten.MouseButton
}{
	{platform.ButtonLeft, ebiten.MouseButtonLeft},
	{platform.ButtonRight, ebiten.MouseButtonRight},
	{platform.ButtonMiddle, ebiten.MouseButtonMiddle},
}

// input turns the ebiten input state of a tick into platform events.
type input struct {
	pos     geom.Point
	focused bool
	started bool
	clicks  platform.ClickTracker
	runes   []rune
	events  []platform.Event
}

func (in *input) poll() []platform.Event {
	in.events = in.events[:0]
	mods := modifiers()

	if f := ebiten.IsFocused(); !in.started || f != in.focused {
		in.started = true
		in.focused = f
		t := platform.EventFocusLeave
		if f {
			t = platform.EventFocusEnter
		} else {
			in.clicks.Reset()
		}
		in.emit(platform.Event{Type: t})
	}

	x, y := ebiten.CursorPosition()
	if p := geom.Pt(x, y); p != in.pos {
		in.pos = p
		in.emit(platform.Event{Type: platform.EventMouseMove, Pos: p, Mods: mods})
	}

	for _, b := range buttonMap {
		if inpututil.IsMouseButtonJustPressed(b.ebButton) {
			in.emit(platform.Event{Type: platform.EventMouseDown, Pos: in.pos, Button: b.button, Mods: mods})
			if in.clicks.Press(time.Now(), in.pos, b.button) {
				in.emit(platform.Event{Type: platform.EventDoubleClick, Pos: in.pos, Button: b.button, Mods: mods})
			}
		}
		if inpututil.IsMouseButtonJustReleased(b.ebButton) {
			in.emit(platform.Event{Type: platform.EventMouseUp, Pos: in.pos, Button: b.button, Mods: mods})
		}
	}

	if wx, wy := ebiten.Wheel(); wx != 0 || wy != 0 {
		in.emit(platform.Event{
			Type:         platform.EventMouseWheel,
			Pos:          in.pos,
			Mods:         mods,
			Wheel:        geom.Pt(int(-wx*wheelStepPx), int(-wy*wheelStepPx)),
			PreciseWheel: true,
		})
	}

	for _, k := range keyMap {
		if d := inpututil.KeyPressDuration(k.ebKey); d > 0 && keyFires(k.key, d) {
			in.emit(platform.Event{Type: platform.EventKeyDown, Key: k.key, Mods: mods})
		}
		if inpututil.IsKeyJustReleased(k.ebKey) {
			in.emit(platform.Event{Type: platform.EventKeyUp, Key: k.key, Mods: mods})
		}
	}

	in.runes = ebiten.AppendInputChars(in.runes[:0])
	for _, r := range in.runes {
		in.emit(platform.Event{Type: platform.EventKeyDown, Rune: r, Mods: mods})
	}
	return in.events
}

func (in *input) emit(ev platform.Event) { in.events = append(in.events, ev) }

// keyFires reports whether a key held for ticks emits a key down now.
// Modifiers fire once.
func keyFires(k platform.Key, ticks int) bool {
	if k >= platform.KeyFirstModifier {
		return ticks == 1
	}
	return platform.KeyRepeats(ticks, repeatDelay, repeatInterval)
}

func modifiers() platform.Modifiers {
	var m platform.Modifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		m |= platform.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		m |= platform.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		m |= platform.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		m |= platform.ModCmd
	}
	return m
}

func cursorShape(c platform.Cursor) ebiten.CursorShapeType {
	switch c {
	case platform.CursorSizeNS:
		return ebiten.CursorShapeNSResize
	case platform.CursorSizeWE:
		return ebiten.CursorShapeEWResize
	case platform.CursorMove:
		return ebiten.CursorShapeMove
	case platform.CursorText:
		return ebiten.CursorShapeText
	}
	return ebiten.CursorShapeDefault
}
