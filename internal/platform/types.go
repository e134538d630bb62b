package platform

import (
	"runtime"

	"pxed/internal/geom"
)

type WindowConfig struct {
	Title       string
	WidthPx     int
	HeightPx    int
	MinWidthPx  int
	MinHeightPx int
}

type EventType int

const (
	EventUnknown EventType = iota
	EventClose
	EventResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventDoubleClick
	EventMouseWheel
	EventFocusEnter
	EventFocusLeave
	EventTimer
)

func (t EventType) IsMouse() bool {
	switch t {
	case EventMouseMove, EventMouseDown, EventMouseUp, EventDoubleClick, EventMouseWheel:
		return true
	}
	return false
}

type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModCmd
)

type Key int

const (
	KeyUnknown Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyTab
	KeyEscape
	KeyA
	KeyC
	KeyV
	KeyX
	KeyS
	KeyE
	KeyI
	KeyD
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyF2
	KeyShift
	KeyControl
	KeyAlt
	KeyMeta
)

// KeyFirstModifier starts the range of keys that are modifiers pressed on
// their own.
const KeyFirstModifier = KeyShift

type Event struct {
	Type   EventType
	Width  int
	Height int
	Pos    geom.Point
	Button Button
	Mods   Modifiers
	Key    Key
	Rune   rune
	// DeadKey marks a composed character that a following key may replace.
	DeadKey bool
	Wheel   geom.Point
	// PreciseWheel reports Wheel in pixels instead of lines.
	PreciseWheel bool
	TimerID      int
}

func (e Event) ShiftPressed() bool { return e.Mods&ModShift != 0 }
func (e Event) CtrlPressed() bool  { return e.Mods&ModCtrl != 0 }
func (e Event) AltPressed() bool   { return e.Mods&ModAlt != 0 }
func (e Event) CmdPressed() bool   { return e.Mods&ModCmd != 0 }

func (e Event) OnlyCtrlPressed() bool { return e.Mods == ModCtrl }
func (e Event) OnlyCmdPressed() bool  { return e.Mods == ModCmd }

// ShortcutMod is the clipboard shortcut modifier: Cmd on macOS, Ctrl
// elsewhere.
func ShortcutMod() Modifiers {
	if runtime.GOOS == "darwin" {
		return ModCmd
	}
	return ModCtrl
}

func (e Event) OnlyShortcutPressed() bool { return e.Mods == ShortcutMod() }

// Handler consumes events and reports whether it handled them.
type Handler interface {
	ProcessEvent(ev Event) bool
}

type Cursor int

const (
	CursorArrow Cursor = iota
	CursorSizeNS
	CursorSizeWE
	CursorMove
	CursorText
)
