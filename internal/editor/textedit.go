// Package editor implements the caret based multi-line text editing core:
// carets, selections, the line store and the TextEdit widget that turns
// keyboard and mouse events into text mutations.
package editor

import (
	"errors"
	"image/color"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"pxed/internal/geom"
	"pxed/internal/platform"
	"pxed/internal/shape"
	"pxed/internal/timer"
)

// BlinkInterval is the caret blink period.
const BlinkInterval = 500 * time.Millisecond

// ErrNoClipboard is returned by clipboard operations of an editor built
// without a clipboard.
var ErrNoClipboard = errors.New("editor: no clipboard")

// Clipboard is the system clipboard as seen by the editor.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

type State int

const (
	StateNoFocus State = iota
	StateFocusedIdle
	StateCaretBlinking
	StateDraggingSelection
)

func (s State) String() string {
	switch s {
	case StateNoFocus:
		return "no-focus"
	case StateFocusedIdle:
		return "focused-idle"
	case StateCaretBlinking:
		return "caret-blinking"
	case StateDraggingSelection:
		return "dragging-selection"
	}
	return "unknown"
}

type Colors struct {
	Face      color.RGBA
	Text      color.RGBA
	Selection color.RGBA
	Caret     color.RGBA
}

func DefaultColors() Colors {
	return Colors{
		Face:      color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		Text:      color.RGBA{0x20, 0x24, 0x2B, 0xFF},
		Selection: color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
		Caret:     color.RGBA{0x10, 0x10, 0x10, 0xFF},
	}
}

type Options struct {
	ID        string
	Shaper    shape.Shaper
	Clipboard Clipboard
	Scheduler *timer.Scheduler
	Capture   *platform.Capture
	Colors    *Colors
	Border    int
	Logger    *slog.Logger
}

// TextEdit is a multi-line plain text editor widget. The flat text is the
// source of truth; the line store is rebuilt from it or patched one line at
// a time.
type TextEdit struct {
	id        string
	shaper    shape.Shaper
	clipboard Clipboard
	capture   *platform.Capture
	blink     *timer.Timer
	sched     *timer.Scheduler
	logger    *slog.Logger
	colors    Colors

	text      string
	lines     *Lines
	caret     Caret
	selection Selection
	dragStart Caret

	focused   bool
	drawCaret bool
	visible   bool
	bounds    geom.Rect
	border    int
	scroll    geom.Point
	textSize  geom.Size
	caretRect geom.Rect

	onChange func(text string)
}

func New(opts Options) *TextEdit {
	if opts.Shaper == nil {
		opts.Shaper = shape.NewFaceShaper(nil)
	}
	if opts.Scheduler == nil {
		opts.Scheduler = timer.NewScheduler(nil)
	}
	if opts.Capture == nil {
		opts.Capture = &platform.Capture{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	colors := DefaultColors()
	if opts.Colors != nil {
		colors = *opts.Colors
	}
	e := &TextEdit{
		id:        opts.ID,
		shaper:    opts.Shaper,
		clipboard: opts.Clipboard,
		capture:   opts.Capture,
		sched:     opts.Scheduler,
		logger:    opts.Logger.With("widget", opts.ID),
		colors:    colors,
		lines:     &Lines{},
		visible:   true,
		border:    max(opts.Border, 0),
	}
	e.blink = e.sched.NewTimer(BlinkInterval, e)
	e.lines.rebuild("", e.shaper)
	e.caret = NewCaret(e.lines, 0, 0)
	e.updateTextSize()
	return e
}

func (e *TextEdit) ID() string { return e.id }

func (e *TextEdit) Text() string { return e.text }

func (e *TextEdit) Lines() *Lines { return e.lines }

func (e *TextEdit) Caret() Caret { return e.caret }

func (e *TextEdit) Selection() Selection { return e.selection }

func (e *TextEdit) Focused() bool { return e.focused }

func (e *TextEdit) Scroll() geom.Point { return e.scroll }

// SetCaret moves the caret, clamped into the text, and clears the selection.
func (e *TextEdit) SetCaret(line, pos int) {
	e.caret = e.clampCaret(NewCaret(e.lines, line, pos))
	e.selection.Clear()
	e.ensureCaretVisible()
}

// SetSelection selects from anchor to caret and moves the caret there.
func (e *TextEdit) SetSelection(anchor, caret Caret) {
	e.caret = e.clampCaret(caret)
	e.selection = NewSelection(e.clampCaret(anchor), e.caret)
}

// OnChange registers a callback fired after every text mutation.
func (e *TextEdit) OnChange(fn func(text string)) { e.onChange = fn }

func (e *TextEdit) State() State {
	switch {
	case !e.focused:
		return StateNoFocus
	case e.capture.HeldBy(e):
		return StateDraggingSelection
	case e.blink.IsRunning():
		return StateCaretBlinking
	}
	return StateFocusedIdle
}

// SetText replaces the whole text. The caret is clamped into the new lines
// and a selection that no longer fits is dropped.
func (e *TextEdit) SetText(text string) {
	e.setText(text)
	e.ensureCaretVisible()
}

func (e *TextEdit) setText(text string) {
	text = validText(text)
	e.text = text
	e.lines.rebuild(text, e.shaper)
	e.caret = e.clampCaret(e.caret)
	if !e.selection.IsValid() {
		e.selection.Clear()
	}
	e.updateTextSize()
	e.changed()
}

// validText replaces invalid UTF-8 so the flat text and the rune slices of
// the line store hold the same characters.
func validText(s string) string { return strings.ToValidUTF8(s, "\uFFFD") }

func (e *TextEdit) changed() {
	if e.onChange != nil {
		e.onChange(e.text)
	}
}

func (e *TextEdit) clampCaret(c Caret) Caret {
	c.lines = e.lines
	n := e.lines.Len()
	if n == 0 {
		return Caret{}
	}
	c.Line = min(max(c.Line, 0), n-1)
	c.Pos = min(max(c.Pos, 0), e.lines.At(c.Line).Len())
	return c
}

func (e *TextEdit) updateTextSize() {
	w, h := e.lines.size()
	e.textSize = geom.Sz(w, h)
}

func (e *TextEdit) endCaret() Caret {
	last := e.lines.Len() - 1
	if last < 0 {
		return Caret{}
	}
	return NewCaret(e.lines, last, e.lines.At(last).Len())
}

// Cut copies the selection to the clipboard and deletes it.
func (e *TextEdit) Cut() {
	if !e.selection.Active() {
		return
	}
	e.Copy()
	e.deleteSelection()
	e.ensureCaretVisible()
}

func (e *TextEdit) Copy() {
	if !e.selection.Active() {
		return
	}
	if err := e.writeClipboard(e.SelectedText()); err != nil {
		e.logger.Warn("copy to clipboard failed", "err", err)
	}
}

// Paste replaces the selection with the clipboard text.
func (e *TextEdit) Paste() {
	if !e.caret.IsValid() {
		return
	}
	clip, err := e.readClipboard()
	if err != nil {
		e.logger.Warn("paste from clipboard failed", "err", err)
		return
	}
	e.deleteSelection()
	clip = normalizeNewlines(clip)
	if clip == "" {
		return
	}
	e.insertText(clip)
	e.ensureCaretVisible()
}

func (e *TextEdit) SelectAll() {
	if e.text == "" {
		return
	}
	e.selection = Selection{Start: NewCaret(e.lines, 0, 0), End: e.endCaret()}
	e.caret = e.selection.End
	e.ensureCaretVisible()
}

// SelectedText returns the flat text covered by the selection.
func (e *TextEdit) SelectedText() string {
	if !e.selection.Active() {
		return ""
	}
	return runeSlice(e.text, e.selection.Start.AbsolutePos(), e.selection.End.AbsolutePos())
}

func (e *TextEdit) readClipboard() (string, error) {
	if e.clipboard == nil {
		return "", ErrNoClipboard
	}
	return e.clipboard.ReadText()
}

func (e *TextEdit) writeClipboard(text string) error {
	if e.clipboard == nil {
		return ErrNoClipboard
	}
	return e.clipboard.WriteText(text)
}

// insertCharacter inserts a single non-newline character at the caret,
// patching only the caret line.
func (e *TextEdit) insertCharacter(r rune) {
	if !e.caret.IsValid() {
		return
	}
	abs := e.caret.AbsolutePos()
	line := e.lines.At(e.caret.Line)
	runes := line.runes
	patched := string(runes[:e.caret.Pos]) + string(r) + string(runes[e.caret.Pos:])
	e.lines.patch(e.caret.Line, patched, e.shaper)
	e.text = runeSplice(e.text, abs, abs, string(r))
	e.caret.Pos++
	e.updateTextSize()
	e.changed()
}

// insertText inserts text at the caret and moves the caret after it. Text
// without newlines takes the single line path.
func (e *TextEdit) insertText(text string) {
	if !e.caret.IsValid() || text == "" {
		return
	}
	text = validText(text)
	if !strings.Contains(text, "\n") {
		abs := e.caret.AbsolutePos()
		runes := e.lines.At(e.caret.Line).runes
		e.lines.patch(e.caret.Line, string(runes[:e.caret.Pos])+text+string(runes[e.caret.Pos:]), e.shaper)
		e.text = runeSplice(e.text, abs, abs, text)
		e.caret.Pos += utf8.RuneCountInString(text)
		e.updateTextSize()
		e.changed()
		return
	}
	caret := e.caret
	abs := caret.AbsolutePos()
	e.setText(runeSplice(e.text, abs, abs, text))
	e.caret = caret
	e.caret.AdvanceBy(utf8.RuneCountInString(text))
}

// deleteSelection removes the selected text and leaves the caret at the
// selection start. Single line selections patch one line; anything else
// rebuilds the line store.
func (e *TextEdit) deleteSelection() {
	if !e.selection.Active() {
		return
	}
	start, end := e.selection.Start, e.selection.End
	text := runeSplice(e.text, start.AbsolutePos(), end.AbsolutePos(), "")
	if start.Line == end.Line {
		runes := e.lines.At(start.Line).runes
		e.lines.patch(start.Line, string(runes[:start.Pos])+string(runes[end.Pos:]), e.shaper)
		e.text = text
		e.updateTextSize()
		e.changed()
	} else {
		e.setText(text)
	}
	e.caret = start
	e.selection.Clear()
}

// ProcessEvent handles focus, timer, keyboard and mouse events.
func (e *TextEdit) ProcessEvent(ev platform.Event) bool {
	switch ev.Type {
	case platform.EventFocusEnter:
		e.focused = true
		e.startBlink()
		return true
	case platform.EventFocusLeave:
		e.focused = false
		e.blink.Stop()
		e.drawCaret = false
		e.capture.Release(e)
		e.dragStart.Clear()
		return true
	case platform.EventTimer:
		if !e.focused || ev.TimerID != e.blink.ID() {
			return false
		}
		e.drawCaret = !e.drawCaret
		return true
	case platform.EventKeyDown:
		if !e.focused {
			return false
		}
		e.stopBlink()
		used := e.onKeyDown(ev)
		if used {
			e.ensureCaretVisible()
		}
		e.startBlink()
		return used
	case platform.EventMouseDown:
		if ev.Button != platform.ButtonLeft {
			return false
		}
		return e.onMouseDown(ev)
	case platform.EventMouseMove:
		if e.capture.HeldBy(e) && e.dragTo(ev.Pos) {
			e.ensureCaretVisible()
			return true
		}
	case platform.EventMouseUp:
		if !e.capture.HeldBy(e) {
			return false
		}
		e.capture.Release(e)
		if ev.ShiftPressed() && e.dragStart.IsValid() {
			e.selection = NewSelection(e.dragStart, e.caret)
		}
		e.dragStart.Clear()
		e.startBlink()
		return true
	case platform.EventDoubleClick:
		return e.onDoubleClick(ev)
	case platform.EventMouseWheel:
		return e.onWheel(ev)
	}
	return false
}

func (e *TextEdit) startBlink() {
	if !e.focused {
		return
	}
	e.drawCaret = true
	e.blink.Start()
}

func (e *TextEdit) stopBlink() {
	e.blink.Stop()
	e.drawCaret = true
}

func (e *TextEdit) onKeyDown(ev platform.Event) bool {
	byWord := ev.CtrlPressed() || ev.AltPressed()
	prev := e.caret
	anchor := e.selectionAnchor(prev)

	switch ev.Key {
	case platform.KeyLeft:
		e.caret.Left(byWord)
	case platform.KeyRight:
		e.caret.Right(byWord)
	case platform.KeyUp:
		e.caret.Up()
	case platform.KeyDown:
		e.caret.Down()
	case platform.KeyHome:
		e.caret.Pos = 0
	case platform.KeyEnd:
		e.caret.Pos = e.caret.lineLen()
	case platform.KeyEnter:
		e.deleteSelection()
		e.insertText("\n")
		return true
	case platform.KeyBackspace, platform.KeyDelete:
		if !e.selection.Active() {
			span := e.caret
			moved := false
			if ev.Key == platform.KeyBackspace {
				moved = span.Left(false)
			} else {
				moved = span.Right(false)
			}
			if !moved {
				return true
			}
			e.selection = NewSelection(e.caret, span)
		}
		e.deleteSelection()
		return true
	default:
		return e.onCharacter(ev)
	}

	if ev.ShiftPressed() {
		e.selection = NewSelection(anchor, e.caret)
	} else {
		e.selection.Clear()
	}
	return true
}

// selectionAnchor returns the fixed end of the selection the caret at prev is
// extending, or prev itself when nothing is selected.
func (e *TextEdit) selectionAnchor(prev Caret) Caret {
	if !e.selection.Active() {
		return prev
	}
	if e.selection.Start.Equal(prev) {
		return e.selection.End
	}
	return e.selection.Start
}

func (e *TextEdit) onCharacter(ev platform.Event) bool {
	shortcut := ev.CtrlPressed() || ev.CmdPressed()
	if ev.Rune >= 32 && ev.Rune != 127 && !shortcut {
		e.deleteSelection()
		e.insertCharacter(ev.Rune)
		if ev.DeadKey {
			pending := e.caret
			pending.Pos--
			e.selection = NewSelection(pending, e.caret)
		}
		return true
	}
	if ev.Key >= platform.KeyFirstModifier {
		return true
	}
	if !ev.OnlyShortcutPressed() {
		return false
	}
	switch ev.Key {
	case platform.KeyX:
		e.Cut()
	case platform.KeyC:
		e.Copy()
	case platform.KeyV:
		e.Paste()
	case platform.KeyA:
		e.SelectAll()
	default:
		return false
	}
	return true
}

func (e *TextEdit) onMouseDown(ev platform.Event) bool {
	if owner := e.capture.Owner(); owner != nil && owner != platform.Handler(e) {
		return false
	}
	if ev.ShiftPressed() {
		if e.selection.Active() {
			e.dragStart = e.selectionAnchor(e.caret)
		} else {
			e.dragStart = e.caret
		}
	} else {
		e.dragStart.Clear()
		if !e.capture.HeldBy(e) {
			e.selection.Clear()
		}
	}
	e.capture.Acquire(e)
	e.stopBlink()
	e.dragTo(ev.Pos)
	e.ensureCaretVisible()
	return true
}

// dragTo moves the caret under p and grows the selection from the drag
// origin.
func (e *TextEdit) dragTo(p geom.Point) bool {
	c := e.CaretFromPosition(p)
	if !c.IsValid() {
		return false
	}
	e.caret = c
	if !e.dragStart.IsValid() {
		e.dragStart = c
		return true
	}
	e.selection = NewSelection(e.dragStart, e.caret)
	return true
}

func (e *TextEdit) onDoubleClick(ev platform.Event) bool {
	c := e.CaretFromPosition(ev.Pos)
	if !c.IsValid() {
		return false
	}
	r := e.lines.At(c.Line).runes
	from, to := c.Pos, c.Pos
	for from > 0 && isWordChar(r[from-1]) {
		from--
	}
	for to < len(r) && isWordChar(r[to]) {
		to++
	}
	if from == to && to < len(r) {
		to++
	}
	left, right := NewCaret(e.lines, c.Line, from), NewCaret(e.lines, c.Line, to)
	e.selection = NewSelection(left, right)
	e.caret = e.selection.End
	e.dragStart = left
	e.capture.Acquire(e)
	e.stopBlink()
	return true
}

func (e *TextEdit) onWheel(ev platform.Event) bool {
	if !e.visible {
		return false
	}
	delta := ev.Wheel
	if !ev.PreciseWheel {
		delta = delta.Mul(e.shaper.LineHeight())
	}
	e.scroll = e.scroll.Add(delta)
	e.clampScroll()
	return true
}

// CaretFromPosition maps a window point to a caret. Points above the viewport
// map to the start of the text and points below it to the end. The result is
// invalid when there is no viewport or the point is beside it.
func (e *TextEdit) CaretFromPosition(p geom.Point) Caret {
	vp := e.viewport()
	if vp.IsEmpty() || e.lines.Len() == 0 {
		return Caret{}
	}
	if !vp.Contains(p) {
		switch {
		case p.Y < vp.Y:
			return NewCaret(e.lines, 0, 0)
		case p.Y >= vp.Y2():
			return e.endCaret()
		}
		return Caret{}
	}
	off := p.Sub(vp.Origin()).Add(e.scroll)
	y := 0
	for i := 0; i < e.lines.Len(); i++ {
		line := e.lines.At(i)
		if off.Y < y+line.Height {
			return NewCaret(e.lines, i, line.posAtX(off.X))
		}
		y += line.Height
	}
	return e.endCaret()
}

func (e *TextEdit) viewport() geom.Rect { return e.bounds.Shrink(e.border) }

// ensureCaretVisible scrolls the viewport so the caret line and column are
// shown.
func (e *TextEdit) ensureCaretVisible() {
	vp := e.viewport()
	if vp.IsEmpty() || !e.caret.IsValid() {
		return
	}
	top := 0
	for i := 0; i < e.caret.Line; i++ {
		top += e.lines.At(i).Height
	}
	line := e.caret.line()
	bottom := top + line.Height
	if top < e.scroll.Y {
		e.scroll.Y = top
	} else if bottom > e.scroll.Y+vp.H {
		e.scroll.Y = bottom - vp.H
	}
	x := 0
	if line.Blob != nil {
		x = line.Blob.Advance(e.caret.Pos)
	}
	if x < e.scroll.X {
		e.scroll.X = x
	} else if x+caretWidth > e.scroll.X+vp.W {
		e.scroll.X = x + caretWidth - vp.W
	}
	e.clampScroll()
}

func (e *TextEdit) clampScroll() {
	vp := e.viewport()
	maxX := max(e.textSize.W+caretWidth-vp.W, 0)
	maxY := max(e.textSize.H-vp.H, 0)
	e.scroll.X = min(max(e.scroll.X, 0), maxX)
	e.scroll.Y = min(max(e.scroll.Y, 0), maxY)
}

func (e *TextEdit) Bounds() geom.Rect { return e.bounds }

func (e *TextEdit) SetBounds(r geom.Rect) {
	e.bounds = r
	e.clampScroll()
}

func (e *TextEdit) Visible() bool { return e.visible }

func (e *TextEdit) SetVisible(v bool) { e.visible = v }

// SizeHint is the text extent plus the border.
func (e *TextEdit) SizeHint() geom.Size {
	return geom.Sz(e.textSize.W+caretWidth+2*e.border, max(e.textSize.H, e.shaper.LineHeight())+2*e.border)
}

// Close stops the blink timer, drops any capture and invalidates carets.
func (e *TextEdit) Close() {
	e.sched.Remove(e.blink)
	e.capture.Release(e)
	e.lines.destroy()
	e.caret.Clear()
	e.selection.Clear()
	e.dragStart.Clear()
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// runeSplice replaces the characters [from, to) of s with insert.
func runeSplice(s string, from, to int, insert string) string {
	a, b := byteOffset(s, from), byteOffset(s, to)
	return s[:a] + insert + s[b:]
}

func runeSlice(s string, from, to int) string {
	return s[byteOffset(s, from):byteOffset(s, to)]
}

func byteOffset(s string, n int) int {
	if n <= 0 {
		return 0
	}
	i := 0
	for off := range s {
		if i == n {
			return off
		}
		i++
	}
	return len(s)
}
