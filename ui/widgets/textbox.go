package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/quadrille-tui/quadrille/theme"
	"github.com/quadrille-tui/quadrille/ui"
)

// TextBox is a single-line text editor. Arrow keys, Home and End move the
// cursor, Backspace and Delete edit, and Enter fires OnSubmit with the
// current text. Long content scrolls horizontally to keep the cursor in
// view.
type TextBox struct {
	ui.BaseWidget
	OnSubmit func(text string)
	OnChange func(text string)

	runes  []rune
	cursor int
	scroll int

	fg, bg             ui.Color
	focusFg, focusBg   ui.Color
	cursorFg, cursorBg ui.Color
}

// NewTextBox creates an empty text box at the given bounds.
func NewTextBox(r ui.Rect) *TextBox {
	tm := theme.Get()
	return &TextBox{
		BaseWidget: ui.NewBaseWidget(r),
		fg:         tm.GetColor("fg", ui.White),
		bg:         tm.GetColor("bg", ui.Transparent),
		focusFg:    tm.GetColor("fg", ui.White),
		focusBg:    tm.GetColor("border", ui.Gray),
		cursorFg:   tm.GetColor("focus_fg", ui.Black),
		cursorBg:   tm.GetColor("focus_bg", ui.Silver),
	}
}

// Text returns the current content.
func (t *TextBox) Text() string {
	return string(t.runes)
}

// SetText replaces the content and moves the cursor to the end.
func (t *TextBox) SetText(text string) {
	t.runes = []rune(text)
	t.cursor = len(t.runes)
	t.scroll = 0
}

func (t *TextBox) Render(s ui.Sink) {
	r := t.Bounds()
	if r.W <= 0 {
		return
	}
	t.scrollToCursor(r.W)

	bg := t.bg
	if t.Focused() {
		bg = t.focusBg
	}

	end := t.scroll
	col := 0
	for end < len(t.runes) && col+runewidth.RuneWidth(t.runes[end]) <= r.W {
		col += runewidth.RuneWidth(t.runes[end])
		end++
	}
	visible := t.runes[t.scroll:end]

	s.SetCursorPosition(r.X, r.Y)
	if !t.Focused() {
		s.Write(padLine(string(visible), r.W), t.fg, bg)
		return
	}

	// Focused: draw the cursor cell in inverse.
	cur := t.cursor - t.scroll
	before := string(visible[:min(cur, len(visible))])
	s.Write(before, t.fg, bg)

	cursorCell := " "
	after := ""
	if cur < len(visible) {
		cursorCell = string(visible[cur])
		after = string(visible[cur+1:])
	}
	s.Write(cursorCell, t.cursorFg, t.cursorBg)

	used := runewidth.StringWidth(before) + runewidth.StringWidth(cursorCell)
	s.Write(padLine(after, r.W-used), t.fg, bg)
}

func (t *TextBox) HandleKey(ev ui.KeyEvent) bool {
	switch ev.Key {
	case ui.KeyRune, ui.KeySpace:
		if ev.Rune == 0 {
			return false
		}
		t.runes = append(t.runes[:t.cursor], append([]rune{ev.Rune}, t.runes[t.cursor:]...)...)
		t.cursor++
		t.changed()
		return true
	case ui.KeyBackspace:
		if t.cursor == 0 {
			return true
		}
		t.runes = append(t.runes[:t.cursor-1], t.runes[t.cursor:]...)
		t.cursor--
		t.changed()
		return true
	case ui.KeyDelete:
		if t.cursor >= len(t.runes) {
			return true
		}
		t.runes = append(t.runes[:t.cursor], t.runes[t.cursor+1:]...)
		t.changed()
		return true
	case ui.KeyLeft:
		if t.cursor > 0 {
			t.cursor--
		}
		return true
	case ui.KeyRight:
		if t.cursor < len(t.runes) {
			t.cursor++
		}
		return true
	case ui.KeyHome:
		t.cursor = 0
		return true
	case ui.KeyEnd:
		t.cursor = len(t.runes)
		return true
	case ui.KeyEnter:
		if t.OnSubmit != nil {
			t.OnSubmit(t.Text())
		}
		return true
	}
	return false
}

// HandleClick places the cursor at the clicked column.
func (t *TextBox) HandleClick(x, y int) {
	r := t.Bounds()
	col := x - r.X
	pos := t.scroll
	w := 0
	for pos < len(t.runes) && w < col {
		w += runewidth.RuneWidth(t.runes[pos])
		pos++
	}
	t.cursor = pos
}

func (t *TextBox) changed() {
	if t.OnChange != nil {
		t.OnChange(t.Text())
	}
}

// scrollToCursor adjusts the horizontal scroll so the cursor stays inside
// the visible window.
func (t *TextBox) scrollToCursor(width int) {
	if t.cursor < t.scroll {
		t.scroll = t.cursor
		return
	}
	for runewidth.StringWidth(string(t.runes[t.scroll:t.cursor])) >= width && t.scroll < t.cursor {
		t.scroll++
	}
}
