package widgets

import (
	"github.com/quadrille-tui/quadrille/theme"
	"github.com/quadrille-tui/quadrille/ui"
)

// Button is a clickable widget rendered as [ Label ]. Enter or Space presses
// it while focused; a mouse click presses it directly. Setting Shortcut makes
// it a global invoker: the key presses the button even when it is not
// focused.
type Button struct {
	ui.BaseWidget
	Label    string
	Shortcut ui.Key
	OnClick  func()

	fg, bg           ui.Color
	focusFg, focusBg ui.Color
}

// NewButton creates a button at the given bounds with theme colors.
func NewButton(r ui.Rect, label string, onClick func()) *Button {
	tm := theme.Get()
	return &Button{
		BaseWidget: ui.NewBaseWidget(r),
		Label:      label,
		OnClick:    onClick,
		fg:         tm.GetColor("fg", ui.White),
		bg:         tm.GetColor("bg", ui.Transparent),
		focusFg:    tm.GetColor("focus_fg", ui.Black),
		focusBg:    tm.GetColor("focus_bg", ui.Silver),
	}
}

func (b *Button) Render(s ui.Sink) {
	r := b.Bounds()
	fg, bg := b.fg, b.bg
	if b.Focused() {
		fg, bg = b.focusFg, b.focusBg
	}
	s.SetCursorPosition(r.X, r.Y)
	s.Write(padLine("[ "+b.Label+" ]", r.W), fg, bg)
}

func (b *Button) HandleKey(ev ui.KeyEvent) bool {
	if ev.Key == ui.KeyEnter || ev.Key == ui.KeySpace {
		b.press()
		return true
	}
	return false
}

func (b *Button) HandleClick(x, y int) {
	b.press()
}

// InvokeKey reports the button's global shortcut, or KeyNone when it has
// none.
func (b *Button) InvokeKey() ui.Key {
	return b.Shortcut
}

// Click presses the button, used by shortcut invocation.
func (b *Button) Click() {
	b.press()
}

func (b *Button) press() {
	if b.OnClick != nil {
		b.OnClick()
	}
}
