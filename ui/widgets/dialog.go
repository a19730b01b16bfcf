package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/quadrille-tui/quadrille/theme"
	"github.com/quadrille-tui/quadrille/ui"
)

// Dialog is a modal box with a title, a message, and a row of choice
// buttons. While visible it captures keyboard input before non-modal
// widgets. Left and Right move between choices, Enter picks one and hides
// the dialog.
type Dialog struct {
	ui.BaseWidget
	Title   string
	Message string
	// OnChoose receives the index of the picked choice.
	OnChoose func(choice int)

	choices []string
	active  int

	fg, bg             ui.Color
	borderFg           ui.Color
	activeFg, activeBg ui.Color
}

// NewDialog creates a hidden dialog; call SetVisible(true) to show it.
func NewDialog(r ui.Rect, title, message string, choices []string) *Dialog {
	if len(choices) == 0 {
		choices = []string{"OK"}
	}
	tm := theme.Get()
	d := &Dialog{
		BaseWidget: ui.NewBaseWidget(r),
		Title:      title,
		Message:    message,
		choices:    choices,
		fg:         tm.GetColor("fg", ui.White),
		bg:         tm.GetColor("bg", ui.Black),
		borderFg:   tm.GetColor("border", ui.Gray),
		activeFg:   tm.GetColor("focus_fg", ui.Black),
		activeBg:   tm.GetColor("focus_bg", ui.Silver),
	}
	d.SetVisible(false)
	return d
}

// Modal reports that the dialog captures input while visible.
func (d *Dialog) Modal() bool {
	return true
}

// Active returns the index of the highlighted choice.
func (d *Dialog) Active() int {
	return d.active
}

func (d *Dialog) Render(s ui.Sink) {
	r := d.Bounds()
	if r.W < 4 || r.H < 4 {
		return
	}

	title := runewidth.Truncate(" "+d.Title+" ", r.W-2, "")
	top := "┌" + title + line(r.W-2-runewidth.StringWidth(title)) + "┐"
	s.SetCursorPosition(r.X, r.Y)
	s.Write(top, d.borderFg, d.bg)

	for row := 1; row < r.H-1; row++ {
		s.SetCursorPosition(r.X, r.Y+row)
		s.Write("│", d.borderFg, d.bg)
		if row == 2 {
			s.Write(padLine(" "+d.Message, r.W-2), d.fg, d.bg)
		} else if row == r.H-2 {
			d.renderChoices(s, r.W-2)
		} else {
			s.Write(spaces(r.W-2), d.fg, d.bg)
		}
		s.Write("│", d.borderFg, d.bg)
	}

	s.SetCursorPosition(r.X, r.Y+r.H-1)
	s.Write("└"+line(r.W-2)+"┘", d.borderFg, d.bg)
}

func (d *Dialog) renderChoices(s ui.Sink, width int) {
	used := 0
	s.Write(" ", d.fg, d.bg)
	used++
	for i, c := range d.choices {
		text := "[ " + c + " ]"
		w := runewidth.StringWidth(text) + 1
		if used+w > width {
			break
		}
		if i == d.active {
			s.Write(text, d.activeFg, d.activeBg)
		} else {
			s.Write(text, d.fg, d.bg)
		}
		s.Write(" ", d.fg, d.bg)
		used += w
	}
	s.Write(spaces(width-used), d.fg, d.bg)
}

func (d *Dialog) HandleKey(ev ui.KeyEvent) bool {
	switch ev.Key {
	case ui.KeyLeft:
		if d.active > 0 {
			d.active--
		}
		return true
	case ui.KeyRight:
		if d.active < len(d.choices)-1 {
			d.active++
		}
		return true
	case ui.KeyEnter:
		d.SetVisible(false)
		if d.OnChoose != nil {
			d.OnChoose(d.active)
		}
		return true
	}
	// Swallow everything else: a visible dialog owns the keyboard.
	return true
}

func line(n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]rune, n)
	for i := range out {
		out[i] = '─'
	}
	return string(out)
}
