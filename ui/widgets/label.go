package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/quadrille-tui/quadrille/theme"
	"github.com/quadrille-tui/quadrille/ui"
)

// Label is a static single-line text widget. It does not take focus and
// ignores input.
type Label struct {
	ui.BaseWidget
	Text string
	Fg   ui.Color
	Bg   ui.Color
}

// NewLabel creates a label at the given bounds with theme colors.
func NewLabel(r ui.Rect, text string) *Label {
	tm := theme.Get()
	return &Label{
		BaseWidget: ui.NewBaseWidget(r),
		Text:       text,
		Fg:         tm.GetColor("fg", ui.White),
		Bg:         tm.GetColor("bg", ui.Transparent),
	}
}

func (l *Label) Render(s ui.Sink) {
	r := l.Bounds()
	s.SetCursorPosition(r.X, r.Y)
	s.Write(padLine(l.Text, r.W), l.Fg, l.Bg)
}

// padLine clips text to width cells and pads the remainder with spaces so a
// redraw fully covers the previous content.
func padLine(text string, width int) string {
	if width <= 0 {
		return ""
	}
	clipped := runewidth.Truncate(text, width, "")
	return clipped + spaces(width-runewidth.StringWidth(clipped))
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
