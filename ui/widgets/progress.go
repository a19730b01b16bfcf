package widgets

import (
	"github.com/quadrille-tui/quadrille/theme"
	"github.com/quadrille-tui/quadrille/ui"
)

// ProgressBar is a static horizontal gauge. Value runs from 0 to 1 and is
// clamped on set.
type ProgressBar struct {
	ui.BaseWidget

	value float64

	fillFg, fillBg ui.Color
	restFg, restBg ui.Color
}

// NewProgressBar creates an empty gauge at the given bounds.
func NewProgressBar(r ui.Rect) *ProgressBar {
	tm := theme.Get()
	return &ProgressBar{
		BaseWidget: ui.NewBaseWidget(r),
		fillFg:     tm.GetColor("focus_fg", ui.Black),
		fillBg:     tm.GetColor("accent", ui.Blue),
		restFg:     tm.GetColor("muted", ui.Gray),
		restBg:     tm.GetColor("bg", ui.Transparent),
	}
}

// Value returns the current fill fraction.
func (p *ProgressBar) Value() float64 {
	return p.value
}

// SetValue clamps v to [0, 1] and stores it.
func (p *ProgressBar) SetValue(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	p.value = v
}

func (p *ProgressBar) Render(s ui.Sink) {
	r := p.Bounds()
	if r.W <= 0 {
		return
	}
	filled := int(p.value * float64(r.W))
	for row := 0; row < r.H; row++ {
		s.SetCursorPosition(r.X, r.Y+row)
		if filled > 0 {
			s.Write(spaces(filled), p.fillFg, p.fillBg)
		}
		if filled < r.W {
			s.Write(spaces(r.W-filled), p.restFg, p.restBg)
		}
	}
}
