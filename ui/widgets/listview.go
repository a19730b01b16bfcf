package widgets

import (
	"github.com/quadrille-tui/quadrille/theme"
	"github.com/quadrille-tui/quadrille/ui"
)

// ListView shows a scrollable list of items with a selection bar. Arrow
// keys and paging keys move the selection, the mouse wheel scrolls the
// viewport without moving it, and a click selects the row under the
// pointer.
type ListView struct {
	ui.BaseWidget
	OnSelect func(index int, item string)

	items    []string
	selected int
	offset   int

	fg, bg             ui.Color
	selectFg, selectBg ui.Color
}

// NewListView creates a list at the given bounds.
func NewListView(r ui.Rect, items []string) *ListView {
	tm := theme.Get()
	return &ListView{
		BaseWidget: ui.NewBaseWidget(r),
		items:      items,
		fg:         tm.GetColor("fg", ui.White),
		bg:         tm.GetColor("bg", ui.Transparent),
		selectFg:   tm.GetColor("focus_fg", ui.Black),
		selectBg:   tm.GetColor("focus_bg", ui.Silver),
	}
}

// SetItems replaces the list contents and clamps selection and scroll.
func (l *ListView) SetItems(items []string) {
	l.items = items
	if l.selected >= len(items) {
		l.selected = len(items) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
	l.clampOffset()
}

// Selected returns the selected index, or -1 for an empty list.
func (l *ListView) Selected() int {
	if len(l.items) == 0 {
		return -1
	}
	return l.selected
}

func (l *ListView) Render(s ui.Sink) {
	r := l.Bounds()
	for row := 0; row < r.H; row++ {
		idx := l.offset + row
		text := ""
		fg, bg := l.fg, l.bg
		if idx < len(l.items) {
			text = l.items[idx]
			if idx == l.selected {
				fg, bg = l.selectFg, l.selectBg
			}
		}
		s.SetCursorPosition(r.X, r.Y+row)
		s.Write(padLine(text, r.W), fg, bg)
	}
}

func (l *ListView) HandleKey(ev ui.KeyEvent) bool {
	if len(l.items) == 0 {
		return false
	}
	switch ev.Key {
	case ui.KeyUp:
		l.moveSelection(-1)
	case ui.KeyDown:
		l.moveSelection(1)
	case ui.KeyPageUp:
		l.moveSelection(-l.Bounds().H)
	case ui.KeyPageDown:
		l.moveSelection(l.Bounds().H)
	case ui.KeyHome:
		l.selected = 0
		l.scrollToSelection()
	case ui.KeyEnd:
		l.selected = len(l.items) - 1
		l.scrollToSelection()
	case ui.KeyEnter:
		l.fireSelect()
	default:
		return false
	}
	return true
}

// HandleClick selects the row under the pointer and fires OnSelect.
func (l *ListView) HandleClick(x, y int) {
	idx := l.offset + (y - l.Bounds().Y)
	if idx < 0 || idx >= len(l.items) {
		return
	}
	l.selected = idx
	l.fireSelect()
}

// HandleScroll moves the viewport without changing the selection. It
// reports whether the offset actually moved.
func (l *ListView) HandleScroll(delta int) bool {
	prev := l.offset
	l.offset += delta
	l.clampOffset()
	return l.offset != prev
}

func (l *ListView) moveSelection(delta int) {
	l.selected += delta
	if l.selected < 0 {
		l.selected = 0
	}
	if l.selected >= len(l.items) {
		l.selected = len(l.items) - 1
	}
	l.scrollToSelection()
}

func (l *ListView) scrollToSelection() {
	h := l.Bounds().H
	if l.selected < l.offset {
		l.offset = l.selected
	}
	if h > 0 && l.selected >= l.offset+h {
		l.offset = l.selected - h + 1
	}
}

func (l *ListView) clampOffset() {
	maxOffset := len(l.items) - l.Bounds().H
	if maxOffset < 0 {
		maxOffset = 0
	}
	if l.offset > maxOffset {
		l.offset = maxOffset
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

func (l *ListView) fireSelect() {
	if l.OnSelect != nil && l.selected >= 0 && l.selected < len(l.items) {
		l.OnSelect(l.selected, l.items[l.selected])
	}
}
