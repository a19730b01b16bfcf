// Copyright © 2026 Quadrille contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/driver_tcell.go
// Summary: Adapts a tcell.Screen to the ui sink and input source interfaces.

package term

import (
	"log"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/quadrille-tui/quadrille/ui"
)

// TcellDriver renders through a tcell.Screen instead of the raw batcher.
// It is the portability fallback: tcell owns cell diffing, terminfo and
// event decoding, so Flush maps to Show and the batcher is bypassed
// entirely.
type TcellDriver struct {
	screen tcell.Screen

	curX, curY int

	eventsMu sync.Mutex
	events   []ui.Event
	stopped  bool
}

// NewTcellDriver initializes the screen and starts its event pump. The
// caller must call Dispose to release the terminal.
func NewTcellDriver() (*TcellDriver, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.HideCursor()

	d := &TcellDriver{screen: screen}
	go d.pump()
	return d, nil
}

func (d *TcellDriver) Width() int {
	w, _ := d.screen.Size()
	return w
}

func (d *TcellDriver) Height() int {
	_, h := d.screen.Size()
	return h
}

func (d *TcellDriver) SetCursorPosition(x, y int) {
	d.curX, d.curY = x, y
}

// Write places text cell by cell from the tracked cursor position. Wide
// runes advance the cursor by their display width, matching what the raw
// terminal would do.
func (d *TcellDriver) Write(text string, fg, bg ui.Color) {
	style := tcell.StyleDefault.Foreground(toTcellColor(fg))
	if bg.IsTransparent() {
		style = style.Background(tcell.ColorDefault)
	} else {
		style = style.Background(toTcellColor(bg))
	}
	for _, r := range text {
		d.screen.SetContent(d.curX, d.curY, r, nil, style)
		d.curX += runewidth.RuneWidth(r)
	}
}

// toTcellColor converts an RGB ui.Color to a tcell color. Transparent
// sentinels are handled by the caller before conversion.
func toTcellColor(c ui.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (d *TcellDriver) Flush() {
	d.screen.Show()
}

func (d *TcellDriver) Clear() {
	d.screen.Clear()
}

func (d *TcellDriver) Dispose() {
	d.eventsMu.Lock()
	if d.stopped {
		d.eventsMu.Unlock()
		return
	}
	d.stopped = true
	d.eventsMu.Unlock()
	d.screen.Fini()
}

func (d *TcellDriver) HasInput() bool {
	d.eventsMu.Lock()
	defer d.eventsMu.Unlock()
	return len(d.events) > 0
}

func (d *TcellDriver) ReadEvent() ui.Event {
	d.eventsMu.Lock()
	defer d.eventsMu.Unlock()
	if len(d.events) == 0 {
		return ui.Event{Type: ui.EventNone}
	}
	ev := d.events[0]
	d.events = d.events[1:]
	return ev
}

// pump translates tcell events into ui events until the screen is
// finalized.
func (d *TcellDriver) pump() {
	defer func() {
		if r := recover(); r != nil {
			// Fini races PollEvent on shutdown; a panic here means the
			// screen is gone and the pump is done.
			log.Printf("Term: tcell event pump stopped: %v", r)
		}
	}()
	for {
		ev := d.screen.PollEvent()
		if ev == nil {
			return
		}
		if ue, ok := translateTcellEvent(ev); ok {
			d.eventsMu.Lock()
			if d.stopped {
				d.eventsMu.Unlock()
				return
			}
			if len(d.events) < eventQueueSize {
				d.events = append(d.events, ue)
			}
			d.eventsMu.Unlock()
		}
	}
}

func translateTcellEvent(ev tcell.Event) (ui.Event, bool) {
	switch tev := ev.(type) {
	case *tcell.EventKey:
		return translateTcellKey(tev), true
	case *tcell.EventMouse:
		x, y := tev.Position()
		switch {
		case tev.Buttons()&tcell.WheelUp != 0:
			return ui.Event{Type: ui.EventMouse, MouseX: x, MouseY: y, ScrollDelta: -1}, true
		case tev.Buttons()&tcell.WheelDown != 0:
			return ui.Event{Type: ui.EventMouse, MouseX: x, MouseY: y, ScrollDelta: 1}, true
		case tev.Buttons()&tcell.Button1 != 0:
			return ui.Event{Type: ui.EventMouse, MouseX: x, MouseY: y, Click: true}, true
		}
		return ui.Event{Type: ui.EventOther}, true
	case *tcell.EventResize:
		// The application polls size each frame; nothing to queue.
		return ui.Event{}, false
	}
	return ui.Event{Type: ui.EventOther}, true
}

func translateTcellKey(ev *tcell.EventKey) ui.Event {
	var mods ui.Modifier
	if ev.Modifiers()&tcell.ModShift != 0 {
		mods |= ui.ModShift
	}
	if ev.Modifiers()&tcell.ModAlt != 0 {
		mods |= ui.ModAlt
	}
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		mods |= ui.ModCtrl
	}

	out := ui.Event{Type: ui.EventKey, Modifiers: mods}
	switch ev.Key() {
	case tcell.KeyRune:
		out.Key = ui.KeyRune
		out.Rune = ev.Rune()
		if out.Rune == ' ' {
			out.Key = ui.KeySpace
		}
	case tcell.KeyEscape:
		out.Key = ui.KeyEscape
	case tcell.KeyEnter:
		out.Key = ui.KeyEnter
	case tcell.KeyTab:
		out.Key = ui.KeyTab
	case tcell.KeyBacktab:
		out.Key = ui.KeyBacktab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		out.Key = ui.KeyBackspace
	case tcell.KeyDelete:
		out.Key = ui.KeyDelete
	case tcell.KeyUp:
		out.Key = ui.KeyUp
	case tcell.KeyDown:
		out.Key = ui.KeyDown
	case tcell.KeyLeft:
		out.Key = ui.KeyLeft
	case tcell.KeyRight:
		out.Key = ui.KeyRight
	case tcell.KeyHome:
		out.Key = ui.KeyHome
	case tcell.KeyEnd:
		out.Key = ui.KeyEnd
	case tcell.KeyPgUp:
		out.Key = ui.KeyPageUp
	case tcell.KeyPgDn:
		out.Key = ui.KeyPageDown
	case tcell.KeyF1, tcell.KeyF2, tcell.KeyF3, tcell.KeyF4, tcell.KeyF5, tcell.KeyF6,
		tcell.KeyF7, tcell.KeyF8, tcell.KeyF9, tcell.KeyF10, tcell.KeyF11, tcell.KeyF12:
		out.Key = ui.KeyF1 + ui.Key(ev.Key()-tcell.KeyF1)
	default:
		out.Type = ui.EventOther
	}
	return out
}
