// Copyright © 2026 Quadrille contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/input.go
// Summary: Parses the raw tty byte stream into key and mouse events.

package term

import (
	"unicode/utf8"

	"github.com/quadrille-tui/quadrille/ui"
)

// parser assembles escape sequences and UTF-8 runes from raw reads. The
// buffer persists across feeds so a sequence split between two reads is not
// corrupted.
type parser struct {
	buf []byte
}

// feed appends data and returns every complete event parsed from the
// accumulated bytes. An ESC with no continuation stays buffered; the caller
// resolves it via escPending after a read timeout.
func (p *parser) feed(data []byte) []ui.Event {
	p.buf = append(p.buf, data...)
	var events []ui.Event
	for len(p.buf) > 0 {
		ev, n := p.parseOne(p.buf)
		if n == 0 {
			break // incomplete, wait for more bytes
		}
		p.buf = p.buf[n:]
		if ev.Type != ui.EventNone {
			events = append(events, ev)
		}
	}
	if len(p.buf) == 0 {
		p.buf = nil
	}
	return events
}

// escPending reports whether the buffer holds a bare ESC awaiting
// disambiguation.
func (p *parser) escPending() bool {
	return len(p.buf) == 1 && p.buf[0] == 0x1b
}

// flushEsc resolves a pending bare ESC into an escape-key event.
func (p *parser) flushEsc() (ui.Event, bool) {
	if !p.escPending() {
		return ui.Event{}, false
	}
	p.buf = nil
	return ui.Event{Type: ui.EventKey, Key: ui.KeyEscape}, true
}

// parseOne parses a single event from the front of b, returning the event
// and the bytes consumed. n == 0 means incomplete input.
func (p *parser) parseOne(b []byte) (ui.Event, int) {
	if b[0] == 0x1b {
		return p.parseEscape(b)
	}
	return p.parseByte(b)
}

func (p *parser) parseByte(b []byte) (ui.Event, int) {
	c := b[0]
	switch {
	case c == '\r' || c == '\n':
		return ui.Event{Type: ui.EventKey, Key: ui.KeyEnter}, 1
	case c == '\t':
		return ui.Event{Type: ui.EventKey, Key: ui.KeyTab}, 1
	case c == 0x7f || c == 0x08:
		return ui.Event{Type: ui.EventKey, Key: ui.KeyBackspace}, 1
	case c == ' ':
		return ui.Event{Type: ui.EventKey, Key: ui.KeySpace, Rune: ' '}, 1
	case c < 0x20:
		// Ctrl+letter; Ctrl-C and friends arrive here in raw mode.
		return ui.Event{
			Type:      ui.EventKey,
			Key:       ui.KeyRune,
			Rune:      rune('a' + c - 1),
			Modifiers: ui.ModCtrl,
		}, 1
	}

	if !utf8.FullRune(b) {
		return ui.Event{}, 0
	}
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size == 1 {
		// Drop the invalid byte.
		return ui.Event{Type: ui.EventNone}, 1
	}
	return ui.Event{Type: ui.EventKey, Key: ui.KeyRune, Rune: r}, size
}

func (p *parser) parseEscape(b []byte) (ui.Event, int) {
	if len(b) == 1 {
		return ui.Event{}, 0 // bare ESC or sequence start, wait
	}

	switch b[1] {
	case '[':
		return p.parseCSI(b)
	case 'O':
		return p.parseSS3(b)
	default:
		// Alt+key: ESC prefix on a regular byte.
		ev, n := p.parseByte(b[1:])
		if n == 0 {
			return ui.Event{}, 0
		}
		ev.Modifiers |= ui.ModAlt
		return ev, n + 1
	}
}

// parseCSI handles ESC [ sequences: navigation keys, function keys, and SGR
// mouse reports.
func (p *parser) parseCSI(b []byte) (ui.Event, int) {
	// Find the final byte (0x40–0x7e).
	end := -1
	for i := 2; i < len(b); i++ {
		if b[i] >= 0x40 && b[i] <= 0x7e {
			end = i
			break
		}
	}
	if end < 0 {
		if len(b) > 32 {
			// Malformed runaway sequence; drop the ESC and resync.
			return ui.Event{Type: ui.EventNone}, 1
		}
		return ui.Event{}, 0
	}
	final := b[end]
	params := b[2:end]
	consumed := end + 1

	if final == 'M' || final == 'm' {
		if len(params) > 0 && params[0] == '<' {
			return parseSGRMouse(params[1:], final == 'M'), consumed
		}
		return ui.Event{Type: ui.EventOther}, consumed
	}

	key := ui.KeyNone
	switch final {
	case 'A':
		key = ui.KeyUp
	case 'B':
		key = ui.KeyDown
	case 'C':
		key = ui.KeyRight
	case 'D':
		key = ui.KeyLeft
	case 'H':
		key = ui.KeyHome
	case 'F':
		key = ui.KeyEnd
	case 'Z':
		key = ui.KeyBacktab
	case '~':
		key = tildeKey(atoiBytes(firstParam(params)))
	}
	if key == ui.KeyNone {
		return ui.Event{Type: ui.EventOther}, consumed
	}
	return ui.Event{Type: ui.EventKey, Key: key}, consumed
}

// parseSS3 handles ESC O sequences (application-mode arrows, F1–F4).
func (p *parser) parseSS3(b []byte) (ui.Event, int) {
	if len(b) < 3 {
		return ui.Event{}, 0
	}
	key := ui.KeyNone
	switch b[2] {
	case 'A':
		key = ui.KeyUp
	case 'B':
		key = ui.KeyDown
	case 'C':
		key = ui.KeyRight
	case 'D':
		key = ui.KeyLeft
	case 'H':
		key = ui.KeyHome
	case 'F':
		key = ui.KeyEnd
	case 'P':
		key = ui.KeyF1
	case 'Q':
		key = ui.KeyF2
	case 'R':
		key = ui.KeyF3
	case 'S':
		key = ui.KeyF4
	}
	if key == ui.KeyNone {
		return ui.Event{Type: ui.EventOther}, 3
	}
	return ui.Event{Type: ui.EventKey, Key: key}, 3
}

// parseSGRMouse decodes an SGR mouse report (button;col;row). Wheel events
// become scroll deltas, left-button presses become clicks; anything else
// (release, drag, motion) is an Other event the router drops.
func parseSGRMouse(params []byte, press bool) ui.Event {
	fields := splitParams(params)
	if len(fields) != 3 {
		return ui.Event{Type: ui.EventOther}
	}
	btn := atoiBytes(fields[0])
	x := atoiBytes(fields[1]) - 1
	y := atoiBytes(fields[2]) - 1
	if x < 0 || y < 0 {
		return ui.Event{Type: ui.EventOther}
	}

	switch {
	case btn == 64:
		return ui.Event{Type: ui.EventMouse, MouseX: x, MouseY: y, ScrollDelta: -1}
	case btn == 65:
		return ui.Event{Type: ui.EventMouse, MouseX: x, MouseY: y, ScrollDelta: 1}
	case btn&0x20 != 0:
		return ui.Event{Type: ui.EventOther} // motion/drag
	case btn&0x3 == 0 && press:
		return ui.Event{Type: ui.EventMouse, MouseX: x, MouseY: y, Click: true}
	default:
		return ui.Event{Type: ui.EventOther}
	}
}

func tildeKey(n int) ui.Key {
	switch n {
	case 1, 7:
		return ui.KeyHome
	case 3:
		return ui.KeyDelete
	case 4, 8:
		return ui.KeyEnd
	case 5:
		return ui.KeyPageUp
	case 6:
		return ui.KeyPageDown
	case 11:
		return ui.KeyF1
	case 12:
		return ui.KeyF2
	case 13:
		return ui.KeyF3
	case 14:
		return ui.KeyF4
	case 15:
		return ui.KeyF5
	case 17:
		return ui.KeyF6
	case 18:
		return ui.KeyF7
	case 19:
		return ui.KeyF8
	case 20:
		return ui.KeyF9
	case 21:
		return ui.KeyF10
	case 23:
		return ui.KeyF11
	case 24:
		return ui.KeyF12
	}
	return ui.KeyNone
}

func firstParam(params []byte) []byte {
	for i, c := range params {
		if c == ';' {
			return params[:i]
		}
	}
	return params
}

func splitParams(params []byte) [][]byte {
	var out [][]byte
	start := 0
	for i, c := range params {
		if c == ';' {
			out = append(out, params[start:i])
			start = i + 1
		}
	}
	return append(out, params[start:])
}

func atoiBytes(b []byte) int {
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return -1
		}
		n = n*10 + int(c-'0')
	}
	if len(b) == 0 {
		return -1
	}
	return n
}
