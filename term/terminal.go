// Copyright © 2026 Quadrille contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/terminal.go
// Summary: Raw-mode terminal implementing the ui sink and input source.

package term

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/quadrille-tui/quadrille/ui"
)

const (
	// eventQueueSize bounds buffered input; the reader drops events past it
	// rather than block the tty read loop.
	eventQueueSize = 256

	// escSettle is how long the reader waits for continuation bytes before
	// treating a lone ESC as the escape key.
	escSettle = 50 * time.Millisecond

	// readTick bounds how long a quiet read blocks, so the read loop checks
	// the done channel at least this often and exits promptly on Dispose.
	readTick = 250 * time.Millisecond
)

// Options controls terminal setup.
type Options struct {
	// Mouse enables SGR mouse reporting.
	Mouse bool
	// AltScreen switches to the alternate screen buffer for the session.
	AltScreen bool
}

// Terminal drives a raw-mode tty. It satisfies both ui.Sink and
// ui.InputSource: output goes through a coalescing batcher, input is parsed
// on a background goroutine into a buffered event queue.
type Terminal struct {
	tty      *os.File
	in       *os.File
	batcher  *Batcher
	oldState *term.State
	opts     Options

	sizeMu sync.Mutex
	width  int
	height int

	events chan ui.Event
	done   chan struct{}
	winch  chan os.Signal

	disposeOnce sync.Once
}

// pollable puts fd into non-blocking mode and re-wraps it so the runtime
// poller handles it and read deadlines work. Falls back to the original
// file when the fd refuses non-blocking mode.
func pollable(f *os.File, name string) *os.File {
	fd := int(f.Fd())
	if err := syscall.SetNonblock(fd, true); err != nil {
		return f
	}
	return os.NewFile(uintptr(fd), name)
}

// Open puts the controlling terminal into raw mode and returns a Terminal
// ready for rendering. The caller must arrange for Dispose to run, even on
// panic, or the tty is left unusable.
func Open(opts Options) (*Terminal, error) {
	tty := os.Stdout
	in := pollable(os.Stdin, "stdin")

	oldState, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil, fmt.Errorf("term: entering raw mode: %w", err)
	}

	t := &Terminal{
		tty:      tty,
		in:       in,
		batcher:  NewBatcher(tty),
		oldState: oldState,
		opts:     opts,
		events:   make(chan ui.Event, eventQueueSize),
		done:     make(chan struct{}),
		winch:    make(chan os.Signal, 1),
	}
	t.refreshSize()

	if opts.AltScreen {
		t.batcher.WriteControl(csiAltScreenEnter)
	}
	t.batcher.WriteControl(csiClear)
	t.batcher.WriteControl(csiHome)
	t.batcher.WriteControl(csiCursorHide)
	if opts.Mouse {
		t.batcher.WriteControl(csiMouseEnable)
	}
	t.batcher.Flush()

	signal.Notify(t.winch, syscall.SIGWINCH)
	go t.watchResize()
	go t.readLoop()

	return t, nil
}

// Width returns the current terminal width in cells.
func (t *Terminal) Width() int {
	t.sizeMu.Lock()
	defer t.sizeMu.Unlock()
	return t.width
}

// Height returns the current terminal height in cells.
func (t *Terminal) Height() int {
	t.sizeMu.Lock()
	defer t.sizeMu.Unlock()
	return t.height
}

func (t *Terminal) refreshSize() {
	w, h, err := term.GetSize(int(t.tty.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		w, h = 80, 24
	}
	t.sizeMu.Lock()
	t.width, t.height = w, h
	t.sizeMu.Unlock()
}

func (t *Terminal) watchResize() {
	for {
		select {
		case <-t.done:
			return
		case <-t.winch:
			t.refreshSize()
		}
	}
}

// SetCursorPosition moves the cursor; redundant moves are coalesced away.
func (t *Terminal) SetCursorPosition(x, y int) {
	t.batcher.SetCursorPosition(x, y)
}

// Write emits text in the given colors at the current cursor position.
func (t *Terminal) Write(text string, fg, bg ui.Color) {
	t.batcher.SetForegroundColor(fg)
	t.batcher.SetBackgroundColor(bg)
	t.batcher.Write(text)
}

// Flush pushes all batched output to the tty in a single write.
func (t *Terminal) Flush() {
	t.batcher.Flush()
}

// Clear erases the screen and resets the batcher's cached state, since the
// erase invalidates whatever the terminal was last told.
func (t *Terminal) Clear() {
	t.batcher.WriteControl(csiClear)
	t.batcher.WriteControl(csiHome)
	t.batcher.Invalidate()
}

// Dispose restores the tty to its cooked state. Safe to call more than once.
func (t *Terminal) Dispose() {
	t.disposeOnce.Do(func() {
		close(t.done)
		// Wake a read blocked on the tty so the loop sees the close now
		// instead of at the next tick.
		t.in.SetReadDeadline(time.Now())
		signal.Stop(t.winch)

		t.batcher.WriteControl(csiReset)
		if t.opts.Mouse {
			t.batcher.WriteControl(csiMouseDisable)
		}
		t.batcher.WriteControl(csiCursorShow)
		if t.opts.AltScreen {
			t.batcher.WriteControl(csiAltScreenExit)
		}
		t.batcher.Flush()

		if err := term.Restore(int(t.in.Fd()), t.oldState); err != nil {
			log.Printf("Term: restoring terminal state: %v", err)
		}
	})
}

// HasInput reports whether an event is queued, without blocking.
func (t *Terminal) HasInput() bool {
	return len(t.events) > 0
}

// ReadEvent pops the next queued event, or returns a none event when the
// queue is empty.
func (t *Terminal) ReadEvent() ui.Event {
	select {
	case ev := <-t.events:
		return ev
	default:
		return ui.Event{Type: ui.EventNone}
	}
}

// readLoop reads raw bytes from stdin and feeds the parser. A lone ESC is
// held briefly: if no continuation bytes arrive within escSettle it is
// delivered as the escape key rather than swallowed as a sequence prefix.
func (t *Terminal) readLoop() {
	var p parser
	buf := make([]byte, 512)
	for {
		select {
		case <-t.done:
			return
		default:
		}

		if p.escPending() {
			t.in.SetReadDeadline(time.Now().Add(escSettle))
		} else {
			t.in.SetReadDeadline(time.Now().Add(readTick))
		}

		n, err := t.in.Read(buf)
		if n > 0 {
			for _, ev := range p.feed(buf[:n]) {
				t.deliver(ev)
			}
			continue
		}
		if err != nil {
			if os.IsTimeout(err) {
				if ev, ok := p.flushEsc(); ok {
					t.deliver(ev)
				}
				continue
			}
			select {
			case <-t.done:
			default:
				log.Printf("Term: input read failed: %v", err)
			}
			return
		}
	}
}

func (t *Terminal) deliver(ev ui.Event) {
	select {
	case t.events <- ev:
	default:
		// Queue full; drop rather than stall the reader.
	}
}
