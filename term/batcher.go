// Copyright © 2026 Quadrille contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/batcher.go
// Summary: Coalescing escape-sequence batcher feeding an output writer.

package term

import (
	"bytes"
	"io"
	"log"

	"github.com/mattn/go-runewidth"

	"github.com/quadrille-tui/quadrille/ui"
)

// autoFlushThreshold bounds the in-memory frame buffer; a frame larger than
// this flushes mid-render to cap memory and latency.
const autoFlushThreshold = 16 * 1024

// Batcher accumulates a frame's output and suppresses redundant state
// changes: setting the same color or cursor position twice in a row emits
// nothing the second time. Static runs of text therefore cost no escape
// bytes beyond the first.
//
// The cursor estimate advanced by Write is best-effort (display width of the
// written text); it only serves to recognize "move to where the cursor
// already is" as a no-op, so drift is harmless.
type Batcher struct {
	w     io.Writer
	buf   bytes.Buffer
	cache *seqCache

	lastFg  ui.Color
	fgValid bool
	lastBg  ui.Color
	bgValid bool

	curX, curY int
	curValid   bool
}

// NewBatcher wraps the given writer, typically the raw tty.
func NewBatcher(w io.Writer) *Batcher {
	return &Batcher{w: w, cache: newSeqCache()}
}

// SetCursorPosition moves the cursor unless it is already there.
func (b *Batcher) SetCursorPosition(x, y int) {
	if b.curValid && x == b.curX && y == b.curY {
		return
	}
	b.buf.WriteString(b.cache.cursorSeq(x, y))
	b.curX, b.curY = x, y
	b.curValid = true
	b.maybeAutoFlush()
}

// SetForegroundColor emits an SGR sequence only when the color changes.
func (b *Batcher) SetForegroundColor(c ui.Color) {
	if b.fgValid && c == b.lastFg {
		return
	}
	b.buf.WriteString(b.cache.fgSeq(c))
	b.lastFg = c
	b.fgValid = true
	b.maybeAutoFlush()
}

// SetBackgroundColor emits an SGR sequence only when the color changes. The
// transparent sentinel resets to the terminal's default background.
func (b *Batcher) SetBackgroundColor(c ui.Color) {
	if b.bgValid && c == b.lastBg {
		return
	}
	b.buf.WriteString(b.cache.bgSeq(c))
	b.lastBg = c
	b.bgValid = true
	b.maybeAutoFlush()
}

// Write appends raw text and advances the cursor estimate by its display
// width.
func (b *Batcher) Write(text string) {
	if text == "" {
		return
	}
	b.buf.WriteString(text)
	if b.curValid {
		b.curX += runewidth.StringWidth(text)
	}
	b.maybeAutoFlush()
}

// WriteControl appends a control sequence that invalidates the cursor
// estimate (clears, mode switches).
func (b *Batcher) WriteControl(seq []byte) {
	b.buf.Write(seq)
	b.curValid = false
	b.maybeAutoFlush()
}

// Flush transmits the accumulated buffer as a single write. Color state is
// retained across flushes (the terminal keeps its SGR state), the cursor
// estimate is retained likewise.
func (b *Batcher) Flush() {
	if b.buf.Len() == 0 {
		return
	}
	if _, err := b.w.Write(b.buf.Bytes()); err != nil {
		// Transient write failures drop this frame's bytes; the next frame
		// repaints.
		log.Printf("Term: flush failed: %v", err)
		b.Invalidate()
	}
	b.buf.Reset()
}

// Pending reports the number of buffered bytes (used by tests and the
// auto-flush accounting).
func (b *Batcher) Pending() int {
	return b.buf.Len()
}

// Invalidate forgets all cached terminal state, forcing the next Set calls
// to emit. Call after anything external touched the terminal.
func (b *Batcher) Invalidate() {
	b.fgValid = false
	b.bgValid = false
	b.curValid = false
}

func (b *Batcher) maybeAutoFlush() {
	if b.buf.Len() >= autoFlushThreshold {
		b.Flush()
	}
}
