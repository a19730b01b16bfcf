package ui

// Sink is the output surface widgets render onto. The toolkit ships two
// implementations: term.Terminal writes raw ANSI to a tty, and term.Batcher
// wraps any Sink to coalesce redundant cursor and color sequences. Hosts may
// substitute their own (the tcell driver, or a capture sink in tests).
type Sink interface {
	// Width and Height return the current surface size in cells.
	Width() int
	Height() int

	// SetCursorPosition moves the write position (0-indexed).
	SetCursorPosition(x, y int)

	// Write emits text at the current position using the given colors.
	// A bg equal to Transparent means the terminal's default background.
	Write(text string, fg, bg Color)

	// Flush transmits everything buffered so far.
	Flush()

	// Clear erases the whole surface.
	Clear()

	// Dispose restores the terminal (leave alternate screen, show cursor,
	// reset colors). Must be safe to call on every exit path.
	Dispose()
}

// InputSource delivers platform input events to the run loop. Implementations
// must make both calls non-blocking: HasInput answers "would ReadEvent return
// something", ReadEvent returns an EventNone event when the queue is empty.
type InputSource interface {
	HasInput() bool
	ReadEvent() Event
}
