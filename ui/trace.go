package ui

import "time"

// FrameStats summarizes one run-loop iteration for diagnostics.
type FrameStats struct {
	Time       time.Time
	FullRedraw bool
	DirtyCount int // widgets drained from the tracker
	Rendered   int // widgets actually drawn
	InputCount int // events dispatched this frame
	RenderTime time.Duration
	Overrun    time.Duration // how far past the frame budget, zero if within
}

// Tracer receives per-frame diagnostics from the run loop. The trace package
// provides a SQLite-backed implementation; a nil tracer disables recording.
type Tracer interface {
	RecordFrame(s FrameStats)
	RecordInput(ev Event)
}
