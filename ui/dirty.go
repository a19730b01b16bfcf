package ui

import "sync"

// DirtyTracker is the set of widgets needing redraw this frame. Marks may
// arrive from the run loop itself or from background goroutines mutating a
// widget (a timer driving a progress bar); drains happen once per frame.
//
// Identity semantics: widgets are tracked by reference. Marking the same
// widget any number of times between drains yields it once in the drained
// output, in first-mark order so redraw respects z-order.
type DirtyTracker struct {
	mu     sync.Mutex
	order  []Widget
	member map[Widget]struct{}
}

// NewDirtyTracker returns an empty tracker.
func NewDirtyTracker() *DirtyTracker {
	return &DirtyTracker{member: make(map[Widget]struct{})}
}

// MarkDirty adds the widget if not already present. Safe from any goroutine;
// nil widgets are ignored. A mark racing a DrainAll lands in exactly one
// drain cycle, never both and never neither.
func (d *DirtyTracker) MarkDirty(w Widget) {
	if w == nil {
		return
	}
	d.mu.Lock()
	if _, ok := d.member[w]; !ok {
		d.member[w] = struct{}{}
		d.order = append(d.order, w)
	}
	d.mu.Unlock()
}

// DrainAll returns the current dirty set in mark order and atomically clears
// it. The returned slice is owned by the caller.
func (d *DirtyTracker) DrainAll() []Widget {
	d.mu.Lock()
	out := d.order
	d.order = nil
	d.member = make(map[Widget]struct{})
	d.mu.Unlock()
	return out
}

// Len reports the number of widgets currently marked.
func (d *DirtyTracker) Len() int {
	d.mu.Lock()
	n := len(d.order)
	d.mu.Unlock()
	return n
}
