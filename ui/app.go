package ui

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// defaultFrameInterval targets roughly 60 frames per second.
	defaultFrameInterval = 16 * time.Millisecond

	// maxEventsPerFrame bounds input dispatch per frame so an event flood
	// cannot starve rendering.
	maxEventsPerFrame = 50
)

// ErrNilWidget is returned when a nil widget is passed to AddWidget or
// RemoveWidget; that is a caller bug, not a runtime condition.
var ErrNilWidget = errors.New("ui: nil widget")

// Application owns the widget list, the dirty tracker and the spatial index,
// and drives the render/input loop against a Sink and an InputSource.
//
// The loop is single-threaded: render, input drain and dispatch run
// sequentially inside one frame. The one concurrency seam is MarkDirty,
// which may be called from any goroutine. Widget registration and the
// spatial index are serialized by an internal mutex; embedding hosts must
// not mutate widgets concurrently with a running frame.
type Application struct {
	sink  Sink
	input InputSource

	mu      sync.Mutex // protects widgets, index, focus
	widgets []Widget
	index   *QuadTree
	focused int // index into widgets, -1 = none

	dirty      *DirtyTracker
	dispatcher *EventDispatcher

	// Frame state, owned by the run loop.
	fullRedraw   bool
	lastW, lastH int

	running atomic.Bool

	frameInterval time.Duration
	frameBudget   bool

	deferredMu sync.Mutex
	deferred   []func()

	tracer Tracer
}

// NewApplication builds an application over the given sink and input source.
// Wrap the sink in a term.Batcher unless it already coalesces escape output.
func NewApplication(sink Sink, input InputSource) *Application {
	w, h := sink.Width(), sink.Height()
	return &Application{
		sink:          sink,
		input:         input,
		focused:       -1,
		dirty:         NewDirtyTracker(),
		dispatcher:    NewEventDispatcher(),
		index:         NewQuadTree(Rect{W: w, H: h}),
		lastW:         w,
		lastH:         h,
		frameInterval: defaultFrameInterval,
		fullRedraw:    true,
	}
}

// Dispatcher exposes the lifecycle event dispatcher for listener subscription.
func (a *Application) Dispatcher() *EventDispatcher { return a.dispatcher }

// SetFrameInterval overrides the idle interval between frames.
func (a *Application) SetFrameInterval(d time.Duration) {
	if d > 0 {
		a.frameInterval = d
	}
}

// SetFrameBudget switches the idle step from a fixed sleep to a budget timer:
// the loop sleeps only the remainder of the interval, and deferred work runs
// in whatever budget a frame leaves over.
func (a *Application) SetFrameBudget(enabled bool) { a.frameBudget = enabled }

// SetTracer installs a per-frame diagnostics recorder. Nil disables tracing.
func (a *Application) SetTracer(t Tracer) { a.tracer = t }

// Defer queues work to run at frame boundaries when the frame budget allows.
// Overrunning frames push the queue to the next frame rather than drop it.
func (a *Application) Defer(fn func()) {
	if fn == nil {
		return
	}
	a.deferredMu.Lock()
	a.deferred = append(a.deferred, fn)
	a.deferredMu.Unlock()
}

// AddWidget registers a widget: it joins the render list (on top) and the
// spatial index, and is marked dirty for the next frame.
func (a *Application) AddWidget(w Widget) error {
	if w == nil {
		return ErrNilWidget
	}
	a.mu.Lock()
	a.widgets = append(a.widgets, w)
	a.index.Insert(w)
	a.mu.Unlock()
	a.dirty.MarkDirty(w)
	return nil
}

// RemoveWidget unregisters a widget from the list and the spatial index. Its
// bounds stop being meaningful; a stale dirty mark for it is dropped at
// render time. Removing a widget that is not registered is a no-op.
func (a *Application) RemoveWidget(w Widget) error {
	if w == nil {
		return ErrNilWidget
	}
	a.mu.Lock()
	for i, have := range a.widgets {
		if have == w {
			a.widgets = append(a.widgets[:i], a.widgets[i+1:]...)
			switch {
			case a.focused == i:
				a.focused = -1
			case a.focused > i:
				a.focused--
			}
			break
		}
	}
	a.index.Remove(w)
	a.mu.Unlock()
	// The vacated cells need repainting.
	a.fullRedraw = true
	return nil
}

// MarkDirty schedules a widget for redraw on the next frame. This is the
// explicit reporting path: mutation sites (input handlers, timers, background
// updates) report the widget they changed instead of widgets holding a
// reference back into the tracker.
func (a *Application) MarkDirty(w Widget) {
	a.dirty.MarkDirty(w)
}

// Widgets returns a snapshot of the render list, bottom-most first.
func (a *Application) Widgets() []Widget {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Widget, len(a.widgets))
	copy(out, a.widgets)
	return out
}

// Index exposes the spatial index for host-side hit testing.
func (a *Application) Index() *QuadTree {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.index
}

// Focused returns the widget currently holding keyboard focus, or nil.
func (a *Application) Focused() Focusable {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.focusedLocked()
}

func (a *Application) focusedLocked() Focusable {
	if a.focused < 0 || a.focused >= len(a.widgets) {
		return nil
	}
	if f, ok := a.widgets[a.focused].(Focusable); ok {
		return f
	}
	return nil
}

// SetFocus moves keyboard focus to the given widget, which must be registered
// and focusable; passing nil clears focus.
func (a *Application) SetFocus(w Focusable) {
	a.mu.Lock()
	prev := a.focusedLocked()
	a.focused = -1
	if w != nil {
		for i, have := range a.widgets {
			if have == Widget(w) {
				a.focused = i
				break
			}
		}
	}
	next := a.focusedLocked()
	a.mu.Unlock()

	if prev == next {
		return
	}
	if prev != nil {
		prev.SetFocused(false)
		a.dirty.MarkDirty(prev)
	}
	if next != nil {
		next.SetFocused(true)
		a.dirty.MarkDirty(next)
	}
	a.dispatcher.Broadcast(LifecycleEvent{Type: EventFocusChanged, Focused: next})
}

// cycleFocus advances focus to the next visible focusable widget.
func (a *Application) cycleFocus() {
	a.mu.Lock()
	n := len(a.widgets)
	if n == 0 {
		a.mu.Unlock()
		return
	}
	start := a.focused
	var next Focusable
	for off := 1; off <= n; off++ {
		idx := ((start + off) % n + n) % n
		if f, ok := a.widgets[idx].(Focusable); ok && f.Visible() {
			if idx == start {
				// The only focusable widget already holds focus.
				a.mu.Unlock()
				return
			}
			a.focused = idx
			next = f
			break
		}
	}
	prev := Focusable(nil)
	if start >= 0 && start < n && start != a.focused {
		prev, _ = a.widgets[start].(Focusable)
	}
	a.mu.Unlock()

	if next == nil || next == prev {
		return
	}
	if prev != nil {
		prev.SetFocused(false)
	}
	next.SetFocused(true)
	a.fullRedraw = true
	a.dispatcher.Broadcast(LifecycleEvent{Type: EventFocusChanged, Focused: next})
}

// Stop requests loop termination; the flag is honored at the next frame
// boundary (or between input events within the current frame).
func (a *Application) Stop() {
	a.running.Store(false)
}

// Running reports whether the run loop is active.
func (a *Application) Running() bool {
	return a.running.Load()
}

// Run drives the frame loop until Stop is called or ESC arrives. The sink is
// always disposed on exit, including after a panic escaping a frame, so the
// user's terminal is never left in raw mode.
func (a *Application) Run() error {
	if a.sink == nil || a.input == nil {
		return fmt.Errorf("ui: application needs a sink and an input source")
	}
	a.running.Store(true)
	defer func() {
		a.sink.Dispose()
		a.dispatcher.Broadcast(LifecycleEvent{Type: EventStopped})
	}()

	a.lastW, a.lastH = a.sink.Width(), a.sink.Height()
	a.rebuildIndex(a.lastW, a.lastH)
	a.fullRedraw = true

	for a.running.Load() {
		start := time.Now()
		stats := FrameStats{Time: start}

		a.checkResize()

		renderStart := time.Now()
		stats.FullRedraw = a.fullRedraw
		stats.DirtyCount, stats.Rendered = a.renderFrame()
		stats.RenderTime = time.Since(renderStart)

		stats.InputCount = a.drainInput()
		if !a.running.Load() {
			if a.tracer != nil {
				a.tracer.RecordFrame(stats)
			}
			break
		}

		a.idle(start, &stats)
		if a.tracer != nil {
			a.tracer.RecordFrame(stats)
		}
	}
	return nil
}

// checkResize compares the sink's dimensions against the cached ones; on a
// change it schedules a full redraw, rebuilds the spatial index, discards any
// queued input (resizes can inject garbage events on some platforms) and
// notifies listeners exactly once.
func (a *Application) checkResize() {
	w, h := a.sink.Width(), a.sink.Height()
	if w == a.lastW && h == a.lastH {
		return
	}
	log.Printf("App: resize %dx%d -> %dx%d", a.lastW, a.lastH, w, h)
	a.lastW, a.lastH = w, h
	a.fullRedraw = true
	a.rebuildIndex(w, h)
	for a.input.HasInput() {
		a.input.ReadEvent()
	}
	a.dispatcher.Broadcast(LifecycleEvent{Type: EventResize, Width: w, Height: h})
}

func (a *Application) rebuildIndex(w, h int) {
	a.mu.Lock()
	a.index.Rebuild(Rect{W: w, H: h}, a.widgets)
	a.mu.Unlock()
}

// renderFrame executes the render decision for one frame and returns the
// drained dirty count and the number of widgets actually drawn.
func (a *Application) renderFrame() (drained, rendered int) {
	if a.fullRedraw {
		a.sink.Clear()
		for _, w := range a.Widgets() {
			if !w.Visible() {
				continue
			}
			if a.renderWidget(w) {
				rendered++
			}
		}
		// Anything marked before this point is covered by the full pass.
		drained = len(a.dirty.DrainAll())
		a.fullRedraw = false
		a.sink.Flush()
		return drained, rendered
	}

	dirty := a.dirty.DrainAll()
	drained = len(dirty)
	if drained == 0 {
		return 0, 0
	}
	registered := a.Widgets()
	for _, w := range dirty {
		if !w.Visible() {
			continue
		}
		// A widget removed after being marked renders nowhere.
		if !containsWidget(registered, w) {
			continue
		}
		if a.renderWidget(w) {
			rendered++
		}
	}
	if rendered > 0 {
		a.sink.Flush()
	}
	return drained, rendered
}

// renderWidget draws one widget, skipping it when its origin lies outside the
// terminal (shrink races, negative coordinates) and isolating panics so one
// misbehaving widget cannot take down the frame or leak the raw terminal.
// Out-of-range origins are skipped rather than clamped; clamping would land
// the writes on the wrong cells.
func (a *Application) renderWidget(w Widget) (ok bool) {
	b := w.Bounds()
	if b.Empty() || b.X < 0 || b.Y < 0 || b.X >= a.lastW || b.Y >= a.lastH {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("App: widget render panic: %v", r)
			ok = false
		}
	}()
	w.Render(a.sink)
	return true
}

func containsWidget(ws []Widget, w Widget) bool {
	for _, have := range ws {
		if have == w {
			return true
		}
	}
	return false
}

// drainInput dispatches up to maxEventsPerFrame queued events. A stop signal
// (ESC or Stop) aborts immediately, leaving the rest of the queue unread.
func (a *Application) drainInput() int {
	n := 0
	for n < maxEventsPerFrame && a.input.HasInput() {
		if !a.running.Load() {
			return n
		}
		ev := a.input.ReadEvent()
		if ev.Type == EventNone {
			return n
		}
		n++
		if a.tracer != nil {
			a.tracer.RecordInput(ev)
		}
		switch ev.Type {
		case EventKey:
			if a.dispatchKey(ev.keyEvent()) {
				a.running.Store(false)
				return n
			}
		case EventMouse:
			a.dispatchMouse(ev)
		default:
			// Unrecognized platform events are consumed and dropped.
		}
	}
	return n
}

// dispatchKey routes one keyboard event through the priority chain. Each
// stage wins exclusively; the return value signals "stop the application".
func (a *Application) dispatchKey(ev KeyEvent) bool {
	// 1. ESC stops the application unconditionally.
	if ev.Key == KeyEscape {
		return true
	}

	// 2. Tab cycles focus and forces a full redraw.
	if ev.Key == KeyTab {
		a.cycleFocus()
		return false
	}

	// 3. Visible dialogs get the key next, topmost first.
	widgets := a.Widgets()
	for i := len(widgets) - 1; i >= 0; i-- {
		m, isModal := widgets[i].(Modal)
		if !isModal || !m.Modal() || !m.Visible() {
			continue
		}
		if a.safeHandleKey(m, ev) {
			a.dirty.MarkDirty(m)
			return false
		}
	}

	// 4. Global invoke keys: any visible Invoker matching the key is
	// clicked, focused or not.
	if ev.Key != KeyNone && ev.Key != KeyRune {
		for _, w := range widgets {
			inv, isInvoker := w.(Invoker)
			if !isInvoker || !w.Visible() || inv.InvokeKey() != ev.Key {
				continue
			}
			inv.Click()
			a.dirty.MarkDirty(w)
			return false
		}
	}

	// 5. Finally the focused widget.
	if f := a.Focused(); f != nil {
		if a.safeHandleKey(f, ev) {
			a.dirty.MarkDirty(f)
		}
	}
	return false
}

// safeHandleKey isolates widget key handlers the same way render is isolated.
func (a *Application) safeHandleKey(h KeyHandler, ev KeyEvent) (handled bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("App: widget key handler panic: %v", r)
			handled = false
		}
	}()
	return h.HandleKey(ev)
}

// dispatchMouse hit-tests via the spatial index, topmost first. Clicks go to
// the first clickable widget and move focus there; wheel events go to the
// first scrollable widget and never touch focus.
func (a *Application) dispatchMouse(ev Event) {
	a.mu.Lock()
	hits := a.index.QueryPoint(ev.MouseX, ev.MouseY)
	a.mu.Unlock()

	if ev.Click {
		for i := len(hits) - 1; i >= 0; i-- {
			w := hits[i]
			if !w.Visible() {
				continue
			}
			c, clickable := w.(Clickable)
			if !clickable {
				continue
			}
			a.SetFocus(c)
			c.HandleClick(ev.MouseX, ev.MouseY)
			a.dirty.MarkDirty(c)
			return
		}
		return
	}

	if ev.ScrollDelta != 0 {
		for i := len(hits) - 1; i >= 0; i-- {
			w := hits[i]
			if !w.Visible() {
				continue
			}
			s, scrollable := w.(Scrollable)
			if !scrollable {
				continue
			}
			if s.HandleScroll(ev.ScrollDelta) {
				a.dirty.MarkDirty(s)
			}
			return
		}
	}
}

// idle holds the frame rate: a fixed sleep by default, or the budget variant
// that sleeps only the interval remainder and feeds leftover time to the
// deferred-work queue.
func (a *Application) idle(start time.Time, stats *FrameStats) {
	if !a.frameBudget {
		time.Sleep(a.frameInterval)
		return
	}
	elapsed := time.Since(start)
	if elapsed >= a.frameInterval {
		stats.Overrun = elapsed - a.frameInterval
		return
	}
	a.runDeferred(start.Add(a.frameInterval))
	if remaining := time.Until(start.Add(a.frameInterval)); remaining > 0 {
		time.Sleep(remaining)
	}
}

// runDeferred executes queued work until the deadline passes; leftovers stay
// queued for the next frame.
func (a *Application) runDeferred(deadline time.Time) {
	for time.Now().Before(deadline) {
		a.deferredMu.Lock()
		if len(a.deferred) == 0 {
			a.deferredMu.Unlock()
			return
		}
		fn := a.deferred[0]
		a.deferred = a.deferred[1:]
		a.deferredMu.Unlock()
		fn()
	}
}
