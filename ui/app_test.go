package ui

import (
	"testing"
	"time"
)

func TestAddWidgetNil(t *testing.T) {
	app := NewApplication(newFakeSink(80, 24), newScriptedInput())
	if err := app.AddWidget(nil); err != ErrNilWidget {
		t.Fatalf("expected ErrNilWidget, got %v", err)
	}
}

func TestDirtyRenderOnlyTouchesMarked(t *testing.T) {
	sink := newFakeSink(80, 24)
	app := NewApplication(sink, newScriptedInput())
	a := newTestWidget(Rect{X: 0, Y: 0, W: 10, H: 2})
	b := newTestWidget(Rect{X: 0, Y: 5, W: 10, H: 2})
	app.AddWidget(a)
	app.AddWidget(b)

	// First frame is a full redraw covering both.
	app.renderFrame()
	if a.renders != 1 || b.renders != 1 {
		t.Fatalf("full redraw should render both, got a=%d b=%d", a.renders, b.renders)
	}

	app.MarkDirty(a)
	drained, rendered := app.renderFrame()
	if drained != 1 || rendered != 1 {
		t.Fatalf("expected one drained and rendered, got %d/%d", drained, rendered)
	}
	if a.renders != 2 {
		t.Fatalf("marked widget not rerendered")
	}
	if b.renders != 1 {
		t.Fatalf("unmarked widget was rerendered")
	}
}

func TestCleanFrameDoesNotFlush(t *testing.T) {
	sink := newFakeSink(80, 24)
	app := NewApplication(sink, newScriptedInput())
	app.AddWidget(newTestWidget(Rect{W: 5, H: 1}))

	app.renderFrame() // full redraw always flushes
	flushes := sink.flushes

	app.renderFrame() // nothing dirty
	if sink.flushes != flushes {
		t.Fatalf("clean frame flushed the sink")
	}
}

func TestInvisibleDirtyWidgetSkipped(t *testing.T) {
	sink := newFakeSink(80, 24)
	app := NewApplication(sink, newScriptedInput())
	w := newTestWidget(Rect{W: 5, H: 1})
	app.AddWidget(w)
	app.renderFrame()

	w.SetVisible(false)
	app.MarkDirty(w)
	drained, rendered := app.renderFrame()
	if drained != 1 || rendered != 0 {
		t.Fatalf("invisible widget should drain but not render, got %d/%d", drained, rendered)
	}
}

func TestOffscreenWidgetSkippedWithoutFlush(t *testing.T) {
	sink := newFakeSink(80, 24)
	app := NewApplication(sink, newScriptedInput())
	w := newTestWidget(Rect{X: 100, Y: 30, W: 5, H: 1})
	app.AddWidget(w)
	app.fullRedraw = false

	flushes := sink.flushes
	drained, rendered := app.renderFrame()
	if drained != 1 || rendered != 0 {
		t.Fatalf("offscreen widget should drain without rendering, got %d/%d", drained, rendered)
	}
	if w.renders != 0 {
		t.Fatalf("offscreen widget was rendered")
	}
	if sink.flushes != flushes {
		t.Fatalf("frame with nothing rendered flushed the sink")
	}
}

func TestShrunkTerminalSkipsStrandedWidget(t *testing.T) {
	sink := newFakeSink(80, 24)
	app := NewApplication(sink, newScriptedInput())
	w := newTestWidget(Rect{X: 70, Y: 20, W: 8, H: 3})
	app.AddWidget(w)
	app.renderFrame()
	if w.renders != 1 {
		t.Fatalf("widget inside bounds not rendered")
	}

	sink.resize(60, 24)
	app.checkResize()
	app.fullRedraw = false
	app.MarkDirty(w)

	flushes := sink.flushes
	_, rendered := app.renderFrame()
	if rendered != 0 {
		t.Fatalf("widget beyond the shrunk width was rendered")
	}
	if sink.flushes != flushes {
		t.Fatalf("stranded widget triggered a flush")
	}
}

func TestNegativeOriginWidgetSkipped(t *testing.T) {
	sink := newFakeSink(80, 24)
	app := NewApplication(sink, newScriptedInput())
	w := newTestWidget(Rect{X: -2, Y: 3, W: 10, H: 1})
	app.AddWidget(w)
	app.fullRedraw = false

	_, rendered := app.renderFrame()
	if rendered != 0 || w.renders != 0 {
		t.Fatalf("negative-origin widget was rendered instead of skipped")
	}
}

func TestRemovedWidgetStaleMarkDropped(t *testing.T) {
	sink := newFakeSink(80, 24)
	app := NewApplication(sink, newScriptedInput())
	w := newTestWidget(Rect{W: 5, H: 1})
	app.AddWidget(w)
	app.renderFrame()

	app.MarkDirty(w)
	app.RemoveWidget(w)
	// Removal forces a full redraw; reset it to exercise the dirty path.
	app.fullRedraw = false

	before := w.renders
	app.renderFrame()
	if w.renders != before {
		t.Fatalf("removed widget was rendered from a stale mark")
	}
}

func TestRenderPanicIsolated(t *testing.T) {
	sink := newFakeSink(80, 24)
	app := NewApplication(sink, newScriptedInput())
	bad := &panicWidget{BaseWidget: NewBaseWidget(Rect{W: 5, H: 1})}
	good := newTestWidget(Rect{X: 0, Y: 3, W: 5, H: 1})
	app.AddWidget(bad)
	app.AddWidget(good)

	_, rendered := app.renderFrame()
	if rendered != 1 {
		t.Fatalf("expected the healthy widget to render, got %d", rendered)
	}
	if good.renders != 1 {
		t.Fatalf("panicking sibling blocked a healthy widget")
	}
}

type panicWidget struct {
	BaseWidget
}

func (w *panicWidget) Render(s Sink) {
	panic("render exploded")
}

func TestEscStopsRun(t *testing.T) {
	sink := newFakeSink(80, 24)
	input := newScriptedInput(
		Event{Type: EventKey, Key: KeyEscape},
		Event{Type: EventKey, Key: KeyRune, Rune: 'q'},
		Event{Type: EventKey, Key: KeyRune, Rune: 'r'},
	)
	app := NewApplication(sink, input)
	app.SetFrameInterval(time.Millisecond)
	f := newFocusWidget(Rect{W: 5, H: 1})
	app.AddWidget(f)
	app.SetFocus(f)

	done := make(chan error, 1)
	go func() { done <- app.Run() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run loop did not stop on ESC")
	}
	if sink.disposed != 1 {
		t.Fatalf("sink not disposed exactly once, got %d", sink.disposed)
	}
	// ESC aborts the drain; the events queued behind it stay unread.
	if !input.HasInput() {
		t.Fatalf("events queued behind ESC were consumed")
	}
	if len(f.keys) != 0 {
		t.Fatalf("events behind ESC were dispatched: %+v", f.keys)
	}
}

func TestRunDisposesSinkAfterStop(t *testing.T) {
	sink := newFakeSink(80, 24)
	app := NewApplication(sink, newScriptedInput())
	app.SetFrameInterval(time.Millisecond)

	var stopped bool
	app.Dispatcher().Subscribe(ListenerFunc(func(ev LifecycleEvent) {
		if ev.Type == EventStopped {
			stopped = true
		}
	}))

	done := make(chan error, 1)
	go func() { done <- app.Run() }()
	time.Sleep(20 * time.Millisecond)
	app.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("run loop did not honor Stop")
	}
	if sink.disposed != 1 {
		t.Fatalf("sink not disposed")
	}
	if !stopped {
		t.Fatalf("stop event not broadcast")
	}
}

func TestTabCyclesFocus(t *testing.T) {
	app := NewApplication(newFakeSink(80, 24), newScriptedInput())
	plain := newTestWidget(Rect{W: 5, H: 1})
	f1 := newFocusWidget(Rect{X: 0, Y: 2, W: 5, H: 1})
	f2 := newFocusWidget(Rect{X: 0, Y: 4, W: 5, H: 1})
	hidden := newFocusWidget(Rect{X: 0, Y: 6, W: 5, H: 1})
	hidden.SetVisible(false)
	app.AddWidget(plain)
	app.AddWidget(f1)
	app.AddWidget(hidden)
	app.AddWidget(f2)

	app.dispatchKey(KeyEvent{Key: KeyTab})
	if app.Focused() != Focusable(f1) {
		t.Fatalf("expected first focusable to take focus")
	}
	app.dispatchKey(KeyEvent{Key: KeyTab})
	if app.Focused() != Focusable(f2) {
		t.Fatalf("expected focus to skip the hidden widget")
	}
	app.dispatchKey(KeyEvent{Key: KeyTab})
	if app.Focused() != Focusable(f1) {
		t.Fatalf("expected focus to wrap around")
	}
	if !f1.Focused() || f2.Focused() {
		t.Fatalf("widget focus flags out of sync")
	}
}

func TestTabWithSingleFocusableStaysPut(t *testing.T) {
	app := NewApplication(newFakeSink(80, 24), newScriptedInput())
	f := newFocusWidget(Rect{W: 5, H: 1})
	app.AddWidget(f)
	app.dispatchKey(KeyEvent{Key: KeyTab})
	if app.Focused() != Focusable(f) {
		t.Fatalf("single focusable widget did not take focus")
	}

	app.fullRedraw = false
	changes := 0
	app.Dispatcher().Subscribe(ListenerFunc(func(ev LifecycleEvent) {
		if ev.Type == EventFocusChanged {
			changes++
		}
	}))

	app.dispatchKey(KeyEvent{Key: KeyTab})
	if changes != 0 {
		t.Fatalf("focus change broadcast with nowhere to move")
	}
	if app.fullRedraw {
		t.Fatalf("redraw scheduled though focus did not move")
	}
	if !f.Focused() {
		t.Fatalf("widget lost focus on a no-op cycle")
	}
}

func TestFocusedWidgetReceivesKeys(t *testing.T) {
	app := NewApplication(newFakeSink(80, 24), newScriptedInput())
	f := newFocusWidget(Rect{W: 5, H: 1})
	app.AddWidget(f)
	app.SetFocus(f)

	app.dispatchKey(KeyEvent{Key: KeyRune, Rune: 'a'})
	if len(f.keys) != 1 || f.keys[0].Rune != 'a' {
		t.Fatalf("focused widget did not receive the key")
	}
}

func TestModalCapturesKeysBeforeFocused(t *testing.T) {
	app := NewApplication(newFakeSink(80, 24), newScriptedInput())
	f := newFocusWidget(Rect{W: 5, H: 1})
	m := newModalWidget(Rect{X: 10, Y: 5, W: 20, H: 6})
	app.AddWidget(f)
	app.AddWidget(m)
	app.SetFocus(f)

	app.dispatchKey(KeyEvent{Key: KeyRune, Rune: 'x'})
	if len(m.keys) != 1 {
		t.Fatalf("modal did not capture the key")
	}
	if len(f.keys) != 0 {
		t.Fatalf("focused widget received a key behind a modal")
	}

	m.SetVisible(false)
	app.dispatchKey(KeyEvent{Key: KeyRune, Rune: 'y'})
	if len(f.keys) != 1 {
		t.Fatalf("hidden modal still captured input")
	}
}

func TestInvokerShortcut(t *testing.T) {
	app := NewApplication(newFakeSink(80, 24), newScriptedInput())
	inv := newInvokerWidget(Rect{X: 0, Y: 0, W: 8, H: 1}, KeyF5)
	f := newFocusWidget(Rect{X: 0, Y: 2, W: 5, H: 1})
	app.AddWidget(inv)
	app.AddWidget(f)
	app.SetFocus(f)

	app.dispatchKey(KeyEvent{Key: KeyF5})
	if inv.clicks != 1 {
		t.Fatalf("invoker shortcut not fired")
	}
	if len(f.keys) != 0 {
		t.Fatalf("shortcut leaked to the focused widget")
	}

	inv.SetVisible(false)
	app.dispatchKey(KeyEvent{Key: KeyF5})
	if inv.clicks != 1 {
		t.Fatalf("hidden invoker fired")
	}
}

func TestClickFocusesTopmostClickable(t *testing.T) {
	app := NewApplication(newFakeSink(80, 24), newScriptedInput())
	bottom := newFocusWidget(Rect{X: 0, Y: 0, W: 20, H: 10})
	top := newFocusWidget(Rect{X: 5, Y: 5, W: 10, H: 3})
	app.AddWidget(bottom)
	app.AddWidget(top)

	app.dispatchMouse(Event{Type: EventMouse, MouseX: 7, MouseY: 6, Click: true})
	if top.clicks != 1 || bottom.clicks != 0 {
		t.Fatalf("click went to the wrong widget: top=%d bottom=%d", top.clicks, bottom.clicks)
	}
	if app.Focused() != Focusable(top) {
		t.Fatalf("click did not move focus")
	}

	// Outside the overlap the bottom widget wins.
	app.dispatchMouse(Event{Type: EventMouse, MouseX: 1, MouseY: 1, Click: true})
	if bottom.clicks != 1 {
		t.Fatalf("click outside overlap missed the bottom widget")
	}
}

func TestScrollDoesNotChangeFocus(t *testing.T) {
	app := NewApplication(newFakeSink(80, 24), newScriptedInput())
	f := newFocusWidget(Rect{X: 0, Y: 0, W: 10, H: 2})
	sc := newScrollWidget(Rect{X: 0, Y: 5, W: 10, H: 5})
	app.AddWidget(f)
	app.AddWidget(sc)
	app.SetFocus(f)

	app.dispatchMouse(Event{Type: EventMouse, MouseX: 3, MouseY: 6, ScrollDelta: 1})
	if sc.scrolls != 1 {
		t.Fatalf("scroll did not reach the scrollable widget")
	}
	if app.Focused() != Focusable(f) {
		t.Fatalf("scroll moved focus")
	}
}

func TestScrollWithoutChangeNotDirty(t *testing.T) {
	app := NewApplication(newFakeSink(80, 24), newScriptedInput())
	sc := newScrollWidget(Rect{X: 0, Y: 0, W: 10, H: 5})
	sc.moved = false
	app.AddWidget(sc)
	app.renderFrame()
	app.dirty.DrainAll()

	app.dispatchMouse(Event{Type: EventMouse, MouseX: 1, MouseY: 1, ScrollDelta: 1})
	if n := len(app.dirty.DrainAll()); n != 0 {
		t.Fatalf("no-op scroll marked %d widgets dirty", n)
	}
}

func TestResizeTriggersFullRedrawAndRebuild(t *testing.T) {
	sink := newFakeSink(80, 24)
	input := newScriptedInput(Event{Type: EventKey, Key: KeyRune, Rune: 'j'})
	app := NewApplication(sink, input)
	w := newTestWidget(Rect{X: 70, Y: 20, W: 8, H: 3})
	app.AddWidget(w)
	app.lastW, app.lastH = 80, 24
	app.fullRedraw = false

	resizes := 0
	app.Dispatcher().Subscribe(ListenerFunc(func(ev LifecycleEvent) {
		if ev.Type == EventResize {
			resizes++
			if ev.Width != 100 || ev.Height != 30 {
				t.Errorf("unexpected resize payload %dx%d", ev.Width, ev.Height)
			}
		}
	}))

	sink.resize(100, 30)
	app.checkResize()

	if !app.fullRedraw {
		t.Fatalf("resize did not schedule a full redraw")
	}
	if resizes != 1 {
		t.Fatalf("expected one resize broadcast, got %d", resizes)
	}
	if input.HasInput() {
		t.Fatalf("queued input not discarded on resize")
	}
	if hits := app.Index().QueryPoint(72, 21); len(hits) != 1 {
		t.Fatalf("index not rebuilt over new bounds")
	}

	// Same dimensions again: no second broadcast.
	app.checkResize()
	if resizes != 1 {
		t.Fatalf("duplicate resize broadcast")
	}
}

func TestDrainInputCap(t *testing.T) {
	sink := newFakeSink(80, 24)
	input := newScriptedInput()
	for i := 0; i < maxEventsPerFrame+20; i++ {
		input.push(Event{Type: EventKey, Key: KeyRune, Rune: 'k'})
	}
	app := NewApplication(sink, input)
	app.running.Store(true)

	n := app.drainInput()
	if n != maxEventsPerFrame {
		t.Fatalf("expected cap of %d events, dispatched %d", maxEventsPerFrame, n)
	}
	if !input.HasInput() {
		t.Fatalf("excess events should stay queued for the next frame")
	}
}

func TestDeferRunsWithinBudget(t *testing.T) {
	sink := newFakeSink(80, 24)
	input := newScriptedInput()
	app := NewApplication(sink, input)
	app.SetFrameInterval(5 * time.Millisecond)
	app.SetFrameBudget(true)

	ran := make(chan struct{})
	app.Defer(func() { close(ran) })

	done := make(chan error, 1)
	go func() { done <- app.Run() }()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatalf("deferred work never ran")
	}
	app.Stop()
	<-done
}
