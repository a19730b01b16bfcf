package ui

import "sync"

// testWidget is a minimal Widget with render counting.
type testWidget struct {
	BaseWidget
	renders int
}

func newTestWidget(r Rect) *testWidget {
	return &testWidget{BaseWidget: NewBaseWidget(r)}
}

func (w *testWidget) Render(s Sink) {
	w.renders++
	s.SetCursorPosition(w.Bounds().X, w.Bounds().Y)
	s.Write("x", White, Black)
}

// focusWidget adds focus and key handling on top of testWidget.
type focusWidget struct {
	testWidget
	keys    []KeyEvent
	clicks  int
	scrolls int
	consume bool
}

func newFocusWidget(r Rect) *focusWidget {
	return &focusWidget{testWidget: *newTestWidget(r), consume: true}
}

func (w *focusWidget) HandleKey(ev KeyEvent) bool {
	w.keys = append(w.keys, ev)
	return w.consume
}

func (w *focusWidget) HandleClick(x, y int) {
	w.clicks++
}

// scrollWidget consumes wheel events without being focusable.
type scrollWidget struct {
	testWidget
	scrolls int
	moved   bool
}

func newScrollWidget(r Rect) *scrollWidget {
	return &scrollWidget{testWidget: *newTestWidget(r), moved: true}
}

func (w *scrollWidget) HandleScroll(delta int) bool {
	w.scrolls++
	return w.moved
}

// modalWidget captures keys while visible.
type modalWidget struct {
	testWidget
	keys []KeyEvent
}

func newModalWidget(r Rect) *modalWidget {
	return &modalWidget{testWidget: *newTestWidget(r)}
}

func (w *modalWidget) Modal() bool { return true }

func (w *modalWidget) HandleKey(ev KeyEvent) bool {
	w.keys = append(w.keys, ev)
	return true
}

// invokerWidget responds to a global shortcut.
type invokerWidget struct {
	testWidget
	key    Key
	clicks int
}

func newInvokerWidget(r Rect, key Key) *invokerWidget {
	return &invokerWidget{testWidget: *newTestWidget(r), key: key}
}

func (w *invokerWidget) InvokeKey() Key { return w.key }
func (w *invokerWidget) Click()         { w.clicks++ }

// fakeSink records sink calls for the run-loop tests.
type fakeSink struct {
	mu       sync.Mutex
	w, h     int
	writes   int
	clears   int
	flushes  int
	disposed int
}

func newFakeSink(w, h int) *fakeSink {
	return &fakeSink{w: w, h: h}
}

func (s *fakeSink) Width() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w
}

func (s *fakeSink) Height() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h
}

func (s *fakeSink) resize(w, h int) {
	s.mu.Lock()
	s.w, s.h = w, h
	s.mu.Unlock()
}

func (s *fakeSink) SetCursorPosition(x, y int) {}

func (s *fakeSink) Write(text string, fg, bg Color) {
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
}

func (s *fakeSink) Flush() {
	s.mu.Lock()
	s.flushes++
	s.mu.Unlock()
}

func (s *fakeSink) Clear() {
	s.mu.Lock()
	s.clears++
	s.mu.Unlock()
}

func (s *fakeSink) Dispose() {
	s.mu.Lock()
	s.disposed++
	s.mu.Unlock()
}

// scriptedInput replays a fixed event sequence.
type scriptedInput struct {
	mu     sync.Mutex
	events []Event
}

func newScriptedInput(events ...Event) *scriptedInput {
	return &scriptedInput{events: events}
}

func (s *scriptedInput) push(events ...Event) {
	s.mu.Lock()
	s.events = append(s.events, events...)
	s.mu.Unlock()
}

func (s *scriptedInput) HasInput() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events) > 0
}

func (s *scriptedInput) ReadEvent() Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		return Event{Type: EventNone}
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev
}
