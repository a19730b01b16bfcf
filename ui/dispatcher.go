package ui

import "sync"

// LifecycleEventType identifies an application lifecycle event.
type LifecycleEventType int

const (
	// EventResize fires after the run loop detects new terminal dimensions,
	// once per size change.
	EventResize LifecycleEventType = iota
	// EventFocusChanged fires when keyboard focus moves between widgets.
	EventFocusChanged
	// EventStopped fires once when the run loop exits.
	EventStopped
)

// LifecycleEvent is a message broadcast to application listeners.
type LifecycleEvent struct {
	Type LifecycleEventType

	// Resize payload.
	Width, Height int

	// Focus payload; nil when focus was cleared.
	Focused Widget
}

// Listener receives application lifecycle events.
type Listener interface {
	OnEvent(ev LifecycleEvent)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(ev LifecycleEvent)

func (f ListenerFunc) OnEvent(ev LifecycleEvent) { f(ev) }

// EventDispatcher manages a list of listeners and broadcasts events to them.
type EventDispatcher struct {
	mu        sync.RWMutex
	listeners []Listener
}

// NewEventDispatcher creates a new dispatcher.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{listeners: make([]Listener, 0)}
}

// Subscribe adds a new listener to receive events.
func (d *EventDispatcher) Subscribe(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

// Unsubscribe removes a listener. The listener must be comparable (a
// pointer, not a ListenerFunc).
func (d *EventDispatcher) Unsubscribe(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, have := range d.listeners {
		if have == l {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			break
		}
	}
}

// Broadcast sends an event to all subscribed listeners.
func (d *EventDispatcher) Broadcast(ev LifecycleEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, l := range d.listeners {
		l.OnEvent(ev)
	}
}
