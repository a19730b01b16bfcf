package ui

// EventType distinguishes input event categories.
type EventType uint8

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	// EventOther covers anything the platform reports that the toolkit does
	// not route (key releases, bare motion, focus reports). The router
	// consumes and drops these.
	EventOther
)

// Key identifies a parsed, non-printable input key.
type Key uint16

const (
	KeyNone Key = iota
	KeyRune // printable character, see Event.Rune

	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeySpace

	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Modifier is a bitmask of modifier keys held during an event.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << 0
	ModAlt   Modifier = 1 << 1
	ModCtrl  Modifier = 1 << 2
)

// Event is a single input event from the platform.
type Event struct {
	Type      EventType
	Key       Key
	Rune      rune
	Modifiers Modifier

	// Mouse fields, valid when Type == EventMouse.
	MouseX, MouseY int
	Click          bool
	ScrollDelta    int // negative = up, positive = down, 0 = none
}

// KeyEvent is the keyboard slice of an Event handed to widgets.
type KeyEvent struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// keyEvent projects an Event onto its keyboard fields.
func (e Event) keyEvent() KeyEvent {
	return KeyEvent{Key: e.Key, Rune: e.Rune, Modifiers: e.Modifiers}
}
