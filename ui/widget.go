package ui

// Widget is the minimal contract for drawable UI elements. Bounds are only
// meaningful while the widget is registered with an Application; removing it
// invalidates its spatial-index membership.
type Widget interface {
	Bounds() Rect
	SetBounds(Rect)
	Visible() bool
	SetVisible(bool)
	Render(s Sink)
}

// KeyHandler widgets consume keyboard events. Returning true claims the event.
type KeyHandler interface {
	HandleKey(ev KeyEvent) bool
}

// Focusable widgets participate in Tab traversal and receive keys when
// focused. Button, TextBox and list-like widgets implement this; static
// widgets (Label, ProgressBar) do not.
type Focusable interface {
	Widget
	KeyHandler
	Focused() bool
	SetFocused(bool)
}

// Clickable widgets respond to mouse clicks. A click moves focus to the
// widget before HandleClick runs.
type Clickable interface {
	Focusable
	HandleClick(x, y int)
}

// Scrollable widgets respond to wheel events. Scrolling never changes focus.
// HandleScroll reports whether the widget's state actually changed.
type Scrollable interface {
	Widget
	HandleScroll(delta int) bool
}

// Modal widgets (dialogs) are offered keyboard input before anything except
// the global ESC and Tab shortcuts, topmost first.
type Modal interface {
	Widget
	KeyHandler
	Modal() bool
}

// Invoker widgets carry a global shortcut key: a visible Invoker anywhere in
// the widget list is click-invoked when its key arrives, focused or not.
type Invoker interface {
	Widget
	InvokeKey() Key
	Click()
}

// BaseWidget provides common geometry and visibility state for widgets.
type BaseWidget struct {
	rect    Rect
	visible bool
	focused bool
}

// NewBaseWidget returns a visible base at the given bounds.
func NewBaseWidget(r Rect) BaseWidget {
	return BaseWidget{rect: r, visible: true}
}

func (b *BaseWidget) Bounds() Rect        { return b.rect }
func (b *BaseWidget) SetBounds(r Rect)    { b.rect = r }
func (b *BaseWidget) Visible() bool       { return b.visible }
func (b *BaseWidget) SetVisible(v bool)   { b.visible = v }
func (b *BaseWidget) Focused() bool       { return b.focused }
func (b *BaseWidget) SetFocused(f bool)   { b.focused = f }
func (b *BaseWidget) HitTest(x, y int) bool { return b.rect.Contains(x, y) }
