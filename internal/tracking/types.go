package tracking

import "fmt"

// Point is a screen coordinate of an observed or injected click.
type Point struct {
	X int
	Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Key identifies a pressed key. Code is the gohook key code, Rawcode the
// platform scan code and Char its printable form when one exists.
type Key struct {
	Code    uint16
	Rawcode uint16
	Char    string
}

type EventKind int

const (
	PointerDown EventKind = iota + 1
	KeyDown
)

func (k EventKind) String() string {
	switch k {
	case PointerDown:
		return "pointer-down"
	case KeyDown:
		return "key-down"
	default:
		return "unknown"
	}
}

// Event is the typed form of a global input event. Only the payload matching
// Kind is set.
type Event struct {
	Kind  EventKind
	Point Point
	Key   Key
}

type PointerListener func(Point)

type KeyListener func(Key)

// Subscription is the handle returned when a listener is registered.
// The zero value is a valid handle that refers to nothing.
type Subscription struct {
	id   string
	kind EventKind
}

func (s Subscription) ID() string {
	return s.id
}

func (s Subscription) Kind() EventKind {
	return s.kind
}

// Valid reports whether s was returned by a Subscribe call.
func (s Subscription) Valid() bool {
	return s.id != ""
}
