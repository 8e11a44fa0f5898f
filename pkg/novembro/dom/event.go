package dom

// EventType is the kind of user input.
type EventType string

const (
	EventClick   EventType = "click"
	EventKeyDown EventType = "keydown"
)

// Keys that activate a control.
const (
	KeyEnter = "Enter"
	KeySpace = " "
)

// Event is one pointer or keyboard input on a control.
type Event struct {
	Type EventType
	Key  string
}

// Click returns a pointer activation.
func Click() Event { return Event{Type: EventClick} }

// KeyDown returns a key press.
func KeyDown(key string) Event { return Event{Type: EventKeyDown, Key: key} }

// Activates reports whether the event triggers a control: a click, or Enter or
// Space pressed on it.
func (e Event) Activates() bool {
	switch e.Type {
	case EventClick:
		return true
	case EventKeyDown:
		return e.Key == KeyEnter || e.Key == KeySpace
	}
	return false
}
