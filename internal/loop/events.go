package loop

import "vortex/internal/field"

type EventType int

const (
	EventMounted EventType = iota
	EventResized
	EventFrame
	EventDisposed
)

type Event struct {
	Type   EventType
	Time   float64 // elapsed simulation time
	Width  int     // viewport, for EventMounted and EventResized
	Height int
	Stats  field.Stats // EventFrame only
}

type EventHandler func(Event)

// EventBus is a synchronous fan-out; handlers run on the emitting goroutine.
type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}
