package events

import (
	"github.com/kelindar/event"
)

// Bus fans controller, gesture and button events out to subscribers through
// a kelindar/event dispatcher. Publish never blocks, so button and timer
// callbacks may call it directly, and on a nil *Bus it is a no-op.
type Bus struct {
	dispatcher *event.Dispatcher
}

func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish delivers ev to the subscribers of its concrete type. Types not
// listed here are dropped.
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	switch e := ev.(type) {
	case ButtonPressedEvent:
		event.Publish(b.dispatcher, e)
	case ButtonDroppedEvent:
		event.Publish(b.dispatcher, e)
	case ActivationChangedEvent:
		event.Publish(b.dispatcher, e)
	case ClickDiscardedEvent:
		event.Publish(b.dispatcher, e)
	case BlinkCompletedEvent:
		event.Publish(b.dispatcher, e)
	case FadeCancelledEvent:
		event.Publish(b.dispatcher, e)
	case CursorPersistedEvent:
		event.Publish(b.dispatcher, e)
	case SequenceCompletedEvent:
		event.Publish(b.dispatcher, e)
	case StatusEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers handler, a func taking one event type, and returns
// its unsubscribe function:
//
//	unsub := bus.Subscribe(func(e ActivationChangedEvent) { ... })
//
// Handlers of any other shape are ignored and get a no-op unsubscribe.
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(ButtonPressedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ButtonDroppedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ActivationChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ClickDiscardedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(BlinkCompletedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(FadeCancelledEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(CursorPersistedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(SequenceCompletedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(StatusEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
