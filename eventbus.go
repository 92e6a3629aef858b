package kernel

import (
	"sync"
)

// Listener handles a dispatched lifecycle event. Listeners receive the event
// by pointer and may mutate it before the next listener runs.
type Listener func(event Event)

// listenerRegistration holds a registered listener and its event type filter.
type listenerRegistration struct {
	listener   Listener
	eventTypes map[string]bool // empty means all events
}

// EventBus is the standard Dispatcher implementation. Listeners are invoked
// synchronously on the dispatching goroutine, in registration order; each
// listener is free to mutate the event record before the next one runs.
type EventBus struct {
	mu            sync.RWMutex
	registrations []*listenerRegistration
}

// NewEventBus creates an empty event bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Listen registers a listener. With no event types given the listener
// receives all events; otherwise only the listed types.
func (b *EventBus) Listen(listener Listener, eventTypes ...string) {
	typeMap := make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		typeMap[eventType] = true
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.registrations = append(b.registrations, &listenerRegistration{
		listener:   listener,
		eventTypes: typeMap,
	})
}

// Dispatch delivers event to every interested listener in registration order
// and returns it. EventBus never replaces the event record; listeners mutate
// it in place.
func (b *EventBus) Dispatch(event Event) Event {
	b.mu.RLock()
	registrations := make([]*listenerRegistration, len(b.registrations))
	copy(registrations, b.registrations)
	b.mu.RUnlock()

	for _, registration := range registrations {
		if len(registration.eventTypes) > 0 && !registration.eventTypes[event.Type()] {
			continue
		}
		registration.listener(event)
	}
	return event
}
