package bus

import (
	"context"
	"fmt"
	"sync"

	"waves-events/internal/domain/event"
)

// EventBus dispatches committed domain events to registered handlers.
// Dispatch is synchronous and strictly post-commit: publishers call it
// only after their transaction has committed, and a failing handler
// never undoes the originating mutation.
type EventBus interface {
	Publish(ctx context.Context, event event.DomainEvent) error
	Subscribe(eventType string, handler EventHandler)
}

// EventHandler handles domain events
type EventHandler interface {
	Handle(ctx context.Context, event event.DomainEvent) error
}

// EventHandlerFunc allows functions to implement EventHandler
type EventHandlerFunc func(ctx context.Context, event event.DomainEvent) error

func (f EventHandlerFunc) Handle(ctx context.Context, event event.DomainEvent) error {
	return f(ctx, event)
}

// InMemoryEventBus implements EventBus with an explicit registry
// mapping event type to an ordered list of handlers
type InMemoryEventBus struct {
	handlers map[string][]EventHandler
	mutex    sync.RWMutex
}

func NewInMemoryEventBus() *InMemoryEventBus {
	return &InMemoryEventBus{
		handlers: make(map[string][]EventHandler),
	}
}

// Publish invokes every handler registered for the event's type in
// registration order. Handler failures are collected, not propagated
// mid-run: a failing handler does not block the ones after it.
func (b *InMemoryEventBus) Publish(ctx context.Context, evt event.DomainEvent) error {
	b.mutex.RLock()
	handlers := b.handlers[evt.EventType()]
	b.mutex.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler.Handle(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("handler error for %s: %w", evt.EventType(), err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("event handling errors: %v", errs)
	}
	return nil
}

// Subscribe appends a handler to the event type's handler list
func (b *InMemoryEventBus) Subscribe(eventType string, handler EventHandler) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
