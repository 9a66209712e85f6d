package bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"waves-events/internal/domain/event"
	"waves-events/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registeredEvent() *event.EventRegistered {
	return &event.EventRegistered{
		Event:     model.Event{EventID: "e-1", Name: "Test"},
		UserEmail: "fan@example.com",
		Timestamp: time.Now(),
	}
}

func TestPublishInvokesHandlersInOrder(t *testing.T) {
	b := NewInMemoryEventBus()

	var order []string
	b.Subscribe(event.TypeEventRegistered, EventHandlerFunc(func(context.Context, event.DomainEvent) error {
		order = append(order, "first")
		return nil
	}))
	b.Subscribe(event.TypeEventRegistered, EventHandlerFunc(func(context.Context, event.DomainEvent) error {
		order = append(order, "second")
		return nil
	}))

	require.NoError(t, b.Publish(context.Background(), registeredEvent()))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	b := NewInMemoryEventBus()
	require.NoError(t, b.Publish(context.Background(), registeredEvent()))
}

func TestPublishContinuesPastFailingHandler(t *testing.T) {
	b := NewInMemoryEventBus()

	secondRan := false
	b.Subscribe(event.TypeEventRegistered, EventHandlerFunc(func(context.Context, event.DomainEvent) error {
		return errors.New("mail provider down")
	}))
	b.Subscribe(event.TypeEventRegistered, EventHandlerFunc(func(context.Context, event.DomainEvent) error {
		secondRan = true
		return nil
	}))

	err := b.Publish(context.Background(), registeredEvent())
	require.Error(t, err)
	assert.True(t, secondRan, "a failing handler must not block later handlers")
}

func TestPublishRoutesByEventType(t *testing.T) {
	b := NewInMemoryEventBus()

	var seen []string
	b.Subscribe(event.TypeEventDeleted, EventHandlerFunc(func(_ context.Context, e event.DomainEvent) error {
		seen = append(seen, e.EventType())
		return nil
	}))

	require.NoError(t, b.Publish(context.Background(), registeredEvent()))
	assert.Empty(t, seen)

	deleted := &event.EventDeleted{Event: model.Event{EventID: "e-1"}, Timestamp: time.Now()}
	require.NoError(t, b.Publish(context.Background(), deleted))
	assert.Equal(t, []string{event.TypeEventDeleted}, seen)
}
