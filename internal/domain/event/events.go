package event

import (
	"time"

	"waves-events/internal/domain/model"
)

// DomainEvent is a committed-state-change notification. Domain events
// are created only after a successful commit, consumed once by the
// dispatcher and never persisted.
type DomainEvent interface {
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

// Event type names used for dispatcher subscriptions
const (
	TypeEventRegistered            = "EventRegistered"
	TypeEventRegistrationCancelled = "EventRegistrationCancelled"
	TypeEventUpdated               = "EventUpdated"
	TypeEventDeleted               = "EventDeleted"
)

// EventRegistered fires after a user's seat registration committed
type EventRegistered struct {
	Event     model.Event `json:"event"`
	UserEmail string      `json:"userEmail"`
	Timestamp time.Time   `json:"timestamp"`
}

func (e *EventRegistered) EventType() string     { return TypeEventRegistered }
func (e *EventRegistered) AggregateID() string   { return e.Event.EventID }
func (e *EventRegistered) OccurredAt() time.Time { return e.Timestamp }

// EventRegistrationCancelled fires after a cancellation committed
type EventRegistrationCancelled struct {
	Event     model.Event `json:"event"`
	UserEmail string      `json:"userEmail"`
	Timestamp time.Time   `json:"timestamp"`
}

func (e *EventRegistrationCancelled) EventType() string     { return TypeEventRegistrationCancelled }
func (e *EventRegistrationCancelled) AggregateID() string   { return e.Event.EventID }
func (e *EventRegistrationCancelled) OccurredAt() time.Time { return e.Timestamp }

// EventUpdated fires after an event document update committed
type EventUpdated struct {
	Event     model.Event `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
}

func (e *EventUpdated) EventType() string     { return TypeEventUpdated }
func (e *EventUpdated) AggregateID() string   { return e.Event.EventID }
func (e *EventUpdated) OccurredAt() time.Time { return e.Timestamp }

// EventDeleted fires after an event was removed
type EventDeleted struct {
	Event     model.Event `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
}

func (e *EventDeleted) EventType() string     { return TypeEventDeleted }
func (e *EventDeleted) AggregateID() string   { return e.Event.EventID }
func (e *EventDeleted) OccurredAt() time.Time { return e.Timestamp }
