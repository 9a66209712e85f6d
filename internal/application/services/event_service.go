package services

import (
	"context"
	"log"
	"time"

	"waves-events/internal/domain/event"
	"waves-events/internal/domain/model"
	"waves-events/internal/domain/repository"
	"waves-events/internal/infrastructure/bus"

	"github.com/google/uuid"

	apperrors "waves-events/pkg/errors"
)

// EventService provides CRUD and query operations over events and
// publishes EventUpdated/EventDeleted notifications after commit
type EventService struct {
	events   repository.EventRepository
	eventBus bus.EventBus
}

// NewEventService creates a new event service
func NewEventService(events repository.EventRepository, eventBus bus.EventBus) *EventService {
	return &EventService{
		events:   events,
		eventBus: eventBus,
	}
}

// GetEventByID returns the event with the given external id
func (s *EventService) GetEventByID(ctx context.Context, eventID string) (*model.Event, error) {
	if err := validateID(eventID, "event ID"); err != nil {
		return nil, err
	}
	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, asAppError(err, "an error occurred while fetching events")
	}
	if ev == nil {
		return nil, apperrors.NewNotFoundError("event")
	}
	return ev, nil
}

// GetEventByIDList resolves a batch of event ids to full event records.
// An empty list or a blank id is invalid input; zero matches surface as
// not found to expose data-integrity problems instead of hiding them.
func (s *EventService) GetEventByIDList(ctx context.Context, eventIDs []string) ([]*model.Event, error) {
	if len(eventIDs) == 0 {
		return nil, apperrors.NewValidationError("event IDs cannot be empty")
	}
	for _, id := range eventIDs {
		if err := validateID(id, "event ID"); err != nil {
			return nil, err
		}
	}
	events, err := s.events.GetByIDList(ctx, eventIDs)
	if err != nil {
		return nil, asAppError(err, "an error occurred while fetching events")
	}
	if len(events) == 0 {
		return nil, apperrors.NewNotFoundError("events")
	}
	return events, nil
}

// ListAllEvents returns one page of events plus the total count
func (s *EventService) ListAllEvents(ctx context.Context, page, size int) ([]*model.Event, int64, error) {
	page, size = normalizePaging(page, size)
	events, total, err := s.events.List(ctx, page, size)
	if err != nil {
		return nil, 0, asAppError(err, "an error occurred while fetching events")
	}
	return events, total, nil
}

// ListEventsByGenre returns events carrying the given genre tag
func (s *EventService) ListEventsByGenre(ctx context.Context, genre string, page, size int) ([]*model.Event, int64, error) {
	if genre == "" {
		return nil, 0, apperrors.NewValidationError("genre cannot be empty")
	}
	page, size = normalizePaging(page, size)
	events, total, err := s.events.ListByGenre(ctx, genre, page, size)
	if err != nil {
		return nil, 0, asAppError(err, "an error occurred while fetching events")
	}
	return events, total, nil
}

// ListEventsByArtist returns events created by the given artist
func (s *EventService) ListEventsByArtist(ctx context.Context, artistID string, page, size int) ([]*model.Event, int64, error) {
	if err := validateID(artistID, "artist ID"); err != nil {
		return nil, 0, err
	}
	page, size = normalizePaging(page, size)
	events, total, err := s.events.ListByCreator(ctx, artistID, page, size)
	if err != nil {
		return nil, 0, asAppError(err, "an error occurred while fetching events")
	}
	return events, total, nil
}

// ListEventsByCollaborator returns events the artist collaborates on
func (s *EventService) ListEventsByCollaborator(ctx context.Context, artistID string, page, size int) ([]*model.Event, int64, error) {
	if err := validateID(artistID, "artist ID"); err != nil {
		return nil, 0, err
	}
	page, size = normalizePaging(page, size)
	events, total, err := s.events.ListByCollaborator(ctx, artistID, page, size)
	if err != nil {
		return nil, 0, asAppError(err, "an error occurred while fetching events")
	}
	return events, total, nil
}

// ListEventsByLocation returns events within radiusKm of the point
func (s *EventService) ListEventsByLocation(ctx context.Context, coordinates []float64, radiusKm float64, page, size int) ([]*model.Event, int64, error) {
	if len(coordinates) != 2 {
		return nil, 0, apperrors.NewValidationError("location must be of the form [longitude, latitude]")
	}
	if radiusKm <= 0 {
		return nil, 0, apperrors.NewValidationError("radius must be greater than 0")
	}
	page, size = normalizePaging(page, size)
	events, total, err := s.events.ListByLocation(ctx, coordinates[0], coordinates[1], radiusKm, page, size)
	if err != nil {
		return nil, 0, asAppError(err, "an error occurred while fetching events by location")
	}
	return events, total, nil
}

// ListEventsByDateRange returns events running inside [from, to]
func (s *EventService) ListEventsByDateRange(ctx context.Context, from, to time.Time, page, size int) ([]*model.Event, int64, error) {
	if from.After(to) {
		return nil, 0, apperrors.NewValidationError("start date cannot be after end date")
	}
	page, size = normalizePaging(page, size)
	events, total, err := s.events.ListByDateRange(ctx, from, to, page, size)
	if err != nil {
		return nil, 0, asAppError(err, "an error occurred while fetching events")
	}
	return events, total, nil
}

// CreateEvent stores a new event. The event id is assigned by the
// server; a client-supplied id is rejected.
func (s *EventService) CreateEvent(ctx context.Context, ev *model.Event) (*model.Event, error) {
	if ev.EventID != "" {
		return nil, apperrors.NewValidationError("event ID cannot be set by client")
	}
	if ev.Status == "" {
		ev.Status = model.EventStatusScheduled
	}
	if err := ev.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	created, err := s.events.Create(ctx, ev)
	if err != nil {
		return nil, asAppError(err, "an error occurred while creating event")
	}
	return created, nil
}

// UpdateEvent applies a partial update. When notify is set, an
// EventUpdated notification goes out after the update committed.
func (s *EventService) UpdateEvent(ctx context.Context, eventID string, patch *model.EventPatch, notify bool) (*model.Event, error) {
	if err := validateID(eventID, "event ID"); err != nil {
		return nil, err
	}
	updated, err := s.events.Update(ctx, eventID, patch)
	if err != nil {
		return nil, asAppError(err, "an error occurred while updating event")
	}
	if updated == nil {
		return nil, apperrors.NewNotFoundError("event")
	}

	if notify {
		s.publish(ctx, &event.EventUpdated{Event: *updated, Timestamp: time.Now().UTC()})
	}
	return updated, nil
}

// UpdateEventCollaborators replaces the collaborator list
func (s *EventService) UpdateEventCollaborators(ctx context.Context, eventID string, collab []string) (*model.Event, error) {
	if err := validateID(eventID, "event ID"); err != nil {
		return nil, err
	}
	valid := make([]string, 0, len(collab))
	for _, id := range collab {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	updated, err := s.events.UpdateCollaborators(ctx, eventID, valid)
	if err != nil {
		return nil, asAppError(err, "an error occurred while updating collaborators")
	}
	if updated == nil {
		return nil, apperrors.NewNotFoundError("event")
	}
	return updated, nil
}

// UpdateEventDiscounts replaces the discount code list
func (s *EventService) UpdateEventDiscounts(ctx context.Context, eventID string, discounts []model.DiscountCode) (*model.Event, error) {
	if err := validateID(eventID, "event ID"); err != nil {
		return nil, err
	}
	for _, d := range discounts {
		if err := d.Validate(); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}
	updated, err := s.events.UpdateDiscounts(ctx, eventID, discounts)
	if err != nil {
		return nil, asAppError(err, "an error occurred while updating discounts")
	}
	if updated == nil {
		return nil, apperrors.NewNotFoundError("event")
	}
	return updated, nil
}

// DeleteEvent removes the event and notifies registered users after
// the delete committed. Returns the deleted id.
func (s *EventService) DeleteEvent(ctx context.Context, eventID string) (string, error) {
	if err := validateID(eventID, "event ID"); err != nil {
		return "", err
	}
	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return "", asAppError(err, "an error occurred while deleting event")
	}
	if ev == nil {
		return "", apperrors.NewNotFoundError("event")
	}

	deletedID, err := s.events.Delete(ctx, eventID)
	if err != nil {
		return "", asAppError(err, "an error occurred while deleting event")
	}
	if deletedID == "" {
		return "", apperrors.NewNotFoundError("event")
	}

	s.publish(ctx, &event.EventDeleted{Event: *ev, Timestamp: time.Now().UTC()})
	return deletedID, nil
}

// publish dispatches a committed notification. Dispatch failures are
// logged and swallowed: the mutation has already committed and must not
// appear failed to the caller.
func (s *EventService) publish(ctx context.Context, evt event.DomainEvent) {
	if err := s.eventBus.Publish(ctx, evt); err != nil {
		log.Printf("warning: failed to dispatch %s: %v", evt.EventType(), err)
	}
}

// validateID checks a required uuid-formatted identifier
func validateID(id, name string) error {
	if id == "" {
		return apperrors.NewValidationError(name + " cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewValidationError("the provided " + name + " is not in a valid format")
	}
	return nil
}

// normalizePaging clamps page/size to sane defaults
func normalizePaging(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	return page, size
}

// asAppError passes application errors through untouched and wraps
// everything else as a transaction failure
func asAppError(err error, message string) error {
	if appErr, ok := err.(*apperrors.ApplicationError); ok {
		return appErr
	}
	return apperrors.NewTransactionFailureError(message, err)
}
