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

// PaymentService runs the registration engine: paid seat registration
// and cancellation over events and payment accounts. Every mutation of
// the seat counter and the payment record commits atomically inside one
// transaction; notifications go out only after the commit.
type PaymentService struct {
	events   repository.EventRepository
	payments repository.PaymentRepository
	tx       repository.TxRunner
	eventBus bus.EventBus
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	events repository.EventRepository,
	payments repository.PaymentRepository,
	tx repository.TxRunner,
	eventBus bus.EventBus,
) *PaymentService {
	return &PaymentService{
		events:   events,
		payments: payments,
		tx:       tx,
		eventBus: eventBus,
	}
}

// RegisterForEvent takes one seat on the event for the user and records
// the payment detail. A user holds at most one registration per event:
// a Success detail is a conflict, a Pending one means a registration is
// already in flight, and a Cancelled or Failed one is retried in place.
func (s *PaymentService) RegisterForEvent(ctx context.Context, userID, userEmail, eventID string) (*model.PaymentDetail, error) {
	if err := validateID(userID, "user ID"); err != nil {
		return nil, err
	}
	if err := validateID(eventID, "event ID"); err != nil {
		return nil, err
	}
	if userEmail == "" {
		return nil, apperrors.NewValidationError("user email cannot be empty")
	}

	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, asAppError(err, "an error occurred while fetching the event")
	}
	if ev == nil {
		return nil, apperrors.NewNotFoundError("event")
	}
	if ev.AvailableSeats() <= 0 {
		return nil, apperrors.NewConflictError("no available seats for this event")
	}

	existing, err := s.payments.FindDetail(ctx, userID, eventID)
	if err != nil {
		return nil, asAppError(err, "an error occurred while fetching the payment record")
	}
	if existing != nil {
		switch existing.Status {
		case model.PaymentStatusSuccess:
			return nil, apperrors.NewConflictError("user has already registered for this event")
		case model.PaymentStatusPending:
			return nil, apperrors.NewConflictError("registration for this event is already in progress")
		}
	}

	detail := model.PaymentDetail{
		EventID:   eventID,
		PaymentID: uuid.New().String(),
		InvoiceID: uuid.New().String(),
		Amount:    ev.TicketPrice,
		Status:    model.PaymentStatusSuccess,
	}

	var updated *model.Event
	_, err = s.tx.WithTransaction(ctx, func(txCtx context.Context) (interface{}, error) {
		if existing == nil {
			if err := s.payments.AppendDetail(txCtx, userID, userEmail, detail); err != nil {
				return nil, err
			}
		} else {
			detail.PaymentID = existing.PaymentID
			detail.InvoiceID = existing.InvoiceID
			matched, err := s.payments.SetDetailStatus(txCtx, userID, eventID, model.PaymentStatusSuccess)
			if err != nil {
				return nil, err
			}
			if !matched {
				return nil, apperrors.NewConflictError("failed to update the payment record")
			}
		}

		ev, err := s.events.UpdateRegisteredSeats(txCtx, eventID, 1)
		if err != nil {
			return nil, err
		}
		if ev == nil {
			// Either the event vanished mid-flight or another
			// registration took the last seat.
			return nil, apperrors.NewConflictError("no available seats for this event")
		}
		updated = ev
		return nil, nil
	})
	if err != nil {
		return nil, asAppError(err, "failed to register for the event")
	}

	s.publish(ctx, &event.EventRegistered{
		Event:     *updated,
		UserEmail: userEmail,
		Timestamp: time.Now().UTC(),
	})
	return &detail, nil
}

// CancelRegistration releases the user's seat and marks the payment
// detail cancelled. Cancelling twice is a conflict.
func (s *PaymentService) CancelRegistration(ctx context.Context, userID, eventID string) (*model.PaymentDetail, error) {
	if err := validateID(userID, "user ID"); err != nil {
		return nil, err
	}
	if err := validateID(eventID, "event ID"); err != nil {
		return nil, err
	}

	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, asAppError(err, "an error occurred while fetching the event")
	}
	if ev == nil {
		return nil, apperrors.NewNotFoundError("event")
	}

	account, err := s.payments.FindAccount(ctx, userID)
	if err != nil {
		return nil, asAppError(err, "an error occurred while fetching the payment record")
	}
	if account == nil {
		return nil, apperrors.NewNotFoundError("registration")
	}
	existing := account.DetailFor(eventID)
	if existing == nil {
		return nil, apperrors.NewNotFoundError("registration")
	}
	if existing.Status == model.PaymentStatusCancelled {
		return nil, apperrors.NewConflictError("registration has already been cancelled")
	}

	var updated *model.Event
	_, err = s.tx.WithTransaction(ctx, func(txCtx context.Context) (interface{}, error) {
		matched, err := s.payments.SetDetailStatus(txCtx, userID, eventID, model.PaymentStatusCancelled)
		if err != nil {
			return nil, err
		}
		if !matched {
			return nil, apperrors.NewConflictError("failed to update the payment record")
		}

		ev, err := s.events.UpdateRegisteredSeats(txCtx, eventID, -1)
		if err != nil {
			return nil, err
		}
		if ev == nil {
			return nil, apperrors.NewConflictError("failed to release the seat")
		}
		updated = ev
		return nil, nil
	})
	if err != nil {
		return nil, asAppError(err, "failed to cancel the registration")
	}

	s.publish(ctx, &event.EventRegistrationCancelled{
		Event:     *updated,
		UserEmail: account.UserEmail,
		Timestamp: time.Now().UTC(),
	})

	cancelled := *existing
	cancelled.Status = model.PaymentStatusCancelled
	return &cancelled, nil
}

// GetRegistrationsForEvent returns one page of the user ids registered
// for the event plus the total count
func (s *PaymentService) GetRegistrationsForEvent(ctx context.Context, eventID string, page, size int) ([]string, int64, error) {
	if err := validateID(eventID, "event ID"); err != nil {
		return nil, 0, err
	}
	page, size = normalizePaging(page, size)

	accounts, total, err := s.payments.ListAccountsByEvent(ctx, eventID, page, size)
	if err != nil {
		return nil, 0, asAppError(err, "an error occurred while fetching registrations")
	}
	if total == 0 {
		return nil, 0, apperrors.NewNotFoundError("registrations for this event")
	}

	userIDs := make([]string, 0, len(accounts))
	for _, account := range accounts {
		userIDs = append(userIDs, account.UserID)
	}
	return userIDs, total, nil
}

// GetRegisteredEmailsForEvent returns the email of every account
// holding a successful registration for the event. An empty result is
// not an error: there is simply nobody to notify.
func (s *PaymentService) GetRegisteredEmailsForEvent(ctx context.Context, eventID string) ([]string, error) {
	if err := validateID(eventID, "event ID"); err != nil {
		return nil, err
	}
	emails, err := s.payments.ListEmailsByEvent(ctx, eventID)
	if err != nil {
		return nil, asAppError(err, "an error occurred while fetching registered emails")
	}
	return emails, nil
}

// GetRegistrationsByUser returns one page of the events the user holds
// an active registration for
func (s *PaymentService) GetRegistrationsByUser(ctx context.Context, userID string, page, size int) ([]*model.Event, int64, error) {
	return s.eventsByUserAndStatus(ctx, userID, model.PaymentStatusSuccess, page, size)
}

// GetCancelledRegistrationsByUser returns one page of the events the
// user has cancelled a registration for
func (s *PaymentService) GetCancelledRegistrationsByUser(ctx context.Context, userID string, page, size int) ([]*model.Event, int64, error) {
	return s.eventsByUserAndStatus(ctx, userID, model.PaymentStatusCancelled, page, size)
}

// GetRegistrationByUserAndEvent returns the payment detail linking the
// user to the event, whatever its status
func (s *PaymentService) GetRegistrationByUserAndEvent(ctx context.Context, userID, eventID string) (*model.PaymentDetail, error) {
	if err := validateID(userID, "user ID"); err != nil {
		return nil, err
	}
	if err := validateID(eventID, "event ID"); err != nil {
		return nil, err
	}
	detail, err := s.payments.FindDetail(ctx, userID, eventID)
	if err != nil {
		return nil, asAppError(err, "an error occurred while fetching the registration")
	}
	if detail == nil {
		return nil, apperrors.NewNotFoundError("registration")
	}
	return detail, nil
}

func (s *PaymentService) eventsByUserAndStatus(ctx context.Context, userID string, status model.PaymentStatus, page, size int) ([]*model.Event, int64, error) {
	if err := validateID(userID, "user ID"); err != nil {
		return nil, 0, err
	}
	page, size = normalizePaging(page, size)

	account, err := s.payments.FindAccount(ctx, userID)
	if err != nil {
		return nil, 0, asAppError(err, "an error occurred while fetching registrations")
	}
	if account == nil {
		return nil, 0, apperrors.NewNotFoundError("registrations for this user")
	}

	eventIDs := account.EventIDsWithStatus(status)
	if len(eventIDs) == 0 {
		return nil, 0, apperrors.NewNotFoundError("registrations for this user")
	}
	total := int64(len(eventIDs))

	start := (page - 1) * size
	if start >= len(eventIDs) {
		return []*model.Event{}, total, nil
	}
	end := start + size
	if end > len(eventIDs) {
		end = len(eventIDs)
	}

	events, err := s.events.GetByIDList(ctx, eventIDs[start:end])
	if err != nil {
		return nil, 0, asAppError(err, "an error occurred while fetching registered events")
	}
	if len(events) == 0 {
		return nil, 0, apperrors.NewNotFoundError("registered events")
	}
	return events, total, nil
}

func (s *PaymentService) publish(ctx context.Context, evt event.DomainEvent) {
	if err := s.eventBus.Publish(ctx, evt); err != nil {
		log.Printf("warning: failed to dispatch %s: %v", evt.EventType(), err)
	}
}
