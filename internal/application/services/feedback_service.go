package services

import (
	"context"

	"waves-events/internal/domain/model"
	"waves-events/internal/domain/repository"

	"github.com/google/uuid"

	apperrors "waves-events/pkg/errors"
)

// FeedbackService manages per-event user feedback. Each user leaves at
// most one feedback entry per event.
type FeedbackService struct {
	feedback repository.FeedbackRepository
	events   repository.EventRepository
	tx       repository.TxRunner
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(
	feedback repository.FeedbackRepository,
	events repository.EventRepository,
	tx repository.TxRunner,
) *FeedbackService {
	return &FeedbackService{
		feedback: feedback,
		events:   events,
		tx:       tx,
	}
}

// AddFeedback records a new feedback entry for the event
func (s *FeedbackService) AddFeedback(ctx context.Context, eventID, userID string, rating int, comment string) (*model.UserFeedback, error) {
	if err := validateID(eventID, "event ID"); err != nil {
		return nil, err
	}
	if err := validateID(userID, "user ID"); err != nil {
		return nil, err
	}
	if err := model.ValidateRating(rating); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.requireEvent(ctx, eventID); err != nil {
		return nil, err
	}

	existing, err := s.feedback.FindByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, asAppError(err, "an error occurred while fetching feedback")
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("feedback already exists for this event and user")
	}

	entry := model.UserFeedback{
		FeedbackID: uuid.New().String(),
		UserID:     userID,
		Rating:     rating,
		Comment:    comment,
	}
	_, err = s.tx.WithTransaction(ctx, func(txCtx context.Context) (interface{}, error) {
		return nil, s.feedback.Append(txCtx, eventID, entry)
	})
	if err != nil {
		return nil, asAppError(err, "failed to add feedback")
	}
	return &entry, nil
}

// UpdateFeedback replaces the rating and comment of the user's entry
func (s *FeedbackService) UpdateFeedback(ctx context.Context, eventID, userID string, rating int, comment string) (*model.UserFeedback, error) {
	if err := validateID(eventID, "event ID"); err != nil {
		return nil, err
	}
	if err := validateID(userID, "user ID"); err != nil {
		return nil, err
	}
	if err := model.ValidateRating(rating); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	existing, err := s.feedback.FindByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, asAppError(err, "an error occurred while fetching feedback")
	}
	if existing == nil {
		return nil, apperrors.NewNotFoundError("feedback")
	}

	_, err = s.tx.WithTransaction(ctx, func(txCtx context.Context) (interface{}, error) {
		matched, err := s.feedback.Update(txCtx, eventID, userID, rating, comment)
		if err != nil {
			return nil, err
		}
		if !matched {
			return nil, apperrors.NewNotFoundError("feedback")
		}
		return nil, nil
	})
	if err != nil {
		return nil, asAppError(err, "failed to update feedback")
	}

	updated := *existing
	updated.Rating = rating
	updated.Comment = comment
	return &updated, nil
}

// DeleteFeedback removes the user's entry and returns its id
func (s *FeedbackService) DeleteFeedback(ctx context.Context, eventID, userID string) (string, error) {
	if err := validateID(eventID, "event ID"); err != nil {
		return "", err
	}
	if err := validateID(userID, "user ID"); err != nil {
		return "", err
	}

	existing, err := s.feedback.FindByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return "", asAppError(err, "an error occurred while fetching feedback")
	}
	if existing == nil {
		return "", apperrors.NewNotFoundError("feedback")
	}

	_, err = s.tx.WithTransaction(ctx, func(txCtx context.Context) (interface{}, error) {
		removed, err := s.feedback.Delete(txCtx, eventID, userID)
		if err != nil {
			return nil, err
		}
		if !removed {
			return nil, apperrors.NewNotFoundError("feedback")
		}
		return nil, nil
	})
	if err != nil {
		return "", asAppError(err, "failed to delete feedback")
	}
	return existing.FeedbackID, nil
}

// GetFeedbackByEventAndUser returns the user's entry for the event
func (s *FeedbackService) GetFeedbackByEventAndUser(ctx context.Context, eventID, userID string) (*model.UserFeedback, error) {
	if err := validateID(eventID, "event ID"); err != nil {
		return nil, err
	}
	if err := validateID(userID, "user ID"); err != nil {
		return nil, err
	}
	entry, err := s.feedback.FindByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, asAppError(err, "an error occurred while fetching feedback")
	}
	if entry == nil {
		return nil, apperrors.NewNotFoundError("feedback")
	}
	return entry, nil
}

// GetFeedbackByID resolves a single entry by its feedback id
func (s *FeedbackService) GetFeedbackByID(ctx context.Context, feedbackID string) (*model.UserFeedback, error) {
	if err := validateID(feedbackID, "feedback ID"); err != nil {
		return nil, err
	}
	entry, err := s.feedback.FindByID(ctx, feedbackID)
	if err != nil {
		return nil, asAppError(err, "an error occurred while fetching feedback")
	}
	if entry == nil {
		return nil, apperrors.NewNotFoundError("feedback")
	}
	return entry, nil
}

// ListFeedbackByEvent returns one page of the event's feedback entries
func (s *FeedbackService) ListFeedbackByEvent(ctx context.Context, eventID string, page, size int) ([]model.UserFeedback, int64, error) {
	if err := validateID(eventID, "event ID"); err != nil {
		return nil, 0, err
	}
	if err := s.requireEvent(ctx, eventID); err != nil {
		return nil, 0, err
	}

	page, size = normalizePaging(page, size)
	entries, total, err := s.feedback.ListByEvent(ctx, eventID, page, size)
	if err != nil {
		return nil, 0, asAppError(err, "an error occurred while fetching feedback")
	}
	return entries, total, nil
}

// GetAverageRating computes the mean rating across the event's entries
func (s *FeedbackService) GetAverageRating(ctx context.Context, eventID string) (float64, error) {
	if err := validateID(eventID, "event ID"); err != nil {
		return 0, err
	}
	if err := s.requireEvent(ctx, eventID); err != nil {
		return 0, err
	}

	avg, count, err := s.feedback.AverageRating(ctx, eventID)
	if err != nil {
		return 0, asAppError(err, "an error occurred while computing the average rating")
	}
	if count == 0 {
		return 0, apperrors.NewNotFoundError("feedback for this event")
	}
	return avg, nil
}

func (s *FeedbackService) requireEvent(ctx context.Context, eventID string) error {
	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return asAppError(err, "an error occurred while fetching the event")
	}
	if ev == nil {
		return apperrors.NewNotFoundError("event")
	}
	return nil
}
