package repository

import (
	"context"

	"waves-events/internal/domain/model"
)

// FeedbackRepository provides access to per-event feedback documents
type FeedbackRepository interface {
	FindByEventAndUser(ctx context.Context, eventID, userID string) (*model.UserFeedback, error)
	FindByID(ctx context.Context, feedbackID string) (*model.UserFeedback, error)

	// Append adds a user's feedback entry to the event's document,
	// creating the document when the event has none. The write is
	// guarded against a second entry for the same (event, user) pair.
	Append(ctx context.Context, eventID string, fb model.UserFeedback) error

	// Update rewrites rating and comment of the (event, user) entry in
	// place. Returns false when no matching entry exists.
	Update(ctx context.Context, eventID, userID string, rating int, comment string) (bool, error)

	// Delete removes the (event, user) entry. Returns false when no
	// matching entry exists.
	Delete(ctx context.Context, eventID, userID string) (bool, error)

	ListByEvent(ctx context.Context, eventID string, page, size int) ([]model.UserFeedback, int64, error)

	// AverageRating returns the arithmetic mean over all ratings for the
	// event and the number of ratings averaged. count is 0 when the
	// event has no feedback.
	AverageRating(ctx context.Context, eventID string) (avg float64, count int64, err error)
}
