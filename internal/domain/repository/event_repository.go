package repository

import (
	"context"
	"time"

	"waves-events/internal/domain/model"
)

// EventRepository provides access to event documents. Lookups return
// (nil, nil) when no document matches; callers translate that into a
// not-found failure at the boundary they own.
type EventRepository interface {
	GetByID(ctx context.Context, eventID string) (*model.Event, error)
	GetByIDList(ctx context.Context, eventIDs []string) ([]*model.Event, error)

	List(ctx context.Context, page, size int) ([]*model.Event, int64, error)
	ListByGenre(ctx context.Context, genre string, page, size int) ([]*model.Event, int64, error)
	ListByCreator(ctx context.Context, artistID string, page, size int) ([]*model.Event, int64, error)
	ListByCollaborator(ctx context.Context, artistID string, page, size int) ([]*model.Event, int64, error)
	ListByLocation(ctx context.Context, longitude, latitude, radiusKm float64, page, size int) ([]*model.Event, int64, error)
	ListByDateRange(ctx context.Context, from, to time.Time, page, size int) ([]*model.Event, int64, error)

	Create(ctx context.Context, ev *model.Event) (*model.Event, error)
	Update(ctx context.Context, eventID string, patch *model.EventPatch) (*model.Event, error)
	UpdateCollaborators(ctx context.Context, eventID string, collab []string) (*model.Event, error)
	UpdateDiscounts(ctx context.Context, eventID string, discounts []model.DiscountCode) (*model.Event, error)

	// UpdateRegisteredSeats applies an atomic conditional increment to
	// the registered-seat counter: the delta is applied only while
	// 0 <= registered+delta <= total holds. Returns the updated event,
	// or nil when no document matched (event vanished or the guard
	// rejected the delta).
	UpdateRegisteredSeats(ctx context.Context, eventID string, delta int) (*model.Event, error)

	// Delete removes the event and returns its id, or "" when absent
	Delete(ctx context.Context, eventID string) (string, error)
}
