package mongo

import (
	"context"
	"fmt"
	"time"

	"waves-events/internal/domain/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "waves-events/pkg/errors"
)

const earthRadiusKm = 6371.0

// MongoEventRepository implements repository.EventRepository on the
// events collection
type MongoEventRepository struct {
	store *Store
}

// NewMongoEventRepository creates a new MongoDB event repository
func NewMongoEventRepository(store *Store) *MongoEventRepository {
	return &MongoEventRepository{store: store}
}

// GetByID retrieves an event by its external id, nil when absent
func (r *MongoEventRepository) GetByID(ctx context.Context, eventID string) (*model.Event, error) {
	var ev model.Event
	err := r.store.Events().FindOne(ctx, bson.M{"eventId": eventID}).Decode(&ev)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &ev, nil
}

// GetByIDList retrieves the events matching the given id list
func (r *MongoEventRepository) GetByIDList(ctx context.Context, eventIDs []string) ([]*model.Event, error) {
	cursor, err := r.store.Events().Find(ctx, bson.M{"eventId": bson.M{"$in": eventIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find events: %w", err)
	}
	return decodeEvents(ctx, cursor)
}

// List returns a page of all events plus the total record count
func (r *MongoEventRepository) List(ctx context.Context, page, size int) ([]*model.Event, int64, error) {
	return r.pagedFind(ctx, bson.M{}, page, size)
}

// ListByGenre returns events carrying the given genre tag
func (r *MongoEventRepository) ListByGenre(ctx context.Context, genre string, page, size int) ([]*model.Event, int64, error) {
	return r.pagedFind(ctx, bson.M{"eventGenres": genre}, page, size)
}

// ListByCreator returns events created by the given artist
func (r *MongoEventRepository) ListByCreator(ctx context.Context, artistID string, page, size int) ([]*model.Event, int64, error) {
	return r.pagedFind(ctx, bson.M{"eventCreatedBy": artistID}, page, size)
}

// ListByCollaborator returns events the given artist collaborates on
func (r *MongoEventRepository) ListByCollaborator(ctx context.Context, artistID string, page, size int) ([]*model.Event, int64, error) {
	return r.pagedFind(ctx, bson.M{"eventCollab": artistID}, page, size)
}

// ListByLocation returns events within radiusKm of the given point
func (r *MongoEventRepository) ListByLocation(ctx context.Context, longitude, latitude, radiusKm float64, page, size int) ([]*model.Event, int64, error) {
	filter := bson.M{
		"eventLocation.coordinates": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{
					bson.A{longitude, latitude},
					radiusKm / earthRadiusKm,
				},
			},
		},
	}
	return r.pagedFind(ctx, filter, page, size)
}

// ListByDateRange returns events running entirely inside [from, to]
func (r *MongoEventRepository) ListByDateRange(ctx context.Context, from, to time.Time, page, size int) ([]*model.Event, int64, error) {
	filter := bson.M{
		"eventStartDate": bson.M{"$gte": from},
		"eventEndDate":   bson.M{"$lte": to},
	}
	return r.pagedFind(ctx, filter, page, size)
}

// Create inserts a new event with a freshly assigned id. The identifier
// is re-checked inside the transaction before insert; a collision
// surfaces as a conflict.
func (r *MongoEventRepository) Create(ctx context.Context, ev *model.Event) (*model.Event, error) {
	ev.EventID = uuid.New().String()

	result, err := r.store.WithTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		count, err := r.store.Events().CountDocuments(ctx, bson.M{"eventId": ev.EventID})
		if err != nil {
			return nil, fmt.Errorf("failed to check event id: %w", err)
		}
		if count > 0 {
			return nil, apperrors.NewConflictError("event already exists")
		}
		if _, err := r.store.Events().InsertOne(ctx, ev); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, apperrors.NewConflictError("event already exists")
			}
			return nil, fmt.Errorf("failed to insert event: %w", err)
		}
		return ev, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Event), nil
}

// Update applies the explicit per-field diff of the patch inside one
// transaction. Returns nil when the event does not exist.
func (r *MongoEventRepository) Update(ctx context.Context, eventID string, patch *model.EventPatch) (*model.Event, error) {
	result, err := r.store.WithTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		current, err := r.GetByID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return (*model.Event)(nil), nil
		}

		changes, err := patch.Changes(current)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		if len(changes) == 0 {
			return current, nil
		}

		set := bson.M{}
		for field, value := range changes {
			set[field] = value
		}
		res, err := r.store.Events().UpdateOne(ctx, bson.M{"eventId": eventID}, bson.M{"$set": set})
		if err != nil {
			return nil, fmt.Errorf("failed to update event: %w", err)
		}
		if res.MatchedCount == 0 {
			return (*model.Event)(nil), nil
		}
		return r.GetByID(ctx, eventID)
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Event), nil
}

// UpdateCollaborators replaces the collaborator list, nil when absent
func (r *MongoEventRepository) UpdateCollaborators(ctx context.Context, eventID string, collab []string) (*model.Event, error) {
	return r.setField(ctx, eventID, "eventCollab", collab)
}

// UpdateDiscounts replaces the discount code list, nil when absent
func (r *MongoEventRepository) UpdateDiscounts(ctx context.Context, eventID string, discounts []model.DiscountCode) (*model.Event, error) {
	return r.setField(ctx, eventID, "eventDiscounts", discounts)
}

// UpdateRegisteredSeats applies an atomic conditional increment to the
// seat counter. The filter admits the write only while the invariant
// 0 <= registered+delta <= total holds, so concurrent registrations can
// never oversell and concurrent cancellations can never go negative.
// Returns nil when no document matched.
func (r *MongoEventRepository) UpdateRegisteredSeats(ctx context.Context, eventID string, delta int) (*model.Event, error) {
	filter := bson.M{
		"eventId": eventID,
		"$expr": bson.M{"$and": bson.A{
			bson.M{"$gte": bson.A{
				bson.M{"$add": bson.A{"$eventRegisteredSeats", delta}},
				0,
			}},
			bson.M{"$lte": bson.A{
				bson.M{"$add": bson.A{"$eventRegisteredSeats", delta}},
				"$eventTotalSeats",
			}},
		}},
	}
	update := bson.M{"$inc": bson.M{"eventRegisteredSeats": delta}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ev model.Event
	err := r.store.Events().FindOneAndUpdate(ctx, filter, update, opts).Decode(&ev)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update registered seats: %w", err)
	}
	return &ev, nil
}

// Delete removes the event inside a transaction and returns its id, or
// "" when the event does not exist
func (r *MongoEventRepository) Delete(ctx context.Context, eventID string) (string, error) {
	result, err := r.store.WithTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		current, err := r.GetByID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return "", nil
		}
		res, err := r.store.Events().DeleteOne(ctx, bson.M{"eventId": eventID})
		if err != nil {
			return nil, fmt.Errorf("failed to delete event: %w", err)
		}
		if res.DeletedCount == 0 {
			return "", nil
		}
		return eventID, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// setField replaces one list field inside a transaction with an
// existence check, mirroring the dedicated collaborator/discount paths
func (r *MongoEventRepository) setField(ctx context.Context, eventID, field string, value interface{}) (*model.Event, error) {
	result, err := r.store.WithTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		current, err := r.GetByID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return (*model.Event)(nil), nil
		}
		res, err := r.store.Events().UpdateOne(ctx,
			bson.M{"eventId": eventID},
			bson.M{"$set": bson.M{field: value}},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update %s: %w", field, err)
		}
		if res.MatchedCount == 0 {
			return (*model.Event)(nil), nil
		}
		return r.GetByID(ctx, eventID)
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Event), nil
}

// pagedFind runs a filtered find with skip/limit pagination and returns
// the matching page plus the total match count
func (r *MongoEventRepository) pagedFind(ctx context.Context, filter bson.M, page, size int) ([]*model.Event, int64, error) {
	total, err := r.store.Events().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * size)).
		SetLimit(int64(size))

	cursor, err := r.store.Events().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find events: %w", err)
	}
	events, err := decodeEvents(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func decodeEvents(ctx context.Context, cursor *mongo.Cursor) ([]*model.Event, error) {
	defer cursor.Close(ctx)

	var events []*model.Event
	for cursor.Next(ctx) {
		var ev model.Event
		if err := cursor.Decode(&ev); err != nil {
			return nil, fmt.Errorf("failed to decode event: %w", err)
		}
		events = append(events, &ev)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return events, nil
}
