package mongo

import (
	"context"
	"fmt"

	"waves-events/internal/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "waves-events/pkg/errors"
)

// MongoFeedbackRepository implements repository.FeedbackRepository on
// the feedback collection
type MongoFeedbackRepository struct {
	store *Store
}

// NewMongoFeedbackRepository creates a new MongoDB feedback repository
func NewMongoFeedbackRepository(store *Store) *MongoFeedbackRepository {
	return &MongoFeedbackRepository{store: store}
}

// FindByEventAndUser retrieves the user's feedback entry for the event,
// nil when none exists
func (r *MongoFeedbackRepository) FindByEventAndUser(ctx context.Context, eventID, userID string) (*model.UserFeedback, error) {
	var fb model.Feedback
	err := r.store.Feedback().FindOne(ctx, bson.M{"eventId": eventID}).Decode(&fb)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return fb.EntryForUser(userID), nil
}

// FindByID retrieves a feedback entry by its id, nil when absent
func (r *MongoFeedbackRepository) FindByID(ctx context.Context, feedbackID string) (*model.UserFeedback, error) {
	var fb model.Feedback
	filter := bson.M{"userFeedback.feedbackId": feedbackID}
	err := r.store.Feedback().FindOne(ctx, filter).Decode(&fb)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	for i := range fb.UserFeedback {
		if fb.UserFeedback[i].FeedbackID == feedbackID {
			return &fb.UserFeedback[i], nil
		}
	}
	return nil, nil
}

// Append pushes a feedback entry onto the event's document, creating it
// for the event's first feedback. The filter excludes documents already
// holding an entry for the user; a concurrent duplicate then trips the
// unique eventId index instead of inserting a second document.
func (r *MongoFeedbackRepository) Append(ctx context.Context, eventID string, fb model.UserFeedback) error {
	filter := bson.M{
		"eventId":             eventID,
		"userFeedback.userId": bson.M{"$ne": fb.UserID},
	}
	update := bson.M{
		"$push": bson.M{"userFeedback": fb},
	}
	opts := options.Update().SetUpsert(true)

	_, err := r.store.Feedback().UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError("feedback already exists for this event and user")
		}
		return fmt.Errorf("failed to add feedback: %w", err)
	}
	return nil
}

// Update rewrites rating and comment of the (event, user) entry in
// place, false when no matching entry exists
func (r *MongoFeedbackRepository) Update(ctx context.Context, eventID, userID string, rating int, comment string) (bool, error) {
	filter := bson.M{
		"eventId": eventID,
		"userFeedback": bson.M{
			"$elemMatch": bson.M{"userId": userID},
		},
	}
	update := bson.M{"$set": bson.M{
		"userFeedback.$.rating":  rating,
		"userFeedback.$.comment": comment,
	}}

	res, err := r.store.Feedback().UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to update feedback: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// Delete removes the (event, user) entry from the event's document,
// false when no matching entry exists
func (r *MongoFeedbackRepository) Delete(ctx context.Context, eventID, userID string) (bool, error) {
	filter := bson.M{
		"eventId":             eventID,
		"userFeedback.userId": userID,
	}
	update := bson.M{
		"$pull": bson.M{"userFeedback": bson.M{"userId": userID}},
	}

	res, err := r.store.Feedback().UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to delete feedback: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

// ListByEvent returns a page of the event's feedback entries plus the
// total entry count
func (r *MongoFeedbackRepository) ListByEvent(ctx context.Context, eventID string, page, size int) ([]model.UserFeedback, int64, error) {
	var fb model.Feedback
	err := r.store.Feedback().FindOne(ctx, bson.M{"eventId": eventID}).Decode(&fb)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to get feedback: %w", err)
	}

	total := int64(len(fb.UserFeedback))
	start := (page - 1) * size
	if start >= len(fb.UserFeedback) {
		return nil, total, nil
	}
	end := start + size
	if end > len(fb.UserFeedback) {
		end = len(fb.UserFeedback)
	}
	return fb.UserFeedback[start:end], total, nil
}

// AverageRating computes the arithmetic mean over all ratings for the
// event with an unwind/group aggregation; count 0 when the event has no
// feedback
func (r *MongoFeedbackRepository) AverageRating(ctx context.Context, eventID string) (float64, int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"eventId": eventID}}},
		{{Key: "$unwind", Value: "$userFeedback"}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"avg":   bson.M{"$avg": "$userFeedback.rating"},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.store.Feedback().Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return 0, 0, fmt.Errorf("cursor error: %w", err)
		}
		return 0, 0, nil
	}

	var result struct {
		Avg   float64 `bson:"avg"`
		Count int64   `bson:"count"`
	}
	if err := cursor.Decode(&result); err != nil {
		return 0, 0, fmt.Errorf("failed to decode rating aggregate: %w", err)
	}
	return result.Avg, result.Count, nil
}
