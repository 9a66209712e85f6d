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

// MongoPaymentRepository implements repository.PaymentRepository on the
// payment-accounts collection
type MongoPaymentRepository struct {
	store *Store
}

// NewMongoPaymentRepository creates a new MongoDB payment repository
func NewMongoPaymentRepository(store *Store) *MongoPaymentRepository {
	return &MongoPaymentRepository{store: store}
}

// FindAccount retrieves the user's payment account, nil when the user
// has never attempted a registration
func (r *MongoPaymentRepository) FindAccount(ctx context.Context, userID string) (*model.PaymentAccount, error) {
	var account model.PaymentAccount
	err := r.store.PaymentAccounts().FindOne(ctx, bson.M{"userId": userID}).Decode(&account)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment account: %w", err)
	}
	return &account, nil
}

// FindDetail retrieves the payment detail for the (user, event) pair,
// nil when none exists
func (r *MongoPaymentRepository) FindDetail(ctx context.Context, userID, eventID string) (*model.PaymentDetail, error) {
	account, err := r.FindAccount(ctx, userID)
	if err != nil || account == nil {
		return nil, err
	}
	return account.DetailFor(eventID), nil
}

// AppendDetail pushes a fresh detail onto the user's account, creating
// the account on first registration. The filter excludes accounts that
// already hold a detail for the event; a concurrent duplicate then
// trips the unique userId index instead of inserting a second account.
func (r *MongoPaymentRepository) AppendDetail(ctx context.Context, userID, userEmail string, detail model.PaymentDetail) error {
	filter := bson.M{
		"userId":                 userID,
		"paymentDetails.eventId": bson.M{"$ne": detail.EventID},
	}
	update := bson.M{
		"$set":  bson.M{"userEmail": userEmail},
		"$push": bson.M{"paymentDetails": detail},
	}
	opts := options.Update().SetUpsert(true)

	_, err := r.store.PaymentAccounts().UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError("user has already registered for this event")
		}
		return fmt.Errorf("failed to append payment detail: %w", err)
	}
	return nil
}

// SetDetailStatus rewrites the status of the (user, event) detail in
// place, false when no matching detail exists
func (r *MongoPaymentRepository) SetDetailStatus(ctx context.Context, userID, eventID string, status model.PaymentStatus) (bool, error) {
	filter := bson.M{
		"userId": userID,
		"paymentDetails": bson.M{
			"$elemMatch": bson.M{"eventId": eventID},
		},
	}
	update := bson.M{"$set": bson.M{"paymentDetails.$.status": status}}

	res, err := r.store.PaymentAccounts().UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to update payment status: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// ListAccountsByEvent returns a page of accounts holding an active
// registration for the event plus the total account count. Cancelled
// and failed details do not count as registrations.
func (r *MongoPaymentRepository) ListAccountsByEvent(ctx context.Context, eventID string, page, size int) ([]*model.PaymentAccount, int64, error) {
	filter := activeRegistrationFilter(eventID)

	total, err := r.store.PaymentAccounts().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count registrations: %w", err)
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * size)).
		SetLimit(int64(size))

	cursor, err := r.store.PaymentAccounts().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find registrations: %w", err)
	}
	defer cursor.Close(ctx)

	var accounts []*model.PaymentAccount
	for cursor.Next(ctx) {
		var account model.PaymentAccount
		if err := cursor.Decode(&account); err != nil {
			return nil, 0, fmt.Errorf("failed to decode payment account: %w", err)
		}
		accounts = append(accounts, &account)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor error: %w", err)
	}
	return accounts, total, nil
}

// ListEmailsByEvent returns the emails of every account holding an
// active registration for the event, used for event-wide notifications
func (r *MongoPaymentRepository) ListEmailsByEvent(ctx context.Context, eventID string) ([]string, error) {
	filter := activeRegistrationFilter(eventID)
	opts := options.Find().SetProjection(bson.M{"userEmail": 1})

	cursor, err := r.store.PaymentAccounts().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find registered emails: %w", err)
	}
	defer cursor.Close(ctx)

	var emails []string
	for cursor.Next(ctx) {
		var doc struct {
			UserEmail string `bson:"userEmail"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode payment account: %w", err)
		}
		if doc.UserEmail != "" {
			emails = append(emails, doc.UserEmail)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return emails, nil
}

func activeRegistrationFilter(eventID string) bson.M {
	return bson.M{
		"paymentDetails": bson.M{
			"$elemMatch": bson.M{
				"eventId": eventID,
				"status":  model.PaymentStatusSuccess,
			},
		},
	}
}
