package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names of the document store gateway
const (
	CollectionEvents          = "events"
	CollectionFeedback        = "feedback"
	CollectionPaymentAccounts = "payment-accounts"
)

// Store exposes the named collections and a transaction scope factory.
// Repositories built on the store pick up a transaction through the
// session context produced by WithTransaction.
type Store struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewStore creates a document store gateway over the given client
func NewStore(client *MongoClient) *Store {
	return &Store{
		client:   client.GetClient(),
		database: client.GetDatabase(),
	}
}

// Events returns the events collection
func (s *Store) Events() *mongo.Collection {
	return s.database.Collection(CollectionEvents)
}

// Feedback returns the feedback collection
func (s *Store) Feedback() *mongo.Collection {
	return s.database.Collection(CollectionFeedback)
}

// PaymentAccounts returns the payment accounts collection
func (s *Store) PaymentAccounts() *mongo.Collection {
	return s.database.Collection(CollectionPaymentAccounts)
}

// WithTransaction runs fn inside a single multi-document transaction.
// The driver retries transient transaction errors, which gives the
// snapshot-isolation-with-retry semantics the seat counter depends on.
// Any error returned by fn aborts the transaction.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	session, err := s.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	return session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return fn(sessCtx)
	})
}

// EnsureIndexes creates the indexes the repositories rely on. The
// unique index on payment-accounts userId closes the duplicate-insert
// race between concurrent first-time registrations; the unique index on
// feedback eventId does the same for concurrent first feedback.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.Events().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "eventId", Value: 1}},
			Options: uniqueIndex(),
		},
		{
			Keys: bson.D{{Key: "eventLocation", Value: "2dsphere"}},
		},
		{
			Keys: bson.D{{Key: "eventStartDate", Value: 1}, {Key: "eventEndDate", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create event indexes: %w", err)
	}

	_, err = s.PaymentAccounts().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: uniqueIndex(),
		},
		{
			Keys: bson.D{{Key: "paymentDetails.eventId", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create payment account indexes: %w", err)
	}

	_, err = s.Feedback().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "eventId", Value: 1}},
			Options: uniqueIndex(),
		},
		{
			Keys: bson.D{{Key: "userFeedback.feedbackId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "userFeedback.userId", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create feedback indexes: %w", err)
	}

	return nil
}

func uniqueIndex() *options.IndexOptions {
	return options.Index().SetUnique(true)
}
