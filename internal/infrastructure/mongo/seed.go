package mongo

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"waves-events/internal/domain/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

var sampleCoordinates = [][]float64{
	{-73.935242, 40.730610}, // New York
	{-0.127758, 51.507351},  // London
	{2.352222, 48.856613},   // Paris
	{139.650311, 35.676192}, // Tokyo
	{151.209900, -33.865143}, // Sydney
}

// Seed inserts sample events into an empty store. One-time development
// initialization, not part of the registration engine's contract.
func (s *Store) Seed(ctx context.Context, count int) error {
	existing, err := s.Events().CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to count events: %w", err)
	}
	if existing > 0 {
		return nil
	}

	creator := uuid.New().String()
	docs := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		startOffset := time.Duration(2+rand.Intn(18)) * 24 * time.Hour
		endOffset := startOffset + time.Duration(1+rand.Intn(3))*24*time.Hour
		id := uuid.New().String()

		docs = append(docs, &model.Event{
			EventID:         id,
			Name:            fmt.Sprintf("Event Name for %s", id[:8]),
			Description:     "Description of the event.",
			TotalSeats:      100,
			RegisteredSeats: 0,
			TicketPrice:     49.99,
			Genres:          []string{"Music", "Dance"},
			Collab:          []string{uuid.New().String(), uuid.New().String()},
			StartDate:       time.Now().UTC().Add(startOffset),
			EndDate:         time.Now().UTC().Add(endOffset),
			Location: model.Location{
				Type:        "Point",
				Coordinates: sampleCoordinates[i%len(sampleCoordinates)],
			},
			Status:         model.EventStatusScheduled,
			CreatedBy:      creator,
			AgeRestriction: 18,
			Country:        "Sample Country",
			Discounts: []model.DiscountCode{
				{Code: "SAVE10", Percentage: 10},
			},
		})
	}

	if _, err := s.Events().InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}
	return nil
}
