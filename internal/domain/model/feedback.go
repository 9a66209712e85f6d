package model

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserFeedback is one user's feedback entry for an event
type UserFeedback struct {
	FeedbackID string `bson:"feedbackId" json:"feedbackId"`
	UserID     string `bson:"userId" json:"userId"`
	Rating     int    `bson:"rating" json:"rating"`
	Comment    string `bson:"comment" json:"comment"`
}

// ValidateRating checks the 1..5 rating range
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}
	return nil
}

// Feedback holds all user feedback for one event. There is at most one
// document per event and at most one entry per user within it.
type Feedback struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	EventID      string             `bson:"eventId" json:"eventId"`
	UserFeedback []UserFeedback     `bson:"userFeedback" json:"userFeedback"`
}

// EntryForUser returns the feedback entry of the given user, or nil
func (f *Feedback) EntryForUser(userID string) *UserFeedback {
	for i := range f.UserFeedback {
		if f.UserFeedback[i].UserID == userID {
			return &f.UserFeedback[i]
		}
	}
	return nil
}
