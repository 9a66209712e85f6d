package model

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventStatus represents the lifecycle status of an event
type EventStatus string

const (
	EventStatusScheduled EventStatus = "Scheduled"
	EventStatusCancelled EventStatus = "Cancelled"
	EventStatusCompleted EventStatus = "Completed"
)

// Location is a GeoJSON point, coordinates are [longitude, latitude]
type Location struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// DiscountCode is a percentage discount attached to an event
type DiscountCode struct {
	Code       string `bson:"discountCode" json:"discountCode"`
	Percentage int    `bson:"discountPercentage" json:"discountPercentage"`
}

// Validate checks the discount percentage range
func (d DiscountCode) Validate() error {
	if d.Percentage < 1 || d.Percentage > 99 {
		return fmt.Errorf("discount percentage must be between 1 and 99, got %d", d.Percentage)
	}
	return nil
}

// Event is the calendar event entity stored in the events collection.
// EventID is the external identifier, distinct from the storage _id.
type Event struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	EventID         string             `bson:"eventId" json:"eventId"`
	Name            string             `bson:"eventName" json:"eventName"`
	Description     string             `bson:"eventDescription" json:"eventDescription"`
	BackgroundImage string             `bson:"eventBackgroundImage" json:"eventBackgroundImage"`
	TotalSeats      int                `bson:"eventTotalSeats" json:"eventTotalSeats"`
	RegisteredSeats int                `bson:"eventRegisteredSeats" json:"eventRegisteredSeats"`
	TicketPrice     float64            `bson:"eventTicketPrice" json:"eventTicketPrice"`
	Genres          []string           `bson:"eventGenres" json:"eventGenres"`
	Collab          []string           `bson:"eventCollab" json:"eventCollab"`
	StartDate       time.Time          `bson:"eventStartDate" json:"eventStartDate"`
	EndDate         time.Time          `bson:"eventEndDate" json:"eventEndDate"`
	Location        Location           `bson:"eventLocation" json:"eventLocation"`
	Status          EventStatus        `bson:"eventStatus" json:"eventStatus"`
	CreatedBy       string             `bson:"eventCreatedBy" json:"eventCreatedBy"`
	AgeRestriction  int                `bson:"eventAgeRestriction" json:"eventAgeRestriction"`
	Country         string             `bson:"eventCountry" json:"eventCountry"`
	Discounts       []DiscountCode     `bson:"eventDiscounts" json:"eventDiscounts"`
}

// AvailableSeats returns the number of seats still open for registration
func (e *Event) AvailableSeats() int {
	return e.TotalSeats - e.RegisteredSeats
}

// Validate checks the invariants of an event document:
// 0 <= registeredSeats <= totalSeats, start <= end, valid discounts.
func (e *Event) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("event name cannot be empty")
	}
	if e.TotalSeats < 0 {
		return fmt.Errorf("event total seats cannot be negative")
	}
	if e.RegisteredSeats < 0 || e.RegisteredSeats > e.TotalSeats {
		return fmt.Errorf("event registered seats must be between 0 and the total number of seats")
	}
	if e.EndDate.Before(e.StartDate) {
		return fmt.Errorf("event start date cannot be after end date")
	}
	if len(e.Location.Coordinates) != 0 && len(e.Location.Coordinates) != 2 {
		return fmt.Errorf("event location must be of the form [longitude, latitude]")
	}
	for _, d := range e.Discounts {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}
