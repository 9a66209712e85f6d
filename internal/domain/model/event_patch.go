package model

import (
	"fmt"
	"time"
)

// EventPatch is a typed partial-update request for an event. Nil fields
// were not supplied by the client and are never applied. Changes resolves
// the patch against the stored event into an explicit per-field diff.
type EventPatch struct {
	Name            *string        `json:"eventName,omitempty"`
	Description     *string        `json:"eventDescription,omitempty"`
	BackgroundImage *string        `json:"eventBackgroundImage,omitempty"`
	TotalSeats      *int           `json:"eventTotalSeats,omitempty"`
	RegisteredSeats *int           `json:"eventRegisteredSeats,omitempty"`
	TicketPrice     *float64       `json:"eventTicketPrice,omitempty"`
	Genres          []string       `json:"eventGenres,omitempty"`
	Collab          []string       `json:"eventCollab,omitempty"`
	StartDate       *time.Time     `json:"eventStartDate,omitempty"`
	EndDate         *time.Time     `json:"eventEndDate,omitempty"`
	Location        *Location      `json:"eventLocation,omitempty"`
	Status          *EventStatus   `json:"eventStatus,omitempty"`
	AgeRestriction  *int           `json:"eventAgeRestriction,omitempty"`
	Country         *string        `json:"eventCountry,omitempty"`
	Discounts       []DiscountCode `json:"eventDiscounts,omitempty"`
}

// Changes computes the set of fields to apply, keyed by storage field
// name. Fields that were not supplied, equal the stored value, or carry
// a sentinel value (location without exactly two coordinates, empty
// collaborator or discount lists) are skipped. The seat invariant is
// checked against the effective total after the patch.
func (p *EventPatch) Changes(current *Event) (map[string]interface{}, error) {
	changes := make(map[string]interface{})

	setString := func(field string, v *string, cur string) {
		if v != nil && *v != "" && *v != cur {
			changes[field] = *v
		}
	}
	setInt := func(field string, v *int, cur int) {
		if v != nil && *v != cur {
			changes[field] = *v
		}
	}

	setString("eventName", p.Name, current.Name)
	setString("eventDescription", p.Description, current.Description)
	setString("eventBackgroundImage", p.BackgroundImage, current.BackgroundImage)
	setString("eventCountry", p.Country, current.Country)
	setInt("eventAgeRestriction", p.AgeRestriction, current.AgeRestriction)

	effectiveTotal := current.TotalSeats
	if p.TotalSeats != nil && *p.TotalSeats != current.TotalSeats {
		if *p.TotalSeats < 0 {
			return nil, fmt.Errorf("event total seats cannot be negative")
		}
		effectiveTotal = *p.TotalSeats
		changes["eventTotalSeats"] = *p.TotalSeats
	}

	if p.RegisteredSeats != nil && *p.RegisteredSeats != current.RegisteredSeats {
		if *p.RegisteredSeats < 0 || *p.RegisteredSeats > effectiveTotal {
			return nil, fmt.Errorf("event registered seats must be between 0 and the total number of seats")
		}
		changes["eventRegisteredSeats"] = *p.RegisteredSeats
	} else if current.RegisteredSeats > effectiveTotal {
		return nil, fmt.Errorf("event total seats cannot drop below the registered seat count")
	}

	if p.TicketPrice != nil && *p.TicketPrice != current.TicketPrice {
		if *p.TicketPrice < 0 {
			return nil, fmt.Errorf("event ticket price cannot be negative")
		}
		changes["eventTicketPrice"] = *p.TicketPrice
	}

	if len(p.Genres) > 0 && !equalStrings(p.Genres, current.Genres) {
		changes["eventGenres"] = p.Genres
	}

	// Empty collaborator and discount lists are sentinels: clearing goes
	// through the dedicated collaborator/discount operations.
	if len(p.Collab) > 0 && !equalStrings(p.Collab, current.Collab) {
		changes["eventCollab"] = p.Collab
	}
	if len(p.Discounts) > 0 {
		for _, d := range p.Discounts {
			if err := d.Validate(); err != nil {
				return nil, err
			}
		}
		changes["eventDiscounts"] = p.Discounts
	}

	if p.StartDate != nil && !p.StartDate.IsZero() && !p.StartDate.Equal(current.StartDate) {
		changes["eventStartDate"] = *p.StartDate
	}
	if p.EndDate != nil && !p.EndDate.IsZero() && !p.EndDate.Equal(current.EndDate) {
		changes["eventEndDate"] = *p.EndDate
	}

	// A location update is ignored unless it carries exactly two coordinates.
	if p.Location != nil && len(p.Location.Coordinates) == 2 {
		loc := *p.Location
		if loc.Type == "" {
			loc.Type = "Point"
		}
		changes["eventLocation"] = loc
	}

	if p.Status != nil && *p.Status != "" && *p.Status != current.Status {
		switch *p.Status {
		case EventStatusScheduled, EventStatusCancelled, EventStatusCompleted:
			changes["eventStatus"] = *p.Status
		default:
			return nil, fmt.Errorf("unknown event status: %s", *p.Status)
		}
	}

	return changes, nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
