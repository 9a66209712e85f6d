package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string          { return &s }
func intPtr(i int) *int                { return &i }
func floatPtr(f float64) *float64      { return &f }
func statusPtr(s EventStatus) *EventStatus { return &s }

func baseEvent() *Event {
	return &Event{
		EventID:         "2f0b38a7-09f8-4d9e-b1a5-5a2e9c3d41aa",
		Name:            "Harbor Lights",
		Description:     "Open air stage",
		TotalSeats:      200,
		RegisteredSeats: 50,
		TicketPrice:     30,
		Genres:          []string{"Jazz"},
		Collab:          []string{"artist-1"},
		StartDate:       time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, 6, 1, 23, 0, 0, 0, time.UTC),
		Location:        Location{Type: "Point", Coordinates: []float64{4.9, 52.37}},
		Status:          EventStatusScheduled,
		Country:         "Netherlands",
	}
}

func TestChangesSkipsUnsetAndEqualFields(t *testing.T) {
	current := baseEvent()

	changes, err := (&EventPatch{}).Changes(current)
	require.NoError(t, err)
	assert.Empty(t, changes)

	changes, err = (&EventPatch{
		Name:    strPtr(current.Name),
		Country: strPtr(""),
	}).Changes(current)
	require.NoError(t, err)
	assert.Empty(t, changes, "unchanged and blank values are not part of the diff")
}

func TestChangesCollectsModifiedFields(t *testing.T) {
	current := baseEvent()
	start := time.Date(2026, 7, 1, 18, 0, 0, 0, time.UTC)

	patch := &EventPatch{
		Name:        strPtr("Harbor Lights XL"),
		TotalSeats:  intPtr(400),
		TicketPrice: floatPtr(35),
		Genres:      []string{"Jazz", "Soul"},
		StartDate:   &start,
		Status:      statusPtr(EventStatusCompleted),
	}

	changes, err := patch.Changes(current)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"eventName":        "Harbor Lights XL",
		"eventTotalSeats":  400,
		"eventTicketPrice": 35.0,
		"eventGenres":      []string{"Jazz", "Soul"},
		"eventStartDate":   start,
		"eventStatus":      EventStatusCompleted,
	}, changes)
}

func TestChangesSeatInvariant(t *testing.T) {
	current := baseEvent()

	_, err := (&EventPatch{TotalSeats: intPtr(40)}).Changes(current)
	require.Error(t, err, "total cannot drop below the 50 registered seats")

	_, err = (&EventPatch{RegisteredSeats: intPtr(500)}).Changes(current)
	require.Error(t, err)

	// Raising the total while moving registered inside the new bound is fine.
	changes, err := (&EventPatch{TotalSeats: intPtr(60), RegisteredSeats: intPtr(60)}).Changes(current)
	require.NoError(t, err)
	assert.Equal(t, 60, changes["eventTotalSeats"])
	assert.Equal(t, 60, changes["eventRegisteredSeats"])
}

func TestChangesLocationSentinel(t *testing.T) {
	current := baseEvent()

	changes, err := (&EventPatch{Location: &Location{Coordinates: []float64{1}}}).Changes(current)
	require.NoError(t, err)
	assert.NotContains(t, changes, "eventLocation")

	changes, err = (&EventPatch{Location: &Location{Coordinates: []float64{13.4, 52.5}}}).Changes(current)
	require.NoError(t, err)
	loc, ok := changes["eventLocation"].(Location)
	require.True(t, ok)
	assert.Equal(t, "Point", loc.Type)
	assert.Equal(t, []float64{13.4, 52.5}, loc.Coordinates)
}

func TestChangesEmptyListSentinels(t *testing.T) {
	current := baseEvent()

	changes, err := (&EventPatch{Collab: []string{}, Discounts: []DiscountCode{}}).Changes(current)
	require.NoError(t, err)
	assert.NotContains(t, changes, "eventCollab")
	assert.NotContains(t, changes, "eventDiscounts")
}

func TestChangesValidatesDiscountsAndStatus(t *testing.T) {
	current := baseEvent()

	_, err := (&EventPatch{Discounts: []DiscountCode{{Code: "FREE", Percentage: 100}}}).Changes(current)
	require.Error(t, err)

	_, err = (&EventPatch{Status: statusPtr("Archived")}).Changes(current)
	require.Error(t, err)
}

func TestEventValidate(t *testing.T) {
	ev := baseEvent()
	require.NoError(t, ev.Validate())

	ev.RegisteredSeats = ev.TotalSeats + 1
	require.Error(t, ev.Validate())

	ev = baseEvent()
	ev.EndDate = ev.StartDate.Add(-time.Hour)
	require.Error(t, ev.Validate())

	ev = baseEvent()
	ev.Location.Coordinates = []float64{1}
	require.Error(t, ev.Validate())
}

func TestAvailableSeats(t *testing.T) {
	ev := baseEvent()
	assert.Equal(t, 150, ev.AvailableSeats())
}
