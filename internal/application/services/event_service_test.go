package services

import (
	"context"
	"testing"

	"waves-events/internal/domain/event"
	"waves-events/internal/domain/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "waves-events/pkg/errors"
)

func newEventFixture(events ...*model.Event) (*EventService, *fakeEventRepo, *recordingBus) {
	repo := newFakeEventRepo(events...)
	recorder := &recordingBus{}
	return NewEventService(repo, recorder), repo, recorder
}

func TestGetEventByID(t *testing.T) {
	ev := testEvent(100, 0)
	svc, _, _ := newEventFixture(ev)

	got, err := svc.GetEventByID(context.Background(), ev.EventID)
	require.NoError(t, err)
	assert.Equal(t, ev.Name, got.Name)

	_, err = svc.GetEventByID(context.Background(), uuid.New().String())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.GetEventByID(context.Background(), "bogus")
	require.Error(t, err)
	var appErr *apperrors.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestCreateEventRejectsClientSuppliedID(t *testing.T) {
	svc, _, _ := newEventFixture()

	_, err := svc.CreateEvent(context.Background(), testEvent(10, 0))
	require.Error(t, err)

	var appErr *apperrors.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestCreateEventDefaultsStatus(t *testing.T) {
	svc, _, _ := newEventFixture()
	ev := testEvent(10, 0)
	ev.EventID = ""
	ev.Status = ""

	created, err := svc.CreateEvent(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusScheduled, created.Status)
}

func TestUpdateEventNotifies(t *testing.T) {
	ev := testEvent(100, 0)
	svc, _, recorder := newEventFixture(ev)

	newName := "Renamed Festival"
	updated, err := svc.UpdateEvent(context.Background(), ev.EventID, &model.EventPatch{Name: &newName}, true)
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)

	require.Len(t, recorder.published, 1)
	notification, ok := recorder.published[0].(*event.EventUpdated)
	require.True(t, ok)
	assert.Equal(t, newName, notification.Event.Name)
}

func TestUpdateEventWithoutNotification(t *testing.T) {
	ev := testEvent(100, 0)
	svc, _, recorder := newEventFixture(ev)

	newName := "Quiet Rename"
	_, err := svc.UpdateEvent(context.Background(), ev.EventID, &model.EventPatch{Name: &newName}, false)
	require.NoError(t, err)
	assert.Empty(t, recorder.published)
}

func TestUpdateEventSeatInvariant(t *testing.T) {
	ev := testEvent(100, 40)
	svc, _, _ := newEventFixture(ev)

	smaller := 30
	_, err := svc.UpdateEvent(context.Background(), ev.EventID, &model.EventPatch{TotalSeats: &smaller}, false)
	require.Error(t, err, "total seats must not drop below the registered count")
}

func TestDeleteEventNotifiesWithSnapshot(t *testing.T) {
	ev := testEvent(100, 0)
	svc, repo, recorder := newEventFixture(ev)

	deletedID, err := svc.DeleteEvent(context.Background(), ev.EventID)
	require.NoError(t, err)
	assert.Equal(t, ev.EventID, deletedID)

	stored, err := repo.GetByID(context.Background(), ev.EventID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	require.Len(t, recorder.published, 1)
	notification, ok := recorder.published[0].(*event.EventDeleted)
	require.True(t, ok)
	assert.Equal(t, ev.Name, notification.Event.Name)
}

func TestDeleteEventNotFound(t *testing.T) {
	svc, _, recorder := newEventFixture()

	_, err := svc.DeleteEvent(context.Background(), uuid.New().String())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, recorder.published)
}

func TestListEventsByDateRangeValidation(t *testing.T) {
	ev := testEvent(100, 0)
	svc, _, _ := newEventFixture(ev)

	_, _, err := svc.ListEventsByDateRange(context.Background(), ev.EndDate, ev.StartDate, 1, 10)
	require.Error(t, err)

	events, total, err := svc.ListEventsByDateRange(context.Background(), ev.StartDate, ev.EndDate, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, events, 1)
}

func TestListEventsByLocationValidation(t *testing.T) {
	svc, _, _ := newEventFixture(testEvent(100, 0))

	_, _, err := svc.ListEventsByLocation(context.Background(), []float64{1.0}, 10, 1, 10)
	require.Error(t, err)

	_, _, err = svc.ListEventsByLocation(context.Background(), []float64{1.0, 2.0}, 0, 1, 10)
	require.Error(t, err)
}

func TestGetEventByIDListValidation(t *testing.T) {
	ev := testEvent(100, 0)
	svc, _, _ := newEventFixture(ev)

	_, err := svc.GetEventByIDList(context.Background(), nil)
	require.Error(t, err)

	_, err = svc.GetEventByIDList(context.Background(), []string{uuid.New().String()})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	events, err := svc.GetEventByIDList(context.Background(), []string{ev.EventID})
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
