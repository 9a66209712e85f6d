package services

import (
	"context"
	"testing"

	"waves-events/internal/domain/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "waves-events/pkg/errors"
)

func newFeedbackFixture(ev *model.Event) (*FeedbackService, *fakeFeedbackRepo) {
	feedback := newFakeFeedbackRepo()
	events := newFakeEventRepo(ev)
	return NewFeedbackService(feedback, events, &fakeTxRunner{}), feedback
}

func TestAddFeedback(t *testing.T) {
	ev := testEvent(10, 0)
	svc, _ := newFeedbackFixture(ev)
	userID := uuid.New().String()

	entry, err := svc.AddFeedback(context.Background(), ev.EventID, userID, 4, "great lineup")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.FeedbackID)
	assert.Equal(t, userID, entry.UserID)
	assert.Equal(t, 4, entry.Rating)
	assert.Equal(t, "great lineup", entry.Comment)
}

func TestAddFeedbackTwiceConflict(t *testing.T) {
	ev := testEvent(10, 0)
	svc, _ := newFeedbackFixture(ev)
	userID := uuid.New().String()

	_, err := svc.AddFeedback(context.Background(), ev.EventID, userID, 4, "great lineup")
	require.NoError(t, err)

	_, err = svc.AddFeedback(context.Background(), ev.EventID, userID, 5, "changed my mind")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestAddFeedbackRejectsRatingOutOfRange(t *testing.T) {
	ev := testEvent(10, 0)
	svc, _ := newFeedbackFixture(ev)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.AddFeedback(context.Background(), ev.EventID, uuid.New().String(), rating, "")
		require.Error(t, err)

		var appErr *apperrors.ApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	}
}

func TestAddFeedbackUnknownEvent(t *testing.T) {
	svc, _ := newFeedbackFixture(testEvent(10, 0))

	_, err := svc.AddFeedback(context.Background(), uuid.New().String(), uuid.New().String(), 3, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateFeedback(t *testing.T) {
	ev := testEvent(10, 0)
	svc, _ := newFeedbackFixture(ev)
	userID := uuid.New().String()

	created, err := svc.AddFeedback(context.Background(), ev.EventID, userID, 2, "sound issues")
	require.NoError(t, err)

	updated, err := svc.UpdateFeedback(context.Background(), ev.EventID, userID, 5, "they fixed it")
	require.NoError(t, err)
	assert.Equal(t, created.FeedbackID, updated.FeedbackID)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "they fixed it", updated.Comment)
}

func TestUpdateFeedbackNotFound(t *testing.T) {
	ev := testEvent(10, 0)
	svc, _ := newFeedbackFixture(ev)

	_, err := svc.UpdateFeedback(context.Background(), ev.EventID, uuid.New().String(), 5, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteFeedback(t *testing.T) {
	ev := testEvent(10, 0)
	svc, _ := newFeedbackFixture(ev)
	userID := uuid.New().String()

	created, err := svc.AddFeedback(context.Background(), ev.EventID, userID, 3, "")
	require.NoError(t, err)

	deletedID, err := svc.DeleteFeedback(context.Background(), ev.EventID, userID)
	require.NoError(t, err)
	assert.Equal(t, created.FeedbackID, deletedID)

	_, err = svc.GetFeedbackByEventAndUser(context.Background(), ev.EventID, userID)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetAverageRating(t *testing.T) {
	ev := testEvent(10, 0)
	svc, _ := newFeedbackFixture(ev)

	for _, rating := range []int{3, 5, 4} {
		_, err := svc.AddFeedback(context.Background(), ev.EventID, uuid.New().String(), rating, "")
		require.NoError(t, err)
	}

	avg, err := svc.GetAverageRating(context.Background(), ev.EventID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, avg, 1e-9)
}

func TestGetAverageRatingWithoutFeedback(t *testing.T) {
	ev := testEvent(10, 0)
	svc, _ := newFeedbackFixture(ev)

	_, err := svc.GetAverageRating(context.Background(), ev.EventID)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListFeedbackByEvent(t *testing.T) {
	ev := testEvent(10, 0)
	svc, _ := newFeedbackFixture(ev)

	entries, total, err := svc.ListFeedbackByEvent(context.Background(), ev.EventID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, int64(0), total)

	_, err = svc.AddFeedback(context.Background(), ev.EventID, uuid.New().String(), 5, "")
	require.NoError(t, err)

	entries, total, err = svc.ListFeedbackByEvent(context.Background(), ev.EventID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, int64(1), total)
}

func TestGetFeedbackByID(t *testing.T) {
	ev := testEvent(10, 0)
	svc, _ := newFeedbackFixture(ev)
	userID := uuid.New().String()

	created, err := svc.AddFeedback(context.Background(), ev.EventID, userID, 4, "")
	require.NoError(t, err)

	entry, err := svc.GetFeedbackByID(context.Background(), created.FeedbackID)
	require.NoError(t, err)
	assert.Equal(t, userID, entry.UserID)

	_, err = svc.GetFeedbackByID(context.Background(), uuid.New().String())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
