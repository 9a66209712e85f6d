package services

import (
	"context"
	"sort"
	"time"

	"waves-events/internal/domain/event"
	"waves-events/internal/domain/model"
	"waves-events/internal/infrastructure/bus"

	apperrors "waves-events/pkg/errors"
)

// fakeEventRepo is an in-memory EventRepository keyed by event id.
// beforeSeatUpdate, when set, runs at the top of UpdateRegisteredSeats
// so tests can interleave a concurrent mutation.
type fakeEventRepo struct {
	events           map[string]*model.Event
	err              error
	beforeSeatUpdate func()
}

func newFakeEventRepo(events ...*model.Event) *fakeEventRepo {
	repo := &fakeEventRepo{events: make(map[string]*model.Event)}
	for _, ev := range events {
		copied := *ev
		repo.events[ev.EventID] = &copied
	}
	return repo
}

func (r *fakeEventRepo) GetByID(_ context.Context, eventID string) (*model.Event, error) {
	if r.err != nil {
		return nil, r.err
	}
	ev, ok := r.events[eventID]
	if !ok {
		return nil, nil
	}
	copied := *ev
	return &copied, nil
}

func (r *fakeEventRepo) GetByIDList(_ context.Context, eventIDs []string) ([]*model.Event, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*model.Event
	for _, id := range eventIDs {
		if ev, ok := r.events[id]; ok {
			copied := *ev
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) all() []*model.Event {
	ids := make([]string, 0, len(r.events))
	for id := range r.events {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*model.Event, 0, len(ids))
	for _, id := range ids {
		copied := *r.events[id]
		out = append(out, &copied)
	}
	return out
}

func (r *fakeEventRepo) List(_ context.Context, _, _ int) ([]*model.Event, int64, error) {
	if r.err != nil {
		return nil, 0, r.err
	}
	all := r.all()
	return all, int64(len(all)), nil
}

func (r *fakeEventRepo) ListByGenre(ctx context.Context, genre string, page, size int) ([]*model.Event, int64, error) {
	if r.err != nil {
		return nil, 0, r.err
	}
	var out []*model.Event
	for _, ev := range r.all() {
		for _, g := range ev.Genres {
			if g == genre {
				out = append(out, ev)
				break
			}
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeEventRepo) ListByCreator(_ context.Context, artistID string, _, _ int) ([]*model.Event, int64, error) {
	var out []*model.Event
	for _, ev := range r.all() {
		if ev.CreatedBy == artistID {
			out = append(out, ev)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeEventRepo) ListByCollaborator(_ context.Context, artistID string, _, _ int) ([]*model.Event, int64, error) {
	var out []*model.Event
	for _, ev := range r.all() {
		for _, c := range ev.Collab {
			if c == artistID {
				out = append(out, ev)
				break
			}
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeEventRepo) ListByLocation(_ context.Context, _, _, _ float64, _, _ int) ([]*model.Event, int64, error) {
	all := r.all()
	return all, int64(len(all)), nil
}

func (r *fakeEventRepo) ListByDateRange(_ context.Context, from, to time.Time, _, _ int) ([]*model.Event, int64, error) {
	var out []*model.Event
	for _, ev := range r.all() {
		if !ev.StartDate.Before(from) && !ev.EndDate.After(to) {
			out = append(out, ev)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeEventRepo) Create(_ context.Context, ev *model.Event) (*model.Event, error) {
	if r.err != nil {
		return nil, r.err
	}
	copied := *ev
	r.events[ev.EventID] = &copied
	result := copied
	return &result, nil
}

func (r *fakeEventRepo) Update(_ context.Context, eventID string, patch *model.EventPatch) (*model.Event, error) {
	if r.err != nil {
		return nil, r.err
	}
	ev, ok := r.events[eventID]
	if !ok {
		return nil, nil
	}
	changes, err := patch.Changes(ev)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if name, ok := changes["eventName"].(string); ok {
		ev.Name = name
	}
	if total, ok := changes["eventTotalSeats"].(int); ok {
		ev.TotalSeats = total
	}
	copied := *ev
	return &copied, nil
}

func (r *fakeEventRepo) UpdateCollaborators(_ context.Context, eventID string, collab []string) (*model.Event, error) {
	ev, ok := r.events[eventID]
	if !ok {
		return nil, nil
	}
	ev.Collab = collab
	copied := *ev
	return &copied, nil
}

func (r *fakeEventRepo) UpdateDiscounts(_ context.Context, eventID string, discounts []model.DiscountCode) (*model.Event, error) {
	ev, ok := r.events[eventID]
	if !ok {
		return nil, nil
	}
	ev.Discounts = discounts
	copied := *ev
	return &copied, nil
}

func (r *fakeEventRepo) UpdateRegisteredSeats(_ context.Context, eventID string, delta int) (*model.Event, error) {
	if r.beforeSeatUpdate != nil {
		r.beforeSeatUpdate()
	}
	if r.err != nil {
		return nil, r.err
	}
	ev, ok := r.events[eventID]
	if !ok {
		return nil, nil
	}
	next := ev.RegisteredSeats + delta
	if next < 0 || next > ev.TotalSeats {
		return nil, nil
	}
	ev.RegisteredSeats = next
	copied := *ev
	return &copied, nil
}

func (r *fakeEventRepo) Delete(_ context.Context, eventID string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	if _, ok := r.events[eventID]; !ok {
		return "", nil
	}
	delete(r.events, eventID)
	return eventID, nil
}

// fakePaymentRepo is an in-memory PaymentRepository keyed by user id
type fakePaymentRepo struct {
	accounts map[string]*model.PaymentAccount
	err      error
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{accounts: make(map[string]*model.PaymentAccount)}
}

func (r *fakePaymentRepo) FindAccount(_ context.Context, userID string) (*model.PaymentAccount, error) {
	if r.err != nil {
		return nil, r.err
	}
	account, ok := r.accounts[userID]
	if !ok {
		return nil, nil
	}
	copied := *account
	copied.PaymentDetails = append([]model.PaymentDetail(nil), account.PaymentDetails...)
	return &copied, nil
}

func (r *fakePaymentRepo) FindDetail(ctx context.Context, userID, eventID string) (*model.PaymentDetail, error) {
	account, err := r.FindAccount(ctx, userID)
	if err != nil || account == nil {
		return nil, err
	}
	detail := account.DetailFor(eventID)
	if detail == nil {
		return nil, nil
	}
	copied := *detail
	return &copied, nil
}

func (r *fakePaymentRepo) AppendDetail(_ context.Context, userID, userEmail string, detail model.PaymentDetail) error {
	if r.err != nil {
		return r.err
	}
	account, ok := r.accounts[userID]
	if !ok {
		account = &model.PaymentAccount{UserID: userID, UserEmail: userEmail}
		r.accounts[userID] = account
	}
	if account.DetailFor(detail.EventID) != nil {
		return apperrors.NewConflictError("user has already registered for this event")
	}
	account.UserEmail = userEmail
	account.PaymentDetails = append(account.PaymentDetails, detail)
	return nil
}

func (r *fakePaymentRepo) SetDetailStatus(_ context.Context, userID, eventID string, status model.PaymentStatus) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	account, ok := r.accounts[userID]
	if !ok {
		return false, nil
	}
	detail := account.DetailFor(eventID)
	if detail == nil {
		return false, nil
	}
	detail.Status = status
	return true, nil
}

func (r *fakePaymentRepo) ListAccountsByEvent(_ context.Context, eventID string, _, _ int) ([]*model.PaymentAccount, int64, error) {
	if r.err != nil {
		return nil, 0, r.err
	}
	userIDs := make([]string, 0, len(r.accounts))
	for id := range r.accounts {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	var out []*model.PaymentAccount
	for _, id := range userIDs {
		account := r.accounts[id]
		detail := account.DetailFor(eventID)
		if detail != nil && detail.Status == model.PaymentStatusSuccess {
			copied := *account
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakePaymentRepo) ListEmailsByEvent(ctx context.Context, eventID string) ([]string, error) {
	accounts, _, err := r.ListAccountsByEvent(ctx, eventID, 1, 1000)
	if err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(accounts))
	for _, account := range accounts {
		emails = append(emails, account.UserEmail)
	}
	return emails, nil
}

// fakeFeedbackRepo is an in-memory FeedbackRepository keyed by event id
type fakeFeedbackRepo struct {
	entries map[string][]model.UserFeedback
	err     error
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{entries: make(map[string][]model.UserFeedback)}
}

func (r *fakeFeedbackRepo) FindByEventAndUser(_ context.Context, eventID, userID string) (*model.UserFeedback, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, fb := range r.entries[eventID] {
		if fb.UserID == userID {
			copied := fb
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeFeedbackRepo) FindByID(_ context.Context, feedbackID string) (*model.UserFeedback, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, entries := range r.entries {
		for _, fb := range entries {
			if fb.FeedbackID == feedbackID {
				copied := fb
				return &copied, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeFeedbackRepo) Append(_ context.Context, eventID string, fb model.UserFeedback) error {
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.entries[eventID] {
		if existing.UserID == fb.UserID {
			return apperrors.NewConflictError("feedback already exists for this event and user")
		}
	}
	r.entries[eventID] = append(r.entries[eventID], fb)
	return nil
}

func (r *fakeFeedbackRepo) Update(_ context.Context, eventID, userID string, rating int, comment string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	entries := r.entries[eventID]
	for i := range entries {
		if entries[i].UserID == userID {
			entries[i].Rating = rating
			entries[i].Comment = comment
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFeedbackRepo) Delete(_ context.Context, eventID, userID string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	entries := r.entries[eventID]
	for i := range entries {
		if entries[i].UserID == userID {
			r.entries[eventID] = append(entries[:i], entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFeedbackRepo) ListByEvent(_ context.Context, eventID string, _, _ int) ([]model.UserFeedback, int64, error) {
	if r.err != nil {
		return nil, 0, r.err
	}
	entries := append([]model.UserFeedback(nil), r.entries[eventID]...)
	return entries, int64(len(entries)), nil
}

func (r *fakeFeedbackRepo) AverageRating(_ context.Context, eventID string) (float64, int64, error) {
	if r.err != nil {
		return 0, 0, r.err
	}
	entries := r.entries[eventID]
	if len(entries) == 0 {
		return 0, 0, nil
	}
	sum := 0
	for _, fb := range entries {
		sum += fb.Rating
	}
	return float64(sum) / float64(len(entries)), int64(len(entries)), nil
}

// fakeTxRunner runs the transaction body directly on the caller context
type fakeTxRunner struct {
	err   error
	calls int
}

func (t *fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	t.calls++
	if t.err != nil {
		return nil, t.err
	}
	return fn(ctx)
}

// recordingBus captures published notifications in order
type recordingBus struct {
	published []event.DomainEvent
	err       error
}

func (b *recordingBus) Publish(_ context.Context, evt event.DomainEvent) error {
	b.published = append(b.published, evt)
	return b.err
}

func (b *recordingBus) Subscribe(string, bus.EventHandler) {}
