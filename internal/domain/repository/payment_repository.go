package repository

import (
	"context"

	"waves-events/internal/domain/model"
)

// PaymentRepository provides access to per-user payment account
// documents and the payment details embedded in them.
type PaymentRepository interface {
	FindAccount(ctx context.Context, userID string) (*model.PaymentAccount, error)
	FindDetail(ctx context.Context, userID, eventID string) (*model.PaymentDetail, error)

	// AppendDetail adds a fresh payment detail to the user's account,
	// creating the account when the user has none. The write is guarded
	// so that a second detail for the same (user, event) pair can never
	// be appended; a concurrent duplicate surfaces as a conflict error.
	AppendDetail(ctx context.Context, userID, userEmail string, detail model.PaymentDetail) error

	// SetDetailStatus updates the status of the (user, event) detail in
	// place. Returns false when no matching detail exists.
	SetDetailStatus(ctx context.Context, userID, eventID string, status model.PaymentStatus) (bool, error)

	ListAccountsByEvent(ctx context.Context, eventID string, page, size int) ([]*model.PaymentAccount, int64, error)
	ListEmailsByEvent(ctx context.Context, eventID string) ([]string, error)
}
