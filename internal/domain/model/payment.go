package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// PaymentStatus represents the status of a registration payment.
// Success and Cancelled are the states exercised by the registration
// flow; Pending and Failed are reserved for out-of-band payment
// capture.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusSuccess   PaymentStatus = "Success"
	PaymentStatusCancelled PaymentStatus = "Cancelled"
	PaymentStatusFailed    PaymentStatus = "Failed"
)

// PaymentDetail is one registration record for a (user, event) pair.
// Cancellation updates the status in place, details are never removed.
type PaymentDetail struct {
	EventID   string        `bson:"eventId" json:"eventId"`
	PaymentID string        `bson:"paymentId" json:"paymentId"`
	InvoiceID string        `bson:"invoiceId" json:"invoiceId"`
	Amount    float64       `bson:"amount" json:"amount"`
	Status    PaymentStatus `bson:"status" json:"status"`
}

// PaymentAccount aggregates all registration attempts of one user.
// There is exactly one account document per user, enforced by a unique
// index on userId.
type PaymentAccount struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID         string             `bson:"userId" json:"userId"`
	UserEmail      string             `bson:"userEmail" json:"userEmail"`
	PaymentDetails []PaymentDetail    `bson:"paymentDetails" json:"paymentDetails"`
}

// DetailFor returns the payment detail for the given event, or nil
func (a *PaymentAccount) DetailFor(eventID string) *PaymentDetail {
	for i := range a.PaymentDetails {
		if a.PaymentDetails[i].EventID == eventID {
			return &a.PaymentDetails[i]
		}
	}
	return nil
}

// EventIDsWithStatus returns the distinct event ids of details in the
// given status, in document order.
func (a *PaymentAccount) EventIDsWithStatus(status PaymentStatus) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, d := range a.PaymentDetails {
		if d.Status != status {
			continue
		}
		if _, ok := seen[d.EventID]; ok {
			continue
		}
		seen[d.EventID] = struct{}{}
		ids = append(ids, d.EventID)
	}
	return ids
}
