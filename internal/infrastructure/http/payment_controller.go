package http

import (
	"context"
	"net/http"

	"waves-events/internal/application/services"
	"waves-events/internal/domain/model"
	"waves-events/pkg/middleware"
	"waves-events/pkg/response"

	"github.com/go-chi/chi/v5"
)

// PaymentController handles HTTP requests for event registrations.
// The acting user is always taken from the verified token, never from
// the request body.
type PaymentController struct {
	payments *services.PaymentService
}

// NewPaymentController creates a new payment controller
func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{payments: payments}
}

// Register handles POST /registrations/{eventId}
func (c *PaymentController) Register(w http.ResponseWriter, r *http.Request) {
	userID, email, ok := identity(r)
	if !ok {
		response.SendUnauthorized(w, r, "Authentication required")
		return
	}

	detail, err := c.payments.RegisterForEvent(r.Context(), userID, email, chi.URLParam(r, "eventId"))
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	response.SendCreated(w, r, detail)
}

// Cancel handles DELETE /registrations/{eventId}
func (c *PaymentController) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identity(r)
	if !ok {
		response.SendUnauthorized(w, r, "Authentication required")
		return
	}

	detail, err := c.payments.CancelRegistration(r.Context(), userID, chi.URLParam(r, "eventId"))
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	response.SendSuccess(w, r, detail)
}

// ListForEvent handles GET /registrations/event/{eventId}
func (c *PaymentController) ListForEvent(w http.ResponseWriter, r *http.Request) {
	page, size := parsePaging(r)
	userIDs, total, err := c.payments.GetRegistrationsForEvent(r.Context(), chi.URLParam(r, "eventId"), page, size)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	response.SendSuccessWithMeta(w, r, userIDs, pageMeta(total, page, size))
}

// ListMine handles GET /registrations
func (c *PaymentController) ListMine(w http.ResponseWriter, r *http.Request) {
	c.listByUser(w, r, c.payments.GetRegistrationsByUser)
}

// ListMineCancelled handles GET /registrations/cancelled
func (c *PaymentController) ListMineCancelled(w http.ResponseWriter, r *http.Request) {
	c.listByUser(w, r, c.payments.GetCancelledRegistrationsByUser)
}

// GetMineForEvent handles GET /registrations/{eventId}
func (c *PaymentController) GetMineForEvent(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identity(r)
	if !ok {
		response.SendUnauthorized(w, r, "Authentication required")
		return
	}

	detail, err := c.payments.GetRegistrationByUserAndEvent(r.Context(), userID, chi.URLParam(r, "eventId"))
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	response.SendSuccess(w, r, detail)
}

func (c *PaymentController) listByUser(
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context, userID string, page, size int) ([]*model.Event, int64, error),
) {
	userID, _, ok := identity(r)
	if !ok {
		response.SendUnauthorized(w, r, "Authentication required")
		return
	}

	page, size := parsePaging(r)
	events, total, err := list(r.Context(), userID, page, size)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	response.SendSuccessWithMeta(w, r, events, pageMeta(total, page, size))
}

// identity pulls the authenticated user id and email from the context
func identity(r *http.Request) (string, string, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok || userID == "" {
		return "", "", false
	}
	email, _ := middleware.GetEmailFromContext(r.Context())
	return userID, email, true
}
