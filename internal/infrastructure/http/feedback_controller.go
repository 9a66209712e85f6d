package http

import (
	"encoding/json"
	"net/http"

	"waves-events/internal/application/services"
	"waves-events/pkg/middleware"
	"waves-events/pkg/response"

	"github.com/go-chi/chi/v5"
)

// FeedbackController handles HTTP requests for event feedback
type FeedbackController struct {
	feedback *services.FeedbackService
}

// NewFeedbackController creates a new feedback controller
func NewFeedbackController(feedback *services.FeedbackService) *FeedbackController {
	return &FeedbackController{feedback: feedback}
}

type feedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// AddFeedback handles POST /feedback/{eventId}
func (c *FeedbackController) AddFeedback(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identity(r)
	if !ok {
		response.SendUnauthorized(w, r, "Authentication required")
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.SendBadRequest(w, r, "Invalid request body")
		return
	}

	entry, err := c.feedback.AddFeedback(r.Context(), chi.URLParam(r, "eventId"), userID, req.Rating, req.Comment)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	response.SendCreated(w, r, entry)
}

// UpdateFeedback handles PUT /feedback/{eventId}
func (c *FeedbackController) UpdateFeedback(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identity(r)
	if !ok {
		response.SendUnauthorized(w, r, "Authentication required")
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.SendBadRequest(w, r, "Invalid request body")
		return
	}

	entry, err := c.feedback.UpdateFeedback(r.Context(), chi.URLParam(r, "eventId"), userID, req.Rating, req.Comment)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	response.SendSuccess(w, r, entry)
}

// DeleteFeedback handles DELETE /feedback/{eventId}
func (c *FeedbackController) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identity(r)
	if !ok {
		response.SendUnauthorized(w, r, "Authentication required")
		return
	}

	feedbackID, err := c.feedback.DeleteFeedback(r.Context(), chi.URLParam(r, "eventId"), userID)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	response.SendSuccess(w, r, map[string]string{"feedbackId": feedbackID})
}

// GetMyFeedback handles GET /feedback/{eventId}/me
func (c *FeedbackController) GetMyFeedback(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identity(r)
	if !ok {
		response.SendUnauthorized(w, r, "Authentication required")
		return
	}

	entry, err := c.feedback.GetFeedbackByEventAndUser(r.Context(), chi.URLParam(r, "eventId"), userID)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	response.SendSuccess(w, r, entry)
}

// GetFeedbackByID handles GET /feedback/entry/{feedbackId}
func (c *FeedbackController) GetFeedbackByID(w http.ResponseWriter, r *http.Request) {
	entry, err := c.feedback.GetFeedbackByID(r.Context(), chi.URLParam(r, "feedbackId"))
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	response.SendSuccess(w, r, entry)
}

// ListFeedback handles GET /feedback/{eventId}
func (c *FeedbackController) ListFeedback(w http.ResponseWriter, r *http.Request) {
	page, size := parsePaging(r)
	entries, total, err := c.feedback.ListFeedbackByEvent(r.Context(), chi.URLParam(r, "eventId"), page, size)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	response.SendSuccessWithMeta(w, r, entries, pageMeta(total, page, size))
}

// GetAverageRating handles GET /feedback/{eventId}/average
func (c *FeedbackController) GetAverageRating(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	avg, err := c.feedback.GetAverageRating(r.Context(), eventID)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	response.SendSuccess(w, r, map[string]interface{}{
		"eventId":       eventID,
		"averageRating": avg,
	})
}
