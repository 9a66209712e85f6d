package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"waves-events/internal/application/services"
	"waves-events/internal/domain/model"
	"waves-events/pkg/middleware"
	"waves-events/pkg/response"

	"github.com/go-chi/chi/v5"
)

// EventController handles HTTP requests for event operations
type EventController struct {
	events *services.EventService
}

// NewEventController creates a new event controller
func NewEventController(events *services.EventService) *EventController {
	return &EventController{events: events}
}

// ListEvents handles GET /events
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	page, size := parsePaging(r)
	events, total, err := c.events.ListAllEvents(r.Context(), page, size)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	sendPagedEvents(w, r, events, total, page, size)
}

// GetEvent handles GET /events/{eventId}
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := c.events.GetEventByID(r.Context(), chi.URLParam(r, "eventId"))
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	response.SendSuccess(w, r, ev)
}

// GetEventBatch handles POST /events/batch
func (c *EventController) GetEventBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EventIDs []string `json:"eventIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.SendBadRequest(w, r, "Invalid request body")
		return
	}

	events, err := c.events.GetEventByIDList(r.Context(), req.EventIDs)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	response.SendSuccess(w, r, events)
}

// ListEventsByGenre handles GET /events/genre/{genre}
func (c *EventController) ListEventsByGenre(w http.ResponseWriter, r *http.Request) {
	page, size := parsePaging(r)
	events, total, err := c.events.ListEventsByGenre(r.Context(), chi.URLParam(r, "genre"), page, size)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	sendPagedEvents(w, r, events, total, page, size)
}

// ListEventsByArtist handles GET /events/artist/{artistId}
func (c *EventController) ListEventsByArtist(w http.ResponseWriter, r *http.Request) {
	page, size := parsePaging(r)
	events, total, err := c.events.ListEventsByArtist(r.Context(), chi.URLParam(r, "artistId"), page, size)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	sendPagedEvents(w, r, events, total, page, size)
}

// ListEventsByCollaborator handles GET /events/collaborator/{artistId}
func (c *EventController) ListEventsByCollaborator(w http.ResponseWriter, r *http.Request) {
	page, size := parsePaging(r)
	events, total, err := c.events.ListEventsByCollaborator(r.Context(), chi.URLParam(r, "artistId"), page, size)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	sendPagedEvents(w, r, events, total, page, size)
}

// ListEventsByLocation handles GET /events/location?lng=&lat=&radius=
func (c *EventController) ListEventsByLocation(w http.ResponseWriter, r *http.Request) {
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if errLng != nil || errLat != nil {
		response.SendBadRequest(w, r, "lng and lat query parameters are required")
		return
	}
	radius, err := strconv.ParseFloat(r.URL.Query().Get("radius"), 64)
	if err != nil {
		response.SendBadRequest(w, r, "radius query parameter is required")
		return
	}

	page, size := parsePaging(r)
	events, total, err := c.events.ListEventsByLocation(r.Context(), []float64{lng, lat}, radius, page, size)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	sendPagedEvents(w, r, events, total, page, size)
}

// ListEventsByDateRange handles GET /events/dates?from=&to=
func (c *EventController) ListEventsByDateRange(w http.ResponseWriter, r *http.Request) {
	from, errFrom := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	to, errTo := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if errFrom != nil || errTo != nil {
		response.SendBadRequest(w, r, "from and to must be RFC 3339 timestamps")
		return
	}

	page, size := parsePaging(r)
	events, total, err := c.events.ListEventsByDateRange(r.Context(), from, to, page, size)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	sendPagedEvents(w, r, events, total, page, size)
}

// CreateEvent handles POST /events
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var ev model.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		response.SendBadRequest(w, r, "Invalid request body")
		return
	}

	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok && ev.CreatedBy == "" {
		ev.CreatedBy = userID
	}

	created, err := c.events.CreateEvent(r.Context(), &ev)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	response.SendCreated(w, r, created)
}

// UpdateEvent handles PUT /events/{eventId}. Registered users are
// notified unless notify=false.
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var patch model.EventPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.SendBadRequest(w, r, "Invalid request body")
		return
	}

	notify := r.URL.Query().Get("notify") != "false"
	updated, err := c.events.UpdateEvent(r.Context(), chi.URLParam(r, "eventId"), &patch, notify)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	response.SendSuccess(w, r, updated)
}

// UpdateCollaborators handles PUT /events/{eventId}/collaborators
func (c *EventController) UpdateCollaborators(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Collab []string `json:"eventCollab"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.SendBadRequest(w, r, "Invalid request body")
		return
	}

	updated, err := c.events.UpdateEventCollaborators(r.Context(), chi.URLParam(r, "eventId"), req.Collab)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	response.SendSuccess(w, r, updated)
}

// UpdateDiscounts handles PUT /events/{eventId}/discounts
func (c *EventController) UpdateDiscounts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Discounts []model.DiscountCode `json:"eventDiscounts"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.SendBadRequest(w, r, "Invalid request body")
		return
	}

	updated, err := c.events.UpdateEventDiscounts(r.Context(), chi.URLParam(r, "eventId"), req.Discounts)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	response.SendSuccess(w, r, updated)
}

// DeleteEvent handles DELETE /events/{eventId}
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	deletedID, err := c.events.DeleteEvent(r.Context(), chi.URLParam(r, "eventId"))
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	response.SendSuccess(w, r, map[string]string{"eventId": deletedID})
}

// parsePaging reads page/size query parameters with defaults
func parsePaging(r *http.Request) (int, int) {
	page := 1
	size := 10
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && v > 0 {
		size = v
	}
	return page, size
}

func sendPagedEvents(w http.ResponseWriter, r *http.Request, events []*model.Event, total int64, page, size int) {
	response.SendSuccessWithMeta(w, r, events, pageMeta(total, page, size))
}

func pageMeta(total int64, page, size int) *response.Meta {
	totalPages := int(total) / size
	if int(total)%size != 0 {
		totalPages++
	}
	return &response.Meta{
		Page:       page,
		Limit:      size,
		Total:      int(total),
		TotalPages: totalPages,
	}
}
