package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"communityevents/internal/delivery/http/helpers"
	"communityevents/internal/delivery/http/middleware"
	"communityevents/internal/domain"
)

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
	Users   domain.UserService
}

func NewEventController(logger *slog.Logger, svc domain.EventService, users domain.UserService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
		Users:   users,
	}
}

// EventRequest is the request body for POST /events and PUT /events/{eventID}.
type EventRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Location         string   `json:"location"`
	StartDateTime    string   `json:"start_date_time"`
	EndDateTime      string   `json:"end_date_time"`
	Price            string   `json:"price"`
	IsFree           bool     `json:"is_free"`
	ImageURL         string   `json:"image_url"`
	Categories       []string `json:"categories"`
	Tags             []string `json:"tags"`
	ContactEmail     string   `json:"contact_email"`
	ContactPhone     *string  `json:"contact_phone"`
	Requirements     *string  `json:"requirements"`
	MaxRegistrations *int     `json:"max_registrations"`
	IsPublished      *bool    `json:"is_published"`

	start time.Time
	end   time.Time
}

// Validate implements helpers.Validator.
func (r *EventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		errs = append(errs, "description is required")
	}
	if strings.TrimSpace(r.Location) == "" {
		errs = append(errs, "location is required")
	}
	if strings.TrimSpace(r.ContactEmail) == "" {
		errs = append(errs, "contact_email is required")
	}
	var err error
	if r.start, err = time.Parse(time.RFC3339, r.StartDateTime); err != nil {
		errs = append(errs, "start_date_time must be RFC 3339")
	}
	if r.end, err = time.Parse(time.RFC3339, r.EndDateTime); err != nil {
		errs = append(errs, "end_date_time must be RFC 3339")
	}
	if r.MaxRegistrations != nil && *r.MaxRegistrations <= 0 {
		errs = append(errs, "max_registrations must be a positive integer")
	}
	return errs
}

// toEvent builds the domain event from a validated request.
func (r *EventRequest) toEvent() *domain.Event {
	event := &domain.Event{
		Title:            strings.TrimSpace(r.Title),
		Description:      strings.TrimSpace(r.Description),
		Location:         strings.TrimSpace(r.Location),
		StartDateTime:    r.start,
		EndDateTime:      r.end,
		Price:            r.Price,
		IsFree:           r.IsFree,
		ImageURL:         r.ImageURL,
		Categories:       r.Categories,
		Tags:             r.Tags,
		ContactEmail:     strings.TrimSpace(strings.ToLower(r.ContactEmail)),
		ContactPhone:     r.ContactPhone,
		Requirements:     r.Requirements,
		MaxRegistrations: r.MaxRegistrations,
		IsPublished:      true,
	}
	if r.IsPublished != nil {
		event.IsPublished = *r.IsPublished
	}
	return event
}

// EventSuccessResponse is the success response envelope carrying one event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventListSuccessResponse is the success response envelope for event listings.
type EventListSuccessResponse struct {
	Data  []*domain.EventDetails `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// resolveOrganizer maps the authenticated identity to the local organizer
// record, provisioning it on first sight. Returns nil after writing the
// error response when resolution fails.
func (c *EventController) resolveOrganizer(w http.ResponseWriter, r *http.Request) *domain.User {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return nil
	}
	organizer, err := c.Users.ResolveOrganizer(r.Context(), *identity, domain.RoleOrganizer)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return nil
	}
	return organizer
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event owned by the authenticated organizer. The organizer record is provisioned on first sight.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.EventRequest true "Event fields"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	organizer := c.resolveOrganizer(w, r)
	if organizer == nil {
		return
	}

	event := req.toEvent()
	event.OrganizerID = organizer.ID
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// eventFilterFromQuery reads the list filter parameters from the query string.
// The draft time frame only exists on the owner's dashboard listing; allowDraft
// is false on the public listing, where unknown frames fall back to all.
func eventFilterFromQuery(r *http.Request, allowDraft bool) domain.EventFilter {
	q := r.URL.Query()
	filter := domain.EventFilter{
		Query:     strings.TrimSpace(q.Get("query")),
		Category:  strings.TrimSpace(q.Get("category")),
		Tag:       strings.TrimSpace(q.Get("tag")),
		TimeFrame: q.Get("filter"),
	}
	switch filter.TimeFrame {
	case domain.FilterUpcoming, domain.FilterPast, domain.FilterFree:
	case domain.FilterDraft:
		if !allowDraft {
			filter.TimeFrame = domain.FilterAll
		}
	default:
		filter.TimeFrame = domain.FilterAll
	}
	return filter
}

// ListEvents godoc
// @Summary List events
// @Description Lists events filtered by free-text query, category, tag, and time frame (upcoming|past|free|all). Sorted ascending by start time.
// @Tags events
// @Produce json
// @Param query query string false "Free text search over title, description, location"
// @Param category query string false "Category label"
// @Param tag query string false "Tag label"
// @Param filter query string false "upcoming | past | free | all"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListEvents(r.Context(), eventFilterFromQuery(r, false))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get one event
// @Description Returns the event with its organizer display shape, registration count, and available spots.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	details, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, details)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Replaces the event fields. Only the owning organizer may update; date ordering is re-validated.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.EventRequest true "Event fields"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	organizer := c.resolveOrganizer(w, r)
	if organizer == nil {
		return
	}

	event := req.toEvent()
	event.ID = eventID
	updated, err := c.Service.UpdateEvent(r.Context(), event, organizer.ID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, updated)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Hard-deletes the event. Only the owning organizer may delete; attachments and registrations are pruned by cascade.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	organizer := c.resolveOrganizer(w, r)
	if organizer == nil {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID, organizer.ID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ListMyEvents godoc
// @Summary List the caller's events
// @Description Lists events owned by the authenticated organizer, with the same query and filter parameters as the public listing plus filter=draft.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param query query string false "Free text search"
// @Param filter query string false "upcoming | past | free | draft | all"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /my/events [get]
func (c *EventController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	organizer := c.resolveOrganizer(w, r)
	if organizer == nil {
		return
	}
	events, err := c.Service.ListMyEvents(r.Context(), organizer.ID, eventFilterFromQuery(r, true))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}
