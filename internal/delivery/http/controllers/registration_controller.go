package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"communityevents/internal/delivery/http/helpers"
	"communityevents/internal/delivery/http/middleware"
	"communityevents/internal/domain"
)

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
	Users   domain.UserService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService, users domain.UserService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
		Users:   users,
	}
}

// JoinEventRequest is the request body for POST /events/{eventID}/participants.
type JoinEventRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// Validate implements helpers.Validator.
func (r *JoinEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(r.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	return errs
}

// LeaveEventRequest is the request body for DELETE /events/{eventID}/participants.
type LeaveEventRequest struct {
	Email string `json:"email"`
}

// Validate implements helpers.Validator.
func (r *LeaveEventRequest) Validate() []string {
	if strings.TrimSpace(r.Email) == "" {
		return []string{"email is required"}
	}
	return nil
}

// RegistrationSuccessResponse is the success response envelope for a registration.
type RegistrationSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// ParticipantListSuccessResponse is the success response envelope for a participant listing.
type ParticipantListSuccessResponse struct {
	Data  []*domain.Participant `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// Join godoc
// @Summary Register a participant for an event
// @Description Registers the participant, creating or refreshing their profile by email. Fails with a conflict when the participant is already registered or the event is full.
// @Tags registrations
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.JoinEventRequest true "Participant details"
// @Success 201 {object} controllers.RegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered or event full)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/participants [post]
func (c *RegistrationController) Join(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	var req JoinEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	registration, err := c.Service.Join(r.Context(), domain.JoinRequest{
		EventID:    eventID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Department: req.Department,
	})
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, registration)
}

// Leave godoc
// @Summary Remove a participant from an event
// @Description Removes the registration identified by participant email. Fails when the event does not exist or the participant is not registered.
// @Tags registrations
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.LeaveEventRequest true "Participant email"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (not registered)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/participants [delete]
func (c *RegistrationController) Leave(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	var req LeaveEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	if err := c.Service.Leave(r.Context(), eventID, req.Email); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"removed": true})
}

// GetRegistration godoc
// @Summary Look up a registration by email
// @Description Returns the registration for the given email on the event, for the event page to render its registration state. 404 when the email is not registered.
// @Tags registrations
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param email query string true "Participant email"
// @Success 200 {object} controllers.RegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registration [get]
func (c *RegistrationController) GetRegistration(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "email is required")
		return
	}

	registration, err := c.Service.GetRegistration(r.Context(), eventID, email)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, registration)
}

// ListParticipants godoc
// @Summary List an event's participants
// @Description Lists the participants registered for the event. Restricted to the owning organizer.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ParticipantListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/participants [get]
func (c *RegistrationController) ListParticipants(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	// Lookup only. A roster read must not provision a user record, and a
	// caller the provider never synced cannot own the event.
	caller, err := c.Users.GetByExternalID(r.Context(), identity.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		writeServiceError(c.Logger, w, r, err)
		return
	}

	participants, err := c.Service.ListParticipants(r.Context(), eventID, caller.ID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, participants)
}
