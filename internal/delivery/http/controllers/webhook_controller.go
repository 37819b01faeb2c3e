package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"communityevents/internal/delivery/http/helpers"
	"communityevents/internal/domain"
)

// maxWebhookBody bounds the identity webhook payload size.
const maxWebhookBody = 1 << 20

type WebhookController struct {
	Logger *slog.Logger
	Users  domain.UserService
	Secret string
}

func NewWebhookController(logger *slog.Logger, users domain.UserService, secret string) *WebhookController {
	return &WebhookController{
		Logger: logger,
		Users:  users,
		Secret: secret,
	}
}

// identityWebhookEvent is the envelope the identity provider posts on user
// lifecycle changes.
type identityWebhookEvent struct {
	Type string              `json:"type"`
	Data identityWebhookUser `json:"data"`
}

type identityWebhookUser struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

func (u identityWebhookUser) primaryEmail() string {
	if len(u.EmailAddresses) == 0 {
		return ""
	}
	return u.EmailAddresses[0].EmailAddress
}

// verifySignature checks the webhook signature headers against the shared
// secret. The signed content is "{id}.{timestamp}.{body}" and the signature
// header carries space-separated "v1,<base64>" entries.
func (c *WebhookController) verifySignature(r *http.Request, body []byte) bool {
	id := r.Header.Get("webhook-id")
	timestamp := r.Header.Get("webhook-timestamp")
	signatures := r.Header.Get("webhook-signature")
	if id == "" || timestamp == "" || signatures == "" {
		return false
	}

	secret := strings.TrimPrefix(c.Secret, "whsec_")
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		key = []byte(secret)
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(id + "." + timestamp + "."))
	mac.Write(body)
	expected := mac.Sum(nil)

	for _, candidate := range strings.Fields(signatures) {
		_, sig, found := strings.Cut(candidate, ",")
		if !found {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			return true
		}
	}
	return false
}

// HandleIdentityEvent godoc
// @Summary Receive identity provider webhooks
// @Description Syncs the local user store from signed user.created, user.updated, and user.deleted events.
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized (bad signature)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /webhooks/identity [post]
func (c *WebhookController) HandleIdentityEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unable to read request body")
		return
	}
	if !c.verifySignature(r, body) {
		c.Logger.Warn("identity webhook signature rejected")
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid webhook signature")
		return
	}

	var event identityWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "malformed webhook payload")
		return
	}
	if event.Data.ID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing user id")
		return
	}

	switch event.Type {
	case "user.created", "user.updated":
		identity := domain.Identity{
			SubjectID: event.Data.ID,
			Email:     event.Data.primaryEmail(),
			FirstName: event.Data.FirstName,
			LastName:  event.Data.LastName,
			PhotoURL:  event.Data.ImageURL,
		}
		if _, err := c.Users.SyncUser(r.Context(), identity); err != nil {
			writeServiceError(c.Logger, w, r, err)
			return
		}
	case "user.deleted":
		if err := c.Users.RemoveUser(r.Context(), event.Data.ID); err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			writeServiceError(c.Logger, w, r, err)
			return
		}
	default:
		c.Logger.Debug("ignoring identity webhook event", "type", event.Type)
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"received": true})
}
