package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for registration operations.
var (
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrCapacityFull      = errors.New("event capacity reached")
	ErrNotRegistered     = errors.New("not registered for this event")
)

// Registration statuses.
const (
	RegistrationPending    = "pending"
	RegistrationConfirmed  = "confirmed"
	RegistrationCancelled  = "cancelled"
	RegistrationWaitlisted = "waitlisted"
)

// Payment statuses.
const (
	PaymentUnpaid   = "unpaid"
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Registration is the status-tracked join record between a participant and an
// event. The (event, participant) pair is unique.
// swagger:model Registration
type Registration struct {
	ID            string         `json:"id"`
	EventID       string         `json:"event_id"`
	ParticipantID string         `json:"participant_id"`
	Status        string         `json:"status"`
	PaymentStatus string         `json:"payment_status"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	RegisteredAt  time.Time      `json:"registered_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// JoinRequest carries the join form fields for one event.
type JoinRequest struct {
	EventID    string
	FirstName  string
	LastName   string
	Email      string
	Department string
}

// RegistrationRepository defines storage operations for registrations. Join
// and Leave mutate the participant registry and the event attachment set in
// one storage-level transaction; the capacity check and the duplicate check
// are enforced there, not by a prior read.
type RegistrationRepository interface {
	// Join upserts the participant keyed on email, attaches them to the
	// event, and creates the registration record. Returns
	// ErrNotFound (no such event), ErrAlreadyRegistered, or ErrCapacityFull.
	Join(ctx context.Context, eventID string, participant *Participant) (*Registration, error)
	// Leave detaches the participant identified by email from the event and
	// removes the registration record. Returns ErrNotFound (no such
	// participant) or ErrNotRegistered.
	Leave(ctx context.Context, eventID, email string) error
	GetByEventAndParticipant(ctx context.Context, eventID, participantID string) (*Registration, error)
}

// RegistrationService orchestrates the join/leave workflow.
type RegistrationService interface {
	Join(ctx context.Context, req JoinRequest) (*Registration, error)
	Leave(ctx context.Context, eventID, email string) error
	// GetRegistration looks up the registration for the email on the event.
	// Returns ErrNotFound when the email has none.
	GetRegistration(ctx context.Context, eventID, email string) (*Registration, error)
	// ListParticipants returns the event roster; owner only.
	ListParticipants(ctx context.Context, eventID, callerID string) ([]*Participant, error)
}
