package domain

import (
	"context"
	"time"
)

// Participant is a registrant identified by email, independent of the
// organizer account system. JoinedEventIDs has set semantics: an event id
// appears at most once.
// swagger:model Participant
type Participant struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Department     string    `json:"department"`
	JoinedEventIDs []string  `json:"joined_event_ids"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewParticipant returns a new Participant. ID is set by the repository on
// first join.
func NewParticipant(firstName, lastName, email, department string) *Participant {
	now := time.Now()
	return &Participant{
		FirstName:  firstName,
		LastName:   lastName,
		Email:      email,
		Department: department,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ParticipantRepository defines read access to the participant registry.
// Writes go through RegistrationRepository so they commit atomically with the
// event attachment.
type ParticipantRepository interface {
	GetByEmail(ctx context.Context, email string) (*Participant, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Participant, error)
}
