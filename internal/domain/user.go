package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// Application roles.
const (
	RoleUser      = "user"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// User is the local record mirroring an identity-provider account. It is the
// organizer identity for event ownership.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	ExternalID   string    `json:"external_id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Photo        string    `json:"photo,omitempty"`
	Organization string    `json:"organization"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is set by the
// repository on create.
func NewUser(externalID, email, firstName, lastName, photo, organization, role string) *User {
	now := time.Now()
	return &User{
		ExternalID:   externalID,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		Photo:        photo,
		Organization: organization,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Identity is what the identity provider asserts about a caller: a stable
// subject id plus profile attributes.
type Identity struct {
	SubjectID string
	Email     string
	FirstName string
	LastName  string
	PhotoURL  string
}

// TokenVerifier verifies an identity-provider token and returns the asserted
// identity.
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}

// UserRepository defines the interface for user storage.
// GetOrCreate and Upsert are single atomic statements keyed on the external
// id: concurrent first-time callers for the same identity observe exactly one
// record.
type UserRepository interface {
	// GetOrCreate inserts the user if no record exists for its external id
	// and returns the stored record either way. An existing record is
	// returned untouched.
	GetOrCreate(ctx context.Context, user *User) (*User, error)
	// Upsert inserts or overwrites the profile attributes for the user's
	// external id and returns the stored record.
	Upsert(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
	DeleteByExternalID(ctx context.Context, externalID string) error
}

// UserService resolves caller identities to local organizer records and
// mirrors identity-provider account changes.
type UserService interface {
	// ResolveOrganizer maps the identity to a local user, provisioning one
	// with the given default role on first sight.
	ResolveOrganizer(ctx context.Context, identity Identity, defaultRole string) (*User, error)
	// SyncUser applies a created/updated notification from the provider.
	SyncUser(ctx context.Context, identity Identity) (*User, error)
	// RemoveUser applies a deleted notification from the provider.
	RemoveUser(ctx context.Context, externalID string) error
	GetByID(ctx context.Context, id string) (*User, error)
	// GetByExternalID is the lookup-only counterpart of ResolveOrganizer for
	// read paths that must not provision a record.
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
}
