package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors shared across repositories and services.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

// Event represents a community event owned by an organizer.
// swagger:model Event
type Event struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	StartDateTime time.Time `json:"start_date_time"`
	EndDateTime   time.Time `json:"end_date_time"`
	// Price is a decimal carried as a string; "0" together with IsFree
	// marks a free event.
	Price        string   `json:"price"`
	IsFree       bool     `json:"is_free"`
	ImageURL     string   `json:"image_url"`
	Categories   []string `json:"categories"`
	Tags         []string `json:"tags"`
	ContactEmail string   `json:"contact_email"`
	ContactPhone *string  `json:"contact_phone,omitempty"`
	Requirements *string  `json:"requirements,omitempty"`
	// MaxRegistrations is nil for unlimited capacity.
	MaxRegistrations *int      `json:"max_registrations,omitempty"`
	IsPublished      bool      `json:"is_published"`
	OrganizerID      string    `json:"organizer_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with the given core fields. ID is set by the
// repository on create.
func NewEvent(title, description, location string, start, end time.Time, ownerID string) *Event {
	now := time.Now()
	return &Event{
		Title:         title,
		Description:   description,
		Location:      location,
		StartDateTime: start,
		EndDateTime:   end,
		OrganizerID:   ownerID,
		Price:         "0",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// OrganizerSummary is the display shape an event resolves its owner to.
// swagger:model OrganizerSummary
type OrganizerSummary struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Organization string `json:"organization"`
}

// EventDetails bundles an event with its resolved organizer and capacity
// figures. AvailableSpots is nil when capacity is unlimited.
// swagger:model EventDetails
type EventDetails struct {
	Event             *Event            `json:"event"`
	Organizer         *OrganizerSummary `json:"organizer"`
	RegistrationCount int               `json:"registration_count"`
	AvailableSpots    *int              `json:"available_spots,omitempty"`
}

// Temporal filters accepted by event listings.
const (
	FilterAll      = "all"
	FilterUpcoming = "upcoming"
	FilterPast     = "past"
	FilterFree     = "free"
	FilterDraft    = "draft"
)

// EventFilter narrows event listings. Zero values mean "no constraint".
type EventFilter struct {
	Query     string
	Category  string
	Tag       string
	TimeFrame string
	OwnerID   string
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetDetailsByID(ctx context.Context, id string) (*EventDetails, error)
	List(ctx context.Context, filter EventFilter) ([]*EventDetails, error)
	Update(ctx context.Context, event *Event) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for organizer-facing event management.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, eventID string) (*EventDetails, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]*EventDetails, error)
	ListMyEvents(ctx context.Context, ownerID string, filter EventFilter) ([]*EventDetails, error)
	UpdateEvent(ctx context.Context, event *Event, callerID string) (*Event, error)
	DeleteEvent(ctx context.Context, eventID, callerID string) error
}

// TaxonomyRepository lists the category and tag labels currently in use.
type TaxonomyRepository interface {
	ListCategories(ctx context.Context) ([]string, error)
	ListTags(ctx context.Context) ([]string, error)
}
