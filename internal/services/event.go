package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"communityevents/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

// validateEvent enforces the field constraints shared by create and update.
// Messages name the offending field so callers can surface them directly.
func validateEvent(e *domain.Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(e.Description) == "" {
		return fmt.Errorf("%w: description is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(e.Location) == "" {
		return fmt.Errorf("%w: location is required", domain.ErrInvalidInput)
	}
	if e.StartDateTime.IsZero() || e.EndDateTime.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", domain.ErrInvalidInput)
	}
	if !e.StartDateTime.Before(e.EndDateTime) {
		return fmt.Errorf("%w: start date must be before end date", domain.ErrInvalidInput)
	}
	if !emailRegexp.MatchString(e.ContactEmail) {
		return fmt.Errorf("%w: contact email is invalid", domain.ErrInvalidInput)
	}
	if e.MaxRegistrations != nil && *e.MaxRegistrations <= 0 {
		return fmt.Errorf("%w: max registrations must be a positive integer", domain.ErrInvalidInput)
	}
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.OrganizerID == "" {
		return fmt.Errorf("%w: event organizer is required", domain.ErrInvalidInput)
	}
	if err := validateEvent(event); err != nil {
		return err
	}
	if event.Price == "" {
		event.Price = "0"
	}

	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	details, err := s.eventRepo.GetDetailsByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return details, nil
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter) ([]*domain.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// A public listing never scopes to an owner; ListMyEvents does.
	filter.OwnerID = ""
	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *eventService) ListMyEvents(ctx context.Context, ownerID string, filter domain.EventFilter) ([]*domain.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	filter.OwnerID = ownerID
	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events by owner: %w", err)
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, event *domain.Event, callerID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.eventRepo.GetByID(ctx, event.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if existing.OrganizerID != callerID {
		return nil, domain.ErrForbidden
	}
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	// Ownership and creation time never change on update.
	event.OrganizerID = existing.OrganizerID
	event.CreatedAt = existing.CreatedAt

	updated, err := s.eventRepo.Update(ctx, event)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.OrganizerID != callerID {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
