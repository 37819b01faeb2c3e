package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"communityevents/internal/domain"
)

// emailSendTimeout bounds the post-commit confirmation send, which runs
// detached from the request.
const emailSendTimeout = 30 * time.Second

type registrationService struct {
	eventRepo        domain.EventRepository
	participantRepo  domain.ParticipantRepository
	registrationRepo domain.RegistrationRepository
	emailService     domain.EmailService
	logger           *slog.Logger
	contextTimeout   time.Duration
}

// NewRegistrationService creates a RegistrationService with the given
// repositories and the email service used for confirmation messages.
func NewRegistrationService(
	eventRepo domain.EventRepository,
	participantRepo domain.ParticipantRepository,
	registrationRepo domain.RegistrationRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		eventRepo:        eventRepo,
		participantRepo:  participantRepo,
		registrationRepo: registrationRepo,
		emailService:     emailService,
		logger:           logger,
		contextTimeout:   timeout,
	}
}

func validateJoinRequest(req *domain.JoinRequest) error {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Department = strings.TrimSpace(req.Department)

	if req.EventID == "" {
		return fmt.Errorf("%w: event id is required", domain.ErrInvalidInput)
	}
	if req.FirstName == "" {
		return fmt.Errorf("%w: first name is required", domain.ErrInvalidInput)
	}
	if req.LastName == "" {
		return fmt.Errorf("%w: last name is required", domain.ErrInvalidInput)
	}
	if req.Department == "" {
		return fmt.Errorf("%w: department is required", domain.ErrInvalidInput)
	}
	if !emailRegexp.MatchString(req.Email) {
		return fmt.Errorf("%w: email is invalid", domain.ErrInvalidInput)
	}
	return nil
}

func (s *registrationService) Join(ctx context.Context, req domain.JoinRequest) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateJoinRequest(&req); err != nil {
		return nil, err
	}

	participant := domain.NewParticipant(req.FirstName, req.LastName, req.Email, req.Department)
	reg, err := s.registrationRepo.Join(ctx, req.EventID, participant)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domain.ErrAlreadyRegistered),
			errors.Is(err, domain.ErrCapacityFull):
			return nil, err
		}
		return nil, fmt.Errorf("join event: %w", err)
	}

	s.sendConfirmation(ctx, req.EventID, participant)
	return reg, nil
}

// sendConfirmation fires the confirmation email on a detached goroutine.
// Registration success never depends on delivery; failures are only logged.
func (s *registrationService) sendConfirmation(ctx context.Context, eventID string, p *domain.Participant) {
	if s.emailService == nil {
		return
	}
	details, err := s.eventRepo.GetDetailsByID(ctx, eventID)
	if err != nil {
		s.logger.Error("load event for confirmation email", "event_id", eventID, "err", err)
		return
	}
	event := details.Event
	data := &domain.RegistrationEmailData{
		Email:          p.Email,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		EventName:      event.Title,
		EventLocation:  event.Location,
		StartDateTime:  event.StartDateTime,
		EndDateTime:    event.EndDateTime,
		Price:          event.Price,
		IsFree:         event.IsFree,
		Description:    event.Description,
		Tags:           event.Tags,
		AvailableSpots: details.AvailableSpots,
	}
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), emailSendTimeout)
		defer cancel()
		if err := s.emailService.SendRegistrationConfirmation(sendCtx, data); err != nil {
			s.logger.Error("registration confirmation email failed",
				"email", data.Email, "event_id", eventID, "err", err)
		}
	}()
}

func (s *registrationService) Leave(ctx context.Context, eventID, email string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.TrimSpace(strings.ToLower(email))
	if eventID == "" {
		return fmt.Errorf("%w: event id is required", domain.ErrInvalidInput)
	}
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("%w: email is invalid", domain.ErrInvalidInput)
	}

	if err := s.registrationRepo.Leave(ctx, eventID, email); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNotRegistered):
			return err
		}
		return fmt.Errorf("leave event: %w", err)
	}
	return nil
}

// GetRegistration resolves the email to a participant and returns their
// registration for the event. An unknown email and an unregistered
// participant both come back as ErrNotFound.
func (s *registrationService) GetRegistration(ctx context.Context, eventID, email string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.TrimSpace(strings.ToLower(email))
	if eventID == "" {
		return nil, fmt.Errorf("%w: event id is required", domain.ErrInvalidInput)
	}
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("%w: email is invalid", domain.ErrInvalidInput)
	}

	participant, err := s.participantRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}

	reg, err := s.registrationRepo.GetByEventAndParticipant(ctx, eventID, participant.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return reg, nil
}

func (s *registrationService) ListParticipants(ctx context.Context, eventID, callerID string) ([]*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OrganizerID != callerID {
		return nil, domain.ErrForbidden
	}

	participants, err := s.participantRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	if participants == nil {
		participants = []*domain.Participant{}
	}
	return participants, nil
}
