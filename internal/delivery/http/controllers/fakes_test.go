package controllers

import (
	"context"
	"io"
	"log/slog"

	"communityevents/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const testEventID = "4f9d2c1a-7b3e-4d5f-9a8b-1c2d3e4f5a6b"

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	createEventErr  error
	getEventErr     error
	getEventResult  *domain.EventDetails
	listEventsErr   error
	listEventsOut   []*domain.EventDetails
	updateEventErr  error
	updateEventOut  *domain.Event
	deleteEventErr  error
	lastCreateEvent *domain.Event
	lastListFilter  domain.EventFilter
	lastListOwnerID string
	lastUpdateEvent *domain.Event
	lastCallerID    string
	lastDeleteID    string
}

func (f *fakeEventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	f.lastCreateEvent = event
	if f.createEventErr != nil {
		return f.createEventErr
	}
	event.ID = "ev-created"
	return nil
}

func (f *fakeEventService) GetEvent(ctx context.Context, eventID string) (*domain.EventDetails, error) {
	if f.getEventErr != nil {
		return nil, f.getEventErr
	}
	return f.getEventResult, nil
}

func (f *fakeEventService) ListEvents(ctx context.Context, filter domain.EventFilter) ([]*domain.EventDetails, error) {
	f.lastListFilter = filter
	if f.listEventsErr != nil {
		return nil, f.listEventsErr
	}
	return f.listEventsOut, nil
}

func (f *fakeEventService) ListMyEvents(ctx context.Context, ownerID string, filter domain.EventFilter) ([]*domain.EventDetails, error) {
	f.lastListOwnerID = ownerID
	f.lastListFilter = filter
	if f.listEventsErr != nil {
		return nil, f.listEventsErr
	}
	return f.listEventsOut, nil
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, event *domain.Event, callerID string) (*domain.Event, error) {
	f.lastUpdateEvent = event
	f.lastCallerID = callerID
	if f.updateEventErr != nil {
		return nil, f.updateEventErr
	}
	if f.updateEventOut != nil {
		return f.updateEventOut, nil
	}
	return event, nil
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, eventID, callerID string) error {
	f.lastDeleteID = eventID
	f.lastCallerID = callerID
	return f.deleteEventErr
}

// fakeUserService resolves every identity to a fixed local user.
type fakeUserService struct {
	resolveErr  error
	resolveUser *domain.User
	syncErr     error
	syncedWith  *domain.Identity
	removeErr   error
	removedID   string
	lastRole    string
	lookupErr   error
	lookupUser  *domain.User
	lookedUpID  string
}

func (f *fakeUserService) ResolveOrganizer(ctx context.Context, identity domain.Identity, defaultRole string) (*domain.User, error) {
	f.lastRole = defaultRole
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	if f.resolveUser != nil {
		return f.resolveUser, nil
	}
	return &domain.User{ID: "user-1", ExternalID: identity.SubjectID, Role: defaultRole}, nil
}

func (f *fakeUserService) SyncUser(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	f.syncedWith = &identity
	if f.syncErr != nil {
		return nil, f.syncErr
	}
	return &domain.User{ID: "user-1", ExternalID: identity.SubjectID}, nil
}

func (f *fakeUserService) RemoveUser(ctx context.Context, externalID string) error {
	f.removedID = externalID
	return f.removeErr
}

func (f *fakeUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserService) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	f.lookedUpID = externalID
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if f.lookupUser != nil {
		return f.lookupUser, nil
	}
	return &domain.User{ID: "user-1", ExternalID: externalID}, nil
}

// fakeRegistrationService implements domain.RegistrationService for handler tests.
type fakeRegistrationService struct {
	joinErr          error
	joinResult       *domain.Registration
	leaveErr         error
	listErr          error
	listResult       []*domain.Participant
	lastJoinRequest  *domain.JoinRequest
	lastLeaveEventID string
	lastLeaveEmail   string
	lastListEventID  string
	lastListCallerID string
	getErr           error
	getResult        *domain.Registration
	lastGetEventID   string
	lastGetEmail     string
}

func (f *fakeRegistrationService) Join(ctx context.Context, req domain.JoinRequest) (*domain.Registration, error) {
	f.lastJoinRequest = &req
	if f.joinErr != nil {
		return nil, f.joinErr
	}
	if f.joinResult != nil {
		return f.joinResult, nil
	}
	return &domain.Registration{
		ID:            "reg-1",
		EventID:       req.EventID,
		ParticipantID: "participant-1",
		Status:        domain.RegistrationConfirmed,
		PaymentStatus: domain.PaymentUnpaid,
	}, nil
}

func (f *fakeRegistrationService) Leave(ctx context.Context, eventID, email string) error {
	f.lastLeaveEventID = eventID
	f.lastLeaveEmail = email
	return f.leaveErr
}

func (f *fakeRegistrationService) GetRegistration(ctx context.Context, eventID, email string) (*domain.Registration, error) {
	f.lastGetEventID = eventID
	f.lastGetEmail = email
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getResult != nil {
		return f.getResult, nil
	}
	return &domain.Registration{
		ID:            "reg-1",
		EventID:       eventID,
		ParticipantID: "participant-1",
		Status:        domain.RegistrationConfirmed,
		PaymentStatus: domain.PaymentUnpaid,
	}, nil
}

func (f *fakeRegistrationService) ListParticipants(ctx context.Context, eventID, callerID string) ([]*domain.Participant, error) {
	f.lastListEventID = eventID
	f.lastListCallerID = callerID
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.listResult == nil {
		return []*domain.Participant{}, nil
	}
	return f.listResult, nil
}

// fakeTaxonomyRepo implements domain.TaxonomyRepository.
type fakeTaxonomyRepo struct {
	categories []string
	tags       []string
	err        error
}

func (f *fakeTaxonomyRepo) ListCategories(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

func (f *fakeTaxonomyRepo) ListTags(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tags, nil
}
