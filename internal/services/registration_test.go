package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communityevents/internal/domain"
)

// fakeRegistrationRepo records the last join and returns canned results.
type fakeRegistrationRepo struct {
	joinErr   error
	leaveErr  error
	getErr    error
	getResult *domain.Registration
	lastJoin  *domain.Participant
	lastEvent string
}

func (f *fakeRegistrationRepo) Join(ctx context.Context, eventID string, p *domain.Participant) (*domain.Registration, error) {
	if f.joinErr != nil {
		return nil, f.joinErr
	}
	f.lastJoin = p
	f.lastEvent = eventID
	p.ID = "participant-1"
	return &domain.Registration{
		ID:            "reg-1",
		EventID:       eventID,
		ParticipantID: p.ID,
		Status:        domain.RegistrationConfirmed,
		PaymentStatus: domain.PaymentUnpaid,
	}, nil
}

func (f *fakeRegistrationRepo) Leave(ctx context.Context, eventID, email string) error {
	return f.leaveErr
}

func (f *fakeRegistrationRepo) GetByEventAndParticipant(ctx context.Context, eventID, participantID string) (*domain.Registration, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getResult != nil {
		return f.getResult, nil
	}
	return nil, domain.ErrNotFound
}

type fakeParticipantRepo struct {
	byEmail map[string]*domain.Participant
	byEvent map[string][]*domain.Participant
	err     error
}

func (f *fakeParticipantRepo) GetByEmail(ctx context.Context, email string) (*domain.Participant, error) {
	if p, ok := f.byEmail[email]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeParticipantRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Participant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byEvent[eventID], nil
}

// fakeEmailService signals each send on a channel so tests can wait for the
// detached confirmation goroutine.
type fakeEmailService struct {
	sent chan *domain.RegistrationEmailData
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{sent: make(chan *domain.RegistrationEmailData, 1)}
}

func (f *fakeEmailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationEmailData) error {
	f.sent <- data
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func joinRequest(eventID string) domain.JoinRequest {
	return domain.JoinRequest{
		EventID:    eventID,
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "Ada@Example.com",
		Department: "Engineering",
	}
}

func TestRegistrationService_Join(t *testing.T) {
	ctx := context.Background()

	t.Run("success normalizes email and sends confirmation", func(t *testing.T) {
		events := newFakeEventRepo()
		e := validEvent("org-1")
		require.NoError(t, events.Create(ctx, e))

		regs := &fakeRegistrationRepo{}
		emails := newFakeEmailService()
		svc := NewRegistrationService(events, &fakeParticipantRepo{}, regs, emails, testLogger(), time.Second)

		reg, err := svc.Join(ctx, joinRequest(e.ID))
		require.NoError(t, err)
		assert.Equal(t, "reg-1", reg.ID)
		assert.Equal(t, domain.RegistrationConfirmed, reg.Status)
		require.NotNil(t, regs.lastJoin)
		assert.Equal(t, "ada@example.com", regs.lastJoin.Email)

		select {
		case data := <-emails.sent:
			assert.Equal(t, "ada@example.com", data.Email)
			assert.Equal(t, e.Title, data.EventName)
		case <-time.After(time.Second):
			t.Fatal("confirmation email was never sent")
		}
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(req *domain.JoinRequest)
		}{
			{"missing event id", func(req *domain.JoinRequest) { req.EventID = "" }},
			{"missing first name", func(req *domain.JoinRequest) { req.FirstName = " " }},
			{"missing last name", func(req *domain.JoinRequest) { req.LastName = "" }},
			{"missing department", func(req *domain.JoinRequest) { req.Department = "" }},
			{"bad email", func(req *domain.JoinRequest) { req.Email = "nope" }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				regs := &fakeRegistrationRepo{}
				svc := NewRegistrationService(newFakeEventRepo(), &fakeParticipantRepo{}, regs, nil, testLogger(), time.Second)

				req := joinRequest("ev-1")
				tt.mutate(&req)

				_, err := svc.Join(ctx, req)
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				assert.Nil(t, regs.lastJoin)
			})
		}
	})

	t.Run("repository outcomes pass through", func(t *testing.T) {
		for _, wantErr := range []error{domain.ErrNotFound, domain.ErrAlreadyRegistered, domain.ErrCapacityFull} {
			regs := &fakeRegistrationRepo{joinErr: wantErr}
			svc := NewRegistrationService(newFakeEventRepo(), &fakeParticipantRepo{}, regs, nil, testLogger(), time.Second)

			_, err := svc.Join(ctx, joinRequest("ev-1"))
			require.ErrorIs(t, err, wantErr)
		}
	})

	t.Run("no email service configured", func(t *testing.T) {
		events := newFakeEventRepo()
		e := validEvent("org-1")
		require.NoError(t, events.Create(ctx, e))

		svc := NewRegistrationService(events, &fakeParticipantRepo{}, &fakeRegistrationRepo{}, nil, testLogger(), time.Second)

		_, err := svc.Join(ctx, joinRequest(e.ID))
		require.NoError(t, err)
	})
}

func TestRegistrationService_Leave(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		eventID  string
		email    string
		leaveErr error
		wantErr  error
	}{
		{name: "success", eventID: "ev-1", email: "Ada@Example.com"},
		{name: "missing event id", eventID: "", email: "ada@example.com", wantErr: domain.ErrInvalidInput},
		{name: "bad email", eventID: "ev-1", email: "nope", wantErr: domain.ErrInvalidInput},
		{name: "unknown participant", eventID: "ev-1", email: "ada@example.com", leaveErr: domain.ErrNotFound, wantErr: domain.ErrNotFound},
		{name: "not registered", eventID: "ev-1", email: "ada@example.com", leaveErr: domain.ErrNotRegistered, wantErr: domain.ErrNotRegistered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			regs := &fakeRegistrationRepo{leaveErr: tt.leaveErr}
			svc := NewRegistrationService(newFakeEventRepo(), &fakeParticipantRepo{}, regs, nil, testLogger(), time.Second)

			err := svc.Leave(ctx, tt.eventID, tt.email)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRegistrationService_GetRegistration(t *testing.T) {
	ctx := context.Background()

	ada := domain.NewParticipant("Ada", "Lovelace", "ada@example.com", "Engineering")
	ada.ID = "participant-1"

	t.Run("returns the registration and normalizes email", func(t *testing.T) {
		regs := &fakeRegistrationRepo{getResult: &domain.Registration{
			ID:            "reg-1",
			EventID:       "ev-1",
			ParticipantID: ada.ID,
			Status:        domain.RegistrationConfirmed,
		}}
		participants := &fakeParticipantRepo{byEmail: map[string]*domain.Participant{ada.Email: ada}}
		svc := NewRegistrationService(newFakeEventRepo(), participants, regs, nil, testLogger(), time.Second)

		reg, err := svc.GetRegistration(ctx, "ev-1", "Ada@Example.com")
		require.NoError(t, err)
		assert.Equal(t, "reg-1", reg.ID)
		assert.Equal(t, ada.ID, reg.ParticipantID)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc := NewRegistrationService(newFakeEventRepo(), &fakeParticipantRepo{}, &fakeRegistrationRepo{}, nil, testLogger(), time.Second)
		_, err := svc.GetRegistration(ctx, "ev-1", "nobody@example.com")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("participant not registered for the event", func(t *testing.T) {
		participants := &fakeParticipantRepo{byEmail: map[string]*domain.Participant{ada.Email: ada}}
		svc := NewRegistrationService(newFakeEventRepo(), participants, &fakeRegistrationRepo{}, nil, testLogger(), time.Second)

		_, err := svc.GetRegistration(ctx, "ev-1", ada.Email)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("validation failures", func(t *testing.T) {
		svc := NewRegistrationService(newFakeEventRepo(), &fakeParticipantRepo{}, &fakeRegistrationRepo{}, nil, testLogger(), time.Second)

		_, err := svc.GetRegistration(ctx, "", "ada@example.com")
		require.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = svc.GetRegistration(ctx, "ev-1", "nope")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestRegistrationService_ListParticipants(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, participants []*domain.Participant) (domain.RegistrationService, *domain.Event) {
		events := newFakeEventRepo()
		e := validEvent("org-1")
		require.NoError(t, events.Create(ctx, e))

		participantRepo := &fakeParticipantRepo{byEvent: map[string][]*domain.Participant{e.ID: participants}}
		svc := NewRegistrationService(events, participantRepo, &fakeRegistrationRepo{}, nil, testLogger(), time.Second)
		return svc, e
	}

	t.Run("owner lists participants", func(t *testing.T) {
		expected := []*domain.Participant{domain.NewParticipant("Ada", "Lovelace", "ada@example.com", "Engineering")}
		svc, e := setup(t, expected)

		participants, err := svc.ListParticipants(ctx, e.ID, "org-1")
		require.NoError(t, err)
		require.Len(t, participants, 1)
		assert.Equal(t, "ada@example.com", participants[0].Email)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		svc, e := setup(t, nil)
		_, err := svc.ListParticipants(ctx, e.ID, "org-2")
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown event", func(t *testing.T) {
		svc, _ := setup(t, nil)
		_, err := svc.ListParticipants(ctx, "missing", "org-1")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("empty list is non-nil", func(t *testing.T) {
		svc, e := setup(t, nil)
		participants, err := svc.ListParticipants(ctx, e.ID, "org-1")
		require.NoError(t, err)
		require.NotNil(t, participants)
		assert.Empty(t, participants)
	})
}
