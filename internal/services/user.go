package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"communityevents/internal/domain"
)

const defaultOrganization = "New Organizer"

type userService struct {
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

// NewUserService creates a UserService backed by the given user repository.
func NewUserService(userRepo domain.UserRepository, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

// organizationLabel derives the default organization for a freshly
// provisioned user.
func organizationLabel(firstName string) string {
	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		return defaultOrganization
	}
	return fmt.Sprintf("%s's Events", firstName)
}

func (s *userService) ResolveOrganizer(ctx context.Context, identity domain.Identity, defaultRole string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if identity.SubjectID == "" {
		return nil, fmt.Errorf("%w: missing subject id", domain.ErrInvalidInput)
	}
	if defaultRole == "" {
		defaultRole = domain.RoleUser
	}

	candidate := domain.NewUser(
		identity.SubjectID,
		identity.Email,
		identity.FirstName,
		identity.LastName,
		identity.PhotoURL,
		organizationLabel(identity.FirstName),
		defaultRole,
	)
	user, err := s.userRepo.GetOrCreate(ctx, candidate)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("get or create user: %w", err)
	}
	return user, nil
}

func (s *userService) SyncUser(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if identity.SubjectID == "" {
		return nil, fmt.Errorf("%w: missing subject id", domain.ErrInvalidInput)
	}

	candidate := domain.NewUser(
		identity.SubjectID,
		identity.Email,
		identity.FirstName,
		identity.LastName,
		identity.PhotoURL,
		organizationLabel(identity.FirstName),
		domain.RoleUser,
	)
	user, err := s.userRepo.Upsert(ctx, candidate)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return user, nil
}

func (s *userService) RemoveUser(ctx context.Context, externalID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if externalID == "" {
		return fmt.Errorf("%w: missing subject id", domain.ErrInvalidInput)
	}
	if err := s.userRepo.DeleteByExternalID(ctx, externalID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if externalID == "" {
		return nil, fmt.Errorf("%w: missing subject id", domain.ErrInvalidInput)
	}
	user, err := s.userRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by external id: %w", err)
	}
	return user, nil
}
