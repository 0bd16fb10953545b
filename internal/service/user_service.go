package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medprep/medprep-backend/internal/model"
	"github.com/medprep/medprep-backend/internal/repository"
	"github.com/rs/zerolog"
)

// ErrExternalIDTaken is returned when a user create collides with an
// existing external identity.
var ErrExternalIDTaken = errors.New("external ID already registered")

// UserService manages domain users and their role sets.
type UserService struct {
	userRepo *repository.UserRepository
	log      zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		log:      log.With().Str("component", "user_service").Logger(),
	}
}

// GetOrCreate resolves the domain user for an external identity, creating
// one with an empty role set on first access. Idempotent.
func (s *UserService) GetOrCreate(ctx context.Context, externalID, displayName string) (*model.User, error) {
	existing, err := s.userRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	u := &model.User{
		ExternalID:  externalID,
		DisplayName: displayName,
		Roles:       []string{},
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		// Lost a create race: the user now exists, fetch it.
		if errors.Is(err, repository.ErrDuplicateExternalID) {
			return s.userRepo.GetByExternalID(ctx, externalID)
		}
		return nil, err
	}

	s.log.Info().Str("external_id", externalID).Msg("User created lazily")
	return u, nil
}

// GetByExternalID retrieves a user by external identity, or (nil, nil).
func (s *UserService) GetByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	return s.userRepo.GetByExternalID(ctx, externalID)
}

// HasRole reports whether the identified user carries the role.
// Unknown users carry no roles.
func (s *UserService) HasRole(ctx context.Context, externalID, role string) (bool, error) {
	u, err := s.userRepo.GetByExternalID(ctx, externalID)
	if err != nil || u == nil {
		return false, err
	}
	return u.HasRole(role), nil
}

// AddRole adds a role to a user's set. Adding a role the user already
// carries is a no-op, not an error.
func (s *UserService) AddRole(ctx context.Context, externalID, role string) (*model.User, error) {
	u, err := s.userRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	if u.HasRole(role) {
		return u, nil
	}

	u.Roles = append(u.Roles, role)
	if err := s.userRepo.UpdateRoles(ctx, u.ID, u.Roles); err != nil {
		return nil, err
	}
	return u, nil
}

// RemoveRole removes a role from a user's set. Removing an absent role is a
// no-op, not an error.
func (s *UserService) RemoveRole(ctx context.Context, externalID, role string) (*model.User, error) {
	u, err := s.userRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	kept := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		if r != role {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(u.Roles) {
		return u, nil
	}

	u.Roles = kept
	if err := s.userRepo.UpdateRoles(ctx, u.ID, u.Roles); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateMetadata replaces a user's opaque metadata bag.
func (s *UserService) UpdateMetadata(ctx context.Context, externalID string, metadata []byte) (*model.User, error) {
	u, err := s.userRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	if err := s.userRepo.UpdateMetadata(ctx, u.ID, metadata); err != nil {
		return nil, err
	}
	return s.userRepo.GetByExternalID(ctx, externalID)
}

// List retrieves all users.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

// ListAdmins retrieves all users carrying the admin role.
func (s *UserService) ListAdmins(ctx context.Context) ([]model.User, error) {
	return s.userRepo.ListAdmins(ctx)
}

// Create inserts a user explicitly (admin management path). The external
// identity must be unused.
func (s *UserService) Create(ctx context.Context, u *model.User) error {
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateExternalID) {
			return ErrExternalIDTaken
		}
		return err
	}
	return nil
}

// Update replaces a user's display name, roles, and metadata.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, displayName string, roles []string, metadata []byte) (*model.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	u.DisplayName = displayName
	u.Roles = roles
	if u.Roles == nil {
		u.Roles = []string{}
	}
	u.Metadata = metadata
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes a user by ID.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	return s.userRepo.Delete(ctx, id)
}
