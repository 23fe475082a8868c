package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"inkwell/api/internal/apperr"
	"inkwell/api/internal/models"
	"inkwell/api/internal/repository"
	"inkwell/api/internal/security"
)

// CreatorService owns account administration: creation, profile updates,
// promotion, demotion, and locking.
type CreatorService struct {
	creators CreatorStore
	log      zerolog.Logger
}

func NewCreatorService(creators CreatorStore, log zerolog.Logger) *CreatorService {
	return &CreatorService{creators: creators, log: log}
}

type NewCreatorInput struct {
	Username    string
	DisplayName string
	Password    string
	AsPublisher bool
}

// NewCreator creates an account with a freshly hashed password. Publisher
// access required.
func (s *CreatorService) NewCreator(ctx context.Context, claims *security.Claims, input NewCreatorInput) (models.Creator, error) {
	if !claims.Admin {
		return models.Creator{}, apperr.Unauthorized("this action requires publisher access")
	}
	if input.Username == "" || input.Password == "" {
		return models.Creator{}, apperr.BadRequest("username and password are required")
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.Creator{}, apperr.Internal("hash password", err)
	}

	role := models.CreatorRoleWriter
	if input.AsPublisher {
		role = models.CreatorRolePublisher
	}

	creator := models.Creator{
		Username:    input.Username,
		DisplayName: input.DisplayName,
		Password:    hash,
		Biography:   "Empty biography.",
		Role:        role,
	}

	if err := s.creators.Create(ctx, creator); err != nil {
		if errors.Is(err, repository.ErrCreatorExists) {
			return models.Creator{}, apperr.Conflict("username already exists")
		}
		return models.Creator{}, apperr.Internal("save creator", err)
	}

	s.log.Info().Str("username", input.Username).Str("by", claims.Subject).Msg("creator created")
	return creator, nil
}

type UpdateProfileInput struct {
	DisplayName *string
	Biography   *string
}

// UpdateProfile updates the caller's own profile. Unspecified fields keep
// their current values.
func (s *CreatorService) UpdateProfile(ctx context.Context, claims *security.Claims, input UpdateProfileInput) error {
	creator, err := s.creators.GetByUsername(ctx, claims.Subject)
	if err != nil {
		return apperr.Internal("look up creator", err)
	}

	displayName := creator.DisplayName
	if input.DisplayName != nil {
		displayName = *input.DisplayName
	}
	biography := creator.Biography
	if input.Biography != nil {
		biography = *input.Biography
	}

	if err := s.creators.UpdateProfile(ctx, claims.Subject, displayName, biography); err != nil {
		return apperr.Internal("update profile", err)
	}
	return nil
}

func (s *CreatorService) Promote(ctx context.Context, claims *security.Claims, username string) error {
	if !claims.Admin {
		return apperr.Unauthorized("this action requires publisher access")
	}
	return s.setRole(ctx, username, models.CreatorRolePublisher)
}

func (s *CreatorService) Demote(ctx context.Context, claims *security.Claims, username string) error {
	if !claims.Admin {
		return apperr.Unauthorized("this action requires publisher access")
	}
	if claims.Subject == username {
		return apperr.BadRequest("you cannot revoke your own publisher access")
	}
	return s.setRole(ctx, username, models.CreatorRoleWriter)
}

func (s *CreatorService) setRole(ctx context.Context, username string, role models.CreatorRole) error {
	if err := s.creators.UpdateRole(ctx, username, role); err != nil {
		if errors.Is(err, repository.ErrCreatorNotFound) {
			return apperr.NotFound("no such user")
		}
		return apperr.Internal("update role", err)
	}
	return nil
}

// Lock disables login for an account by replacing its password hash with
// the sentinel. Locking an already-locked account is a no-op.
func (s *CreatorService) Lock(ctx context.Context, claims *security.Claims, username string) error {
	if !claims.Admin {
		return apperr.Unauthorized("this action requires publisher access")
	}
	if claims.Subject == username {
		return apperr.BadRequest("you cannot lock your own account")
	}

	if err := s.creators.UpdatePassword(ctx, username, models.LockedPassword); err != nil {
		if errors.Is(err, repository.ErrCreatorNotFound) {
			return apperr.NotFound("no such user")
		}
		return apperr.Internal("lock creator", err)
	}

	s.log.Info().Str("username", username).Str("by", claims.Subject).Msg("account locked")
	return nil
}

func (s *CreatorService) Get(ctx context.Context, username string) (models.Creator, error) {
	creator, err := s.creators.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrCreatorNotFound) {
			return models.Creator{}, apperr.NotFound("no such user")
		}
		return models.Creator{}, apperr.Internal("look up creator", err)
	}
	return creator, nil
}

func (s *CreatorService) List(ctx context.Context) ([]models.Creator, error) {
	creators, err := s.creators.GetAll(ctx)
	if err != nil {
		return nil, apperr.Internal("list creators", err)
	}
	return creators, nil
}
