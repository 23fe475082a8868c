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

// AuthService owns login, password changes, and session re-validation.
type AuthService struct {
	creators CreatorStore
	tokens   *security.TokenService
	log      zerolog.Logger
}

func NewAuthService(creators CreatorStore, tokens *security.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{
		creators: creators,
		tokens:   tokens,
		log:      log,
	}
}

// Login verifies credentials and issues a session token. A locked account
// is rejected before any hash verification, with its own message.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, models.Creator, error) {
	creator, err := s.creators.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrCreatorNotFound) {
			return "", models.Creator{}, apperr.Unauthorized("no such user")
		}
		return "", models.Creator{}, apperr.Internal("look up creator", err)
	}

	if creator.IsLocked() {
		return "", models.Creator{}, apperr.Unauthorized("this account is locked; contact your publisher to unlock it")
	}

	ok, err := security.VerifyPassword(password, creator.Password)
	if err != nil {
		return "", models.Creator{}, apperr.Internal("verify password", err)
	}
	if !ok {
		return "", models.Creator{}, apperr.Unauthorized("wrong password")
	}

	token, err := s.tokens.Issue(creator)
	if err != nil {
		return "", models.Creator{}, apperr.Internal("issue token", err)
	}

	s.log.Info().Str("username", username).Msg("login")
	return token, creator, nil
}

// ValidateSession parses the token and re-validates its claims against
// the live store. The token is a capability hint; the store is the source
// of truth. A password or role change since issuance makes the session
// stale, which is how revocation takes effect instantly.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*security.Claims, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthorized, "invalid token", err)
	}

	creator, err := s.creators.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrCreatorNotFound) {
			return nil, apperr.StaleSession("session subject no longer exists")
		}
		return nil, apperr.Internal("look up creator", err)
	}

	if creator.Password != claims.Data.Password {
		return nil, apperr.StaleSession("credentials changed since issuance")
	}
	if creator.IsPublisher() != claims.Admin {
		return nil, apperr.StaleSession("role changed since issuance")
	}

	return claims, nil
}

// ChangePasswordSelf validates the confirmation and the current password
// before any write.
func (s *AuthService) ChangePasswordSelf(ctx context.Context, claims *security.Claims, current, newPassword, confirm string) error {
	if newPassword != confirm {
		return apperr.BadRequest("password confirmation does not match")
	}

	creator, err := s.creators.GetByUsername(ctx, claims.Subject)
	if err != nil {
		return apperr.Internal("look up creator", err)
	}

	ok, err := security.VerifyPassword(current, creator.Password)
	if err != nil || !ok {
		return apperr.BadRequest("current password is incorrect")
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal("hash password", err)
	}

	if err := s.creators.UpdatePassword(ctx, claims.Subject, hash); err != nil {
		return apperr.Internal("update password", err)
	}

	s.log.Info().Str("username", claims.Subject).Msg("password changed")
	return nil
}

// ChangePasswordOther lets a publisher reset another creator's password.
func (s *AuthService) ChangePasswordOther(ctx context.Context, claims *security.Claims, username, newPassword string) error {
	if !claims.Admin {
		return apperr.Unauthorized("this action requires publisher access")
	}

	creator, err := s.creators.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrCreatorNotFound) {
			return apperr.NotFound("no such user")
		}
		return apperr.Internal("look up creator", err)
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal("hash password", err)
	}

	if err := s.creators.UpdatePassword(ctx, creator.Username, hash); err != nil {
		return apperr.Internal("update password", err)
	}

	s.log.Info().Str("username", username).Str("by", claims.Subject).Msg("password reset")
	return nil
}
