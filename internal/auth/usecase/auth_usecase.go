package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	authdomain "timebeing-backend/internal/auth/domain"

	"go.uber.org/zap"
)

// AuthUsecase authenticates API callers and resolves contact addresses for
// notifications.
type AuthUsecase interface {
	ValidateToken(ctx context.Context, token string) (*authdomain.User, error)
	ResolveContact(ctx context.Context, userID string) (string, error)
}

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	provider authdomain.IdentityProvider
	log      *zap.Logger
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(provider authdomain.IdentityProvider, log *zap.Logger) AuthUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &authUsecase{
		provider: provider,
		log:      log,
	}
}

// ValidateToken reports every verification failure as ErrUnauthenticated.
func (u *authUsecase) ValidateToken(ctx context.Context, token string) (*authdomain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, authdomain.ErrUnauthenticated
	}

	user, err := u.provider.VerifyToken(ctx, token)
	if err != nil {
		u.log.Debug("Token rejected", zap.Error(err))
		if errors.Is(err, authdomain.ErrUnauthenticated) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", authdomain.ErrUnauthenticated, err)
	}
	if user == nil || user.ID == "" {
		return nil, fmt.Errorf("%w: token has no subject", authdomain.ErrUnauthenticated)
	}
	return user, nil
}

// ResolveContact returns the user's current primary email. Failures are
// either ErrUserNotFound or ErrUnavailable.
func (u *authUsecase) ResolveContact(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", authdomain.ErrUserNotFound
	}

	email, err := u.provider.PrimaryEmail(ctx, userID)
	switch {
	case err == nil:
		if email == "" {
			return "", fmt.Errorf("%w: %s has no email address", authdomain.ErrUserNotFound, userID)
		}
		return email, nil
	case errors.Is(err, authdomain.ErrUserNotFound), errors.Is(err, authdomain.ErrUnavailable):
		return "", err
	default:
		return "", fmt.Errorf("%w: %v", authdomain.ErrUnavailable, err)
	}
}
