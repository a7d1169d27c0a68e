package domain

import (
	"context"
	"errors"
)

var (
	// ErrUnauthenticated means the bearer credential is missing, malformed or rejected.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUserNotFound means the identity provider has no deliverable address for the user.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnavailable means the identity provider could not be reached.
	ErrUnavailable = errors.New("identity provider unavailable")
)

// User is the authenticated principal. ID is the provider's opaque user id
// and is the owner key on every domain row.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// IdentityProvider verifies bearer tokens and looks up users in an external
// identity service.
type IdentityProvider interface {
	VerifyToken(ctx context.Context, token string) (*User, error)
	PrimaryEmail(ctx context.Context, userID string) (string, error)
}
