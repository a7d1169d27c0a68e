package provider

import (
	"context"
	"fmt"

	authdomain "timebeing-backend/internal/auth/domain"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Firebase verifies Firebase ID tokens and reads users through the Admin SDK.
type Firebase struct {
	client *auth.Client
}

func NewFirebase(ctx context.Context, credentialsFile, projectID string) (*Firebase, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	var cfg *firebase.Config
	if projectID != "" {
		cfg = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth client: %w", err)
	}
	return &Firebase{client: client}, nil
}

func (f *Firebase) VerifyToken(ctx context.Context, token string) (*authdomain.User, error) {
	tok, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", authdomain.ErrUnauthenticated, err)
	}

	user := &authdomain.User{ID: tok.UID}
	if email, ok := tok.Claims["email"].(string); ok {
		user.Email = email
	}
	return user, nil
}

func (f *Firebase) PrimaryEmail(ctx context.Context, userID string) (string, error) {
	u, err := f.client.GetUser(ctx, userID)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return "", fmt.Errorf("%w: %s", authdomain.ErrUserNotFound, userID)
		}
		return "", fmt.Errorf("%w: %v", authdomain.ErrUnavailable, err)
	}
	if u.Email == "" {
		return "", fmt.Errorf("%w: %s has no email address", authdomain.ErrUserNotFound, userID)
	}
	return u.Email, nil
}
