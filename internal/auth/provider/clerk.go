package provider

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	authdomain "timebeing-backend/internal/auth/domain"

	"github.com/golang-jwt/jwt/v5"
)

const defaultClerkAPIURL = "https://api.clerk.com"

type ClerkConfig struct {
	// SecretKey authenticates calls to the Clerk Backend API.
	SecretKey string
	// JWTKey is the instance's PEM encoded RSA public key used to verify
	// session tokens without a network round trip.
	JWTKey string
	// HMACSecret verifies HS256 tokens when no JWTKey is configured.
	HMACSecret        string
	APIURL            string
	AuthorizedParties []string
	HTTPClient        *http.Client
}

// Clerk verifies Clerk session tokens and reads users from the Backend API.
type Clerk struct {
	cfg       ClerkConfig
	publicKey *rsa.PublicKey
	client    *http.Client
}

func NewClerk(cfg ClerkConfig) (*Clerk, error) {
	c := &Clerk{cfg: cfg, client: cfg.HTTPClient}
	if c.client == nil {
		c.client = &http.Client{Timeout: 10 * time.Second}
	}
	if c.cfg.APIURL == "" {
		c.cfg.APIURL = defaultClerkAPIURL
	}
	c.cfg.APIURL = strings.TrimRight(c.cfg.APIURL, "/")

	switch {
	case cfg.JWTKey != "":
		// keys set through env files often carry escaped newlines
		pem := strings.ReplaceAll(cfg.JWTKey, `\n`, "\n")
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
		if err != nil {
			return nil, fmt.Errorf("invalid clerk jwt key: %w", err)
		}
		c.publicKey = key
	case cfg.HMACSecret == "":
		return nil, errors.New("clerk provider needs CLERK_JWT_KEY or JWT_SECRET")
	}
	return c, nil
}

func (c *Clerk) keyFunc(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodRSA:
		if c.publicKey == nil {
			return nil, errors.New("rsa tokens are not accepted")
		}
		return c.publicKey, nil
	case *jwt.SigningMethodHMAC:
		if c.cfg.HMACSecret == "" || c.publicKey != nil {
			return nil, errors.New("hmac tokens are not accepted")
		}
		return []byte(c.cfg.HMACSecret), nil
	default:
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
}

func (c *Clerk) VerifyToken(_ context.Context, tokenString string) (*authdomain.User, error) {
	token, err := jwt.Parse(tokenString, c.keyFunc,
		jwt.WithValidMethods([]string{"RS256", "HS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(5*time.Second),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", authdomain.ErrUnauthenticated, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: invalid token claims", authdomain.ErrUnauthenticated)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: token missing subject", authdomain.ErrUnauthenticated)
	}

	if len(c.cfg.AuthorizedParties) > 0 {
		if azp, _ := claims["azp"].(string); azp != "" && !slices.Contains(c.cfg.AuthorizedParties, azp) {
			return nil, fmt.Errorf("%w: unauthorized party %s", authdomain.ErrUnauthenticated, azp)
		}
	}

	return &authdomain.User{ID: sub}, nil
}

type clerkEmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

type clerkUser struct {
	ID                    string              `json:"id"`
	PrimaryEmailAddressID string              `json:"primary_email_address_id"`
	EmailAddresses        []clerkEmailAddress `json:"email_addresses"`
}

// PrimaryEmail returns the user's primary email, falling back to the first one.
func (c *Clerk) PrimaryEmail(ctx context.Context, userID string) (string, error) {
	endpoint := fmt.Sprintf("%s/v1/users/%s", c.cfg.APIURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", authdomain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", authdomain.ErrUserNotFound, userID)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: clerk returned status %d", authdomain.ErrUnavailable, resp.StatusCode)
	}

	var user clerkUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", fmt.Errorf("%w: decode clerk user: %v", authdomain.ErrUnavailable, err)
	}

	if len(user.EmailAddresses) == 0 {
		return "", fmt.Errorf("%w: %s has no email addresses", authdomain.ErrUserNotFound, userID)
	}
	for _, e := range user.EmailAddresses {
		if e.ID == user.PrimaryEmailAddressID {
			return e.EmailAddress, nil
		}
	}
	return user.EmailAddresses[0].EmailAddress, nil
}
