package provider_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdomain "timebeing-backend/internal/auth/domain"
	"timebeing-backend/internal/auth/provider"
)

func rsaKeyPair(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return key, string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestClerk_VerifyToken_RS256(t *testing.T) {
	priv, pub := rsaKeyPair(t)
	c, err := provider.NewClerk(provider.ClerkConfig{
		JWTKey:            strings.ReplaceAll(pub, "\n", `\n`),
		AuthorizedParties: []string{"http://localhost:3000"},
	})
	require.NoError(t, err)

	exp := time.Now().Add(time.Minute).Unix()

	user, err := c.VerifyToken(context.Background(), sign(t, jwt.SigningMethodRS256, priv, jwt.MapClaims{
		"sub": "user_2abc", "azp": "http://localhost:3000", "exp": exp,
	}))
	require.NoError(t, err)
	assert.Equal(t, "user_2abc", user.ID)

	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"expired", jwt.MapClaims{"sub": "user_2abc", "exp": time.Now().Add(-time.Hour).Unix()}},
		{"missing exp", jwt.MapClaims{"sub": "user_2abc"}},
		{"missing sub", jwt.MapClaims{"exp": exp}},
		{"foreign party", jwt.MapClaims{"sub": "user_2abc", "azp": "https://evil.example", "exp": exp}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.VerifyToken(context.Background(), sign(t, jwt.SigningMethodRS256, priv, tt.claims))
			assert.True(t, errors.Is(err, authdomain.ErrUnauthenticated))
		})
	}
}

func TestClerk_VerifyToken_RejectsOtherKeys(t *testing.T) {
	_, pub := rsaKeyPair(t)
	other, _ := rsaKeyPair(t)
	c, err := provider.NewClerk(provider.ClerkConfig{JWTKey: pub, HMACSecret: "secret"})
	require.NoError(t, err)

	claims := jwt.MapClaims{"sub": "user_2abc", "exp": time.Now().Add(time.Minute).Unix()}

	_, err = c.VerifyToken(context.Background(), sign(t, jwt.SigningMethodRS256, other, claims))
	assert.True(t, errors.Is(err, authdomain.ErrUnauthenticated))

	// an RSA instance never falls back to the shared secret
	_, err = c.VerifyToken(context.Background(), sign(t, jwt.SigningMethodHS256, []byte("secret"), claims))
	assert.True(t, errors.Is(err, authdomain.ErrUnauthenticated))

	_, err = c.VerifyToken(context.Background(), "not-a-jwt")
	assert.True(t, errors.Is(err, authdomain.ErrUnauthenticated))
}

func TestClerk_VerifyToken_HS256(t *testing.T) {
	c, err := provider.NewClerk(provider.ClerkConfig{HMACSecret: "secret"})
	require.NoError(t, err)

	user, err := c.VerifyToken(context.Background(), sign(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
		"sub": "user_1", "exp": time.Now().Add(time.Minute).Unix(),
	}))
	require.NoError(t, err)
	assert.Equal(t, "user_1", user.ID)
}

func TestNewClerk_RequiresKey(t *testing.T) {
	_, err := provider.NewClerk(provider.ClerkConfig{})
	assert.Error(t, err)

	_, err = provider.NewClerk(provider.ClerkConfig{JWTKey: "garbage"})
	assert.Error(t, err)
}

func TestClerk_PrimaryEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk_test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/users/user_primary":
			_, _ = w.Write([]byte(`{"id":"user_primary","primary_email_address_id":"idn_2","email_addresses":[
				{"id":"idn_1","email_address":"old@example.com"},
				{"id":"idn_2","email_address":"ana@example.com"}]}`))
		case "/v1/users/user_noprimary":
			_, _ = w.Write([]byte(`{"id":"user_noprimary","primary_email_address_id":null,"email_addresses":[
				{"id":"idn_1","email_address":"first@example.com"}]}`))
		case "/v1/users/user_noemail":
			_, _ = w.Write([]byte(`{"id":"user_noemail","email_addresses":[]}`))
		case "/v1/users/user_broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	c, err := provider.NewClerk(provider.ClerkConfig{HMACSecret: "x", SecretKey: "sk_test", APIURL: srv.URL + "/"})
	require.NoError(t, err)
	ctx := context.Background()

	email, err := c.PrimaryEmail(ctx, "user_primary")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", email)

	email, err = c.PrimaryEmail(ctx, "user_noprimary")
	require.NoError(t, err)
	assert.Equal(t, "first@example.com", email)

	_, err = c.PrimaryEmail(ctx, "user_noemail")
	assert.True(t, errors.Is(err, authdomain.ErrUserNotFound))

	_, err = c.PrimaryEmail(ctx, "user_missing")
	assert.True(t, errors.Is(err, authdomain.ErrUserNotFound))

	_, err = c.PrimaryEmail(ctx, "user_broken")
	assert.True(t, errors.Is(err, authdomain.ErrUnavailable))
}

func TestClerk_PrimaryEmail_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := provider.NewClerk(provider.ClerkConfig{HMACSecret: "x", APIURL: srv.URL})
	require.NoError(t, err)

	_, err = c.PrimaryEmail(context.Background(), "user_1")
	assert.True(t, errors.Is(err, authdomain.ErrUnavailable))
}
