package delivery_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"timebeing-backend/internal/auth/delivery"
	authdomain "timebeing-backend/internal/auth/domain"
)

type stubAuth struct{}

func (stubAuth) ValidateToken(_ context.Context, token string) (*authdomain.User, error) {
	if token != "good" {
		return nil, authdomain.ErrUnauthenticated
	}
	return &authdomain.User{ID: "user_1"}, nil
}

func (stubAuth) ResolveContact(context.Context, string) (string, error) {
	return "", errors.New("unused")
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", delivery.AuthMiddleware(stubAuth{}), func(c *gin.Context) {
		c.String(http.StatusOK, delivery.UserID(c))
	})

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid token", "Bearer good", http.StatusOK, "user_1"},
		{"lowercase scheme", "bearer good", http.StatusOK, "user_1"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, ""},
		{"bad token", "Bearer bad", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}
