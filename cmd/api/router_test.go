package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	authdomain "timebeing-backend/internal/auth/domain"
	habitRepo "timebeing-backend/internal/habit/repository"
	habitUsecase "timebeing-backend/internal/habit/usecase"
	projectRepo "timebeing-backend/internal/project/repository"
	projectUsecase "timebeing-backend/internal/project/usecase"
	taskRepo "timebeing-backend/internal/task/repository"
	taskUsecase "timebeing-backend/internal/task/usecase"
	"timebeing-backend/internal/testutil"
	"timebeing-backend/pkg/civiltime"
)

type stubAuth struct{}

func (stubAuth) ValidateToken(_ context.Context, token string) (*authdomain.User, error) {
	if !strings.HasPrefix(token, "user:") {
		return nil, authdomain.ErrUnauthenticated
	}
	return &authdomain.User{ID: strings.TrimPrefix(token, "user:")}, nil
}

func (stubAuth) ResolveContact(context.Context, string) (string, error) {
	return "", authdomain.ErrUserNotFound
}

type armedCount int

func (a armedCount) Armed() int { return int(a) }

func newTestHandler(t *testing.T) (*Handler, zap.AtomicLevel) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.OpenDB(t)

	tRepo, err := taskRepo.NewGormTaskRepository(db)
	require.NoError(t, err)
	pRepo, err := projectRepo.NewGormProjectRepository(db)
	require.NoError(t, err)
	hRepo, err := habitRepo.NewGormHabitRepository(db)
	require.NoError(t, err)
	clock, err := civiltime.Load("America/Sao_Paulo")
	require.NoError(t, err)

	tasks := taskUsecase.NewTaskUsecase(tRepo, pRepo, nil, clock, nil)
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	h := NewHandler(stubAuth{}, tasks, projectUsecase.NewProjectUsecase(pRepo, tasks, nil), habitUsecase.NewHabitUsecase(hRepo, nil), armedCount(3), level, zap.NewNop())
	return h, level
}

func serve(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)

	w := serve(h.Engine(), http.MethodGet, "/api/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok", "scheduler": {"armed": 3}}`, w.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h, _ := newTestHandler(t)
	r := h.Engine()

	for _, path := range []string{"/api/v1/tasks", "/api/v1/projects", "/api/v1/habits", "/api/settings/log-level"} {
		w := serve(r, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)

		w = serve(r, http.MethodGet, path, "garbage", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/tasks", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	h.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestProjectDeleteThroughAPI(t *testing.T) {
	h, _ := newTestHandler(t)
	r := h.Engine()

	w := serve(r, http.MethodPost, "/api/v1/projects", "user:ana", `{"title": "Thesis"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := extractID(t, w.Body.String())

	w = serve(r, http.MethodPost, "/api/v1/tasks", "user:ana", `{"title": "chapter", "project_id": "`+id+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	taskID := extractID(t, w.Body.String())

	w = serve(r, http.MethodGet, "/api/v1/projects/"+id+"/tasks", "user:ana", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), taskID)

	w = serve(r, http.MethodGet, "/api/v1/projects/"+id, "user:bob", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, http.MethodDelete, "/api/v1/projects/"+id, "user:ana", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/api/v1/tasks/"+taskID, "user:ana", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogLevelSettings(t *testing.T) {
	h, level := newTestHandler(t)
	r := h.Engine()

	w := serve(r, http.MethodGet, "/api/settings/log-level", "user:ana", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"level": "info"}`, w.Body.String())

	w = serve(r, http.MethodPut, "/api/settings/log-level", "user:ana", `{"level": "debug"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	w = serve(r, http.MethodPut, "/api/settings/log-level", "user:ana", `{"level": "chatty"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, zapcore.DebugLevel, level.Level())
}

func extractID(t *testing.T, body string) string {
	t.Helper()
	var resource struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resource))
	require.NotEmpty(t, resource.ID, body)
	return resource.ID
}
