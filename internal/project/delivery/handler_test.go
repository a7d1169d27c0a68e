package delivery_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	authdelivery "timebeing-backend/internal/auth/delivery"
	"timebeing-backend/internal/project/delivery"
	"timebeing-backend/internal/project/domain"
	"timebeing-backend/internal/project/dto"
	taskdomain "timebeing-backend/internal/task/domain"
)

// fakeUsecase keeps projects in memory; only what the handler needs.
type fakeUsecase struct {
	projects map[string]*domain.Project
}

func (f *fakeUsecase) CreateProject(_ context.Context, userID string, req dto.CreateProjectRequest) (*domain.Project, error) {
	if req.Status != "" && !req.Status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	p := &domain.Project{ID: "p1", UserID: userID, Title: req.Title, Status: domain.StatusCreated}
	f.projects[p.ID] = p
	return p, nil
}

func (f *fakeUsecase) GetProjectByID(_ context.Context, userID, id string) (*domain.Project, error) {
	p, ok := f.projects[id]
	if !ok || p.UserID != userID {
		return nil, domain.ErrProjectNotFound
	}
	return p, nil
}

func (f *fakeUsecase) GetUserProjects(context.Context, string) ([]*domain.Project, error) {
	return nil, nil
}

func (f *fakeUsecase) UpdateProject(ctx context.Context, userID, id string, _ dto.UpdateProjectRequest) (*domain.Project, error) {
	return f.GetProjectByID(ctx, userID, id)
}

func (f *fakeUsecase) DeleteProject(ctx context.Context, userID, id string) error {
	if _, err := f.GetProjectByID(ctx, userID, id); err != nil {
		return err
	}
	delete(f.projects, id)
	return nil
}

func (f *fakeUsecase) ListTasks(ctx context.Context, userID, id string) ([]*taskdomain.Task, error) {
	_, err := f.GetProjectByID(ctx, userID, id)
	return nil, err
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1", func(c *gin.Context) {
		c.Set(authdelivery.UserIDKey, c.GetHeader("X-User"))
	})
	delivery.NewProjectHandler(&fakeUsecase{projects: map[string]*domain.Project{}}, zap.NewNop()).RegisterRoutes(api)
	return r
}

func do(r *gin.Engine, method, path, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User", user)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProjectHandler_StatusOptions(t *testing.T) {
	w := do(newRouter(), http.MethodGet, "/api/v1/projects/status-options", "ana", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"value":"Andamento"`)
	assert.Contains(t, w.Body.String(), `"label":"Planejamento"`)
}

func TestProjectHandler_Lifecycle(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		body   string
		status int
	}{
		{"missing title", http.MethodPost, "/api/v1/projects", "ana", `{}`, http.StatusBadRequest},
		{"bad status", http.MethodPost, "/api/v1/projects", "ana", `{"title": "x", "status": "Pausado"}`, http.StatusUnprocessableEntity},
		{"create", http.MethodPost, "/api/v1/projects", "ana", `{"title": "Thesis"}`, http.StatusCreated},
		{"list empty is array", http.MethodGet, "/api/v1/projects", "ana", "", http.StatusOK},
		{"foreign get", http.MethodGet, "/api/v1/projects/p1", "bob", "", http.StatusNotFound},
		{"foreign tasks", http.MethodGet, "/api/v1/projects/p1/tasks", "bob", "", http.StatusNotFound},
		{"own tasks", http.MethodGet, "/api/v1/projects/p1/tasks", "ana", "", http.StatusOK},
		{"patch", http.MethodPatch, "/api/v1/projects/p1", "ana", `{"status": "Concluído"}`, http.StatusOK},
		{"foreign delete", http.MethodDelete, "/api/v1/projects/p1", "bob", "", http.StatusNotFound},
		{"delete", http.MethodDelete, "/api/v1/projects/p1", "ana", "", http.StatusOK},
		{"gone", http.MethodGet, "/api/v1/projects/p1", "ana", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		w := do(r, tt.method, tt.path, tt.user, tt.body)
		assert.Equal(t, tt.status, w.Code, "%s: %s", tt.name, w.Body.String())
	}

	w := do(r, http.MethodGet, "/api/v1/projects", "ana", "")
	assert.JSONEq(t, `{"projects": []}`, w.Body.String())
}
