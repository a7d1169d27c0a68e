package delivery

import (
	"errors"
	"net/http"

	authdelivery "timebeing-backend/internal/auth/delivery"
	"timebeing-backend/internal/project/domain"
	"timebeing-backend/internal/project/dto"
	"timebeing-backend/internal/project/usecase"
	taskdomain "timebeing-backend/internal/task/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProjectHandler handles project-related HTTP requests
type ProjectHandler struct {
	projectUsecase usecase.ProjectUsecase
	log            *zap.Logger
}

func NewProjectHandler(projectUsecase usecase.ProjectUsecase, log *zap.Logger) *ProjectHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProjectHandler{projectUsecase: projectUsecase, log: log}
}

func (h *ProjectHandler) RegisterRoutes(rg *gin.RouterGroup) {
	projects := rg.Group("/projects")
	{
		projects.GET("/status-options", h.GetStatusOptions)
		projects.GET("", h.GetProjects)
		projects.POST("", h.CreateProject)
		projects.GET("/:id", h.GetProjectByID)
		projects.GET("/:id/tasks", h.GetProjectTasks)
		projects.PATCH("/:id", h.UpdateProject)
		projects.DELETE("/:id", h.DeleteProject)
	}
}

// GetStatusOptions returns the project statuses with display labels
// GET /api/v1/projects/status-options
func (h *ProjectHandler) GetStatusOptions(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatusOptionsResponse{StatusOptions: domain.StatusOptions()})
}

// GET /api/v1/projects
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	projects, err := h.projectUsecase.GetUserProjects(c.Request.Context(), authdelivery.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if projects == nil {
		projects = []*domain.Project{}
	}
	c.JSON(http.StatusOK, dto.ProjectListResponse{Projects: projects})
}

// GET /api/v1/projects/:id
func (h *ProjectHandler) GetProjectByID(c *gin.Context) {
	project, err := h.projectUsecase.GetProjectByID(c.Request.Context(), authdelivery.UserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// GetProjectTasks lists the tasks attached to a project
// GET /api/v1/projects/:id/tasks
func (h *ProjectHandler) GetProjectTasks(c *gin.Context) {
	tasks, err := h.projectUsecase.ListTasks(c.Request.Context(), authdelivery.UserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if tasks == nil {
		tasks = []*taskdomain.Task{}
	}
	c.JSON(http.StatusOK, dto.ProjectTasksResponse{Tasks: tasks})
}

// POST /api/v1/projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectUsecase.CreateProject(c.Request.Context(), authdelivery.UserID(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// PATCH /api/v1/projects/:id
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectUsecase.UpdateProject(c.Request.Context(), authdelivery.UserID(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// DeleteProject deletes a project and all of its tasks
// DELETE /api/v1/projects/:id
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.projectUsecase.DeleteProject(c.Request.Context(), authdelivery.UserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project has been deleted successfully"})
}

func (h *ProjectHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.log.Error("Project request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
