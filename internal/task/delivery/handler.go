package delivery

import (
	"errors"
	"net/http"

	authdelivery "timebeing-backend/internal/auth/delivery"
	"timebeing-backend/internal/task/domain"
	"timebeing-backend/internal/task/dto"
	"timebeing-backend/internal/task/repository"
	"timebeing-backend/internal/task/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskUsecase usecase.TaskUsecase
	log         *zap.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskUsecase usecase.TaskUsecase, log *zap.Logger) *TaskHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskHandler{
		taskUsecase: taskUsecase,
		log:         log,
	}
}

// RegisterRoutes mounts the task endpoints on an authenticated group.
func (h *TaskHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	{
		tasks.GET("", h.GetTasks)
		tasks.POST("", h.CreateTask)
		tasks.GET("/:id", h.GetTaskByID)
		tasks.GET("/:id/subtasks", h.GetSubtasks)
		tasks.PATCH("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
	}
}

// GetTasks returns all tasks for the authenticated user
// GET /api/v1/tasks?status=false&is_focus=true&project_id=...&q=reuniao&limit=50&offset=0
func (h *TaskHandler) GetTasks(c *gin.Context) {
	userID := authdelivery.UserID(c)

	var q dto.ListTasksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tasks, total, err := h.taskUsecase.GetUserTasks(c.Request.Context(), userID, repository.ListFilter{
		Status:    q.Status,
		IsFocus:   q.IsFocus,
		ProjectID: q.ProjectID,
		Query:     q.Q,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	if tasks == nil {
		tasks = []*domain.Task{}
	}
	c.JSON(http.StatusOK, dto.TaskListResponse{Tasks: tasks, Total: total})
}

// GetTaskByID returns a specific task
// GET /api/v1/tasks/:id
func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	task, err := h.taskUsecase.GetTaskByID(c.Request.Context(), authdelivery.UserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// GetSubtasks returns the direct children of a task
// GET /api/v1/tasks/:id/subtasks
func (h *TaskHandler) GetSubtasks(c *gin.Context) {
	tasks, err := h.taskUsecase.GetSubtasks(c.Request.Context(), authdelivery.UserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	if tasks == nil {
		tasks = []*domain.Task{}
	}
	c.JSON(http.StatusOK, dto.TaskListResponse{Tasks: tasks, Total: int64(len(tasks))})
}

// CreateTask creates a new task
// POST /api/v1/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.CreateTask(c.Request.Context(), authdelivery.UserID(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// UpdateTask applies a partial update
// PATCH /api/v1/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.UpdateTask(c.Request.Context(), authdelivery.UserID(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask deletes a task and its subtasks
// DELETE /api/v1/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskUsecase.DeleteTask(c.Request.Context(), authdelivery.UserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Task has been deleted successfully"})
}

func (h *TaskHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, domain.ErrParentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Parent task not found"})
	case errors.Is(err, domain.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
	case errors.Is(err, domain.ErrCyclicParent), errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.log.Error("Task request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
