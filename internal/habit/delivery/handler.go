package delivery

import (
	"errors"
	"net/http"

	authdelivery "timebeing-backend/internal/auth/delivery"
	"timebeing-backend/internal/habit/domain"
	"timebeing-backend/internal/habit/dto"
	"timebeing-backend/internal/habit/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HabitHandler struct {
	habitUsecase usecase.HabitUsecase
	log          *zap.Logger
}

func NewHabitHandler(habitUsecase usecase.HabitUsecase, log *zap.Logger) *HabitHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HabitHandler{habitUsecase: habitUsecase, log: log}
}

func (h *HabitHandler) RegisterRoutes(rg *gin.RouterGroup) {
	habits := rg.Group("/habits")
	{
		habits.GET("", h.GetHabits)
		habits.POST("", h.CreateHabit)
		habits.GET("/:id", h.GetHabitByID)
		habits.PATCH("/:id", h.UpdateHabit)
		habits.DELETE("/:id", h.DeleteHabit)
	}
}

func (h *HabitHandler) GetHabits(c *gin.Context) {
	habits, err := h.habitUsecase.GetUserHabits(c.Request.Context(), authdelivery.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if habits == nil {
		habits = []*domain.Habit{}
	}
	c.JSON(http.StatusOK, dto.HabitListResponse{Habits: habits})
}

func (h *HabitHandler) GetHabitByID(c *gin.Context) {
	habit, err := h.habitUsecase.GetHabitByID(c.Request.Context(), authdelivery.UserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) CreateHabit(c *gin.Context) {
	var req dto.CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit, err := h.habitUsecase.CreateHabit(c.Request.Context(), authdelivery.UserID(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, habit)
}

func (h *HabitHandler) UpdateHabit(c *gin.Context) {
	var req dto.UpdateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit, err := h.habitUsecase.UpdateHabit(c.Request.Context(), authdelivery.UserID(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	if err := h.habitUsecase.DeleteHabit(c.Request.Context(), authdelivery.UserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Habit has been deleted successfully"})
}

func (h *HabitHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrHabitNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Habit not found"})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.log.Error("Habit request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
