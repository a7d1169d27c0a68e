package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	authUsecase "timebeing-backend/internal/auth/usecase"
	habitDelivery "timebeing-backend/internal/habit/delivery"
	habitUsecase "timebeing-backend/internal/habit/usecase"
	projectDelivery "timebeing-backend/internal/project/delivery"
	projectUsecase "timebeing-backend/internal/project/usecase"
	taskDelivery "timebeing-backend/internal/task/delivery"
	taskUsecase "timebeing-backend/internal/task/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// SchedulerStatus is what the health endpoint reports about the reminder scheduler.
type SchedulerStatus interface {
	Armed() int
}

type Handler struct {
	authUsecase     authUsecase.AuthUsecase
	taskHandler     *taskDelivery.TaskHandler
	projectHandler  *projectDelivery.ProjectHandler
	habitHandler    *habitDelivery.HabitHandler
	settingsHandler *SettingsHandler
	scheduler       SchedulerStatus
	log             *zap.Logger
}

func NewHandler(authUc authUsecase.AuthUsecase, taskUc taskUsecase.TaskUsecase, projectUc projectUsecase.ProjectUsecase, habitUc habitUsecase.HabitUsecase, scheduler SchedulerStatus, level zap.AtomicLevel, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		authUsecase:     authUc,
		taskHandler:     taskDelivery.NewTaskHandler(taskUc, log.Named("tasks")),
		projectHandler:  projectDelivery.NewProjectHandler(projectUc, log.Named("projects")),
		habitHandler:    habitDelivery.NewHabitHandler(habitUc, log.Named("habits")),
		settingsHandler: NewSettingsHandler(level, log),
		scheduler:       scheduler,
		log:             log,
	}
}

// Engine builds the gin engine with middleware and every route mounted.
func (h *Handler) Engine() *gin.Engine {
	r := gin.New()
	r.Use(recovery(h.log), accessLog(h.log), cors())

	SetupRoutes(r, h)
	return r
}

// Start serves on addr until ctx is cancelled, then drains in-flight requests.
func (h *Handler) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.log.Info("Server starting", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	h.log.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func accessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if userID := c.GetString("userID"); userID != "" {
			fields = append(fields, zap.String("user_id", userID))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("Request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("Request", fields...)
		default:
			log.Info("Request", fields...)
		}
	}
}

func recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		log.Error("Panic serving request", zap.String("path", c.Request.URL.Path), zap.Any("panic", rec))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}
