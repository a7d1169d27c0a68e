package api

import (
	"net/http"

	"timebeing-backend/internal/auth/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			body := gin.H{"status": "ok"}
			if h.scheduler != nil {
				body["scheduler"] = gin.H{"armed": h.scheduler.Armed()}
			}
			c.JSON(http.StatusOK, body)
		})

		// Resource routes (protected)
		v1 := api.Group("/v1")
		v1.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			h.taskHandler.RegisterRoutes(v1)
			h.projectHandler.RegisterRoutes(v1)
			h.habitHandler.RegisterRoutes(v1)
		}

		// Settings routes (protected) - runtime configuration
		settings := api.Group("/settings")
		settings.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			settings.GET("/log-level", h.settingsHandler.GetLogLevel)
			settings.PUT("/log-level", h.settingsHandler.UpdateLogLevel)
		}
	}
}
