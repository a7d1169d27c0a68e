package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SettingsHandler exposes runtime-configurable settings
type SettingsHandler struct {
	level zap.AtomicLevel
	log   *zap.Logger
}

func NewSettingsHandler(level zap.AtomicLevel, log *zap.Logger) *SettingsHandler {
	return &SettingsHandler{level: level, log: log}
}

// UpdateLogLevelRequest represents the request body for updating the log level
type UpdateLogLevelRequest struct {
	Level string `json:"level" binding:"required"`
}

// GetLogLevel returns the current log level
// GET /api/settings/log-level
func (h *SettingsHandler) GetLogLevel(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"level": h.level.String()})
}

// UpdateLogLevel changes the log level of the running process
// PUT /api/settings/log-level
func (h *SettingsHandler) UpdateLogLevel(c *gin.Context) {
	var req UpdateLogLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lvl, err := zapcore.ParseLevel(req.Level)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.level.SetLevel(lvl)
	h.log.Info("Log level updated", zap.String("level", lvl.String()), zap.String("user_id", c.GetString("userID")))
	c.JSON(http.StatusOK, gin.H{"level": lvl.String()})
}
