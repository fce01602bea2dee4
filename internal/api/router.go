package api

import (
	"github.com/gin-gonic/gin"

	"dengue-alert-service/internal/config"
	"dengue-alert-service/internal/logging"
)

func NewRouter(logger *logging.Logger, cfg config.Config, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(logger))

	r.GET("/health", h.Health)

	api := r.Group(cfg.API.BasePath)
	{
		// Alert feed
		api.GET("/alerts", h.GetAlerts)
		api.GET("/alerts/latest", h.GetLatestAlert)
		api.GET("/alerts/ws", h.AlertFeed)

		// Inbound messages
		api.POST("/messages", h.PostMessage)

		// Device registration
		api.GET("/token", h.GetToken)
	}
	return r
}
