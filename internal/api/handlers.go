package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"dengue-alert-service/internal/logging"
	"dengue-alert-service/internal/messaging"
	"dengue-alert-service/internal/models"
)

// AlertService is what the HTTP layer needs from the service.
type AlertService interface {
	Alerts() []models.Alert
	LatestAlert() (models.Alert, bool)
	Deliver(ctx context.Context, p models.Payload) (messaging.Context, error)
	Token() string
	Viewers() int
	AddWebSocketConnection(conn *websocket.Conn) error
	RemoveWebSocketConnection(conn *websocket.Conn)
}

type Handler struct {
	svc      AlertService
	logger   *logging.Logger
	upgrader websocket.Upgrader
}

func NewHandler(svc AlertService, logger *logging.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (h *Handler) GetAlerts(c *gin.Context) {
	list := h.svc.Alerts()
	h.logger.Debugf("Retrieved %d alerts", len(list))
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetLatestAlert(c *gin.Context) {
	alert, ok := h.svc.LatestAlert()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No alerts received yet"})
		return
	}
	c.JSON(http.StatusOK, alert)
}

// PostMessage accepts a push payload and routes it like a transport
// delivery.
func (h *Handler) PostMessage(c *gin.Context) {
	requestID := c.GetString(requestIDKey)
	logger := h.logger.WithRequest(requestID)

	var p models.Payload
	if err := c.ShouldBindJSON(&p); err != nil {
		logger.Errorf("Invalid request body for message: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	target, err := h.svc.Deliver(c.Request.Context(), p)
	if err != nil {
		logger.Errorf("Failed to deliver message: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to deliver message"})
		return
	}

	logger.Infof("Message delivered to %s", target)
	c.JSON(http.StatusAccepted, gin.H{"request_id": requestID, "context": target})
}

func (h *Handler) GetToken(c *gin.Context) {
	token := h.svc.Token()
	if token == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Device token not issued"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "viewers": h.svc.Viewers()})
}
