package api

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// AlertFeed attaches the caller as a viewer of the live alert feed. The
// connection stays attached until the client closes it.
func (h *Handler) AlertFeed(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("Failed to upgrade WebSocket: %v", err)
		return
	}

	if err := h.svc.AddWebSocketConnection(conn); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()))
		_ = conn.Close()
		return
	}
	defer func() {
		h.svc.RemoveWebSocketConnection(conn)
		_ = conn.Close()
	}()

	// Viewers only receive; reading detects the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warnf("WebSocket read error from %s: %v", c.Request.RemoteAddr, err)
			}
			return
		}
	}
}
