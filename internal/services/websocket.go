package services

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"dengue-alert-service/internal/logging"
	"dengue-alert-service/internal/models"
)

const (
	maxViewers = 100
	writeWait  = 5 * time.Second
)

var ErrTooManyViewers = errors.New("maximum number of feed viewers reached")

// FeedMessage is the frame pushed to viewers for every new alert.
type FeedMessage struct {
	Type  string       `json:"type"`
	Alert models.Alert `json:"alert"`
}

// WebSocketManager tracks viewers attached to the live alert feed. While
// it holds at least one connection the service is in the foreground.
type WebSocketManager struct {
	connections map[*websocket.Conn]bool
	mutex       sync.Mutex
	logger      *logging.Logger
}

func NewWebSocketManager(logger *logging.Logger) *WebSocketManager {
	return &WebSocketManager{
		connections: make(map[*websocket.Conn]bool),
		logger:      logger,
	}
}

// Active reports whether any viewer is attached.
func (m *WebSocketManager) Active() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.connections) > 0
}

// Count returns the number of attached viewers.
func (m *WebSocketManager) Count() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.connections)
}

// AddConnection attaches a viewer.
func (m *WebSocketManager) AddConnection(conn *websocket.Conn) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if len(m.connections) >= maxViewers {
		m.logger.Warnf("Max viewers reached (%d)", maxViewers)
		return ErrTooManyViewers
	}
	m.connections[conn] = true
	m.logger.Infof("Viewer attached (total: %d)", len(m.connections))
	return nil
}

// RemoveConnection detaches a viewer.
func (m *WebSocketManager) RemoveConnection(conn *websocket.Conn) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, exists := m.connections[conn]; exists {
		delete(m.connections, conn)
		m.logger.Infof("Viewer detached (remaining: %d)", len(m.connections))
	}
}

// Broadcast sends a to every viewer, dropping connections that fail.
func (m *WebSocketManager) Broadcast(a models.Alert) {
	message, err := json.Marshal(FeedMessage{Type: "alert", Alert: a})
	if err != nil {
		m.logger.Errorf("Failed to encode alert: %v", err)
		return
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	for conn := range m.connections {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			m.logger.Errorf("Failed to send alert to viewer: %v", err)
			delete(m.connections, conn)
			_ = conn.Close()
		}
	}
}

// CloseAll disconnects every viewer.
func (m *WebSocketManager) CloseAll() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for conn := range m.connections {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "service stopping"))
		_ = conn.Close()
		delete(m.connections, conn)
	}
}
