package services

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dengue-alert-service/internal/logging"
	"dengue-alert-service/internal/models"
)

// viewerServer upgrades every request and hands the server side of the
// connection to conns. The handler keeps reading until the client goes away.
func viewerServer(t *testing.T) (*httptest.Server, chan *websocket.Conn) {
	t.Helper()
	conns := make(chan *websocket.Conn, maxViewers+1)
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- conn
	}))
	t.Cleanup(srv.Close)
	return srv, conns
}

func dial(t *testing.T, srv *httptest.Server, conns chan *websocket.Conn) (client, server *websocket.Conn) {
	t.Helper()
	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	select {
	case server = <-conns:
	case <-time.After(time.Second):
		t.Fatal("server side connection not accepted")
	}
	return client, server
}

func newManager() *WebSocketManager {
	return NewWebSocketManager(logging.NewWriter(io.Discard, "debug"))
}

func TestWebSocketManagerPresence(t *testing.T) {
	srv, conns := viewerServer(t)
	m := newManager()
	assert.False(t, m.Active())

	client, server := dial(t, srv, conns)
	defer client.Close()

	require.NoError(t, m.AddConnection(server))
	assert.True(t, m.Active())
	assert.Equal(t, 1, m.Count())

	m.RemoveConnection(server)
	assert.False(t, m.Active())
	// removing twice is harmless
	m.RemoveConnection(server)
	assert.Equal(t, 0, m.Count())
}

func TestWebSocketManagerMaxViewers(t *testing.T) {
	m := newManager()
	// The cap is checked before the connection is used, so distinct
	// placeholders are enough to fill it.
	for i := 0; i < maxViewers; i++ {
		require.NoError(t, m.AddConnection(&websocket.Conn{}))
	}

	err := m.AddConnection(&websocket.Conn{})
	assert.ErrorIs(t, err, ErrTooManyViewers)
	assert.Equal(t, maxViewers, m.Count())
}

func TestWebSocketManagerBroadcast(t *testing.T) {
	srv, conns := viewerServer(t)
	m := newManager()

	client, server := dial(t, srv, conns)
	defer client.Close()
	require.NoError(t, m.AddConnection(server))

	m.Broadcast(models.Alert{Title: "Surto", Region: "Zona Sul", Severity: models.SeverityDanger})

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := client.ReadMessage()
	require.NoError(t, err)

	var msg FeedMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "alert", msg.Type)
	assert.Equal(t, "Surto", msg.Alert.Title)
	assert.Equal(t, models.SeverityDanger, msg.Alert.Severity)
}

func TestWebSocketManagerDropsFailedViewer(t *testing.T) {
	srv, conns := viewerServer(t)
	m := newManager()

	healthyClient, healthy := dial(t, srv, conns)
	defer healthyClient.Close()
	deadClient, dead := dial(t, srv, conns)
	deadClient.Close()

	require.NoError(t, m.AddConnection(healthy))
	require.NoError(t, m.AddConnection(dead))
	// A closed server side fails on the next write.
	require.NoError(t, dead.Close())

	m.Broadcast(models.Alert{Title: "one"})

	assert.Equal(t, 1, m.Count(), "failed viewer must be detached")
	assert.True(t, m.Active())

	require.NoError(t, healthyClient.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := healthyClient.ReadMessage()
	assert.NoError(t, err)

	m.RemoveConnection(healthy)
	assert.False(t, m.Active(), "no viewers left means background delivery")
}
