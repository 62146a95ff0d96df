package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func newHubServer(t *testing.T, hub *Hub, userID string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(userID, w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForConnections(t *testing.T, hub *Hub, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.ConnectionCount() == want
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHubBroadcastToUser(t *testing.T) {
	hub := NewHub()
	srv := newHubServer(t, hub, "user-1")
	conn := dialHub(t, srv)

	waitForConnections(t, hub, 1)

	hub.BroadcastToUser("user-1", Message{Event: "notification.created", Data: map[string]any{"id": "n-1"}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "notification.created", msg.Event)
}

func TestHubBroadcastIgnoresOtherUsers(t *testing.T) {
	hub := NewHub()
	srv := newHubServer(t, hub, "user-1")
	conn := dialHub(t, srv)

	waitForConnections(t, hub, 1)

	hub.BroadcastToUser("user-2", Message{Event: "notification.created"})
	hub.BroadcastToUser("", Message{Event: "notification.created"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var msg Message
	err := conn.ReadJSON(&msg)
	require.Error(t, err)
}

func TestHubBroadcastDropsSaturatedClient(t *testing.T) {
	hub := NewHub()

	serverSide := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err == nil {
			serverSide <- conn
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = clientConn.Close() })

	// An unbuffered send channel with no write loop saturates immediately.
	client := &connection{
		hub:    hub,
		socket: <-serverSide,
		userID: "user-1",
		send:   make(chan Message),
	}
	hub.register(client)

	done := make(chan struct{})
	go func() {
		hub.BroadcastToUser("user-1", Message{Event: "notification.created"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a saturated client")
	}

	waitForConnections(t, hub, 0)
	hub.BroadcastToUser("user-1", Message{Event: "notification.created"})
}

func TestHubCloseDisconnectsClients(t *testing.T) {
	hub := NewHub()
	srv := newHubServer(t, hub, "user-1")
	dialHub(t, srv)
	dialHub(t, srv)

	waitForConnections(t, hub, 2)

	hub.Close()
	waitForConnections(t, hub, 0)
}

func TestHostWithoutPort(t *testing.T) {
	require.Equal(t, "example.com", hostWithoutPort("example.com:8443"))
	require.Equal(t, "example.com", hostWithoutPort("https://example.com:8443"))
	require.Equal(t, "localhost", hostWithoutPort("localhost:3000"))
	require.Equal(t, "", hostWithoutPort("  "))
}

func TestIsLoopback(t *testing.T) {
	require.True(t, isLoopback("127.0.0.1"))
	require.True(t, isLoopback("::1"))
	require.True(t, isLoopback("localhost"))
	require.False(t, isLoopback("example.com"))
}
