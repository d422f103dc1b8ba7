package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// dialTestConn dials a throwaway server that holds the socket open until
// the test finishes
func dialTestConn(t *testing.T) *gorilla.Conn {
	t.Helper()

	upgrader := gorilla.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	conn, _, err := gorilla.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	return conn
}

func newTestClient(t *testing.T, hub *Hub, id, role string) *Client {
	t.Helper()
	return NewClient(id, dialTestConn(t), hub, role, zap.NewNop())
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	require.NotNil(t, hub)
	assert.Equal(t, 0, hub.GetClientCount())
	assert.Equal(t, 0, hub.GetTripCount())
}

func TestRegisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(t, hub, "rider-1", "rider")

	hub.registerClient(client)

	assert.Equal(t, 1, hub.GetClientCount())

	got, ok := hub.GetClient("rider-1")
	require.True(t, ok)
	assert.Equal(t, client, got)
}

func TestRegisterClientReplacesExistingConnection(t *testing.T) {
	hub := NewHub()
	first := newTestClient(t, hub, "rider-1", "rider")
	second := newTestClient(t, hub, "rider-1", "rider")

	hub.registerClient(first)
	hub.registerClient(second)

	assert.Equal(t, 1, hub.GetClientCount())

	got, ok := hub.GetClient("rider-1")
	require.True(t, ok)
	assert.Equal(t, second, got)

	// The replaced client's send channel is closed
	_, open := <-first.Send
	assert.False(t, open)
}

func TestUnregisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(t, hub, "rider-1", "rider")

	hub.registerClient(client)
	hub.unregisterClient(client)

	assert.Equal(t, 0, hub.GetClientCount())
	_, ok := hub.GetClient("rider-1")
	assert.False(t, ok)
}

func TestUnregisterClientLeavesTripRoom(t *testing.T) {
	hub := NewHub()
	client := newTestClient(t, hub, "rider-1", "rider")

	hub.registerClient(client)
	hub.AddClientToTrip("rider-1", "trip-1")
	require.Equal(t, 1, hub.GetTripCount())

	hub.unregisterClient(client)

	assert.Equal(t, 0, hub.GetTripCount())
}

func TestUnregisterStaleClientIsIgnored(t *testing.T) {
	hub := NewHub()
	first := newTestClient(t, hub, "rider-1", "rider")
	second := newTestClient(t, hub, "rider-1", "rider")

	hub.registerClient(first)
	hub.registerClient(second)

	// Unregistering the replaced connection must not evict the live one
	hub.unregisterClient(first)

	assert.Equal(t, 1, hub.GetClientCount())
	got, ok := hub.GetClient("rider-1")
	require.True(t, ok)
	assert.Equal(t, second, got)
}

func TestAddClientToTrip(t *testing.T) {
	hub := NewHub()
	rider := newTestClient(t, hub, "rider-1", "rider")
	driver := newTestClient(t, hub, "driver-1", "driver")

	hub.registerClient(rider)
	hub.registerClient(driver)

	hub.AddClientToTrip("rider-1", "trip-1")
	hub.AddClientToTrip("driver-1", "trip-1")

	assert.Equal(t, 1, hub.GetTripCount())
	assert.ElementsMatch(t, []string{"rider-1", "driver-1"}, hub.GetClientsInTrip("trip-1"))
	assert.Equal(t, "trip-1", rider.GetTrip())
}

func TestAddUnknownClientToTrip(t *testing.T) {
	hub := NewHub()

	hub.AddClientToTrip("ghost", "trip-1")

	assert.Equal(t, 0, hub.GetTripCount())
}

func TestRemoveClientFromTrip(t *testing.T) {
	hub := NewHub()
	rider := newTestClient(t, hub, "rider-1", "rider")
	driver := newTestClient(t, hub, "driver-1", "driver")

	hub.registerClient(rider)
	hub.registerClient(driver)
	hub.AddClientToTrip("rider-1", "trip-1")
	hub.AddClientToTrip("driver-1", "trip-1")

	hub.RemoveClientFromTrip("rider-1", "trip-1")

	assert.Equal(t, 1, hub.GetTripCount())
	assert.ElementsMatch(t, []string{"driver-1"}, hub.GetClientsInTrip("trip-1"))
	assert.Equal(t, "", rider.GetTrip())

	// Removing the last watcher drops the room
	hub.RemoveClientFromTrip("driver-1", "trip-1")
	assert.Equal(t, 0, hub.GetTripCount())
}

func TestSendToUser(t *testing.T) {
	hub := NewHub()
	client := newTestClient(t, hub, "rider-1", "rider")
	hub.registerClient(client)

	msg := &Message{Type: "trip_accepted", TripID: "trip-1"}
	hub.SendToUser("rider-1", msg)

	select {
	case got := <-client.Send:
		assert.Equal(t, msg, got)
	case <-time.After(time.Second):
		t.Fatal("expected message on client send channel")
	}
}

func TestSendToUserUnknownClient(t *testing.T) {
	hub := NewHub()

	// Must not panic
	hub.SendToUser("ghost", &Message{Type: "trip_accepted"})
}

func TestSendToTrip(t *testing.T) {
	hub := NewHub()
	rider := newTestClient(t, hub, "rider-1", "rider")
	driver := newTestClient(t, hub, "driver-1", "driver")
	bystander := newTestClient(t, hub, "rider-2", "rider")

	hub.registerClient(rider)
	hub.registerClient(driver)
	hub.registerClient(bystander)
	hub.AddClientToTrip("rider-1", "trip-1")
	hub.AddClientToTrip("driver-1", "trip-1")

	msg := &Message{Type: "trip_started", TripID: "trip-1"}
	hub.SendToTrip("trip-1", msg)

	assert.Len(t, rider.Send, 1)
	assert.Len(t, driver.Send, 1)
	assert.Len(t, bystander.Send, 0)
}

func TestSendToRole(t *testing.T) {
	hub := NewHub()
	admin := newTestClient(t, hub, "admin-1", "admin")
	rider := newTestClient(t, hub, "rider-1", "rider")

	hub.registerClient(admin)
	hub.registerClient(rider)

	msg := &Message{Type: "fleet_update", Data: map[string]interface{}{"vehicles": []string{}}}
	hub.SendToRole("admin", msg)

	assert.Len(t, admin.Send, 1)
	assert.Len(t, rider.Send, 0)
}

func TestSendToAll(t *testing.T) {
	hub := NewHub()
	rider := newTestClient(t, hub, "rider-1", "rider")
	driver := newTestClient(t, hub, "driver-1", "driver")

	hub.registerClient(rider)
	hub.registerClient(driver)

	hub.SendToAll(&Message{Type: "announcement"})

	assert.Len(t, rider.Send, 1)
	assert.Len(t, driver.Send, 1)
}

func TestSendDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	client := newTestClient(t, hub, "rider-1", "rider")
	hub.registerClient(client)

	for i := 0; i < sendBufferSize+10; i++ {
		hub.SendToUser("rider-1", &Message{Type: "fleet_update"})
	}

	// Overflow is dropped, not blocked on
	assert.Len(t, client.Send, sendBufferSize)
}

func TestHandleMessage(t *testing.T) {
	hub := NewHub()
	client := newTestClient(t, hub, "rider-1", "rider")
	hub.registerClient(client)

	var handled *Message
	hub.RegisterHandler("subscribe_trip", func(c *Client, msg *Message) {
		handled = msg
	})

	msg := &Message{Type: "subscribe_trip", TripID: "trip-1"}
	hub.HandleMessage(client, msg)

	require.NotNil(t, handled)
	assert.Equal(t, "trip-1", handled.TripID)

	// Unknown types are ignored without panicking
	hub.HandleMessage(client, &Message{Type: "unknown"})
}

func TestRunProcessesRegisterAndUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(t, hub, "rider-1", "rider")
	hub.Register <- client

	assert.Eventually(t, func() bool {
		return hub.GetClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.Unregister <- client

	assert.Eventually(t, func() bool {
		return hub.GetClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}
