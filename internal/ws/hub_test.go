package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, buffer int) *Client {
	return &Client{
		hub:  hub,
		send: make(chan []byte, buffer),
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()

	first := newTestClient(hub, 4)
	second := newTestClient(hub, 4)
	hub.addClient(first)
	hub.addClient(second)

	hub.broadcastAll(Event{
		Type:      EventSpaceOccupied,
		Data:      map[string]string{"code": "A-01"},
		Timestamp: time.Now(),
	})

	for _, client := range []*Client{first, second} {
		select {
		case message := <-client.send:
			var event Event
			require.NoError(t, json.Unmarshal(message, &event))
			assert.Equal(t, EventSpaceOccupied, event.Type)
		default:
			t.Fatal("client did not receive the broadcast")
		}
	}
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := NewHub()

	slow := newTestClient(hub, 1)
	hub.addClient(slow)

	// Fill the buffer, then broadcast once more to trigger the eviction.
	hub.broadcastAll(Event{Type: EventVehicleEntered})
	hub.broadcastAll(Event{Type: EventVehicleEntered})

	assert.Equal(t, 0, hub.ConnectedClients())
}

func TestHub_RemoveClientClosesSend(t *testing.T) {
	hub := NewHub()

	client := newTestClient(hub, 1)
	hub.addClient(client)
	require.Equal(t, 1, hub.ConnectedClients())

	hub.removeClient(client)
	assert.Equal(t, 0, hub.ConnectedClients())

	_, open := <-client.send
	assert.False(t, open)
}

func TestHub_PublishDoesNotBlockWhenBufferFull(t *testing.T) {
	hub := NewHub()

	for i := 0; i < 300; i++ {
		hub.Publish(string(EventPaymentSettled), nil)
	}
	// Reaching this point means the overflow was dropped instead of blocking.
	assert.LessOrEqual(t, len(hub.broadcast), 256)
}
