package live

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func register(t *testing.T, hub *Hub, room string) *Client {
	t.Helper()
	client := &Client{Hub: hub, Send: make(chan []byte, 4), Room: room}
	hub.Register <- client
	return client
}

func receive(t *testing.T, client *Client) Message {
	t.Helper()
	select {
	case data := <-client.Send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return Message{}
	}
}

func TestCalendarRoom(t *testing.T) {
	assert.Equal(t, "calendar_9", CalendarRoom(9))
}

func TestHubBroadcastToRoom(t *testing.T) {
	hub := testHub(t)

	inRoom := register(t, hub, CalendarRoom(9))
	alsoInRoom := register(t, hub, CalendarRoom(9))
	otherRoom := register(t, hub, CalendarRoom(10))

	hub.BroadcastToRoom(CalendarRoom(9), Message{Type: MessageScoreUpdated, Payload: "15-0"})

	for _, client := range []*Client{inRoom, alsoInRoom} {
		msg := receive(t, client)
		assert.Equal(t, MessageScoreUpdated, msg.Type)
		assert.Equal(t, CalendarRoom(9), msg.RoomID)
	}

	select {
	case <-otherRoom.Send:
		t.Fatal("message leaked into another room")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := testHub(t)
	client := register(t, hub, CalendarRoom(9))

	hub.Unregister <- client

	// Unregister runs in the hub goroutine; wait for the channel close.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-client.Send:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("send channel was not closed")
		}
	}
}

func TestHubFullBufferDoesNotBlock(t *testing.T) {
	hub := testHub(t)
	client := &Client{Hub: hub, Send: make(chan []byte), Room: CalendarRoom(9)}
	hub.Register <- client

	done := make(chan struct{})
	go func() {
		hub.BroadcastToRoom(CalendarRoom(9), Message{Type: MessageBracketUpdated})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a full client buffer")
	}
}
