package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(h *Hub, userID int64) *Client {
	c := &Client{
		hub:    h,
		send:   make(chan []byte, 8),
		userID: userID,
	}
	h.register <- c
	return c
}

func TestPublishTargetsOnlyListedUsers(t *testing.T) {
	h := NewHub(zap.NewNop())
	go h.Run()

	alice := testClient(h, 1)
	bob := testClient(h, 2)

	h.Publish([]int64{1}, "message", map[string]string{"body": "hi"})

	select {
	case data := <-alice.send:
		var ev Event
		require.NoError(t, json.Unmarshal(data, &ev))
		require.Equal(t, "message", ev.Event)
	case <-time.After(time.Second):
		t.Fatal("alice never received the event")
	}

	select {
	case <-bob.send:
		t.Fatal("bob should not receive an event targeted at alice")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPublishFansOut(t *testing.T) {
	h := NewHub(zap.NewNop())
	go h.Run()

	alice := testClient(h, 1)
	bob := testClient(h, 2)

	h.Publish([]int64{1, 2}, "notification", nil)

	for _, c := range []*Client{alice, bob} {
		select {
		case <-c.send:
		case <-time.After(time.Second):
			t.Fatalf("user %d never received the event", c.userID)
		}
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	h := NewHub(zap.NewNop())
	go h.Run()

	c := testClient(h, 1)
	h.unregister <- c

	select {
	case _, ok := <-c.send:
		require.False(t, ok, "send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("send channel never closed")
	}
}
