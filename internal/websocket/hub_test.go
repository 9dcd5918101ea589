package websocket

import (
	"encoding/json"
	"log/slog"
	"testing"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.DiscardHandler))
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := newTestHub()
	c := NewClient(hub, nil, 1)

	hub.Register(c)
	if hub.ClientCount() != 1 {
		t.Errorf("count = %d, want 1", hub.ClientCount())
	}

	hub.Unregister(c)
	if hub.ClientCount() != 0 {
		t.Errorf("count = %d, want 0", hub.ClientCount())
	}

	// Double unregister is a no-op.
	hub.Unregister(c)
}

func TestBroadcastOrderFiltersByRestaurant(t *testing.T) {
	hub := newTestHub()
	watching := NewClient(hub, nil, 1)
	other := NewClient(hub, nil, 2)
	hub.Register(watching)
	hub.Register(other)

	ev := OrderEvent{Type: "order_created", OrderID: 7, RestaurantID: 1, Status: "pending"}
	hub.BroadcastOrder(ev)

	select {
	case data := <-watching.send:
		var got OrderEvent
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if got != ev {
			t.Errorf("got %+v, want %+v", got, ev)
		}
	default:
		t.Fatal("watching client should have received the event")
	}

	select {
	case <-other.send:
		t.Fatal("other restaurant's client should not receive the event")
	default:
	}
}

func TestBroadcastOrderDropsWhenBufferFull(t *testing.T) {
	hub := newTestHub()
	c := NewClient(hub, nil, 1)
	hub.Register(c)

	// Fill past the buffer; the overflow must not block.
	for i := 0; i < sendBufferSize+5; i++ {
		hub.BroadcastOrder(OrderEvent{Type: "order_created", OrderID: int64(i), RestaurantID: 1})
	}
	if len(c.send) != sendBufferSize {
		t.Errorf("buffered = %d, want %d", len(c.send), sendBufferSize)
	}
}
