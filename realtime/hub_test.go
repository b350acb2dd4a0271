package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"rankboard/core"
)

func TestHubSubscribeBroadcastUnsubscribe(t *testing.T) {
	h := NewHub()
	id, ch := h.Subscribe(1)
	if h.Subscribers() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", h.Subscribers())
	}

	ev := core.NewEntryAdmitted(core.NewEntry("bob", 10), 1, nil, 1)
	if n := h.Broadcast(context.Background(), ev); n != 1 {
		t.Fatalf("expected 1 delivery, got %d", n)
	}

	received := <-ch
	if received.Entry.Name != "bob" || received.Type != core.EventEntryAdmitted {
		t.Fatalf("unexpected event: %+v", received)
	}

	h.Unsubscribe(id)
	_, ok := <-ch
	if ok {
		t.Fatal("expected channel closed after unsubscribe")
	}
}

func TestHubDropsWhenFull(t *testing.T) {
	h := NewHub()
	_, ch := h.Subscribe(1)
	ev := core.NewEntryRemoved(core.NewEntry("a", 1), 1, 0)
	h.Broadcast(context.Background(), ev)
	if n := h.Broadcast(context.Background(), ev); n != 0 {
		t.Fatalf("expected drop, delivered to %d", n)
	}
	if len(ch) != 1 {
		t.Fatalf("expected one buffered event, got %d", len(ch))
	}
}

func TestMarshalJSON(t *testing.T) {
	ev := core.NewEntryRejected(core.NewEntry("alice", 3), 5, 2)
	b := MarshalJSON(ev)
	var out core.Event
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Lowest == nil || *out.Lowest != 5 || out.Entry.Name != "alice" {
		t.Fatalf("unexpected event: %+v", out)
	}
}
