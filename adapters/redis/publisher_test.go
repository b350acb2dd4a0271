package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rankboard/core"
)

// newTestClient spins up a miniredis server and returns a client plus the server.
func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestPublisher_PublishSubscribe(t *testing.T) {
	client, _ := newTestClient(t)
	pub := NewWithClient(client, "board:test")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	events, err := pub.Subscribe(ctx)
	require.NoError(t, err)

	evicted := core.NewEntry("old", 10)
	sent := core.NewEntryAdmitted(core.NewEntry("alice", 95), 1, &evicted, 3)
	require.NoError(t, pub.Publish(ctx, sent))

	select {
	case got := <-events:
		assert.Equal(t, sent.ID, got.ID)
		assert.Equal(t, core.EventEntryAdmitted, got.Type)
		assert.Equal(t, sent.Entry, got.Entry)
		require.NotNil(t, got.Evicted)
		assert.Equal(t, evicted, *got.Evicted)
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}

func TestPublisher_SkipsMalformedPayloads(t *testing.T) {
	client, mr := newTestClient(t)
	pub := NewWithClient(client, "board:test")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	events, err := pub.Subscribe(ctx)
	require.NoError(t, err)

	mr.Publish("board:test", "not json")
	require.NoError(t, pub.Publish(ctx, core.NewEntryRemoved(core.NewEntry("bob", 1), 2, 0)))

	select {
	case got := <-events:
		assert.Equal(t, core.EventEntryRemoved, got.Type)
		assert.Equal(t, 2, got.Place)
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}

func TestPublisher_PublishError(t *testing.T) {
	client, mr := newTestClient(t)
	pub := NewWithClient(client, "board:test")
	mr.Close()

	err := pub.Publish(context.Background(), core.NewEntryRemoved(core.NewEntry("bob", 1), 1, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish event")
}

func TestNew_ConnectsAndPings(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := DefaultConfig()
	cfg.Addr = mr.Addr()

	pub, err := New(cfg)
	require.NoError(t, err)
	defer pub.Close()
	assert.Equal(t, "rankboard:events", pub.Channel())
}

func TestNew_FailsWithoutServer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:1"
	cfg.DialTimeout = 100 * time.Millisecond

	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}
