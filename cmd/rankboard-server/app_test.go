package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rankboard/core"
)

func TestBuildAppServesBoard(t *testing.T) {
	t.Setenv("RANKBOARD_BOARD_CAPACITY", "2")
	t.Setenv("RANKBOARD_EVENTS_DISPATCH", "sync")
	t.Setenv("RANKBOARD_LOG_LEVEL", "error")

	app, cleanup, err := BuildApp(context.Background())
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, 2, app.Service.Capacity())
	assert.Equal(t, ":8080", app.Server.Addr)

	for _, q := range []string{"name=a&score=1", "name=b&score=2", "name=c&score=3"} {
		rec := httptest.NewRecorder()
		app.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/board/entries?"+q, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, "[c: 3, b: 2]", app.Service.String())
}

func TestBuildAppPublishesToRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("RANKBOARD_EVENTS_DISPATCH", "sync")
	t.Setenv("RANKBOARD_EVENTS_REDIS_ENABLED", "true")
	t.Setenv("RANKBOARD_REDIS_ADDR", mr.Addr())
	t.Setenv("RANKBOARD_REDIS_CHANNEL", "board:it")
	t.Setenv("RANKBOARD_LOG_LEVEL", "error")

	app, cleanup, err := BuildApp(context.Background())
	require.NoError(t, err)
	defer cleanup()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	sub := client.Subscribe(ctx, "board:it")
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	ok, err := app.Service.Add(ctx, "alice", 42)
	require.NoError(t, err)
	require.True(t, ok)

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	var ev core.Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
	assert.Equal(t, core.EventEntryAdmitted, ev.Type)
	assert.Equal(t, "alice", ev.Entry.Name)
}

func TestBuildAppServesMetrics(t *testing.T) {
	t.Setenv("RANKBOARD_EVENTS_DISPATCH", "sync")
	t.Setenv("RANKBOARD_SERVER_METRICS_ENABLED", "true")
	t.Setenv("RANKBOARD_LOG_LEVEL", "error")

	app, cleanup, err := BuildApp(context.Background())
	require.NoError(t, err)
	defer cleanup()
	require.NotNil(t, app.Metrics)

	_, err = app.Service.Add(context.Background(), "alice", 42)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `rankboard_events_total{type="entry_admitted"} 1`), body)
	assert.Contains(t, body, "rankboard_entries 1")
}

func TestBuildAppInvalidConfig(t *testing.T) {
	t.Setenv("RANKBOARD_BOARD_CAPACITY", "-3")
	_, _, err := BuildApp(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capacity must be positive")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("nonsense"))
}
