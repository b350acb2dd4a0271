// Package rankboard assembles a ready-to-use board service.
package rankboard

import (
	"context"
	"log/slog"

	"rankboard/core"
	"rankboard/engine"
	"rankboard/leaderboard"
	"rankboard/realtime"
)

// Option configures the board service builder.
type Option func(*config)

type config struct {
	mode       engine.DispatchMode
	hub        *realtime.Hub
	publishers []engine.Publisher
	logger     *slog.Logger
}

// WithDispatchMode selects sync or async event dispatch.
func WithDispatchMode(m engine.DispatchMode) Option { return func(c *config) { c.mode = m } }

// WithRealtime wires a realtime hub to receive all board events.
func WithRealtime(h *realtime.Hub) Option { return func(c *config) { c.hub = h } }

// WithPublisher forwards all board events to p. May be given more than once.
func WithPublisher(p engine.Publisher) Option {
	return func(c *config) {
		if p != nil {
			c.publishers = append(c.publishers, p)
		}
	}
}

// WithLogger sets the service logger (defaults to slog.Default()).
func WithLogger(l *slog.Logger) Option { return func(c *config) { c.logger = l } }

// New builds a BoardService over an empty board of the given capacity.
// Dispatch defaults to async.
func New(capacity int, opts ...Option) (*engine.BoardService, error) {
	cfg := &config{mode: engine.DispatchAsync}
	for _, o := range opts {
		o(cfg)
	}
	board, err := leaderboard.NewGuarded(capacity)
	if err != nil {
		return nil, err
	}
	bus := engine.NewEventBus(cfg.mode)
	svc := engine.NewBoardService(board, bus, cfg.logger)
	if cfg.hub != nil {
		bus.SubscribeAll(func(ctx context.Context, e core.Event) { cfg.hub.Broadcast(ctx, e) })
	}
	for _, p := range cfg.publishers {
		svc.Forward(p)
	}
	return svc, nil
}
