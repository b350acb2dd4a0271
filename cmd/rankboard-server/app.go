package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"

	redisAdapter "rankboard/adapters/redis"
	"rankboard/api/httpapi"
	"rankboard/config"
	"rankboard/engine"
	"rankboard/integrations/webhook"
	"rankboard/metrics"
	"rankboard/rankboard"
	"rankboard/realtime"
)

// App aggregates the assembled server components.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Hub     *realtime.Hub
	Service *engine.BoardService
	Metrics *metrics.Collector
	Handler http.Handler
	Server  *http.Server
}

// provideConfig reads ./.env, then a JSON file named by RANKBOARD_CONFIG_FILE
// if set, then the environment.
func provideConfig(_ context.Context) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	if path := os.Getenv("RANKBOARD_CONFIG_FILE"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func provideLogger(cfg *config.Config) *slog.Logger {
	return setupLogging(cfg)
}

func provideHub() *realtime.Hub {
	return realtime.NewHub()
}

// providePublishers builds the external event sinks enabled in config.
func providePublishers(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]engine.Publisher, func(), error) {
	var pubs []engine.Publisher
	cleanup := func() {}
	if cfg.Events.RedisEnabled {
		p, err := redisAdapter.New(cfg.Events.Redis)
		if err != nil {
			return nil, nil, err
		}
		logger.InfoContext(ctx, "publishing board events to redis",
			"addr", cfg.Events.Redis.Addr, "channel", p.Channel())
		pubs = append(pubs, p)
		cleanup = func() {
			if err := p.Close(); err != nil {
				logger.Error("failed to close redis publisher", "error", err)
			}
		}
	}
	if len(cfg.Events.Webhooks) > 0 {
		logger.InfoContext(ctx, "posting board events to webhooks", "endpoints", len(cfg.Events.Webhooks))
		pubs = append(pubs, webhook.New(cfg.Events.Webhooks))
	}
	return pubs, cleanup, nil
}

func provideService(cfg *config.Config, hub *realtime.Hub, pubs []engine.Publisher, logger *slog.Logger) (*engine.BoardService, func(), error) {
	mode := engine.DispatchAsync
	if cfg.Events.Dispatch == "sync" {
		mode = engine.DispatchSync
	}
	opts := []rankboard.Option{
		rankboard.WithRealtime(hub),
		rankboard.WithDispatchMode(mode),
		rankboard.WithLogger(logger),
	}
	for _, p := range pubs {
		opts = append(opts, rankboard.WithPublisher(p))
	}
	svc, err := rankboard.New(cfg.Board.Capacity, opts...)
	if err != nil {
		return nil, nil, err
	}
	return svc, svc.Close, nil
}

// provideMetrics returns nil when metrics are disabled.
func provideMetrics(cfg *config.Config, svc *engine.BoardService) (*metrics.Collector, func()) {
	if !cfg.Server.MetricsEnabled {
		return nil, func() {}
	}
	c := metrics.New(svc.Capacity())
	return c, c.Attach(svc)
}

func provideHandler(svc *engine.BoardService, hub *realtime.Hub, m *metrics.Collector, cfg *config.Config, logger *slog.Logger) http.Handler {
	var metricsHandler http.Handler
	if m != nil {
		metricsHandler = m.Handler()
	}
	return httpapi.NewMux(svc, hub, httpapi.Options{
		PathPrefix:       cfg.Server.PathPrefix,
		AllowCORSOrigin:  cfg.Server.CORSOrigin,
		APIKeys:          cfg.Security.APIKeys,
		RateLimitEnabled: cfg.Security.EnableRateLimit,
		RateLimitRPM:     cfg.Security.RateLimit.RequestsPerMinute,
		RateLimitBurst:   cfg.Security.RateLimit.BurstSize,
		Logger:           logger,
		Metrics:          metricsHandler,
	})
}

func provideServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

// setupLogging configures the logger based on configuration.
func setupLogging(cfg *config.Config) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg.Logging.Output == "stderr" {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Logging.Level)}

	var handler slog.Handler
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	if len(cfg.Logging.Attributes) > 0 {
		attrs := make([]slog.Attr, 0, len(cfg.Logging.Attributes))
		for k, v := range cfg.Logging.Attributes {
			attrs = append(attrs, slog.String(k, v))
		}
		handler = handler.WithAttrs(attrs)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
