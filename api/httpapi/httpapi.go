package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	wsadapter "rankboard/adapters/websocket"
	"rankboard/core"
	"rankboard/engine"
	"rankboard/realtime"
)

// Options configures the HTTP API surface.
type Options struct {
	// PathPrefix, if set, is prepended to all routes (e.g., "/api").
	PathPrefix string
	// AllowCORSOrigin, if non-empty, enables basic CORS with the given origin (use "*" for any).
	AllowCORSOrigin string
	// APIKeys, if non-empty, enables static API key auth via Authorization: Bearer or X-API-Key.
	APIKeys []string
	// RateLimitEnabled toggles rate limiting.
	RateLimitEnabled bool
	// RateLimitRPM is the allowed requests per minute per client key.
	RateLimitRPM int
	// RateLimitBurst defines burst capacity.
	RateLimitBurst int
	// Logger receives request errors; defaults to slog.Default().
	Logger *slog.Logger
	// Metrics, if set, is served at {prefix}/metrics.
	Metrics http.Handler
}

// NewMux builds an http.Handler exposing the board REST API and WebSocket stream.
// Routes:
//   - GET    {prefix}/board
//   - POST   {prefix}/board/entries?name=alice&score=95
//   - DELETE {prefix}/board/entries/{place}
//   - GET    {prefix}/healthz
//   - WS     {prefix}/ws
//   - GET    {prefix}/metrics (when Options.Metrics is set)
func NewMux(svc *engine.BoardService, hub *realtime.Hub, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+withPrefix(opts.PathPrefix, "/healthz"), func(w http.ResponseWriter, r *http.Request) {
		healthCheck(w, svc, hub)
	})

	if hub != nil {
		mux.Handle(withPrefix(opts.PathPrefix, "/ws"), wsadapter.Handler(hub))
	}

	if opts.Metrics != nil {
		mux.Handle("GET "+withPrefix(opts.PathPrefix, "/metrics"), opts.Metrics)
	}

	mux.HandleFunc("GET "+withPrefix(opts.PathPrefix, "/board"), func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Snapshot())
	})

	mux.HandleFunc("POST "+withPrefix(opts.PathPrefix, "/board/entries"), func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		score, err := strconv.ParseInt(q.Get("score"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_score", "score must be an integer", nil)
			return
		}
		admitted, err := svc.Add(r.Context(), q.Get("name"), score)
		if err != nil {
			logger.Error("add entry failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal", err.Error(), nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"admitted": admitted})
	})

	mux.HandleFunc("DELETE "+withPrefix(opts.PathPrefix, "/board/entries/{place}"), func(w http.ResponseWriter, r *http.Request) {
		place, err := strconv.Atoi(r.PathValue("place"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_place", "place must be an integer", nil)
			return
		}
		removed, err := svc.RemoveAt(r.Context(), place)
		var oor *core.OutOfRangeError
		switch {
		case errors.As(err, &oor):
			writeError(w, http.StatusNotFound, "out_of_range", err.Error(), map[string]int{"place": oor.Place, "size": oor.Size})
			return
		case err != nil:
			logger.Error("remove entry failed", "place", place, "error", err)
			writeError(w, http.StatusInternalServerError, "internal", err.Error(), nil)
			return
		}
		writeJSON(w, http.StatusOK, removed)
	})

	mux.HandleFunc(withPrefix(opts.PathPrefix, "/"), func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found", nil)
	})

	var handler http.Handler = mux
	if opts.AllowCORSOrigin != "" {
		handler = withCORS(handler, opts.AllowCORSOrigin)
	}
	if len(opts.APIKeys) > 0 {
		handler = withAPIKeyAuth(handler, opts.APIKeys)
	}
	if opts.RateLimitEnabled && opts.RateLimitRPM > 0 && opts.RateLimitBurst > 0 {
		handler = withRateLimit(handler, opts.RateLimitRPM, opts.RateLimitBurst)
	}
	return handler
}

// Helpers

// healthCheck reports board occupancy; an in-memory board is always healthy.
func healthCheck(w http.ResponseWriter, svc *engine.BoardService, hub *realtime.Hub) {
	checks := map[string]any{
		"board": map[string]int{"capacity": svc.Capacity(), "size": svc.Len()},
	}
	if hub != nil {
		checks["subscribers"] = hub.Subscribers()
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "healthy", "checks": checks})
}

func withPrefix(prefix, path string) string {
	if prefix == "" || prefix == "/" {
		return path
	}
	return strings.TrimSuffix(prefix, "/") + path
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string, details any) {
	writeJSON(w, status, apiError{Code: code, Message: msg, Details: details})
}

// withCORS wraps a handler with a minimal CORS policy.
func withCORS(next http.Handler, origin string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Vary", "Origin")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization,X-API-Key")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withAPIKeyAuth enforces a shared API key list.
func withAPIKeyAuth(next http.Handler, apiKeys []string) http.Handler {
	allowed := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		k = strings.TrimSpace(k)
		if k != "" {
			allowed[k] = struct{}{}
		}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := extractAPIKey(r)
		if key == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing API key", nil)
			return
		}
		if _, ok := allowed[key]; !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid API key", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit applies a simple token-bucket limiter per client key.
func withRateLimit(next http.Handler, rpm int, burst int) http.Handler {
	limiter := newRateLimiter(rpm, burst)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.allow(clientKey(r)) {
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractAPIKey(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return r.Header.Get("X-API-Key")
}

// clientKey uses API key if present, otherwise remote IP.
func clientKey(r *http.Request) string {
	if key := extractAPIKey(r); key != "" {
		return key
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type rateLimiter struct {
	rpm   float64
	burst float64
	mu    sync.Mutex
	b     map[string]*bucket
}

type bucket struct {
	tokens float64
	last   time.Time
}

func newRateLimiter(rpm, burst int) *rateLimiter {
	return &rateLimiter{rpm: float64(rpm), burst: float64(burst), b: make(map[string]*bucket)}
}

func (l *rateLimiter) allow(key string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.b[key]
	if !ok {
		l.b[key] = &bucket{tokens: l.burst - 1, last: now}
		return true
	}

	b.tokens = min(l.burst, b.tokens+now.Sub(b.last).Minutes()*l.rpm)
	b.last = now
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
