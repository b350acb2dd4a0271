package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"rankboard/core"
)

func oneOf(field, value string, valid ...string) string {
	if slices.Contains(valid, value) {
		return ""
	}
	return fmt.Sprintf("%s must be one of: %s", field, strings.Join(valid, ", "))
}

func joinErrs(errs []string) error {
	var kept []string
	for _, e := range errs {
		if e != "" {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return errors.New(strings.Join(kept, "; "))
}

// Validate validates board configuration
func (b *BoardConfig) Validate() error {
	return core.ValidateCapacity(b.Capacity)
}

// Validate validates server configuration
func (s *ServerConfig) Validate() error {
	var errs []string
	if s.Address == "" {
		errs = append(errs, "address cannot be empty")
	}
	for name, d := range map[string]int64{
		"read_timeout":        int64(s.ReadTimeout),
		"write_timeout":       int64(s.WriteTimeout),
		"idle_timeout":        int64(s.IdleTimeout),
		"read_header_timeout": int64(s.ReadHeaderTimeout),
		"shutdown_timeout":    int64(s.ShutdownTimeout),
	} {
		if d <= 0 {
			errs = append(errs, name+" must be positive")
		}
	}
	slices.Sort(errs)
	return joinErrs(errs)
}

// Validate validates event dispatch configuration
func (e *EventsConfig) Validate() error {
	errs := []string{oneOf("dispatch", e.Dispatch, "sync", "async")}
	if e.RedisEnabled {
		if e.Redis.Addr == "" {
			errs = append(errs, "redis.addr cannot be empty when redis is enabled")
		}
		if e.Redis.Channel == "" {
			errs = append(errs, "redis.channel cannot be empty when redis is enabled")
		}
	}
	for i, hook := range e.Webhooks {
		u, err := url.Parse(hook)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("webhooks[%d] must be an http(s) URL", i))
		}
	}
	return joinErrs(errs)
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	return joinErrs([]string{
		oneOf("level", l.Level, "debug", "info", "warn", "error"),
		oneOf("format", l.Format, "json", "text"),
		oneOf("output", l.Output, "stdout", "stderr"),
	})
}

// Validate validates security settings.
func (s *SecurityConfig) Validate() error {
	var errs []string
	if s.EnableRateLimit {
		if s.RateLimit.RequestsPerMinute <= 0 {
			errs = append(errs, "rate_limit.requests_per_minute must be > 0 when rate limiting is enabled")
		}
		if s.RateLimit.BurstSize <= 0 {
			errs = append(errs, "rate_limit.burst_size must be > 0 when rate limiting is enabled")
		}
	}
	for i, key := range s.APIKeys {
		if strings.TrimSpace(key) == "" {
			errs = append(errs, fmt.Sprintf("api_keys[%d] is empty", i))
		}
	}
	return joinErrs(errs)
}
