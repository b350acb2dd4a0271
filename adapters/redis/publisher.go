package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rankboard/core"
)

// Config holds Redis connection configuration
type Config struct {
	Addr         string        `json:"addr" env:"RANKBOARD_REDIS_ADDR"`
	Password     string        `json:"password" env:"RANKBOARD_REDIS_PASSWORD"`
	DB           int           `json:"db" env:"RANKBOARD_REDIS_DB"`
	Channel      string        `json:"channel" env:"RANKBOARD_REDIS_CHANNEL"`
	PoolSize     int           `json:"pool_size" env:"RANKBOARD_REDIS_POOL_SIZE"`
	MinIdleConns int           `json:"min_idle_conns" env:"RANKBOARD_REDIS_MIN_IDLE_CONNS"`
	DialTimeout  time.Duration `json:"dial_timeout" env:"RANKBOARD_REDIS_DIAL_TIMEOUT"`
	ReadTimeout  time.Duration `json:"read_timeout" env:"RANKBOARD_REDIS_READ_TIMEOUT"`
	WriteTimeout time.Duration `json:"write_timeout" env:"RANKBOARD_REDIS_WRITE_TIMEOUT"`
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		Channel:      "rankboard:events",
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Publisher forwards board events to a Redis pub/sub channel as JSON.
// Nothing is stored; subscribers that are not connected miss the event.
type Publisher struct {
	client  *redis.Client
	channel string
}

// New connects to Redis and verifies the connection with a PING.
func New(config Config) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewWithClient(client, config.Channel), nil
}

// NewWithClient creates a Publisher using an existing Redis client (useful for testing)
func NewWithClient(client *redis.Client, channel string) *Publisher {
	return &Publisher{client: client, channel: channel}
}

// Close closes the Redis connection
func (p *Publisher) Close() error {
	return p.client.Close()
}

// Channel returns the pub/sub channel events are published to.
func (p *Publisher) Channel() string { return p.channel }

// Publish sends ev to the channel.
func (p *Publisher) Publish(ctx context.Context, ev core.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe listens on the channel and decodes events until ctx is done.
// Malformed payloads are skipped.
func (p *Publisher) Subscribe(ctx context.Context) (<-chan core.Event, error) {
	sub := p.client.Subscribe(ctx, p.channel)
	// wait for the subscription confirmation so no publish is missed
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan core.Event, 32)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev core.Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
