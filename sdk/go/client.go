package sdk

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Option configures the Client.
type Option func(*Client)

// Client provides typed access to the rankboard HTTP + WebSocket API.
type Client struct {
	baseURL    string
	wsURL      string
	httpClient *http.Client
	headers    http.Header
}

// NewClient constructs a new SDK client targeting the given baseURL (e.g., http://localhost:8080/api).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("baseURL is required")
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	c := &Client{
		baseURL:    baseURL,
		wsURL:      deriveWSURL(baseURL),
		httpClient: http.DefaultClient,
		headers:    make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithAPIKey adds an X-API-Key header to HTTP and WS calls.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		if strings.TrimSpace(key) != "" {
			c.headers.Set("X-API-Key", key)
		}
	}
}

// Add offers an entry to the board and reports whether it was admitted.
func (c *Client) Add(ctx context.Context, name string, score int64) (bool, error) {
	u, err := url.Parse(c.baseURL + "/board/entries")
	if err != nil {
		return false, err
	}
	q := u.Query()
	q.Set("name", name)
	q.Set("score", strconv.FormatInt(score, 10))
	u.RawQuery = q.Encode()

	var body struct {
		Admitted bool `json:"admitted"`
	}
	if err := c.do(ctx, http.MethodPost, u.String(), &body); err != nil {
		return false, err
	}
	return body.Admitted, nil
}

// RemoveAt removes the entry at the 1-based place. An invalid place yields
// an error for which IsOutOfRange is true.
func (c *Client) RemoveAt(ctx context.Context, place int) (Entry, error) {
	var e Entry
	err := c.do(ctx, http.MethodDelete, c.baseURL+"/board/entries/"+strconv.Itoa(place), &e)
	return e, err
}

// Board fetches the current board.
func (c *Client) Board(ctx context.Context) (Board, error) {
	var b Board
	err := c.do(ctx, http.MethodGet, c.baseURL+"/board", &b)
	return b, err
}

// Health probes /healthz.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var hs HealthStatus
	err := c.do(ctx, http.MethodGet, c.baseURL+"/healthz", &hs)
	return hs, err
}

// SubscribeEvents connects to the WebSocket stream and emits board events.
// The returned channel closes when ctx is done or the connection drops.
func (c *Client) SubscribeEvents(ctx context.Context) (<-chan Event, error) {
	if c.wsURL == "" {
		return nil, errors.New("wsURL is not set; ensure baseURL is http/https")
	}
	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.DialContext(ctx, c.wsURL, c.headers)
	if err != nil {
		return nil, err
	}

	// unblock ReadJSON once ctx ends
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	out := make(chan Event, 32)
	go func() {
		defer close(out)
		defer conn.Close()
		for {
			var evt Event
			if err := conn.ReadJSON(&evt); err != nil {
				return
			}
			select {
			case out <- evt:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (c *Client) do(ctx context.Context, method, target string, into any) error {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return err
	}
	for k, vals := range c.headers {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeJSON(resp, into)
}

func deriveWSURL(httpBase string) string {
	u, err := url.Parse(httpBase)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return ""
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String()
}
