package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Entry mirrors core.Entry.
type Entry struct {
	Name  string `json:"name"`
	Score int64  `json:"score"`
}

// Board mirrors the GET /board response.
type Board struct {
	Capacity int     `json:"capacity"`
	Size     int     `json:"size"`
	Entries  []Entry `json:"entries"`
	Display  string  `json:"display"`
}

// Event mirrors the public JSON surface of core.Event.
type Event struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Time    time.Time `json:"time"`
	Entry   Entry     `json:"entry"`
	Place   int       `json:"place,omitempty"`
	Evicted *Entry    `json:"evicted,omitempty"`
	Lowest  *int64    `json:"lowest,omitempty"`
	Size    int       `json:"size"`
}

// HealthStatus describes the /healthz response.
type HealthStatus struct {
	Status string         `json:"status"`
	Checks map[string]any `json:"checks"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("request failed: status %d: %s: %s", e.Status, e.Code, e.Message)
}

// IsOutOfRange reports whether err is the server rejecting a place.
func IsOutOfRange(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == "out_of_range"
}

func decodeJSON(resp *http.Response, target any) error {
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	return json.NewDecoder(resp.Body).Decode(target)
}
