package engine

import (
	"context"

	"rankboard/core"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_publisher.go rankboard/engine Publisher

// Publisher forwards board events to an external transport.
type Publisher interface {
	Publish(ctx context.Context, ev core.Event) error
}
