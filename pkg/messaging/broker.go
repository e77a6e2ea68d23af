package messaging

import (
	"context"
)

// Broker is the publish/subscribe transport the core emits events to.
// Real-time delivery to connected clients is the subscriber's concern.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
