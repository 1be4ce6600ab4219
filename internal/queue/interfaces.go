package queue

import "context"

// Consumer runs until ctx is cancelled or the broker connection fails.
type Consumer interface {
	Start(ctx context.Context) error
}

// Publisher sends one encoded repository event under routingKey.
type Publisher interface {
	Publish(ctx context.Context, payload []byte, routingKey string) error
}
