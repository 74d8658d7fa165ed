package ports

import "context"

// EventPublisher delivers outbox events to the broker.
// The partition key keeps per-user event ordering stable.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}
