package interfaces

import "context"

// PublisherClientInterface wraps the Pub/Sub client surface the dispatcher
// needs, so tests can swap the SDK out.
type PublisherClientInterface interface {
	Publisher(topic string) TopicPublisherInterface
	Close() error
}

type TopicPublisherInterface interface {
	Publish(ctx context.Context, data []byte, attributes map[string]string) (string, error)
}
