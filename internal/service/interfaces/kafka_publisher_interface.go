package interfaces

import "context"

// KafkaPublisherInterface defines the interface for the audit event stream producer.
type KafkaPublisherInterface interface {
	Publish(ctx context.Context, msg []byte) error
}
