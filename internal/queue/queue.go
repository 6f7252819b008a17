// Package queue carries forecast events to downstream planning consumers over
// NATS JetStream, Redis Streams, Kafka or an in-process bus.
//
// Subjects are dot-separated tokens. The last token is the partition key:
// "demandcast.forecasts.BOLO-001" is stream "demandcast.forecasts", key
// "BOLO-001". A trailing ">" subscribes to every key of a stream.
package queue

import "context"

// Publisher publishes messages to a queue
type Publisher interface {
	// Publish publishes a message to a subject
	Publish(ctx context.Context, subject string, data []byte) error

	// PublishBatch publishes multiple messages and waits for all to complete.
	// Returns the number of successfully published messages.
	PublishBatch(ctx context.Context, messages []Message) (int, error)

	// Close closes the connection
	Close() error
}

// Message is a payload addressed to a subject
type Message struct {
	Subject string
	Data    []byte
}

// Subscriber subscribes to messages from a queue
type Subscriber interface {
	// Subscribe registers handler for a subject or a "<stream>.>" pattern
	Subscribe(subject string, handler MessageHandler) error

	// Unsubscribe removes the subscription registered under subject
	Unsubscribe(subject string) error

	// Close closes the connection
	Close() error
}

// MessageHandler handles an incoming message. A returned error leaves the
// message unacknowledged so the backend can redeliver it.
type MessageHandler func(subject string, data []byte) error

// Queue combines Publisher and Subscriber interfaces
type Queue interface {
	Publisher
	Subscriber
}
