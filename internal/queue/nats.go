package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSConfig represents NATS JetStream configuration
type NATSConfig struct {
	URL      string // NATS URL (e.g., nats://localhost:4222)
	Username string // Optional authentication
	Password string // Optional authentication
}

// NATSQueue implements Queue using NATS JetStream. Each stream part of a
// subject gets one JetStream stream capturing "<stream>.>".
type NATSQueue struct {
	conn          *nats.Conn
	js            nats.JetStreamContext
	streams       map[string]bool
	subscriptions map[string]*nats.Subscription
	mu            sync.RWMutex
}

// newNATSQueue connects to NATS and enables JetStream
func newNATSQueue(cfg NATSConfig) (*NATSQueue, error) {
	opts := []nats.Option{nats.Name("demandcast")}
	if cfg.Username != "" {
		opts = append(opts, nats.UserInfo(cfg.Username, cfg.Password))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	q, err := newNATSQueueWithConn(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return q, nil
}

// newNATSQueueWithConn creates a queue over an existing connection (used in tests)
func newNATSQueueWithConn(conn *nats.Conn) (*NATSQueue, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &NATSQueue{
		conn:          conn,
		js:            js,
		streams:       make(map[string]bool),
		subscriptions: make(map[string]*nats.Subscription),
	}, nil
}

// streamName is the JetStream stream holding a subject
func streamName(stream string) string {
	return "demandcast-" + sanitizeName(stream)
}

// ensureStream creates the JetStream stream for subject's stream part once
func (q *NATSQueue) ensureStream(subject string) error {
	stream, _ := splitSubject(subject)

	q.mu.RLock()
	known := q.streams[stream]
	q.mu.RUnlock()
	if known {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.streams[stream] {
		return nil
	}

	name := streamName(stream)
	if _, err := q.js.StreamInfo(name); err != nil {
		_, err = q.js.AddStream(&nats.StreamConfig{
			Name:     name,
			Subjects: []string{stream + "." + wildcard},
			Storage:  nats.FileStorage,
			MaxAge:   7 * 24 * time.Hour,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream for %s: %w", stream, err)
		}
	}
	q.streams[stream] = true
	return nil
}

// Publish publishes a message and waits for the JetStream ack
func (q *NATSQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if err := q.ensureStream(subject); err != nil {
		return err
	}
	if _, err := q.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}
	return nil
}

// PublishBatch queues every message asynchronously and waits for the acks
func (q *NATSQueue) PublishBatch(ctx context.Context, messages []Message) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	futures := make([]nats.PubAckFuture, 0, len(messages))
	for _, msg := range messages {
		if err := q.ensureStream(msg.Subject); err != nil {
			continue
		}
		future, err := q.js.PublishAsync(msg.Subject, msg.Data)
		if err != nil {
			continue
		}
		futures = append(futures, future)
	}

	select {
	case <-q.js.PublishAsyncComplete():
	case <-ctx.Done():
		return 0, fmt.Errorf("timeout waiting for batch publish: %w", ctx.Err())
	}

	successCount := 0
	for _, future := range futures {
		select {
		case <-future.Ok():
			successCount++
		case <-future.Err():
		default:
			// Completed without a resolved future, count as acknowledged
			successCount++
		}
	}

	if successCount == 0 {
		return 0, fmt.Errorf("no messages acknowledged out of %d", len(messages))
	}
	return successCount, nil
}

// Subscribe creates a durable JetStream consumer for subject
func (q *NATSQueue) Subscribe(subject string, handler MessageHandler) error {
	if err := q.ensureStream(subject); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	sub, err := q.js.Subscribe(subject, func(msg *nats.Msg) {
		if err := handler(msg.Subject, msg.Data); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("consumer-"+sanitizeName(subject)),
		nats.ManualAck(),
		nats.MaxAckPending(100),
		nats.AckWait(30*time.Second),
		nats.MaxDeliver(3),
		nats.DeliverAll(),
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", subject, err)
	}

	q.subscriptions[subject] = sub
	return nil
}

// Unsubscribe unsubscribes from a subject
func (q *NATSQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	sub, exists := q.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}

	if err := sub.Unsubscribe(); err != nil {
		return fmt.Errorf("failed to unsubscribe from subject %s: %w", subject, err)
	}

	delete(q.subscriptions, subject)
	return nil
}

// Close drains subscriptions and closes the connection
func (q *NATSQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for subject, sub := range q.subscriptions {
		_ = sub.Unsubscribe()
		delete(q.subscriptions, subject)
	}

	q.conn.Close()
	return nil
}
