package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig represents Apache Kafka configuration
type KafkaConfig struct {
	Brokers       []string      // Kafka broker addresses
	GroupID       string        // Consumer group ID (default: "demandcast-planning")
	BatchSize     int           // Batch size for producer (default: 100)
	BatchTimeout  time.Duration // Batch timeout for producer (default: 10ms)
	RequiredAcks  int           // Required acks: 0=none, 1=leader, -1=all (default: 1)
	MaxRetries    int           // Max retries on failure (default: 3)
	RetryBackoff  time.Duration // Backoff between commit retries (default: 100ms)
	CommitRetries int           // Consumer commit retries (default: 3)
}

// KafkaQueue implements Queue using Apache Kafka. The stream part of a
// subject is the topic and the key part is the message key, so every event
// of a product lands on the same partition.
type KafkaQueue struct {
	config        KafkaConfig
	writer        *kafka.Writer
	readers       map[string]*kafka.Reader
	subscriptions map[string]context.CancelFunc
	mu            sync.RWMutex
}

// newKafkaQueue creates a new Kafka queue instance
func newKafkaQueue(cfg KafkaConfig) (*KafkaQueue, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}

	if cfg.GroupID == "" {
		cfg.GroupID = "demandcast-planning"
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 10 * time.Millisecond
	}
	if cfg.RequiredAcks == 0 {
		cfg.RequiredAcks = int(kafka.RequireOne)
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = 100 * time.Millisecond
	}
	if cfg.CommitRetries == 0 {
		cfg.CommitRetries = 3
	}

	// Topic is set per message
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		MaxAttempts:            cfg.MaxRetries,
		AllowAutoTopicCreation: true,
	}

	return &KafkaQueue{
		config:        cfg,
		writer:        writer,
		readers:       make(map[string]*kafka.Reader),
		subscriptions: make(map[string]context.CancelFunc),
	}, nil
}

// kafkaMessage maps a subject to topic and key
func kafkaMessage(subject string, data []byte, at time.Time) kafka.Message {
	topic, key := splitSubject(subject)
	return kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  at,
	}
}

// Publish publishes a message to the subject's topic
func (q *KafkaQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if err := q.writer.WriteMessages(ctx, kafkaMessage(subject, data, time.Now())); err != nil {
		return fmt.Errorf("failed to publish to kafka subject %s: %w", subject, err)
	}
	return nil
}

// PublishBatch writes all messages in a single producer call
func (q *KafkaQueue) PublishBatch(ctx context.Context, messages []Message) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	now := time.Now()
	batch := make([]kafka.Message, len(messages))
	for i, msg := range messages {
		batch[i] = kafkaMessage(msg.Subject, msg.Data, now)
	}

	err := q.writer.WriteMessages(ctx, batch...)
	if err == nil {
		return len(batch), nil
	}

	// WriteErrors reports failures per message
	if writeErrs, ok := err.(kafka.WriteErrors); ok {
		successCount := len(batch) - writeErrs.Count()
		if successCount > 0 {
			return successCount, nil
		}
	}
	return 0, fmt.Errorf("failed to publish batch: %w", err)
}

// Subscribe consumes the subject's topic in the consumer group. A concrete
// subject only delivers messages carrying its key.
func (q *KafkaQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	topic, _ := splitSubject(subject)
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        q.config.Brokers,
		GroupID:        q.config.GroupID,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        1 * time.Second,
		CommitInterval: 0, // Explicit commits after the handler succeeds
	})

	ctx, cancel := context.WithCancel(context.Background())
	q.readers[subject] = reader
	q.subscriptions[subject] = cancel

	go q.consumeMessages(ctx, subject, reader, handler)

	return nil
}

// consumeMessages reads messages from Kafka in a loop
func (q *KafkaQueue) consumeMessages(ctx context.Context, pattern string, reader *kafka.Reader, handler MessageHandler) {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			time.Sleep(q.config.RetryBackoff)
			continue
		}

		subject := msg.Topic + "." + string(msg.Key)
		if matchSubject(pattern, subject) {
			if err := handler(subject, msg.Value); err != nil {
				// Not committed, redelivered after a rebalance
				continue
			}
		}

		for i := 0; i < q.config.CommitRetries; i++ {
			if err := reader.CommitMessages(ctx, msg); err == nil {
				break
			}
			if ctx.Err() != nil {
				return
			}
			time.Sleep(q.config.RetryBackoff)
		}
	}
}

// Unsubscribe stops the consumer registered under subject
func (q *KafkaQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	cancel, exists := q.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}

	cancel()
	if reader, ok := q.readers[subject]; ok {
		_ = reader.Close()
		delete(q.readers, subject)
	}

	delete(q.subscriptions, subject)
	return nil
}

// Close closes all readers and the writer
func (q *KafkaQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	var lastErr error
	for subject, cancel := range q.subscriptions {
		cancel()
		if reader, ok := q.readers[subject]; ok {
			if err := reader.Close(); err != nil {
				lastErr = err
			}
		}
		delete(q.subscriptions, subject)
		delete(q.readers, subject)
	}

	if err := q.writer.Close(); err != nil {
		lastErr = err
	}
	return lastErr
}

// Stats returns producer stats for monitoring
func (q *KafkaQueue) Stats() kafka.WriterStats {
	return q.writer.Stats()
}
