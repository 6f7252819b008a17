package queue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig represents Redis Streams configuration
type RedisConfig struct {
	URL      string // Redis URL (e.g., redis://localhost:6379)
	Password string // Optional password
	DB       int    // Database number (default: 0)
	Stream   string // Stream key prefix (default: "demandcast")
	Group    string // Consumer group name (default: "demandcast-planning")
	Consumer string // Consumer name (default: hostname)
	MaxLen   int64  // Approximate stream cap (default: 100000)
}

// RedisQueue implements Queue using Redis Streams. One Redis stream holds a
// subject's stream part; the key travels in the "key" field of each entry.
type RedisQueue struct {
	client        *redis.Client
	config        RedisConfig
	subscriptions map[string]context.CancelFunc
	mu            sync.RWMutex
}

// newRedisQueue creates a new Redis Streams queue instance
func newRedisQueue(cfg RedisConfig) (*RedisQueue, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		// Fallback to a plain address
		opts = &redis.Options{
			Addr:     cfg.URL,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if cfg.Stream == "" {
		cfg.Stream = "demandcast"
	}
	if cfg.Group == "" {
		cfg.Group = "demandcast-planning"
	}
	if cfg.Consumer == "" {
		hostname, _ := os.Hostname()
		if hostname == "" {
			hostname = "consumer-1"
		}
		cfg.Consumer = hostname
	}
	if cfg.MaxLen == 0 {
		cfg.MaxLen = 100000
	}

	return &RedisQueue{
		client:        client,
		config:        cfg,
		subscriptions: make(map[string]context.CancelFunc),
	}, nil
}

// redisStream converts a subject to a Redis stream key
func (q *RedisQueue) redisStream(subject string) (string, string) {
	stream, key := splitSubject(subject)
	return q.config.Stream + ":" + stream, key
}

func (q *RedisQueue) addArgs(subject string, data []byte) *redis.XAddArgs {
	stream, key := q.redisStream(subject)
	return &redis.XAddArgs{
		Stream: stream,
		MaxLen: q.config.MaxLen,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{
			"key":  key,
			"data": data,
		},
	}
}

// Publish appends a message to the subject's Redis stream
func (q *RedisQueue) Publish(ctx context.Context, subject string, data []byte) error {
	args := q.addArgs(subject, data)
	if err := q.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to publish to Redis stream %s: %w", args.Stream, err)
	}
	return nil
}

// PublishBatch publishes multiple messages in one pipeline
func (q *RedisQueue) PublishBatch(ctx context.Context, messages []Message) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	pipe := q.client.Pipeline()
	for _, msg := range messages {
		pipe.XAdd(ctx, q.addArgs(msg.Subject, msg.Data))
	}

	cmds, err := pipe.Exec(ctx)
	successCount := 0
	for _, cmd := range cmds {
		if cmd.Err() == nil {
			successCount++
		}
	}
	if err != nil && successCount == 0 {
		return 0, fmt.Errorf("failed to execute batch publish: %w", err)
	}

	return successCount, nil
}

// Subscribe reads subject's stream through the consumer group. A concrete
// subject only delivers entries carrying its key.
func (q *RedisQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	stream, _ := q.redisStream(subject)
	ctx, cancel := context.WithCancel(context.Background())

	err := q.client.XGroupCreateMkStream(ctx, stream, q.config.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		cancel()
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	go q.readStream(ctx, subject, stream, handler)

	q.subscriptions[subject] = cancel
	return nil
}

// readStream continuously reads messages from a Redis stream
func (q *RedisQueue) readStream(ctx context.Context, pattern, stream string, handler MessageHandler) {
	streamPart, _ := splitSubject(pattern)

	for {
		if ctx.Err() != nil {
			return
		}

		streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    q.config.Group,
			Consumer: q.config.Consumer,
			Streams:  []string{stream, ">"},
			Count:    100,
			Block:    5 * time.Second,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			time.Sleep(100 * time.Millisecond)
			continue
		}

		for _, s := range streams {
			for _, msg := range s.Messages {
				data, ok := msg.Values["data"].(string)
				key, _ := msg.Values["key"].(string)
				subject := streamPart + "." + key
				if !ok || !matchSubject(pattern, subject) {
					q.client.XAck(ctx, stream, q.config.Group, msg.ID)
					continue
				}

				if err := handler(subject, []byte(data)); err != nil {
					// Left pending for redelivery
					continue
				}

				q.client.XAck(ctx, stream, q.config.Group, msg.ID)
			}
		}
	}
}

// Unsubscribe unsubscribes from a subject
func (q *RedisQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	cancel, exists := q.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}

	cancel()
	delete(q.subscriptions, subject)
	return nil
}

// Close closes the Redis connection
func (q *RedisQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for subject, cancel := range q.subscriptions {
		cancel()
		delete(q.subscriptions, subject)
	}

	return q.client.Close()
}
