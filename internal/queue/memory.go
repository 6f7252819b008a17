package queue

import (
	"context"
	"fmt"
	"sync"
)

// MemoryQueue is an in-process Queue. Each subscription owns a buffered
// channel and receives every published message its pattern matches.
// Messages published before a subscription exists are retained per subject
// and delivered when a matching subscription arrives.
type MemoryQueue struct {
	subscriptions map[string]*memorySubscription
	pending       map[string][][]byte
	closed        bool
	mu            sync.RWMutex
}

type memorySubscription struct {
	pattern string
	ch      chan Message
	cancel  context.CancelFunc
}

// memoryBuffer is the capacity of each subscription and pending list
const memoryBuffer = 10000

// newMemoryQueue creates a new in-memory queue instance
func newMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		subscriptions: make(map[string]*memorySubscription),
		pending:       make(map[string][][]byte),
	}
}

// Publish delivers a copy of data to every matching subscription
func (q *MemoryQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return fmt.Errorf("queue closed")
	}

	delivered := false
	for _, sub := range q.subscriptions {
		if !matchSubject(sub.pattern, subject) {
			continue
		}
		select {
		case sub.ch <- Message{Subject: subject, Data: dataCopy}:
			delivered = true
		default:
			return fmt.Errorf("channel full for subject: %s", subject)
		}
	}

	if !delivered {
		if len(q.pending[subject]) >= memoryBuffer {
			return fmt.Errorf("channel full for subject: %s", subject)
		}
		q.pending[subject] = append(q.pending[subject], dataCopy)
	}
	return nil
}

// PublishBatch publishes messages one by one
func (q *MemoryQueue) PublishBatch(ctx context.Context, messages []Message) (int, error) {
	successCount := 0
	for _, msg := range messages {
		if err := q.Publish(ctx, msg.Subject, msg.Data); err != nil {
			continue
		}
		successCount++
	}
	return successCount, nil
}

// Subscribe starts a consumer goroutine for subject
func (q *MemoryQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return fmt.Errorf("queue closed")
	}
	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sub := &memorySubscription{
		pattern: subject,
		ch:      make(chan Message, memoryBuffer),
		cancel:  cancel,
	}

	for pendingSubject, payloads := range q.pending {
		if !matchSubject(subject, pendingSubject) {
			continue
		}
		sent := 0
	drain:
		for _, data := range payloads {
			select {
			case sub.ch <- Message{Subject: pendingSubject, Data: data}:
				sent++
			default:
				break drain
			}
		}
		if sent == len(payloads) {
			delete(q.pending, pendingSubject)
		} else {
			q.pending[pendingSubject] = payloads[sent:]
		}
	}

	q.subscriptions[subject] = sub

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-sub.ch:
				// Handler errors are dropped; there is no redelivery in memory
				_ = handler(msg.Subject, msg.Data)
			}
		}
	}()

	return nil
}

// Unsubscribe stops the consumer registered under subject
func (q *MemoryQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	sub, exists := q.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}

	sub.cancel()
	delete(q.subscriptions, subject)
	return nil
}

// Close stops every subscription and drops pending messages
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for subject, sub := range q.subscriptions {
		sub.cancel()
		delete(q.subscriptions, subject)
	}
	q.pending = make(map[string][][]byte)
	q.closed = true
	return nil
}

// PendingCount returns the messages retained for subject with no subscriber
func (q *MemoryQueue) PendingCount(subject string) int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.pending[subject])
}
