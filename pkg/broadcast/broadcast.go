package broadcast

import (
	"context"
	"slices"
	"sync"
)

// Message wraps data of type T. Topic routes it to subscribers that asked
// for it; subscribers without topics receive everything.
type Message[T any] struct {
	Topic string
	Data  T
}

// Subscriber receives messages from a Broadcaster.
// Implementations must be safe for concurrent use.
type Subscriber[T any] interface {
	// Receive returns the delivery channel. It is closed when the
	// subscriber is closed or dropped.
	Receive(ctx context.Context) <-chan Message[T]

	// Close is idempotent.
	Close() error
}

// Broadcaster fans messages out to subscribers without blocking the sender.
type Broadcaster[T any] interface {
	// Subscribe registers a subscriber for the given topics, or for all
	// topics when none are given. It is removed when ctx is cancelled.
	Subscribe(ctx context.Context, topics ...string) Subscriber[T]

	// Broadcast delivers msg to every matching subscriber. A subscriber
	// whose buffer is full misses the message and is dropped.
	Broadcast(ctx context.Context, msg Message[T]) error

	Close() error
}

type subscriber[T any] struct {
	ch     chan Message[T]
	topics []string
	closed bool
	mu     sync.RWMutex
}

func newSubscriber[T any](bufferSize int, topics []string) *subscriber[T] {
	return &subscriber[T]{
		ch:     make(chan Message[T], bufferSize),
		topics: slices.Clone(topics),
	}
}

func (s *subscriber[T]) Receive(context.Context) <-chan Message[T] {
	return s.ch
}

func (s *subscriber[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

func (s *subscriber[T]) wants(topic string) bool {
	return len(s.topics) == 0 || slices.Contains(s.topics, topic)
}

// send reports false when the message could not be delivered.
func (s *subscriber[T]) send(msg Message[T]) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}
