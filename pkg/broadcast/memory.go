package broadcast

import (
	"context"
	"sync"
)

// MemoryBroadcaster is an in-process Broadcaster. Slow consumers lose
// messages instead of blocking Broadcast.
type MemoryBroadcaster[T any] struct {
	subscribers map[*subscriber[T]]struct{}
	bufferSize  int
	closed      bool
	mu          sync.RWMutex
	cleanupWg   sync.WaitGroup
}

var _ Broadcaster[struct{}] = (*MemoryBroadcaster[struct{}])(nil)

// NewMemoryBroadcaster creates a broadcaster whose subscribers buffer up to
// bufferSize messages. The minimum is 1.
func NewMemoryBroadcaster[T any](bufferSize int) *MemoryBroadcaster[T] {
	return &MemoryBroadcaster[T]{
		subscribers: make(map[*subscriber[T]]struct{}),
		bufferSize:  max(bufferSize, 1),
	}
}

// Subscribe returns an already closed subscriber once the broadcaster is closed.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context, topics ...string) Subscriber[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := newSubscriber[T](b.bufferSize, topics)
	if b.closed {
		_ = sub.Close()
		return sub
	}
	b.subscribers[sub] = struct{}{}

	if ctx.Done() != nil {
		b.cleanupWg.Add(1)
		go func() {
			defer b.cleanupWg.Done()
			<-ctx.Done()
			b.unsubscribe(sub)
		}()
	}

	return sub
}

func (b *MemoryBroadcaster[T]) Broadcast(_ context.Context, msg Message[T]) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil
	}

	for sub := range b.subscribers {
		if !sub.wants(msg.Topic) {
			continue
		}
		if !sub.send(msg) {
			// Removal needs the write lock.
			go b.unsubscribe(sub)
		}
	}

	return nil
}

// Subscribers returns the number of registered subscribers.
func (b *MemoryBroadcaster[T]) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes every subscriber. It is safe to call more than once.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true

	for sub := range b.subscribers {
		_ = sub.Close()
	}
	clear(b.subscribers)
	b.mu.Unlock()

	b.cleanupWg.Wait()
	return nil
}

func (b *MemoryBroadcaster[T]) unsubscribe(sub *subscriber[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subscribers, sub)
	_ = sub.Close()
}
