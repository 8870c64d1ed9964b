// ABOUTME: In-memory typed fan-out broadcaster keyed by subscription topic
// ABOUTME: Non-blocking publish; subscriptions end with their context

package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// subscriberBufferSize is the channel buffer for each subscriber.
const subscriberBufferSize = 64

// Broadcaster provides in-memory pub/sub of values of type T. Subscribers
// register for a key and receive values published on that key.
type Broadcaster[T any] struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]chan T // key -> subID -> ch
	closed      bool
	logger      *slog.Logger
}

// NewBroadcaster creates a broadcaster. Pass nil logger for default.
func NewBroadcaster[T any](logger *slog.Logger) *Broadcaster[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster[T]{
		subscribers: make(map[string]map[string]chan T),
		logger:      logger.With("component", "broadcaster"),
	}
}

// Subscribe registers a subscriber for values on key. It returns the receive
// channel and a subscription ID for Unsubscribe. The subscription is removed
// and its channel closed when ctx is cancelled.
func (b *Broadcaster[T]) Subscribe(ctx context.Context, key string) (<-chan T, string) {
	subID := uuid.New().String()
	ch := make(chan T, subscriberBufferSize)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, subID
	}
	if _, ok := b.subscribers[key]; !ok {
		b.subscribers[key] = make(map[string]chan T)
	}
	b.subscribers[key][subID] = ch
	b.mu.Unlock()

	b.logger.Debug("subscriber added", "key", key, "sub_id", subID)

	go func() {
		<-ctx.Done()
		b.Unsubscribe(key, subID)
	}()

	return ch, subID
}

// Publish sends v to all subscribers of key except excludeSubID (if non-empty).
// Values are dropped for subscribers whose channels are full.
func (b *Broadcaster[T]) Publish(key string, v T, excludeSubID string) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers[key] {
		if excludeSubID != "" && id == excludeSubID {
			continue
		}
		select {
		case ch <- v:
		default:
			b.logger.Debug("dropped value for slow subscriber", "key", key, "sub_id", id)
		}
	}
}

// Subscribers returns how many subscriptions are live for key.
func (b *Broadcaster[T]) Subscribers(key string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[key])
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Broadcaster[T]) Unsubscribe(key, subID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.subscribers[key]
	if !ok {
		return
	}
	ch, exists := subs[subID]
	if !exists {
		return
	}

	delete(subs, subID)
	close(ch)

	if len(subs) == 0 {
		delete(b.subscribers, key)
	}

	b.logger.Debug("subscriber removed", "key", key, "sub_id", subID)
}

// Close closes every subscriber channel. Later subscriptions get a closed channel.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key, subs := range b.subscribers {
		for subID, ch := range subs {
			close(ch)
			delete(subs, subID)
		}
		delete(b.subscribers, key)
	}
	b.closed = true

	b.logger.Debug("broadcaster closed")
}
