package events

import (
	"sync"
	"sync/atomic"

	"github.com/jscyril/wavejukebox/api"
)

type subscriber struct {
	ch    chan api.AudioEvent
	types map[api.EventType]bool // nil means every type
}

func (s *subscriber) wants(t api.EventType) bool {
	return s.types == nil || s.types[t]
}

// EventBus fans playback events out to subscribers using channels.
// Publish never blocks: a subscriber whose buffer is full misses the event.
type EventBus struct {
	subs    []*subscriber
	dropped atomic.Int64
	closed  bool
	mu      sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe returns a channel receiving events of the given types.
// With no types the channel receives every event.
func (b *EventBus) Subscribe(size int, types ...api.EventType) <-chan api.AudioEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	if size <= 0 {
		size = 10
	}
	sub := &subscriber{ch: make(chan api.AudioEvent, size)}
	if len(types) > 0 {
		sub.types = make(map[api.EventType]bool, len(types))
		for _, t := range types {
			sub.types[t] = true
		}
	}
	if b.closed {
		close(sub.ch)
		return sub.ch
	}
	b.subs = append(b.subs, sub)
	return sub.ch
}

// Publish delivers event to every interested subscriber.
func (b *EventBus) Publish(event api.AudioEvent) {
	if b == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		if !sub.wants(event.Type) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			b.dropped.Add(1)
		}
	}
}

// Dropped returns how many deliveries were skipped because a subscriber was full.
func (b *EventBus) Dropped() int64 {
	return b.dropped.Load()
}

// Unsubscribe removes and closes a subscriber channel
func (b *EventBus) Unsubscribe(ch <-chan api.AudioEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub.ch == ch {
			close(sub.ch)
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Close closes all subscriber channels. Later subscriptions get a closed channel.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	for _, sub := range b.subs {
		close(sub.ch)
	}
	b.subs = nil
	b.closed = true
}
