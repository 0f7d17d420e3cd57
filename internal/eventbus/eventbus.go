// Package eventbus fans dashboard tick events out to stream subscribers.
package eventbus

import (
	"sync"
	"time"
)

// Event announces that a panel task refreshed part of its state.
type Event struct {
	Tab  string    `json:"tab"`
	Task string    `json:"task"`
	At   time.Time `json:"at"`
}

// Publisher is the sending side of a Bus.
type Publisher interface {
	Publish(Event)
}

// Bus is a fan-out publish/subscribe bus. Publishing never blocks: a
// subscriber whose buffer is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	subs   map[<-chan Event]chan Event
	buffer int
	closed bool
}

// New creates a Bus whose subscriber channels hold buffer events.
// A buffer below one defaults to 8.
func New(buffer int) *Bus {
	if buffer < 1 {
		buffer = 8
	}
	return &Bus{subs: make(map[<-chan Event]chan Event), buffer: buffer}
}

// Publish sends e to every subscriber.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a subscriber. The channel is closed by Unsubscribe or
// Close; subscribing to a closed bus returns a closed channel.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, b.buffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[ch] = ch
	return ch
}

// Unsubscribe removes sub and closes its channel.
func (b *Bus) Unsubscribe(sub <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		close(ch)
	}
}

// Len returns the number of live subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close closes every subscriber channel. Later publishes are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for key, ch := range b.subs {
		close(ch)
		delete(b.subs, key)
	}
}
