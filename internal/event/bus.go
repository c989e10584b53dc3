// Package event fans server-initiated protocol events out to subscribers.
package event

import (
	"sync"

	"github.com/witness-rec/witness/internal/protocol"
)

// Bus delivers events to any number of subscribers. Each published event
// is stamped with the next value from the owning sequencer, so per-bus
// emission order and seq order always agree. Slow subscribers drop
// events rather than block publishers.
type Bus struct {
	mu          sync.RWMutex
	seq         *protocol.Sequencer
	subscribers map[chan protocol.Event]bool
}

// NewBus creates a bus around the given sequencer.
func NewBus(seq *protocol.Sequencer) *Bus {
	return &Bus{
		seq:         seq,
		subscribers: make(map[chan protocol.Event]bool),
	}
}

// Publish builds a sequenced event and delivers it to all subscribers.
// The built event is returned for callers that also reply inline.
func (b *Bus) Publish(name protocol.EventName, payload interface{}) protocol.Event {
	evt := protocol.NewSequencedEvent(name, payload, b.seq.Next())

	b.mu.RLock()
	for sub := range b.subscribers {
		select {
		case sub <- evt:
		default:
			// Drop if subscriber is slow
		}
	}
	b.mu.RUnlock()

	return evt
}

// Deliver builds a sequenced event and hands it to one subscriber only.
// Used for per-stream pushes such as the connected greeting, which other
// streams must not observe.
func (b *Bus) Deliver(ch chan protocol.Event, name protocol.EventName, payload interface{}) protocol.Event {
	evt := protocol.NewSequencedEvent(name, payload, b.seq.Next())
	select {
	case ch <- evt:
	default:
	}
	return evt
}

// Subscribe returns a channel that receives future events.
func (b *Bus) Subscribe() chan protocol.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan protocol.Event, 100)
	b.subscribers[ch] = true
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (b *Bus) Unsubscribe(ch chan protocol.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subscribers[ch] {
		delete(b.subscribers, ch)
		close(ch)
	}
}
