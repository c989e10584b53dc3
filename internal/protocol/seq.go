package protocol

import "sync/atomic"

// Sequencer issues strictly increasing sequence numbers for event
// emission. It is owned by a server instance and injected where needed
// rather than accessed as an ambient global. The increment is atomic so
// a host may fan event emission out across goroutines.
type Sequencer struct {
	n atomic.Int64
}

// NewSequencer returns a sequencer whose first Next call yields 1.
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// Next increments the counter and returns the new value.
func (s *Sequencer) Next() int64 {
	return s.n.Add(1)
}

// Current returns the last issued value without advancing.
func (s *Sequencer) Current() int64 {
	return s.n.Load()
}

// Reset sets the counter back to zero. For test isolation only; never
// called during normal serving.
func (s *Sequencer) Reset() {
	s.n.Store(0)
}
