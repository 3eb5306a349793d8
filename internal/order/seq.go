package order

import "sync/atomic"

// Sequencer hands out wire message sequence numbers. Numbers never repeat
// and never go backward under concurrent callers. It is an injectable
// service rather than a process-wide global so tests can use isolated
// instances.
type Sequencer struct {
	counter atomic.Int64
}

// NewSequencer creates a sequencer whose first value is start
func NewSequencer(start int64) *Sequencer {
	s := &Sequencer{}
	s.counter.Store(start)
	return s
}

// Next returns the next sequence number
func (s *Sequencer) Next() int64 {
	return s.counter.Add(1) - 1
}
