package sequence

import (
	"context"
	"sync"
	"time"
)

// MemorySequencer is a process-local daily counter for tests and development
// mode. The critical section covers only the increment.
type MemorySequencer struct {
	mu    sync.Mutex
	day   string
	value int64
}

// NewMemorySequencer builds an in-memory sequencer.
func NewMemorySequencer() *MemorySequencer {
	return &MemorySequencer{}
}

// Next returns the next sequence value for the calendar day of now.
func (s *MemorySequencer) Next(_ context.Context, now time.Time) (int64, error) {
	day := now.Format("20060102")

	s.mu.Lock()
	defer s.mu.Unlock()
	if day != s.day {
		s.day = day
		s.value = 0
	}
	s.value++
	return s.value, nil
}
