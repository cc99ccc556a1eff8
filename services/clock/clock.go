// Package clock supplies the node's two notions of time: monotonic seconds
// for the schedules and a wall clock used only for display timestamps.
package clock

import (
	"sync"
	"time"
)

// Clock is injected into everything that waits or schedules.
type Clock interface {
	// Now is whole seconds since boot. It never goes backwards.
	Now() int64
	// Wall is local wall time after sync and hour adjustment.
	Wall() time.Time
	Sleep(d time.Duration)
}

// System is the process clock. The wall offset is set once by Sync.
type System struct {
	start time.Time

	mu     sync.Mutex
	offset time.Duration
}

func NewSystem() *System { return &System{start: time.Now()} }

func (s *System) Now() int64 { return int64(time.Since(s.start) / time.Second) }

func (s *System) Wall() time.Time {
	s.mu.Lock()
	off := s.offset
	s.mu.Unlock()
	return time.Now().Add(off)
}

func (s *System) Sleep(d time.Duration) { time.Sleep(d) }

func (s *System) Offset() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

func (s *System) setOffset(d time.Duration) {
	s.mu.Lock()
	s.offset = d
	s.mu.Unlock()
}
