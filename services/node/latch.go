package node

import "sync/atomic"

// Latch is the motion flag shared between the pin interrupt and the loop.
// A set between two takes is seen by exactly one take.
type Latch struct {
	v atomic.Bool
}

// OnInterrupt is the pin IRQ handler. It must stay allocation free.
func (l *Latch) OnInterrupt() { l.v.Store(true) }

// Take clears the flag and reports whether it was set.
func (l *Latch) Take() bool { return l.v.Swap(false) }
