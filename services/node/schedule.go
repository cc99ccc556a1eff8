package node

import "time"

// Fixed timing of the node. Intervals are whole seconds of the monotonic
// clock; none of them are configurable.
const (
	MessageInterval int64 = 300
	SignalInterval  int64 = 30

	TickPeriod  = time.Second
	Cooldown    = 10 * time.Second
	SettleDelay = 60 * time.Second

	blinkHalf = 500 * time.Millisecond
)

// Deadline is a periodic action's last firing and its period.
type Deadline struct {
	LastFired int64
	Interval  int64
}

// Due reports whether strictly more than Interval seconds have passed.
func (d Deadline) Due(now int64) bool { return now-d.LastFired > d.Interval }

func (d *Deadline) MarkFired(now int64) { d.LastFired = now }
