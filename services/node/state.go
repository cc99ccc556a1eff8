package node

// DeviceState is owned by the Coordinator and only touched on the loop
// goroutine. Heartbeat.LastFired is the last message time and
// Refresh.LastFired the last signal sample.
type DeviceState struct {
	Motion     bool
	EventCount uint32
	Signal     int
	SensorRaw  uint8

	Heartbeat Deadline
	Refresh   Deadline
}

func newState(now int64, signal int) DeviceState {
	return DeviceState{
		Signal:    signal,
		Heartbeat: Deadline{LastFired: now, Interval: MessageInterval},
		Refresh:   Deadline{LastFired: now, Interval: SignalInterval},
	}
}
