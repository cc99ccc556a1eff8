package types

// ---- Boot ----

// ResetCause is the hardware reason for the current boot.
type ResetCause uint8

const (
	ResetUnknown ResetCause = iota
	ResetPowerOn
	ResetWatchdog
	ResetDeepSleep
	ResetSoft
)

func (r ResetCause) String() string {
	switch r {
	case ResetPowerOn:
		return "power_on"
	case ResetWatchdog:
		return "watchdog"
	case ResetDeepSleep:
		return "deep_sleep"
	case ResetSoft:
		return "soft"
	default:
		return "unknown"
	}
}

// NeedsSettle reports whether the PIR sensor must be given time to
// stabilise before its output is trusted. Only cold starts need it.
func (r ResetCause) NeedsSettle() bool {
	return r == ResetPowerOn || r == ResetWatchdog
}

// ---- Broker ----

// InboundMessage is a broker message handed from the client library's
// goroutine to the loop over the in-process bus.
type InboundMessage struct {
	Topic   string
	Payload []byte
}

// ---- Node ----

// Action is the branch of the decision table taken by one tick.
type Action uint8

const (
	ActionNone Action = iota
	ActionEvent
	ActionHeartbeat
	ActionSignal
)

func (a Action) String() string {
	switch a {
	case ActionEvent:
		return "event"
	case ActionHeartbeat:
		return "heartbeat"
	case ActionSignal:
		return "signal"
	default:
		return "none"
	}
}
