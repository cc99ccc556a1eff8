package broker

// Topics are the two broker topics a node uses.
type Topics struct {
	Command string // inbound, subscribed at connect
	Metrics string // outbound telemetry and replies
}

// NewTopics builds "<prefix>/<id>/cmd" and "<prefix>/<id>/metrics".
func NewTopics(prefix, deviceID string) Topics {
	base := prefix + "/" + deviceID + "/"
	return Topics{
		Command: base + "cmd",
		Metrics: base + "metrics",
	}
}
