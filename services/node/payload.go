package node

import (
	"presencenode-go/x/conv"
)

// appendMetrics appends {"s":"<signal>","m":"1|0"}. The signal is quoted;
// consumers depend on these exact bytes.
func appendMetrics(dst []byte, signal int, motion bool) []byte {
	dst = append(dst, `{"s":"`...)
	dst = conv.AppendInt(dst, int64(signal))
	if motion {
		return append(dst, `","m":"1"}`...)
	}
	return append(dst, `","m":"0"}`...)
}

// statusLine is the status bar text, "s=-61, v=1".
func statusLine(signal int, raw uint8) string {
	var buf [24]byte
	b := append(buf[:0], "s="...)
	b = conv.AppendInt(b, int64(signal))
	b = append(b, ", v="...)
	b = conv.AppendUint(b, uint64(raw))
	return string(b)
}

// settleStatus is shown while the sensor stabilises after a cold boot.
func settleStatus(signal int) string {
	var buf [24]byte
	b := append(buf[:0], "s="...)
	b = conv.AppendInt(b, int64(signal))
	b = append(b, ", sleep 60"...)
	return string(b)
}

// logLine is one log row, "07:42 3".
func logLine(hhmm string, count uint32) string {
	var buf [24]byte
	b := append(buf[:0], hhmm...)
	b = append(b, ' ')
	b = conv.AppendUint(b, uint64(count))
	return string(b)
}
