package timex

import (
	"time"

	"presencenode-go/x/conv"
)

// HHMM formats the hour and minute of t as "15:04" without fmt.
func HHMM(t time.Time) string {
	var buf [8]byte
	b := conv.AppendPad2(buf[:0], t.Hour())
	b = append(b, ':')
	b = conv.AppendPad2(b, t.Minute())
	return string(b)
}
