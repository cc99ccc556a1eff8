package clock

import (
	"time"

	"presencenode-go/errcode"
)

const queryTimeout = 5 * time.Second

// Sync asks server for the clock offset once and applies it plus
// hourAdjust hours to s.Wall. On failure only the hour adjustment applies.
func Sync(s *System, server string, hourAdjust int) error {
	adj := time.Duration(hourAdjust) * time.Hour
	off, err := query(server)
	if err != nil {
		s.setOffset(adj)
		return &errcode.E{C: errcode.Timeout, Op: "clock.sync", Msg: server, Err: err}
	}
	s.setOffset(off + adj)
	return nil
}
