package clock

import (
	"encoding/binary"
	"errors"
	"time"
)

const (
	sntpPacketLen = 48

	// Seconds from the NTP era (1900) to the Unix epoch.
	ntpUnixOffset = 2208988800

	sntpClientHeader = 0<<6 | 4<<3 | 3 // LI none, version 4, mode client
	sntpModeServer   = 4
	leapUnsync       = 3
)

var (
	errShortPacket = errors.New("sntp: short packet")
	errNotServer   = errors.New("sntp: not a server reply")
	errUnsynced    = errors.New("sntp: server not synchronised")
	errBadOrigin   = errors.New("sntp: reply does not match request")
)

func toNTP(t time.Time) uint64 {
	sec := uint64(t.Unix() + ntpUnixOffset)
	frac := uint64(t.Nanosecond()) << 32 / uint64(time.Second)
	return sec<<32 | frac
}

func fromNTP(v uint64) time.Time {
	sec := int64(v>>32) - ntpUnixOffset
	nsec := (v & 0xffffffff) * uint64(time.Second) >> 32
	return time.Unix(sec, int64(nsec))
}

// sntpRequest fills pkt with a client request stamped with t1.
func sntpRequest(pkt []byte, t1 time.Time) {
	clear(pkt[:sntpPacketLen])
	pkt[0] = sntpClientHeader
	binary.BigEndian.PutUint64(pkt[40:], toNTP(t1))
}

// sntpOffset checks resp against req and returns the local clock offset
// ((t2-t1)+(t3-t4))/2 where t4 is the local receive time.
func sntpOffset(req, resp []byte, t4 time.Time) (time.Duration, error) {
	if len(resp) < sntpPacketLen {
		return 0, errShortPacket
	}
	if resp[0]&0x7 != sntpModeServer {
		return 0, errNotServer
	}
	if resp[0]>>6 == leapUnsync || resp[1] == 0 || resp[1] > 15 {
		return 0, errUnsynced
	}
	sent := binary.BigEndian.Uint64(req[40:])
	if binary.BigEndian.Uint64(resp[24:]) != sent {
		return 0, errBadOrigin
	}
	t1 := fromNTP(sent)
	t2 := fromNTP(binary.BigEndian.Uint64(resp[32:]))
	t3 := fromNTP(binary.BigEndian.Uint64(resp[40:]))
	return (t2.Sub(t1) + t3.Sub(t4)) / 2, nil
}
