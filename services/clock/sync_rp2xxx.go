// services/clock/sync_rp2xxx.go
//go:build rp2040 || rp2350

package clock

import (
	"net"
	"time"
)

// query runs one SNTP exchange over the board's netdev. The full NTP client
// used on hosts needs golang.org/x/net/ipv4, which TinyGo cannot build.
var query = func(server string) (time.Duration, error) {
	conn, err := net.Dial("udp", server+":123")
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(queryTimeout)); err != nil {
		return 0, err
	}

	var req, resp [sntpPacketLen]byte
	sntpRequest(req[:], time.Now())
	if _, err := conn.Write(req[:]); err != nil {
		return 0, err
	}
	n, err := conn.Read(resp[:])
	if err != nil {
		return 0, err
	}
	return sntpOffset(req[:], resp[:n], time.Now())
}
