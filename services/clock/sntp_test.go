package clock

import (
	"encoding/binary"
	"testing"
	"time"
)

// serverReply builds what a server a fixed skew ahead would answer.
func serverReply(req []byte, recv, xmit time.Time) []byte {
	resp := make([]byte, sntpPacketLen)
	resp[0] = 0<<6 | 4<<3 | sntpModeServer
	resp[1] = 2 // stratum
	copy(resp[24:32], req[40:48])
	binary.BigEndian.PutUint64(resp[32:], toNTP(recv))
	binary.BigEndian.PutUint64(resp[40:], toNTP(xmit))
	return resp
}

func TestNTPTimeRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 9, 7, 42, 13, 500_000_000, time.UTC)
	got := fromNTP(toNTP(ts))
	if d := got.Sub(ts); d < -time.Microsecond || d > time.Microsecond {
		t.Fatalf("round trip off by %v", d)
	}
}

func TestSNTPOffset(t *testing.T) {
	t1 := time.Date(2024, 3, 9, 7, 0, 0, 0, time.UTC)
	skew := 90 * time.Second
	var req [sntpPacketLen]byte
	sntpRequest(req[:], t1)
	if req[0] != 0x23 {
		t.Fatalf("header = %#x", req[0])
	}

	// 20ms each way, 10ms server processing.
	recv := t1.Add(20 * time.Millisecond).Add(skew)
	xmit := recv.Add(10 * time.Millisecond)
	t4 := t1.Add(50 * time.Millisecond)

	off, err := sntpOffset(req[:], serverReply(req[:], recv, xmit), t4)
	if err != nil {
		t.Fatalf("sntpOffset: %v", err)
	}
	if d := off - skew; d < -time.Millisecond || d > time.Millisecond {
		t.Fatalf("offset = %v, want ~%v", off, skew)
	}
}

func TestSNTPRejects(t *testing.T) {
	t1 := time.Date(2024, 3, 9, 7, 0, 0, 0, time.UTC)
	var req [sntpPacketLen]byte
	sntpRequest(req[:], t1)
	good := func() []byte { return serverReply(req[:], t1, t1) }

	cases := []struct {
		name string
		mut  func([]byte) []byte
		want error
	}{
		{"short", func(b []byte) []byte { return b[:47] }, errShortPacket},
		{"client mode", func(b []byte) []byte { b[0] = b[0]&^0x7 | 3; return b }, errNotServer},
		{"unsynced leap", func(b []byte) []byte { b[0] |= leapUnsync << 6; return b }, errUnsynced},
		{"kiss of death", func(b []byte) []byte { b[1] = 0; return b }, errUnsynced},
		{"wrong origin", func(b []byte) []byte { b[31] ^= 0xff; return b }, errBadOrigin},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := sntpOffset(req[:], tc.mut(good()), t1); err != tc.want {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}
