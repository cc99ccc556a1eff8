//go:build !rp2040 && !rp2350

package hal

import (
	"context"
	"errors"
	"testing"
	"time"

	"presencenode-go/errcode"
)

const wireless = `Inter-| sta-|   Quality        |   Discarded packets               | Missed | WE
 face | tus | link level noise |  nwid  crypt   frag  retry   misc | beacon | 22
 wlan0: 0000   54.  -56.  -256        0      0      0      0      0        0
 wlan1: 0000   40.  -71.  -256        0      0      0      0      0        0
`

func TestParseWirelessLevel(t *testing.T) {
	if got := ParseWirelessLevel(wireless, ""); got != -56 {
		t.Fatalf("first iface: got %d", got)
	}
	if got := ParseWirelessLevel(wireless, "wlan1"); got != -71 {
		t.Fatalf("wlan1: got %d", got)
	}
	if got := ParseWirelessLevel(wireless, "eth0"); got != 0 {
		t.Fatalf("missing iface: got %d", got)
	}
	if got := ParseWirelessLevel("", ""); got != 0 {
		t.Fatalf("empty: got %d", got)
	}
}

func TestFakePinRisingIRQ(t *testing.T) {
	b := Board{Pins: &HostPinFactory{}}
	p, err := b.InputIRQ(15, PullDown)
	if err != nil {
		t.Fatalf("InputIRQ: %v", err)
	}
	fired := 0
	if err := p.SetIRQ(EdgeRising, func() { fired++ }); err != nil {
		t.Fatalf("SetIRQ: %v", err)
	}

	p.Set(true)  // rising
	p.Set(true)  // no edge
	p.Set(false) // falling, not armed
	p.(*FakePin).Pulse()

	if fired != 2 {
		t.Fatalf("expected 2 rising IRQs, got %d", fired)
	}
	if err := p.ClearIRQ(); err != nil {
		t.Fatalf("ClearIRQ: %v", err)
	}
	p.(*FakePin).Pulse()
	if fired != 2 {
		t.Fatalf("IRQ fired after ClearIRQ")
	}
}

func TestBoardPinErrors(t *testing.T) {
	b := Board{Pins: &HostPinFactory{}}
	_, err := b.InputIRQ(-1, PullNone)
	if errcode.Of(err) != errcode.UnknownPin {
		t.Fatalf("expected unknown_pin, got %v", err)
	}
	led, err := b.Output(25, true)
	if err != nil || !led.Get() {
		t.Fatalf("Output: %v level=%v", err, led != nil && led.Get())
	}
}

func TestDeviceID(t *testing.T) {
	b := Board{UniqueID: []byte{0xe6, 0x61, 0x41, 0x04, 0x03, 0x2f}}
	if got := b.DeviceID(); got != "e6614104032f" {
		t.Fatalf("DeviceID = %q", got)
	}
	if got := (Board{}).DeviceID(); got != "unknown" {
		t.Fatalf("empty DeviceID = %q", got)
	}
}

func TestHostLinkAssociateHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := &HostLink{WirelessPath: "/nonexistent"}
	err := l.Associate(ctx, "", "")
	if err != nil && !errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.RSSI() != 0 {
		t.Fatal("RSSI without stats file should be 0")
	}
}

func TestPulseOnSignalIgnoresForeignPins(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	// A non-fake pin is ignored without panicking.
	PulseOnSignal(nil)(ctx, foreignPin{})
}

type foreignPin struct{}

func (foreignPin) ConfigureInput(Pull) error  { return nil }
func (foreignPin) ConfigureOutput(bool) error { return nil }
func (foreignPin) Set(bool)                   {}
func (foreignPin) Get() bool                  { return false }
func (foreignPin) Number() int                { return 0 }
