// Package hal is the thin hardware boundary of the node: GPIO with edge
// interrupts, I²C buses for the display, the reset line, the reset cause,
// the hardware unique id and the wireless link. Platform files provide
// Default(); tests use the host fakes.
package hal

import (
	"context"

	"tinygo.org/x/drivers"

	"presencenode-go/types"
	"presencenode-go/x/conv"
)

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

type GPIOPin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Number() int
}

// Edge selection for IRQ.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}

// IRQPin extends GPIOPin with interrupts. The handler runs in interrupt
// context on the MCU: it must not block, allocate or log.
type IRQPin interface {
	GPIOPin
	SetIRQ(edge Edge, handler func()) error
	ClearIRQ() error
}

// PinFactory supplies GPIO pins by the board's number scheme.
type PinFactory interface {
	ByNumber(n int) (GPIOPin, bool)
}

// ---- Buses ----

// I2CBusFactory injects configured I²C instances by id ("i2c0", "i2c1").
type I2CBusFactory interface {
	ByID(id string) (drivers.I2C, bool)
}

// ---- System ----

// Resetter restarts the whole device. On hardware Reset never returns.
type Resetter interface {
	Reset()
}

// SignalMeter samples the received signal strength of the wireless link in
// dBm. Zero means "unknown".
type SignalMeter interface {
	RSSI() int
}

// Link is the one-shot network association collaborator.
type Link interface {
	SignalMeter
	// Associate joins the configured network. An empty ssid means the
	// platform owns the link and Associate only reports readiness.
	Associate(ctx context.Context, ssid, passphrase string) error
	HardwareAddr() string
}

// Board bundles everything the node needs from the platform.
type Board struct {
	Pins     PinFactory
	I2C      I2CBusFactory
	Reset    Resetter
	Cause    types.ResetCause
	UniqueID []byte
	Link     Link

	// Stimulus, when set, drives the motion pin from outside the hardware
	// (host simulation). Nil on real boards.
	Stimulus func(ctx context.Context, pin GPIOPin)
}

// DeviceID is the lowercase hex of the board's unique id.
func (b Board) DeviceID() string {
	if len(b.UniqueID) == 0 {
		return "unknown"
	}
	return string(conv.AppendHex(nil, b.UniqueID))
}

// InputIRQ returns pin n configured as an input that supports interrupts.
func (b Board) InputIRQ(n int, pull Pull) (IRQPin, error) {
	p, ok := b.Pins.ByNumber(n)
	if !ok {
		return nil, unknownPin(n)
	}
	ip, ok := p.(IRQPin)
	if !ok {
		return nil, unsupportedIRQ(n)
	}
	if err := ip.ConfigureInput(pull); err != nil {
		return nil, err
	}
	return ip, nil
}

// Output returns pin n configured as an output at the given level.
func (b Board) Output(n int, initial bool) (GPIOPin, error) {
	p, ok := b.Pins.ByNumber(n)
	if !ok {
		return nil, unknownPin(n)
	}
	if err := p.ConfigureOutput(initial); err != nil {
		return nil, err
	}
	return p, nil
}
