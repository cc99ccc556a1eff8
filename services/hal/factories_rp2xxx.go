// services/hal/factories_rp2xxx.go
//go:build rp2040 || rp2350

package hal

import (
	"device/rp"
	"machine"

	"tinygo.org/x/drivers"

	"presencenode-go/types"
)

// -----------------------------------------------------------------------------
// Defaults used on Raspberry Pi Pico / Pico 2 class boards (RP2 family)
// -----------------------------------------------------------------------------

// Default returns the RP2 board with i2c0/i2c1 at 400 kHz on board-default
// pins and GPIO numbers mapped directly to machine.Pin(n).
func Default() Board {
	return Board{
		Pins:     rp2PinFactory{},
		I2C:      defaultI2CFactory(),
		Reset:    rp2Resetter(),
		Cause:    resetCause(),
		UniqueID: machine.DeviceID(),
		Link:     defaultLink(),
	}
}

// ---- I²C implementation ----

type rp2I2CFactory struct {
	buses map[string]drivers.I2C
}

func defaultI2CFactory() I2CBusFactory {
	f := &rp2I2CFactory{buses: make(map[string]drivers.I2C)}

	b0 := machine.I2C0
	_ = b0.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.I2C0_SDA_PIN,
		SCL:       machine.I2C0_SCL_PIN,
	})
	f.buses["i2c0"] = b0

	b1 := machine.I2C1
	_ = b1.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.I2C1_SDA_PIN,
		SCL:       machine.I2C1_SCL_PIN,
	})
	f.buses["i2c1"] = b1

	return f
}

func (f *rp2I2CFactory) ByID(id string) (drivers.I2C, bool) {
	b, ok := f.buses[id]
	return b, ok
}

// ---- GPIO implementation (includes IRQ support) ----

type rp2PinFactory struct{}

func (rp2PinFactory) ByNumber(n int) (GPIOPin, bool) {
	// Constrain to RP2’s user GPIOs (GP0..GP28).
	if n < 0 || n > 28 {
		return nil, false
	}
	return &rp2Pin{p: machine.Pin(n), n: n}, true
}

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) ConfigureInput(pull Pull) error {
	var mode machine.PinMode
	switch pull {
	case PullUp:
		mode = machine.PinInputPullup
	case PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) Set(level bool) { r.p.Set(level) }
func (r *rp2Pin) Get() bool      { return r.p.Get() }
func (r *rp2Pin) Number() int    { return r.n }

func (r *rp2Pin) SetIRQ(edge Edge, handler func()) error {
	return r.p.SetInterrupt(toPinChange(edge), func(machine.Pin) { handler() })
}

func (r *rp2Pin) ClearIRQ() error {
	var zero machine.PinChange
	return r.p.SetInterrupt(zero, nil)
}

func toPinChange(e Edge) machine.PinChange {
	switch e {
	case EdgeRising:
		return machine.PinRising
	case EdgeFalling:
		return machine.PinFalling
	case EdgeBoth:
		return machine.PinToggle
	default:
		var zero machine.PinChange
		return zero
	}
}

// ---- System ----

// rp2Resetter forces a watchdog reset so the next boot reads FORCE and
// skips the sensor settle delay. Every domain except the oscillators is
// reset, as machine.Watchdog does.
func rp2Resetter() Resetter {
	return watchdogReset{
		domains: 0x0001ffff &^ (rp.PSM_WDSEL_ROSC | rp.PSM_WDSEL_XOSC),
		sel:     func(m uint32) { rp.PSM.WDSEL.Set(m) },
		trigger: func() { rp.WATCHDOG.CTRL.SetBits(rp.WATCHDOG_CTRL_TRIGGER) },
		halt: func() {
			for {
			}
		},
	}
}

// resetCause decodes the watchdog REASON register: TIMER means the watchdog
// fired, FORCE means a software-requested reset. Neither bit set is a
// power-on (or RUN pin) reset. RP2 parts have no deep-sleep wake reason.
func resetCause() types.ResetCause {
	reason := rp.WATCHDOG.REASON.Get()
	switch {
	case reason&rp.WATCHDOG_REASON_TIMER != 0:
		return types.ResetWatchdog
	case reason&rp.WATCHDOG_REASON_FORCE != 0:
		return types.ResetSoft
	default:
		return types.ResetPowerOn
	}
}
