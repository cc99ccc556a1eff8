// services/hal/factories_host.go
//go:build !rp2040 && !rp2350

package hal

import (
	"context"
	"encoding/hex"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"tinygo.org/x/drivers"

	"presencenode-go/types"
)

// Default returns the host board: fake GPIO driven by SIGUSR1, no I²C, the
// OS-owned wireless link, and process exit as "reset".
func Default() Board {
	return Board{
		Pins:     &HostPinFactory{pins: make(map[int]*FakePin)},
		I2C:      noI2CFactory{},
		Reset:    ExitResetter{Code: 1},
		Cause:    types.ResetPowerOn,
		UniqueID: hostUniqueID(),
		Link:     &HostLink{WirelessPath: "/proc/net/wireless"},
		Stimulus: PulseOnSignal(syscall.SIGUSR1),
	}
}

// ----------------------------- I²C (host) ------------------------------------

type noI2CFactory struct{}

func (noI2CFactory) ByID(string) (drivers.I2C, bool) { return nil, false }

// ----------------------------- GPIO (host) -----------------------------------

// FakePin implements GPIOPin and IRQPin for host runs and tests.
type FakePin struct {
	mu      sync.Mutex
	number  int
	level   bool
	modeOut bool
	irqEdge Edge
	irqFunc func()
}

func NewFakePin(n int) *FakePin { return &FakePin{number: n} }

func (p *FakePin) ConfigureInput(_ Pull) error {
	p.mu.Lock()
	p.modeOut = false
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.modeOut = true
	p.level = initial
	p.mu.Unlock()
	return nil
}

// Set drives the level and, like real hardware, runs the IRQ handler
// synchronously when the transition matches the armed edge.
func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	old := p.level
	p.level = level
	irq := p.irqFunc
	want := irqWanted(p.irqEdge, edgeFrom(old, level))
	p.mu.Unlock()
	if want && irq != nil {
		irq()
	}
}

func (p *FakePin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *FakePin) Number() int { return p.number }

func (p *FakePin) SetIRQ(edge Edge, handler func()) error {
	p.mu.Lock()
	p.irqEdge = edge
	p.irqFunc = handler
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ClearIRQ() error {
	p.mu.Lock()
	p.irqEdge = EdgeNone
	p.irqFunc = nil
	p.mu.Unlock()
	return nil
}

// Pulse raises then lowers the pin, as a PIR output does on detection.
func (p *FakePin) Pulse() {
	p.Set(true)
	p.Set(false)
}

func edgeFrom(old, new bool) Edge {
	switch {
	case !old && new:
		return EdgeRising
	case old && !new:
		return EdgeFalling
	default:
		return EdgeNone
	}
}

func irqWanted(cfg, seen Edge) bool {
	switch cfg {
	case EdgeBoth:
		return seen == EdgeRising || seen == EdgeFalling
	default:
		return cfg != EdgeNone && cfg == seen
	}
}

// HostPinFactory returns stable *FakePin instances per number.
type HostPinFactory struct {
	mu   sync.Mutex
	pins map[int]*FakePin
}

func (f *HostPinFactory) ByNumber(n int) (GPIOPin, bool) {
	if n < 0 {
		return nil, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pins == nil {
		f.pins = make(map[int]*FakePin)
	}
	p, ok := f.pins[n]
	if !ok {
		p = NewFakePin(n)
		f.pins[n] = p
	}
	return p, true
}

// PulseOnSignal returns a Stimulus that pulses the pin each time sig is
// delivered to the process (kill -USR1 <pid>).
func PulseOnSignal(sig os.Signal) func(ctx context.Context, pin GPIOPin) {
	return func(ctx context.Context, pin GPIOPin) {
		fp, ok := pin.(*FakePin)
		if !ok {
			return
		}
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, sig)
		go func() {
			defer signal.Stop(ch)
			for {
				select {
				case <-ctx.Done():
					return
				case <-ch:
					fp.Pulse()
				}
			}
		}()
	}
}

// ----------------------------- System (host) ---------------------------------

// ExitResetter ends the process; the service manager restarts it.
type ExitResetter struct{ Code int }

func (r ExitResetter) Reset() { os.Exit(r.Code) }

func hostUniqueID() []byte {
	if raw, err := os.ReadFile("/etc/machine-id"); err == nil {
		s := strings.TrimSpace(string(raw))
		if len(s) >= 12 {
			if b, err := hex.DecodeString(s[:12]); err == nil {
				return b
			}
		}
	}
	if h, err := os.Hostname(); err == nil {
		return []byte(h)
	}
	return nil
}

// ----------------------------- Link (host) -----------------------------------

// HostLink reports on the link the OS already manages.
type HostLink struct {
	// WirelessPath is the Linux wireless statistics file.
	WirelessPath string
	// Iface restricts RSSI to one interface; empty takes the first listed.
	Iface string
}

func (l *HostLink) Associate(ctx context.Context, ssid, _ string) error {
	// The OS owns association; wait briefly for any non-loopback address.
	deadline := time.Now().Add(10 * time.Second)
	for {
		if hostHasAddr() {
			return nil
		}
		if time.Now().After(deadline) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func (l *HostLink) RSSI() int {
	raw, err := os.ReadFile(l.WirelessPath)
	if err != nil {
		return 0
	}
	return ParseWirelessLevel(string(raw), l.Iface)
}

func (l *HostLink) HardwareAddr() string {
	ifs, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, ifc := range ifs {
		if ifc.Flags&net.FlagLoopback != 0 || len(ifc.HardwareAddr) == 0 {
			continue
		}
		if l.Iface != "" && ifc.Name != l.Iface {
			continue
		}
		return ifc.HardwareAddr.String()
	}
	return ""
}

func hostHasAddr() bool {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return false
	}
	for _, a := range addrs {
		if ipn, ok := a.(*net.IPNet); ok && !ipn.IP.IsLoopback() {
			return true
		}
	}
	return false
}

// ParseWirelessLevel extracts the signal level (dBm) for iface from the
// contents of /proc/net/wireless. Empty iface selects the first entry.
// Returns 0 when nothing matches.
func ParseWirelessLevel(contents, iface string) int {
	lines := strings.Split(contents, "\n")
	for _, ln := range lines {
		name, rest, ok := strings.Cut(ln, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" || strings.ContainsAny(name, " |") {
			continue
		}
		if iface != "" && name != iface {
			continue
		}
		// status link level noise ...
		f := strings.Fields(rest)
		if len(f) < 3 {
			continue
		}
		return atoiLoose(f[2])
	}
	return 0
}

// atoiLoose parses a leading signed integer and ignores trailing junk such
// as the "." the kernel appends to updated values.
func atoiLoose(s string) int {
	neg := false
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}
	n := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}
