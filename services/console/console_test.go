//go:build !rp2040 && !rp2350

package console

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"presencenode-go/errcode"
	"presencenode-go/services/config"
)

type bufPort struct {
	bytes.Buffer
	closed bool
}

func (b *bufPort) Close() error { b.closed = true; return nil }

func TestNewWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)
	log.Info().Int("count", 3).Str("topic", "home/x/metrics").Msg("published trigger event")
	out := buf.String()
	for _, want := range []string{"INF", "published trigger event", "count=3", "topic=home/x/metrics"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatal("colour codes with color=false")
	}
}

func TestSetupMirrorsToSerial(t *testing.T) {
	port := &bufPort{}
	var gotPath string
	var gotBaud int
	old := openPort
	openPort = func(path string, baud int) (io.WriteCloser, error) {
		gotPath, gotBaud = path, baud
		return port, nil
	}
	t.Cleanup(func() { openPort = old })

	log, closer, err := Setup(config.ConsoleConfig{Port: "/dev/ttyUSB0", Baud: 115200})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if gotPath != "/dev/ttyUSB0" || gotBaud != 115200 {
		t.Fatalf("opened %s @ %d", gotPath, gotBaud)
	}
	log.Warn().Msg("boot")
	if !strings.Contains(port.String(), "boot") {
		t.Fatalf("serial got %q", port.String())
	}
	if err := closer.Close(); err != nil || !port.closed {
		t.Fatal("closer did not close the port")
	}
}

func TestSetupPortFailureIsConfigError(t *testing.T) {
	cause := errors.New("no such device")
	old := openPort
	openPort = func(string, int) (io.WriteCloser, error) { return nil, cause }
	t.Cleanup(func() { openPort = old })

	_, _, err := Setup(config.ConsoleConfig{Port: "/dev/missing", Baud: 9600})
	if !errcode.IsConfig(err) || !errors.Is(err, cause) {
		t.Fatalf("err = %v", err)
	}
}

func TestSetupWithoutPort(t *testing.T) {
	_, closer, err := Setup(config.ConsoleConfig{})
	if err != nil || closer == nil {
		t.Fatalf("Setup: %v", err)
	}
}
