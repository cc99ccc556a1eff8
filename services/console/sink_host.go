// services/console/sink_host.go
//go:build !rp2040 && !rp2350

package console

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"go.bug.st/serial"

	"presencenode-go/errcode"
	"presencenode-go/services/config"
)

// openPort is swapped in tests.
var openPort = func(path string, baud int) (io.WriteCloser, error) {
	return serial.Open(path, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
}

// Setup logs to stderr and, when cfg.Port names a serial device, mirrors
// every line to it uncoloured.
func Setup(cfg config.ConsoleConfig) (zerolog.Logger, io.Closer, error) {
	stderr := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: timeFormat}
	if cfg.Port == "" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		return zerolog.New(stderr).With().Timestamp().Logger(), nopCloser{}, nil
	}
	port, err := openPort(cfg.Port, cfg.Baud)
	if err != nil {
		return zerolog.Nop(), nil, &errcode.E{C: errcode.InvalidConfig, Op: "console.open", Msg: cfg.Port, Err: err}
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	w := zerolog.MultiLevelWriter(stderr, plain(port))
	return zerolog.New(w).With().Timestamp().Logger(), port, nil
}
