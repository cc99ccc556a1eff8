// services/console/sink_rp2xxx.go
//go:build rp2040 || rp2350

package console

import (
	"io"
	"os"

	"github.com/jangala-dev/tinygo-uartx/uartx"
	"github.com/rs/zerolog"

	"presencenode-go/errcode"
	"presencenode-go/services/config"
)

// Setup logs to the USB CDC console, or to uart0/uart1 when cfg.Port names
// one. The UART uses the board default pins.
func Setup(cfg config.ConsoleConfig) (zerolog.Logger, io.Closer, error) {
	var out io.Writer = os.Stdout
	switch cfg.Port {
	case "":
	case "uart0", "uart1":
		u := uartx.UART0
		if cfg.Port == "uart1" {
			u = uartx.UART1
		}
		if err := u.Configure(uartx.UARTConfig{BaudRate: uint32(cfg.Baud)}); err != nil {
			return zerolog.Nop(), nil, &errcode.E{C: errcode.InvalidConfig, Op: "console.open", Msg: cfg.Port, Err: err}
		}
		out = u
	default:
		return zerolog.Nop(), nil, &errcode.E{C: errcode.InvalidConfig, Op: "console.open", Msg: "unknown port " + cfg.Port}
	}
	return New(out, false), nopCloser{}, nil
}
