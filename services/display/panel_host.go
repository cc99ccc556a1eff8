// services/display/panel_host.go
//go:build !rp2040 && !rp2350

package display

import (
	"tinygo.org/x/drivers"

	"presencenode-go/errcode"
)

// OpenSSD1306 is unavailable on hosts: the TinyGo ssd1306 driver needs the
// machine package.
func OpenSSD1306(_ drivers.I2C, _ Options) (Canvas, error) {
	return nil, &errcode.E{C: errcode.Unsupported, Op: "display.open", Msg: "ssd1306 requires an MCU build"}
}
