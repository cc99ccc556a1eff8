// services/display/panel_rp2xxx.go
//go:build rp2040 || rp2350

package display

import (
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ssd1306"
)

// OpenSSD1306 configures an SSD1306 on bus and returns it as a Canvas.
// The ssd1306 package pulls in machine, so this only builds for MCUs.
func OpenSSD1306(bus drivers.I2C, o Options) (Canvas, error) {
	d := ssd1306.NewI2C(bus)
	d.Configure(ssd1306.Config{
		Address:  o.Address,
		Width:    o.Width,
		Height:   o.Height,
		VccState: ssd1306.SWITCHCAPVCC,
	})
	if o.Contrast != 0 {
		d.Command(ssd1306.SETCONTRAST)
		d.Command(o.Contrast)
	}
	d.ClearBuffer()
	if err := d.Display(); err != nil {
		return nil, err
	}
	return NewDisplayerCanvas(d), nil
}
