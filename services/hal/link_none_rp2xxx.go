// services/hal/link_none_rp2xxx.go
//go:build (rp2040 || rp2350) && !ninafw

package hal

import (
	"context"

	"presencenode-go/errcode"
)

// noLink is used on boards without a supported radio.
type noLink struct{}

func defaultLink() Link { return noLink{} }

func (noLink) Associate(_ context.Context, ssid, _ string) error {
	if ssid == "" {
		return nil
	}
	return &errcode.E{C: errcode.Unsupported, Op: "hal.link", Msg: "board has no radio"}
}

func (noLink) RSSI() int            { return 0 }
func (noLink) HardwareAddr() string { return "" }
