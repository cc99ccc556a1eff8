// services/hal/link_ninafw.go
//go:build (rp2040 || rp2350) && ninafw

package hal

import (
	"context"

	"tinygo.org/x/drivers/netlink"
	"tinygo.org/x/drivers/netlink/probe"
)

// ninaLink associates through the board's NINA-W102 co-processor. Building
// the link also registers the netdev so net.Dial works for MQTT and SNTP.
type ninaLink struct {
	link netlink.Netlinker
}

func defaultLink() Link {
	l, _ := probe.Probe()
	return &ninaLink{link: l}
}

func (n *ninaLink) Associate(ctx context.Context, ssid, passphrase string) error {
	if ssid == "" {
		return nil
	}
	done := make(chan error, 1)
	go func() {
		done <- n.link.NetConnect(&netlink.ConnectParams{
			Ssid:       ssid,
			Passphrase: passphrase,
		})
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// RSSI is not exposed by the netlink interface.
func (n *ninaLink) RSSI() int { return 0 }

func (n *ninaLink) HardwareAddr() string {
	mac, err := n.link.GetHardwareAddr()
	if err != nil {
		return ""
	}
	return mac.String()
}
