package config

import (
	"presencenode-go/errcode"
	"presencenode-go/x/conv"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	// ---- broker ----
	if cfg.Broker.Host == "" {
		return invalid("broker.host is required")
	}
	if cfg.Broker.Port <= 0 || cfg.Broker.Port > 65535 {
		return invalid("broker.port out of range: " + conv.Str(cfg.Broker.Port))
	}
	if cfg.Broker.User == "" && cfg.Broker.Password != "" {
		return invalid("broker.password set without broker.user")
	}
	if cfg.Broker.TopicPrefix == "" {
		return invalid("broker.topic_prefix is required")
	}
	if !printableASCII(cfg.Broker.TopicPrefix) || hasWildcard(cfg.Broker.TopicPrefix) {
		return invalid("broker.topic_prefix must be printable ASCII without wildcards")
	}
	if cfg.Broker.TimeoutMs <= 0 {
		return invalid("broker.timeout_ms must be positive")
	}

	// ---- wifi (optional on hosts, where the OS owns the link) ----
	if cfg.WiFi.SSID == "" && cfg.WiFi.Password != "" {
		return invalid("wifi.password set without wifi.ssid")
	}
	if cfg.WiFi.SSID != "" {
		if len(cfg.WiFi.SSID) > 32 {
			return invalid("wifi.ssid longer than 32 bytes")
		}
		// WPA2 passphrase: 8..63 printable characters; empty means open network.
		if n := len(cfg.WiFi.Password); n != 0 && (n < 8 || n > 63) {
			return invalid("wifi.password must be 8..63 characters")
		}
	}

	// ---- device ----
	if cfg.Device.Name != "" && (!printableASCII(cfg.Device.Name) || hasWildcard(cfg.Device.Name) || hasByte(cfg.Device.Name, '/')) {
		return invalid("device.name must be printable ASCII without '/', '+' or '#'")
	}

	// ---- ntp ----
	if cfg.NTP.HourAdjust < -12 || cfg.NTP.HourAdjust > 14 {
		return invalid("ntp.hour_adjust out of range: " + conv.Str(cfg.NTP.HourAdjust))
	}

	// ---- pins ----
	if cfg.Pins.Motion < 0 || cfg.Pins.LED < 0 {
		return invalid("pins must be non-negative")
	}
	if cfg.Pins.Motion == cfg.Pins.LED {
		return invalid("pins.motion and pins.led must differ")
	}

	// ---- display ----
	if cfg.Display.Enabled {
		if cfg.Display.Width <= 0 || cfg.Display.Height <= 0 {
			return invalid("display width/height must be positive")
		}
		if cfg.Display.Address == 0 || cfg.Display.Address > 0x7F {
			return invalid("display.address must be a 7-bit I2C address")
		}
	}

	// ---- console ----
	if cfg.Console.Port != "" && cfg.Console.Baud <= 0 {
		return invalid("console.baud must be positive when console.port is set")
	}
	return nil
}

func invalid(msg string) error {
	return &errcode.E{C: errcode.InvalidConfig, Op: "config.validate", Msg: msg}
}

func printableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return false
		}
	}
	return true
}

func hasWildcard(s string) bool { return hasByte(s, '+') || hasByte(s, '#') }

func hasByte(s string, c byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return true
		}
	}
	return false
}
