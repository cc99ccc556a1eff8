package config

import (
	_ "embed"
	"os"

	"gopkg.in/yaml.v3"

	"presencenode-go/errcode"
)

// EnvOverride names an optional YAML file merged over the embedded defaults.
// Only meaningful on hosts; the MCU has no filesystem.
const EnvOverride = "PRESENCE_NODE_CONFIG"

//go:embed default.yaml
var defaultYAML []byte

// BoardOverride is merged over the defaults before any file override. Board
// builds set it from an init func in an embedded file.
var BoardOverride []byte

// ReadFile allows overriding how the host override file is read.
var ReadFile = os.ReadFile

type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	WiFi    WiFiConfig    `yaml:"wifi"`
	Broker  BrokerConfig  `yaml:"broker"`
	NTP     NTPConfig     `yaml:"ntp"`
	Pins    PinsConfig    `yaml:"pins"`
	Display DisplayConfig `yaml:"display"`
	Console ConsoleConfig `yaml:"console"`
}

type DeviceConfig struct {
	Name string `yaml:"name"`
}

type WiFiConfig struct {
	SSID     string `yaml:"ssid"`
	Password string `yaml:"password"`
}

type BrokerConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
	TimeoutMs   int    `yaml:"timeout_ms"`
}

type NTPConfig struct {
	Server     string `yaml:"server"`
	HourAdjust int    `yaml:"hour_adjust"`
}

type PinsConfig struct {
	Motion int `yaml:"motion"`
	LED    int `yaml:"led"`
}

type DisplayConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Bus      string `yaml:"bus"`
	Address  uint16 `yaml:"address"`
	Width    int16  `yaml:"width"`
	Height   int16  `yaml:"height"`
	Contrast uint8  `yaml:"contrast"`
}

type ConsoleConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// Load decodes the embedded defaults, then the board override, then the
// file named by $PRESENCE_NODE_CONFIG (if set), and validates the result.
// Every failure is an invalid_config error.
func Load() (*Config, error) {
	var cfg Config
	if err := decode(defaultYAML, &cfg, "defaults"); err != nil {
		return nil, err
	}
	if len(BoardOverride) > 0 {
		if err := decode(BoardOverride, &cfg, "board"); err != nil {
			return nil, err
		}
	}
	if path := os.Getenv(EnvOverride); path != "" {
		raw, err := ReadFile(path)
		if err != nil {
			return nil, &errcode.E{C: errcode.InvalidConfig, Op: "config.load", Msg: "read " + path, Err: err}
		}
		if err := decode(raw, &cfg, path); err != nil {
			return nil, err
		}
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// decode merges raw over cfg: keys absent from raw keep their current value.
func decode(raw []byte, cfg *Config, src string) error {
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return &errcode.E{C: errcode.InvalidConfig, Op: "config.decode", Msg: src + ": " + err.Error(), Err: err}
	}
	return nil
}
