package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"presencenode-go/errcode"
	"presencenode-go/services/broker"
	"presencenode-go/services/clock"
	"presencenode-go/services/config"
	"presencenode-go/services/hal"
)

const associateTimeout = 30 * time.Second

// session brings the network up in boot order: link, clock, broker. Any
// failure except clock sync is a connect failure and ends in a reset.
type session struct {
	link hal.Link
	wifi config.WiFiConfig
	ntp  config.NTPConfig
	clk  *clock.System
	gw   *broker.Gateway
	log  zerolog.Logger
}

func (s *session) Connect(ctx context.Context) error {
	actx, cancel := context.WithTimeout(ctx, associateTimeout)
	err := s.link.Associate(actx, s.wifi.SSID, s.wifi.Password)
	cancel()
	if err != nil {
		return errcode.Wrap(errcode.ConnectFailed, "wifi.associate", err)
	}
	s.log.Info().Str("mac", s.link.HardwareAddr()).Int("signal", s.link.RSSI()).Msg("network up")

	if err := clock.Sync(s.clk, s.ntp.Server, s.ntp.HourAdjust); err != nil {
		s.log.Warn().Err(err).Msg("clock not synchronised")
	} else {
		s.log.Info().Dur("offset", s.clk.Offset()).Msg("clock synchronised")
	}
	return s.gw.Connect(ctx)
}
