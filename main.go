// Command presencenode is the presence node firmware: a PIR sensor, an
// MQTT session and a small status display driven by one polling loop.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"

	"presencenode-go/bus"
	"presencenode-go/errcode"
	"presencenode-go/services/broker"
	"presencenode-go/services/clock"
	"presencenode-go/services/config"
	"presencenode-go/services/console"
	"presencenode-go/services/display"
	"presencenode-go/services/hal"
	"presencenode-go/services/node"
	"presencenode-go/x/strx"
)

const busQueueLen = 8

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(bootDelay)

	cfg, err := config.Load()
	if err != nil {
		l := console.New(os.Stderr, false)
		l.Fatal().Err(err).Msg("configuration")
	}
	log, closer, err := console.Setup(cfg.Console)
	if err != nil {
		l := console.New(os.Stderr, false)
		l.Fatal().Err(err).Msg("console")
	}
	defer closer.Close()

	board := hal.Default()
	deviceID := strx.Coalesce(cfg.Device.Name, board.DeviceID())
	log = log.With().Str("device", deviceID).Logger()
	log.Info().Stringer("cause", board.Cause).Msg("boot")

	ctx, stop := runContext()
	defer stop()

	if err := run(ctx, cfg, board, deviceID, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Str("code", string(errcode.Of(err))).Msg("stopped")
	}
	log.Info().Msg("shutdown")
}

func run(ctx context.Context, cfg *config.Config, board hal.Board, deviceID string, log zerolog.Logger) error {
	clk := clock.NewSystem()
	topics := broker.NewTopics(cfg.Broker.TopicPrefix, deviceID)

	b := bus.NewBus(busQueueLen)
	gw := broker.Dial(cfg.Broker, deviceID, b, topics, log)
	defer gw.Close()

	canvas, err := openCanvas(cfg.Display, board, log)
	if err != nil {
		return err
	}

	motion, err := board.InputIRQ(cfg.Pins.Motion, hal.PullNone)
	if err != nil {
		return errcode.Wrap(errcode.InvalidConfig, "pins.motion", err)
	}
	led, err := board.Output(cfg.Pins.LED, false)
	if err != nil {
		return errcode.Wrap(errcode.InvalidConfig, "pins.led", err)
	}

	coord := node.NewCoordinator(node.Deps{
		Gateway: gw,
		Display: display.NewRenderer(canvas),
		Sensor:  motion,
		LED:     led,
		Meter:   board.Link,
		Clock:   clk,
		Topics:  topics,
		Log:     log,
	})
	gw.SetCallback(coord.HandleInbound)
	if err := motion.SetIRQ(hal.EdgeRising, coord.Latch().OnInterrupt); err != nil {
		return err
	}
	defer motion.ClearIRQ()
	log.Info().Int("pin", motion.Number()).Msg("motion interrupt armed")

	if board.Stimulus != nil {
		board.Stimulus(ctx, motion)
	}

	sess := &session{
		link: board.Link,
		wifi: cfg.WiFi,
		ntp:  cfg.NTP,
		clk:  clk,
		gw:   gw,
		log:  log,
	}
	return node.NewSupervisor(coord, sess, board.Reset, clk, board.Cause, log).Run(ctx)
}

// openCanvas returns the panel, or a no-op canvas when the display is
// disabled or the platform has no driver for it.
func openCanvas(cfg config.DisplayConfig, board hal.Board, log zerolog.Logger) (display.Canvas, error) {
	if !cfg.Enabled {
		return display.NopCanvas{}, nil
	}
	i2c, ok := board.I2C.ByID(cfg.Bus)
	if !ok {
		log.Warn().Str("bus", cfg.Bus).Msg("display bus not available, running headless")
		return display.NopCanvas{}, nil
	}
	c, err := display.OpenSSD1306(i2c, display.Options{
		Address:  cfg.Address,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Contrast: cfg.Contrast,
	})
	if errcode.Of(err) == errcode.Unsupported {
		log.Warn().Err(err).Msg("running headless")
		return display.NopCanvas{}, nil
	}
	if err != nil {
		return nil, errcode.Wrap(errcode.RenderFailed, "display.open", err)
	}
	return c, nil
}
