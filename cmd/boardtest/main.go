// cmd/boardtest/main.go
//
// Bench bring-up for a presence node board: blinks the LED, counts PIR
// edges through the same latch the firmware uses, reports signal strength
// and scrolls each observation on the panel. No broker is involved.
package main

import (
	"context"
	"os"
	"time"

	"presencenode-go/services/config"
	"presencenode-go/services/console"
	"presencenode-go/services/display"
	"presencenode-go/services/hal"
	"presencenode-go/services/node"
	"presencenode-go/x/conv"
	"presencenode-go/x/timex"
)

// ---------- Configuration ----------

const (
	samplePeriod = 1 * time.Second
	blinkOn      = 150 * time.Millisecond

	// Cycles: 0 = loop forever
	cyclesToRun = 0
)

func main() {
	time.Sleep(2 * time.Second)

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
	log.Info().
		Str("id", board.DeviceID()).
		Stringer("cause", board.Cause).
		Str("mac", board.Link.HardwareAddr()).
		Msg("boardtest")

	r := display.NewRenderer(openPanel(cfg.Display, board))

	var latch node.Latch
	pir, err := board.InputIRQ(cfg.Pins.Motion, hal.PullNone)
	if err != nil {
		log.Fatal().Err(err).Int("pin", cfg.Pins.Motion).Msg("motion pin")
	}
	if err := pir.SetIRQ(hal.EdgeRising, latch.OnInterrupt); err != nil {
		log.Fatal().Err(err).Msg("motion irq")
	}
	led, err := board.Output(cfg.Pins.LED, false)
	if err != nil {
		log.Fatal().Err(err).Int("pin", cfg.Pins.LED).Msg("led pin")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if board.Stimulus != nil {
		board.Stimulus(ctx, pir)
	}

	edges := 0
	for cycle := 1; cyclesToRun == 0 || cycle <= cyclesToRun; cycle++ {
		led.Set(true)
		time.Sleep(blinkOn)
		led.Set(false)
		time.Sleep(samplePeriod - blinkOn)

		rssi := board.Link.RSSI()
		raw := 0
		if pir.Get() {
			raw = 1
		}
		status := "s=" + conv.Str(rssi) + ", v=" + conv.Str(raw)

		if !latch.Take() {
			if err := r.DrawStatus(status); err != nil {
				log.Error().Err(err).Msg("display")
			}
			continue
		}
		edges++
		log.Info().Int("edges", edges).Int("signal", rssi).Msg("motion")
		line := timex.HHMM(time.Now()) + " edge " + conv.Str(edges)
		if err := r.AppendLog(line, status); err != nil {
			log.Error().Err(err).Msg("display")
		}
	}
}

func openPanel(cfg config.DisplayConfig, board hal.Board) display.Canvas {
	if !cfg.Enabled {
		return nil
	}
	i2c, ok := board.I2C.ByID(cfg.Bus)
	if !ok {
		return nil
	}
	c, err := display.OpenSSD1306(i2c, display.Options{
		Address:  cfg.Address,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Contrast: cfg.Contrast,
	})
	if err != nil {
		return nil
	}
	return c
}
