// Package node is the presence node's event loop: the motion latch, the
// telemetry deadlines, the per-tick decision table and the supervisor that
// turns broker failures into a device reset.
package node

import (
	"time"

	"github.com/rs/zerolog"

	"presencenode-go/services/broker"
	"presencenode-go/services/clock"
	"presencenode-go/services/hal"
	"presencenode-go/types"
	"presencenode-go/x/timex"
)

// Gateway is the broker side of a tick.
type Gateway interface {
	Publish(topic string, payload []byte) error
	PollIncoming() error
}

// Display is the panel side of a tick.
type Display interface {
	AppendLog(line, status string) error
	DrawStatus(status string) error
}

// Sensor is the PIR output pin.
type Sensor interface {
	Get() bool
}

// Indicator is the LED blinked on motion.
type Indicator interface {
	Set(on bool)
}

var pong = []byte("pong")

// Deps are the Coordinator's collaborators. LED may be nil.
type Deps struct {
	Latch   *Latch
	Gateway Gateway
	Display Display
	Sensor  Sensor
	LED     Indicator
	Meter   hal.SignalMeter
	Clock   clock.Clock
	Topics  broker.Topics
	Log     zerolog.Logger
}

type Coordinator struct {
	latch  *Latch
	gw     Gateway
	disp   Display
	sensor Sensor
	led    Indicator
	meter  hal.SignalMeter
	clk    clock.Clock
	topics broker.Topics
	log    zerolog.Logger

	st DeviceState
}

// NewCoordinator samples the signal once and arms both deadlines at the
// current time.
func NewCoordinator(d Deps) *Coordinator {
	c := &Coordinator{
		latch:  d.Latch,
		gw:     d.Gateway,
		disp:   d.Display,
		sensor: d.Sensor,
		led:    d.LED,
		meter:  d.Meter,
		clk:    d.Clock,
		topics: d.Topics,
		log:    d.Log.With().Str("component", "node").Logger(),
	}
	if c.latch == nil {
		c.latch = &Latch{}
	}
	c.st = newState(c.clk.Now(), c.meter.RSSI())
	return c
}

// Latch returns the flag the motion pin IRQ must set.
func (c *Coordinator) Latch() *Latch { return c.latch }

// State returns a copy of the current device state.
func (c *Coordinator) State() DeviceState { return c.st }

// Arm restarts both deadlines from now. Called once when the loop starts.
func (c *Coordinator) Arm() {
	now := c.clk.Now()
	c.st.Heartbeat.MarkFired(now)
	c.st.Refresh.MarkFired(now)
}

// Tick runs one pass of the decision table. Any error returned has
// already stopped the tick; the caller decides recovery.
func (c *Coordinator) Tick() (types.Action, error) {
	if err := c.gw.PollIncoming(); err != nil {
		return types.ActionNone, err
	}
	c.st.SensorRaw = 0
	if c.sensor.Get() {
		c.st.SensorRaw = 1
	}
	now := c.clk.Now()

	c.st.Motion = c.latch.Take()
	switch {
	case c.st.Motion:
		return types.ActionEvent, c.onMotion(now)
	case c.st.Heartbeat.Due(now):
		return types.ActionHeartbeat, c.onHeartbeat(now)
	case c.st.Refresh.Due(now):
		c.sample(now)
		return types.ActionSignal, c.disp.DrawStatus(statusLine(c.st.Signal, c.st.SensorRaw))
	}
	return types.ActionNone, nil
}

// sample refreshes the signal reading. Every branch that samples also
// satisfies the refresh deadline.
func (c *Coordinator) sample(now int64) {
	c.st.Signal = c.meter.RSSI()
	c.st.Refresh.MarkFired(now)
}

func (c *Coordinator) onMotion(now int64) error {
	c.st.EventCount++
	c.sample(now)
	c.blink()

	var buf [32]byte
	if err := c.gw.Publish(c.topics.Metrics, appendMetrics(buf[:0], c.st.Signal, true)); err != nil {
		return err
	}
	c.st.Heartbeat.MarkFired(now)

	hhmm := timex.HHMM(c.clk.Wall())
	c.log.Info().Str("at", hhmm).Uint32("count", c.st.EventCount).Int("signal", c.st.Signal).Msg("published trigger event")
	return c.disp.AppendLog(logLine(hhmm, c.st.EventCount), statusLine(c.st.Signal, c.st.SensorRaw))
}

func (c *Coordinator) onHeartbeat(now int64) error {
	c.sample(now)

	var buf [32]byte
	if err := c.gw.Publish(c.topics.Metrics, appendMetrics(buf[:0], c.st.Signal, false)); err != nil {
		return err
	}
	c.st.Heartbeat.MarkFired(now)

	c.log.Info().Str("at", timex.HHMM(c.clk.Wall())).Int("signal", c.st.Signal).Msg("published status")
	return c.disp.DrawStatus(statusLine(c.st.Signal, c.st.SensorRaw))
}

func (c *Coordinator) blink() {
	if c.led == nil {
		return
	}
	c.led.Set(true)
	c.clk.Sleep(blinkHalf)
	c.led.Set(false)
	c.clk.Sleep(blinkHalf)
}

// HandleInbound is the broker callback. It runs on the loop goroutine
// from inside PollIncoming. A ping on the command topic is answered with
// pong on the metrics topic.
func (c *Coordinator) HandleInbound(topic string, payload []byte) error {
	if topic != c.topics.Command || string(payload) != "ping" {
		return nil
	}
	if err := c.gw.Publish(c.topics.Metrics, pong); err != nil {
		return err
	}
	c.log.Debug().Msg("sent pong")
	return nil
}

// settle shows the settle status with a fresh signal reading and waits
// for the PIR to stabilise.
func (c *Coordinator) settle(d time.Duration) error {
	c.st.Signal = c.meter.RSSI()
	if err := c.disp.DrawStatus(settleStatus(c.st.Signal)); err != nil {
		return err
	}
	c.clk.Sleep(d)
	return nil
}
