//go:build !rp2040 && !rp2350

package node

import (
	"bytes"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"presencenode-go/services/broker"
)

var testTopics = broker.NewTopics("home", "e6614104")

var epoch = time.Date(2024, 3, 9, 7, 42, 0, 0, time.UTC)

// fakeClock advances only when slept on.
type fakeClock struct {
	elapsed time.Duration
	sleeps  []time.Duration
}

func (c *fakeClock) Now() int64      { return int64(c.elapsed / time.Second) }
func (c *fakeClock) Wall() time.Time { return epoch.Add(c.elapsed) }
func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.elapsed += d
}
func (c *fakeClock) set(sec int64) { c.elapsed = time.Duration(sec) * time.Second }

type pub struct {
	topic   string
	payload string
	at      int64
}

type fakeGateway struct {
	clk     *fakeClock
	pubs    []pub
	pubErr  error
	pollErr error
	polls   int
	onPoll  func(n int)
	inbound []pub
	cb      func(topic string, payload []byte) error
}

func (g *fakeGateway) Publish(topic string, payload []byte) error {
	g.pubs = append(g.pubs, pub{topic: topic, payload: string(payload), at: g.clk.Now()})
	return g.pubErr
}

func (g *fakeGateway) PollIncoming() error {
	g.polls++
	if g.onPoll != nil {
		g.onPoll(g.polls)
	}
	if g.pollErr != nil {
		return g.pollErr
	}
	for len(g.inbound) > 0 {
		m := g.inbound[0]
		g.inbound = g.inbound[1:]
		if g.cb != nil {
			if err := g.cb(m.topic, []byte(m.payload)); err != nil {
				return err
			}
		}
	}
	return nil
}

type fakeDisplay struct {
	appends   []string
	statuses  []string
	statusErr error
}

func (d *fakeDisplay) AppendLog(line, status string) error {
	d.appends = append(d.appends, line)
	d.statuses = append(d.statuses, status)
	return d.statusErr
}

func (d *fakeDisplay) DrawStatus(status string) error {
	d.statuses = append(d.statuses, status)
	return d.statusErr
}

type fakeMeter struct{ dbm int }

func (m *fakeMeter) RSSI() int { return m.dbm }

type fakeLED struct{ changes []bool }

func (l *fakeLED) Set(on bool) { l.changes = append(l.changes, on) }

type fakeResetter struct {
	clk     *fakeClock
	resets  int
	sleptAt []time.Duration
}

func (r *fakeResetter) Reset() {
	r.resets++
	r.sleptAt = append(r.sleptAt, r.clk.elapsed)
}

type fixture struct {
	clk   *fakeClock
	gw    *fakeGateway
	disp  *fakeDisplay
	meter *fakeMeter
	led   *fakeLED
	pin   *levelPin
	logs  *bytes.Buffer
	coord *Coordinator
}

type levelPin struct{ high bool }

func (p *levelPin) Get() bool { return p.high }

func newFixture() *fixture {
	f := &fixture{
		clk:   &fakeClock{},
		disp:  &fakeDisplay{},
		meter: &fakeMeter{dbm: -61},
		led:   &fakeLED{},
		pin:   &levelPin{},
		logs:  &bytes.Buffer{},
	}
	f.gw = &fakeGateway{clk: f.clk}
	f.coord = NewCoordinator(Deps{
		Gateway: f.gw,
		Display: f.disp,
		Sensor:  f.pin,
		LED:     f.led,
		Meter:   f.meter,
		Clock:   f.clk,
		Topics:  testTopics,
		Log:     zerolog.New(f.logs),
	})
	f.gw.cb = f.coord.HandleInbound
	return f
}

// runUntil ticks once per second until the clock passes last, calling
// before at the start of every tick. It stops at the first error.
func (f *fixture) runUntil(last int64, before func(now int64)) (map[int64]string, error) {
	actions := map[int64]string{}
	for f.clk.Now() <= last {
		now := f.clk.Now()
		if before != nil {
			before(now)
		}
		a, err := f.coord.Tick()
		if err != nil {
			return actions, err
		}
		if a.String() != "none" {
			actions[now] = a.String()
		}
		f.clk.Sleep(TickPeriod)
	}
	return actions, nil
}

func countLevel(logs *bytes.Buffer, level string) int {
	return strings.Count(logs.String(), `"level":"`+level+`"`)
}
