// Package broker owns the node's single MQTT session. Library callbacks run
// on paho goroutines and are handed to the loop over the in-process bus, so
// the inbound callback always executes on the caller of PollIncoming.
package broker

import (
	"context"
	"errors"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"presencenode-go/bus"
	"presencenode-go/errcode"
	"presencenode-go/services/config"
	"presencenode-go/types"
	"presencenode-go/x/conv"
)

// Client is the subset of mqtt.Client the gateway drives.
type Client interface {
	Connect() mqtt.Token
	Disconnect(quiesce uint)
	IsConnectionOpen() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
}

// Callback handles one inbound message on the loop goroutine.
type Callback func(topic string, payload []byte) error

var (
	topicRx   = bus.T("broker", "rx")
	topicLost = bus.T("broker", "lost")
)

const (
	defaultTimeout = 5 * time.Second
	quiesceMs      = 250
)

var errLost = errors.New("connection lost")

type Gateway struct {
	client  Client
	topics  Topics
	timeout time.Duration
	log     zerolog.Logger

	conn *bus.Connection
	rx   *bus.Subscription
	lost *bus.Subscription

	cb        Callback
	connected bool
}

// New wires a gateway around an existing client.
func New(c Client, b *bus.Bus, t Topics, timeout time.Duration, log zerolog.Logger) *Gateway {
	g := newGateway(b, t, timeout, log)
	g.client = c
	return g
}

func newGateway(b *bus.Bus, t Topics, timeout time.Duration, log zerolog.Logger) *Gateway {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	conn := b.NewConnection("broker")
	return &Gateway{
		topics:  t,
		timeout: timeout,
		log:     log.With().Str("component", "broker").Logger(),
		conn:    conn,
		rx:      conn.Subscribe(topicRx),
		lost:    conn.Subscribe(topicLost),
	}
}

// Dial builds a paho client for cfg. Reconnection is disabled: a dropped
// session is reported by PollIncoming and recovered by a device reset.
func Dial(cfg config.BrokerConfig, clientID string, b *bus.Bus, t Topics, log zerolog.Logger) *Gateway {
	g := newGateway(b, t, time.Duration(cfg.TimeoutMs)*time.Millisecond, log)

	opts := mqtt.NewClientOptions()
	opts.AddBroker("tcp://" + cfg.Host + ":" + conv.Str(cfg.Port))
	opts.SetClientID(clientID)
	if cfg.User != "" {
		opts.SetUsername(cfg.User)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)
	opts.SetConnectTimeout(g.timeout)
	opts.SetWriteTimeout(g.timeout)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetOrderMatters(false)
	opts.SetConnectionLostHandler(g.onConnectionLost)

	g.client = mqtt.NewClient(opts)
	return g
}

func (g *Gateway) Topics() Topics { return g.topics }

// SetCallback installs the inbound handler. Nil drops inbound messages
// after logging them.
func (g *Gateway) SetCallback(cb Callback) { g.cb = cb }

// Connect opens the session and subscribes to the command topic.
func (g *Gateway) Connect(ctx context.Context) error {
	if err := g.wait(ctx, g.client.Connect(), errcode.ConnectFailed, "broker.connect"); err != nil {
		return err
	}
	tok := g.client.Subscribe(g.topics.Command, 0, g.onMessage)
	if err := g.wait(ctx, tok, errcode.SubscribeFailed, "broker.subscribe"); err != nil {
		return err
	}
	g.connected = true
	g.log.Info().Str("topic", g.topics.Command).Msg("connected")
	return nil
}

// Publish sends payload at QoS 0 and waits up to the gateway timeout.
func (g *Gateway) Publish(topic string, payload []byte) error {
	tok := g.client.Publish(topic, 0, false, payload)
	return g.wait(context.Background(), tok, errcode.PublishFailed, "broker.publish")
}

// PollIncoming dispatches every queued inbound message to the callback and
// then reports a dropped session. It never blocks.
func (g *Gateway) PollIncoming() error {
	for {
		var m *bus.Message
		select {
		case m = <-g.rx.Channel():
		default:
			return g.checkLost()
		}
		if m == nil {
			return &errcode.E{C: errcode.PollFailed, Op: "broker.poll", Msg: "gateway closed"}
		}
		in, ok := m.Payload.(types.InboundMessage)
		if !ok {
			continue
		}
		g.log.Info().Str("topic", in.Topic).Bytes("payload", in.Payload).Msg("inbound")
		if g.cb == nil {
			continue
		}
		if err := g.cb(in.Topic, in.Payload); err != nil {
			return err
		}
	}
}

func (g *Gateway) checkLost() error {
	select {
	case m := <-g.lost.Channel():
		cause := errLost
		if m != nil {
			if e, ok := m.Payload.(error); ok {
				cause = e
			}
		}
		return &errcode.E{C: errcode.ConnectionLost, Op: "broker.poll", Err: cause}
	default:
	}
	if g.connected && !g.client.IsConnectionOpen() {
		return &errcode.E{C: errcode.ConnectionLost, Op: "broker.poll", Err: errLost}
	}
	return nil
}

// Close ends the session and releases the bus subscriptions.
func (g *Gateway) Close() {
	if g.connected {
		g.client.Disconnect(quiesceMs)
		g.connected = false
	}
	g.conn.Disconnect()
}

// onMessage runs on a paho goroutine.
func (g *Gateway) onMessage(_ mqtt.Client, m mqtt.Message) {
	payload := append([]byte(nil), m.Payload()...)
	g.conn.Publish(g.conn.NewMessage(topicRx, types.InboundMessage{Topic: m.Topic(), Payload: payload}, false))
}

// onConnectionLost runs on a paho goroutine.
func (g *Gateway) onConnectionLost(_ mqtt.Client, err error) {
	if err == nil {
		err = errLost
	}
	g.conn.Publish(g.conn.NewMessage(topicLost, err, false))
}

func (g *Gateway) wait(ctx context.Context, tok mqtt.Token, c errcode.Code, op string) error {
	t := time.NewTimer(g.timeout)
	defer t.Stop()
	select {
	case <-tok.Done():
		return errcode.Wrap(c, op, tok.Error())
	case <-t.C:
		return &errcode.E{C: errcode.Timeout, Op: op, Msg: "no ack within " + g.timeout.String()}
	case <-ctx.Done():
		return errcode.Wrap(c, op, ctx.Err())
	}
}
