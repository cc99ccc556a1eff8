package broker

import (
	"context"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"presencenode-go/bus"
	"presencenode-go/errcode"
)

// ---- fakes ----

type fakeToken struct {
	done chan struct{}
	err  error
}

func doneToken(err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func pendingToken() *fakeToken { return &fakeToken{done: make(chan struct{})} }

func (t *fakeToken) Wait() bool { <-t.done; return true }
func (t *fakeToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(d):
		return false
	}
}
func (t *fakeToken) Done() <-chan struct{} { return t.done }
func (t *fakeToken) Error() error          { return t.err }

type published struct {
	topic   string
	payload []byte
}

type fakeClient struct {
	connectErr error
	subErr     error
	pubErr     error
	pubHang    bool
	open       bool

	subTopic string
	handler  mqtt.MessageHandler
	pubs     []published
	discon   int
}

func (c *fakeClient) Connect() mqtt.Token {
	if c.connectErr == nil {
		c.open = true
	}
	return doneToken(c.connectErr)
}
func (c *fakeClient) Disconnect(uint)        { c.discon++; c.open = false }
func (c *fakeClient) IsConnectionOpen() bool { return c.open }
func (c *fakeClient) Publish(topic string, _ byte, _ bool, payload interface{}) mqtt.Token {
	if c.pubHang {
		return pendingToken()
	}
	c.pubs = append(c.pubs, published{topic, payload.([]byte)})
	return doneToken(c.pubErr)
}
func (c *fakeClient) Subscribe(topic string, _ byte, cb mqtt.MessageHandler) mqtt.Token {
	c.subTopic = topic
	c.handler = cb
	return doneToken(c.subErr)
}

type fakeMsg struct {
	topic   string
	payload []byte
}

func (m fakeMsg) Duplicate() bool   { return false }
func (m fakeMsg) Qos() byte         { return 0 }
func (m fakeMsg) Retained() bool    { return false }
func (m fakeMsg) Topic() string     { return m.topic }
func (m fakeMsg) MessageID() uint16 { return 0 }
func (m fakeMsg) Payload() []byte   { return m.payload }
func (m fakeMsg) Ack()              {}

func newTestGateway(c *fakeClient) *Gateway {
	return New(c, bus.NewBus(8), NewTopics("home", "abc123"), 50*time.Millisecond, zerolog.Nop())
}

// ---- tests ----

func TestTopics(t *testing.T) {
	tp := NewTopics("home", "e6614104")
	if tp.Command != "home/e6614104/cmd" || tp.Metrics != "home/e6614104/metrics" {
		t.Fatalf("topics = %+v", tp)
	}
}

func TestConnectSubscribesToCommandTopic(t *testing.T) {
	c := &fakeClient{}
	g := newTestGateway(c)
	if err := g.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if c.subTopic != "home/abc123/cmd" || c.handler == nil {
		t.Fatalf("subscribed to %q", c.subTopic)
	}
}

func TestConnectFailures(t *testing.T) {
	cases := []struct {
		name string
		c    *fakeClient
		want errcode.Code
	}{
		{"connect", &fakeClient{connectErr: errors.New("refused")}, errcode.ConnectFailed},
		{"subscribe", &fakeClient{subErr: errors.New("not authorised")}, errcode.SubscribeFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := newTestGateway(tc.c).Connect(context.Background())
			if errcode.Of(err) != tc.want || !errcode.IsTransientIO(err) {
				t.Fatalf("err = %v, want %s", err, tc.want)
			}
		})
	}
}

func TestPublishErrors(t *testing.T) {
	c := &fakeClient{pubErr: errors.New("eof")}
	g := newTestGateway(c)
	err := g.Publish("home/abc123/metrics", []byte(`{"s":"-61","m":"1"}`))
	if errcode.Of(err) != errcode.PublishFailed {
		t.Fatalf("err = %v", err)
	}
	if len(c.pubs) != 1 || string(c.pubs[0].payload) != `{"s":"-61","m":"1"}` {
		t.Fatalf("pubs = %+v", c.pubs)
	}
}

func TestPublishTimeout(t *testing.T) {
	g := newTestGateway(&fakeClient{pubHang: true})
	err := g.Publish("x", []byte("y"))
	if errcode.Of(err) != errcode.Timeout || !errcode.IsTransientIO(err) {
		t.Fatalf("err = %v", err)
	}
}

func TestPollDispatchesOnCaller(t *testing.T) {
	c := &fakeClient{}
	g := newTestGateway(c)
	if err := g.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}

	var got []string
	g.SetCallback(func(topic string, payload []byte) error {
		got = append(got, topic+"="+string(payload))
		return nil
	})

	// Library goroutine delivers; nothing runs until the loop polls.
	buf := []byte("ping")
	c.handler(nil, fakeMsg{topic: "home/abc123/cmd", payload: buf})
	buf[0] = 'X' // the gateway must have copied
	c.handler(nil, fakeMsg{topic: "home/abc123/cmd", payload: []byte("status")})
	if len(got) != 0 {
		t.Fatal("callback ran before PollIncoming")
	}

	if err := g.PollIncoming(); err != nil {
		t.Fatalf("PollIncoming: %v", err)
	}
	want := []string{"home/abc123/cmd=ping", "home/abc123/cmd=status"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
	if err := g.PollIncoming(); err != nil || len(got) != 2 {
		t.Fatalf("second poll: err=%v got=%v", err, got)
	}
}

func TestPollPropagatesCallbackError(t *testing.T) {
	c := &fakeClient{}
	g := newTestGateway(c)
	_ = g.Connect(context.Background())
	boom := &errcode.E{C: errcode.PublishFailed, Op: "broker.publish"}
	g.SetCallback(func(string, []byte) error { return boom })
	c.handler(nil, fakeMsg{topic: "t", payload: []byte("ping")})
	if err := g.PollIncoming(); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestPollReportsConnectionLost(t *testing.T) {
	c := &fakeClient{}
	g := newTestGateway(c)
	_ = g.Connect(context.Background())

	cause := errors.New("pingresp not received")
	g.onConnectionLost(nil, cause)
	err := g.PollIncoming()
	if errcode.Of(err) != errcode.ConnectionLost || !errors.Is(err, cause) {
		t.Fatalf("err = %v", err)
	}
}

func TestPollNoticesClosedSocket(t *testing.T) {
	c := &fakeClient{}
	g := newTestGateway(c)
	_ = g.Connect(context.Background())
	c.open = false
	if err := g.PollIncoming(); errcode.Of(err) != errcode.ConnectionLost {
		t.Fatalf("err = %v", err)
	}
}

func TestCloseDisconnectsOnce(t *testing.T) {
	c := &fakeClient{}
	g := newTestGateway(c)
	_ = g.Connect(context.Background())
	g.Close()
	g.Close()
	if c.discon != 1 {
		t.Fatalf("disconnects = %d", c.discon)
	}
}
