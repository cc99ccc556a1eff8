package errcode

import "errors"

// Code is a stable error identifier shared by logs and recovery policy.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK          Code = "ok"
	Unsupported Code = "unsupported"
	Timeout     Code = "timeout"

	// Broker I/O. Always fatal to the process; see IsTransientIO.
	ConnectFailed   Code = "connect_failed"
	SubscribeFailed Code = "subscribe_failed"
	PublishFailed   Code = "publish_failed"
	PollFailed      Code = "poll_failed"
	ConnectionLost  Code = "connection_lost"

	// Startup only, never retried.
	InvalidConfig Code = "invalid_config"

	// Display hardware.
	RenderFailed Code = "render_failed"

	UnknownPin Code = "unknown_pin"

	Error Code = "error" // generic fallback
)

// E keeps an operation name and a cause alongside the code.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		return s + ": " + e.Msg
	}
	if e.Err != nil {
		return s + ": " + e.Err.Error()
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Wrap is shorthand for &E{C: c, Op: op, Err: err}. A nil err yields nil.
func Wrap(c Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error chain, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	// Outermost *E wins over a bare Code further down the chain.
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return Error
}

// IsTransientIO reports whether err came from the broker path
// (connect, subscribe, publish, poll or a dropped session).
func IsTransientIO(err error) bool {
	switch Of(err) {
	case ConnectFailed, SubscribeFailed, PublishFailed, PollFailed, ConnectionLost, Timeout:
		return true
	}
	return false
}

// IsRender reports whether err is a display failure.
func IsRender(err error) bool { return Of(err) == RenderFailed }

// IsConfig reports whether err is a configuration failure.
func IsConfig(err error) bool { return Of(err) == InvalidConfig }
