package node

import (
	"context"

	"github.com/rs/zerolog"

	"presencenode-go/errcode"
	"presencenode-go/services/clock"
	"presencenode-go/services/hal"
	"presencenode-go/types"
)

// Connector opens the broker session.
type Connector interface {
	Connect(ctx context.Context) error
}

// Supervisor is the outermost boundary of the loop. Broker failures are
// logged once, followed by the cooldown and a device reset; nothing is
// retried in place.
type Supervisor struct {
	coord *Coordinator
	conn  Connector
	reset hal.Resetter
	clk   clock.Clock
	cause types.ResetCause
	log   zerolog.Logger
}

func NewSupervisor(coord *Coordinator, conn Connector, reset hal.Resetter, clk clock.Clock, cause types.ResetCause, log zerolog.Logger) *Supervisor {
	return &Supervisor{
		coord: coord,
		conn:  conn,
		reset: reset,
		clk:   clk,
		cause: cause,
		log:   log.With().Str("component", "supervisor").Logger(),
	}
}

// Run connects, applies the boot settle delay, then ticks until ctx ends or
// a failure occurs. On hardware a broker failure never returns because the
// reset does not; elsewhere Run returns the failure after Reset. Other
// errors (display faults) are returned without a reset. Failures caused by
// ctx ending are a shutdown, not a fault.
func (s *Supervisor) Run(ctx context.Context) error {
	if err := s.conn.Connect(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return s.recover(err)
	}
	if err := s.boot(); err != nil {
		return err
	}
	s.coord.Arm()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, err := s.coord.Tick(); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errcode.IsTransientIO(err) {
				return s.recover(err)
			}
			return err
		}
		s.clk.Sleep(TickPeriod)
	}
}

func (s *Supervisor) boot() error {
	switch {
	case s.cause.NeedsSettle():
		s.log.Info().Stringer("cause", s.cause).Dur("settle", SettleDelay).Msg("waiting for sensor to stabilise")
		return s.coord.settle(SettleDelay)
	case s.cause == types.ResetDeepSleep:
		s.log.Info().Msg("woke from deep sleep")
	case s.cause == types.ResetSoft:
		s.log.Info().Msg("soft reset detected")
	default:
		s.log.Warn().Uint8("cause", uint8(s.cause)).Msg("unrecognised reset cause")
	}
	return nil
}

func (s *Supervisor) recover(err error) error {
	s.log.Error().Err(err).Str("code", string(errcode.Of(err))).Msg("broker failure, restart and reconnect")
	s.clk.Sleep(Cooldown)
	s.reset.Reset()
	return err
}
