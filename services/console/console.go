// Package console builds the node's root logger. Every component receives a
// child of it; the sink is platform specific.
package console

import (
	"io"

	"github.com/rs/zerolog"
)

const timeFormat = "15:04:05"

// New returns a logger that writes human-readable lines to w.
func New(w io.Writer, color bool) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	cw := zerolog.ConsoleWriter{Out: w, NoColor: !color, TimeFormat: timeFormat}
	return zerolog.New(cw).With().Timestamp().Logger()
}

func plain(w io.Writer) io.Writer {
	return zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: timeFormat}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
