package display

import (
	"presencenode-go/errcode"
)

// Layout of a 128x64 panel: a boxed status bar on top, then the log rows.
const (
	barWidth  = 128
	barHeight = 12
	barTextX  = 2
	barTextY  = 2
)

var logRowY = [LogLines]int16{14, 24, 34, 44, 54}

// Renderer draws the status bar and the scrolling log. It owns the
// LogRing; callers mutate it only through AppendLog.
type Renderer struct {
	c    Canvas
	ring LogRing
}

func NewRenderer(c Canvas) *Renderer {
	if c == nil {
		c = NopCanvas{}
	}
	return &Renderer{c: c}
}

// AppendLog scrolls line into the log, redraws the whole panel including
// the status bar, and shows it.
func (r *Renderer) AppendLog(line, status string) error {
	r.ring.Append(line)
	r.c.Fill(Off)
	lines := r.ring.Lines()
	for i, y := range logRowY {
		r.c.Text(lines[i], 0, y, On)
	}
	return r.DrawStatus(status)
}

// DrawStatus redraws only the status bar and shows it.
func (r *Renderer) DrawStatus(status string) error {
	r.c.FillRect(0, 0, barWidth, barHeight, Off)
	r.c.Rect(0, 0, barWidth, barHeight, On)
	r.c.Text(status, barTextX, barTextY, On)
	if err := r.c.Show(); err != nil {
		return &errcode.E{C: errcode.RenderFailed, Op: "display.show", Err: err}
	}
	return nil
}

// Lines exposes the current log contents, oldest first.
func (r *Renderer) Lines() [LogLines]string { return r.ring.Lines() }
