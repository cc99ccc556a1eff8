package display

// LogLines is the number of scrolling log rows on a 128x64 panel.
const LogLines = 5

// LogRing is a fixed-size FIFO of display lines. It always holds exactly
// LogLines entries; the zero value holds empty strings.
type LogRing struct {
	lines [LogLines]string
}

// Append evicts the oldest line and adds line as the newest.
func (r *LogRing) Append(line string) {
	copy(r.lines[:], r.lines[1:])
	r.lines[LogLines-1] = line
}

// Lines returns the lines oldest first.
func (r *LogRing) Lines() [LogLines]string { return r.lines }

// Len is always LogLines.
func (r *LogRing) Len() int { return len(r.lines) }
