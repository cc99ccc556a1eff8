// Package conv holds allocation-free number formatting for paths where
// fmt/strconv are too heavy on the MCU.
package conv

// Itoa writes base-10 representation of n into buf and returns the used slice.
// buf should be length >= 20 for int64. Negative numbers supported.
// No allocations; no fmt/strconv dependency.
func Itoa(buf []byte, n int64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	neg := n < 0
	u := uint64(n)
	if neg {
		// Two's complement negation keeps MinInt64 exact.
		u = -u
	}
	out := Utoa(buf, u)
	i := len(buf) - len(out)
	if neg && i > 0 {
		i--
		buf[i] = '-'
	}
	return buf[i:]
}

// AppendInt appends the base-10 representation of n to dst.
func AppendInt(dst []byte, n int64) []byte {
	var tmp [20]byte
	return append(dst, Itoa(tmp[:], n)...)
}

// AppendPad2 appends n as at least two digits, zero-padded ("07", "42").
func AppendPad2(dst []byte, n int) []byte {
	if n >= 0 && n < 10 {
		dst = append(dst, '0')
	}
	return AppendInt(dst, int64(n))
}

// Str is Itoa into a fresh string, for log and error messages.
func Str(n int) string {
	var tmp [20]byte
	return string(Itoa(tmp[:], int64(n)))
}
