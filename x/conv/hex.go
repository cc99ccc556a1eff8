package conv

const hexLower = "0123456789abcdef"

// AppendHex appends the lowercase hex encoding of src to dst. Device ids
// are printed this way, so topics stay lowercase.
func AppendHex(dst, src []byte) []byte {
	for _, b := range src {
		dst = append(dst, hexLower[b>>4], hexLower[b&0x0F])
	}
	return dst
}
