package display

// Options configures a physical panel.
type Options struct {
	Address  uint16
	Width    int16
	Height   int16
	Contrast uint8
}
