package display

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Color is a monochrome pixel value.
type Color uint8

const (
	Off Color = 0
	On  Color = 1
)

// Canvas is the drawing surface the renderer needs. Coordinates are pixels
// from the top-left corner; Text positions the top-left of the first glyph.
type Canvas interface {
	Fill(c Color)
	FillRect(x, y, w, h int16, c Color)
	Rect(x, y, w, h int16, c Color)
	Text(s string, x, y int16, c Color)
	Show() error
}

var (
	rgbaOn  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	rgbaOff = color.RGBA{A: 255}
)

func (c Color) rgba() color.RGBA {
	if c == On {
		return rgbaOn
	}
	return rgbaOff
}

// textBaseline is the distance from the top of a row to the font baseline
// for tinyfont.Org01, whose glyphs sit on y and rise 5px.
const textBaseline = 6

// DisplayerCanvas implements Canvas over any TinyGo drivers.Displayer,
// rasterising text with tinyfont.
type DisplayerCanvas struct {
	d    drivers.Displayer
	font tinyfont.Fonter
}

func NewDisplayerCanvas(d drivers.Displayer) *DisplayerCanvas {
	return &DisplayerCanvas{d: d, font: &tinyfont.Org01}
}

func (dc *DisplayerCanvas) Fill(c Color) {
	w, h := dc.d.Size()
	dc.FillRect(0, 0, w, h, c)
}

func (dc *DisplayerCanvas) FillRect(x, y, w, h int16, c Color) {
	col := c.rgba()
	for j := y; j < y+h; j++ {
		for i := x; i < x+w; i++ {
			dc.d.SetPixel(i, j, col)
		}
	}
}

func (dc *DisplayerCanvas) Rect(x, y, w, h int16, c Color) {
	if w <= 0 || h <= 0 {
		return
	}
	dc.FillRect(x, y, w, 1, c)
	dc.FillRect(x, y+h-1, w, 1, c)
	dc.FillRect(x, y, 1, h, c)
	dc.FillRect(x+w-1, y, 1, h, c)
}

func (dc *DisplayerCanvas) Text(s string, x, y int16, c Color) {
	if s == "" {
		return
	}
	tinyfont.WriteLine(dc.d, dc.font, x, y+textBaseline, s, c.rgba())
}

func (dc *DisplayerCanvas) Show() error { return dc.d.Display() }

// NopCanvas discards drawing; used when no panel is fitted.
type NopCanvas struct{}

func (NopCanvas) Fill(Color)                         {}
func (NopCanvas) FillRect(_, _, _, _ int16, _ Color) {}
func (NopCanvas) Rect(_, _, _, _ int16, _ Color)     {}
func (NopCanvas) Text(_ string, _, _ int16, _ Color) {}
func (NopCanvas) Show() error                        { return nil }
