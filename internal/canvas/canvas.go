// Package canvas owns the pixel buffers primitives are drawn into and the
// aliased drawing routines that write them.
package canvas

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
)

// Channel is one color component that may be left untouched by a write.
type Channel struct {
	V   uint8
	Set bool
}

// Keep leaves the existing channel value in place.
var Keep = Channel{}

// Ch returns a set channel with value v.
func Ch(v uint8) Channel { return Channel{V: v, Set: true} }

// Color is an R, G, B triple of optional channels.
type Color [3]Channel

// RGB returns a color with all three channels set.
func RGB(r, g, b uint8) Color { return Color{Ch(r), Ch(g), Ch(b)} }

// FromColor converts c to a fully specified Color, ignoring alpha.
func FromColor(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	return RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Full reports whether every channel is set.
func (c Color) Full() bool {
	return c[0].Set && c[1].Set && c[2].Set
}

// Hex formats the color as #RRGGBB. Unset channels print as 00.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c[0].V, c[1].V, c[2].V)
}

// RGBA returns the color as an opaque color.RGBA with unset channels at zero.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c[0].V, G: c[1].V, B: c[2].V, A: 0xff}
}

// gray resolves c against the existing gray value old.
func (c Color) gray(old uint8) uint8 {
	var v [3]uint8
	for i, ch := range c {
		v[i] = old
		if ch.Set {
			v[i] = ch.V
		}
	}
	return luma(v[0], v[1], v[2])
}

// luma converts to gray with 16-bit fixed-point Rec. 601 weights. The
// weights sum to 1<<16 so the result never overflows a uint32.
func luma(r, g, b uint8) uint8 {
	return uint8((19595*uint32(r) + 38470*uint32(g) + 7471*uint32(b) + 1<<15) >> 16)
}

// Mode selects how pixel writes combine with the buffer.
type Mode int

const (
	Overwrite Mode = iota
	Xor
)

func (m Mode) String() string {
	switch m {
	case Overwrite:
		return "overwrite"
	case Xor:
		return "xor"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Canvas is a row-major pixel buffer, one byte per pixel when Gray and
// R, G, B bytes per pixel otherwise. Color, Mode and LineWidth are the pen
// used by the drawing methods.
type Canvas struct {
	Width, Height int
	Gray          bool
	Pix           []byte

	Color     Color
	Mode      Mode
	LineWidth int
}

// New allocates a zeroed canvas. The pen starts white, overwriting, one
// pixel wide.
func New(width, height int, gray bool) *Canvas {
	c := &Canvas{Gray: gray, Color: RGB(0xff, 0xff, 0xff), LineWidth: 1}
	c.Resize(width, height)
	return c
}

func (c *Canvas) bpp() int {
	if c.Gray {
		return 1
	}
	return 3
}

// Stride is the number of bytes per row.
func (c *Canvas) Stride() int { return c.Width * c.bpp() }

// Resize changes the canvas size, reallocating the buffer only when the size
// actually changes. It reports whether a reallocation happened; the new
// buffer is zeroed.
func (c *Canvas) Resize(width, height int) bool {
	width, height = max(width, 0), max(height, 0)
	if c.Pix != nil && width == c.Width && height == c.Height {
		return false
	}
	c.Width, c.Height = width, height
	c.Pix = make([]byte, width*height*c.bpp())
	return true
}

// Clear zeroes the buffer.
func (c *Canvas) Clear() {
	clear(c.Pix)
}

// Paint overwrites every pixel with col, honoring unset channels.
func (c *Canvas) Paint(col Color) {
	saved, mode := c.Color, c.Mode
	c.Color, c.Mode = col, Overwrite
	for y := 0; y < c.Height; y++ {
		c.Span(0, y, c.Width)
	}
	c.Color, c.Mode = saved, mode
}

// Clone returns a deep copy of the canvas.
func (c *Canvas) Clone() *Canvas {
	n := *c
	n.Pix = bytes.Clone(c.Pix)
	return &n
}

// Equal reports whether o has the same geometry and pixels.
func (c *Canvas) Equal(o *Canvas) bool {
	return c.Width == o.Width && c.Height == o.Height && c.Gray == o.Gray && bytes.Equal(c.Pix, o.Pix)
}

func (c *Canvas) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.Width && y < c.Height
}

// ColorModel implements image.Image.
func (c *Canvas) ColorModel() color.Model {
	if c.Gray {
		return color.GrayModel
	}
	return color.RGBAModel
}

// Bounds implements image.Image.
func (c *Canvas) Bounds() image.Rectangle { return image.Rect(0, 0, c.Width, c.Height) }

// At implements image.Image.
func (c *Canvas) At(x, y int) color.Color {
	if !c.in(x, y) {
		if c.Gray {
			return color.Gray{}
		}
		return color.RGBA{}
	}
	if c.Gray {
		return color.Gray{Y: c.Pix[y*c.Width+x]}
	}
	o := 3 * (y*c.Width + x)
	return color.RGBA{R: c.Pix[o], G: c.Pix[o+1], B: c.Pix[o+2], A: 0xff}
}

// Set implements draw.Image. It stores col directly, bypassing the pen.
func (c *Canvas) Set(x, y int, col color.Color) {
	if !c.in(x, y) {
		return
	}
	r, g, b, _ := col.RGBA()
	if c.Gray {
		c.Pix[y*c.Width+x] = luma(uint8(r>>8), uint8(g>>8), uint8(b>>8))
		return
	}
	o := 3 * (y*c.Width + x)
	c.Pix[o], c.Pix[o+1], c.Pix[o+2] = uint8(r>>8), uint8(g>>8), uint8(b>>8)
}

// RGBA copies the canvas into a new opaque *image.RGBA.
func (c *Canvas) RGBA() *image.RGBA {
	img := image.NewRGBA(c.Bounds())
	for i, j := 0, 0; i < c.Width*c.Height; i++ {
		if c.Gray {
			v := c.Pix[i]
			img.Pix[j], img.Pix[j+1], img.Pix[j+2] = v, v, v
		} else {
			copy(img.Pix[j:j+3], c.Pix[3*i:3*i+3])
		}
		img.Pix[j+3] = 0xff
		j += 4
	}
	return img
}
