package canvas

// pen returns the pixel writer for the current Color and Mode. checked
// writers drop pixels outside the canvas; an unchecked writer is only handed
// out for fully specified colors in Overwrite mode and must only see
// in-bounds coordinates.
func (c *Canvas) pen(checked bool) func(x, y int) {
	switch {
	case c.Mode == Xor:
		return func(x, y int) {
			if c.in(x, y) {
				c.xorAt(y*c.Width + x)
			}
		}
	case !checked && c.Color.Full():
		return c.fastPen()
	default:
		return func(x, y int) {
			if c.in(x, y) {
				c.maskAt(y*c.Width + x)
			}
		}
	}
}

func (c *Canvas) fastPen() func(x, y int) {
	if c.Gray {
		v := luma(c.Color[0].V, c.Color[1].V, c.Color[2].V)
		return func(x, y int) { c.Pix[y*c.Width+x] = v }
	}
	r, g, b := c.Color[0].V, c.Color[1].V, c.Color[2].V
	return func(x, y int) {
		o := 3 * (y*c.Width + x)
		c.Pix[o], c.Pix[o+1], c.Pix[o+2] = r, g, b
	}
}

// maskAt writes the set channels of the pen color to pixel i.
func (c *Canvas) maskAt(i int) {
	if c.Gray {
		c.Pix[i] = c.Color.gray(c.Pix[i])
		return
	}
	o := 3 * i
	for k, ch := range c.Color {
		if ch.Set {
			c.Pix[o+k] = ch.V
		}
	}
}

// xorAt flips pixel i with the set channels of the pen color. Gray canvases
// xor with the luma of the set channels.
func (c *Canvas) xorAt(i int) {
	if c.Gray {
		c.Pix[i] ^= c.Color.gray(0)
		return
	}
	o := 3 * i
	for k, ch := range c.Color {
		if ch.Set {
			c.Pix[o+k] ^= ch.V
		}
	}
}

// Span writes n pixels of row y starting at x with the pen. The run is
// clamped to the canvas. Its signature matches raster.SpanFunc.
func (c *Canvas) Span(x, y, n int) {
	if y < 0 || y >= c.Height {
		return
	}
	x0, x1 := max(x, 0), min(x+n, c.Width)
	if x1 <= x0 {
		return
	}
	row := y * c.Width
	switch {
	case c.Mode == Xor:
		for i := row + x0; i < row+x1; i++ {
			c.xorAt(i)
		}
	case c.Color.Full() && c.Gray:
		v := luma(c.Color[0].V, c.Color[1].V, c.Color[2].V)
		line := c.Pix[row+x0 : row+x1]
		for i := range line {
			line[i] = v
		}
	case c.Color.Full():
		r, g, b := c.Color[0].V, c.Color[1].V, c.Color[2].V
		line := c.Pix[3*(row+x0) : 3*(row+x1)]
		for i := 0; i < len(line); i += 3 {
			line[i], line[i+1], line[i+2] = r, g, b
		}
	default:
		for i := row + x0; i < row+x1; i++ {
			c.maskAt(i)
		}
	}
}
