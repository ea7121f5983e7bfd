package canvas

import "github.com/example/overpaint/internal/raster"

// DrawCircle strokes a circle of radius r around (cx, cy) with the midpoint
// algorithm. Every pixel of the outline is written once. Wide pens stroke
// the circle's polygon approximation instead.
func (c *Canvas) DrawCircle(cx, cy, r int) {
	if r < 0 {
		return
	}
	if c.LineWidth > 1 {
		c.DrawEllipse(cx, cy, r, r, 0, 0, 360, false)
		return
	}
	plot := c.pen(!c.boxInside(cx, cy, r))
	if r == 0 {
		plot(cx, cy)
		return
	}
	x, y, e := r, 0, 1-r
	for x >= y {
		switch {
		case y == 0:
			plot(cx+x, cy)
			plot(cx-x, cy)
			plot(cx, cy+x)
			plot(cx, cy-x)
		case x == y:
			plot(cx+x, cy+y)
			plot(cx-x, cy+y)
			plot(cx+x, cy-y)
			plot(cx-x, cy-y)
		default:
			plot(cx+x, cy+y)
			plot(cx+y, cy+x)
			plot(cx-y, cy+x)
			plot(cx-x, cy+y)
			plot(cx-x, cy-y)
			plot(cx-y, cy-x)
			plot(cx+y, cy-x)
			plot(cx+x, cy-y)
		}
		y++
		if e < 0 {
			e += 2*y + 1
		} else {
			x--
			e += 2 * (y - x + 1)
		}
	}
}

// FillCircle fills the disc of radius r around (cx, cy), one span per row.
func (c *Canvas) FillCircle(cx, cy, r int) {
	if r < 0 {
		return
	}
	row := c.Span
	if c.boxInside(cx, cy, r) && c.Mode == Overwrite && c.Color.Full() {
		row = c.fastRow()
	}
	x, y, e := r, 0, 1-r
	for x >= y {
		row(cx-x, cy+y, 2*x+1)
		if y != 0 {
			row(cx-x, cy-y, 2*x+1)
		}
		if e >= 0 && x != y {
			row(cx-y, cy+x, 2*y+1)
			row(cx-y, cy-x, 2*y+1)
		}
		y++
		if e < 0 {
			e += 2*y + 1
		} else {
			x--
			e += 2 * (y - x + 1)
		}
	}
}

// boxInside reports whether the square of radius r around (cx, cy) lies
// entirely on the canvas.
func (c *Canvas) boxInside(cx, cy, r int) bool {
	return c.in(cx-r, cy-r) && c.in(cx+r, cy+r)
}

func (c *Canvas) fastRow() func(x, y, n int) {
	plot := c.fastPen()
	return func(x, y, n int) {
		for i := x; i < x+n; i++ {
			plot(i, y)
		}
	}
}

// DrawEllipse draws the arc of an ellipse with radii rx and ry around
// (cx, cy), rotated by rot degrees, from start to end degrees. Filled partial
// arcs are closed through the centre, so they fill as pie slices.
func (c *Canvas) DrawEllipse(cx, cy, rx, ry, rot, start, end int, filled bool) {
	if rx < 0 || ry < 0 {
		return
	}
	poly := raster.Ellipse(cx, cy, rx, ry, rot, start, end)
	full := raster.FullArc(start, end)
	switch {
	case filled && full:
		c.fillConvex(poly)
	case filled:
		poly = append(poly, raster.Pt(cx, cy))
		_ = c.FillPolygon(poly, false)
	case full:
		c.DrawPolygon(append(poly, poly[0]))
	default:
		c.DrawPolygon(poly)
	}
}
