package canvas

import (
	"image"

	"github.com/example/overpaint/internal/raster"
)

// DrawLine draws a line from (x0, y0) to (x1, y1), both ends included. Lines
// wider than one pixel are filled as a round-capped capsule.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	if c.LineWidth > 1 {
		c.fillConvex(raster.Capsule(x0, y0, x1, y1, c.LineWidth))
		return
	}
	if (x0 < 0 && x1 < 0) || (y0 < 0 && y1 < 0) ||
		(x0 >= c.Width && x1 >= c.Width) || (y0 >= c.Height && y1 >= c.Height) {
		return
	}
	plot := c.pen(!(c.in(x0, y0) && c.in(x1, y1)))

	dx, dy := abs(x1-x0), abs(y1-y0)
	if dx >= dy {
		if x0 > x1 {
			x0, y0, x1, y1 = x1, y1, x0, y0
		}
		walk(plot, x0, y0, dx, dy, sign(y1-y0), c.Width, c.Height)
		return
	}
	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}
	walk(func(y, x int) { plot(x, y) }, y0, x0, dy, dx, sign(x1-x0), c.Height, c.Width)
}

// walk runs Bresenham along the major axis from a0 for da steps while the
// minor axis moves db in direction sb, starting at b0. plot receives
// (major, minor) pairs. Steps outside [0, amax)×[0, bmax) are skipped
// without being walked.
//
// After k steps the minor axis has moved n(k) = ceil((2k·db - da) / 2da)
// pixels, which is what lets the walk start and stop at the clip.
func walk(plot func(a, b int), a0, b0, da, db, sb, amax, bmax int) {
	if da == 0 {
		plot(a0, b0)
		return
	}
	lo, hi := max(0, -a0), min(da, amax-1-a0)
	// Allowed range of n(k).
	nlo, nhi := -b0, bmax-1-b0
	if sb < 0 {
		nlo, nhi = b0-(bmax-1), b0
	}
	if db == 0 {
		if nlo > 0 || nhi < 0 {
			return
		}
	} else {
		if nlo > 0 {
			lo = max(lo, floorDiv(2*da*(nlo-1)+da, 2*db)+1)
		}
		hi = min(hi, floorDiv(2*da*nhi+da, 2*db))
	}
	if lo > hi {
		return
	}
	n := ceilDiv(2*lo*db-da, 2*da)
	e := 2*db*(lo+1) - da - 2*da*n
	for k := lo; k <= hi; k++ {
		plot(a0+k, b0+sb*n)
		if e > 0 {
			n++
			e -= 2 * da
		}
		e += 2 * db
	}
}

func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// DrawPoint plots a single pixel, or a disc when the pen is wider than one.
func (c *Canvas) DrawPoint(x, y int) {
	if c.LineWidth > 1 {
		c.FillCircle(x, y, c.LineWidth/2)
		return
	}
	c.pen(true)(x, y)
}

// DrawPolygon strokes the segments between consecutive vertices. The outline
// is not closed; repeat the first vertex to close it.
func (c *Canvas) DrawPolygon(poly raster.Polygon) {
	for i := 1; i < len(poly); i++ {
		c.DrawLine(poly[i-1].X, poly[i-1].Y, poly[i].X, poly[i].Y)
	}
	if len(poly) == 1 {
		c.DrawPoint(poly[0].X, poly[0].Y)
	}
}

// FillPolygon fills poly with the even-odd rule. With invert set everything
// outside the polygon is filled instead.
func (c *Canvas) FillPolygon(poly raster.Polygon, invert bool) error {
	return raster.Fill(c.Width, c.Height, poly, invert, c.Span)
}

func (c *Canvas) fillConvex(poly raster.Polygon) {
	// Convex fills only fail on allocation and capsules are tiny.
	_ = raster.FillConvex(c.Width, c.Height, poly, false, c.Span)
}

// DrawRect strokes the pixels on the border of r.
func (c *Canvas) DrawRect(r image.Rectangle) {
	r = r.Canon()
	if r.Empty() {
		return
	}
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1
	if c.LineWidth > 1 {
		c.DrawPolygon(raster.Polygon{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}, {X: x0, Y: y0}})
		return
	}
	// Disjoint strips: every border pixel is written exactly once.
	c.FillRect(image.Rect(x0, y0, x1+1, y0+1))
	if y1 > y0 {
		c.FillRect(image.Rect(x0, y1, x1+1, y1+1))
	}
	if y1-y0 < 2 {
		return
	}
	c.FillRect(image.Rect(x0, y0+1, x0+1, y1))
	if x1 > x0 {
		c.FillRect(image.Rect(x1, y0+1, x1+1, y1))
	}
}

// FillRect fills r clipped to the canvas.
func (c *Canvas) FillRect(r image.Rectangle) {
	r = r.Canon().Intersect(c.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		c.Span(r.Min.X, y, r.Dx())
	}
}
