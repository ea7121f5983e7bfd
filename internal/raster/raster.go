// Package raster converts polygons into horizontal pixel spans.
//
// All arithmetic is integer. Edges are stepped with the X11 polygon
// Bresenham formulation, so the pixel at (x, y) is inside a polygon when
// the sample point (x, y) is on or to the right of a left edge and strictly
// to the left of a right edge. The bottom scanline of every edge is
// excluded, which makes polygons sharing a boundary tile without overlap.
package raster

import (
	"errors"
	"fmt"
)

// MaxEdges bounds the size of the edge table built for a single fill.
const MaxEdges = 1 << 20

// ErrAllocation is returned when a fill would need an edge table larger than
// MaxEdges entries.
var ErrAllocation = errors.New("raster: edge table allocation failed")

// Point is an integer vertex in device space.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

// PointF is a vertex in logical (sub-pixel) space.
type PointF struct {
	X, Y float64
}

// Polygon is an ordered list of vertices. Fills close it implicitly.
type Polygon []Point

// Bounds returns the inclusive vertex extent of p.
func (p Polygon) Bounds() (minX, minY, maxX, maxY int) {
	if len(p) == 0 {
		return 0, 0, -1, -1
	}
	minX, minY, maxX, maxY = p[0].X, p[0].Y, p[0].X, p[0].Y
	for _, v := range p[1:] {
		minX = min(minX, v.X)
		maxX = max(maxX, v.X)
		minY = min(minY, v.Y)
		maxY = max(maxY, v.Y)
	}
	return
}

// Span is a horizontal run of N pixels starting at (X, Y).
type Span struct {
	X, Y, N int
}

// SpanFunc receives spans in increasing y order and, within a scanline, in
// increasing x order. Spans never overlap and are always inside the clip.
type SpanFunc func(x, y, n int)

// clipSpan clamps [x0, x1) to [0, width). ok is false for an empty result.
func clipSpan(width, x0, x1 int) (x, n int, ok bool) {
	if x0 < 0 {
		x0 = 0
	}
	if x1 > width {
		x1 = width
	}
	if x1 <= x0 {
		return 0, 0, false
	}
	return x0, x1 - x0, true
}

func checkSize(width, height int, poly Polygon) (bool, error) {
	if width <= 0 || height <= 0 || len(poly) < 3 {
		return false, nil
	}
	if len(poly) > MaxEdges {
		return false, fmt.Errorf("%w: %d edges", ErrAllocation, len(poly))
	}
	return true, nil
}

// bres is the incremental state of one polygon edge: minor is the x
// coordinate on the current scanline, d the decision variable, m and m1 the
// integer slope and slope plus or minus one, incr1 and incr2 the decision
// updates for the two step sizes.
type bres struct {
	minor        int
	d            int
	m, m1        int
	incr1, incr2 int
}

// newBres prepares to walk from x1 to x2 across dy scanlines.
func newBres(dy, x1, x2 int) bres {
	b := bres{minor: x1}
	if dy == 0 {
		return b
	}
	dx := x2 - x1
	b.m = dx / dy
	if dx < 0 {
		b.m1 = b.m - 1
		b.incr1 = -2*dx + 2*dy*b.m1
		b.incr2 = -2*dx + 2*dy*b.m
		b.d = 2*b.m*dy - 2*dx - 2*dy
	} else {
		b.m1 = b.m + 1
		b.incr1 = 2*dx - 2*dy*b.m1
		b.incr2 = 2*dx - 2*dy*b.m
		b.d = -2*b.m*dy + 2*dx
	}
	return b
}

// advance moves k scanlines at once. It leaves b exactly as k calls to
// step would.
func (b *bres) advance(k int) {
	dy := (b.incr2 - b.incr1) / 2
	if k <= 0 || dy <= 0 {
		return
	}
	if b.m1 > 0 {
		// minor carries ceil((q + k*r) / dy) extra pixels.
		r := b.incr2 / 2
		q := b.d/2 - r
		c := ceilDiv(q+k*r, dy)
		b.minor += k*b.m + c
		b.d += 2*k*r - 2*dy*c
		return
	}
	s := b.incr2 / 2
	q := b.d/2 - s + dy
	c := (q + k*s) / dy
	b.minor += k*b.m - c
	b.d += 2*k*s - 2*dy*c
}

// ceilDiv divides rounding towards positive infinity. b must be positive.
func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}

// step advances to the next scanline.
func (b *bres) step() {
	if b.m1 > 0 {
		if b.d > 0 {
			b.minor += b.m1
			b.d += b.incr1
		} else {
			b.minor += b.m
			b.d += b.incr2
		}
		return
	}
	if b.d >= 0 {
		b.minor += b.m1
		b.d += b.incr1
	} else {
		b.minor += b.m
		b.d += b.incr2
	}
}
