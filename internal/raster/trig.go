package raster

import (
	"cmp"
	"math"
	"slices"
)

// TrigShift is the number of fractional bits in Sin and Cos results.
const TrigShift = 14

const trigOne = 1 << TrigShift

var sinTable [360]int32

func init() {
	for d := range sinTable {
		sinTable[d] = int32(math.Round(math.Sin(float64(d)*math.Pi/180) * trigOne))
	}
}

func wrapDeg(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Sin returns sin(deg°) scaled by 1<<TrigShift.
func Sin(deg int) int32 { return sinTable[wrapDeg(deg)] }

// Cos returns cos(deg°) scaled by 1<<TrigShift.
func Cos(deg int) int32 { return sinTable[wrapDeg(deg+90)] }

// ArcStep returns the angular step in degrees used to approximate an arc of
// the given radius with straight segments.
func ArcStep(radius int) int {
	switch {
	case radius >= 14:
		return 10
	case radius >= 7:
		return 20
	case radius >= 3:
		return 30
	case radius >= 1:
		return 45
	}
	return 90
}

// fix rounds a value carrying shift fractional bits to the nearest integer.
func fix(v int64, shift uint) int {
	return int((v + 1<<(shift-1)) >> shift)
}

// polar returns the point at distance r and angle deg from (cx, cy).
func polar(cx, cy, r, deg int) Point {
	return Point{
		X: cx + fix(int64(r)*int64(Cos(deg)), TrigShift),
		Y: cy + fix(int64(r)*int64(Sin(deg)), TrigShift),
	}
}

// appendUnique appends p unless it repeats the last vertex.
func appendUnique(poly Polygon, p Point) Polygon {
	if n := len(poly); n > 0 && poly[n-1] == p {
		return poly
	}
	return append(poly, p)
}

// direction returns the table angle closest to the direction of (dx, dy).
func direction(dx, dy int) int {
	if dx == 0 && dy == 0 {
		return 0
	}
	best, bestDot := 0, int64(math.MinInt64)
	for d := range sinTable {
		dot := int64(dx)*int64(Cos(d)) + int64(dy)*int64(Sin(d))
		if dot > bestDot {
			best, bestDot = d, dot
		}
	}
	return best
}

// Capsule returns the outline of a line of the given width from (x0, y0) to
// (x1, y1) with round caps. Filled, a horizontal or vertical capsule covers
// exactly width rows or columns; odd widths are centred on the end pixels.
// The result is convex and suitable for FillConvex. A zero-length line
// yields a disc.
func Capsule(x0, y0, x1, y1, width int) Polygon {
	d := max(width, 2)
	odd := int64(d & 1)
	// Offsets are computed in half pixels so odd widths keep their centre.
	at := func(x, y, deg int) Point {
		return Point{
			X: x + fix(int64(d)*int64(Cos(deg))+odd<<TrigShift, TrigShift+1),
			Y: y + fix(int64(d)*int64(Sin(deg))+odd<<TrigShift, TrigShift+1),
		}
	}
	theta := direction(x1-x0, y1-y0)
	step := ArcStep(d / 2)
	pts := make(Polygon, 0, 2*(180/step+2))
	for a := theta - 90; a < theta+90; a += step {
		pts = append(pts, at(x1, y1, a))
	}
	pts = append(pts, at(x1, y1, theta+90))
	for a := theta + 90; a < theta+270; a += step {
		pts = append(pts, at(x0, y0, a))
	}
	pts = append(pts, at(x0, y0, theta+270))
	return convexRing(pts)
}

// Ellipse approximates the arc of an ellipse centred on (cx, cy) with radii
// rx and ry, rotated by rot degrees, from angle start to angle end. Vertices
// are spaced about two degrees apart, at most 180 of them, and vertices that
// rounding pushed inside the curve are dropped. An arc spanning 360 degrees
// or more, or one with start == end, is a full ellipse: a convex ring that
// does not repeat its first vertex. A partial arc keeps both end points.
func Ellipse(cx, cy, rx, ry, rot, start, end int) Polygon {
	span := end - start
	full := FullArc(start, end)
	if !full && span < 0 {
		span += 360
	}
	cr, sr := int64(Cos(rot)), int64(Sin(rot))
	at := func(deg int) Point {
		x := int64(rx) * int64(Cos(deg))
		y := int64(ry) * int64(Sin(deg))
		return Point{
			X: cx + fix(x*cr-y*sr, 2*TrigShift),
			Y: cy + fix(x*sr+y*cr, 2*TrigShift),
		}
	}
	if full {
		poly := make(Polygon, 0, 180)
		for i := 0; i < 180; i++ {
			poly = appendUnique(poly, at(start+2*i))
		}
		return convexRing(poly)
	}
	k := min(max((span+1)/2, 1), 179)
	poly := make(Polygon, 0, k+1)
	for i := 0; i <= k; i++ {
		poly = appendUnique(poly, at(start+i*span/k))
	}
	return convexArc(poly)
}

// cross is the z component of (a-o)×(b-o). It is positive when o, a, b turn
// the same way as increasing angles in Sin and Cos.
func cross(o, a, b Point) int {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// hull returns the convex hull of pts without collinear vertices, with
// every turn positive. Fewer than three distinct or only collinear points
// give at most two vertices.
func hull(pts Polygon) Polygon {
	s := slices.Clone(pts)
	slices.SortFunc(s, func(a, b Point) int {
		if a.X != b.X {
			return cmp.Compare(a.X, b.X)
		}
		return cmp.Compare(a.Y, b.Y)
	})
	s = slices.Compact(s)
	if len(s) < 3 {
		return s
	}
	h := make(Polygon, 0, 2*len(s))
	for _, p := range s {
		for len(h) >= 2 && cross(h[len(h)-2], h[len(h)-1], p) <= 0 {
			h = h[:len(h)-1]
		}
		h = append(h, p)
	}
	lower := len(h) + 1
	for i := len(s) - 2; i >= 0; i-- {
		p := s[i]
		for len(h) >= lower && cross(h[len(h)-2], h[len(h)-1], p) <= 0 {
			h = h[:len(h)-1]
		}
		h = append(h, p)
	}
	return h[:len(h)-1]
}

// area2 returns twice the signed area of the ring poly.
func area2(poly Polygon) int {
	a := 0
	for i, p := range poly {
		q := poly[(i+1)%len(poly)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a
}

// convexRing replaces the ring pts by its hull, keeping the winding of pts
// and starting at the first vertex of pts that survives.
func convexRing(pts Polygon) Polygon {
	h := hull(pts)
	if len(h) < 3 {
		return h
	}
	if area2(pts) < 0 {
		slices.Reverse(h)
	}
	for _, p := range pts {
		if i := slices.Index(h, p); i >= 0 {
			return append(h[i:len(h):len(h)], h[:i]...)
		}
	}
	return h
}

// convexArc drops the interior vertices of an open arc that are not on the
// hull of the arc. The end points are always kept.
func convexArc(pts Polygon) Polygon {
	if len(pts) < 3 {
		return pts
	}
	h := hull(pts)
	out := Polygon{pts[0]}
	for _, p := range pts[1 : len(pts)-1] {
		if slices.Contains(h, p) {
			out = appendUnique(out, p)
		}
	}
	return appendUnique(out, pts[len(pts)-1])
}

// FullArc reports whether an arc from start to end degrees covers the whole
// ellipse, as Ellipse interprets it.
func FullArc(start, end int) bool {
	span := end - start
	return span == 0 || span >= 360 || span <= -360
}
