package raster

// FillConvex scan-converts a convex, non-self-intersecting polygon. It
// walks the left and right boundary chains from the topmost vertex at the
// same time, so it needs no edge table. For convex input it produces the
// same pixels as Fill.
//
// Non-convex input is detected when one chain would have to climb back up;
// the fill then stops and returns nil, keeping the spans already emitted.
func FillConvex(width, height int, poly Polygon, invert bool, fn SpanFunc) error {
	if invert && width > 0 && height > 0 {
		inv := NewInverter(width, height, fn)
		defer inv.Flush()
		fn = inv.Span
	}
	ok, err := checkSize(width, height, poly)
	if !ok {
		return err
	}
	n := len(poly)
	imin := 0
	ymin, ymax := poly[0].Y, poly[0].Y
	for i, p := range poly {
		if p.Y < ymin {
			ymin = p.Y
			imin = i
		}
		ymax = max(ymax, p.Y)
	}
	if ymin == ymax {
		return nil
	}

	var l, r bres
	nextl, nextr := imin, imin
	y := ymin
	for y != ymax && y < height {
		for poly[nextl].Y == y {
			cur := nextl
			nextl = (nextl + 1) % n
			l = newBres(poly[nextl].Y-poly[cur].Y, poly[cur].X, poly[nextl].X)
		}
		for poly[nextr].Y == y {
			cur := nextr
			nextr = (nextr - 1 + n) % n
			r = newBres(poly[nextr].Y-poly[cur].Y, poly[cur].X, poly[nextr].X)
		}
		rows := min(poly[nextl].Y, poly[nextr].Y) - y
		if rows < 0 {
			return nil
		}
		if y < 0 {
			skip := min(rows, -y)
			l.advance(skip)
			r.advance(skip)
			y += skip
			rows -= skip
		}
		rows = min(rows, height-y)
		for ; rows > 0; rows-- {
			x0, x1 := l.minor, r.minor
			if x1 < x0 {
				x0, x1 = x1, x0
			}
			if x, w, ok := clipSpan(width, x0, x1); ok {
				fn(x, y, w)
			}
			y++
			l.step()
			r.step()
		}
	}
	return nil
}
