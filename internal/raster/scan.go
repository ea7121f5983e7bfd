package raster

// Fill scan-converts poly with the even-odd rule into a width×height clip
// and hands every span to fn. When invert is true fn receives the
// complement of the polygon inside the clip instead.
//
// Polygons with fewer than three vertices, clips with a non-positive extent
// and polygons made only of horizontal edges produce no spans and no error.
func Fill(width, height int, poly Polygon, invert bool, fn SpanFunc) error {
	if invert && width > 0 && height > 0 {
		inv := NewInverter(width, height, fn)
		defer inv.Flush()
		fn = inv.Span
	}
	ok, err := checkSize(width, height, poly)
	if !ok {
		return err
	}
	et := newEdgeTable(poly)
	if len(et.edges) == 0 || et.ymax < et.ymin {
		return nil
	}
	act := &activeSet{edges: et.edges, idx: make([]int, 0, len(et.edges))}
	last := min(et.ymax, height-1)
	for y := max(et.ymin, 0); y <= last; y++ {
		act.retire(y)
		for _, i := range et.bucket(y) {
			e := &et.edges[i]
			if e.ymax < y {
				continue
			}
			// Edges starting above the clip join at their first visible row.
			e.advance(y - e.top)
			act.insert(i)
		}
		emitPairs(act, width, y, fn)
		act.step()
		act.sort()
	}
	return nil
}

// emitPairs walks the active set two edges at a time.
func emitPairs(act *activeSet, width, y int, fn SpanFunc) {
	idx := act.idx
	for k := 0; k+1 < len(idx); k += 2 {
		l, r := &act.edges[idx[k]], &act.edges[idx[k+1]]
		x0, x1 := l.minor, r.minor
		if r.top == y && r.lead > 0 {
			end := r.minor + r.lead
			if k+2 < len(idx) {
				end = min(end, act.edges[idx[k+2]].minor)
			}
			x1 = max(x1, end)
		}
		if x, n, ok := clipSpan(width, x0, x1); ok {
			fn(x, y, n)
		}
	}
}
