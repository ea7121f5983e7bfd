package raster

// Inverter turns a stream of spans into the gaps between them. Spans must
// arrive in increasing y order and increasing x order within a scanline;
// spans that step backwards are clipped against the cursor.
//
// The cursor persists across calls, so several fills can feed one Inverter
// as long as their spans stay ordered. Flush emits the final gap up to the
// end of the clip.
type Inverter struct {
	width, height int
	fn            SpanFunc
	x, y          int
}

// NewInverter returns an Inverter for a width×height clip that sends the
// complementary spans to fn.
func NewInverter(width, height int, fn SpanFunc) *Inverter {
	return &Inverter{width: width, height: height, fn: fn}
}

// Span records the span (x, y, n) and emits the gap before it.
func (v *Inverter) Span(x, y, n int) {
	if y < v.y {
		return
	}
	if y > v.height {
		y, x, n = v.height, 0, 0
	}
	for v.y < y {
		if v.x < v.width {
			v.fn(v.x, v.y, v.width-v.x)
		}
		v.y++
		v.x = 0
	}
	if y == v.height {
		return
	}
	if x > v.x {
		gap := min(x, v.width) - v.x
		if gap > 0 {
			v.fn(v.x, y, gap)
		}
	}
	v.x = max(v.x, x+n)
}

// Flush emits the gap between the last span and the end of the clip.
// After Flush the Inverter is exhausted.
func (v *Inverter) Flush() {
	v.Span(0, v.height, 0)
}

// Cursor reports the position just after the last span seen.
func (v *Inverter) Cursor() (x, y int) {
	return v.x, v.y
}
