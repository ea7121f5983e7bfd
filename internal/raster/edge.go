package raster

import "sort"

// edge is one non-horizontal polygon edge. Edges live in an arena owned by
// the edge table and are referred to by index.
type edge struct {
	bres
	top  int // first scanline
	ymax int // last scanline, bottom.Y-1
	// lead is the rightward reach of the horizontal run touching the top
	// vertex. A run touching the bottom vertex lies on the excluded row and
	// is covered by the edges that start there.
	lead int
}

// edgeTable holds every edge of one polygon, bucketed by top scanline.
// order lists arena indices sorted by (top, minor); next is the cursor of
// the first bucket not yet moved into the active set.
type edgeTable struct {
	edges []edge
	order []int
	next  int
	ymin  int
	ymax  int
}

func newEdgeTable(poly Polygon) *edgeTable {
	n := len(poly)
	et := &edgeTable{edges: make([]edge, 0, n)}
	first := true
	for i := 0; i < n; i++ {
		a, b := i, (i+1)%n
		if poly[a].Y == poly[b].Y {
			continue
		}
		topIdx, botIdx := a, b
		if poly[a].Y > poly[b].Y {
			topIdx, botIdx = b, a
		}
		top, bot := poly[topIdx], poly[botIdx]
		e := edge{
			bres: newBres(bot.Y-top.Y, top.X, bot.X),
			top:  top.Y,
			ymax: bot.Y - 1,
			lead: runExtent(poly, topIdx),
		}
		if first || e.top < et.ymin {
			et.ymin = e.top
		}
		if first || e.ymax > et.ymax {
			et.ymax = e.ymax
		}
		first = false
		et.edges = append(et.edges, e)
	}
	et.order = make([]int, len(et.edges))
	for i := range et.order {
		et.order[i] = i
	}
	sort.SliceStable(et.order, func(i, j int) bool {
		ei, ej := &et.edges[et.order[i]], &et.edges[et.order[j]]
		if ei.top != ej.top {
			return ei.top < ej.top
		}
		return ei.minor < ej.minor
	})
	return et
}

// runExtent returns how far right of poly[i] the maximal horizontal run
// through poly[i] reaches, or zero when there is no such run.
func runExtent(poly Polygon, i int) int {
	n := len(poly)
	y := poly[i].Y
	maxX := poly[i].X
	for k, j := 0, i; k < n; k++ {
		nj := (j + 1) % n
		if poly[nj].Y != y {
			break
		}
		maxX = max(maxX, poly[nj].X)
		j = nj
	}
	for k, j := 0, i; k < n; k++ {
		pj := (j - 1 + n) % n
		if poly[pj].Y != y {
			break
		}
		maxX = max(maxX, poly[pj].X)
		j = pj
	}
	return maxX - poly[i].X
}

// bucket returns the edges whose top scanline is y, advancing the cursor.
func (et *edgeTable) bucket(y int) []int {
	start := et.next
	for et.next < len(et.order) && et.edges[et.order[et.next]].top <= y {
		et.next++
	}
	return et.order[start:et.next]
}

// activeSet is the active edge table: arena indices sorted by minor.
type activeSet struct {
	edges []edge
	idx   []int
}

func (a *activeSet) less(i, j int) bool {
	return a.edges[i].minor < a.edges[j].minor
}

// insert adds edge i keeping the set sorted.
func (a *activeSet) insert(i int) {
	pos := len(a.idx)
	for pos > 0 && a.less(i, a.idx[pos-1]) {
		pos--
	}
	a.idx = append(a.idx, 0)
	copy(a.idx[pos+1:], a.idx[pos:])
	a.idx[pos] = i
}

// retire drops every edge whose last scanline is above y.
func (a *activeSet) retire(y int) {
	kept := a.idx[:0]
	for _, i := range a.idx {
		if a.edges[i].ymax >= y {
			kept = append(kept, i)
		}
	}
	a.idx = kept
}

// step advances every active edge to the next scanline.
func (a *activeSet) step() {
	for _, i := range a.idx {
		a.edges[i].step()
	}
}

// sort restores minor order with an insertion sort and reports the number
// of swaps. Neighbouring scanlines rarely reorder more than a pair.
func (a *activeSet) sort() int {
	swaps := 0
	for k := 1; k < len(a.idx); k++ {
		for j := k; j > 0 && a.less(a.idx[j], a.idx[j-1]); j-- {
			a.idx[j], a.idx[j-1] = a.idx[j-1], a.idx[j]
			swaps++
		}
	}
	return swaps
}
