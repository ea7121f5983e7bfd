package raster

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type grid struct {
	w, h  int
	count []int
}

func newGrid(w, h int) *grid {
	return &grid{w: w, h: h, count: make([]int, w*h)}
}

func (g *grid) span(t *testing.T) SpanFunc {
	return func(x, y, n int) {
		require.True(t, n > 0, "empty span at %d,%d", x, y)
		require.True(t, x >= 0 && x+n <= g.w && y >= 0 && y < g.h, "span %d,%d+%d outside clip", x, y, n)
		for i := x; i < x+n; i++ {
			g.count[y*g.w+i]++
		}
	}
}

func (g *grid) set() int {
	n := 0
	for _, c := range g.count {
		if c > 0 {
			n++
		}
	}
	return n
}

func TestFillGoldenTriangle(t *testing.T) {
	g := newGrid(20, 20)
	err := Fill(20, 20, Polygon{{0, 0}, {10, 0}, {5, 10}}, false, g.span(t))
	require.NoError(t, err)
	require.Equal(t, 55, g.set())

	// Rows shrink by one pixel per scanline and the apex row is excluded.
	require.Equal(t, 1, g.count[0])
	require.Equal(t, 0, g.count[10])
	require.Equal(t, 0, g.count[10*20+5])
}

func TestFillRectangleExcludesBottomAndRight(t *testing.T) {
	g := newGrid(10, 10)
	err := Fill(10, 10, Polygon{{2, 2}, {6, 2}, {6, 5}, {2, 5}}, false, g.span(t))
	require.NoError(t, err)
	require.Equal(t, 12, g.set())
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			want := 0
			if x >= 2 && x < 6 && y >= 2 && y < 5 {
				want = 1
			}
			require.Equal(t, want, g.count[y*10+x], "pixel %d,%d", x, y)
		}
	}
}

var convexCases = map[string]Polygon{
	"triangle":  {{0, 0}, {10, 0}, {5, 10}},
	"rectangle": {{1, 1}, {17, 1}, {17, 9}, {1, 9}},
	"diamond":   {{10, 0}, {19, 10}, {10, 19}, {0, 10}},
	"hexagon":   {{6, 1}, {13, 1}, {18, 8}, {13, 16}, {6, 16}, {2, 8}},
	"sliver":    {{0, 0}, {19, 3}, {2, 18}},
	"reversed":  {{2, 8}, {6, 16}, {13, 16}, {18, 8}, {13, 1}, {6, 1}},
}

func TestFillConvexMatchesFill(t *testing.T) {
	for name, poly := range convexCases {
		t.Run(name, func(t *testing.T) {
			general, convex := newGrid(20, 20), newGrid(20, 20)
			require.NoError(t, Fill(20, 20, poly, false, general.span(t)))
			require.NoError(t, FillConvex(20, 20, poly, false, convex.span(t)))
			require.Equal(t, general.count, convex.count)
			require.NotZero(t, general.set())
		})
	}
}

func TestFillPartition(t *testing.T) {
	cases := map[string]Polygon{
		"triangle": {{0, 0}, {10, 0}, {5, 10}},
		"concave":  {{1, 1}, {18, 1}, {18, 18}, {10, 6}, {1, 18}},
		"star":     {{10, 0}, {13, 18}, {0, 6}, {19, 6}, {6, 18}},
		"clipped":  {{-5, -5}, {25, 3}, {8, 30}},
		"notch":    {{0, 0}, {2, 0}, {2, 5}, {6, 5}, {6, 0}, {8, 0}, {8, 10}, {0, 10}},
	}
	for name, poly := range cases {
		t.Run(name, func(t *testing.T) {
			g := newGrid(20, 20)
			require.NoError(t, Fill(20, 20, poly, false, g.span(t)))
			require.NoError(t, Fill(20, 20, poly, true, g.span(t)))
			for i, c := range g.count {
				require.Equal(t, 1, c, "pixel %d,%d", i%20, i/20)
			}
		})
	}
}

func TestFillConvexInvertPartition(t *testing.T) {
	poly := convexCases["hexagon"]
	g := newGrid(20, 20)
	require.NoError(t, FillConvex(20, 20, poly, false, g.span(t)))
	require.NoError(t, FillConvex(20, 20, poly, true, g.span(t)))
	for i, c := range g.count {
		require.Equal(t, 1, c, "pixel %d,%d", i%20, i/20)
	}
}

func TestFillDegenerate(t *testing.T) {
	called := 0
	fn := func(x, y, n int) { called++ }
	require.NoError(t, Fill(10, 10, Polygon{{0, 0}, {5, 5}}, false, fn))
	require.NoError(t, Fill(0, 10, Polygon{{0, 0}, {5, 0}, {5, 5}}, false, fn))
	require.NoError(t, Fill(10, -1, Polygon{{0, 0}, {5, 0}, {5, 5}}, false, fn))
	require.NoError(t, Fill(10, 10, Polygon{{0, 3}, {5, 3}, {9, 3}}, false, fn))
	require.NoError(t, FillConvex(10, 10, Polygon{{0, 3}, {5, 3}, {9, 3}}, false, fn))
	require.NoError(t, FillConvex(10, 10, nil, false, fn))
	require.Zero(t, called)
}

func TestFillDegenerateInvertCoversClip(t *testing.T) {
	g := newGrid(4, 3)
	require.NoError(t, Fill(4, 3, Polygon{{0, 0}, {1, 1}}, true, g.span(t)))
	require.Equal(t, 12, g.set())
}

func TestFillAllocation(t *testing.T) {
	poly := make(Polygon, MaxEdges+1)
	for i := range poly {
		poly[i] = Pt(i%7, i%5)
	}
	err := Fill(10, 10, poly, false, func(x, y, n int) {})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrAllocation))

	err = FillConvex(10, 10, poly, false, func(x, y, n int) {})
	require.ErrorIs(t, err, ErrAllocation)
}

func TestFillConvexTruncatesNonConvex(t *testing.T) {
	// A zig-zag whose chains climb back up: the fill stops without error.
	poly := Polygon{{0, 0}, {10, 8}, {19, 2}, {12, 19}, {3, 12}, {8, 6}}
	g := newGrid(20, 20)
	require.NoError(t, FillConvex(20, 20, poly, false, g.span(t)))
	for _, c := range g.count {
		require.LessOrEqual(t, c, 1)
	}
}

func TestActiveSetSort(t *testing.T) {
	a := &activeSet{edges: []edge{
		{bres: bres{minor: 3}},
		{bres: bres{minor: 1}},
		{bres: bres{minor: 2}},
	}}
	a.idx = []int{0, 1, 2}
	require.Equal(t, 2, a.sort())
	require.Equal(t, []int{1, 2, 0}, a.idx)
	require.Zero(t, a.sort())

	a.insert(0)
	require.Equal(t, []int{1, 2, 0, 0}, a.idx)
}

func TestActiveSetRetire(t *testing.T) {
	a := &activeSet{edges: []edge{{ymax: 4}, {ymax: 2}, {ymax: 9}}}
	a.idx = []int{0, 1, 2}
	a.retire(3)
	require.Equal(t, []int{0, 2}, a.idx)
}

func TestBresMatchesCeiling(t *testing.T) {
	for _, c := range []struct{ x1, x2, dy int }{
		{0, 5, 10}, {10, 5, 10}, {0, 17, 3}, {17, 0, 3}, {4, 4, 6}, {-3, 8, 7},
	} {
		b := newBres(c.dy, c.x1, c.x2)
		for y := 0; y < c.dy; y++ {
			num := c.x1*c.dy + (c.x2-c.x1)*y
			want := num / c.dy
			if num%c.dy != 0 && num > 0 {
				want++
			}
			require.Equal(t, want, b.minor, "%+v at row %d", c, y)
			b.step()
		}
	}
}

func TestInverter(t *testing.T) {
	var got []Span
	inv := NewInverter(10, 2, func(x, y, n int) { got = append(got, Span{x, y, n}) })
	inv.Span(2, 0, 3)
	inv.Span(5, 0, 1)
	inv.Flush()
	require.Equal(t, []Span{{0, 0, 2}, {6, 0, 4}, {0, 1, 10}}, got)
}

func TestTrigTable(t *testing.T) {
	require.EqualValues(t, 1<<TrigShift, Sin(90))
	require.EqualValues(t, 1<<TrigShift, Cos(0))
	require.EqualValues(t, -(1 << TrigShift), Sin(-90))
	require.Equal(t, Sin(30), Sin(390))
	require.Equal(t, Cos(45), Sin(45))
	require.Zero(t, Sin(180))
}

func TestArcStep(t *testing.T) {
	for r, want := range map[int]int{0: 90, 1: 45, 2: 45, 3: 30, 6: 30, 7: 20, 13: 20, 14: 10, 100: 10} {
		require.Equal(t, want, ArcStep(r), "radius %d", r)
	}
}

func TestCapsule(t *testing.T) {
	poly := Capsule(3, 10, 16, 10, 6)
	minX, minY, maxX, maxY := poly.Bounds()
	require.Equal(t, 0, minX)
	require.Equal(t, 19, maxX)
	require.Equal(t, 7, minY)
	require.Equal(t, 13, maxY)

	g := newGrid(20, 20)
	require.NoError(t, FillConvex(20, 20, poly, false, g.span(t)))
	for x := 3; x <= 16; x++ {
		require.Equal(t, 1, g.count[10*20+x], "x=%d", x)
	}
}

func TestEllipse(t *testing.T) {
	full := Ellipse(50, 50, 40, 20, 0, 0, 360)
	require.LessOrEqual(t, len(full), 180)
	require.Equal(t, 90, full[0].X)
	minX, minY, maxX, maxY := full.Bounds()
	require.Equal(t, []int{10, 30, 90, 70}, []int{minX, minY, maxX, maxY})

	arc := Ellipse(0, 0, 10, 10, 0, 0, 90)
	require.Equal(t, Pt(10, 0), arc[0])
	require.Equal(t, Pt(0, 10), arc[len(arc)-1])
	require.LessOrEqual(t, len(arc), 180)

	rot := Ellipse(0, 0, 10, 5, 90, 0, 360)
	require.Equal(t, 10, rot[0].Y)
	minX, minY, maxX, maxY = rot.Bounds()
	require.Equal(t, []int{-5, -10, 5, 10}, []int{minX, minY, maxX, maxY})

	require.LessOrEqual(t, len(Ellipse(0, 0, 100, 100, 0, 10, 369)), 180)
}

func requireConvex(t *testing.T, poly Polygon, msg string) {
	t.Helper()
	n := len(poly)
	require.GreaterOrEqual(t, n, 3, msg)
	for i := range poly {
		require.Positive(t, cross(poly[i], poly[(i+1)%n], poly[(i+2)%n]), "%s: turn at %v", msg, poly[(i+1)%n])
	}
}

func TestGeneratedShapesFillAlike(t *testing.T) {
	radii := []int{1, 2, 3, 5, 8, 13, 21, 34, 45}
	for _, rx := range radii {
		for _, ry := range radii {
			for rot := 0; rot < 180; rot += 15 {
				poly := Ellipse(50, 50, rx, ry, rot, 0, 360)
				name := fmt.Sprintf("ellipse %d %d %d", rx, ry, rot)
				requireConvex(t, poly, name)
				general, convex := newGrid(100, 100), newGrid(100, 100)
				require.NoError(t, Fill(100, 100, poly, false, general.span(t)))
				require.NoError(t, FillConvex(100, 100, poly, false, convex.span(t)))
				require.Equal(t, general.count, convex.count, name)
			}
		}
	}

	for i := 0; i < 200; i++ {
		x0, y0 := 20+(i*7)%60, 20+(i*13)%60
		x1, y1 := 20+(i*29)%60, 20+(i*11)%60
		width := 2 + i%8
		poly := Capsule(x0, y0, x1, y1, width)
		name := fmt.Sprintf("capsule %d,%d-%d,%d width %d", x0, y0, x1, y1, width)
		requireConvex(t, poly, name)
		general, convex := newGrid(100, 100), newGrid(100, 100)
		require.NoError(t, Fill(100, 100, poly, false, general.span(t)))
		require.NoError(t, FillConvex(100, 100, poly, false, convex.span(t)))
		require.Equal(t, general.count, convex.count, name)
	}
}

func TestCapsuleCoversWidth(t *testing.T) {
	for width := 2; width <= 9; width++ {
		for _, dir := range [][4]int{{10, 20, 30, 20}, {20, 10, 20, 30}} {
			g := newGrid(40, 40)
			require.NoError(t, FillConvex(40, 40, Capsule(dir[0], dir[1], dir[2], dir[3], width), false, g.span(t)))
			across := 0
			for i := 0; i < 40; i++ {
				idx := i*40 + 20 // column 20 of a horizontal line
				if dir[0] == dir[2] {
					idx = 20*40 + i // row 20 of a vertical line
				}
				across += g.count[idx]
			}
			require.Equal(t, width, across, "width %d along %v", width, dir)
		}
	}
}

func TestEllipseArcKeepsEnds(t *testing.T) {
	for rot := 0; rot < 360; rot += 30 {
		arc := Ellipse(40, 40, 3, 30, rot, 10, 300)
		// A one degree arc is too short to lose vertices.
		require.Equal(t, Ellipse(40, 40, 3, 30, rot, 10, 11)[0], arc[0], "rot %d", rot)
		require.Equal(t, Ellipse(40, 40, 3, 30, rot, 300, 301)[0], arc[len(arc)-1], "rot %d", rot)
	}
}

func TestBresAdvanceMatchesStep(t *testing.T) {
	for _, c := range []struct{ x1, x2, dy int }{
		{0, 5, 10}, {10, 5, 10}, {0, 17, 3}, {17, 0, 3}, {4, 4, 6}, {-3, 8, 7}, {0, -40, 9}, {5, 6, 13},
	} {
		for from := 0; from <= c.dy; from++ {
			for k := 0; from+k <= c.dy; k++ {
				stepped := newBres(c.dy, c.x1, c.x2)
				for i := 0; i < from; i++ {
					stepped.step()
				}
				jumped := stepped
				jumped.advance(k)
				for i := 0; i < k; i++ {
					stepped.step()
				}
				require.Equal(t, stepped, jumped, "%+v from %d by %d", c, from, k)
			}
		}
	}
}

func TestFillAboveClip(t *testing.T) {
	// Rows that start above the clip match the same rows of a taller clip.
	polys := []Polygon{
		{{0, -500}, {19, 10}, {0, 19}},
		{{3, -37}, {17, -5}, {15, 12}, {2, 16}},
		{{10, -90}, {13, 18}, {0, -4}, {19, -4}, {6, 18}},
	}
	for _, poly := range polys {
		shifted := make(Polygon, len(poly))
		for i, p := range poly {
			shifted[i] = Pt(p.X, p.Y+600)
		}
		for name, fill := range map[string]func(int, int, Polygon, bool, SpanFunc) error{"Fill": Fill, "FillConvex": FillConvex} {
			if name == "FillConvex" && len(poly) == 5 {
				continue
			}
			clipped, tall := newGrid(20, 20), newGrid(20, 620)
			require.NoError(t, fill(20, 20, poly, false, clipped.span(t)))
			require.NoError(t, fill(20, 620, shifted, false, tall.span(t)))
			require.Equal(t, tall.count[600*20:], clipped.count, "%s %v", name, poly)
			require.NotZero(t, clipped.set())
		}
	}
}

func TestFillFarAboveClipIsQuick(t *testing.T) {
	poly := Polygon{{0, -200000000}, {10, 5}, {0, 10}}
	start := time.Now()
	general, convex := newGrid(20, 20), newGrid(20, 20)
	require.NoError(t, Fill(20, 20, poly, false, general.span(t)))
	require.NoError(t, FillConvex(20, 20, poly, false, convex.span(t)))
	require.Less(t, time.Since(start), time.Second)
	require.Equal(t, general.count, convex.count)
	require.NotZero(t, general.count[5*20])
}

func TestHorizontalRunsAtVertices(t *testing.T) {
	// A run leaving the top of a right edge is drawn on that edge's first
	// row. A run at the bottom of a right edge belongs to the row below,
	// which the next edge already covers, so the row above is not widened.
	g := newGrid(20, 20)
	require.NoError(t, Fill(20, 20, Polygon{{0, 0}, {9, 0}, {9, 10}, {5, 10}, {5, 20}, {0, 20}}, false, g.span(t)))
	for x := 0; x < 9; x++ {
		require.Equal(t, 1, g.count[10*20+x], "leading run x=%d", x)
	}
	require.Zero(t, g.count[11*20+5])

	g = newGrid(20, 20)
	require.NoError(t, Fill(20, 20, Polygon{{0, 0}, {5, 0}, {5, 10}, {9, 10}, {9, 20}, {0, 20}}, false, g.span(t)))
	for x := 5; x < 9; x++ {
		require.Zero(t, g.count[9*20+x], "row above trailing run x=%d", x)
		require.Equal(t, 1, g.count[10*20+x], "trailing run x=%d", x)
	}
}
