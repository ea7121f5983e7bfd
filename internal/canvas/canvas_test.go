package canvas

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/overpaint/internal/raster"
)

func TestDrawLineHorizontalGray(t *testing.T) {
	c := New(20, 20, true)
	c.Color = RGB(255, 255, 255)
	c.DrawLine(0, 0, 10, 0)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			want := uint8(0)
			if y == 0 && x <= 10 {
				want = 255
			}
			require.Equal(t, want, c.Pix[y*20+x], "pixel %d,%d", x, y)
		}
	}
}

func TestDrawLineOctants(t *testing.T) {
	ends := [][4]int{
		{2, 3, 17, 9}, {17, 9, 2, 3}, {2, 9, 17, 3}, {17, 3, 2, 9},
		{3, 2, 9, 17}, {9, 17, 3, 2}, {9, 2, 3, 17}, {3, 17, 9, 2},
	}
	for _, e := range ends {
		c := New(20, 20, true)
		c.DrawLine(e[0], e[1], e[2], e[3])
		require.Equal(t, uint8(255), c.Pix[e[1]*20+e[0]], "start of %v", e)
		require.Equal(t, uint8(255), c.Pix[e[3]*20+e[2]], "end of %v", e)

		major := max(abs(e[2]-e[0]), abs(e[3]-e[1])) + 1
		n := 0
		for _, v := range c.Pix {
			if v != 0 {
				n++
			}
		}
		require.Equal(t, major, n, "pixel count of %v", e)
	}
}

func TestDrawLineClipped(t *testing.T) {
	c := New(10, 10, false)
	c.DrawLine(-5, -5, -1, 20)
	require.Equal(t, make([]byte, len(c.Pix)), c.Pix)

	c.DrawLine(-5, 5, 15, 5)
	for x := 0; x < 10; x++ {
		require.Equal(t, uint8(255), c.Pix[3*(5*10+x)])
	}
}

func TestDrawLineClipMatchesUnclipped(t *testing.T) {
	for i := 0; i < 400; i++ {
		x0, y0 := -20+(i*37)%60, -20+(i*23)%60
		x1, y1 := -20+(i*11)%60, -20+(i*53)%60
		small, big := New(20, 20, true), New(60, 60, true)
		small.DrawLine(x0, y0, x1, y1)
		big.DrawLine(x0+20, y0+20, x1+20, y1+20)
		for y := 0; y < 20; y++ {
			for x := 0; x < 20; x++ {
				require.Equal(t, big.Pix[(y+20)*60+x+20], small.Pix[y*20+x], "line %d,%d-%d,%d at %d,%d", x0, y0, x1, y1, x, y)
			}
		}
	}
}

func TestDrawLineFarOffCanvas(t *testing.T) {
	c := New(20, 20, true)
	start := time.Now()
	c.DrawLine(-300000000, 5, 300000000, 6)
	c.DrawLine(7, -400000000, 8, 400000000)
	require.Less(t, time.Since(start), time.Second)

	require.Equal(t, uint8(255), c.Pix[5*20])
	require.Equal(t, uint8(0), c.Pix[6*20])
	for x := 1; x < 20; x++ {
		require.Equal(t, uint8(255), c.Pix[6*20+x], "x=%d", x)
	}
	require.Equal(t, uint8(255), c.Pix[0*20+7])
	require.Equal(t, uint8(255), c.Pix[19*20+8])
}

func TestDrawLineWidthIsExact(t *testing.T) {
	for width := 2; width <= 7; width++ {
		c := New(40, 40, true)
		c.LineWidth = width
		c.DrawLine(5, 20, 30, 20)
		thick := 0
		for y := 0; y < 40; y++ {
			if c.Pix[y*40+15] != 0 {
				thick++
			}
		}
		require.Equal(t, width, thick, "width %d", width)
	}
}

func TestDrawLineWide(t *testing.T) {
	c := New(30, 30, true)
	c.LineWidth = 6
	c.DrawLine(5, 15, 25, 15)
	for x := 5; x <= 25; x++ {
		require.Equal(t, uint8(255), c.Pix[15*30+x], "x=%d", x)
	}
	require.Equal(t, uint8(255), c.Pix[13*30+15])
	require.Equal(t, uint8(0), c.Pix[5*30+15])
}

func TestFillCircleStaysInBox(t *testing.T) {
	for _, r := range []int{0, 1, 2, 5, 13, 40} {
		size := 2*r + 5
		c := New(size, size, true)
		c.FillCircle(r+2, r+2, r)
		set := 0
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				if c.Pix[y*size+x] == 0 {
					continue
				}
				set++
				require.True(t, x >= 2 && x <= 2*r+4 && y >= 2 && y <= 2*r+4, "r=%d pixel %d,%d", r, x, y)
			}
		}
		require.NotZero(t, set)
		require.Equal(t, uint8(255), c.Pix[(r+2)*size+r+2])
	}
}

func TestFillCircleXorWritesEachPixelOnce(t *testing.T) {
	// Any row written twice would cancel itself out under xor.
	a := New(41, 41, true)
	a.FillCircle(20, 20, 15)
	b := New(41, 41, true)
	b.Mode = Xor
	b.FillCircle(20, 20, 15)
	require.True(t, a.Equal(b))
}

func TestDrawCircleXorWritesEachPixelOnce(t *testing.T) {
	for _, r := range []int{0, 1, 4, 9, 30} {
		a := New(70, 70, true)
		a.DrawCircle(35, 35, r)
		b := New(70, 70, true)
		b.Mode = Xor
		b.DrawCircle(35, 35, r)
		require.True(t, a.Equal(b), "r=%d", r)
	}
}

func TestDrawCircleClipped(t *testing.T) {
	c := New(10, 10, false)
	c.DrawCircle(0, 0, 5)
	require.Equal(t, uint8(255), c.Pix[3*5])
	require.Equal(t, uint8(255), c.Pix[3*(5*10)])
}

func TestXorTwiceRestores(t *testing.T) {
	c := New(16, 16, false)
	c.Color = RGB(10, 200, 30)
	c.FillRect(image.Rect(0, 0, 16, 16))
	before := c.Clone()

	c.Mode = Xor
	c.Color = RGB(0xff, 0x0f, 0xf0)
	poly := raster.Polygon{{X: 1, Y: 1}, {X: 14, Y: 3}, {X: 8, Y: 14}}
	require.NoError(t, c.FillPolygon(poly, false))
	require.False(t, c.Equal(before))
	require.NoError(t, c.FillPolygon(poly, false))
	require.True(t, c.Equal(before))
}

func TestDrawRectXor(t *testing.T) {
	c := New(10, 10, true)
	c.Mode = Xor
	c.DrawRect(image.Rect(2, 2, 7, 6))
	n := 0
	for _, v := range c.Pix {
		if v != 0 {
			n++
		}
	}
	// 5×4 box: 2×5 on the horizontal edges plus 2×2 on the sides.
	require.Equal(t, 14, n)
	require.Equal(t, uint8(255), c.Pix[2*10+2])
	require.Equal(t, uint8(255), c.Pix[5*10+6])
}

func TestMaskedWrite(t *testing.T) {
	c := New(2, 1, false)
	c.Color = RGB(1, 2, 3)
	c.Span(0, 0, 2)
	c.Color = Color{Keep, Ch(9), Keep}
	c.DrawPoint(1, 0)
	require.Equal(t, []byte{1, 2, 3, 1, 9, 3}, c.Pix)

	g := New(1, 1, true)
	g.Pix[0] = 100
	g.Color = Color{Ch(100), Keep, Ch(100)}
	g.DrawPoint(0, 0)
	require.Equal(t, uint8(100), g.Pix[0])
}

func TestLuma(t *testing.T) {
	require.Equal(t, uint8(0), luma(0, 0, 0))
	require.Equal(t, uint8(255), luma(255, 255, 255))
	require.Equal(t, uint8(76), luma(255, 0, 0))
	require.Equal(t, uint8(150), luma(0, 255, 0))
	require.Equal(t, uint8(29), luma(0, 0, 255))
}

func TestColorHex(t *testing.T) {
	require.Equal(t, "#0A80FF", RGB(10, 128, 255).Hex())
	require.Equal(t, "#00FF00", Color{Keep, Ch(255), Keep}.Hex())
	require.Equal(t, RGB(1, 2, 3), FromColor(color.RGBA{1, 2, 3, 255}))
}

func TestResize(t *testing.T) {
	c := New(4, 4, false)
	c.Pix[0] = 7
	require.False(t, c.Resize(4, 4))
	require.Equal(t, uint8(7), c.Pix[0])
	require.True(t, c.Resize(8, 2))
	require.Len(t, c.Pix, 8*2*3)
	require.Equal(t, 24, c.Stride())
}

func TestDrawEllipse(t *testing.T) {
	c := New(40, 40, true)
	c.DrawEllipse(20, 20, 10, 5, 0, 0, 360, true)
	require.Equal(t, uint8(255), c.Pix[20*40+20])
	require.Equal(t, uint8(0), c.Pix[10*40+20])

	pie := New(40, 40, true)
	pie.DrawEllipse(20, 20, 10, 10, 0, 0, 90, true)
	require.Equal(t, uint8(255), pie.Pix[24*40+24])
	require.Equal(t, uint8(0), pie.Pix[16*40+16])

	arc := New(40, 40, true)
	arc.DrawEllipse(20, 20, 10, 10, 0, 0, 90, false)
	require.Equal(t, uint8(255), arc.Pix[20*40+30])
	require.Equal(t, uint8(255), arc.Pix[30*40+20])
	require.Equal(t, uint8(0), arc.Pix[20*40+20])
}

func TestMean(t *testing.T) {
	c := New(4, 4, false)
	c.Color = RGB(100, 0, 200)
	c.FillRect(image.Rect(0, 0, 2, 4))
	m, n := c.Mean(2, 2, 4)
	require.Equal(t, 16, n)
	require.InDelta(t, 50, m[0], 1e-9)
	require.InDelta(t, 100, m[2], 1e-9)

	_, n = c.Mean(-10, -10, 3)
	require.Zero(t, n)
}

func TestBlitAndText(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.RGBA{255, 0, 0, 255})
	c := New(8, 8, false)
	c.Blit(src, image.Rect(0, 0, 4, 4))
	require.Equal(t, []byte{255, 0, 0}, c.Pix[0:3])
	require.Equal(t, []byte{255, 0, 0}, c.Pix[3*(1*8+1):3*(1*8+1)+3])
	require.Equal(t, []byte{0, 0, 0}, c.Pix[3*(3*8+3):3*(3*8+3)+3])

	face, err := Face(0)
	require.NoError(t, err)
	txt := New(40, 20, true)
	txt.DrawText(1, 1, "Hi", face)
	n := 0
	for _, v := range txt.Pix {
		if v != 0 {
			n++
		}
	}
	require.NotZero(t, n)

	_, err = Face(14)
	require.NoError(t, err)
}

func TestFaceCacheIsBounded(t *testing.T) {
	a, err := Face(14)
	require.NoError(t, err)
	b, err := Face(14.1)
	require.NoError(t, err)
	require.Equal(t, a, b)

	for size := 1.0; size < 200; size += 0.37 {
		_, err := Face(size)
		require.NoError(t, err)
	}
	facesMu.Lock()
	defer facesMu.Unlock()
	require.LessOrEqual(t, len(faces), maxFaces)
}

func TestShadow(t *testing.T) {
	c := New(30, 30, true)
	c.Color = RGB(200, 200, 200)
	c.FillRect(c.Bounds())
	c.Shadow(image.Rect(5, 5, 15, 15), 2, image.Pt(3, 3), 0.5)
	require.Less(t, c.Pix[12*30+12], uint8(200))
	require.Equal(t, uint8(200), c.Pix[1*30+1])
	require.Equal(t, uint8(200), c.Pix[29*30+29])
}

func TestParseColor(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Color
	}{
		{"red", RGB(255, 0, 0)},
		{"CornflowerBlue", RGB(100, 149, 237)},
		{"#0a0B0c", RGB(10, 11, 12)},
		{"#fa0", RGB(0xff, 0xaa, 0)},
		{"_,255,_", Color{Keep, Ch(255), Keep}},
		{"1, 0x10, 3", RGB(1, 16, 3)},
	} {
		got, err := ParseColor(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)

		back, err := ParseColor(got.String())
		require.NoError(t, err)
		require.Equal(t, got, back)
	}
	for _, bad := range []string{"", "nocolor", "#12345", "#gggggg", "1,2", "1,2,300"} {
		_, err := ParseColor(bad)
		require.ErrorIs(t, err, ErrBadColor, bad)
	}
}
