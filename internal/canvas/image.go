package canvas

import (
	"fmt"
	"image"
	"log"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Mean averages the channels over the size×size window centred on (x, y),
// clipped to the canvas. Gray canvases report the same value in all three
// channels. n is the number of pixels averaged; it is zero when the window
// misses the canvas.
func (c *Canvas) Mean(x, y, size int) (mean [3]float64, n int) {
	size = max(size, 1)
	r := image.Rect(x-size/2, y-size/2, x-size/2+size, y-size/2+size).Intersect(c.Bounds())
	if r.Empty() {
		return mean, 0
	}
	var sum [3]int
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			i := py*c.Width + px
			if c.Gray {
				v := int(c.Pix[i])
				sum[0] += v
				sum[1] += v
				sum[2] += v
				continue
			}
			sum[0] += int(c.Pix[3*i])
			sum[1] += int(c.Pix[3*i+1])
			sum[2] += int(c.Pix[3*i+2])
		}
	}
	n = r.Dx() * r.Dy()
	for k := range mean {
		mean[k] = float64(sum[k]) / float64(n)
	}
	return mean, n
}

// Blit scales src into dst with nearest-neighbour sampling. The pen is not
// used; source pixels are stored as they are.
func (c *Canvas) Blit(src image.Image, dst image.Rectangle) {
	if src == nil || dst.Empty() {
		return
	}
	xdraw.NearestNeighbor.Scale(c, dst, src, src.Bounds(), xdraw.Src, nil)
}

// maxFaces bounds the face cache. Zooming through many sizes refills it.
const maxFaces = 32

var (
	faceOnce    sync.Once
	regularFont *opentype.Font

	facesMu sync.Mutex
	faces   = map[int]font.Face{} // keyed by quarter points
)

// Face returns a Go Regular face of the given point size, rounded to a
// quarter point. Sizes of zero or less select the built-in 7×13 bitmap face.
func Face(size float64) (font.Face, error) {
	if size <= 0 {
		return basicfont.Face7x13, nil
	}
	faceOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			log.Printf("parse font: %v", err)
			return
		}
		regularFont = f
	})
	if regularFont == nil {
		return nil, fmt.Errorf("text font not initialised")
	}
	key := max(int(math.Round(size*4)), 1)
	facesMu.Lock()
	defer facesMu.Unlock()
	if face, ok := faces[key]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(regularFont, &opentype.FaceOptions{Size: float64(key) / 4, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	if len(faces) >= maxFaces {
		clear(faces)
	}
	faces[key] = face
	return face, nil
}

// MeasureText returns the box text occupies in face and the offset of the
// baseline from its top.
func MeasureText(face font.Face, text string) (width, height, baseline int) {
	d := &font.Drawer{Face: face}
	m := face.Metrics()
	return d.MeasureString(text).Ceil(), m.Ascent.Ceil() + m.Descent.Ceil(), m.Ascent.Ceil()
}

// DrawText writes text with its top-left corner at (x, y). Glyph coverage
// is thresholded at one half, so text is aliased and honors the pen mode.
func (c *Canvas) DrawText(x, y int, text string, face font.Face) {
	w, h, baseline := MeasureText(face, text)
	if w <= 0 || h <= 0 {
		return
	}
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, baseline),
	}
	d.DrawString(text)
	plot := c.pen(true)
	for my := 0; my < h; my++ {
		for mx := 0; mx < w; mx++ {
			if mask.Pix[my*mask.Stride+mx] >= 0x80 {
				plot(x+mx, y+my)
			}
		}
	}
}

// Shadow darkens the canvas under a blurred copy of r shifted by offset.
// Drawing r's content afterwards gives it a drop shadow. opacity is clamped
// to [0, 1].
func (c *Canvas) Shadow(r image.Rectangle, radius int, offset image.Point, opacity float64) {
	r = r.Canon()
	if r.Empty() || opacity <= 0 {
		return
	}
	opacity = min(opacity, 1)
	radius = max(radius, 0)
	padded := r.Inset(-radius)
	mask := image.NewGray(padded.Sub(padded.Min))
	inner := r.Sub(padded.Min)
	for y := inner.Min.Y; y < inner.Max.Y; y++ {
		row := mask.Pix[y*mask.Stride:]
		for x := inner.Min.X; x < inner.Max.X; x++ {
			row[x] = 0xff
		}
	}
	blurred := boxBlur(mask, radius)
	origin := padded.Min.Add(offset)
	dst := blurred.Bounds().Add(origin).Intersect(c.Bounds())
	for y := dst.Min.Y; y < dst.Max.Y; y++ {
		for x := dst.Min.X; x < dst.Max.X; x++ {
			a := blurred.Pix[(y-origin.Y)*blurred.Stride+x-origin.X]
			if a == 0 {
				continue
			}
			keep := 1 - opacity*float64(a)/0xff
			i := y*c.Width + x
			if c.Gray {
				c.Pix[i] = uint8(math.Round(float64(c.Pix[i]) * keep))
				continue
			}
			for k := 0; k < 3; k++ {
				c.Pix[3*i+k] = uint8(math.Round(float64(c.Pix[3*i+k]) * keep))
			}
		}
	}
}

// boxBlur runs a separable box filter of the given radius over src, using
// running prefix sums per row and then per column.
func boxBlur(src *image.Gray, radius int) *image.Gray {
	b := src.Bounds()
	out := image.NewGray(b)
	if radius <= 0 {
		copy(out.Pix, src.Pix)
		return out
	}
	w, h := b.Dx(), b.Dy()
	tmp := image.NewGray(b)
	blur1D(w, h, radius, func(x, y int) int { return int(src.Pix[y*src.Stride+x]) },
		func(x, y int, v uint8) { tmp.Pix[y*tmp.Stride+x] = v })
	blur1D(h, w, radius, func(y, x int) int { return int(tmp.Pix[y*tmp.Stride+x]) },
		func(y, x int, v uint8) { out.Pix[y*out.Stride+x] = v })
	return out
}

// blur1D averages along the first axis of an n×lines grid.
func blur1D(n, lines, radius int, get func(i, line int) int, set func(i, line int, v uint8)) {
	prefix := make([]int, n+1)
	for l := 0; l < lines; l++ {
		for i := 0; i < n; i++ {
			prefix[i+1] = prefix[i] + get(i, l)
		}
		for i := 0; i < n; i++ {
			lo, hi := max(i-radius, 0), min(i+radius, n-1)
			set(i, l, uint8((prefix[hi+1]-prefix[lo])/(hi-lo+1)))
		}
	}
}
