package scene

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/example/overpaint/internal/canvas"
	"github.com/example/overpaint/internal/raster"
	"github.com/example/overpaint/internal/render"
)

const sample = `
# a comment
// another
size 64 48
background navy
set polygon.vertices true

line 0 0 10 0 color=red width=3
polygon 0 0 10 0 5 10 fill xor
ellipse 30 20 10 5 rot=30 start=0 end=270 fill
text 4 4 "two  words" size=14 color=_,255,_
circle 32 24 -3
clear
point 1 2 size=3 color=accent transient
polyline 0 0 5 5 10 0
rect 1 1 8 6 invert
`

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(sample), WithPalette(map[string]canvas.Color{"accent": canvas.RGB(1, 2, 3)}))
	require.NoError(t, err)
	require.Equal(t, 64, s.Width)
	require.Equal(t, 48, s.Height)
	require.Equal(t, canvas.RGB(0, 0, 128), *s.Background)
	require.Equal(t, map[string]string{"polygon.vertices": "true"}, s.Options)
	require.Len(t, s.Commands, 9)

	require.Equal(t, Command{
		Line:    8,
		Tag:     render.TagLine,
		Payload: render.Line{X0: 0, Y0: 0, X1: 10, Y1: 0, Width: 3, Color: canvas.RGB(255, 0, 0)},
	}, s.Commands[0])

	poly := s.Commands[1]
	require.Equal(t, render.ModeFill|render.ModeXor, poly.Mode)
	require.Equal(t, []raster.PointF{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 10}}, poly.Payload.(render.Polygon).Points)

	require.Equal(t, render.Ellipse{X: 30, Y: 20, RX: 10, RY: 5, Rot: 30, End: 270, Color: canvas.RGB(255, 255, 255)}, s.Commands[2].Payload)

	text := s.Commands[3].Payload.(render.Text)
	require.Equal(t, "two  words", text.Text)
	require.Equal(t, 14.0, text.Size)
	require.Equal(t, canvas.Color{canvas.Keep, canvas.Ch(255), canvas.Keep}, text.Color)

	require.Equal(t, -3.0, s.Commands[4].Payload.(render.Circle).R)
	require.True(t, s.Commands[5].Reset)

	pt := s.Commands[6]
	require.True(t, pt.Transient)
	require.Equal(t, render.Point{X: 1, Y: 2, Size: 3, Color: canvas.RGB(1, 2, 3)}, pt.Payload)

	require.Equal(t, render.ModeInvert, s.Commands[8].Mode)
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		in, msg string
	}{
		{"line 0 0 10", "line 1: scene syntax error: want 4 numbers, got 3"},
		{"\npolygon 0 0 1", "line 2: scene syntax error: odd number of coordinates"},
		{"squiggle 1 2", `unknown command "squiggle"`},
		{"line 0 0 1 1 color=nocolor", "invalid color"},
		{"text 1 1", "text without a label"},
		{`text 1 1 "open`, "unterminated string"},
		{"circle 1 1 2 bogus", `unexpected "bogus"`},
		{"size 0 10", "size must be positive"},
		{"size 1e12 1e12", "size is limited to 16384"},
		{"line 0 0 1 1 width=wide", "width"},
		{"image 0 0 4 4 missing.png", "no file system"},
	} {
		_, err := Parse(strings.NewReader(tc.in))
		require.Error(t, err, tc.in)
		require.Contains(t, err.Error(), tc.msg, tc.in)
	}
}

func TestImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	fsys := fstest.MapFS{
		"dot.png":        {Data: buf.Bytes()},
		"dir/spaced.png": {Data: buf.Bytes()},
		"bad.png":        {Data: []byte("not a png")},
	}

	s, err := Parse(strings.NewReader("image 1 1 4 4 dot.png shadow\nimage 0 0 0 0 src=\"dir/spaced.png\""), WithFS(fsys))
	require.NoError(t, err)
	require.Len(t, s.Commands, 2)
	img := s.Commands[0].Payload.(render.Image)
	require.True(t, img.Shadow)
	require.Equal(t, image.Rect(0, 0, 2, 2), img.Image.Bounds())

	_, err = Parse(strings.NewReader("image 0 0 2 2 bad.png"), WithFS(fsys))
	require.ErrorContains(t, err, "image bad.png")
	_, err = Parse(strings.NewReader("image 0 0 2 2 gone.png"), WithFS(fsys))
	require.ErrorContains(t, err, "image gone.png")
}

func TestApply(t *testing.T) {
	s, err := Parse(strings.NewReader(sample), WithPalette(map[string]canvas.Color{"accent": canvas.RGB(1, 2, 3)}))
	require.NoError(t, err)

	r := render.NewRegistry(nil)
	render.RegisterBuiltins(r)
	w, h := s.Size(10, 10)
	d := render.NewDisplay(r, w, h, false, render.WithBackground(*s.Background))
	require.NoError(t, r.Options().Apply(s.Options))
	require.NoError(t, s.Apply(d))

	// clear drops the first five primitives and the point is transient.
	require.Equal(t, 2, d.Len())
	before := d.Snapshot()
	d.Redraw()
	require.NotEqual(t, before.Pix, d.Snapshot().Pix)

	// Outside the inverted rect the canvas is white; inside it is navy.
	snap := d.Snapshot()
	require.Equal(t, []byte{255, 255, 255}, snap.Pix[3*(40*64+40):3*(40*64+40)+3])
	require.Equal(t, []byte{0, 0, 128}, snap.Pix[3*(2*64+6):3*(2*64+6)+3])
}

func TestApplyReportsLine(t *testing.T) {
	s := &Scene{Commands: []Command{{Line: 7, Tag: 999}}}
	r := render.NewRegistry(nil)
	d := render.NewDisplay(r, 4, 4, true)
	err := s.Apply(d)
	require.ErrorIs(t, err, render.ErrUnknownTag)
	require.ErrorContains(t, err, "line 7")
	w, h := s.Size(7, 3)
	require.Equal(t, 7, w)
	require.Equal(t, 3, h)
}
