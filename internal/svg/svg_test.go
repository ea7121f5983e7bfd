package svg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"image"
	"image/color"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/overpaint/internal/canvas"
	"github.com/example/overpaint/internal/raster"
	"github.com/example/overpaint/internal/render"
)

func TestElements(t *testing.T) {
	w := NewWriter(0)
	w.Line(0.5, 0.5, 10.5, 0.5, "#FFFFFF", 1)
	w.Polyline([]raster.PointF{{X: 1, Y: 2}, {X: 3.25, Y: 4}}, "#FF0000", 2)
	w.Polyline(nil, "#FF0000", 2)
	w.Rect(1, 2, 3, 4, "#00FF00")
	w.FilledCircle(5, 5, 2.5, "#0000FF")
	w.Path("M0 0 L1 0 L0 1 Z", "#010203")
	w.Text(1, 12, 13, `a<b & "c"`, "#FFFFFF")

	got := strings.Split(strings.TrimSpace(string(w.Bytes())), "\n")
	require.Equal(t, []string{
		`<line x1="0.5" y1="0.5" x2="10.5" y2="0.5" stroke="#FFFFFF" stroke-width="1" stroke-linecap="square"/>`,
		`<polyline points="1,2 3.25,4" fill="none" stroke="#FF0000" stroke-width="2" stroke-linecap="square" stroke-linejoin="miter"/>`,
		`<rect x="1" y="2" width="3" height="4" fill="none" stroke="#00FF00" stroke-width="1"/>`,
		`<circle cx="5" cy="5" r="2.5" fill="#0000FF"/>`,
		`<path d="M0 0 L1 0 L0 1 Z" fill="#010203" fill-rule="evenodd"/>`,
		`<text x="1" y="12" font-family="Go, sans-serif" font-size="13" fill="#FFFFFF" xml:space="preserve">a&lt;b &amp; &#34;c&#34;</text>`,
	}, got)
}

func TestDocumentIsWellFormed(t *testing.T) {
	r := render.NewRegistry(nil)
	render.RegisterBuiltins(r)
	d := render.NewDisplay(r, 32, 32, false, render.WithExportZoom(2))
	white := canvas.RGB(255, 255, 255)

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	require.NoError(t, d.Render(render.TagLine, render.Line{X0: 0, Y0: 0, X1: 10, Y1: 0, Color: white}))
	require.NoError(t, d.Render(render.TagText, render.Text{X: 2, Y: 4, Text: "label", Color: white}))
	require.NoError(t, d.Render(render.TagImage, render.Image{X: 20, Y: 20, Image: img}))
	require.NoError(t, d.Render(render.TagPolygon, render.Polygon{
		Points: []raster.PointF{{X: 1, Y: 1}, {X: 8, Y: 1}, {X: 4, Y: 8}},
		Color:  white,
	}, render.WithMode(render.ModeInvert)))
	require.NoError(t, d.Render(render.TagEllipse, render.Ellipse{X: 16, Y: 16, RX: 6, RY: 3, Color: white}))

	w := NewWriter(2)
	require.NoError(t, d.ExportVector(w))
	var out bytes.Buffer
	width, height := d.ExportSize()
	require.NoError(t, Document(&out, width, height, w.Bytes()))

	doc := out.String()
	require.Contains(t, doc, `width="64" height="64" viewBox="0 0 64 64"`)
	require.Contains(t, doc, `<line x1="1" y1="1" x2="21" y2="1" stroke="#FFFFFF" stroke-width="2"`)
	require.Contains(t, doc, `href="data:image/png;base64,`)
	require.Contains(t, doc, `>label</text>`)
	require.Contains(t, doc, `d="M0 0 H64 V64 H0 Z M3 3`)

	elements := map[string]int{}
	dec := xml.NewDecoder(strings.NewReader(doc))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		if se, ok := tok.(xml.StartElement); ok {
			elements[se.Name.Local]++
		}
	}
	require.Equal(t, map[string]int{"svg": 1, "line": 1, "text": 1, "image": 1, "path": 1, "polyline": 1}, elements)
}

func TestWriteTo(t *testing.T) {
	w := NewWriter(1)
	w.FilledRect(0, 0, 1, 1, "#000000")
	var out bytes.Buffer
	n, err := w.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(w.Len()), n)
	require.Equal(t, w.Bytes(), out.Bytes())
}
