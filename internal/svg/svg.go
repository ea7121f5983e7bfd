// Package svg collects vector drawing commands as SVG body elements.
//
// A Writer only produces the elements; Document wraps a finished body in the
// svg root element for writing to a file.
package svg

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"image"
	"image/png"
	"io"
	"strconv"
	"strings"

	"github.com/example/overpaint/internal/raster"
	"github.com/example/overpaint/internal/render"
)

var (
	_ render.VectorSink = (*Writer)(nil)
	_ render.TextSink   = (*Writer)(nil)
	_ render.ImageSink  = (*Writer)(nil)
)

// Writer accumulates SVG elements in drawing order.
type Writer struct {
	buf bytes.Buffer
	// StrokeWidth is used for rectangle and circle outlines, which carry no
	// width of their own.
	StrokeWidth float64
}

// NewWriter returns a Writer whose outlines are strokeWidth units wide.
func NewWriter(strokeWidth float64) *Writer {
	if strokeWidth <= 0 {
		strokeWidth = 1
	}
	return &Writer{StrokeWidth: strokeWidth}
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func (w *Writer) Line(x1, y1, x2, y2 float64, stroke string, width float64) {
	fmt.Fprintf(&w.buf, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" stroke-linecap="square"/>`+"\n",
		num(x1), num(y1), num(x2), num(y2), stroke, num(width))
}

func (w *Writer) Polyline(pts []raster.PointF, stroke string, width float64) {
	if len(pts) == 0 {
		return
	}
	coords := make([]string, len(pts))
	for i, p := range pts {
		coords[i] = num(p.X) + "," + num(p.Y)
	}
	fmt.Fprintf(&w.buf, `<polyline points="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="square" stroke-linejoin="miter"/>`+"\n",
		strings.Join(coords, " "), stroke, num(width))
}

func (w *Writer) Rect(x, y, width, height float64, stroke string) {
	fmt.Fprintf(&w.buf, `<rect x="%s" y="%s" width="%s" height="%s" fill="none" stroke="%s" stroke-width="%s"/>`+"\n",
		num(x), num(y), num(width), num(height), stroke, num(w.StrokeWidth))
}

func (w *Writer) FilledRect(x, y, width, height float64, fill string) {
	fmt.Fprintf(&w.buf, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
		num(x), num(y), num(width), num(height), fill)
}

func (w *Writer) Circle(cx, cy, r float64, stroke string) {
	fmt.Fprintf(&w.buf, `<circle cx="%s" cy="%s" r="%s" fill="none" stroke="%s" stroke-width="%s"/>`+"\n",
		num(cx), num(cy), num(r), stroke, num(w.StrokeWidth))
}

func (w *Writer) FilledCircle(cx, cy, r float64, fill string) {
	fmt.Fprintf(&w.buf, `<circle cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n", num(cx), num(cy), num(r), fill)
}

func (w *Writer) Path(d string, fill string) {
	fmt.Fprintf(&w.buf, `<path d="%s" fill="%s" fill-rule="evenodd"/>`+"\n", d, fill)
}

// Text places text with its baseline at y.
func (w *Writer) Text(x, y, size float64, text, fill string) {
	var esc strings.Builder
	_ = xml.EscapeText(&esc, []byte(text))
	fmt.Fprintf(&w.buf, `<text x="%s" y="%s" font-family="Go, sans-serif" font-size="%s" fill="%s" xml:space="preserve">%s</text>`+"\n",
		num(x), num(y), num(size), fill, esc.String())
}

// Image embeds img as a PNG data URI.
func (w *Writer) Image(x, y, width, height float64, img image.Image) error {
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return fmt.Errorf("encode embedded image: %w", err)
	}
	fmt.Fprintf(&w.buf, `<image x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="none" style="image-rendering:pixelated" href="data:image/png;base64,%s"/>`+"\n",
		num(x), num(y), num(width), num(height), base64.StdEncoding.EncodeToString(pngBuf.Bytes()))
	return nil
}

// Bytes returns the elements written so far.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Len returns the size of the body in bytes.
func (w *Writer) Len() int { return w.buf.Len() }

// WriteTo writes the body to dst.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	n, err := dst.Write(w.buf.Bytes())
	return int64(n), err
}

// Document writes a complete SVG file of the given size around body.
func Document(dst io.Writer, width, height float64, body []byte) error {
	_, err := fmt.Fprintf(dst, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" shape-rendering="crispEdges">
`, num(width), num(height), num(width), num(height))
	if err != nil {
		return err
	}
	if _, err := dst.Write(body); err != nil {
		return err
	}
	_, err = io.WriteString(dst, "</svg>\n")
	return err
}
