// Package render dispatches drawing requests to pluggable render types,
// records them per display and replays them for redraw and vector export.
//
// A render type is a Descriptor registered under a Tag in a Registry. A
// Display owns a canvas, its zoom and pan state and a replay Log; every
// successful Display.Render call appends a private copy of its payload to
// the log so the picture can be rebuilt after a resize or re-expressed as
// vector graphics without asking the application to draw again.
package render

import (
	"errors"
	"image"
	"math"
	"strconv"

	"github.com/example/overpaint/internal/canvas"
	"github.com/example/overpaint/internal/options"
	"github.com/example/overpaint/internal/raster"
	"github.com/example/overpaint/internal/view"
)

// Tag identifies a render type.
type Tag int

const (
	// Auto asks Register to pick a free tag.
	Auto Tag = -1
	// FirstUserTag is the lowest tag handed out by Auto.
	FirstUserTag Tag = 64
)

// Built-in render types installed by RegisterBuiltins.
const (
	TagPoint Tag = iota + 1
	TagLine
	TagPolyline
	TagRect
	TagPolygon
	TagCircle
	TagEllipse
	TagText
	TagImage
)

func (t Tag) String() string {
	if t == Auto {
		return "auto"
	}
	return "tag " + strconv.Itoa(int(t))
}

// DisplayMode modifies how a payload is drawn.
type DisplayMode uint

const (
	// ModeFill fills closed shapes instead of stroking them.
	ModeFill DisplayMode = 1 << iota
	// ModeXor combines with the canvas by exclusive or.
	ModeXor
	// ModeInvert fills everything outside a closed shape.
	ModeInvert
)

// Has reports whether every bit of f is set in m.
func (m DisplayMode) Has(f DisplayMode) bool { return m&f == f }

// Payload is the type-specific data of one render call.
type Payload any

var (
	// ErrUnknownTag is returned for tags that were never registered.
	ErrUnknownTag = errors.New("render: unknown type tag")
	// ErrUnsupportedFormat is returned by RenderVector when a payload cannot
	// be expressed on the given sink.
	ErrUnsupportedFormat = errors.New("render: unsupported vector format")
	// ErrBadPayload is returned when a payload does not match its tag.
	ErrBadPayload = errors.New("render: payload does not match type")
)

// Descriptor implements one render type.
type Descriptor interface {
	// Name is the short identifier used in scene files and logs.
	Name() string
	// InitOptions registers the type's user-facing options.
	InitOptions(set *options.Set)
	// Copy returns a copy of p that shares no mutable state with it.
	Copy(p Payload) Payload
	// Free releases a logged copy. It is called exactly once per copy.
	Free(p Payload)
	Render(ctx *Context, p Payload, mode DisplayMode) error
	// Describe summarises p when the logical point (x, y) is near it. radius
	// is the side of the device window averaged for the pixel summary.
	Describe(ctx *Context, p Payload, x, y float64, radius int) (string, bool)
	RenderVector(ctx *Context, sink VectorSink, p Payload, mode DisplayMode) error
}

// Funcs adapts plain functions to Descriptor. Nil fields fall back to
// sharing the payload, doing nothing, or reporting ErrUnsupportedFormat.
type Funcs struct {
	TypeName     string
	Init         func(set *options.Set)
	CopyFunc     func(p Payload) Payload
	FreeFunc     func(p Payload)
	RenderFunc   func(ctx *Context, p Payload, mode DisplayMode) error
	DescribeFunc func(ctx *Context, p Payload, x, y float64, radius int) (string, bool)
	VectorFunc   func(ctx *Context, sink VectorSink, p Payload, mode DisplayMode) error
}

func (f *Funcs) Name() string { return f.TypeName }

func (f *Funcs) InitOptions(set *options.Set) {
	if f.Init != nil {
		f.Init(set)
	}
}

func (f *Funcs) Copy(p Payload) Payload {
	if f.CopyFunc == nil {
		return p
	}
	return f.CopyFunc(p)
}

func (f *Funcs) Free(p Payload) {
	if f.FreeFunc != nil {
		f.FreeFunc(p)
	}
}

func (f *Funcs) Render(ctx *Context, p Payload, mode DisplayMode) error {
	if f.RenderFunc == nil {
		return nil
	}
	return f.RenderFunc(ctx, p, mode)
}

func (f *Funcs) Describe(ctx *Context, p Payload, x, y float64, radius int) (string, bool) {
	if f.DescribeFunc == nil {
		return "", false
	}
	return f.DescribeFunc(ctx, p, x, y, radius)
}

func (f *Funcs) RenderVector(ctx *Context, sink VectorSink, p Payload, mode DisplayMode) error {
	if f.VectorFunc == nil {
		return ErrUnsupportedFormat
	}
	return f.VectorFunc(ctx, sink, p, mode)
}

// VectorSink receives drawing commands in vector units. Colors are #RRGGBB.
type VectorSink interface {
	Line(x1, y1, x2, y2 float64, stroke string, width float64)
	Polyline(pts []raster.PointF, stroke string, width float64)
	Rect(x, y, w, h float64, stroke string)
	FilledRect(x, y, w, h float64, fill string)
	Circle(cx, cy, r float64, stroke string)
	FilledCircle(cx, cy, r float64, fill string)
	// Path fills SVG path data with the even-odd rule.
	Path(d string, fill string)
}

// TextSink is implemented by sinks that can place text.
type TextSink interface {
	Text(x, y, size float64, text, fill string)
}

// ImageSink is implemented by sinks that can embed raster images.
type ImageSink interface {
	Image(x, y, w, h float64, img image.Image) error
}

// Presenter is the windowing side that shows a region of a canvas.
type Presenter interface {
	Present(c *canvas.Canvas, r image.Rectangle)
}

// Context is handed to every descriptor call. It is built fresh for each
// call and never kept by descriptors.
type Context struct {
	Canvas     *canvas.Canvas
	View       view.Transform
	ExportZoom float64
	Options    *options.Set
}

// Bool reads a boolean option; missing options read as false.
func (c *Context) Bool(name string) bool {
	if c.Options == nil {
		return false
	}
	opt, ok := c.Options.Lookup(name)
	if !ok {
		return false
	}
	v, _ := strconv.ParseBool(opt.Value)
	return v
}

func (c *Context) zoom() float64 {
	if c.ExportZoom <= 0 {
		return 1
	}
	return c.ExportZoom
}

// V maps a logical coordinate to vector units. Pixel (x, y) of a zoom 1
// raster is centred on vector point (x+0.5, y+0.5).
func (c *Context) V(v float64) float64 { return (v + 0.5) * c.zoom() }

// S scales a logical length to vector units.
func (c *Context) S(v float64) float64 { return v * c.zoom() }

// penWidth is the integer pen width of a logical width at scale.
func penWidth(width, scale float64) int {
	return max(int(math.Round(width*scale)), 1)
}

// pen prepares the canvas for one primitive.
func (c *Context) pen(col canvas.Color, width float64, mode DisplayMode) {
	c.Canvas.Color = col
	c.Canvas.LineWidth = penWidth(width, c.View.Scale())
	c.Canvas.Mode = canvas.Overwrite
	if mode.Has(ModeXor) {
		c.Canvas.Mode = canvas.Xor
	}
}
