package render

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/example/overpaint/internal/canvas"
	"github.com/example/overpaint/internal/options"
	"github.com/example/overpaint/internal/raster"
)

// Option names registered by the built-in types.
const (
	OptPolygonVertices = "polygon.vertices"
	OptLineBBox        = "line.bbox"
)

// shape is implemented by the built-in payload types.
type shape[T any] interface {
	draw(ctx *Context, mode DisplayMode) error
	vector(ctx *Context, sink VectorSink, mode DisplayMode) error
	// bounds is the logical extent used for hit testing.
	bounds() (x0, y0, x1, y1 float64)
	summary() string
	clone() T
}

// builtin adapts a payload type to Descriptor.
type builtin[T shape[T]] struct {
	name string
	init func(set *options.Set)
}

func (b *builtin[T]) Name() string { return b.name }

func (b *builtin[T]) InitOptions(set *options.Set) {
	if b.init != nil {
		b.init(set)
	}
}

func (b *builtin[T]) payload(p Payload) (T, error) {
	s, ok := p.(T)
	if !ok {
		return s, fmt.Errorf("%w: %s cannot draw %T", ErrBadPayload, b.name, p)
	}
	return s, nil
}

func (b *builtin[T]) Copy(p Payload) Payload {
	s, err := b.payload(p)
	if err != nil {
		return p
	}
	return s.clone()
}

func (b *builtin[T]) Free(Payload) {}

func (b *builtin[T]) Render(ctx *Context, p Payload, mode DisplayMode) error {
	s, err := b.payload(p)
	if err != nil {
		return err
	}
	return s.draw(ctx, mode)
}

func (b *builtin[T]) Describe(ctx *Context, p Payload, x, y float64, radius int) (string, bool) {
	s, err := b.payload(p)
	if err != nil {
		return "", false
	}
	slack := float64(max(radius, 1)) / 2 / ctx.View.Scale()
	x0, y0, x1, y1 := s.bounds()
	if x < x0-slack || x > x1+slack || y < y0-slack || y > y1+slack {
		return "", false
	}
	dx, dy := ctx.View.Edge(x, y)
	mean, n := ctx.Canvas.Mean(dx, dy, radius)
	if n == 0 {
		return s.summary(), true
	}
	return fmt.Sprintf("%s; mean %.0f,%.0f,%.0f over %d px", s.summary(), mean[0], mean[1], mean[2], n), true
}

func (b *builtin[T]) RenderVector(ctx *Context, sink VectorSink, p Payload, mode DisplayMode) error {
	s, err := b.payload(p)
	if err != nil {
		return err
	}
	return s.vector(ctx, sink, mode)
}

// RegisterBuiltins installs the built-in primitive types under their fixed
// tags.
func RegisterBuiltins(r *Registry) {
	r.Register(TagPoint, &builtin[Point]{name: "point"})
	r.Register(TagLine, &builtin[Line]{name: "line", init: func(set *options.Set) {
		set.Bool(OptLineBBox, false, "outline the bounding box of every line")
	}})
	r.Register(TagPolyline, &builtin[Polyline]{name: "polyline"})
	r.Register(TagRect, &builtin[Rect]{name: "rect"})
	r.Register(TagPolygon, &builtin[Polygon]{name: "polygon", init: func(set *options.Set) {
		set.Bool(OptPolygonVertices, false, "mark polygon vertices")
	}})
	r.Register(TagCircle, &builtin[Circle]{name: "circle"})
	r.Register(TagEllipse, &builtin[Ellipse]{name: "ellipse"})
	r.Register(TagText, &builtin[Text]{name: "text"})
	r.Register(TagImage, &builtin[Image]{name: "image"})
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// pathData builds SVG path data through pts in vector units.
func pathData(ctx *Context, pts []raster.PointF, closed bool) string {
	var sb strings.Builder
	for i, p := range pts {
		if i == 0 {
			sb.WriteString("M")
		} else {
			sb.WriteString(" L")
		}
		sb.WriteString(num(ctx.V(p.X)))
		sb.WriteString(" ")
		sb.WriteString(num(ctx.V(p.Y)))
	}
	if closed && len(pts) > 0 {
		sb.WriteString(" Z")
	}
	return sb.String()
}

// invertPath prefixes d with the content rectangle so an even-odd fill
// covers everything outside d.
func invertPath(ctx *Context, d string) string {
	w, h := ctx.S(float64(ctx.View.ContentW)), ctx.S(float64(ctx.View.ContentH))
	return fmt.Sprintf("M0 0 H%s V%s H0 Z %s", num(w), num(h), d)
}

func devicePoly(ctx *Context, pts []raster.PointF) raster.Polygon {
	poly := make(raster.Polygon, len(pts))
	for i, p := range pts {
		poly[i].X, poly[i].Y = ctx.View.Edge(p.X, p.Y)
	}
	return poly
}

func pointBounds(pts []raster.PointF) (x0, y0, x1, y1 float64) {
	if len(pts) == 0 {
		return math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)
	}
	x0, y0, x1, y1 = pts[0].X, pts[0].Y, pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		x0, x1 = min(x0, p.X), max(x1, p.X)
		y0, y1 = min(y0, p.Y), max(y1, p.Y)
	}
	return
}

// Point is a single pixel, or a dot of diameter Size.
type Point struct {
	X, Y  float64
	Size  float64
	Color canvas.Color
}

func (p Point) draw(ctx *Context, mode DisplayMode) error {
	ctx.pen(p.Color, p.Size, mode)
	ctx.Canvas.DrawPoint(ctx.View.Anchor(p.X, p.Y))
	return nil
}

// vector mirrors draw: the dot radius is half the integer pen width at the
// export zoom, as the canvas computes it at the view zoom.
func (p Point) vector(ctx *Context, sink VectorSink, _ DisplayMode) error {
	w := penWidth(p.Size, ctx.zoom())
	if w <= 1 {
		sink.FilledRect(ctx.S(p.X), ctx.S(p.Y), ctx.S(1), ctx.S(1), p.Color.Hex())
		return nil
	}
	sink.FilledCircle(ctx.V(p.X), ctx.V(p.Y), float64(w/2), p.Color.Hex())
	return nil
}

func (p Point) bounds() (float64, float64, float64, float64) {
	r := max(p.Size, 1) / 2
	return p.X - r, p.Y - r, p.X + r, p.Y + r
}

func (p Point) summary() string {
	return fmt.Sprintf("point %s,%s %s", num(p.X), num(p.Y), p.Color.Hex())
}

func (p Point) clone() Point { return p }

// Line is a straight segment with both ends included.
type Line struct {
	X0, Y0, X1, Y1 float64
	Width          float64
	Color          canvas.Color
}

func (l Line) draw(ctx *Context, mode DisplayMode) error {
	ctx.pen(l.Color, l.Width, mode)
	x0, y0 := ctx.View.Edge(l.X0, l.Y0)
	x1, y1 := ctx.View.Edge(l.X1, l.Y1)
	ctx.Canvas.DrawLine(x0, y0, x1, y1)
	if ctx.Bool(OptLineBBox) {
		ctx.Canvas.Mode = canvas.Xor
		ctx.Canvas.LineWidth = 1
		ctx.Canvas.DrawRect(image.Rect(x0, y0, x1, y1).Canon().Inset(-1))
	}
	return nil
}

func (l Line) vector(ctx *Context, sink VectorSink, _ DisplayMode) error {
	sink.Line(ctx.V(l.X0), ctx.V(l.Y0), ctx.V(l.X1), ctx.V(l.Y1), l.Color.Hex(), ctx.S(max(l.Width, 1)))
	return nil
}

func (l Line) bounds() (float64, float64, float64, float64) {
	w := max(l.Width, 1) / 2
	return min(l.X0, l.X1) - w, min(l.Y0, l.Y1) - w, max(l.X0, l.X1) + w, max(l.Y0, l.Y1) + w
}

func (l Line) summary() string {
	return fmt.Sprintf("line %s,%s-%s,%s width %s %s", num(l.X0), num(l.Y0), num(l.X1), num(l.Y1), num(max(l.Width, 1)), l.Color.Hex())
}

func (l Line) clone() Line { return l }

// Polyline strokes connected segments. It is not closed.
type Polyline struct {
	Points []raster.PointF
	Width  float64
	Color  canvas.Color
}

func (p Polyline) draw(ctx *Context, mode DisplayMode) error {
	ctx.pen(p.Color, p.Width, mode)
	ctx.Canvas.DrawPolygon(devicePoly(ctx, p.Points))
	return nil
}

func (p Polyline) vector(ctx *Context, sink VectorSink, _ DisplayMode) error {
	pts := make([]raster.PointF, len(p.Points))
	for i, v := range p.Points {
		pts[i] = raster.PointF{X: ctx.V(v.X), Y: ctx.V(v.Y)}
	}
	sink.Polyline(pts, p.Color.Hex(), ctx.S(max(p.Width, 1)))
	return nil
}

func (p Polyline) bounds() (float64, float64, float64, float64) { return pointBounds(p.Points) }

func (p Polyline) summary() string {
	return fmt.Sprintf("polyline of %d points %s", len(p.Points), p.Color.Hex())
}

func (p Polyline) clone() Polyline {
	p.Points = slices.Clone(p.Points)
	return p
}

// Rect is an axis-aligned rectangle covering W×H logical pixels.
type Rect struct {
	X, Y, W, H float64
	Width      float64
	Color      canvas.Color
}

func (r Rect) corners() []raster.PointF {
	return []raster.PointF{{X: r.X, Y: r.Y}, {X: r.X + r.W, Y: r.Y}, {X: r.X + r.W, Y: r.Y + r.H}, {X: r.X, Y: r.Y + r.H}}
}

func (r Rect) draw(ctx *Context, mode DisplayMode) error {
	ctx.pen(r.Color, r.Width, mode)
	x0, y0 := ctx.View.Edge(r.X, r.Y)
	x1, y1 := ctx.View.Edge(r.X+r.W, r.Y+r.H)
	switch {
	case mode.Has(ModeInvert):
		return ctx.Canvas.FillPolygon(devicePoly(ctx, r.corners()), true)
	case mode.Has(ModeFill):
		ctx.Canvas.FillRect(image.Rect(x0, y0, x1, y1))
	default:
		ctx.Canvas.DrawRect(image.Rect(x0, y0, x1, y1))
	}
	return nil
}

func (r Rect) vector(ctx *Context, sink VectorSink, mode DisplayMode) error {
	col := r.Color.Hex()
	switch {
	case mode.Has(ModeInvert):
		d := fmt.Sprintf("M%s %s h%s v%s h%s Z", num(ctx.S(r.X)), num(ctx.S(r.Y)), num(ctx.S(r.W)), num(ctx.S(r.H)), num(-ctx.S(r.W)))
		sink.Path(invertPath(ctx, d), col)
	case mode.Has(ModeFill):
		sink.FilledRect(ctx.S(r.X), ctx.S(r.Y), ctx.S(r.W), ctx.S(r.H), col)
	default:
		sink.Rect(ctx.V(r.X), ctx.V(r.Y), ctx.S(max(r.W-1, 0)), ctx.S(max(r.H-1, 0)), col)
	}
	return nil
}

func (r Rect) bounds() (float64, float64, float64, float64) {
	return r.X, r.Y, r.X + r.W, r.Y + r.H
}

func (r Rect) summary() string {
	return fmt.Sprintf("rect %s,%s %sx%s %s", num(r.X), num(r.Y), num(r.W), num(r.H), r.Color.Hex())
}

func (r Rect) clone() Rect { return r }

// Polygon is a closed polygon. Fills use the even-odd rule.
type Polygon struct {
	Points []raster.PointF
	Width  float64
	Color  canvas.Color
}

func (p Polygon) draw(ctx *Context, mode DisplayMode) error {
	ctx.pen(p.Color, p.Width, mode)
	poly := devicePoly(ctx, p.Points)
	var err error
	switch {
	case mode.Has(ModeInvert):
		err = ctx.Canvas.FillPolygon(poly, true)
	case mode.Has(ModeFill):
		err = ctx.Canvas.FillPolygon(poly, false)
	case len(poly) > 0:
		ctx.Canvas.DrawPolygon(append(poly, poly[0]))
	}
	if err != nil {
		return err
	}
	if ctx.Bool(OptPolygonVertices) {
		ctx.Canvas.LineWidth = 1
		for _, v := range p.Points {
			x, y := ctx.View.Anchor(v.X, v.Y)
			ctx.Canvas.DrawCircle(x, y, 2)
		}
	}
	return nil
}

func (p Polygon) vector(ctx *Context, sink VectorSink, mode DisplayMode) error {
	if len(p.Points) < 3 && mode&(ModeFill|ModeInvert) != 0 {
		return nil
	}
	col := p.Color.Hex()
	switch {
	case mode.Has(ModeInvert):
		sink.Path(invertPath(ctx, pathData(ctx, p.Points, true)), col)
	case mode.Has(ModeFill):
		sink.Path(pathData(ctx, p.Points, true), col)
	default:
		pts := make([]raster.PointF, 0, len(p.Points)+1)
		for _, v := range p.Points {
			pts = append(pts, raster.PointF{X: ctx.V(v.X), Y: ctx.V(v.Y)})
		}
		if len(pts) > 0 {
			pts = append(pts, pts[0])
		}
		sink.Polyline(pts, col, ctx.S(max(p.Width, 1)))
	}
	return nil
}

func (p Polygon) bounds() (float64, float64, float64, float64) { return pointBounds(p.Points) }

func (p Polygon) summary() string {
	return fmt.Sprintf("polygon of %d vertices %s", len(p.Points), p.Color.Hex())
}

func (p Polygon) clone() Polygon {
	p.Points = slices.Clone(p.Points)
	return p
}

// Circle is centred on a point-like anchor.
type Circle struct {
	X, Y, R float64
	Width   float64
	Color   canvas.Color
}

func (c Circle) draw(ctx *Context, mode DisplayMode) error {
	ctx.pen(c.Color, c.Width, mode)
	x, y := ctx.View.Anchor(c.X, c.Y)
	r := ctx.View.Length(c.R)
	if mode.Has(ModeFill) {
		ctx.Canvas.FillCircle(x, y, r)
	} else {
		ctx.Canvas.DrawCircle(x, y, r)
	}
	return nil
}

func (c Circle) vector(ctx *Context, sink VectorSink, mode DisplayMode) error {
	if mode.Has(ModeFill) {
		sink.FilledCircle(ctx.V(c.X), ctx.V(c.Y), ctx.S(c.R), c.Color.Hex())
	} else {
		sink.Circle(ctx.V(c.X), ctx.V(c.Y), ctx.S(c.R), c.Color.Hex())
	}
	return nil
}

func (c Circle) bounds() (float64, float64, float64, float64) {
	return c.X - c.R, c.Y - c.R, c.X + c.R, c.Y + c.R
}

func (c Circle) summary() string {
	return fmt.Sprintf("circle %s,%s r %s %s", num(c.X), num(c.Y), num(c.R), c.Color.Hex())
}

func (c Circle) clone() Circle { return c }

// Ellipse is an arc of a rotated ellipse; angles are in degrees. Filled
// partial arcs are pie slices.
type Ellipse struct {
	X, Y, RX, RY    float64
	Rot, Start, End int
	Width           float64
	Color           canvas.Color
}

func (e Ellipse) draw(ctx *Context, mode DisplayMode) error {
	ctx.pen(e.Color, e.Width, mode)
	x, y := ctx.View.Anchor(e.X, e.Y)
	rx, ry := ctx.View.Length(e.RX), ctx.View.Length(e.RY)
	ctx.Canvas.DrawEllipse(x, y, rx, ry, e.Rot, e.Start, e.End, mode.Has(ModeFill))
	return nil
}

// outline returns the arc in logical coordinates, sampled like
// raster.Ellipse but without rounding.
func (e Ellipse) outline() []raster.PointF {
	at := func(deg float64) raster.PointF {
		t, r := deg*math.Pi/180, float64(e.Rot)*math.Pi/180
		x, y := e.RX*math.Cos(t), e.RY*math.Sin(t)
		return raster.PointF{
			X: e.X + x*math.Cos(r) - y*math.Sin(r),
			Y: e.Y + x*math.Sin(r) + y*math.Cos(r),
		}
	}
	if raster.FullArc(e.Start, e.End) {
		pts := make([]raster.PointF, 180)
		for i := range pts {
			pts[i] = at(float64(e.Start + 2*i))
		}
		return pts
	}
	span := e.End - e.Start
	if span < 0 {
		span += 360
	}
	k := min(max((span+1)/2, 1), 179)
	pts := make([]raster.PointF, k+1)
	for i := range pts {
		pts[i] = at(float64(e.Start) + float64(i*span)/float64(k))
	}
	return pts
}

func (e Ellipse) vector(ctx *Context, sink VectorSink, mode DisplayMode) error {
	pts := e.outline()
	full := raster.FullArc(e.Start, e.End)
	col := e.Color.Hex()
	if mode.Has(ModeFill) {
		if !full {
			pts = append(pts, raster.PointF{X: e.X, Y: e.Y})
		}
		sink.Path(pathData(ctx, pts, true), col)
		return nil
	}
	if full {
		pts = append(pts, pts[0])
	}
	out := make([]raster.PointF, len(pts))
	for i, p := range pts {
		out[i] = raster.PointF{X: ctx.V(p.X), Y: ctx.V(p.Y)}
	}
	sink.Polyline(out, col, ctx.S(max(e.Width, 1)))
	return nil
}

func (e Ellipse) bounds() (float64, float64, float64, float64) {
	r := max(e.RX, e.RY)
	return e.X - r, e.Y - r, e.X + r, e.Y + r
}

func (e Ellipse) summary() string {
	return fmt.Sprintf("ellipse %s,%s r %sx%s rot %d arc %d..%d %s", num(e.X), num(e.Y), num(e.RX), num(e.RY), e.Rot, e.Start, e.End, e.Color.Hex())
}

func (e Ellipse) clone() Ellipse { return e }

// Text is a label with its top-left corner at X, Y. A Size of zero uses the
// built-in bitmap face.
type Text struct {
	X, Y  float64
	Text  string
	Size  float64
	Color canvas.Color
}

func (t Text) draw(ctx *Context, mode DisplayMode) error {
	ctx.pen(t.Color, 1, mode)
	size := t.Size
	if size > 0 {
		size *= ctx.View.Scale()
	}
	face, err := canvas.Face(size)
	if err != nil {
		return err
	}
	x, y := ctx.View.Edge(t.X, t.Y)
	ctx.Canvas.DrawText(x, y, t.Text, face)
	return nil
}

func (t Text) metrics() (w, h, baseline int) {
	face, err := canvas.Face(t.Size)
	if err != nil {
		return 0, 0, 0
	}
	return canvas.MeasureText(face, t.Text)
}

func (t Text) vector(ctx *Context, sink VectorSink, _ DisplayMode) error {
	ts, ok := sink.(TextSink)
	if !ok {
		return ErrUnsupportedFormat
	}
	_, h, baseline := t.metrics()
	size := t.Size
	if size <= 0 {
		size = float64(h)
	}
	ts.Text(ctx.S(t.X), ctx.S(t.Y+float64(baseline)), ctx.S(size), t.Text, t.Color.Hex())
	return nil
}

func (t Text) bounds() (float64, float64, float64, float64) {
	w, h, _ := t.metrics()
	return t.X, t.Y, t.X + float64(w), t.Y + float64(h)
}

func (t Text) summary() string {
	return fmt.Sprintf("text %q at %s,%s %s", t.Text, num(t.X), num(t.Y), t.Color.Hex())
}

func (t Text) clone() Text { return t }

// Image places a raster image scaled to W×H. Zero W or H take the image's
// own size. With Shadow set a drop shadow is drawn underneath.
type Image struct {
	X, Y, W, H float64
	Image      image.Image
	Shadow     bool
}

func (m Image) size() (float64, float64) {
	w, h := m.W, m.H
	if m.Image != nil {
		b := m.Image.Bounds()
		if w <= 0 {
			w = float64(b.Dx())
		}
		if h <= 0 {
			h = float64(b.Dy())
		}
	}
	return w, h
}

func (m Image) draw(ctx *Context, _ DisplayMode) error {
	if m.Image == nil {
		return fmt.Errorf("%w: image payload without image", ErrBadPayload)
	}
	w, h := m.size()
	x0, y0 := ctx.View.Edge(m.X, m.Y)
	x1, y1 := ctx.View.Edge(m.X+w, m.Y+h)
	r := image.Rect(x0, y0, x1, y1)
	if m.Shadow {
		ctx.Canvas.Shadow(r, ctx.View.Length(8), image.Pt(ctx.View.Length(4), ctx.View.Length(4)), 0.55)
	}
	ctx.Canvas.Blit(m.Image, r)
	return nil
}

func (m Image) vector(ctx *Context, sink VectorSink, _ DisplayMode) error {
	is, ok := sink.(ImageSink)
	if !ok || m.Image == nil {
		return ErrUnsupportedFormat
	}
	w, h := m.size()
	return is.Image(ctx.S(m.X), ctx.S(m.Y), ctx.S(w), ctx.S(h), m.Image)
}

func (m Image) bounds() (float64, float64, float64, float64) {
	w, h := m.size()
	return m.X, m.Y, m.X + w, m.Y + h
}

func (m Image) summary() string {
	w, h := m.size()
	return fmt.Sprintf("image %s,%s %sx%s", num(m.X), num(m.Y), num(w), num(h))
}

// clone copies the pixels so later changes to the source do not leak into
// the log.
func (m Image) clone() Image {
	if m.Image == nil {
		return m
	}
	b := m.Image.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, m.Image, b.Min, draw.Src)
	m.Image = dst
	return m
}
