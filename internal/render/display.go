package render

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/example/overpaint/internal/canvas"
	"github.com/example/overpaint/internal/view"
)

// Display is a canvas together with its view state and replay log. All
// methods are safe for concurrent use; each holds the display lock for its
// whole duration. Code that also holds a user-interface lock must take that
// lock first.
type Display struct {
	mu         sync.Mutex
	reg        *Registry
	canvas     *canvas.Canvas
	view       view.Transform
	log        Log
	exportZoom float64
	background canvas.Color
	backdrop   image.Image

	updateCh chan struct{}
}

// DisplayOption configures a Display at creation.
type DisplayOption func(*Display)

// WithZoom sets the initial zoom; zero fits the content.
func WithZoom(z float64) DisplayOption { return func(d *Display) { d.view.Zoom = max(z, 0) } }

// WithExportZoom sets the scale of vector export.
func WithExportZoom(z float64) DisplayOption { return func(d *Display) { d.exportZoom = z } }

// WithBackground sets the color the canvas is cleared to.
func WithBackground(col canvas.Color) DisplayOption {
	return func(d *Display) { d.background = col }
}

// WithBackdrop shows img underneath every primitive. The content size
// becomes the size of img.
func WithBackdrop(img image.Image) DisplayOption {
	return func(d *Display) { d.backdrop = img }
}

// NewDisplay returns a display of the given size drawing with the types in
// reg. The content size starts equal to the canvas size.
func NewDisplay(reg *Registry, width, height int, gray bool, opts ...DisplayOption) *Display {
	d := &Display{
		reg:        reg,
		canvas:     canvas.New(width, height, gray),
		view:       view.Identity(width, height),
		exportZoom: 1,
		background: canvas.RGB(0, 0, 0),
		updateCh:   make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(d)
	}
	if d.backdrop != nil {
		b := d.backdrop.Bounds()
		d.view.SetContent(b.Dx(), b.Dy())
	}
	d.view.Clamp()
	d.paintBackground()
	return d
}

// RenderOption modifies a single Render call.
type RenderOption func(*renderCall)

type renderCall struct {
	mode       DisplayMode
	transient  bool
	clearFirst bool
}

// Transient draws without logging; the primitive is lost on the next redraw.
func Transient() RenderOption { return func(c *renderCall) { c.transient = true } }

// ClearFirst empties the canvas and the log before drawing.
func ClearFirst() RenderOption { return func(c *renderCall) { c.clearFirst = true } }

// WithMode sets the display mode of the call.
func WithMode(m DisplayMode) RenderOption { return func(c *renderCall) { c.mode = m } }

// Changed is signalled, without blocking, after the picture changes.
func (d *Display) Changed() <-chan struct{} { return d.updateCh }

func (d *Display) notify() {
	select {
	case d.updateCh <- struct{}{}:
	default:
	}
}

func (d *Display) context() *Context {
	return &Context{
		Canvas:     d.canvas,
		View:       d.view,
		ExportZoom: d.exportZoom,
		Options:    d.reg.Options(),
	}
}

// Render draws payload with the type registered under tag and, unless the
// call is transient, logs a copy of it. Failed calls are not logged.
func (d *Display) Render(tag Tag, payload Payload, opts ...RenderOption) error {
	var call renderCall
	for _, o := range opts {
		o(&call)
	}
	desc, ok := d.reg.Lookup(tag)
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownTag, tag)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if call.clearFirst {
		d.log.Clear()
		d.paintBackground()
	}
	if err := desc.Render(d.context(), payload, call.mode); err != nil {
		return fmt.Errorf("render %s: %w", desc.Name(), err)
	}
	if !call.transient {
		d.log.Append(desc, Record{Tag: tag, Payload: desc.Copy(payload), Mode: call.mode})
	}
	d.notify()
	return nil
}

// paintBackground clears the canvas and draws the backdrop.
func (d *Display) paintBackground() {
	d.canvas.Paint(d.background)
	if d.backdrop == nil {
		return
	}
	b := d.backdrop.Bounds()
	x0, y0 := d.view.Edge(0, 0)
	x1, y1 := d.view.Edge(float64(b.Dx()), float64(b.Dy()))
	d.canvas.Blit(d.backdrop, image.Rect(x0, y0, x1, y1))
}

// replay redraws the canvas from the log.
func (d *Display) replay() {
	d.paintBackground()
	ctx := d.context()
	for i, r := range d.log.All() {
		if err := r.desc.Render(ctx, r.Payload, r.Mode); err != nil {
			Logger().Warn("replay skipped record", "index", i, "type", r.desc.Name(), "err", err)
		}
	}
	Logger().Debug("replayed log", "records", d.log.Len())
	d.notify()
}

// Redraw rebuilds the picture from the log.
func (d *Display) Redraw() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.replay()
}

// Resize changes the canvas size, refits the view and replays the log.
func (d *Display) Resize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.canvas.Resize(width, height)
	d.view.SetCanvas(width, height)
	d.replay()
}

// SetContent changes the logical content size. Logged primitives refer to
// the old content, so the log is cleared.
func (d *Display) SetContent(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log.Clear()
	d.backdrop = nil
	d.view.SetContent(width, height)
	d.paintBackground()
	d.notify()
}

// SetBackdrop replaces the image shown underneath the primitives and clears
// the log, like SetContent.
func (d *Display) SetBackdrop(img image.Image) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log.Clear()
	d.backdrop = img
	if img != nil {
		b := img.Bounds()
		d.view.SetContent(b.Dx(), b.Dy())
	}
	d.paintBackground()
	d.notify()
}

// SetZoom changes the zoom and replays the log. Zero fits the content.
func (d *Display) SetZoom(z float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view.SetZoom(z)
	d.replay()
}

// PanBy scrolls the view and replays the log.
func (d *Display) PanBy(dx, dy int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view.PanBy(dx, dy)
	d.replay()
}

// View returns the current transform.
func (d *Display) View() view.Transform {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view
}

// Len returns the number of logged primitives.
func (d *Display) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.log.Len()
}

// Remove drops the logged primitive at index i and replays the rest.
func (d *Display) Remove(i int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log.Remove(i)
	d.replay()
}

// Describe summarises every logged primitive near the canvas pixel (x, y),
// oldest first.
func (d *Display) Describe(x, y, radius int) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	ctx := d.context()
	lx, ly := d.view.Logical(x, y)
	var out []string
	for _, r := range d.log.All() {
		if s, ok := r.desc.Describe(ctx, r.Payload, lx, ly, radius); ok {
			out = append(out, s)
		}
	}
	return out
}

// ExportVector replays the log into sink. Primitives the sink cannot
// express are logged and skipped; any other failure aborts the export.
func (d *Display) ExportVector(sink VectorSink) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	ctx := d.context()
	for i, r := range d.log.All() {
		err := r.desc.RenderVector(ctx, sink, r.Payload, r.Mode)
		if errors.Is(err, ErrUnsupportedFormat) {
			Logger().Warn("export skipped primitive", "index", i, "type", r.desc.Name())
			continue
		}
		if err != nil {
			return fmt.Errorf("export %s #%d: %w", r.desc.Name(), i, err)
		}
	}
	return nil
}

// ExportSize returns the size of the content in vector units.
func (d *Display) ExportSize() (float64, float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ctx := d.context()
	return ctx.S(float64(d.view.ContentW)), ctx.S(float64(d.view.ContentH))
}

// Snapshot returns a copy of the canvas.
func (d *Display) Snapshot() *canvas.Canvas {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.canvas.Clone()
}

// Clear repaints the background without touching the log.
func (d *Display) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paintBackground()
	d.notify()
}

// Reset clears both the canvas and the log.
func (d *Display) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log.Clear()
	d.paintBackground()
	d.notify()
}

// Close frees every logged payload.
func (d *Display) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log.Clear()
}

// Present hands the region r of the canvas to p.
func (d *Display) Present(p Presenter, r image.Rectangle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p.Present(d.canvas, r.Intersect(d.canvas.Bounds()))
}
