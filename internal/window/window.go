// Package window shows a render.Display in a desktop window using shiny.
package window

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"strings"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/overpaint/internal/canvas"
	"github.com/example/overpaint/internal/render"
)

const (
	statusHeight = 18
	minZoom      = 1.0 / 16
	maxZoom      = 64
)

// Option configures a Viewer.
type Option func(*Viewer)

// WithTitle sets the text shown in the status bar when nothing is hovered.
func WithTitle(title string) Option { return func(v *Viewer) { v.title = title } }

// WithOnClose registers a callback run after the window closes.
func WithOnClose(fn func()) Option { return func(v *Viewer) { v.onClose = fn } }

// WithOnCopy is called with a snapshot of the canvas when the user presses c.
func WithOnCopy(fn func(*canvas.Canvas) error) Option { return func(v *Viewer) { v.onCopy = fn } }

// WithHoverRadius sets the pick radius used to describe primitives under the
// pointer.
func WithHoverRadius(r int) Option { return func(v *Viewer) { v.hoverRadius = r } }

// Viewer presents a Display and turns keyboard and mouse input into view
// changes. The viewer lock is always taken before any Display call.
type Viewer struct {
	display     *render.Display
	title       string
	width       int
	height      int
	hoverRadius int
	onClose     func()
	onCopy      func(*canvas.Canvas) error

	mu      sync.Mutex
	cursor  image.Point
	hover   []string
	message string
}

// New returns a viewer for d.
func New(d *render.Display, opts ...Option) *Viewer {
	t := d.View()
	v := &Viewer{
		display:     d,
		title:       "overpaint",
		width:       t.CanvasW,
		height:      t.CanvasH,
		hoverRadius: 2,
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Run opens the window and blocks until it is closed.
func (v *Viewer) Run() {
	driver.Main(v.Main)
}

// Main runs the event loop on s.
func (v *Viewer) Main(s screen.Screen) {
	w, err := s.NewWindow(&screen.NewWindowOptions{
		Width:  max(v.width, 64),
		Height: max(v.height, 64) + statusHeight,
		Title:  v.title,
	})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer w.Release()
	defer func() {
		if v.onClose != nil {
			v.onClose()
		}
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case _, ok := <-v.display.Changed():
				if !ok {
					return
				}
				w.Send(paint.Event{})
			}
		}
	}()

	var sz size.Event
	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			sz = e
			v.display.Resize(e.WidthPx, max(e.HeightPx-statusHeight, 0))
		case paint.Event:
			v.drawFrame(s, w, sz)
		case mouse.Event:
			if v.handleMouse(e) {
				w.Send(paint.Event{})
			}
		case key.Event:
			if e.Direction == key.DirRelease {
				continue
			}
			switch v.handleKey(e) {
			case actionQuit:
				return
			case actionNone:
			default:
				w.Send(paint.Event{})
			}
		case error:
			log.Printf("window: %v", e)
		}
	}
}

func (v *Viewer) drawFrame(s screen.Screen, w screen.Window, sz size.Event) {
	if sz.WidthPx <= 0 || sz.HeightPx <= 0 {
		return
	}
	b, err := s.NewBuffer(image.Pt(sz.WidthPx, sz.HeightPx))
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	v.frame(b.RGBA())
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// frame paints the canvas and the status bar into dst.
func (v *Viewer) frame(dst *image.RGBA) {
	v.mu.Lock()
	defer v.mu.Unlock()
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.RGBA{A: 0xff}), image.Point{}, draw.Src)
	area := image.Rect(0, 0, dst.Bounds().Dx(), max(dst.Bounds().Dy()-statusHeight, 0))
	v.display.Present(&bufferPresenter{dst: dst}, area)

	bar := image.Rect(0, area.Max.Y, dst.Bounds().Dx(), dst.Bounds().Dy())
	draw.Draw(dst, bar, image.NewUniform(color.RGBA{0x30, 0x30, 0x30, 0xff}), image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(4, bar.Max.Y-5),
	}
	d.DrawString(v.statusLine())
}

type action int

const (
	actionNone action = iota
	actionView
	actionQuit
	actionCopy
)

func (v *Viewer) handleKey(e key.Event) action {
	v.mu.Lock()
	defer v.mu.Unlock()
	t := v.display.View()
	step := max(int(float64(t.CanvasW)/t.Scale()/8), 1)
	switch {
	case e.Code == key.CodeEscape || e.Rune == 'q':
		return actionQuit
	case e.Rune == '+' || e.Rune == '=':
		v.display.SetZoom(min(t.Scale()*2, maxZoom))
	case e.Rune == '-':
		v.display.SetZoom(max(t.Scale()/2, minZoom))
	case e.Rune == '0':
		v.display.SetZoom(0)
	case e.Rune == '1':
		v.display.SetZoom(1)
	case e.Code == key.CodeLeftArrow:
		v.display.PanBy(-step, 0)
	case e.Code == key.CodeRightArrow:
		v.display.PanBy(step, 0)
	case e.Code == key.CodeUpArrow:
		v.display.PanBy(0, -step)
	case e.Code == key.CodeDownArrow:
		v.display.PanBy(0, step)
	case e.Rune == 'r':
		v.display.Redraw()
	case e.Rune == 'c':
		v.copyLocked()
		return actionCopy
	default:
		return actionNone
	}
	v.message = ""
	v.describeLocked()
	return actionView
}

func (v *Viewer) copyLocked() {
	if v.onCopy == nil {
		v.message = "copy is not available"
		return
	}
	if err := v.onCopy(v.display.Snapshot()); err != nil {
		log.Printf("copy: %v", err)
		v.message = "copy failed: " + err.Error()
		return
	}
	v.message = "copied to clipboard"
}

// handleMouse tracks the pointer and reports whether the status changed.
func (v *Viewer) handleMouse(e mouse.Event) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	p := image.Pt(int(e.X), int(e.Y))
	if p == v.cursor {
		return false
	}
	v.cursor = p
	before := strings.Join(v.hover, "\n")
	v.describeLocked()
	return strings.Join(v.hover, "\n") != before
}

func (v *Viewer) describeLocked() {
	v.hover = v.display.Describe(v.cursor.X, v.cursor.Y, v.hoverRadius)
}

func (v *Viewer) statusLine() string {
	if v.message != "" {
		return v.message
	}
	t := v.display.View()
	x, y := t.Logical(v.cursor.X, v.cursor.Y)
	pos := fmt.Sprintf("%d,%d %s", int(x), int(y), zoomLabel(t.Zoom, t.Scale()))
	switch len(v.hover) {
	case 0:
		return v.title + "  " + pos
	case 1:
		return pos + "  " + v.hover[0]
	default:
		return fmt.Sprintf("%s  %s (+%d more)", pos, v.hover[len(v.hover)-1], len(v.hover)-1)
	}
}

func zoomLabel(zoom, scale float64) string {
	var s string
	if scale >= 1 {
		s = fmt.Sprintf("%gx", scale)
	} else {
		s = fmt.Sprintf("1/%gx", 1/scale)
	}
	if zoom == 0 {
		return "fit " + s
	}
	return s
}

// bufferPresenter copies canvas pixels into an RGBA window buffer.
type bufferPresenter struct {
	dst *image.RGBA
}

func (p *bufferPresenter) Present(c *canvas.Canvas, r image.Rectangle) {
	r = r.Intersect(p.dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		o := p.dst.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			if c.Gray {
				v := c.Pix[y*c.Width+x]
				p.dst.Pix[o], p.dst.Pix[o+1], p.dst.Pix[o+2] = v, v, v
			} else {
				i := 3 * (y*c.Width + x)
				copy(p.dst.Pix[o:o+3], c.Pix[i:i+3])
			}
			p.dst.Pix[o+3] = 0xff
			o += 4
		}
	}
}

var _ render.Presenter = (*bufferPresenter)(nil)
