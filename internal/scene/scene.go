// Package scene reads the line-oriented scene format used by the command
// line tools and replays it onto a render.Display.
//
// Each line is a command name followed by positional numbers and key=value
// or bare-word attributes:
//
//	size 320 200
//	background #202020
//	set polygon.vertices true
//	line 0 0 10 0 color=red width=3
//	polygon 0 0 10 0 5 10 fill
//	ellipse 50 50 20 10 rot=30 start=0 end=270 fill
//	text 4 4 "hello" size=14 color=_,255,_
//	image 10 10 64 64 logo.png shadow
//	clear
//
// Blank lines and lines starting with # or // are ignored.
package scene

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"maps"
	"strconv"
	"strings"

	"github.com/example/overpaint/internal/canvas"
	"github.com/example/overpaint/internal/raster"
	"github.com/example/overpaint/internal/render"
)

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("scene syntax error")

// MaxSize bounds each side of a scene canvas.
const MaxSize = 1 << 14

// Command is one drawing request, or a reset of the display.
type Command struct {
	Line      int
	Reset     bool
	Transient bool
	Tag       render.Tag
	Payload   render.Payload
	Mode      render.DisplayMode
}

// Scene is a parsed scene file.
type Scene struct {
	Width, Height int
	Background    *canvas.Color
	// Options holds option values from set lines, applied before drawing.
	Options  map[string]string
	Commands []Command
}

type parser struct {
	fsys    fs.FS
	palette map[string]canvas.Color
	defCol  canvas.Color
}

// Option configures Parse.
type Option func(*parser)

// WithFS resolves image paths in fsys. Without it image commands fail.
func WithFS(fsys fs.FS) Option { return func(p *parser) { p.fsys = fsys } }

// WithPalette adds named colors that take precedence over the SVG names.
func WithPalette(palette map[string]canvas.Color) Option {
	return func(p *parser) { maps.Copy(p.palette, palette) }
}

// WithDefaultColor sets the color of commands without a color attribute.
func WithDefaultColor(c canvas.Color) Option { return func(p *parser) { p.defCol = c } }

// Parse reads a scene from r.
func Parse(r io.Reader, opts ...Option) (*Scene, error) {
	p := &parser{palette: map[string]canvas.Color{}, defCol: canvas.RGB(255, 255, 255)}
	for _, o := range opts {
		o(p)
	}
	s := &Scene{Options: map[string]string{}}
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		fields, err := split(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if err := p.command(s, n, fields); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

type field struct {
	text   string
	quoted bool
}

// split breaks a line into fields. Double-quoted fields, and attribute
// values, may contain spaces and Go escapes.
func split(line string) ([]field, error) {
	var fields []field
	for {
		line = strings.TrimLeft(line, " \t")
		if line == "" {
			return fields, nil
		}
		if line[0] == '"' || strings.Contains(fieldPrefix(line), "=\"") {
			q := strings.IndexByte(line, '"')
			end := q + 1
			for end < len(line) && line[end] != '"' {
				if line[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(line) {
				return nil, fmt.Errorf("%w: unterminated string", ErrSyntax)
			}
			s, err := strconv.Unquote(line[q : end+1])
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
			}
			fields = append(fields, field{text: line[:q] + s, quoted: q == 0})
			line = line[end+1:]
			continue
		}
		i := strings.IndexAny(line, " \t")
		if i < 0 {
			i = len(line)
		}
		fields = append(fields, field{text: line[:i]})
		line = line[i:]
	}
}

func fieldPrefix(s string) string {
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i]
	}
	return s
}

var flagWords = map[string]bool{"fill": true, "xor": true, "invert": true, "shadow": true, "transient": true}

// args separates positional numbers, attributes, flags and free words.
type args struct {
	pos   []string
	attrs map[string]string
	flags map[string]bool
	words []string
}

func parseArgs(fields []field) args {
	a := args{attrs: map[string]string{}, flags: map[string]bool{}}
	for _, f := range fields {
		if f.quoted {
			a.words = append(a.words, f.text)
			continue
		}
		if k, v, ok := strings.Cut(f.text, "="); ok {
			a.attrs[strings.ToLower(k)] = v
			continue
		}
		if _, err := strconv.ParseFloat(f.text, 64); err == nil {
			a.pos = append(a.pos, f.text)
			continue
		}
		if flagWords[strings.ToLower(f.text)] {
			a.flags[strings.ToLower(f.text)] = true
			continue
		}
		a.words = append(a.words, f.text)
	}
	return a
}

func (a args) nums(lo, hi int) ([]float64, error) {
	if len(a.pos) < lo || (hi >= 0 && len(a.pos) > hi) {
		if lo == hi {
			return nil, fmt.Errorf("%w: want %d numbers, got %d", ErrSyntax, lo, len(a.pos))
		}
		return nil, fmt.Errorf("%w: want at least %d numbers, got %d", ErrSyntax, lo, len(a.pos))
	}
	out := make([]float64, len(a.pos))
	for i, s := range a.pos {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		out[i] = v
	}
	return out, nil
}

func (a args) float(name string, def float64) (float64, error) {
	s, ok := a.attrs[name]
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrSyntax, name, err)
	}
	return v, nil
}

func (a args) int(name string, def int) (int, error) {
	v, err := a.float(name, float64(def))
	return int(v), err
}

func (p *parser) color(s string) (canvas.Color, error) {
	if c, ok := p.palette[strings.ToLower(s)]; ok {
		return c, nil
	}
	c, err := canvas.ParseColor(s)
	if err != nil {
		return canvas.Color{}, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return c, nil
}

func (p *parser) penColor(a args) (canvas.Color, error) {
	s, ok := a.attrs["color"]
	if !ok {
		return p.defCol, nil
	}
	return p.color(s)
}

func (a args) mode() render.DisplayMode {
	var m render.DisplayMode
	if a.flags["fill"] {
		m |= render.ModeFill
	}
	if a.flags["xor"] {
		m |= render.ModeXor
	}
	if a.flags["invert"] {
		m |= render.ModeInvert
	}
	return m
}

func points(v []float64) ([]raster.PointF, error) {
	if len(v)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of coordinates", ErrSyntax)
	}
	pts := make([]raster.PointF, len(v)/2)
	for i := range pts {
		pts[i] = raster.PointF{X: v[2*i], Y: v[2*i+1]}
	}
	return pts, nil
}

func (p *parser) command(s *Scene, line int, fields []field) error {
	name := strings.ToLower(fields[0].text)
	a := parseArgs(fields[1:])
	cmd := Command{Line: line, Mode: a.mode(), Transient: a.flags["transient"]}

	switch name {
	case "size":
		v, err := a.nums(2, 2)
		if err != nil {
			return err
		}
		if v[0] <= 0 || v[1] <= 0 {
			return fmt.Errorf("%w: size must be positive", ErrSyntax)
		}
		if v[0] > MaxSize || v[1] > MaxSize {
			return fmt.Errorf("%w: size is limited to %d per side", ErrSyntax, MaxSize)
		}
		s.Width, s.Height = int(v[0]), int(v[1])
		return nil
	case "background":
		if len(fields) != 2 {
			return fmt.Errorf("%w: background takes one color", ErrSyntax)
		}
		c, err := p.color(fields[1].text)
		if err != nil {
			return err
		}
		s.Background = &c
		return nil
	case "set":
		if len(fields) != 3 {
			return fmt.Errorf("%w: set takes a name and a value", ErrSyntax)
		}
		s.Options[fields[1].text] = fields[2].text
		return nil
	case "clear":
		cmd.Reset = true
		s.Commands = append(s.Commands, cmd)
		return nil
	}

	switch name {
	case "text":
		if len(a.words) == 0 {
			return fmt.Errorf("%w: text without a label", ErrSyntax)
		}
	case "image":
		if len(a.words) > 1 {
			return fmt.Errorf("%w: unexpected %q", ErrSyntax, a.words[1])
		}
	default:
		if len(a.words) > 0 {
			return fmt.Errorf("%w: unexpected %q", ErrSyntax, a.words[0])
		}
	}
	col, err := p.penColor(a)
	if err != nil {
		return err
	}
	width, err := a.float("width", 0)
	if err != nil {
		return err
	}

	switch name {
	case "point":
		v, err := a.nums(2, 2)
		if err != nil {
			return err
		}
		size, err := a.float("size", 0)
		if err != nil {
			return err
		}
		cmd.Tag, cmd.Payload = render.TagPoint, render.Point{X: v[0], Y: v[1], Size: size, Color: col}
	case "line":
		v, err := a.nums(4, 4)
		if err != nil {
			return err
		}
		cmd.Tag, cmd.Payload = render.TagLine, render.Line{X0: v[0], Y0: v[1], X1: v[2], Y1: v[3], Width: width, Color: col}
	case "polyline", "polygon":
		v, err := a.nums(2, -1)
		if err != nil {
			return err
		}
		pts, err := points(v)
		if err != nil {
			return err
		}
		if name == "polyline" {
			cmd.Tag, cmd.Payload = render.TagPolyline, render.Polyline{Points: pts, Width: width, Color: col}
		} else {
			cmd.Tag, cmd.Payload = render.TagPolygon, render.Polygon{Points: pts, Width: width, Color: col}
		}
	case "rect":
		v, err := a.nums(4, 4)
		if err != nil {
			return err
		}
		cmd.Tag, cmd.Payload = render.TagRect, render.Rect{X: v[0], Y: v[1], W: v[2], H: v[3], Width: width, Color: col}
	case "circle":
		v, err := a.nums(3, 3)
		if err != nil {
			return err
		}
		cmd.Tag, cmd.Payload = render.TagCircle, render.Circle{X: v[0], Y: v[1], R: v[2], Width: width, Color: col}
	case "ellipse":
		v, err := a.nums(4, 4)
		if err != nil {
			return err
		}
		e := render.Ellipse{X: v[0], Y: v[1], RX: v[2], RY: v[3], Width: width, Color: col}
		if e.Rot, err = a.int("rot", 0); err != nil {
			return err
		}
		if e.Start, err = a.int("start", 0); err != nil {
			return err
		}
		if e.End, err = a.int("end", 0); err != nil {
			return err
		}
		cmd.Tag, cmd.Payload = render.TagEllipse, e
	case "text":
		v, err := a.nums(2, 2)
		if err != nil {
			return err
		}
		size, err := a.float("size", 0)
		if err != nil {
			return err
		}
		cmd.Tag, cmd.Payload = render.TagText, render.Text{X: v[0], Y: v[1], Text: strings.Join(a.words, " "), Size: size, Color: col}
	case "image":
		v, err := a.nums(4, 4)
		if err != nil {
			return err
		}
		path := a.attrs["src"]
		if len(a.words) == 1 {
			path = a.words[0]
		}
		img, err := p.load(path)
		if err != nil {
			return err
		}
		cmd.Tag, cmd.Payload = render.TagImage, render.Image{X: v[0], Y: v[1], W: v[2], H: v[3], Image: img, Shadow: a.flags["shadow"]}
	default:
		return fmt.Errorf("%w: unknown command %q", ErrSyntax, fields[0].text)
	}
	s.Commands = append(s.Commands, cmd)
	return nil
}

func (p *parser) load(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: image without a path", ErrSyntax)
	}
	if p.fsys == nil {
		return nil, fmt.Errorf("image %s: no file system to load from", path)
	}
	f, err := p.fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", path, err)
	}
	return img, nil
}

// Size returns the scene size, or defW×defH when the scene sets none.
func (s *Scene) Size(defW, defH int) (int, int) {
	if s.Width > 0 && s.Height > 0 {
		return s.Width, s.Height
	}
	return defW, defH
}

// Apply draws every command on d in order. A failing command stops the
// replay and is reported with its line number.
func (s *Scene) Apply(d *render.Display) error {
	for _, c := range s.Commands {
		if c.Reset {
			d.Reset()
			continue
		}
		var opts []render.RenderOption
		if c.Mode != 0 {
			opts = append(opts, render.WithMode(c.Mode))
		}
		if c.Transient {
			opts = append(opts, render.Transient())
		}
		if err := d.Render(c.Tag, c.Payload, opts...); err != nil {
			return fmt.Errorf("line %d: %w", c.Line, err)
		}
	}
	return nil
}
