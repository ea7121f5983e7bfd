package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/overpaint/internal/clipboard"
	"github.com/example/overpaint/internal/config"
	"github.com/example/overpaint/internal/grab"
	"github.com/example/overpaint/internal/options"
	"github.com/example/overpaint/internal/render"
	"github.com/example/overpaint/internal/scene"
)

const (
	defaultWidth  = 640
	defaultHeight = 480
)

var (
	grabScreenFn    = grab.Screen
	readClipboardFn = clipboard.ReadImage
)

var (
	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin
)

// sceneFlags are the flags shared by every command that builds a display
// from a scene file.
type sceneFlags struct {
	backdrop string
	gray     bool
	size     string

	backdropImg image.Image
}

func (s *sceneFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&s.backdrop, "backdrop", "", `image under the scene: a file, "clipboard", or "screen[:monitor]"`)
	fs.BoolVar(&s.gray, "gray", cfg.Gray, "render on a single channel canvas")
	fs.StringVar(&s.size, "size", "", "canvas size WxH when the scene sets none")
}

func loadScene(path string, cfg *config.Config) (*scene.Scene, error) {
	var (
		r   io.Reader
		dir = "."
	)
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
		dir = filepath.Dir(path)
	}
	sc, err := scene.Parse(r, scene.WithFS(os.DirFS(dir)), scene.WithPalette(cfg.Palette))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return sc, nil
}

func (s *sceneFlags) loadBackdrop() (image.Image, error) {
	spec := strings.TrimSpace(s.backdrop)
	switch {
	case spec == "":
		return nil, nil
	case spec == "clipboard":
		img, err := readClipboardFn()
		if err != nil {
			return nil, fmt.Errorf("read clipboard: %w", err)
		}
		return img, nil
	case spec == "screen" || strings.HasPrefix(spec, "screen:"):
		selector := strings.TrimPrefix(strings.TrimPrefix(spec, "screen"), ":")
		img, err := grabScreenFn(selector)
		if err != nil {
			return nil, fmt.Errorf("backdrop: %w", err)
		}
		return img, nil
	}
	f, err := os.Open(spec)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", spec, err)
	}
	return img, nil
}

func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q, expected WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q, both sides must be positive", s)
	}
	if w > scene.MaxSize || h > scene.MaxSize {
		return 0, 0, fmt.Errorf("invalid size %q, sides are limited to %d", s, scene.MaxSize)
	}
	return w, h, nil
}

// build creates a display for sc using the built-in render types and draws
// the scene on it. Option values come from the configuration first and the
// scene's set lines second.
func (s *sceneFlags) build(sc *scene.Scene, cfg *config.Config, extra ...render.DisplayOption) (*render.Display, error) {
	w, h := defaultWidth, defaultHeight
	if s.size != "" {
		var err error
		if w, h, err = parseSize(s.size); err != nil {
			return nil, err
		}
	}
	backdrop, err := s.loadBackdrop()
	if err != nil {
		return nil, err
	}
	s.backdropImg = backdrop
	if backdrop != nil {
		b := backdrop.Bounds()
		w, h = b.Dx(), b.Dy()
	}
	w, h = sc.Size(w, h)

	set := options.NewSet("overpaint")
	reg := render.NewRegistry(set)
	render.RegisterBuiltins(reg)
	if err := set.Apply(cfg.Options); err != nil {
		return nil, fmt.Errorf("config options: %w", err)
	}
	if err := set.Apply(sc.Options); err != nil {
		return nil, err
	}

	bg := cfg.Background
	if sc.Background != nil {
		bg = *sc.Background
	}
	opts := []render.DisplayOption{render.WithBackground(bg), render.WithExportZoom(cfg.ExportZoom)}
	if backdrop != nil {
		opts = append(opts, render.WithBackdrop(backdrop))
	}
	d := render.NewDisplay(reg, w, h, s.gray, append(opts, extra...)...)
	if err := sc.Apply(d); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// outputPath resolves name against the configured output directory. An
// empty name derives one from the scene path and ext.
func outputPath(name, scenePath, ext string, cfg *config.Config) string {
	if name == "" {
		base := "scene"
		if scenePath != "-" {
			base = strings.TrimSuffix(filepath.Base(scenePath), filepath.Ext(scenePath))
		}
		name = base + ext
	}
	if !filepath.IsAbs(name) && cfg.OutputDir != "" {
		return filepath.Join(cfg.OutputDir, name)
	}
	return name
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func encodePNG(img image.Image) func(io.Writer) error {
	return func(w io.Writer) error { return png.Encode(w, img) }
}
