package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"path/filepath"

	"github.com/example/overpaint/internal/canvas"
	"github.com/example/overpaint/internal/clipboard"
	"github.com/example/overpaint/internal/render"
	"github.com/example/overpaint/internal/scene"
	"github.com/example/overpaint/internal/window"
)

var (
	watchClipboardFn = clipboard.WatchImages
	runWindowFn      = func(v *window.Viewer) { v.Run() }
)

// viewCmd shows a scene in a window.
type viewCmd struct {
	scenePath      string
	zoom           float64
	hoverRadius    int
	watchClipboard bool
	sceneFlags
	*root
	fs *flag.FlagSet
}

func (v *viewCmd) FlagSet() *flag.FlagSet {
	return v.fs
}

func parseViewCmd(args []string, r *root) (*viewCmd, error) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	v := &viewCmd{root: r, fs: fs}
	fs.Usage = usageFunc(v)
	cfg := r.settings()
	fs.Float64Var(&v.zoom, "zoom", cfg.Zoom, "initial zoom, 0 fits the scene into the window")
	fs.IntVar(&v.hoverRadius, "hover-radius", 2, "pointer pick radius in canvas pixels")
	fs.BoolVar(&v.watchClipboard, "watch-clipboard", false, "redraw the scene over each image copied to the clipboard")
	v.sceneFlags.register(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: v}
	}
	v.scenePath = fs.Arg(0)
	if v.zoom < 0 {
		return nil, fmt.Errorf("-zoom cannot be negative")
	}
	return v, nil
}

func (v *viewCmd) Run() error {
	cfg := v.settings()
	sc, err := loadScene(v.scenePath, cfg)
	if err != nil {
		return err
	}
	disp, err := v.build(sc, cfg, render.WithZoom(v.zoom))
	if err != nil {
		return fmt.Errorf("view %s: %w", v.scenePath, err)
	}
	defer disp.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if v.watchClipboard {
		images, err := watchClipboardFn(ctx)
		if err != nil {
			log.Printf("clipboard watch disabled: %v", err)
		} else {
			go follow(images, disp, sc)
		}
	}

	title := "overpaint"
	if v.scenePath != "-" {
		title = filepath.Base(v.scenePath)
	}
	runWindowFn(window.New(disp,
		window.WithTitle(title),
		window.WithHoverRadius(v.hoverRadius),
		window.WithOnCopy(v.copy),
		window.WithOnClose(cancel),
	))
	return nil
}

// follow redraws sc over every image received until images is closed.
func follow(images <-chan image.Image, d *render.Display, sc *scene.Scene) {
	for img := range images {
		d.SetBackdrop(img)
		if err := sc.Apply(d); err != nil {
			log.Printf("redraw scene: %v", err)
		}
	}
}

func (v *viewCmd) copy(c *canvas.Canvas) error {
	if err := writeClipboardImageFn(c); err != nil {
		return err
	}
	v.notifyCopy("image")
	return nil
}
