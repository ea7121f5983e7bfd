package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"

	"github.com/example/overpaint/internal/clipboard"
	"github.com/example/overpaint/internal/render"
	"github.com/example/overpaint/internal/svg"
)

var writeClipboardTextFn = clipboard.WriteText

// exportCmd writes a scene as SVG.
type exportCmd struct {
	scenePath   string
	output      string
	stdout      bool
	toClipboard bool
	zoom        float64
	strokeWidth float64
	sceneFlags
	*root
	fs *flag.FlagSet
}

func (e *exportCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	e := &exportCmd{root: r, fs: fs}
	fs.Usage = usageFunc(e)
	cfg := r.settings()
	fs.StringVar(&e.output, "output", "", "output SVG path (defaults to the scene name)")
	fs.BoolVar(&e.stdout, "stdout", false, "write the SVG document to stdout")
	fs.BoolVar(&e.toClipboard, "to-clipboard", false, "copy the SVG text to the clipboard")
	fs.BoolVar(&e.toClipboard, "to-clip", false, "copy the SVG text to the clipboard (alias)")
	fs.Float64Var(&e.zoom, "zoom", cfg.ExportZoom, "vector units per content pixel")
	fs.Float64Var(&e.strokeWidth, "stroke-width", 1, "outline width of rectangles and circles in content pixels")
	e.sceneFlags.register(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: e}
	}
	e.scenePath = fs.Arg(0)
	switch {
	case e.zoom < 0:
		return nil, fmt.Errorf("-zoom cannot be negative")
	case e.zoom == 0:
		e.zoom = 1
	}
	if e.stdout && e.output != "" {
		return nil, fmt.Errorf("-stdout cannot be used with -output")
	}
	return e, nil
}

func (e *exportCmd) Run() error {
	cfg := e.settings()
	sc, err := loadScene(e.scenePath, cfg)
	if err != nil {
		return err
	}
	disp, err := e.build(sc, cfg, render.WithExportZoom(e.zoom))
	if err != nil {
		return fmt.Errorf("export %s: %w", e.scenePath, err)
	}
	defer disp.Close()

	width, height := disp.ExportSize()
	w := svg.NewWriter(e.strokeWidth * e.zoom)
	if e.backdropImg != nil {
		if err := w.Image(0, 0, width, height, e.backdropImg); err != nil {
			return err
		}
	}
	if err := disp.ExportVector(w); err != nil {
		return err
	}
	var doc bytes.Buffer
	if err := svg.Document(&doc, width, height, w.Bytes()); err != nil {
		return err
	}

	if e.stdout {
		if _, err := stdout.Write(doc.Bytes()); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
	} else {
		path := outputPath(e.output, e.scenePath, ".svg", cfg)
		err := writeFile(path, func(dst io.Writer) error {
			_, err := dst.Write(doc.Bytes())
			return err
		})
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(stdout, "wrote %s (%d primitives)\n", path, disp.Len())
		e.notifyExport(path, disp.Snapshot())
	}

	if e.toClipboard {
		if err := writeClipboardTextFn(doc.String()); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		e.notifyCopy("SVG")
	}
	return nil
}
