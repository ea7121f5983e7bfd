package main

import (
	"flag"
	"fmt"

	"github.com/example/overpaint/internal/clipboard"
)

var writeClipboardImageFn = clipboard.WriteImage

// drawCmd renders a scene file to a PNG image.
type drawCmd struct {
	scenePath   string
	output      string
	stdout      bool
	toClipboard bool
	sceneFlags
	*root
	fs *flag.FlagSet
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.output, "output", "", "output PNG path (defaults to the scene name)")
	fs.BoolVar(&d.stdout, "stdout", false, "write PNG data to stdout")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&d.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	d.sceneFlags.register(fs, r.settings())
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: d}
	}
	d.scenePath = fs.Arg(0)
	if d.stdout && d.output != "" {
		return nil, fmt.Errorf("-stdout cannot be used with -output")
	}
	return d, nil
}

func (d *drawCmd) Run() error {
	cfg := d.settings()
	sc, err := loadScene(d.scenePath, cfg)
	if err != nil {
		return err
	}
	disp, err := d.build(sc, cfg)
	if err != nil {
		return fmt.Errorf("draw %s: %w", d.scenePath, err)
	}
	defer disp.Close()
	img := disp.Snapshot()

	if d.stdout {
		if err := encodePNG(img)(stdout); err != nil {
			return fmt.Errorf("write png: %w", err)
		}
	} else {
		path := outputPath(d.output, d.scenePath, ".png", cfg)
		if err := writeFile(path, encodePNG(img)); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(stdout, "wrote %s (%dx%d)\n", path, img.Width, img.Height)
		d.notifyExport(path, img)
	}

	if d.toClipboard {
		if err := writeClipboardImageFn(img); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		d.notifyCopy("image")
	}
	return nil
}
