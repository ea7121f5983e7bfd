//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"context"
	"errors"
	"image"
	"log"
	"os"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce     sync.Once
	initErr      error
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
)

func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		initErr = clipboard.Init()
	})
	return initErr
}

// WriteImage encodes the provided image as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}

// ReadImage retrieves PNG image data from the clipboard and decodes it.
func ReadImage() (image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	return decodePNG(clipboard.Read(clipboard.FmtImage))
}

// WriteText publishes text, such as an SVG document, to the clipboard.
func WriteText(text string) error {
	if err := ensureInit(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// WatchImages delivers every image copied to the clipboard until ctx is
// done. Data that does not decode as PNG is logged and dropped.
func WatchImages(ctx context.Context) (<-chan image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	raw := clipboard.Watch(ctx, clipboard.FmtImage)
	out := make(chan image.Image)
	go func() {
		defer close(out)
		for data := range raw {
			img, err := decodePNG(data)
			if err != nil {
				log.Printf("clipboard watch: %v", err)
				continue
			}
			select {
			case out <- img:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
