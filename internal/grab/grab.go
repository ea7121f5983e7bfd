// Package grab reads the desktop from the X server so scenes can be drawn
// over a live screenshot.
package grab

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strconv"
	"strings"
)

type platformBackend interface {
	Monitors() ([]Monitor, error)
	Root() (*image.RGBA, error)
}

var backend = newBackend()

var (
	errNoMonitors = errors.New("no monitors available")
	// ErrUnsupported is returned on platforms without an X server client.
	ErrUnsupported = errors.New("screen grabbing is not supported on this platform")
)

// Monitor describes one output in the X screen layout.
type Monitor struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

// Monitors lists the connected outputs.
func Monitors() ([]Monitor, error) {
	return backend.Monitors()
}

// Screen grabs the whole X screen, or the monitor matching selector when it
// is not empty. See FindMonitor for the selector syntax.
func Screen(selector string) (*image.RGBA, error) {
	img, err := backend.Root()
	if err != nil {
		return nil, fmt.Errorf("grab screen: %w", err)
	}
	if strings.TrimSpace(selector) == "" {
		return img, nil
	}
	monitors, err := backend.Monitors()
	if err != nil {
		return nil, fmt.Errorf("grab monitor %q: %w", selector, err)
	}
	mon, err := FindMonitor(monitors, selector)
	if err != nil {
		return nil, err
	}
	return crop(img, mon.Rect)
}

// Region grabs rect in screen coordinates.
func Region(rect image.Rectangle) (*image.RGBA, error) {
	if rect.Empty() {
		return nil, fmt.Errorf("region is empty")
	}
	img, err := backend.Root()
	if err != nil {
		return nil, fmt.Errorf("grab region: %w", err)
	}
	return crop(img, rect)
}

func crop(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside the screen")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}

// FindMonitor resolves a selector: "primary", an index with optional "#",
// or part of an output name. An empty selector picks the first monitor.
func FindMonitor(monitors []Monitor, selector string) (Monitor, error) {
	if len(monitors) == 0 {
		return Monitor{}, errNoMonitors
	}
	sel := strings.ToLower(strings.TrimSpace(selector))
	if sel == "" {
		return monitors[0], nil
	}
	if sel == "primary" {
		for _, mon := range monitors {
			if mon.Primary {
				return mon, nil
			}
		}
		return monitors[0], nil
	}
	if idx, err := strconv.Atoi(strings.TrimPrefix(sel, "#")); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return Monitor{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, mon := range monitors {
		if strings.Contains(strings.ToLower(mon.Name), sel) {
			return mon, nil
		}
	}
	return Monitor{}, fmt.Errorf("monitor %q not found", selector)
}
