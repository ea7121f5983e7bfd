//go:build linux || freebsd || openbsd || netbsd || dragonfly

package clipboard

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestEnsureInitWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")

	initOnce = sync.Once{}
	initErr = nil

	if err := WriteText("<svg/>"); !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay, got %v", err)
	}
	if _, err := WatchImages(context.Background()); !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay from WatchImages, got %v", err)
	}
}
